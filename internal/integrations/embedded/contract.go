package embedded

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/get_available_slots"
)

// CatalogService каталог моделей
type CatalogService interface {
	ListModels(ctx context.Context) ([]domain.BookableModel, error)
	ResolveSlug(ctx context.Context, slug string) (string, error)
}

// SlotsUseCase use case получения слотов
type SlotsUseCase interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// CreateBookingUseCase use case создания бронирования
type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}
