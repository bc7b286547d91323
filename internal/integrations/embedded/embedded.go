package embedded

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/catalog"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/get_available_slots"
)

const (
	msgSlotsUnavailable = "не удалось загрузить расписание, попробуйте позже"
	msgServiceNotFound  = "услуга недоступна"
	msgPastDate         = "нельзя записаться на прошедшую дату"
	msgTooFar           = "на эту дату запись пока не открыта"
)

// Catalog каталог моделей из локальной БД
type Catalog struct {
	service CatalogService
}

// NewCatalog создает адаптер каталога
func NewCatalog(service CatalogService) *Catalog {
	return &Catalog{service: service}
}

// ListBookableModels возвращает активные модели
func (c *Catalog) ListBookableModels(ctx context.Context) ([]domain.BookableModel, error) {
	return c.service.ListModels(ctx)
}

// ResolveModelSlug возвращает ID модели по slug
func (c *Catalog) ResolveModelSlug(ctx context.Context, slug string) (string, error) {
	id, err := c.service.ResolveSlug(ctx, slug)
	if errors.Is(err, catalog.ErrModelNotFound) || errors.Is(err, catalog.ErrInvalidInput) {
		return "", domain.ErrModelNotFound
	}
	return id, err
}

// Scheduling расписание и бронирования из локальной БД
type Scheduling struct {
	slots  SlotsUseCase
	create CreateBookingUseCase
}

// NewScheduling создает адаптер расписания
func NewScheduling(slots SlotsUseCase, create CreateBookingUseCase) *Scheduling {
	return &Scheduling{slots: slots, create: create}
}

// GetAvailableSlots возвращает слоты услуги на дату
func (s *Scheduling) GetAvailableSlots(ctx context.Context, modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error) {
	resp, err := s.slots.Execute(ctx, &get_available_slots.Request{
		ModelID:   modelID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		return nil, slotsRejection(err)
	}

	slots := make([]domain.TimeSlot, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, domain.TimeSlot{
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
		})
	}
	return slots, nil
}

// SubmitBooking создает бронирование; ошибки возвращаются как *domain.Rejection
func (s *Scheduling) SubmitBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingConfirmation, error) {
	resp, err := s.create.Execute(ctx, create_booking.FromBookingRequest(req))
	if err != nil {
		return nil, create_booking.ToRejection(err)
	}
	return resp.ToConfirmation(), nil
}

func slotsRejection(err error) *domain.Rejection {
	switch {
	case errors.Is(err, get_available_slots.ErrServiceNotFound):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgServiceNotFound)
	case errors.Is(err, get_available_slots.ErrInvalidDate):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgPastDate)
	case errors.Is(err, get_available_slots.ErrDateTooFarInFuture):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgTooFar)
	default:
		return domain.NewRejection(domain.RejectionBackendError, msgSlotsUnavailable)
	}
}
