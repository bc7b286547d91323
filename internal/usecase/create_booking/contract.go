package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога моделей
type CatalogRepository interface {
	GetService(ctx context.Context, modelID, serviceID string) (*domain.BookableService, error)
	GetWorkingDay(ctx context.Context, modelID string, weekday time.Weekday) (*domain.WorkingDay, error)
}

// SettingsRepository интерфейс репозитория настроек слотов
type SettingsRepository interface {
	GetWithHierarchy(ctx context.Context, modelID string, serviceID *string) (*domain.ModelSlotsConfig, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByModelWithFilter(ctx context.Context, filter domain.ModelBookingsFilter) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
