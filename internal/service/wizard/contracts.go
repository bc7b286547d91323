package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	fsm "github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

// CatalogProvider источник каталога моделей
type CatalogProvider interface {
	ListBookableModels(ctx context.Context) ([]domain.BookableModel, error)
	ResolveModelSlug(ctx context.Context, slug string) (string, error)
}

// SchedulingProvider бэкенд расписания: слоты и создание бронирований.
// Ошибки SubmitBooking ожидаются в виде *domain.Rejection.
type SchedulingProvider interface {
	GetAvailableSlots(ctx context.Context, modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error)
	SubmitBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingConfirmation, error)
}

// SessionStore хранилище сессий мастера с оптимистичной блокировкой
type SessionStore interface {
	Create(ctx context.Context, session *fsm.Session) error
	Get(ctx context.Context, id string) (*fsm.Session, error)
	Save(ctx context.Context, session *fsm.Session) error
	Delete(ctx context.Context, id string) error
}

// MetricsRecorder интерфейс для записи метрик мастера
type MetricsRecorder interface {
	RecordTransition(event, state string, err error)
	RecordSubmission(outcome string)
	RecordSessionStarted()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopRecorder struct{}

func (noopRecorder) RecordTransition(string, string, error) {}
func (noopRecorder) RecordSubmission(string)                {}
func (noopRecorder) RecordSessionStarted()                  {}
