package settings

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек слотов
type SettingsRepository interface {
	Create(ctx context.Context, cfg *domain.ModelSlotsConfig) (*domain.ModelSlotsConfig, error)
	GetByModelAndService(ctx context.Context, modelID string, serviceID *string) (*domain.ModelSlotsConfig, error)
	GetWithHierarchy(ctx context.Context, modelID string, serviceID *string) (*domain.ModelSlotsConfig, error)
	GetAllByModel(ctx context.Context, modelID string) ([]*domain.ModelSlotsConfig, error)
	Update(ctx context.Context, id int64, cfg *domain.ModelSlotsConfig) (*domain.ModelSlotsConfig, error)
}

// CatalogRepository источник моделей и услуг
type CatalogRepository interface {
	GetOwnerID(ctx context.Context, modelID string) (int64, error)
	GetService(ctx context.Context, modelID, serviceID string) (*domain.BookableService, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
