package list_models

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

type CatalogService interface {
	ListModels(ctx context.Context) ([]domain.BookableModel, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
