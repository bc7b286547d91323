package wizard

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard/models"
)

type WizardService interface {
	Start(ctx context.Context, req models.StartRequest) (*models.SessionView, error)
	Get(ctx context.Context, sessionID string) (*models.SessionView, error)
	Apply(ctx context.Context, sessionID string, req models.EventRequest) (*models.SessionView, error)
	ReloadCatalog(ctx context.Context, sessionID string) (*models.SessionView, error)
	LoadSlots(ctx context.Context, sessionID, date string) (*models.SessionView, error)
	Submit(ctx context.Context, sessionID string, details domain.ClientDetails) (*models.SessionView, error)
	Retry(ctx context.Context, sessionID string) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
