package get_model_bookings

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings/models"
)

type BookingService interface {
	GetModelBookings(ctx context.Context, req *models.GetModelBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
