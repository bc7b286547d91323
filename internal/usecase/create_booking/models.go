package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ModelID   string               // ID модели
	ServiceID string               // ID услуги
	Date      time.Time            // Дата бронирования (время игнорируется)
	StartTime types.TimeString     // Время начала слота
	Location  domain.LocationType  // Место оказания услуги
	Client    domain.ClientDetails // Контактные данные клиента
}

// FromBookingRequest строит запрос из заявки мастера бронирования
func FromBookingRequest(req domain.BookingRequest) *Request {
	return &Request{
		ModelID:   req.ModelID,
		ServiceID: req.ServiceID,
		Date:      req.AppointmentDate,
		StartTime: req.AppointmentTime,
		Location:  req.SelectedLocation,
		Client:    req.ClientData,
	}
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ModelID         string
	ServiceID       string
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Location        domain.LocationType
	Status          domain.BookingStatus

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64

	CreatedAt time.Time
}

// ToConfirmation конвертирует ответ в подтверждение для мастера бронирования
func (r *Response) ToConfirmation() *domain.BookingConfirmation {
	return &domain.BookingConfirmation{
		BookingID:        r.ID,
		ModelID:          r.ModelID,
		ServiceID:        r.ServiceID,
		AppointmentDate:  r.BookingDate,
		AppointmentTime:  r.StartTime,
		SelectedLocation: r.Location,
		DurationMinutes:  r.DurationMinutes,
		ServiceName:      r.ServiceName,
		ServicePrice:     r.ServicePrice,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}
