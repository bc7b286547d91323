package get_booking

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings/models"
)

// ClientData контакты клиента в том же виде, в каком они приходят в POST /bookings
type ClientData struct {
	Name    string  `json:"name"`
	Contact string  `json:"contact"`
	Address *string `json:"address,omitempty"`
}

// BookingDetailsResponse бронирование глазами владельца модели
type BookingDetailsResponse struct {
	BookingID        int64      `json:"bookingId"`
	ModelID          string     `json:"modelId"`
	ServiceID        string     `json:"serviceId"`
	ServiceName      string     `json:"serviceName"`
	ServicePrice     float64    `json:"servicePrice"`
	AppointmentDate  string     `json:"appointmentDate"`
	AppointmentTime  string     `json:"appointmentTime"`
	DurationMinutes  int        `json:"durationMinutes"`
	SelectedLocation string     `json:"selectedLocation"`
	Status           string     `json:"status"`
	ClientData       ClientData `json:"clientData"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
}

// FromServiceResponse собирает ответ из DTO сервиса
func FromServiceResponse(b *models.BookingResponse) BookingDetailsResponse {
	return BookingDetailsResponse{
		BookingID:        b.ID,
		ModelID:          b.ModelID,
		ServiceID:        b.ServiceID,
		ServiceName:      b.ServiceName,
		ServicePrice:     b.ServicePrice,
		AppointmentDate:  b.BookingDate,
		AppointmentTime:  b.StartTime,
		DurationMinutes:  b.DurationMinutes,
		SelectedLocation: b.Location,
		Status:           b.Status,
		ClientData: ClientData{
			Name:    b.ClientName,
			Contact: b.ClientContact,
			Address: b.ClientAddress,
		},
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
