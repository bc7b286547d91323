package create_booking

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	createBooking "github.com/m04kA/SMC-BookingWizard/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

const (
	fieldAppointmentDate  = "appointmentDate"
	fieldAppointmentTime  = "appointmentTime"
	fieldSelectedLocation = "selectedLocation"

	msgFieldDate     = "ожидается дата в формате YYYY-MM-DD"
	msgFieldTime     = "ожидается время в формате HH:MM"
	msgFieldLocation = "неизвестное место оказания услуги"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ModelID          string     `json:"modelId"`
	ServiceID        string     `json:"serviceId"`
	AppointmentDate  string     `json:"appointmentDate"`  // "2025-10-15"
	AppointmentTime  string     `json:"appointmentTime"`  // "10:00"
	SelectedLocation string     `json:"selectedLocation"` // "my_address" | "client_address"
	ClientData       ClientData `json:"clientData"`
}

// ClientData контактные данные клиента
type ClientData struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID        int64   `json:"bookingId"`
	ModelID          string  `json:"modelId"`
	ServiceID        string  `json:"serviceId"`
	AppointmentDate  string  `json:"appointmentDate"`
	AppointmentTime  string  `json:"appointmentTime"`
	SelectedLocation string  `json:"selectedLocation"`
	DurationMinutes  int     `json:"durationMinutes"`
	ServiceName      string  `json:"serviceName"`
	ServicePrice     float64 `json:"servicePrice"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Ошибки разбора возвращаются по полям.
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, map[string]string) {
	fields := make(map[string]string)

	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(r.AppointmentDate))
	if err != nil {
		fields[fieldAppointmentDate] = msgFieldDate
	}

	startTime, err := types.NewTimeStringFromString(r.AppointmentTime)
	if err != nil {
		fields[fieldAppointmentTime] = msgFieldTime
	}

	location, err := domain.ParseLocationType(r.SelectedLocation)
	if err != nil {
		fields[fieldSelectedLocation] = msgFieldLocation
	}

	if len(fields) > 0 {
		return nil, fields
	}

	return &createBooking.Request{
		ModelID:   strings.TrimSpace(r.ModelID),
		ServiceID: strings.TrimSpace(r.ServiceID),
		Date:      date,
		StartTime: startTime,
		Location:  location,
		Client: domain.ClientDetails{
			Name:    r.ClientData.Name,
			Contact: r.ClientData.Contact,
			Address: r.ClientData.Address,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:        resp.ID,
		ModelID:          resp.ModelID,
		ServiceID:        resp.ServiceID,
		AppointmentDate:  resp.BookingDate.Format(domain.DateFormat),
		AppointmentTime:  resp.StartTime.String(),
		SelectedLocation: string(resp.Location),
		DurationMinutes:  resp.DurationMinutes,
		ServiceName:      resp.ServiceName,
		ServicePrice:     resp.ServicePrice,
		Status:           string(resp.Status),
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
