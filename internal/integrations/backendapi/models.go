package backendapi

import "time"

// ModelListResponse ответ каталога
type ModelListResponse struct {
	Models []Model `json:"models"`
}

// Model модель каталога
type Model struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	City         string    `json:"city"`
	Neighborhood string    `json:"neighborhood"`
	Services     []Service `json:"services"`
}

// Service услуга модели
type Service struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"durationMinutes"`
	LocationTypes   []string `json:"locationTypes"`
}

// SlugResponse ответ разрешения slug
type SlugResponse struct {
	ModelID string `json:"modelId"`
}

// SlotsResponse ответ со слотами
type SlotsResponse struct {
	Date      string `json:"date"`
	ModelID   string `json:"modelId"`
	ServiceID string `json:"serviceId"`
	Slots     []Slot `json:"slots"`
}

// Slot временной слот
type Slot struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// CreateBookingRequest тело запроса на создание бронирования
type CreateBookingRequest struct {
	ModelID          string     `json:"modelId"`
	ServiceID        string     `json:"serviceId"`
	AppointmentDate  string     `json:"appointmentDate"`
	AppointmentTime  string     `json:"appointmentTime"`
	SelectedLocation string     `json:"selectedLocation"`
	ClientData       ClientData `json:"clientData"`
}

// ClientData контактные данные клиента
type ClientData struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address,omitempty"`
}

// BookingResponse подтверждение бронирования
type BookingResponse struct {
	BookingID        int64     `json:"bookingId"`
	ModelID          string    `json:"modelId"`
	ServiceID        string    `json:"serviceId"`
	AppointmentDate  string    `json:"appointmentDate"`
	AppointmentTime  string    `json:"appointmentTime"`
	SelectedLocation string    `json:"selectedLocation"`
	DurationMinutes  int       `json:"durationMinutes"`
	ServiceName      string    `json:"serviceName"`
	ServicePrice     float64   `json:"servicePrice"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ErrorResponse модель ошибки бэкенда
type ErrorResponse struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
