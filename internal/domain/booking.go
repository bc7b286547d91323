package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCompleted         BookingStatus = "completed"
	StatusDeclined          BookingStatus = "declined"
	StatusCancelledByClient BookingStatus = "cancelled_by_client"
	StatusNoShow            BookingStatus = "no_show"
)

// Booking represents a booking request accepted by the system of record
type Booking struct {
	ID              int64
	ModelID         string
	ServiceID       string
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Location        LocationType
	Status          BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64

	ClientName    string
	ClientContact string
	ClientAddress *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusDeclined &&
		b.Status != StatusCancelledByClient &&
		b.Status != StatusNoShow
}

// EndTime returns the time the booking ends
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// CanTransitionTo reports whether the status may change from the current one to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusDeclined, StatusCancelledByClient},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelledByClient},
}

// ParseBookingStatus validates a wire status
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusDeclined, StatusCancelledByClient, StatusNoShow:
		return status, nil
	}
	return "", ErrInvalidBookingStatus
}

// ModelBookingsFilter фильтр для получения бронирований модели
type ModelBookingsFilter struct {
	ModelID         string         // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли неактивные бронирования (отклоненные, отмененные, no-show)
}

// IsSingleDay reports whether the filter targets exactly one date
func (f *ModelBookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
