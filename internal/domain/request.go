package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// ClientDetails is the contact data collected in the last wizard step
type ClientDetails struct {
	Name    string
	Contact string
	Address string // required only for LocationClientAddress
}

// BookingRequest is the immutable payload handed to the scheduling backend
type BookingRequest struct {
	ModelID          string
	ServiceID        string
	AppointmentDate  time.Time
	AppointmentTime  types.TimeString
	SelectedLocation LocationType
	ClientData       ClientDetails
}

// BookingConfirmation is the backend's acceptance of a BookingRequest
type BookingConfirmation struct {
	BookingID        int64
	ModelID          string
	ServiceID        string
	AppointmentDate  time.Time
	AppointmentTime  types.TimeString
	SelectedLocation LocationType
	DurationMinutes  int
	ServiceName      string
	ServicePrice     float64
	Status           BookingStatus
	CreatedAt        time.Time
}

// TimeSlot is a candidate start time for a service on a given date
type TimeSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}
