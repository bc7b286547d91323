package domain

import (
	"errors"
	"fmt"
)

// RejectionCode classifies why a booking submission or slot lookup failed
type RejectionCode string

const (
	RejectionSlotUnavailable RejectionCode = "slot_unavailable"
	RejectionInvalidDetails  RejectionCode = "invalid_details"
	RejectionBackendError    RejectionCode = "backend_error"
)

// Rejection is a structured, user-presentable failure returned by the scheduling backend
type Rejection struct {
	Code    RejectionCode
	Message string
	Fields  map[string]string
}

// NewRejection builds a rejection without field details
func NewRejection(code RejectionCode, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejection %s: %s", r.Code, r.Message)
}

// AsRejection extracts a Rejection from err. Any other error is reported as a backend error.
func AsRejection(err error) *Rejection {
	if err == nil {
		return nil
	}
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej
	}
	return NewRejection(RejectionBackendError, msgBackendUnavailable)
}

const msgBackendUnavailable = "сервис бронирования временно недоступен, попробуйте позже"
