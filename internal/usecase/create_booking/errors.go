package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceNotFound возвращается, когда у модели нет такой активной услуги
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrLocationNotSupported возвращается, когда услуга не оказывается в выбранном месте
	ErrLocationNotSupported = errors.New("create_booking: location is not supported by service")

	// ErrInvalidClientDetails возвращается при некорректных данных клиента
	ErrInvalidClientDetails = errors.New("create_booking: invalid client details")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrModelClosed возвращается, когда модель не работает в указанную дату
	ErrModelClosed = errors.New("create_booking: model is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с сеткой или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда нарушено minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ClientDetailsError содержит ошибки по полям данных клиента
type ClientDetailsError struct {
	Fields map[string]string
}

func (e *ClientDetailsError) Error() string {
	return fmt.Sprintf("%v: %d invalid field(s)", ErrInvalidClientDetails, len(e.Fields))
}

func (e *ClientDetailsError) Unwrap() error {
	return ErrInvalidClientDetails
}
