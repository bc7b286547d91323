package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings.service: booking not found")

	// ErrModelNotFound возвращается, когда модель не найдена
	ErrModelNotFound = errors.New("bookings.service: model not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец модели
	ErrAccessDenied = errors.New("bookings.service: access denied")

	// ErrInvalidTransition возвращается, когда смена статуса запрещена
	ErrInvalidTransition = errors.New("bookings.service: status transition not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
