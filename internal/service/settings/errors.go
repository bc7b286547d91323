package settings

import "errors"

var (
	// ErrModelNotFound возвращается, когда модель не найдена
	ErrModelNotFound = errors.New("settings.service: model not found")

	// ErrServiceNotFound возвращается, когда услуга модели не найдена
	ErrServiceNotFound = errors.New("settings.service: service not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец модели
	ErrAccessDenied = errors.New("settings.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settings.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings.service: internal error")
)
