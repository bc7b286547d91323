package catalog

import "errors"

var (
	// ErrModelNotFound возвращается, когда активная модель не найдена
	ErrModelNotFound = errors.New("catalog.service: model not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
