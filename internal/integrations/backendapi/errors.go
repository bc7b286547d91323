package backendapi

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("backendapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе бэкенда
	ErrInvalidResponse = errors.New("backendapi client: invalid response")

	// ErrUnavailable возвращается, когда бэкенд не ответил
	ErrUnavailable = errors.New("backendapi client: backend unavailable")
)
