package wizard

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("wizard.service: session not found")

	// ErrModelNotFound возвращается, когда ссылка на модель не разрешается
	ErrModelNotFound = errors.New("wizard.service: model not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("wizard.service: invalid input")

	// ErrConcurrentUpdate возвращается, когда сессию не удалось сохранить из-за параллельных изменений
	ErrConcurrentUpdate = errors.New("wizard.service: session was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("wizard.service: internal error")
)
