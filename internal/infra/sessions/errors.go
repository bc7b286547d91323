package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("sessions: session not found")

	// ErrSessionExists возвращается при повторном создании сессии с тем же ID
	ErrSessionExists = errors.New("sessions: session already exists")

	// ErrVersionConflict возвращается, когда сессию изменили параллельно
	ErrVersionConflict = errors.New("sessions: version conflict")

	// ErrEncode возвращается при ошибке сериализации сессии
	ErrEncode = errors.New("sessions: failed to encode session")

	// ErrDecode возвращается при ошибке десериализации сессии
	ErrDecode = errors.New("sessions: failed to decode session")

	// ErrStorage возвращается при ошибках хранилища
	ErrStorage = errors.New("sessions: storage error")
)
