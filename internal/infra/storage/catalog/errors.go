package catalog

import "errors"

var (
	// ErrModelNotFound возвращается, когда активная модель не найдена
	ErrModelNotFound = errors.New("catalog.repository: model not found")

	// ErrServiceNotFound возвращается, когда активная услуга модели не найдена
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrScheduleNotFound возвращается, когда для дня недели нет расписания
	ErrScheduleNotFound = errors.New("catalog.repository: schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
