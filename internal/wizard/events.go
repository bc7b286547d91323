package wizard

import "github.com/m04kA/SMC-BookingWizard/internal/domain"

// Event входное событие для Transition
type Event interface {
	Name() string
}

// CatalogRequested начинает загрузку каталога и отменяет незавершенную
type CatalogRequested struct{}

// CatalogLoaded результат загрузки с номером Seq
type CatalogLoaded struct {
	Seq    uint64
	Models []domain.BookableModel
}

// CatalogFailed неудачная загрузка с номером Seq
type CatalogFailed struct {
	Seq    uint64
	Reason string
}

type SelectModel struct {
	ModelID string
}

type SelectLocation struct {
	Location domain.LocationType
}

type SelectService struct {
	ServiceID string
}

// SelectDateTime выбор даты, времени или обоих. Дальше мастер переходит только с полной парой.
type SelectDateTime struct {
	Date string
	Time string
}

// SlotsRequested запоминает Date и запускает поиск слотов для выбранных модели и услуги
type SlotsRequested struct {
	Date string
}

type SlotsLoaded struct {
	Key   SlotKey
	Slots []domain.TimeSlot
}

type SlotsFailed struct {
	Key       SlotKey
	Rejection *domain.Rejection
}

// Submit проверяет Details и при успехе переводит мастер в submitting с новым запросом
type Submit struct {
	Details domain.ClientDetails
}

// Retry повторно отправляет последний отклоненный запрос без изменений
type Retry struct{}

type SubmissionSucceeded struct {
	Confirmation *domain.BookingConfirmation
}

type SubmissionFailed struct {
	Rejection *domain.Rejection
}

type Back struct{}

func (CatalogRequested) Name() string    { return "catalog_requested" }
func (CatalogLoaded) Name() string       { return "catalog_loaded" }
func (CatalogFailed) Name() string       { return "catalog_failed" }
func (SelectModel) Name() string         { return "select_model" }
func (SelectLocation) Name() string      { return "select_location" }
func (SelectService) Name() string       { return "select_service" }
func (SelectDateTime) Name() string      { return "select_datetime" }
func (SlotsRequested) Name() string      { return "slots_requested" }
func (SlotsLoaded) Name() string         { return "slots_loaded" }
func (SlotsFailed) Name() string         { return "slots_failed" }
func (Submit) Name() string              { return "submit" }
func (Retry) Name() string               { return "retry" }
func (SubmissionSucceeded) Name() string { return "submission_succeeded" }
func (SubmissionFailed) Name() string    { return "submission_failed" }
func (Back) Name() string                { return "back" }
