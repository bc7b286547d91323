package wizard

import (
	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// State шаг мастера бронирования
type State string

const (
	StateSelectModel        State = "select_model"
	StateSelectLocation     State = "select_location"
	StateSelectService      State = "select_service"
	StateSelectDateTime     State = "select_datetime"
	StateEnterClientDetails State = "enter_client_details"
	StateSubmitting         State = "submitting"
	StateConfirmed          State = "confirmed" // конечное
)

// LoadStatus состояние асинхронной загрузки мастера
type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadPending LoadStatus = "pending"
	LoadLoaded  LoadStatus = "loaded"
	LoadFailed  LoadStatus = "failed"
)

// Catalog снимок каталога одной сессии мастера.
// Seq номер последнего запроса каталога; результаты с другим Seq устарели.
type Catalog struct {
	Status LoadStatus
	Seq    uint64
	Models []domain.BookableModel
	Error  string
}

// Selection выбор пользователя в строгом порядке:
// модель, локация, услуга, дата и время, данные клиента.
type Selection struct {
	ModelID       string
	Location      domain.LocationType
	ServiceID     string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
	ClientDetails domain.ClientDetails
}

// SlotKey параметры поиска слотов
type SlotKey struct {
	ModelID   string
	ServiceID string
	Date      string
}

// Slots результат поиска слотов для текущих модели, услуги и даты
type Slots struct {
	Key       SlotKey
	Status    LoadStatus
	Items     []domain.TimeSlot
	Rejection *domain.Rejection
}

// Submission запрос на бронирование и его результат
type Submission struct {
	Request      *domain.BookingRequest
	Confirmation *domain.BookingConfirmation
	Rejection    *domain.Rejection
	FieldErrors  map[string]string
}

// Snapshot последнее корректное состояние, восстанавливаемое при отказе
type Snapshot struct {
	State     State
	Selection Selection
}

// Machine полное состояние одного мастера бронирования.
// Это значение: Transition никогда не изменяет свой аргумент.
type Machine struct {
	State              State
	PreselectedModelID string
	Catalog            Catalog
	Selection          Selection
	Slots              Slots
	Submission         Submission
	Checkpoint         *Snapshot
}

// New создает мастер. Непустой preselectedModelID после загрузки каталога пропускает
// выбор модели и запрещает шаг назад с первого видимого шага.
func New(preselectedModelID string) Machine {
	return Machine{
		State:              StateSelectModel,
		PreselectedModelID: preselectedModelID,
		Catalog:            Catalog{Status: LoadIdle},
		Slots:              Slots{Status: LoadIdle},
	}
}

// IsPreselected сообщает, что мастер открыт по ссылке на модель
func (m Machine) IsPreselected() bool {
	return m.PreselectedModelID != ""
}

// IsTerminal сообщает, что бронирование подтверждено
func (m Machine) IsTerminal() bool {
	return m.State == StateConfirmed
}
