package wizard

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// Transition применяет ev к m и возвращает новую машину.
//
// Функция чистая. При ошибке возвращается m без изменений. Исключение
// *ValidationError: введенные данные клиента и ошибки по полям сохраняются,
// чтобы форму можно было показать повторно без потери данных.
func Transition(m Machine, ev Event) (Machine, error) {
	switch e := ev.(type) {
	case CatalogRequested:
		return requestCatalog(m)
	case CatalogLoaded:
		return catalogLoaded(m, e)
	case CatalogFailed:
		return catalogFailed(m, e)
	case SelectModel:
		return selectModelEvent(m, e)
	case SelectLocation:
		return selectLocation(m, e)
	case SelectService:
		return selectService(m, e)
	case SelectDateTime:
		return selectDateTime(m, e)
	case SlotsRequested:
		return requestSlots(m, e)
	case SlotsLoaded:
		return slotsLoaded(m, e)
	case SlotsFailed:
		return slotsFailed(m, e)
	case Submit:
		return submit(m, e)
	case Retry:
		return retry(m)
	case SubmissionSucceeded:
		return submissionSucceeded(m, e)
	case SubmissionFailed:
		return submissionFailed(m, e)
	case Back:
		return back(m)
	default:
		return m, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
}

// Apply применяет события по порядку до первой ошибки
func Apply(m Machine, events ...Event) (Machine, error) {
	for _, ev := range events {
		next, err := Transition(m, ev)
		if err != nil {
			return next, err
		}
		m = next
	}
	return m, nil
}

func requestCatalog(m Machine) (Machine, error) {
	if m.State != StateSelectModel {
		return m, ErrInvalidTransition
	}
	m.Catalog = Catalog{
		Status: LoadPending,
		Seq:    m.Catalog.Seq + 1,
		Models: m.Catalog.Models,
	}
	return m, nil
}

func catalogLoaded(m Machine, e CatalogLoaded) (Machine, error) {
	if m.State != StateSelectModel || m.Catalog.Status != LoadPending || e.Seq != m.Catalog.Seq {
		return m, ErrStaleResult
	}

	m.Catalog = Catalog{Status: LoadLoaded, Seq: m.Catalog.Seq, Models: e.Models}

	if !m.IsPreselected() {
		return m, nil
	}

	model := findModel(m.Catalog.Models, m.PreselectedModelID)
	if model == nil {
		// ссылка на неактивную модель: обычный мастер с выбором модели
		m.PreselectedModelID = ""
		return m, nil
	}
	return enterModel(m, model), nil
}

func catalogFailed(m Machine, e CatalogFailed) (Machine, error) {
	if m.State != StateSelectModel || m.Catalog.Status != LoadPending || e.Seq != m.Catalog.Seq {
		return m, ErrStaleResult
	}
	m.Catalog = Catalog{Status: LoadFailed, Seq: m.Catalog.Seq, Error: e.Reason}
	return m, nil
}

func selectModelEvent(m Machine, e SelectModel) (Machine, error) {
	if m.State != StateSelectModel || m.IsPreselected() {
		return m, ErrInvalidTransition
	}
	if m.Catalog.Status != LoadLoaded {
		return m, ErrCatalogNotLoaded
	}

	model := findModel(m.Catalog.Models, e.ModelID)
	if model == nil {
		return m, ErrUnknownModel
	}
	return enterModel(m, model), nil
}

// enterModel запоминает модель и пропускает шаг локации, если вариант один.
// Предикат локаций вычисляется для каждой выбранной модели заново.
func enterModel(m Machine, model *domain.BookableModel) Machine {
	m.Selection = Selection{ModelID: model.ID}
	m = resetDownstream(m)

	options := LocationOptions(model)
	if len(options) > 1 {
		m.State = StateSelectLocation
		return m
	}
	if len(options) == 1 {
		m.Selection.Location = options[0]
	}
	m.State = StateSelectService
	return m
}

func selectLocation(m Machine, e SelectLocation) (Machine, error) {
	if m.State != StateSelectLocation {
		return m, ErrInvalidTransition
	}

	model := CurrentModel(m)
	if model == nil {
		return m, ErrUnknownModel
	}
	offered := false
	for _, l := range LocationOptions(model) {
		if l == e.Location {
			offered = true
			break
		}
	}
	if !offered {
		return m, ErrUnknownLocation
	}

	m.Selection = Selection{ModelID: model.ID, Location: e.Location}
	m = resetDownstream(m)
	m.State = StateSelectService
	return m, nil
}

func selectService(m Machine, e SelectService) (Machine, error) {
	if m.State != StateSelectService {
		return m, ErrInvalidTransition
	}

	found := false
	for _, s := range VisibleServices(m) {
		if s.ID == e.ServiceID {
			found = true
			break
		}
	}
	if !found {
		return m, ErrServiceNotAvailable
	}

	m.Selection = Selection{
		ModelID:   m.Selection.ModelID,
		Location:  m.Selection.Location,
		ServiceID: e.ServiceID,
	}
	m = resetDownstream(m)
	m.State = StateSelectDateTime
	return m, nil
}

func selectDateTime(m Machine, e SelectDateTime) (Machine, error) {
	if m.State != StateSelectDateTime {
		return m, ErrInvalidTransition
	}

	date := e.Date
	if date == "" {
		date = m.Selection.Date
	}
	if date == "" {
		return m, ErrIncompleteDateTime
	}
	if _, err := parseDate(date); err != nil {
		return m, err
	}

	if e.Time == "" {
		// только дата: запоминаем и остаемся на шаге
		if date != m.Selection.Date {
			m = withDate(m, date)
		}
		return m, nil
	}

	start, err := types.NewTimeStringFromString(e.Time)
	if err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
	}
	if start.IsEndOfDay() {
		return m, fmt.Errorf("%w: %s is not a valid start time", ErrInvalidDateTime, start)
	}

	key := m.slotKey(date)
	if m.Slots.Status == LoadLoaded && m.Slots.Key == key && !slotOffered(m.Slots.Items, start) {
		return m, ErrSlotNotOffered
	}

	if date != m.Selection.Date {
		m = withDate(m, date)
	}
	m.Selection.Time = start.String()
	m.Submission = Submission{}
	m.State = StateEnterClientDetails
	return m, nil
}

func requestSlots(m Machine, e SlotsRequested) (Machine, error) {
	if m.State != StateSelectDateTime {
		return m, ErrInvalidTransition
	}
	if _, err := parseDate(e.Date); err != nil {
		return m, err
	}

	m = withDate(m, e.Date)
	m.Slots = Slots{Key: m.slotKey(e.Date), Status: LoadPending}
	return m, nil
}

func slotsLoaded(m Machine, e SlotsLoaded) (Machine, error) {
	if !m.awaitsSlots(e.Key) {
		return m, ErrStaleResult
	}
	m.Slots = Slots{Key: e.Key, Status: LoadLoaded, Items: e.Slots}
	return m, nil
}

func slotsFailed(m Machine, e SlotsFailed) (Machine, error) {
	if !m.awaitsSlots(e.Key) {
		return m, ErrStaleResult
	}
	m.Slots = Slots{Key: e.Key, Status: LoadFailed, Rejection: e.Rejection}
	return m, nil
}

func submit(m Machine, e Submit) (Machine, error) {
	switch m.State {
	case StateEnterClientDetails:
	case StateSubmitting:
		return m, ErrSubmissionInFlight
	default:
		return m, ErrInvalidTransition
	}

	details := e.Details.Normalize()
	if fields := details.Validate(m.Selection.Location); fields != nil {
		m.Selection.ClientDetails = details
		m.Submission.FieldErrors = fields
		return m, &ValidationError{Fields: fields}
	}

	m.Selection.ClientDetails = details
	req, err := buildRequest(m.Selection)
	if err != nil {
		return m, err
	}

	return enterSubmitting(m, req), nil
}

func retry(m Machine) (Machine, error) {
	if m.State == StateSubmitting {
		return m, ErrSubmissionInFlight
	}
	if !CanRetry(m) {
		return m, ErrNothingToRetry
	}
	return enterSubmitting(m, m.Submission.Request), nil
}

// enterSubmitting сохраняет снимок для отката и блокирует мастер до ответа бэкенда
func enterSubmitting(m Machine, req *domain.BookingRequest) Machine {
	m.Checkpoint = &Snapshot{State: m.State, Selection: m.Selection}
	m.Submission = Submission{Request: req}
	m.State = StateSubmitting
	return m
}

func submissionSucceeded(m Machine, e SubmissionSucceeded) (Machine, error) {
	if m.State != StateSubmitting {
		return m, ErrInvalidTransition
	}
	m.Submission.Confirmation = e.Confirmation
	m.Submission.Rejection = nil
	m.Checkpoint = nil
	m.State = StateConfirmed
	return m, nil
}

func submissionFailed(m Machine, e SubmissionFailed) (Machine, error) {
	if m.State != StateSubmitting {
		return m, ErrInvalidTransition
	}

	rejection := e.Rejection
	if rejection == nil {
		rejection = domain.AsRejection(domain.ErrBackendUnavailable)
	}

	if m.Checkpoint != nil {
		m.State = m.Checkpoint.State
		m.Selection = m.Checkpoint.Selection
	} else {
		m.State = StateEnterClientDetails
	}
	m.Checkpoint = nil

	m.Submission = Submission{
		Request:     m.Submission.Request,
		Rejection:   rejection,
		FieldErrors: rejection.Fields,
	}

	// занятый слот делает загруженный список устаревшим
	if rejection.Code == domain.RejectionSlotUnavailable {
		m.Slots = Slots{Status: LoadIdle}
	}
	return m, nil
}

func back(m Machine) (Machine, error) {
	target, err := backTarget(m)
	if err != nil {
		return m, err
	}

	sel := m.Selection
	switch target {
	case StateSelectModel:
		sel = Selection{}
	case StateSelectLocation:
		sel = Selection{ModelID: sel.ModelID}
	case StateSelectService:
		sel = Selection{ModelID: sel.ModelID, Location: sel.Location}
	case StateSelectDateTime:
		sel = Selection{ModelID: sel.ModelID, Location: sel.Location, ServiceID: sel.ServiceID}
	}

	m.Selection = sel
	m = resetDownstream(m)
	m.State = target
	return m, nil
}

// backTarget вычисляет предыдущий шаг тем же предикатом локаций,
// что и при движении вперед.
func backTarget(m Machine) (State, error) {
	switch m.State {
	case StateSelectModel:
		return "", ErrBackDisabled
	case StateSelectLocation:
		if m.IsPreselected() {
			return "", ErrBackDisabled
		}
		return StateSelectModel, nil
	case StateSelectService:
		if HasMultipleLocations(CurrentModel(m)) {
			return StateSelectLocation, nil
		}
		if m.IsPreselected() {
			return "", ErrBackDisabled
		}
		return StateSelectModel, nil
	case StateSelectDateTime:
		return StateSelectService, nil
	case StateEnterClientDetails:
		return StateSelectDateTime, nil
	case StateSubmitting:
		return "", ErrSubmissionInFlight
	default:
		return "", ErrInvalidTransition
	}
}

// resetDownstream сбрасывает асинхронные результаты, зависевшие от прежнего выбора
func resetDownstream(m Machine) Machine {
	m.Slots = Slots{Status: LoadIdle}
	m.Submission = Submission{}
	m.Checkpoint = nil
	return m
}

// withDate запоминает новую дату и сбрасывает время и все последующее
func withDate(m Machine, date string) Machine {
	m.Selection = Selection{
		ModelID:   m.Selection.ModelID,
		Location:  m.Selection.Location,
		ServiceID: m.Selection.ServiceID,
		Date:      date,
	}
	if m.Slots.Key.Date != date {
		m.Slots = Slots{Status: LoadIdle}
	}
	return m
}

func (m Machine) slotKey(date string) SlotKey {
	return SlotKey{ModelID: m.Selection.ModelID, ServiceID: m.Selection.ServiceID, Date: date}
}

func (m Machine) awaitsSlots(key SlotKey) bool {
	return m.State == StateSelectDateTime &&
		m.Slots.Status == LoadPending &&
		m.Slots.Key == key &&
		key == m.slotKey(m.Selection.Date)
}

func slotOffered(slots []domain.TimeSlot, start types.TimeString) bool {
	for _, s := range slots {
		if s.Available && s.StartTime.Equal(start) {
			return true
		}
	}
	return false
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
	}
	return d, nil
}

func buildRequest(sel Selection) (*domain.BookingRequest, error) {
	date, err := parseDate(sel.Date)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(sel.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
	}

	return &domain.BookingRequest{
		ModelID:          sel.ModelID,
		ServiceID:        sel.ServiceID,
		AppointmentDate:  date,
		AppointmentTime:  start,
		SelectedLocation: sel.Location,
		ClientData:       sel.ClientDetails,
	}, nil
}
