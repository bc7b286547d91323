package wizard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/infra/sessions"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard/models"
	fsm "github.com/m04kA/SMC-BookingWizard/internal/wizard"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCatalog struct {
	models []domain.BookableModel
	err    error
	slugs  map[string]string
	calls  atomic.Int32
}

func (f *fakeCatalog) ListBookableModels(ctx context.Context) ([]domain.BookableModel, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.models, nil
}

func (f *fakeCatalog) ResolveModelSlug(ctx context.Context, slug string) (string, error) {
	if id, ok := f.slugs[slug]; ok {
		return id, nil
	}
	return "", domain.ErrModelNotFound
}

type fakeScheduling struct {
	slotsFn  func(modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error)
	submitFn func(req domain.BookingRequest) (*domain.BookingConfirmation, error)
	requests []domain.BookingRequest
}

func (f *fakeScheduling) GetAvailableSlots(ctx context.Context, modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error) {
	return f.slotsFn(modelID, serviceID, date)
}

func (f *fakeScheduling) SubmitBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingConfirmation, error) {
	f.requests = append(f.requests, req)
	return f.submitFn(req)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordTransition(event, state string, err error) {
	m.Called(event, state, err)
}

func (m *mockRecorder) RecordSubmission(outcome string) {
	m.Called(outcome)
}

func (m *mockRecorder) RecordSessionStarted() {
	m.Called()
}

var testModels = []domain.BookableModel{
	{
		ID:   "m",
		Slug: "maria",
		Name: "Maria",
		Services: []domain.BookableService{
			{ID: "s1", Name: "Online chat", Price: 100, DurationMinutes: 30, LocationTypes: []domain.LocationType{domain.LocationOnline}},
			{ID: "s2", Name: "Dinner", Price: 500, DurationMinutes: 120, LocationTypes: []domain.LocationType{domain.LocationOnline, domain.LocationProviderAddress}},
		},
	},
	{
		ID:   "m2",
		Slug: "julia",
		Name: "Julia",
		Services: []domain.BookableService{
			{ID: "a", Name: "Video call", Price: 80, DurationMinutes: 60, LocationTypes: []domain.LocationType{domain.LocationOnline}},
		},
	},
}

type fixture struct {
	svc        *Service
	catalog    *fakeCatalog
	scheduling *fakeScheduling
	store      *sessions.MemoryStore
}

func newFixture(t *testing.T, recorder MetricsRecorder) *fixture {
	t.Helper()

	clock := fixedClock{now: time.Date(2026, 11, 10, 12, 0, 0, 0, time.UTC)}
	catalog := &fakeCatalog{models: testModels, slugs: map[string]string{"maria": "m", "julia": "m2"}}
	scheduling := &fakeScheduling{
		slotsFn: func(modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error) {
			return []domain.TimeSlot{
				{StartTime: types.MustTimeString("10:00"), DurationMinutes: 60, Available: true},
				{StartTime: types.MustTimeString("11:00"), DurationMinutes: 60, Available: false},
			}, nil
		},
		submitFn: func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
			return &domain.BookingConfirmation{
				BookingID:        7,
				ModelID:          req.ModelID,
				ServiceID:        req.ServiceID,
				AppointmentDate:  req.AppointmentDate,
				AppointmentTime:  req.AppointmentTime,
				SelectedLocation: req.SelectedLocation,
				Status:           domain.StatusPending,
			}, nil
		},
	}
	store := sessions.NewMemoryStore(clock)

	return &fixture{
		svc:        NewService(catalog, scheduling, store, recorder, logger.NewNop(), clock, 0, 0),
		catalog:    catalog,
		scheduling: scheduling,
		store:      store,
	}
}

func (f *fixture) atClientDetails(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{ModelSlug: "julia"})
	require.NoError(t, err)
	require.Equal(t, string(fsm.StateSelectService), view.State)

	_, err = f.svc.Apply(ctx, view.SessionID, models.EventRequest{Type: models.EventSelectService, ServiceID: "a"})
	require.NoError(t, err)
	_, err = f.svc.LoadSlots(ctx, view.SessionID, "2026-11-20")
	require.NoError(t, err)
	view, err = f.svc.Apply(ctx, view.SessionID, models.EventRequest{Type: models.EventSelectDateTime, Time: "10:00"})
	require.NoError(t, err)
	require.Equal(t, string(fsm.StateEnterClientDetails), view.State)

	return view.SessionID
}

var client = domain.ClientDetails{Name: "Carla", Contact: "+55 11 98765-4321"}

func TestService_StartGeneric(t *testing.T) {
	recorder := &mockRecorder{}
	recorder.On("RecordTransition", mock.Anything, mock.Anything, mock.Anything).Maybe()
	recorder.On("RecordSessionStarted").Once()

	f := newFixture(t, recorder)

	view, err := f.svc.Start(context.Background(), models.StartRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, int64(1), view.Version)
	assert.Equal(t, string(fsm.StateSelectModel), view.State)
	assert.Equal(t, string(fsm.LoadLoaded), view.Catalog.Status)
	assert.Len(t, view.Catalog.Models, 2)
	assert.False(t, view.CanGoBack)
	assert.Empty(t, view.Services)
	assert.Equal(t, time.Date(2026, 11, 10, 12, 30, 0, 0, time.UTC), view.ExpiresAt)

	recorder.AssertExpectations(t)
}

func TestService_StartBySlug(t *testing.T) {
	f := newFixture(t, nil)

	view, err := f.svc.Start(context.Background(), models.StartRequest{ModelSlug: "julia"})
	require.NoError(t, err)

	assert.True(t, view.Preselected)
	assert.Equal(t, string(fsm.StateSelectService), view.State)
	assert.Equal(t, "online", view.Selection.Location)
	assert.Equal(t, "Julia", view.Selection.ModelName)
	require.Len(t, view.Services, 1)
	assert.Equal(t, "a", view.Services[0].ID)
	assert.False(t, view.CanGoBack)

	_, err = f.svc.Start(context.Background(), models.StartRequest{ModelSlug: "ghost"})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestService_CatalogFailureAndReload(t *testing.T) {
	f := newFixture(t, nil)
	f.catalog.err = errors.New("connection refused")
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(fsm.LoadFailed), view.Catalog.Status)
	assert.Equal(t, msgCatalogUnavailable, view.Catalog.Error)
	assert.Empty(t, view.Catalog.Models)

	_, err = f.svc.Apply(ctx, view.SessionID, models.EventRequest{Type: models.EventSelectModel, ModelID: "m"})
	assert.ErrorIs(t, err, fsm.ErrCatalogNotLoaded)

	f.catalog.err = nil
	view, err = f.svc.ReloadCatalog(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.LoadLoaded), view.Catalog.Status)
	assert.Len(t, view.Catalog.Models, 2)
	assert.Equal(t, int32(2), f.catalog.calls.Load())
}

func TestService_LocationStep(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{})
	require.NoError(t, err)
	id := view.SessionID

	view, err = f.svc.Apply(ctx, id, models.EventRequest{Type: models.EventSelectModel, ModelID: "m"})
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateSelectLocation), view.State)
	assert.Equal(t, []string{"online", "my_address"}, view.LocationOptions)
	assert.Empty(t, view.Services)

	view, err = f.svc.Apply(ctx, id, models.EventRequest{Type: models.EventSelectLocation, Location: "my_address"})
	require.NoError(t, err)
	require.Len(t, view.Services, 1)
	assert.Equal(t, "s2", view.Services[0].ID)

	_, err = f.svc.Apply(ctx, id, models.EventRequest{Type: models.EventSelectLocation, Location: "moon"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Apply(ctx, id, models.EventRequest{Type: "teleport"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_SubmitConfirmed(t *testing.T) {
	recorder := &mockRecorder{}
	recorder.On("RecordTransition", mock.Anything, mock.Anything, mock.Anything).Maybe()
	recorder.On("RecordSessionStarted").Once()
	recorder.On("RecordSubmission", outcomeConfirmed).Once()

	f := newFixture(t, recorder)
	id := f.atClientDetails(t)

	view, err := f.svc.Submit(context.Background(), id, client)
	require.NoError(t, err)

	assert.Equal(t, string(fsm.StateConfirmed), view.State)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, int64(7), view.Confirmation.BookingID)
	assert.Equal(t, "2026-11-20", view.Confirmation.AppointmentDate)
	assert.Equal(t, "10:00", view.Confirmation.AppointmentTime)
	assert.False(t, view.SubmitEnabled)

	require.Len(t, f.scheduling.requests, 1)
	assert.Equal(t, "Carla", f.scheduling.requests[0].ClientData.Name)

	recorder.AssertExpectations(t)
}

func TestService_SubmitInvalidDetails(t *testing.T) {
	f := newFixture(t, nil)
	id := f.atClientDetails(t)

	view, err := f.svc.Submit(context.Background(), id, domain.ClientDetails{Name: "Carla", Contact: "123"})

	var vErr *fsm.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NotNil(t, view)
	assert.Contains(t, view.FieldErrors, domain.FieldContact)
	assert.Equal(t, "Carla", view.Selection.ClientDetails.Name)
	assert.Empty(t, f.scheduling.requests)

	// введенные данные сохранены в сессии
	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "123", stored.Selection.ClientDetails.Contact)
}

func TestService_RejectionThenRetry(t *testing.T) {
	f := newFixture(t, nil)
	id := f.atClientDetails(t)
	ctx := context.Background()

	f.scheduling.submitFn = func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
		return nil, domain.NewRejection(domain.RejectionBackendError, "maintenance")
	}

	view, err := f.svc.Submit(ctx, id, client)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateEnterClientDetails), view.State)
	require.NotNil(t, view.Rejection)
	assert.Equal(t, "backend_error", view.Rejection.Code)
	assert.True(t, view.CanRetry)
	assert.Equal(t, client.Contact, view.Selection.ClientDetails.Contact)

	f.scheduling.submitFn = func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
		return &domain.BookingConfirmation{BookingID: 9, Status: domain.StatusPending}, nil
	}

	view, err = f.svc.Retry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateConfirmed), view.State)

	require.Len(t, f.scheduling.requests, 2)
	assert.Equal(t, f.scheduling.requests[0], f.scheduling.requests[1])
}

func TestService_UnexpectedProviderErrorBecomesBackendRejection(t *testing.T) {
	f := newFixture(t, nil)
	id := f.atClientDetails(t)

	f.scheduling.submitFn = func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
		return nil, errors.New("EOF")
	}

	view, err := f.svc.Submit(context.Background(), id, client)
	require.NoError(t, err)
	require.NotNil(t, view.Rejection)
	assert.Equal(t, string(domain.RejectionBackendError), view.Rejection.Code)
}

func TestService_SlotTakenResetsSlots(t *testing.T) {
	f := newFixture(t, nil)
	id := f.atClientDetails(t)

	f.scheduling.submitFn = func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
		return nil, domain.NewRejection(domain.RejectionSlotUnavailable, "taken")
	}

	view, err := f.svc.Submit(context.Background(), id, client)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RejectionSlotUnavailable), view.Rejection.Code)
	assert.Equal(t, string(fsm.LoadIdle), view.Slots.Status)
}

func TestService_DuplicateSubmitWhileInFlight(t *testing.T) {
	f := newFixture(t, nil)
	id := f.atClientDetails(t)
	ctx := context.Background()

	var nestedErr error
	f.scheduling.submitFn = func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
		// второй клик, пока первый запрос еще выполняется
		_, nestedErr = f.svc.Submit(ctx, id, client)
		return &domain.BookingConfirmation{BookingID: 1, Status: domain.StatusPending}, nil
	}

	view, err := f.svc.Submit(ctx, id, client)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateConfirmed), view.State)
	assert.ErrorIs(t, nestedErr, fsm.ErrSubmissionInFlight)
	assert.Len(t, f.scheduling.requests, 1)
}

func TestService_LoadSlots(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{ModelID: "m2"})
	require.NoError(t, err)
	id := view.SessionID
	_, err = f.svc.Apply(ctx, id, models.EventRequest{Type: models.EventSelectService, ServiceID: "a"})
	require.NoError(t, err)

	var gotModel, gotService string
	var gotDate time.Time
	f.scheduling.slotsFn = func(modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error) {
		gotModel, gotService, gotDate = modelID, serviceID, date
		return []domain.TimeSlot{{StartTime: types.MustTimeString("09:30"), DurationMinutes: 60, Available: true}}, nil
	}

	view, err = f.svc.LoadSlots(ctx, id, "2026-11-21")
	require.NoError(t, err)
	assert.Equal(t, "m2", gotModel)
	assert.Equal(t, "a", gotService)
	assert.Equal(t, "2026-11-21", gotDate.Format(domain.DateFormat))
	assert.Equal(t, string(fsm.LoadLoaded), view.Slots.Status)
	require.Len(t, view.Slots.Items, 1)
	assert.Equal(t, "09:30", view.Slots.Items[0].StartTime)
	assert.Equal(t, "2026-11-21", view.Selection.Date)

	f.scheduling.slotsFn = func(string, string, time.Time) ([]domain.TimeSlot, error) {
		return nil, errors.New("timeout")
	}
	view, err = f.svc.LoadSlots(ctx, id, "2026-11-22")
	require.NoError(t, err)
	assert.Equal(t, string(fsm.LoadFailed), view.Slots.Status)
	require.NotNil(t, view.Slots.Rejection)
	assert.Equal(t, string(domain.RejectionBackendError), view.Slots.Rejection.Code)

	_, err = f.svc.LoadSlots(ctx, id, "22/11/2026")
	assert.ErrorIs(t, err, fsm.ErrInvalidDateTime)
}

func TestService_StaleSlotsAreDiscarded(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{ModelID: "m2"})
	require.NoError(t, err)
	id := view.SessionID
	_, err = f.svc.Apply(ctx, id, models.EventRequest{Type: models.EventSelectService, ServiceID: "a"})
	require.NoError(t, err)

	f.scheduling.slotsFn = func(string, string, time.Time) ([]domain.TimeSlot, error) {
		// пользователь вернулся к выбору услуги, пока запрос выполнялся
		_, backErr := f.svc.Apply(ctx, id, models.EventRequest{Type: models.EventBack})
		require.NoError(t, backErr)
		return []domain.TimeSlot{{StartTime: types.MustTimeString("10:00"), Available: true}}, nil
	}

	view, err = f.svc.LoadSlots(ctx, id, "2026-11-21")
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateSelectService), view.State)
	assert.Equal(t, string(fsm.LoadIdle), view.Slots.Status)
	assert.Empty(t, view.Slots.Items)
}

func TestService_SessionNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.Apply(context.Background(), "missing", models.EventRequest{Type: models.EventBack})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ExpiredSessionIsDropped(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, f.store.Len())

	f.svc.timeProvider = fixedClock{now: view.ExpiresAt.Add(time.Second)}

	_, err = f.svc.Get(ctx, view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, f.store.Len())
}

// cancelAwareStore отказывает в чтении, если контекст запроса уже отменен, как RedisStore
type cancelAwareStore struct {
	*sessions.MemoryStore
}

func (s *cancelAwareStore) Get(ctx context.Context, id string) (*fsm.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.MemoryStore.Get(ctx, id)
}

func TestService_SubmitOutcomeSavedAfterClientDisconnect(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.store = &cancelAwareStore{MemoryStore: f.store}
	id := f.atClientDetails(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.scheduling.submitFn = func(req domain.BookingRequest) (*domain.BookingConfirmation, error) {
		cancel()
		return nil, domain.NewRejection(domain.RejectionSlotUnavailable, "слот занят")
	}

	view, err := f.svc.Submit(ctx, id, client)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateEnterClientDetails), view.State)

	view, err = f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateEnterClientDetails), view.State)
	require.NotNil(t, view.Rejection)
	assert.Equal(t, string(domain.RejectionSlotUnavailable), view.Rejection.Code)

	_, err = f.svc.Apply(context.Background(), id, models.EventRequest{Type: models.EventBack})
	assert.NoError(t, err)
}

func TestService_StalledSubmissionCanBeRetried(t *testing.T) {
	f := newFixture(t, nil)
	id := f.atClientDetails(t)
	ctx := context.Background()

	// отправка началась, но ответ бэкенда так и не был сохранен
	session, err := f.svc.mutate(ctx, id, func(m fsm.Machine) (fsm.Machine, error) {
		return fsm.Transition(m, fsm.Submit{Details: client})
	})
	require.NoError(t, err)
	require.Equal(t, fsm.StateSubmitting, session.Machine.State)

	_, err = f.svc.Retry(ctx, id)
	assert.ErrorIs(t, err, fsm.ErrSubmissionInFlight)

	f.svc.timeProvider = fixedClock{now: session.UpdatedAt.Add(DefaultSubmitTimeout)}

	view, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateEnterClientDetails), view.State)
	require.NotNil(t, view.Rejection)
	assert.Equal(t, string(domain.RejectionBackendError), view.Rejection.Code)
	assert.True(t, view.CanRetry)

	view, err = f.svc.Retry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateConfirmed), view.State)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, int64(7), view.Confirmation.BookingID)
}

type conflictingStore struct {
	*sessions.MemoryStore
	conflicts int
}

func (s *conflictingStore) Save(ctx context.Context, session *fsm.Session) error {
	if s.conflicts > 0 {
		s.conflicts--
		return sessions.ErrVersionConflict
	}
	return s.MemoryStore.Save(ctx, session)
}

func TestService_MutateRetriesOnVersionConflict(t *testing.T) {
	f := newFixture(t, nil)
	store := &conflictingStore{MemoryStore: f.store}
	f.svc.store = store
	ctx := context.Background()

	view, err := f.svc.Start(ctx, models.StartRequest{})
	require.NoError(t, err)

	store.conflicts = 2
	view, err = f.svc.Apply(ctx, view.SessionID, models.EventRequest{Type: models.EventSelectModel, ModelID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, string(fsm.StateSelectService), view.State)

	store.conflicts = maxSaveAttempts
	_, err = f.svc.Apply(ctx, view.SessionID, models.EventRequest{Type: models.EventBack})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}
