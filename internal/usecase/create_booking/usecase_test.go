package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/txmanager"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetService(ctx context.Context, modelID, serviceID string) (*domain.BookableService, error) {
	args := m.Called(ctx, modelID, serviceID)
	if s := args.Get(0); s != nil {
		return s.(*domain.BookableService), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) GetWorkingDay(ctx context.Context, modelID string, weekday time.Weekday) (*domain.WorkingDay, error) {
	args := m.Called(ctx, modelID, weekday)
	if d := args.Get(0); d != nil {
		return d.(*domain.WorkingDay), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) GetWithHierarchy(ctx context.Context, modelID string, serviceID *string) (*domain.ModelSlotsConfig, error) {
	args := m.Called(ctx, modelID, serviceID)
	if c := args.Get(0); c != nil {
		return c.(*domain.ModelSlotsConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) GetByModelWithFilter(ctx context.Context, filter domain.ModelBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if b := args.Get(0); b != nil {
		return b.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct {
	calls int
}

func (m *inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// вторник, 09:00 UTC
var now = time.Date(2026, 11, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	catalog  *mockCatalog
	settings *mockSettings
	bookings *mockBookings
	tx       *inlineTx
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		catalog:  &mockCatalog{},
		settings: &mockSettings{},
		bookings: &mockBookings{},
		tx:       &inlineTx{},
	}
	f.uc = NewUseCase(f.catalog, f.settings, f.bookings, f.tx, logger.NewNop())
	f.uc.timeProvider = fixedClock{now: now}
	return f
}

func service() *domain.BookableService {
	return &domain.BookableService{
		ID:              "s1",
		Name:            "Massagem",
		Price:           250,
		DurationMinutes: 60,
		LocationTypes:   []domain.LocationType{domain.LocationProviderAddress, domain.LocationClientAddress},
	}
}

func workingDay() *domain.WorkingDay {
	return &domain.WorkingDay{
		Weekday:   time.Tuesday,
		IsOpen:    true,
		OpenTime:  types.MustTimeString("10:00"),
		CloseTime: types.MustTimeString("18:00"),
	}
}

func request(start string) *Request {
	return &Request{
		ModelID:   "m1",
		ServiceID: "s1",
		Date:      time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustTimeString(start),
		Location:  domain.LocationClientAddress,
		Client:    domain.ClientDetails{Name: " Ana ", Contact: "11987654321", Address: "Rua A, 10"},
	}
}

// expectSchedule настраивает общие ожидания до проверки пересечений
func (f *fixture) expectSchedule(ctx context.Context) {
	f.catalog.On("GetService", ctx, "m1", "s1").Return(service(), nil)
	f.settings.On("GetWithHierarchy", ctx, "m1", mock.Anything).Return(domain.DefaultSlotsConfig("m1"), nil)
	f.catalog.On("GetWorkingDay", ctx, "m1", time.Tuesday).Return(workingDay(), nil)
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.expectSchedule(ctx)

	f.bookings.On("GetByModelWithFilter", ctx, mock.MatchedBy(func(filter domain.ModelBookingsFilter) bool {
		return filter.ModelID == "m1" && filter.IsSingleDay() && !filter.IncludeInactive
	})).Return([]*domain.Booking{
		{StartTime: types.MustTimeString("11:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
	}, nil)

	var saved *domain.Booking
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Booking) }).
		Return(&domain.Booking{
			ID:              42,
			ModelID:         "m1",
			ServiceID:       "s1",
			StartTime:       types.MustTimeString("12:00"),
			DurationMinutes: 60,
			Location:        domain.LocationClientAddress,
			Status:          domain.StatusPending,
			ServiceName:     "Massagem",
			ServicePrice:    250,
		}, nil)

	resp, err := f.uc.Execute(ctx, request("12:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Massagem", resp.ServiceName)
	assert.Equal(t, 250.0, resp.ServicePrice)

	require.NotNil(t, saved)
	assert.Equal(t, "Ana", saved.ClientName)
	require.NotNil(t, saved.ClientAddress)
	assert.Equal(t, "Rua A, 10", *saved.ClientAddress)
	assert.Equal(t, 1, f.tx.calls)

	confirmation := resp.ToConfirmation()
	assert.Equal(t, int64(42), confirmation.BookingID)
	assert.Equal(t, domain.LocationClientAddress, confirmation.SelectedLocation)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.expectSchedule(ctx)

	f.bookings.On("GetByModelWithFilter", ctx, mock.Anything).Return([]*domain.Booking{
		{StartTime: types.MustTimeString("11:30"), DurationMinutes: 60, Status: domain.StatusPending},
	}, nil)

	_, err := f.uc.Execute(ctx, request("11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, domain.RejectionSlotUnavailable, ToRejection(err).Code)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_ScheduleRules(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  error
	}{
		{name: "before opening", start: "09:00", want: ErrInvalidTimeSlot},
		{name: "off grid", start: "10:15", want: ErrInvalidTimeSlot},
		{name: "ends after closing", start: "17:30", want: ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			f.expectSchedule(ctx)

			_, err := f.uc.Execute(ctx, request(tt.start))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.RejectionSlotUnavailable, ToRejection(err).Code)
		})
	}
}

func TestExecute_TooLate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetService", ctx, "m1", "s1").Return(service(), nil)
	f.settings.On("GetWithHierarchy", ctx, "m1", mock.Anything).Return(&domain.ModelSlotsConfig{
		SlotStepMinutes: 30, MinBookingNoticeMinutes: 180,
	}, nil)
	f.catalog.On("GetWorkingDay", ctx, "m1", time.Tuesday).Return(workingDay(), nil)

	// 09:00 + 3h > 11:00
	_, err := f.uc.Execute(ctx, request("11:00"))
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetService", ctx, "m1", "s1").Return(service(), nil)
	f.settings.On("GetWithHierarchy", ctx, "m1", mock.Anything).Return(domain.DefaultSlotsConfig("m1"), nil)
	f.catalog.On("GetWorkingDay", ctx, "m1", time.Tuesday).Return(nil, catalogRepo.ErrScheduleNotFound)

	_, err := f.uc.Execute(ctx, request("12:00"))
	assert.ErrorIs(t, err, ErrModelClosed)
}

func TestExecute_InvalidRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("client details", func(t *testing.T) {
		f := newFixture()
		req := request("12:00")
		req.Client = domain.ClientDetails{Name: "Ana", Contact: "abc"}

		_, err := f.uc.Execute(ctx, req)
		require.ErrorIs(t, err, ErrInvalidClientDetails)

		rej := ToRejection(err)
		assert.Equal(t, domain.RejectionInvalidDetails, rej.Code)
		assert.Contains(t, rej.Fields, domain.FieldContact)
		assert.Contains(t, rej.Fields, domain.FieldAddress)
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("unsupported location", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetService", ctx, "m1", "s1").Return(service(), nil)
		req := request("12:00")
		req.Location = domain.LocationOnline

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrLocationNotSupported)
		assert.Equal(t, domain.RejectionInvalidDetails, ToRejection(err).Code)
	})

	t.Run("unknown location", func(t *testing.T) {
		f := newFixture()
		req := request("12:00")
		req.Location = "studio"

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_SerializationFailureIsSlotUnavailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.expectSchedule(ctx)

	pqErr := &pq.Error{Code: "40001"}
	f.bookings.On("GetByModelWithFilter", ctx, mock.Anything).Return(nil, pqErr)

	_, err := f.uc.Execute(ctx, request("12:00"))
	require.Error(t, err)
	assert.True(t, txmanager.IsSerializationFailure(err), "pq error must survive wrapping")

	wrapped := fmt.Errorf("%w: %v", txmanager.ErrSerializationFailure, err)
	assert.Equal(t, domain.RejectionSlotUnavailable, ToRejection(wrapped).Code)
}

func TestToRejection_BackendError(t *testing.T) {
	assert.Nil(t, ToRejection(nil))

	rej := ToRejection(fmt.Errorf("%w: boom", ErrInternal))
	assert.Equal(t, domain.RejectionBackendError, rej.Code)

	rej = ToRejection(errors.New("unexpected"))
	assert.Equal(t, domain.RejectionBackendError, rej.Code)
}
