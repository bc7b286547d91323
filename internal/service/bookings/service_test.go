package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/ptr"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) GetByModelWithFilter(ctx context.Context, filter domain.ModelBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if b := args.Get(0); b != nil {
		return b.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockOwnerRepo struct{ mock.Mock }

func (m *mockOwnerRepo) GetOwnerID(ctx context.Context, modelID string) (int64, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(int64), args.Error(1)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const ownerID int64 = 7

func newService() (*Service, *mockBookingRepo, *mockOwnerRepo) {
	bookings := &mockBookingRepo{}
	owners := &mockOwnerRepo{}
	return NewService(bookings, owners, inlineTx{}, logger.NewNop()), bookings, owners
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              1,
		ModelID:         "m1",
		ServiceID:       "s1",
		BookingDate:     time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       types.MustTimeString("12:00"),
		DurationMinutes: 60,
		Location:        domain.LocationOnline,
		Status:          domain.StatusPending,
		ClientName:      "Ana",
		ClientContact:   "11987654321",
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees booking", func(t *testing.T) {
		svc, bookings, owners := newService()
		bookings.On("GetByID", ctx, int64(1)).Return(pendingBooking(), nil)
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)

		resp, err := svc.GetByID(ctx, 1, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "2026-11-10", resp.BookingDate)
		assert.Equal(t, "12:00", resp.StartTime)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc, bookings, owners := newService()
		bookings.On("GetByID", ctx, int64(1)).Return(pendingBooking(), nil)
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)

		_, err := svc.GetByID(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		svc, bookings, _ := newService()
		bookings.On("GetByID", ctx, int64(2)).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := svc.GetByID(ctx, 2, ownerID)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, bookings, _ := newService()
		bookings.On("GetByID", ctx, int64(3)).Return(nil, errors.New("db down"))

		_, err := svc.GetByID(ctx, 3, ownerID)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestGetModelBookings(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)

	t.Run("filter passed through", func(t *testing.T) {
		svc, bookings, owners := newService()
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)
		confirmed := domain.StatusConfirmed
		bookings.On("GetByModelWithFilter", ctx, domain.ModelBookingsFilter{
			ModelID: "m1", StartDate: &from, EndDate: &to, Status: &confirmed,
		}).Return([]*domain.Booking{pendingBooking()}, nil)

		resp, err := svc.GetModelBookings(ctx, &models.GetModelBookingsRequest{
			UserID: ownerID, ModelID: "m1", StartDate: &from, EndDate: &to, Status: ptr.Ptr("confirmed"),
		})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		svc, bookings, owners := newService()
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)
		bookings.On("GetByModelWithFilter", ctx, mock.Anything).Return([]*domain.Booking{}, nil)

		resp, err := svc.GetModelBookings(ctx, &models.GetModelBookingsRequest{UserID: ownerID, ModelID: "m1"})
		require.NoError(t, err)
		assert.NotNil(t, resp.Bookings)
		assert.Empty(t, resp.Bookings)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.GetModelBookings(ctx, &models.GetModelBookingsRequest{UserID: ownerID, ModelID: "m1", Status: ptr.Ptr("lost")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("inverted period", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.GetModelBookings(ctx, &models.GetModelBookingsRequest{UserID: ownerID, ModelID: "m1", StartDate: &to, EndDate: &from})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown model", func(t *testing.T) {
		svc, _, owners := newService()
		owners.On("GetOwnerID", ctx, "nope").Return(int64(0), catalogRepo.ErrModelNotFound)

		_, err := svc.GetModelBookings(ctx, &models.GetModelBookingsRequest{UserID: ownerID, ModelID: "nope"})
		assert.ErrorIs(t, err, ErrModelNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm pending", func(t *testing.T) {
		svc, bookings, owners := newService()
		bookings.On("GetByID", ctx, int64(1)).Return(pendingBooking(), nil)
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)
		bookings.On("UpdateStatus", ctx, int64(1), domain.StatusConfirmed).Return(nil)

		resp, err := svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: ownerID, Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		bookings.AssertExpectations(t)
	})

	t.Run("transition not allowed", func(t *testing.T) {
		svc, bookings, owners := newService()
		bookings.On("GetByID", ctx, int64(1)).Return(pendingBooking(), nil)
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)

		_, err := svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: ownerID, Status: "completed"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: ownerID, Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, bookings, owners := newService()
		bookings.On("GetByID", ctx, int64(1)).Return(pendingBooking(), nil)
		owners.On("GetOwnerID", ctx, "m1").Return(ownerID, nil)

		_, err := svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: 100, Status: "declined"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
