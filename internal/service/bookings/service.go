package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings/models"
)

// Service сервис управления бронированиями модели
type Service struct {
	bookingRepo BookingRepository
	ownerRepo   OwnerRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	ownerRepo OwnerRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		ownerRepo:   ownerRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID. Доступно только владельцу модели.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwner(ctx, booking.ModelID, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetModelBookings получает бронирования модели с фильтрацией.
// По умолчанию возвращаются только активные бронирования.
func (s *Service) GetModelBookings(ctx context.Context, req *models.GetModelBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetModelBookings: fetching bookings for model=%s, user=%d, includeInactive=%t",
		req.ModelID, req.UserID, req.IncludeInactive)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetModelBookings: invalid filter for model=%s: %v", req.ModelID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if err := s.checkOwner(ctx, req.ModelID, req.UserID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByModelWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetModelBookings: repository error for model=%s: %v", req.ModelID, err)
		return nil, fmt.Errorf("%w: GetModelBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetModelBookings: successfully fetched %d bookings for model=%s", len(bookings), req.ModelID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус бронирования по правилам переходов.
// Доступно только владельцу модели.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d", bookingID, req.Status, req.UserID)

	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if err := s.checkOwner(txCtx, booking.ModelID, req.UserID); err != nil {
			return err
		}

		if !booking.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot move from %s to %s", bookingID, booking.Status, next)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, next); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		booking.Status = next
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, next)
	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkOwner проверяет, что пользователь владеет моделью
func (s *Service) checkOwner(ctx context.Context, modelID string, userID int64) error {
	ownerID, err := s.ownerRepo.GetOwnerID(ctx, modelID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrModelNotFound) {
			s.logger.Warn("checkOwner: model id=%s not found", modelID)
			return ErrModelNotFound
		}
		s.logger.Error("checkOwner: failed to get owner of model id=%s: %v", modelID, err)
		return fmt.Errorf("%w: checkOwner - repository error: %v", ErrInternal, err)
	}

	if ownerID != userID {
		s.logger.Warn("checkOwner: user=%d is not the owner of model=%s", userID, modelID)
		return ErrAccessDenied
	}

	return nil
}
