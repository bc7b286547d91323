package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/settings"
)

// UseCase use case для создания бронирования
type UseCase struct {
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: model=%s, service=%s, date=%s, time=%s, location=%s",
		req.ModelID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Location)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	day := startOfDay(req.Date, now.Location())
	client := req.Client.Normalize()

	// 2. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ModelID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found for model id=%s", req.ServiceID, req.ModelID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Услуга должна оказываться в выбранном месте
	if !service.SupportsLocation(req.Location) {
		uc.logger.Warn("CreateBooking: service id=%s does not support location=%s", req.ServiceID, req.Location)
		return nil, ErrLocationNotSupported
	}

	var result *domain.Booking

	// 4. Операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		settings, err := uc.settingsRepo.GetWithHierarchy(txCtx, req.ModelID, &req.ServiceID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("CreateBooking: failed to get settings: %v", err)
				return fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
			}
			settings = domain.DefaultSlotsConfig(req.ModelID)
		}

		if err := validateDate(day, now, settings.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		workingDay, err := uc.catalogRepo.GetWorkingDay(txCtx, req.ModelID, day.Weekday())
		if err != nil && !errors.Is(err, catalogRepo.ErrScheduleNotFound) {
			uc.logger.Error("CreateBooking: failed to get working day: %v", err)
			return fmt.Errorf("%w: failed to get working day: %w", ErrInternal, err)
		}
		if workingDay == nil || !workingDay.IsOpen {
			uc.logger.Warn("CreateBooking: model=%s is closed on %s", req.ModelID, day.Format(domain.DateFormat))
			return ErrModelClosed
		}

		if err := validateTimeSlot(req.StartTime, service.DurationMinutes, settings.SlotStepMinutes, workingDay); err != nil {
			uc.logger.Warn("CreateBooking: time slot validation failed: %v", err)
			return err
		}

		if err := validateNotice(req.StartTime, day, now, settings.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: notice validation failed: %v", err)
			return err
		}

		// Активные бронирования модели на дату, с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByModelWithFilter(txCtx, domain.ModelBookingsFilter{
			ModelID:   req.ModelID,
			StartDate: &day,
			EndDate:   &day,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if hasOverlap(req.StartTime, service.DurationMinutes, bookings) {
			uc.logger.Warn("CreateBooking: slot %s %s is taken for model=%s",
				day.Format(domain.DateFormat), req.StartTime, req.ModelID)
			return ErrSlotNotAvailable
		}

		booking := &domain.Booking{
			ModelID:         req.ModelID,
			ServiceID:       req.ServiceID,
			BookingDate:     day,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Location:        req.Location,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			ClientName:      client.Name,
			ClientContact:   client.Contact,
		}
		if req.Location == domain.LocationClientAddress {
			booking.ClientAddress = &client.Address
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		ModelID:         result.ModelID,
		ServiceID:       result.ServiceID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Location:        result.Location,
		Status:          result.Status,
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		CreatedAt:       result.CreatedAt,
	}, nil
}
