package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/settings"
)

// UseCase use case для получения слотов услуги модели на дату
type UseCase struct {
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: model=%s, service=%s, date=%s",
		req.ModelID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	day := startOfDay(req.Date, now.Location())

	// 2. Получаем услугу (вместе с проверкой активности модели)
	service, err := uc.catalogRepo.GetService(ctx, req.ModelID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found for model id=%s", req.ServiceID, req.ModelID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Настройки слотов с учетом иерархии
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, req.ModelID, &req.ServiceID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultSlotsConfig(req.ModelID)
		uc.logger.Info("GetAvailableSlots: using default settings for model=%s", req.ModelID)
	}

	// 4. Валидация даты
	if err := validateDate(day, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:      day,
		ModelID:   req.ModelID,
		ServiceID: req.ServiceID,
		Slots:     []Slot{},
	}

	// 5. Рабочие часы; отсутствие расписания означает выходной
	workingDay, err := uc.catalogRepo.GetWorkingDay(ctx, req.ModelID, day.Weekday())
	if err != nil {
		if errors.Is(err, catalogRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: model=%s has no schedule on %s", req.ModelID, day.Weekday())
			return response, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get working day: %v", err)
		return nil, fmt.Errorf("%w: failed to get working day: %v", ErrInternal, err)
	}
	if !workingDay.IsOpen {
		uc.logger.Info("GetAvailableSlots: model=%s is closed on %s", req.ModelID, day.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Сетка слотов
	starts := generateGrid(workingDay, settings.SlotStepMinutes, service.DurationMinutes)
	starts = filterByNotice(starts, day, now, settings.MinBookingNoticeMinutes)
	if len(starts) == 0 {
		return response, nil
	}

	// 7. Активные бронирования модели на эту дату
	bookings, err := uc.bookingRepo.GetByModelWithFilter(ctx, domain.ModelBookingsFilter{
		ModelID:   req.ModelID,
		StartDate: &day,
		EndDate:   &day,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	for _, start := range starts {
		response.Slots = append(response.Slots, Slot{
			StartTime:       start,
			DurationMinutes: service.DurationMinutes,
			Available:       !overlapsAny(start, service.DurationMinutes, bookings),
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for model=%s, service=%s, date=%s",
		len(response.Slots), req.ModelID, req.ServiceID, day.Format(domain.DateFormat))

	return response, nil
}
