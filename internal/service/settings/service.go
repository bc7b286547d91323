package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BookingWizard/internal/service/settings/models"
)

// Service сервис настроек слотов моделей
type Service struct {
	settingsRepo SettingsRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWithHierarchy возвращает действующие настройки.
// Публичный метод. Приоритет: service > model > значения по умолчанию.
func (s *Service) GetWithHierarchy(ctx context.Context, req *models.GetSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching settings for model=%s, service=%v", req.ModelID, req.ServiceID)

	if _, err := s.catalogRepo.GetOwnerID(ctx, req.ModelID); err != nil {
		return nil, s.mapCatalogError("GetWithHierarchy", req.ModelID, err)
	}

	cfg, err := s.settingsRepo.GetWithHierarchy(ctx, req.ModelID, req.ServiceID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("GetWithHierarchy: repository error: %v", err)
			return nil, fmt.Errorf("%w: GetWithHierarchy - repository error: %v", ErrInternal, err)
		}
		s.logger.Info("GetWithHierarchy: no settings for model=%s, using defaults", req.ModelID)
		cfg = domain.DefaultSlotsConfig(req.ModelID)
	}

	return models.FromDomainSettings(cfg), nil
}

// List возвращает все настройки модели. Доступно только владельцу.
func (s *Service) List(ctx context.Context, modelID string, userID int64) (*models.SettingsListResponse, error) {
	s.logger.Info("List: fetching settings for model=%s by user=%d", modelID, userID)

	if err := s.checkOwner(ctx, "List", modelID, userID); err != nil {
		return nil, err
	}

	configs, err := s.settingsRepo.GetAllByModel(ctx, modelID)
	if err != nil {
		s.logger.Error("List: repository error for model=%s: %v", modelID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettingsList(configs), nil
}

// Upsert создает или обновляет настройки модели (или отдельной услуги).
// Доступно только владельцу модели.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Upsert: saving settings for model=%s, service=%v by user=%d", req.ModelID, req.ServiceID, req.UserID)

	var saved *domain.ModelSlotsConfig

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.checkOwner(txCtx, "Upsert", req.ModelID, req.UserID); err != nil {
			return err
		}

		if req.ServiceID != nil {
			if _, err := s.catalogRepo.GetService(txCtx, req.ModelID, *req.ServiceID); err != nil {
				if errors.Is(err, catalogRepo.ErrServiceNotFound) {
					s.logger.Warn("Upsert: service id=%s not found for model=%s", *req.ServiceID, req.ModelID)
					return ErrServiceNotFound
				}
				s.logger.Error("Upsert: failed to get service id=%s: %v", *req.ServiceID, err)
				return fmt.Errorf("%w: Upsert - failed to get service: %v", ErrInternal, err)
			}
		}

		existing, err := s.settingsRepo.GetByModelAndService(txCtx, req.ModelID, req.ServiceID)
		if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("Upsert: failed to check existing settings: %v", err)
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}

		cfg := domain.DefaultSlotsConfig(req.ModelID)
		cfg.ServiceID = req.ServiceID
		if existing != nil {
			cfg = existing
		}
		req.ApplyTo(cfg)

		if err := validateSettings(cfg); err != nil {
			s.logger.Warn("Upsert: validation failed: %v", err)
			return err
		}

		if existing != nil {
			saved, err = s.settingsRepo.Update(txCtx, existing.ID, cfg)
		} else {
			saved, err = s.settingsRepo.Create(txCtx, cfg)
		}
		if err != nil {
			s.logger.Error("Upsert: repository error: %v", err)
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Upsert: successfully saved settings id=%d for model=%s", saved.ID, req.ModelID)
	return models.FromDomainSettings(saved), nil
}

// Вспомогательные методы

func (s *Service) checkOwner(ctx context.Context, op, modelID string, userID int64) error {
	ownerID, err := s.catalogRepo.GetOwnerID(ctx, modelID)
	if err != nil {
		return s.mapCatalogError(op, modelID, err)
	}
	if ownerID != userID {
		s.logger.Warn("%s: user=%d is not the owner of model=%s", op, userID, modelID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) mapCatalogError(op, modelID string, err error) error {
	if errors.Is(err, catalogRepo.ErrModelNotFound) {
		s.logger.Warn("%s: model id=%s not found", op, modelID)
		return ErrModelNotFound
	}
	s.logger.Error("%s: failed to get model id=%s: %v", op, modelID, err)
	return fmt.Errorf("%w: %s - catalog error: %v", ErrInternal, op, err)
}

// validateSettings проверяет границы параметров
func validateSettings(cfg *domain.ModelSlotsConfig) error {
	if cfg.SlotStepMinutes < domain.MinSlotStepMinutes || cfg.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if cfg.AdvanceBookingDays < domain.MinAdvanceBookingDays || cfg.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if cfg.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || cfg.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}
