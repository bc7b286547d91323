package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWizard/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

var settingsColumns = []string{
	"id",
	"model_id",
	"service_id",
	"slot_step_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с настройками слотов моделей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает настройки слотов
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, cfg *domain.ModelSlotsConfig) (*domain.ModelSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("model_slots_config").
		Columns(
			"model_id",
			"service_id",
			"slot_step_minutes",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			cfg.ModelID,
			cfg.ServiceID,
			cfg.SlotStepMinutes,
			cfg.AdvanceBookingDays,
			cfg.MinBookingNoticeMinutes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// GetByModelAndService получает настройки точно для указанного уровня:
// serviceID == nil означает настройки модели для всех услуг
func (r *Repository) GetByModelAndService(ctx context.Context, modelID string, serviceID *string) (*domain.ModelSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From("model_slots_config").
		Where(squirrel.Eq{"model_id": modelID})

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByModelAndService - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByModelAndService - scan settings: %v", ErrScanRow, err)
	}

	return cfg, nil
}

// GetWithHierarchy получает настройки с учетом приоритетов:
// 1. Настройки конкретной услуги (modelID, serviceID)
// 2. Настройки модели для всех услуг (modelID, NULL)
//
// Если настройки не найдены ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, modelID string, serviceID *string) (*domain.ModelSlotsConfig, error) {
	if serviceID != nil {
		cfg, err := r.GetByModelAndService(ctx, modelID, serviceID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (service): %v", ErrExecQuery, err)
		}
	}

	cfg, err := r.GetByModelAndService(ctx, modelID, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (model): %v", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}

// GetAllByModel получает все настройки модели (общие первыми)
func (r *Repository) GetAllByModel(ctx context.Context, modelID string) ([]*domain.ModelSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("model_slots_config").
		Where(squirrel.Eq{"model_id": modelID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByModel - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByModel - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.ModelSlotsConfig, 0)
	for rows.Next() {
		cfg, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByModel - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByModel - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// Update обновляет настройки слотов
func (r *Repository) Update(ctx context.Context, id int64, cfg *domain.ModelSlotsConfig) (*domain.ModelSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("model_slots_config").
		Set("slot_step_minutes", cfg.SlotStepMinutes).
		Set("advance_booking_days", cfg.AdvanceBookingDays).
		Set("min_booking_notice_minutes", cfg.MinBookingNoticeMinutes).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	cfg.ID = id
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSettings(row rowScanner) (*domain.ModelSlotsConfig, error) {
	var (
		cfg                  domain.ModelSlotsConfig
		serviceID            sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&cfg.ID,
		&cfg.ModelID,
		&serviceID,
		&cfg.SlotStepMinutes,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if serviceID.Valid {
		cfg.ServiceID = &serviceID.String
	}
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
