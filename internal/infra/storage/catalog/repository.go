package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWizard/pkg/psqlbuilder"
)

var modelColumns = []string{
	"id",
	"slug",
	"name",
	"description",
	"city",
	"neighborhood",
}

var serviceColumns = []string{
	"id",
	"model_id",
	"name",
	"description",
	"price",
	"duration_minutes",
	"location_types",
}

// Repository репозиторий публичного каталога моделей и их услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActiveModels возвращает активные модели вместе с активными услугами.
// Модели без активных услуг в каталог не попадают.
func (r *Repository) ListActiveModels(ctx context.Context) ([]domain.BookableModel, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(modelColumns...).
		From("models").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveModels - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveModels - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	models := make([]domain.BookableModel, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var model domain.BookableModel
		if err := rows.Scan(
			&model.ID,
			&model.Slug,
			&model.Name,
			&model.Description,
			&model.City,
			&model.Neighborhood,
		); err != nil {
			return nil, fmt.Errorf("%w: ListActiveModels - scan model: %v", ErrScanRow, err)
		}
		models = append(models, model)
		ids = append(ids, model.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveModels - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return models, nil
	}

	services, err := r.listActiveServices(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.BookableModel, 0, len(models))
	for _, model := range models {
		model.Services = services[model.ID]
		if len(model.Services) == 0 {
			continue
		}
		result = append(result, model)
	}

	return result, nil
}

// GetModelIDBySlug возвращает ID активной модели по её slug
func (r *Repository) GetModelIDBySlug(ctx context.Context, slug string) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("models").
		Where(squirrel.Eq{"slug": slug, "is_active": true}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: GetModelIDBySlug - build select query: %v", ErrBuildQuery, err)
	}

	var id string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrModelNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetModelIDBySlug - scan id: %v", ErrScanRow, err)
	}

	return id, nil
}

// GetOwnerID возвращает ID пользователя-владельца модели (в том числе неактивной)
func (r *Repository) GetOwnerID(ctx context.Context, modelID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("owner_id").
		From("models").
		Where(squirrel.Eq{"id": modelID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetOwnerID - build select query: %v", ErrBuildQuery, err)
	}

	var ownerID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrModelNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetOwnerID - scan owner_id: %v", ErrScanRow, err)
	}

	return ownerID, nil
}

// GetService возвращает активную услугу модели
func (r *Repository) GetService(ctx context.Context, modelID, serviceID string) (*domain.BookableService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("model_services").
		Where(squirrel.Eq{"id": serviceID, "model_id": modelID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var modelIDCol string
	service, err := scanService(executor.QueryRowContext(ctx, query, args...), &modelIDCol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return service, nil
}

// GetWorkingDay возвращает расписание модели на день недели
func (r *Repository) GetWorkingDay(ctx context.Context, modelID string, weekday time.Weekday) (*domain.WorkingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("model_schedules").
		Where(squirrel.Eq{"model_id": modelID, "weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingDay - build select query: %v", ErrBuildQuery, err)
	}

	var (
		day    domain.WorkingDay
		dayNum int
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&dayNum, &day.IsOpen, &day.OpenTime, &day.CloseTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingDay - scan schedule: %v", ErrScanRow, err)
	}

	day.Weekday = time.Weekday(dayNum)

	return &day, nil
}

// listActiveServices возвращает активные услуги моделей, сгруппированные по model_id, в порядке position
func (r *Repository) listActiveServices(ctx context.Context, modelIDs []string) (map[string][]domain.BookableService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("model_services").
		Where(squirrel.Eq{"model_id": modelIDs, "is_active": true}).
		OrderBy("position ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listActiveServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listActiveServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string][]domain.BookableService, len(modelIDs))
	for rows.Next() {
		var modelID string
		service, err := scanService(rows, &modelID)
		if err != nil {
			return nil, fmt.Errorf("%w: listActiveServices - scan service: %v", ErrScanRow, err)
		}
		result[modelID] = append(result[modelID], *service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listActiveServices - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner, modelID *string) (*domain.BookableService, error) {
	var (
		service   domain.BookableService
		locations []string
	)
	if err := row.Scan(
		&service.ID,
		modelID,
		&service.Name,
		&service.Description,
		&service.Price,
		&service.DurationMinutes,
		pq.Array(&locations),
	); err != nil {
		return nil, err
	}

	service.LocationTypes = make([]domain.LocationType, 0, len(locations))
	for _, l := range locations {
		location, err := domain.ParseLocationType(l)
		if err != nil {
			return nil, err
		}
		service.LocationTypes = append(service.LocationTypes, location)
	}

	return &service, nil
}
