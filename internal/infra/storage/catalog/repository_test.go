package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRepository_ListActiveModels(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT id, slug, name, description, city, neighborhood FROM models WHERE is_active = \$1 ORDER BY name ASC, id ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(modelColumns).
			AddRow("m1", "ana", "Ana", "", "São Paulo", "Moema").
			AddRow("m2", "bia", "Bia", "", "São Paulo", "Pinheiros").
			AddRow("m3", "carla", "Carla", "", "Rio", "Leblon"))

	mock.ExpectQuery(`SELECT .* FROM model_services WHERE is_active = \$1 AND model_id IN \(\$2,\$3,\$4\) ORDER BY position ASC, name ASC`).
		WithArgs(true, "m1", "m2", "m3").
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow("s1", "m1", "Chat", "", 100.0, 30, []byte("{online}")).
			AddRow("s2", "m1", "Dinner", "", 500.0, 120, []byte("{online,my_address}")).
			AddRow("s3", "m3", "Visit", "", 300.0, 60, []byte("{client_address}")))

	models, err := repo.ListActiveModels(context.Background())
	require.NoError(t, err)

	// модель без активных услуг не попадает в каталог
	require.Len(t, models, 2)
	assert.Equal(t, "m1", models[0].ID)
	assert.Equal(t, "m3", models[1].ID)

	require.Len(t, models[0].Services, 2)
	assert.Equal(t, []domain.LocationType{domain.LocationOnline, domain.LocationProviderAddress}, models[0].Services[1].LocationTypes)
	assert.Equal(t, 500.0, models[0].Services[1].Price)
	assert.Equal(t, 120, models[0].Services[1].DurationMinutes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActiveModels_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM models`).WillReturnRows(sqlmock.NewRows(modelColumns))

	models, err := repo.ListActiveModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, models)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActiveModels_QueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM models`).WillReturnError(errors.New("connection reset"))

	_, err := repo.ListActiveModels(context.Background())
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetModelIDBySlug(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT id FROM models WHERE is_active = \$1 AND slug = \$2`).
		WithArgs(true, "ana").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m1"))
	mock.ExpectQuery(`SELECT id FROM models WHERE is_active = \$1 AND slug = \$2`).
		WithArgs(true, "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id, err := repo.GetModelIDBySlug(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, "m1", id)

	_, err = repo.GetModelIDBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetService(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM model_services WHERE id = \$1 AND is_active = \$2 AND model_id = \$3`).
		WithArgs("s2", true, "m1").
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow("s2", "m1", "Dinner", "Two hours", 500.0, 120, []byte("{my_address}")))
	mock.ExpectQuery(`SELECT .* FROM model_services`).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	service, err := repo.GetService(context.Background(), "m1", "s2")
	require.NoError(t, err)
	assert.Equal(t, "Dinner", service.Name)
	assert.True(t, service.SupportsLocation(domain.LocationProviderAddress))

	_, err = repo.GetService(context.Background(), "m1", "missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWorkingDay(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT weekday, is_open, open_time, close_time FROM model_schedules WHERE model_id = \$1 AND weekday = \$2`).
		WithArgs("m1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"weekday", "is_open", "open_time", "close_time"}).
			AddRow(5, true, "09:00:00", "18:00:00"))
	mock.ExpectQuery(`SELECT .* FROM model_schedules`).
		WithArgs("m1", 0).
		WillReturnRows(sqlmock.NewRows([]string{"weekday", "is_open", "open_time", "close_time"}).
			AddRow(0, false, nil, nil))

	day, err := repo.GetWorkingDay(context.Background(), "m1", time.Friday)
	require.NoError(t, err)
	assert.True(t, day.IsOpen)
	assert.Equal(t, "09:00", day.OpenTime.String())
	assert.Equal(t, "18:00", day.CloseTime.String())

	day, err = repo.GetWorkingDay(context.Background(), "m1", time.Sunday)
	require.NoError(t, err)
	assert.False(t, day.IsOpen)
	assert.True(t, day.OpenTime.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOwnerID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT owner_id FROM models WHERE id = \$1`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(100)))

	owner, err := repo.GetOwnerID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
