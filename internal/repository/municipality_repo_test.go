package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestMunicipalityRepoFindByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMunicipalityRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "municipalities" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, "Springfield"))

	mun, err := repo.FindByName(context.Background(), "Springfield")
	require.NoError(t, err)
	require.NotNil(t, mun)
	assert.Equal(t, id, mun.ID)
	assert.Equal(t, "Springfield", mun.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMunicipalityRepoFindByNameMissingIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMunicipalityRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "municipalities" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	mun, err := repo.FindByName(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, mun)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMunicipalityRepoFindOrCreateInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMunicipalityRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO "municipalities" .* ON CONFLICT \("name"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	mun, err := repo.FindOrCreate(context.Background(), "Springfield")
	require.NoError(t, err)
	require.NotNil(t, mun)
	assert.Equal(t, id, mun.ID)
	assert.Equal(t, "Springfield", mun.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMunicipalityRepoFindOrCreateRereadsOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMunicipalityRepository(db)

	id := uuid.New()
	// DO NOTHING returned no row: the name already exists, so the repo
	// re-reads the winning row
	mock.ExpectQuery(`INSERT INTO "municipalities" .* ON CONFLICT \("name"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "municipalities" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, "Springfield"))

	mun, err := repo.FindOrCreate(context.Background(), "Springfield")
	require.NoError(t, err)
	require.NotNil(t, mun)
	assert.Equal(t, id, mun.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
