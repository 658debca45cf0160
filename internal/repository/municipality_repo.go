package repository

import (
	"context"
	"errors"

	"taxmanager/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MunicipalityRepository defines the data access interface for the
// municipality directory.
type MunicipalityRepository interface {
	FindByName(ctx context.Context, name string) (*model.Municipality, error)
	FindOrCreate(ctx context.Context, name string) (*model.Municipality, error)
	List(ctx context.Context, page, limit int) ([]model.Municipality, int64, error)
}

type municipalityRepository struct {
	db *gorm.DB
}

// NewMunicipalityRepository returns a new instance of MunicipalityRepository
func NewMunicipalityRepository(db *gorm.DB) MunicipalityRepository {
	return &municipalityRepository{db: db}
}

// FindByName looks a municipality up by exact name. Returns (nil, nil) when
// no municipality with that name exists.
func (r *municipalityRepository) FindByName(ctx context.Context, name string) (*model.Municipality, error) {
	var municipality model.Municipality
	err := GetDB(ctx, r.db).First(&municipality, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &municipality, nil
}

// FindOrCreate resolves a name to a municipality, creating it on first
// reference. The insert uses ON CONFLICT (name) DO NOTHING so two concurrent
// resolutions of the same unseen name cannot produce duplicate entries; on
// conflict the existing row is re-read.
func (r *municipalityRepository) FindOrCreate(ctx context.Context, name string) (*model.Municipality, error) {
	municipality := model.Municipality{Name: name}

	result := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&municipality)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Lost the upsert race or the name already existed
		return r.FindByName(ctx, name)
	}

	return &municipality, nil
}

func (r *municipalityRepository) List(ctx context.Context, page, limit int) ([]model.Municipality, int64, error) {
	var municipalities []model.Municipality
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Municipality{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&municipalities).Error; err != nil {
		return nil, 0, err
	}

	return municipalities, total, nil
}
