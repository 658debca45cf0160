package repository

import (
	"context"

	"taxmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxRepository defines the data access interface for tax records.
type TaxRepository interface {
	Create(ctx context.Context, tax *model.Tax) error
	ListByMunicipality(ctx context.Context, municipalityID uuid.UUID) ([]model.Tax, error)
}

type taxRepository struct {
	db *gorm.DB
}

// NewTaxRepository returns a new instance of TaxRepository
func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) Create(ctx context.Context, tax *model.Tax) error {
	return GetDB(ctx, r.db).Create(tax).Error
}

func (r *taxRepository) ListByMunicipality(ctx context.Context, municipalityID uuid.UUID) ([]model.Tax, error) {
	var taxes []model.Tax
	err := GetDB(ctx, r.db).
		Where("municipality_id = ?", municipalityID).
		Order("start_date asc").
		Find(&taxes).Error
	if err != nil {
		return nil, err
	}
	return taxes, nil
}
