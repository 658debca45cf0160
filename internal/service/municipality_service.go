package service

import (
	"context"
	"fmt"

	"taxmanager/internal/repository"

	"github.com/google/uuid"
)

// MunicipalityResponse is the directory listing projection.
type MunicipalityResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// MunicipalityService exposes the municipality directory for reads.
// Municipalities are only ever created as a side effect of admitting taxes.
type MunicipalityService interface {
	ListMunicipalities(ctx context.Context, page, limit int) ([]MunicipalityResponse, int64, error)
}

type municipalityService struct {
	municipalities repository.MunicipalityRepository
}

func NewMunicipalityService(municipalities repository.MunicipalityRepository) MunicipalityService {
	return &municipalityService{municipalities: municipalities}
}

func (s *municipalityService) ListMunicipalities(ctx context.Context, page, limit int) ([]MunicipalityResponse, int64, error) {
	municipalities, total, err := s.municipalities.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list municipalities: %w", err)
	}

	res := make([]MunicipalityResponse, 0, len(municipalities))
	for _, m := range municipalities {
		res = append(res, MunicipalityResponse{ID: m.ID, Name: m.Name})
	}

	return res, total, nil
}
