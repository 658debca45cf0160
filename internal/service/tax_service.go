package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"taxmanager/internal/model"
	"taxmanager/internal/repository"
	"taxmanager/pkg/parse"
)

// --- DTOs ---

type AddTaxRequest struct {
	Municipality string `json:"municipality" binding:"required"`
	Value        string `json:"value" binding:"required"`                              // Decimal string, "," or "." separator
	Schedule     string `json:"schedule" binding:"required,oneof=Weekly Monthly Yearly"`
	StartDate    string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate      string `json:"end_date"`                      // YYYY-MM-DD, optional: empty = open-ended
}

// MunicipalityTaxResponse is the denormalized query view joining a tax
// record with its municipality. Derived on read, never persisted.
type MunicipalityTaxResponse struct {
	Municipality string  `json:"municipality"`
	Value        string  `json:"value"`
	Schedule     string  `json:"schedule"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
}

// --- Interface ---

// TaxService validates and stores municipal tax records and resolves
// date-window queries against them.
type TaxService interface {
	GetByMunicipalityAndDate(ctx context.Context, municipality string, from, to *time.Time) ([]MunicipalityTaxResponse, error)
	AddMunicipalityTax(ctx context.Context, req AddTaxRequest) (*MunicipalityTaxResponse, error)
	ImportTaxes(ctx context.Context, r io.Reader) (int, error)
}

type taxService struct {
	municipalities repository.MunicipalityRepository
	taxes          repository.TaxRepository
	txManager      repository.TransactionManager
}

func NewTaxService(municipalities repository.MunicipalityRepository, taxes repository.TaxRepository, txManager repository.TransactionManager) TaxService {
	return &taxService{
		municipalities: municipalities,
		taxes:          taxes,
		txManager:      txManager,
	}
}

// --- Implementation ---

// GetByMunicipalityAndDate returns the municipality's tax records filtered
// by the optional date window. The bounds are attribute comparisons, not an
// interval-overlap test: a record starting before `from` is excluded even if
// its range covers `from`. Records with no end date pass the upper bound.
func (s *taxService) GetByMunicipalityAndDate(ctx context.Context, municipality string, from, to *time.Time) ([]MunicipalityTaxResponse, error) {
	mun, err := s.municipalities.FindByName(ctx, municipality)
	if err != nil {
		return nil, fmt.Errorf("failed to look up municipality: %w", err)
	}
	if mun == nil {
		return nil, ErrMunicipalityNotFound
	}

	taxes, err := s.taxes.ListByMunicipality(ctx, mun.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch taxes: %w", err)
	}

	res := make([]MunicipalityTaxResponse, 0, len(taxes))
	for _, t := range taxes {
		if !matchesWindow(&t, from, to) {
			continue
		}
		res = append(res, toMunicipalityTaxResponse(&t, mun.Name))
	}

	return res, nil
}

// matchesWindow applies the date filters. A nil or zero bound means
// unbounded on that side.
func matchesWindow(t *model.Tax, from, to *time.Time) bool {
	if from != nil && !from.IsZero() {
		if t.StartDate.Before(parse.DateOnly(*from)) {
			return false
		}
	}
	if to != nil && !to.IsZero() {
		// An unset end date is below any upper bound
		if t.EndDate != nil && t.EndDate.After(parse.DateOnly(*to)) {
			return false
		}
	}
	return true
}

// AddMunicipalityTax resolves the municipality (creating it on first
// reference) and admits the candidate record against its existing taxes.
// Resolution and admission run in one transaction.
func (s *taxService) AddMunicipalityTax(ctx context.Context, req AddTaxRequest) (*MunicipalityTaxResponse, error) {
	candidate, err := buildCandidate(req)
	if err != nil {
		return nil, err
	}

	return s.addCandidate(ctx, req.Municipality, candidate)
}

// addCandidate runs municipality resolution and admission of one candidate
// inside a single transaction. Shared by the add operation and the import
// pipeline (one call per row, so each row commits independently).
func (s *taxService) addCandidate(ctx context.Context, municipality string, candidate *model.Tax) (*MunicipalityTaxResponse, error) {
	var res *MunicipalityTaxResponse
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		mun, err := s.municipalities.FindOrCreate(txCtx, municipality)
		if err != nil {
			return fmt.Errorf("failed to resolve municipality: %w", err)
		}

		candidate.MunicipalityID = mun.ID
		if err := s.admit(txCtx, mun, candidate); err != nil {
			return err
		}

		r := toMunicipalityTaxResponse(candidate, mun.Name)
		res = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// admit loads the municipality's existing records, applies the coexistence
// rules and persists the candidate on success.
func (s *taxService) admit(ctx context.Context, mun *model.Municipality, candidate *model.Tax) error {
	existing, err := s.taxes.ListByMunicipality(ctx, mun.ID)
	if err != nil {
		return fmt.Errorf("failed to load existing taxes: %w", err)
	}

	if err := validateCandidate(candidate, existing, mun.Name); err != nil {
		return err
	}

	if err := s.taxes.Create(ctx, candidate); err != nil {
		return fmt.Errorf("failed to persist tax: %w", err)
	}

	return nil
}

// validateCandidate applies the two coexistence rules:
//   - at most one Yearly record per municipality, regardless of dates;
//   - no two records may share an identical (start, end) date pair.
func validateCandidate(candidate *model.Tax, existing []model.Tax, municipality string) error {
	if candidate.Schedule == model.ScheduleYearly {
		for _, t := range existing {
			if t.Schedule == model.ScheduleYearly {
				return &ValidationError{Reason: ReasonDuplicateYearly, Municipality: municipality}
			}
		}
	}

	for _, t := range existing {
		if t.SameRange(candidate.StartDate, candidate.EndDate) {
			return &ValidationError{Reason: ReasonDuplicateRange, Municipality: municipality}
		}
	}

	return nil
}

// --- Helpers ---

// buildCandidate parses the request fields into a candidate tax record. The
// end date is stored exactly as submitted; it is not derived from the
// schedule.
func buildCandidate(req AddTaxRequest) (*model.Tax, error) {
	value, err := parse.Decimal(req.Value)
	if err != nil {
		return nil, &ParseError{Field: "value", Value: req.Value, Err: err}
	}

	schedule, err := parse.Schedule(req.Schedule)
	if err != nil {
		return nil, &ParseError{Field: "schedule", Value: req.Schedule, Err: err}
	}

	startDate, err := parse.Date(req.StartDate)
	if err != nil {
		return nil, &ParseError{Field: "start date", Value: req.StartDate, Err: err}
	}

	var endDate *time.Time
	if req.EndDate != "" {
		d, err := parse.Date(req.EndDate)
		if err != nil {
			return nil, &ParseError{Field: "end date", Value: req.EndDate, Err: err}
		}
		if d.Before(startDate) {
			return nil, &ParseError{Field: "end date", Value: req.EndDate, Err: fmt.Errorf("end date precedes start date")}
		}
		endDate = &d
	}

	return &model.Tax{
		Value:     value,
		Schedule:  schedule,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func toMunicipalityTaxResponse(t *model.Tax, municipality string) MunicipalityTaxResponse {
	res := MunicipalityTaxResponse{
		Municipality: municipality,
		Value:        t.Value.String(),
		Schedule:     t.Schedule,
		StartDate:    t.StartDate.Format("2006-01-02"),
	}
	if t.EndDate != nil {
		s := t.EndDate.Format("2006-01-02")
		res.EndDate = &s
	}
	return res
}
