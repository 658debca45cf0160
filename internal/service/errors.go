package service

import (
	"errors"
	"fmt"
)

// ErrMunicipalityNotFound is returned when a query names a municipality the
// directory has never seen.
var ErrMunicipalityNotFound = errors.New("municipality not found")

// Validation rejection reasons
const (
	ReasonDuplicateYearly = "duplicate_yearly"
	ReasonDuplicateRange  = "duplicate_range"
)

// ValidationError is a business-rule rejection of a candidate tax record.
type ValidationError struct {
	Reason       string
	Municipality string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonDuplicateYearly:
		return fmt.Sprintf("municipality %q already has a yearly tax", e.Municipality)
	case ReasonDuplicateRange:
		return fmt.Sprintf("municipality %q already has a tax with the same date range", e.Municipality)
	default:
		return fmt.Sprintf("invalid tax for municipality %q", e.Municipality)
	}
}

// ParseError is a malformed cell or field value. Row is 1-based and zero for
// failures outside the import pipeline.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HeaderMismatchError reports a spreadsheet whose header row does not match
// the expected column labels.
type HeaderMismatchError struct {
	Column int
	Want   string
	Got    string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header column %d: expected %q, got %q", e.Column, e.Want, e.Got)
}
