package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"taxmanager/internal/model"
	"taxmanager/pkg/parse"
)

// headerLabels are the exact labels expected in row 1, columns 1-4. Any
// mismatch fails the whole import before a single data row is parsed.
var headerLabels = [4]string{"Municipality", "Tax value", "Schedule", "Starting date"}

// ImportTaxes reads the first worksheet of an XLSX container and admits one
// tax record per data row, strictly in order: a municipality created by an
// earlier row is visible to later rows, and a later row can be rejected as a
// duplicate of an earlier row in the same file. The first failing row aborts
// the import; rows admitted before it stay persisted. Returns the number of
// admitted records.
func (s *taxService) ImportTaxes(ctx context.Context, r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return 0, fmt.Errorf("spreadsheet has no worksheets")
	}

	if err := checkHeader(f, sheet); err != nil {
		return 0, err
	}

	count := 0
	for row := 2; ; row++ {
		cells, err := readRow(f, sheet, row)
		if err != nil {
			return count, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		// The first fully empty row terminates the scan
		if rowIsEmpty(cells) {
			break
		}

		municipality, candidate, err := parseImportRow(cells, row)
		if err != nil {
			return count, err
		}

		if _, err := s.addCandidate(ctx, municipality, candidate); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// checkHeader validates that row 1 carries exactly the four expected labels.
func checkHeader(f *excelize.File, sheet string) error {
	for i, want := range headerLabels {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return fmt.Errorf("failed to read header cell %s: %w", cell, err)
		}
		if got != want {
			return &HeaderMismatchError{Column: i + 1, Want: want, Got: got}
		}
	}
	return nil
}

// readRow returns the first four cells of the given row.
func readRow(f *excelize.File, sheet string, row int) ([4]string, error) {
	var cells [4]string
	for col := 1; col <= 4; col++ {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return cells, err
		}
		value, err := f.GetCellValue(sheet, name)
		if err != nil {
			return cells, err
		}
		cells[col-1] = value
	}
	return cells, nil
}

func rowIsEmpty(cells [4]string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseImportRow turns one data row into a candidate record: municipality
// name (trimmed), tax value, schedule and starting date. The end date is
// left unset; open-ended records stay open until superseded.
func parseImportRow(cells [4]string, row int) (string, *model.Tax, error) {
	municipality := strings.TrimSpace(cells[0])
	if municipality == "" {
		return "", nil, &ParseError{Row: row, Field: "municipality", Value: cells[0], Err: fmt.Errorf("empty municipality name")}
	}

	value, err := parse.Decimal(cells[1])
	if err != nil {
		return "", nil, &ParseError{Row: row, Field: "tax value", Value: cells[1], Err: err}
	}

	schedule, err := parse.Schedule(cells[2])
	if err != nil {
		return "", nil, &ParseError{Row: row, Field: "schedule", Value: cells[2], Err: err}
	}

	startDate, err := parse.Date(cells[3])
	if err != nil {
		return "", nil, &ParseError{Row: row, Field: "starting date", Value: cells[3], Err: err}
	}

	return municipality, &model.Tax{
		Value:     value,
		Schedule:  schedule,
		StartDate: startDate,
	}, nil
}
