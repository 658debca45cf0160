package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var validHeader = [4]string{"Municipality", "Tax value", "Schedule", "Starting date"}

// buildWorkbook writes a header row plus the given data rows into an
// in-memory XLSX container.
func buildWorkbook(t *testing.T, header [4]string, rows ...[4]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, label := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, label))
	}

	for i, row := range rows {
		for col, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf
}

func TestImportHeaderGate(t *testing.T) {
	svc, munRepo, taxRepo := newTestService()

	// "Start date" instead of "Starting date" fails the whole import before
	// any data row is parsed
	buf := buildWorkbook(t,
		[4]string{"Municipality", "Tax value", "Schedule", "Start date"},
		[4]string{"Springfield", "1,5", "Monthly", "2024-01-01"},
	)

	count, err := svc.ImportTaxes(context.Background(), buf)
	var herr *HeaderMismatchError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, 4, herr.Column)
	assert.Equal(t, "Starting date", herr.Want)
	assert.Equal(t, "Start date", herr.Got)

	assert.Zero(t, count)
	assert.Empty(t, taxRepo.taxes)
	assert.Empty(t, munRepo.byName)
}

func TestImportSequentialBatchSharesMunicipality(t *testing.T) {
	svc, munRepo, taxRepo := newTestService()

	buf := buildWorkbook(t, validHeader,
		[4]string{"Springfield", "1,5", "Monthly", "2024-01-01"},
		[4]string{"Springfield", "2,5", "Weekly", "2024-02-01"},
	)

	count, err := svc.ImportTaxes(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Lazy creation happened once, on the first row, and was visible to the
	// second: both records reference the same municipality id
	require.Len(t, munRepo.byName, 1)
	require.Len(t, taxRepo.taxes, 2)
	assert.Equal(t, taxRepo.taxes[0].MunicipalityID, taxRepo.taxes[1].MunicipalityID)
}

func TestImportDuplicateRowAbortsWithFirstRowPersisted(t *testing.T) {
	svc, _, taxRepo := newTestService()

	buf := buildWorkbook(t, validHeader,
		[4]string{"Springfield", "1,5", "Monthly", "2024-01-01"},
		[4]string{"Springfield", "1,5", "Monthly", "2024-01-01"},
	)

	count, err := svc.ImportTaxes(context.Background(), buf)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonDuplicateRange, verr.Reason)

	// No rollback: the first row stays persisted
	assert.Equal(t, 1, count)
	assert.Len(t, taxRepo.taxes, 1)
}

func TestImportStopsAtFirstEmptyRow(t *testing.T) {
	svc, _, taxRepo := newTestService()

	buf := buildWorkbook(t, validHeader,
		[4]string{"Springfield", "1,5", "Monthly", "2024-01-01"},
		[4]string{"", "", "", ""},
		[4]string{"Shelbyville", "2,0", "Weekly", "2024-01-01"},
	)

	count, err := svc.ImportTaxes(context.Background(), buf)
	require.NoError(t, err)

	// Data after the gap is never read
	assert.Equal(t, 1, count)
	assert.Len(t, taxRepo.taxes, 1)
}

func TestImportCellFailuresCarryRowAndField(t *testing.T) {
	tests := []struct {
		name  string
		row   [4]string
		field string
	}{
		{name: "bad value", row: [4]string{"Springfield", "abc", "Monthly", "2024-01-01"}, field: "tax value"},
		{name: "bad schedule", row: [4]string{"Springfield", "1,5", "Quarterly", "2024-01-01"}, field: "schedule"},
		{name: "bad date", row: [4]string{"Springfield", "1,5", "Monthly", "soon"}, field: "starting date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, taxRepo := newTestService()
			buf := buildWorkbook(t, validHeader,
				[4]string{"Shelbyville", "1,0", "Monthly", "2024-01-01"},
				tt.row,
			)

			count, err := svc.ImportTaxes(context.Background(), buf)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 3, perr.Row)
			assert.Equal(t, tt.field, perr.Field)

			// The valid first row was already admitted when row 3 failed
			assert.Equal(t, 1, count)
			assert.Len(t, taxRepo.taxes, 1)
		})
	}
}

func TestImportParsesCommaDecimalsAndTrimsNames(t *testing.T) {
	svc, munRepo, taxRepo := newTestService()

	buf := buildWorkbook(t, validHeader,
		[4]string{"  Springfield  ", "1,5", "Monthly", "2024-01-01"},
	)

	count, err := svc.ImportTaxes(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, ok := munRepo.byName["Springfield"]
	assert.True(t, ok, "municipality name should be trimmed")
	require.Len(t, taxRepo.taxes, 1)
	assert.Equal(t, "1.5", taxRepo.taxes[0].Value.String())
	assert.Nil(t, taxRepo.taxes[0].EndDate)
}

func TestImportRejectsNonSpreadsheetInput(t *testing.T) {
	svc, _, _ := newTestService()

	count, err := svc.ImportTaxes(context.Background(), bytes.NewBufferString("not an xlsx file"))
	assert.Error(t, err)
	assert.Zero(t, count)
}
