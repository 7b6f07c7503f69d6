package report

import (
	"fmt"
	"io"

	"github.com/naka-gawa/issue-tenure/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet XLSXWriter fills.
const SheetName = "issues"

// XLSXWriter writes the same table as CSVWriter into a single worksheet.
// Tenure and issue number are stored as numbers, everything else as text.
type XLSXWriter struct{}

func (XLSXWriter) Write(w io.Writer, rows []domain.ReporterSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		rec := record(row)
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		values[3] = row.Tenure
		values[5] = row.Number

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
