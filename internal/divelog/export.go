package divelog

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Dive Log"

var exportHeader = []any{"#", "Date", "Location", "Depth (m)", "Duration (min)", "Notes"}

// WriteXLSX writes entries as a spreadsheet, oldest dive numbered 1, followed
// by a totals row.
func WriteXLSX(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	// Entries are newest first; the sheet reads like a paper log book.
	for i := range entries {
		e := entries[len(entries)-1-i]
		row := []any{i + 1, e.Date, e.Location, e.Depth, e.Duration, e.Notes}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	stats := Summarize(entries)
	totalRow := len(entries) + 2
	cell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	totals := []any{"Total", stats.Dives, "", stats.MaxDepth, stats.TotalMinutes, ""}
	if err := f.SetSheetRow(exportSheet, cell, &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, totalRow, totalRow, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	if err := f.SetColWidth(exportSheet, "C", "C", 24); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "F", "F", 40); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
