package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"mazescore/domain/strategy"

	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported result workbook
const (
	TotalsSheet = "Totals"
	PhasesSheet = "Phases"
)

// WriteResult saves both result tables to an xlsx workbook at path
func WriteResult(path string, res *strategy.Result) error {
	f, err := buildWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteResultTo streams the workbook to w
func WriteResultTo(w io.Writer, res *strategy.Result) error {
	f, err := buildWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(res *strategy.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), TotalsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(PhasesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for _, s := range []struct {
		sheet string
		frame strategy.Frame
	}{
		{TotalsSheet, res.TotalsFrame()},
		{PhasesSheet, res.PhaseFrame()},
	} {
		if err := writeFrame(f, s.sheet, s.frame, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// writeFrame lays the frame out with the index in column A. Percentage rows
// are stored as text, everything else as integers.
func writeFrame(f *excelize.File, sheet string, frame strategy.Frame, headerStyle int) error {
	set := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if err := set(1, 1, frame.IndexName); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for j, c := range frame.Columns {
		if err := set(j+2, 1, c); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(frame.Columns)+1, 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, label := range frame.Index {
		row := i + 2
		if err := set(1, row, label); err != nil {
			return fmt.Errorf("failed to write %s row %q: %w", sheet, label, err)
		}
		text := strings.HasPrefix(label, "% ")
		for j, v := range frame.Cells[i] {
			var value interface{} = v
			if n, err := strconv.Atoi(v); err == nil && !text {
				value = n
			}
			if err := set(j+2, row, value); err != nil {
				return fmt.Errorf("failed to write %s row %q: %w", sheet, label, err)
			}
		}
	}
	return nil
}
