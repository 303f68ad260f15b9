// Package export renders feedback rows as an .xlsx workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"skinsense-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Feedback"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// TimestampLayout is how timestamps are written into the Timestamp column (UTC).
	TimestampLayout = "2006-01-02 15:04:05"
)

var Headers = []string{"ID", "Timestamp", "Skin Type", "Confidence (%)", "User Feedback", "Helpful"}

var columnWidths = []float64{8, 20, 15, 15, 40, 12}

// Write renders rows, in the given order, below a single header row.
func Write(w io.Writer, rows []models.Feedback) error {
	f, err := build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile renders rows to path, replacing any previous export atomically.
func WriteFile(path string, rows []models.Feedback) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Write(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace export file: %w", err)
	}
	return nil
}

func build(rows []models.Feedback) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open stream writer: %w", err)
	}

	// widths must be set before the first row is streamed
	for i, width := range columnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := []interface{}{
			r.ID,
			r.Timestamp.UTC().Format(TimestampLayout),
			r.SkinType,
			r.Confidence,
			r.UserFeedback,
			r.Helpful,
		}
		if err := sw.SetRow(cell, values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush workbook: %w", err)
	}
	return f, nil
}
