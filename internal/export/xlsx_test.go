package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skinsense-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []models.Feedback {
	ts := time.Date(2025, 5, 4, 9, 30, 0, 0, time.UTC)
	return []models.Feedback{
		{ID: 3, Timestamp: ts.Add(2 * time.Hour), SkinType: "Dry", Confidence: 55.25, Helpful: "No"},
		{ID: 2, Timestamp: ts.Add(time.Hour), SkinType: "Oily", Confidence: 87.5, UserFeedback: "good", Helpful: "Yes"},
		{ID: 1, Timestamp: ts, SkinType: "Normal", Confidence: 70},
	}
}

func TestWriteProducesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"3", "2025-05-04 11:30:00", "Dry", "55.25", "", "No"}, rows[1])
	assert.Equal(t, []string{"2", "2025-05-04 10:30:00", "Oily", "87.5", "good", "Yes"}, rows[2])
	assert.Equal(t, "1", rows[3][0])
}

func TestWriteColumnWidths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	for i, col := range []string{"A", "B", "C", "D", "E", "F"} {
		width, err := f.GetColWidth(SheetName, col)
		require.NoError(t, err)
		assert.Equal(t, columnWidths[i], width, col)
	}

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback_export.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteFile(path, sampleRows()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, len(sampleRows())+1)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".export-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
