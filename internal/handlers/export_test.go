package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"skinsense-backend/internal/export"
	"skinsense-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportFeedback(t *testing.T) {
	store := newTestStore(t)
	seed(t, store,
		models.Feedback{SkinType: "Oily", Confidence: 80, Helpful: "Yes"},
		models.Feedback{SkinType: "Dry", Confidence: 60, UserFeedback: "meh", Helpful: "No"},
		models.Feedback{SkinType: "Normal", Confidence: 70},
	)
	path := filepath.Join(t.TempDir(), "feedback_export.xlsx")
	h := NewAdminDataHandler(store, path)

	w := httptest.NewRecorder()
	h.ExportFeedback(w, httptest.NewRequest(http.MethodGet, "/api/export-feedback", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=feedback_export.xlsx`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, int(n)+1)
	assert.Equal(t, export.Headers, rows[0])

	// newest first: inserted last, listed first
	assert.Equal(t, "Normal", rows[1][2])
	assert.Equal(t, "Dry", rows[2][2])
	assert.Equal(t, "Oily", rows[3][2])

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, w.Body.Bytes(), onDisk)
}

func TestExportFeedbackStoreFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback_export.xlsx")
	h := NewAdminDataHandler(brokenStore{}, path)

	w := httptest.NewRecorder()
	h.ExportFeedback(w, httptest.NewRequest(http.MethodGet, "/api/export-feedback", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"database is locked"}`, w.Body.String())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
