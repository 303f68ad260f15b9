package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"os"

	"skinsense-backend/internal/export"
	"skinsense-backend/internal/logging"

	"go.uber.org/zap"
)

// ExportFilename is the attachment name offered to the browser.
const ExportFilename = "feedback_export.xlsx"

// --- GET /api/export-feedback ---

func (h *AdminDataHandler) ExportFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	rows, err := h.feedbackRepo.ListNewestFirst(ctx)
	if err != nil {
		logger.Error(ctx, "Error exporting feedback", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err)
		return
	}

	h.exportMu.Lock()
	defer h.exportMu.Unlock()

	if err := export.WriteFile(h.exportPath, rows); err != nil {
		logger.Error(ctx, "Error exporting feedback", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err)
		return
	}

	f, err := os.Open(h.exportPath)
	if err != nil {
		logger.Error(ctx, "Error exporting feedback", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, fmt.Errorf("open export: %w", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, fmt.Errorf("stat export: %w", err))
		return
	}

	logger.Info(ctx, "feedback exported", zap.Int("rows", len(rows)))

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ExportFilename}))
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, ExportFilename, info.ModTime(), f)
}
