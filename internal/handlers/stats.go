package handlers

import (
	"net/http"
	"sync"

	"skinsense-backend/internal/logging"
	"skinsense-backend/internal/repository"
	"skinsense-backend/internal/stats"

	"go.uber.org/zap"
)

// AdminDataHandler serves the read-only admin views. Routes must be wrapped
// in middleware.RequireAdmin.
type AdminDataHandler struct {
	feedbackRepo repository.FeedbackStore
	exportPath   string

	// serializes regeneration and streaming of the shared export file
	exportMu sync.Mutex
}

func NewAdminDataHandler(feedbackRepo repository.FeedbackStore, exportPath string) *AdminDataHandler {
	return &AdminDataHandler{
		feedbackRepo: feedbackRepo,
		exportPath:   exportPath,
	}
}

// --- GET /api/feedback-data ---

func (h *AdminDataHandler) FeedbackData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.feedbackRepo.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error(ctx, "Error getting feedback data", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats.Aggregate(rows))
}
