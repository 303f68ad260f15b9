package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skinsense-backend/internal/logging"
	"skinsense-backend/internal/models"
	"skinsense-backend/internal/notify"
	"skinsense-backend/internal/repository"

	"go.uber.org/zap"
)

const maxFeedbackBody = 1 << 20

type FeedbackHandler struct {
	feedbackRepo repository.FeedbackStore
	notifier     notify.Notifier
}

func NewFeedbackHandler(feedbackRepo repository.FeedbackStore, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		notifier:     notifier,
	}
}

// SaveFeedbackRequest is the ingestion body. Every field is optional and
// defaults to its zero value; confidence is coerced by models.Confidence.
type SaveFeedbackRequest struct {
	SkinType   string            `json:"skin_type"`
	Confidence models.Confidence `json:"confidence"`
	Feedback   string            `json:"feedback"`
	Helpful    string            `json:"helpful"`
}

func decodeSaveFeedback(w http.ResponseWriter, r *http.Request) (SaveFeedbackRequest, error) {
	var req SaveFeedbackRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFeedbackBody))
	if err != nil {
		return req, fmt.Errorf("read request body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return req, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, err
	}
	if emptyJSON(raw) {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, err
	}
	return req, nil
}

// emptyJSON reports whether v is null, false, 0, "" or an empty array.
// Such bodies carry no fields and save a default record.
func emptyJSON(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

// --- POST /api/save-feedback ---

func (h *FeedbackHandler) SaveFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	req, err := decodeSaveFeedback(w, r)
	if err != nil {
		logger.Warn(ctx, "Error saving feedback", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err)
		return
	}

	feedback := &models.Feedback{
		SkinType:     req.SkinType,
		Confidence:   float64(req.Confidence),
		UserFeedback: req.Feedback,
		Helpful:      req.Helpful,
	}
	if err := h.feedbackRepo.Create(ctx, feedback); err != nil {
		logger.Error(ctx, "Error saving feedback", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info(ctx, "feedback saved",
		zap.Int64("id", feedback.ID),
		zap.String("skin_type", feedback.SkinType),
	)

	if h.notifier != nil {
		// notification is best-effort and must not delay the response
		go func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := h.notifier.Publish(ctx, notify.FormatFeedback(feedback)); err != nil {
				logger.Warn(ctx, "Error publishing feedback notification", zap.Error(err))
			}
		}(context.WithoutCancel(ctx))
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Feedback saved successfully",
	})
}
