package notify

import (
	"context"
	"fmt"

	"skinsense-backend/internal/models"
)

// Notifier publishes a human-readable message about new feedback.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

// FormatFeedback renders the message published after a feedback row is stored.
func FormatFeedback(fb *models.Feedback) string {
	helpful := fb.Helpful
	if helpful == "" {
		helpful = "-"
	}
	comment := fb.UserFeedback
	if comment == "" {
		comment = "(no comment)"
	}
	return fmt.Sprintf("New feedback #%d\nSkin type: %s (%.2f%%)\nHelpful: %s\nComment: %s",
		fb.ID, fb.SkinType, fb.Confidence, helpful, comment)
}
