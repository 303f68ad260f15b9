package notify

import (
	"context"

	"skinsense-backend/internal/logging"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the application log. It is used when
// no email delivery is configured.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(ctx context.Context, message string) error {
	n.logger.Info(ctx, "feedback notification", zap.String("message", message))
	return nil
}
