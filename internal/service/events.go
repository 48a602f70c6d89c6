package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/pkg/events"
)

// publishEvent hands event to publisher. Delivery problems are recorded and
// logged but never surface to the caller.
func publishEvent(ctx context.Context, publisher events.Publisher, metrics *MetricsService, logger *zap.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	err := publisher.Publish(ctx, event)
	metrics.RecordEvent(event.Type, err)
	if err != nil {
		logger.Warn("failed to publish event",
			zap.String("type", event.Type),
			zap.String("key", event.Key),
			zap.Error(err),
		)
	}
}
