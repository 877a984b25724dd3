package notify

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/HackYourFuture/dojo/pkg/metrics"
	"github.com/HackYourFuture/dojo/pkg/redis"
)

// FailureSink captures dispatch failures so they can be inspected later. Nothing
// replays captured failures; the record is diagnostic.
type FailureSink struct {
	dlq    *redis.DeadLetterQueue
	logger ectologger.Logger
}

// NewFailureSink creates a failure sink. The DLQ may be nil when Redis is not
// configured; failures are then logged and counted only.
func NewFailureSink(dlq *redis.DeadLetterQueue, logger ectologger.Logger) *FailureSink {
	return &FailureSink{
		dlq:    dlq,
		logger: logger,
	}
}

// Capture records a failed dispatch. It never returns an error: a failing sink
// must not take the notification path down with it.
func (s *FailureSink) Capture(ctx context.Context, event *Event, dispatchErr error) {
	s.logger.WithContext(ctx).WithError(dispatchErr).WithFields(map[string]any{
		"event":      event.Type,
		"trainee_id": event.TraineeID,
		"record_id":  event.RecordID,
	}).Error("Notification dispatch failed")

	metrics.NotificationFailures.WithLabelValues(event.Type).Inc()

	if s.dlq == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to marshal notification event for DLQ")
		payload = nil
	}

	entry := &redis.DLQEntry{
		Event:        event.Type,
		TraineeID:    event.TraineeID,
		RecordID:     event.RecordID,
		Payload:      payload,
		ErrorMessage: dispatchErr.Error(),
	}

	if _, err := s.dlq.Add(ctx, entry); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to record notification failure to DLQ")
		return
	}

	metrics.DLQEntriesTotal.WithLabelValues(event.Type).Inc()
}
