// Package events handles event emission for trainee record lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/HackYourFuture/dojo/pkg/kafka"
	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Publisher sends a record event to the broker. Satisfied by kafka.Producer.
type Publisher interface {
	PublishRecordEvent(ctx context.Context, event *kafka.RecordEvent) error
}

// Emitter publishes record lifecycle events. All methods return an error for the
// caller to capture; none of them affect the API response.
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitTestCreated emits a test.created event
func (e *Emitter) EmitTestCreated(ctx context.Context, rec *models.TestRecord) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTestCreated")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to marshal test record for event")
		return err
	}
	event := &kafka.RecordEvent{
		EventType: "test.created",
		TraineeID: rec.TraineeID,
		RecordID:  rec.ID,
		Kind:      "test",
		Data:      data,
	}

	if err := e.producer.PublishRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit test.created event")
		return err
	}
	return nil
}

// EmitTestUpdated emits a test.updated event
func (e *Emitter) EmitTestUpdated(ctx context.Context, rec *models.TestRecord) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTestUpdated")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to marshal test record for event")
		return err
	}
	event := &kafka.RecordEvent{
		EventType: "test.updated",
		TraineeID: rec.TraineeID,
		RecordID:  rec.ID,
		Kind:      "test",
		Data:      data,
	}

	if err := e.producer.PublishRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit test.updated event")
		return err
	}
	return nil
}

// EmitTestDeleted emits a test.deleted event
func (e *Emitter) EmitTestDeleted(ctx context.Context, traineeID, testID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTestDeleted")
	defer span.End()

	event := &kafka.RecordEvent{
		EventType: "test.deleted",
		TraineeID: traineeID,
		RecordID:  testID,
		Kind:      "test",
	}

	if err := e.producer.PublishRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit test.deleted event")
		return err
	}
	return nil
}

// EmitInteractionCreated emits an interaction.created event
func (e *Emitter) EmitInteractionCreated(ctx context.Context, rec *models.Interaction) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitInteractionCreated")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to marshal interaction for event")
		return err
	}
	event := &kafka.RecordEvent{
		EventType: "interaction.created",
		TraineeID: rec.TraineeID,
		RecordID:  rec.ID,
		Kind:      "interaction",
		Data:      data,
	}

	if err := e.producer.PublishRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit interaction.created event")
		return err
	}
	return nil
}

// EmitStrikeCreated emits a strike.created event
func (e *Emitter) EmitStrikeCreated(ctx context.Context, rec *models.Strike) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitStrikeCreated")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to marshal strike for event")
		return err
	}
	event := &kafka.RecordEvent{
		EventType: "strike.created",
		TraineeID: rec.TraineeID,
		RecordID:  rec.ID,
		Kind:      "strike",
		Data:      data,
	}

	if err := e.producer.PublishRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit strike.created event")
		return err
	}
	return nil
}

// EmitTraineeDeleted emits a trainee.deleted event
func (e *Emitter) EmitTraineeDeleted(ctx context.Context, traineeID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTraineeDeleted")
	defer span.End()

	event := &kafka.RecordEvent{
		EventType: "trainee.deleted",
		TraineeID: traineeID,
		RecordID:  traineeID,
		Kind:      "trainee",
	}

	if err := e.producer.PublishRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit trainee.deleted event")
		return err
	}
	return nil
}
