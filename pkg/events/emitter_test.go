package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackYourFuture/dojo/pkg/kafka"
	"github.com/HackYourFuture/dojo/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakePublisher struct {
	published []*kafka.RecordEvent
	err       error
}

func (f *fakePublisher) PublishRecordEvent(ctx context.Context, event *kafka.RecordEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func TestEmitTestCreated(t *testing.T) {
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, testLogger())

	score := 8.0
	rec := &models.TestRecord{
		ID:        "rec-1",
		TraineeID: "t-1",
		Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Type:      models.TestTypeAlgorithm,
		Result:    models.TestResultPassed,
		Score:     &score,
	}

	require.NoError(t, emitter.EmitTestCreated(context.Background(), rec))
	require.Len(t, publisher.published, 1)

	event := publisher.published[0]
	assert.Equal(t, "test.created", event.EventType)
	assert.Equal(t, "t-1", event.TraineeID)
	assert.Equal(t, "rec-1", event.RecordID)
	assert.Equal(t, "test", event.Kind)

	// The payload carries the full record.
	var decoded models.TestRecord
	require.NoError(t, json.Unmarshal(event.Data, &decoded))
	assert.Equal(t, rec.Type, decoded.Type)
	assert.Equal(t, rec.Result, decoded.Result)
	require.NotNil(t, decoded.Score)
	assert.Equal(t, 8.0, *decoded.Score)
}

func TestEmitTestDeleted(t *testing.T) {
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, testLogger())

	require.NoError(t, emitter.EmitTestDeleted(context.Background(), "t-1", "rec-1"))
	require.Len(t, publisher.published, 1)

	event := publisher.published[0]
	assert.Equal(t, "test.deleted", event.EventType)
	assert.Nil(t, event.Data)
}

func TestEmitReturnsPublishError(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	emitter := NewEmitter(publisher, testLogger())

	err := emitter.EmitStrikeCreated(context.Background(), &models.Strike{
		ID:        "s-1",
		TraineeID: "t-1",
		Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Reason:    "Missed three classes",
	})
	require.Error(t, err)
	assert.Empty(t, publisher.published)
}
