package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackYourFuture/dojo/pkg/httpclient"
	"github.com/HackYourFuture/dojo/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestNewTestEvent(t *testing.T) {
	score := 8.0
	rec := &models.TestRecord{
		ID:        "rec-1",
		TraineeID: "t-1",
		Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Type:      models.TestTypeAlgorithm,
		Result:    models.TestResultPassed,
		Score:     &score,
	}

	event := NewTestEvent("Amina Hassan", rec)

	assert.Equal(t, "test.created", event.Type)
	assert.Equal(t, "Amina Hassan passed the Algorithm test", event.Summary)
	assert.Equal(t, "t-1", event.TraineeID)
	assert.Equal(t, "rec-1", event.RecordID)
	assert.Contains(t, event.Details, "Date: 2025-03-14")
	assert.Contains(t, event.Details, "Score: 8")

	t.Run("ResultPhrasing", func(t *testing.T) {
		cases := map[models.TestResult]string{
			models.TestResultPassed:            "passed the",
			models.TestResultPassedWithWarning: "passed with a warning",
			models.TestResultFailed:            "failed the",
			models.TestResultDisqualified:      "was disqualified from",
		}
		for result, phrase := range cases {
			rec.Result = result
			event := NewTestEvent("Amina Hassan", rec)
			assert.Contains(t, event.Summary, phrase)
		}
	})
}

func TestNewStrikeEvent(t *testing.T) {
	rec := &models.Strike{
		ID:         "s-1",
		TraineeID:  "t-1",
		ReporterID: "staff-7",
		Date:       time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Reason:     "Missed three classes",
	}

	event := NewStrikeEvent("Amina Hassan", rec)

	assert.Equal(t, "strike.created", event.Type)
	assert.Equal(t, "Amina Hassan received a strike: Missed three classes", event.Summary)
	assert.Equal(t, "staff-7", event.Actor)
	assert.Contains(t, event.Details, "Issued by: staff-7")
}

func TestFormatMessage(t *testing.T) {
	event := &Event{
		Summary: "Amina Hassan passed the Algorithm test",
		Details: []string{"Date: 2025-03-14", "Result: Passed"},
	}

	msg := formatMessage(event)
	assert.Equal(t, "Amina Hassan passed the Algorithm test\n• Date: 2025-03-14\n• Result: Passed", msg)
}

func TestWebhookSender(t *testing.T) {
	t.Run("DeliversOnce", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		s := NewWebhookSender(httpclient.NewClient(httpclient.DefaultConfig(), testLogger()), server.URL, testLogger())
		err := s.Send(context.Background(), &Event{Type: "test.created", Summary: "hello"})
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("ErrorStatusIsAFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		s := NewWebhookSender(httpclient.NewClient(httpclient.DefaultConfig(), testLogger()), server.URL, testLogger())
		err := s.Send(context.Background(), &Event{Type: "test.created", Summary: "hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("UnreachableWebhook", func(t *testing.T) {
		s := NewWebhookSender(httpclient.NewClient(httpclient.DefaultConfig(), testLogger()), "http://127.0.0.1:1", testLogger())
		err := s.Send(context.Background(), &Event{Type: "test.created", Summary: "hello"})
		require.Error(t, err)
	})
}

// failingSender fails every attempt, counting them.
type failingSender struct {
	attempts atomic.Int32
}

func (f *failingSender) Send(ctx context.Context, event *Event) error {
	f.attempts.Add(1)
	return errors.New("channel down")
}

func TestDispatcher(t *testing.T) {
	t.Run("FailureIsCapturedBySink", func(t *testing.T) {
		// The sink is the only component that logs on this path, so a log entry
		// means the failure reached it.
		captured := make(chan struct{}, 10)
		logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {
			captured <- struct{}{}
		})

		sender := &failingSender{}
		d := NewDispatcher(sender, NewFailureSink(nil, logger), logger)

		d.Dispatch(context.Background(), &Event{Type: "test.created", TraineeID: "t-1"})

		assert.Equal(t, int32(1), sender.attempts.Load())
		select {
		case <-captured:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch failure was not captured")
		}
	})

	t.Run("SuccessMakesExactlyOneAttempt", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		sender := NewWebhookSender(httpclient.NewClient(httpclient.DefaultConfig(), testLogger()), server.URL, testLogger())
		d := NewDispatcher(sender, NewFailureSink(nil, testLogger()), testLogger())

		d.Dispatch(context.Background(), &Event{Type: "test.created", Summary: "hello"})
		assert.Equal(t, int32(1), attempts.Load())
	})
}

func TestFailureSink_NoDLQ(t *testing.T) {
	sink := NewFailureSink(nil, testLogger())

	// Must not panic or error with no DLQ configured.
	sink.Capture(context.Background(), &Event{Type: "test.created", TraineeID: "t-1"}, errors.New("boom"))
}

func TestDetach(t *testing.T) {
	t.Run("RunsDetachedFromCancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // the side effect must still run

		done := make(chan struct{})
		Detach(ctx, testLogger(), "test", func(ctx context.Context) {
			assert.NoError(t, ctx.Err())
			close(done)
		})

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("detached side effect never ran")
		}
	})

	t.Run("RecoversPanic", func(t *testing.T) {
		logged := make(chan struct{})
		logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {
			select {
			case <-logged:
			default:
				close(logged)
			}
		})

		Detach(context.Background(), logger, "test", func(ctx context.Context) {
			panic("boom")
		})

		select {
		case <-logged:
		case <-time.After(2 * time.Second):
			t.Fatal("panic was not recovered and logged")
		}
	})
}
