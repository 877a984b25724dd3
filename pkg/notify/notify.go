// Package notify sends chat notifications for trainee record changes. Dispatch is
// fire-and-forget from the caller's point of view: failures are captured by the
// dispatcher itself, so a delivery error never reaches an API response.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/HackYourFuture/dojo/pkg/metrics"
	"github.com/HackYourFuture/dojo/pkg/models"
)

// Event is a notification about one record change, already formatted for delivery.
type Event struct {
	Type       string    `json:"type"` // e.g. "test.created"
	TraineeID  string    `json:"trainee_id"`
	RecordID   string    `json:"record_id"`
	Trainee    string    `json:"trainee"`
	Actor      string    `json:"actor,omitempty"`
	Summary    string    `json:"summary"`
	Details    []string  `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sender delivers a notification event to a channel. Implementations make exactly
// one delivery attempt per call and report the outcome.
type Sender interface {
	Send(ctx context.Context, event *Event) error
}

// NopSender discards all events. Used when no webhook is configured.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, event *Event) error {
	return nil
}

// Dispatcher sends notification events. Dispatch never surfaces a failure to the
// caller: a failed delivery is routed to the failure sink and the request moves on.
type Dispatcher struct {
	sender Sender
	sink   *FailureSink
	logger ectologger.Logger
}

// NewDispatcher creates a dispatcher that delivers through sender and captures
// failures in sink.
func NewDispatcher(sender Sender, sink *FailureSink, logger ectologger.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		sink:   sink,
		logger: logger,
	}
}

// Dispatch makes one delivery attempt for the event. No retry, no error return.
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) {
	if err := d.sender.Send(ctx, event); err != nil {
		d.sink.Capture(ctx, event, err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(event.Type, "delivered").Inc()
}

// NewTestEvent builds the notification for a newly recorded test.
func NewTestEvent(traineeName string, rec *models.TestRecord) *Event {
	summary := fmt.Sprintf("%s %s the %s test", traineeName, resultPhrase(rec.Result), rec.Type)

	details := []string{
		fmt.Sprintf("Date: %s", rec.Date.Format("2006-01-02")),
		fmt.Sprintf("Result: %s", rec.Result),
	}
	if rec.Score != nil {
		details = append(details, fmt.Sprintf("Score: %g", *rec.Score))
	}
	if rec.Comments != "" {
		details = append(details, fmt.Sprintf("Comments: %s", rec.Comments))
	}

	return &Event{
		Type:       "test.created",
		TraineeID:  rec.TraineeID,
		RecordID:   rec.ID,
		Trainee:    traineeName,
		Summary:    summary,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
}

// NewInteractionEvent builds the notification for a newly logged interaction.
func NewInteractionEvent(traineeName string, rec *models.Interaction) *Event {
	summary := fmt.Sprintf("New %s interaction logged for %s: %s", rec.Type, traineeName, rec.Title)

	details := []string{
		fmt.Sprintf("Date: %s", rec.Date.Format("2006-01-02")),
		fmt.Sprintf("Reported by: %s", rec.ReporterID),
	}
	if rec.Details != "" {
		details = append(details, rec.Details)
	}

	return &Event{
		Type:       "interaction.created",
		TraineeID:  rec.TraineeID,
		RecordID:   rec.ID,
		Trainee:    traineeName,
		Actor:      rec.ReporterID,
		Summary:    summary,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
}

// NewStrikeEvent builds the notification for a newly issued strike.
func NewStrikeEvent(traineeName string, rec *models.Strike) *Event {
	summary := fmt.Sprintf("%s received a strike: %s", traineeName, rec.Reason)

	details := []string{
		fmt.Sprintf("Date: %s", rec.Date.Format("2006-01-02")),
		fmt.Sprintf("Issued by: %s", rec.ReporterID),
	}
	if rec.Details != "" {
		details = append(details, rec.Details)
	}

	return &Event{
		Type:       "strike.created",
		TraineeID:  rec.TraineeID,
		RecordID:   rec.ID,
		Trainee:    traineeName,
		Actor:      rec.ReporterID,
		Summary:    summary,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
}

func resultPhrase(r models.TestResult) string {
	switch r {
	case models.TestResultPassed:
		return "passed"
	case models.TestResultPassedWithWarning:
		return "passed with a warning"
	case models.TestResultFailed:
		return "failed"
	case models.TestResultDisqualified:
		return "was disqualified from"
	}
	return "completed"
}
