package models

import "time"

// InteractionType enumerates how a staff member interacted with a trainee.
type InteractionType string

const (
	InteractionTypeCall    InteractionType = "Call"
	InteractionTypeMeeting InteractionType = "Meeting"
	InteractionTypeEmail   InteractionType = "Email"
	InteractionTypeNote    InteractionType = "Note"
)

func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionTypeCall, InteractionTypeMeeting, InteractionTypeEmail, InteractionTypeNote:
		return true
	}
	return false
}

func InteractionTypes() []InteractionType {
	return []InteractionType{InteractionTypeCall, InteractionTypeMeeting, InteractionTypeEmail, InteractionTypeNote}
}

// Interaction is one logged contact with a trainee. ReporterID is the staff member
// who logged it, taken from the request context, never from the body.
type Interaction struct {
	ID         string          `json:"id" db:"id"`
	TraineeID  string          `json:"trainee_id" db:"trainee_id"`
	ReporterID string          `json:"reporter_id" db:"reporter_id"`
	Date       time.Time       `json:"date" db:"date"`
	Type       InteractionType `json:"type" db:"type"`
	Title      string          `json:"title" db:"title"`
	Details    string          `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// CreateInteractionRequest is the request body for logging an interaction
type CreateInteractionRequest struct {
	Date    string `json:"date" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Details string `json:"details,omitempty"`
}

// InteractionResponse is the API response for interaction operations
type InteractionResponse struct {
	Interaction
}

// InteractionListResponse is the API response for listing a trainee's interactions
type InteractionListResponse struct {
	Items      []Interaction `json:"items"`
	TotalCount int           `json:"total_count"`
}
