package models

import "time"

// Strike is a formal warning on a trainee's record. Strikes are created through the
// pipeline but never deleted through it.
type Strike struct {
	ID         string    `json:"id" db:"id"`
	TraineeID  string    `json:"trainee_id" db:"trainee_id"`
	ReporterID string    `json:"reporter_id" db:"reporter_id"`
	Date       time.Time `json:"date" db:"date"`
	Reason     string    `json:"reason" db:"reason"`
	Details    string    `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateStrikeRequest is the request body for issuing a strike
type CreateStrikeRequest struct {
	Date    string `json:"date" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
	Details string `json:"details,omitempty"`
}

// StrikeResponse is the API response for strike operations
type StrikeResponse struct {
	Strike
}

// StrikeListResponse is the API response for listing a trainee's strikes
type StrikeListResponse struct {
	Items      []Strike `json:"items"`
	TotalCount int      `json:"total_count"`
}
