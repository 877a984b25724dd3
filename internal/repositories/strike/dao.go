package strike

import (
	"database/sql"
	"time"

	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/database"
)

const (
	strikesTable = "trainee_strikes"
)

// StrikeRow represents the database row for a strike
type StrikeRow struct {
	ID         sql.NullString `db:"id"`
	TraineeID  sql.NullString `db:"trainee_id"`
	ReporterID sql.NullString `db:"reporter_id"`
	Date       sql.NullTime   `db:"date"`
	Reason     sql.NullString `db:"reason"`
	Details    sql.NullString `db:"details"`
	CreatedAt  sql.NullTime   `db:"created_at"`
}

var strikeStruct = database.NewStruct(new(StrikeRow))

// FromStrike converts a domain model to a database row
func FromStrike(s *models.Strike) *StrikeRow {
	return &StrikeRow{
		ID:         sql.NullString{String: s.ID, Valid: s.ID != ""},
		TraineeID:  sql.NullString{String: s.TraineeID, Valid: s.TraineeID != ""},
		ReporterID: sql.NullString{String: s.ReporterID, Valid: s.ReporterID != ""},
		Date:       sql.NullTime{Time: s.Date, Valid: !s.Date.IsZero()},
		Reason:     sql.NullString{String: s.Reason, Valid: s.Reason != ""},
		Details:    sql.NullString{String: s.Details, Valid: s.Details != ""},
		CreatedAt:  sql.NullTime{Time: s.CreatedAt, Valid: !s.CreatedAt.IsZero()},
	}
}

// ToStrike converts a database row to a domain model
func ToStrike(row *StrikeRow) *models.Strike {
	return &models.Strike{
		ID:         row.ID.String,
		TraineeID:  row.TraineeID.String,
		ReporterID: row.ReporterID.String,
		Date:       row.Date.Time,
		Reason:     row.Reason.String,
		Details:    row.Details.String,
		CreatedAt:  row.CreatedAt.Time,
	}
}

// ToStrikes converts a slice of database rows to domain models
func ToStrikes(rows []StrikeRow) []*models.Strike {
	strikes := make([]*models.Strike, len(rows))
	for i, row := range rows {
		strikes[i] = ToStrike(&row)
	}
	return strikes
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
