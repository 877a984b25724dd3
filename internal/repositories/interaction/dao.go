package interaction

import (
	"database/sql"
	"time"

	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/database"
)

const (
	interactionsTable = "trainee_interactions"
)

// InteractionRow represents the database row for an interaction
type InteractionRow struct {
	ID         sql.NullString `db:"id"`
	TraineeID  sql.NullString `db:"trainee_id"`
	ReporterID sql.NullString `db:"reporter_id"`
	Date       sql.NullTime   `db:"date"`
	Type       sql.NullString `db:"type"`
	Title      sql.NullString `db:"title"`
	Details    sql.NullString `db:"details"`
	CreatedAt  sql.NullTime   `db:"created_at"`
}

var interactionStruct = database.NewStruct(new(InteractionRow))

// FromInteraction converts a domain model to a database row
func FromInteraction(i *models.Interaction) *InteractionRow {
	return &InteractionRow{
		ID:         sql.NullString{String: i.ID, Valid: i.ID != ""},
		TraineeID:  sql.NullString{String: i.TraineeID, Valid: i.TraineeID != ""},
		ReporterID: sql.NullString{String: i.ReporterID, Valid: i.ReporterID != ""},
		Date:       sql.NullTime{Time: i.Date, Valid: !i.Date.IsZero()},
		Type:       sql.NullString{String: string(i.Type), Valid: i.Type != ""},
		Title:      sql.NullString{String: i.Title, Valid: i.Title != ""},
		Details:    sql.NullString{String: i.Details, Valid: i.Details != ""},
		CreatedAt:  sql.NullTime{Time: i.CreatedAt, Valid: !i.CreatedAt.IsZero()},
	}
}

// ToInteraction converts a database row to a domain model
func ToInteraction(row *InteractionRow) *models.Interaction {
	return &models.Interaction{
		ID:         row.ID.String,
		TraineeID:  row.TraineeID.String,
		ReporterID: row.ReporterID.String,
		Date:       row.Date.Time,
		Type:       models.InteractionType(row.Type.String),
		Title:      row.Title.String,
		Details:    row.Details.String,
		CreatedAt:  row.CreatedAt.Time,
	}
}

// ToInteractions converts a slice of database rows to domain models
func ToInteractions(rows []InteractionRow) []*models.Interaction {
	interactions := make([]*models.Interaction, len(rows))
	for i, row := range rows {
		interactions[i] = ToInteraction(&row)
	}
	return interactions
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
