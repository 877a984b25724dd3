package testrecord

import (
	"database/sql"
	"time"

	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/database"
)

const (
	testsTable = "trainee_tests"
)

// TestRow represents the database row for a test record
type TestRow struct {
	ID        sql.NullString  `db:"id"`
	TraineeID sql.NullString  `db:"trainee_id"`
	Date      sql.NullTime    `db:"date"`
	Type      sql.NullString  `db:"type"`
	Result    sql.NullString  `db:"result"`
	Score     sql.NullFloat64 `db:"score"`
	Comments  sql.NullString  `db:"comments"`
	CreatedAt sql.NullTime    `db:"created_at"`
	UpdatedAt sql.NullTime    `db:"updated_at"`
}

var testStruct = database.NewStruct(new(TestRow))

// FromTestRecord converts a domain model to a database row
func FromTestRecord(t *models.TestRecord) *TestRow {
	row := &TestRow{
		ID:        sql.NullString{String: t.ID, Valid: t.ID != ""},
		TraineeID: sql.NullString{String: t.TraineeID, Valid: t.TraineeID != ""},
		Date:      sql.NullTime{Time: t.Date, Valid: !t.Date.IsZero()},
		Type:      sql.NullString{String: string(t.Type), Valid: t.Type != ""},
		Result:    sql.NullString{String: string(t.Result), Valid: t.Result != ""},
		Comments:  sql.NullString{String: t.Comments, Valid: t.Comments != ""},
		CreatedAt: sql.NullTime{Time: t.CreatedAt, Valid: !t.CreatedAt.IsZero()},
		UpdatedAt: sql.NullTime{Time: t.UpdatedAt, Valid: !t.UpdatedAt.IsZero()},
	}
	if t.Score != nil {
		row.Score = sql.NullFloat64{Float64: *t.Score, Valid: true}
	}
	return row
}

// ToTestRecord converts a database row to a domain model
func ToTestRecord(row *TestRow) *models.TestRecord {
	t := &models.TestRecord{
		ID:        row.ID.String,
		TraineeID: row.TraineeID.String,
		Date:      row.Date.Time,
		Type:      models.TestType(row.Type.String),
		Result:    models.TestResult(row.Result.String),
		Comments:  row.Comments.String,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
	if row.Score.Valid {
		score := row.Score.Float64
		t.Score = &score
	}
	return t
}

// ToTestRecords converts a slice of database rows to domain models
func ToTestRecords(rows []TestRow) []*models.TestRecord {
	records := make([]*models.TestRecord, len(rows))
	for i, row := range rows {
		records[i] = ToTestRecord(&row)
	}
	return records
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
