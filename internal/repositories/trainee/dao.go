package trainee

import (
	"database/sql"
	"time"

	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/database"
)

const (
	traineesTable = "trainees"
)

// TraineeRow represents the database row for a trainee
type TraineeRow struct {
	ID             sql.NullString                        `db:"id"`
	DisplayName    sql.NullString                        `db:"display_name"`
	Cohort         sql.NullString                        `db:"cohort"`
	PersonalInfo   database.JSONB[models.PersonalInfo]   `db:"personal_info"`
	ContactInfo    database.JSONB[models.ContactInfo]    `db:"contact_info"`
	EducationInfo  database.JSONB[models.EducationInfo]  `db:"education_info"`
	EmploymentInfo database.JSONB[models.EmploymentInfo] `db:"employment_info"`
	CreatedAt      sql.NullTime                          `db:"created_at"`
	UpdatedAt      sql.NullTime                          `db:"updated_at"`
	DeletedAt      sql.NullTime                          `db:"deleted_at"`
}

var traineeStruct = database.NewStruct(new(TraineeRow))

// FromTrainee converts a domain model to a database row
func FromTrainee(t *models.Trainee) *TraineeRow {
	row := &TraineeRow{
		ID:             sql.NullString{String: t.ID, Valid: t.ID != ""},
		DisplayName:    sql.NullString{String: t.DisplayName, Valid: t.DisplayName != ""},
		Cohort:         sql.NullString{String: t.Cohort, Valid: t.Cohort != ""},
		PersonalInfo:   database.JSONB[models.PersonalInfo]{Data: t.PersonalInfo},
		ContactInfo:    database.JSONB[models.ContactInfo]{Data: t.ContactInfo},
		EducationInfo:  database.JSONB[models.EducationInfo]{Data: t.EducationInfo},
		EmploymentInfo: database.JSONB[models.EmploymentInfo]{Data: t.EmploymentInfo},
		CreatedAt:      sql.NullTime{Time: t.CreatedAt, Valid: !t.CreatedAt.IsZero()},
		UpdatedAt:      sql.NullTime{Time: t.UpdatedAt, Valid: !t.UpdatedAt.IsZero()},
	}
	if t.DeletedAt != nil {
		row.DeletedAt = sql.NullTime{Time: *t.DeletedAt, Valid: true}
	}
	return row
}

// ToTrainee converts a database row to a domain model
func ToTrainee(row *TraineeRow) *models.Trainee {
	t := &models.Trainee{
		ID:             row.ID.String,
		DisplayName:    row.DisplayName.String,
		Cohort:         row.Cohort.String,
		PersonalInfo:   row.PersonalInfo.Data,
		ContactInfo:    row.ContactInfo.Data,
		EducationInfo:  row.EducationInfo.Data,
		EmploymentInfo: row.EmploymentInfo.Data,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
	if row.DeletedAt.Valid {
		deletedAt := row.DeletedAt.Time
		t.DeletedAt = &deletedAt
	}
	return t
}

// ToTrainees converts a slice of database rows to domain models
func ToTrainees(rows []TraineeRow) []*models.Trainee {
	trainees := make([]*models.Trainee, len(rows))
	for i, row := range rows {
		trainees[i] = ToTrainee(&row)
	}
	return trainees
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
