package trainee

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/database"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
)

// TraineeRepository defines the interface for trainee data access
type TraineeRepository interface {
	Create(ctx context.Context, trainee *models.Trainee) (*models.Trainee, error)
	GetByID(ctx context.Context, id string) (*models.Trainee, error)
	List(ctx context.Context, cohort string, page, pageSize int) ([]*models.Trainee, int, error)
	Update(ctx context.Context, trainee *models.Trainee) (*models.Trainee, error)
	SoftDelete(ctx context.Context, id string) error
}

// Repository implements TraineeRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new trainee repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new trainee
func (r *Repository) Create(ctx context.Context, trainee *models.Trainee) (*models.Trainee, error) {
	ctx, span := tracing.StartSpan(ctx, "TraineeRepository.Create")
	defer span.End()

	if trainee.ID == "" {
		trainee.ID = uuid.New().String()
	}

	now := Now()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now

	row := FromTrainee(trainee)
	ib := traineeStruct.InsertInto(traineesTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":     trainee.ID,
		"cohort": trainee.Cohort,
	}).Debug("Creating trainee")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create trainee")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create trainee")
	}

	return trainee, nil
}

// GetByID retrieves a trainee by ID. Soft-deleted trainees are not found.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Trainee, error) {
	ctx, span := tracing.StartSpan(ctx, "TraineeRepository.GetByID")
	defer span.End()

	sb := traineeStruct.SelectFrom(traineesTable)
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id": id,
	}).Debug("Getting trainee by ID")

	var row TraineeRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "trainee not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get trainee")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get trainee")
	}

	return ToTrainee(&row), nil
}

// List retrieves trainees with pagination, optionally filtered by cohort.
func (r *Repository) List(ctx context.Context, cohort string, page, pageSize int) ([]*models.Trainee, int, error) {
	ctx, span := tracing.StartSpan(ctx, "TraineeRepository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)").From(traineesTable)
	countSb.Where(countSb.IsNull("deleted_at"))
	if cohort != "" {
		countSb.Where(countSb.Equal("cohort", cohort))
	}

	countSQL, countArgs := countSb.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count trainees")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list trainees")
	}

	sb := traineeStruct.SelectFrom(traineesTable)
	sb.Where(sb.IsNull("deleted_at"))
	if cohort != "" {
		sb.Where(sb.Equal("cohort", cohort))
	}
	sb.OrderBy("display_name").Asc()
	sb.Limit(pageSize).Offset((page - 1) * pageSize)

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"cohort":    cohort,
		"page":      page,
		"page_size": pageSize,
	}).Debug("Listing trainees")

	var rows []TraineeRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list trainees")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list trainees")
	}

	return ToTrainees(rows), total, nil
}

// Update updates an existing trainee
func (r *Repository) Update(ctx context.Context, trainee *models.Trainee) (*models.Trainee, error) {
	ctx, span := tracing.StartSpan(ctx, "TraineeRepository.Update")
	defer span.End()

	trainee.UpdatedAt = Now()

	ub := traineeStruct.Update(traineesTable, FromTrainee(trainee))
	ub.Where(
		ub.Equal("id", trainee.ID),
		ub.IsNull("deleted_at"),
	)

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id": trainee.ID,
	}).Debug("Updating trainee")

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update trainee")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update trainee")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "trainee not found")
	}

	return trainee, nil
}

// SoftDelete marks a trainee as deleted. Sub-records stay in place for auditing.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "TraineeRepository.SoftDelete")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(traineesTable)
	ub.Set(
		ub.Assign("deleted_at", Now()),
		ub.Assign("updated_at", Now()),
	)
	ub.Where(
		ub.Equal("id", id),
		ub.IsNull("deleted_at"),
	)

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id": id,
	}).Debug("Soft deleting trainee")

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete trainee")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete trainee")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "trainee not found")
	}

	return nil
}
