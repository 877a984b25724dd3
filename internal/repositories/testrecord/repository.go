package testrecord

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

// TestRepository defines the interface for test record data access
type TestRepository interface {
	Create(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error)
	GetByID(ctx context.Context, traineeID, id string) (*models.TestRecord, error)
	ListByTrainee(ctx context.Context, traineeID string) ([]*models.TestRecord, error)
	Update(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error)
	Delete(ctx context.Context, traineeID, id string) error
}

// Repository implements TestRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new test record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new test record. The id is always assigned here.
func (r *Repository) Create(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "TestRepository.Create")
	defer span.End()

	rec.ID = uuid.New().String()

	now := Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	row := FromTestRecord(rec)
	ib := testStruct.InsertInto(testsTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         rec.ID,
		"trainee_id": rec.TraineeID,
		"type":       string(rec.Type),
	}).Debug("Creating test record")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create test record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create test record")
	}

	return rec, nil
}

// GetByID retrieves a test record by ID, scoped to its trainee
func (r *Repository) GetByID(ctx context.Context, traineeID, id string) (*models.TestRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "TestRepository.GetByID")
	defer span.End()

	sb := testStruct.SelectFrom(testsTable)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("trainee_id", traineeID),
	)

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         id,
		"trainee_id": traineeID,
	}).Debug("Getting test record by ID")

	var row TestRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "test record not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get test record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get test record")
	}

	return ToTestRecord(&row), nil
}

// ListByTrainee retrieves all test records for a trainee, newest first
func (r *Repository) ListByTrainee(ctx context.Context, traineeID string) ([]*models.TestRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "TestRepository.ListByTrainee")
	defer span.End()

	sb := testStruct.SelectFrom(testsTable)
	sb.Where(sb.Equal("trainee_id", traineeID))
	sb.OrderBy("date").Desc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"trainee_id": traineeID,
	}).Debug("Listing test records")

	var rows []TestRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list test records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list test records")
	}

	return ToTestRecords(rows), nil
}

// Update replaces an existing test record. Last write wins; there is no version check.
func (r *Repository) Update(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "TestRepository.Update")
	defer span.End()

	rec.UpdatedAt = Now()

	ub := testStruct.Update(testsTable, FromTestRecord(rec))
	ub.Where(
		ub.Equal("id", rec.ID),
		ub.Equal("trainee_id", rec.TraineeID),
	)

	sql, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         rec.ID,
		"trainee_id": rec.TraineeID,
	}).Debug("Updating test record")

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update test record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update test record")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "test record not found")
	}

	return rec, nil
}

// Delete removes a test record. A second delete of the same id reports not found.
func (r *Repository) Delete(ctx context.Context, traineeID, id string) error {
	ctx, span := tracing.StartSpan(ctx, "TestRepository.Delete")
	defer span.End()

	db := testStruct.DeleteFrom(testsTable)
	db.Where(
		db.Equal("id", id),
		db.Equal("trainee_id", traineeID),
	)

	sql, args := db.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         id,
		"trainee_id": traineeID,
	}).Debug("Deleting test record")

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete test record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete test record")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "test record not found")
	}

	return nil
}
