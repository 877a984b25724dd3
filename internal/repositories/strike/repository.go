package strike

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

// StrikeRepository defines the interface for strike data access. Strikes are never
// updated or deleted through the API, so the surface is create and read only.
type StrikeRepository interface {
	Create(ctx context.Context, rec *models.Strike) (*models.Strike, error)
	GetByID(ctx context.Context, traineeID, id string) (*models.Strike, error)
	ListByTrainee(ctx context.Context, traineeID string) ([]*models.Strike, error)
}

// Repository implements StrikeRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new strike repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new strike. The id is always assigned here.
func (r *Repository) Create(ctx context.Context, rec *models.Strike) (*models.Strike, error) {
	ctx, span := tracing.StartSpan(ctx, "StrikeRepository.Create")
	defer span.End()

	rec.ID = uuid.New().String()
	rec.CreatedAt = Now()

	row := FromStrike(rec)
	ib := strikeStruct.InsertInto(strikesTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         rec.ID,
		"trainee_id": rec.TraineeID,
	}).Debug("Creating strike")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create strike")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create strike")
	}

	return rec, nil
}

// GetByID retrieves a strike by ID, scoped to its trainee
func (r *Repository) GetByID(ctx context.Context, traineeID, id string) (*models.Strike, error) {
	ctx, span := tracing.StartSpan(ctx, "StrikeRepository.GetByID")
	defer span.End()

	sb := strikeStruct.SelectFrom(strikesTable)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("trainee_id", traineeID),
	)

	sql, args := sb.Build()

	var row StrikeRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "strike not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get strike")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get strike")
	}

	return ToStrike(&row), nil
}

// ListByTrainee retrieves all strikes for a trainee, newest first
func (r *Repository) ListByTrainee(ctx context.Context, traineeID string) ([]*models.Strike, error) {
	ctx, span := tracing.StartSpan(ctx, "StrikeRepository.ListByTrainee")
	defer span.End()

	sb := strikeStruct.SelectFrom(strikesTable)
	sb.Where(sb.Equal("trainee_id", traineeID))
	sb.OrderBy("date").Desc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"trainee_id": traineeID,
	}).Debug("Listing strikes")

	var rows []StrikeRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list strikes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list strikes")
	}

	return ToStrikes(rows), nil
}
