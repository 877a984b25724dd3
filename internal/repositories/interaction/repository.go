package interaction

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

// InteractionRepository defines the interface for interaction data access.
// Interactions are never updated or deleted through the API.
type InteractionRepository interface {
	Create(ctx context.Context, rec *models.Interaction) (*models.Interaction, error)
	GetByID(ctx context.Context, traineeID, id string) (*models.Interaction, error)
	ListByTrainee(ctx context.Context, traineeID string) ([]*models.Interaction, error)
}

// Repository implements InteractionRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new interaction repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new interaction. The id is always assigned here.
func (r *Repository) Create(ctx context.Context, rec *models.Interaction) (*models.Interaction, error) {
	ctx, span := tracing.StartSpan(ctx, "InteractionRepository.Create")
	defer span.End()

	rec.ID = uuid.New().String()
	rec.CreatedAt = Now()

	row := FromInteraction(rec)
	ib := interactionStruct.InsertInto(interactionsTable, row)
	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         rec.ID,
		"trainee_id": rec.TraineeID,
		"type":       string(rec.Type),
	}).Debug("Creating interaction")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create interaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create interaction")
	}

	return rec, nil
}

// GetByID retrieves an interaction by ID, scoped to its trainee
func (r *Repository) GetByID(ctx context.Context, traineeID, id string) (*models.Interaction, error) {
	ctx, span := tracing.StartSpan(ctx, "InteractionRepository.GetByID")
	defer span.End()

	sb := interactionStruct.SelectFrom(interactionsTable)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("trainee_id", traineeID),
	)

	sql, args := sb.Build()

	var row InteractionRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "interaction not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get interaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get interaction")
	}

	return ToInteraction(&row), nil
}

// ListByTrainee retrieves all interactions for a trainee, newest first
func (r *Repository) ListByTrainee(ctx context.Context, traineeID string) ([]*models.Interaction, error) {
	ctx, span := tracing.StartSpan(ctx, "InteractionRepository.ListByTrainee")
	defer span.End()

	sb := interactionStruct.SelectFrom(interactionsTable)
	sb.Where(sb.Equal("trainee_id", traineeID))
	sb.OrderBy("date").Desc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"trainee_id": traineeID,
	}).Debug("Listing interactions")

	var rows []InteractionRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list interactions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list interactions")
	}

	return ToInteractions(rows), nil
}
