// Package testrecord exposes the test record endpoints. Each mutation runs the same
// pipeline: resolve the trainee, validate the candidate record, persist, respond,
// then fire the side effects detached from the request.
package testrecord

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/HackYourFuture/dojo/internal/repositories/testrecord"
	"github.com/HackYourFuture/dojo/internal/repositories/trainee"
	"github.com/HackYourFuture/dojo/pkg/events"
	"github.com/HackYourFuture/dojo/pkg/metrics"
	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/notify"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
	"github.com/HackYourFuture/dojo/pkg/utils"
	"github.com/HackYourFuture/dojo/pkg/validation"
)

// Handler handles test record requests
type Handler struct {
	trainees   trainee.TraineeRepository
	tests      testrecord.TestRepository
	dispatcher *notify.Dispatcher
	emitter    *events.Emitter
	logger     ectologger.Logger
}

// NewHandler creates a new test record handler
func NewHandler(
	trainees trainee.TraineeRepository,
	tests testrecord.TestRepository,
	dispatcher *notify.Dispatcher,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Handler {
	return &Handler{
		trainees:   trainees,
		tests:      tests,
		dispatcher: dispatcher,
		emitter:    emitter,
		logger:     logger,
	}
}

// RegisterRoutes registers the test record routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /trainees/:traineeId/tests
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TestHandler.List")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		return err
	}

	records, err := h.tests.ListByTrainee(ctx, traineeID)
	if err != nil {
		return err
	}

	items := make([]models.TestRecord, len(records))
	for i, rec := range records {
		items[i] = *rec
	}

	return c.JSON(http.StatusOK, models.TestListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Get handles GET /trainees/:traineeId/tests/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TestHandler.Get")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		return err
	}

	rec, err := h.tests.GetByID(ctx, traineeID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.TestResponse{TestRecord: *rec})
}

// Create handles POST /trainees/:traineeId/tests. The trainee is resolved before
// anything else; validation runs before any write; the notification goes out only
// after the record is durably persisted.
func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TestHandler.Create")
	defer span.End()

	traineeID := c.Param("traineeId")
	subject, err := h.trainees.GetByID(ctx, traineeID)
	if err != nil {
		h.countMutation("test", "create", err)
		return err
	}

	req, err := utils.BindRequest[models.CreateTestRequest](c)
	if err != nil {
		h.countMutation("test", "create", err)
		return err
	}

	rec, err := h.buildRecord(traineeID, req.Date, req.Type, req.Result, req.Score, req.Comments)
	if err != nil {
		h.countMutation("test", "create", err)
		return err
	}

	created, err := h.persistCreate(ctx, rec)
	if err != nil {
		h.countMutation("test", "create", err)
		return err
	}
	h.countMutation("test", "create", nil)

	notify.Detach(ctx, h.logger, "test.created", func(ctx context.Context) {
		h.dispatcher.Dispatch(ctx, notify.NewTestEvent(subject.DisplayName, created))
		if h.emitter != nil {
			_ = h.emitter.EmitTestCreated(ctx, created)
		}
	})

	return c.JSON(http.StatusCreated, models.TestResponse{TestRecord: *created})
}

// Update handles PUT /trainees/:traineeId/tests/:id. The merged record is
// re-validated in full. Updates publish a lifecycle event but never a chat
// notification.
func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TestHandler.Update")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		h.countMutation("test", "update", err)
		return err
	}

	existing, err := h.tests.GetByID(ctx, traineeID, c.Param("id"))
	if err != nil {
		h.countMutation("test", "update", err)
		return err
	}

	req, err := utils.BindRequest[models.UpdateTestRequest](c)
	if err != nil {
		h.countMutation("test", "update", err)
		return err
	}

	rec, err := h.buildRecord(traineeID, req.Date, req.Type, req.Result, req.Score, req.Comments)
	if err != nil {
		h.countMutation("test", "update", err)
		return err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt

	updated, err := h.persistUpdate(ctx, rec)
	if err != nil {
		h.countMutation("test", "update", err)
		return err
	}
	h.countMutation("test", "update", nil)

	if h.emitter != nil {
		notify.Detach(ctx, h.logger, "test.updated", func(ctx context.Context) {
			_ = h.emitter.EmitTestUpdated(ctx, updated)
		})
	}

	return c.JSON(http.StatusOK, models.TestResponse{TestRecord: *updated})
}

// Delete handles DELETE /trainees/:traineeId/tests/:id. Deleting the same record
// twice reports not found the second time.
func (h *Handler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TestHandler.Delete")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		h.countMutation("test", "delete", err)
		return err
	}

	id := c.Param("id")
	if err := h.tests.Delete(context.WithoutCancel(ctx), traineeID, id); err != nil {
		h.countMutation("test", "delete", err)
		return err
	}
	h.countMutation("test", "delete", nil)

	if h.emitter != nil {
		notify.Detach(ctx, h.logger, "test.deleted", func(ctx context.Context) {
			_ = h.emitter.EmitTestDeleted(ctx, traineeID, id)
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// buildRecord assembles and validates a candidate record. Nothing is persisted if
// any check fails.
func (h *Handler) buildRecord(traineeID, date, testType, result string, score *float64, comments string) (*models.TestRecord, error) {
	parsedDate, err := validation.ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	rec := &models.TestRecord{
		TraineeID: traineeID,
		Date:      parsedDate,
		Type:      models.TestType(testType),
		Result:    models.TestResult(result),
		Score:     score,
		Comments:  comments,
	}

	if err := validation.ValidateTest(*rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// persistCreate writes the record on a context that survives request cancellation,
// so an aborted request cannot leave the mutation half-done.
func (h *Handler) persistCreate(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error) {
	start := time.Now()
	created, err := h.tests.Create(context.WithoutCancel(ctx), rec)
	metrics.MutationDuration.WithLabelValues("test", "create").Observe(time.Since(start).Seconds())
	return created, err
}

func (h *Handler) persistUpdate(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error) {
	start := time.Now()
	updated, err := h.tests.Update(context.WithoutCancel(ctx), rec)
	metrics.MutationDuration.WithLabelValues("test", "update").Observe(time.Since(start).Seconds())
	return updated, err
}

func (h *Handler) countMutation(kind, operation string, err error) {
	status := "ok"
	if err != nil {
		status = http.StatusText(httperror.GetStatusCode(err))
	}
	metrics.MutationsTotal.WithLabelValues(kind, operation, status).Inc()
}
