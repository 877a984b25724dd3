// Package trainee exposes the trainee profile endpoints.
package trainee

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/HackYourFuture/dojo/internal/repositories/interaction"
	"github.com/HackYourFuture/dojo/internal/repositories/strike"
	"github.com/HackYourFuture/dojo/internal/repositories/testrecord"
	"github.com/HackYourFuture/dojo/internal/repositories/trainee"
	"github.com/HackYourFuture/dojo/pkg/events"
	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/notify"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
	"github.com/HackYourFuture/dojo/pkg/utils"
)

// Handler handles trainee profile requests
type Handler struct {
	trainees     trainee.TraineeRepository
	tests        testrecord.TestRepository
	interactions interaction.InteractionRepository
	strikes      strike.StrikeRepository
	emitter      *events.Emitter
	logger       ectologger.Logger
}

// NewHandler creates a new trainee handler
func NewHandler(
	trainees trainee.TraineeRepository,
	tests testrecord.TestRepository,
	interactions interaction.InteractionRepository,
	strikes strike.StrikeRepository,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Handler {
	return &Handler{
		trainees:     trainees,
		tests:        tests,
		interactions: interactions,
		strikes:      strikes,
		emitter:      emitter,
		logger:       logger,
	}
}

// RegisterRoutes registers the trainee routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:traineeId", h.Get)
	g.PUT("/:traineeId", h.Update)
	g.DELETE("/:traineeId", h.Delete)
}

// List handles GET /trainees
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TraineeHandler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	cohort := c.QueryParam("cohort")

	trainees, total, err := h.trainees.List(ctx, cohort, page, pageSize)
	if err != nil {
		return err
	}

	items := make([]models.Trainee, len(trainees))
	for i, t := range trainees {
		items[i] = *t
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	return c.JSON(http.StatusOK, models.TraineeListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Create handles POST /trainees
func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TraineeHandler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreateTraineeRequest](c)
	if err != nil {
		return err
	}

	t := &models.Trainee{
		DisplayName:    req.DisplayName,
		Cohort:         req.Cohort,
		PersonalInfo:   req.PersonalInfo,
		ContactInfo:    req.ContactInfo,
		EducationInfo:  req.EducationInfo,
		EmploymentInfo: req.EmploymentInfo,
	}

	created, err := h.trainees.Create(ctx, t)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.TraineeResponse{Trainee: *created})
}

// Get handles GET /trainees/:traineeId. The response includes the trainee's
// sub-records.
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TraineeHandler.Get")
	defer span.End()

	id := c.Param("traineeId")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "trainee ID required")
	}

	t, err := h.trainees.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tests, err := h.tests.ListByTrainee(ctx, id)
	if err != nil {
		return err
	}
	for _, rec := range tests {
		t.Tests = append(t.Tests, *rec)
	}

	interactions, err := h.interactions.ListByTrainee(ctx, id)
	if err != nil {
		return err
	}
	for _, rec := range interactions {
		t.Interactions = append(t.Interactions, *rec)
	}

	strikes, err := h.strikes.ListByTrainee(ctx, id)
	if err != nil {
		return err
	}
	for _, rec := range strikes {
		t.Strikes = append(t.Strikes, *rec)
	}

	return c.JSON(http.StatusOK, models.TraineeResponse{Trainee: *t})
}

// Update handles PUT /trainees/:traineeId. Nil groups in the body are left
// untouched.
func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TraineeHandler.Update")
	defer span.End()

	id := c.Param("traineeId")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "trainee ID required")
	}

	existing, err := h.trainees.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var req models.UpdateTraineeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	if req.DisplayName != nil {
		if *req.DisplayName == "" {
			return httperror.NewHTTPError(http.StatusBadRequest, "display_name must not be empty")
		}
		existing.DisplayName = *req.DisplayName
	}
	if req.Cohort != nil {
		existing.Cohort = *req.Cohort
	}
	if req.PersonalInfo != nil {
		existing.PersonalInfo = *req.PersonalInfo
	}
	if req.ContactInfo != nil {
		existing.ContactInfo = *req.ContactInfo
	}
	if req.EducationInfo != nil {
		existing.EducationInfo = *req.EducationInfo
	}
	if req.EmploymentInfo != nil {
		existing.EmploymentInfo = *req.EmploymentInfo
	}

	updated, err := h.trainees.Update(ctx, existing)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.TraineeResponse{Trainee: *updated})
}

// Delete handles DELETE /trainees/:traineeId. The trainee is soft-deleted; the
// lifecycle event goes out detached and cannot affect the response.
func (h *Handler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "TraineeHandler.Delete")
	defer span.End()

	id := c.Param("traineeId")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "trainee ID required")
	}

	if err := h.trainees.SoftDelete(ctx, id); err != nil {
		return err
	}

	if h.emitter != nil {
		notify.Detach(ctx, h.logger, "trainee.deleted", func(ctx context.Context) {
			_ = h.emitter.EmitTraineeDeleted(ctx, id)
		})
	}

	return c.NoContent(http.StatusNoContent)
}
