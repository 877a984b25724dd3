// Package interaction exposes the interaction log endpoints. Interactions are
// logged and read but never edited or removed through the API.
package interaction

import (
	stdcontext "context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/HackYourFuture/dojo/internal/repositories/interaction"
	"github.com/HackYourFuture/dojo/internal/repositories/trainee"
	"github.com/HackYourFuture/dojo/pkg/events"
	"github.com/HackYourFuture/dojo/pkg/metrics"
	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/notify"
	"github.com/HackYourFuture/dojo/pkg/platform/context"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
	"github.com/HackYourFuture/dojo/pkg/utils"
	"github.com/HackYourFuture/dojo/pkg/validation"
)

// Handler handles interaction requests
type Handler struct {
	trainees     trainee.TraineeRepository
	interactions interaction.InteractionRepository
	dispatcher   *notify.Dispatcher
	emitter      *events.Emitter
	logger       ectologger.Logger
}

// NewHandler creates a new interaction handler
func NewHandler(
	trainees trainee.TraineeRepository,
	interactions interaction.InteractionRepository,
	dispatcher *notify.Dispatcher,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Handler {
	return &Handler{
		trainees:     trainees,
		interactions: interactions,
		dispatcher:   dispatcher,
		emitter:      emitter,
		logger:       logger,
	}
}

// RegisterRoutes registers the interaction routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
}

// List handles GET /trainees/:traineeId/interactions
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "InteractionHandler.List")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		return err
	}

	records, err := h.interactions.ListByTrainee(ctx, traineeID)
	if err != nil {
		return err
	}

	items := make([]models.Interaction, len(records))
	for i, rec := range records {
		items[i] = *rec
	}

	return c.JSON(http.StatusOK, models.InteractionListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Get handles GET /trainees/:traineeId/interactions/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "InteractionHandler.Get")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		return err
	}

	rec, err := h.interactions.GetByID(ctx, traineeID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.InteractionResponse{Interaction: *rec})
}

// Create handles POST /trainees/:traineeId/interactions. The reporter is the
// authenticated staff member from the request context, never the request body.
func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "InteractionHandler.Create")
	defer span.End()

	reporterID := context.GetUserID(ctx)
	if reporterID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "user ID required")
	}

	traineeID := c.Param("traineeId")
	subject, err := h.trainees.GetByID(ctx, traineeID)
	if err != nil {
		h.countMutation("interaction", "create", err)
		return err
	}

	req, err := utils.BindRequest[models.CreateInteractionRequest](c)
	if err != nil {
		h.countMutation("interaction", "create", err)
		return err
	}

	date, err := validation.ParseDate("date", req.Date)
	if err != nil {
		h.countMutation("interaction", "create", err)
		return err
	}

	rec := &models.Interaction{
		TraineeID:  traineeID,
		ReporterID: reporterID,
		Date:       date,
		Type:       models.InteractionType(req.Type),
		Title:      req.Title,
		Details:    req.Details,
	}

	if err := validation.ValidateInteraction(*rec); err != nil {
		h.countMutation("interaction", "create", err)
		return err
	}

	created, err := h.interactions.Create(stdcontext.WithoutCancel(ctx), rec)
	if err != nil {
		h.countMutation("interaction", "create", err)
		return err
	}
	h.countMutation("interaction", "create", nil)

	notify.Detach(ctx, h.logger, "interaction.created", func(ctx stdcontext.Context) {
		h.dispatcher.Dispatch(ctx, notify.NewInteractionEvent(subject.DisplayName, created))
		if h.emitter != nil {
			_ = h.emitter.EmitInteractionCreated(ctx, created)
		}
	})

	return c.JSON(http.StatusCreated, models.InteractionResponse{Interaction: *created})
}

func (h *Handler) countMutation(kind, operation string, err error) {
	status := "ok"
	if err != nil {
		status = http.StatusText(httperror.GetStatusCode(err))
	}
	metrics.MutationsTotal.WithLabelValues(kind, operation, status).Inc()
}
