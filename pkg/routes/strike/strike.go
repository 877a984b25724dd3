// Package strike exposes the strike endpoints. Strikes can be issued and read but
// never changed or removed through the API.
package strike

import (
	stdcontext "context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/HackYourFuture/dojo/internal/repositories/strike"
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

// Handler handles strike requests
type Handler struct {
	trainees   trainee.TraineeRepository
	strikes    strike.StrikeRepository
	dispatcher *notify.Dispatcher
	emitter    *events.Emitter
	logger     ectologger.Logger
}

// NewHandler creates a new strike handler
func NewHandler(
	trainees trainee.TraineeRepository,
	strikes strike.StrikeRepository,
	dispatcher *notify.Dispatcher,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Handler {
	return &Handler{
		trainees:   trainees,
		strikes:    strikes,
		dispatcher: dispatcher,
		emitter:    emitter,
		logger:     logger,
	}
}

// RegisterRoutes registers the strike routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
}

// List handles GET /trainees/:traineeId/strikes
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "StrikeHandler.List")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		return err
	}

	records, err := h.strikes.ListByTrainee(ctx, traineeID)
	if err != nil {
		return err
	}

	items := make([]models.Strike, len(records))
	for i, rec := range records {
		items[i] = *rec
	}

	return c.JSON(http.StatusOK, models.StrikeListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Get handles GET /trainees/:traineeId/strikes/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "StrikeHandler.Get")
	defer span.End()

	traineeID := c.Param("traineeId")
	if _, err := h.trainees.GetByID(ctx, traineeID); err != nil {
		return err
	}

	rec, err := h.strikes.GetByID(ctx, traineeID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.StrikeResponse{Strike: *rec})
}

// Create handles POST /trainees/:traineeId/strikes. The issuer is the authenticated
// staff member from the request context.
func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "StrikeHandler.Create")
	defer span.End()

	reporterID := context.GetUserID(ctx)
	if reporterID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "user ID required")
	}

	traineeID := c.Param("traineeId")
	subject, err := h.trainees.GetByID(ctx, traineeID)
	if err != nil {
		h.countMutation("create", err)
		return err
	}

	req, err := utils.BindRequest[models.CreateStrikeRequest](c)
	if err != nil {
		h.countMutation("create", err)
		return err
	}

	date, err := validation.ParseDate("date", req.Date)
	if err != nil {
		h.countMutation("create", err)
		return err
	}

	rec := &models.Strike{
		TraineeID:  traineeID,
		ReporterID: reporterID,
		Date:       date,
		Reason:     req.Reason,
		Details:    req.Details,
	}

	if err := validation.ValidateStrike(*rec); err != nil {
		h.countMutation("create", err)
		return err
	}

	created, err := h.strikes.Create(stdcontext.WithoutCancel(ctx), rec)
	if err != nil {
		h.countMutation("create", err)
		return err
	}
	h.countMutation("create", nil)

	notify.Detach(ctx, h.logger, "strike.created", func(ctx stdcontext.Context) {
		h.dispatcher.Dispatch(ctx, notify.NewStrikeEvent(subject.DisplayName, created))
		if h.emitter != nil {
			_ = h.emitter.EmitStrikeCreated(ctx, created)
		}
	})

	return c.JSON(http.StatusCreated, models.StrikeResponse{Strike: *created})
}

func (h *Handler) countMutation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = http.StatusText(httperror.GetStatusCode(err))
	}
	metrics.MutationsTotal.WithLabelValues("strike", operation, status).Inc()
}
