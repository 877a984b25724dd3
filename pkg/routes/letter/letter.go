// Package letter exposes the letter generation endpoint. Generating a letter reads
// the trainee snapshot and renders a PDF; it mutates nothing and notifies no one.
package letter

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/HackYourFuture/dojo/internal/repositories/trainee"
	"github.com/HackYourFuture/dojo/pkg/letters"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
)

// Handler handles letter generation requests
type Handler struct {
	trainees  trainee.TraineeRepository
	generator *letters.Generator
	logger    ectologger.Logger
}

// NewHandler creates a new letter handler
func NewHandler(trainees trainee.TraineeRepository, generator *letters.Generator, logger ectologger.Logger) *Handler {
	return &Handler{
		trainees:  trainees,
		generator: generator,
		logger:    logger,
	}
}

// RegisterRoutes registers the letter routes
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/:type", h.Generate)
}

// Generate handles GET /trainees/:traineeId/letters/:type. An unknown letter type
// is rejected before any template or repository work happens.
func (h *Handler) Generate(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "LetterHandler.Generate")
	defer span.End()

	letterType, err := letters.ParseType(c.Param("type"))
	if err != nil {
		return err
	}

	subject, err := h.trainees.GetByID(ctx, c.Param("traineeId"))
	if err != nil {
		return err
	}

	letter, err := h.generator.Generate(ctx, subject, letterType)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, letter.Filename))
	return c.Blob(http.StatusOK, "application/pdf", letter.Content)
}
