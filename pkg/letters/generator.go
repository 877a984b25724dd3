package letters

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-pdf/fpdf"

	"github.com/HackYourFuture/dojo/pkg/metrics"
	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
)

// Generator renders letters as PDF documents.
type Generator struct {
	logger ectologger.Logger
}

// NewGenerator creates a letter generator
func NewGenerator(logger ectologger.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate renders the letter of the given type for a trainee snapshot.
func (g *Generator) Generate(ctx context.Context, trainee *models.Trainee, t Type) (*Letter, error) {
	ctx, span := tracing.StartSpan(ctx, "letters.Generator.Generate")
	defer span.End()

	body, err := renderBody(t, BuildData(trainee, time.Now()))
	if err != nil {
		return nil, err
	}

	content, err := renderPDF(titles[t], body)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s letter PDF: %w", t, err)
	}

	metrics.LettersGenerated.WithLabelValues(string(t)).Inc()

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"trainee_id": trainee.ID,
		"type":       string(t),
		"bytes":      len(content),
	}).Debug("Generated letter")

	return &Letter{
		Type:     t,
		Filename: Filename(trainee, t),
		Content:  content,
	}, nil
}

func renderPDF(title, body string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 30, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for _, paragraph := range strings.Split(body, "\n\n") {
		pdf.MultiCell(0, 5.5, strings.TrimSpace(paragraph), "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
