// Package validation holds the domain rules for trainee sub-records. Everything in
// here is pure: a candidate record goes in, nil or a 400-coded error comes out, and
// no repository call ever happens from this package.
package validation

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"

	"github.com/HackYourFuture/dojo/pkg/models"
)

const maxCommentsLength = 2000

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("testtype", func(fl validator.FieldLevel) bool {
		return models.TestType(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("testresult", func(fl validator.FieldLevel) bool {
		return models.TestResult(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("interactiontype", func(fl validator.FieldLevel) bool {
		return models.InteractionType(fl.Field().String()).IsValid()
	})
}

// Struct runs request-shape validation (required fields, tags) on a request body.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date from a request body.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "%s is required", field)
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "%s must be a valid date (YYYY-MM-DD)", field)
	}
	return d, nil
}

// ValidateTest checks a full candidate test record. Create and update run the same
// checks; an update validates the merged record, not just the changed fields.
func ValidateTest(rec models.TestRecord) error {
	if rec.Date.IsZero() {
		return httperror.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	if rec.Type == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "type is required")
	}
	if !rec.Type.IsValid() {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "type must be one of: %s", joinTestTypes())
	}
	if rec.Result == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "result is required")
	}
	if !rec.Result.IsValid() {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "result must be one of: %s", joinTestResults())
	}
	if rec.Score != nil {
		if math.IsNaN(*rec.Score) || math.IsInf(*rec.Score, 0) {
			return httperror.NewHTTPError(http.StatusBadRequest, "score must be a finite number")
		}
	}
	if len(rec.Comments) > maxCommentsLength {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "comments must be at most %d characters", maxCommentsLength)
	}
	return nil
}

// ValidateInteraction checks a full candidate interaction record.
func ValidateInteraction(rec models.Interaction) error {
	if rec.ReporterID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "reporter is required")
	}
	if rec.Date.IsZero() {
		return httperror.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	if rec.Type == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "type is required")
	}
	if !rec.Type.IsValid() {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "type must be one of: %s", joinInteractionTypes())
	}
	if rec.Title == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if len(rec.Details) > maxCommentsLength {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "details must be at most %d characters", maxCommentsLength)
	}
	return nil
}

// ValidateStrike checks a full candidate strike record.
func ValidateStrike(rec models.Strike) error {
	if rec.ReporterID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "reporter is required")
	}
	if rec.Date.IsZero() {
		return httperror.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	if rec.Reason == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "reason is required")
	}
	if len(rec.Details) > maxCommentsLength {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "details must be at most %d characters", maxCommentsLength)
	}
	return nil
}

func joinTestTypes() string {
	types := models.TestTypes()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinTestResults() string {
	results := models.TestResults()
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func joinInteractionTypes() string {
	types := models.InteractionTypes()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
