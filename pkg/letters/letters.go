// Package letters generates PDF letters from a trainee snapshot. Generation is
// read-only: it never mutates the trainee record and never triggers notifications.
package letters

import (
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/HackYourFuture/dojo/pkg/models"
)

// Type enumerates the supported letter kinds.
type Type string

const (
	TypeAttendance Type = "attendance"
	TypeCompletion Type = "completion"
	TypeWarning    Type = "warning"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeAttendance, TypeCompletion, TypeWarning:
		return true
	}
	return false
}

func Types() []Type {
	return []Type{TypeAttendance, TypeCompletion, TypeWarning}
}

// ParseType resolves a requested letter type. Unknown types are a client error and
// are rejected before any template work happens.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", httperror.NewHTTPErrorf(http.StatusBadRequest, "letter type must be one of: %s", joinTypes())
	}
	return t, nil
}

// Letter is a generated document ready to be served or stored.
type Letter struct {
	Type     Type
	Filename string
	Content  []byte
}

// BuildData maps a trainee snapshot to the placeholder values the templates use.
// Missing profile fields come through as empty strings, never as errors.
func BuildData(trainee *models.Trainee, now time.Time) map[string]string {
	firstName := trainee.PersonalInfo.FirstName
	if firstName == "" {
		firstName = trainee.DisplayName
	}

	fullName := strings.TrimSpace(trainee.PersonalInfo.FirstName + " " + trainee.PersonalInfo.LastName)
	if fullName == "" {
		fullName = trainee.DisplayName
	}

	return map[string]string{
		"Date":      now.Format("2 January 2006"),
		"FullName":  fullName,
		"FirstName": firstName,
		"Cohort":    trainee.Cohort,
		"Email":     trainee.ContactInfo.Email,
		"Address":   trainee.ContactInfo.Address,
		"City":      trainee.ContactInfo.City,
	}
}

// Filename builds a collision-safe filename from the trainee name, letter type and
// a short id fragment.
func Filename(trainee *models.Trainee, t Type) string {
	shortID := trainee.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return slug(trainee.DisplayName) + "-" + string(t) + "-" + shortID + ".pdf"
}

func slug(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		out = "trainee"
	}
	return out
}

func joinTypes() string {
	types := Types()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
