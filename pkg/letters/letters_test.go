package letters

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackYourFuture/dojo/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func sampleTrainee() *models.Trainee {
	return &models.Trainee{
		ID:          "6d9f7b2a-1c34-4f5e-9a8b-0d1e2f3a4b5c",
		DisplayName: "Amina Hassan",
		Cohort:      "C52",
		PersonalInfo: models.PersonalInfo{
			FirstName: "Amina",
			LastName:  "Hassan",
		},
		ContactInfo: models.ContactInfo{
			Email: "amina@example.org",
			City:  "Amsterdam",
		},
	}
}

func TestParseType(t *testing.T) {
	t.Run("KnownTypes", func(t *testing.T) {
		for _, s := range []string{"attendance", "Completion", " warning "} {
			parsed, err := ParseType(s)
			require.NoError(t, err)
			assert.True(t, parsed.IsValid())
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := ParseType("recommendation")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "attendance")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseType("")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}

func TestBuildData(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FullProfile", func(t *testing.T) {
		data := BuildData(sampleTrainee(), now)
		assert.Equal(t, "Amina Hassan", data["FullName"])
		assert.Equal(t, "Amina", data["FirstName"])
		assert.Equal(t, "C52", data["Cohort"])
		assert.Equal(t, "1 June 2025", data["Date"])
	})

	t.Run("MissingNamesFallBackToDisplayName", func(t *testing.T) {
		tr := sampleTrainee()
		tr.PersonalInfo = models.PersonalInfo{}
		data := BuildData(tr, now)
		assert.Equal(t, "Amina Hassan", data["FullName"])
		assert.Equal(t, "Amina Hassan", data["FirstName"])
	})

	t.Run("MissingContactFieldsAreEmptyStrings", func(t *testing.T) {
		tr := sampleTrainee()
		tr.ContactInfo = models.ContactInfo{}
		data := BuildData(tr, now)
		assert.Equal(t, "", data["Email"])
		assert.Equal(t, "", data["Address"])
	})
}

func TestFilename(t *testing.T) {
	name := Filename(sampleTrainee(), TypeCompletion)
	assert.Equal(t, "amina-hassan-completion-6d9f7b2a.pdf", name)

	t.Run("AwkwardDisplayName", func(t *testing.T) {
		tr := sampleTrainee()
		tr.DisplayName = "  ***  "
		assert.Equal(t, "trainee-warning-6d9f7b2a.pdf", Filename(tr, TypeWarning))
	})
}

func TestRenderBody(t *testing.T) {
	data := BuildData(sampleTrainee(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	for _, lt := range Types() {
		t.Run(string(lt), func(t *testing.T) {
			body, err := renderBody(lt, data)
			require.NoError(t, err)
			assert.Contains(t, body, "Amina")
			assert.Contains(t, body, "1 June 2025")
			assert.NotContains(t, body, "{{")
		})
	}

	t.Run("UnknownTypeNeverRenders", func(t *testing.T) {
		_, err := renderBody(Type("recommendation"), data)
		require.Error(t, err)
	})
}

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(testLogger())

	letter, err := g.Generate(context.Background(), sampleTrainee(), TypeAttendance)
	require.NoError(t, err)

	assert.Equal(t, TypeAttendance, letter.Type)
	assert.Equal(t, "amina-hassan-attendance-6d9f7b2a.pdf", letter.Filename)
	require.NotEmpty(t, letter.Content)
	assert.Equal(t, "%PDF", string(letter.Content[:4]))
}
