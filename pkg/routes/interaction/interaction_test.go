package interaction

import (
	stdcontext "context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackYourFuture/dojo/pkg/models"
	"github.com/HackYourFuture/dojo/pkg/notify"
	"github.com/HackYourFuture/dojo/pkg/platform/context"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeTrainees struct {
	trainees map[string]*models.Trainee
}

func (f *fakeTrainees) Create(ctx stdcontext.Context, t *models.Trainee) (*models.Trainee, error) {
	return t, nil
}

func (f *fakeTrainees) GetByID(ctx stdcontext.Context, id string) (*models.Trainee, error) {
	t, ok := f.trainees[id]
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "trainee not found")
	}
	return t, nil
}

func (f *fakeTrainees) List(ctx stdcontext.Context, cohort string, page, pageSize int) ([]*models.Trainee, int, error) {
	return nil, 0, nil
}

func (f *fakeTrainees) Update(ctx stdcontext.Context, t *models.Trainee) (*models.Trainee, error) {
	return t, nil
}

func (f *fakeTrainees) SoftDelete(ctx stdcontext.Context, id string) error {
	return nil
}

type fakeInteractions struct {
	records map[string]*models.Interaction
	nextID  int
}

func (f *fakeInteractions) Create(ctx stdcontext.Context, rec *models.Interaction) (*models.Interaction, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("int-%d", f.nextID)
	rec.CreatedAt = time.Now().UTC()
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeInteractions) GetByID(ctx stdcontext.Context, traineeID, id string) (*models.Interaction, error) {
	rec, ok := f.records[id]
	if !ok || rec.TraineeID != traineeID {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "interaction not found")
	}
	return rec, nil
}

func (f *fakeInteractions) ListByTrainee(ctx stdcontext.Context, traineeID string) ([]*models.Interaction, error) {
	var out []*models.Interaction
	for _, rec := range f.records {
		if rec.TraineeID == traineeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSender struct {
	events chan *notify.Event
}

func (f *fakeSender) Send(ctx stdcontext.Context, event *notify.Event) error {
	f.events <- event
	return nil
}

func newHandlerForTest() (*Handler, *fakeInteractions, *fakeSender) {
	trainees := &fakeTrainees{trainees: map[string]*models.Trainee{
		"t-1": {ID: "t-1", DisplayName: "Amina Hassan"},
	}}
	interactions := &fakeInteractions{records: map[string]*models.Interaction{}}
	sender := &fakeSender{events: make(chan *notify.Event, 10)}
	logger := testLogger()

	dispatcher := notify.NewDispatcher(sender, notify.NewFailureSink(nil, logger), logger)
	h := NewHandler(trainees, interactions, dispatcher, nil, logger)
	return h, interactions, sender
}

func doCreate(h *Handler, body, userID, traineeID string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req = req.WithContext(context.SetUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("traineeId")
	c.SetParamValues(traineeID)
	return rec, h.Create(c)
}

const validBody = `{"date":"2025-03-14","type":"Call","title":"Progress check-in"}`

func TestCreateInteraction(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		h, interactions, sender := newHandlerForTest()

		rec, err := doCreate(h, validBody, "staff-7", "t-1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		require.Len(t, interactions.records, 1)
		for _, i := range interactions.records {
			assert.Equal(t, "staff-7", i.ReporterID)
		}

		select {
		case event := <-sender.events:
			assert.Equal(t, "interaction.created", event.Type)
			assert.Equal(t, "New Call interaction logged for Amina Hassan: Progress check-in", event.Summary)
		case <-time.After(2 * time.Second):
			t.Fatal("expected a notification dispatch")
		}
	})

	t.Run("MissingUserIs401", func(t *testing.T) {
		h, interactions, _ := newHandlerForTest()

		_, err := doCreate(h, validBody, "", "t-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
		assert.Empty(t, interactions.records)
	})

	t.Run("UnknownTypeIs400", func(t *testing.T) {
		h, interactions, _ := newHandlerForTest()

		body := `{"date":"2025-03-14","type":"Telegram","title":"Progress check-in"}`
		_, err := doCreate(h, body, "staff-7", "t-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Empty(t, interactions.records)
	})
}

func TestRegisterRoutes(t *testing.T) {
	// Interactions can be logged and read; there is no mutation of an existing one.
	h, _, _ := newHandlerForTest()
	e := echo.New()
	h.RegisterRoutes(e.Group("/trainees/:traineeId/interactions"))

	for _, route := range e.Routes() {
		assert.NotEqual(t, http.MethodDelete, route.Method, "unexpected delete route %s", route.Path)
		assert.NotEqual(t, http.MethodPut, route.Method, "unexpected update route %s", route.Path)
	}
}
