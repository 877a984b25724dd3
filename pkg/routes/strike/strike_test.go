package strike

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

type fakeStrikes struct {
	records map[string]*models.Strike
	nextID  int
}

func (f *fakeStrikes) Create(ctx stdcontext.Context, rec *models.Strike) (*models.Strike, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("strike-%d", f.nextID)
	rec.CreatedAt = time.Now().UTC()
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeStrikes) GetByID(ctx stdcontext.Context, traineeID, id string) (*models.Strike, error) {
	rec, ok := f.records[id]
	if !ok || rec.TraineeID != traineeID {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "strike not found")
	}
	return rec, nil
}

func (f *fakeStrikes) ListByTrainee(ctx stdcontext.Context, traineeID string) ([]*models.Strike, error) {
	var out []*models.Strike
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

func newHandlerForTest() (*Handler, *fakeStrikes, *fakeSender) {
	trainees := &fakeTrainees{trainees: map[string]*models.Trainee{
		"t-1": {ID: "t-1", DisplayName: "Amina Hassan"},
	}}
	strikes := &fakeStrikes{records: map[string]*models.Strike{}}
	sender := &fakeSender{events: make(chan *notify.Event, 10)}
	logger := testLogger()

	dispatcher := notify.NewDispatcher(sender, notify.NewFailureSink(nil, logger), logger)
	h := NewHandler(trainees, strikes, dispatcher, nil, logger)
	return h, strikes, sender
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

const validBody = `{"date":"2025-03-14","reason":"Missed three classes"}`

func TestCreateStrike(t *testing.T) {
	t.Run("ReporterComesFromTheRequestContext", func(t *testing.T) {
		h, strikes, sender := newHandlerForTest()

		rec, err := doCreate(h, validBody, "staff-7", "t-1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		require.Len(t, strikes.records, 1)
		for _, s := range strikes.records {
			assert.Equal(t, "staff-7", s.ReporterID)
		}

		select {
		case event := <-sender.events:
			assert.Equal(t, "strike.created", event.Type)
			assert.Equal(t, "Amina Hassan received a strike: Missed three classes", event.Summary)
		case <-time.After(2 * time.Second):
			t.Fatal("expected a notification dispatch")
		}
	})

	t.Run("MissingUserIs401", func(t *testing.T) {
		h, strikes, _ := newHandlerForTest()

		_, err := doCreate(h, validBody, "", "t-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
		assert.Empty(t, strikes.records)
	})

	t.Run("ReporterInBodyIsIgnored", func(t *testing.T) {
		h, strikes, _ := newHandlerForTest()

		body := `{"date":"2025-03-14","reason":"Missed three classes","reporter_id":"spoofed"}`
		_, err := doCreate(h, body, "staff-7", "t-1")
		require.NoError(t, err)

		for _, s := range strikes.records {
			assert.Equal(t, "staff-7", s.ReporterID)
		}
	})

	t.Run("UnknownTraineeIs404", func(t *testing.T) {
		h, strikes, _ := newHandlerForTest()

		_, err := doCreate(h, validBody, "staff-7", "nope")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
		assert.Empty(t, strikes.records)
	})

	t.Run("MissingReasonIs400", func(t *testing.T) {
		h, strikes, _ := newHandlerForTest()

		_, err := doCreate(h, `{"date":"2025-03-14"}`, "staff-7", "t-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Empty(t, strikes.records)
	})
}
