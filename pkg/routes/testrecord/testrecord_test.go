package testrecord

import (
	"context"
	"errors"
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
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// fakeTrainees resolves trainees from a fixed set.
type fakeTrainees struct {
	trainees map[string]*models.Trainee
}

func (f *fakeTrainees) Create(ctx context.Context, t *models.Trainee) (*models.Trainee, error) {
	return t, nil
}

func (f *fakeTrainees) GetByID(ctx context.Context, id string) (*models.Trainee, error) {
	t, ok := f.trainees[id]
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "trainee not found")
	}
	return t, nil
}

func (f *fakeTrainees) List(ctx context.Context, cohort string, page, pageSize int) ([]*models.Trainee, int, error) {
	return nil, 0, nil
}

func (f *fakeTrainees) Update(ctx context.Context, t *models.Trainee) (*models.Trainee, error) {
	return t, nil
}

func (f *fakeTrainees) SoftDelete(ctx context.Context, id string) error {
	return nil
}

// fakeTests is an in-memory test record store.
type fakeTests struct {
	records map[string]*models.TestRecord
	nextID  int
	failAll error
}

func (f *fakeTests) Create(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	f.nextID++
	rec.ID = fmt.Sprintf("test-%d", f.nextID)
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeTests) GetByID(ctx context.Context, traineeID, id string) (*models.TestRecord, error) {
	rec, ok := f.records[id]
	if !ok || rec.TraineeID != traineeID {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "test record not found")
	}
	return rec, nil
}

func (f *fakeTests) ListByTrainee(ctx context.Context, traineeID string) ([]*models.TestRecord, error) {
	var out []*models.TestRecord
	for _, rec := range f.records {
		if rec.TraineeID == traineeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeTests) Update(ctx context.Context, rec *models.TestRecord) (*models.TestRecord, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	if _, ok := f.records[rec.ID]; !ok {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "test record not found")
	}
	rec.UpdatedAt = time.Now().UTC()
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeTests) Delete(ctx context.Context, traineeID, id string) error {
	rec, ok := f.records[id]
	if !ok || rec.TraineeID != traineeID {
		return httperror.NewHTTPError(http.StatusNotFound, "test record not found")
	}
	delete(f.records, id)
	return nil
}

// fakeSender records delivery attempts on a channel.
type fakeSender struct {
	events chan *notify.Event
	err    error
}

func newFakeSender() *fakeSender {
	return &fakeSender{events: make(chan *notify.Event, 10)}
}

func (f *fakeSender) Send(ctx context.Context, event *notify.Event) error {
	f.events <- event
	return f.err
}

func (f *fakeSender) waitForEvent(t *testing.T) *notify.Event {
	t.Helper()
	select {
	case event := <-f.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification dispatch")
		return nil
	}
}

func (f *fakeSender) assertNoEvent(t *testing.T) {
	t.Helper()
	select {
	case event := <-f.events:
		t.Fatalf("unexpected notification dispatch: %s", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

type fixture struct {
	handler  *Handler
	trainees *fakeTrainees
	tests    *fakeTests
	sender   *fakeSender
}

func newFixture() *fixture {
	trainees := &fakeTrainees{trainees: map[string]*models.Trainee{
		"t-1": {ID: "t-1", DisplayName: "Amina Hassan"},
	}}
	tests := &fakeTests{records: map[string]*models.TestRecord{}}
	sender := newFakeSender()
	logger := testLogger()
	dispatcher := notify.NewDispatcher(sender, notify.NewFailureSink(nil, logger), logger)

	return &fixture{
		handler:  NewHandler(trainees, tests, dispatcher, nil, logger),
		trainees: trainees,
		tests:    tests,
		sender:   sender,
	}
}

func doRequest(h echo.HandlerFunc, method, body string, params map[string]string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	return rec, h(c)
}

const validCreateBody = `{"date":"2025-03-14","type":"Algorithm","result":"Passed","score":8}`

func TestCreate(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		f := newFixture()

		rec, err := doRequest(f.handler.Create, http.MethodPost, validCreateBody, map[string]string{"traineeId": "t-1"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"trainee_id":"t-1"`)
		require.Len(t, f.tests.records, 1)

		event := f.sender.waitForEvent(t)
		assert.Equal(t, "test.created", event.Type)
		assert.Equal(t, "Amina Hassan passed the Algorithm test", event.Summary)
	})

	t.Run("UnknownTraineeIs404AndNothingPersists", func(t *testing.T) {
		f := newFixture()

		_, err := doRequest(f.handler.Create, http.MethodPost, validCreateBody, map[string]string{"traineeId": "nope"})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
		assert.Empty(t, f.tests.records)
		f.sender.assertNoEvent(t)
	})

	t.Run("InvalidRecordIs400AndNothingPersists", func(t *testing.T) {
		f := newFixture()

		body := `{"date":"2025-03-14","type":"Vibes","result":"Passed"}`
		_, err := doRequest(f.handler.Create, http.MethodPost, body, map[string]string{"traineeId": "t-1"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Empty(t, f.tests.records)
		f.sender.assertNoEvent(t)
	})

	t.Run("BadDateFormatIs400", func(t *testing.T) {
		f := newFixture()

		body := `{"date":"14/03/2025","type":"Algorithm","result":"Passed"}`
		_, err := doRequest(f.handler.Create, http.MethodPost, body, map[string]string{"traineeId": "t-1"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Empty(t, f.tests.records)
	})

	t.Run("PersistenceFailureIs500AndNoNotification", func(t *testing.T) {
		f := newFixture()
		f.tests.failAll = httperror.NewHTTPError(http.StatusInternalServerError, "failed to create test record")

		_, err := doRequest(f.handler.Create, http.MethodPost, validCreateBody, map[string]string{"traineeId": "t-1"})
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
		f.sender.assertNoEvent(t)
	})

	t.Run("DispatchFailureDoesNotChangeTheResponse", func(t *testing.T) {
		f := newFixture()
		f.sender.err = errors.New("webhook down")

		rec, err := doRequest(f.handler.Create, http.MethodPost, validCreateBody, map[string]string{"traineeId": "t-1"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		// Exactly one attempt, even on failure.
		f.sender.waitForEvent(t)
		f.sender.assertNoEvent(t)
	})
}

func TestUpdate(t *testing.T) {
	seed := func(f *fixture) *models.TestRecord {
		rec := &models.TestRecord{
			TraineeID: "t-1",
			Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Type:      models.TestTypeAlgorithm,
			Result:    models.TestResultFailed,
		}
		created, err := f.tests.Create(context.Background(), rec)
		if err != nil {
			panic(err)
		}
		return created
	}

	t.Run("HappyPath", func(t *testing.T) {
		f := newFixture()
		existing := seed(f)

		body := `{"date":"2025-03-14","type":"Algorithm","result":"Passed","comments":"retake"}`
		rec, err := doRequest(f.handler.Update, http.MethodPut, body,
			map[string]string{"traineeId": "t-1", "id": existing.ID})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TestResultPassed, f.tests.records[existing.ID].Result)
	})

	t.Run("UpdateNeverSendsAChatNotification", func(t *testing.T) {
		f := newFixture()
		existing := seed(f)

		body := `{"date":"2025-03-14","type":"Algorithm","result":"Passed"}`
		_, err := doRequest(f.handler.Update, http.MethodPut, body,
			map[string]string{"traineeId": "t-1", "id": existing.ID})
		require.NoError(t, err)
		f.sender.assertNoEvent(t)
	})

	t.Run("UnknownRecordIs404", func(t *testing.T) {
		f := newFixture()

		body := `{"date":"2025-03-14","type":"Algorithm","result":"Passed"}`
		_, err := doRequest(f.handler.Update, http.MethodPut, body,
			map[string]string{"traineeId": "t-1", "id": "missing"})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})

	t.Run("MergedRecordIsRevalidated", func(t *testing.T) {
		f := newFixture()
		existing := seed(f)

		body := `{"date":"2025-03-14","type":"Algorithm","result":"Maybe"}`
		_, err := doRequest(f.handler.Update, http.MethodPut, body,
			map[string]string{"traineeId": "t-1", "id": existing.ID})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Equal(t, models.TestResultFailed, f.tests.records[existing.ID].Result)
	})
}

func TestDelete(t *testing.T) {
	t.Run("DoubleDeleteIs404TheSecondTime", func(t *testing.T) {
		f := newFixture()
		created, err := f.tests.Create(context.Background(), &models.TestRecord{
			TraineeID: "t-1",
			Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Type:      models.TestTypeTheory,
			Result:    models.TestResultPassed,
		})
		require.NoError(t, err)

		params := map[string]string{"traineeId": "t-1", "id": created.ID}

		rec, err := doRequest(f.handler.Delete, http.MethodDelete, "", params)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err = doRequest(f.handler.Delete, http.MethodDelete, "", params)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})
}

func TestList(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		_, err := f.tests.Create(context.Background(), &models.TestRecord{
			TraineeID: "t-1",
			Date:      time.Date(2025, 3, 14+i, 0, 0, 0, 0, time.UTC),
			Type:      models.TestTypeProject,
			Result:    models.TestResultPassed,
		})
		require.NoError(t, err)
	}

	rec, err := doRequest(f.handler.List, http.MethodGet, "", map[string]string{"traineeId": "t-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":3`)
}
