package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestPostJSON(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(), testLogger())
	resp, err := client.PostJSON(context.Background(), server.URL, map[string]string{"text": "hello"}, map[string]string{"X-Custom": "yes"})
	require.NoError(t, err)

	assert.True(t, resp.IsSuccess())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", received["text"])
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(), testLogger())
	resp, err := client.Get(context.Background(), server.URL, map[string]string{"Authorization": "token"})
	require.NoError(t, err)

	assert.False(t, resp.IsSuccess())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
