package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"legalaid-backend/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcomes struct {
	mu   sync.Mutex
	seen []string
}

func (o *outcomes) CollaboratorCall(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, outcome)
}

func fakeAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateSuccess(t *testing.T) {
	var gotBody generateRequest
	srv := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"1. File a complaint"}]}}]}`))
	})

	rec := &outcomes{}
	c := NewClient("test-key", srv.URL, ClientWithRecorder(rec))

	text, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "1. File a complaint", text)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "hello", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, []string{metrics.OutcomeOK}, rec.seen)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		outcome string
	}{
		{name: "non-200", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantErr: ErrAPIStatus, outcome: metrics.OutcomeError},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrNoContent, outcome: metrics.OutcomeEmpty},
		{name: "blank text", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, wantErr: ErrNoContent, outcome: metrics.OutcomeEmpty},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrBadPayload, outcome: metrics.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			rec := &outcomes{}
			c := NewClient("k", srv.URL, ClientWithRecorder(rec))

			text, err := c.Generate(context.Background(), "p")
			assert.Empty(t, text)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []string{tt.outcome}, rec.seen)
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	rec := &outcomes{}
	c := NewClient("k", srv.URL, ClientWithTimeout(50*time.Millisecond), ClientWithRecorder(rec))

	start := time.Now()
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, []string{metrics.OutcomeTimeout}, rec.seen)
}

func TestGenerateWithoutKeyMakesNoRequest(t *testing.T) {
	called := false
	srv := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	c := NewClient("  ", srv.URL)
	assert.False(t, c.Configured())

	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.False(t, called)
}
