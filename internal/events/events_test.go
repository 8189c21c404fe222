package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/config"
)

func newTestEmitter(endpoint string) *Emitter {
	e := NewEmitter(config.EventsConfig{
		Endpoint: endpoint,
		Timeout:  2 * time.Second,
		Source:   "automation_worker",
	}, "Instagram", zap.NewNop())
	e.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestNewRecordSchema(t *testing.T) {
	e := newTestEmitter("http://127.0.0.1:0/unused")

	rec := e.NewRecord("alice", Success, "like_post", "Post liked.", map[string]string{"link": "https://x/p/1/"})

	assert.True(t, strings.HasPrefix(rec.EventID, "evt_"), "event IDs carry the evt_ prefix")
	assert.Equal(t, "alice", rec.AccountID)
	assert.Equal(t, Success, rec.EventType)
	assert.Equal(t, "info", rec.Severity)
	assert.Equal(t, "automation_worker", rec.Source)
	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), rec.OccurredAt)

	assert.Equal(t, "Instagram", rec.Payload["platform"])
	assert.Equal(t, "like_post", rec.Payload["action"])
	assert.Equal(t, "alice", rec.Payload["username"])
	assert.Equal(t, "SUCCESS", rec.Payload["status"])
	assert.Equal(t, "Post liked.", rec.Payload["description"])
	assert.Equal(t, "2026-09-01T12:00:00Z", rec.Payload["timestamp"])
	assert.Equal(t, "https://x/p/1/", rec.Payload["link"], "meta merges into the payload")
}

func TestNewRecordGeneratesFreshIDs(t *testing.T) {
	e := newTestEmitter("http://127.0.0.1:0/unused")
	a := e.NewRecord("alice", Attempted, "follow_user", "", nil)
	b := e.NewRecord("alice", Attempted, "follow_user", "", nil)
	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestEmitPostsRecord(t *testing.T) {
	var got Record
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	e := newTestEmitter(srv.URL)
	e.Emit(context.Background(), "alice", Attempted, "scroll_feed", "Scrolling the home feed.",
		map[string]string{"duration": "45s"})

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, Attempted, got.EventType)
	assert.Equal(t, "alice", got.AccountID)
	assert.Equal(t, "Scrolling the home feed.", got.Payload["description"])
	assert.Equal(t, "45s", got.Payload["duration"])
}

func TestEmitSwallowsTransportFailures(t *testing.T) {
	// Nothing listens here; Emit must neither panic nor block beyond its
	// timeout.
	e := newTestEmitter("http://127.0.0.1:1/api/events")
	e.Emit(context.Background(), "alice", Failed, "follow_user", "No follow button found.", nil)
}

func TestEmitSwallowsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := newTestEmitter(srv.URL)
	e.Emit(context.Background(), "alice", Success, "like_post", "Post liked.", nil)
}
