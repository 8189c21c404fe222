// Package events implements the uniform event-emission contract: every action
// lifecycle point is reported to an external HTTP sink as a structured
// record. Emission is fire-and-forget; observability-channel failures never
// influence the outcome of the action that triggered them.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/config"
)

// Type tags an event with its lifecycle point.
type Type string

const (
	Attempted    Type = "ATTEMPTED"
	Success      Type = "SUCCESS"
	Failed       Type = "FAILED"
	LoginSuccess Type = "LOGIN_SUCCESS"
	LoginFailed  Type = "LOGIN_FAILED"
)

// Record is the wire shape the sink accepts. EventID is freshly generated at
// emission time and never reused.
type Record struct {
	EventID    string         `json:"event_id"`
	AccountID  string         `json:"account_id"`
	EventType  Type           `json:"event_type"`
	Severity   string         `json:"severity"`
	Source     string         `json:"source"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Sink is what the session manager and action handlers emit through. The
// production implementation is Emitter; tests record in memory.
type Sink interface {
	Emit(ctx context.Context, accountID string, t Type, action, description string, meta map[string]string)
}

// Emitter posts Records to the configured HTTP endpoint.
type Emitter struct {
	endpoint string
	source   string
	platform string
	client   *http.Client
	logger   *zap.Logger
	now      func() time.Time
}

var _ Sink = (*Emitter)(nil)

// NewEmitter creates an Emitter with a short fixed timeout on every call.
func NewEmitter(cfg config.EventsConfig, platform string, logger *zap.Logger) *Emitter {
	return &Emitter{
		endpoint: cfg.Endpoint,
		source:   cfg.Source,
		platform: platform,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger.Named("events"),
		now:      time.Now,
	}
}

// NewRecord builds the wire record for one event. Exposed so tests can assert
// the schema without a live sink.
func (e *Emitter) NewRecord(accountID string, t Type, action, description string, meta map[string]string) Record {
	occurred := e.now().UTC()
	payload := map[string]any{
		"platform":    e.platform,
		"action":      action,
		"username":    accountID,
		"status":      string(t),
		"description": description,
		"timestamp":   occurred.Format(time.RFC3339),
	}
	for k, v := range meta {
		payload[k] = v
	}
	return Record{
		EventID:    "evt_" + uuid.New().String(),
		AccountID:  accountID,
		EventType:  t,
		Severity:   "info",
		Source:     e.source,
		OccurredAt: occurred,
		Payload:    payload,
	}
}

// Emit transmits one event. All transport and encoding errors are logged and
// swallowed: the sink being unreachable must never abort or alter the action
// that produced the event.
func (e *Emitter) Emit(ctx context.Context, accountID string, t Type, action, description string, meta map[string]string) {
	rec := e.NewRecord(accountID, t, action, description, meta)

	body, err := json.Marshal(rec)
	if err != nil {
		e.logger.Warn("Failed to encode event.", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("Failed to build event request.", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("Failed to emit event.",
			zap.String("event_type", string(t)),
			zap.String("action", action),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()
	// The response body is never consumed; drain it so the connection can be
	// reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn("Event sink returned non-2xx status.",
			zap.Int("status", resp.StatusCode),
			zap.String("event_type", string(t)))
	}
}
