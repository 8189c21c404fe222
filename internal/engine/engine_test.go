package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instaflow-labs/instaflow-cli/internal/events"
)

func TestValidUsername(t *testing.T) {
	valid := []string{"alice", "a", "a.b_c", "A9", "under_score", "dotted.name",
		"exactly.thirty.characters.long"}
	for _, u := range valid {
		assert.True(t, ValidUsername(u), "expected %q to be valid", u)
	}

	invalid := []string{"", "bad user", "weird!", "héllo", "slash/name",
		"this.username.is.way.too.long.to.accept"}
	for _, u := range invalid {
		assert.False(t, ValidUsername(u), "expected %q to be invalid", u)
	}
}

func TestBrowseDurationRespectsFloor(t *testing.T) {
	eng, _ := newTestEngine(t, newFakePage(), engineOpts{})

	// The instant pacer's Between returns min, so the draw lands on the floor.
	assert.Equal(t, time.Millisecond, eng.BrowseDuration())
}

func TestInstrumentEmitsAttemptedThenSuccess(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	err := eng.instrument(context.Background(), "test_action", "Trying.",
		map[string]string{"target": "bob"},
		func(context.Context) (string, map[string]string, error) {
			return "Done.", map[string]string{"extra": "1"}, nil
		})
	require.NoError(t, err)

	require.Len(t, sink.events, 2)
	assert.Equal(t, events.Attempted, sink.events[0].t)
	assert.Equal(t, "Trying.", sink.events[0].desc)
	assert.Equal(t, "bob", sink.events[0].meta["target"])

	assert.Equal(t, events.Success, sink.events[1].t)
	assert.Equal(t, "Done.", sink.events[1].desc)
	assert.Equal(t, "bob", sink.events[1].meta["target"], "base meta carries into the terminal event")
	assert.Equal(t, "1", sink.events[1].meta["extra"])
}

func TestInstrumentConsumesExpectedFailures(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	err := eng.instrument(context.Background(), "test_action", "Trying.", nil,
		func(context.Context) (string, map[string]string, error) {
			return "", nil, errors.New("No likeable post found")
		})
	require.NoError(t, err, "expected failures are reported through events, not errors")

	require.Len(t, sink.events, 2)
	assert.Equal(t, events.Attempted, sink.events[0].t)
	assert.Equal(t, events.Failed, sink.events[1].t)
	assert.Equal(t, "No likeable post found", sink.events[1].desc)
}

func TestInstrumentPropagatesCancellation(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	err := eng.instrument(context.Background(), "test_action", "Trying.", nil,
		func(context.Context) (string, map[string]string, error) {
			return "", nil, context.Canceled
		})
	require.ErrorIs(t, err, context.Canceled)

	// The terminal event is still emitted exactly once.
	require.Len(t, sink.events, 2)
	assert.Equal(t, events.Failed, sink.events[1].t)
}

func TestMergeMeta(t *testing.T) {
	assert.Nil(t, mergeMeta(nil, nil))
	assert.Equal(t, map[string]string{"a": "1"}, mergeMeta(map[string]string{"a": "1"}, nil))
	assert.Equal(t, map[string]string{"b": "2"}, mergeMeta(nil, map[string]string{"b": "2"}))
	assert.Equal(t,
		map[string]string{"a": "1", "b": "2"},
		mergeMeta(map[string]string{"a": "1", "b": "9"}, map[string]string{"a": "1", "b": "2"}),
		"extra overrides base on collisions")
}
