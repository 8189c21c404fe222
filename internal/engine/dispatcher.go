package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/events"
	"github.com/instaflow-labs/instaflow-cli/internal/pacing"
	"github.com/instaflow-labs/instaflow-cli/internal/session"
)

// ErrNotAuthenticated is returned when a dispatch is attempted against a
// session that never confirmed login.
var ErrNotAuthenticated = fmt.Errorf("session is not authenticated")

// Dispatcher maps operator menu choices onto engine handlers. It isolates
// handler panics so one broken action cannot take down the menu loop, and it
// paces between actions so consecutive choices do not fire back to back.
type Dispatcher struct {
	engine *Engine
	sess   *session.Session
	sink   events.Sink
	pacer  pacing.Pacer
	prompt Prompter
	logger *zap.Logger
}

// NewDispatcher wires a Dispatcher for one established session.
func NewDispatcher(eng *Engine, sess *session.Session, sink events.Sink, pacer pacing.Pacer, prompt Prompter, logger *zap.Logger) *Dispatcher {
	if prompt == nil {
		prompt = silentPrompter{}
	}
	return &Dispatcher{
		engine: eng,
		sess:   sess,
		sink:   sink,
		pacer:  pacer,
		prompt: prompt,
		logger: logger.Named("dispatcher"),
	}
}

// MenuText is the option list shown to the operator.
const MenuText = `
  1) Scroll home feed
  2) Browse explore / reels
  3) Like a post
  4) Comment on a post
  5) Follow a user
  6) Unfollow a user
  7) Send a direct message
  0) Quit
`

// Dispatch runs the handler for one menu key. A panicking handler is
// recovered here: the panic is logged, reported as a FAILED menu_action
// event, and returned as an error, leaving the session usable for the next
// choice.
func (d *Dispatcher) Dispatch(ctx context.Context, key string) (err error) {
	if !d.sess.Authenticated {
		return ErrNotAuthenticated
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Action handler panicked.",
				zap.String("key", key), zap.Any("panic", r))
			d.sink.Emit(ctx, d.sess.Account.Username, events.Failed, "menu_action",
				"Unexpected internal error during action dispatch.",
				map[string]string{"error": fmt.Sprint(r)})
			err = fmt.Errorf("action %s panicked: %v", key, r)
		}
	}()

	switch strings.TrimSpace(key) {
	case "1":
		err = d.engine.ScrollFeed(ctx, 0)
	case "2":
		err = d.engine.Explore(ctx, 0)
	case "3":
		link, _ := d.prompt.Ask("Post link (blank for current page): ")
		err = d.engine.LikePost(ctx, strings.TrimSpace(link))
	case "4":
		link, _ := d.prompt.Ask("Post link (blank for current page): ")
		text, _ := d.prompt.Ask("Comment text (blank for a random safe comment): ")
		err = d.engine.CommentPost(ctx, strings.TrimSpace(link), strings.TrimSpace(text))
	case "5":
		user, _ := d.prompt.Ask("Username to follow: ")
		err = d.engine.Follow(ctx, strings.TrimSpace(user))
	case "6":
		user, _ := d.prompt.Ask("Username to unfollow: ")
		err = d.engine.Unfollow(ctx, strings.TrimSpace(user))
	case "7":
		target, _ := d.prompt.Ask("Recipient (blank for a random target): ")
		message, _ := d.prompt.Ask("Message (blank for a random template): ")
		err = d.engine.DirectMessage(ctx, strings.TrimSpace(target), strings.TrimSpace(message))
	default:
		return fmt.Errorf("unknown menu option %q", key)
	}
	if err != nil {
		return err
	}

	// Breathe between consecutive actions.
	return d.pacer.Pause(ctx, 1500*time.Millisecond, 3*time.Second)
}

// Shutdown tears the session down. Safe to call more than once; the session
// closes exactly once.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.logger.Info("Shutting down.")
	return d.sess.Close(ctx)
}
