// Package engine is the interaction orchestration core: the probabilistic
// human-like browse loop, the seven discrete action handlers, the saturation
// detector, and the dispatcher that wraps them. Everything here operates on
// the injected browser.Page and reports through the injected events.Sink;
// the engine holds no global state.
package engine

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/accounts"
	"github.com/instaflow-labs/instaflow-cli/internal/browser"
	"github.com/instaflow-labs/instaflow-cli/internal/config"
	"github.com/instaflow-labs/instaflow-cli/internal/events"
	"github.com/instaflow-labs/instaflow-cli/internal/pacing"
)

// Prompter collects a line of operator input. The interactive front end backs
// it with stdin; tests script it.
type Prompter interface {
	Ask(prompt string) (string, error)
}

// silentPrompter answers every question with an empty string, which maps to
// the default decision everywhere a Prompter is consulted.
type silentPrompter struct{}

func (silentPrompter) Ask(string) (string, error) { return "", nil }

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// ValidUsername reports whether value is an acceptable platform handle:
// letters, digits, underscore, or dot, 1-30 characters.
func ValidUsername(value string) bool {
	return usernameRE.MatchString(value)
}

// Deps carries the collaborators an Engine needs. Rng and Prompt may be nil;
// they default to a time-seeded source and a silent prompter.
type Deps struct {
	Sink     events.Sink
	Pacer    pacing.Pacer
	Rng      *rand.Rand
	Logger   *zap.Logger
	Prompt   Prompter
	Platform config.PlatformConfig
	Behavior config.BehaviorConfig
	Lists    config.ListsConfig
}

// Engine executes action handlers against one authenticated session. It is
// single-writer: at most one handler may run at a time.
type Engine struct {
	page   browser.Page
	acct   *accounts.Account
	sink   events.Sink
	pacer  pacing.Pacer
	rng    *rand.Rand
	logger *zap.Logger
	prompt Prompter

	platform config.PlatformConfig
	behavior config.BehaviorConfig
	lists    config.ListsConfig
}

// New wires an Engine for the given page and account.
func New(page browser.Page, acct *accounts.Account, d Deps) *Engine {
	rng := d.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	prompt := d.Prompt
	if prompt == nil {
		prompt = silentPrompter{}
	}
	return &Engine{
		page:     page,
		acct:     acct,
		sink:     d.Sink,
		pacer:    d.Pacer,
		rng:      rng,
		logger:   d.Logger.Named("engine"),
		prompt:   prompt,
		platform: d.Platform,
		behavior: d.Behavior,
		lists:    d.Lists,
	}
}

// BrowseDuration draws a random campaign duration for scroll-feed/explore
// when the operator supplies none: an upper bound uniformly from the
// configured cap range, then the duration uniformly between the floor and
// that bound.
func (e *Engine) BrowseDuration() time.Duration {
	b := e.behavior
	bound := e.pacer.Between(b.BrowseCapMin, b.BrowseCapMax)
	if bound < b.BrowseFloor {
		bound = b.BrowseFloor
	}
	return e.pacer.Between(b.BrowseFloor, bound)
}

// pace blocks for a uniformly random interval given in seconds.
func (e *Engine) pace(ctx context.Context, minSec, maxSec float64) error {
	min := time.Duration(minSec * float64(time.Second))
	max := time.Duration(maxSec * float64(time.Second))
	return e.pacer.Pause(ctx, min, max)
}

// instrument enforces the event contract for one handler invocation: exactly
// one ATTEMPTED, then exactly one terminal SUCCESS or FAILED, whichever branch
// the body takes. Expected failures (resolution misses) surface as the body's
// error and become the FAILED description; they are consumed here so the menu
// loop continues. Context cancellation still propagates.
func (e *Engine) instrument(
	ctx context.Context,
	action, attemptDesc string,
	meta map[string]string,
	body func(ctx context.Context) (string, map[string]string, error),
) error {
	e.sink.Emit(ctx, e.acct.Username, events.Attempted, action, attemptDesc, meta)

	desc, extra, err := body(ctx)
	if err != nil {
		e.logger.Warn("Action did not complete.",
			zap.String("action", action), zap.Error(err))
		e.sink.Emit(ctx, e.acct.Username, events.Failed, action, err.Error(), mergeMeta(meta, extra))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}

	e.logger.Info("Action completed.",
		zap.String("action", action), zap.String("result", desc))
	e.sink.Emit(ctx, e.acct.Username, events.Success, action, desc, mergeMeta(meta, extra))
	return nil
}

func mergeMeta(base, extra map[string]string) map[string]string {
	if len(base) == 0 {
		return extra
	}
	if len(extra) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
