package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/accounts"
	"github.com/instaflow-labs/instaflow-cli/internal/browser"
	"github.com/instaflow-labs/instaflow-cli/internal/engine"
	"github.com/instaflow-labs/instaflow-cli/internal/events"
	"github.com/instaflow-labs/instaflow-cli/internal/observability"
	"github.com/instaflow-labs/instaflow-cli/internal/pacing"
	"github.com/instaflow-labs/instaflow-cli/internal/session"
)

// runtime bundles everything a session-backed command needs: the account,
// the live browser session, the engine, and the dispatcher around it.
type runtime struct {
	logger *zap.Logger
	acct   *accounts.Account
	sess   *session.Session
	eng    *engine.Engine
	disp   *engine.Dispatcher
	prompt engine.Prompter
}

// newRuntime loads the account, launches the browser, and establishes an
// authenticated session. It fails rather than returning an unauthenticated
// runtime; every action requires a confirmed login.
func newRuntime(ctx context.Context) (*runtime, error) {
	logger := observability.GetLogger()

	store := accounts.NewStore(cfg.Accounts.Path)
	acct, ok, err := store.FindLoggedIn(cfg.Accounts.Platform)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no logged-in %s account in %s; run the login flow first",
			cfg.Accounts.Platform, cfg.Accounts.Path)
	}
	logger.Info("Using account.", zap.String("username", acct.Username))

	sink := events.NewEmitter(cfg.Events, cfg.Platform.Name, logger)
	pacer := pacing.NewSleeper(nil)
	prompt := newStdioPrompter()

	drv, err := browser.New(ctx, cfg.Browser, logger)
	if err != nil {
		return nil, err
	}

	mgr := session.NewManager(cfg.Platform, cfg.Browser.CloseGraceDelay, sink, pacer, logger)
	sess, err := mgr.Establish(ctx, drv, acct)
	if err != nil {
		_ = sess.Close(ctx)
		return nil, err
	}
	if !sess.Authenticated {
		_ = sess.Close(ctx)
		return nil, fmt.Errorf("stored cookies for %s did not produce a logged-in session", acct.Username)
	}

	eng := engine.New(drv, acct, engine.Deps{
		Sink:     sink,
		Pacer:    pacer,
		Logger:   logger,
		Prompt:   prompt,
		Platform: cfg.Platform,
		Behavior: cfg.Behavior,
		Lists:    cfg.Lists,
	})
	disp := engine.NewDispatcher(eng, sess, sink, pacer, prompt, logger)

	return &runtime{
		logger: logger,
		acct:   acct,
		sess:   sess,
		eng:    eng,
		disp:   disp,
		prompt: prompt,
	}, nil
}

// withRuntime runs fn against a fresh runtime and always tears the session
// down afterwards, even when the command context is already canceled.
func withRuntime(ctx context.Context, fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rt.disp.Shutdown(closeCtx); err != nil {
			rt.logger.Warn("Session teardown failed.", zap.Error(err))
		}
	}()
	return fn(ctx, rt)
}

// parseBrowseDuration interprets the --duration flag for the browse commands.
// Blank, unparseable, or shorter-than-5s values all yield zero, which makes
// the engine draw a random duration instead.
func parseBrowseDuration(raw string, logger *zap.Logger) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 5*time.Second {
		logger.Warn("Ignoring invalid browse duration, drawing a random one.", zap.String("duration", raw))
		return 0
	}
	return d
}
