// Package session establishes and validates an authenticated platform
// session from stored cookies. No action handler may run against a session
// that did not report authenticated.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/accounts"
	"github.com/instaflow-labs/instaflow-cli/internal/browser"
	"github.com/instaflow-labs/instaflow-cli/internal/config"
	"github.com/instaflow-labs/instaflow-cli/internal/events"
	"github.com/instaflow-labs/instaflow-cli/internal/pacing"
	"github.com/instaflow-labs/instaflow-cli/internal/resolve"
)

// loginMarkers are the affordances that only render for a logged-in user.
// Markup is unstable, so several independent signals are tried in order.
var loginMarkers = []resolve.Strategy{
	resolve.ByXPath{Expr: `//*[name()='svg' and @aria-label='Home']`},
	resolve.ByAttr{Element: "a", Attr: "href", Value: "/direct/inbox/", Contains: true},
	resolve.ByAttr{Element: "img", Attr: "alt", Value: "profile picture", Contains: true},
}

// Session wraps a single-writer browser handle for one run. Authenticated is
// computed once during Establish and never changes afterwards.
type Session struct {
	ID            string
	Account       *accounts.Account
	Page          browser.Page
	Authenticated bool

	logger     *zap.Logger
	graceDelay time.Duration

	closeOnce sync.Once
}

// Manager drives session establishment against the configured platform.
type Manager struct {
	platform config.PlatformConfig
	grace    time.Duration
	sink     events.Sink
	pacer    pacing.Pacer
	logger   *zap.Logger
}

// NewManager wires a Manager. The sink, pacer, and logger are injected; the
// manager owns none of them.
func NewManager(platform config.PlatformConfig, grace time.Duration, sink events.Sink, pacer pacing.Pacer, logger *zap.Logger) *Manager {
	return &Manager{
		platform: platform,
		grace:    grace,
		sink:     sink,
		pacer:    pacer,
		logger:   logger.Named("session"),
	}
}

// Establish navigates to the platform, injects the account's stored cookies,
// and checks for a login-confirmation signal. It always returns a Session;
// callers branch on Session.Authenticated. Exactly one LOGIN_SUCCESS or
// LOGIN_FAILED event is emitted per call.
//
// An account with no cookies proceeds straight to the confirmation check,
// which will fail, so the unauthenticated path is uniform.
func (m *Manager) Establish(ctx context.Context, page browser.Page, acct *accounts.Account) (*Session, error) {
	sess := &Session{
		ID:         uuid.New().String(),
		Account:    acct,
		Page:       page,
		graceDelay: m.grace,
	}
	sess.logger = m.logger.With(
		zap.String("session_id", sess.ID),
		zap.String("username", acct.Username),
	)

	sess.logger.Info("Starting browser session.")
	if err := page.Navigate(ctx, m.platform.BaseURL); err != nil {
		return sess, err
	}
	if err := m.pacer.Pause(ctx, 2*time.Second, 3500*time.Millisecond); err != nil {
		return sess, err
	}

	if len(acct.Cookies) > 0 {
		sess.logger.Info("Injecting stored cookies.", zap.Int("count", len(acct.Cookies)))
		cookies := make([]browser.Cookie, 0, len(acct.Cookies))
		for _, c := range acct.Cookies {
			cookies = append(cookies, browser.Cookie{Name: c.Name, Value: c.Value})
		}
		if err := page.SetCookies(ctx, m.platform.CookieDomain, cookies); err != nil {
			// Best-effort: fall through to the confirmation check, which
			// reports the failure uniformly.
			sess.logger.Warn("Cookie injection failed.", zap.Error(err))
		}
		if err := page.Navigate(ctx, m.platform.BaseURL); err != nil {
			return sess, err
		}
		if err := m.pacer.Pause(ctx, 2*time.Second, 3500*time.Millisecond); err != nil {
			return sess, err
		}
	}

	if _, ok := resolve.First(ctx, page, loginMarkers...); !ok {
		sess.logger.Error("No logged-in session detected. Run the login flow first.")
		m.sink.Emit(ctx, acct.Username, events.LoginFailed, "session_check",
			"Login not detected via cookies.", nil)
		return sess, nil
	}

	sess.Authenticated = true
	sess.logger.Info("Session confirmed.")
	m.sink.Emit(ctx, acct.Username, events.LoginSuccess, "session_check",
		"Session confirmed via cookies.", nil)
	return sess, nil
}

// Close tears down the browser handle after a short grace delay. It is
// idempotent: concurrent and repeated calls close exactly once.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Info("Closing browser session.")
		if s.graceDelay > 0 {
			timer := time.NewTimer(s.graceDelay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
		err = s.Page.Close()
	})
	return err
}
