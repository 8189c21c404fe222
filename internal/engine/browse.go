package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/lists"
	"github.com/instaflow-labs/instaflow-cli/internal/resolve"
)

// Campaign end reasons reported in the SUCCESS description.
const (
	endCompleted = "completed"
	endSwitched  = "switched away"
)

// browseCampaign runs the human-like interaction loop against the given
// surfaces until the duration elapses or the operator switches away. With
// more than one surface, each iteration may hop to the other one.
//
// Element misses never end a campaign; only context cancellation and
// navigation failures do.
func (e *Engine) browseCampaign(ctx context.Context, total time.Duration, surfaces []string) (string, error) {
	current := 0
	if err := e.page.Navigate(ctx, surfaces[current]); err != nil {
		return "", err
	}
	if err := e.pace(ctx, 2.0, 3.5); err != nil {
		return "", err
	}

	deadline := time.Now().Add(total)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := e.scrollBurst(ctx); err != nil {
			return "", err
		}

		if e.rng.Float64() < e.behavior.OpenPostChance {
			if err := e.engagePost(ctx); err != nil {
				return "", err
			}
		}

		saturated, err := e.pageSaturated(ctx)
		if err != nil {
			return "", err
		}
		if saturated {
			decision, err := e.resolveSaturation(ctx, surfaces[current])
			if err != nil {
				return "", err
			}
			if decision == DecisionSwitch {
				return endSwitched, nil
			}
		}

		if len(surfaces) > 1 && e.rng.Float64() < e.behavior.SwitchURLChance {
			current = (current + 1) % len(surfaces)
			e.logger.Debug("Hopping surface.", zap.String("url", surfaces[current]))
			if err := e.page.Navigate(ctx, surfaces[current]); err != nil {
				return "", err
			}
			if err := e.pace(ctx, 2.0, 3.0); err != nil {
				return "", err
			}
		}
	}
	return endCompleted, nil
}

// scrollBurst performs one burst of 1..n scroll steps, each preceded by a
// small pointer wander so the activity does not look mechanical.
func (e *Engine) scrollBurst(ctx context.Context) error {
	b := e.behavior
	steps := b.ScrollMinSteps
	if b.ScrollMaxSteps > b.ScrollMinSteps {
		steps += e.rng.Intn(b.ScrollMaxSteps - b.ScrollMinSteps + 1)
	}
	for i := 0; i < steps; i++ {
		x := 100 + e.rng.Float64()*700
		y := 100 + e.rng.Float64()*500
		if err := e.page.MoveMouse(ctx, x, y); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		px := b.ScrollMinPx
		if b.ScrollMaxPx > b.ScrollMinPx {
			px += e.rng.Intn(b.ScrollMaxPx - b.ScrollMinPx + 1)
		}
		// Humans scroll back up sometimes.
		if e.rng.Intn(2) == 0 {
			px = -px
		}
		if err := e.page.ScrollBy(ctx, px); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err := e.pace(ctx, 0.8, 1.8); err != nil {
			return err
		}
	}
	return nil
}

// engagePost opens one random visible post and rolls the engagement dice on
// it: an independent like chance and comment chance, then a dwell and close.
func (e *Engine) engagePost(ctx context.Context) error {
	opened, err := e.openRandomPost(ctx)
	if err != nil || !opened {
		return err
	}

	// Dwell on the post before deciding anything about it.
	if err := e.pace(ctx, 1.2, 2.4); err != nil {
		return err
	}

	if e.rng.Float64() < e.behavior.LikeChance {
		if liked := e.likeCurrent(ctx); liked {
			e.logger.Info("Liked a post while browsing.")
		}
	}
	if e.rng.Float64() < e.behavior.CommentOpenChance {
		if err := e.commentWhileBrowsing(ctx); err != nil {
			return err
		}
	}

	if err := e.pace(ctx, 1.0, 2.0); err != nil {
		return err
	}
	return e.closeOverlay(ctx)
}

// openRandomPost picks one of the visible post links uniformly, scrolls it
// into view, and clicks it. A page with no post links is a normal miss.
func (e *Engine) openRandomPost(ctx context.Context) (bool, error) {
	n, err := e.page.Count(ctx, postLinksExpr)
	if err != nil || n == 0 {
		return false, ctx.Err()
	}

	// XPath indices are 1-based.
	query := fmt.Sprintf("(%s)[%d]", postLinksExpr, e.rng.Intn(n)+1)
	if err := e.page.ScrollIntoView(ctx, query); err != nil {
		return false, ctx.Err()
	}
	if err := e.pace(ctx, 0.4, 0.9); err != nil {
		return false, err
	}
	if err := e.page.Click(ctx, query); err != nil {
		return false, ctx.Err()
	}
	if err := e.pace(ctx, 1.8, 3.2); err != nil {
		return false, err
	}
	e.logger.Debug("Opened a post.", zap.String("query", query))
	return true, nil
}

// likeCurrent likes whatever post is currently presented, if a like control
// can be resolved.
func (e *Engine) likeCurrent(ctx context.Context) bool {
	query, ok := resolve.First(ctx, e.page, likeButtons...)
	if !ok {
		return false
	}
	if err := e.page.Click(ctx, query); err != nil {
		e.logger.Debug("Like click failed.", zap.Error(err))
		return false
	}
	return true
}

// commentWhileBrowsing opens the comment box on the current post and, with a
// further low-probability roll, submits a comment from the safe list. An
// empty or missing list degrades to just opening the box.
func (e *Engine) commentWhileBrowsing(ctx context.Context) error {
	if query, ok := resolve.First(ctx, e.page, commentButtons...); ok {
		if err := e.page.Click(ctx, query); err != nil {
			return ctx.Err()
		}
	}
	if err := e.pace(ctx, 0.6, 1.2); err != nil {
		return err
	}

	if e.rng.Float64() >= e.behavior.AutoCommentChance {
		return nil
	}
	comment := lists.Pick(e.rng, lists.Load(e.lists.SafeComments))
	if comment == "" {
		return nil
	}
	if err := e.submitComment(ctx, comment); err != nil {
		e.logger.Debug("Auto-comment failed.", zap.Error(err))
		return ctx.Err()
	}
	e.logger.Info("Posted a comment while browsing.", zap.String("comment", comment))
	return nil
}

// submitComment types text into the comment box of the current post and sends
// it. It is shared by the browse loop and the comment action handler.
func (e *Engine) submitComment(ctx context.Context, text string) error {
	query, ok := resolve.First(ctx, e.page, commentBoxes...)
	if !ok {
		return errNoCommentBox
	}
	if err := e.page.Click(ctx, query); err != nil {
		return fmt.Errorf("focusing comment box: %w", err)
	}
	if err := e.page.SendKeys(ctx, query, text); err != nil {
		return fmt.Errorf("typing comment: %w", err)
	}
	if err := e.pace(ctx, 1.0, 2.0); err != nil {
		return err
	}
	if err := e.page.Submit(ctx, query); err != nil {
		return fmt.Errorf("submitting comment: %w", err)
	}
	return nil
}

// closeOverlay dismisses the post overlay, preferring the close control and
// falling back to Escape.
func (e *Engine) closeOverlay(ctx context.Context) error {
	if query, ok := resolve.First(ctx, e.page, closeButtons...); ok {
		if err := e.page.Click(ctx, query); err == nil {
			return nil
		}
	}
	if err := e.page.PressEscape(ctx); err != nil {
		return ctx.Err()
	}
	return nil
}

// pageSaturated reads the rendered page and checks it for the caught-up
// banner. Read failures count as not saturated unless the context is done.
func (e *Engine) pageSaturated(ctx context.Context) (bool, error) {
	html, err := e.page.Source(ctx)
	if err != nil {
		return false, ctx.Err()
	}
	return IsSaturated(html), nil
}
