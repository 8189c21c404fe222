package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Decision is what the operator chose when a browse surface ran out of fresh
// content.
type Decision int

const (
	// DecisionContinue keeps scrolling the current surface.
	DecisionContinue Decision = iota
	// DecisionRefresh reloads the current surface in place.
	DecisionRefresh
	// DecisionSwitch ends the campaign early.
	DecisionSwitch
)

// saturationPhrases are the banner texts the platform shows when the feed has
// no more fresh content. Both apostrophe glyphs appear in the wild, plus a
// generic substring as the final net.
var saturationPhrases = []string{
	"you're all caught up",
	"you’re all caught up",
	"you've seen all new posts",
	"caught up",
}

// IsSaturated reports whether the rendered page announces that the feed has
// been exhausted. Matching is case-insensitive.
func IsSaturated(html string) bool {
	lower := strings.ToLower(html)
	for _, phrase := range saturationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// resolveSaturation asks the operator how to proceed with an exhausted
// surface. Prompt failures and unrecognized answers both fall back to
// continuing, so a scripted run is never blocked on input.
func (e *Engine) resolveSaturation(ctx context.Context, currentURL string) (Decision, error) {
	answer, err := e.prompt.Ask("Feed is caught up. [r]efresh, [s]witch away, or Enter to continue: ")
	if err != nil {
		e.logger.Debug("Saturation prompt unavailable, continuing.", zap.Error(err))
		answer = ""
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "r", "refresh":
		e.logger.Info("Refreshing exhausted surface.", zap.String("url", currentURL))
		if err := e.page.Navigate(ctx, currentURL); err != nil {
			return DecisionContinue, err
		}
		if err := e.pace(ctx, 2.0, 3.0); err != nil {
			return DecisionContinue, err
		}
		return DecisionRefresh, nil
	case "s", "switch":
		return DecisionSwitch, nil
	default:
		return DecisionContinue, nil
	}
}
