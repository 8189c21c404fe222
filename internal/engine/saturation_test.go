package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSaturated(t *testing.T) {
	saturated := []string{
		`<span>You're all caught up</span>`,
		`<span>You’re all caught up</span>`,
		`<div>YOU'VE SEEN ALL NEW POSTS from the last 3 days</div>`,
		`<p>all caught up, check back later</p>`,
	}
	for _, html := range saturated {
		assert.True(t, IsSaturated(html), "expected saturation in %q", html)
	}

	fresh := []string{
		"",
		`<div>Suggested for you</div>`,
		`<span>Catch up with friends</span>`,
	}
	for _, html := range fresh {
		assert.False(t, IsSaturated(html), "expected no saturation in %q", html)
	}
}

func TestResolveSaturationRefresh(t *testing.T) {
	page := newFakePage()
	eng, _ := newTestEngine(t, page, engineOpts{prompt: &scriptedPrompter{answers: []string{"r"}}})

	decision, err := eng.resolveSaturation(context.Background(), "https://www.instagram.com/")
	require.NoError(t, err)
	assert.Equal(t, DecisionRefresh, decision)
	require.Len(t, page.navigated, 1, "refresh reloads the current surface")
	assert.Equal(t, "https://www.instagram.com/", page.navigated[0])
}

func TestResolveSaturationSwitch(t *testing.T) {
	page := newFakePage()
	eng, _ := newTestEngine(t, page, engineOpts{prompt: &scriptedPrompter{answers: []string{"s"}}})

	decision, err := eng.resolveSaturation(context.Background(), "https://www.instagram.com/")
	require.NoError(t, err)
	assert.Equal(t, DecisionSwitch, decision)
	assert.Empty(t, page.navigated)
}

func TestResolveSaturationDefaultsToContinue(t *testing.T) {
	for _, answer := range []string{"", "x", "  Refresh please  "} {
		page := newFakePage()
		eng, _ := newTestEngine(t, page, engineOpts{prompt: &scriptedPrompter{answers: []string{answer}}})

		decision, err := eng.resolveSaturation(context.Background(), "https://www.instagram.com/")
		require.NoError(t, err)
		assert.Equal(t, DecisionContinue, decision, "answer %q should continue", answer)
	}
}
