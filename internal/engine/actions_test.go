package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instaflow-labs/instaflow-cli/internal/config"
	"github.com/instaflow-labs/instaflow-cli/internal/events"
)

// Compiled queries the action tests script against.
const (
	likeQuery          = `//section//*[name()='svg' and @aria-label='Like']`
	commentBoxQuery    = `//textarea[contains(@aria-label,"Add a comment")]`
	followQuery        = `//button[normalize-space()="Follow"]`
	followingQuery     = `//button[normalize-space()="Following"]`
	unfollowQuery      = `//div[@role='dialog']//*[normalize-space()='Unfollow']`
	dmSearchQuery      = `//input[@name="queryBox"]`
	dmFirstResultQuery = `(//div[@role='dialog']//div[@role='button'][.//img])[1]`
	dmNextQuery        = `//div[@role='dialog']//div[@role='button' and normalize-space()='Next']`
	dmMessageQuery     = `//textarea[contains(@placeholder,"Message")]`
)

// requireEventTrail asserts the uniform contract: exactly one ATTEMPTED and
// exactly one terminal event, in that order, for the given action.
func requireEventTrail(t *testing.T, sink *recorderSink, action string, terminal events.Type) recordedEvent {
	t.Helper()
	require.Len(t, sink.events, 2, "exactly one ATTEMPTED and one terminal event")
	assert.Equal(t, events.Attempted, sink.events[0].t)
	assert.Equal(t, action, sink.events[0].action)
	assert.Equal(t, terminal, sink.events[1].t)
	assert.Equal(t, action, sink.events[1].action)
	assert.Equal(t, "alice", sink.events[1].account)
	return sink.events[1]
}

func TestLikePostFromBaseFeed(t *testing.T) {
	page := newFakePage()
	page.counts[postLinksExpr] = 3
	page.counts[likeQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.LikePost(context.Background(), ""))

	terminal := requireEventTrail(t, sink, "like_post", events.Success)
	assert.Equal(t, "Post liked.", terminal.desc)

	// No link falls back to a random post from the base feed.
	require.Len(t, page.navigated, 1)
	assert.Equal(t, "https://www.instagram.com/", page.navigated[0])
	require.Len(t, page.clicked, 2)
	assert.True(t, strings.HasPrefix(page.clicked[0], "(//a[contains(@href,"),
		"a feed post is opened before the like control is resolved")
	assert.Equal(t, likeQuery, page.clicked[1])
}

func TestLikePostToleratesEmptyFeed(t *testing.T) {
	page := newFakePage()
	page.counts[likeQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.LikePost(context.Background(), ""))

	terminal := requireEventTrail(t, sink, "like_post", events.Success)
	assert.Equal(t, "Post liked.", terminal.desc)
	assert.Equal(t, []string{likeQuery}, page.clicked,
		"a feed without post links still resolves the like control directly")
}

func TestLikePostNavigatesToLink(t *testing.T) {
	page := newFakePage()
	page.counts[likeQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	link := "https://www.instagram.com/p/abc123/"
	require.NoError(t, eng.LikePost(context.Background(), link))

	terminal := requireEventTrail(t, sink, "like_post", events.Success)
	assert.Equal(t, link, terminal.meta["link"])
	require.Len(t, page.navigated, 1)
	assert.Equal(t, link, page.navigated[0])
}

func TestLikePostReportsMissingButton(t *testing.T) {
	page := newFakePage()
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.LikePost(context.Background(), ""))

	terminal := requireEventTrail(t, sink, "like_post", events.Failed)
	assert.Equal(t, "No likeable post found", terminal.desc)
	require.Len(t, page.navigated, 1, "the base feed is still visited first")
}

func TestCommentPostWithExplicitText(t *testing.T) {
	page := newFakePage()
	page.counts[commentBoxQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.CommentPost(context.Background(), "", "Great shot!"))

	terminal := requireEventTrail(t, sink, "comment_post", events.Success)
	assert.Equal(t, "Comment posted.", terminal.desc)
	assert.Equal(t, "Great shot!", terminal.meta["comment"])
	assert.Equal(t, "Great shot!", page.typed[commentBoxQuery])
	assert.Equal(t, []string{commentBoxQuery}, page.submitted)
	require.Len(t, page.navigated, 1, "no link falls back to the base feed")
	assert.Equal(t, "https://www.instagram.com/", page.navigated[0])
}

func TestCommentPostDrawsFromSafeList(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "comments.txt")
	require.NoError(t, os.WriteFile(listPath, []byte("Love this\n"), 0o644))

	page := newFakePage()
	page.counts[commentBoxQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{
		lists: config.ListsConfig{SafeComments: listPath},
	})

	require.NoError(t, eng.CommentPost(context.Background(), "", ""))

	terminal := requireEventTrail(t, sink, "comment_post", events.Success)
	assert.Equal(t, "Love this", terminal.meta["comment"])
}

func TestCommentPostWithoutAnyText(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	require.NoError(t, eng.CommentPost(context.Background(), "", ""))

	terminal := requireEventTrail(t, sink, "comment_post", events.Failed)
	assert.Equal(t, "No comment text available", terminal.desc)
}

func TestCommentPostReportsMissingBox(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	require.NoError(t, eng.CommentPost(context.Background(), "", "Nice!"))

	terminal := requireEventTrail(t, sink, "comment_post", events.Failed)
	assert.Equal(t, "No comment box found", terminal.desc)
}

func TestFollowSuccess(t *testing.T) {
	page := newFakePage()
	page.counts[followQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.Follow(context.Background(), "bob"))

	terminal := requireEventTrail(t, sink, "follow_user", events.Success)
	assert.Equal(t, "Followed user.", terminal.desc)
	assert.Equal(t, "bob", terminal.meta["target"])
	require.Len(t, page.navigated, 1)
	assert.Equal(t, "https://www.instagram.com/bob/", page.navigated[0])
	assert.Equal(t, []string{followQuery}, page.clicked)
}

func TestFollowRejectsInvalidUsername(t *testing.T) {
	page := newFakePage()
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.Follow(context.Background(), "not a user!"))

	terminal := requireEventTrail(t, sink, "follow_user", events.Failed)
	assert.Equal(t, "Invalid username format", terminal.desc)
	assert.Empty(t, page.navigated, "invalid input never reaches the browser")
}

func TestFollowReportsMissingButton(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	require.NoError(t, eng.Follow(context.Background(), "bob"))

	terminal := requireEventTrail(t, sink, "follow_user", events.Failed)
	assert.Contains(t, terminal.desc, "Follow button not found")
}

func TestUnfollowSuccess(t *testing.T) {
	page := newFakePage()
	page.counts[followingQuery] = 1
	page.counts[unfollowQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.Unfollow(context.Background(), "bob"))

	terminal := requireEventTrail(t, sink, "unfollow_user", events.Success)
	assert.Equal(t, "Unfollowed user.", terminal.desc)
	assert.Equal(t, "bob", terminal.meta["target"])
	assert.Equal(t, []string{followingQuery, unfollowQuery}, page.clicked,
		"the confirmation dialog is clicked after the Following button")
}

func TestUnfollowSucceedsWithoutConfirmationDialog(t *testing.T) {
	page := newFakePage()
	page.counts[followingQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.Unfollow(context.Background(), "bob"))

	// Some UI variants auto-confirm; the absent dialog is not a failure.
	terminal := requireEventTrail(t, sink, "unfollow_user", events.Success)
	assert.Equal(t, "Unfollowed user.", terminal.desc)
	assert.Equal(t, []string{followingQuery}, page.clicked)
}

func TestUnfollowWhenNotFollowing(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	require.NoError(t, eng.Unfollow(context.Background(), "bob"))

	terminal := requireEventTrail(t, sink, "unfollow_user", events.Failed)
	assert.Contains(t, terminal.desc, "Following button not found")
}

func TestDirectMessageSuccess(t *testing.T) {
	page := newFakePage()
	page.counts[dmSearchQuery] = 1
	page.counts[dmFirstResultQuery] = 1
	page.counts[dmNextQuery] = 1
	page.counts[dmMessageQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.DirectMessage(context.Background(), "bob", "hey there"))

	terminal := requireEventTrail(t, sink, "direct_message", events.Success)
	assert.Equal(t, "Direct message sent.", terminal.desc)
	assert.Equal(t, "bob", terminal.meta["target"])
	assert.Equal(t, "hey there", terminal.meta["message"])

	require.Len(t, page.navigated, 1)
	assert.Equal(t, "https://www.instagram.com/direct/new/", page.navigated[0])
	assert.Equal(t, "bob", page.typed[dmSearchQuery])
	assert.Equal(t, "hey there", page.typed[dmMessageQuery])
	assert.Equal(t, []string{dmMessageQuery}, page.submitted)
}

func TestDirectMessageDrawsFromLists(t *testing.T) {
	dir := t.TempDir()
	targets := filepath.Join(dir, "targets.txt")
	messages := filepath.Join(dir, "messages.txt")
	require.NoError(t, os.WriteFile(targets, []byte("carol\n"), 0o644))
	require.NoError(t, os.WriteFile(messages, []byte("hello!\n"), 0o644))

	page := newFakePage()
	page.counts[dmSearchQuery] = 1
	page.counts[dmFirstResultQuery] = 1
	page.counts[dmNextQuery] = 1
	page.counts[dmMessageQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{
		lists: config.ListsConfig{DMTargets: targets, DMMessages: messages},
	})

	require.NoError(t, eng.DirectMessage(context.Background(), "", ""))

	terminal := requireEventTrail(t, sink, "direct_message", events.Success)
	assert.Equal(t, "carol", terminal.meta["target"])
	assert.Equal(t, "hello!", terminal.meta["message"])
}

func TestDirectMessageWithoutTarget(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	require.NoError(t, eng.DirectMessage(context.Background(), "", "hello"))

	terminal := requireEventTrail(t, sink, "direct_message", events.Failed)
	assert.Equal(t, "No DM target available", terminal.desc)
}

func TestDirectMessageSkipsOptionalDialogSteps(t *testing.T) {
	page := newFakePage()
	page.counts[dmSearchQuery] = 1
	page.counts[dmMessageQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.DirectMessage(context.Background(), "bob", "hey"))

	// No suggestion list and no Next step in this dialog variant; the
	// message still goes out.
	terminal := requireEventTrail(t, sink, "direct_message", events.Success)
	assert.Equal(t, "Direct message sent.", terminal.desc)
	assert.Equal(t, "hey", page.typed[dmMessageQuery])
	assert.Equal(t, []string{dmMessageQuery}, page.submitted)
	assert.Equal(t, []string{dmSearchQuery, dmMessageQuery}, page.clicked,
		"only the required controls are touched")
}

func TestDirectMessageReportsMissingMessageBox(t *testing.T) {
	page := newFakePage()
	page.counts[dmSearchQuery] = 1
	eng, sink := newTestEngine(t, page, engineOpts{})

	require.NoError(t, eng.DirectMessage(context.Background(), "bob", "hey"))

	terminal := requireEventTrail(t, sink, "direct_message", events.Failed)
	assert.Equal(t, "Message box not found", terminal.desc)
}

func TestDirectMessageReportsMissingSearchBox(t *testing.T) {
	eng, sink := newTestEngine(t, newFakePage(), engineOpts{})

	require.NoError(t, eng.DirectMessage(context.Background(), "bob", "hey"))

	terminal := requireEventTrail(t, sink, "direct_message", events.Failed)
	assert.Equal(t, "Recipient search box not found", terminal.desc)
}
