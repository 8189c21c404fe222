package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/instaflow-labs/instaflow-cli/internal/lists"
	"github.com/instaflow-labs/instaflow-cli/internal/resolve"
)

// Expected resolution failures. Their text becomes the FAILED event
// description verbatim.
var (
	errNoLikeButton      = errors.New("No likeable post found")
	errNoCommentBox      = errors.New("No comment box found")
	errNoFollowButton    = errors.New("Follow button not found (already following or page unavailable)")
	errNoFollowingButton = errors.New("Following button not found (not following or page unavailable)")
	errNoDMSearchBox     = errors.New("Recipient search box not found")
	errNoDMMessageBox    = errors.New("Message box not found")
	errInvalidUsername   = errors.New("Invalid username format")
	errNoCommentText     = errors.New("No comment text available")
	errNoDMTarget        = errors.New("No DM target available")
	errNoDMMessage       = errors.New("No DM message available")
)

// ScrollFeed browses the home feed for the given duration. A non-positive
// duration draws a random one. The campaign itself succeeds whether it ran to
// completion or the operator switched away early.
func (e *Engine) ScrollFeed(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = e.BrowseDuration()
	}
	meta := map[string]string{"duration": d.String()}
	return e.instrument(ctx, "scroll_feed", "Scrolling the home feed.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			reason, err := e.browseCampaign(ctx, d, []string{e.platform.BaseURL})
			if err != nil {
				return "", nil, err
			}
			return "Finished scrolling the feed (" + reason + ").", nil, nil
		})
}

// Explore browses the explore and reels surfaces for the given duration,
// hopping between them probabilistically.
func (e *Engine) Explore(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = e.BrowseDuration()
	}
	meta := map[string]string{"duration": d.String()}
	return e.instrument(ctx, "explore", "Browsing explore and reels.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			surfaces := []string{e.platform.ExploreURL, e.platform.ReelsURL}
			reason, err := e.browseCampaign(ctx, d, surfaces)
			if err != nil {
				return "", nil, err
			}
			return "Finished exploring (" + reason + ").", nil, nil
		})
}

// openTargetPost brings the post to act on into view: the given link when the
// operator supplied one, otherwise a random post from the base feed. An empty
// feed is tolerated; the affordance resolution downstream reports the miss.
func (e *Engine) openTargetPost(ctx context.Context, link string) error {
	if link != "" {
		if err := e.page.Navigate(ctx, link); err != nil {
			return err
		}
		return e.pace(ctx, 2.0, 3.5)
	}
	if err := e.page.Navigate(ctx, e.platform.BaseURL); err != nil {
		return err
	}
	if err := e.pace(ctx, 2.0, 3.5); err != nil {
		return err
	}
	_, err := e.openRandomPost(ctx)
	return err
}

// LikePost likes the post at link, or a random post from the base feed when
// link is empty.
func (e *Engine) LikePost(ctx context.Context, link string) error {
	var meta map[string]string
	if link != "" {
		meta = map[string]string{"link": link}
	}
	return e.instrument(ctx, "like_post", "Liking a post.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			if err := e.openTargetPost(ctx, link); err != nil {
				return "", nil, err
			}
			query, ok := resolve.First(ctx, e.page, likeButtons...)
			if !ok {
				return "", nil, errNoLikeButton
			}
			if err := e.page.Click(ctx, query); err != nil {
				return "", nil, fmt.Errorf("clicking like button: %w", err)
			}
			if err := e.pace(ctx, 0.4, 0.9); err != nil {
				return "", nil, err
			}
			return "Post liked.", nil, nil
		})
}

// CommentPost comments text on the post at link. Empty link targets a random
// post from the base feed; empty text draws from the safe-comments list.
func (e *Engine) CommentPost(ctx context.Context, link, text string) error {
	var meta map[string]string
	if link != "" {
		meta = map[string]string{"link": link}
	}
	return e.instrument(ctx, "comment_post", "Commenting on a post.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			if text == "" {
				text = lists.Pick(e.rng, lists.Load(e.lists.SafeComments))
			}
			if text == "" {
				return "", nil, errNoCommentText
			}
			if err := e.openTargetPost(ctx, link); err != nil {
				return "", nil, err
			}
			if query, ok := resolve.First(ctx, e.page, commentButtons...); ok {
				if err := e.page.Click(ctx, query); err == nil {
					if err := e.pace(ctx, 0.6, 1.2); err != nil {
						return "", nil, err
					}
				}
			}
			if err := e.submitComment(ctx, text); err != nil {
				return "", nil, err
			}
			return "Comment posted.", map[string]string{"comment": text}, nil
		})
}

// Follow follows the given user from their profile page.
func (e *Engine) Follow(ctx context.Context, username string) error {
	meta := map[string]string{"target": username}
	return e.instrument(ctx, "follow_user", "Following a user.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			if !ValidUsername(username) {
				return "", nil, errInvalidUsername
			}
			if err := e.page.Navigate(ctx, e.platform.BaseURL+username+"/"); err != nil {
				return "", nil, err
			}
			if err := e.pace(ctx, 2.0, 3.5); err != nil {
				return "", nil, err
			}
			query, ok := resolve.First(ctx, e.page, followButtons...)
			if !ok {
				return "", nil, errNoFollowButton
			}
			if err := e.page.Click(ctx, query); err != nil {
				return "", nil, fmt.Errorf("clicking follow button: %w", err)
			}
			return "Followed user.", nil, nil
		})
}

// Unfollow unfollows the given user, confirming through the dialog the
// platform raises.
func (e *Engine) Unfollow(ctx context.Context, username string) error {
	meta := map[string]string{"target": username}
	return e.instrument(ctx, "unfollow_user", "Unfollowing a user.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			if !ValidUsername(username) {
				return "", nil, errInvalidUsername
			}
			if err := e.page.Navigate(ctx, e.platform.BaseURL+username+"/"); err != nil {
				return "", nil, err
			}
			if err := e.pace(ctx, 2.0, 3.5); err != nil {
				return "", nil, err
			}
			query, ok := resolve.First(ctx, e.page, followingButtons...)
			if !ok {
				return "", nil, errNoFollowingButton
			}
			if err := e.page.Click(ctx, query); err != nil {
				return "", nil, fmt.Errorf("clicking following button: %w", err)
			}
			if err := e.pace(ctx, 0.8, 1.5); err != nil {
				return "", nil, err
			}
			// Some UI variants unfollow without raising a confirmation
			// dialog, so its absence is not a failure.
			if confirm, ok := resolve.First(ctx, e.page, unfollowConfirms...); ok {
				if err := e.page.Click(ctx, confirm); err != nil {
					return "", nil, fmt.Errorf("confirming unfollow: %w", err)
				}
			}
			return "Unfollowed user.", nil, nil
		})
}

// DirectMessage sends message to target through the compose dialog. Empty
// target and message draw from their curated lists.
func (e *Engine) DirectMessage(ctx context.Context, target, message string) error {
	if target == "" {
		target = lists.Pick(e.rng, lists.Load(e.lists.DMTargets))
	}
	if message == "" {
		message = lists.Pick(e.rng, lists.Load(e.lists.DMMessages))
	}
	meta := map[string]string{"target": target}
	return e.instrument(ctx, "direct_message", "Sending a direct message.", meta,
		func(ctx context.Context) (string, map[string]string, error) {
			if target == "" {
				return "", nil, errNoDMTarget
			}
			if !ValidUsername(target) {
				return "", nil, errInvalidUsername
			}
			if message == "" {
				return "", nil, errNoDMMessage
			}

			if err := e.page.Navigate(ctx, e.platform.DMComposeURL); err != nil {
				return "", nil, err
			}
			if err := e.pace(ctx, 2.0, 3.5); err != nil {
				return "", nil, err
			}

			search, ok := resolve.First(ctx, e.page, dmSearchBoxes...)
			if !ok {
				return "", nil, errNoDMSearchBox
			}
			if err := e.page.Click(ctx, search); err != nil {
				return "", nil, fmt.Errorf("focusing recipient search: %w", err)
			}
			if err := e.page.SendKeys(ctx, search, target); err != nil {
				return "", nil, fmt.Errorf("typing recipient: %w", err)
			}
			if err := e.pace(ctx, 1.0, 2.0); err != nil {
				return "", nil, err
			}

			// The suggestion list and the Next step only appear in some
			// compose-dialog variants; skip whichever is absent.
			if result, ok := resolve.First(ctx, e.page, dmFirstResults...); ok {
				if err := e.page.Click(ctx, result); err != nil {
					return "", nil, fmt.Errorf("selecting recipient: %w", err)
				}
				if err := e.pace(ctx, 0.6, 1.2); err != nil {
					return "", nil, err
				}
			}
			if next, ok := resolve.First(ctx, e.page, dmNextButtons...); ok {
				if err := e.page.Click(ctx, next); err != nil {
					return "", nil, fmt.Errorf("opening thread: %w", err)
				}
				if err := e.pace(ctx, 1.5, 2.5); err != nil {
					return "", nil, err
				}
			}

			box, ok := resolve.First(ctx, e.page, dmMessageBoxes...)
			if !ok {
				return "", nil, errNoDMMessageBox
			}
			if err := e.page.Click(ctx, box); err != nil {
				return "", nil, fmt.Errorf("focusing message box: %w", err)
			}
			if err := e.page.SendKeys(ctx, box, message); err != nil {
				return "", nil, fmt.Errorf("typing message: %w", err)
			}
			if err := e.pace(ctx, 1.0, 2.0); err != nil {
				return "", nil, err
			}
			if err := e.page.Submit(ctx, box); err != nil {
				return "", nil, fmt.Errorf("sending message: %w", err)
			}
			return "Direct message sent.", map[string]string{"message": message}, nil
		})
}
