package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/instaflow-labs/instaflow-cli/internal/observability"
)

// The action subcommands run exactly one handler against a fresh session and
// tear it down. They exist for scripting; interactive use goes through `menu`.

func newScrollFeedCmd() *cobra.Command {
	var duration string
	cmd := &cobra.Command{
		Use:   "scroll-feed",
		Short: "Scrolls the home feed at a human pace",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := parseBrowseDuration(duration, observability.GetLogger())
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.ScrollFeed(ctx, d)
			})
		},
	}
	cmd.Flags().StringVar(&duration, "duration", "",
		"how long to browse, e.g. 90s (minimum 5s; blank or invalid draws a random duration)")
	return cmd
}

func newExploreCmd() *cobra.Command {
	var duration string
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browses the explore and reels surfaces, hopping between them",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := parseBrowseDuration(duration, observability.GetLogger())
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.Explore(ctx, d)
			})
		},
	}
	cmd.Flags().StringVar(&duration, "duration", "",
		"how long to browse, e.g. 90s (minimum 5s; blank or invalid draws a random duration)")
	return cmd
}

func newLikeCmd() *cobra.Command {
	var link string
	cmd := &cobra.Command{
		Use:   "like",
		Short: "Likes a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.LikePost(ctx, link)
			})
		},
	}
	cmd.Flags().StringVar(&link, "link", "", "post URL (blank likes the first likeable post on the home page)")
	return cmd
}

func newCommentCmd() *cobra.Command {
	var link, text string
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Comments on a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.CommentPost(ctx, link, text)
			})
		},
	}
	cmd.Flags().StringVar(&link, "link", "", "post URL (blank targets the current page)")
	cmd.Flags().StringVar(&text, "text", "", "comment text (blank draws from the safe-comments list)")
	return cmd
}

func newFollowCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Follows a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.Follow(ctx, user)
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "username to follow")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newUnfollowCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "unfollow",
		Short: "Unfollows a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.Unfollow(ctx, user)
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "username to unfollow")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newDMCmd() *cobra.Command {
	var user, message string
	cmd := &cobra.Command{
		Use:   "dm",
		Short: "Sends a direct message",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				return rt.eng.DirectMessage(ctx, user, message)
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "recipient (blank draws from the DM-targets list)")
	cmd.Flags().StringVar(&message, "message", "", "message text (blank draws from the DM-messages list)")
	return cmd
}
