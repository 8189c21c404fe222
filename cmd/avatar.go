package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/instaflow-labs/instaflow-cli/internal/accounts"
	"github.com/instaflow-labs/instaflow-cli/internal/avatar"
	"github.com/instaflow-labs/instaflow-cli/internal/observability"
)

// newAvatarCmd creates the `avatar` command. It runs over plain HTTP with the
// stored cookies and never launches a browser.
func newAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <username>",
		Short: "Downloads a user's profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			store := accounts.NewStore(cfg.Accounts.Path)
			acct, ok, err := store.FindLoggedIn(cfg.Accounts.Platform)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no logged-in %s account in %s; run the login flow first",
					cfg.Accounts.Platform, cfg.Accounts.Path)
			}

			fetcher := avatar.NewFetcher(cfg.Platform.BaseURL, logger)
			path, err := fetcher.Save(cmd.Context(), acct, args[0], cfg.Avatar.OutputDir)
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}
}
