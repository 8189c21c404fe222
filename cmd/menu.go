package cmd

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/engine"
)

// newMenuCmd creates the interactive `menu` command, the main entry point for
// operator-driven sessions.
func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Runs the interactive action menu against one authenticated session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), runMenu)
		},
	}
}

// runMenu loops on operator choices until quit, EOF, or cancellation. A
// failed action is reported and the loop continues; only the session dying
// ends it.
func runMenu(ctx context.Context, rt *runtime) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		choice, err := rt.prompt.Ask(engine.MenuText + "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		choice = strings.TrimSpace(choice)
		switch {
		case choice == "":
			continue
		case choice == "0" || strings.EqualFold(choice, "q"):
			rt.logger.Info("Leaving the menu.")
			return nil
		}

		if err := rt.disp.Dispatch(ctx, choice); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			rt.logger.Warn("Menu action failed.", zap.String("choice", choice), zap.Error(err))
		}
	}
}
