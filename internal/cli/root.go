// Package cli implements the journalctl commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"journal-ai/internal/app"
	"journal-ai/internal/config"
	"journal-ai/internal/contextutil"
	"journal-ai/internal/logging"
)

// NewRootCmd builds the journalctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "journalctl",
		Short:         "Ask questions about your journal",
		Long:          "journalctl imports daily notes, re-embeds records and answers questions about them with adaptive retrieval.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAskCmd(), newImportCmd(), newReindexCmd(), newMCPCmd())
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// withApp loads configuration, installs the logger on stderr and runs fn with
// the wired application. Stdout is left for command output.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, closer, err := logging.NewWithConsole(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close()
	}()
	slog.SetDefault(logger)

	ctx := contextutil.WithLogger(cmd.Context(), logger)
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.WarnContext(ctx, "failed to close backends", "error", err)
		}
	}()
	return fn(ctx, a)
}

func addOwnerFlag(cmd *cobra.Command, owner *int64) {
	cmd.Flags().Int64Var(owner, "owner", 0, "journal owner id")
	_ = cmd.MarkFlagRequired("owner")
}

func validOwner(owner int64) error {
	if owner <= 0 {
		return fmt.Errorf("--owner must be a positive id, got %d", owner)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
