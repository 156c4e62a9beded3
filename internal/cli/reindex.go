package cli

import (
	"context"

	"github.com/spf13/cobra"

	"journal-ai/internal/app"
)

func newReindexCmd() *cobra.Command {
	var owner int64
	cmd := &cobra.Command{
		Use:   "reindex --owner N",
		Short: "Re-embed every record of an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validOwner(owner); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				stats, err := a.Service.Reindex(ctx, owner)
				if stats != nil {
					if perr := printJSON(cmd.OutOrStdout(), stats); perr != nil && err == nil {
						err = perr
					}
				}
				return err
			})
		},
	}
	addOwnerFlag(cmd, &owner)
	return cmd
}
