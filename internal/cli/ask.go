package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"journal-ai/internal/app"
)

func newAskCmd() *cobra.Command {
	var owner int64
	cmd := &cobra.Command{
		Use:   "ask --owner N QUESTION",
		Short: "Answer a question about the journal",
		Example: `  journalctl ask --owner 1 "最近一周我的心情怎么样？"
  journalctl ask --owner 1 how did I sleep this month`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOwner(owner); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				answer, err := a.Service.Ask(ctx, owner, query)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), answer)
			})
		},
	}
	addOwnerFlag(cmd, &owner)
	return cmd
}
