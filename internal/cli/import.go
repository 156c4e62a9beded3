package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"journal-ai/internal/app"
)

func newImportCmd() *cobra.Command {
	var (
		owner int64
		dir   string
	)
	cmd := &cobra.Command{
		Use:   "import --owner N [--dir PATH]",
		Short: "Import daily notes from a vault directory",
		Long: `Import walks the directory for markdown notes named after their date
(2025-03-10.md, 2025-03-10 周一.md) and stores one record per note.
Notes already imported for the same day are skipped. Without --dir the
VAULT_PATH setting is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validOwner(owner); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				root := dir
				if root == "" {
					root = a.Config.VaultPath
				}
				if root == "" {
					return errors.New("no vault directory: pass --dir or set VAULT_PATH")
				}
				stats, err := a.Importer.ImportDir(ctx, owner, root)
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
	cmd.Flags().StringVar(&dir, "dir", "", "vault directory (default VAULT_PATH)")
	return cmd
}
