package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/config"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import the full database image",
	}
	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())
	return cmd
}

func backupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the database image to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			image, err := store.ExportImage(ctx)
			if err != nil {
				return friendlyError(err)
			}

			path := config.ExpandPath(args[0])
			if err := os.WriteFile(path, image, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Backup written to %s (%d bytes)", path, len(image))))
			return nil
		},
	}
}

func backupImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the database with an exported image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("import replaces all current data; re-run with --yes to confirm")
			}

			path := config.ExpandPath(args[0])
			image, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ImportImage(ctx, image); err != nil {
				return friendlyError(err)
			}

			st := store.Status(ctx)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Backup restored: %d movements, %d debts", st.Movements, st.Debts)))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "confirm replacing the current database")
	return cmd
}
