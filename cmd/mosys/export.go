package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/config"
	"github.com/mosys-app/mosys/internal/exchange"
	"github.com/mosys-app/mosys/internal/model"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export movements to CSV or XLSX",
	}
	cmd.AddCommand(exportFileCmd("csv"))
	cmd.AddCommand(exportFileCmd("xlsx"))
	return cmd
}

func exportFileCmd(format string) *cobra.Command {
	return &cobra.Command{
		Use:   format + " <file>",
		Short: fmt.Sprintf("Write all movements as %s", format),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			movements, err := store.ListMovements(ctx, model.MovementFilter{
				SortColumn:    "fecha",
				SortDirection: model.SortAsc,
			})
			if err != nil {
				return friendlyError(err)
			}

			path := config.ExpandPath(args[0])
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			switch format {
			case "csv":
				err = exchange.ExportCSV(f, movements)
			case "xlsx":
				err = exchange.ExportXLSX(f, movements)
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Exported %d movements to %s", len(movements), path)))
			return nil
		},
	}
}
