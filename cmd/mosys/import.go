package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/config"
	"github.com/mosys-app/mosys/internal/exchange"
	"github.com/mosys-app/mosys/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import movements from CSV or OFX files",
	}
	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importOFXCmd())
	return cmd
}

func importCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv <file>",
		Short: "Import movements from an exported CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			path := config.ExpandPath(args[0])
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			res, err := exchange.ImportCSV(ctx, store, f)
			if err != nil {
				return err
			}

			if res.Failed > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"Imported %d of %d rows (%d skipped)", res.Imported, res.Total, res.Failed)))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d movements", res.Imported)))
			}
			return nil
		},
	}
}

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx <files...>",
		Short: "Import movements from OFX/QFX bank statements",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			parser := ofx.NewParser()
			var imported, failed int
			for _, arg := range args {
				path := config.ExpandPath(arg)
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}

				movements, err := parser.ParseFile(ctx, f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", path, err)
				}

				if dryRun {
					symbol := currencySymbol(ctx, store)
					fmt.Println(cli.FormatInfo(fmt.Sprintf("%s: %d movements", path, len(movements))))
					for _, m := range movements {
						fmt.Printf("  %s %s %s (%s)\n",
							m.Date.Format("2006-01-02"),
							formatMoney(symbol, m.Amount),
							m.Concept, m.Kind)
					}
					continue
				}

				bar := progressbar.NewOptions(len(movements),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription(fmt.Sprintf("Importing %s", path)),
				)
				for _, in := range movements {
					if _, err := store.CreateMovement(ctx, in); err != nil {
						failed++
					} else {
						imported++
					}
					_ = bar.Add(1)
				}
				fmt.Fprintln(os.Stderr)
			}

			if dryRun {
				return nil
			}
			if failed > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"Imported %d movements (%d failed)", imported, failed)))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d movements", imported)))
			}
			return nil
		},
	}
	cmd.Flags().BoolP("dry-run", "d", false, "preview without saving")
	return cmd
}
