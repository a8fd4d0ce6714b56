package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Database health and row counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			st := store.Status(ctx)

			var b strings.Builder
			if st.Connected {
				fmt.Fprintf(&b, "%s\n\n", cli.FormatSuccess(st.Message))
			} else {
				fmt.Fprintf(&b, "%s\n\n", cli.FormatError(st.Message))
			}
			fmt.Fprintf(&b, "Movements: %d\n", st.Movements)
			fmt.Fprintf(&b, "Debts:     %d", st.Debts)

			fmt.Println(cli.RenderBox(cli.FolderIcon+" Database", b.String()))
			return nil
		},
	}
}
