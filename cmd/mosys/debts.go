package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/model"
)

func debtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Track money you owe and money owed to you",
	}

	cmd.AddCommand(debtAddCmd())
	cmd.AddCommand(debtListCmd())
	cmd.AddCommand(debtEditCmd())
	cmd.AddCommand(debtRemoveCmd())
	cmd.AddCommand(debtPaidCmd())
	cmd.AddCommand(debtSummaryCmd())
	cmd.AddCommand(debtUpcomingCmd())
	return cmd
}

func debtInputFromFlags(cmd *cobra.Command) (model.DebtInput, error) {
	var in model.DebtInput

	kind, _ := cmd.Flags().GetString("kind")
	switch strings.ToLower(kind) {
	case "payable", "debito", "débito":
		in.Kind = model.KindPayable
	case "receivable", "credito", "crédito":
		in.Kind = model.KindReceivable
	default:
		in.Kind = model.DebtKind(kind)
	}

	rawAmount, _ := cmd.Flags().GetString("amount")
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return in, err
	}
	in.Amount = amount

	in.Counterparty, _ = cmd.Flags().GetString("person")
	in.Concept, _ = cmd.Flags().GetString("concept")
	in.Notes, _ = cmd.Flags().GetString("notes")

	if raw, _ := cmd.Flags().GetString("start"); raw != "" {
		t, err := parseDateFlag(raw)
		if err != nil {
			return in, err
		}
		in.StartDate = t
	}
	if raw, _ := cmd.Flags().GetString("due"); raw != "" {
		t, err := parseDateFlag(raw)
		if err != nil {
			return in, err
		}
		in.DueDate = &t
	}
	return in, nil
}

func addDebtFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("kind", "k", "payable", "debt kind (payable, receivable)")
	cmd.Flags().StringP("person", "p", "", "counterparty (required)")
	cmd.Flags().StringP("amount", "a", "", "amount (required)")
	cmd.Flags().String("concept", "", "what the debt is for (required)")
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().String("notes", "", "free-form notes")
}

func debtAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a debt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			in, err := debtInputFromFlags(cmd)
			if err != nil {
				return err
			}

			id, err := store.CreateDebt(ctx, in)
			if err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Debt #%d recorded", id)))
			return nil
		},
	}
	addDebtFlags(cmd)
	return cmd
}

func debtListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List debts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var filter model.DebtFilter
			if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
				switch strings.ToLower(kind) {
				case "payable", "debito", "débito":
					filter.Kind = model.KindPayable
				case "receivable", "credito", "crédito":
					filter.Kind = model.KindReceivable
				default:
					return fmt.Errorf("invalid kind %q", kind)
				}
			}
			if pending, _ := cmd.Flags().GetBool("pending"); pending {
				filter.Status = model.StatusPending
			}
			filter.CounterpartyLike, _ = cmd.Flags().GetString("person")

			debts, err := store.ListDebts(ctx, filter)
			if err != nil {
				return friendlyError(err)
			}
			if len(debts) == 0 {
				fmt.Println(cli.FormatInfo("No debts found"))
				return nil
			}

			symbol := currencySymbol(ctx, store)
			now := time.Now()
			fmt.Println(cli.FormatTitle("Debts"))
			for _, d := range debts {
				status := string(d.Status)
				switch {
				case d.Overdue(now):
					status = cli.ErrorStyle.Render("Vencida")
				case d.Status == model.StatusPaid:
					status = cli.SuccessStyle.Render(status)
				default:
					status = cli.WarningStyle.Render(status)
				}

				due := "sin fecha límite"
				if d.DueDate != nil {
					due = "vence " + d.DueDate.Format("2006-01-02")
				}
				fmt.Printf("%s %s %s %s %s %s\n",
					cli.SubtleStyle.Render(fmt.Sprintf("#%-4d", d.ID)),
					cli.FormatAmount(formatMoney(symbol, d.Amount), d.Kind == model.KindReceivable),
					cli.BoldStyle.Render(d.Counterparty),
					d.Concept,
					cli.SubtleStyle.Render(due),
					status,
				)
			}
			return nil
		},
	}
	cmd.Flags().StringP("kind", "k", "", "filter by kind (payable, receivable)")
	cmd.Flags().StringP("person", "p", "", "filter by counterparty")
	cmd.Flags().Bool("pending", false, "only pending debts")
	return cmd
}

func debtEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a debt's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			in, err := debtInputFromFlags(cmd)
			if err != nil {
				return err
			}
			if rawStatus, _ := cmd.Flags().GetString("status"); rawStatus != "" {
				in.Status = model.DebtStatus(rawStatus)
			}

			if err := store.UpdateDebt(ctx, id, in); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Debt #%d updated", id)))
			return nil
		},
	}
	addDebtFlags(cmd)
	cmd.Flags().String("status", "", "status (Pendiente, Pagado)")
	return cmd
}

func debtRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a debt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteDebt(ctx, id); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Debt #%d deleted", id)))
			return nil
		},
	}
}

func debtPaidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paid <id>",
		Short: "Mark a pending debt as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.MarkDebtPaid(ctx, id); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Debt #%d settled", id)))
			return nil
		},
	}
}

func debtSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Pending debt position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sum, err := store.DebtSummary(ctx)
			if err != nil {
				return friendlyError(err)
			}

			symbol := currencySymbol(ctx, store)
			var b strings.Builder
			fmt.Fprintf(&b, "You owe:       %s\n", cli.FormatAmount(formatMoney(symbol, sum.PendingPayables), false))
			fmt.Fprintf(&b, "Owed to you:   %s\n", cli.FormatAmount(formatMoney(symbol, sum.PendingReceivables), true))
			fmt.Fprintf(&b, "Net position:  %s", formatMoney(symbol, sum.NetBalance))
			if sum.OverdueCount > 0 {
				fmt.Fprintf(&b, "\n\n%s", cli.FormatWarning(fmt.Sprintf("%d debts overdue", sum.OverdueCount)))
			}

			fmt.Println(cli.RenderBox("Debt summary", b.String()))
			return nil
		},
	}
}

func debtUpcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Pending debts due soon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			days, _ := cmd.Flags().GetInt("days")
			debts, err := store.UpcomingDebts(ctx, days)
			if err != nil {
				return friendlyError(err)
			}
			if len(debts) == 0 {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Nothing due in the next %d days", days)))
				return nil
			}

			symbol := currencySymbol(ctx, store)
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%d debts due in the next %d days", len(debts), days)))
			for _, d := range debts {
				fmt.Printf("  %s %s %s (%s)\n",
					d.DueDate.Format("2006-01-02"),
					cli.FormatAmount(formatMoney(symbol, d.Amount), d.Kind == model.KindReceivable),
					cli.BoldStyle.Render(d.Counterparty),
					d.Concept)
			}
			return nil
		},
	}
	cmd.Flags().IntP("days", "d", 7, "look-ahead window in days")
	return cmd
}
