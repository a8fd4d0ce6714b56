package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/model"
	"github.com/mosys-app/mosys/internal/storage"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage income and expense movements",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txShowCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txRemoveCmd())
	cmd.AddCommand(txStatsCmd())
	cmd.AddCommand(txByCategoryCmd())
	cmd.AddCommand(txTopCmd())
	cmd.AddCommand(txDuplicatesCmd())
	cmd.AddCommand(txPurgeCmd())
	return cmd
}

func movementInputFromFlags(cmd *cobra.Command) (model.MovementInput, error) {
	var in model.MovementInput

	kind, _ := cmd.Flags().GetString("kind")
	switch strings.ToLower(kind) {
	case "income", "ingreso":
		in.Kind = model.KindIncome
	case "expense", "gasto":
		in.Kind = model.KindExpense
	default:
		in.Kind = model.MovementKind(kind)
	}

	rawAmount, _ := cmd.Flags().GetString("amount")
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return in, err
	}
	in.Amount = amount

	in.Category, _ = cmd.Flags().GetString("category")
	in.Concept, _ = cmd.Flags().GetString("concept")
	in.Description, _ = cmd.Flags().GetString("description")
	in.PaymentMethod, _ = cmd.Flags().GetString("method")

	if rawDate, _ := cmd.Flags().GetString("date"); rawDate != "" {
		date, err := parseDateFlag(rawDate)
		if err != nil {
			return in, err
		}
		in.Date = date
	}
	return in, nil
}

func addMovementFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("kind", "k", "expense", "movement kind (income, expense)")
	cmd.Flags().StringP("amount", "a", "", "amount (required)")
	cmd.Flags().StringP("category", "c", "", "category name (required)")
	cmd.Flags().String("concept", "", "short concept (required)")
	cmd.Flags().String("description", "", "longer description")
	cmd.Flags().StringP("method", "m", "Efectivo", "payment method")
	cmd.Flags().String("date", "", "date (YYYY-MM-DD, defaults to now)")
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a movement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			in, err := movementInputFromFlags(cmd)
			if err != nil {
				return err
			}

			id, err := store.CreateMovement(ctx, in)
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Movement #%d recorded", id)))
			return nil
		},
	}
	addMovementFlags(cmd)
	return cmd
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var filter model.MovementFilter
			if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
				switch strings.ToLower(kind) {
				case "income", "ingreso":
					filter.Kind = model.KindIncome
				case "expense", "gasto":
					filter.Kind = model.KindExpense
				default:
					return fmt.Errorf("invalid kind %q", kind)
				}
			}
			filter.Category, _ = cmd.Flags().GetString("category")
			filter.SearchText, _ = cmd.Flags().GetString("search")
			filter.Limit, _ = cmd.Flags().GetInt("limit")
			filter.SortColumn, _ = cmd.Flags().GetString("sort")
			if asc, _ := cmd.Flags().GetBool("asc"); asc {
				filter.SortDirection = model.SortAsc
			}
			if raw, _ := cmd.Flags().GetString("from"); raw != "" {
				t, err := parseDateFlag(raw)
				if err != nil {
					return err
				}
				filter.DateFrom = &t
			}
			if raw, _ := cmd.Flags().GetString("to"); raw != "" {
				t, err := parseDateFlag(raw)
				if err != nil {
					return err
				}
				filter.DateTo = &t
			}

			movements, err := store.ListMovements(ctx, filter)
			if err != nil {
				return friendlyError(err)
			}
			if len(movements) == 0 {
				fmt.Println(cli.FormatInfo("No movements found"))
				return nil
			}

			symbol := currencySymbol(ctx, store)
			fmt.Println(cli.FormatTitle("Movements"))
			for _, m := range movements {
				amount := formatMoney(symbol, m.Amount)
				sign := "-"
				if m.Kind == model.KindIncome {
					sign = "+"
				}
				fmt.Printf("%s %s %s %s %s %s\n",
					cli.SubtleStyle.Render(fmt.Sprintf("#%-4d", m.ID)),
					cli.SubtleStyle.Render(m.Date.Format("2006-01-02")),
					cli.FormatAmount(sign+amount, m.Kind == model.KindIncome),
					cli.BoldStyle.Render(m.Concept),
					cli.SubtleStyle.Render(m.CategoryIcon+" "+m.Category),
					cli.SubtleStyle.Render(m.PaymentMethod),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringP("kind", "k", "", "filter by kind (income, expense)")
	cmd.Flags().StringP("category", "c", "", "filter by category")
	cmd.Flags().StringP("search", "s", "", "search concept and description")
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntP("limit", "n", 0, "maximum rows")
	cmd.Flags().String("sort", "", "sort column (fecha, monto, id, categoria, tipo, concepto)")
	cmd.Flags().Bool("asc", false, "sort ascending")
	return cmd
}

func txShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one movement",
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

			m, err := store.GetMovement(ctx, id)
			if err != nil {
				return friendlyError(err)
			}

			symbol := currencySymbol(ctx, store)
			var b strings.Builder
			fmt.Fprintf(&b, "Kind:     %s\n", m.Kind)
			fmt.Fprintf(&b, "Amount:   %s\n", formatMoney(symbol, m.Amount))
			fmt.Fprintf(&b, "Category: %s %s\n", m.CategoryIcon, m.Category)
			fmt.Fprintf(&b, "Concept:  %s\n", m.Concept)
			if m.Description != "" {
				fmt.Fprintf(&b, "Details:  %s\n", m.Description)
			}
			fmt.Fprintf(&b, "Method:   %s\n", m.PaymentMethod)
			fmt.Fprintf(&b, "Date:     %s", m.Date.Format("2006-01-02 15:04"))

			fmt.Println(cli.RenderBox(fmt.Sprintf("Movement #%d", m.ID), b.String()))
			return nil
		},
	}
}

func txEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a movement's fields",
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

			in, err := movementInputFromFlags(cmd)
			if err != nil {
				return err
			}

			if err := store.UpdateMovement(ctx, id, in); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Movement #%d updated", id)))
			return nil
		},
	}
	addMovementFlags(cmd)
	return cmd
}

func txRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a movement",
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

			if err := store.DeleteMovement(ctx, id); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Movement #%d deleted", id)))
			return nil
		},
	}
}

func txStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Movement statistics for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rawPeriod, _ := cmd.Flags().GetString("period")
			period := model.StatsPeriod(rawPeriod)
			switch period {
			case model.PeriodDay, model.PeriodWeek, model.PeriodMonth, model.PeriodYear:
			default:
				return fmt.Errorf("invalid period %q (day, week, month, year)", rawPeriod)
			}

			stats, err := store.MovementStatistics(ctx, period)
			if err != nil {
				return friendlyError(err)
			}

			symbol := currencySymbol(ctx, store)
			var b strings.Builder
			fmt.Fprintf(&b, "Range:    %s to %s\n\n", stats.DateFrom, stats.DateTo)
			fmt.Fprintf(&b, "Income:   %s (%d movements, avg %s)\n",
				cli.FormatAmount(formatMoney(symbol, stats.Income.Total), true),
				stats.Income.Count, formatMoney(symbol, stats.Income.Average))
			fmt.Fprintf(&b, "Expense:  %s (%d movements, avg %s)\n",
				cli.FormatAmount(formatMoney(symbol, stats.Expense.Total), false),
				stats.Expense.Count, formatMoney(symbol, stats.Expense.Average))
			fmt.Fprintf(&b, "Balance:  %s", formatMoney(symbol, stats.Balance()))

			fmt.Println(cli.RenderBox(fmt.Sprintf("Statistics (%s)", period), b.String()))
			return nil
		},
	}
	cmd.Flags().StringP("period", "p", "month", "period (day, week, month, year)")
	return cmd
}

func txByCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "by-category",
		Short: "Totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			kind := model.KindExpense
			title := string(kind)
			if income, _ := cmd.Flags().GetBool("income"); income {
				kind = model.KindIncome
				title = string(kind)
			}
			if all, _ := cmd.Flags().GetBool("all"); all {
				kind = ""
				title = "all"
			}

			totals, err := store.MovementsByCategory(ctx, kind)
			if err != nil {
				return friendlyError(err)
			}
			printCategoryTotals(ctx, store, fmt.Sprintf("By category (%s)", title), totals)
			return nil
		},
	}
	cmd.Flags().Bool("income", false, "aggregate income instead of expenses")
	cmd.Flags().Bool("all", false, "aggregate both kinds together")
	return cmd
}

func txTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Largest expense categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, _ := cmd.Flags().GetInt("count")
			totals, err := store.TopExpenseCategories(ctx, n)
			if err != nil {
				return friendlyError(err)
			}
			printCategoryTotals(ctx, store, fmt.Sprintf("Top %d expense categories", n), totals)
			return nil
		},
	}
	cmd.Flags().IntP("count", "n", 5, "how many categories")
	return cmd
}

func txDuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Find possible duplicate movements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			groups, err := store.FindDuplicateMovements(ctx)
			if err != nil {
				return friendlyError(err)
			}
			if len(groups) == 0 {
				fmt.Println(cli.FormatSuccess("No duplicates found"))
				return nil
			}

			symbol := currencySymbol(ctx, store)
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%d duplicate groups found", len(groups))))
			for _, g := range groups {
				ids := make([]string, len(g.IDs))
				for i, id := range g.IDs {
					ids[i] = fmt.Sprintf("#%d", id)
				}
				fmt.Printf("  %s × %d  %s  %s (%s) ids: %s\n",
					g.Date, g.Count,
					cli.FormatAmount(formatMoney(symbol, g.Amount), g.Kind == model.KindIncome),
					g.Concept, g.Category, strings.Join(ids, " "))
			}
			return nil
		},
	}
}

func txPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete movements older than a cutoff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			months, _ := cmd.Flags().GetInt("months")
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("purge is destructive; re-run with --yes to confirm")
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := store.PurgeMovementsOlderThan(ctx, months)
			if err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Purged %d movements older than %d months", removed, months)))
			return nil
		},
	}
	cmd.Flags().Int("months", 12, "delete movements older than this many months")
	cmd.Flags().BoolP("yes", "y", false, "confirm the purge")
	return cmd
}

func printCategoryTotals(ctx context.Context, store *storage.Store, title string, totals []model.CategoryTotal) {
	if len(totals) == 0 {
		fmt.Println(cli.FormatInfo("No movements found"))
		return
	}

	symbol := currencySymbol(ctx, store)
	fmt.Println(cli.FormatTitle(title))
	for _, ct := range totals {
		fmt.Printf("  %s %-20s %s (%d movements, avg %s)\n",
			ct.Icon,
			ct.Category,
			cli.BoldStyle.Render(formatMoney(symbol, ct.Total)),
			ct.Count,
			formatMoney(symbol, ct.Average))
	}
}
