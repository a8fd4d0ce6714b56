package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/model"
	"github.com/mosys-app/mosys/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial snapshot and trends",
		RunE:  runReport,
	}
	cmd.Flags().IntP("months", "m", 6, "trailing months for the trend table")
	cmd.Flags().String("balance", "", "append a balance series (1d, 1m, 1y, all)")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine := report.NewEngine(store)
	symbol := currencySymbol(ctx, store)

	km, err := engine.KeyMetrics(ctx)
	if err != nil {
		return friendlyError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This month:    %s in, %s out (%s)\n",
		cli.FormatAmount(formatMoney(symbol, km.MonthIncome), true),
		cli.FormatAmount(formatMoney(symbol, km.MonthExpense), false),
		formatMoney(symbol, km.MonthBalance))
	fmt.Fprintf(&b, "All time:      %s in, %s out\n",
		cli.FormatAmount(formatMoney(symbol, km.LifetimeIncome), true),
		cli.FormatAmount(formatMoney(symbol, km.LifetimeExpense), false))
	fmt.Fprintf(&b, "Balance:       %s\n", cli.BoldStyle.Render(formatMoney(symbol, km.GeneralBalance)))
	fmt.Fprintf(&b, "Real balance:  %s", formatMoney(symbol, km.RealBalance))
	if km.LargestExpenseCategory != "" {
		fmt.Fprintf(&b, "\nBiggest drain: %s (%s)",
			km.LargestExpenseCategory, formatMoney(symbol, km.LargestExpenseTotal))
	}
	if km.OverdueDebts > 0 {
		fmt.Fprintf(&b, "\n\n%s", cli.FormatWarning(fmt.Sprintf("%d debts overdue", km.OverdueDebts)))
	}
	fmt.Println(cli.RenderBox(cli.ChartIcon+" Overview", b.String()))

	months, _ := cmd.Flags().GetInt("months")
	trends, err := engine.Trends(ctx, months)
	if err != nil {
		return friendlyError(err)
	}
	if len(trends) > 0 {
		fmt.Println(cli.FormatTitle("Monthly trend"))
		for _, tp := range trends {
			fmt.Printf("  %s  %s  %s\n",
				tp.Month,
				cli.FormatAmount("+"+formatMoney(symbol, tp.Income), true),
				cli.FormatAmount("-"+formatMoney(symbol, tp.Expense), false))
		}
	}

	if rawPeriod, _ := cmd.Flags().GetString("balance"); rawPeriod != "" {
		period := model.BalancePeriod(rawPeriod)
		switch period {
		case model.BalanceDay, model.BalanceMonth, model.BalanceYear, model.BalanceAll:
		default:
			return fmt.Errorf("invalid balance period %q (1d, 1m, 1y, all)", rawPeriod)
		}

		series, err := engine.BalanceSeries(ctx, period)
		if err != nil {
			return friendlyError(err)
		}
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Balance (%s)", period)))
		for _, p := range series {
			fmt.Printf("  %-16s %s\n", p.Label, formatMoney(symbol, p.Balance))
		}
	}
	return nil
}
