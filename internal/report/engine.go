package report

import (
	"context"
	"fmt"

	"github.com/mosys-app/mosys/internal/model"
	"github.com/mosys-app/mosys/internal/storage"
)

// Engine computes reports against a store.
type Engine struct {
	store *storage.Store
}

// NewEngine creates a reporting engine over the store.
func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// Snapshot assembles the dashboard numbers in one pass.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	month, err := e.store.MovementStatistics(ctx, model.PeriodMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to compute month statistics: %w", err)
	}

	income, expense, err := e.store.LifetimeTotals(ctx)
	if err != nil {
		return nil, err
	}

	debts, err := e.store.DebtSummary(ctx)
	if err != nil {
		return nil, err
	}

	general := income - expense
	return &Snapshot{
		Month:           *month,
		Debts:           *debts,
		LifetimeIncome:  income,
		LifetimeExpense: expense,
		GeneralBalance:  general,
		RealBalance:     general - debts.PendingPayables + debts.PendingReceivables,
	}, nil
}

// CategoryBreakdown totals one movement kind per category, largest first.
func (e *Engine) CategoryBreakdown(ctx context.Context, kind model.MovementKind) ([]model.CategoryTotal, error) {
	return e.store.MovementsByCategory(ctx, kind)
}

// TopExpenses returns the n biggest expense categories.
func (e *Engine) TopExpenses(ctx context.Context, n int) ([]model.CategoryTotal, error) {
	return e.store.TopExpenseCategories(ctx, n)
}

// Trends returns monthly income and expense totals for the trailing months.
func (e *Engine) Trends(ctx context.Context, months int) ([]model.TrendPoint, error) {
	return e.store.MovementTrends(ctx, months)
}

// BalanceSeries returns the cumulative balance over the period.
func (e *Engine) BalanceSeries(ctx context.Context, period model.BalancePeriod) ([]model.BalancePoint, error) {
	return e.store.RunningBalance(ctx, period)
}

// KeyMetrics condenses the snapshot and the expense breakdown into the
// headline numbers.
func (e *Engine) KeyMetrics(ctx context.Context) (*KeyMetrics, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	km := &KeyMetrics{
		MonthIncome:     snap.Month.Income.Total,
		MonthExpense:    snap.Month.Expense.Total,
		MonthBalance:    snap.Month.Balance(),
		LifetimeIncome:  snap.LifetimeIncome,
		LifetimeExpense: snap.LifetimeExpense,
		GeneralBalance:  snap.GeneralBalance,
		RealBalance:     snap.RealBalance,
		OverdueDebts:    snap.Debts.OverdueCount,
	}

	byCategory, err := e.store.MovementsByCategory(ctx, model.KindExpense)
	if err != nil {
		return nil, err
	}
	if len(byCategory) > 0 {
		km.LargestExpenseCategory = byCategory[0].Category
		km.LargestExpenseTotal = byCategory[0].Total
	}
	return km, nil
}
