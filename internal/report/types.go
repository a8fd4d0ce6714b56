// Package report derives financial summaries from the stored movements and
// debts. It holds no state of its own; everything is recomputed from the
// store on demand.
package report

import "github.com/mosys-app/mosys/internal/model"

// Snapshot is the dashboard view: current-month activity, lifetime balances
// and the pending-debt position.
type Snapshot struct {
	Month model.MovementStats
	Debts model.DebtSummary

	LifetimeIncome  float64
	LifetimeExpense float64
	// GeneralBalance is lifetime income minus lifetime expense.
	GeneralBalance float64
	// RealBalance adjusts the general balance by pending debts: receivables
	// count in your favor, payables against you.
	RealBalance float64
}

// KeyMetrics condenses the snapshot into the handful of numbers worth
// printing first.
type KeyMetrics struct {
	MonthIncome     float64
	MonthExpense    float64
	MonthBalance    float64
	LifetimeIncome  float64
	LifetimeExpense float64
	GeneralBalance  float64
	RealBalance     float64
	// LargestExpenseCategory is empty when no expenses are recorded.
	LargestExpenseCategory string
	LargestExpenseTotal    float64
	// OverdueDebts counts pending debts past their due date.
	OverdueDebts int
}
