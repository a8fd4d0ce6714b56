package model

import "time"

// MovementKind indicates whether a movement adds to or subtracts from the balance.
type MovementKind string

const (
	// KindIncome represents money coming in.
	KindIncome MovementKind = "Ingreso"
	// KindExpense represents money going out.
	KindExpense MovementKind = "Gasto"
)

// Valid reports whether the kind is one of the two stored values.
func (k MovementKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Movement is a single money movement (income or expense entry).
type Movement struct {
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Kind          MovementKind
	Category      string
	Concept       string
	Description   string
	PaymentMethod string
	// CategoryIcon and CategoryColor are joined from the categories table by
	// name; empty when the referenced category no longer exists.
	CategoryIcon  string
	CategoryColor string
	Amount        float64
	ID            int64
}

// MovementInput carries the caller-supplied fields for create and update.
// Timestamps are assigned by the repository.
type MovementInput struct {
	Date          time.Time
	Kind          MovementKind
	Category      string
	Concept       string
	Description   string
	PaymentMethod string
	Amount        float64
}

// SortDirection orders query results.
type SortDirection string

const (
	// SortAsc sorts ascending.
	SortAsc SortDirection = "asc"
	// SortDesc sorts descending.
	SortDesc SortDirection = "desc"
)

// MovementFilter narrows a movement listing. Zero-value fields are ignored;
// set fields are AND-combined.
type MovementFilter struct {
	Kind          MovementKind
	Category      string
	DateFrom      *time.Time
	DateTo        *time.Time
	AmountMin     *float64
	AmountMax     *float64
	SearchText    string
	SortColumn    string
	SortDirection SortDirection
	Limit         int
}

// StatsPeriod selects the date range for movement statistics.
type StatsPeriod string

const (
	// PeriodDay covers today.
	PeriodDay StatsPeriod = "day"
	// PeriodWeek covers Sunday through Saturday of the current week.
	PeriodWeek StatsPeriod = "week"
	// PeriodMonth covers the current calendar month.
	PeriodMonth StatsPeriod = "month"
	// PeriodYear covers the current calendar year.
	PeriodYear StatsPeriod = "year"
)

// KindStats aggregates one movement kind over a period.
type KindStats struct {
	Count   int
	Total   float64
	Average float64
	Min     float64
	Max     float64
}

// MovementStats holds per-kind aggregates for a resolved period.
type MovementStats struct {
	Period   StatsPeriod
	DateFrom string
	DateTo   string
	Income   KindStats
	Expense  KindStats
}

// Balance is income minus expense for the period.
func (s MovementStats) Balance() float64 {
	return s.Income.Total - s.Expense.Total
}

// TotalCount is the number of movements across both kinds.
func (s MovementStats) TotalCount() int {
	return s.Income.Count + s.Expense.Count
}

// CategoryTotal is a per-category aggregate row.
type CategoryTotal struct {
	Category string
	Icon     string
	Color    string
	Count    int
	Total    float64
	Average  float64
}

// TrendPoint is the per-kind sum for one calendar month.
type TrendPoint struct {
	Month   string // YYYY-MM
	Income  float64
	Expense float64
}

// BalancePeriod selects the window and bucket size of a running-balance series.
type BalancePeriod string

const (
	// BalanceDay is the last 24 hours in hourly buckets.
	BalanceDay BalancePeriod = "1d"
	// BalanceMonth is the last 30 days in daily buckets.
	BalanceMonth BalancePeriod = "1m"
	// BalanceYear is the last 12 months in monthly buckets.
	BalanceYear BalancePeriod = "1y"
	// BalanceAll is the full history in monthly buckets.
	BalanceAll BalancePeriod = "all"
)

// BalancePoint is one point of a cumulative balance series.
type BalancePoint struct {
	Label   string
	Balance float64
}

// DuplicateGroup describes movements sharing kind, amount, category, concept
// and calendar day.
type DuplicateGroup struct {
	Kind     MovementKind
	Category string
	Concept  string
	Date     string // YYYY-MM-DD
	IDs      []int64
	Amount   float64
	Count    int
}
