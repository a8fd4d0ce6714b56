package model

import "time"

// DebtKind distinguishes money owed from money expected.
type DebtKind string

const (
	// KindPayable is an obligation we owe to the counterparty.
	KindPayable DebtKind = "Débito"
	// KindReceivable is an amount the counterparty owes us.
	KindReceivable DebtKind = "Crédito"
)

// Valid reports whether the kind is one of the two stored values.
func (k DebtKind) Valid() bool {
	return k == KindPayable || k == KindReceivable
}

// DebtStatus is the stored lifecycle state of a debt.
type DebtStatus string

const (
	// StatusPending is the default state of a new debt.
	StatusPending DebtStatus = "Pendiente"
	// StatusPaid marks a settled debt.
	StatusPaid DebtStatus = "Pagado"
	// StatusOverdue exists in the schema for interchange compatibility but is
	// never written: overdue is derived at read time from the due date.
	StatusOverdue DebtStatus = "Vencido"
)

// Valid reports whether the status is one of the stored values.
func (s DebtStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusOverdue
}

// Debt is a receivable or payable obligation.
type Debt struct {
	StartDate    time.Time
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Kind         DebtKind
	Counterparty string
	Concept      string
	Status       DebtStatus
	Notes        string
	Amount       float64
	ID           int64
}

// Overdue reports whether the debt is pending past its due date.
func (d Debt) Overdue(now time.Time) bool {
	if d.Status != StatusPending || d.DueDate == nil {
		return false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return d.DueDate.Before(today)
}

// DebtInput carries the caller-supplied fields for create and update.
type DebtInput struct {
	StartDate    time.Time
	DueDate      *time.Time
	Kind         DebtKind
	Counterparty string
	Concept      string
	Status       DebtStatus
	Notes        string
	Amount       float64
}

// DebtFilter narrows a debt listing. Zero-value fields are ignored.
type DebtFilter struct {
	Kind             DebtKind
	Status           DebtStatus
	CounterpartyLike string
}

// DebtSummary aggregates pending obligations.
type DebtSummary struct {
	PendingPayables    float64
	PendingReceivables float64
	// NetBalance is receivables minus payables.
	NetBalance float64
	// OverdueCount counts pending debts whose due date has passed.
	OverdueCount int
}
