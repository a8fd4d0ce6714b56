package model

// CategoryScope says which movement kinds a category applies to.
type CategoryScope string

const (
	// ScopeIncome restricts the category to income movements.
	ScopeIncome CategoryScope = "Ingreso"
	// ScopeExpense restricts the category to expense movements.
	ScopeExpense CategoryScope = "Gasto"
	// ScopeBoth allows the category on either kind.
	ScopeBoth CategoryScope = "Ambos"
)

// Category is a reusable movement label. Movements reference it by name
// without foreign-key enforcement; deactivating a category leaves existing
// movements untouched.
type Category struct {
	Name   string
	Scope  CategoryScope
	Icon   string
	Color  string
	Active bool
	ID     int64
}
