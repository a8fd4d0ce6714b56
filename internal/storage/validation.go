package storage

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mosys-app/mosys/internal/common"
	"github.com/mosys-app/mosys/internal/model"
)

// ErrNilContext is returned when an operation is invoked without a context.
var ErrNilContext = errors.New("context cannot be nil")

// Field length limits, matching the original schema contract.
const (
	maxConceptLen     = 100
	maxDescriptionLen = 500
)

// validateMovementInput collects every problem with the input instead of
// stopping at the first one.
func validateMovementInput(in model.MovementInput) error {
	var problems []string

	if !in.Kind.Valid() {
		problems = append(problems, "kind must be 'Ingreso' or 'Gasto'")
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		problems = append(problems, "amount must be a positive number")
	}
	if strings.TrimSpace(in.Category) == "" {
		problems = append(problems, "category is required")
	}
	concept := strings.TrimSpace(in.Concept)
	if concept == "" {
		problems = append(problems, "concept is required")
	} else if utf8.RuneCountInString(concept) > maxConceptLen {
		problems = append(problems, "concept exceeds 100 characters")
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		problems = append(problems, "description exceeds 500 characters")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		problems = append(problems, "payment method is required")
	}

	if len(problems) > 0 {
		return common.NewValidationError(problems)
	}
	return nil
}

func validateDebtInput(in model.DebtInput) error {
	var problems []string

	if !in.Kind.Valid() {
		problems = append(problems, "kind must be 'Débito' or 'Crédito'")
	}
	if strings.TrimSpace(in.Counterparty) == "" {
		problems = append(problems, "counterparty is required")
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		problems = append(problems, "amount must be a positive number")
	}
	if strings.TrimSpace(in.Concept) == "" {
		problems = append(problems, "concept is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		problems = append(problems, "status must be 'Pendiente', 'Pagado' or 'Vencido'")
	}

	if len(problems) > 0 {
		return common.NewValidationError(problems)
	}
	return nil
}
