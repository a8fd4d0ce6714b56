package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mosys-app/mosys/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreateMovement(t *testing.T, s *Store, in model.MovementInput) int64 {
	t.Helper()

	id, err := s.CreateMovement(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to create movement: %v", err)
	}
	return id
}

func mustCreateDebt(t *testing.T, s *Store, in model.DebtInput) int64 {
	t.Helper()

	id, err := s.CreateDebt(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to create debt: %v", err)
	}
	return id
}

func expenseInput(amount float64, concept string) model.MovementInput {
	return model.MovementInput{
		Kind:          model.KindExpense,
		Amount:        amount,
		Category:      "Alimentación",
		Concept:       concept,
		PaymentMethod: "Efectivo",
		Date:          time.Now(),
	}
}

func incomeInput(amount float64, concept string) model.MovementInput {
	return model.MovementInput{
		Kind:          model.KindIncome,
		Amount:        amount,
		Category:      "Salario",
		Concept:       concept,
		PaymentMethod: "Transferencia",
		Date:          time.Now(),
	}
}
