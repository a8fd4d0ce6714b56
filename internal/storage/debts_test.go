package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mosys-app/mosys/internal/common"
	"github.com/mosys-app/mosys/internal/model"
)

func payableInput(amount float64, person string, due *time.Time) model.DebtInput {
	return model.DebtInput{
		Kind:         model.KindPayable,
		Counterparty: person,
		Amount:       amount,
		Concept:      "Préstamo",
		DueDate:      due,
	}
}

func TestDebtRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	due := time.Now().AddDate(0, 1, 0)
	id := mustCreateDebt(t, s, payableInput(300, "Carlos", &due))

	d, err := s.GetDebt(ctx, id)
	if err != nil {
		t.Fatalf("failed to get debt: %v", err)
	}
	if d.Kind != model.KindPayable {
		t.Errorf("kind = %q, want %q", d.Kind, model.KindPayable)
	}
	if d.Status != model.StatusPending {
		t.Errorf("status = %q, want pending default", d.Status)
	}
	if d.Counterparty != "Carlos" || d.Amount != 300 {
		t.Errorf("debt = %+v", d)
	}
	if d.DueDate == nil {
		t.Error("expected due date to round-trip")
	}
	if d.StartDate.IsZero() {
		t.Error("expected start date default")
	}
}

func TestDebtWithoutDueDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreateDebt(t, s, payableInput(50, "Ana", nil))
	d, err := s.GetDebt(ctx, id)
	if err != nil {
		t.Fatalf("failed to get debt: %v", err)
	}
	if d.DueDate != nil {
		t.Errorf("expected nil due date, got %v", d.DueDate)
	}
	if d.Overdue(time.Now()) {
		t.Error("debt without due date can never be overdue")
	}
}

func TestCreateDebtValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateDebt(context.Background(), model.DebtInput{Kind: "Otro", Amount: 0})
	if !common.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListDebtsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateDebt(t, s, payableInput(100, "Carlos", nil))
	mustCreateDebt(t, s, model.DebtInput{
		Kind:         model.KindReceivable,
		Counterparty: "María",
		Amount:       250,
		Concept:      "Venta a crédito",
	})

	payables, err := s.ListDebts(ctx, model.DebtFilter{Kind: model.KindPayable})
	if err != nil {
		t.Fatalf("failed to list payables: %v", err)
	}
	if len(payables) != 1 || payables[0].Counterparty != "Carlos" {
		t.Errorf("unexpected payables: %+v", payables)
	}

	byPerson, err := s.ListDebts(ctx, model.DebtFilter{CounterpartyLike: "mar"})
	if err != nil {
		t.Fatalf("failed to filter by counterparty: %v", err)
	}
	if len(byPerson) != 1 || byPerson[0].Counterparty != "María" {
		t.Errorf("unexpected counterparty match: %+v", byPerson)
	}
}

func TestMarkDebtPaid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreateDebt(t, s, payableInput(80, "Luis", nil))
	if err := s.MarkDebtPaid(ctx, id); err != nil {
		t.Fatalf("failed to mark paid: %v", err)
	}

	d, err := s.GetDebt(ctx, id)
	if err != nil {
		t.Fatalf("failed to get debt: %v", err)
	}
	if d.Status != model.StatusPaid {
		t.Errorf("status = %q, want paid", d.Status)
	}

	// Already-paid debts are no longer pending, so a second call misses.
	if err := s.MarkDebtPaid(ctx, id); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second mark, got %v", err)
	}
}

func TestDebtSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	overdueDate := time.Now().AddDate(0, 0, -3)
	mustCreateDebt(t, s, payableInput(200, "Carlos", &overdueDate))
	mustCreateDebt(t, s, model.DebtInput{
		Kind:         model.KindReceivable,
		Counterparty: "María",
		Amount:       500,
		Concept:      "Factura pendiente",
	})
	paidID := mustCreateDebt(t, s, payableInput(999, "Luis", nil))
	if err := s.MarkDebtPaid(ctx, paidID); err != nil {
		t.Fatalf("failed to settle debt: %v", err)
	}

	sum, err := s.DebtSummary(ctx)
	if err != nil {
		t.Fatalf("failed to summarize: %v", err)
	}
	if sum.PendingPayables != 200 {
		t.Errorf("pending payables = %v, want 200", sum.PendingPayables)
	}
	if sum.PendingReceivables != 500 {
		t.Errorf("pending receivables = %v, want 500", sum.PendingReceivables)
	}
	if sum.NetBalance != 300 {
		t.Errorf("net balance = %v, want 300", sum.NetBalance)
	}
	if sum.OverdueCount != 1 {
		t.Errorf("overdue count = %d, want 1", sum.OverdueCount)
	}
}

func TestUpcomingDebts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 3)
	far := time.Now().AddDate(0, 0, 45)
	past := time.Now().AddDate(0, 0, -2)
	mustCreateDebt(t, s, payableInput(100, "Pronto", &soon))
	mustCreateDebt(t, s, payableInput(200, "Lejos", &far))
	mustCreateDebt(t, s, payableInput(300, "Vencida", &past))

	upcoming, err := s.UpcomingDebts(ctx, 7)
	if err != nil {
		t.Fatalf("failed to list upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Counterparty != "Pronto" {
		t.Errorf("unexpected upcoming debts: %+v", upcoming)
	}
}

func TestDebtOverdueDerivation(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	yesterday := now.AddDate(0, 0, -1)
	today := now
	d := model.Debt{Status: model.StatusPending, DueDate: &yesterday}
	if !d.Overdue(now) {
		t.Error("pending debt due yesterday should be overdue")
	}

	d.DueDate = &today
	if d.Overdue(now) {
		t.Error("debt due today is not yet overdue")
	}

	d.DueDate = &yesterday
	d.Status = model.StatusPaid
	if d.Overdue(now) {
		t.Error("paid debt is never overdue")
	}
}
