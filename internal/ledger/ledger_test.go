package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"paisa/internal/core"
	"paisa/internal/storage"
)

func newTestLedger(t *testing.T) (*Service, int64) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "paisa.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	userID, err := repo.CreateUser(context.Background(), "tester", "hash", 100000)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return NewService(repo), userID
}

func strPtr(s string) *string { return &s }

func TestAddExpenseThenList(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	added, err := svc.AddExpense(ctx, userID, "2025-04-01", "Food", "45.50", "groceries")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if added.ID == 0 {
		t.Fatal("expected a fresh identifier")
	}

	list, err := svc.Expenses(ctx, userID)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(list))
	}
	got := list[0]
	if got.Date.String() != "2025-04-01" || got.Category != "Food" ||
		got.Amount.Cents != 4550 || got.Description != "groceries" {
		t.Fatalf("listed record differs from added one: %+v", got)
	}
}

func TestAddExpenseDefaultsToToday(t *testing.T) {
	svc, userID := newTestLedger(t)

	added, err := svc.AddExpense(context.Background(), userID, "", "Food", "10", "")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if added.Date.String() != core.Today().String() {
		t.Fatalf("empty date should default to today, got %s", added.Date)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	cases := []struct {
		name                   string
		date, category, amount string
	}{
		{"bad date", "01-04-2025", "Food", "10"},
		{"zero amount", "2025-04-01", "Food", "0"},
		{"negative amount", "2025-04-01", "Food", "-5"},
		{"malformed amount", "2025-04-01", "Food", "ten"},
		{"empty category", "2025-04-01", "  ", "10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddExpense(ctx, userID, tc.date, tc.category, tc.amount, "")
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	list, err := svc.Expenses(ctx, userID)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected inputs must not be persisted, found %d rows", len(list))
	}
}

func TestAddIncome(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	in, err := svc.AddIncome(ctx, userID, "2025-04-05", "5000", "salary")
	if err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if in.Amount.Cents != 500000 {
		t.Fatalf("amount = %d cents", in.Amount.Cents)
	}

	if _, err := svc.AddIncome(ctx, userID, "2025-04-05", "0", ""); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero amount, got %v", err)
	}
}

func TestUpdateExpenseEmptyPatchKeepsRecord(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	added, err := svc.AddExpense(ctx, userID, "2025-04-01", "Food", "45.50", "groceries")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	updated, err := svc.UpdateExpense(ctx, userID, added.ID, ExpensePatch{})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated != added {
		t.Fatalf("empty patch must leave the record identical:\n got %+v\nwant %+v", updated, added)
	}
}

func TestUpdateExpensePartialPatch(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	added, err := svc.AddExpense(ctx, userID, "2025-04-01", "Food", "45.50", "groceries")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	updated, err := svc.UpdateExpense(ctx, userID, added.ID, ExpensePatch{Amount: strPtr("60")})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Amount.Cents != 6000 {
		t.Fatalf("amount not updated: %d", updated.Amount.Cents)
	}
	if updated.Category != "Food" || updated.Date.String() != "2025-04-01" || updated.Description != "groceries" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateExpenseRevalidates(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	added, err := svc.AddExpense(ctx, userID, "2025-04-01", "Food", "45.50", "")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	if _, err := svc.UpdateExpense(ctx, userID, added.ID, ExpensePatch{Amount: strPtr("-1")}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative amount, got %v", err)
	}
	if _, err := svc.UpdateExpense(ctx, userID, added.ID, ExpensePatch{Date: strPtr("not-a-date")}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}

	// Failed patches must not change the stored row.
	cur, err := svc.Expense(ctx, userID, added.ID)
	if err != nil {
		t.Fatalf("Expense: %v", err)
	}
	if *cur != added {
		t.Fatalf("record changed after rejected patch: %+v", cur)
	}
}

func TestUpdateMissingOrForeignExpense(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	if _, err := svc.UpdateExpense(ctx, userID, 999, ExpensePatch{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateIncomePatch(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	added, err := svc.AddIncome(ctx, userID, "2025-04-05", "5000", "salary")
	if err != nil {
		t.Fatalf("AddIncome: %v", err)
	}

	updated, err := svc.UpdateIncome(ctx, userID, added.ID, IncomePatch{Description: strPtr("april salary")})
	if err != nil {
		t.Fatalf("UpdateIncome: %v", err)
	}
	if updated.Description != "april salary" || updated.Amount.Cents != 500000 {
		t.Fatalf("patch misapplied: %+v", updated)
	}
}

func TestDeleteExpense(t *testing.T) {
	svc, userID := newTestLedger(t)
	ctx := context.Background()

	added, err := svc.AddExpense(ctx, userID, "2025-04-01", "Food", "10", "")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	if err := svc.DeleteExpense(ctx, userID, added.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := svc.DeleteExpense(ctx, userID, added.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}
