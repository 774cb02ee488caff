package session

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paisa/internal/advisory"
	"paisa/internal/auth"
	"paisa/internal/core"
	"paisa/internal/ledger"
	"paisa/internal/log"
	"paisa/internal/report"
	"paisa/internal/storage"
)

// scriptPrompter replays canned answers instead of reading a terminal.
type scriptPrompter struct {
	answers []string
	pos     int
}

func (p *scriptPrompter) Line(string) (string, error) {
	if p.pos >= len(p.answers) {
		return "", io.EOF
	}
	a := p.answers[p.pos]
	p.pos++
	return a, nil
}

func (p *scriptPrompter) Confirm(string) (bool, error) {
	a, err := p.Line("")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(a, "yes"), nil
}

type stubViewer struct {
	calls int
}

func (v *stubViewer) Show([]core.CategoryTotal, report.Trend) error {
	v.calls++
	return nil
}

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, nil
}

type harness struct {
	repo    *storage.SQLiteRepository
	ledger  *ledger.Service
	viewer  *stubViewer
	out     *bytes.Buffer
	answers []string
}

func (h *harness) run(t *testing.T) (int, string) {
	t.Helper()
	quiet := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	ctrl := New(
		auth.NewService(h.repo),
		h.ledger,
		report.NewService(h.repo),
		advisory.NewService(h.repo, &stubGenerator{reply: "stub advice"}, time.Second),
		h.viewer,
		&scriptPrompter{answers: h.answers},
		h.out,
		quiet,
	)
	code := ctrl.Run(context.Background())
	return code, h.out.String()
}

func newHarness(t *testing.T, answers ...string) *harness {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "paisa.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return &harness{
		repo:    repo,
		ledger:  ledger.NewService(repo),
		viewer:  &stubViewer{},
		out:     &bytes.Buffer{},
		answers: answers,
	}
}

func registerUser(t *testing.T, h *harness, username, secret string) core.User {
	t.Helper()
	u, err := auth.NewService(h.repo).Register(context.Background(), username, secret, secret, core.Money{Cents: 100000})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestRegisterLoginExit(t *testing.T) {
	h := newHarness(t,
		"1",                                         // sign up
		"alice", "hunter22", "hunter22", "1000",     // registration
		"alice", "hunter22",                         // login
		"12",                                        // exit
	)
	code, out := h.run(t)

	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "User 'alice' created successfully.") {
		t.Fatalf("missing registration confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Welcome back, alice!") {
		t.Fatalf("missing login greeting:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Fatalf("missing exit message:\n%s", out)
	}
}

func TestFailedLoginExitsNonzero(t *testing.T) {
	h := newHarness(t,
		"2",               // login only
		"ghost", "nope00", // unknown identity
	)
	code, out := h.run(t)

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "Login failed") {
		t.Fatalf("missing failure message:\n%s", out)
	}
}

func TestAddAndViewExpense(t *testing.T) {
	h := newHarness(t,
		"2", "bob", "hunter22",
		"1", "2025-04-01", "Food", "45.50", "groceries", // add expense
		"3",  // view expenses
		"12", // exit
	)
	registerUser(t, h, "bob", "hunter22")

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Expense added successfully.") {
		t.Fatalf("missing add confirmation:\n%s", out)
	}
	for _, want := range []string{"2025-04-01", "Food", "₹45.50", "groceries"} {
		if !strings.Contains(out, want) {
			t.Fatalf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestDeleteDeclinedIsNoOp(t *testing.T) {
	h := newHarness(t,
		"2", "carol", "hunter22",
		"7", "1", "no", // delete expense 1, decline
		"12",
	)
	u := registerUser(t, h, "carol", "hunter22")
	if _, err := h.ledger.AddExpense(context.Background(), u.ID, "2025-04-01", "Food", "10", ""); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Deletion cancelled.") {
		t.Fatalf("missing cancellation message:\n%s", out)
	}

	left, err := h.ledger.Expenses(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("declined delete must leave the ledger unchanged, %d rows left", len(left))
	}
}

func TestDeleteConfirmedRemovesRecord(t *testing.T) {
	h := newHarness(t,
		"2", "dave", "hunter22",
		"7", "1", "yes",
		"12",
	)
	u := registerUser(t, h, "dave", "hunter22")
	if _, err := h.ledger.AddExpense(context.Background(), u.ID, "2025-04-01", "Food", "10", ""); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Expense deleted successfully.") {
		t.Fatalf("missing delete confirmation:\n%s", out)
	}

	left, err := h.ledger.Expenses(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("confirmed delete should remove the record, %d rows left", len(left))
	}
}

func TestEditExpenseKeepsUnspecifiedFields(t *testing.T) {
	h := newHarness(t,
		"2", "erin", "hunter22",
		"5", "1", "", "", "60", "", // edit: only the amount changes
		"12",
	)
	u := registerUser(t, h, "erin", "hunter22")
	if _, err := h.ledger.AddExpense(context.Background(), u.ID, "2025-04-01", "Food", "45.50", "groceries"); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	code, _ := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	got, err := h.ledger.Expense(context.Background(), u.ID, 1)
	if err != nil {
		t.Fatalf("Expense: %v", err)
	}
	if got.Amount.Cents != 6000 {
		t.Fatalf("amount = %d cents, want 6000", got.Amount.Cents)
	}
	if got.Date.String() != "2025-04-01" || got.Category != "Food" || got.Description != "groceries" {
		t.Fatalf("unspecified fields changed: %+v", got)
	}
}

func TestInvalidMenuChoiceReprompts(t *testing.T) {
	h := newHarness(t,
		"2", "frank", "hunter22",
		"99", // not a menu entry
		"12",
	)
	registerUser(t, h, "frank", "hunter22")

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Invalid choice") {
		t.Fatalf("missing invalid-choice report:\n%s", out)
	}
}

func TestSummaryOutput(t *testing.T) {
	h := newHarness(t,
		"2", "gina", "hunter22",
		"9",
		"12",
	)
	u := registerUser(t, h, "gina", "hunter22") // budget 1000
	ctx := context.Background()
	if _, err := h.ledger.AddIncome(ctx, u.ID, "2025-04-01", "1000", ""); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if _, err := h.ledger.AddExpense(ctx, u.ID, "2025-04-02", "Food", "1200", ""); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	for _, want := range []string{
		"Net Savings:    -₹200.00",
		"monthly budget exceeded by ₹200.00",
		"Budget Used:    120.0%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestChartsActionUsesViewer(t *testing.T) {
	h := newHarness(t,
		"2", "hana", "hunter22",
		"10",
		"12",
	)
	u := registerUser(t, h, "hana", "hunter22")
	if _, err := h.ledger.AddExpense(context.Background(), u.ID, "2025-04-01", "Food", "10", ""); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	if code, _ := h.run(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if h.viewer.calls != 1 {
		t.Fatalf("chart viewer calls = %d, want 1", h.viewer.calls)
	}
}

func TestChartsActionEmptyLedgerSkipsViewer(t *testing.T) {
	h := newHarness(t,
		"2", "iris", "hunter22",
		"10",
		"12",
	)
	registerUser(t, h, "iris", "hunter22")

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if h.viewer.calls != 0 {
		t.Fatal("viewer must not launch for an empty ledger")
	}
	if !strings.Contains(out, "No expenses to visualize.") {
		t.Fatalf("missing empty-ledger message:\n%s", out)
	}
}

func TestInsightsRelayed(t *testing.T) {
	h := newHarness(t,
		"2", "judy", "hunter22",
		"11",
		"12",
	)
	u := registerUser(t, h, "judy", "hunter22")
	if _, err := h.ledger.AddExpense(context.Background(), u.ID, "2025-04-01", "Food", "10", ""); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "stub advice") {
		t.Fatalf("advisory text not relayed:\n%s", out)
	}
}

func TestInsightsWithoutExpensesReportsError(t *testing.T) {
	h := newHarness(t,
		"2", "kate", "hunter22",
		"11",
		"12",
	)
	registerUser(t, h, "kate", "hunter22")

	code, out := h.run(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, core.ErrInsufficientData.Error()) {
		t.Fatalf("missing insufficient-data report:\n%s", out)
	}
}
