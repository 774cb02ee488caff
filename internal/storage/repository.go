package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paisa/internal/core"

	_ "modernc.org/sqlite"
)

// UserRecord is the stored form of an identity, including the password hash
// which never leaves the auth layer.
type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	BudgetCents  int64
	CreatedAt    time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Cascade from users to ledger rows depends on this pragma.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser persists a new identity. A username collision surfaces as
// core.ErrDuplicateIdentity.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string, budgetCents int64) (int64, error) {
	const query = `INSERT INTO users (username, password_hash, monthly_budget_cents) VALUES (?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, username, passwordHash, budgetCents)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, core.ErrDuplicateIdentity
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)
	return id, nil
}

// UserByUsername loads an identity by exact username match.
func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	const query = `SELECT id, username, password_hash, monthly_budget_cents, created_at
		FROM users WHERE username = ?`

	var u UserRecord
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.BudgetCents, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// CountUsersByUsername exists for invariant checks in tests.
func (r *SQLiteRepository) CountUsersByUsername(ctx context.Context, username string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, userID int64, e core.Expense) (int64, error) {
	const query = `INSERT INTO expenses (user_id, date, category, amount_cents, description)
		VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, userID, e.Date.String(), e.Category, e.Amount.Cents, e.Description)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", userID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())
	return id, nil
}

// ExpensesByUser returns all expenses for one identity, newest date first,
// insertion order breaking ties.
func (r *SQLiteRepository) ExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	const query = `SELECT id, date, category, amount_cents, description
		FROM expenses WHERE user_id = ? ORDER BY date DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// RecentExpenses returns at most limit expenses, most recent date first.
func (r *SQLiteRepository) RecentExpenses(ctx context.Context, userID int64, limit int) ([]core.Expense, error) {
	const query = `SELECT id, date, category, amount_cents, description
		FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// ExpenseByID loads one expense scoped to its owner. An id owned by another
// identity is indistinguishable from a missing one.
func (r *SQLiteRepository) ExpenseByID(ctx context.Context, userID, id int64) (*core.Expense, error) {
	const query = `SELECT id, date, category, amount_cents, description
		FROM expenses WHERE id = ? AND user_id = ?`

	var (
		e       core.Expense
		dateStr string
		desc    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&e.ID, &dateStr, &e.Category, &e.Amount.Cents, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query expense: %w", err)
	}
	e.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored expense date %q: %w", dateStr, err)
	}
	e.Description = desc.String
	return &e, nil
}

// UpdateExpense writes every field of the row in a single statement.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, userID int64, e core.Expense) error {
	const query = `UPDATE expenses SET date = ?, category = ?, amount_cents = ?, description = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, e.Date.String(), e.Category, e.Amount.Cents, e.Description, e.ID, userID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, userID int64, in core.Income) (int64, error) {
	const query = `INSERT INTO income (user_id, date, amount_cents, description) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, userID, in.Date.String(), in.Amount.Cents, in.Description)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", id,
		"user_id", userID,
		"amount_cents", in.Amount.Cents,
		"date", in.Date.String())
	return id, nil
}

func (r *SQLiteRepository) IncomeByUser(ctx context.Context, userID int64) ([]core.Income, error) {
	const query = `SELECT id, date, amount_cents, description
		FROM income WHERE user_id = ? ORDER BY date DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query income: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			in      core.Income
			dateStr string
			desc    sql.NullString
		)
		if err := rows.Scan(&in.ID, &dateStr, &in.Amount.Cents, &desc); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("stored income date %q: %w", dateStr, err)
		}
		in.Description = desc.String
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) IncomeByID(ctx context.Context, userID, id int64) (*core.Income, error) {
	const query = `SELECT id, date, amount_cents, description
		FROM income WHERE id = ? AND user_id = ?`

	var (
		in      core.Income
		dateStr string
		desc    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&in.ID, &dateStr, &in.Amount.Cents, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query income: %w", err)
	}
	in.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored income date %q: %w", dateStr, err)
	}
	in.Description = desc.String
	return &in, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, userID int64, in core.Income) error {
	const query = `UPDATE income SET date = ?, amount_cents = ?, description = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, in.Date.String(), in.Amount.Cents, in.Description, in.ID, userID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM income WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Income deleted", "id", id, "user_id", userID)
	return nil
}

// TotalExpenseCents sums all expenses for the identity; an empty ledger is 0.
func (r *SQLiteRepository) TotalExpenseCents(ctx context.Context, userID int64) (int64, error) {
	return r.sumCents(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE user_id = ?`, userID)
}

// TotalIncomeCents sums all income for the identity; an empty ledger is 0.
func (r *SQLiteRepository) TotalIncomeCents(ctx context.Context, userID int64) (int64, error) {
	return r.sumCents(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM income WHERE user_id = ?`, userID)
}

// CategorySums groups expenses by category, largest total first.
func (r *SQLiteRepository) CategorySums(ctx context.Context, userID int64) ([]core.CategoryTotal, error) {
	const query = `SELECT category, SUM(amount_cents) AS total
		FROM expenses WHERE user_id = ?
		GROUP BY category ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query category sums: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// MonthlyExpenseSums groups expenses into year-month buckets, oldest first.
func (r *SQLiteRepository) MonthlyExpenseSums(ctx context.Context, userID int64) ([]core.MonthTotal, error) {
	return r.monthlySums(ctx, "expenses", userID)
}

// MonthlyIncomeSums groups income into year-month buckets, oldest first.
func (r *SQLiteRepository) MonthlyIncomeSums(ctx context.Context, userID int64) ([]core.MonthTotal, error) {
	return r.monthlySums(ctx, "income", userID)
}

func (r *SQLiteRepository) monthlySums(ctx context.Context, table string, userID int64) ([]core.MonthTotal, error) {
	// Dates are stored as ISO text, so the month bucket is a prefix.
	query := fmt.Sprintf(`SELECT substr(date, 1, 7) AS month, SUM(amount_cents)
		FROM %s WHERE user_id = ?
		GROUP BY month ORDER BY month ASC`, table)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query monthly sums: %w", err)
	}
	defer rows.Close()

	var out []core.MonthTotal
	for rows.Next() {
		var mt core.MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly sum: %w", err)
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) sumCents(ctx context.Context, query string, userID int64) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("query total: %w", err)
	}
	return total, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
			desc    sql.NullString
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Category, &e.Amount.Cents, &desc); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored expense date %q: %w", dateStr, err)
		}
		e.Date = d
		e.Description = desc.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
