// Package ledger implements create/read/update/delete over expense and
// income records, always scoped to one identity.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"paisa/internal/core"
	"paisa/internal/storage"
)

type Service struct {
	repo *storage.SQLiteRepository
}

func NewService(repo *storage.SQLiteRepository) *Service {
	return &Service{repo: repo}
}

// ExpensePatch carries the fields of an edit; nil fields keep the stored
// value. Date and Amount arrive as raw strings and are validated with the
// same rules as creation.
type ExpensePatch struct {
	Date        *string
	Category    *string
	Amount      *string
	Description *string
}

// IncomePatch is ExpensePatch without a category.
type IncomePatch struct {
	Date        *string
	Amount      *string
	Description *string
}

// AddExpense validates and appends a new expense. An empty date defaults
// to today.
func (s *Service) AddExpense(ctx context.Context, userID int64, date, category, amount, description string) (core.Expense, error) {
	d, err := parseDateOrToday(date)
	if err != nil {
		return core.Expense{}, err
	}
	m, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:        d,
		Category:    strings.TrimSpace(category),
		Amount:      m,
		Description: strings.TrimSpace(description),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.repo.CreateExpense(ctx, userID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	e.ID = id
	return e, nil
}

// AddIncome validates and appends a new income record. An empty date
// defaults to today.
func (s *Service) AddIncome(ctx context.Context, userID int64, date, amount, description string) (core.Income, error) {
	d, err := parseDateOrToday(date)
	if err != nil {
		return core.Income{}, err
	}
	m, err := core.ParseAmount(amount)
	if err != nil {
		return core.Income{}, err
	}

	in := core.Income{
		Date:        d,
		Amount:      m,
		Description: strings.TrimSpace(description),
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	id, err := s.repo.CreateIncome(ctx, userID, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("add income: %w", err)
	}
	in.ID = id
	return in, nil
}

// Expenses lists the identity's expenses, newest date first.
func (s *Service) Expenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.repo.ExpensesByUser(ctx, userID)
}

// Income lists the identity's income records, newest date first.
func (s *Service) Income(ctx context.Context, userID int64) ([]core.Income, error) {
	return s.repo.IncomeByUser(ctx, userID)
}

// Expense loads a single expense under the ownership rule.
func (s *Service) Expense(ctx context.Context, userID, id int64) (*core.Expense, error) {
	return s.repo.ExpenseByID(ctx, userID, id)
}

// IncomeRecord loads a single income record under the ownership rule.
func (s *Service) IncomeRecord(ctx context.Context, userID, id int64) (*core.Income, error) {
	return s.repo.IncomeByID(ctx, userID, id)
}

// UpdateExpense applies a patch to an existing expense. A record that is
// absent or owned by another identity yields core.ErrNotFound; wrong and
// missing ids are deliberately indistinguishable.
func (s *Service) UpdateExpense(ctx context.Context, userID, id int64, patch ExpensePatch) (core.Expense, error) {
	cur, err := s.repo.ExpenseByID(ctx, userID, id)
	if err != nil {
		return core.Expense{}, err
	}

	e := *cur
	if patch.Date != nil {
		if e.Date, err = core.ParseDate(*patch.Date); err != nil {
			return core.Expense{}, err
		}
	}
	if patch.Category != nil {
		e.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Amount != nil {
		if e.Amount, err = core.ParseAmount(*patch.Amount); err != nil {
			return core.Expense{}, err
		}
	}
	if patch.Description != nil {
		e.Description = strings.TrimSpace(*patch.Description)
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.repo.UpdateExpense(ctx, userID, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// UpdateIncome applies a patch to an existing income record under the same
// rules as UpdateExpense.
func (s *Service) UpdateIncome(ctx context.Context, userID, id int64, patch IncomePatch) (core.Income, error) {
	cur, err := s.repo.IncomeByID(ctx, userID, id)
	if err != nil {
		return core.Income{}, err
	}

	in := *cur
	if patch.Date != nil {
		if in.Date, err = core.ParseDate(*patch.Date); err != nil {
			return core.Income{}, err
		}
	}
	if patch.Amount != nil {
		if in.Amount, err = core.ParseAmount(*patch.Amount); err != nil {
			return core.Income{}, err
		}
	}
	if patch.Description != nil {
		in.Description = strings.TrimSpace(*patch.Description)
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	if err := s.repo.UpdateIncome(ctx, userID, in); err != nil {
		return core.Income{}, err
	}
	return in, nil
}

// DeleteExpense removes one expense under the ownership rule. The yes/no
// confirmation gate lives with the caller; a declined confirmation never
// reaches this method.
func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteExpense(ctx, userID, id)
}

// DeleteIncome removes one income record under the ownership rule.
func (s *Service) DeleteIncome(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteIncome(ctx, userID, id)
}

func parseDateOrToday(date string) (core.Date, error) {
	if strings.TrimSpace(date) == "" {
		return core.Today(), nil
	}
	return core.ParseDate(date)
}
