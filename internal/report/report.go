// Package report aggregates ledger rows into budget summaries, category
// breakdowns and month-bucketed series.
package report

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"paisa/internal/core"
	"paisa/internal/storage"
)

// AlertLevel classifies total expense against the monthly budget. Tiers are
// mutually exclusive, evaluated exceeded > warning > within.
type AlertLevel string

const (
	AlertExceeded AlertLevel = "exceeded"
	AlertWarning  AlertLevel = "warning"
	AlertWithin   AlertLevel = "within_budget"
)

// warningThreshold is the budget share above which the warning tier fires.
const warningThreshold = 0.8

type Summary struct {
	TotalIncome  core.Money
	TotalExpense core.Money
	Savings      core.Money
	Budget       core.Money

	// BudgetUsedPct is undefined when HasBudgetPct is false (zero budget).
	BudgetUsedPct float64
	HasBudgetPct  bool

	Alert     AlertLevel
	Overage   core.Money // set when Alert == AlertExceeded
	Remaining core.Money // set when Alert == AlertWithin
}

// TrendPoint is one month on the combined income-vs-expense axis.
type TrendPoint struct {
	Month   string
	Expense core.Money
	Income  core.Money
}

type Trend struct {
	ExpenseByMonth []core.MonthTotal
	IncomeByMonth  []core.MonthTotal
	// Combined is the sorted union of months present in either series,
	// with zero filled in for a series missing a month.
	Combined []TrendPoint
}

type Service struct {
	repo *storage.SQLiteRepository
}

func NewService(repo *storage.SQLiteRepository) *Service {
	return &Service{repo: repo}
}

// Summary computes totals, savings and the budget alert tier. An empty
// ledger yields zero totals, not an error.
func (s *Service) Summary(ctx context.Context, userID int64, budget core.Money) (Summary, error) {
	var incomeCents, expenseCents int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomeCents, err = s.repo.TotalIncomeCents(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenseCents, err = s.repo.TotalExpenseCents(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		TotalIncome:  core.Money{Cents: incomeCents},
		TotalExpense: core.Money{Cents: expenseCents},
		Savings:      core.Money{Cents: incomeCents - expenseCents},
		Budget:       budget,
	}
	if budget.Cents > 0 {
		sum.BudgetUsedPct = float64(expenseCents) / float64(budget.Cents) * 100
		sum.HasBudgetPct = true
	}

	switch {
	case expenseCents > budget.Cents:
		sum.Alert = AlertExceeded
		sum.Overage = core.Money{Cents: expenseCents - budget.Cents}
	case float64(expenseCents) > float64(budget.Cents)*warningThreshold:
		sum.Alert = AlertWarning
	default:
		sum.Alert = AlertWithin
		sum.Remaining = core.Money{Cents: budget.Cents - expenseCents}
	}

	return sum, nil
}

// CategoryBreakdown groups expenses by category, largest total first.
func (s *Service) CategoryBreakdown(ctx context.Context, userID int64) ([]core.CategoryTotal, error) {
	return s.repo.CategorySums(ctx, userID)
}

// MonthlyTrend loads both month-bucketed series and aligns them on the
// union of their month axes.
func (s *Service) MonthlyTrend(ctx context.Context, userID int64) (Trend, error) {
	var trend Trend

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trend.ExpenseByMonth, err = s.repo.MonthlyExpenseSums(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		trend.IncomeByMonth, err = s.repo.MonthlyIncomeSums(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Trend{}, err
	}

	trend.Combined = combine(trend.ExpenseByMonth, trend.IncomeByMonth)
	return trend, nil
}

func combine(expense, income []core.MonthTotal) []TrendPoint {
	expByMonth := make(map[string]core.Money, len(expense))
	for _, mt := range expense {
		expByMonth[mt.Month] = mt.Amount
	}
	incByMonth := make(map[string]core.Money, len(income))
	for _, mt := range income {
		incByMonth[mt.Month] = mt.Amount
	}

	months := make([]string, 0, len(expByMonth)+len(incByMonth))
	seen := make(map[string]bool)
	for m := range expByMonth {
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	for m := range incByMonth {
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Strings(months)

	points := make([]TrendPoint, len(months))
	for i, m := range months {
		points[i] = TrendPoint{
			Month:   m,
			Expense: expByMonth[m], // zero value when absent
			Income:  incByMonth[m],
		}
	}
	return points
}
