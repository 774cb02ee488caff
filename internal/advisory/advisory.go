// Package advisory forwards recent expenses to an external generative-text
// endpoint and relays its answer verbatim.
package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"paisa/internal/core"
	"paisa/internal/storage"
)

// recentWindow is how many of the most recent expenses go into the prompt.
const recentWindow = 30

// TextGenerator is the outbound boundary: one prompt in, free text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	repo    *storage.SQLiteRepository
	gen     TextGenerator
	timeout time.Duration
}

// NewService builds the advisory service. gen may be nil when no endpoint is
// configured; Insights then reports core.ErrAdvisoryUnavailable.
func NewService(repo *storage.SQLiteRepository, gen TextGenerator, timeout time.Duration) *Service {
	return &Service{repo: repo, gen: gen, timeout: timeout}
}

// Insights asks the external model for savings advice over the identity's
// recent expenses. An empty expense ledger yields core.ErrInsufficientData
// before any outbound call; endpoint failures yield
// core.ErrAdvisoryUnavailable and never abort the session.
func (s *Service) Insights(ctx context.Context, userID int64, budget core.Money) (string, error) {
	expenses, err := s.repo.RecentExpenses(ctx, userID, recentWindow)
	if err != nil {
		return "", fmt.Errorf("load recent expenses: %w", err)
	}
	if len(expenses) == 0 {
		return "", fmt.Errorf("%w: no expenses recorded yet", core.ErrInsufficientData)
	}
	if s.gen == nil {
		return "", fmt.Errorf("%w: no API key configured", core.ErrAdvisoryUnavailable)
	}

	prompt := buildPrompt(budget, expenses)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.gen.Generate(callCtx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "Advisory call failed", "error", err, "expenses", len(expenses))
		return "", fmt.Errorf("%w: %w", core.ErrAdvisoryUnavailable, err)
	}

	slog.InfoContext(ctx, "Advisory call succeeded",
		"expenses", len(expenses),
		"duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

// buildPrompt serializes each expense as a flat line and embeds them, with
// the monthly budget, into the fixed advisor instruction template.
func buildPrompt(budget core.Money, expenses []core.Expense) string {
	var lines strings.Builder
	for _, e := range expenses {
		fmt.Fprintf(&lines, "Date : %s, Category : %s, Amount : %s, Description : %s\n",
			e.Date, e.Category, e.Amount, e.Description)
	}

	return fmt.Sprintf(`You are a personal finance advisor.

Monthly budget: %s

Below are the user's recent expenses.

Tasks:
1. Identify unnecessary or avoidable expenses.
2. Explain why they are unnecessary.
3. Suggest 3 clear ways to increase savings.

Keep the advice short, practical, and beginner-friendly.

Expenses:
%s`, budget, lines.String())
}
