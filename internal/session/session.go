// Package session drives the interactive loop: it authenticates one
// identity, then dispatches menu selections to the ledger, reporting and
// advisory services until the user exits.
package session

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"paisa/internal/advisory"
	"paisa/internal/auth"
	"paisa/internal/core"
	"paisa/internal/ledger"
	"paisa/internal/log"
	"paisa/internal/report"
)

// ChartViewer is the interactive display surface for the three charts.
type ChartViewer interface {
	Show(breakdown []core.CategoryTotal, trend report.Trend) error
}

type Controller struct {
	auth    *auth.Service
	ledger  *ledger.Service
	reports *report.Service
	advisor *advisory.Service
	charts  ChartViewer
	prompt  Prompter
	out     io.Writer
	logger  *log.Logger

	user core.User
}

func New(
	authSvc *auth.Service,
	ledgerSvc *ledger.Service,
	reportSvc *report.Service,
	advisorSvc *advisory.Service,
	charts ChartViewer,
	prompt Prompter,
	out io.Writer,
	logger *log.Logger,
) *Controller {
	return &Controller{
		auth:    authSvc,
		ledger:  ledgerSvc,
		reports: reportSvc,
		advisor: advisorSvc,
		charts:  charts,
		prompt:  prompt,
		out:     out,
		logger:  logger,
	}
}

// Run walks the Unauthenticated -> Authenticated -> Terminated states and
// returns the process exit code: 0 on a normal exit, nonzero when login
// fails at startup.
func (c *Controller) Run(ctx context.Context) int {
	fmt.Fprintln(c.out, "==== Paisa — personal finance tracker ====")

	fmt.Fprintln(c.out, "\n1. Sign Up (new user)")
	fmt.Fprintln(c.out, "2. Login (existing user)")
	choice, err := c.prompt.Line("\nChoose option: ")
	if err != nil {
		return 1
	}
	if choice == "1" {
		c.register(ctx)
	}

	if !c.login(ctx) {
		fmt.Fprintln(c.out, "Login failed. Exiting.")
		return 1
	}

	c.logger.InfoContext(ctx, "Session authenticated",
		log.FieldUserID, c.user.ID, log.FieldUsername, c.user.Username)

	for {
		c.printMenu()
		choice, err := c.prompt.Line("Choose option (1-12): ")
		if err != nil {
			return 1
		}
		if choice == "12" {
			fmt.Fprintln(c.out, "Goodbye!")
			c.logger.InfoContext(ctx, "Session terminated", log.FieldUserID, c.user.ID)
			return 0
		}
		c.dispatch(ctx, choice)
	}
}

func (c *Controller) register(ctx context.Context) {
	fmt.Fprintln(c.out, "\n---- Registration ----")
	username, err := c.prompt.Line("Enter username: ")
	if err != nil {
		return
	}
	secret, err := c.prompt.Line("Enter password: ")
	if err != nil {
		return
	}
	confirm, err := c.prompt.Line("Confirm password: ")
	if err != nil {
		return
	}
	budgetStr, err := c.prompt.Line("Enter monthly budget: ")
	if err != nil {
		return
	}

	budget, err := core.ParseAmount(budgetStr)
	if err != nil {
		c.report(err)
		return
	}
	u, err := c.auth.Register(ctx, username, secret, confirm, budget)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintf(c.out, "User '%s' created successfully.\n", u.Username)
}

func (c *Controller) login(ctx context.Context) bool {
	fmt.Fprintln(c.out, "\n---- Login ----")
	username, err := c.prompt.Line("Username: ")
	if err != nil {
		return false
	}
	secret, err := c.prompt.Line("Password: ")
	if err != nil {
		return false
	}

	user, err := c.auth.Authenticate(ctx, username, secret)
	if err != nil {
		c.report(err)
		return false
	}
	c.user = user
	fmt.Fprintf(c.out, "Welcome back, %s!\n", user.Username)
	return true
}

func (c *Controller) printMenu() {
	fmt.Fprint(c.out, `
==== MAIN MENU ====
1.  Add Expense
2.  Add Income
3.  View All Expenses
4.  View All Income
5.  Edit Expense
6.  Edit Income
7.  Delete Expense
8.  Delete Income
9.  View Summary & Savings
10. Show Charts
11. AI Insights
12. Exit
`)
}

func (c *Controller) dispatch(ctx context.Context, choice string) {
	switch choice {
	case "1":
		c.addExpense(ctx)
	case "2":
		c.addIncome(ctx)
	case "3":
		c.viewExpenses(ctx)
	case "4":
		c.viewIncome(ctx)
	case "5":
		c.editExpense(ctx)
	case "6":
		c.editIncome(ctx)
	case "7":
		c.deleteExpense(ctx)
	case "8":
		c.deleteIncome(ctx)
	case "9":
		c.summary(ctx)
	case "10":
		c.showCharts(ctx)
	case "11":
		c.insights(ctx)
	default:
		fmt.Fprintln(c.out, "Invalid choice. Please select 1-12.")
	}
}

func (c *Controller) addExpense(ctx context.Context) {
	date, err := c.prompt.Line("Date (YYYY-MM-DD) or press Enter for today: ")
	if err != nil {
		return
	}
	category, err := c.prompt.Line("Category (Food/Transport/Shopping/Bills/Entertainment/Other): ")
	if err != nil {
		return
	}
	amount, err := c.prompt.Line("Amount: ")
	if err != nil {
		return
	}
	description, err := c.prompt.Line("Description: ")
	if err != nil {
		return
	}

	if _, err := c.ledger.AddExpense(ctx, c.user.ID, date, category, amount, description); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Expense added successfully.")
}

func (c *Controller) addIncome(ctx context.Context) {
	date, err := c.prompt.Line("Date (YYYY-MM-DD) or press Enter for today: ")
	if err != nil {
		return
	}
	amount, err := c.prompt.Line("Income amount: ")
	if err != nil {
		return
	}
	description, err := c.prompt.Line("Description: ")
	if err != nil {
		return
	}

	if _, err := c.ledger.AddIncome(ctx, c.user.ID, date, amount, description); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Income added successfully.")
}

func (c *Controller) viewExpenses(ctx context.Context) {
	expenses, err := c.ledger.Expenses(ctx, c.user.ID)
	if err != nil {
		c.report(err)
		return
	}
	if len(expenses) == 0 {
		fmt.Fprintln(c.out, "No expenses found.")
		return
	}

	fmt.Fprintf(c.out, "\n%-5s %-12s %-15s %-12s %-30s\n", "ID", "Date", "Category", "Amount", "Description")
	fmt.Fprintln(c.out, strings.Repeat("-", 76))
	for _, e := range expenses {
		fmt.Fprintf(c.out, "%-5d %-12s %-15s %-12s %-30s\n",
			e.ID, e.Date, e.Category, e.Amount, e.Description)
	}
}

func (c *Controller) viewIncome(ctx context.Context) {
	incomes, err := c.ledger.Income(ctx, c.user.ID)
	if err != nil {
		c.report(err)
		return
	}
	if len(incomes) == 0 {
		fmt.Fprintln(c.out, "No income records found.")
		return
	}

	fmt.Fprintf(c.out, "\n%-5s %-12s %-12s %-30s\n", "ID", "Date", "Amount", "Description")
	fmt.Fprintln(c.out, strings.Repeat("-", 61))
	for _, in := range incomes {
		fmt.Fprintf(c.out, "%-5d %-12s %-12s %-30s\n", in.ID, in.Date, in.Amount, in.Description)
	}
}

func (c *Controller) editExpense(ctx context.Context) {
	c.viewExpenses(ctx)
	id, ok := c.promptID("\nEnter expense ID to edit: ")
	if !ok {
		return
	}

	cur, err := c.ledger.Expense(ctx, c.user.ID, id)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Press Enter to keep the current value.")

	patch := ledger.ExpensePatch{}
	if v, ok := c.promptOptional(fmt.Sprintf("New date (current: %s): ", cur.Date)); !ok {
		return
	} else {
		patch.Date = v
	}
	if v, ok := c.promptOptional(fmt.Sprintf("New category (current: %s): ", cur.Category)); !ok {
		return
	} else {
		patch.Category = v
	}
	if v, ok := c.promptOptional(fmt.Sprintf("New amount (current: %s): ", cur.Amount)); !ok {
		return
	} else {
		patch.Amount = v
	}
	if v, ok := c.promptOptional(fmt.Sprintf("New description (current: %s): ", cur.Description)); !ok {
		return
	} else {
		patch.Description = v
	}

	if _, err := c.ledger.UpdateExpense(ctx, c.user.ID, id, patch); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Expense updated successfully.")
}

func (c *Controller) editIncome(ctx context.Context) {
	c.viewIncome(ctx)
	id, ok := c.promptID("\nEnter income ID to edit: ")
	if !ok {
		return
	}

	cur, err := c.ledger.IncomeRecord(ctx, c.user.ID, id)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Press Enter to keep the current value.")

	patch := ledger.IncomePatch{}
	if v, ok := c.promptOptional(fmt.Sprintf("New date (current: %s): ", cur.Date)); !ok {
		return
	} else {
		patch.Date = v
	}
	if v, ok := c.promptOptional(fmt.Sprintf("New amount (current: %s): ", cur.Amount)); !ok {
		return
	} else {
		patch.Amount = v
	}
	if v, ok := c.promptOptional(fmt.Sprintf("New description (current: %s): ", cur.Description)); !ok {
		return
	} else {
		patch.Description = v
	}

	if _, err := c.ledger.UpdateIncome(ctx, c.user.ID, id, patch); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Income updated successfully.")
}

func (c *Controller) deleteExpense(ctx context.Context) {
	c.viewExpenses(ctx)
	id, ok := c.promptID("\nEnter expense ID to delete: ")
	if !ok {
		return
	}

	cur, err := c.ledger.Expense(ctx, c.user.ID, id)
	if err != nil {
		c.report(err)
		return
	}

	confirmed, err := c.prompt.Confirm(fmt.Sprintf("Delete expense: %s - %s - %s?",
		cur.Category, cur.Amount, cur.Description))
	if err != nil {
		return
	}
	if !confirmed {
		fmt.Fprintln(c.out, "Deletion cancelled.")
		return
	}

	if err := c.ledger.DeleteExpense(ctx, c.user.ID, id); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Expense deleted successfully.")
}

func (c *Controller) deleteIncome(ctx context.Context) {
	c.viewIncome(ctx)
	id, ok := c.promptID("\nEnter income ID to delete: ")
	if !ok {
		return
	}

	cur, err := c.ledger.IncomeRecord(ctx, c.user.ID, id)
	if err != nil {
		c.report(err)
		return
	}

	confirmed, err := c.prompt.Confirm(fmt.Sprintf("Delete income: %s - %s?", cur.Amount, cur.Description))
	if err != nil {
		return
	}
	if !confirmed {
		fmt.Fprintln(c.out, "Deletion cancelled.")
		return
	}

	if err := c.ledger.DeleteIncome(ctx, c.user.ID, id); err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, "Income deleted successfully.")
}

func (c *Controller) summary(ctx context.Context) {
	sum, err := c.reports.Summary(ctx, c.user.ID, c.user.Budget)
	if err != nil {
		c.report(err)
		return
	}

	fmt.Fprintln(c.out, "\n---- Financial Summary ----")
	fmt.Fprintf(c.out, "Total Income:   %s\n", sum.TotalIncome)
	fmt.Fprintf(c.out, "Total Expenses: %s\n", sum.TotalExpense)
	fmt.Fprintf(c.out, "Net Savings:    %s\n", sum.Savings)
	fmt.Fprintf(c.out, "Monthly Budget: %s\n", sum.Budget)
	if sum.HasBudgetPct {
		fmt.Fprintf(c.out, "Budget Used:    %.1f%%\n", sum.BudgetUsedPct)
	}

	switch sum.Alert {
	case report.AlertExceeded:
		fmt.Fprintf(c.out, "ALERT: monthly budget exceeded by %s\n", sum.Overage)
	case report.AlertWarning:
		fmt.Fprintf(c.out, "WARNING: you've used %.1f%% of your budget\n", sum.BudgetUsedPct)
	default:
		fmt.Fprintf(c.out, "You're within budget. %s remaining\n", sum.Remaining)
	}
}

func (c *Controller) showCharts(ctx context.Context) {
	breakdown, err := c.reports.CategoryBreakdown(ctx, c.user.ID)
	if err != nil {
		c.report(err)
		return
	}
	if len(breakdown) == 0 {
		fmt.Fprintln(c.out, "No expenses to visualize.")
		return
	}
	trend, err := c.reports.MonthlyTrend(ctx, c.user.ID)
	if err != nil {
		c.report(err)
		return
	}

	if err := c.charts.Show(breakdown, trend); err != nil {
		c.report(err)
	}
}

func (c *Controller) insights(ctx context.Context) {
	fmt.Fprintln(c.out, "\n---- AI Financial Insights ----")
	text, err := c.advisor.Insights(ctx, c.user.ID, c.user.Budget)
	if err != nil {
		c.report(err)
		return
	}
	fmt.Fprintln(c.out, text)
}

// promptID reads a numeric record identifier; malformed input is reported
// and aborts the operation without touching the ledger.
func (c *Controller) promptID(prompt string) (int64, bool) {
	raw, err := c.prompt.Line(prompt)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		c.report(fmt.Errorf("%w: ID must be a number", core.ErrInvalidInput))
		return 0, false
	}
	return id, true
}

// promptOptional returns nil for an empty answer, meaning "keep current".
func (c *Controller) promptOptional(prompt string) (*string, bool) {
	raw, err := c.prompt.Line(prompt)
	if err != nil {
		return nil, false
	}
	if raw == "" {
		return nil, true
	}
	return &raw, true
}

func (c *Controller) report(err error) {
	fmt.Fprintf(c.out, "Error: %v\n", err)
}
