package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"paisa/internal/core"
	"paisa/internal/report"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// bar returns a block bar sized proportionally to value/max within maxWidth
// cells. A nonzero value always gets at least one cell.
func bar(value, max int64, maxWidth int) string {
	if value <= 0 || max <= 0 || maxWidth <= 0 {
		return ""
	}
	n := int(value * int64(maxWidth) / max)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// RenderCategoryChart draws a horizontal bar chart of spending per category,
// largest first.
func RenderCategoryChart(breakdown []core.CategoryTotal, width int) string {
	if len(breakdown) == 0 {
		return "No expenses to visualize"
	}

	var max int64
	labelWidth := 0
	for _, ct := range breakdown {
		if ct.Amount.Cents > max {
			max = ct.Amount.Cents
		}
		if len(ct.Category) > labelWidth {
			labelWidth = len(ct.Category)
		}
	}
	barWidth := width - labelWidth - 16
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Expenses by Category"))
	b.WriteString("\n\n")
	for _, ct := range breakdown {
		fmt.Fprintf(&b, "%-*s %s %s\n",
			labelWidth, ct.Category,
			barStyle.Render(bar(ct.Amount.Cents, max, barWidth)),
			axisStyle.Render(ct.Amount.String()))
	}
	return b.String()
}

// RenderTrendChart draws per-month expense totals, oldest month first.
func RenderTrendChart(series []core.MonthTotal, width int) string {
	if len(series) == 0 {
		return "No expenses to visualize"
	}

	var max int64
	for _, mt := range series {
		if mt.Amount.Cents > max {
			max = mt.Amount.Cents
		}
	}
	barWidth := width - 7 - 16
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Monthly Expense Trend"))
	b.WriteString("\n\n")
	for _, mt := range series {
		fmt.Fprintf(&b, "%s %s %s\n",
			mt.Month,
			expenseStyle.Render(bar(mt.Amount.Cents, max, barWidth)),
			axisStyle.Render(mt.Amount.String()))
	}
	return b.String()
}

// RenderComparisonChart draws grouped income and expense bars over the union
// month axis; a month missing from one series shows a zero-length bar.
func RenderComparisonChart(points []report.TrendPoint, width int) string {
	if len(points) == 0 {
		return "No data to visualize"
	}

	var max int64
	for _, p := range points {
		if p.Income.Cents > max {
			max = p.Income.Cents
		}
		if p.Expense.Cents > max {
			max = p.Expense.Cents
		}
	}
	barWidth := width - 7 - 26
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Income vs Expenses"))
	b.WriteString("\n\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			p.Month,
			axisStyle.Render("income "),
			incomeStyle.Render(bar(p.Income.Cents, max, barWidth)),
			axisStyle.Render(p.Income.String()))
		fmt.Fprintf(&b, "%s %s %s %s\n",
			strings.Repeat(" ", 7),
			axisStyle.Render("expense"),
			expenseStyle.Render(bar(p.Expense.Cents, max, barWidth)),
			axisStyle.Render(p.Expense.String()))
	}
	return b.String()
}
