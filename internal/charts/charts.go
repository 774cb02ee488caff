// Package charts renders the three expense visualizations on an interactive
// terminal surface.
package charts

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paisa/internal/core"
	"paisa/internal/report"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("241"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var tabNames = []string{"Categories", "Monthly Trend", "Income vs Expenses"}

type model struct {
	active    int
	width     int
	breakdown []core.CategoryTotal
	trend     report.Trend
}

func newModel(breakdown []core.CategoryTotal, trend report.Trend) model {
	return model{width: 80, breakdown: breakdown, trend: trend}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "tab":
			m.active = (m.active + 1) % len(tabNames)
		case "left", "h", "shift+tab":
			m.active = (m.active + len(tabNames) - 1) % len(tabNames)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m model) View() string {
	var tabs []string
	for i, name := range tabNames {
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(name))
			continue
		}
		tabs = append(tabs, tabStyle.Render(name))
	}

	var body string
	switch m.active {
	case 0:
		body = RenderCategoryChart(m.breakdown, m.width)
	case 1:
		body = RenderTrendChart(m.trend.ExpenseByMonth, m.width)
	default:
		body = RenderComparisonChart(m.trend.Combined, m.width)
	}

	return strings.Join(tabs, " ") + "\n\n" + body + "\n" +
		helpStyle.Render("←/→ switch chart · q quit")
}

// Viewer runs the interactive chart program on the attached terminal.
type Viewer struct{}

func NewViewer() *Viewer { return &Viewer{} }

// Show blocks until the user quits the chart view.
func (v *Viewer) Show(breakdown []core.CategoryTotal, trend report.Trend) error {
	p := tea.NewProgram(newModel(breakdown, trend), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chart view: %w", err)
	}
	return nil
}
