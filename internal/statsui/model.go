// Package statsui provides the Bubble Tea review of a finished session.
package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/linetype/internal/stats"
	"github.com/verte-zerg/linetype/internal/typing"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	escapedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea review UI.
type Model struct {
	summary stats.Summary
	table   table.Model

	width  int
	height int
}

// NewModel constructs a review model over a finished session.
func NewModel(summary stats.Summary) *Model {
	m := &Model{summary: summary}
	cols, rows := buildLineTableData(summary.Lines)
	m.table = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(maxInt(1, len(rows))),
	)
	m.table.SetStyles(lineTableStyles())
	return m
}

// Run shows the review until the user quits.
func Run(summary stats.Summary) error {
	program := tea.NewProgram(NewModel(summary), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run review TUI: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Selected returns the line under the table cursor.
func (m *Model) Selected() (stats.LineResult, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.summary.Lines) {
		return stats.LineResult{}, false
	}
	return m.summary.Lines[idx], true
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(m.renderHeader())
	footerHeight = 2
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.table.SetWidth(m.width)
	// One row goes to the header border.
	m.table.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderHeader() string {
	metrics, ok := stats.Compute(m.summary.Total, m.summary.Elapsed)
	if !ok {
		return headerStyle.Render("No keystrokes recorded.")
	}
	cards := []string{
		metricCard("Lines", strconv.Itoa(len(m.summary.Lines))),
		metricCard("Errors", strconv.Itoa(metrics.Errors)),
		metricCard("Accuracy", fmt.Sprintf("%.0f%%", metrics.Accuracy)),
		metricCard("WPM", fmt.Sprintf("%.0f", metrics.WPM)),
		metricCard("Excess", strconv.Itoa(metrics.Excess)),
	}
	if m.width > 0 && m.width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderBody() string {
	if len(m.summary.Lines) == 0 {
		return "No lines typed."
	}
	return m.table.View()
}

func (m *Model) renderFooter() string {
	status := ""
	if line, ok := m.Selected(); ok {
		status = truncateLine(fmt.Sprintf("Line %d: %s", line.Index+1, line.Text), m.width)
		if line.Status == typing.Escaped {
			status = escapedStyle.Render(status)
		}
	}
	help := headerStyle.Render("↑/↓ move  q quit")
	return status + "\n" + help
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildLineTableData(lines []stats.LineResult) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Status", Width: 11},
		{Title: "Errors", Width: 6},
		{Title: "Input", Width: 6},
		{Title: "Length", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Excess", Width: 6},
	}
	rows := make([]table.Row, 0, len(lines))
	for _, line := range lines {
		acc := "-"
		if v, ok := stats.Accuracy(line.Analytics); ok {
			acc = fmt.Sprintf("%.1f%%", v)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(line.Index + 1),
			line.Status.String(),
			strconv.Itoa(line.Analytics.Errors),
			strconv.Itoa(line.Analytics.TotalInputChars),
			strconv.Itoa(line.Analytics.LineLength),
			acc,
			strconv.Itoa(line.Analytics.Excess()),
		})
	}
	return columns, rows
}

func lineTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
