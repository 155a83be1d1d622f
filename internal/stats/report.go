package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/linetype/internal/typing"
)

const maxTextWidth = 40

var (
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Underline(true)
	escapedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// ReportOptions controls the report layout.
type ReportOptions struct {
	// Details adds a per-line table and an accuracy sparkline.
	Details bool
	Color   bool
}

// WriteReport prints the session report. Nothing is printed when no keystroke
// was recorded.
func WriteReport(w io.Writer, s Summary, opts ReportOptions) error {
	m, ok := Compute(s.Total, s.Elapsed)
	if !ok {
		return nil
	}
	paint := func(style lipgloss.Style, value string) string {
		if !opts.Color {
			return value
		}
		return style.Render(value)
	}

	lines := []string{
		fmt.Sprintf("%s errors made.", paint(valueStyle, strconv.Itoa(m.Errors))),
		fmt.Sprintf("%s%% Accuracy.", paint(valueStyle, fmt.Sprintf("%.0f", m.Accuracy))),
		fmt.Sprintf("%s WPM.", paint(valueStyle, fmt.Sprintf("%.0f", m.WPM))),
		fmt.Sprintf("%s excess characters.", paint(valueStyle, strconv.Itoa(m.Excess))),
	}
	if opts.Details && len(s.Lines) > 0 {
		lines = append(lines, "")
		lines = append(lines, detailLines(s, paint)...)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func detailLines(s Summary, paint func(lipgloss.Style, string) string) []string {
	headers := []string{"#", "Status", "Errors", "Input", "Length", "Accuracy", "Text"}
	rows := make([][]string, 0, len(s.Lines))
	accuracies := make([]float64, 0, len(s.Lines))
	for _, line := range s.Lines {
		accCell := "-"
		if acc, ok := Accuracy(line.Analytics); ok {
			accCell = fmt.Sprintf("%.1f%%", acc)
			accuracies = append(accuracies, acc)
		}
		rows = append(rows, []string{
			strconv.Itoa(line.Index + 1),
			line.Status.String(),
			strconv.Itoa(line.Analytics.Errors),
			strconv.Itoa(line.Analytics.TotalInputChars),
			strconv.Itoa(line.Analytics.LineLength),
			accCell,
			truncate(line.Text, maxTextWidth),
		})
	}
	table := formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true})

	out := make([]string, 0, len(table)+2)
	for i, row := range table {
		switch {
		case i == 0:
			row = paint(headerStyle, row)
		case s.Lines[i-1].Status == typing.Escaped:
			row = paint(escapedStyle, row)
		}
		out = append(out, row)
	}
	if len(accuracies) > 1 {
		out = append(out, "", "Accuracy by line: "+Sparkline(accuracies))
	}
	return out
}

// ShouldUseColor reports whether w is a terminal that accepts colour.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
