// Package stats derives accuracy and speed from typing counters and renders
// the end-of-session report.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/linetype/internal/typing"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the conventional word length used for WPM.
const charsPerWord = 5.0

// LineResult is the outcome of one typed line.
type LineResult struct {
	Index     int
	Text      string
	Status    typing.Status
	Analytics typing.Analytics
}

// Summary is everything known at the end of a session.
type Summary struct {
	Lines   []LineResult
	Total   typing.Analytics
	Elapsed time.Duration
	Escaped bool
}

// Add folds one line into the summary.
func (s *Summary) Add(line LineResult) {
	s.Lines = append(s.Lines, line)
	s.Total = s.Total.Add(line.Analytics)
	if line.Status == typing.Escaped {
		s.Escaped = true
	}
}

// Metrics are the figures shown in the report.
type Metrics struct {
	Errors   int
	Accuracy float64
	WPM      float64
	Excess   int
}

// Compute derives report metrics from totals and elapsed time. ok is false
// when nothing was typed, in which case accuracy is undefined.
func Compute(a typing.Analytics, elapsed time.Duration) (m Metrics, ok bool) {
	acc, ok := Accuracy(a)
	return Metrics{
		Errors:   a.Errors,
		Accuracy: acc,
		WPM:      WordsPerMinute(a.LineLength, elapsed),
		Excess:   a.Excess(),
	}, ok
}

// Accuracy returns max(0, 1 - errors/input) as a percentage.
func Accuracy(a typing.Analytics) (float64, bool) {
	if a.TotalInputChars == 0 {
		return 0, false
	}
	acc := (1 - float64(a.Errors)/float64(a.TotalInputChars)) * 100
	return math.Max(0, acc), true
}

// WordsPerMinute treats every five characters of line length as one word.
func WordsPerMinute(lineLength int, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(lineLength) / (charsPerWord * minutes)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
