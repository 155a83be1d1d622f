// Package practice drives a typing session: it shows each window of lines,
// has the user type the head line and folds every line's counters into a
// session summary.
package practice

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/linetype/internal/stats"
	"github.com/verte-zerg/linetype/internal/typing"
	"github.com/verte-zerg/linetype/internal/window"
)

const startPrompt = "Press any key to start"

// Terminal is the display the driver renders windows on. WriteLine reports
// how many screen rows the text took once wrapped.
type Terminal interface {
	typing.Terminal
	WriteLine(text string) (rows int, err error)
	Clear() error
	MoveUp(rows int) error
}

// Windows yields successive windows of lines.
type Windows interface {
	Next() (window.Window, bool)
	Err() error
}

// Driver runs sessions on a terminal.
type Driver struct {
	term   Terminal
	logger *zap.SugaredLogger
	now    func() time.Time
}

// New returns a Driver. A nil logger discards log output; fields attached to
// the logger are carried on every session event.
func New(t Terminal, logger *zap.SugaredLogger) *Driver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Driver{term: t, logger: logger, now: time.Now}
}

// Run waits for a key, then types every window's head line until the windows
// run out or the user escapes. Escape still returns the partial summary with
// a nil error; any terminal or read failure aborts with an error and no summary.
func (d *Driver) Run(windows Windows) (stats.Summary, error) {
	if _, err := d.term.WriteLine(startPrompt); err != nil {
		return stats.Summary{}, fmt.Errorf("failed to write prompt: %w", err)
	}
	if _, err := d.term.ReadKey(); err != nil {
		return stats.Summary{}, fmt.Errorf("failed to read key: %w", err)
	}

	start := d.now()
	d.logger.Infow("session started")
	var summary stats.Summary
	for index := 0; ; index++ {
		w, ok := windows.Next()
		if !ok {
			break
		}
		if err := d.show(w); err != nil {
			return stats.Summary{}, err
		}
		res, err := typing.Run(d.term, w.Head())
		if err != nil {
			return stats.Summary{}, err
		}
		summary.Add(stats.LineResult{
			Index:     index,
			Text:      w.Head(),
			Status:    res.Status,
			Analytics: res.Analytics,
		})
		d.logger.Debugw("line finished",
			"index", index,
			"status", res.Status.String(),
			"errors", res.Analytics.Errors,
			"input", res.Analytics.TotalInputChars,
			"length", res.Analytics.LineLength,
		)
		if res.Status == typing.Escaped {
			break
		}
	}
	if err := windows.Err(); err != nil {
		return stats.Summary{}, fmt.Errorf("failed to read lines: %w", err)
	}
	summary.Elapsed = d.now().Sub(start)

	d.logger.Infow("session finished",
		"lines", len(summary.Lines),
		"escaped", summary.Escaped,
		"errors", summary.Total.Errors,
		"input", summary.Total.TotalInputChars,
		"length", summary.Total.LineLength,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// show draws the window and parks the cursor at the start of the head line.
func (d *Driver) show(w window.Window) error {
	if err := d.term.Clear(); err != nil {
		return fmt.Errorf("failed to clear screen: %w", err)
	}
	rows := 0
	for _, line := range w {
		n, err := d.term.WriteLine(line)
		if err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
		rows += n
	}
	if err := d.term.MoveUp(rows); err != nil {
		return fmt.Errorf("failed to move cursor: %w", err)
	}
	return nil
}
