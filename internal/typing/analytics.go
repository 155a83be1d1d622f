package typing

import "fmt"

// Analytics counts what happened while typing.
//
// Errors counts mismatches and invalid keystrokes. TotalInputChars counts
// every keystroke that consumed a turn. LineLength counts keystrokes that
// moved the committed position forward, plus the Enter that ends a line.
type Analytics struct {
	Errors          int
	TotalInputChars int
	LineLength      int
}

// Add returns the field-wise sum of a and b.
func (a Analytics) Add(b Analytics) Analytics {
	return Analytics{
		Errors:          a.Errors + b.Errors,
		TotalInputChars: a.TotalInputChars + b.TotalInputChars,
		LineLength:      a.LineLength + b.LineLength,
	}
}

// Excess is the number of keystrokes that did not end up in the line.
func (a Analytics) Excess() int {
	return a.TotalInputChars - a.LineLength
}

func (a Analytics) String() string {
	return fmt.Sprintf("errors=%d input=%d length=%d", a.Errors, a.TotalInputChars, a.LineLength)
}
