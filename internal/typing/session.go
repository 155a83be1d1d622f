// Package typing implements the line typing engine: key classification, the
// per-line state machine and the counters it produces.
//
// Step is pure. Run drives it against a terminal: read a key, step, draw the
// resulting effects, until the line completes or the user escapes.
package typing

import (
	"fmt"

	"github.com/verte-zerg/linetype/internal/term"
)

// tabWidth is the number of spaces a Tab stands for.
const tabWidth = 4

// Status is the state machine's phase.
type Status int

const (
	InProgress Status = iota
	Completed
	Escaped
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	case Escaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// State is the progress through one target line. Pos is the index of the
// next character to match; Pos == len(Line) means the line is waiting for Enter.
type State struct {
	Line   []rune
	Pos    int
	Stats  Analytics
	Status Status
}

// NewState starts a line at position zero.
func NewState(line string) State {
	return State{Line: []rune(line)}
}

// AtEnd reports whether every character of the line has been entered.
func (s State) AtEnd() bool {
	return s.Pos >= len(s.Line)
}

// Feedback compares one entered character with its target.
type Feedback struct {
	Target rune
	Typed  rune
}

// Correct reports whether the typed character matched.
func (f Feedback) Correct() bool {
	return f.Target == f.Typed
}

// Shown is the character drawn for this feedback: what the user typed when
// it matched, what they should have typed when it did not.
func (f Feedback) Shown() rune {
	if f.Correct() {
		return f.Typed
	}
	return f.Target
}

// EffectKind tells the renderer what to do.
type EffectKind int

const (
	// EffectEcho draws Feedback at the cursor.
	EffectEcho EffectKind = iota
	// EffectRewind moves the cursor back over Rune.
	EffectRewind
)

// Effect is one rendering step produced by Step.
type Effect struct {
	Kind     EffectKind
	Feedback Feedback
	Rune     rune
}

// Step applies one input to s and returns the new state with the effects to
// render. Invalid keystrokes carried by in are charged as errors before the
// token is interpreted. Terminal states are returned unchanged.
func Step(s State, in Input) (State, []Effect) {
	if s.Status != InProgress {
		return s, nil
	}
	s.Stats.Errors += in.Invalid

	switch in.Token.Kind {
	case TokenEscape:
		s.Status = Escaped
		return s, nil
	case TokenBackspace:
		return backspace(s)
	}

	if s.AtEnd() {
		return stepAtEnd(s, in.Token)
	}

	switch in.Token.Kind {
	case TokenChar:
		var fx Effect
		s, fx = advance(s, in.Token.Char)
		return s, []Effect{fx}
	case TokenTab:
		effects := make([]Effect, 0, tabWidth)
		for i := 0; i < tabWidth && !s.AtEnd(); i++ {
			var fx Effect
			s, fx = advance(s, ' ')
			effects = append(effects, fx)
		}
		return s, effects
	case TokenEnter:
		// Enter mid-line is a mistake and does not finish the line.
		s.Stats.Errors++
		s.Stats.TotalInputChars++
		return s, nil
	}
	return s, nil
}

func stepAtEnd(s State, tok Token) (State, []Effect) {
	switch tok.Kind {
	case TokenEnter:
		s.Stats.TotalInputChars++
		s.Stats.LineLength++
		s.Status = Completed
		return s, nil
	case TokenChar:
		// Checked against a blank; the counters and position stay put, so the
		// cursor steps back over the drawn blank.
		fb := Feedback{Target: ' ', Typed: tok.Char}
		if !fb.Correct() {
			s.Stats.Errors++
		}
		return s, []Effect{
			{Kind: EffectEcho, Feedback: fb},
			{Kind: EffectRewind, Rune: fb.Shown()},
		}
	case TokenTab:
		s.Stats.Errors++
		return s, nil
	}
	return s, nil
}

func advance(s State, typed rune) (State, Effect) {
	fb := Feedback{Target: s.Line[s.Pos], Typed: typed}
	if !fb.Correct() {
		s.Stats.Errors++
	}
	s.Stats.TotalInputChars++
	s.Stats.LineLength++
	s.Pos++
	return s, Effect{Kind: EffectEcho, Feedback: fb}
}

func backspace(s State) (State, []Effect) {
	if s.Stats.LineLength == 0 {
		return s, nil
	}
	s.Stats.LineLength--
	s.Stats.TotalInputChars++
	s.Pos = s.Stats.LineLength
	return s, []Effect{{Kind: EffectRewind, Rune: s.Line[s.Pos]}}
}

// Terminal is what Run needs from the display.
type Terminal interface {
	KeyReader
	WriteStyled(r rune, style term.Style) error
	MoveLeft(cols int) error
}

// Result is the outcome of one line: Completed or Escaped, with the counters
// accumulated up to that point.
type Result struct {
	Status    Status
	Analytics Analytics
}

// Run types one line on t. The cursor is expected to sit at the start of the
// rendered line. An error means the terminal failed; the partial counters are
// not meaningful in that case.
func Run(t Terminal, line string) (Result, error) {
	s := NewState(line)
	for s.Status == InProgress {
		in, err := ReadInput(t)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read key: %w", err)
		}
		var effects []Effect
		s, effects = Step(s, in)
		if err := render(t, effects); err != nil {
			return Result{}, err
		}
	}
	return Result{Status: s.Status, Analytics: s.Stats}, nil
}

func render(t Terminal, effects []Effect) error {
	for _, fx := range effects {
		switch fx.Kind {
		case EffectEcho:
			style := term.StyleCorrect
			if !fx.Feedback.Correct() {
				style = term.StyleIncorrect
			}
			if err := t.WriteStyled(fx.Feedback.Shown(), style); err != nil {
				return fmt.Errorf("failed to write feedback: %w", err)
			}
		case EffectRewind:
			if err := t.MoveLeft(term.RuneWidth(fx.Rune)); err != nil {
				return fmt.Errorf("failed to move cursor: %w", err)
			}
		}
	}
	return nil
}
