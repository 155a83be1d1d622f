package typing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/linetype/internal/term"
)

type drawn struct {
	r     rune
	style term.Style
}

// scriptTerminal replays keys and records what the engine draws.
type scriptTerminal struct {
	keys    []term.Key
	drawn   []drawn
	lefts   []int
	readErr error
}

func (s *scriptTerminal) ReadKey() (term.Key, error) {
	if len(s.keys) == 0 {
		if s.readErr != nil {
			return term.Key{}, s.readErr
		}
		return term.Key{}, term.ErrClosed
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

func (s *scriptTerminal) WriteStyled(r rune, style term.Style) error {
	s.drawn = append(s.drawn, drawn{r: r, style: style})
	return nil
}

func (s *scriptTerminal) MoveLeft(cols int) error {
	s.lefts = append(s.lefts, cols)
	return nil
}

func runes(text string) []term.Key {
	keys := make([]term.Key, 0, len(text))
	for _, r := range text {
		keys = append(keys, term.Key{Kind: term.KeyRune, Rune: r})
	}
	return keys
}

func keys(groups ...[]term.Key) []term.Key {
	var out []term.Key
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var (
	kBackspace = []term.Key{{Kind: term.KeyBackspace}}
	kTab       = []term.Key{{Kind: term.KeyTab}}
	kEnter     = []term.Key{{Kind: term.KeyEnter}}
	kEscape    = []term.Key{{Kind: term.KeyEscape}}
	kOther     = []term.Key{{Kind: term.KeyOther}}
)

func feed(line string, tokens ...Token) State {
	s := NewState(line)
	for _, tok := range tokens {
		s, _ = Step(s, Input{Token: tok})
	}
	return s
}

func typed(text string) []Token {
	out := make([]Token, 0, len(text))
	for _, r := range text {
		out = append(out, Char(r))
	}
	return out
}

func TestPerfectLine(t *testing.T) {
	s := feed("cat", append(typed("cat"), Enter)...)
	assert.Equal(t, Completed, s.Status)
	assert.Equal(t, Analytics{Errors: 0, TotalInputChars: 4, LineLength: 4}, s.Stats)
	assert.Equal(t, 0, s.Stats.Excess())
}

func TestMismatchCountsAndAdvances(t *testing.T) {
	s := NewState("cat")
	s, fx := Step(s, Input{Token: Char('x')})

	assert.Equal(t, 1, s.Pos)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 1, LineLength: 1}, s.Stats)
	require.Len(t, fx, 1)
	assert.Equal(t, EffectEcho, fx[0].Kind)
	assert.False(t, fx[0].Feedback.Correct())
	assert.Equal(t, 'c', fx[0].Feedback.Shown(), "mismatch shows the target character")
}

func TestMatchShowsTypedCharacter(t *testing.T) {
	_, fx := Step(NewState("cat"), Input{Token: Char('c')})
	require.Len(t, fx, 1)
	assert.True(t, fx[0].Feedback.Correct())
	assert.Equal(t, 'c', fx[0].Feedback.Shown())
}

func TestBackspaceResyncsPosition(t *testing.T) {
	s := feed("cat", typed("cx")...)
	require.Equal(t, 2, s.Pos)

	s, fx := Step(s, Input{Token: Backspace})
	assert.Equal(t, 1, s.Pos)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 3, LineLength: 1}, s.Stats)
	require.Len(t, fx, 1)
	assert.Equal(t, EffectRewind, fx[0].Kind)
	assert.Equal(t, 'a', fx[0].Rune)

	s, fx = Step(s, Input{Token: Char('a')})
	assert.Equal(t, 2, s.Pos)
	assert.True(t, fx[0].Feedback.Correct(), "next character is compared against L[p-1]")
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 4, LineLength: 2}, s.Stats)
}

func TestBackspaceAtStartIsIgnored(t *testing.T) {
	s, fx := Step(NewState("cat"), Input{Token: Backspace})
	assert.Equal(t, 0, s.Pos)
	assert.Equal(t, Analytics{}, s.Stats)
	assert.Empty(t, fx)
}

func TestBackspaceAtEndOfLine(t *testing.T) {
	s := feed("ab", typed("abx")...)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 2, LineLength: 2}, s.Stats)

	s, _ = Step(s, Input{Token: Backspace})
	assert.Equal(t, 1, s.Pos)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 3, LineLength: 1}, s.Stats)
}

func TestTabConsumesFourPositions(t *testing.T) {
	s, fx := Step(NewState("abcdef"), Input{Token: Tab})
	assert.Equal(t, 4, s.Pos)
	assert.Equal(t, Analytics{Errors: 4, TotalInputChars: 4, LineLength: 4}, s.Stats)
	require.Len(t, fx, 4)
	for i, want := range "abcd" {
		assert.Equal(t, want, fx[i].Feedback.Shown())
		assert.Equal(t, ' ', fx[i].Feedback.Typed)
	}
}

func TestTabOverIndentationIsCorrect(t *testing.T) {
	s := feed("    x", Tab, Char('x'), Enter)
	assert.Equal(t, Completed, s.Status)
	assert.Equal(t, Analytics{Errors: 0, TotalInputChars: 6, LineLength: 6}, s.Stats)
}

func TestTabStopsAtEndOfLine(t *testing.T) {
	s := feed("xyab", Char('x'), Char('y'), Tab)
	assert.Equal(t, 4, s.Pos)
	assert.Equal(t, Analytics{Errors: 2, TotalInputChars: 4, LineLength: 4}, s.Stats)
}

func TestTabAtEndOfLineIsAnError(t *testing.T) {
	s := feed("ab", typed("ab")...)
	s, fx := Step(s, Input{Token: Tab})
	assert.Equal(t, 2, s.Pos)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 2, LineLength: 2}, s.Stats)
	assert.Empty(t, fx)
}

func TestCharAtEndOfLineComparesWithBlank(t *testing.T) {
	s := feed("ab", typed("ab")...)

	s, fx := Step(s, Input{Token: Char(' ')})
	assert.Equal(t, Analytics{Errors: 0, TotalInputChars: 2, LineLength: 2}, s.Stats)
	require.Len(t, fx, 2)
	assert.True(t, fx[0].Feedback.Correct())
	assert.Equal(t, Effect{Kind: EffectRewind, Rune: ' '}, fx[1])

	s, fx = Step(s, Input{Token: Char('z')})
	assert.Equal(t, 2, s.Pos)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 2, LineLength: 2}, s.Stats)
	require.Len(t, fx, 2)
	assert.Equal(t, ' ', fx[0].Feedback.Shown())
	assert.Equal(t, Effect{Kind: EffectRewind, Rune: ' '}, fx[1])
	assert.Equal(t, InProgress, s.Status)
}

// cursorTerminal tracks the screen column the way a real terminal would.
type cursorTerminal struct {
	scriptTerminal
	col int
}

func (c *cursorTerminal) WriteStyled(r rune, style term.Style) error {
	c.col += term.RuneWidth(r)
	return c.scriptTerminal.WriteStyled(r, style)
}

func (c *cursorTerminal) MoveLeft(cols int) error {
	c.col -= cols
	return c.scriptTerminal.MoveLeft(cols)
}

func TestCursorFollowsPositionAfterTypingPastEnd(t *testing.T) {
	ct := &cursorTerminal{}
	ct.keys = keys(runes("abz"), kBackspace, runes("b"), kBackspace, kBackspace, runes("ab"), kEnter)

	res, err := Run(ct, "ab")
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Status)
	assert.Equal(t, 2, ct.col, "cursor column must match the line position")
	assert.Equal(t, []int{1, 1, 1, 1}, ct.lefts)
	last := ct.drawn[len(ct.drawn)-2:]
	assert.Equal(t, []drawn{{'a', term.StyleCorrect}, {'b', term.StyleCorrect}}, last)
}

func TestEnterMidLineIsAMistake(t *testing.T) {
	s := feed("cat", Char('c'), Enter)
	assert.Equal(t, InProgress, s.Status)
	assert.Equal(t, 1, s.Pos)
	assert.Equal(t, Analytics{Errors: 1, TotalInputChars: 2, LineLength: 1}, s.Stats)
}

func TestEmptyLineCompletesOnEnter(t *testing.T) {
	s := feed("", Enter)
	assert.Equal(t, Completed, s.Status)
	assert.Equal(t, Analytics{TotalInputChars: 1, LineLength: 1}, s.Stats)
}

func TestEscapeKeepsPartialCounters(t *testing.T) {
	s := feed("abcdefghij", append(typed("abc"), Escape)...)
	assert.Equal(t, Escaped, s.Status)
	assert.Equal(t, Analytics{Errors: 0, TotalInputChars: 3, LineLength: 3}, s.Stats)
}

func TestInvalidKeystrokesAreChargedFirst(t *testing.T) {
	s, _ := Step(NewState("cat"), Input{Token: Char('c'), Invalid: 2})
	assert.Equal(t, Analytics{Errors: 2, TotalInputChars: 1, LineLength: 1}, s.Stats)

	s, _ = Step(s, Input{Token: Escape, Invalid: 1})
	assert.Equal(t, Escaped, s.Status)
	assert.Equal(t, 3, s.Stats.Errors)
}

func TestTerminalStatesIgnoreInput(t *testing.T) {
	done := feed("a", Char('a'), Enter)
	next, fx := Step(done, Input{Token: Char('b'), Invalid: 3})
	assert.Equal(t, done, next)
	assert.Empty(t, fx)
}

func TestCountersNeverDecreaseExceptOnBackspace(t *testing.T) {
	tokens := []Token{Char('h'), Enter, Tab, Char('q'), Backspace, Backspace, Char('e'), Tab, Tab, Char('!'), Enter}
	s := NewState("hello")
	prev := s.Stats
	for _, tok := range tokens {
		s, _ = Step(s, Input{Token: tok})
		assert.GreaterOrEqual(t, s.Stats.Errors, prev.Errors)
		assert.GreaterOrEqual(t, s.Stats.TotalInputChars, prev.TotalInputChars)
		if tok.Kind != TokenBackspace {
			assert.GreaterOrEqual(t, s.Stats.LineLength, prev.LineLength)
		}
		assert.Equal(t, s.Pos, min(s.Stats.LineLength, len(s.Line)))
		assert.GreaterOrEqual(t, s.Stats.Excess(), 0)
		prev = s.Stats
	}
}

func TestClassify(t *testing.T) {
	tok, ok := Classify(term.Key{Kind: term.KeyRune, Rune: 'q'})
	assert.True(t, ok)
	assert.Equal(t, Char('q'), tok)

	for kind, want := range map[term.KeyKind]Token{
		term.KeyBackspace: Backspace,
		term.KeyTab:       Tab,
		term.KeyEnter:     Enter,
		term.KeyEscape:    Escape,
	} {
		tok, ok := Classify(term.Key{Kind: kind})
		assert.True(t, ok)
		assert.Equal(t, want, tok)
	}

	_, ok = Classify(term.Key{Kind: term.KeyOther})
	assert.False(t, ok)
}

func TestReadInputCountsInvalidKeys(t *testing.T) {
	st := &scriptTerminal{keys: keys(kOther, kOther, runes("a"), kEnter)}

	in, err := ReadInput(st)
	require.NoError(t, err)
	assert.Equal(t, Input{Token: Char('a'), Invalid: 2}, in)

	in, err = ReadInput(st)
	require.NoError(t, err)
	assert.Equal(t, Input{Token: Enter}, in)
}

func TestReadInputPropagatesErrors(t *testing.T) {
	boom := errors.New("tty gone")
	_, err := ReadInput(&scriptTerminal{keys: kOther, readErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunCompletesLine(t *testing.T) {
	st := &scriptTerminal{keys: keys(runes("cxt"), kBackspace, kOther, runes("t"), kEnter, kEnter)}

	res, err := Run(st, "cat")
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Status)
	// c, x (wrong), t, backspace, [other] t, enter
	assert.Equal(t, Analytics{Errors: 2, TotalInputChars: 6, LineLength: 4}, res.Analytics)
	assert.Equal(t, []drawn{
		{'c', term.StyleCorrect},
		{'a', term.StyleIncorrect},
		{'t', term.StyleCorrect},
		{'t', term.StyleCorrect},
	}, st.drawn)
	assert.Equal(t, []int{1}, st.lefts)
	assert.Len(t, st.keys, 1, "run must stop reading after the line completes")
}

func TestRunEscapes(t *testing.T) {
	st := &scriptTerminal{keys: keys(runes("ab"), kEscape)}
	res, err := Run(st, "abcdef")
	require.NoError(t, err)
	assert.Equal(t, Result{Status: Escaped, Analytics: Analytics{TotalInputChars: 2, LineLength: 2}}, res)
}

func TestRunRewindsByDisplayWidth(t *testing.T) {
	st := &scriptTerminal{keys: keys(runes("日"), kBackspace, kEscape)}
	_, err := Run(st, "日本")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, st.lefts)
}

func TestRunFailsOnReadError(t *testing.T) {
	st := &scriptTerminal{keys: runes("a")}
	_, err := Run(st, "abc")
	assert.ErrorIs(t, err, term.ErrClosed)
}

func TestAnalyticsAdd(t *testing.T) {
	a := Analytics{Errors: 1, TotalInputChars: 5, LineLength: 4}
	b := Analytics{Errors: 2, TotalInputChars: 3, LineLength: 3}
	assert.Equal(t, Analytics{Errors: 3, TotalInputChars: 8, LineLength: 7}, a.Add(b))
	assert.Equal(t, 1, a.Add(b).Excess())
	assert.Equal(t, "errors=1 input=5 length=4", a.String())
}
