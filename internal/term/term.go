// Package term provides the terminal used for practice: blocking raw key
// reads, styled character output and cursor movement over text that wraps at
// the screen width, on top of tcell.
package term

import (
	"errors"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// ErrClosed is returned by ReadKey once the screen has been finalized.
var ErrClosed = errors.New("terminal closed")

// KeyKind classifies a raw key event.
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
)

// Key is a raw key event. Rune is set only for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Style selects how a character is drawn.
type Style int

const (
	StylePlain Style = iota
	StyleCorrect
	StyleIncorrect
)

var styles = map[Style]tcell.Style{
	StylePlain:     tcell.StyleDefault,
	StyleCorrect:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	StyleIncorrect: tcell.StyleDefault.Foreground(tcell.ColorRed).Underline(true),
}

// screen is the subset of tcell.Screen the terminal drives.
type screen interface {
	Init() error
	Fini()
	Clear()
	Show()
	Sync()
	ShowCursor(x, y int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	PollEvent() tcell.Event
	Size() (width, height int)
}

// Screen is a full-screen terminal with a tracked cursor. Text wraps at the
// width sampled when the screen was last cleared. It is not safe for
// concurrent use.
type Screen struct {
	scr  screen
	grid grid
}

// Open initializes the real terminal.
func Open() (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return open(scr)
}

func open(scr screen) (*Screen, error) {
	if err := scr.Init(); err != nil {
		return nil, err
	}
	s := &Screen{scr: scr}
	s.reset()
	return s, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.scr.Fini()
}

// WriteLine writes text from the cursor, wrapping at the screen width, and
// moves to the start of the next row. It returns the number of rows the text
// covered.
func (s *Screen) WriteLine(text string) (int, error) {
	start := s.grid.y
	for _, r := range text {
		s.put(r, StylePlain)
	}
	return s.grid.newline(start), nil
}

// WriteStyled draws r at the cursor and advances by its display width.
func (s *Screen) WriteStyled(r rune, style Style) error {
	s.put(r, style)
	return nil
}

// Clear blanks the screen, homes the cursor and picks up the current width.
func (s *Screen) Clear() error {
	s.scr.Clear()
	s.reset()
	return nil
}

// MoveUp moves the cursor up n rows, stopping at the top.
func (s *Screen) MoveUp(n int) error {
	s.grid.up(n)
	return nil
}

// MoveLeft moves the cursor back n columns. At the left edge it continues
// from the end of the previous wrapped row; it stops at the top-left cell.
func (s *Screen) MoveLeft(n int) error {
	s.grid.back(n)
	return nil
}

// Cursor reports the tracked cursor position.
func (s *Screen) Cursor() (x, y int) {
	return s.grid.x, s.grid.y
}

func (s *Screen) reset() {
	width, _ := s.scr.Size()
	s.grid = newGrid(width)
}

// ReadKey flushes pending output and blocks until the next key event.
// Resize, mouse, paste and focus events are not keystrokes and are skipped.
func (s *Screen) ReadKey() (Key, error) {
	s.scr.ShowCursor(s.grid.x, s.grid.y)
	s.scr.Show()
	for {
		ev := s.scr.PollEvent()
		switch e := ev.(type) {
		case nil:
			return Key{}, ErrClosed
		case *tcell.EventKey:
			return convertKey(e), nil
		case *tcell.EventResize:
			s.scr.Sync()
		}
	}
}

func (s *Screen) put(r rune, style Style) {
	r = printable(r)
	x, y := s.grid.place(RuneWidth(r))
	s.scr.SetContent(x, y, r, nil, styles[style])
}

// RuneWidth returns the number of cells r occupies, never less than one.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(printable(r))
	if w < 1 {
		return 1
	}
	return w
}

func printable(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
}

func convertKey(e *tcell.EventKey) Key {
	switch e.Key() {
	case tcell.KeyRune:
		return Key{Kind: KeyRune, Rune: e.Rune()}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Key{Kind: KeyBackspace}
	case tcell.KeyTab:
		return Key{Kind: KeyTab}
	case tcell.KeyEnter, tcell.KeyLF:
		return Key{Kind: KeyEnter}
	case tcell.KeyEscape:
		return Key{Kind: KeyEscape}
	default:
		return Key{Kind: KeyOther}
	}
}
