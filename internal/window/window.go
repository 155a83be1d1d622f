// Package window slides a bounded view over a forward-only line source.
package window

import "fmt"

// LineSource yields lines one at a time and cannot be rewound.
type LineSource interface {
	Next() (string, bool)
	Err() error
}

// Window is the line due for typing followed by upcoming context lines.
type Window []string

// Head returns the line due for typing.
func (w Window) Head() string {
	if len(w) == 0 {
		return ""
	}
	return w[0]
}

// Context returns the look-ahead lines after the head.
func (w Window) Context() []string {
	if len(w) < 2 {
		return nil
	}
	return w[1:]
}

// Slider produces windows of at most size lines. The first window holds the
// first size lines of the source; each later window drops the head and pulls
// at most one new line, so the windows shrink once the source runs dry.
type Slider struct {
	src     LineSource
	size    int
	buf     []string
	started bool
	drained bool
	done    bool
}

// NewSlider returns a Slider over src. size must be positive.
func NewSlider(src LineSource, size int) (*Slider, error) {
	if src == nil {
		return nil, fmt.Errorf("line source is nil")
	}
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0, got %d", size)
	}
	return &Slider{src: src, size: size, buf: make([]string, 0, size)}, nil
}

// Next returns the next window. It returns false once a pull would leave the
// window empty, or when the source fails; check Err for the latter.
func (s *Slider) Next() (Window, bool) {
	if s.done {
		return nil, false
	}
	if !s.started {
		s.started = true
		for len(s.buf) < s.size && s.pull() {
		}
	} else {
		s.buf = s.buf[1:]
		s.pull()
	}
	if len(s.buf) == 0 || s.Err() != nil {
		s.done = true
		s.buf = nil
		return nil, false
	}
	out := make(Window, len(s.buf))
	copy(out, s.buf)
	return out, true
}

// Err returns the source's read error, if any.
func (s *Slider) Err() error {
	return s.src.Err()
}

func (s *Slider) pull() bool {
	if s.drained {
		return false
	}
	line, ok := s.src.Next()
	if !ok {
		s.drained = true
		return false
	}
	s.buf = append(s.buf, line)
	return true
}
