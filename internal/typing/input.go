package typing

import "github.com/verte-zerg/linetype/internal/term"

// TokenKind is the semantic meaning of a keystroke.
type TokenKind int

const (
	TokenChar TokenKind = iota
	TokenBackspace
	TokenTab
	TokenEnter
	TokenEscape
)

func (k TokenKind) String() string {
	switch k {
	case TokenChar:
		return "char"
	case TokenBackspace:
		return "backspace"
	case TokenTab:
		return "tab"
	case TokenEnter:
		return "enter"
	case TokenEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Token is a classified keystroke. Char is only meaningful for TokenChar.
type Token struct {
	Kind TokenKind
	Char rune
}

// Char returns a character token.
func Char(r rune) Token { return Token{Kind: TokenChar, Char: r} }

var (
	Backspace = Token{Kind: TokenBackspace}
	Tab       = Token{Kind: TokenTab}
	Enter     = Token{Kind: TokenEnter}
	Escape    = Token{Kind: TokenEscape}
)

// Input is one valid token together with the number of invalid key events
// that were discarded before it.
type Input struct {
	Token   Token
	Invalid int
}

// KeyReader blocks until the next raw key event.
type KeyReader interface {
	ReadKey() (term.Key, error)
}

// Classify maps a raw key to a token. ok is false for keys outside the
// recognized set.
func Classify(k term.Key) (Token, bool) {
	switch k.Kind {
	case term.KeyRune:
		return Char(k.Rune), true
	case term.KeyBackspace:
		return Backspace, true
	case term.KeyTab:
		return Tab, true
	case term.KeyEnter:
		return Enter, true
	case term.KeyEscape:
		return Escape, true
	default:
		return Token{}, false
	}
}

// ReadInput reads keys until one classifies, counting the ones that do not.
// There is no timeout; only a read error ends the wait early.
func ReadInput(r KeyReader) (Input, error) {
	invalid := 0
	for {
		k, err := r.ReadKey()
		if err != nil {
			return Input{Invalid: invalid}, err
		}
		if tok, ok := Classify(k); ok {
			return Input{Token: tok, Invalid: invalid}, nil
		}
		invalid++
	}
}
