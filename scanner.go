// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsyntax

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JWCC grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... (not including the line break)
	Space        // horizontal whitespace: space, tab, or a lone CR
	Newline      // line break: LF or CR LF

	EOF // end of input; never reported by a Scanner

	// Do not modify the order of these constants without updating the
	// self-delimiting token check below.
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
	Space:        "space",
	Newline:      "newline",

	EOF: "end of input",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// IsTrivia reports whether t is a token that carries no syntactic meaning:
// whitespace, line breaks, and comments.
func (t Token) IsTrivia() bool {
	return t == Space || t == Newline || t == LineComment || t == BlockComment
}

// IsValue reports whether t is a token for a literal value.
func (t Token) IsValue() bool { return t >= Integer && t <= Null }

// A Scanner reads lexical tokens from an input buffer.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// Unlike a conventional JSON scanner, a Scanner does not discard anything:
// every byte of the input belongs to exactly one token, so that concatenating
// the text of all the tokens reproduces the input.
type Scanner struct {
	src      []byte
	comments bool // allow comments
	tok      Token
	err      error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from src.
// The scanner does not copy src, and the caller must not modify it while the
// scanner is in use.
func NewScanner(src []byte) *Scanner { return &Scanner{src: src} }

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard extension of the JSON spec.  If
// enabled, C++ style block comments (/* ... */) and line comments (// ...)
// are recognized and emitted as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Reset repositions s so that the next call to Next scans the token starting
// at offset. Offsets outside the input are clamped to its bounds.
// Moving forward costs time proportional to the distance moved; moving
// backward rescans from the beginning of the input.
func (s *Scanner) Reset(offset int) {
	offset = max(0, min(offset, len(s.src)))
	if offset < s.end {
		s.end, s.eline, s.ecol = 0, 0, 0
	}
	s.advance(offset - s.end)
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
	s.tok = Invalid
	s.err = nil
}

// Offset reports the offset at which the next token will begin.
func (s *Scanner) Offset() int { return s.end }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	if s.end >= len(s.src) {
		return s.setErr(io.EOF)
	}
	switch ch := s.src[s.end]; {
	case ch == '\n':
		s.advance(1)
		s.tok = Newline
		return nil

	case ch == '\r' && s.peekAt(s.end+1) == '\n':
		s.advance(2)
		s.tok = Newline
		return nil

	case isSpace(ch):
		s.advance(s.spanWhile(s.end, isSpaceAt(s.src)) - s.end)
		s.tok = Space
		return nil

	case isNumStart(ch):
		return s.scanNumber()

	case ch == '"':
		return s.scanString()

	case ch == '/' && s.comments:
		return s.scanComment()
	}

	// Handle punctuation.
	ch := s.src[s.end]
	if t, ok := selfDelim(ch); ok {
		s.advance(1)
		s.tok = t
		return nil
	}

	// Handle constants: true, false, null
	var want mem.RO
	switch ch {
	case 't':
		s.tok, want = True, mem.S("true")
	case 'f':
		s.tok, want = False, mem.S("false")
	case 'n':
		s.tok, want = Null, mem.S("null")
	default:
		r, _ := utf8.DecodeRune(s.src[s.end:])
		return s.failf(s.end, "unexpected %q", r)
	}
	end := s.spanWhile(s.end, func(i int) bool { return isNameByte(s.src[i]) })
	if got := mem.B(s.src[s.end:end]); !got.Equal(want) {
		s.tok = Invalid
		return s.failf(s.end, "unknown constant %q", got.StringCopy())
	}
	s.advance(end - s.end)
	return nil // OK, token is already set
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value
// aliases the input buffer and must not be modified.
func (s *Scanner) Text() []byte { return s.src[s.pos:s.end] }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return bytes.Clone(s.Text()) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

func (s *Scanner) scanString() error {
	i := s.end + 1 // skip the open quote
	for {
		if i >= len(s.src) {
			return s.failf(i, "unterminated string: %w", io.ErrUnexpectedEOF)
		}
		switch ch := s.src[i]; {
		case ch == '"':
			s.advance(i + 1 - s.end)
			s.tok = String
			return nil

		case ch == '\\':
			// We are awaiting the completion of a \-escape.
			switch esc := s.peekAt(i + 1); esc {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				if err := s.checkHex4(i + 2); err != nil {
					return s.failf(i, "invalid Unicode escape: %w", err)
				}
				i += 6
			case 0:
				return s.failf(i+1, "unterminated string: %w", io.ErrUnexpectedEOF)
			default:
				return s.failf(i+1, "invalid %q after escape", esc)
			}

		case ch < ' ':
			return s.failf(i, "unescaped control %q", ch)

		case ch < utf8.RuneSelf:
			i++

		default:
			r, n := utf8.DecodeRune(s.src[i:])
			if r == utf8.RuneError && n == 1 {
				return s.failf(i, "invalid UTF-8 byte %#x in string", ch)
			}
			i += n
		}
	}
}

func (s *Scanner) scanNumber() error {
	i := s.end
	if s.src[i] == '-' {
		// If there is a leading sign, we need at least one digit.
		i++
		if !isDigit(s.peekAt(i)) {
			return s.failf(i, "want digit, got %q", s.peekAt(i))
		}
	}

	// Consume the remainder of an integer.
	j := s.spanWhile(i, s.digitAt)

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if j-i > 1 && s.src[i] == '0' {
		return s.failf(i, "extra leading zeroes")
	}

	// If a decimal point follows, consume a fractional part.
	tok := Integer
	if s.peekAt(j) == '.' {
		k := s.spanWhile(j+1, s.digitAt)
		if k == j+1 {
			return s.failf(k, "no digits after decimal point")
		}
		j, tok = k, Number
	}

	// If an exponent follows, consume it.
	if c := s.peekAt(j); c == 'e' || c == 'E' {
		k := j + 1
		if c := s.peekAt(k); c == '+' || c == '-' {
			k++
		}
		m := s.spanWhile(k, s.digitAt)
		if m == k {
			return s.failf(m, "missing exponent digits")
		}
		j, tok = m, Number
	}

	s.advance(j - s.end)
	s.tok = tok
	return nil
}

func (s *Scanner) scanComment() error {
	switch ch := s.peekAt(s.end + 1); ch {
	case '/': // line comment up to, but not including, the line break
		end := s.spanWhile(s.end+2, func(i int) bool {
			c := s.src[i]
			return c != '\n' && !(c == '\r' && s.peekAt(i+1) == '\n')
		})
		if err := s.checkUTF8(s.end+2, end); err != nil {
			return err
		}
		s.advance(end - s.end)
		s.tok = LineComment
		return nil

	case '*': // block comment
		i := bytes.Index(s.src[s.end+2:], []byte("*/"))
		if i < 0 {
			return s.failf(len(s.src), "unterminated block comment: %w", io.ErrUnexpectedEOF)
		}
		if err := s.checkUTF8(s.end+2, s.end+2+i); err != nil {
			return err
		}
		s.advance(i + 4)
		s.tok = BlockComment
		return nil

	default:
		return s.failf(s.end+1, "invalid %q in comment", ch)
	}
}

// checkUTF8 reports an error at the first invalid UTF-8 sequence in the
// input between offsets i and end.
func (s *Scanner) checkUTF8(i, end int) error {
	for i < end {
		if s.src[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, n := utf8.DecodeRune(s.src[i:end])
		if r == utf8.RuneError && n == 1 {
			return s.failf(i, "invalid UTF-8 byte %#x in comment", s.src[i])
		}
		i += n
	}
	return nil
}

// advance consumes n bytes of input into the current token, updating the
// line and column counters.
func (s *Scanner) advance(n int) {
	for _, b := range s.src[s.end : s.end+n] {
		if b == '\n' {
			s.eline++
			s.ecol = 0
		} else {
			s.ecol++
		}
	}
	s.end += n
}

// peekAt returns the byte at offset i, or 0 if i is out of range.
func (s *Scanner) peekAt(i int) byte {
	if i < len(s.src) {
		return s.src[i]
	}
	return 0
}

func (s *Scanner) digitAt(i int) bool { return isDigit(s.src[i]) }

// spanWhile returns the first offset at or after i for which f reports false,
// or the end of the input.
func (s *Scanner) spanWhile(i int, f func(int) bool) int {
	for i < len(s.src) && f(i) {
		i++
	}
	return i
}

// checkHex4 reports whether exactly 4 hexadecimal digits begin at offset i.
func (s *Scanner) checkHex4(i int) error {
	for j := i; j < i+4; j++ {
		if j >= len(s.src) {
			return io.ErrUnexpectedEOF
		} else if !isHexDigit(s.src[j]) {
			return fmt.Errorf("not a hex digit: %q", s.src[j])
		}
	}
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

// ErrorOffset reports the input offset recorded by a scanner error, if err
// carries one.
func ErrorOffset(err error) (int, bool) {
	var p posError
	if errors.As(err, &p) {
		return p.pos, true
	}
	return 0, false
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) failf(pos int, msg string, args ...any) error {
	return s.setErr(posError{pos, fmt.Errorf(msg, args...)})
}

func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\r' }

// isSpaceAt matches horizontal whitespace, but not the CR of a CR LF pair.
func isSpaceAt(src []byte) func(int) bool {
	return func(i int) bool {
		switch src[i] {
		case ' ', '\t':
			return true
		case '\r':
			return i+1 >= len(src) || src[i+1] != '\n'
		}
		return false
	}
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
