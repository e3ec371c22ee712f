// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package syntax

import (
	"io"

	"github.com/creachadair/jsyntax"
	"github.com/creachadair/jsyntax/source"
)

// A Lexeme is a leaf produced by Tokenize together with its location.
type Lexeme struct {
	*Node

	Offset int // offset of the token text, after its leading trivia
}

// Tokenize scans buf into leaves without parsing. The last lexeme is always
// the EOF token. Concatenating the text of all lexemes reproduces buf.
// In case of a lexical error, the error has type [*jsyntax.SyntaxError].
func Tokenize(buf *source.Buffer) ([]Lexeme, error) {
	lx := newLexer(buf.Bytes())
	var out []Lexeme
	for {
		n, at, err := lx.scan()
		if err != nil {
			return nil, scanError(buf, err)
		}
		out = append(out, Lexeme{Node: n, Offset: at})
		if n.tok == jsyntax.EOF {
			return out, nil
		}
	}
}

// A lexer groups the tokens of a scanner into leaves, with one leaf of
// lookahead.
type lexer struct {
	s    *jsyntax.Scanner
	src  []byte
	pos  int   // offset where the next leaf begins, including its trivia
	peek *Node // the next leaf, if already scanned
}

func newLexer(src []byte) *lexer {
	s := jsyntax.NewScanner(src)
	s.AllowComments(true)
	return &lexer{s: s, src: src}
}

// Peek returns the next leaf without consuming it.
func (l *lexer) Peek() (*Node, error) {
	if l.peek == nil {
		n, _, err := l.scan()
		if err != nil {
			return nil, err
		}
		l.peek = n
	}
	return l.peek, nil
}

// Take consumes and returns the next leaf.
func (l *lexer) Take() (*Node, error) {
	n, err := l.Peek()
	if err != nil {
		return nil, err
	}
	l.peek = nil
	l.pos += n.width
	return n, nil
}

// SkipTo discards any lookahead and resumes scanning at offset.
func (l *lexer) SkipTo(offset int) {
	l.peek = nil
	l.pos = offset
	l.s.Reset(offset)
}

// scan reads the next leaf from the scanner, returning the leaf and the
// offset of its token text.
func (l *lexer) scan() (*Node, int, error) {
	var lead []Trivia
	for {
		err := l.s.Next()
		if err == io.EOF {
			return newLeaf(jsyntax.EOF, "", lead, nil), l.s.Offset(), nil
		} else if err != nil {
			return nil, 0, err
		}
		tok := l.s.Token()
		if tok.IsTrivia() {
			lead = append(lead, Trivia{Kind: tok, Text: string(l.s.Text())})
			continue
		}
		at, text := l.s.Span().Pos, string(l.s.Text())

		// Trailing trivia stops short of comments and line breaks, which belong
		// to the leading trivia of the next token.
		var trail []Trivia
		if l.spaceNext() {
			if err := l.s.Next(); err != nil {
				return nil, 0, err
			}
			trail = []Trivia{{Kind: l.s.Token(), Text: string(l.s.Text())}}
		}
		return newLeaf(tok, text, lead, trail), at, nil
	}
}

// spaceNext reports whether the scanner's next token is horizontal space.
func (l *lexer) spaceNext() bool {
	i := l.s.Offset()
	if i >= len(l.src) {
		return false
	}
	switch l.src[i] {
	case ' ', '\t':
		return true
	case '\r':
		return i+1 >= len(l.src) || l.src[i+1] != '\n'
	}
	return false
}

// scanError converts a scanner error into a *jsyntax.SyntaxError located in
// buf.
func scanError(buf *source.Buffer, err error) error {
	off, ok := jsyntax.ErrorOffset(err)
	if !ok {
		off = buf.Len()
	}
	msg := err.Error()
	if u, ok := err.(interface{ Unwrap() error }); ok {
		msg = u.Unwrap().Error()
	}
	return newSyntaxError(buf, off, err, msg)
}

func newSyntaxError(buf *source.Buffer, off int, err error, msg string) *jsyntax.SyntaxError {
	pos, perr := buf.Position(off)
	if perr != nil {
		pos, _ = buf.Position(buf.Len())
	}
	return &jsyntax.SyntaxError{
		Location: jsyntax.LineCol{Line: pos.Line, Column: pos.Column - 1},
		Offset:   off,
		Message:  msg,
		Err:      err,
	}
}
