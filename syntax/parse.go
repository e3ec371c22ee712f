// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package syntax

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/creachadair/jsyntax"
	"github.com/creachadair/jsyntax/edit"
	"github.com/creachadair/jsyntax/reuse"
	"github.com/creachadair/jsyntax/source"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsyntax.syntax")

// A Cache is a reuse ledger over an old syntax tree.
type Cache = reuse.Cache[*Tree]

// NewCache constructs a reuse cache over old.
func NewCache(old *Tree) *Cache { return reuse.New(old) }

// Parse parses the contents of buf as a single JWCC value.
//
// If cache != nil, Parse reparses incrementally: wherever a node may begin,
// it looks for a node of the same kind in the old tree of the cache at the
// corresponding old offset. The old node is reused when no edit of the cache
// touches its span, its text equals the new text at that position, and the
// text following it cannot change where it ends. Each reused span is reported
// to the cache. A cache supports a single parse. Overlapping edits disable
// reuse entirely.
//
// In case of a syntax error, the returned error has type [*jsyntax.SyntaxError].
func Parse(buf *source.Buffer, cache *Cache) (_ *Tree, err error) {
	p := &parser{buf: buf, src: buf.Bytes(), lex: newLexer(buf.Bytes())}
	if cache != nil {
		cache.Begin()
		defer cache.Finish()
		p.cache = cache
		p.reuse = newReuser(cache.OldTree(), cache.Edits())
	}
	defer p.recoverParseError(&err)

	root := p.parseDocument()
	if p.reuse != nil {
		log.Debugf("%s: reused %d nodes (%d bytes)", buf.ID(), p.nreused, p.breused)
	}
	return &Tree{root: root}, nil
}

type parser struct {
	buf   *source.Buffer
	src   []byte
	lex   *lexer
	cache *Cache
	reuse *reuser // nil unless reparsing incrementally

	nreused, breused int
}

func (p *parser) recoverParseError(errp *error) {
	if perr := recover(); perr != nil {
		if err, ok := perr.(*jsyntax.SyntaxError); ok {
			*errp = err
		} else {
			panic(perr)
		}
	}
}

// parseDocument consumes a value followed by the end of input.
func (p *parser) parseDocument() *Node {
	if n := p.tryReuse(Document); n != nil {
		return n
	}
	val := p.parseValue()
	eof := p.expect(jsyntax.EOF)
	return newNode(Document, val, eof)
}

// parseValue consumes a single value of any type.
func (p *parser) parseValue() *Node {
	switch tok := p.peek(); tok {
	case jsyntax.LBrace:
		return p.parseObject()
	case jsyntax.LSquare:
		return p.parseArray()
	case jsyntax.Integer, jsyntax.Number, jsyntax.String, jsyntax.True, jsyntax.False, jsyntax.Null:
		return p.take()
	case jsyntax.EOF:
		p.syntaxError(nil, "expected value, got %v", tok)
	default:
		p.syntaxError(nil, "unexpected %v", tok)
	}
	panic("unreachable")
}

// parseObject consumes "{" Member* "}".
func (p *parser) parseObject() *Node {
	if n := p.tryReuse(Object); n != nil {
		return n
	}
	kids := []*Node{p.expect(jsyntax.LBrace)}
	for p.peek() != jsyntax.RBrace {
		m := p.parseMember()
		kids = append(kids, m)
		if !hasComma(m) {
			if tok := p.peek(); tok != jsyntax.RBrace {
				p.syntaxError(nil, "%s", tokLabel([]jsyntax.Token{jsyntax.Comma, jsyntax.RBrace}, tok))
			}
			break
		}
	}
	kids = append(kids, p.expect(jsyntax.RBrace))
	return newNode(Object, kids...)
}

// parseMember consumes key ":" value ","?.
func (p *parser) parseMember() *Node {
	if n := p.tryReuse(Member); n != nil {
		return n
	}
	kids := []*Node{p.expect(jsyntax.String, jsyntax.RBrace), p.expect(jsyntax.Colon), p.parseValue()}
	if p.peek() == jsyntax.Comma {
		kids = append(kids, p.take())
	}
	return newNode(Member, kids...)
}

// parseArray consumes "[" Element* "]".
func (p *parser) parseArray() *Node {
	if n := p.tryReuse(Array); n != nil {
		return n
	}
	kids := []*Node{p.expect(jsyntax.LSquare)}
	for p.peek() != jsyntax.RSquare {
		e := p.parseElement()
		kids = append(kids, e)
		if !hasComma(e) {
			if tok := p.peek(); tok != jsyntax.RSquare {
				p.syntaxError(nil, "%s", tokLabel([]jsyntax.Token{jsyntax.Comma, jsyntax.RSquare}, tok))
			}
			break
		}
	}
	kids = append(kids, p.expect(jsyntax.RSquare))
	return newNode(Array, kids...)
}

// parseElement consumes value ","?.
func (p *parser) parseElement() *Node {
	if n := p.tryReuse(Element); n != nil {
		return n
	}
	kids := []*Node{p.parseValue()}
	if p.peek() == jsyntax.Comma {
		kids = append(kids, p.take())
	}
	return newNode(Element, kids...)
}

// tryReuse returns an old node of the given kind that can stand in for the
// text at the current position, or nil. If a node is found, the lexer skips
// over it.
func (p *parser) tryReuse(kind Kind) *Node {
	if p.reuse == nil {
		return nil
	}
	pos := p.lex.pos
	n := p.reuse.find(kind, pos, p.src)
	if n == nil {
		return nil
	}
	p.lex.SkipTo(pos + n.width)
	p.noteReused(pos, n)
	return n
}

func (p *parser) noteReused(pos int, n *Node) {
	p.cache.NoteReused(pos, pos+n.width)
	p.nreused++
	p.breused += n.width
}

// peek returns the token type of the next leaf.
func (p *parser) peek() jsyntax.Token {
	n, err := p.lex.Peek()
	if err != nil {
		panic(scanError(p.buf, err))
	}
	return n.tok
}

// take consumes the next leaf. When reparsing, an identical leaf of the old
// tree is returned in its place.
func (p *parser) take() *Node {
	pos := p.lex.pos
	n, err := p.lex.Take()
	if err != nil {
		panic(scanError(p.buf, err))
	}
	if p.reuse != nil {
		if old := p.reuse.findLeaf(n, pos, p.src); old != nil {
			p.noteReused(pos, old)
			return old
		}
	}
	return n
}

// expect consumes the next leaf, which must have the first of the given
// token types. The rest are listed as alternatives in the error message.
func (p *parser) expect(tokens ...jsyntax.Token) *Node {
	if tok := p.peek(); tok != tokens[0] {
		p.syntaxError(nil, "%s", tokLabel(tokens, tok))
	}
	return p.take()
}

// syntaxError panics with a *jsyntax.SyntaxError at the text of the next leaf.
func (p *parser) syntaxError(err error, msg string, args ...any) {
	off := p.lex.pos
	if n := p.lex.peek; n != nil {
		for _, t := range n.leading {
			off += len(t.Text)
		}
	}
	panic(newSyntaxError(p.buf, off, err, fmt.Sprintf(msg, args...)))
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []jsyntax.Token, got any) string {
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, last)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// A reuser locates reusable nodes of an old tree.
type reuser struct {
	old   []byte
	edits []edit.ByteEdit // ordered by start offset
	index map[int][]*Node // old start offset → nodes, outermost first
}

// newReuser indexes the nodes of old. It returns nil if old is nil,
// or if the edits overlap or fall outside the old text.
func newReuser(old *Tree, edits []edit.ByteEdit) *reuser {
	if old == nil {
		return nil
	}
	r := &reuser{old: old.Text(), edits: edits, index: make(map[int][]*Node)}
	slices.SortStableFunc(r.edits, func(a, b edit.ByteEdit) int { return cmp.Compare(a.Start, b.Start) })
	for i, e := range r.edits {
		if e.End > len(r.old) {
			log.Warningf("Edit %v is outside the old text (length %d); incremental reuse disabled", e, len(r.old))
			return nil
		}
		if i > 0 && e.Start < r.edits[i-1].End {
			log.Warningf("Edits %v and %v overlap; incremental reuse disabled", r.edits[i-1], e)
			return nil
		}
	}
	r.addNode(old.root, 0)
	return r
}

func (r *reuser) addNode(n *Node, at int) {
	r.index[at] = append(r.index[at], n)
	for _, c := range n.children {
		r.addNode(c, at)
		at += c.width
	}
}

// oldOffset maps an offset in the new text to the old text. It reports false
// if pos falls inside replacement text, which has no old counterpart.
func (r *reuser) oldOffset(pos int) (int, bool) {
	delta := 0
	for _, e := range r.edits {
		start := e.Start + delta
		if pos < start {
			break
		} else if pos < start+e.ReplacementLength {
			return 0, false
		}
		delta += e.Delta()
	}
	return pos - delta, true
}

// touched reports whether any edit touches the old range [start, end).
func (r *reuser) touched(start, end int) bool {
	for _, e := range r.edits {
		if e.Start >= end {
			break
		} else if e.Touches(start, end) {
			return true
		}
	}
	return false
}

// find returns an old node of the given kind that can be reused at offset pos
// of the new text src, or nil.
func (r *reuser) find(kind Kind, pos int, src []byte) *Node {
	at, ok := r.oldOffset(pos)
	if !ok {
		return nil
	}
	for _, n := range r.index[at] {
		if n.kind != kind {
			continue
		}
		end := pos + n.width
		if end > len(src) || (kind == Document && end != len(src)) {
			continue
		}
		if r.touched(at, at+n.width) || !bytes.Equal(r.old[at:at+n.width], src[pos:end]) {
			continue
		}
		if !r.sameEnd(n, at, pos, src) {
			continue
		}
		return n
	}
	return nil
}

// findLeaf returns a leaf of the old tree identical to the freshly scanned
// leaf n at offset pos of the new text, or nil.
func (r *reuser) findLeaf(n *Node, pos int, src []byte) *Node {
	if n.width == 0 {
		return nil
	}
	at, ok := r.oldOffset(pos)
	if !ok {
		return nil
	}
	for _, c := range r.index[at] {
		if c.kind != Leaf || c.tok != n.tok || c.width != n.width {
			continue
		}
		if r.touched(at, at+c.width) || !bytes.Equal(r.old[at:at+c.width], src[pos:pos+c.width]) {
			continue
		}
		return c
	}
	return nil
}

// sameEnd reports whether scanning the new text at pos would end node n at
// the same place it ended in the old text at offset at. The scanner looks at
// most two bytes past the end of a token to decide where it stops, so equal
// lookahead settles the question. Otherwise a node ending in a token that
// delimits itself still ends in place, unless the next new byte would extend
// its trailing whitespace.
func (r *reuser) sameEnd(n *Node, at, pos int, src []byte) bool {
	oldEnd, newEnd := at+n.width, pos+n.width
	if bytes.Equal(lookahead(r.old, oldEnd), lookahead(src, newEnd)) {
		return true
	}
	if !selfDelimiting(n.lastLeaf().tok) {
		return false
	} else if newEnd == len(src) {
		return true
	}
	switch src[newEnd] {
	case ' ', '\t', '\r':
		return false
	case '\n':
		return src[newEnd-1] != '\r'
	}
	return true
}

func lookahead(src []byte, i int) []byte { return src[i:min(i+2, len(src))] }

// selfDelimiting reports whether the end of a token of type tok can be found
// without looking past it.
func selfDelimiting(tok jsyntax.Token) bool {
	switch tok {
	case jsyntax.LBrace, jsyntax.RBrace, jsyntax.LSquare, jsyntax.RSquare,
		jsyntax.Comma, jsyntax.Colon, jsyntax.String:
		return true
	}
	return false
}
