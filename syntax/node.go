// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package syntax implements full-fidelity syntax trees for JWCC documents.
//
// Every byte of the input belongs to exactly one token of the tree, either as
// the text of the token or as part of its leading or trailing trivia
// (whitespace, line breaks, and comments). Printing a tree therefore
// reproduces its source exactly.
//
// Trees are immutable. An incremental parse (see Parse) shares the nodes of
// an old tree that were not affected by a set of edits, so the old and new
// trees may have subtrees in common.
package syntax

import (
	"errors"
	"fmt"
	"slices"

	"github.com/creachadair/jsyntax"
)

// Kind is the syntactic category of a Node.
type Kind byte

// Constants defining the valid Kind values.
const (
	Leaf     Kind = iota // a single token with its trivia
	Document             // value EOF
	Object               // "{" Member* "}"
	Member               // key ":" value ","?
	Array                // "[" Element* "]"
	Element              // value ","?
)

var kindStr = [...]string{
	Leaf:     "Token",
	Document: "Document",
	Object:   "Object",
	Member:   "Member",
	Array:    "Array",
	Element:  "Element",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindStr[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool { return int(k) < len(kindStr) }

// ParseKind returns the Kind whose name is s.
func ParseKind(s string) (Kind, bool) {
	i := slices.Index(kindStr[:], s)
	return Kind(max(i, 0)), i >= 0
}

var tokenName = map[jsyntax.Token]string{
	jsyntax.LBrace:       "LeftBrace",
	jsyntax.RBrace:       "RightBrace",
	jsyntax.LSquare:      "LeftSquare",
	jsyntax.RSquare:      "RightSquare",
	jsyntax.Comma:        "Comma",
	jsyntax.Colon:        "Colon",
	jsyntax.Integer:      "Integer",
	jsyntax.Number:       "Number",
	jsyntax.String:       "String",
	jsyntax.True:         "True",
	jsyntax.False:        "False",
	jsyntax.Null:         "Null",
	jsyntax.BlockComment: "BlockComment",
	jsyntax.LineComment:  "LineComment",
	jsyntax.Space:        "Space",
	jsyntax.Newline:      "Newline",
	jsyntax.EOF:          "EOF",
}

// TokenName returns a short identifier for tok, suitable for use as a tag or
// a field value.
func TokenName(tok jsyntax.Token) string {
	if s, ok := tokenName[tok]; ok {
		return s
	}
	return "Invalid"
}

// TokenByName returns the token whose TokenName is s.
func TokenByName(s string) (jsyntax.Token, bool) {
	for tok, name := range tokenName {
		if name == s {
			return tok, true
		}
	}
	return jsyntax.Invalid, false
}

// A Trivia is a piece of text with no syntactic meaning attached to a token.
type Trivia struct {
	Kind jsyntax.Token // one of Space, Newline, LineComment, BlockComment
	Text string
}

// A Node is a node of a syntax tree. A node of kind Leaf holds a single token
// and its trivia; all other nodes hold children. The zero value is not valid.
type Node struct {
	kind     Kind
	width    int
	children []*Node

	// Leaves only.
	tok      jsyntax.Token
	text     string
	leading  []Trivia
	trailing []Trivia
}

// Kind reports the kind of n.
func (n *Node) Kind() Kind { return n.kind }

// Width reports the length of the source text spanned by n, including trivia.
func (n *Node) Width() int { return n.width }

// Children returns the children of n. It returns nil for a leaf.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Token reports the token type of a leaf, or Invalid for other nodes.
func (n *Node) Token() jsyntax.Token {
	if n.kind != Leaf {
		return jsyntax.Invalid
	}
	return n.tok
}

// Text returns the text of a leaf token, without its trivia.
func (n *Node) Text() string { return n.text }

// Leading returns the trivia preceding a leaf token.
func (n *Node) Leading() []Trivia { return slices.Clone(n.leading) }

// Trailing returns the trivia following a leaf token on the same line.
func (n *Node) Trailing() []Trivia { return slices.Clone(n.trailing) }

// Bytes returns the complete source text of n, including trivia.
func (n *Node) Bytes() []byte { return n.appendText(make([]byte, 0, n.width)) }

func (n *Node) String() string { return fmt.Sprintf("%v[%d]", n.kind, n.width) }

func (n *Node) appendText(buf []byte) []byte {
	if n.kind != Leaf {
		for _, c := range n.children {
			buf = c.appendText(buf)
		}
		return buf
	}
	for _, t := range n.leading {
		buf = append(buf, t.Text...)
	}
	buf = append(buf, n.text...)
	for _, t := range n.trailing {
		buf = append(buf, t.Text...)
	}
	return buf
}

// walkLeaves calls f for each leaf of n in order.
func (n *Node) walkLeaves(f func(*Node)) {
	if n.kind == Leaf {
		f(n)
		return
	}
	for _, c := range n.children {
		c.walkLeaves(f)
	}
}

// lastLeaf returns the rightmost leaf of n.
func (n *Node) lastLeaf() *Node {
	for n.kind != Leaf {
		n = n.children[len(n.children)-1]
	}
	return n
}

func newLeaf(tok jsyntax.Token, text string, leading, trailing []Trivia) *Node {
	w := len(text)
	for _, t := range leading {
		w += len(t.Text)
	}
	for _, t := range trailing {
		w += len(t.Text)
	}
	return &Node{kind: Leaf, width: w, tok: tok, text: text, leading: leading, trailing: trailing}
}

func newNode(kind Kind, children ...*Node) *Node {
	var w int
	for _, c := range children {
		w += c.width
	}
	return &Node{kind: kind, width: w, children: children}
}

// NewToken constructs a leaf for the given token and trivia. It reports an
// error if text is not exactly one token of type tok, if any trivia is not
// of its stated kind, or if the trailing trivia spans more than horizontal
// whitespace. A token of type EOF must have empty text and no trailing trivia.
func NewToken(tok jsyntax.Token, text string, leading, trailing []Trivia) (*Node, error) {
	if tok.IsTrivia() || tok == jsyntax.Invalid {
		return nil, fmt.Errorf("invalid token type %v", tok)
	}
	if err := checkText(tok, text); err != nil {
		return nil, err
	}
	for _, t := range leading {
		if err := checkTrivia(t); err != nil {
			return nil, fmt.Errorf("leading trivia: %w", err)
		}
	}
	for _, t := range trailing {
		if t.Kind != jsyntax.Space {
			return nil, fmt.Errorf("trailing trivia: unexpected %v", t.Kind)
		} else if err := checkTrivia(t); err != nil {
			return nil, fmt.Errorf("trailing trivia: %w", err)
		}
	}
	if tok == jsyntax.EOF && len(trailing) != 0 {
		return nil, errors.New("trailing trivia after end of input")
	}
	return newLeaf(tok, text, slices.Clone(leading), slices.Clone(trailing)), nil
}

// NewNode constructs an interior node of the given kind. It reports an error
// if the children do not have the shape required by kind.
func NewNode(kind Kind, children ...*Node) (*Node, error) {
	if err := checkShape(kind, children); err != nil {
		return nil, err
	}
	return newNode(kind, slices.Clone(children)...), nil
}

func checkTrivia(t Trivia) error {
	if !t.Kind.IsTrivia() {
		return fmt.Errorf("%v is not trivia", t.Kind)
	}
	return checkText(t.Kind, t.Text)
}

// checkText reports whether text scans as exactly one token of type tok.
func checkText(tok jsyntax.Token, text string) error {
	if tok == jsyntax.EOF {
		if text != "" {
			return fmt.Errorf("end of input has text %q", text)
		}
		return nil
	}
	s := jsyntax.NewScanner([]byte(text))
	s.AllowComments(true)
	if err := s.Next(); err != nil {
		return fmt.Errorf("invalid %v %q: %w", tok, text, err)
	}
	if got := s.Token(); got != tok || s.Span().End != len(text) {
		return fmt.Errorf("text %q is not a single %v", text, tok)
	}
	return nil
}

func isLeaf(n *Node, tok jsyntax.Token) bool { return n.kind == Leaf && n.tok == tok }

func isValue(n *Node) bool {
	return n.kind == Object || n.kind == Array || (n.kind == Leaf && n.tok.IsValue())
}

// hasComma reports whether a member or element ends with a comma.
func hasComma(n *Node) bool {
	return len(n.children) != 0 && isLeaf(n.children[len(n.children)-1], jsyntax.Comma)
}

func checkShape(kind Kind, kids []*Node) error {
	for _, k := range kids {
		if k == nil {
			return fmt.Errorf("%v has a nil child", kind)
		}
	}
	switch kind {
	case Document:
		if len(kids) != 2 || !isValue(kids[0]) || !isLeaf(kids[1], jsyntax.EOF) {
			return errors.New("document must be a value followed by end of input")
		}
	case Object:
		return checkList(kind, Member, jsyntax.LBrace, jsyntax.RBrace, kids)
	case Array:
		return checkList(kind, Element, jsyntax.LSquare, jsyntax.RSquare, kids)
	case Member:
		if len(kids) < 3 || len(kids) > 4 ||
			!isLeaf(kids[0], jsyntax.String) || !isLeaf(kids[1], jsyntax.Colon) || !isValue(kids[2]) ||
			(len(kids) == 4 && !isLeaf(kids[3], jsyntax.Comma)) {
			return errors.New(`member must be key ":" value with an optional comma`)
		}
	case Element:
		if len(kids) < 1 || len(kids) > 2 || !isValue(kids[0]) ||
			(len(kids) == 2 && !isLeaf(kids[1], jsyntax.Comma)) {
			return errors.New("element must be a value with an optional comma")
		}
	default:
		return fmt.Errorf("cannot construct a node of kind %v", kind)
	}
	return nil
}

// checkList checks the children of an object or array: open, items, close,
// where every item except the last must end with a comma.
func checkList(kind, item Kind, lhs, rhs jsyntax.Token, kids []*Node) error {
	if len(kids) < 2 || !isLeaf(kids[0], lhs) || !isLeaf(kids[len(kids)-1], rhs) {
		return fmt.Errorf("%v must be enclosed in %v and %v", kind, lhs, rhs)
	}
	items := kids[1 : len(kids)-1]
	for i, c := range items {
		if c.kind != item {
			return fmt.Errorf("%v item %d is %v, not %v", kind, i, c.kind, item)
		} else if i < len(items)-1 && !hasComma(c) {
			return fmt.Errorf("%v item %d is not followed by a comma", kind, i)
		}
	}
	return nil
}
