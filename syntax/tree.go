// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package syntax

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/creachadair/jsyntax"
	"github.com/creachadair/jsyntax/source"
)

// A Tree is a complete syntax tree for a JWCC document.
type Tree struct {
	root *Node
}

// NewTree constructs a tree with the given root, which must be a Document.
func NewTree(root *Node) (*Tree, error) {
	if root == nil || root.kind != Document {
		return nil, errors.New("tree root must be a document")
	}
	return &Tree{root: root}, nil
}

// Root returns the Document node at the root of t.
func (t *Tree) Root() *Node { return t.root }

// Len reports the length in bytes of the source text of t.
func (t *Tree) Len() int { return t.root.width }

// Text returns the complete source text of t.
func (t *Tree) Text() []byte { return t.root.Bytes() }

// Print writes the source text of t to w.
func (t *Tree) Print(w io.Writer) error {
	_, err := w.Write(t.Text())
	return err
}

// PrintOptions control the output of PrintWith.
type PrintOptions struct {
	// Enclose the text of each interior node in <Kind>...</Kind> tags.
	PrintKind bool

	// Also enclose the text of each token in tags naming its type, for example
	// <Integer>15</Integer>. Trivia are not enclosed.
	PrintTrivialKind bool

	// If set, Style is applied to each tag before it is written.
	Style func(tag string) string
}

// PrintWith writes the source text of t to w, decorated as specified by opts.
// With zero options it is equivalent to Print.
func (t *Tree) PrintWith(w io.Writer, opts PrintOptions) error {
	bw := bufio.NewWriter(w)
	p := treePrinter{w: bw, opts: opts}
	p.print(t.root)
	return bw.Flush()
}

type treePrinter struct {
	w    *bufio.Writer
	opts PrintOptions
}

func (p treePrinter) tag(name string, closing bool) {
	tag := "<" + name + ">"
	if closing {
		tag = "</" + name + ">"
	}
	if p.opts.Style != nil {
		tag = p.opts.Style(tag)
	}
	p.w.WriteString(tag)
}

func (p treePrinter) print(n *Node) {
	if n.kind != Leaf {
		if p.opts.PrintKind {
			p.tag(n.kind.String(), false)
		}
		for _, c := range n.children {
			p.print(c)
		}
		if p.opts.PrintKind {
			p.tag(n.kind.String(), true)
		}
		return
	}
	for _, t := range n.leading {
		p.w.WriteString(t.Text)
	}
	if p.opts.PrintTrivialKind {
		p.tag(TokenName(n.tok), false)
	}
	p.w.WriteString(n.text)
	if p.opts.PrintTrivialKind {
		p.tag(TokenName(n.tok), true)
	}
	for _, t := range n.trailing {
		p.w.WriteString(t.Text)
	}
}

// EOF reports the offset of the end-of-input token of t, and its position as
// computed from the tokens and trivia of the tree.
func (t *Tree) EOF() (int, source.Position) {
	off, pos := 0, source.Position{Line: 1, Column: 1}
	step := func(text string) {
		off += len(text)
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			pos.Line += strings.Count(text, "\n")
			pos.Column = len(text) - i
		} else {
			pos.Column += len(text)
		}
	}
	done := false
	t.root.walkLeaves(func(n *Node) {
		if done {
			return
		}
		for _, tr := range n.leading {
			step(tr.Text)
		}
		if n.tok == jsyntax.EOF {
			done = true
			return
		}
		step(n.text)
		for _, tr := range n.trailing {
			step(tr.Text)
		}
	})
	return off, pos
}
