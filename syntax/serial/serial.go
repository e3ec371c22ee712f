// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package serial implements an interchange format for syntax trees.
//
// A tree is encoded as a JSON document. An interior node is an object
//
//	{"kind": "Object", "children": [...]}
//
// and a leaf is an object
//
//	{"token": "String", "text": "\"key\"", "leading": [...], "trailing": [...]}
//
// where each trivia element is an object {"kind": "Space", "text": " "}.
// The leading and trailing fields may be omitted when empty. Decode accepts
// comments and trailing commas in its input, so encoded trees may be
// annotated by hand.
package serial

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jsyntax"
	"github.com/creachadair/jsyntax/syntax"
	"github.com/tailscale/hujson"
)

// ErrMalformed is reported by Decode for input that does not describe a
// valid syntax tree.
var ErrMalformed = errors.New("malformed syntax tree")

// Encode writes the interchange encoding of t to w.
func Encode(w io.Writer, t *syntax.Tree) error {
	v := hujson.Value{Value: encodeNode(t.Root())}
	v.Format()
	_, err := w.Write(v.Pack())
	return err
}

func encodeNode(n *syntax.Node) hujson.ValueTrimmed {
	if n.Kind() != syntax.Leaf {
		var kids hujson.Array
		for _, c := range n.Children() {
			kids.Elements = append(kids.Elements, hujson.Value{Value: encodeNode(c)})
		}
		return &hujson.Object{Members: []hujson.ObjectMember{
			field("kind", hujson.String(n.Kind().String())),
			field("children", &kids),
		}}
	}
	obj := &hujson.Object{Members: []hujson.ObjectMember{
		field("token", hujson.String(syntax.TokenName(n.Token()))),
		field("text", hujson.String(n.Text())),
	}}
	if lead := n.Leading(); len(lead) != 0 {
		obj.Members = append(obj.Members, field("leading", encodeTrivia(lead)))
	}
	if trail := n.Trailing(); len(trail) != 0 {
		obj.Members = append(obj.Members, field("trailing", encodeTrivia(trail)))
	}
	return obj
}

func encodeTrivia(ts []syntax.Trivia) *hujson.Array {
	var arr hujson.Array
	for _, t := range ts {
		arr.Elements = append(arr.Elements, hujson.Value{Value: &hujson.Object{
			Members: []hujson.ObjectMember{
				field("kind", hujson.String(syntax.TokenName(t.Kind))),
				field("text", hujson.String(t.Text)),
			},
		}})
	}
	return &arr
}

func field(name string, v hujson.ValueTrimmed) hujson.ObjectMember {
	return hujson.ObjectMember{
		Name:  hujson.Value{Value: hujson.String(name)},
		Value: hujson.Value{Value: v},
	}
}

// Decode decodes a syntax tree from its interchange encoding. Errors
// describing invalid input match ErrMalformed.
func Decode(data []byte) (*syntax.Tree, error) {
	v, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	root, err := decodeNode(v, "")
	if err != nil {
		return nil, err
	}
	tree, err := syntax.NewTree(root)
	if err != nil {
		return nil, malformed("", err)
	}
	return tree, nil
}

func decodeNode(v hujson.Value, path string) (*syntax.Node, error) {
	fields, err := objectFields(v, path)
	if err != nil {
		return nil, err
	}
	if _, ok := fields["kind"]; ok {
		return decodeInterior(fields, path)
	} else if _, ok := fields["token"]; ok {
		return decodeLeaf(fields, path)
	}
	return nil, malformedf(path, `node has neither "kind" nor "token"`)
}

func decodeInterior(fields map[string]hujson.Value, path string) (*syntax.Node, error) {
	if err := checkFields(fields, path, "kind", "children"); err != nil {
		return nil, err
	}
	name, err := stringField(fields, "kind", path)
	if err != nil {
		return nil, err
	}
	kind, ok := syntax.ParseKind(name)
	if !ok || kind == syntax.Leaf {
		return nil, malformedf(path, "unknown node kind %q", name)
	}
	elts, err := arrayField(fields, "children", path)
	if err != nil {
		return nil, err
	}
	kids := make([]*syntax.Node, len(elts))
	for i, elt := range elts {
		kids[i], err = decodeNode(elt, path+"/children/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
	}
	n, err := syntax.NewNode(kind, kids...)
	if err != nil {
		return nil, malformed(path, err)
	}
	return n, nil
}

func decodeLeaf(fields map[string]hujson.Value, path string) (*syntax.Node, error) {
	if err := checkFields(fields, path, "token", "text", "leading", "trailing"); err != nil {
		return nil, err
	}
	name, err := stringField(fields, "token", path)
	if err != nil {
		return nil, err
	}
	tok, ok := syntax.TokenByName(name)
	if !ok || tok.IsTrivia() {
		return nil, malformedf(path, "unknown token type %q", name)
	}
	text, err := stringField(fields, "text", path)
	if err != nil {
		return nil, err
	}
	lead, err := decodeTrivia(fields, "leading", path)
	if err != nil {
		return nil, err
	}
	trail, err := decodeTrivia(fields, "trailing", path)
	if err != nil {
		return nil, err
	}
	n, err := syntax.NewToken(tok, text, lead, trail)
	if err != nil {
		return nil, malformed(path, err)
	}
	return n, nil
}

func decodeTrivia(fields map[string]hujson.Value, name, path string) ([]syntax.Trivia, error) {
	if _, ok := fields[name]; !ok {
		return nil, nil
	}
	elts, err := arrayField(fields, name, path)
	if err != nil {
		return nil, err
	}
	out := make([]syntax.Trivia, len(elts))
	for i, elt := range elts {
		epath := path + "/" + name + "/" + strconv.Itoa(i)
		tf, err := objectFields(elt, epath)
		if err != nil {
			return nil, err
		}
		if err := checkFields(tf, epath, "kind", "text"); err != nil {
			return nil, err
		}
		kname, err := stringField(tf, "kind", epath)
		if err != nil {
			return nil, err
		}
		kind, ok := syntax.TokenByName(kname)
		if !ok || !kind.IsTrivia() {
			return nil, malformedf(epath, "unknown trivia kind %q", kname)
		}
		text, err := stringField(tf, "text", epath)
		if err != nil {
			return nil, err
		}
		out[i] = syntax.Trivia{Kind: kind, Text: text}
	}
	return out, nil
}

// objectFields returns the members of an object value, keyed by name.
func objectFields(v hujson.Value, path string) (map[string]hujson.Value, error) {
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return nil, malformedf(path, "expected an object")
	}
	out := make(map[string]hujson.Value, len(obj.Members))
	for _, m := range obj.Members {
		key := m.Name.Value.(hujson.Literal).String()
		if _, dup := out[key]; dup {
			return nil, malformedf(path, "duplicate field %q", key)
		}
		out[key] = m.Value
	}
	return out, nil
}

// checkFields reports an error if fields has a name not in allowed.
func checkFields(fields map[string]hujson.Value, path string, allowed ...string) error {
	n := 0
	for _, name := range allowed {
		if _, ok := fields[name]; ok {
			n++
		}
	}
	if n != len(fields) {
		return malformedf(path, "unexpected fields (allowed: %q)", allowed)
	}
	return nil
}

func stringField(fields map[string]hujson.Value, name, path string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", malformedf(path, "missing field %q", name)
	}
	lit, ok := v.Value.(hujson.Literal)
	if !ok || lit.Kind() != '"' {
		return "", malformedf(path, "field %q is not a string", name)
	}
	return lit.String(), nil
}

func arrayField(fields map[string]hujson.Value, name, path string) ([]hujson.Value, error) {
	v, ok := fields[name]
	if !ok {
		return nil, malformedf(path, "missing field %q", name)
	}
	arr, ok := v.Value.(*hujson.Array)
	if !ok {
		return nil, malformedf(path, "field %q is not an array", name)
	}
	return arr.Elements, nil
}

func malformed(path string, err error) error {
	return fmt.Errorf("%w at %q: %w", ErrMalformed, pathLabel(path), err)
}

func malformedf(path, msg string, args ...any) error {
	return fmt.Errorf("%w at %q: %s", ErrMalformed, pathLabel(path), fmt.Sprintf(msg, args...))
}

func pathLabel(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// Tokens reports the number of leaves in t, excluding the end of input.
// It is a cheap consistency check for decoded trees.
func Tokens(t *syntax.Tree) int {
	var count func(*syntax.Node) int
	count = func(n *syntax.Node) int {
		if n.Kind() == syntax.Leaf {
			if n.Token() == jsyntax.EOF {
				return 0
			}
			return 1
		}
		var sum int
		for _, c := range n.Children() {
			sum += count(c)
		}
		return sum
	}
	return count(t.Root())
}
