// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package syntax_test

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/creachadair/jsyntax"
	"github.com/creachadair/jsyntax/edit"
	"github.com/creachadair/jsyntax/reuse"
	"github.com/creachadair/jsyntax/source"
	"github.com/creachadair/jsyntax/syntax"
	"github.com/creachadair/mds/mtest"
	gocmp "github.com/google/go-cmp/cmp"
)

var validInputs = []string{
	`0`,
	`-1.5e+3`,
	`"hello, world"`,
	`true`, `false`, `null`,
	`{}`,
	`[]`,
	"  \n\t{ } \n",
	`{"a": 1, "b": [true, false, null], "c": {"d": "e"}}`,
	`[1, 2, 3,]`,
	`{"trailing": "comma",}`,
	"// leading comment\n{\n  \"a\": 1, // trailing comment\n  /* block */ \"b\": 2,\n}\n",
	"[\r\n  1,\r\n  2\r\n]\r\n",
	"/* only a comment before */ 5 /* and after */",
	"[[[[[]]]]]",
	`{"nested": {"deeper": {"deepest": [1, {"x": []}]}}}`,
	"[1,\n/*\nmulti\nline\n*/\n2]",
	"\"unicode: \\u00e9 \u00e9\"",
	"[1, \r 2]",
}

func mustParse(t *testing.T, text string) *syntax.Tree {
	t.Helper()
	tree, err := syntax.Parse(source.New("test", []byte(text)), nil)
	if err != nil {
		t.Fatalf("Parse %q: unexpected error: %v", text, err)
	}
	return tree
}

// dump renders the structure of n, including the trivia of each leaf.
func dump(n *syntax.Node) string {
	if n.Kind() == syntax.Leaf {
		var sb strings.Builder
		for _, t := range n.Leading() {
			fmt.Fprintf(&sb, "%s:%q ", syntax.TokenName(t.Kind), t.Text)
		}
		fmt.Fprintf(&sb, "%s=%q", syntax.TokenName(n.Token()), n.Text())
		for _, t := range n.Trailing() {
			fmt.Fprintf(&sb, " %s:%q", syntax.TokenName(t.Kind), t.Text)
		}
		return sb.String()
	}
	var parts []string
	for _, c := range n.Children() {
		parts = append(parts, dump(c))
	}
	return fmt.Sprintf("%v(%s)", n.Kind(), strings.Join(parts, ", "))
}

func TestRoundTrip(t *testing.T) {
	for _, input := range validInputs {
		tree := mustParse(t, input)
		var buf bytes.Buffer
		if err := tree.Print(&buf); err != nil {
			t.Fatalf("Print: %v", err)
		}
		if got := buf.String(); got != input {
			t.Errorf("Round trip failed:\n got: %q\nwant: %q", got, input)
		}
		if tree.Len() != len(input) {
			t.Errorf("Len: got %d, want %d", tree.Len(), len(input))
		}
		if root := tree.Root(); root.Kind() != syntax.Document {
			t.Errorf("Root kind: got %v, want %v", root.Kind(), syntax.Document)
		}
	}
}

func TestStructure(t *testing.T) {
	tree := mustParse(t, "{\"a\": 1, // note\n \"b\": [2,]}\n")
	const want = `Document(` +
		`Object(LeftBrace="{", ` +
		`Member(String="\"a\"", Colon=":" Space:" ", Integer="1", Comma="," Space:" "), ` +
		`Member(LineComment:"// note" Newline:"\n" Space:" " String="\"b\"", Colon=":" Space:" ", ` +
		`Array(LeftSquare="[", Element(Integer="2", Comma=","), RightSquare="]")), ` +
		`RightBrace="}"), ` +
		`Newline:"\n" EOF="")`
	if diff := gocmp.Diff(want, dump(tree.Root())); diff != "" {
		t.Errorf("Structure (-want, +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input string
		line  int
		col   int // 0-based
	}{
		{"", 1, 0},
		{"   ", 1, 3},
		{"[1 \r 2]", 1, 5},
		{"{", 1, 1},
		{"[1, 2", 1, 5},
		{"[1 2]", 1, 3},
		{`{"a" 1}`, 1, 5},
		{`{"a": 1 "b": 2}`, 1, 8},
		{`{1: 2}`, 1, 1},
		{"[,]", 1, 1},
		{"[1,,]", 1, 3},
		{"1 2", 1, 2},
		{"{}\n}", 2, 0},
		{"\"unterminated", 1, 13},
		{"[tru]", 1, 1},
		{"[1]\n/* open", 2, 7},
		{"[1] # not a comment", 1, 4},
		{"[01]", 1, 1},
	}
	for _, tc := range tests {
		tree, err := syntax.Parse(source.New("bad", []byte(tc.input)), nil)
		if err == nil {
			t.Errorf("Parse %q: got %v, want error", tc.input, tree)
			continue
		}
		var serr *jsyntax.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %q: error %T is not a *SyntaxError: %v", tc.input, err, err)
			continue
		}
		if serr.Location.Line != tc.line || serr.Location.Column != tc.col {
			t.Errorf("Parse %q: error at %v, want %d:%d (%v)", tc.input, serr.Location, tc.line, tc.col, err)
		}
	}
}

func TestTokenize(t *testing.T) {
	const input = "// hi\n{\"a\":  [1, 2.5e3]} \r\n"
	lex, err := syntax.Tokenize(source.New("lex", []byte(input)))
	if err != nil {
		t.Fatalf("Tokenize: unexpected error: %v", err)
	}
	var got []string
	var text []byte
	for _, x := range lex {
		got = append(got, fmt.Sprintf("%d %s %q", x.Offset, syntax.TokenName(x.Token()), x.Text()))
		text = append(text, x.Bytes()...)
	}
	want := []string{
		`6 LeftBrace "{"`,
		`7 String "\"a\""`,
		`10 Colon ":"`,
		`13 LeftSquare "["`,
		`14 Integer "1"`,
		`15 Comma ","`,
		`17 Number "2.5e3"`,
		`22 RightSquare "]"`,
		`23 RightBrace "}"`,
		`27 EOF ""`,
	}
	if diff := gocmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize (-want, +got):\n%s", diff)
	}
	if string(text) != input {
		t.Errorf("Tokens do not reproduce the input:\n got: %q\nwant: %q", text, input)
	}

	// Tokenize does not check the grammar.
	if _, err := syntax.Tokenize(source.New("lex", []byte("]]{,"))); err != nil {
		t.Errorf("Tokenize: unexpected error: %v", err)
	}
	if _, err := syntax.Tokenize(source.New("lex", []byte(`["open`))); err == nil {
		t.Error("Tokenize: expected an error for an unterminated string")
	}
}

func TestPrintWith(t *testing.T) {
	tree := mustParse(t, `{"a": [1]} `)
	tests := []struct {
		opts syntax.PrintOptions
		want string
	}{
		{syntax.PrintOptions{}, `{"a": [1]} `},
		{syntax.PrintOptions{PrintKind: true},
			`<Document><Object>{<Member>"a": <Array>[<Element>1</Element>]</Array></Member>} </Object></Document>`},
		{syntax.PrintOptions{PrintTrivialKind: true},
			`<LeftBrace>{</LeftBrace><String>"a"</String><Colon>:</Colon> <LeftSquare>[</LeftSquare>` +
				`<Integer>1</Integer><RightSquare>]</RightSquare><RightBrace>}</RightBrace> <EOF></EOF>`},
		{syntax.PrintOptions{PrintKind: true, Style: func(tag string) string { return strings.ToLower(tag) }},
			`<document><object>{<member>"a": <array>[<element>1</element>]</array></member>} </object></document>`},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		if err := tree.PrintWith(&buf, tc.opts); err != nil {
			t.Fatalf("PrintWith: %v", err)
		}
		if got := buf.String(); got != tc.want {
			t.Errorf("PrintWith %+v:\n got: %s\nwant: %s", tc.opts, got, tc.want)
		}
	}
}

func TestEOF(t *testing.T) {
	tests := []struct {
		input string
		off   int
		line  int
		col   int
	}{
		{"1", 1, 1, 2},
		{"1\n", 2, 2, 1},
		{"[\n1\n]\n\n", 7, 5, 1},
		{"{} /* a\nb */ ", 13, 2, 6},
		{"\"x\"\r\n// done", 12, 2, 8},
	}
	for _, tc := range tests {
		tree := mustParse(t, tc.input)
		off, pos := tree.EOF()
		if off != tc.off || pos.Line != tc.line || pos.Column != tc.col {
			t.Errorf("EOF %q: got %d at %v, want %d at %d:%d", tc.input, off, pos, tc.off, tc.line, tc.col)
		}
		buf := source.New("eof", []byte(tc.input))
		if want, err := buf.Position(off); err != nil || want != pos {
			t.Errorf("EOF %q: tree position %v, buffer position %v (%v)", tc.input, pos, want, err)
		}
	}
}

type textEdit struct {
	start, end int
	text       string
}

// applyEdits applies non-overlapping edits to old, returning the new text and
// the corresponding byte edits in the order given.
func applyEdits(old string, edits []textEdit) (string, []edit.ByteEdit) {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b textEdit) int { return cmp.Compare(b.start, a.start) })
	text := old
	for _, e := range sorted {
		text = text[:e.start] + e.text + text[e.end:]
	}
	var bes []edit.ByteEdit
	for _, e := range edits {
		bes = append(bes, edit.ByteEdit{Start: e.start, End: e.end, ReplacementLength: len(e.text)})
	}
	return text, bes
}

// reparse parses old, then reparses the edited text incrementally.
func reparse(t *testing.T, old string, edits []textEdit) (oldTree, newTree *syntax.Tree, text string, ranges []reuse.Range) {
	t.Helper()
	oldTree = mustParse(t, old)
	text, bes := applyEdits(old, edits)
	cache := syntax.NewCache(oldTree)
	for _, e := range bes {
		if err := cache.AddEdit(e.Start, e.End, e.ReplacementLength); err != nil {
			t.Fatalf("AddEdit %v: %v", e, err)
		}
	}
	cache.RecordReuseInformation()
	newTree, err := syntax.Parse(source.New("new", []byte(text)), cache)
	if err != nil {
		t.Fatalf("Reparse %q: unexpected error: %v", text, err)
	}
	return oldTree, newTree, text, cache.ReusedRanges()
}

func TestReuseNoEdits(t *testing.T) {
	for _, input := range validInputs {
		old, tree, _, ranges := reparse(t, input, nil)
		want := []reuse.Range{{Start: 0, End: len(input)}}
		if diff := gocmp.Diff(want, ranges); diff != "" {
			t.Errorf("Ranges for %q (-want, +got):\n%s", input, diff)
		}
		if tree.Root() != old.Root() {
			t.Errorf("Reparse of %q did not reuse the document", input)
		}
	}
}

func TestReuseScenario(t *testing.T) {
	const old = "{\n  \"a\": 1,\n  \"b\": [2, 3],\n  \"c\": {\"d\": null}\n}\n"
	oldTree, tree, text, ranges := reparse(t, old, []textEdit{{9, 10, "42"}})
	if got := string(tree.Text()); got != text {
		t.Errorf("Reparse text:\n got: %q\nwant: %q", got, text)
	}
	// Everything but the replaced literal is reused.
	want := []reuse.Range{{Start: 0, End: 9}, {Start: 11, End: len(text)}}
	if diff := gocmp.Diff(want, ranges); diff != "" {
		t.Errorf("Ranges (-want, +got):\n%s", diff)
	}

	// Members "b" and "c" are shared with the old tree, member "a" is not.
	oldMembers := oldTree.Root().Children()[0].Children()
	newMembers := tree.Root().Children()[0].Children()
	if oldMembers[1] == newMembers[1] {
		t.Error("Edited member was reused")
	}
	for i := 2; i <= 3; i++ {
		if oldMembers[i] != newMembers[i] {
			t.Errorf("Member %d was not reused", i)
		}
	}
}

func TestReuseValidity(t *testing.T) {
	tests := []struct {
		old   string
		edits []textEdit
	}{
		{`{"a": 1, "b": [2, 3]}`, []textEdit{{6, 7, "42"}}},
		{`[1, 2, 3, 4, 5]`, []textEdit{{7, 8, "true"}}},
		{`[1, 2, 3, 4, 5]`, []textEdit{{13, 14, "6"}, {1, 2, "0"}}},
		{`[1, 2, 3, 4, 5]`, []textEdit{{14, 14, ", 6"}}},
		{`[1, 2, 3, 4, 5]`, []textEdit{{1, 4, ""}}},
		{"[\n  [1, 2],\n  [3, 4],\n  [5, 6]\n]", []textEdit{{18, 19, "40"}}},
		{`{"a": "xyz", "b": "xyz"}`, []textEdit{{8, 8, "q"}}},
		{"// header\n{\"k\": [1, 2]}", []textEdit{{3, 9, "changed"}}},
		{`{"a": {"b": {"c": 1}}, "d": 2}`, []textEdit{{18, 19, "10"}}},
		{`[1]`, []textEdit{{0, 3, "[2]"}}},
		{`[true, false]`, []textEdit{{6, 6, " "}}},
		{`[1]`, []textEdit{{2, 2, "2"}}},
		{`[1, 2]`, []textEdit{{2, 2, "3"}}},
		{`[1,2]`, []textEdit{{3, 3, " "}}},
		{"[1,\r2]", []textEdit{{4, 5, "\n"}}},
		{`["a",]`, []textEdit{{5, 5, "\t"}}},
		{`{"a": 1, "b": 2}`, []textEdit{{8, 9, ""}}},
		{`{"a": 1, "b": 2}`, []textEdit{{1, 1, `"z": 0, `}, {15, 15, "0"}}},
		{`[1, 2, 3]`, []textEdit{{4, 7, ""}}},
		{"[1, 2] ", []textEdit{{7, 7, "// end"}}},
	}
	for _, tc := range tests {
		old, tree, text, ranges := reparse(t, tc.old, tc.edits)
		if got := string(tree.Text()); got != text {
			t.Errorf("Reparse text:\n got: %q\nwant: %q", got, text)
		}
		fresh := mustParse(t, text)
		if diff := gocmp.Diff(dump(fresh.Root()), dump(tree.Root())); diff != "" {
			t.Errorf("Incremental tree for %q differs from fresh (-fresh, +incremental):\n%s", text, diff)
		}

		// Each reused byte must map back through the edits to an equal byte of
		// the old buffer, and the ranges must be ordered and disjoint.
		oldText := string(old.Text())
		for i, r := range ranges {
			if r.Start < 0 || r.End > len(text) || r.Start >= r.End {
				t.Errorf("Range %v is invalid for %q", r, text)
				continue
			}
			if i > 0 && r.Start < ranges[i-1].End {
				t.Errorf("Range %v overlaps or precedes %v", r, ranges[i-1])
			}
			for pos := r.Start; pos < r.End; pos++ {
				at, ok := oldOffset(tc.edits, pos)
				if !ok {
					t.Errorf("Range %v of %q covers replacement text at %d", r, text, pos)
					break
				} else if oldText[at] != text[pos] {
					t.Errorf("Range %v of %q: new byte %d is %q, old byte %d is %q",
						r, text, pos, text[pos], at, oldText[at])
					break
				}
			}
		}
	}
}

// oldOffset maps offset pos of the edited text back to the text before the
// edits. It reports false if pos falls inside replacement text.
func oldOffset(edits []textEdit, pos int) (int, bool) {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b textEdit) int { return cmp.Compare(a.start, b.start) })
	delta := 0
	for _, e := range sorted {
		start := e.start + delta
		if pos < start {
			break
		} else if pos < start+len(e.text) {
			return 0, false
		}
		delta += len(e.text) - (e.end - e.start)
	}
	return pos - delta, true
}

func TestReuseRanges(t *testing.T) {
	tests := []struct {
		name  string
		old   string
		edits []textEdit
		want  []reuse.Range
	}{
		{"Literal", "{\"x\": 1}\n", []textEdit{{6, 7, "2"}},
			[]reuse.Range{{Start: 0, End: 6}, {Start: 7, End: 9}}},
		{"Element", "[10, 20, 30]\n", []textEdit{{5, 7, "21"}},
			[]reuse.Range{{Start: 0, End: 5}, {Start: 7, End: 13}}},
		{"LastElement", "[1, 2]\n", []textEdit{{4, 5, "3"}},
			[]reuse.Range{{Start: 0, End: 4}, {Start: 5, End: 7}}},

		// An insertion at the end of a number extends it.
		{"ExtendNumber", "[1]", []textEdit{{2, 2, "2"}},
			[]reuse.Range{{Start: 0, End: 1}, {Start: 3, End: 4}}},
		{"InsertInside", "[1, 2]", []textEdit{{2, 2, "3"}},
			[]reuse.Range{{Start: 0, End: 1}, {Start: 3, End: 7}}},

		// An insertion before an element does not disturb it.
		{"InsertBefore", "[1, 2]", []textEdit{{1, 1, "0, "}},
			[]reuse.Range{{Start: 0, End: 1}, {Start: 4, End: 9}}},

		// Inserted space joins the trailing trivia of the comma before it.
		{"ExtendTrivia", "[1,2]", []textEdit{{3, 3, " "}},
			[]reuse.Range{{Start: 0, End: 2}, {Start: 4, End: 6}}},

		// A line break after a lone CR turns it into a CR LF pair.
		{"JoinNewline", "[1,\r2]", []textEdit{{4, 5, "\n"}},
			[]reuse.Range{{Start: 0, End: 2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, tree, text, ranges := reparse(t, tc.old, tc.edits)
			if got := string(tree.Text()); got != text {
				t.Errorf("Reparse text: got %q, want %q", got, text)
			}
			if diff := gocmp.Diff(tc.want, ranges); diff != "" {
				t.Errorf("Ranges for %q (-want, +got):\n%s", text, diff)
			}
		})
	}
}

func TestReuseOverlappingEdits(t *testing.T) {
	const old = `[1, 2, 3, 4, 5]`
	oldTree := mustParse(t, old)
	cache := syntax.NewCache(oldTree)
	cache.AddEdit(1, 5, 1)
	cache.AddEdit(4, 8, 1)
	cache.RecordReuseInformation()
	tree, err := syntax.Parse(source.New("new", []byte(`[1, 2, 3, 4, 5]`)), cache)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if got := string(tree.Text()); got != old {
		t.Errorf("Parse text: got %q, want %q", got, old)
	}
	if got := cache.ReusedRanges(); len(got) != 0 {
		t.Errorf("Ranges: got %v, want none", got)
	}
}

func TestReuseNotRecording(t *testing.T) {
	const text = `{"same": true}`
	old := mustParse(t, text)
	cache := syntax.NewCache(old)
	tree, err := syntax.Parse(source.New("new", []byte(text)), cache)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if tree.Root() != old.Root() {
		t.Error("Document was not reused")
	}
	if got := cache.ReusedRanges(); len(got) != 0 {
		t.Errorf("Ranges: got %v, want none", got)
	}

	// A cache supports a single parse.
	mtest.MustPanic(t, func() { syntax.Parse(source.New("again", []byte(text)), cache) })
}

func TestReuseParseError(t *testing.T) {
	old := mustParse(t, `[1, 2, 3]`)
	cache := syntax.NewCache(old)
	cache.AddEdit(8, 9, 0)
	cache.RecordReuseInformation()
	if tree, err := syntax.Parse(source.New("new", []byte(`[1, 2, 3`)), cache); err == nil {
		t.Fatalf("Parse: got %v, want error", tree)
	}
	if s := cache.State(); s != reuse.Done {
		t.Errorf("Cache state after failed parse: got %v, want %v", s, reuse.Done)
	}
}

func TestConstructors(t *testing.T) {
	tok := func(tok jsyntax.Token, text string) *syntax.Node {
		t.Helper()
		n, err := syntax.NewToken(tok, text, nil, nil)
		if err != nil {
			t.Fatalf("NewToken(%v, %q): %v", tok, text, err)
		}
		return n
	}

	one := tok(jsyntax.Integer, "1")
	elt, err := syntax.NewNode(syntax.Element, one)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	arr, err := syntax.NewNode(syntax.Array, tok(jsyntax.LSquare, "["), elt, tok(jsyntax.RSquare, "]"))
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	eof, err := syntax.NewToken(jsyntax.EOF, "", []syntax.Trivia{{Kind: jsyntax.Newline, Text: "\n"}}, nil)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	doc, err := syntax.NewNode(syntax.Document, arr, eof)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	tree, err := syntax.NewTree(doc)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if got := string(tree.Text()); got != "[1]\n" {
		t.Errorf("Text: got %q, want %q", got, "[1]\n")
	}

	badTokens := []struct {
		tok       jsyntax.Token
		text      string
		lead, trl []syntax.Trivia
	}{
		{jsyntax.Integer, "1.5", nil, nil},
		{jsyntax.Integer, "1 ", nil, nil},
		{jsyntax.String, `"open`, nil, nil},
		{jsyntax.Space, " ", nil, nil},
		{jsyntax.EOF, "x", nil, nil},
		{jsyntax.Null, "null", []syntax.Trivia{{Kind: jsyntax.Comma, Text: ","}}, nil},
		{jsyntax.Null, "null", []syntax.Trivia{{Kind: jsyntax.Space, Text: "\n"}}, nil},
		{jsyntax.Null, "null", nil, []syntax.Trivia{{Kind: jsyntax.Newline, Text: "\n"}}},
		{jsyntax.Null, "null", nil, []syntax.Trivia{{Kind: jsyntax.Space, Text: "x"}}},
		{jsyntax.EOF, "", nil, []syntax.Trivia{{Kind: jsyntax.Space, Text: " "}}},
	}
	for _, bt := range badTokens {
		if n, err := syntax.NewToken(bt.tok, bt.text, bt.lead, bt.trl); err == nil {
			t.Errorf("NewToken(%v, %q): got %v, want error", bt.tok, bt.text, n)
		}
	}

	comma := tok(jsyntax.Comma, ",")
	badNodes := []struct {
		kind syntax.Kind
		kids []*syntax.Node
	}{
		{syntax.Leaf, []*syntax.Node{one}},
		{syntax.Document, []*syntax.Node{one}},
		{syntax.Document, []*syntax.Node{elt, eof}},
		{syntax.Element, []*syntax.Node{comma}},
		{syntax.Element, []*syntax.Node{one, one}},
		{syntax.Member, []*syntax.Node{one, tok(jsyntax.Colon, ":"), one}},
		{syntax.Array, []*syntax.Node{tok(jsyntax.LSquare, "["), elt, elt, tok(jsyntax.RSquare, "]")}},
		{syntax.Array, []*syntax.Node{tok(jsyntax.LSquare, "["), one, tok(jsyntax.RSquare, "]")}},
		{syntax.Object, []*syntax.Node{tok(jsyntax.LBrace, "{")}},
		{syntax.Array, []*syntax.Node{nil}},
		{syntax.Kind(99), nil},
	}
	for _, bn := range badNodes {
		if n, err := syntax.NewNode(bn.kind, bn.kids...); err == nil {
			t.Errorf("NewNode(%v, ...): got %v, want error", bn.kind, n)
		}
	}
	if _, err := syntax.NewTree(arr); err == nil {
		t.Error("NewTree of an array: got nil, want error")
	}
}

func TestNames(t *testing.T) {
	for _, k := range []syntax.Kind{syntax.Leaf, syntax.Document, syntax.Object, syntax.Member, syntax.Array, syntax.Element} {
		got, ok := syntax.ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q): got %v, %v; want %v", k.String(), got, ok, k)
		}
	}
	if k, ok := syntax.ParseKind("Bogus"); ok {
		t.Errorf("ParseKind(Bogus): got %v, want failure", k)
	}
	for tok := jsyntax.LBrace; tok <= jsyntax.EOF; tok++ {
		got, ok := syntax.TokenByName(syntax.TokenName(tok))
		if !ok || got != tok {
			t.Errorf("TokenByName(%q): got %v, %v; want %v", syntax.TokenName(tok), got, ok, tok)
		}
	}
}
