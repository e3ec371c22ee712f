// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package edit_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jsyntax/edit"
	"github.com/creachadair/jsyntax/source"
	"github.com/google/go-cmp/cmp"
)

func pos(line, col int) source.Position { return source.Position{Line: line, Column: col} }

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		input string
		want  edit.Descriptor
	}{
		{"1:1-1:1=", edit.Descriptor{Start: pos(1, 1), End: pos(1, 1)}},
		{"1:9-1:10=2", edit.Descriptor{Start: pos(1, 9), End: pos(1, 10), Replacement: "2"}},
		{"12:30-14:2=hello", edit.Descriptor{Start: pos(12, 30), End: pos(14, 2), Replacement: "hello"}},
		{"1:1-1:2=a=b", edit.Descriptor{Start: pos(1, 1), End: pos(1, 2), Replacement: "a=b"}},
		{"1:1-1:2=-1:2", edit.Descriptor{Start: pos(1, 1), End: pos(1, 2), Replacement: "-1:2"}},
		{"3:1-3:1=\n", edit.Descriptor{Start: pos(3, 1), End: pos(3, 1), Replacement: "\n"}},
		{"007:1-7:01=x", edit.Descriptor{Start: pos(7, 1), End: pos(7, 1), Replacement: "x"}},
	}
	for _, tc := range tests {
		got, err := edit.ParseDescriptor(tc.input)
		if err != nil {
			t.Errorf("ParseDescriptor(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseDescriptor(%q) (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	tests := []struct {
		input, field string
	}{
		{"abc:1-2:3=x", "start line"},
		{"1:c-2:3=x", "start column"},
		{"1:1-x:3=x", "end line"},
		{"1:1-2:=x", "end column"},
		{"1:1 2:3=x", "range separator"},
		{"1-2:3=x", "position separator"},
		{"1:1-23=x", "position separator"},
		{"1:1-2:3", "replacement separator"},
		{"", "replacement separator"},
		{"+1:1-2:3=x", "start line"},
		{"1:-1-2:3=x", "start column"},
		{" 1:1-2:3=x", "start line"},
	}
	for _, tc := range tests {
		got, err := edit.ParseDescriptor(tc.input)
		if err == nil {
			t.Errorf("ParseDescriptor(%q): got %+v, want error", tc.input, got)
			continue
		}
		if !errors.Is(err, edit.ErrMalformedEdit) {
			t.Errorf("ParseDescriptor(%q): got %v, want %v", tc.input, err, edit.ErrMalformedEdit)
		}
		var serr *edit.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("ParseDescriptor(%q): error %T is not a *SyntaxError", tc.input, err)
		} else if serr.Field != tc.field || serr.Input != tc.input {
			t.Errorf("ParseDescriptor(%q): got field %q input %q, want %q", tc.input, serr.Field, serr.Input, tc.field)
		}
	}
}

func TestParseDescriptors(t *testing.T) {
	got, err := edit.ParseDescriptors([]string{"1:1-1:2=a", "2:1-2:1=b"})
	if err != nil {
		t.Fatalf("ParseDescriptors: unexpected error: %v", err)
	}
	want := []edit.Descriptor{
		{Start: pos(1, 1), End: pos(1, 2), Replacement: "a"},
		{Start: pos(2, 1), End: pos(2, 1), Replacement: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDescriptors (-want, +got):\n%s", diff)
	}

	if _, err := edit.ParseDescriptors([]string{"1:1-1:2=a", "bogus"}); !errors.Is(err, edit.ErrMalformedEdit) {
		t.Errorf("ParseDescriptors: got %v, want %v", err, edit.ErrMalformedEdit)
	}
}

func TestResolve(t *testing.T) {
	buf := source.New("old", []byte("{\"a\": 1}\n[2, 3]"))
	tests := []struct {
		input string
		want  edit.ByteEdit
	}{
		{"1:7-1:8=42", edit.ByteEdit{Start: 6, End: 7, ReplacementLength: 2}},
		{"1:1-1:1=", edit.ByteEdit{Start: 0, End: 0}},
		{"1:9-2:1=", edit.ByteEdit{Start: 8, End: 9}},
		{"2:1-2:7=null", edit.ByteEdit{Start: 9, End: 15, ReplacementLength: 4}},
	}
	for _, tc := range tests {
		d, err := edit.ParseDescriptor(tc.input)
		if err != nil {
			t.Fatalf("ParseDescriptor(%q): %v", tc.input, err)
		}
		got, err := d.Resolve(buf)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Resolve(%q): got %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	buf := source.New("one-line", []byte("abc"))
	tests := []struct {
		input string
		want  error
	}{
		{"1:1-2:2=hello", source.ErrPositionOutOfRange},
		{"2:1-2:1=", source.ErrPositionOutOfRange},
		{"1:5-1:5=", source.ErrPositionOutOfRange},
		{"1:0-1:1=", source.ErrPositionOutOfRange},
		{"1:3-1:2=", edit.ErrMalformedEdit},
	}
	for _, tc := range tests {
		ds, err := edit.ParseDescriptors([]string{tc.input})
		if err != nil {
			t.Fatalf("ParseDescriptors(%q): %v", tc.input, err)
		}
		got, err := edit.ResolveAll(buf, ds)
		if !errors.Is(err, tc.want) {
			t.Errorf("ResolveAll(%q): got (%v, %v), want %v", tc.input, got, err, tc.want)
		}
	}
}

func TestByteEdit(t *testing.T) {
	e := edit.ByteEdit{Start: 4, End: 7, ReplacementLength: 1}
	if got := e.OriginalLength(); got != 3 {
		t.Errorf("OriginalLength: got %d, want 3", got)
	}
	if got := e.Delta(); got != -2 {
		t.Errorf("Delta: got %d, want -2", got)
	}
	if got, want := e.String(), "[4,7)+1"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
	tests := []struct {
		start, end int
		want       bool
	}{
		{0, 3, false},
		{0, 4, false}, // the edit begins where the span ends
		{7, 9, false}, // the edit ends where the span begins
		{8, 9, false},
		{3, 5, true},
		{6, 8, true},
		{5, 6, true},
		{0, 10, true},
	}
	for _, tc := range tests {
		if got := e.Touches(tc.start, tc.end); got != tc.want {
			t.Errorf("Touches(%d, %d): got %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}

	ins := edit.ByteEdit{Start: 5, End: 5, ReplacementLength: 2}
	for _, tc := range []struct {
		start, end int
		want       bool
	}{
		{0, 5, false},
		{5, 9, false},
		{3, 8, true},
	} {
		if got := ins.Touches(tc.start, tc.end); got != tc.want {
			t.Errorf("Insertion Touches(%d, %d): got %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}
