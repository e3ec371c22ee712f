// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package edit parses textual edit descriptors and resolves them to byte
// offset edits against a source buffer.
//
// A descriptor has the form
//
//	<startLine>:<startCol>-<endLine>:<endCol>=<replacement>
//
// where the positions are 1-based and address the buffer before the edit.
// The replacement is everything after the first "=", and may be empty.
package edit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jsyntax/source"
)

// ErrMalformedEdit is reported for an edit descriptor that does not have the
// required shape, or whose end precedes its start.
var ErrMalformedEdit = errors.New("malformed edit")

// A SyntaxError reports a descriptor that could not be parsed.
// It matches ErrMalformedEdit under errors.Is.
type SyntaxError struct {
	Input string // the complete descriptor
	Field string // the field that failed, e.g. "start line"
	Err   error  // the underlying cause, if any
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("invalid edit %q: bad %s", e.Input, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap supports errors.Is for ErrMalformedEdit and the underlying cause.
func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedEdit}
	}
	return []error{ErrMalformedEdit, e.Err}
}

// A Descriptor is a parsed, unresolved textual edit.
type Descriptor struct {
	Start       source.Position
	End         source.Position
	Replacement string
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s-%s=%s", d.Start, d.End, d.Replacement)
}

// ParseDescriptor parses a single edit descriptor. It does not check that the
// positions exist in any particular buffer.
func ParseDescriptor(s string) (Descriptor, error) {
	rng, repl, ok := strings.Cut(s, "=")
	if !ok {
		return Descriptor{}, &SyntaxError{Input: s, Field: "replacement separator"}
	}
	lo, hi, ok := strings.Cut(rng, "-")
	if !ok {
		return Descriptor{}, &SyntaxError{Input: s, Field: "range separator"}
	}
	start, err := parsePosition(s, lo, "start")
	if err != nil {
		return Descriptor{}, err
	}
	end, err := parsePosition(s, hi, "end")
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Start: start, End: end, Replacement: repl}, nil
}

// ParseDescriptors parses each of ss in order. It stops at the first failure.
func ParseDescriptors(ss []string) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(ss))
	for _, s := range ss {
		d, err := ParseDescriptor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parsePosition(input, s, which string) (source.Position, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return source.Position{}, &SyntaxError{Input: input, Field: "position separator"}
	}
	ln, err := parseNumber(line)
	if err != nil {
		return source.Position{}, &SyntaxError{Input: input, Field: which + " line", Err: err}
	}
	cn, err := parseNumber(col)
	if err != nil {
		return source.Position{}, &SyntaxError{Input: input, Field: which + " column", Err: err}
	}
	return source.Position{Line: ln, Column: cn}, nil
}

// parseNumber accepts only a non-empty run of ASCII digits. strconv.Atoi
// alone would also admit a sign.
func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty number")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid digit %q", s[i])
		}
	}
	return strconv.Atoi(s)
}

// Resolve converts d to a byte edit using the positions of buf, which must be
// the buffer the edit applies to.
func (d Descriptor) Resolve(buf *source.Buffer) (ByteEdit, error) {
	start, err := buf.Offset(d.Start)
	if err != nil {
		return ByteEdit{}, fmt.Errorf("edit %v start: %w", d, err)
	}
	end, err := buf.Offset(d.End)
	if err != nil {
		return ByteEdit{}, fmt.Errorf("edit %v end: %w", d, err)
	}
	if end < start {
		return ByteEdit{}, fmt.Errorf("edit %v: end precedes start: %w", d, ErrMalformedEdit)
	}
	return ByteEdit{Start: start, End: end, ReplacementLength: len(d.Replacement)}, nil
}

// ResolveAll resolves each of ds against buf, in order.
func ResolveAll(buf *source.Buffer, ds []Descriptor) ([]ByteEdit, error) {
	out := make([]ByteEdit, 0, len(ds))
	for _, d := range ds {
		e, err := d.Resolve(buf)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// A ByteEdit replaces the half-open range [Start, End) of an old buffer with
// ReplacementLength bytes of new text.
type ByteEdit struct {
	Start, End        int
	ReplacementLength int
}

// OriginalLength reports the number of old bytes replaced by e.
func (e ByteEdit) OriginalLength() int { return e.End - e.Start }

// Delta reports the change in buffer length caused by e.
func (e ByteEdit) Delta() int { return e.ReplacementLength - e.OriginalLength() }

// Touches reports whether e replaces any old byte in the half-open range
// [start, end), or inserts text strictly inside it. An edit that only meets
// the range at either end does not touch it.
func (e ByteEdit) Touches(start, end int) bool {
	return e.Start < end && e.End > start
}

func (e ByteEdit) String() string {
	return fmt.Sprintf("[%d,%d)+%d", e.Start, e.End, e.ReplacementLength)
}
