// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package reuse implements a ledger of the byte ranges an incremental
// reparse shares with the tree it started from.
//
// A Cache is built around an old tree and accumulates the edits that turn
// the old buffer into the new one. An incremental parser then calls Begin,
// reports each subtree it reuses with NoteReused, and calls Finish. After
// that the ranges can be retrieved with ReusedRanges:
//
//	c := reuse.New(oldTree)
//	c.AddEdit(6, 7, 2)
//	c.RecordReuseInformation()
//	tree, err := syntax.Parse(newBuf, c)
//	...
//	for _, r := range c.ReusedRanges() { ... }
package reuse

import (
	"errors"
	"fmt"
	"slices"

	"github.com/creachadair/jsyntax/edit"
)

var (
	// ErrSealed is reported by AddEdit once a reparse has begun.
	ErrSealed = errors.New("edits are sealed")

	// ErrInvalidEdit is reported by AddEdit for a negative or inverted range.
	ErrInvalidEdit = errors.New("invalid edit range")
)

// A Range is a half-open range [Start, End) of byte offsets in the new buffer
// that was covered by a reused subtree.
type Range struct {
	Start, End int
}

// Len reports the number of bytes covered by r.
func (r Range) Len() int { return r.End - r.Start }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// State is the lifecycle state of a Cache.
type State int

const (
	Building State = iota // accepting edits
	Parsing               // a reparse is in progress
	Done                  // the reparse is complete
)

var stateStr = [...]string{Building: "building", Parsing: "parsing", Done: "done"}

func (s State) String() string {
	if int(s) < len(stateStr) {
		return stateStr[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// A Cache records the edits applied to an old tree of type T, and the ranges
// of the new buffer reused from that tree by a reparse.
// A Cache is not safe for concurrent use.
type Cache[T any] struct {
	old    T
	edits  []edit.ByteEdit
	record bool
	state  State
	ranges []Range
}

// New constructs an empty Cache over the given old tree.
func New[T any](old T) *Cache[T] { return &Cache[T]{old: old} }

// OldTree returns the tree the cache was constructed with.
func (c *Cache[T]) OldTree() T { return c.old }

// AddEdit appends an edit replacing [start, end) of the old buffer with
// replacementLength bytes. Edits are recorded as given, in order; overlap
// between edits is the reparser's concern.
func (c *Cache[T]) AddEdit(start, end, replacementLength int) error {
	if c.state != Building {
		return ErrSealed
	}
	if start < 0 || end < start || replacementLength < 0 {
		return fmt.Errorf("edit [%d,%d)+%d: %w", start, end, replacementLength, ErrInvalidEdit)
	}
	c.edits = append(c.edits, edit.ByteEdit{Start: start, End: end, ReplacementLength: replacementLength})
	return nil
}

// Edits returns a copy of the edits recorded in c, in insertion order.
func (c *Cache[T]) Edits() []edit.ByteEdit { return slices.Clone(c.edits) }

// RecordReuseInformation arms c to record reused ranges during the next
// reparse. Without it, NoteReused has no effect.
func (c *Cache[T]) RecordReuseInformation() { c.record = true }

// Recording reports whether c is armed to record reused ranges.
func (c *Cache[T]) Recording() bool { return c.record }

// State reports the lifecycle state of c.
func (c *Cache[T]) State() State { return c.state }

// Begin marks the start of a reparse. After Begin, AddEdit reports ErrSealed.
// Begin panics if c is not in the Building state.
func (c *Cache[T]) Begin() {
	if c.state != Building {
		panic(fmt.Sprintf("reuse: Begin in state %v", c.state))
	}
	c.state = Parsing
}

// NoteReused records that the reparse reused a subtree covering [start, end)
// of the new buffer. Empty ranges are ignored, and a range that begins where
// the previous one ended is merged with it.
//
// The parser reports ranges in increasing order without overlap. NoteReused
// panics if that does not hold, or if c is not in the Parsing state.
func (c *Cache[T]) NoteReused(start, end int) {
	if c.state != Parsing {
		panic(fmt.Sprintf("reuse: NoteReused in state %v", c.state))
	} else if !c.record || start == end {
		return
	} else if start > end || start < 0 {
		panic(fmt.Sprintf("reuse: invalid range [%d,%d)", start, end))
	}
	if n := len(c.ranges); n > 0 {
		last := &c.ranges[n-1]
		if start < last.End {
			panic(fmt.Sprintf("reuse: range [%d,%d) overlaps or precedes %v", start, end, *last))
		} else if start == last.End {
			last.End = end
			return
		}
	}
	c.ranges = append(c.ranges, Range{Start: start, End: end})
}

// Finish marks the end of a reparse. It panics if c is not in the Parsing
// state.
func (c *Cache[T]) Finish() {
	if c.state != Parsing {
		panic(fmt.Sprintf("reuse: Finish in state %v", c.state))
	}
	c.state = Done
}

// ReusedRanges returns a copy of the ranges reused by a completed reparse, in
// increasing order. It returns an empty slice if no reparse has completed.
func (c *Cache[T]) ReusedRanges() []Range {
	if c.state != Done {
		return []Range{}
	}
	return append([]Range{}, c.ranges...)
}
