// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package report renders the ranges reused by an incremental reparse.
//
// Both renderings are functions of the new text and the reused ranges alone,
// so they can be produced any number of times without affecting the cache
// the ranges came from.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jsyntax/reuse"
	"github.com/creachadair/jsyntax/source"
	"github.com/muesli/termenv"
)

// Tags enclosing reparsed text when color is disabled.
const (
	ReparseOpen  = "<reparse>"
	ReparseClose = "</reparse>"
)

var (
	reusedStyle   = termenv.String().Foreground(termenv.ANSI.Color("2")) // green
	reparsedStyle = termenv.String().Foreground(termenv.ANSI.Color("1")) // red
)

// VisualOptions control the output of Visual.
type VisualOptions struct {
	// Mark text with ANSI colors rather than tags: reused text is green and
	// reparsed text is red.
	Color bool
}

// Visual writes text to w with its reparsed regions marked. A reparsed region
// is a non-empty gap before, between, or after the reused ranges. The output
// ends with a newline. Removing the markers from the output, and the final
// newline, leaves exactly text.
func Visual(w io.Writer, text []byte, ranges []reuse.Range, opts VisualOptions) error {
	if err := checkRanges(ranges, len(text)); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	reparsed := func(from, to int) {
		if from == to {
			return
		}
		seg := string(text[from:to])
		if opts.Color {
			bw.WriteString(reparsedStyle.Styled(seg))
		} else {
			bw.WriteString(ReparseOpen + seg + ReparseClose)
		}
	}

	cur := 0
	for _, r := range ranges {
		reparsed(cur, r.Start)
		if opts.Color {
			bw.WriteString(reusedStyle.Styled(string(text[r.Start:r.End])))
		} else {
			bw.Write(text[r.Start:r.End])
		}
		cur = r.End
	}
	reparsed(cur, len(text))
	bw.WriteByte('\n')
	return bw.Flush()
}

// Log writes one line to w for each range, giving its start and end as
// line:column positions in buf:
//
//	Reused 1:1 to 1:9
func Log(w io.Writer, buf *source.Buffer, ranges []reuse.Range) error {
	if err := checkRanges(ranges, buf.Len()); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, r := range ranges {
		start, err := buf.Position(r.Start)
		if err != nil {
			return err
		}
		end, err := buf.Position(r.End)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "Reused %s to %s\n", start, end)
	}
	return bw.Flush()
}

// WriteLogFile writes the Log output for ranges to the named file, replacing
// any existing contents.
func WriteLogFile(path string, buf *source.Buffer, ranges []reuse.Range) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return errors.Join(Log(f, buf, ranges), f.Close())
}

// Stats summarize the ranges reused by a reparse.
type Stats struct {
	Ranges   int // number of reused ranges
	Reused   int // bytes covered by reused ranges
	Reparsed int // bytes not covered by reused ranges
}

// Summarize computes statistics for ranges over a text of the given size.
func Summarize(ranges []reuse.Range, size int) Stats {
	s := Stats{Ranges: len(ranges)}
	for _, r := range ranges {
		s.Reused += r.Len()
	}
	s.Reparsed = size - s.Reused
	return s
}

func (s Stats) String() string {
	pct := 100.0
	if total := s.Reused + s.Reparsed; total > 0 {
		pct = 100 * float64(s.Reused) / float64(total)
	}
	return fmt.Sprintf("reused %d bytes in %d ranges, reparsed %d bytes (%.1f%% reused)",
		s.Reused, s.Ranges, s.Reparsed, pct)
}

// checkRanges reports whether ranges are ordered, disjoint, and within a text
// of length n.
func checkRanges(ranges []reuse.Range, n int) error {
	cur := 0
	for _, r := range ranges {
		if r.Start < cur || r.End < r.Start || r.End > n {
			return fmt.Errorf("invalid range %v for text of length %d", r, n)
		}
		cur = r.End
	}
	return nil
}
