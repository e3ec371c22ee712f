// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsyntax implements a full-fidelity scanner for JWCC (JSON With
// Commas and Comments), the foundation for lossless syntax trees.
//
// # Scanning
//
// The Scanner type implements a lexical scanner over an in-memory buffer.
// Construct a scanner from a byte slice and call its Next method to iterate
// over the input. Next advances to the next input token and returns nil, or
// reports an error:
//
//	s := jsyntax.NewScanner(input)
//	s.AllowComments(true)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v %q", s.Token(), s.Text())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates a lexical error in the input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// # Fidelity
//
// Unlike a conventional JSON scanner, a Scanner reports whitespace, line
// breaks, and comments as tokens of their own (see Token.IsTrivia), so that
// the concatenated text of all tokens is exactly the input. The syntax
// package groups these trivia tokens around the meaningful ones to build a
// tree that can reprint its source byte for byte.
//
// Call Reset to resume scanning from an arbitrary offset, for example after
// an incremental parser has reused a subtree covering a span of the input.
package jsyntax
