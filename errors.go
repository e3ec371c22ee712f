// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsyntax

import "fmt"

// SyntaxError is the concrete type of errors reported by parsers built on
// the Scanner.
type SyntaxError struct {
	Location LineCol
	Offset   int
	Message  string

	Err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.Err }
