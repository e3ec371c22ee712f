// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package driver

import (
	"fmt"
	"slices"
	"strings"
)

// Action selects what the driver does with each input file.
type Action byte

// Constants defining the valid Action values.
const (
	NoAction           Action = iota
	DumpFullTokens            // print each token with its trivia and position
	RoundTripLex              // print the text of each token with its trivia
	RoundTripParse            // parse, then print the tree
	ParseOnly                 // parse, and discard the result
	ParseGen                  // parse, then print the tree with node kinds
	SerializeRawTree          // parse, then write the interchange encoding
	DeserializeRawTree        // decode an interchange encoding and print its text
	DumpEOF                   // parse, then check and print up to the end of input
)

var actionStr = [...]string{
	NoAction:           "none",
	DumpFullTokens:     "dump-full-tokens",
	RoundTripLex:       "round-trip-lex",
	RoundTripParse:     "round-trip-parse",
	ParseOnly:          "parse-only",
	ParseGen:           "parse-gen",
	SerializeRawTree:   "serialize-raw-tree",
	DeserializeRawTree: "deserialize-raw-tree",
	DumpEOF:            "eof",
}

func (a Action) String() string {
	if int(a) < len(actionStr) {
		return actionStr[a]
	}
	return fmt.Sprintf("Action(%d)", byte(a))
}

// ActionNames returns the names of all the actions, in order.
func ActionNames() []string { return slices.Clone(actionStr[1:]) }

// ParseAction returns the Action with the given name.
func ParseAction(name string) (Action, error) {
	if i := slices.Index(actionStr[1:], name); i >= 0 {
		return Action(i + 1), nil
	}
	return NoAction, fmt.Errorf("unknown action %q (want one of %s)", name, strings.Join(ActionNames(), ", "))
}

// Incremental reports whether a parses its input, and therefore can reparse
// incrementally from an old tree.
func (a Action) Incremental() bool {
	switch a {
	case RoundTripParse, ParseOnly, ParseGen, SerializeRawTree, DumpEOF:
		return true
	}
	return false
}
