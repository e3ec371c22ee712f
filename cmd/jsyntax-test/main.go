// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Program jsyntax-test exercises the JWCC lexer and parser: it prints tokens
// and syntax trees, checks that they reproduce their input exactly, and
// reports which parts of a tree an incremental reparse was able to reuse.
//
// Usage:
//
//	jsyntax-test --<action> --input-source-filename <file> [options]
//	jsyntax-test --<action> --input-source-directory <dir> [options]
//
// For example, to check how much of a tree survives an edit:
//
//	jsyntax-test --serialize-raw-tree --input-source-filename old.json --output-filename old.tree
//	jsyntax-test --parse-only --input-source-filename new.json \
//	   --old-syntax-tree-filename old.tree --incremental-edit 2:8-2:9=42 \
//	   --print-visual-reuse-info
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/creachadair/jsyntax/internal/config"
	"github.com/creachadair/jsyntax/internal/driver"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"
)

// errReported indicates a failure whose diagnostics were already printed.
var errReported = errors.New("failures reported")

type flags struct {
	actions map[driver.Action]*bool

	inputFile string
	inputDir  string

	oldTree     string
	edits       []string
	reuseLog    string
	visualReuse bool

	outputFile    string
	printNodeKind bool
	printTrivial  bool
	visual        bool
	verify        bool
	color         string
	verbose       int
	configFile    string
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "jsyntax-test: %v\n", err)
		}
		util.Exit(1)
	}
	util.Exit(0)
}

func newRootCmd() *cobra.Command {
	f := &flags{actions: make(map[driver.Action]*bool)}

	cmd := &cobra.Command{
		Use:           "jsyntax-test",
		Short:         "Verify round trips and incremental reuse of JWCC syntax trees",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	var actionFlags []string
	for _, name := range driver.ActionNames() {
		a, _ := driver.ParseAction(name)
		f.actions[a] = fs.Bool(name, false, "Action: "+actionHelp[a])
		actionFlags = append(actionFlags, name)
	}
	fs.StringVar(&f.inputFile, "input-source-filename", "", "Input source file")
	fs.StringVar(&f.inputDir, "input-source-directory", "", "Directory of input source files")
	fs.StringVar(&f.oldTree, "old-syntax-tree-filename", "", "Serialized syntax tree to reparse incrementally from")
	fs.StringArrayVar(&f.edits, "incremental-edit", nil,
		"Edit to the old tree, as <line>:<col>-<line>:<col>=<replacement> (repeatable)")
	fs.StringVar(&f.reuseLog, "incremental-reuse-log", "", "Write the ranges reused by incremental parsing to this file")
	fs.BoolVar(&f.visualReuse, "print-visual-reuse-info", false, "Print the input with reparsed regions marked")
	fs.StringVar(&f.outputFile, "output-filename", "", "Write output to this file instead of stdout")
	fs.BoolVar(&f.printNodeKind, "print-node-kind", false, "parse-gen: print the kind of each syntax node")
	fs.BoolVar(&f.printTrivial, "print-trivial-node-kind", false, "parse-gen: print the type of each token")
	fs.BoolVarP(&f.visual, "visual", "v", false, "parse-gen: color the node kinds")
	fs.BoolVar(&f.verify, "verify-syntax-tree", true, "Cross-check each parse against the reference parser")
	fs.StringVar(&f.color, "color", "", "When to use color: auto, always, or never")
	fs.CountVar(&f.verbose, "verbose", "Increase log verbosity (repeatable)")
	fs.StringVar(&f.configFile, "config", "", "Configuration file (default "+config.DefaultFile+" if present)")

	cmd.MarkFlagsMutuallyExclusive(actionFlags...)
	cmd.MarkFlagsOneRequired(actionFlags...)
	cmd.MarkFlagsMutuallyExclusive("input-source-filename", "input-source-directory")
	cmd.MarkFlagsOneRequired("input-source-filename", "input-source-directory")
	cmd.MarkFlagsMutuallyExclusive("input-source-directory", "output-filename")
	cmd.MarkFlagsMutuallyExclusive("input-source-directory", "old-syntax-tree-filename")
	return cmd
}

var actionHelp = map[driver.Action]string{
	driver.DumpFullTokens:     "print each token with its trivia and position",
	driver.RoundTripLex:       "tokenize and print the tokens",
	driver.RoundTripParse:     "parse and print the syntax tree",
	driver.ParseOnly:          "parse and discard the syntax tree",
	driver.ParseGen:           "parse and print the syntax tree with optional node kinds",
	driver.SerializeRawTree:   "parse and write the serialized syntax tree",
	driver.DeserializeRawTree: "read a serialized syntax tree and print its source text",
	driver.DumpEOF:            "parse and print the input up to the end-of-input token",
}

func run(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	commonlog.Initialize(cfg.Verbosity+f.verbose, cfg.LogFile)

	opts := driver.Options{
		OldSyntaxTree:        f.oldTree,
		Edits:                f.edits,
		ReuseLog:             f.reuseLog,
		VisualReuse:          f.visualReuse,
		OutputFile:           f.outputFile,
		PrintNodeKind:        f.printNodeKind,
		PrintTrivialNodeKind: f.printTrivial,
		Visual:               f.visual,
		Config:               cfg,
	}
	for a, set := range f.actions {
		if *set {
			opts.Action = a
		}
	}
	if err := checkOptions(opts); err != nil {
		return err
	}

	d := driver.New(opts, os.Stdout, os.Stderr)
	if f.inputDir != "" {
		err := d.RunDir(f.inputDir)
		var fe *driver.FileError
		if errors.As(err, &fe) {
			return errReported
		}
		return err
	}
	return d.RunFile(f.inputFile)
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	path, explicit := f.configFile, f.configFile != ""
	if !explicit {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path, !explicit)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("verify-syntax-tree") {
		cfg.VerifySyntaxTree = f.verify
	}
	if f.color != "" {
		mode, err := config.ParseColor(f.color)
		if err != nil {
			return cfg, err
		}
		cfg.Color = mode
	}
	return cfg, nil
}

// checkOptions reports combinations of options that have no effect.
func checkOptions(opts driver.Options) error {
	if opts.OldSyntaxTree == "" {
		if len(opts.Edits) != 0 || opts.ReuseLog != "" || opts.VisualReuse {
			return errors.New("incremental options require --old-syntax-tree-filename")
		}
		return nil
	}
	if !opts.Action.Incremental() {
		return fmt.Errorf("--%v does not parse incrementally", opts.Action)
	}
	return nil
}
