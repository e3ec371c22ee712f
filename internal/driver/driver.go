// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package driver implements the actions of the jsyntax-test tool over
// individual files and directories of files.
//
// Each file is processed independently, moving through the stages
//
//	Idle → BufferLoaded → [OldTreeLoaded → EditsApplied] → Parsed → ActionDispatched → Done
//
// where the bracketed stages occur only when an old syntax tree is given, and
// the Parsed stage is skipped by actions that do not parse. A failure at any
// stage ends the processing of that file.
package driver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/jsyntax"
	"github.com/creachadair/jsyntax/edit"
	"github.com/creachadair/jsyntax/internal/config"
	"github.com/creachadair/jsyntax/report"
	"github.com/creachadair/jsyntax/reuse"
	"github.com/creachadair/jsyntax/source"
	"github.com/creachadair/jsyntax/syntax"
	"github.com/creachadair/jsyntax/syntax/serial"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/tailscale/hujson"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsyntax.driver")

var (
	// ErrBufferLoad is reported when an input file cannot be read.
	ErrBufferLoad = errors.New("cannot load buffer")

	// ErrOutputWrite is reported when output cannot be written.
	ErrOutputWrite = errors.New("cannot write output")

	// ErrEOFMismatch is reported by the eof action when the position of the
	// end of input computed from the tree differs from the buffer's.
	ErrEOFMismatch = errors.New("end of input position mismatch")
)

// kindStyle decorates node-kind tags in visual parse-gen output.
var kindStyle = termenv.String().Foreground(termenv.ANSI.Color("6"))

// Options control the behavior of a Driver.
type Options struct {
	Action Action

	// Incremental reparsing.
	OldSyntaxTree string   // path of an interchange document for the old tree
	Edits         []string // edit descriptors relative to the old tree
	ReuseLog      string   // if set, write the reuse log to this path
	VisualReuse   bool     // print the new text with reparsed regions marked

	// Output.
	OutputFile           string // if set, write action output here instead of stdout
	PrintNodeKind        bool   // parse-gen: tag interior nodes
	PrintTrivialNodeKind bool   // parse-gen: tag tokens
	Visual               bool   // parse-gen: color the tags

	Config config.Config
}

// A Driver runs an action over input files.
type Driver struct {
	opts   Options
	color  bool
	stdout io.Writer
	stderr io.Writer
}

// New constructs a Driver that writes output to stdout and diagnostics to
// stderr.
func New(opts Options, stdout, stderr io.Writer) *Driver {
	return &Driver{
		opts:   opts,
		color:  UseColor(opts.Config.Color, stdout),
		stdout: stdout,
		stderr: stderr,
	}
}

// UseColor reports whether output to w should be colored under mode.
func UseColor(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// RunFile runs the action on the file at path. A failure is reported as a
// [*FileError].
func (d *Driver) RunFile(path string) error {
	f := &fileRun{Driver: d, path: path}
	if err := f.run(); err != nil {
		log.Debugf("%s: failed in stage %v: %v", path, f.stage, err)
		return &FileError{Path: path, Stage: f.stage, Err: err}
	}
	return nil
}

// RunDir runs the action on each file under dir whose extension is listed in
// the configuration, in lexical order. Each failure is printed to the
// diagnostic stream. RunDir reports the result of the last file processed.
func (d *Driver) RunDir(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.Type().IsRegular() && d.opts.Config.HasExtension(e.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferLoad, err)
	}
	if len(paths) == 0 {
		log.Warningf("no input files found in %s", dir)
	}

	var last error
	for _, path := range paths {
		log.Infof("processing %s", path)
		last = d.RunFile(path)
		if last != nil {
			fmt.Fprintln(d.stderr, last)
		}
	}
	return last
}

// fileRun holds the state of processing a single file. Everything it refers
// to is released when processing ends.
type fileRun struct {
	*Driver
	path  string
	stage Stage

	buf   *source.Buffer
	cache *syntax.Cache
	tree  *syntax.Tree
}

func (f *fileRun) advance(s Stage) {
	log.Debugf("%s: %v", f.path, s)
	f.stage = s
}

func (f *fileRun) run() error {
	buf, err := source.Load(f.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferLoad, err)
	}
	f.buf = buf
	f.advance(BufferLoaded)

	if f.opts.Action.Incremental() {
		if err := f.parse(); err != nil {
			return err
		}
	}

	f.advance(ActionDispatched)
	if err := f.dispatch(); err != nil {
		return err
	}
	f.advance(Done)
	return nil
}

// parse parses the buffer, incrementally if an old tree was given, and
// reports the reused ranges as requested.
func (f *fileRun) parse() error {
	if f.opts.OldSyntaxTree != "" {
		if err := f.loadOldTree(); err != nil {
			return err
		}
	}
	tree, err := syntax.Parse(f.buf, f.cache)
	if f.opts.Config.VerifySyntaxTree {
		if verr := verify(f.buf, err); verr != nil {
			log.Warningf("%s: %v", f.path, verr)
		}
	}
	if err != nil {
		return err
	}
	f.tree = tree
	f.advance(Parsed)
	return f.reportReuse()
}

func (f *fileRun) loadOldTree() error {
	data, err := os.ReadFile(f.opts.OldSyntaxTree)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferLoad, err)
	}
	old, err := serial.Decode(data)
	if err != nil {
		return err
	}
	log.Debugf("%s: old tree has %d tokens", f.opts.OldSyntaxTree, serial.Tokens(old))
	f.advance(OldTreeLoaded)

	// Edit positions refer to the text of the old tree.
	oldBuf := source.New(f.path+"@old", old.Text())
	ds, err := edit.ParseDescriptors(f.opts.Edits)
	if err != nil {
		return err
	}
	edits, err := edit.ResolveAll(oldBuf, ds)
	if err != nil {
		return err
	}
	cache := syntax.NewCache(old)
	for _, e := range edits {
		if err := cache.AddEdit(e.Start, e.End, e.ReplacementLength); err != nil {
			return err
		}
	}
	if f.opts.ReuseLog != "" || f.opts.VisualReuse {
		cache.RecordReuseInformation()
	}
	f.cache = cache
	f.advance(EditsApplied)
	return nil
}

func (f *fileRun) reportReuse() error {
	if f.cache == nil || !f.cache.Recording() {
		return nil
	}
	ranges := f.cache.ReusedRanges()
	log.Infof("%s: %v", f.path, report.Summarize(ranges, f.buf.Len()))

	if f.opts.ReuseLog != "" {
		if err := report.WriteLogFile(f.opts.ReuseLog, f.buf, ranges); err != nil {
			return fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
	}
	if f.opts.VisualReuse {
		err := report.Visual(f.stdout, f.buf.Bytes(), ranges, report.VisualOptions{Color: f.color})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
	}
	return nil
}

func (f *fileRun) dispatch() error {
	switch f.opts.Action {
	case DumpFullTokens:
		return f.dumpFullTokens()
	case RoundTripLex:
		return f.roundTripLex()
	case RoundTripParse:
		return f.output(f.tree.Print)
	case ParseOnly:
		return nil
	case ParseGen:
		opts := syntax.PrintOptions{
			PrintKind:        f.opts.PrintNodeKind,
			PrintTrivialKind: f.opts.PrintTrivialNodeKind,
		}
		if f.opts.Visual {
			opts.Style = kindStyle.Styled
		}
		return f.output(func(w io.Writer) error { return f.tree.PrintWith(w, opts) })
	case SerializeRawTree:
		return f.output(func(w io.Writer) error { return serial.Encode(w, f.tree) })
	case DeserializeRawTree:
		tree, err := serial.Decode(f.buf.Bytes())
		if err != nil {
			return err
		}
		return f.output(tree.Print)
	case DumpEOF:
		return f.dumpEOF()
	}
	return fmt.Errorf("unknown action %v", f.opts.Action)
}

// output calls write with the output stream for the action.
func (f *fileRun) output(write func(io.Writer) error) error {
	if f.opts.OutputFile == "" {
		if err := write(f.stdout); err != nil {
			return fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
		return nil
	}
	out, err := os.Create(f.opts.OutputFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := errors.Join(write(out), out.Close()); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}

func (f *fileRun) dumpFullTokens() error {
	lexemes, err := syntax.Tokenize(f.buf)
	if err != nil {
		return err
	}
	return f.output(func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, lx := range lexemes {
			pos, err := f.buf.Position(lx.Offset)
			if err != nil {
				return err
			}
			fmt.Fprintf(bw, "%s\t%s %s", pos, syntax.TokenName(lx.Token()), jsyntax.Quote(lx.Text()))
			if lead := lx.Leading(); len(lead) != 0 {
				fmt.Fprintf(bw, " leading=%s", triviaString(lead))
			}
			if trail := lx.Trailing(); len(trail) != 0 {
				fmt.Fprintf(bw, " trailing=%s", triviaString(trail))
			}
			bw.WriteByte('\n')
		}
		return bw.Flush()
	})
}

func triviaString(ts []syntax.Trivia) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = syntax.TokenName(t.Kind) + " " + jsyntax.Quote(t.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (f *fileRun) roundTripLex() error {
	lexemes, err := syntax.Tokenize(f.buf)
	if err != nil {
		return err
	}
	return f.output(func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, lx := range lexemes {
			bw.Write(lx.Bytes())
		}
		return bw.Flush()
	})
}

func (f *fileRun) dumpEOF() error {
	off, pos := f.tree.EOF()
	want, err := f.buf.Position(off)
	if err != nil {
		return err
	}
	if pos != want {
		return fmt.Errorf("%w: tree has %v, buffer has %v", ErrEOFMismatch, pos, want)
	}
	return f.output(func(w io.Writer) error {
		_, err := w.Write(f.buf.Slice(0, off))
		return err
	})
}

// verify cross-checks the result of parsing buf, with error perr, against the
// reference parser. It reports an error if the parsers disagree about whether
// buf is valid, or if the reference parser does not reproduce buf exactly.
func verify(buf *source.Buffer, perr error) error {
	v, err := hujson.Parse(buf.Bytes())
	switch {
	case err != nil && perr == nil:
		return fmt.Errorf("reference parser rejects input: %w", err)
	case err == nil && perr != nil:
		return fmt.Errorf("reference parser accepts input: %w", perr)
	case err == nil && !bytes.Equal(v.Pack(), buf.Bytes()):
		return errors.New("reference parser does not reproduce input")
	}
	return nil
}

// FileError reports a failure processing a single file.
type FileError struct {
	Path  string
	Stage Stage // the last stage completed before the failure
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, Kind(e.Err), e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Kind returns a name for the category of err, or "" if err == nil.
func Kind(err error) string {
	var serr *jsyntax.SyntaxError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBufferLoad):
		return "BufferLoadFailure"
	case errors.Is(err, serial.ErrMalformed):
		return "TreeDeserializationFailure"
	case errors.Is(err, edit.ErrMalformedEdit), errors.Is(err, reuse.ErrInvalidEdit):
		return "MalformedEditSyntax"
	case errors.Is(err, source.ErrPositionOutOfRange):
		return "PositionOutOfRange"
	case errors.Is(err, ErrOutputWrite):
		return "OutputWriteFailure"
	case errors.Is(err, ErrEOFMismatch):
		return "EOFMismatch"
	case errors.As(err, &serr):
		return "SyntaxError"
	}
	return "Failure"
}

// Stage identifies a stage in the processing of a file.
type Stage byte

// Constants defining the valid Stage values.
const (
	Idle Stage = iota
	BufferLoaded
	OldTreeLoaded
	EditsApplied
	Parsed
	ActionDispatched
	Done
)

var stageStr = [...]string{
	Idle:             "idle",
	BufferLoaded:     "buffer loaded",
	OldTreeLoaded:    "old tree loaded",
	EditsApplied:     "edits applied",
	Parsed:           "parsed",
	ActionDispatched: "action dispatched",
	Done:             "done",
}

func (s Stage) String() string {
	if int(s) < len(stageStr) {
		return stageStr[s]
	}
	return fmt.Sprintf("Stage(%d)", byte(s))
}
