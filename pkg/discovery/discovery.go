package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"TopLog/pkg/parsing"
)

// LogNamePattern matches "top.log" and its rotations "top.log.0" to "top.log.9".
const LogNamePattern = `^top\.log(\.[0-9])?$`

// FileAccessError reports a log or output file that could not be opened.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Sink is the destination of one conversion.
type Sink interface {
	parsing.RowWriter
	Close() error
}

// SinkFactory opens the output for the log at input.
type SinkFactory func(input, output string) (Sink, error)

// Summary counts the outcome of a batch run.
type Summary struct {
	Found   int
	Written int
	Skipped int
	Failed  int
	Outputs []string
}

// Finder walks a directory tree for top logs.
type Finder struct {
	root       string
	pattern    *regexp.Regexp
	outputPath func(input string) string
}

// NewFinder checks that root is an accessible directory. outputPath derives
// the destination of each discovered log.
func NewFinder(root string, outputPath func(input string) string) (*Finder, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	if outputPath == nil {
		return nil, fmt.Errorf("output path function is required")
	}

	return &Finder{
		root:       root,
		pattern:    regexp.MustCompile(LogNamePattern),
		outputPath: outputPath,
	}, nil
}

// Match reports whether name is a top log file name.
func (f *Finder) Match(name string) bool {
	return f.pattern.MatchString(name)
}

// Find returns the regular files under root whose name is a top log, in
// lexical walk order. Unreadable directories are skipped with a warning.
func (f *Finder) Find(ctx context.Context) ([]string, error) {
	var found []string
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == f.root {
				return err
			}
			log.Printf("Warning: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if f.Match(d.Name()) && isRegular(path, d) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("failed to walk %s: %w", f.root, err)
	}
	return found, nil
}

// isRegular reports whether d is a regular file, following symlinks.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("Warning: skipping %s: %v", path, err)
		return false
	}
	return info.Mode().IsRegular()
}

// Run converts every log found under root with conv, writing through sinks
// opened by open. Only cancellation and walk failures abort the batch.
func (f *Finder) Run(ctx context.Context, conv *parsing.Converter, open SinkFactory) (Summary, error) {
	var sum Summary

	paths, err := f.Find(ctx)
	if err != nil {
		return sum, err
	}

	for _, path := range paths {
		sum.Found++
		log.Printf("Found: %s", path)

		err := f.convertOne(ctx, conv, open, path)
		var fae *FileAccessError
		switch {
		case err == nil:
			sum.Written++
			sum.Outputs = append(sum.Outputs, f.outputPath(path))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return sum, err
		case errors.As(err, &fae):
			log.Printf("Warning: skipping %s: %v", path, err)
			sum.Skipped++
		default:
			log.Printf("Warning: failed to convert %s: %v", path, err)
			sum.Failed++
		}
	}

	return sum, nil
}

func (f *Finder) convertOne(ctx context.Context, conv *parsing.Converter, open SinkFactory, path string) error {
	in, err := OpenLog(path)
	if err != nil {
		return err
	}
	defer in.Close()

	output := f.outputPath(path)
	sink, err := open(path, output)
	if err != nil {
		return &FileAccessError{Op: "create", Path: output, Err: err}
	}
	log.Printf("Writing: %s", output)

	_, convErr := conv.Convert(ctx, in, sink)
	closeErr := sink.Close()
	if convErr == nil {
		convErr = closeErr
	}
	if convErr != nil {
		if rmErr := os.Remove(output); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Printf("Warning: failed to remove %s: %v", output, rmErr)
		}
		return convErr
	}
	return nil
}

// OpenLog opens a log for a single sequential read.
func OpenLog(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Op: "open", Path: path, Err: err}
	}
	if err := adviseSequential(file); err != nil {
		log.Printf("Warning: fadvise %s: %v", path, err)
	}
	return file, nil
}
