// Package collect expands a selection of files and directories into the
// ordered, de-duplicated list of files to export.
package collect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/hayeah/mdsnap/ignore"
	"github.com/hayeah/mdsnap/internal/selection"
	"github.com/hayeah/mdsnap/internal/set"
	"github.com/hayeah/mdsnap/provider"
)

// ErrPathNotFound matches every *PathError.
var ErrPathNotFound = errors.New("path not found")

// PathError reports a selected path that does not resolve to a file or
// directory under the root.
type PathError struct {
	Path string
	Err  error // underlying cause, may be nil
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("path not found: %s", e.Path)
	}
	return fmt.Sprintf("path not found: %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func (e *PathError) Is(target error) bool { return target == ErrPathNotFound }

// Collector resolves selections against a root.
type Collector struct {
	provider provider.Provider
	ignore   ignore.Matcher
	logger   *slog.Logger
}

// New creates a Collector. ig may be nil; logger may be nil.
func New(p provider.Provider, ig ignore.Matcher, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		provider: p,
		ignore:   ig,
		logger:   logger,
	}
}

// Collect returns a FileRef for every file the selection covers, in selection
// order then traversal order, each path once. Paths that fail to resolve are
// reported in errs and skipped.
func (c *Collector) Collect(paths []string) (refs []selection.FileRef, errs []error) {
	files := selection.NewFileRefSet()
	errs = c.expand(paths, func(p string, isDir bool) {
		if !isDir {
			files.Add(selection.NewFileRef(c.provider, p))
		}
	})
	return files.Values(), errs
}

// Visit expands the selection like Collect but returns every path visited,
// directories included.
func (c *Collector) Visit(paths []string) (visited []string, errs []error) {
	seen := set.NewOrdered[string]()
	errs = c.expand(paths, func(p string, isDir bool) {
		seen.Add(p)
	})
	return seen.Values(), errs
}

func (c *Collector) expand(paths []string, visit func(p string, isDir bool)) []error {
	var errs []error
	for _, raw := range paths {
		key, err := selection.Normalize(raw)
		if err != nil {
			errs = append(errs, &PathError{Path: raw, Err: err})
			continue
		}

		if key == "" {
			errs = append(errs, c.walk("", visit)...)
			continue
		}

		kind, err := c.provider.StatKind(key)
		switch kind {
		case provider.KindFile:
			visit(key, false)
		case provider.KindDir:
			visit(key, true)
			errs = append(errs, c.walk(key, visit)...)
		default:
			c.logger.Warn("selected path not found", "path", key)
			errs = append(errs, &PathError{Path: key, Err: err})
		}
	}
	return errs
}

type entry struct {
	path  string
	isDir bool
}

// walk visits the descendants of dir in pre-order using an explicit stack.
func (c *Collector) walk(dir string, visit func(p string, isDir bool)) []error {
	var errs []error
	var stack []entry

	push := func(parent string) {
		children, err := c.provider.ListChildren(parent)
		if err != nil {
			errs = append(errs, err)
			return
		}
		// reversed, so the first child is popped first
		for i := len(children) - 1; i >= 0; i-- {
			child := entry{
				path:  path.Join(parent, children[i].Name),
				isDir: children[i].IsDir,
			}
			if c.ignore != nil && c.ignore.Match(child.path, child.isDir) {
				c.logger.Debug("ignored", "path", child.path)
				continue
			}
			stack = append(stack, child)
		}
	}

	push(dir)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visit(e.path, e.isDir)
		if e.isDir {
			push(e.path)
		}
	}
	return errs
}
