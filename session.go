// Package mdsnap snapshots a selection of files into a Markdown document and
// restores files from such a document.
package mdsnap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/hayeah/mdsnap/collect"
	"github.com/hayeah/mdsnap/filemap"
	"github.com/hayeah/mdsnap/ignore"
	"github.com/hayeah/mdsnap/internal/metrics"
	"github.com/hayeah/mdsnap/internal/selection"
	"github.com/hayeah/mdsnap/merge"
	"github.com/hayeah/mdsnap/provider"
	"github.com/hayeah/mdsnap/section"
	"github.com/hayeah/mdsnap/tree"
)

var (
	// ErrEmptySelection is returned by Pack and Tree when nothing is selected.
	ErrEmptySelection = errors.New("nothing selected")
	// ErrNothingResolved is returned when no selected path resolves to a file.
	ErrNothingResolved = errors.New("selection did not resolve to any file")
)

// Options configures a Session. All fields are optional.
type Options struct {
	Dir     string // host directory of the root, for resolving absolute paths
	Ignore  ignore.Matcher
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Session holds the active root, the selection and the directory navigation
// history of one user.
type Session struct {
	root    provider.Provider
	rootDir string // host directory of root, empty when root is not on disk

	selection *selection.Selection
	history   []string

	ignore  ignore.Matcher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewSession creates a Session for root
func NewSession(root provider.Provider, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		root:      root,
		rootDir:   opts.Dir,
		selection: selection.New(),
		ignore:    opts.Ignore,
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// OpenSession creates a Session for the host directory dir
func OpenSession(dir string, opts Options) (*Session, error) {
	root, err := provider.NewOS(dir)
	if err != nil {
		return nil, err
	}
	if opts.Dir, err = filepath.Abs(dir); err != nil {
		return nil, err
	}
	return NewSession(root, opts), nil
}

// Root returns the active root
func (s *Session) Root() provider.Provider {
	return s.root
}

// SetMetrics replaces the collector that Pack and Tree report to. nil turns
// counting off.
func (s *Session) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// RootDir returns the host directory of the root, if it has one
func (s *Session) RootDir() string {
	return s.rootDir
}

// SetRoot switches to another root. The selection and history are cleared.
func (s *Session) SetRoot(root provider.Provider, dir string) {
	s.root = root
	s.rootDir = dir
	s.selection.Clear()
	s.history = nil
	s.logger.Debug("root changed", "name", root.Name())
}

// Resolve converts a user supplied path to a selection key. It accepts
// root-relative paths, host paths under the root directory, and paths
// prefixed with the root's display name.
func (s *Session) Resolve(p string) (string, error) {
	if filepath.IsAbs(p) {
		if s.rootDir == "" {
			return "", fmt.Errorf("%s: %w", p, selection.ErrOutsideRoot)
		}
		rel, err := filepath.Rel(s.rootDir, p)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p, selection.ErrOutsideRoot)
		}
		p = rel
	}

	key, err := selection.Normalize(p)
	if err != nil {
		return "", err
	}

	// "project/src" names "src" in a root called "project", unless the root
	// really has a "project" entry.
	name := s.root.Name()
	if name != "" && (key == name || strings.HasPrefix(key, name+"/")) {
		if kind, _ := s.root.StatKind(key); kind == provider.KindNotFound {
			key = strings.TrimPrefix(strings.TrimPrefix(key, name), "/")
		}
	}
	return key, nil
}

// Select adds paths to the selection. Paths that cannot be resolved are
// skipped and reported together.
func (s *Session) Select(paths ...string) error {
	var errs []error
	for _, p := range paths {
		key, err := s.Resolve(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.selection.Add(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deselect removes p and reports whether it was selected
func (s *Session) Deselect(p string) bool {
	key, err := s.Resolve(p)
	if err != nil {
		return false
	}
	return s.selection.Remove(key)
}

// Toggle flips the selection state of p and returns the new state
func (s *Session) Toggle(p string) (bool, error) {
	key, err := s.Resolve(p)
	if err != nil {
		return false, err
	}
	return s.selection.Toggle(key)
}

// IsSelected reports whether p is selected
func (s *Session) IsSelected(p string) bool {
	key, err := s.Resolve(p)
	if err != nil {
		return false
	}
	return s.selection.Contains(key)
}

// Clear empties the selection
func (s *Session) Clear() {
	s.selection.Clear()
}

// Selection returns the selected keys in insertion order
func (s *Session) Selection() []string {
	return s.selection.Paths()
}

// Cwd returns the current directory of the navigation history, relative to
// the root
func (s *Session) Cwd() string {
	if len(s.history) == 0 {
		return ""
	}
	return s.history[len(s.history)-1]
}

// Enter moves into dir, given relative to the current directory
func (s *Session) Enter(dir string) error {
	key, err := selection.Normalize(path.Join(s.Cwd(), filepath.ToSlash(dir)))
	if err != nil {
		return err
	}
	kind, err := s.root.StatKind(key)
	if err != nil {
		return err
	}
	if kind != provider.KindDir {
		return fmt.Errorf("not a directory: %s", dir)
	}
	s.history = append(s.history, key)
	return nil
}

// Back returns to the previous directory. It reports false at the root.
func (s *Session) Back() bool {
	if len(s.history) == 0 {
		return false
	}
	s.history = s.history[:len(s.history)-1]
	return true
}

// List returns the entries of the current directory, without ignored ones
func (s *Session) List() ([]provider.Entry, error) {
	entries, err := s.root.ListChildren(s.Cwd())
	if err != nil {
		return nil, err
	}
	if s.ignore == nil {
		return entries, nil
	}
	visible := entries[:0]
	for _, e := range entries {
		if !s.ignore.Match(path.Join(s.Cwd(), e.Name), e.IsDir) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

func (s *Session) collector() *collect.Collector {
	return collect.New(s.root, s.ignore, s.logger)
}

// PackResult summarizes a Pack call
type PackResult struct {
	filemap.Report
	Files   int     // files resolved from the selection
	Missing []error // selected paths that did not resolve
}

// Pack writes the document for the current selection to w.
func (s *Session) Pack(w io.Writer) (PackResult, error) {
	var result PackResult
	if s.selection.Len() == 0 {
		return result, ErrEmptySelection
	}

	refs, errs := s.collector().Collect(s.selection.Paths())
	result.Missing = errs
	result.Files = len(refs)
	if len(refs) == 0 {
		return result, nothingResolved(errs)
	}

	report, err := filemap.New(s.metrics, s.logger).Encode(w, refs)
	result.Report = report
	if err != nil {
		return result, err
	}
	s.logger.Info("packed", "files", result.Files, "failures", len(report.Failures), "missing", len(errs))
	return result, nil
}

// PackString returns the document for the current selection
func (s *Session) PackString() (string, PackResult, error) {
	var b strings.Builder
	result, err := s.Pack(&b)
	return b.String(), result, err
}

// Tree renders the structure of the current selection. Selected paths that
// did not resolve are returned alongside the tree.
func (s *Session) Tree() (string, []error, error) {
	if s.selection.Len() == 0 {
		return "", nil, ErrEmptySelection
	}

	visited, errs := s.collector().Visit(s.selection.Paths())
	if len(visited) == 0 {
		return "", errs, nothingResolved(errs)
	}

	out := tree.Render(s.root.Name(), visited)
	s.metrics.Add(metrics.KindTree, s.root.Name(), out)
	return out, errs, nil
}

func nothingResolved(errs []error) error {
	if len(errs) == 0 {
		return ErrNothingResolved
	}
	return fmt.Errorf("%w: %w", ErrNothingResolved, errors.Join(errs...))
}

// UnpackOptions configures Unpack
type UnpackOptions struct {
	DryRun bool
	Logger *slog.Logger
}

// Unpack decodes doc and writes its files under target
func Unpack(target provider.Provider, doc string, opts UnpackOptions) merge.Report {
	m := merge.New(target, opts.Logger)
	m.DryRun = opts.DryRun
	return m.Apply(section.Parse(doc))
}
