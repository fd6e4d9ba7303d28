// Package merge writes the sections decoded from a document back to files
// under a target root.
package merge

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hayeah/mdsnap/provider"
	"github.com/hayeah/mdsnap/section"
)

// WriteError reports a section that could not be written. The batch goes on.
type WriteError struct {
	Path string
	Line int // line of the section heading in the document
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s (line %d): %v", e.Path, e.Line, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Report summarizes an Apply call
type Report struct {
	Matched  int      // sections found in the document
	Created  []string // paths of new files
	Updated  []string // paths of overwritten files
	Failures []*WriteError
	DryRun   bool
}

// Written returns the number of files created or updated
func (r Report) Written() int {
	return len(r.Created) + len(r.Updated)
}

// NoMatches reports whether the document contained no section at all, as
// opposed to sections that failed to write.
func (r Report) NoMatches() bool {
	return r.Matched == 0
}

// Err joins the write failures, or returns nil
func (r Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r Report) String() string {
	if r.NoMatches() {
		return "no file sections found"
	}
	verb := "wrote"
	if r.DryRun {
		verb = "would write"
	}
	return fmt.Sprintf("%s %d files (%d created, %d updated), %d errors",
		verb, r.Written(), len(r.Created), len(r.Updated), len(r.Failures))
}

// Merger applies sections to a target root
type Merger struct {
	target provider.Provider
	logger *slog.Logger
	DryRun bool // verify and report, but write nothing
}

// New creates a Merger writing through target. logger may be nil.
func New(target provider.Provider, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Merger{target: target, logger: logger}
}

// Apply writes each section in order. Later sections for the same path
// overwrite earlier ones.
func (m *Merger) Apply(sections []section.Section) Report {
	report := Report{Matched: len(sections), DryRun: m.DryRun}

	for _, s := range sections {
		action, err := SectionToAction(m.target, s)
		if err == nil {
			err = m.run(action)
		}
		if err != nil {
			m.logger.Error("failed to write file", "path", s.Path, "line", s.Line, "err", err)
			report.Failures = append(report.Failures, &WriteError{Path: s.Path, Line: s.Line, Err: err})
			continue
		}

		switch a := action.(type) {
		case *Create:
			m.logger.Info("created", "path", a.Path)
			report.Created = append(report.Created, a.Path)
		case *Update:
			m.logger.Info("updated", "path", a.Path)
			report.Updated = append(report.Updated, a.Path)
		}
	}

	if report.NoMatches() {
		m.logger.Warn("no file sections found in document")
	}
	return report
}

func (m *Merger) run(action Action) error {
	if err := action.Verify(); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	if m.DryRun {
		m.logger.Debug("dry run", "action", action.Description())
		return nil
	}
	return action.Apply()
}

// Apply writes sections under target and returns the report
func Apply(target provider.Provider, sections []section.Section, logger *slog.Logger) Report {
	return New(target, logger).Apply(sections)
}
