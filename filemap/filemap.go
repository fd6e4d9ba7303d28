// Package filemap renders a list of files as a Markdown document, one section
// per file.
package filemap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/hayeah/mdsnap/internal/metrics"
	"github.com/hayeah/mdsnap/internal/selection"
	"github.com/hayeah/mdsnap/section"
)

// FallbackTag is the language tag for files without a usable extension.
const FallbackTag = "txt"

var (
	// ErrFenceInContent warns that a file contains ``` and will be cut short
	// when the document is decoded.
	ErrFenceInContent = errors.New("content contains ``` and cannot be decoded intact")
	// ErrUndecodableTag warns that a language tag has characters other than
	// lowercase letters, so the decoder will skip the section.
	ErrUndecodableTag = errors.New("language tag is not decodable")
	// ErrUndecodablePath warns that a path has surrounding whitespace or a
	// line break, so the decoder reads back a different path or none.
	ErrUndecodablePath = errors.New("path does not survive the section heading")
)

// ReadError reports a file whose content could not be read. Its section is
// rendered as an "(unable to read file: ...)" note.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Warning flags a section that was written but will not survive decoding.
type Warning struct {
	Path string
	Err  error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }

// Report summarizes an Encode call
type Report struct {
	Sections int // sections written, error notes included
	Failures []*ReadError
	Warnings []*Warning
}

// Encoder writes documents
type Encoder struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Encoder. Both arguments may be nil.
func New(m *metrics.Metrics, logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Encoder{metrics: m, logger: logger}
}

// LanguageTag returns the fence tag for p: the lowercased extension of its
// base name without the dot. Extensionless names, names ending in "." and
// dotfiles such as ".gitignore" get FallbackTag.
func LanguageTag(p string) string {
	base := path.Base(p)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return FallbackTag
	}
	return strings.ToLower(base[i+1:])
}

// Section reads ref and returns its section. A read failure yields an error
// section.
func (e *Encoder) Section(ref selection.FileRef) section.Section {
	s := section.Section{
		Path: ref.Path,
		Tag:  LanguageTag(ref.Path),
	}
	content, err := ref.ReadText()
	if err != nil {
		s.Err = err
		return s
	}
	s.Content = content
	return s
}

// Encode writes one section per ref to w, in order. Files that cannot be read
// are reported and rendered as notes; only a failing writer stops the batch.
func (e *Encoder) Encode(w io.Writer, refs []selection.FileRef) (Report, error) {
	var report Report
	for _, ref := range refs {
		s := e.Section(ref)

		if s.Err != nil {
			e.logger.Warn("unable to read file", "path", s.Path, "err", s.Err)
			report.Failures = append(report.Failures, &ReadError{Path: s.Path, Err: s.Err})
		} else {
			report.Warnings = append(report.Warnings, check(s)...)
			e.metrics.Add(metrics.KindFile, s.Path, s.Content)
		}

		if _, err := section.Write(w, s); err != nil {
			return report, fmt.Errorf("failed to write section %s: %w", s.Path, err)
		}
		report.Sections++
	}

	for _, warning := range report.Warnings {
		e.logger.Warn("section will not decode intact", "path", warning.Path, "err", warning.Err)
	}
	return report, nil
}

// EncodeString renders refs as a document string
func (e *Encoder) EncodeString(refs []selection.FileRef) (string, Report) {
	var b strings.Builder
	// strings.Builder never fails
	report, _ := e.Encode(&b, refs)
	return b.String(), report
}

// EncodeString renders refs as a document string with a default Encoder
func EncodeString(refs []selection.FileRef) string {
	doc, _ := New(nil, nil).EncodeString(refs)
	return doc
}

func check(s section.Section) []*Warning {
	var warnings []*Warning
	if s.Path != strings.TrimSpace(s.Path) || strings.ContainsAny(s.Path, "\r\n") {
		warnings = append(warnings, &Warning{Path: s.Path, Err: fmt.Errorf("%w: %q", ErrUndecodablePath, s.Path)})
	}
	if !section.Decodable(s.Tag) {
		warnings = append(warnings, &Warning{Path: s.Path, Err: fmt.Errorf("%w: %q", ErrUndecodableTag, s.Tag)})
	}
	if strings.Contains(s.Content, section.Fence) {
		warnings = append(warnings, &Warning{Path: s.Path, Err: ErrFenceInContent})
	}
	return warnings
}
