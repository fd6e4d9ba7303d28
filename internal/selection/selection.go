package selection

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hayeah/mdsnap/internal/set"
)

// ErrOutsideRoot is returned for selection paths that climb above the root.
var ErrOutsideRoot = errors.New("path is outside the root")

// Normalize converts p into the canonical root-relative form used as a
// selection key: forward slashes, cleaned, no leading "./". The root itself
// normalizes to "".
func Normalize(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}

	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

// Selection is the insertion-ordered set of paths a user picked for export.
// Paths are stored normalized, so "sub", "./sub" and "sub/" are one entry.
type Selection struct {
	paths *set.Ordered[string]
}

// New creates an empty Selection
func New() *Selection {
	return &Selection{paths: set.NewOrdered[string]()}
}

// Add selects p. Adding an already selected path is a no-op.
func (s *Selection) Add(p string) error {
	key, err := Normalize(p)
	if err != nil {
		return err
	}
	s.paths.Add(key)
	return nil
}

// Remove deselects p and reports whether it was selected.
func (s *Selection) Remove(p string) bool {
	key, err := Normalize(p)
	if err != nil {
		return false
	}
	return s.paths.Remove(key)
}

// Toggle flips the selection state of p and returns the new state.
func (s *Selection) Toggle(p string) (bool, error) {
	key, err := Normalize(p)
	if err != nil {
		return false, err
	}
	if s.paths.Remove(key) {
		return false, nil
	}
	s.paths.Add(key)
	return true, nil
}

// Contains reports whether p is selected
func (s *Selection) Contains(p string) bool {
	key, err := Normalize(p)
	if err != nil {
		return false
	}
	return s.paths.Contains(key)
}

// Clear deselects everything
func (s *Selection) Clear() {
	s.paths.Clear()
}

// Len returns the number of selected paths
func (s *Selection) Len() int {
	return s.paths.Len()
}

// Paths returns the selected paths in the order they were selected.
func (s *Selection) Paths() []string {
	return s.paths.Values()
}
