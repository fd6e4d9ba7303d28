package ignore

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher decides whether a root-relative path is skipped during directory
// enumeration.
type Matcher interface {
	Match(p string, isDir bool) bool
}

// Ignore encapsulates gitignore pattern matching functionality
type Ignore struct {
	matcher gitignore.Matcher
}

// NewIgnore reads every .gitignore under the root of fs
func NewIgnore(fs billy.Filesystem) (*Ignore, error) {
	patterns, err := gitignore.ReadPatterns(fs, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Ignore{
		matcher: gitignore.NewMatcher(patterns),
	}, nil
}

// Match checks if a path should be ignored according to gitignore rules.
// The .git directory is always ignored.
func (ig *Ignore) Match(p string, isDir bool) bool {
	if p == "" {
		return false
	}
	if isDir && path.Base(p) == ".git" {
		return true
	}
	return ig.matcher.Match(strings.Split(p, "/"), isDir)
}

// Globs excludes paths matching any of its doublestar patterns.
type Globs struct {
	patterns []string
}

// NewGlobs validates patterns
func NewGlobs(patterns []string) (*Globs, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern '%s'", pattern)
		}
	}
	return &Globs{patterns: patterns}, nil
}

// Match reports whether p matches one of the patterns
func (g *Globs) Match(p string, isDir bool) bool {
	for _, pattern := range g.patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// Any matches when one of its matchers does.
type Any []Matcher

func (a Any) Match(p string, isDir bool) bool {
	for _, m := range a {
		if m != nil && m.Match(p, isDir) {
			return true
		}
	}
	return false
}
