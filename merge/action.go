package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hayeah/mdsnap/internal/selection"
	"github.com/hayeah/mdsnap/provider"
	"github.com/hayeah/mdsnap/section"
)

// ErrUnsafePath is returned for section paths that are absolute or climb out
// of the target root.
var ErrUnsafePath = errors.New("unsafe path")

// Action is an interface for operations that can be verified and applied.
type Action interface {
	Description() string
	Verify() error
	Apply() error
}

// Create writes a file that does not exist yet.
type Create struct {
	target  provider.Provider
	Path    string
	Content string
}

func (c *Create) Description() string {
	return fmt.Sprintf("create %s", c.Path)
}

func (c *Create) Verify() error {
	kind, err := c.target.StatKind(c.Path)
	if err != nil {
		return fmt.Errorf("failed to check file existence: %w", err)
	}
	if kind != provider.KindNotFound {
		return fmt.Errorf("file already exists: %s", c.Path)
	}
	return c.target.CheckWritable(c.Path)
}

func (c *Create) Apply() error {
	if err := c.target.WriteText(c.Path, c.Content); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

// Update replaces the content of an existing file.
type Update struct {
	target  provider.Provider
	Path    string
	Content string
}

func (u *Update) Description() string {
	return fmt.Sprintf("update %s", u.Path)
}

func (u *Update) Verify() error {
	kind, err := u.target.StatKind(u.Path)
	if err != nil {
		return fmt.Errorf("failed to access file: %w", err)
	}
	if kind != provider.KindFile {
		return fmt.Errorf("file does not exist: %s", u.Path)
	}
	return u.target.CheckWritable(u.Path)
}

func (u *Update) Apply() error {
	if err := u.target.WriteText(u.Path, u.Content); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// SafePath checks a path read from a document and returns its normalized
// form. Absolute paths, drive letters and paths that escape the root fail
// with ErrUnsafePath.
func SafePath(p string) (string, error) {
	if len(p) >= 2 && p[1] == ':' {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, p)
	}
	key, err := selection.Normalize(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, p)
	}
	if key == "" || strings.HasSuffix(p, "/") {
		return "", fmt.Errorf("%w: %s is not a file path", ErrUnsafePath, p)
	}
	return key, nil
}

// SectionToAction converts a decoded section into a Create or Update action
// for target, depending on whether the file already exists.
func SectionToAction(target provider.Provider, s section.Section) (Action, error) {
	p, err := SafePath(s.Path)
	if err != nil {
		return nil, err
	}

	kind, err := target.StatKind(p)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", p, err)
	}

	switch kind {
	case provider.KindFile:
		return &Update{target: target, Path: p, Content: s.Content}, nil
	case provider.KindDir:
		return nil, fmt.Errorf("cannot write %s: is a directory", p)
	default:
		return &Create{target: target, Path: p, Content: s.Content}, nil
	}
}
