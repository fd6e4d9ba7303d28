// Package provider gives the transcoding core read/write access to a root
// directory through root-relative, forward-slash paths.
package provider

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Kind is the result of resolving a path under the root.
type Kind int

const (
	KindNotFound Kind = iota
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "not found"
	}
}

var (
	// ErrParentNotDir is returned for writes below a file or a symlink.
	ErrParentNotDir = errors.New("parent is not a directory")
	// ErrNotFile is returned for writes to a directory or special file.
	ErrNotFile = errors.New("not a regular file")
)

// Entry is one item of a single-level directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Provider is the file access the collector, encoder and decoder need.
type Provider interface {
	// Name is the display name of the root.
	Name() string
	StatKind(p string) (Kind, error)
	ListChildren(dir string) ([]Entry, error)
	ReadText(p string) (string, error)
	// CheckWritable fails when WriteText could not write p in place.
	CheckWritable(p string) error
	WriteText(p, text string) error
}

// FS implements Provider on top of a billy filesystem rooted at the root
// directory.
//
// Symbolic links are never followed into directories. A link to a regular
// file is followed only when its target stays under the root; any other link
// is invisible.
type FS struct {
	fs   billy.Filesystem
	name string
}

// New wraps fs. name is the display name of the root.
func New(fs billy.Filesystem, name string) *FS {
	return &FS{fs: fs, name: name}
}

// NewOS creates a provider for the directory at root on the host filesystem.
func NewOS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}
	return New(osfs.New(abs, osfs.WithBoundOS()), filepath.Base(abs)), nil
}

func (p *FS) Name() string { return p.name }

// Filesystem returns the underlying billy filesystem
func (p *FS) Filesystem() billy.Filesystem { return p.fs }

// StatKind resolves p segment by segment. Every ancestor must be a real
// directory; the final segment is classified with the symlink policy.
func (p *FS) StatKind(name string) (Kind, error) {
	name = clean(name)
	if name == "" {
		return KindDir, nil
	}

	parts := strings.Split(name, "/")
	for i := 1; i < len(parts); i++ {
		dir := strings.Join(parts[:i], "/")
		info, err := p.fs.Lstat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return KindNotFound, nil
			}
			return KindNotFound, err
		}
		if !info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
			return KindNotFound, nil
		}
	}

	info, err := p.fs.Lstat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return KindNotFound, nil
		}
		return KindNotFound, err
	}
	return p.kindOf(name, info), nil
}

func (p *FS) kindOf(name string, info os.FileInfo) Kind {
	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		if p.linkTargetIsFile(name) {
			return KindFile
		}
		return KindNotFound
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindNotFound
	}
}

// linkTargetIsFile reports whether the symlink at name points at a regular
// file under the root. Only one level of indirection is resolved.
func (p *FS) linkTargetIsFile(name string) bool {
	target, err := p.fs.Readlink(name)
	if err != nil {
		return false
	}

	var rel string
	if filepath.IsAbs(target) {
		root := filepath.Clean(p.fs.Root())
		r, err := filepath.Rel(root, target)
		if err != nil {
			return false
		}
		rel = filepath.ToSlash(r)
	} else {
		rel = path.Join(path.Dir(name), filepath.ToSlash(target))
	}
	rel = path.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "/") {
		return false
	}

	info, err := p.fs.Lstat(rel)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ListChildren returns the entries of dir sorted by name. Entries hidden by
// the symlink policy, and special files, are omitted.
func (p *FS) ListChildren(dir string) ([]Entry, error) {
	dir = clean(dir)
	infos, err := p.fs.ReadDir(dirArg(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", displayDir(dir), err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		switch p.kindOf(path.Join(dir, info.Name()), info) {
		case KindDir:
			entries = append(entries, Entry{Name: info.Name(), IsDir: true})
		case KindFile:
			entries = append(entries, Entry{Name: info.Name()})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// ReadText reads p as UTF-8 text. Content that is not valid UTF-8, or that
// looks binary, fails with ErrNotText.
func (p *FS) ReadText(name string) (string, error) {
	name = clean(name)
	content, err := util.ReadFile(p.fs, name)
	if err != nil {
		return "", err
	}
	if err := checkText(content); err != nil {
		return "", err
	}
	return string(content), nil
}

// CheckWritable reports whether WriteText would write exactly name. Every
// existing ancestor must be a real directory; a symlink would send the write
// somewhere else. An existing name must be a file.
func (p *FS) CheckWritable(name string) error {
	name = clean(name)
	if name == "" {
		return errors.New("cannot write to the root directory")
	}

	parts := strings.Split(name, "/")
	for i := 1; i < len(parts); i++ {
		dir := strings.Join(parts[:i], "/")
		info, err := p.fs.Lstat(dir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%s: %w", dir, ErrParentNotDir)
		}
	}

	info, err := p.fs.Lstat(name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.kindOf(name, info) != KindFile {
		return fmt.Errorf("%s: %w", name, ErrNotFile)
	}
	return nil
}

// WriteText writes text to p, creating parent directories as needed and
// replacing any existing file.
func (p *FS) WriteText(name, text string) error {
	name = clean(name)
	if err := p.CheckWritable(name); err != nil {
		return err
	}
	if dir := path.Dir(name); dir != "." {
		if err := p.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(p.fs, name, []byte(text), 0644); err != nil {
		return err
	}
	return nil
}

func clean(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

func dirArg(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func displayDir(dir string) string {
	if dir == "" {
		return "root"
	}
	return dir
}
