package selection

import "github.com/hayeah/mdsnap/internal/set"

// TextReader reads the text content of a root-relative path.
type TextReader interface {
	ReadText(p string) (string, error)
}

// FileRef is a resolved reference to a single file under the root. Content is
// read lazily, when the encoder asks for it.
type FileRef struct {
	Path string // root-relative, forward slashes
	src  TextReader
}

// NewFileRef creates a FileRef that reads its content from src
func NewFileRef(src TextReader, p string) FileRef {
	return FileRef{Path: p, src: src}
}

// ReadText reads the file content
func (f FileRef) ReadText() (string, error) {
	return f.src.ReadText(f.Path)
}

// FileRefSet keeps FileRefs unique by path. The first reference added for a
// path wins and keeps its position.
type FileRefSet struct {
	keys *set.Ordered[string]
	refs []FileRef
}

// NewFileRefSet creates a new empty FileRefSet
func NewFileRefSet() *FileRefSet {
	return &FileRefSet{keys: set.NewOrdered[string]()}
}

// Add adds ref unless a ref with the same path is already present
func (s *FileRefSet) Add(ref FileRef) bool {
	if !s.keys.Add(ref.Path) {
		return false
	}
	s.refs = append(s.refs, ref)
	return true
}

// Contains checks if the set contains a FileRef with the given path
func (s *FileRefSet) Contains(p string) bool {
	return s.keys.Contains(p)
}

// Len returns the number of elements in the set
func (s *FileRefSet) Len() int {
	return len(s.refs)
}

// Values returns the refs in insertion order
func (s *FileRefSet) Values() []FileRef {
	out := make([]FileRef, len(s.refs))
	copy(out, s.refs)
	return out
}
