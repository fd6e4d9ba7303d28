// Package section defines the Markdown block format shared by the encoder and
// the decoder:
//
//	\n## {path}\n\n```{tag}\n{content}\n```\n\n
//
// or, for a file that could not be read:
//
//	\n## {path}\n\n(unable to read file: {error})\n\n
//
// The format has no escaping. Content that itself contains three consecutive
// backticks ends the block early when the document is parsed back; see Parse.
package section

import (
	"io"
	"strings"
)

// Fence delimits the content block.
const Fence = "```"

// Section is one file entry of a document. Err is set for a file whose
// content could not be read, in which case Content is empty.
type Section struct {
	Line    int    // line number of the heading, set by the parser
	Path    string // root-relative, forward slashes
	Tag     string // language tag of the fence
	Content string
	Err     error
}

// Write writes the Markdown form of s to w
func Write(w io.Writer, s Section) (int, error) {
	return io.WriteString(w, Render(s))
}

// Render returns the Markdown form of s
func Render(s Section) string {
	var b strings.Builder
	b.WriteString("\n## ")
	b.WriteString(s.Path)
	b.WriteString("\n\n")
	if s.Err != nil {
		b.WriteString("(unable to read file: ")
		b.WriteString(s.Err.Error())
		b.WriteString(")\n\n")
		return b.String()
	}
	b.WriteString(Fence)
	b.WriteString(s.Tag)
	b.WriteString("\n")
	b.WriteString(s.Content)
	b.WriteString("\n")
	b.WriteString(Fence)
	b.WriteString("\n\n")
	return b.String()
}

// Decodable reports whether the parser accepts tag in a fence opener. Only
// lowercase ASCII letters are allowed, so tags like "mp4" or "c++" render
// fine but are not read back.
func Decodable(tag string) bool {
	for i := 0; i < len(tag); i++ {
		if tag[i] < 'a' || tag[i] > 'z' {
			return false
		}
	}
	return true
}
