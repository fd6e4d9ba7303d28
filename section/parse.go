package section

import (
	"fmt"
	"io"
	"strings"
)

// Parser scans a document for section blocks. A block is
//
//   - a line starting with "## "; the rest of the line, trimmed, is the path
//   - one or more line break characters
//   - a fence opener: ``` followed by a tag of lowercase letters only, then a
//     line break
//   - the body, up to the first ``` that follows
//
// The body loses one trailing line break of the same style as the one ending
// the opener line, which is the break the encoder writes before the closing
// fence. Headings that are not followed by a well-formed block, such as the
// "(unable to read file: ...)" note, are skipped. Blocks never overlap: a
// "## " line inside a body is body text.
//
// The body ends at the first ``` even if that is in the middle of the
// original file's content. Documents built from files containing ``` cannot
// be read back faithfully.
type Parser struct {
	src       string
	pos       int  // offset of the next unread byte
	lineNo    int  // line number at pos
	lineStart bool // pos is at the beginning of a line
}

// NewParser creates a new Parser instance
func NewParser(src string) *Parser {
	return &Parser{
		src:       src,
		lineNo:    1,
		lineStart: true,
	}
}

// Parse returns every section block in src, in document order
func Parse(src string) []Section {
	p := NewParser(src)
	var sections []Section
	for {
		s, ok := p.Next()
		if !ok {
			return sections
		}
		sections = append(sections, s)
	}
}

// ParseReader reads the whole document from r and parses it
func ParseReader(r io.Reader) ([]Section, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(string(content)), nil
}

// Next returns the next section block, or false at the end of the document.
func (p *Parser) Next() (Section, bool) {
	for p.pos < len(p.src) {
		if p.lineStart && strings.HasPrefix(p.src[p.pos:], "## ") {
			if s, end, ok := p.matchBlock(p.pos); ok {
				s.Line = p.lineNo
				p.advance(end)
				return s, true
			}
		}
		p.skipLine()
	}
	return Section{}, false
}

// matchBlock tries to match a block whose heading starts at start. It returns
// the section and the offset just past the closing fence.
func (p *Parser) matchBlock(start int) (Section, int, bool) {
	src := p.src

	i := start + len("## ")
	eol := strings.IndexAny(src[i:], "\r\n")
	if eol <= 0 {
		return Section{}, 0, false
	}
	path := strings.TrimSpace(src[i : i+eol])
	if path == "" {
		return Section{}, 0, false
	}

	j := i + eol
	for j < len(src) && isLineBreak(src[j]) {
		j++
	}

	if !strings.HasPrefix(src[j:], Fence) {
		return Section{}, 0, false
	}
	j += len(Fence)

	tagStart := j
	for j < len(src) && src[j] >= 'a' && src[j] <= 'z' {
		j++
	}
	tag := src[tagStart:j]

	var eolStyle string
	switch {
	case strings.HasPrefix(src[j:], "\r\n"):
		eolStyle = "\r\n"
	case j < len(src) && isLineBreak(src[j]):
		eolStyle = src[j : j+1]
	default:
		return Section{}, 0, false
	}
	j += len(eolStyle)

	end := strings.Index(src[j:], Fence)
	if end < 0 {
		return Section{}, 0, false
	}

	return Section{
		Path:    path,
		Tag:     tag,
		Content: strings.TrimSuffix(src[j:j+end], eolStyle),
	}, j + end + len(Fence), true
}

// skipLine consumes the rest of the current line, including its line break.
func (p *Parser) skipLine() {
	i := strings.IndexAny(p.src[p.pos:], "\r\n")
	if i < 0 {
		p.advance(len(p.src))
		return
	}
	p.advance(p.pos + i + 1)
}

func (p *Parser) advance(to int) {
	p.lineNo += strings.Count(p.src[p.pos:to], "\n")
	p.pos = to
	p.lineStart = to > 0 && isLineBreak(p.src[to-1])
}

func isLineBreak(c byte) bool {
	return c == '\n' || c == '\r'
}
