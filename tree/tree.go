// Package tree renders a set of root-relative paths as an ASCII directory
// tree.
package tree

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FallbackName is printed on the first line when the root has no name.
const FallbackName = "root"

// Node is a path-segment trie. A node without children is a leaf.
type Node map[string]Node

// Build inserts every path into a new trie. Duplicate and overlapping paths
// collapse into the same nodes.
func Build(paths []string) Node {
	root := Node{}
	for _, p := range paths {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		cur := root
		for _, part := range strings.Split(p, "/") {
			child, ok := cur[part]
			if !ok {
				child = Node{}
				cur[part] = child
			}
			cur = child
		}
	}
	return root
}

// Render returns the tree for paths under a root called name.
func Render(name string, paths []string) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = Write(&b, name, Build(paths))
	return b.String()
}

// Write writes the tree rooted at root to w. Siblings are ordered with a
// locale-aware collator.
func Write(w io.Writer, name string, root Node) error {
	if name == "" {
		name = FallbackName
	}
	tw := &treeWriter{w: w, col: collate.New(language.Und)}
	tw.line(name + "/")
	tw.children(root, "")
	return tw.err
}

// Export wraps a rendered tree as the "Project Structure" document.
func Export(tree string) string {
	return "# Project Structure\n\n```text\n" + tree + "\n```\n"
}

type treeWriter struct {
	w   io.Writer
	col *collate.Collator
	err error
}

func (tw *treeWriter) line(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = io.WriteString(tw.w, s+"\n")
}

func (tw *treeWriter) children(n Node, prefix string) {
	names := tw.sorted(n)
	for i, name := range names {
		last := i == len(names)-1

		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}
		tw.line(prefix + connector + name)

		if child := n[name]; len(child) > 0 {
			tw.children(child, prefix+extension)
		}
	}
}

func (tw *treeWriter) sorted(n Node) []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sortStrings(tw.col, names)
	return names
}

// sortStrings sorts by collation order, breaking ties bytewise so the order
// is total.
func sortStrings(col *collate.Collator, names []string) {
	sort.Slice(names, func(i, j int) bool {
		if c := col.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}
