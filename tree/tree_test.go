package tree

import (
	"strings"
	"testing"

	"github.com/hayeah/mdsnap/internal/assert"
)

func TestRender(t *testing.T) {
	assert := assert.New(t)

	got := Render("project", []string{
		"sub",
		"sub/b.py",
		"a.txt",
		"sub/c",
		"sub/c/d.md",
		"B.txt",
	})
	assert.EqualToFixture("project.txt", got)
}

func TestRenderOverlappingSelection(t *testing.T) {
	assert := assert.New(t)

	got := Render("project", []string{"a.txt", "sub", "sub/b.py", "sub", "sub/b.py"})
	assert.Equal("project/\n├── a.txt\n└── sub\n    └── b.py\n", got)
	assert.Equal(1, strings.Count(got, "sub"))
	assert.Equal(1, strings.Count(got, "b.py"))
}

func TestRenderIgnoresInsertionOrder(t *testing.T) {
	assert := assert.New(t)

	paths := []string{"z/1", "a", "m/n/o", "m/b", "Z2"}
	want := Render("x", paths)

	reversed := make([]string, len(paths))
	for i, p := range paths {
		reversed[len(paths)-1-i] = p
	}
	assert.Equal(want, Render("x", reversed))
	assert.Equal("x/\n├── a\n├── m\n│   ├── b\n│   └── n\n│       └── o\n├── z\n│   └── 1\n└── Z2\n", want)
}

func TestRenderFallbackName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("root/\n└── a.txt\n", Render("", []string{"a.txt"}))
	assert.Equal("root/\n", Render("", nil))
}

func TestExport(t *testing.T) {
	assert := assert.New(t)

	tree := Render("p", []string{"a"})
	assert.Equal("# Project Structure\n\n```text\np/\n└── a\n\n```\n", Export(tree))
}

func TestBuild(t *testing.T) {
	assert := assert.New(t)

	root := Build([]string{"a/b/c", "a/b", "/d/", ""})
	assert.Equal(Node{
		"a": Node{"b": Node{"c": Node{}}},
		"d": Node{},
	}, root)
}
