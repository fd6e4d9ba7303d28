package ignore

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
)

func TestIgnore(t *testing.T) {
	assert := assert.New(t)

	fs := memfs.New()
	assert.NoError(util.WriteFile(fs, ".gitignore", []byte("*.log\nbuild/\n"), 0644))
	assert.NoError(util.WriteFile(fs, "sub/.gitignore", []byte("local.txt\n"), 0644))
	assert.NoError(util.WriteFile(fs, "sub/local.txt", []byte("x"), 0644))

	ig, err := NewIgnore(fs)
	assert.NoError(err)

	assert.True(ig.Match("debug.log", false))
	assert.True(ig.Match("sub/trace.log", false))
	assert.True(ig.Match("build", true))
	assert.True(ig.Match("sub/local.txt", false))
	assert.True(ig.Match(".git", true))
	assert.False(ig.Match("local.txt", false), "nested .gitignore only applies below its directory")
	assert.False(ig.Match("main.go", false))
	assert.False(ig.Match("", true))
}

func TestGlobs(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGlobs([]string{"**/*.lock", "node_modules"})
	assert.NoError(err)

	assert.True(g.Match("yarn.lock", false))
	assert.True(g.Match("web/Cargo.lock", false))
	assert.True(g.Match("node_modules", true))
	assert.False(g.Match("web/node_modules", true))
	assert.False(g.Match("main.go", false))

	_, err = NewGlobs([]string{"[unclosed"})
	assert.Error(err)
}

func TestAny(t *testing.T) {
	assert := assert.New(t)

	g1, _ := NewGlobs([]string{"*.tmp"})
	g2, _ := NewGlobs([]string{"dist"})

	m := Any{g1, nil, g2}
	assert.True(m.Match("x.tmp", false))
	assert.True(m.Match("dist", true))
	assert.False(m.Match("src", true))
	assert.False(Any(nil).Match("x", false))
}
