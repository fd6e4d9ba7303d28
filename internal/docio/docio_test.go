package docio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memClipboard struct {
	text string
	err  error
}

func (c *memClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *memClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

const doc = "\n## a.txt\n\n```txt\nhello\n```\n\n"

func TestWriteStdout(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	d := &IO{Stdout: &out}
	assert.NoError(d.Write(Stdio, doc))
	assert.Equal(doc, out.String())
}

func TestReadStdin(t *testing.T) {
	assert := assert.New(t)

	d := &IO{Stdin: strings.NewReader(doc)}
	got, err := d.Read(Stdio)
	assert.NoError(err)
	assert.Equal(doc, got)
}

func TestClipboard(t *testing.T) {
	assert := assert.New(t)

	cb := &memClipboard{}
	d := &IO{Clipboard: cb}
	assert.NoError(d.Write("", doc))
	assert.Equal(doc, cb.text)

	got, err := d.Read("")
	assert.NoError(err)
	assert.Equal(doc, got)

	cb.err = ErrClipboardUnavailable
	err = d.Write("", doc)
	assert.True(errors.Is(err, ErrClipboardUnavailable))
}

func TestFileRoundTrip(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	d := &IO{}

	plain := filepath.Join(dir, "out", "snap.md")
	assert.NoError(d.Write(plain, doc))
	raw, err := os.ReadFile(plain)
	assert.NoError(err)
	assert.Equal(doc, string(raw))

	got, err := d.Read(plain)
	assert.NoError(err)
	assert.Equal(doc, got)
}

func TestCompressedRoundTrip(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	d := &IO{}
	big := strings.Repeat(doc, 200)

	p := filepath.Join(dir, "snap.md.zst")
	assert.NoError(d.Write(p, big))

	raw, err := os.ReadFile(p)
	assert.NoError(err)
	assert.Less(len(raw), len(big))
	assert.NotContains(string(raw), "## a.txt")

	got, err := d.Read(p)
	assert.NoError(err)
	assert.Equal(big, got)
}

func TestReadCorruptCompressed(t *testing.T) {
	assert := assert.New(t)

	p := filepath.Join(t.TempDir(), "bad.zst")
	assert.NoError(os.WriteFile(p, []byte("not zstd"), 0644))

	_, err := (&IO{}).Read(p)
	assert.Error(err)
}

func TestReadMissing(t *testing.T) {
	_, err := (&IO{}).Read(filepath.Join(t.TempDir(), "missing.md"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDescribe(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("clipboard", Describe(""))
	assert.Equal("stdout", Describe(Stdio))
	assert.Equal("snap.md", Describe("snap.md"))
	assert.True(IsCompressed("a.md.ZST"))
	assert.False(IsCompressed("a.md"))
}
