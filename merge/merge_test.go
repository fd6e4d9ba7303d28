package merge

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hayeah/mdsnap/provider"
	"github.com/hayeah/mdsnap/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTarget(t *testing.T, files map[string]string) *provider.FS {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0644))
	}
	return provider.New(fs, "target")
}

func readFile(t *testing.T, p *provider.FS, name string) string {
	t.Helper()
	content, err := util.ReadFile(p.Filesystem(), name)
	require.NoError(t, err)
	return string(content)
}

func TestApplyCreatesParents(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, nil)
	sections := section.Parse("\n## x/y.txt\n\n```txt\nhi\n```\n\n")

	report := Apply(target, sections, nil)
	assert.Equal(1, report.Matched)
	assert.Equal([]string{"x/y.txt"}, report.Created)
	assert.Empty(report.Failures)
	assert.NoError(report.Err())
	assert.Equal("hi", readFile(t, target, "x/y.txt"))

	kind, err := target.StatKind("x")
	assert.NoError(err)
	assert.Equal(provider.KindDir, kind)
}

func TestApplyErrorNoteWritesNothing(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, nil)
	sections := section.Parse("\n## secret.bin\n\n(unable to read file: EACCES)\n\n")

	report := Apply(target, sections, nil)
	assert.True(report.NoMatches())
	assert.Empty(report.Failures)
	assert.Equal(0, report.Written())
	assert.Equal("no file sections found", report.String())

	kind, _ := target.StatKind("secret.bin")
	assert.Equal(provider.KindNotFound, kind)
}

func TestApplyOverwrites(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, map[string]string{"a.txt": "old"})
	report := Apply(target, []section.Section{
		{Path: "a.txt", Tag: "txt", Content: "new"},
		{Path: "b.txt", Tag: "txt", Content: "first"},
		{Path: "b.txt", Tag: "txt", Content: "second"},
	}, nil)

	assert.Equal([]string{"b.txt"}, report.Created)
	assert.Equal([]string{"a.txt", "b.txt"}, report.Updated)
	assert.Equal(3, report.Written())
	assert.Equal("new", readFile(t, target, "a.txt"))
	assert.Equal("second", readFile(t, target, "b.txt"))
	assert.Equal("wrote 3 files (1 created, 2 updated), 0 errors", report.String())
}

func TestApplyUnsafePaths(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, nil)
	report := Apply(target, []section.Section{
		{Line: 2, Path: "../escape.txt", Content: "x"},
		{Line: 9, Path: "/etc/passwd", Content: "x"},
		{Line: 16, Path: "C:/Windows/x.txt", Content: "x"},
		{Line: 23, Path: "a/../../b.txt", Content: "x"},
		{Line: 30, Path: "ok/../fine.txt", Content: "fine"},
	}, nil)

	assert.Equal(5, report.Matched)
	assert.Len(report.Failures, 4)
	for _, f := range report.Failures {
		assert.True(errors.Is(f, ErrUnsafePath), f.Error())
	}
	assert.Equal(9, report.Failures[1].Line)
	assert.Equal([]string{"fine.txt"}, report.Created)
	assert.Error(report.Err())
}

func TestApplyContinuesAfterFailure(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, map[string]string{"dir/keep.txt": "k"})
	report := Apply(target, []section.Section{
		{Path: "dir", Content: "cannot replace a directory"},
		{Path: "after.txt", Content: "written"},
	}, nil)

	assert.Len(report.Failures, 1)
	assert.Equal("dir", report.Failures[0].Path)
	assert.Equal([]string{"after.txt"}, report.Created)
	assert.Equal("written", readFile(t, target, "after.txt"))
}

func TestApplyWriteFailureOnDisk(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	assert := assert.New(t)

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0555))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	target, err := provider.NewOS(dir)
	require.NoError(t, err)

	report := Apply(target, []section.Section{
		{Path: "locked/a.txt", Content: "a"},
		{Path: "open/b.txt", Content: "b"},
	}, nil)

	assert.Len(report.Failures, 1)
	assert.Equal("locked/a.txt", report.Failures[0].Path)
	assert.Equal([]string{"open/b.txt"}, report.Created)

	content, err := os.ReadFile(filepath.Join(dir, "open", "b.txt"))
	assert.NoError(err)
	assert.Equal("b", string(content))
}

func TestApplyRefusesSymlinkedParentOnDisk(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}
	assert := assert.New(t)

	base := t.TempDir()
	dir := filepath.Join(base, "target")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.Mkdir(outside, 0755))
	require.NoError(t, os.Symlink("../outside", filepath.Join(dir, "link")))

	target, err := provider.NewOS(dir)
	require.NoError(t, err)

	report := Apply(target, []section.Section{
		{Path: "link/x.txt", Content: "x"},
		{Path: "ok.txt", Content: "ok"},
	}, nil)

	require.Len(t, report.Failures, 1)
	assert.Equal("link/x.txt", report.Failures[0].Path)
	assert.ErrorIs(report.Failures[0], provider.ErrParentNotDir)
	assert.Equal([]string{"ok.txt"}, report.Created)

	_, err = os.Stat(filepath.Join(outside, "x.txt"))
	assert.True(os.IsNotExist(err))

	// nothing besides the link and ok.txt appeared under the target
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal([]string{"link", "ok.txt"}, names)
}

func TestApplyDryRun(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, map[string]string{"a.txt": "old"})
	m := New(target, nil)
	m.DryRun = true

	report := m.Apply([]section.Section{
		{Path: "a.txt", Content: "new"},
		{Path: "b/c.txt", Content: "c"},
	})
	assert.Equal([]string{"b/c.txt"}, report.Created)
	assert.Equal([]string{"a.txt"}, report.Updated)
	assert.Equal("would write 2 files (1 created, 1 updated), 0 errors", report.String())

	assert.Equal("old", readFile(t, target, "a.txt"))
	kind, _ := target.StatKind("b")
	assert.Equal(provider.KindNotFound, kind)
}

func TestSafePath(t *testing.T) {
	assert := assert.New(t)

	p, err := SafePath("./src\\main.go")
	assert.NoError(err)
	assert.Equal("src/main.go", p)

	for _, bad := range []string{"", ".", "..", "../x", "/abs", "D:\\x", "dir/"} {
		_, err := SafePath(bad)
		assert.True(errors.Is(err, ErrUnsafePath), bad)
	}
}

func TestSectionToAction(t *testing.T) {
	assert := assert.New(t)

	target := newTarget(t, map[string]string{"exists.txt": "x"})

	action, err := SectionToAction(target, section.Section{Path: "exists.txt"})
	assert.NoError(err)
	assert.IsType(&Update{}, action)
	assert.Equal("update exists.txt", action.Description())
	assert.NoError(action.Verify())

	action, err = SectionToAction(target, section.Section{Path: "new.txt"})
	assert.NoError(err)
	assert.IsType(&Create{}, action)
	assert.Equal("create new.txt", action.Description())
	assert.NoError(action.Verify())
	assert.NoError(action.Apply())
	assert.Error(action.Verify(), "a second create of the same file fails verification")
}
