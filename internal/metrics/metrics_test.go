package metrics

import (
	"encoding/json"
	"sync"
	"testing"

	fixture "github.com/hayeah/mdsnap/internal/assert"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	assert := assert.New(t)

	m := New(ByteCounter{}, 2)
	m.Add(KindFile, "a.go", "This is a test.\nIt has two lines.")
	m.Add(KindFile, "b.go", "Another test item")
	m.Add(KindTree, "project", "project/\n└── a.go")
	m.Wait()

	items := m.Items()
	assert.Len(items, 3)
	assert.Equal(2, items[Key{Kind: KindFile, Path: "a.go"}].Lines)

	sum := m.SumBy(KindFile)
	assert.Equal(len("This is a test.\nIt has two lines.")+len("Another test item"), sum.Bytes)
	assert.Positive(sum.Tokens)

	assert.Equal([]Key{{KindFile, "a.go"}, {KindFile, "b.go"}}, m.Keys(KindFile))

	// Wait is idempotent and Add after Wait is dropped
	m.Wait()
	m.Add(KindFile, "late.go", "x")
	assert.Len(m.Items(), 3)

	b, err := json.Marshal(m)
	assert.NoError(err)
	assert.Contains(string(b), `"file:a.go"`)
}

func TestMetricsConcurrentAdd(t *testing.T) {
	assert := assert.New(t)

	m := New(ByteCounter{}, 4)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Add(KindFile, "same.go", "abcd")
			}
		}()
	}
	wg.Wait()
	m.Wait()

	assert.Equal(8*50*4, m.SumBy(KindFile).Bytes)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Add(KindFile, "a", "b")
	m.Wait()
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "file:path/to/file.go", Key{Kind: KindFile, Path: "path/to/file.go"}.String())
}

func TestByteCounter(t *testing.T) {
	assert := assert.New(t)

	bytes, tokens, lines := ByteCounter{}.Count("")
	assert.Equal(0, bytes)
	assert.Equal(0, tokens)
	assert.Equal(1, lines)

	text := "Hello, world!\nThis is a test."
	bytes, tokens, lines = ByteCounter{}.Count(text)
	assert.Equal(len(text), bytes)
	assert.Equal(len(text)/4, tokens)
	assert.Equal(2, lines)
}

func TestNewCounter(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCounter("")
	assert.NoError(err)
	assert.IsType(ByteCounter{}, c)

	c, err = NewCounter(EstimatorBytes)
	assert.NoError(err)
	assert.IsType(ByteCounter{}, c)

	_, err = NewCounter("no-such-model")
	assert.Error(err)
}

func TestMetricsJSON(t *testing.T) {
	a := fixture.New(t)

	m := New(ByteCounter{}, 1)
	m.Add(KindFile, "a.go", "package a\n")
	m.Add(KindTree, "project", "project/\n└── a.go\n")
	m.Wait()

	a.EqualToJSONFixture("items", m)
}
