// Package metrics counts bytes, tokens and lines of the pieces that make up a
// document. Counting runs on a small worker pool and never changes what is
// written.
package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Kinds of measured items.
const (
	KindFile = "file"
	KindTree = "tree"
)

// Key identifies a measured item
type Key struct {
	Kind string
	Path string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Path)
}

// Item holds the counts of one item
type Item struct {
	Bytes  int `json:"bytes"`
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// Add adds the counts of other
func (m *Item) Add(other Item) {
	m.Bytes += other.Bytes
	m.Tokens += other.Tokens
	m.Lines += other.Lines
}

type job struct {
	key  Key
	text string
}

// Metrics collects counts for files and other document parts.
type Metrics struct {
	counter Counter

	mu    sync.Mutex // guards items
	items map[Key]Item

	send   sync.RWMutex // guards jobs and closed
	jobs   chan job
	closed bool
	wg     sync.WaitGroup
}

// New starts a Metrics with the given number of counting workers
func New(counter Counter, workers int) *Metrics {
	if workers < 1 {
		workers = 1
	}

	m := &Metrics{
		counter: counter,
		items:   make(map[Key]Item),
		jobs:    make(chan job, workers*2),
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}
	return m
}

func (m *Metrics) worker() {
	defer m.wg.Done()
	for j := range m.jobs {
		bytes, tokens, lines := m.counter.Count(j.text)
		m.mu.Lock()
		item := m.items[j.key]
		item.Add(Item{Bytes: bytes, Tokens: tokens, Lines: lines})
		m.items[j.key] = item
		m.mu.Unlock()
	}
}

// Add queues text for counting under kind and path. Adding after Wait is a
// no-op. A nil Metrics ignores all calls.
func (m *Metrics) Add(kind, path, text string) {
	if m == nil {
		return
	}
	m.send.RLock()
	defer m.send.RUnlock()
	if m.closed {
		return
	}
	m.jobs <- job{key: Key{Kind: kind, Path: path}, text: text}
}

// Wait stops accepting work and blocks until every queued item is counted.
// It is safe to call more than once.
func (m *Metrics) Wait() {
	if m == nil {
		return
	}
	m.send.Lock()
	if !m.closed {
		m.closed = true
		close(m.jobs)
	}
	m.send.Unlock()
	m.wg.Wait()
}

// Items returns a copy of the counted items
func (m *Metrics) Items() map[Key]Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[Key]Item, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Keys returns the keys of kind, sorted by path
func (m *Metrics) Keys(kind string) []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []Key
	for k := range m.items {
		if k.Kind == kind {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Path < keys[j].Path })
	return keys
}

// SumBy returns the total of all items of kind
func (m *Metrics) SumBy(kind string) Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum Item
	for k, v := range m.items {
		if k.Kind == kind {
			sum.Add(v)
		}
	}
	return sum
}

// MarshalJSON encodes the items keyed by "kind:path"
func (m *Metrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Item, len(m.items))
	for k, v := range m.items {
		out[k.String()] = v
	}
	return json.Marshal(out)
}
