// Package chart prints the token breakdown of a document as an ASCII bar
// chart. Terminal size and output are passed in, so nothing here touches
// stdout.
package chart

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/hayeah/mdsnap/internal/metrics"
)

// Options controls layout
type Options struct {
	BarWidth     int        // 0 sizes the bar from the terminal width
	FillRune     rune       // default '█'
	ThresholdPct float64    // directories below this share are folded into dir/**
	TermWidth    func() int // terminal columns
}

// DefaultOptions returns the options the CLI uses
func DefaultOptions(termWidth func() int) Options {
	return Options{
		FillRune:     '█',
		ThresholdPct: 1,
		TermWidth:    termWidth,
	}
}

// Row is one bar of the chart
type Row struct {
	Label  string
	Tokens int
}

// Print writes the chart for m to w
func Print(w io.Writer, m *metrics.Metrics, opt Options) error {
	m.Wait()
	rows, total, files := Rows(m, opt.ThresholdPct)
	for _, line := range Layout(rows, total, files, opt) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Rows groups file tokens by directory, folding directories whose share is
// below thresholdPct into a single "dir/**" row. Non-file items get a row
// each. It returns the rows, the total tokens and the file count.
func Rows(m *metrics.Metrics, thresholdPct float64) ([]Row, int, int) {
	items := m.Items()

	var total, files int
	root := newNode("")
	for k, v := range items {
		total += v.Tokens
		if k.Kind == metrics.KindFile {
			root.insert(k.Path, v.Tokens)
			files++
		}
	}

	threshold := float64(total) * thresholdPct / 100
	rows := root.fold("", threshold)

	for k, v := range items {
		if k.Kind != metrics.KindFile {
			rows = append(rows, Row{Label: k.String(), Tokens: v.Tokens})
		}
	}
	return rows, total, files
}

type node struct {
	name     string
	tokens   int
	file     bool
	children map[string]*node
}

func newNode(name string) *node {
	return &node{name: name, children: map[string]*node{}}
}

func (n *node) insert(p string, tokens int) {
	cur := n
	cur.tokens += tokens
	parts := strings.Split(p, "/")
	for i, part := range parts {
		child, ok := cur.children[part]
		if !ok {
			child = newNode(part)
			cur.children[part] = child
		}
		child.tokens += tokens
		child.file = i == len(parts)-1
		cur = child
	}
}

func (n *node) sortedChildren() []*node {
	out := make([]*node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (n *node) fold(dir string, threshold float64) []Row {
	var rows []Row
	var small int
	for _, c := range n.sortedChildren() {
		p := path.Join(dir, c.name)
		switch {
		case float64(c.tokens) < threshold:
			small += c.tokens
		case c.file:
			rows = append(rows, Row{Label: p, Tokens: c.tokens})
		default:
			rows = append(rows, c.fold(p, threshold)...)
		}
	}
	if small > 0 {
		rows = append(rows, Row{Label: path.Join(dir, "**"), Tokens: small})
	}
	return rows
}

// Layout formats rows, smallest first, followed by a total row and a summary
// line.
func Layout(rows []Row, total, files int, opt Options) []string {
	if len(rows) == 0 || total == 0 {
		return []string{"No tokens recorded"}
	}
	const pctW, tokensW, gapW = 6, 6, 2

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tokens < sorted[j].Tokens })

	width := 80
	if opt.TermWidth != nil {
		width = opt.TermWidth()
	}
	barW := opt.BarWidth
	if barW <= 0 {
		barW = min(int(float64(width)*0.35), 30)
	}
	labelW := max(width-(barW+pctW+tokensW+gapW*3), 8)

	fill := opt.FillRune
	if fill == 0 {
		fill = '█'
	}

	largest := sorted[len(sorted)-1].Tokens
	lines := make([]string, 0, len(sorted)+2)
	for _, r := range sorted {
		n := 0
		if largest > 0 {
			n = int(float64(r.Tokens)/float64(largest)*float64(barW) + 0.5)
		}
		if n == 0 && r.Tokens > 0 {
			n = 1
		}
		lines = append(lines, formatRow(strings.Repeat(string(fill), n), barW, percent(r.Tokens, total), r.Tokens, trimLabel(r.Label, labelW)))
	}
	lines = append(lines, formatRow(strings.Repeat("─", barW), barW, 100, total, "TOTAL"))
	lines = append(lines, fmt.Sprintf("\nSummary: %d files, %d tokens", files, total))
	return lines
}

func formatRow(bar string, barW int, pct float64, tokens int, label string) string {
	// %-*s pads by bytes, the bar is multi-byte
	pad := barW - len([]rune(bar))
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("%s%s  %5.1f%%  %6d  %s", bar, strings.Repeat(" ", pad), pct, tokens, label)
}

// trimLabel keeps the end of long labels, which is the informative part of a path
func trimLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return "…" + string(r[len(r)-max+1:])
}

func percent(part, total int) float64 {
	return float64(part) * 100 / float64(total)
}
