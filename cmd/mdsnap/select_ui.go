package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hayeah/mdsnap"
	"github.com/hayeah/mdsnap/internal/set"
	"github.com/hayeah/mdsnap/provider"
	"github.com/sahilm/fuzzy"
)

// ExitState indicates how the picker is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Esc, Ctrl+C: the session is left as it was
	ExitStateConfirm                  // Enter: the picked paths become the selection
)

var cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// pickModel browses the session root one directory at a time. Picks are
// kept locally and only applied to the session on confirm.
type pickModel struct {
	session *mdsnap.Session

	textInput  textinput.Model
	searchTerm string

	entries  []provider.Entry // listing of the current directory
	filtered []provider.Entry
	picked   *set.Ordered[string]

	cursor    int
	depth     int // directories entered since the picker started
	status    string
	exitState ExitState

	viewport viewport.Model
	ready    bool
}

func newPickModel(session *mdsnap.Session) (pickModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Type to fuzzy-search..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	picked := set.NewOrdered[string]()
	for _, p := range session.Selection() {
		picked.Add(p)
	}

	m := pickModel{
		session:   session,
		textInput: ti,
		picked:    picked,
		viewport:  viewport.New(0, 0),
	}
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

func (m pickModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.textInput.View()) + 2 // cwd line, input, blank line
		footerHeight := 3
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.viewport.YPosition = headerHeight
		if !m.ready {
			m.updateViewportContent()
			m.ready = true
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.abort()
			return m, tea.Quit

		case "enter":
			m.confirm()
			return m, tea.Quit

		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.updateViewportContent()
				m.ensureCursorVisible()
			}
			return m, nil

		case "down":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.updateViewportContent()
				m.ensureCursorVisible()
			}
			return m, nil

		case " ", "space":
			if e, ok := m.current(); ok {
				m.toggle(m.key(e))
				m.updateViewportContent()
			}
			return m, nil

		case "right", "tab":
			if e, ok := m.current(); ok && e.IsDir {
				m.enter(e.Name)
			}
			return m, nil

		case "left":
			m.back()
			return m, nil

		case "backspace":
			if m.textInput.Value() == "" {
				m.back()
				return m, nil
			}

		case "ctrl+a":
			for _, e := range m.filtered {
				m.picked.Add(m.key(e))
			}
			m.updateViewportContent()
			return m, nil

		case "ctrl+q":
			for _, e := range m.filtered {
				m.picked.Remove(m.key(e))
			}
			m.updateViewportContent()
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	if term := m.textInput.Value(); term != m.searchTerm {
		m.searchTerm = term
		m.refilter()
		m.updateViewportContent()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m pickModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	cwd := m.session.Root().Name() + "/" + m.session.Cwd()
	header := fmt.Sprintf("%s\n%s\n", cwd, m.textInput.View())

	status := fmt.Sprintf("%d/%d entries, %d picked", len(m.filtered), len(m.entries), m.picked.Len())
	if m.status != "" {
		status += " | " + m.status
	}
	usage := "(↑/↓ move, Space toggle, →/Tab open dir, ← back, Enter confirm, Esc abort, Ctrl+A pick all, Ctrl+Q unpick all)"

	return fmt.Sprintf("%s%s\n%s\n%s", header, m.viewport.View(), status, usage)
}

// key returns the selection key of an entry of the current directory
func (m *pickModel) key(e provider.Entry) string {
	return path.Join(m.session.Cwd(), e.Name)
}

func (m *pickModel) current() (provider.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return provider.Entry{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *pickModel) toggle(key string) {
	if !m.picked.Remove(key) {
		m.picked.Add(key)
	}
}

func (m *pickModel) enter(dir string) {
	if err := m.session.Enter(dir); err != nil {
		m.status = err.Error()
		return
	}
	m.depth++
	m.resetInput()
	if err := m.reload(); err != nil {
		m.status = err.Error()
	}
}

func (m *pickModel) back() {
	if m.depth == 0 || !m.session.Back() {
		return
	}
	m.depth--
	m.resetInput()
	if err := m.reload(); err != nil {
		m.status = err.Error()
	}
}

// abort unwinds the directories entered by the picker
func (m *pickModel) abort() {
	for m.depth > 0 && m.session.Back() {
		m.depth--
	}
	m.exitState = ExitStateAbort
}

func (m *pickModel) confirm() {
	for m.depth > 0 && m.session.Back() {
		m.depth--
	}
	m.session.Clear()
	if err := m.session.Select(m.picked.Values()...); err != nil {
		m.status = err.Error()
	}
	m.exitState = ExitStateConfirm
}

func (m *pickModel) resetInput() {
	m.textInput.SetValue("")
	m.searchTerm = ""
	m.cursor = 0
}

func (m *pickModel) reload() error {
	entries, err := m.session.List()
	if err != nil {
		return err
	}
	m.entries = entries
	m.status = ""
	m.refilter()
	m.updateViewportContent()
	return nil
}

// refilter narrows the listing to the entries matching the search term,
// best match first
func (m *pickModel) refilter() {
	if m.searchTerm == "" {
		m.filtered = m.entries
	} else {
		names := make([]string, len(m.entries))
		for i, e := range m.entries {
			names[i] = e.Name
		}
		matches := fuzzy.Find(m.searchTerm, names)
		m.filtered = make([]provider.Entry, len(matches))
		for i, match := range matches {
			m.filtered[i] = m.entries[match.Index]
		}
	}
	m.cursor = max(0, min(m.cursor, len(m.filtered)-1))
}

func (m *pickModel) updateViewportContent() {
	var sb strings.Builder
	for i, e := range m.filtered {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		check := " "
		if m.picked.Contains(m.key(e)) {
			check = "✓"
		}
		name := e.Name
		if e.IsDir {
			name += "/"
		}

		line := fmt.Sprintf("%s [%s] %s", cursor, check, name)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	m.viewport.SetContent(sb.String())
}

func (m *pickModel) ensureCursorVisible() {
	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
