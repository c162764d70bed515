package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/farefinder/internal/logtail"
)

// levelFilters is the cycle order of the diagnostics level filter.
var levelFilters = []string{"", "INFO", "WARN", "ERROR"}

type diagnosticsLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

// loadDiagnosticsCmd reads the tail of the log file.
func loadDiagnosticsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, DiagnosticsLines)
		return diagnosticsLoadedMsg{entries: entries, err: err}
	}
}

// diagnosticsModal shows recent log records from the log file.
type diagnosticsModal struct {
	path    string
	entries []logtail.Entry
	err     error
	loaded  bool
	level   int

	theme    Theme
	viewport viewport.Model
}

func newDiagnostics(path string, theme Theme, width, height int) (diagnosticsModal, tea.Cmd) {
	m := diagnosticsModal{
		path:     path,
		theme:    theme,
		viewport: viewport.New(0, 0),
	}
	m.resize(width, height)
	return m, loadDiagnosticsCmd(path)
}

func (m *diagnosticsModal) resize(width, height int) {
	w, h := modalSize(width, height, ModalMaxWidth)
	m.viewport.Width = w - 4
	m.viewport.Height = max(h-2-2-3, 3)
	m.refresh()
}

func (m *diagnosticsModal) refresh() {
	m.viewport.SetContent(m.content(m.theme))
}

// filtered returns the entries passing the level filter.
func (m diagnosticsModal) filtered() []logtail.Entry {
	level := levelFilters[m.level]
	if level == "" {
		return m.entries
	}
	out := make([]logtail.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.AtLeast(level) {
			out = append(out, e)
		}
	}
	return out
}

// Update implements Modal.
func (m diagnosticsModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case diagnosticsLoadedMsg:
		m.entries = msg.entries
		m.err = msg.err
		m.loaded = true
		m.refresh()
		m.viewport.GotoBottom()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, false
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Close):
			return m, nil, true
		case key.Matches(msg, keys.CycleLevel):
			m.level = (m.level + 1) % len(levelFilters)
			m.refresh()
			m.viewport.GotoBottom()
		case key.Matches(msg, keys.Retry):
			return m, loadDiagnosticsCmd(m.path), false
		case key.Matches(msg, keys.ScrollDown):
			m.viewport.ScrollDown(1)
		case key.Matches(msg, keys.ScrollUp):
			m.viewport.ScrollUp(1)
		case key.Matches(msg, keys.HalfPageDown):
			m.viewport.HalfPageDown()
		case key.Matches(msg, keys.HalfPageUp):
			m.viewport.HalfPageUp()
		case key.Matches(msg, keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, keys.Bottom):
			m.viewport.GotoBottom()
		}
	}
	return m, nil, false
}

// Box implements Modal.
func (m diagnosticsModal) Box(theme Theme, width, height int) string {
	styles := theme.Styles()
	w, _ := modalSize(width, height, ModalMaxWidth)

	level := levelFilters[m.level]
	if level == "" {
		level = "all"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Diagnostics"))
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("  %s · level %s", truncateMiddle(m.path, w-40), level)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", w-4)))
	b.WriteString("\n")

	vp := m.viewport
	vp.SetContent(m.content(theme))
	b.WriteString(vp.View())
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("esc close · f level · r reload · j/k scroll"))

	return modalFrame(theme, w).Render(b.String())
}

func (m diagnosticsModal) content(theme Theme) string {
	styles := theme.Styles()
	switch {
	case !m.loaded:
		return styles.MutedText.Render("Reading log...")
	case m.err != nil:
		return styles.DangerText.Render("Could not read log: " + m.err.Error())
	}
	entries := m.filtered()
	if len(entries) == 0 {
		return styles.MutedText.Render("No log entries.")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatLogEntry(e, styles, m.viewport.Width))
	}
	return strings.Join(lines, "\n")
}

func formatLogEntry(e logtail.Entry, styles Styles, width int) string {
	if e.Level == "" && e.Time.IsZero() {
		return styles.FaintText.Render(truncate(e.Raw, width))
	}
	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.In(time.Local).Format("15:04:05")
	}

	rest := e.Message
	for _, attr := range e.Attrs {
		rest += " " + attr.Key + "=" + attr.Value
	}
	// Timestamp, level and separators take 15 columns.
	rest = truncate(rest, width-15)
	msg, attrs := rest, ""
	if strings.HasPrefix(rest, e.Message) {
		msg, attrs = e.Message, rest[len(e.Message):]
	}

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(ts))
	b.WriteString(" ")
	b.WriteString(styles.LevelStyle(e.Level).Render(padRight(e.Level, 5)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(msg))
	b.WriteString(styles.MutedText.Render(attrs))
	return b.String()
}
