package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const helpColumnWidth = 36

var helpSectionTitles = []string{
	"Search form",
	"Results",
	"Sorting",
	"Paging",
	"Details",
	"General",
}

// helpModal lists the key bindings. Any key closes it.
type helpModal struct {
	keys keyMap
}

// Update implements Modal.
func (m helpModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, nil, true
	}
	return m, nil, false
}

// Box implements Modal.
func (m helpModal) Box(theme Theme, width, height int) string {
	styles := theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(14)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	// Two columns of sections.
	groups := m.keys.FullHelp()
	half := (len(groups) + 1) / 2
	columns := make([]string, 0, 2)
	for start := 0; start < len(groups); start += half {
		end := min(start+half, len(groups))
		var col strings.Builder
		for i := start; i < end; i++ {
			if i < len(helpSectionTitles) {
				col.WriteString(styles.AccentText.Bold(true).Render(helpSectionTitles[i]))
				col.WriteString("\n")
			}
			for _, binding := range groups[i] {
				writeBinding(&col, binding, keyStyle, styles)
			}
			if i < end-1 {
				col.WriteString("\n")
			}
		}
		columns = append(columns, lipgloss.NewStyle().Width(helpColumnWidth).Render(col.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))

	w := HelpWidth
	if width-4 < w {
		w = width - 4
	}
	return modalFrame(theme, w).MaxHeight(height).Render(b.String())
}

func writeBinding(b *strings.Builder, binding key.Binding, keyStyle lipgloss.Style, styles Styles) {
	help := binding.Help()
	b.WriteString(keyStyle.Render(help.Key))
	b.WriteString(styles.Text.Render(help.Desc))
	b.WriteString("\n")
}
