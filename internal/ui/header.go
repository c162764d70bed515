package ui

import (
	"fmt"
	"strings"

	"github.com/five82/farefinder/internal/search"
	"github.com/five82/farefinder/internal/state"
)

// renderHeader renders the top bar: logo, the active search and its status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	left := []string{bg.Render("✈ farefinder", styles.Logo)}
	var right []string

	if m.history.current().Route == RouteResults {
		left = append(left, bg.Render(describeCriteria(m.criteria), styles.Text))

		switch m.snapshot.Phase {
		case state.PhaseLoading:
			right = append(right, bg.Render("SEARCHING", styles.InfoText.Bold(true)))
		case state.PhaseError:
			right = append(right, bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)))
		case state.PhaseEmpty, state.PhaseLoaded:
			right = append(right, bg.Render(plural(m.snapshot.Total, "flight", "flights"), styles.SuccessText))
			if !m.snapshot.LastUpdated.IsZero() {
				right = append(right, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
			}
		}
	} else {
		left = append(left, bg.Render("New search", styles.MutedText))
	}

	content := bg.Bar(bg.Join(left, "  "), strings.Join(right, sep), m.width-2)
	return styles.Header.Width(m.width).Render(content)
}

// describeCriteria renders "MEX → CAN · 2025-02-06 → 2025-02-10 · 1 adult · MXN · nonstop".
func describeCriteria(c search.Criteria) string {
	parts := []string{c.Route()}
	dates := c.DepartureDate
	if c.ReturnDate != "" {
		dates += " → " + c.ReturnDate
	}
	parts = append(parts, dates, plural(c.Adults, "adult", "adults"), string(c.Currency))
	if c.NonStop {
		parts = append(parts, "nonstop")
	}
	return strings.Join(parts, " · ")
}

// classifyConnectionError shortens a search failure for the header.
func classifyConnectionError(err error) string {
	if err == nil {
		return "ERROR"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "API ERROR"
	default:
		return "ERROR"
	}
}

// renderSortBar shows the sort options with the active one highlighted.
func (m Model) renderSortBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	type option struct {
		key   string
		label string
		field search.SortField
		order search.SortOrder
	}
	options := []option{
		{"1", "Price ↑", search.SortPrice, search.OrderAsc},
		{"2", "Price ↓", search.SortPrice, search.OrderDesc},
		{"3", "Duration ↑", search.SortDuration, search.OrderAsc},
		{"4", "Duration ↓", search.SortDuration, search.OrderDesc},
	}

	colon := bg.Render(":", styles.FaintText)
	segments := []string{bg.Render("Sort", styles.MutedText)}
	for _, o := range options {
		labelStyle := styles.MutedText
		if m.criteria.SortBy == o.field && m.criteria.Order == o.order {
			labelStyle = styles.AccentText.Bold(true).Underline(true)
		}
		segments = append(segments, bg.Render(o.key, styles.AccentText)+colon+bg.Render(o.label, labelStyle))
	}
	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderPager renders "Page X of N  ← Previous  Next →".
func (m Model) renderPager() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	pages := search.PageCount(m.snapshot.Total, m.pageSize)
	page := m.criteria.Page
	label := "Page 0 of 0"
	if pages > 0 {
		label = fmt.Sprintf("Page %d of %d", page+1, pages)
	}

	prevStyle, nextStyle := styles.FaintText, styles.FaintText
	if search.PageInRange(page-1, m.snapshot.Total, m.pageSize) {
		prevStyle = styles.AccentText
	}
	if search.PageInRange(page+1, m.snapshot.Total, m.pageSize) {
		nextStyle = styles.AccentText
	}

	parts := []string{
		bg.Render(label, styles.Text),
		bg.Render("← Previous", prevStyle),
		bg.Render("Next →", nextStyle),
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current route.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	if m.history.current().Route == RouteResults {
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Details"},
			{"1-4", "Sort"},
			{"h/l", "Page"},
			{"/", "Edit"},
			{"r", "Retry"},
			{"b", "Back"},
			{"?", "More"},
		}
	} else {
		commands = []cmd{
			{"tab", "Next"},
			{"space", "Toggle"},
			{"enter", "Search"},
			{"ctrl+r", "Recent"},
			{"esc", "Back"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}
