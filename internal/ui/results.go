package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/farefinder/internal/flights"
	"github.com/five82/farefinder/internal/search"
	"github.com/five82/farefinder/internal/state"
)

// searchResultMsg carries the outcome of the search issued under token.
type searchResultMsg struct {
	token  state.Token
	result flights.SearchResult
	err    error
}

// searchCmd runs one search page request.
func searchCmd(ctx context.Context, client flights.Service, timeout time.Duration, token state.Token, query flights.SearchQuery) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		result, err := client.SearchFlights(reqCtx, query)
		return searchResultMsg{token: token, result: result, err: err}
	}
}

// resultsState is the results page's view state. The data itself lives in
// the store snapshot.
type resultsState struct {
	selected int
	offsets  []int // first content line of each card
	heights  []int
}

// startSearch issues the search for the current results location.
func (m *Model) startSearch() tea.Cmd {
	loc := m.history.current()
	token := m.store.Begin(loc.String())
	m.snapshot = m.store.Snapshot()

	c, err := m.form.criteriaFor(loc.Query)
	m.criteria = c
	if err != nil {
		return func() tea.Msg { return searchResultMsg{token: token, err: err} }
	}

	m.logger.Debug("search started", "query", loc.String(), "token", uint64(token))
	query := flights.SearchQuery{Criteria: c, Present: loc.Query, Size: m.pageSize}
	return tea.Batch(
		searchCmd(m.ctx, m.client, m.fetchTimeout, token, query),
		m.spinner.Tick,
	)
}

// handleSearchResult applies a search response if it is still current.
func (m *Model) handleSearchResult(msg searchResultMsg) {
	if !m.store.Complete(msg.token, msg.result, msg.err) {
		m.logger.Debug("stale search response dropped", "token", uint64(msg.token))
		return
	}
	if msg.err != nil {
		m.logger.Error("search failed", "query", m.history.current().String(), "error", msg.err)
	} else {
		m.logger.Info("search completed",
			"query", m.history.current().String(),
			"flights", len(msg.result.Flights),
			"total", msg.result.Counter,
		)
	}
	m.snapshot = m.store.Snapshot()
	m.results.selected = 0
	m.updateResultsViewport()
	m.resultsViewport.GotoTop()
}

// handleResultsKey processes keys on the results page.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	query := m.history.current().Query
	count := len(m.snapshot.Flights)
	loaded := m.snapshot.Phase == state.PhaseLoaded

	switch {
	case key.Matches(msg, m.keys.PriceAsc):
		return m, m.navigate(Results(search.WithSort(query, search.SortPrice, search.OrderAsc)))
	case key.Matches(msg, m.keys.PriceDesc):
		return m, m.navigate(Results(search.WithSort(query, search.SortPrice, search.OrderDesc)))
	case key.Matches(msg, m.keys.TimeAsc):
		return m, m.navigate(Results(search.WithSort(query, search.SortDuration, search.OrderAsc)))
	case key.Matches(msg, m.keys.TimeDesc):
		return m, m.navigate(Results(search.WithSort(query, search.SortDuration, search.OrderDesc)))

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.gotoPage(m.criteria.Page - 1)
	case key.Matches(msg, m.keys.NextPage):
		return m, m.gotoPage(m.criteria.Page + 1)

	case key.Matches(msg, m.keys.EditSearch):
		m.form.seed(m.criteria)
		return m, m.navigate(Landing())
	case key.Matches(msg, m.keys.Retry):
		return m, m.startSearch()
	case key.Matches(msg, m.keys.Back):
		return m, m.back()

	case key.Matches(msg, m.keys.Open):
		if loaded && m.results.selected < count {
			return m, m.openDetail(m.snapshot.Flights[m.results.selected].ID)
		}
	case key.Matches(msg, m.keys.Down):
		m.selectCard(m.results.selected + 1)
	case key.Matches(msg, m.keys.Up):
		m.selectCard(m.results.selected - 1)
	case key.Matches(msg, m.keys.Top):
		m.selectCard(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectCard(count - 1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.resultsViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.resultsViewport.HalfPageUp()
	}
	return m, nil
}

// gotoPage navigates to page when it exists. Paging only works on a loaded
// page of results; out-of-range pages are ignored.
func (m *Model) gotoPage(page int) tea.Cmd {
	if m.snapshot.Phase != state.PhaseLoaded {
		return nil
	}
	if !search.PageInRange(page, m.snapshot.Total, m.pageSize) {
		return nil
	}
	return m.navigate(Results(search.WithPage(m.history.current().Query, page)))
}

// selectCard moves the selection and scrolls it into view.
func (m *Model) selectCard(i int) {
	count := len(m.snapshot.Flights)
	if count == 0 {
		return
	}
	i = max(0, min(i, count-1))
	m.results.selected = i
	m.updateResultsViewport()
	m.ensureSelectedVisible()
}

func (m *Model) ensureSelectedVisible() {
	i := m.results.selected
	if i >= len(m.results.offsets) {
		return
	}
	top := m.results.offsets[i]
	bottom := top + m.results.heights[i]
	vp := &m.resultsViewport
	switch {
	case top < vp.YOffset:
		vp.SetYOffset(top)
	case bottom > vp.YOffset+vp.Height:
		vp.SetYOffset(bottom - vp.Height)
	}
}

// cardAt maps a screen row to the card under it.
func (m Model) cardAt(y int) (int, bool) {
	line := y - resultsHeaderLines + m.resultsViewport.YOffset
	if y < resultsHeaderLines || y >= resultsHeaderLines+m.resultsViewport.Height {
		return 0, false
	}
	for i, top := range m.results.offsets {
		if line >= top && line < top+m.results.heights[i] {
			return i, true
		}
	}
	return 0, false
}

// handleResultsMouse scrolls the card list and opens a clicked card.
func (m Model) handleResultsMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if m.snapshot.Phase != state.PhaseLoaded {
			return m, nil
		}
		if i, ok := m.cardAt(msg.Y); ok {
			m.selectCard(i)
			return m, m.openDetail(m.snapshot.Flights[i].ID)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.resultsViewport, cmd = m.resultsViewport.Update(msg)
	return m, cmd
}

// cardWidth is the outer width of a result card.
func (m Model) cardWidth() int {
	return max(min(m.width-2, CardMaxWidth), 24)
}

// updateResultsViewport re-renders the cards and records their positions.
func (m *Model) updateResultsViewport() {
	m.resultsViewport.Width = m.width
	m.resultsViewport.Height = max(m.height-resultsHeaderLines-resultsFooterLines, 1)

	styles := m.theme.Styles()
	width := m.cardWidth()
	m.results.offsets = make([]int, 0, len(m.snapshot.Flights))
	m.results.heights = make([]int, 0, len(m.snapshot.Flights))

	var b strings.Builder
	line := 0
	for i, f := range m.snapshot.Flights {
		card := renderFlightCard(f, styles, width, i == m.results.selected)
		h := lipgloss.Height(card)
		m.results.offsets = append(m.results.offsets, line)
		m.results.heights = append(m.results.heights, h)
		b.WriteString(lipgloss.NewStyle().PaddingLeft(1).Render(card))
		b.WriteString("\n")
		line += h
	}
	m.resultsViewport.SetContent(strings.TrimSuffix(b.String(), "\n"))
}

// renderResultsBody renders the area between the header and the pager.
func (m Model) renderResultsBody() string {
	styles := m.theme.Styles()
	height := m.resultsViewport.Height
	center := func(s string) string {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, s)
	}

	switch m.snapshot.Phase {
	case state.PhaseLoading:
		return center(m.spinner.View() + " " + styles.MutedText.Render("Loading flights..."))
	case state.PhaseError:
		msg := "Search failed"
		if m.snapshot.LastError != nil {
			msg += ": " + m.snapshot.LastError.Error()
		}
		body := lipgloss.JoinVertical(lipgloss.Center,
			styles.DangerText.Width(min(m.width-4, CardMaxWidth)).Align(lipgloss.Center).Render(msg),
			"",
			styles.FaintText.Render("Press r to retry or / to edit the search"),
		)
		return center(body)
	case state.PhaseEmpty:
		return center(styles.MutedText.Render("No flight information found. Try another search."))
	case state.PhaseLoaded:
		return m.resultsViewport.View()
	}
	return center("")
}

// renderResults renders the full results page.
func (m Model) renderResults() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSortBar(),
		m.renderResultsBody(),
		m.renderPager(),
		m.renderCommandBar(),
	)
}
