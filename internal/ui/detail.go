package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/farefinder/internal/flights"
)

// detailLoadedMsg carries the outcome of a detail fetch. seq ties it to the
// modal open that requested it.
type detailLoadedMsg struct {
	seq    uint64
	id     string
	detail *flights.FlightDetail
	err    error
}

// fetchDetailCmd fetches one flight's details.
func fetchDetailCmd(ctx context.Context, client flights.Service, timeout time.Duration, logger *slog.Logger, seq uint64, id string) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		detail, err := client.FetchFlightDetail(reqCtx, id)
		if err != nil && logger != nil {
			logger.Error("flight detail failed", "flight_id", id, "error", err)
		}
		return detailLoadedMsg{seq: seq, id: id, detail: detail, err: err}
	}
}

// detailModal shows the itemized record for one flight. Each open gets a
// new seq; responses for any other seq are dropped.
type detailModal struct {
	seq      uint64
	flightID string
	loading  bool
	detail   *flights.FlightDetail

	theme    Theme
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

// newDetailModal returns a loading modal for id and the command that fetches it.
func newDetailModal(seq uint64, id string, theme Theme, width, height int, fetch tea.Cmd) (detailModal, tea.Cmd) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := detailModal{
		seq:      seq,
		flightID: id,
		loading:  true,
		theme:    theme,
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
	m.resize(width, height)
	return m, tea.Batch(fetch, m.spinner.Tick)
}

// resize fits the viewport to a width x height screen.
func (m *detailModal) resize(width, height int) {
	w, h := modalSize(width, height, ModalMaxWidth)
	m.width, m.height = w, h
	m.viewport.Width = w - 4
	// Border, padding, title and footer.
	m.viewport.Height = max(h-2-2-3, 3)
	m.viewport.SetContent(m.content(m.theme))
}

// Update implements Modal.
func (m detailModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.seq != m.seq {
			return m, nil, false
		}
		m.loading = false
		if msg.err == nil {
			m.detail = msg.detail
		}
		m.viewport.SetContent(m.content(m.theme))
		m.viewport.GotoTop()
		return m, nil, false

	case spinner.TickMsg:
		if !m.loading {
			return m, nil, false
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd, false

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil, false

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Close):
			return m, nil, true
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
func (m detailModal) Box(theme Theme, width, height int) string {
	styles := theme.Styles()
	w, _ := modalSize(width, height, ModalMaxWidth)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Flight Details"))
	b.WriteString(styles.MutedText.Render("  ID: " + m.flightID))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", w-4)))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading details..."))
	} else {
		vp := m.viewport
		vp.SetContent(m.content(theme))
		b.WriteString(vp.View())
	}

	b.WriteString("\n")
	footer := "esc close · j/k scroll"
	if !m.loading && m.viewport.TotalLineCount() > m.viewport.Height {
		footer += fmt.Sprintf(" · %3.0f%%", m.viewport.ScrollPercent()*100)
	}
	b.WriteString(styles.FaintText.Render(footer))

	return modalFrame(theme, w).Render(b.String())
}

// content renders the scrollable body. It is empty until a detail arrives.
func (m detailModal) content(theme Theme) string {
	if m.detail == nil {
		return ""
	}
	return renderDetail(*m.detail, theme.Styles(), m.viewport.Width)
}

// renderDetail lays out itineraries, segments and the price breakdown.
func renderDetail(d flights.FlightDetail, styles Styles, width int) string {
	var b strings.Builder
	currency := d.PriceBreakdown.Currency

	for i, it := range d.Itineraries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.AccentText.Bold(true).Render(itineraryTitle(i, len(d.Itineraries))))
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(airportLabel(it.DepartureAirportName, it.DepartureAirportCode) + " → " + airportLabel(it.ArrivalAirportName, it.ArrivalAirportCode)))
		b.WriteString("\n")
		summary := formatDateTime(it.InitialDeparture) + " → " + formatDateTime(it.FinalArrival)
		if it.TotalFlightTime != "" {
			summary += " · " + it.TotalFlightTime
		}
		b.WriteString(styles.MutedText.Render(summary))
		b.WriteString("\n")

		for j, seg := range it.Segments {
			b.WriteString("\n")
			writeSegment(&b, j, seg, styles, width)
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Price Breakdown"))
	b.WriteString("\n")
	pb := d.PriceBreakdown
	b.WriteString(detailLine(styles, "Base Price", formatMoney(pb.BasePrice, currency)))
	if len(pb.Fees) == 0 {
		b.WriteString(detailLine(styles, "Fees", "none"))
	} else {
		b.WriteString(detailLine(styles, "Fees", ""))
		for _, fee := range pb.Fees {
			b.WriteString(styles.MutedText.Render("    "+titleCase(fee.Type)+": ") + styles.Text.Render(formatMoney(fee.Amount, currency)))
			b.WriteString("\n")
		}
	}
	b.WriteString(styles.Text.Bold(true).Render("  Total: ") + styles.Price.Render(formatMoney(pb.TotalPrice, currency)))
	b.WriteString("\n")

	if len(pb.PricePerTraveler) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Per Traveler"))
		b.WriteString("\n")
		for _, tp := range pb.PricePerTraveler {
			b.WriteString(styles.Text.Render(fmt.Sprintf("  %s #%s: %s", titleCase(tp.TravelerType), tp.TravelerID, formatMoney(tp.Price, currency))))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func itineraryTitle(i, total int) string {
	if total == 2 {
		return ternary(i == 0, "Outbound", "Return")
	}
	return fmt.Sprintf("Itinerary %d", i+1)
}

func writeSegment(b *strings.Builder, i int, seg flights.Segment, styles Styles, width int) {
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("Segment %d", i+1)))
	b.WriteString("\n")

	route := formatClock(seg.DepartureTime) + " " + seg.DepartureAirportCode + " → " + formatClock(seg.ArrivalTime) + " " + seg.ArrivalAirportCode
	b.WriteString(styles.Text.Render("  " + strings.TrimSpace(route)))
	b.WriteString("\n")

	carrier := airportLabel(seg.AirlineName, seg.AirlineCode)
	if seg.FlightNumber != "" {
		carrier += " " + string(seg.FlightNumber)
	}
	if seg.AircraftType != "" {
		carrier += " · " + seg.AircraftType
	}
	b.WriteString(styles.MutedText.Render("  " + truncate(carrier, width-2)))
	b.WriteString("\n")

	if op := strings.TrimSpace(seg.OperatingAirlineCode); op != "" && !strings.EqualFold(op, strings.TrimSpace(seg.AirlineCode)) {
		b.WriteString(styles.FaintText.Render("  Operated by " + airportLabel(seg.OperatingAirlineName, seg.OperatingAirlineCode)))
		b.WriteString("\n")
	}

	for _, fare := range seg.TravelerFares {
		line := "  Fare: " + titleCase(fare.Cabin)
		if fare.Class != "" {
			line += " (" + fare.Class + ")"
		}
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
		for _, amenity := range fare.Amenities {
			if amenity.Chargeable {
				b.WriteString(styles.WarningText.Render("    $ " + titleCase(amenity.Name) + " (chargeable)"))
			} else {
				b.WriteString(styles.SuccessText.UnsetBold().Render("    ✓ " + titleCase(amenity.Name) + " (included)"))
			}
			b.WriteString("\n")
		}
	}

	if seg.LayoverTime != "" {
		b.WriteString(styles.WarningText.Render("  Layover: " + seg.LayoverTime))
		b.WriteString("\n")
	}
}

func detailLine(styles Styles, label, value string) string {
	return styles.MutedText.Render("  "+label+": ") + styles.Text.Render(value) + "\n"
}
