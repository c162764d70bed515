package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/farefinder/internal/flights"
)

// cardText is the plain text of a result card before styling.
type cardText struct {
	Times       string
	Route       string
	Duration    string
	StopCount   int
	Stops       []string
	Airline     string
	OperatedBy  string
	Total       string
	PerTraveler string
	RoundTrip   bool
}

// describeCard derives a card's text from the first itinerary of f.
func describeCard(f flights.FlightSummary) cardText {
	it := f.Outbound()
	text := cardText{
		Times:       formatClock(it.InitialDeparture) + " - " + formatClock(it.FinalArrival),
		Route:       airportLabel(it.DepartureAirportName, it.DepartureAirportCode) + " → " + airportLabel(it.ArrivalAirportName, it.ArrivalAirportCode),
		StopCount:   len(it.Stops),
		Duration:    strings.TrimSpace(it.TotalFlightTime + " " + stopsLabel(len(it.Stops))),
		Airline:     airportLabel(it.AirlineName, it.AirlineCode),
		Total:       formatMoney(f.TotalPrice, f.Currency) + " total",
		PerTraveler: formatMoney(f.PricePerTraveler, f.Currency) + " per traveler",
		RoundTrip:   f.RoundTrip(),
	}
	for _, stop := range it.Stops {
		text.Stops = append(text.Stops, fmt.Sprintf("%s at %s", stop.LayoverTime, stop.AirportCode))
	}
	if it.HasOperatingCarrier() {
		text.OperatedBy = "Operated by " + airportLabel(it.OperatingAirlineName, it.OperatingAirlineCode)
	}
	return text
}

// stopsLabel renders "(Nonstop)", "(1 stop)" or "(N stops)".
func stopsLabel(n int) string {
	switch {
	case n <= 0:
		return "(Nonstop)"
	case n == 1:
		return "(1 stop)"
	default:
		return fmt.Sprintf("(%d stops)", n)
	}
}

// airportLabel renders "Name (CODE)", or whichever part is present.
func airportLabel(name, code string) string {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	switch {
	case name != "" && code != "":
		return name + " (" + code + ")"
	case code != "":
		return code
	case name != "":
		return name
	default:
		return "?"
	}
}

// formatClock renders an API timestamp as a 12-hour clock time. Values that
// cannot be parsed are returned unchanged.
func formatClock(ts string) string {
	parsed, ok := flights.ParseTimestamp(ts)
	if !ok {
		if strings.TrimSpace(ts) == "" {
			return "?"
		}
		return ts
	}
	return parsed.Format("3:04 PM")
}

// formatDateTime renders an API timestamp as "Mon 2 Jan 3:04 PM".
func formatDateTime(ts string) string {
	parsed, ok := flights.ParseTimestamp(ts)
	if !ok {
		return ts
	}
	return parsed.Format("Mon 2 Jan 3:04 PM")
}

// renderFlightCard draws one result card at the given outer width.
func renderFlightCard(f flights.FlightSummary, styles Styles, width int, selected bool) string {
	text := describeCard(f)

	box := styles.Card
	if selected {
		box = styles.CardSelected
	}
	inner := width - box.GetHorizontalFrameSize()
	if inner < 20 {
		inner = 20
	}
	priceWidth := 30
	if inner < 70 {
		priceWidth = 0
	}
	leftWidth := inner - priceWidth

	left := []string{
		styles.Text.Bold(true).Render(truncate(text.Times, leftWidth)),
		styles.Text.Render(truncate(text.Route, leftWidth)),
		styles.MutedText.Render(text.Duration) + " " + styles.StopStyle(text.StopCount).Render(ternary(text.StopCount == 0, "●", "◆")),
	}
	for _, stop := range text.Stops {
		left = append(left, styles.FaintText.Render("  "+truncate(stop, leftWidth-2)))
	}
	left = append(left, styles.AccentText.Render(truncate(text.Airline, leftWidth)))
	if text.OperatedBy != "" {
		left = append(left, styles.FaintText.Render(truncate(text.OperatedBy, leftWidth)))
	}
	if text.RoundTrip {
		left = append(left, styles.InfoText.Render("Round trip"))
	}

	right := []string{
		styles.Price.Render(text.Total),
		styles.MutedText.Render(text.PerTraveler),
	}

	var body string
	if priceWidth == 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, append(left, right...)...)
	} else {
		leftCol := lipgloss.NewStyle().Width(leftWidth).Render(lipgloss.JoinVertical(lipgloss.Left, left...))
		rightCol := lipgloss.NewStyle().Width(priceWidth).Align(lipgloss.Right).Render(lipgloss.JoinVertical(lipgloss.Right, right...))
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)
	}
	return box.Width(inner + box.GetHorizontalPadding()).Render(body)
}
