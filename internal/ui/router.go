package ui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/five82/farefinder/internal/search"
)

// Route identifies a top-level screen.
type Route int

const (
	// RouteLanding is the search form at "/".
	RouteLanding Route = iota
	// RouteResults is the results page at "/search?<query>".
	RouteResults
)

const resultsPath = "/search"

// Location is a route plus its query. The results page is driven entirely
// by the query of its location.
type Location struct {
	Route Route
	Query url.Values
}

// Landing returns the location of the search form.
func Landing() Location {
	return Location{Route: RouteLanding}
}

// Results returns the results location for values.
func Results(values url.Values) Location {
	return Location{Route: RouteResults, Query: values}
}

// String renders the location as "/" or "/search?<query>".
func (l Location) String() string {
	if l.Route != RouteResults {
		return "/"
	}
	if len(l.Query) == 0 {
		return resultsPath
	}
	return resultsPath + "?" + l.Query.Encode()
}

// ParseLocation parses a start location. It accepts "", "/", "/search?..."
// and a bare query string such as "departureAirportKeyword=MEX&...".
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "/" {
		return Landing(), nil
	}

	path, query, hasQuery := strings.Cut(raw, "?")
	switch {
	case path == resultsPath || path == resultsPath+"/":
	case path == "" && hasQuery:
	case !strings.HasPrefix(path, "/") && strings.Contains(path, "="):
		// Bare query without a leading "?".
		query = raw
	default:
		return Location{}, fmt.Errorf("unknown location %q", raw)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", search.ErrInvalidQuery, err)
	}
	if _, err := search.Parse(values); err != nil {
		return Location{}, err
	}
	return Results(values), nil
}

// history is the stack of visited locations. It always holds at least one
// entry once started.
type history struct {
	stack []Location
}

func newHistory(start Location) history {
	return history{stack: []Location{start}}
}

// current returns the location on top of the stack.
func (h *history) current() Location {
	if len(h.stack) == 0 {
		return Landing()
	}
	return h.stack[len(h.stack)-1]
}

// push records a navigation to loc. Navigating to the current location is
// a no-op so repeated submits do not pile up entries.
func (h *history) push(loc Location) {
	if len(h.stack) > 0 && h.current().String() == loc.String() {
		return
	}
	h.stack = append(h.stack, loc)
}

// back pops the current location and reports whether there was anywhere
// to go back to.
func (h *history) back() (Location, bool) {
	if len(h.stack) <= 1 {
		return h.current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.current(), true
}

// depth returns the number of entries.
func (h *history) depth() int {
	return len(h.stack)
}
