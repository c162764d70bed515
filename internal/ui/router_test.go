package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/five82/farefinder/internal/search"
)

func TestParseLocation(t *testing.T) {
	query := search.Encode(mexCan()).Encode()

	cases := []struct {
		name  string
		raw   string
		route Route
	}{
		{"empty", "", RouteLanding},
		{"root", "/", RouteLanding},
		{"search path", "/search?" + query, RouteResults},
		{"question mark", "?" + query, RouteResults},
		{"bare query", query, RouteResults},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := ParseLocation(tc.raw)
			if err != nil {
				t.Fatalf("ParseLocation(%q): %v", tc.raw, err)
			}
			if loc.Route != tc.route {
				t.Fatalf("route = %v, want %v", loc.Route, tc.route)
			}
			if tc.route == RouteResults && loc.Query.Get("departureAirportKeyword") != "MEX" {
				t.Fatalf("query = %v", loc.Query)
			}
		})
	}
}

func TestParseLocationErrors(t *testing.T) {
	if _, err := ParseLocation("/flights/1"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
	_, err := ParseLocation("/search?numAdults=many")
	if !errors.Is(err, search.ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}

func TestLocationString(t *testing.T) {
	if got := Landing().String(); got != "/" {
		t.Fatalf("Landing().String() = %q", got)
	}
	loc := Results(search.Encode(mexCan()))
	s := loc.String()
	if !strings.HasPrefix(s, "/search?") {
		t.Fatalf("String() = %q", s)
	}
	back, err := ParseLocation(s)
	if err != nil {
		t.Fatalf("ParseLocation(%q): %v", s, err)
	}
	if back.String() != s {
		t.Fatalf("round trip = %q, want %q", back.String(), s)
	}
}

func TestHistory(t *testing.T) {
	h := newHistory(Landing())
	if _, ok := h.back(); ok {
		t.Fatalf("back from the only entry should fail")
	}

	first := Results(search.Encode(mexCan()))
	h.push(first)
	h.push(first)
	if h.depth() != 2 {
		t.Fatalf("depth = %d, want 2 (duplicate push ignored)", h.depth())
	}

	second := Results(search.WithPage(first.Query, 1))
	h.push(second)
	if h.current().String() != second.String() {
		t.Fatalf("current = %s", h.current())
	}

	loc, ok := h.back()
	if !ok || loc.String() != first.String() {
		t.Fatalf("back = %s, %v; want %s", loc, ok, first)
	}
}
