package ui

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/farefinder/internal/flights"
	"github.com/five82/farefinder/internal/prefs"
	"github.com/five82/farefinder/internal/search"
	"github.com/five82/farefinder/internal/state"
)

type fakeService struct {
	mu       sync.Mutex
	searches []flights.SearchQuery
	details  []string

	searchFn func(flights.SearchQuery) (flights.SearchResult, error)
	detailFn func(string) (*flights.FlightDetail, error)
}

func (f *fakeService) SearchFlights(_ context.Context, q flights.SearchQuery) (flights.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q)
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return flights.SearchResult{}, nil
	}
	return fn(q)
}

func (f *fakeService) FetchFlightDetail(_ context.Context, id string) (*flights.FlightDetail, error) {
	f.mu.Lock()
	f.details = append(f.details, id)
	fn := f.detailFn
	f.mu.Unlock()
	if fn == nil {
		return &flights.FlightDetail{ID: id}, nil
	}
	return fn(id)
}

func (f *fakeService) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeService) lastSearch() flights.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches[len(f.searches)-1]
}

func (f *fakeService) detailRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.details...)
}

// drain runs cmd and any batched commands, returning every message.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out []tea.Msg
	)
	for _, c := range batch {
		wg.Add(1)
		go func(c tea.Cmd) {
			defer wg.Done()
			msgs := drain(c)
			mu.Lock()
			out = append(out, msgs...)
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return out
}

// settle runs cmd and feeds the fetch results back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range drain(cmd) {
		switch msg.(type) {
		case searchResultMsg, detailLoadedMsg, diagnosticsLoadedMsg:
			next, _ := m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return settle(t, next.(Model), cmd)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var fixedNow = func() time.Time {
	return time.Date(2025, 2, 1, 9, 0, 0, 0, time.Local)
}

func mexCan() search.Criteria {
	return search.Criteria{
		DepartureKeyword: "MEX",
		DepartureIsCode:  true,
		ArrivalKeyword:   "CAN",
		ArrivalIsCode:    true,
		DepartureDate:    "2025-02-06",
		Adults:           1,
		Currency:         search.CurrencyMXN,
	}
}

func sampleFlights(ids ...string) []flights.FlightSummary {
	out := make([]flights.FlightSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, flights.FlightSummary{
			ID: id,
			Itineraries: []flights.Itinerary{{
				InitialDeparture:     "2025-02-06T06:00:00",
				FinalArrival:         "2025-02-06T09:10:00",
				DepartureAirportCode: "MEX",
				ArrivalAirportCode:   "CAN",
				AirlineCode:          "AM",
				AirlineName:          "Aeromexico",
				TotalFlightTime:      "3h 10m",
			}},
			TotalPrice:       "2995.20",
			Currency:         "MXN",
			PricePerTraveler: "2995.20",
		})
	}
	return out
}

func newTestModel(t *testing.T, svc *fakeService, start Location) Model {
	t.Helper()
	m := New(Options{
		Client:    svc,
		Store:     &state.Store{},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Start:     start,
		Now:       fixedNow,
	})
	m = settle(t, m, m.initCmd)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func resultsAt(c search.Criteria) Location {
	return Results(search.Encode(c))
}

func TestSubmitSearchesCanonicalQuery(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Landing())

	m.form.seed(mexCan())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.history.current().Route; got != RouteResults {
		t.Fatalf("route = %v, want results", got)
	}
	if svc.searchCount() != 1 {
		t.Fatalf("searches = %d, want 1", svc.searchCount())
	}

	values := svc.lastSearch().Values()
	want := map[string]string{
		"departureAirportKeyword": "MEX",
		"isDepartureCode":         "true",
		"arrivalAirportKeyword":   "CAN",
		"isArrivalCode":           "true",
		"departureDate":           "2025-02-06",
		"numAdults":               "1",
		"currency":                "MXN",
		"nonStop":                 "false",
		"size":                    "10",
		"sortBy":                  "",
		"order":                   "",
		"page":                    "0",
	}
	for k, v := range want {
		if _, ok := values[k]; !ok {
			t.Fatalf("query missing %q: %s", k, values.Encode())
		}
		if got := values.Get(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestSubmitRemembersSearch(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Landing())

	m.form.seed(mexCan())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.prefs.RecentSearches) != 1 {
		t.Fatalf("recent searches = %v, want 1 entry", m.prefs.RecentSearches)
	}
	if _, err := os.Stat(m.prefsPath); err != nil {
		t.Fatalf("prefs not saved: %v", err)
	}
	loaded, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.RecentSearches) != 1 || !strings.Contains(loaded.RecentSearches[0], "departureAirportKeyword=MEX") {
		t.Fatalf("saved recents = %v", loaded.RecentSearches)
	}
}

func TestInvalidFormDoesNotSearch(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Landing())

	c := mexCan()
	c.ArrivalKeyword = "MEX"
	m.form.seed(c)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if svc.searchCount() != 0 {
		t.Fatalf("searches = %d, want 0", svc.searchCount())
	}
	if m.history.current().Route != RouteLanding {
		t.Fatalf("route changed on invalid submit")
	}
	if got := m.form.form.Errors()[search.FieldDepartureKeyword]; got != search.MsgSameAirport {
		t.Fatalf("departure error = %q, want %q", got, search.MsgSameAirport)
	}
}

func TestSortResetsPage(t *testing.T) {
	svc := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		return flights.SearchResult{Counter: 50, Flights: sampleFlights("1", "2")}, nil
	}}
	c := mexCan()
	c.Page = 2
	m := newTestModel(t, svc, resultsAt(c))

	m = send(t, m, keyRunes("1"))

	got := svc.lastSearch().Criteria
	if got.SortBy != search.SortPrice || got.Order != search.OrderAsc || got.Page != 0 {
		t.Fatalf("sort query = %+v, want price ASC page 0", got)
	}

	m = send(t, m, keyRunes("4"))
	got = svc.lastSearch().Criteria
	if got.SortBy != search.SortDuration || got.Order != search.OrderDesc || got.Page != 0 {
		t.Fatalf("sort query = %+v, want duration DES page 0", got)
	}
	if !strings.Contains(m.history.current().String(), "sortBy=duration") {
		t.Fatalf("location = %s", m.history.current())
	}
}

func TestPagingStaysInRange(t *testing.T) {
	svc := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		return flights.SearchResult{Counter: 25, Flights: sampleFlights("1")}, nil
	}}
	m := newTestModel(t, svc, resultsAt(mexCan()))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if svc.searchCount() != 1 {
		t.Fatalf("previous page from 0 searched again")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if svc.searchCount() != 3 || svc.lastSearch().Criteria.Page != 2 {
		t.Fatalf("searches = %d, last page = %d, want 3 and 2", svc.searchCount(), svc.lastSearch().Criteria.Page)
	}

	// 25 results at 10 per page: page 2 is the last.
	send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if svc.searchCount() != 3 {
		t.Fatalf("out-of-range page requested")
	}
}

func TestErrorAndEmptyRenderDifferently(t *testing.T) {
	failing := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		return flights.SearchResult{}, errors.New("connection refused")
	}}
	m := newTestModel(t, failing, resultsAt(mexCan()))
	if m.snapshot.Phase != state.PhaseError {
		t.Fatalf("phase = %v, want error", m.snapshot.Phase)
	}
	view := m.View()
	if !strings.Contains(view, "Search failed") || strings.Contains(view, "No flight information found") {
		t.Fatalf("error view = %q", view)
	}

	empty := &fakeService{}
	m = newTestModel(t, empty, resultsAt(mexCan()))
	if m.snapshot.Phase != state.PhaseEmpty {
		t.Fatalf("phase = %v, want empty", m.snapshot.Phase)
	}
	view = m.View()
	if !strings.Contains(view, "No flight information found. Try another search.") || strings.Contains(view, "Search failed") {
		t.Fatalf("empty view = %q", view)
	}
}

func TestStaleSearchResponseIsDropped(t *testing.T) {
	svc := &fakeService{}
	m := New(Options{Client: svc, Start: Landing(), Now: fixedNow})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	m.navigate(resultsAt(mexCan()))
	firstToken := m.store.Current()
	c := mexCan()
	c.ArrivalKeyword = "GDL"
	m.navigate(resultsAt(c))
	secondToken := m.store.Current()

	next, _ = m.Update(searchResultMsg{token: secondToken, result: flights.SearchResult{Counter: 1, Flights: sampleFlights("new")}})
	m = next.(Model)
	next, _ = m.Update(searchResultMsg{token: firstToken, result: flights.SearchResult{Counter: 1, Flights: sampleFlights("old")}})
	m = next.(Model)

	if len(m.snapshot.Flights) != 1 || m.snapshot.Flights[0].ID != "new" {
		t.Fatalf("flights = %+v, want the newer response", m.snapshot.Flights)
	}
}

func TestDetailFetchedOncePerOpen(t *testing.T) {
	svc := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		return flights.SearchResult{Counter: 2, Flights: sampleFlights("A", "B")}, nil
	}}
	m := newTestModel(t, svc, resultsAt(mexCan()))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := svc.detailRequests(); len(got) != 1 || got[0] != "A" {
		t.Fatalf("detail requests = %v, want [A]", got)
	}
	if _, ok := m.modal.(detailModal); !ok {
		t.Fatalf("modal = %T, want detailModal", m.modal)
	}
	if !strings.Contains(m.View(), "Flight Details") {
		t.Fatalf("modal not rendered")
	}

	// Redraws and scrolling do not refetch.
	m = send(t, m, tea.WindowSizeMsg{Width: 110, Height: 35})
	m = send(t, m, keyRunes("j"))
	if got := svc.detailRequests(); len(got) != 1 {
		t.Fatalf("detail requests = %v, want one", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != nil {
		t.Fatalf("modal still open after esc")
	}

	m = send(t, m, keyRunes("j"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := svc.detailRequests(); len(got) != 2 || got[1] != "B" {
		t.Fatalf("detail requests = %v, want [A B]", got)
	}
}

func TestDetailIgnoresStaleSequence(t *testing.T) {
	svc := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		return flights.SearchResult{Counter: 2, Flights: sampleFlights("A", "B")}, nil
	}}
	m := newTestModel(t, svc, resultsAt(mexCan()))

	m.openDetail("A")
	m.closeModal()
	m.openDetail("B")

	next, _ := m.Update(detailLoadedMsg{seq: 1, id: "A", detail: &flights.FlightDetail{ID: "A"}})
	m = next.(Model)
	dm := m.modal.(detailModal)
	if !dm.loading || dm.flightID != "B" {
		t.Fatalf("stale response applied: loading=%v id=%q", dm.loading, dm.flightID)
	}

	next, _ = m.Update(detailLoadedMsg{seq: 2, id: "B", detail: &flights.FlightDetail{ID: "B"}})
	m = next.(Model)
	dm = m.modal.(detailModal)
	if dm.loading || dm.detail == nil || dm.detail.ID != "B" {
		t.Fatalf("current response not applied")
	}
}

func TestDetailErrorShowsNothing(t *testing.T) {
	svc := &fakeService{
		searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
			return flights.SearchResult{Counter: 1, Flights: sampleFlights("A")}, nil
		},
		detailFn: func(string) (*flights.FlightDetail, error) {
			return nil, &flights.StatusError{Path: "/flights/A", StatusCode: 500}
		},
	}
	m := newTestModel(t, svc, resultsAt(mexCan()))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	dm := m.modal.(detailModal)
	if dm.loading || dm.detail != nil {
		t.Fatalf("loading=%v detail=%v, want finished with no detail", dm.loading, dm.detail)
	}
	view := m.View()
	if strings.Contains(view, "Price Breakdown") || strings.Contains(view, "Loading details") {
		t.Fatalf("unexpected detail content in %q", view)
	}
}

func TestModalClosesOnOutsideClick(t *testing.T) {
	m := newTestModel(t, &fakeService{}, resultsAt(mexCan()))
	m = send(t, m, keyRunes("?"))
	if _, ok := m.modal.(helpModal); !ok {
		t.Fatalf("modal = %T, want helpModal", m.modal)
	}

	box := m.modal.Box(m.theme, m.width, m.height)
	r := modalBounds(box, m.width, m.height)

	inside := tea.MouseMsg{X: r.left + 1, Y: r.top + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = send(t, m, inside)
	if m.modal == nil {
		t.Fatalf("inside click closed the modal")
	}

	outside := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = send(t, m, outside)
	if m.modal != nil {
		t.Fatalf("outside click left the modal open")
	}
}

func TestBackRestoresPreviousQuery(t *testing.T) {
	svc := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		return flights.SearchResult{Counter: 30, Flights: sampleFlights("1")}, nil
	}}
	m := newTestModel(t, svc, resultsAt(mexCan()))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.criteria.Page != 1 {
		t.Fatalf("page = %d, want 1", m.criteria.Page)
	}

	m = send(t, m, keyRunes("b"))
	if m.criteria.Page != 0 {
		t.Fatalf("page after back = %d, want 0", m.criteria.Page)
	}
	if svc.searchCount() != 3 {
		t.Fatalf("searches = %d, want 3", svc.searchCount())
	}
}

func TestEditSearchSeedsForm(t *testing.T) {
	m := newTestModel(t, &fakeService{}, resultsAt(mexCan()))

	m = send(t, m, keyRunes("/"))
	if m.history.current().Route != RouteLanding {
		t.Fatalf("route = %v, want landing", m.history.current().Route)
	}
	got := m.form.form.Criteria()
	if got.DepartureKeyword != "MEX" || got.ArrivalKeyword != "CAN" || got.DepartureDate != "2025-02-06" {
		t.Fatalf("form criteria = %+v", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.history.current().Route != RouteResults {
		t.Fatalf("esc did not return to results")
	}
}

func TestThemeCyclePersists(t *testing.T) {
	m := newTestModel(t, &fakeService{}, resultsAt(mexCan()))
	before := m.theme.Name

	m = send(t, m, keyRunes("T"))
	if m.theme.Name == before {
		t.Fatalf("theme unchanged")
	}
	loaded, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", loaded.Theme, m.theme.Name)
	}
}

func TestStartLocationRunsSearch(t *testing.T) {
	svc := &fakeService{}
	loc, err := ParseLocation("/search?" + search.Encode(mexCan()).Encode())
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	m := newTestModel(t, svc, loc)
	if svc.searchCount() != 1 {
		t.Fatalf("searches = %d, want 1", svc.searchCount())
	}
	if m.criteria.Route() != "MEX → CAN" {
		t.Fatalf("criteria route = %q", m.criteria.Route())
	}
	q, _ := url.ParseQuery(svc.lastSearch().Values().Encode())
	if q.Get("size") != "10" {
		t.Fatalf("size = %q, want 10", q.Get("size"))
	}
}

func TestPartialStartLocationSendsOnlyItsKeys(t *testing.T) {
	svc := &fakeService{}
	start, err := ParseLocation("departureAirportKeyword=MEX&arrivalAirportKeyword=CAN&departureDate=2025-02-06")
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	m := newTestModel(t, svc, start)

	if svc.searchCount() != 1 {
		t.Fatalf("searches = %d, want 1", svc.searchCount())
	}
	values := svc.lastSearch().Values()
	want := map[string]string{
		"departureAirportKeyword": "MEX",
		"arrivalAirportKeyword":   "CAN",
		"departureDate":           "2025-02-06",
		"size":                    "10",
	}
	if len(values) != len(want) {
		t.Fatalf("query = %s, want only %v", values.Encode(), want)
	}
	for k, v := range want {
		if got := values.Get(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}

	c := m.form.form.Criteria()
	if !c.DepartureIsCode || !c.ArrivalIsCode || c.Adults != 1 || c.Currency != search.CurrencyMXN {
		t.Fatalf("seeded form = %+v, want defaults for missing keys", c)
	}
}

func TestPagingIgnoredAfterFailedSearch(t *testing.T) {
	var calls int
	svc := &fakeService{searchFn: func(flights.SearchQuery) (flights.SearchResult, error) {
		calls++
		if calls == 1 {
			return flights.SearchResult{Counter: 25, Flights: sampleFlights("1")}, nil
		}
		return flights.SearchResult{}, errors.New("connection refused")
	}}
	m := newTestModel(t, svc, resultsAt(mexCan()))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.snapshot.Phase != state.PhaseError {
		t.Fatalf("phase = %v, want error", m.snapshot.Phase)
	}
	if m.snapshot.Total != 0 {
		t.Fatalf("total = %d after a failed search for another page, want 0", m.snapshot.Total)
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if svc.searchCount() != 2 {
		t.Fatalf("searches = %d, want 2 (no paging from an error)", svc.searchCount())
	}
}
