package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/farefinder/internal/flights"
)

// Phase is where the current search stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseEmpty
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseEmpty:
		return "empty"
	case PhaseLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Token identifies one search request. Later searches get larger tokens.
type Token uint64

// Snapshot is the results view's copy of the latest search.
type Snapshot struct {
	Phase       Phase
	Token       Token
	Query       string
	Flights     []flights.FlightSummary
	Total       int
	LastError   error
	StartedAt   time.Time
	LastUpdated time.Time
}

// Store holds the state of the most recent search. Only the response to
// the latest Begin is ever applied.
type Store struct {
	mu       sync.RWMutex
	next     Token
	snapshot Snapshot

	resultsQuery string // query that Flights and Total belong to
}

// Begin marks a new search for query as loading and returns its token.
// Results from the previous search stay visible until this one completes.
func (s *Store) Begin(query string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.snapshot.Token = s.next
	s.snapshot.Query = query
	s.snapshot.Phase = PhaseLoading
	s.snapshot.StartedAt = time.Now()
	return s.next
}

// Complete applies the outcome of the search identified by token and
// reports whether it was applied. Responses to superseded searches are
// dropped. On error the previous results are kept only when they belong
// to the same query, as on a retry.
func (s *Store) Complete(token Token, result flights.SearchResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.snapshot.Token || s.snapshot.Phase != PhaseLoading {
		return false
	}

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Phase = PhaseError
		s.snapshot.LastError = err
		if s.resultsQuery != s.snapshot.Query {
			s.snapshot.Flights = nil
			s.snapshot.Total = 0
			s.resultsQuery = ""
		}
		return true
	}

	s.snapshot.Flights = cloneFlights(result.Flights)
	s.snapshot.Total = result.Counter
	s.snapshot.LastError = nil
	s.resultsQuery = s.snapshot.Query
	if len(result.Flights) == 0 {
		s.snapshot.Phase = PhaseEmpty
	} else {
		s.snapshot.Phase = PhaseLoaded
	}
	return true
}

// Current returns the token of the latest search.
func (s *Store) Current() Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Token
}

// Reset forgets the current search. Pending responses are dropped.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
	s.resultsQuery = ""
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Flights = cloneFlights(s.snapshot.Flights)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneFlights(items []flights.FlightSummary) []flights.FlightSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]flights.FlightSummary, len(items))
	copy(dup, items)
	return dup
}
