// Package state holds the results of the current flight search.
//
// # Overview
//
// The results view starts a search every time its query string changes.
// Searches run in Bubble Tea commands and may finish out of order: a slow
// response for an old query could otherwise overwrite the results of a
// newer one. Store prevents that with request tokens.
//
//	token := store.Begin(query)            // Phase = Loading
//	// ... request runs in a tea.Cmd ...
//	store.Complete(token, result, err)     // ignored unless token is current
//
// # Phases
//
// Snapshot.Phase separates the cases the user needs to tell apart:
//
//   - Idle: no search yet
//   - Loading: a request is in flight; previous results remain visible
//   - Error: the latest request failed; LastError is set and the previous
//     results are kept
//   - Empty: the request succeeded with no flights
//   - Loaded: the request succeeded with flights
//
// # Concurrency Model
//
// Store uses a readers-writer lock and returns Snapshot by value with the
// flight slice cloned, so a snapshot can be rendered while a newer search
// is being recorded. The zero value is ready to use.
package state
