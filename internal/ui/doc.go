// Package ui provides the terminal user interface for farefinder.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the root state; every network
// call runs inside a tea.Cmd and reports back as a message, so the event
// loop never blocks. Two routes exist, mirroring the locations of a web
// search page:
//
//   - "/": the search form (landing page)
//   - "/search?<query>": the results page, driven entirely by its query
//
// Every state change (submit, sort, page) pushes a new Location built with
// the canonical codec in package search; back navigation pops it and
// re-runs the search for the restored query.
//
// # Package Structure
//
//   - app.go: Model, Update/View, navigation and Run
//   - router.go: Location parsing and the history stack
//   - form.go: the search form over search.Form
//   - results.go: result fetching, selection, sorting and paging
//   - card.go: flight card text and rendering
//   - detail.go: the flight detail modal
//   - help.go, diagnostics.go: help and log overlays
//   - header.go: header, sort bar, pager and command bar
//   - modal.go: the Modal interface and overlay placement
//
// # Concurrency
//
// Searches are tracked by state.Store tokens. A response only applies when
// its token is still the latest, so a slow response to an earlier query can
// never overwrite a newer one. The detail modal uses its own sequence
// number for the same purpose.
//
// # Key Bindings
//
//   - tab/shift+tab: Move between form fields
//   - space: Toggle a checkbox or cycle the currency
//   - enter: Submit the form, or open the selected flight
//   - 1-4: Sort by price or duration, ascending or descending
//   - h/l: Previous or next page
//   - / or s: Edit the current search
//   - b: Back
//   - T: Cycle theme
//   - L: Diagnostics log
//   - ?: Help
//   - esc/q/x: Close a modal
//   - ctrl+c: Exit
package ui
