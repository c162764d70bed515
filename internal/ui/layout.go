package ui

import "time"

// Layout sizes.
const (
	// CardMaxWidth caps result cards on wide terminals.
	CardMaxWidth = 110

	// FormWidth is the width of the search form panel.
	FormWidth = 64

	// ModalMaxWidth caps the detail and diagnostics modals.
	ModalMaxWidth = 100

	// HelpWidth is the width of the help overlay.
	HelpWidth = 80

	// resultsHeaderLines is the header plus the sort bar.
	resultsHeaderLines = 2

	// resultsFooterLines is the pager plus the command bar.
	resultsFooterLines = 2
)

// Diagnostics limits.
const (
	// DiagnosticsLines is how many log lines the diagnostics overlay reads.
	DiagnosticsLines = 300
)

// Timing constants.
const (
	// DefaultFetchTimeout bounds a single API call made from the UI.
	DefaultFetchTimeout = 10 * time.Second
)
