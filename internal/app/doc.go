// Package app provides the orchestration layer for farefinder.
//
// # Overview
//
// This package wires together configuration, logging, the response cache,
// the flights API client and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml (defaults if absent)
//	       ├─────> ui.ParseLocation()   Validate the optional start location
//	       ├─────> newLogger()          Append-only slog text file
//	       ├─────> prefs.Load()         Theme and recent searches
//	       ├─────> newCache()           NoOp, memory or Redis
//	       ├─────> flights.NewClient()  Rate-limited HTTP client
//	       └─────> ui.Run()             Start the TUI (blocks)
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file
//   - Malformed start location
//   - Log file that cannot be opened
//   - Invalid API base URL
//
// Recoverable errors (logged, startup continues):
//   - Unreadable preferences, which fall back to defaults
//   - Unreachable Redis server, which falls back to the memory cache
//
// Errors from individual searches never reach this package; the UI shows
// them on the results page and logs them.
//
// # Logging
//
// The terminal belongs to Bubble Tea, so records go to the log file named
// by log_file in config.toml. The diagnostics overlay (L) tails the same
// file.
package app
