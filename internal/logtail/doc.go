// Package logtail reads the end of farefinder's own log file for the
// diagnostics overlay.
//
// # Reading
//
// Read uses a ring buffer of maxLines entries so a large log is scanned
// once with O(maxLines) memory. Lines come back oldest first. A missing
// file returns nil, nil; the log may not exist until the first request.
//
// # Parsing
//
// The application logs with slog's text handler, one record per line:
//
//	time=2026-03-10T15:30:00.123-06:00 level=WARN msg="api returned error status" path=/api/v1/flights/42 status=404
//
// ParseLine turns that into an Entry with Time, Level and Message pulled
// out and the remaining pairs kept in order as Attrs. Quoted values are
// unescaped. Anything that is not key=value text (a panic trace, say) is
// returned as a message-only Entry rather than dropped.
package logtail
