// Package flights provides an HTTP client for the flight search API.
//
// # Endpoints
//
//   - GET {base}/flights?<criteria>&size=N: one page of offers
//   - GET {base}/flights/{id}: the full record for one offer
//
// The base defaults to http://localhost:9090/api/v1. A bare host:port is
// accepted and gets an http scheme.
//
// # Client Usage
//
//	client, err := flights.NewClient(cfg.APIBase, flights.Options{
//		Timeout:           cfg.RequestTimeout,
//		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
//		Burst:             cfg.RateLimit.Burst,
//		Logger:            logger,
//	})
//	if err != nil {
//		return err
//	}
//	page, err := client.SearchFlights(ctx, flights.SearchQuery{Criteria: c, Size: 10})
//
// # Request Handling
//
// Every request:
//   - waits on a token bucket (golang.org/x/time/rate) when a rate is configured
//   - carries Accept, User-Agent and a fresh X-Request-ID (uuid) header
//   - is looked up in, and on success written to, the configured cache
//
// # Error Handling
//
// Errors are returned wrapped and never retried; the caller decides what to
// show. Non-2xx answers become *StatusError, for example
// "api /api/v1/flights/42 returned status 404".
//
// # Wire Shapes
//
// The API has shipped two shapes for both endpoints. Older responses put a
// single itinerary's fields at the top level; newer ones nest them under
// "itineraries". Both decode into the same Go types. Search responses may
// also be a bare array instead of the {counter, data} envelope. Prices and
// ids may arrive as strings or numbers and are kept as text (Amount).
package flights
