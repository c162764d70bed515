// Package search models a flight search: the typed Criteria, the form that
// edits and validates them, and the canonical query string that carries
// them between views.
//
// # Query strings
//
// A results view is fully described by its query string. Encode and Parse
// are the only functions that convert between Criteria and url.Values, so
// submit, sort and page changes all produce the same key set:
//
//	departureAirportKeyword=MEX&isDepartureCode=true&arrivalAirportKeyword=CAN
//	&isArrivalCode=true&departureDate=2026-12-01&numAdults=1&currency=MXN
//	&nonStop=false&sortBy=&order=&page=0
//
// arrivalDate is only present for round trips. size is added by the caller
// that talks to the API and is not part of Criteria.
//
// # Validation
//
// Form.Validate recomputes every rule each time. Rules are applied in a
// fixed order and a later rule may replace an earlier message for the same
// field; the same-airport rule wins over the IATA length rule on the
// departure field.
package search
