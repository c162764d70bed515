package flights

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Amount is a monetary or identifier value the API sends either as a JSON
// string or as a bare number. It keeps the textual form.
type Amount string

// UnmarshalJSON accepts strings, numbers and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// Float parses the amount. ok is false for empty or non-numeric values.
func (a Amount) Float() (value float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Stop is an intermediate airport on an itinerary.
type Stop struct {
	AirportCode string `json:"airportCode"`
	LayoverTime string `json:"layoverTime"`
}

// Itinerary is one direction of travel as shown on a result card.
type Itinerary struct {
	InitialDeparture     string `json:"initialDeparture"`
	FinalArrival         string `json:"finalArrival"`
	DepartureAirportCode string `json:"departureAirportCode"`
	DepartureAirportName string `json:"departureAirportName"`
	ArrivalAirportCode   string `json:"arrivalAirportCode"`
	ArrivalAirportName   string `json:"arrivalAirportName"`
	AirlineCode          string `json:"airlineCode"`
	AirlineName          string `json:"airlineName"`
	OperatingAirlineCode string `json:"operatingAirlineCode,omitempty"`
	OperatingAirlineName string `json:"operatingAirlineName,omitempty"`
	TotalFlightTime      string `json:"totalFlightTime"`
	Stops                []Stop `json:"stops"`
}

func (it Itinerary) empty() bool {
	return it.InitialDeparture == "" && it.DepartureAirportCode == "" &&
		it.ArrivalAirportCode == "" && it.TotalFlightTime == "" && len(it.Stops) == 0
}

// HasOperatingCarrier reports whether a different airline flies the route.
func (it Itinerary) HasOperatingCarrier() bool {
	code := strings.TrimSpace(it.OperatingAirlineCode)
	name := strings.TrimSpace(it.OperatingAirlineName)
	if code == "" && name == "" {
		return false
	}
	return !strings.EqualFold(code, strings.TrimSpace(it.AirlineCode)) ||
		!strings.EqualFold(name, strings.TrimSpace(it.AirlineName))
}

// FlightSummary is one search result.
type FlightSummary struct {
	ID               string      `json:"id"`
	Itineraries      []Itinerary `json:"itineraries"`
	TotalPrice       Amount      `json:"totalPrice"`
	Currency         string      `json:"currency"`
	PricePerTraveler Amount      `json:"pricePerTraveler"`
}

// UnmarshalJSON accepts both the itinerary list and the older flat shape
// that carries a single itinerary's fields at the top level.
func (f *FlightSummary) UnmarshalJSON(data []byte) error {
	var wire struct {
		Itinerary
		ID               Amount      `json:"id"`
		Itineraries      []Itinerary `json:"itineraries"`
		TotalPrice       Amount      `json:"totalPrice"`
		Currency         string      `json:"currency"`
		PricePerTraveler Amount      `json:"pricePerTraveler"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = FlightSummary{
		ID:               string(wire.ID),
		Itineraries:      wire.Itineraries,
		TotalPrice:       wire.TotalPrice,
		Currency:         wire.Currency,
		PricePerTraveler: wire.PricePerTraveler,
	}
	if len(f.Itineraries) == 0 && !wire.Itinerary.empty() {
		f.Itineraries = []Itinerary{wire.Itinerary}
	}
	return nil
}

// Outbound returns the first itinerary, or the zero value when there is none.
func (f FlightSummary) Outbound() Itinerary {
	if len(f.Itineraries) == 0 {
		return Itinerary{}
	}
	return f.Itineraries[0]
}

// RoundTrip reports whether the offer includes a return itinerary.
func (f FlightSummary) RoundTrip() bool {
	return len(f.Itineraries) > 1
}

// SearchResult is one page of search results plus the total match count.
type SearchResult struct {
	Counter int             `json:"counter"`
	Flights []FlightSummary `json:"data"`
}

// UnmarshalJSON accepts the {counter, data} envelope or a bare array, in
// which case the counter is the array length.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []FlightSummary
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*r = SearchResult{Counter: len(list), Flights: list}
		return nil
	}
	var envelope struct {
		Counter int             `json:"counter"`
		Data    []FlightSummary `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	*r = SearchResult{Counter: envelope.Counter, Flights: envelope.Data}
	return nil
}

// Amenity is a fare feature and whether it costs extra.
type Amenity struct {
	Name       string `json:"name"`
	Chargeable bool   `json:"chargeable"`
}

// TravelerFare is the cabin and booking class one traveler holds on a segment.
type TravelerFare struct {
	Cabin     string    `json:"cabin"`
	Class     string    `json:"class"`
	Amenities []Amenity `json:"amenities"`
}

// Segment is a single flight leg.
type Segment struct {
	DepartureTime        string         `json:"departureTime"`
	ArrivalTime          string         `json:"arrivalTime"`
	DepartureAirportCode string         `json:"departureAirportCode,omitempty"`
	ArrivalAirportCode   string         `json:"arrivalAirportCode,omitempty"`
	AirlineCode          string         `json:"airlineCode"`
	AirlineName          string         `json:"airlineName"`
	FlightNumber         Amount         `json:"flightNumber"`
	OperatingAirlineCode string         `json:"operatingAirlineCode,omitempty"`
	OperatingAirlineName string         `json:"operatingAirlineName,omitempty"`
	AircraftType         string         `json:"aircraftType"`
	TravelerFares        []TravelerFare `json:"travelerFares"`
	LayoverTime          string         `json:"layoverTime,omitempty"`
}

// DetailItinerary is one direction of travel with its ordered segments.
type DetailItinerary struct {
	InitialDeparture     string    `json:"initialDeparture"`
	FinalArrival         string    `json:"finalArrival"`
	DepartureAirportCode string    `json:"departureAirportCode"`
	DepartureAirportName string    `json:"departureAirportName"`
	ArrivalAirportCode   string    `json:"arrivalAirportCode"`
	ArrivalAirportName   string    `json:"arrivalAirportName"`
	TotalFlightTime      string    `json:"totalFlightTime"`
	Segments             []Segment `json:"segments"`
}

func (it DetailItinerary) empty() bool {
	return it.InitialDeparture == "" && it.DepartureAirportCode == "" && len(it.Segments) == 0
}

// Fee is a named surcharge in the price breakdown.
type Fee struct {
	Amount Amount `json:"amount"`
	Type   string `json:"type"`
}

// TravelerPrice is the price for one traveler.
type TravelerPrice struct {
	TravelerID   Amount `json:"travelerId"`
	TravelerType string `json:"travelerType"`
	Price        Amount `json:"price"`
}

// PriceBreakdown itemises the total price.
type PriceBreakdown struct {
	BasePrice        Amount          `json:"basePrice"`
	TotalPrice       Amount          `json:"totalPrice"`
	Currency         string          `json:"currency"`
	Fees             []Fee           `json:"fees"`
	PricePerTraveler []TravelerPrice `json:"pricePerTraveler"`
}

// FlightDetail is the full record for one offer.
type FlightDetail struct {
	ID             string            `json:"id"`
	Itineraries    []DetailItinerary `json:"itineraries"`
	PriceBreakdown PriceBreakdown    `json:"priceBreakdown"`
}

// UnmarshalJSON accepts both the itinerary list and the flat shape with
// top-level segments.
func (d *FlightDetail) UnmarshalJSON(data []byte) error {
	var wire struct {
		DetailItinerary
		ID             Amount            `json:"id"`
		Itineraries    []DetailItinerary `json:"itineraries"`
		PriceBreakdown PriceBreakdown    `json:"priceBreakdown"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = FlightDetail{
		ID:             string(wire.ID),
		Itineraries:    wire.Itineraries,
		PriceBreakdown: wire.PriceBreakdown,
	}
	if len(d.Itineraries) == 0 && !wire.DetailItinerary.empty() {
		d.Itineraries = []DetailItinerary{wire.DetailItinerary}
	}
	return nil
}

// ParseTimestamp parses the API's local date-time strings. It accepts the
// zone-less ISO form the API emits as well as RFC3339.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
