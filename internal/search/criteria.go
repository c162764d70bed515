package search

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the form and the API.
const DateLayout = "2006-01-02"

// Currency is an ISO 4217 code accepted by the flights API.
type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Currencies lists the supported currencies in display order.
var Currencies = []Currency{CurrencyMXN, CurrencyUSD, CurrencyEUR}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}

// NextCurrency returns the currency after c in display order.
func NextCurrency(c Currency) Currency {
	for i, known := range Currencies {
		if known == c {
			return Currencies[(i+1)%len(Currencies)]
		}
	}
	return Currencies[0]
}

// SortField names the attribute results are ordered by. The zero value
// leaves ordering to the server.
type SortField string

const (
	SortNone     SortField = ""
	SortPrice    SortField = "price"
	SortDuration SortField = "duration"
)

func (f SortField) valid() bool {
	return f == SortNone || f == SortPrice || f == SortDuration
}

// SortOrder is the direction of a sort. DES is the spelling the API uses.
type SortOrder string

const (
	OrderNone SortOrder = ""
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DES"
)

func (o SortOrder) valid() bool {
	return o == OrderNone || o == OrderAsc || o == OrderDesc
}

// Criteria is the typed form of a flight search.
type Criteria struct {
	DepartureKeyword string
	DepartureIsCode  bool
	ArrivalKeyword   string
	ArrivalIsCode    bool
	DepartureDate    string
	ReturnDate       string
	Adults           int
	Currency         Currency
	NonStop          bool
	SortBy           SortField
	Order            SortOrder
	Page             int
}

// Defaults returns the criteria a blank search form starts from.
func Defaults(now time.Time) Criteria {
	return Criteria{
		DepartureIsCode: true,
		ArrivalIsCode:   true,
		DepartureDate:   now.Format(DateLayout),
		Adults:          1,
		Currency:        CurrencyMXN,
	}
}

// Route renders a short "MEX → CAN" description for headers and history.
func (c Criteria) Route() string {
	dep := strings.TrimSpace(c.DepartureKeyword)
	arr := strings.TrimSpace(c.ArrivalKeyword)
	if dep == "" {
		dep = "?"
	}
	if arr == "" {
		arr = "?"
	}
	return dep + " → " + arr
}

// Unsorted returns a copy with sort options cleared and the page reset.
func (c Criteria) Unsorted() Criteria {
	c.SortBy = SortNone
	c.Order = OrderNone
	c.Page = 0
	return c
}
