package search

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Field identifies a search form input by its query key.
type Field string

const (
	FieldDepartureKeyword Field = "departureAirportKeyword"
	FieldDepartureIsCode  Field = "isDepartureCode"
	FieldArrivalKeyword   Field = "arrivalAirportKeyword"
	FieldArrivalIsCode    Field = "isArrivalCode"
	FieldDepartureDate    Field = "departureDate"
	FieldReturnDate       Field = "arrivalDate"
	FieldAdults           Field = "numAdults"
	FieldCurrency         Field = "currency"
	FieldNonStop          Field = "nonStop"
)

// IsCheckbox reports whether the field holds a boolean.
func (f Field) IsCheckbox() bool {
	switch f {
	case FieldDepartureIsCode, FieldArrivalIsCode, FieldNonStop:
		return true
	}
	return false
}

// Errors maps a field to its validation message.
type Errors map[Field]string

// Validation messages shown next to the offending field.
const (
	MsgDepartureCode   = "The departure airport code must have 3 letters (IATA)."
	MsgArrivalCode     = "The arrival airport code must have 3 letters (IATA)."
	MsgSameAirport     = "The departure airport code cannot be the same as the return airport code."
	MsgDepartureDate   = "The departure date cannot be earlier than today."
	MsgDepartureFormat = "The departure date must be a valid date (YYYY-MM-DD)."
	MsgReturnDate      = "The arrival date cannot be earlier than the departure date."
	MsgReturnFormat    = "The arrival date must be a valid date (YYYY-MM-DD)."
	MsgAdults          = "There must be at least 1 adult."
	MsgCurrency        = "The currency must be one of MXN, USD or EUR."
)

// Form holds the in-progress search and its most recent validation result.
// It never performs I/O.
type Form struct {
	criteria Criteria
	errors   Errors
}

// NewForm returns a form populated with Defaults(now).
func NewForm(now time.Time) *Form {
	return &Form{criteria: Defaults(now), errors: Errors{}}
}

// Criteria returns the current values. Sort and page are always cleared
// because a fresh submission starts from the first unsorted page.
func (f *Form) Criteria() Criteria {
	return f.criteria.Unsorted()
}

// Errors returns a copy of the current error set.
func (f *Form) Errors() Errors {
	out := make(Errors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Seed replaces the values with initial laid over the defaults for now.
// Zero-valued text fields in initial keep their defaults.
func (f *Form) Seed(initial Criteria, now time.Time) {
	base := Defaults(now)
	base.DepartureKeyword = initial.DepartureKeyword
	base.ArrivalKeyword = initial.ArrivalKeyword
	base.DepartureIsCode = initial.DepartureIsCode
	base.ArrivalIsCode = initial.ArrivalIsCode
	if initial.DepartureDate != "" {
		base.DepartureDate = initial.DepartureDate
	}
	base.ReturnDate = initial.ReturnDate
	if initial.Adults != 0 {
		base.Adults = initial.Adults
	}
	if initial.Currency != "" {
		base.Currency = initial.Currency
	}
	base.NonStop = initial.NonStop
	f.criteria = base
	f.errors = Errors{}
}

// Update merges a single field change. Checkbox fields are coerced to a
// boolean; everything else keeps what was typed.
func (f *Form) Update(field Field, raw string) {
	c := &f.criteria
	switch field {
	case FieldDepartureKeyword:
		c.DepartureKeyword = raw
	case FieldArrivalKeyword:
		c.ArrivalKeyword = raw
	case FieldDepartureIsCode:
		c.DepartureIsCode = parseCheckbox(raw)
	case FieldArrivalIsCode:
		c.ArrivalIsCode = parseCheckbox(raw)
	case FieldNonStop:
		c.NonStop = parseCheckbox(raw)
	case FieldDepartureDate:
		c.DepartureDate = raw
	case FieldReturnDate:
		c.ReturnDate = raw
	case FieldAdults:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			n = 0
		}
		c.Adults = n
	case FieldCurrency:
		c.Currency = Currency(strings.ToUpper(strings.TrimSpace(raw)))
	}
}

// Validate recomputes the full error set against the calendar day of now
// and reports whether the form is submittable.
func (f *Form) Validate(now time.Time) bool {
	f.errors = Validate(f.criteria, now)
	return len(f.errors) == 0
}

// Validate checks c and returns every violated rule. An empty result means
// the criteria can be submitted.
func Validate(c Criteria, now time.Time) Errors {
	errs := Errors{}

	if c.DepartureIsCode && utf8.RuneCountInString(c.DepartureKeyword) != 3 {
		errs[FieldDepartureKeyword] = MsgDepartureCode
	}
	if c.ArrivalIsCode && utf8.RuneCountInString(c.ArrivalKeyword) != 3 {
		errs[FieldArrivalKeyword] = MsgArrivalCode
	}
	if sameAirport(c.DepartureKeyword, c.ArrivalKeyword) {
		errs[FieldDepartureKeyword] = MsgSameAirport
	}

	today := startOfDay(now)
	departure, depErr := time.ParseInLocation(DateLayout, strings.TrimSpace(c.DepartureDate), now.Location())
	switch {
	case depErr != nil:
		errs[FieldDepartureDate] = MsgDepartureFormat
	case departure.Before(today):
		errs[FieldDepartureDate] = MsgDepartureDate
	}

	if ret := strings.TrimSpace(c.ReturnDate); ret != "" {
		returning, err := time.ParseInLocation(DateLayout, ret, now.Location())
		switch {
		case err != nil:
			errs[FieldReturnDate] = MsgReturnFormat
		case depErr == nil && returning.Before(departure):
			errs[FieldReturnDate] = MsgReturnDate
		}
	}

	if c.Adults < 1 {
		errs[FieldAdults] = MsgAdults
	}
	if !c.Currency.Valid() {
		errs[FieldCurrency] = MsgCurrency
	}
	return errs
}

func sameAirport(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}
