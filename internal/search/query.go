package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query keys that are not form fields.
const (
	KeySortBy = "sortBy"
	KeyOrder  = "order"
	KeyPage   = "page"
	KeySize   = "size"
)

// ErrInvalidQuery marks a location whose query string cannot be turned
// into Criteria.
var ErrInvalidQuery = errors.New("invalid search query")

// Encode is the single canonical serialization of c. Every field is
// written except an empty return date. sortBy and order are written even
// when unset.
func Encode(c Criteria) url.Values {
	values := url.Values{}
	values.Set(string(FieldDepartureKeyword), c.DepartureKeyword)
	values.Set(string(FieldDepartureIsCode), strconv.FormatBool(c.DepartureIsCode))
	values.Set(string(FieldArrivalKeyword), c.ArrivalKeyword)
	values.Set(string(FieldArrivalIsCode), strconv.FormatBool(c.ArrivalIsCode))
	values.Set(string(FieldDepartureDate), c.DepartureDate)
	if ret := strings.TrimSpace(c.ReturnDate); ret != "" {
		values.Set(string(FieldReturnDate), ret)
	}
	values.Set(string(FieldAdults), strconv.Itoa(c.Adults))
	values.Set(string(FieldCurrency), string(c.Currency))
	values.Set(string(FieldNonStop), strconv.FormatBool(c.NonStop))
	values.Set(KeySortBy, string(c.SortBy))
	values.Set(KeyOrder, string(c.Order))
	values.Set(KeyPage, strconv.Itoa(c.Page))
	return values
}

// Parse converts query values back into Criteria with typed coercion.
// Missing keys leave the zero value. Every malformed key is reported in
// the returned error, which wraps ErrInvalidQuery.
func Parse(values url.Values) (Criteria, error) {
	return ParseOnto(Criteria{}, values)
}

// ParseOnto is Parse with base supplying every key missing from values.
func ParseOnto(base Criteria, values url.Values) (Criteria, error) {
	var errs []error
	c := base

	textField := func(key string, dest *string) {
		if values.Has(key) {
			*dest = values.Get(key)
		}
	}
	textField(string(FieldDepartureKeyword), &c.DepartureKeyword)
	textField(string(FieldArrivalKeyword), &c.ArrivalKeyword)
	textField(string(FieldDepartureDate), &c.DepartureDate)
	textField(string(FieldReturnDate), &c.ReturnDate)

	boolField := func(key Field, dest *bool) {
		raw := strings.TrimSpace(values.Get(string(key)))
		if raw == "" {
			return
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a boolean", key, raw))
			return
		}
		*dest = v
	}
	boolField(FieldDepartureIsCode, &c.DepartureIsCode)
	boolField(FieldArrivalIsCode, &c.ArrivalIsCode)
	boolField(FieldNonStop, &c.NonStop)

	if raw := strings.TrimSpace(values.Get(string(FieldAdults))); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", FieldAdults, raw))
		} else {
			c.Adults = n
		}
	}

	if raw := strings.TrimSpace(values.Get(string(FieldCurrency))); raw != "" {
		cur := Currency(strings.ToUpper(raw))
		if !cur.Valid() {
			errs = append(errs, fmt.Errorf("%s: unsupported currency %q", FieldCurrency, raw))
		} else {
			c.Currency = cur
		}
	}

	if values.Has(KeySortBy) {
		sortBy := SortField(strings.TrimSpace(values.Get(KeySortBy)))
		if !sortBy.valid() {
			errs = append(errs, fmt.Errorf("%s: unknown sort field %q", KeySortBy, sortBy))
		} else {
			c.SortBy = sortBy
		}
	}
	if values.Has(KeyOrder) {
		order := SortOrder(strings.ToUpper(strings.TrimSpace(values.Get(KeyOrder))))
		if !order.valid() {
			errs = append(errs, fmt.Errorf("%s: unknown sort order %q", KeyOrder, order))
		} else {
			c.Order = order
		}
	}

	if raw := strings.TrimSpace(values.Get(KeyPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %q is not a number", KeyPage, raw))
		case n < 0:
			errs = append(errs, fmt.Errorf("%s: %d is negative", KeyPage, n))
		default:
			c.Page = n
		}
	}

	if len(errs) > 0 {
		return c, fmt.Errorf("%w: %w", ErrInvalidQuery, errors.Join(errs...))
	}
	return c, nil
}

// EncodePresent is Encode limited to the keys set in present, so a
// location that never named a key does not gain one. A nil present
// encodes every key.
func EncodePresent(c Criteria, present url.Values) url.Values {
	values := Encode(c)
	if present == nil {
		return values
	}
	for key := range values {
		if !present.Has(key) {
			values.Del(key)
		}
	}
	return values
}

// ParseQuery is Parse for a raw query string, with or without a leading "?".
func ParseQuery(raw string) (Criteria, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Criteria{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return Parse(values)
}

// WithSort returns a copy of values ordered by field and order, back on the
// first page.
func WithSort(values url.Values, field SortField, order SortOrder) url.Values {
	out := cloneValues(values)
	out.Set(KeySortBy, string(field))
	out.Set(KeyOrder, string(order))
	out.Set(KeyPage, "0")
	return out
}

// WithPage returns a copy of values pointing at page.
func WithPage(values url.Values, page int) url.Values {
	out := cloneValues(values)
	out.Set(KeyPage, strconv.Itoa(page))
	return out
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
