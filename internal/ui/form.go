package ui

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/farefinder/internal/search"
)

// formOrder is the tab order of the search form.
var formOrder = []search.Field{
	search.FieldDepartureKeyword,
	search.FieldDepartureIsCode,
	search.FieldArrivalKeyword,
	search.FieldArrivalIsCode,
	search.FieldDepartureDate,
	search.FieldReturnDate,
	search.FieldAdults,
	search.FieldCurrency,
	search.FieldNonStop,
}

var formLabels = map[search.Field]string{
	search.FieldDepartureKeyword: "From",
	search.FieldDepartureIsCode:  "",
	search.FieldArrivalKeyword:   "To",
	search.FieldArrivalIsCode:    "",
	search.FieldDepartureDate:    "Departure",
	search.FieldReturnDate:       "Return",
	search.FieldAdults:           "Adults",
	search.FieldCurrency:         "Currency",
	search.FieldNonStop:          "",
}

var checkboxLabels = map[search.Field]string{
	search.FieldDepartureIsCode: "Departure is an IATA code",
	search.FieldArrivalIsCode:   "Arrival is an IATA code",
	search.FieldNonStop:         "Non-stop flights only",
}

// searchForm is the landing page: text inputs over a search.Form.
type searchForm struct {
	form    *search.Form
	inputs  map[search.Field]textinput.Model
	focus   int
	touched bool // show errors once the user edits or submits

	recents     []string
	recentIndex int

	now func() time.Time
}

func newSearchForm(now func() time.Time, recents []string) searchForm {
	if now == nil {
		now = time.Now
	}
	f := searchForm{
		form:        search.NewForm(now()),
		inputs:      make(map[search.Field]textinput.Model),
		recents:     recents,
		recentIndex: -1,
		now:         now,
	}
	placeholders := map[search.Field]string{
		search.FieldDepartureKeyword: "MEX",
		search.FieldArrivalKeyword:   "CAN",
		search.FieldDepartureDate:    search.DateLayout,
		search.FieldReturnDate:       "optional " + search.DateLayout,
		search.FieldAdults:           "1",
	}
	for field, placeholder := range placeholders {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = 40
		in.Width = 24
		f.inputs[field] = in
	}
	f.syncInputs()
	f.focusCurrent()
	return f
}

// seed fills the form from criteria, e.g. the current results query.
func (f *searchForm) seed(c search.Criteria) {
	f.form.Seed(c, f.now())
	f.touched = false
	f.syncInputs()
}

// criteriaFor parses a location query over today's defaults, so keys the
// location leaves out keep their form defaults.
func (f *searchForm) criteriaFor(values url.Values) (search.Criteria, error) {
	return search.ParseOnto(search.Defaults(f.now()), values)
}

// syncInputs copies the form's values into the text inputs.
func (f *searchForm) syncInputs() {
	c := f.form.Criteria()
	values := map[search.Field]string{
		search.FieldDepartureKeyword: c.DepartureKeyword,
		search.FieldArrivalKeyword:   c.ArrivalKeyword,
		search.FieldDepartureDate:    c.DepartureDate,
		search.FieldReturnDate:       c.ReturnDate,
		search.FieldAdults:           strconv.Itoa(c.Adults),
	}
	for field, value := range values {
		in := f.inputs[field]
		in.SetValue(value)
		in.CursorEnd()
		f.inputs[field] = in
	}
}

func (f *searchForm) focused() search.Field {
	return formOrder[f.focus]
}

// editingText reports whether a text input has focus, in which case
// printable keys belong to the input.
func (f *searchForm) editingText() bool {
	_, ok := f.inputs[f.focused()]
	return ok
}

func (f *searchForm) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for field, in := range f.inputs {
		if field == f.focused() {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		f.inputs[field] = in
	}
	return cmd
}

func (f *searchForm) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + len(formOrder)) % len(formOrder)
	return f.focusCurrent()
}

// toggle flips the focused checkbox or advances the currency.
func (f *searchForm) toggle() {
	c := f.form.Criteria()
	switch field := f.focused(); field {
	case search.FieldDepartureIsCode:
		f.change(field, strconv.FormatBool(!c.DepartureIsCode))
	case search.FieldArrivalIsCode:
		f.change(field, strconv.FormatBool(!c.ArrivalIsCode))
	case search.FieldNonStop:
		f.change(field, strconv.FormatBool(!c.NonStop))
	case search.FieldCurrency:
		f.change(field, string(search.NextCurrency(c.Currency)))
	}
}

// change merges one field and revalidates.
func (f *searchForm) change(field search.Field, raw string) {
	f.form.Update(field, raw)
	f.touched = true
	f.form.Validate(f.now())
}

// recall loads the next remembered search into the form.
func (f *searchForm) recall() bool {
	if len(f.recents) == 0 {
		return false
	}
	for range f.recents {
		f.recentIndex = (f.recentIndex + 1) % len(f.recents)
		values, err := url.ParseQuery(strings.TrimPrefix(f.recents[f.recentIndex], "?"))
		if err != nil {
			continue
		}
		c, err := f.criteriaFor(values)
		if err != nil {
			continue
		}
		f.seed(c)
		return true
	}
	return false
}

// submit validates the form. It returns the criteria to search for, or
// false when any field is invalid.
func (f *searchForm) submit() (search.Criteria, bool) {
	f.touched = true
	if !f.form.Validate(f.now()) {
		return search.Criteria{}, false
	}
	return f.form.Criteria(), true
}

// Update handles a key press. The returned criteria is non-nil when the
// form was submitted and valid.
func (f searchForm) Update(msg tea.KeyMsg, keys keyMap) (searchForm, tea.Cmd, *search.Criteria) {
	switch {
	case key.Matches(msg, keys.Submit):
		if c, ok := f.submit(); ok {
			return f, nil, &c
		}
		return f, nil, nil
	case key.Matches(msg, keys.NextField):
		return f, f.move(1), nil
	case key.Matches(msg, keys.PrevField):
		return f, f.move(-1), nil
	case key.Matches(msg, keys.RecallRecent):
		f.recall()
		return f, nil, nil
	}

	field := f.focused()
	if in, ok := f.inputs[field]; ok {
		before := in.Value()
		var cmd tea.Cmd
		in, cmd = in.Update(msg)
		f.inputs[field] = in
		if in.Value() != before {
			f.change(field, in.Value())
		}
		return f, cmd, nil
	}

	if key.Matches(msg, keys.Toggle) {
		f.toggle()
	}
	return f, nil, nil
}

// updateInput forwards non-key messages, such as cursor blinks, to the
// focused text input.
func (f searchForm) updateInput(msg tea.Msg) (searchForm, tea.Cmd) {
	field := f.focused()
	in, ok := f.inputs[field]
	if !ok {
		return f, nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	f.inputs[field] = in
	return f, cmd
}

// View renders the form panel.
func (f searchForm) View(theme Theme, width int) string {
	styles := theme.Styles()
	c := f.form.Criteria()
	errs := f.form.Errors()

	panelWidth := FormWidth
	if width-4 < panelWidth {
		panelWidth = width - 4
	}
	labelWidth := 11

	var b strings.Builder
	b.WriteString(styles.Logo.Render("✈ farefinder"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Search one-way and round-trip flights"))
	b.WriteString("\n\n")

	for i, field := range formOrder {
		focused := i == f.focus
		label := padRight(formLabels[field], labelWidth)
		if focused {
			b.WriteString(styles.AccentText.Bold(true).Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(" ")
		b.WriteString(f.renderField(field, c, styles, focused))
		b.WriteString("\n")

		if msg, ok := errs[field]; ok && f.touched {
			errStyle := styles.DangerText.Width(panelWidth - 6).PaddingLeft(labelWidth + 1)
			b.WriteString(errStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	hint := "enter search · tab next field · space toggle"
	if len(f.recents) > 0 {
		hint += " · ctrl+r recent"
	}
	b.WriteString(styles.FaintText.Render(hint))

	return modalFrame(theme, panelWidth).Render(b.String())
}

func (f searchForm) renderField(field search.Field, c search.Criteria, styles Styles, focused bool) string {
	inputStyle := styles.Input
	if focused {
		inputStyle = styles.InputFocused
	}

	if in, ok := f.inputs[field]; ok {
		return inputStyle.Render(padRight(in.View(), in.Width+1))
	}

	if field.IsCheckbox() {
		var checked bool
		switch field {
		case search.FieldDepartureIsCode:
			checked = c.DepartureIsCode
		case search.FieldArrivalIsCode:
			checked = c.ArrivalIsCode
		case search.FieldNonStop:
			checked = c.NonStop
		}
		box := ternary(checked, "[x]", "[ ]")
		text := box + " " + checkboxLabels[field]
		if focused {
			return styles.AccentText.Render(text)
		}
		return styles.Text.Render(text)
	}

	// Currency cycler.
	text := "‹ " + string(c.Currency) + " ›"
	if focused {
		return inputStyle.Render(lipgloss.NewStyle().Bold(true).Render(text))
	}
	return inputStyle.Render(text)
}
