package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/readtrack/internal/validation"
)

// FieldKind selects the input a form field uses.
type FieldKind int

const (
	TextField FieldKind = iota
	NumberField
	SecretField
	ChoiceField
)

// Values holds the current form input keyed by field.
type Values map[string]string

// Int reads a number field. Blank or malformed input is 0.
func (v Values) Int(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v[key]))
	if err != nil {
		return 0
	}
	return n
}

// Field describes one input of a [FormSpec]. Key doubles as the JSON field
// name so validation errors can be attached to it.
type Field struct {
	Key         string
	Label       string
	Kind        FieldKind
	Placeholder string
	Value       string
	Choices     []string
	Validate    func(string) error
}

// FormSpec configures a [Form]. Every form in the TUI is an instance of it.
type FormSpec struct {
	Title  string
	Fields []Field
	// OnChange may rewrite values after the field named key was edited.
	OnChange func(key string, v Values) Values
	// Check runs before Submit. An error keeps the form open and nothing is sent.
	Check  func(v Values) error
	Submit func(ctx context.Context, v Values) error
	// Done runs after Submit succeeds.
	Done func() tea.Cmd
	// Preview renders extra lines under the fields, such as a progress bar.
	Preview func(v Values) string
}

type formField struct {
	Field
	input  textinput.Model
	choice int
}

// Form renders a [FormSpec] and collects its input.
type Form struct {
	spec    FormSpec
	fields  []formField
	focus   int
	pending bool
	err     error
	errs    map[string]string
}

// NewForm builds the inputs for spec with their initial values.
func NewForm(spec FormSpec) *Form {
	f := &Form{spec: spec, errs: map[string]string{}}
	for _, fd := range spec.Fields {
		ff := formField{Field: fd}
		if fd.Kind == ChoiceField {
			ff.choice = max(slices.Index(fd.Choices, fd.Value), 0)
		} else {
			ff.input = newInput(fd.Placeholder)
			ff.input.SetValue(fd.Value)
			ff.input.CursorEnd()
			switch fd.Kind {
			case NumberField:
				ff.input.CharLimit = 9
			case SecretField:
				ff.input.EchoMode = textinput.EchoPassword
				ff.input.EchoCharacter = '•'
			}
		}
		f.fields = append(f.fields, ff)
	}
	f.setFocus(0)
	return f
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

// Title is the heading of the form.
func (f *Form) Title() string { return f.spec.Title }

// Values returns the current input of every field.
func (f *Form) Values() Values {
	v := make(Values, len(f.fields))
	for _, ff := range f.fields {
		if ff.Kind == ChoiceField {
			if len(ff.Choices) > 0 {
				v[ff.Key] = ff.Choices[ff.choice]
			}
			continue
		}
		v[ff.Key] = ff.input.Value()
	}
	return v
}

func (f *Form) setValues(v Values) {
	for i := range f.fields {
		ff := &f.fields[i]
		val, ok := v[ff.Key]
		if !ok {
			continue
		}
		if ff.Kind == ChoiceField {
			if j := slices.Index(ff.Choices, val); j >= 0 {
				ff.choice = j
			}
			continue
		}
		if ff.input.Value() != val {
			ff.input.SetValue(val)
			ff.input.CursorEnd()
		}
	}
}

func (f *Form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for j := range f.fields {
		if f.fields[j].Kind == ChoiceField {
			continue
		}
		if j == f.focus {
			cmd = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	return cmd
}

func (f *Form) changed(key string) {
	if f.spec.OnChange == nil {
		return
	}
	f.setValues(f.spec.OnChange(key, f.Values()))
}

// Update handles a key press. submit is true when the user asked to submit,
// no submit is pending and every check passed.
func (f *Form) Update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	if len(f.fields) == 0 {
		return false, nil
	}

	switch msg.String() {
	case "tab", "down":
		return false, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return false, f.setFocus(f.focus - 1)
	case "ctrl+s":
		return f.validate(), nil
	case "enter":
		if f.focus < len(f.fields)-1 {
			return false, f.setFocus(f.focus + 1)
		}
		return f.validate(), nil
	}

	ff := &f.fields[f.focus]
	if ff.Kind == ChoiceField {
		switch msg.String() {
		case "left", "h":
			f.cycle(ff, -1)
		case "right", "l", " ":
			f.cycle(ff, 1)
		}
		return false, nil
	}

	before := ff.input.Value()
	ff.input, cmd = ff.input.Update(msg)
	if ff.input.Value() != before {
		delete(f.errs, ff.Key)
		f.changed(ff.Key)
	}
	return false, cmd
}

func (f *Form) cycle(ff *formField, step int) {
	if len(ff.Choices) == 0 {
		return
	}
	ff.choice = (ff.choice + step + len(ff.Choices)) % len(ff.Choices)
	f.changed(ff.Key)
}

func (f *Form) validate() bool {
	if f.pending {
		return false
	}
	f.err = nil
	clear(f.errs)

	v := f.Values()
	for _, ff := range f.fields {
		if ff.Validate == nil {
			continue
		}
		if err := ff.Validate(v[ff.Key]); err != nil {
			f.errs[ff.Key] = err.Error()
		}
	}
	if len(f.errs) > 0 {
		return false
	}
	if f.spec.Check != nil {
		if err := f.spec.Check(v); err != nil {
			f.SetError(err)
			return false
		}
	}
	return true
}

func (f *Form) has(key string) bool {
	return slices.ContainsFunc(f.fields, func(ff formField) bool { return ff.Key == key })
}

// SetError shows err on the form. Field messages of a [validation.Error] are
// attached to their inputs; anything else is shown under the form.
func (f *Form) SetError(err error) {
	clear(f.errs)
	f.err = err

	var verr *validation.Error
	if !errors.As(err, &verr) {
		return
	}
	attached := 0
	for name, msg := range verr.Fields {
		if f.has(name) {
			f.errs[name] = msg
			attached++
		}
	}
	if attached == len(verr.Fields) {
		f.err = nil
	}
}

// Err returns the form-level error, if any.
func (f *Form) Err() error { return f.err }

// FieldError returns the message attached to the field named key.
func (f *Form) FieldError(key string) string { return f.errs[key] }

func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(f.spec.Title))
	b.WriteString("\n")

	for i, ff := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = styles.accent.Render("> ")
		}

		var value string
		if ff.Kind == ChoiceField {
			value = renderChoices(ff.Choices, ff.choice, i == f.focus)
		} else {
			value = ff.input.View()
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, styles.label.Render(ff.Label), value)

		if msg, ok := f.errs[ff.Key]; ok {
			fmt.Fprintf(&b, "    %s\n", styles.err.Render(ff.Key+" "+msg))
		}
	}

	if f.spec.Preview != nil {
		if p := f.spec.Preview(f.Values()); p != "" {
			b.WriteString("\n" + p + "\n")
		}
	}
	if f.err != nil {
		b.WriteString("\n" + styles.err.Render(f.err.Error()) + "\n")
	}
	if f.pending {
		b.WriteString("\n" + styles.warn.Render("Saving...") + "\n")
	}
	return b.String()
}

func renderChoices(choices []string, selected int, focused bool) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		switch {
		case i == selected && focused:
			parts[i] = styles.accent.Render("[" + c + "]")
		case i == selected:
			parts[i] = "[" + c + "]"
		default:
			parts[i] = styles.help.Render(" " + c + " ")
		}
	}
	return strings.Join(parts, " ")
}

// wholeNumber accepts blank input or a non-negative integer.
func wholeNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return errors.New("must be a whole number")
	}
	return nil
}
