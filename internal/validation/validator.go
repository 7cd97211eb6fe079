// Package validation checks user input before it is sent to the API, using validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/go-playground/validator/v10"
)

// MinPublicationYear is the earliest accepted publication year.
const MinPublicationYear = 1000

var digitsOnly = regexp.MustCompile(`^\s*[0-9]+\s*$`)

// Error carries one message per invalid field, keyed by JSON field name.
type Error struct {
	Fields map[string]string
}

// Field builds an [Error] for a single field.
func Field(name, message string) *Error {
	return &Error{Fields: map[string]string{name: message}}
}

// Error renders "field message" pairs sorted by field name.
func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets callers match on [shared.ErrInvalidInput].
func (e *Error) Unwrap() error { return shared.ErrInvalidInput }

// Validator wraps go-playground/validator with readtrack's custom rules.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New creates a validator whose pubyear rule is bounded by the current year.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock creates a validator that reads the current year from now.
func NewWithClock(now func() time.Time) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	val := &Validator{v: v, now: now}

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		return !digitsOnly.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pubyear", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= MinPublicationYear && year <= int64(val.now().Year())
	})

	return val
}

// Validate validates a struct and returns an [*Error] describing each failed field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	out := &Error{Fields: make(map[string]string, len(fieldErrs))}
	for _, e := range fieldErrs {
		out.Fields[e.Field()] = v.friendlyMessage(e)
	}
	return out
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	text := e.Kind() == reflect.String

	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "notnumeric":
		return "cannot be only numbers."
	case "pubyear":
		return fmt.Sprintf("must be between %d and %d", MinPublicationYear, v.now().Year())
	case "min", "gte":
		if text {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max", "lte":
		if text {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
