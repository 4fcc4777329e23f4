// Package form declares the shape and validation rules for every entity
// form submitted by a user. Validation is synchronous and total: on
// submit every field is checked and the first failing rule per field is
// reported. Dropdown-backed fields are validated against a freshly
// supplied choice set, never a static list.
package form

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind is the semantic type of a field.
type Kind string

const (
	Text     Kind = "text"
	Email    Kind = "email"
	Date     Kind = "date"
	Time     Kind = "time"
	Decimal  Kind = "decimal"
	Select   Kind = "select"
	TextArea Kind = "textarea"
	Password Kind = "password"
	Hidden   Kind = "hidden"
	File     Kind = "file"
)

const (
	dateLayout        = "2006-01-02"
	timeLayout        = "15:04"
	timeLayoutSeconds = "15:04:05"
)

var validate = validator.New()

// Choice is an allowed value for a select field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field declares one form field and its validation rules.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	MinLen   int      `json:"min_len,omitempty"`
	MaxLen   int      `json:"max_len,omitempty"`
	Min      float64  `json:"min,omitempty"`
	MinSet   bool     `json:"-"`
	Match    string   `json:"match,omitempty"`
	Choices  []Choice `json:"choices,omitempty"`
}

// Form is a declared field set plus, after Bind/Validate, the submitted
// values and any field-level errors.
type Form struct {
	Fields []Field           `json:"fields"`
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors,omitempty"`
}

func New(fields ...Field) *Form {
	return &Form{
		Fields: fields,
		Values: make(map[string]string),
		Errors: make(map[string]string),
	}
}

// SetChoices installs the request-time choice set for a select field.
func (f *Form) SetChoices(name string, choices []Choice) {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			f.Fields[i].Choices = choices
			return
		}
	}
}

// Set assigns a single field value, used to prefill edit forms.
func (f *Form) Set(name, value string) {
	f.Values[name] = value
}

// Bind retains the submitted values so a failed validation re-renders
// the form with them intact.
func (f *Form) Bind(values map[string]string) {
	for _, field := range f.Fields {
		if v, ok := values[field.Name]; ok {
			f.Values[field.Name] = v
		}
	}
}

// Get returns the current value of a field.
func (f *Form) Get(name string) string {
	return f.Values[name]
}

// Decimal returns the parsed amount of a decimal field, rounded to two
// places. Only meaningful after a successful Validate.
func (f *Form) Decimal(name string) float64 {
	v, _ := strconv.ParseFloat(f.Values[name], 64)
	return math.Round(v*100) / 100
}

// Validate checks every field and reports the first failing rule per
// field. Returns true when the whole form is valid.
func (f *Form) Validate() bool {
	f.Errors = make(map[string]string)
	for _, field := range f.Fields {
		if msg := f.check(field); msg != "" {
			f.Errors[field.Name] = msg
		}
	}
	return len(f.Errors) == 0
}

func (f *Form) check(field Field) string {
	value := f.Values[field.Name]

	if value == "" {
		if field.Required {
			return fmt.Sprintf("%s is required", field.Label)
		}
		return ""
	}

	switch field.Kind {
	case Email:
		if err := validate.Var(value, "email"); err != nil {
			return fmt.Sprintf("%s must be a valid email address", field.Label)
		}
	case Date:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field.Label)
		}
	case Time:
		if _, err := NormalizeTime(value); err != nil {
			return fmt.Sprintf("%s must be a valid time (HH:MM)", field.Label)
		}
	case Decimal:
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Sprintf("%s must be a number", field.Label)
		}
		if field.MinSet && math.Round(amount*100)/100 < field.Min {
			return fmt.Sprintf("%s must be at least %.2f", field.Label, field.Min)
		}
	case Select:
		found := false
		for _, c := range field.Choices {
			if c.Value == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("%s is not a valid choice", field.Label)
		}
	}

	if field.MinLen > 0 && len(value) < field.MinLen {
		return fmt.Sprintf("%s must be at least %d characters", field.Label, field.MinLen)
	}
	if field.MaxLen > 0 && len(value) > field.MaxLen {
		return fmt.Sprintf("%s must not exceed %d characters", field.Label, field.MaxLen)
	}

	if field.Match != "" && value != f.Values[field.Match] {
		return fmt.Sprintf("%s does not match", field.Label)
	}

	return ""
}

// NormalizeTime accepts both HH:MM and HH:MM:SS, whichever the store
// returns, and yields the canonical HH:MM form.
func NormalizeTime(value string) (string, error) {
	if t, err := time.Parse(timeLayoutSeconds, value); err == nil {
		return t.Format(timeLayout), nil
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid time %q", value)
	}
	return t.Format(timeLayout), nil
}
