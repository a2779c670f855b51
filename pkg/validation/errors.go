package validation

import (
	"errors"
	"strings"
)

// Code classifies a validation failure.
type Code string

const (
	EmptyRequired             Code = "empty_required"
	InvalidEmailFormat        Code = "invalid_email_format"
	InvalidPhoneFormat        Code = "invalid_phone_format"
	InvalidPropertyIdentifier Code = "invalid_property_identifier"
	EmailMismatch             Code = "email_mismatch"
)

// Codes lists every failure code in rule precedence order, followed by the
// cross-field email check.
func Codes() []Code {
	return []Code{
		EmptyRequired,
		InvalidEmailFormat,
		InvalidPhoneFormat,
		InvalidPropertyIdentifier,
		EmailMismatch,
	}
}

// Valid reports whether c is a known code.
func (c Code) Valid() bool {
	for _, candidate := range Codes() {
		if candidate == c {
			return true
		}
	}
	return false
}

// ErrInvalid matches any Errors value through errors.Is.
var ErrInvalid = errors.New("validation: form is invalid")

// FieldError describes one annotated failure.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Code    Code   `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Errors aggregates field failures and satisfies the error interface.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Is lets callers test with errors.Is(err, ErrInvalid).
func (e Errors) Is(target error) bool {
	return target == ErrInvalid && len(e) > 0
}

// Has reports whether field has at least one failure.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for field.
func (e Errors) Get(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// Fields returns the distinct field names in order of first failure.
func (e Errors) Fields() []string {
	seen := make(map[string]struct{}, len(e))
	var out []string
	for _, fe := range e {
		if _, ok := seen[fe.Field]; ok {
			continue
		}
		seen[fe.Field] = struct{}{}
		out = append(out, fe.Field)
	}
	return out
}

// ByCode returns the failures with the given code.
func (e Errors) ByCode(code Code) Errors {
	var out Errors
	for _, fe := range e {
		if fe.Code == code {
			out = append(out, fe)
		}
	}
	return out
}
