package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})$`)
	propertyPattern = regexp.MustCompile(`^[A-Za-z0-9 \-#./]{5,}$`)
	apnNamePattern  = regexp.MustCompile(`(?i)(^|[^a-z])apn([^a-z]|$)`)
)

// Default messages, keyed by code.
var DefaultMessages = map[Code]string{
	EmptyRequired:             "This field is required",
	InvalidEmailFormat:        "Please enter a valid email address",
	InvalidPhoneFormat:        "Please enter a valid phone number",
	InvalidPropertyIdentifier: "Please enter a valid property address or APN",
	EmailMismatch:             "Email addresses do not match",
}

// Field is the read-only view a rule sees. Value is already trimmed.
type Field struct {
	Name     string
	Type     string
	Required bool
	Value    string
}

// Rule is one row of the rule table. Applies decides whether the rule runs for
// a field; Check validates the current value and may return a normalised
// replacement that later rules and the field itself receive.
type Rule struct {
	Code    Code
	Message string
	Applies func(Field) bool
	Check   func(value string) (string, bool)
}

// Rules is an ordered rule table evaluated until the first failure.
type Rules []Rule

// Outcome is the result of evaluating a rule table against one field.
type Outcome struct {
	Value string
	Err   *FieldError
}

// Failed reports whether a rule rejected the field.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// DefaultRules returns the standard table: required, email, phone (with
// DDD-DDD-DDDD normalisation) and property identifier for APN/address fields.
func DefaultRules() Rules {
	return Rules{
		{
			Code:    EmptyRequired,
			Message: DefaultMessages[EmptyRequired],
			Applies: func(f Field) bool { return f.Required },
			Check: func(value string) (string, bool) {
				return value, value != ""
			},
		},
		{
			Code:    InvalidEmailFormat,
			Message: DefaultMessages[InvalidEmailFormat],
			Applies: func(f Field) bool { return f.Type == "email" && f.Value != "" },
			Check: func(value string) (string, bool) {
				return value, emailPattern.MatchString(value)
			},
		},
		{
			Code:    InvalidPhoneFormat,
			Message: DefaultMessages[InvalidPhoneFormat],
			Applies: func(f Field) bool { return f.Type == "tel" && f.Value != "" },
			Check:   NormalizePhone,
		},
		{
			Code:    InvalidPropertyIdentifier,
			Message: DefaultMessages[InvalidPropertyIdentifier],
			Applies: func(f Field) bool {
				return f.Value != "" && f.Type != "email" && f.Type != "tel" && IsPropertyField(f.Name)
			},
			Check: func(value string) (string, bool) {
				return value, propertyPattern.MatchString(value)
			},
		},
	}
}

// NormalizePhone validates a North American number and rewrites it as
// DDD-DDD-DDDD.
func NormalizePhone(value string) (string, bool) {
	groups := phonePattern.FindStringSubmatch(value)
	if groups == nil {
		return value, false
	}
	return fmt.Sprintf("%s-%s-%s", groups[1], groups[2], groups[3]), true
}

// IsPropertyField reports whether a field name marks an APN or address input.
func IsPropertyField(name string) bool {
	if strings.Contains(strings.ToLower(name), "address") {
		return true
	}
	return apnNamePattern.MatchString(name)
}

// Evaluate runs the table against f and stops at the first failing rule.
func (r Rules) Evaluate(f Field) Outcome {
	value := f.Value
	for _, rule := range r {
		if rule.Check == nil {
			continue
		}
		view := f
		view.Value = value
		if rule.Applies != nil && !rule.Applies(view) {
			continue
		}
		next, ok := rule.Check(value)
		if !ok {
			return Outcome{
				Value: value,
				Err:   &FieldError{Field: f.Name, Code: rule.Code, Message: rule.Message},
			}
		}
		value = next
	}
	return Outcome{Value: value}
}

// WithMessages returns a copy of the table with messages replaced for the
// codes present in overrides. Blank overrides are ignored.
func (r Rules) WithMessages(overrides map[Code]string) Rules {
	out := make(Rules, len(r))
	copy(out, r)
	for idx := range out {
		if msg := strings.TrimSpace(overrides[out[idx].Code]); msg != "" {
			out[idx].Message = msg
		}
	}
	return out
}

// Without returns a copy of the table minus the rules with the given codes.
func (r Rules) Without(codes ...Code) Rules {
	drop := make(map[Code]struct{}, len(codes))
	for _, code := range codes {
		drop[code] = struct{}{}
	}
	out := make(Rules, 0, len(r))
	for _, rule := range r {
		if _, ok := drop[rule.Code]; ok {
			continue
		}
		out = append(out, rule)
	}
	return out
}
