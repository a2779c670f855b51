package render

import (
	"sort"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// CodeServer tags field messages that came from a backend payload rather than
// a client-side rule.
const CodeServer validation.Code = "server"

// Report is the template view of one validated form.
type Report struct {
	Form       string            `json:"form"`
	Valid      bool              `json:"valid"`
	Fields     []FieldReport     `json:"fields,omitempty"`
	FormErrors []string          `json:"form_errors,omitempty"`
	Normalized []NormalizedValue `json:"normalized,omitempty"`
}

// FieldReport is one annotated field.
type FieldReport struct {
	Field   string          `json:"field"`
	Code    validation.Code `json:"code"`
	Message string          `json:"message"`
}

// NormalizedValue records a value rewritten during validation.
type NormalizedValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// NewReport builds a report from a submit verdict.
func NewReport(form string, result validation.Result) Report {
	report := Report{Form: form, Valid: result.Valid}
	for _, fe := range result.Errors {
		report.Fields = append(report.Fields, FieldReport{Field: fe.Field, Code: fe.Code, Message: fe.Message})
	}

	names := make([]string, 0, len(result.Normalized))
	for name := range result.Normalized {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		report.Normalized = append(report.Normalized, NormalizedValue{Field: name, Value: result.Normalized[name]})
	}
	return report
}

// MergeServerErrors folds a backend payload into the report. Messages keyed
// by a known control become field entries; everything else is form-level.
// Any merged message marks the report invalid.
func (r *Report) MergeServerErrors(fieldNames []string, payload map[string][]string) {
	mapping := MapErrorPayload(fieldNames, payload)

	names := make([]string, 0, len(mapping.Fields))
	for name := range mapping.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, message := range mapping.Fields[name] {
			r.Fields = append(r.Fields, FieldReport{Field: name, Code: CodeServer, Message: message})
		}
	}
	r.FormErrors = MergeFormErrors(r.FormErrors, mapping.Form...)
	if len(mapping.Fields) > 0 || len(r.FormErrors) > 0 {
		r.Valid = false
	}
}

// FieldNames lists the name (or id) of every control in form, in document
// order, for use with MergeServerErrors.
func FieldNames(form *dom.Element) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, control := range form.Controls() {
		name := control.Name()
		if name == "" {
			name = control.ID()
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
