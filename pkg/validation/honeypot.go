package validation

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Default honeypot markers.
var (
	DefaultHoneypotContainers = []string{".honeypot-field", ".gfield--type-honeypot"}
	DefaultHoneypotNames      = []string{`(?i)honeypot`, `^bot-field$`}
)

// HoneypotAttr is the form attribute naming its honeypot field.
const HoneypotAttr = "data-netlify-honeypot"

var formSelector = dom.MustCompile("form")

// HoneypotDetector decides whether a field is a bot trap.
type HoneypotDetector struct {
	containers dom.Selector
	names      []*regexp.Regexp
}

// NewHoneypotDetector builds a detector. A zero containers selector disables
// container ancestry checks.
func NewHoneypotDetector(containers dom.Selector, names []*regexp.Regexp) HoneypotDetector {
	return HoneypotDetector{containers: containers, names: names}
}

// DefaultHoneypotDetector uses DefaultHoneypotContainers and
// DefaultHoneypotNames.
func DefaultHoneypotDetector() HoneypotDetector {
	containers, err := dom.CompileAll(DefaultHoneypotContainers)
	if err != nil {
		panic(err)
	}
	names := make([]*regexp.Regexp, 0, len(DefaultHoneypotNames))
	for _, pattern := range DefaultHoneypotNames {
		names = append(names, regexp.MustCompile(pattern))
	}
	return NewHoneypotDetector(containers, names)
}

// IsHoneypot reports whether field is hidden from humans or flagged as a trap:
// unrendered or zero-sized, type hidden, inline display:none, tabindex -1,
// inside a honeypot container, or named like a trap (configured patterns and
// the owning form's data-netlify-honeypot attribute).
func (d HoneypotDetector) IsHoneypot(field *dom.Element) bool {
	if field == nil {
		return false
	}
	if !field.Rendered() || field.ZeroSize() || field.DisplayNone() {
		return true
	}
	if field.Type() == "hidden" {
		return true
	}
	if idx, ok := field.TabIndex(); ok && idx == -1 {
		return true
	}
	if !d.containers.IsZero() && field.Closest(d.containers) != nil {
		return true
	}
	return d.trapName(field)
}

func (d HoneypotDetector) trapName(field *dom.Element) bool {
	name := strings.TrimSpace(field.Name())
	if name == "" {
		return false
	}
	if form := field.Closest(formSelector); form != nil {
		if trap := strings.TrimSpace(form.GetAttr(HoneypotAttr)); trap != "" && trap == name {
			return true
		}
	}
	for _, pattern := range d.names {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}
