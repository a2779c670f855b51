package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// IsControl reports whether the element is a form control (input, select or
// textarea).
func (e *Element) IsControl() bool {
	switch e.Tag() {
	case "input", "select", "textarea":
		return true
	default:
		return false
	}
}

// Type returns the control's type the way HTMLInputElement.type would:
// lower-cased, defaulting to "text" for inputs. Selects report "select-one" or
// "select-multiple" and textareas report "textarea".
func (e *Element) Type() string {
	switch e.Tag() {
	case "input":
		kind := strings.ToLower(strings.TrimSpace(e.GetAttr("type")))
		if kind == "" {
			return "text"
		}
		return kind
	case "select":
		if e.HasAttr("multiple") {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	default:
		return ""
	}
}

// Required reports presence of the required attribute.
func (e *Element) Required() bool {
	return e.HasAttr("required")
}

// Value returns the control's current value. Inputs read the value attribute,
// textareas their text and selects the selected option (the first option when
// none is marked selected).
func (e *Element) Value() string {
	switch e.Tag() {
	case "textarea":
		return e.Text()
	case "select":
		options := e.Options()
		if len(options) == 0 {
			return ""
		}
		for _, option := range options {
			if option.HasAttr("selected") {
				return optionValue(option)
			}
		}
		return optionValue(options[0])
	default:
		return e.GetAttr("value")
	}
}

// SetValue updates the control's current value.
func (e *Element) SetValue(value string) {
	switch e.Tag() {
	case "textarea":
		e.SetText(value)
	case "select":
		for _, option := range e.Options() {
			if optionValue(option) == value {
				option.SetAttr("selected", "")
			} else {
				option.RemoveAttr("selected")
			}
		}
	default:
		e.SetAttr("value", value)
	}
}

// Controls returns every form control below e in document order.
func (e *Element) Controls() []*Element {
	var out []*Element
	e.walk(func(n *html.Node) bool {
		el := e.doc.wrap(n)
		if el.IsControl() {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Options returns the option elements below a select, optgroups included.
func (e *Element) Options() []*Element {
	var out []*Element
	e.walk(func(n *html.Node) bool {
		if n.Data == "option" {
			out = append(out, e.doc.wrap(n))
		}
		return true
	})
	return out
}

// OptionValue returns an option's value attribute, or its text when the
// attribute is absent.
func (e *Element) OptionValue() string {
	return optionValue(e)
}

func optionValue(option *Element) string {
	if value, ok := option.Attr("value"); ok {
		return value
	}
	return strings.TrimSpace(option.Text())
}
