package dom

import (
	"strconv"
	"strings"
)

// InlineStyle returns the value of a property declared in the style
// attribute, lower-cased and without `!important`. Later declarations win.
func (e *Element) InlineStyle(property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	value := ""
	for _, decl := range strings.Split(e.GetAttr("style"), ";") {
		name, raw, ok := strings.Cut(decl, ":")
		if !ok || strings.ToLower(strings.TrimSpace(name)) != property {
			continue
		}
		raw = strings.ToLower(strings.TrimSpace(raw))
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "!important"))
		value = raw
	}
	return value
}

// DisplayNone reports an inline `display: none` on the element itself.
func (e *Element) DisplayNone() bool {
	return e.InlineStyle("display") == "none"
}

// Rendered approximates `offsetParent !== null`: the element and every
// ancestor must be free of the hidden attribute and of inline display:none.
func (e *Element) Rendered() bool {
	for el := e; el != nil; el = el.Parent() {
		if el.HasAttr("hidden") || el.DisplayNone() {
			return false
		}
	}
	return true
}

// ZeroSize reports an inline width or height that resolves to zero.
func (e *Element) ZeroSize() bool {
	return isZeroLength(e.InlineStyle("width")) || isZeroLength(e.InlineStyle("height"))
}

// TabIndex returns the parsed tabindex attribute and whether it is present and
// numeric.
func (e *Element) TabIndex() (int, bool) {
	raw, ok := e.Attr("tabindex")
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return value, true
}

func isZeroLength(raw string) bool {
	if raw == "" {
		return false
	}
	for _, unit := range []string{"px", "rem", "em", "%", "vw", "vh", "pt"} {
		if strings.HasSuffix(raw, unit) {
			raw = strings.TrimSuffix(raw, unit)
			break
		}
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return value == 0
}
