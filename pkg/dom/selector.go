package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector is a compiled CSS selector group ("a, b > c").
type Selector struct {
	raw   string
	match cascadia.Selector
}

// Compile parses a CSS selector group.
func Compile(raw string) (Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Selector{}, fmt.Errorf("dom: empty selector")
	}
	compiled, err := cascadia.Compile(trimmed)
	if err != nil {
		return Selector{}, fmt.Errorf("dom: compile selector %q: %w", trimmed, err)
	}
	return Selector{raw: trimmed, match: compiled}, nil
}

// MustCompile is like Compile but panics on invalid input. Intended for
// package-level defaults.
func MustCompile(raw string) Selector {
	sel, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// CompileAll joins the provided selectors into one group. Blank entries are
// ignored.
func CompileAll(raw []string) (Selector, error) {
	parts := make([]string, 0, len(raw))
	for _, candidate := range raw {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return Compile(strings.Join(parts, ", "))
}

// String returns the source text of the selector.
func (s Selector) String() string {
	return s.raw
}

// IsZero reports whether the selector was never compiled.
func (s Selector) IsZero() bool {
	return s.match == nil
}

func (s Selector) matches(n *html.Node) bool {
	if s.match == nil || n == nil || n.Type != html.ElementNode {
		return false
	}
	return s.match.Match(n)
}
