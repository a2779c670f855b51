// Package formguard validates lead-capture forms held in an HTML document.
// It skips honeypot traps, checks required, email, phone and property/APN
// fields, writes inline error annotations and blocks submission until the
// form is clean.
//
// The root package re-exports the common entry points; see pkg/validation,
// pkg/binding and pkg/dom for the full API.
package formguard

import (
	"fmt"
	"io"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/binding"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/render"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// Result aliases validation.Result for callers importing only the root package.
type Result = validation.Result

// Parse reads an HTML page into a document.
func Parse(r io.Reader) (*dom.Document, error) {
	return dom.Parse(r)
}

// Validate runs a full submit validation of form with the default rule set.
func Validate(form *dom.Element, options ...validation.Option) Result {
	return validation.New(options...).Validate(form)
}

// Bind attaches blur and submit validation to every target form in doc.
func Bind(doc *dom.Document, options ...binding.Option) (*binding.Binding, error) {
	return binding.Init(doc, options...)
}

// WithThemeSelector resolves name/variant through selector and returns a
// validation option applying the theme's class tokens.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) (validation.Option, error) {
	if selector == nil {
		return validation.WithThemeSelection(nil), nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("formguard: select theme %q: %w", name, err)
	}
	return validation.WithThemeSelection(selection), nil
}

// NewRenderers returns a registry with the embedded text and HTML report
// templates and the JSON renderer.
func NewRenderers() (*render.Registry, error) {
	return render.NewDefaultRegistry(TemplatesFS())
}
