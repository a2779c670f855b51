// Package binding attaches form validation to a dom.Document: blur listeners
// on every field and a submit listener on every target form, plus optional
// named global entry points for hosts whose form widgets call a function by
// name instead of dispatching submit. Init returns a Binding whose Dispose
// detaches everything it attached.
package binding

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// DefaultTargetSelector matches forms hosted by Netlify Forms.
const DefaultTargetSelector = `form[data-netlify="true"]`

// ErrNilDocument is returned when Init receives no document.
var ErrNilDocument = errors.New("binding: document is nil")

// ResultHook observes every submit verdict.
type ResultHook func(form *dom.Element, result validation.Result)

// Option configures Init.
type Option func(*config)

type config struct {
	targets   []dom.Selector
	validator *validation.Validator
	globals   []string
	hooks     []ResultHook
	logger    *slog.Logger
}

// WithTargetSelectors replaces the selectors identifying target forms.
func WithTargetSelectors(selectors ...dom.Selector) Option {
	return func(cfg *config) {
		var out []dom.Selector
		for _, sel := range selectors {
			if !sel.IsZero() {
				out = append(out, sel)
			}
		}
		if len(out) > 0 {
			cfg.targets = out
		}
	}
}

// WithValidator supplies the validator used by every listener.
func WithValidator(v *validation.Validator) Option {
	return func(cfg *config) {
		if v != nil {
			cfg.validator = v
		}
	}
}

// WithGlobalName exposes the form validator under name in the document's
// globals registry, e.g. "validateForm" for `onsubmit="return validateForm(this)"`.
func WithGlobalName(names ...string) Option {
	return func(cfg *config) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.globals = append(cfg.globals, trimmed)
			}
		}
	}
}

// WithResultHook registers a callback receiving every submit verdict.
func WithResultHook(hook ResultHook) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.hooks = append(cfg.hooks, hook)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Binding tracks what Init attached so Dispose can undo it.
type Binding struct {
	doc      *dom.Document
	forms    []*dom.Element
	removers []func()
	globals  []string
	logger   *slog.Logger
}

// Init discovers target forms in doc and wires validation into them.
func Init(doc *dom.Document, options ...Option) (*Binding, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	cfg := config{
		targets: []dom.Selector{dom.MustCompile(DefaultTargetSelector)},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.validator == nil {
		cfg.validator = validation.New(validation.WithLogger(cfg.logger))
	}

	b := &Binding{doc: doc, logger: cfg.logger}
	b.forms = discover(doc, cfg.targets)
	if len(b.forms) == 0 {
		cfg.logger.Warn("no target forms found", slog.Int("selectors", len(cfg.targets)))
	}

	v := cfg.validator
	for _, form := range b.forms {
		b.attachForm(form, v, cfg.hooks)
	}

	for _, name := range cfg.globals {
		doc.Define(name, func(form *dom.Element) bool {
			return v.ValidateForm(form)
		})
		b.globals = append(b.globals, name)
	}

	return b, nil
}

// Forms returns the target forms found during Init, in document order.
func (b *Binding) Forms() []*dom.Element {
	return append([]*dom.Element(nil), b.forms...)
}

// Dispose detaches every listener and global registered by Init. It is safe
// to call more than once.
func (b *Binding) Dispose() {
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	for _, name := range b.globals {
		b.doc.Undefine(name)
	}
	b.globals = nil
}

func (b *Binding) attachForm(form *dom.Element, v *validation.Validator, hooks []ResultHook) {
	name := form.Name()
	b.logger.Debug("attaching validation", slog.String("form", name))

	for _, field := range form.Controls() {
		if v.IsHoneypot(field) {
			continue
		}
		b.removers = append(b.removers, field.On(dom.EventBlur, func(*dom.Event) {
			v.ValidateField(field)
		}))
	}

	b.removers = append(b.removers, form.On(dom.EventSubmit, func(ev *dom.Event) {
		result := v.Validate(form)
		for _, hook := range hooks {
			hook(form, result)
		}
		if result.Valid {
			b.logger.Info("submission allowed", slog.String("form", name))
			return
		}
		b.logger.Info("submission blocked",
			slog.String("form", name),
			slog.Int("errors", len(result.Errors)),
		)
		ev.PreventDefault()
		ev.StopPropagation()
		ev.StopImmediatePropagation()
	}))
}

func discover(doc *dom.Document, targets []dom.Selector) []*dom.Element {
	var forms []*dom.Element
	for _, form := range doc.Root().Filter(func(el *dom.Element) bool { return el.Tag() == "form" }) {
		for _, sel := range targets {
			if form.Matches(sel) {
				forms = append(forms, form)
				break
			}
		}
	}
	return forms
}
