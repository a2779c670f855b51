package validation

import (
	"io"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Default selectors and class names for Gravity-style form markup.
const (
	DefaultContainerSelector  = ".gfield"
	DefaultRequiredSelector   = "[required]"
	DefaultEmailGroupSelector = ".ginput_container_email"
	DefaultErrorClass         = "field-error"
	DefaultMessageClass       = "field-error-message"
)

// Theme tokens that override the error and message classes.
const (
	ThemeTokenErrorClass   = "formguard.error-class"
	ThemeTokenMessageClass = "formguard.message-class"
)

// Classes names the CSS classes the validator writes.
type Classes struct {
	Error   string
	Message string
}

// DefaultClasses returns field-error / field-error-message.
func DefaultClasses() Classes {
	return Classes{Error: DefaultErrorClass, Message: DefaultMessageClass}
}

// ClassesFromTheme overlays class tokens from a go-theme selection on top of
// fallback.
func ClassesFromTheme(selection *theme.Selection, fallback Classes) Classes {
	if selection == nil || selection.Manifest == nil {
		return fallback
	}
	out := fallback
	if value := strings.TrimSpace(selection.Manifest.Tokens[ThemeTokenErrorClass]); value != "" {
		out.Error = value
	}
	if value := strings.TrimSpace(selection.Manifest.Tokens[ThemeTokenMessageClass]); value != "" {
		out.Message = value
	}
	return out
}

// Option configures a Validator.
type Option func(*config)

type config struct {
	rules      Rules
	messages   map[Code]string
	honeypot   *HoneypotDetector
	container  dom.Selector
	required   dom.Selector
	emailGroup dom.Selector
	classes    Classes
	logger     *slog.Logger
	scroll     dom.ScrollOptions
}

// WithRules replaces the rule table.
func WithRules(rules Rules) Option {
	return func(cfg *config) {
		if rules != nil {
			cfg.rules = rules
		}
	}
}

// WithMessages overrides messages per code, including EmailMismatch.
func WithMessages(messages map[Code]string) Option {
	return func(cfg *config) {
		if len(messages) == 0 {
			return
		}
		if cfg.messages == nil {
			cfg.messages = make(map[Code]string, len(messages))
		}
		for code, msg := range messages {
			cfg.messages[code] = msg
		}
	}
}

// WithHoneypotDetector replaces the honeypot detector.
func WithHoneypotDetector(detector HoneypotDetector) Option {
	return func(cfg *config) {
		cfg.honeypot = &detector
	}
}

// WithContainerSelector sets the selector locating a field's container.
func WithContainerSelector(sel dom.Selector) Option {
	return func(cfg *config) {
		if !sel.IsZero() {
			cfg.container = sel
		}
	}
}

// WithRequiredSelector sets the selector choosing which fields a form pass
// validates.
func WithRequiredSelector(sel dom.Selector) Option {
	return func(cfg *config) {
		if !sel.IsZero() {
			cfg.required = sel
		}
	}
}

// WithEmailGroupSelector sets the selector for paired email groups.
func WithEmailGroupSelector(sel dom.Selector) Option {
	return func(cfg *config) {
		if !sel.IsZero() {
			cfg.emailGroup = sel
		}
	}
}

// WithClasses overrides the error and message class names. Blank entries keep
// the defaults.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		if v := strings.TrimSpace(classes.Error); v != "" {
			cfg.classes.Error = v
		}
		if v := strings.TrimSpace(classes.Message); v != "" {
			cfg.classes.Message = v
		}
	}
}

// WithThemeSelection reads class overrides from a go-theme selection.
func WithThemeSelection(selection *theme.Selection) Option {
	return func(cfg *config) {
		cfg.classes = ClassesFromTheme(selection, cfg.classes)
	}
}

// WithScrollOptions changes how the first error is revealed.
func WithScrollOptions(opts dom.ScrollOptions) Option {
	return func(cfg *config) {
		cfg.scroll = opts
	}
}

// WithLogger sets the logger; nil keeps the discarding default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func defaultConfig() config {
	return config{
		rules:      DefaultRules(),
		container:  dom.MustCompile(DefaultContainerSelector),
		required:   dom.MustCompile(DefaultRequiredSelector),
		emailGroup: dom.MustCompile(DefaultEmailGroupSelector),
		classes:    DefaultClasses(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		scroll:     dom.SmoothCenter,
	}
}
