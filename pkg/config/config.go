// Package config loads go-formguard settings from YAML with environment
// overrides (FORMGUARD_ prefix) and turns them into validation and binding
// options. Selectors and honeypot name patterns are compiled by Validate so a
// bad configuration fails at load time rather than on first submit.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/binding"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMGUARD_"

var (
	ErrInvalidSelector = errors.New("config: invalid selector")
	ErrInvalidPattern  = errors.New("config: invalid honeypot pattern")
	ErrUnknownCode     = errors.New("config: unknown message code")
)

// Config is the on-disk configuration.
type Config struct {
	Targets            []string          `yaml:"targets" env:"TARGETS" envSeparator:","`
	ContainerSelector  string            `yaml:"container_selector" env:"CONTAINER_SELECTOR"`
	RequiredSelector   string            `yaml:"required_selector" env:"REQUIRED_SELECTOR"`
	EmailGroupSelector string            `yaml:"email_group_selector" env:"EMAIL_GROUP_SELECTOR"`
	Globals            []string          `yaml:"globals" env:"GLOBALS" envSeparator:","`
	Classes            Classes           `yaml:"classes" envPrefix:"CLASS_"`
	Honeypot           Honeypot          `yaml:"honeypot" envPrefix:"HONEYPOT_"`
	Messages           map[string]string `yaml:"messages"`
	Log                Log               `yaml:"log" envPrefix:"LOG_"`
	Theme              Theme             `yaml:"theme" envPrefix:"THEME_"`
}

// Classes overrides the CSS class names written by the validator.
type Classes struct {
	Error   string `yaml:"error" env:"ERROR"`
	Message string `yaml:"message" env:"MESSAGE"`
}

// Honeypot configures trap detection.
type Honeypot struct {
	Containers []string `yaml:"containers" env:"CONTAINERS" envSeparator:","`
	Names      []string `yaml:"names" env:"NAMES" envSeparator:","`
}

// Log configures the CLI logger.
type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Theme carries a go-theme selection inline; Tokens may override class names.
type Theme struct {
	Name    string            `yaml:"name" env:"NAME"`
	Variant string            `yaml:"variant" env:"VARIANT"`
	Tokens  map[string]string `yaml:"tokens"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Targets:            []string{binding.DefaultTargetSelector},
		ContainerSelector:  validation.DefaultContainerSelector,
		RequiredSelector:   validation.DefaultRequiredSelector,
		EmailGroupSelector: validation.DefaultEmailGroupSelector,
		Classes: Classes{
			Error:   validation.DefaultErrorClass,
			Message: validation.DefaultMessageClass,
		},
		Honeypot: Honeypot{
			Containers: append([]string(nil), validation.DefaultHoneypotContainers...),
			Names:      append([]string(nil), validation.DefaultHoneypotNames...),
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decode(bytes.NewReader(raw), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults without consulting the
// environment.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays FORMGUARD_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate compiles every selector and pattern, checks message codes and
// strips markup from messages.
func (c *Config) Validate() error {
	if _, err := c.targets(); err != nil {
		return err
	}
	for label, raw := range map[string]string{
		"container_selector":   c.ContainerSelector,
		"required_selector":    c.RequiredSelector,
		"email_group_selector": c.EmailGroupSelector,
	} {
		if _, err := compileOptional(raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSelector, label, err)
		}
	}
	if _, err := c.honeypotDetector(); err != nil {
		return err
	}

	for key, msg := range c.Messages {
		if !validation.Code(key).Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCode, key)
		}
		c.Messages[key] = sanitizeMessage(msg)
	}
	return nil
}

// ThemeSelection builds a go-theme selection from the inline theme block, or
// nil when none is configured.
func (c Config) ThemeSelection() *theme.Selection {
	if strings.TrimSpace(c.Theme.Name) == "" && len(c.Theme.Tokens) == 0 {
		return nil
	}
	return &theme.Selection{
		Theme:   c.Theme.Name,
		Variant: c.Theme.Variant,
		Manifest: &theme.Manifest{
			Name:   c.Theme.Name,
			Tokens: c.Theme.Tokens,
		},
	}
}

// ValidatorOptions converts the configuration into validation options.
func (c Config) ValidatorOptions(logger *slog.Logger) ([]validation.Option, error) {
	detector, err := c.honeypotDetector()
	if err != nil {
		return nil, err
	}
	opts := []validation.Option{
		validation.WithHoneypotDetector(detector),
		validation.WithClasses(validation.Classes{Error: c.Classes.Error, Message: c.Classes.Message}),
		validation.WithThemeSelection(c.ThemeSelection()),
		validation.WithLogger(logger),
	}

	selectors := []struct {
		raw  string
		wrap func(dom.Selector) validation.Option
	}{
		{c.ContainerSelector, validation.WithContainerSelector},
		{c.RequiredSelector, validation.WithRequiredSelector},
		{c.EmailGroupSelector, validation.WithEmailGroupSelector},
	}
	for _, entry := range selectors {
		sel, err := compileOptional(entry.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
		}
		opts = append(opts, entry.wrap(sel))
	}

	if len(c.Messages) > 0 {
		messages := make(map[validation.Code]string, len(c.Messages))
		for key, msg := range c.Messages {
			messages[validation.Code(key)] = sanitizeMessage(msg)
		}
		opts = append(opts, validation.WithMessages(messages))
	}
	return opts, nil
}

// Validator builds a validator from the configuration.
func (c Config) Validator(logger *slog.Logger) (*validation.Validator, error) {
	opts, err := c.ValidatorOptions(logger)
	if err != nil {
		return nil, err
	}
	return validation.New(opts...), nil
}

// BindingOptions converts the configuration into binding options around v.
func (c Config) BindingOptions(v *validation.Validator, logger *slog.Logger) ([]binding.Option, error) {
	targets, err := c.targets()
	if err != nil {
		return nil, err
	}
	return []binding.Option{
		binding.WithValidator(v),
		binding.WithTargetSelectors(targets...),
		binding.WithGlobalName(c.Globals...),
		binding.WithLogger(logger),
	}, nil
}

// TargetSelector compiles the target form selectors into one group.
func (c Config) TargetSelector() (dom.Selector, error) {
	sel, err := dom.CompileAll(c.Targets)
	if err != nil {
		return dom.Selector{}, fmt.Errorf("%w: targets: %v", ErrInvalidSelector, err)
	}
	return sel, nil
}

func (c Config) targets() ([]dom.Selector, error) {
	var out []dom.Selector
	for _, raw := range c.Targets {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		sel, err := dom.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: targets: %v", ErrInvalidSelector, err)
		}
		out = append(out, sel)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one target selector is required", ErrInvalidSelector)
	}
	return out, nil
}

func (c Config) honeypotDetector() (validation.HoneypotDetector, error) {
	var containers dom.Selector
	if hasNonBlank(c.Honeypot.Containers) {
		sel, err := dom.CompileAll(c.Honeypot.Containers)
		if err != nil {
			return validation.HoneypotDetector{}, fmt.Errorf("%w: honeypot containers: %v", ErrInvalidSelector, err)
		}
		containers = sel
	}

	names := make([]*regexp.Regexp, 0, len(c.Honeypot.Names))
	for _, raw := range c.Honeypot.Names {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		pattern, err := regexp.Compile(raw)
		if err != nil {
			return validation.HoneypotDetector{}, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, raw, err)
		}
		names = append(names, pattern)
	}
	return validation.NewHoneypotDetector(containers, names), nil
}

func compileOptional(raw string) (dom.Selector, error) {
	if strings.TrimSpace(raw) == "" {
		return dom.Selector{}, nil
	}
	return dom.Compile(raw)
}

func hasNonBlank(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
