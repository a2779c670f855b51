// Package prompt fills a form interactively. Each answer is checked with the
// field rules as a blur would check it, so the user is re-asked until the
// field passes; the whole form is then validated as on submit and errored
// fields are asked again.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// DefaultMaxRounds bounds how often Fill re-asks fields after a failed submit.
const DefaultMaxRounds = 3

// Option configures a Filler.
type Option func(*Filler)

// WithValidator sets the validator used for answers and the final submit.
func WithValidator(v *validation.Validator) Option {
	return func(f *Filler) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithMaxRounds sets how many submit attempts Fill makes. Values below one
// are ignored.
func WithMaxRounds(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.rounds = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Filler asks for every visible field of a form through a Driver.
type Filler struct {
	driver    Driver
	validator *validation.Validator
	rounds    int
	logger    *slog.Logger
}

// New constructs a Filler around driver.
func New(driver Driver, options ...Option) *Filler {
	f := &Filler{
		driver: driver,
		rounds: DefaultMaxRounds,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.validator == nil {
		f.validator = validation.New(validation.WithLogger(f.logger))
	}
	return f
}

// Fill prompts for the fields of form and returns the final submit verdict.
// The form is modified in place.
func (f *Filler) Fill(ctx context.Context, form *dom.Element) (validation.Result, error) {
	if form == nil {
		return validation.Result{}, ErrNoForm
	}

	pending := f.fields(form)
	var result validation.Result
	for round := 1; round <= f.rounds; round++ {
		for _, field := range pending {
			if err := f.ask(ctx, form, field); err != nil {
				return validation.Result{}, err
			}
		}

		result = f.validator.Validate(form)
		if result.Valid {
			return result, nil
		}
		f.logger.Info("submit rejected", slog.Int("round", round), slog.Int("errors", len(result.Errors)))
		for _, fe := range result.Errors {
			if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", fe.Field, fe.Message)); err != nil {
				return validation.Result{}, err
			}
		}
		pending = f.retry(form, result.Errors)
		if len(pending) == 0 {
			break
		}
	}
	return result, nil
}

// fields lists the controls to ask for, one entry per radio group.
func (f *Filler) fields(form *dom.Element) []*dom.Element {
	var out []*dom.Element
	radios := make(map[string]struct{})
	for _, control := range form.Controls() {
		if f.validator.IsHoneypot(control) || skipType(control.Type()) {
			continue
		}
		if control.Type() == "radio" {
			if _, seen := radios[control.Name()]; seen {
				continue
			}
			radios[control.Name()] = struct{}{}
		}
		out = append(out, control)
	}
	return out
}

func (f *Filler) retry(form *dom.Element, errs validation.Errors) []*dom.Element {
	var out []*dom.Element
	for _, field := range f.fields(form) {
		if errs.Has(fieldName(field)) {
			out = append(out, field)
		}
	}
	return out
}

func (f *Filler) ask(ctx context.Context, form *dom.Element, field *dom.Element) error {
	label := labelFor(form, field)
	switch field.Type() {
	case "checkbox":
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: field.HasAttr("checked")})
		if err != nil {
			return err
		}
		if checked {
			field.SetAttr("checked", "")
		} else {
			field.RemoveAttr("checked")
		}
		return nil
	case "radio":
		return f.askRadio(ctx, form, field, label)
	case "select-one", "select-multiple":
		return f.askSelect(ctx, field, label)
	}

	check := func(answer string) error {
		field.SetValue(strings.TrimSpace(answer))
		if fe, ok := f.validator.CheckField(field); !ok {
			return errors.New(fe.Message)
		}
		return nil
	}

	var (
		answer string
		err    error
	)
	if field.Type() == "textarea" {
		answer, err = f.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: field.Value(), Validator: check})
	} else {
		answer, err = f.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   field.Value(),
			Help:      field.GetAttr("placeholder"),
			Validator: check,
		})
	}
	if err != nil {
		return err
	}
	field.SetValue(strings.TrimSpace(answer))
	f.validator.ValidateField(field)
	f.logger.Debug("field answered", slog.String("field", fieldName(field)))
	return nil
}

func (f *Filler) askSelect(ctx context.Context, field *dom.Element, label string) error {
	options := field.Options()
	if len(options) == 0 {
		return nil
	}
	labels := make([]string, len(options))
	current := field.Value()
	defaultIndex := 0
	for i, option := range options {
		labels[i] = optionLabel(option)
		if option.OptionValue() == current {
			defaultIndex = i
		}
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: defaultIndex})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return nil
	}
	field.SetValue(options[idx].OptionValue())
	f.validator.ValidateField(field)
	return nil
}

func (f *Filler) askRadio(ctx context.Context, form *dom.Element, field *dom.Element, label string) error {
	var group []*dom.Element
	for _, control := range form.Controls() {
		if control.Type() == "radio" && control.Name() == field.Name() {
			group = append(group, control)
		}
	}
	labels := make([]string, len(group))
	defaultIndex := 0
	for i, radio := range group {
		labels[i] = labelFor(form, radio)
		if radio.HasAttr("checked") {
			defaultIndex = i
		}
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: defaultIndex})
	if err != nil {
		return err
	}
	for i, radio := range group {
		if i == idx {
			radio.SetAttr("checked", "")
		} else {
			radio.RemoveAttr("checked")
		}
	}
	return nil
}

func skipType(kind string) bool {
	switch kind {
	case "hidden", "submit", "button", "reset", "image", "file":
		return true
	}
	return false
}

// labelFor prefers an explicit <label for>, then a wrapping label, then the
// placeholder, then the field name.
func labelFor(form *dom.Element, field *dom.Element) string {
	if id := field.ID(); id != "" {
		labels := form.Filter(func(el *dom.Element) bool {
			return el.Tag() == "label" && el.GetAttr("for") == id
		})
		if len(labels) > 0 {
			if text := strings.TrimSpace(labels[0].Text()); text != "" {
				return text
			}
		}
	}
	for parent := field.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Tag() == "label" {
			if text := strings.TrimSpace(parent.Text()); text != "" {
				return text
			}
			break
		}
	}
	if placeholder := strings.TrimSpace(field.GetAttr("placeholder")); placeholder != "" {
		return placeholder
	}
	if field.Type() == "radio" {
		return field.GetAttr("value")
	}
	return fieldName(field)
}

func optionLabel(option *dom.Element) string {
	if text := strings.TrimSpace(option.Text()); text != "" {
		return text
	}
	return option.OptionValue()
}

func fieldName(field *dom.Element) string {
	if name := strings.TrimSpace(field.Name()); name != "" {
		return name
	}
	return strings.TrimSpace(field.ID())
}
