package validation

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Attributes written on every message element so annotations can be read back.
const (
	AttrErrorCode  = "data-error-code"
	AttrErrorField = "data-error-field"
)

// Result is the outcome of a form pass.
type Result struct {
	Valid bool
	// Errors lists every annotated container in document order, including
	// containers that were already errored before this pass.
	Errors Errors
	// Normalized maps field names to values rewritten during this pass.
	Normalized map[string]string
	// FirstError is the first errored container, the one scrolled into view.
	FirstError *dom.Element
}

// Err returns Errors as an error, or nil when the form is valid.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

// Validator validates fields and forms of a dom.Document.
type Validator struct {
	rules      Rules
	mismatch   string
	honeypot   HoneypotDetector
	container  dom.Selector
	required   dom.Selector
	emailGroup dom.Selector
	classes    Classes
	logger     *slog.Logger
	scroll     dom.ScrollOptions
}

// New builds a Validator from the defaults and the provided options.
func New(options ...Option) *Validator {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	honeypot := DefaultHoneypotDetector()
	if cfg.honeypot != nil {
		honeypot = *cfg.honeypot
	}

	mismatch := DefaultMessages[EmailMismatch]
	if msg := strings.TrimSpace(cfg.messages[EmailMismatch]); msg != "" {
		mismatch = msg
	}

	return &Validator{
		rules:      cfg.rules.WithMessages(cfg.messages),
		mismatch:   mismatch,
		honeypot:   honeypot,
		container:  cfg.container,
		required:   cfg.required,
		emailGroup: cfg.emailGroup,
		classes:    cfg.classes,
		logger:     cfg.logger,
		scroll:     cfg.scroll,
	}
}

// Validate runs a full form pass with the given rule table and default
// settings. It is the entry point hosts adapt to whatever global name a
// third-party widget expects.
func Validate(form *dom.Element, rules Rules, options ...Option) Result {
	opts := append([]Option{WithRules(rules)}, options...)
	return New(opts...).Validate(form)
}

// Classes returns the class names the validator writes.
func (v *Validator) Classes() Classes {
	return v.classes
}

// IsHoneypot reports whether field is excluded from validation.
func (v *Validator) IsHoneypot(field *dom.Element) bool {
	return v.honeypot.IsHoneypot(field)
}

// ValidateField evaluates a single field, updating its container annotation.
// Honeypots, non-controls and fields without a container are valid.
func (v *Validator) ValidateField(field *dom.Element) bool {
	_, fe := v.checkField(field)
	return fe == nil
}

// CheckField behaves like ValidateField but returns the rule failure, which
// may differ from the container annotation when another field of the same
// container already owns it.
func (v *Validator) CheckField(field *dom.Element) (FieldError, bool) {
	_, fe := v.checkField(field)
	if fe == nil {
		return FieldError{}, true
	}
	return *fe, false
}

// ValidateForm runs Validate and returns only the verdict.
func (v *Validator) ValidateForm(form *dom.Element) bool {
	return v.Validate(form).Valid
}

// Validate checks every required field of form, then every email confirmation
// group. The form is valid only when no required field failed and no
// container inside it is errored. On failure the first errored container is
// scrolled into view.
func (v *Validator) Validate(form *dom.Element) Result {
	result := Result{Valid: true}
	if form == nil {
		return result
	}

	var failures []*dom.Element
	for _, field := range form.QueryAll(v.required) {
		if !field.IsControl() {
			continue
		}
		normalized, fe := v.checkField(field)
		if fe != nil {
			failures = append(failures, field)
			continue
		}
		if normalized != "" {
			if result.Normalized == nil {
				result.Normalized = make(map[string]string)
			}
			result.Normalized[fieldName(field)] = normalized
		}
	}

	// A failure can lose its annotation when the owner of a shared container
	// passes later in the pass.
	var unannotated Errors
	for _, field := range failures {
		container := field.Closest(v.container)
		if container == nil || container.HasClass(v.classes.Error) {
			continue
		}
		outcome := v.evaluate(field)
		if !outcome.Failed() {
			continue
		}
		v.mark(container, *outcome.Err)
		if !container.HasClass(v.classes.Error) {
			unannotated = append(unannotated, *outcome.Err)
		}
	}

	for _, group := range form.QueryAll(v.emailGroup) {
		v.checkEmailGroup(group)
	}

	errored := form.Filter(func(el *dom.Element) bool {
		return el.HasClass(v.classes.Error)
	})
	if len(errored) == 0 && len(failures) == 0 {
		v.logger.Info("form valid", slog.String("form", formName(form)))
		return result
	}

	result.Valid = false
	for _, container := range errored {
		result.Errors = append(result.Errors, v.readAnnotation(container))
	}
	result.Errors = append(result.Errors, unannotated...)
	if len(errored) > 0 {
		result.FirstError = errored[0]
		result.FirstError.ScrollIntoView(v.scroll)
	}

	v.logger.Info("form invalid",
		slog.String("form", formName(form)),
		slog.Int("errors", len(result.Errors)),
	)
	return result
}

// checkField returns the rewritten value (empty when unchanged) or the rule
// failure.
func (v *Validator) checkField(field *dom.Element) (string, *FieldError) {
	if field == nil || !field.IsControl() || v.IsHoneypot(field) {
		return "", nil
	}

	name := fieldName(field)
	container := field.Closest(v.container)
	if container == nil {
		v.logger.Debug("field has no container", slog.String("field", name))
		return "", nil
	}

	released := v.release(container, name)

	current := strings.TrimSpace(field.Value())
	outcome := v.evaluate(field)
	if outcome.Failed() {
		if !container.HasClass(v.classes.Error) {
			v.mark(container, *outcome.Err)
		}
		v.logger.Debug("field invalid",
			slog.String("field", name),
			slog.String("code", string(outcome.Err.Code)),
		)
		return "", outcome.Err
	}
	if released {
		v.reannotate(container, field)
	}

	if outcome.Value != current {
		field.SetValue(outcome.Value)
		return outcome.Value, nil
	}
	return "", nil
}

func (v *Validator) checkEmailGroup(group *dom.Element) {
	container := group.Closest(v.container)
	if container == nil {
		v.logger.Debug("email group has no container")
		return
	}

	if v.annotationCode(container) == EmailMismatch {
		v.clear(container)
	}
	if container.HasClass(v.classes.Error) {
		return
	}

	var emails []*dom.Element
	for _, control := range group.Controls() {
		if control.Type() == "email" && !v.IsHoneypot(control) {
			emails = append(emails, control)
		}
	}
	if len(emails) < 2 {
		return
	}

	first := strings.TrimSpace(emails[0].Value())
	second := strings.TrimSpace(emails[1].Value())
	if first == "" || second == "" || first == second {
		return
	}

	v.mark(container, FieldError{
		Field:   fieldName(emails[1]),
		Code:    EmailMismatch,
		Message: v.mismatch,
	})
	v.logger.Debug("email confirmation mismatch", slog.String("field", fieldName(emails[1])))
}

func (v *Validator) evaluate(field *dom.Element) Outcome {
	return v.rules.Evaluate(Field{
		Name:     fieldName(field),
		Type:     field.Type(),
		Required: field.Required(),
		Value:    strings.TrimSpace(field.Value()),
	})
}

// release clears the container unless its annotation belongs to another field
// sharing it. Email mismatch annotations belong to the whole group. It reports
// whether an annotation was removed.
func (v *Validator) release(container *dom.Element, name string) bool {
	owner := v.readAnnotation(container)
	if owner.Field != "" && owner.Field != name && owner.Code != EmailMismatch {
		return false
	}
	v.clear(container)
	return owner.Field != ""
}

// reannotate marks container with the first failing control it holds, other
// than skip. Controls of nested containers and honeypots are ignored.
func (v *Validator) reannotate(container, skip *dom.Element) {
	for _, sibling := range container.Controls() {
		if sibling.Is(skip) || v.IsHoneypot(sibling) {
			continue
		}
		if !sibling.Closest(v.container).Is(container) {
			continue
		}
		if outcome := v.evaluate(sibling); outcome.Failed() {
			v.mark(container, *outcome.Err)
			return
		}
	}
}

func (v *Validator) clear(container *dom.Element) {
	container.RemoveClass(v.classes.Error)
	for _, msg := range v.messages(container) {
		msg.Remove()
	}
}

func (v *Validator) mark(container *dom.Element, fe FieldError) {
	v.clear(container)
	if strings.TrimSpace(fe.Message) == "" {
		return
	}
	msg := container.Document().CreateElement("div")
	msg.AddClass(v.classes.Message)
	msg.SetAttr(AttrErrorCode, string(fe.Code))
	msg.SetAttr(AttrErrorField, fe.Field)
	msg.SetText(fe.Message)
	container.AppendChild(msg)
	container.AddClass(v.classes.Error)
}

func (v *Validator) messages(container *dom.Element) []*dom.Element {
	return container.Filter(func(el *dom.Element) bool {
		return el.HasClass(v.classes.Message)
	})
}

func (v *Validator) annotationCode(container *dom.Element) Code {
	return v.readAnnotation(container).Code
}

func (v *Validator) readAnnotation(container *dom.Element) FieldError {
	messages := v.messages(container)
	if len(messages) == 0 {
		return FieldError{}
	}
	msg := messages[0]
	return FieldError{
		Field:   msg.GetAttr(AttrErrorField),
		Code:    Code(msg.GetAttr(AttrErrorCode)),
		Message: strings.TrimSpace(msg.Text()),
	}
}

func fieldName(field *dom.Element) string {
	if name := strings.TrimSpace(field.Name()); name != "" {
		return name
	}
	return strings.TrimSpace(field.ID())
}

func formName(form *dom.Element) string {
	if name := strings.TrimSpace(form.Name()); name != "" {
		return name
	}
	return strings.TrimSpace(form.ID())
}
