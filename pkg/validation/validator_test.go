package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/validation"
)

func loadLeadForm(t *testing.T) (*dom.Document, *dom.Element) {
	t.Helper()
	doc := testsupport.MustParseDocument(t, "testdata/lead_form.html")
	return doc, testsupport.MustQuery(t, doc, "#land-offer")
}

func byName(t *testing.T, doc *dom.Document, name string) *dom.Element {
	t.Helper()
	el := doc.Query(dom.MustCompile(`[name="` + name + `"]`))
	if el == nil {
		t.Fatalf("field %q missing", name)
	}
	return el
}

func fill(t *testing.T, doc *dom.Document, values map[string]string) {
	t.Helper()
	for name, value := range values {
		byName(t, doc, name).SetValue(value)
	}
}

func validValues() map[string]string {
	return map[string]string{
		"full_name":     "Ada Lovelace",
		"phone":         "(555) 123-4567",
		"email":         "ada@example.com",
		"email_confirm": "ada@example.com",
		"property_apn":  "123-456-78",
	}
}

func TestValidateForm_EmptyRequiredFields(t *testing.T) {
	doc, form := loadLeadForm(t)
	v := validation.New()

	result := v.Validate(form)
	if result.Valid {
		t.Fatalf("expected empty form to be invalid")
	}

	want := []string{"full_name", "phone", "email", "property_apn"}
	if diff := cmp.Diff(want, result.Errors.Fields()); diff != "" {
		t.Fatalf("errored fields mismatch (-want +got):\n%s", diff)
	}
	for _, fe := range result.Errors {
		if fe.Code != validation.EmptyRequired {
			t.Fatalf("expected EmptyRequired for %s, got %s", fe.Field, fe.Code)
		}
		if fe.Message != "This field is required" {
			t.Fatalf("unexpected message %q", fe.Message)
		}
	}

	if !errors.Is(result.Err(), validation.ErrInvalid) {
		t.Fatalf("expected Err to match ErrInvalid")
	}

	first := doc.Query(dom.MustCompile("#field_name"))
	if !result.FirstError.Is(first) {
		t.Fatalf("expected first error to be the name container")
	}
	rec := doc.Scroller().(*dom.Recorder)
	last, ok := rec.Last()
	if !ok || !last.Target.Is(first) || last.Options != dom.SmoothCenter {
		t.Fatalf("expected smooth centered scroll to first error, got %+v", last)
	}
}

func TestValidateForm_HoneypotsNeverError(t *testing.T) {
	doc, form := loadLeadForm(t)
	fill(t, doc, validValues())

	result := validation.New().Validate(form)
	if !result.Valid {
		t.Fatalf("expected valid form, got %v", result.Errors)
	}
	if doc.Query(dom.MustCompile("#field_trap")).HasClass(validation.DefaultErrorClass) {
		t.Fatalf("honeypot container must not be errored")
	}
	if rec := doc.Scroller().(*dom.Recorder); len(rec.Calls) != 0 {
		t.Fatalf("valid form must not scroll")
	}
}

func TestValidateForm_NormalizesPhone(t *testing.T) {
	doc, form := loadLeadForm(t)
	fill(t, doc, validValues())

	result := validation.New().Validate(form)
	if !result.Valid {
		t.Fatalf("expected valid form, got %v", result.Errors)
	}
	if got := byName(t, doc, "phone").Value(); got != "555-123-4567" {
		t.Fatalf("expected normalised phone, got %q", got)
	}
	if diff := cmp.Diff(map[string]string{"phone": "555-123-4567"}, result.Normalized); diff != "" {
		t.Fatalf("normalized mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateForm_EmailMismatch(t *testing.T) {
	doc, form := loadLeadForm(t)
	values := validValues()
	values["email"] = "a@x.com"
	values["email_confirm"] = "b@x.com"
	fill(t, doc, values)

	v := validation.New()
	for _, name := range []string{"email", "email_confirm"} {
		if !v.ValidateField(byName(t, doc, name)) {
			t.Fatalf("expected %s to be individually valid", name)
		}
	}

	result := v.Validate(form)
	if result.Valid {
		t.Fatalf("expected mismatch to invalidate the form")
	}
	want := validation.Errors{{
		Field:   "email_confirm",
		Code:    validation.EmailMismatch,
		Message: "Email addresses do not match",
	}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	container := doc.Query(dom.MustCompile("#field_email"))
	if !container.HasClass(validation.DefaultErrorClass) {
		t.Fatalf("expected group container errored")
	}

	byName(t, doc, "email_confirm").SetValue("a@x.com")
	result = v.Validate(form)
	if !result.Valid {
		t.Fatalf("expected matching emails to pass, got %v", result.Errors)
	}
	if container.HasClass(validation.DefaultErrorClass) {
		t.Fatalf("expected mismatch annotation cleared")
	}
}

func TestValidateForm_MismatchClearedForOptionalGroup(t *testing.T) {
	doc, err := dom.ParseString(`<form>
  <div class="gfield" id="g">
    <div class="ginput_container_email">
      <input type="email" name="a" value="a@x.com">
      <input type="email" name="b" value="b@x.com">
    </div>
  </div>
</form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := doc.Query(dom.MustCompile("form"))
	v := validation.New()

	if v.ValidateForm(form) {
		t.Fatalf("expected mismatch")
	}
	doc.Query(dom.MustCompile(`[name="b"]`)).SetValue("a@x.com")
	if !v.ValidateForm(form) {
		t.Fatalf("expected stale mismatch to be cleared on revalidation")
	}
}

func TestValidateField_Idempotent(t *testing.T) {
	doc, _ := loadLeadForm(t)
	v := validation.New()
	field := byName(t, doc, "full_name")
	container := doc.Query(dom.MustCompile("#field_name"))

	for i := 0; i < 3; i++ {
		if v.ValidateField(field) {
			t.Fatalf("expected empty required field to fail")
		}
	}
	messages := container.QueryAll(dom.MustCompile("." + validation.DefaultMessageClass))
	if len(messages) != 1 {
		t.Fatalf("expected exactly one message after repeated runs, got %d", len(messages))
	}
	snapshot := doc.String()
	v.ValidateField(field)
	if doc.String() != snapshot {
		t.Fatalf("expected repeated validation to leave identical markup")
	}

	field.SetValue("Ada")
	if !v.ValidateField(field) {
		t.Fatalf("expected corrected field to pass")
	}
	if container.HasClass(validation.DefaultErrorClass) {
		t.Fatalf("expected error class removed")
	}
	if container.Query(dom.MustCompile("."+validation.DefaultMessageClass)) != nil {
		t.Fatalf("expected message removed")
	}
}

func TestValidateField_FormatFailures(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
		code  validation.Code
	}{
		{name: "whitespace only", field: "full_name", value: "   ", code: validation.EmptyRequired},
		{name: "email missing domain", field: "email", value: "user@", code: validation.InvalidEmailFormat},
		{name: "email with space", field: "email", value: "user example.com", code: validation.InvalidEmailFormat},
		{name: "short phone", field: "phone", value: "555-1234", code: validation.InvalidPhoneFormat},
		{name: "apn too short", field: "property_apn", value: "12-3", code: validation.InvalidPropertyIdentifier},
		{name: "apn bad characters", field: "property_apn", value: "123$456", code: validation.InvalidPropertyIdentifier},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, form := loadLeadForm(t)
			fill(t, doc, validValues())
			byName(t, doc, tc.field).SetValue(tc.value)

			result := validation.New().Validate(form)
			if result.Valid {
				t.Fatalf("expected failure")
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected one error, got %v", result.Errors)
			}
			got := result.Errors[0]
			if got.Field != tc.field || got.Code != tc.code {
				t.Fatalf("expected %s/%s, got %s/%s", tc.field, tc.code, got.Field, got.Code)
			}
		})
	}
}

func TestValidateField_NonTriggeringFieldAlwaysValid(t *testing.T) {
	doc, _ := loadLeadForm(t)
	v := validation.New()
	notes := byName(t, doc, "notes")

	for _, value := range []string{"", "   ", "anything at all", "<>!@#$%^"} {
		notes.SetValue(value)
		if !v.ValidateField(notes) {
			t.Fatalf("expected optional field to pass with %q", value)
		}
	}
}

func TestValidateField_MissingContainerFailsOpen(t *testing.T) {
	doc, err := dom.ParseString(`<form><input name="email" type="email" required value="nope"></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v := validation.New()
	if !v.ValidateField(doc.Query(dom.MustCompile("input"))) {
		t.Fatalf("expected field without container to pass")
	}
	if !v.ValidateForm(doc.Query(dom.MustCompile("form"))) {
		t.Fatalf("expected form without containers to pass")
	}
}

func TestValidateForm_StaleOptionalErrorBlocksSubmit(t *testing.T) {
	doc, err := dom.ParseString(`<form>
  <div class="gfield"><input name="phone" type="tel" value="12"></div>
</form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v := validation.New()
	phone := doc.Query(dom.MustCompile("input"))
	if v.ValidateField(phone) {
		t.Fatalf("expected optional phone with bad value to fail on blur")
	}

	result := v.Validate(doc.Query(dom.MustCompile("form")))
	if result.Valid {
		t.Fatalf("expected errored container to keep the form invalid")
	}
	if got := result.Errors[0].Code; got != validation.InvalidPhoneFormat {
		t.Fatalf("expected phone error read back from markup, got %s", got)
	}
}

func TestValidate_CustomRulesAndMessages(t *testing.T) {
	doc, form := loadLeadForm(t)
	fill(t, doc, validValues())
	byName(t, doc, "property_apn").SetValue("x")

	rules := validation.DefaultRules().Without(validation.InvalidPropertyIdentifier)
	if result := validation.Validate(form, rules); !result.Valid {
		t.Fatalf("expected form to pass without the property rule, got %v", result.Errors)
	}

	byName(t, doc, "full_name").SetValue("")
	result := validation.Validate(form, validation.DefaultRules(),
		validation.WithMessages(map[validation.Code]string{validation.EmptyRequired: "Required"}),
		validation.WithClasses(validation.Classes{Error: "is-invalid", Message: "invalid-feedback"}),
	)
	if result.Valid {
		t.Fatalf("expected failure")
	}
	container := doc.Query(dom.MustCompile("#field_name"))
	if !container.HasClass("is-invalid") {
		t.Fatalf("expected custom error class")
	}
	msg := container.Query(dom.MustCompile(".invalid-feedback"))
	if msg == nil || msg.Text() != "Required" {
		t.Fatalf("expected custom message element, got %v", msg)
	}
}

func TestWithThemeSelection_OverridesClasses(t *testing.T) {
	selection := &theme.Selection{
		Theme: "acme",
		Manifest: &theme.Manifest{
			Name: "acme",
			Tokens: map[string]string{
				validation.ThemeTokenErrorClass: "acme-error",
			},
		},
	}
	v := validation.New(validation.WithThemeSelection(selection))
	want := validation.Classes{Error: "acme-error", Message: validation.DefaultMessageClass}
	if diff := cmp.Diff(want, v.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}

	if got := validation.ClassesFromTheme(nil, validation.DefaultClasses()); got != validation.DefaultClasses() {
		t.Fatalf("expected fallback for nil selection, got %+v", got)
	}
}

func TestErrorsHelpers(t *testing.T) {
	errs := validation.Errors{
		{Field: "email", Code: validation.InvalidEmailFormat, Message: "bad"},
		{Field: "phone", Code: validation.InvalidPhoneFormat, Message: "worse"},
	}
	if !errs.Has("email") || errs.Has("name") {
		t.Fatalf("unexpected Has results")
	}
	if diff := cmp.Diff([]string{"worse"}, errs.Get("phone")); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
	if len(errs.ByCode(validation.InvalidPhoneFormat)) != 1 {
		t.Fatalf("expected one phone error")
	}
	if !strings.Contains(errs.Error(), "email: bad") {
		t.Fatalf("unexpected error text %q", errs.Error())
	}
	if errors.Is(validation.Errors(nil), validation.ErrInvalid) {
		t.Fatalf("empty Errors must not match ErrInvalid")
	}
}

func TestCheckField_ReportsOwnFailureInSharedContainer(t *testing.T) {
	doc, _ := loadLeadForm(t)
	v := validation.New()

	email := byName(t, doc, "email")
	confirm := byName(t, doc, "email_confirm")
	email.SetValue("not-an-email")
	confirm.SetValue("")

	if fe, ok := v.CheckField(email); ok || fe.Code != validation.InvalidEmailFormat {
		t.Fatalf("expected email format failure, got %+v %v", fe, ok)
	}
	fe, ok := v.CheckField(confirm)
	if ok || fe.Code != validation.EmptyRequired || fe.Field != "email_confirm" {
		t.Fatalf("expected confirm required failure, got %+v %v", fe, ok)
	}

	msg := doc.Query(dom.MustCompile("#field_email ." + validation.DefaultMessageClass))
	if msg == nil || msg.GetAttr(validation.AttrErrorField) != "email" {
		t.Fatalf("expected container annotation to stay with the first failing field")
	}

	confirm.SetValue("a@b.co")
	if _, ok := v.CheckField(confirm); !ok {
		t.Fatalf("expected confirm to pass once filled")
	}
}

func TestValidateForm_SharedContainerKeepsSiblingFailure(t *testing.T) {
	doc, form := loadLeadForm(t)
	values := validValues()
	values["email"] = ""
	values["email_confirm"] = ""
	fill(t, doc, values)
	v := validation.New()

	confirm := byName(t, doc, "email_confirm")
	if v.ValidateField(confirm) {
		t.Fatalf("expected empty confirmation to fail on blur")
	}
	confirm.SetValue("ada@example.com")

	result := v.Validate(form)
	if result.Valid {
		t.Fatalf("expected empty required email to block submit")
	}
	want := validation.Errors{{
		Field:   "email",
		Code:    validation.EmptyRequired,
		Message: "This field is required",
	}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	container := doc.Query(dom.MustCompile("#field_email"))
	if !container.HasClass(validation.DefaultErrorClass) || !result.FirstError.Is(container) {
		t.Fatalf("expected email container errored and scrolled to")
	}
	msg := container.Query(dom.MustCompile("." + validation.DefaultMessageClass))
	if msg == nil || msg.GetAttr(validation.AttrErrorField) != "email" {
		t.Fatalf("expected annotation to move to the failing sibling")
	}
}

func TestValidateField_PassingOwnerHandsAnnotationToSibling(t *testing.T) {
	doc, _ := loadLeadForm(t)
	v := validation.New()

	confirm := byName(t, doc, "email_confirm")
	if v.ValidateField(confirm) {
		t.Fatalf("expected empty confirmation to fail")
	}
	confirm.SetValue("ada@example.com")
	if !v.ValidateField(confirm) {
		t.Fatalf("expected filled confirmation to pass")
	}

	container := doc.Query(dom.MustCompile("#field_email"))
	messages := container.QueryAll(dom.MustCompile("." + validation.DefaultMessageClass))
	if len(messages) != 1 || messages[0].GetAttr(validation.AttrErrorField) != "email" {
		t.Fatalf("expected a single annotation owned by email, got %d", len(messages))
	}

	byName(t, doc, "email").SetValue("ada@example.com")
	if !v.ValidateField(byName(t, doc, "email")) {
		t.Fatalf("expected email to pass")
	}
	if container.HasClass(validation.DefaultErrorClass) {
		t.Fatalf("expected container cleared once both fields pass")
	}
}
