package prompt_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/prompt"
	"github.com/goliatone/go-formguard/pkg/validation"
)

const leadForm = `<form id="lead" data-netlify="true">
  <div class="gfield"><label for="n">Full name</label><input id="n" name="full_name" required></div>
  <div class="gfield"><label for="p">Phone</label><input id="p" name="phone" type="tel" required></div>
  <div class="gfield"><label for="e1">Email</label>
    <div class="ginput_container_email">
      <input id="e1" name="email" type="email" required>
      <input id="e2" name="email_confirm" type="email" placeholder="Confirm email" required>
    </div>
  </div>
  <div class="gfield"><label for="s">Timeline</label>
    <select id="s" name="timeline"><option value="">Choose</option><option value="now">Now</option><option value="later">Later</option></select>
  </div>
  <div class="gfield">
    <label><input type="radio" name="role" value="owner"> Owner</label>
    <label><input type="radio" name="role" value="agent"> Agent</label>
  </div>
  <div class="gfield"><label><input type="checkbox" name="consent"> I agree</label></div>
  <div class="gfield"><textarea name="notes" placeholder="Notes"></textarea></div>
  <div class="gfield gfield--type-honeypot"><input name="trap"></div>
  <input type="hidden" name="form-name" value="lead">
  <button type="submit">Send</button>
</form>`

type fakeDriver struct {
	answers  map[string][]string
	selects  map[string]int
	confirms map[string]bool
	abortOn  string

	asked    []string
	rejected map[string][]string
	infos    []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		answers:  map[string][]string{},
		selects:  map[string]int{},
		confirms: map[string]bool{},
		rejected: map[string][]string{},
	}
}

func (d *fakeDriver) next(message string, validator func(string) error) (string, error) {
	d.asked = append(d.asked, message)
	if message == d.abortOn {
		return "", prompt.ErrAborted
	}
	for len(d.answers[message]) > 0 {
		answer := d.answers[message][0]
		d.answers[message] = d.answers[message][1:]
		if validator != nil {
			if err := validator(answer); err != nil {
				d.rejected[message] = append(d.rejected[message], err.Error())
				continue
			}
		}
		return answer, nil
	}
	return "", fmt.Errorf("no answer for %q", message)
}

func (d *fakeDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return d.next(cfg.Message, cfg.Validator)
}

func (d *fakeDriver) TextArea(_ context.Context, cfg prompt.TextAreaConfig) (string, error) {
	return d.next(cfg.Message, cfg.Validator)
}

func (d *fakeDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.confirms[cfg.Message], nil
}

func (d *fakeDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	idx, ok := d.selects[cfg.Message]
	if !ok {
		return 0, fmt.Errorf("no selection for %q", cfg.Message)
	}
	return idx, nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func parseLead(t *testing.T) (*dom.Document, *dom.Element) {
	t.Helper()
	doc, err := dom.ParseString(leadForm)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc, doc.Query(dom.MustCompile("#lead"))
}

func happyDriver() *fakeDriver {
	d := newFakeDriver()
	d.answers["Full name"] = []string{"Ada Lovelace"}
	d.answers["Phone"] = []string{"12", "555.123.4567"}
	d.answers["Email"] = []string{"ada@example.com"}
	d.answers["Confirm email"] = []string{"ada@example.com"}
	d.answers["Notes"] = []string{"  call after 5  "}
	d.selects["Timeline"] = 1
	d.selects["Owner"] = 1
	d.confirms["I agree"] = true
	return d
}

func value(doc *dom.Document, name string) string {
	return doc.Query(dom.MustCompile(`[name="` + name + `"]`)).Value()
}

func TestFill_AsksVisibleFieldsAndRepromptsInvalidAnswers(t *testing.T) {
	doc, form := parseLead(t)
	driver := happyDriver()

	result, err := prompt.New(driver).Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid form, got %v", result.Errors)
	}

	wantAsked := []string{"Full name", "Phone", "Email", "Confirm email", "Timeline", "Owner", "I agree", "Notes"}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("asked mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Please enter a valid phone number"}, driver.rejected["Phone"]); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}

	if got := value(doc, "phone"); got != "555-123-4567" {
		t.Fatalf("expected normalised phone, got %q", got)
	}
	if got := value(doc, "timeline"); got != "now" {
		t.Fatalf("expected timeline now, got %q", got)
	}
	if got := value(doc, "notes"); got != "call after 5" {
		t.Fatalf("expected trimmed notes, got %q", got)
	}
	if !doc.Query(dom.MustCompile(`[value="agent"]`)).HasAttr("checked") {
		t.Fatalf("expected second radio checked")
	}
	if doc.Query(dom.MustCompile(`[value="owner"]`)).HasAttr("checked") {
		t.Fatalf("expected first radio unchecked")
	}
	if !doc.Query(dom.MustCompile(`[name="consent"]`)).HasAttr("checked") {
		t.Fatalf("expected consent checked")
	}
}

func TestFill_ReasksFieldsRejectedOnSubmit(t *testing.T) {
	_, form := parseLead(t)
	driver := happyDriver()
	driver.answers["Confirm email"] = []string{"other@example.com", "ada@example.com"}

	result, err := prompt.New(driver).Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected second round to pass, got %v", result.Errors)
	}
	if diff := cmp.Diff([]string{"email_confirm: Email addresses do not match"}, driver.infos); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}
	if got := driver.asked[len(driver.asked)-1]; got != "Confirm email" {
		t.Fatalf("expected only the mismatched field re-asked, last prompt %q", got)
	}
}

func TestFill_StopsAfterMaxRounds(t *testing.T) {
	_, form := parseLead(t)
	driver := happyDriver()
	driver.answers["Confirm email"] = []string{"other@example.com"}

	result, err := prompt.New(driver, prompt.WithMaxRounds(1)).Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if result.Valid || !result.Errors.Has("email_confirm") {
		t.Fatalf("expected mismatch to remain, got %+v", result)
	}
	if len(result.Errors.ByCode(validation.EmailMismatch)) != 1 {
		t.Fatalf("expected one mismatch error, got %v", result.Errors)
	}
}

func TestFill_Errors(t *testing.T) {
	_, form := parseLead(t)
	driver := happyDriver()
	driver.abortOn = "Email"

	if _, err := prompt.New(driver).Fill(context.Background(), form); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := prompt.New(driver).Fill(context.Background(), nil); !errors.Is(err, prompt.ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
}
