package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formguard/pkg/render"
)

func TestMapErrorPayload_FieldNames(t *testing.T) {
	fields := []string{"full_name", "phone", "email", "email_confirm", "address[street]"}

	payload := map[string][]string{
		"/body/full_name":    {"Name is required"},
		"data.email":         {"Email already registered", " Email already registered "},
		"$.payload.phone[0]": {"Phone blocked"},
		"address/street":     {"Street unknown"},
		"non_field_errors":   {"Try again later"},
		"request/unknown":    {"Should fall back to form errors"},
		"":                   {" ", ""},
	}

	mapped := render.MapErrorPayload(fields, payload)

	wantFields := map[string][]string{
		"full_name":       {"Name is required"},
		"email":           {"Email already registered"},
		"phone":           {"Phone blocked"},
		"address[street]": {"Street unknown"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Should fall back to form errors", "Try again later"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload([]string{"email"}, nil)
	if len(mapped.Fields) != 0 || len(mapped.Form) != 0 {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
