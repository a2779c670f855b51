package formguard_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/binding"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/render"
	"github.com/goliatone/go-formguard/pkg/validation"
)

const page = `<form name="offer" data-netlify="true">
  <div class="gfield" id="name"><input name="full_name" required></div>
  <div class="gfield" id="site"><input name="site_address" value="1 A" required></div>
</form>`

func TestAssetsFS(t *testing.T) {
	css, err := fs.ReadFile(formguard.AssetsFS(), "formguard.css")
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(css), ".field-error-message") {
		t.Fatalf("expected message class in stylesheet")
	}
	for _, name := range []string{"report.txt", "report.html"} {
		if _, err := fs.Stat(formguard.TemplatesFS(), name); err != nil {
			t.Fatalf("expected template %s: %v", name, err)
		}
	}
}

func TestDefaultConfigMatchesBuiltins(t *testing.T) {
	cfg, err := formguard.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.ContainerSelector != validation.DefaultContainerSelector || cfg.Classes.Error != validation.DefaultErrorClass {
		t.Fatalf("embedded config drifted from built-in defaults: %+v", cfg)
	}
	for code, msg := range validation.DefaultMessages {
		if cfg.Messages[string(code)] != msg {
			t.Fatalf("message %s drifted: %q vs %q", code, cfg.Messages[string(code)], msg)
		}
	}
}

func TestValidateAndBind(t *testing.T) {
	doc, err := formguard.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := doc.Query(dom.MustCompile("form"))

	result := formguard.Validate(form)
	if result.Valid {
		t.Fatalf("expected invalid form")
	}
	if fields := result.Errors.Fields(); len(fields) != 2 {
		t.Fatalf("expected required and property errors, got %v", result.Errors)
	}

	b, err := formguard.Bind(doc, binding.WithGlobalName("validateForm"))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer b.Dispose()

	doc.Query(dom.MustCompile(`[name="full_name"]`)).SetValue("Ada")
	doc.Query(dom.MustCompile(`[name="site_address"]`)).SetValue("12 Main St")
	if ok, err := doc.Call("validateForm", form); err != nil || !ok {
		t.Fatalf("expected corrected form to pass, got %v %v", ok, err)
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, name+"/"+variant)
	return s.selection, s.err
}

func TestWithThemeSelector(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme: "acme",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{validation.ThemeTokenErrorClass: "is-invalid"},
		},
	}}
	opt, err := formguard.WithThemeSelector(selector, "acme", "dark")
	if err != nil {
		t.Fatalf("theme option: %v", err)
	}
	if len(selector.calls) != 1 || selector.calls[0] != "acme/dark" {
		t.Fatalf("unexpected selector calls %v", selector.calls)
	}

	doc, _ := formguard.Parse(strings.NewReader(page))
	formguard.Validate(doc.Query(dom.MustCompile("form")), opt)
	if !doc.Query(dom.MustCompile("#name")).HasClass("is-invalid") {
		t.Fatalf("expected themed error class")
	}

	boom := errors.New("boom")
	if _, err := formguard.WithThemeSelector(&stubThemeSelector{err: boom}, "x", ""); !errors.Is(err, boom) {
		t.Fatalf("expected selector error, got %v", err)
	}
}

func TestNewRenderers(t *testing.T) {
	registry, err := formguard.NewRenderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	text, err := registry.Get(render.FormatText)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	out, err := text.Render(context.Background(), []render.Report{{Form: "offer", Valid: true}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "form offer: valid") {
		t.Fatalf("unexpected output %q", out)
	}
}
