package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Built-in renderer names.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

// TemplateOption configures a TemplateRenderer.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	baseDir   string
	templates fs.FS
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.templates = files
	}
}

// WithBaseDir loads templates from a directory on disk. It takes precedence
// over WithFS for names present in both.
func WithBaseDir(dir string) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// TemplateRenderer renders reports through a pongo2 template. The template
// receives `reports`, a list of maps keyed like the JSON output.
type TemplateRenderer struct {
	name        string
	contentType string
	file        string

	mu   sync.Mutex
	set  *pongo2.TemplateSet
	tmpl *pongo2.Template
}

// NewTemplateRenderer builds a renderer named name that executes file.
func NewTemplateRenderer(name, contentType, file string, options ...TemplateOption) (*TemplateRenderer, error) {
	cfg := &templateConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("render: need to provide either base dir or fs.FS")
	}
	if strings.TrimSpace(file) == "" {
		return nil, errors.New("render: template file is required")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	registerDefaultFilters()

	return &TemplateRenderer{
		name:        name,
		contentType: contentType,
		file:        file,
		set:         pongo2.NewSet("formguard-"+name, loaders...),
	}, nil
}

func (r *TemplateRenderer) Name() string        { return r.name }
func (r *TemplateRenderer) ContentType() string { return r.contentType }

// Render executes the template. The template is parsed on first use.
func (r *TemplateRenderer) Render(_ context.Context, reports []Report) ([]byte, error) {
	tmpl, err := r.template()
	if err != nil {
		return nil, err
	}

	items, err := reportsToContext(reports)
	if err != nil {
		return nil, fmt.Errorf("render: convert reports: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context{"reports": items}, &buf); err != nil {
		return nil, fmt.Errorf("render: execute template %q: %w", r.file, err)
	}
	return buf.Bytes(), nil
}

func (r *TemplateRenderer) template() (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tmpl != nil {
		return r.tmpl, nil
	}
	tmpl, err := r.set.FromFile(r.file)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", r.file, err)
	}
	r.tmpl = tmpl
	return tmpl, nil
}

func reportsToContext(reports []Report) ([]any, error) {
	raw, err := json.Marshal(reports)
	if err != nil {
		return nil, err
	}
	var out []any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("codelabel") {
		_ = pongo2.RegisterFilter("codelabel", filterCodeLabel)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterCodeLabel turns "invalid_email_format" into "invalid email format".
func filterCodeLabel(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.ReplaceAll(in.String(), "_", " ")), nil
}
