package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

// ErrUnknownFormat is returned by Registry.Get for unregistered names.
var ErrUnknownFormat = errors.New("render: unknown format")

// Renderer turns validation reports into bytes (text, HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, reports []Report) ([]byte, error)
}

// Registry stores renderers by name.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// NewDefaultRegistry registers the text and HTML template renderers over
// templates plus the JSON renderer.
func NewDefaultRegistry(templates fs.FS) (*Registry, error) {
	reg := NewRegistry()
	for _, def := range []struct {
		name, contentType, file string
	}{
		{FormatText, "text/plain; charset=utf-8", "report.txt"},
		{FormatHTML, "text/html; charset=utf-8", "report.html"},
	} {
		tr, err := NewTemplateRenderer(def.name, def.contentType, def.file, WithFS(templates))
		if err != nil {
			return nil, err
		}
		if err := reg.Register(tr); err != nil {
			return nil, err
		}
	}
	if err := reg.Register(JSONRenderer{Indent: "  "}); err != nil {
		return nil, err
	}
	return reg, nil
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return renderer, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
