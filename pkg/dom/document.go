package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUndefined is returned by Call when no entry point is registered under the
// requested name.
var ErrUndefined = errors.New("dom: global is not defined")

// EntryPoint is the shape of a named global the host page calls directly, for
// example from an inline onsubmit attribute.
type EntryPoint func(form *Element) bool

// Document owns a parsed HTML tree together with the listeners, globals and
// scroller attached to it.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]*listener
	globals   map[string]EntryPoint
	scroller  Scroller
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, fmt.Errorf("dom: reader is nil")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]*listener),
		globals:   make(map[string]EntryPoint),
		scroller:  &Recorder{},
	}
}

// Root returns the document node wrapped as an Element. Selector queries run
// against its descendants.
func (d *Document) Root() *Element {
	return d.wrap(d.root)
}

// QueryAll returns every element in document order that matches sel.
func (d *Document) QueryAll(sel Selector) []*Element {
	return d.Root().QueryAll(sel)
}

// Query returns the first element matching sel or nil.
func (d *Document) Query(sel Selector) *Element {
	return d.Root().Query(sel)
}

// CreateElement builds a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// Render serialises the current tree, including any error annotations.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("dom: render html: %w", err)
	}
	return nil
}

// String renders the tree to a string. Render errors yield an empty string.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Define registers a named global entry point, replacing any previous one.
func (d *Document) Define(name string, fn EntryPoint) {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return
	}
	d.globals[name] = fn
}

// Undefine removes a named global.
func (d *Document) Undefine(name string) {
	delete(d.globals, strings.TrimSpace(name))
}

// Defined reports whether a global exists under name.
func (d *Document) Defined(name string) bool {
	_, ok := d.globals[strings.TrimSpace(name)]
	return ok
}

// Call invokes a named global with the given form, mimicking an inline
// `onsubmit="return validateForm(this)"` handler.
func (d *Document) Call(name string, form *Element) (bool, error) {
	fn, ok := d.globals[strings.TrimSpace(name)]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUndefined, name)
	}
	return fn(form), nil
}

// SetScroller replaces the scroller receiving scroll-into-view requests.
func (d *Document) SetScroller(s Scroller) {
	if s == nil {
		s = &Recorder{}
	}
	d.scroller = s
}

// Scroller returns the active scroller.
func (d *Document) Scroller() Scroller {
	return d.scroller
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}
