package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element wraps an element node of a Document. Several Element values may
// wrap the same node; compare them with Is.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Is reports whether both elements wrap the same node.
func (e *Element) Is(other *Element) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	return e.node == other.node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return e.node.Data
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, name) {
			return attr.Val, true
		}
	}
	return "", false
}

// GetAttr returns the attribute value or an empty string.
func (e *Element) GetAttr(name string) string {
	value, _ := e.Attr(name)
	return value
}

// HasAttr reports attribute presence regardless of value.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr creates or updates an attribute.
func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	for idx, attr := range e.node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, name) {
			e.node.Attr[idx].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	out := e.node.Attr[:0]
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, name) {
			continue
		}
		out = append(out, attr)
	}
	e.node.Attr = out
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.GetAttr("id")
}

// Name returns the name attribute.
func (e *Element) Name() string {
	return e.GetAttr("name")
}

// Classes returns the class list in declaration order.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

// HasClass reports whether the class list contains class.
func (e *Element) HasClass(class string) bool {
	for _, candidate := range e.Classes() {
		if candidate == class {
			return true
		}
	}
	return false
}

// AddClass appends class when it is not already present.
func (e *Element) AddClass(class string) {
	class = strings.TrimSpace(class)
	if class == "" || e.HasClass(class) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), class), " "))
}

// RemoveClass drops every occurrence of class. The class attribute is removed
// when it ends up empty.
func (e *Element) RemoveClass(class string) {
	if !e.HasAttr("class") {
		return
	}
	classes := e.Classes()
	out := classes[:0]
	for _, candidate := range classes {
		if candidate != class {
			out = append(out, candidate)
		}
	}
	if len(out) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(out, " "))
}

// Matches reports whether the element itself matches sel.
func (e *Element) Matches(sel Selector) bool {
	return sel.matches(e.node)
}

// Closest walks from the element up through its ancestors and returns the
// first one matching sel, the element itself included.
func (e *Element) Closest(sel Selector) *Element {
	for n := e.node; n != nil; n = n.Parent {
		if sel.matches(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	if e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(e.node.Parent)
}

// QueryAll returns descendants matching sel in document order.
func (e *Element) QueryAll(sel Selector) []*Element {
	var out []*Element
	e.walk(func(n *html.Node) bool {
		if sel.matches(n) {
			out = append(out, e.doc.wrap(n))
		}
		return true
	})
	return out
}

// Filter returns descendants accepted by keep, in document order.
func (e *Element) Filter(keep func(*Element) bool) []*Element {
	var out []*Element
	e.walk(func(n *html.Node) bool {
		if el := e.doc.wrap(n); keep(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Query returns the first descendant matching sel, or nil.
func (e *Element) Query(sel Selector) *Element {
	var found *html.Node
	e.walk(func(n *html.Node) bool {
		if sel.matches(n) {
			found = n
			return false
		}
		return true
	})
	return e.doc.wrap(found)
}

// Contains reports whether other is a descendant of e or e itself.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// AppendChild detaches child from its current parent and appends it to e.
func (e *Element) AppendChild(child *Element) {
	if child == nil {
		return
	}
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from the tree. Listeners registered on it are
// dropped as well.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	delete(e.doc.listeners, e.node)
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.node)
	return b.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// walk visits descendants depth-first in document order. Returning false from
// visit stops the walk.
func (e *Element) walk(visit func(*html.Node) bool) {
	var step func(*html.Node) bool
	step = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && !visit(c) {
				return false
			}
			if !step(c) {
				return false
			}
		}
		return true
	}
	step(e.node)
}
