// Package dom models the slice of the browser document that form validation
// touches: an HTML tree parsed with golang.org/x/net/html, CSS selector
// matching backed by cascadia, element attribute/class/value access, a
// bubbling event dispatcher, a globals registry standing in for `window`, and
// a Scroller seam for scroll-into-view requests. A Document is not safe for
// concurrent use; it mirrors the single-threaded page it models.
package dom
