package dom

// ScrollOptions mirrors the scrollIntoView options bag.
type ScrollOptions struct {
	Behavior string
	Block    string
}

// SmoothCenter is the scroll used to reveal the first invalid field.
var SmoothCenter = ScrollOptions{Behavior: "smooth", Block: "center"}

// Scroller receives scroll-into-view requests. Hosts with a real viewport
// plug their own implementation in through Document.SetScroller.
type Scroller interface {
	ScrollIntoView(target *Element, opts ScrollOptions)
}

// ScrollCall records a single scroll request.
type ScrollCall struct {
	Target  *Element
	Options ScrollOptions
}

// Recorder is the default Scroller; it remembers every request.
type Recorder struct {
	Calls []ScrollCall
}

// ScrollIntoView records the request.
func (r *Recorder) ScrollIntoView(target *Element, opts ScrollOptions) {
	r.Calls = append(r.Calls, ScrollCall{Target: target, Options: opts})
}

// Last returns the most recent request, if any.
func (r *Recorder) Last() (ScrollCall, bool) {
	if len(r.Calls) == 0 {
		return ScrollCall{}, false
	}
	return r.Calls[len(r.Calls)-1], true
}

// ScrollIntoView asks the document's scroller to reveal e.
func (e *Element) ScrollIntoView(opts ScrollOptions) {
	if e.doc.scroller == nil {
		return
	}
	e.doc.scroller.ScrollIntoView(e, opts)
}
