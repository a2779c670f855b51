package dom

import "strings"

// Common event types dispatched by the form binding.
const (
	EventBlur   = "blur"
	EventSubmit = "submit"
)

// Listener handles a dispatched event.
type Listener func(*Event)

type listener struct {
	fn Listener
}

// Event is a dispatched DOM event. Bubbling events travel from the target up
// through its ancestors.
type Event struct {
	Type          string
	Bubbles       bool
	Target        *Element
	CurrentTarget *Element

	defaultPrevented   bool
	propagationStopped bool
	immediateStopped   bool
}

// NewEvent builds an event ready for dispatch.
func NewEvent(kind string, bubbles bool) *Event {
	return &Event{Type: strings.ToLower(strings.TrimSpace(kind)), Bubbles: bubbles}
}

// PreventDefault cancels the default action (for submit, the submission).
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// StopPropagation keeps the event from reaching further ancestors.
func (ev *Event) StopPropagation() {
	ev.propagationStopped = true
}

// StopImmediatePropagation also skips the remaining listeners on the current
// element.
func (ev *Event) StopImmediatePropagation() {
	ev.propagationStopped = true
	ev.immediateStopped = true
}

// On registers fn for events of the given type on e. The returned function
// detaches the listener; calling it more than once is harmless.
func (e *Element) On(kind string, fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	entry := &listener{fn: fn}
	byType := e.doc.listeners[e.node]
	if byType == nil {
		byType = make(map[string][]*listener)
		e.doc.listeners[e.node] = byType
	}
	byType[kind] = append(byType[kind], entry)

	node := e.node
	doc := e.doc
	return func() {
		current := doc.listeners[node][kind]
		for idx, candidate := range current {
			if candidate == entry {
				doc.listeners[node][kind] = append(current[:idx:idx], current[idx+1:]...)
				break
			}
		}
		if len(doc.listeners[node][kind]) == 0 {
			delete(doc.listeners[node], kind)
		}
		if len(doc.listeners[node]) == 0 {
			delete(doc.listeners, node)
		}
	}
}

// ListenerCount returns the number of listeners of the given type on e.
func (e *Element) ListenerCount(kind string) int {
	return len(e.doc.listeners[e.node][strings.ToLower(kind)])
}

// Dispatch delivers ev to e and, when it bubbles, to each ancestor. It returns
// false when a listener prevented the default action.
func (e *Element) Dispatch(ev *Event) bool {
	if ev == nil {
		return true
	}
	ev.Target = e
	for n := e.node; n != nil; n = n.Parent {
		registered := e.doc.listeners[n][ev.Type]
		if len(registered) > 0 {
			ev.CurrentTarget = e.doc.wrap(n)
			snapshot := append([]*listener(nil), registered...)
			for _, entry := range snapshot {
				if !attached(e.doc.listeners[n][ev.Type], entry) {
					continue
				}
				entry.fn(ev)
				if ev.immediateStopped {
					break
				}
			}
		}
		if !ev.Bubbles || ev.propagationStopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

func attached(current []*listener, entry *listener) bool {
	for _, candidate := range current {
		if candidate == entry {
			return true
		}
	}
	return false
}

// Blur dispatches a non-bubbling blur event on e.
func (e *Element) Blur() {
	e.Dispatch(NewEvent(EventBlur, false))
}

// Submit dispatches a bubbling submit event on the form element and reports
// whether the browser would go on to submit it.
func (e *Element) Submit() bool {
	return e.Dispatch(NewEvent(EventSubmit, true))
}
