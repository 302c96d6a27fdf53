// Package observe implements synchronous change notification for the editor's data
// model. Observables embed a Subject; parents forward their children's events with
// Event.Within so a single listener on the world sees every mutation below it.
package observe

// Kind identifies what happened to an observable.
type Kind uint8

const (
	KindSet Kind = iota
	KindAdded
	KindRemoved
	KindReplaced
)

func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Event describes a single mutation. Path lists the child names between the
// listener's subject and the object that changed, outermost first.
type Event struct {
	Kind     Kind
	Path     []string
	Property string
	Old      any
	New      any
}

// Within returns a copy of e with name prepended to its path.
func (e Event) Within(name string) Event {
	path := make([]string, 0, len(e.Path)+1)
	path = append(path, name)
	e.Path = append(path, e.Path...)
	return e
}

// Observer receives change events under the key it was registered with.
type Observer interface {
	OnDataChanged(key string, evt Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(key string, evt Event)

func (f ObserverFunc) OnDataChanged(key string, evt Event) {
	f(key, evt)
}

type registration struct {
	key       string
	obs       Observer
	cancelled bool
}

// Subject keeps the registered observers of one observable. The zero value is ready
// to use.
type Subject struct {
	regs []*registration
}

// Subscription removes one registration.
type Subscription struct {
	s   *Subject
	reg *registration
}

// Cancel removes the registration. Calling it more than once is a no-op.
func (sub Subscription) Cancel() {
	if sub.s == nil || sub.reg == nil || sub.reg.cancelled {
		return
	}
	sub.s.remove(func(r *registration) bool { return r == sub.reg })
}

// Listen registers obs under key.
func (s *Subject) Listen(key string, obs Observer) Subscription {
	if s == nil || obs == nil {
		return Subscription{}
	}
	reg := &registration{key: key, obs: obs}
	s.regs = append(s.regs, reg)
	return Subscription{s: s, reg: reg}
}

// Unlisten removes every registration made under key and returns how many were
// removed.
func (s *Subject) Unlisten(key string) int {
	if s == nil {
		return 0
	}
	return s.remove(func(r *registration) bool { return r.key == key })
}

// UnlistenAll drops every registration.
func (s *Subject) UnlistenAll() {
	if s == nil {
		return
	}
	s.remove(func(*registration) bool { return true })
}

// Len returns the number of live registrations.
func (s *Subject) Len() int {
	if s == nil {
		return 0
	}
	return len(s.regs)
}

// Notify delivers evt to every observer registered when the call started. Observers
// removed by an earlier handler during the same call are skipped.
func (s *Subject) Notify(evt Event) {
	if s == nil || len(s.regs) == 0 {
		return
	}
	snapshot := make([]*registration, len(s.regs))
	copy(snapshot, s.regs)
	for _, r := range snapshot {
		if r.cancelled {
			continue
		}
		r.obs.OnDataChanged(r.key, evt)
	}
}

func (s *Subject) remove(match func(*registration) bool) int {
	kept := s.regs[:0:0]
	removed := 0
	for _, r := range s.regs {
		if match(r) {
			r.cancelled = true
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.regs = kept
	return removed
}

// Assign stores v in *field and notifies s with a Set event when the value changed.
func Assign[T comparable](s *Subject, field *T, v T, property string) bool {
	if *field == v {
		return false
	}
	old := *field
	*field = v
	s.Notify(Event{Kind: KindSet, Property: property, Old: old, New: v})
	return true
}
