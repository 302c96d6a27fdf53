package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/duckling/observe"
)

var (
	ErrDuplicateKey = errors.New("ecs: duplicate entity key")
	ErrNotFound     = errors.New("ecs: entity not found")
	ErrNilEntity    = errors.New("ecs: entity is nil")
)

// World is the editor's entity system: every entity of the open map, keyed by an
// opaque string and iterated in insertion order. Entity events reach world
// listeners with the entity key prepended to their path.
type World struct {
	observe.Subject
	store entityStore
	subs  map[string]observe.Subscription
	keys  KeyGenerator
}

type Option func(*World)

// WithKeys sets the key strategy. The default is SequentialKeys.
func WithKeys(g KeyGenerator) Option {
	return func(w *World) {
		if g != nil {
			w.keys = g
		}
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{keys: &SequentialKeys{}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddEntity appends e under key.
func (w *World) AddEntity(key string, e *Entity) error {
	return w.InsertEntity(-1, key, e)
}

// InsertEntity places e under key at index in the iteration order. An out of range
// index appends.
func (w *World) InsertEntity(index int, key string, e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if w.store.has(key) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	w.store.insert(index, key, e)
	w.watch(key, e)
	w.Notify(observe.Event{Kind: observe.KindAdded, Property: key, New: e})
	return nil
}

// RemoveEntity detaches the entity under key and returns it.
func (w *World) RemoveEntity(key string) (*Entity, error) {
	e, _, err := w.Detach(key)
	return e, err
}

// Detach removes the entity under key and also reports the position it held, so a
// caller can put it back with InsertEntity.
func (w *World) Detach(key string) (*Entity, int, error) {
	e, idx := w.store.remove(key)
	if e == nil {
		return nil, -1, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	w.unwatch(key)
	w.Notify(observe.Event{Kind: observe.KindRemoved, Property: key, Old: e})
	return e, idx, nil
}

func (w *World) Entity(key string) (*Entity, bool) {
	return w.store.get(key)
}

func (w *World) Has(key string) bool {
	return w.store.has(key)
}

func (w *World) IndexOf(key string) int {
	return w.store.indexOf(key)
}

func (w *World) Len() int {
	return w.store.len()
}

// Keys returns the entity keys in iteration order.
func (w *World) Keys() []string {
	keys, _ := w.store.snapshot()
	return keys
}

// NextKey returns a key that is not currently in use.
func (w *World) NextKey() string {
	for {
		k := w.keys.Next()
		if k != "" && !w.store.has(k) {
			return k
		}
	}
}

// ForEach calls fn for each entity in insertion order until fn returns false. It
// walks a snapshot taken before the first call, so fn may add or remove entities.
func (w *World) ForEach(fn func(key string, e *Entity) bool) {
	keys, ents := w.store.snapshot()
	for i, k := range keys {
		if !fn(k, ents[i]) {
			return
		}
	}
}

// Move replaces every entity with other's entities and leaves other empty. World
// listeners receive a single Replaced event.
func (w *World) Move(other *World) {
	if other == nil || other == w {
		return
	}
	oldKeys, oldEnts := w.store.snapshot()
	for _, k := range oldKeys {
		w.unwatch(k)
	}
	w.store.reset()

	keys, ents := other.store.snapshot()
	for _, k := range keys {
		other.unwatch(k)
	}
	other.store.reset()

	for i, k := range keys {
		w.store.insert(-1, k, ents[i])
		w.watch(k, ents[i])
	}

	other.Notify(observe.Event{Kind: observe.KindReplaced})
	w.Notify(observe.Event{Kind: observe.KindReplaced, Old: len(oldEnts), New: len(ents)})
}

// EmptyClone returns a world with the same key strategy and no entities or
// listeners, used as a load target. The key generator is shared.
func (w *World) EmptyClone() *World {
	return NewWorld(WithKeys(w.keys))
}

func (w *World) watch(key string, e *Entity) {
	if w.subs == nil {
		w.subs = make(map[string]observe.Subscription)
	}
	w.subs[key] = e.Listen(key, observe.ObserverFunc(func(k string, evt observe.Event) {
		w.Notify(evt.Within(k))
	}))
}

func (w *World) unwatch(key string) {
	if sub, ok := w.subs[key]; ok {
		sub.Cancel()
		delete(w.subs, key)
	}
}
