package ecs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/observe"
)

var ErrComponentExists = errors.New("ecs: entity already has component")

// Entity is a bundle of components with at most one component per kind. Component
// events are re-emitted with the component name prepended to their path.
type Entity struct {
	observe.Subject
	components map[component.ComponentID]component.Component
	subs       map[component.ComponentID]observe.Subscription
}

// NewEntity builds an entity from components. Later duplicates of a kind are
// ignored.
func NewEntity(components ...component.Component) *Entity {
	e := &Entity{}
	for _, c := range components {
		if c == nil || e.HasComponent(c.ID()) {
			continue
		}
		e.attach(c)
	}
	return e
}

// AddComponent attaches c. It fails if the entity already has a component of the
// same kind.
func (e *Entity) AddComponent(c component.Component) error {
	if c == nil {
		return component.ErrNilComponent
	}
	id := c.ID()
	if !id.Valid() {
		return component.ErrInvalidComponentKind
	}
	if e.HasComponent(id) {
		return fmt.Errorf("%w: %s", ErrComponentExists, id)
	}
	e.attach(c)
	e.Notify(observe.Event{Kind: observe.KindAdded, Property: id.String(), New: c})
	return nil
}

// RemoveComponent detaches the component of the given kind.
func (e *Entity) RemoveComponent(id component.ComponentID) bool {
	c, ok := e.components[id]
	if !ok {
		return false
	}
	e.subs[id].Cancel()
	delete(e.subs, id)
	delete(e.components, id)
	e.Notify(observe.Event{Kind: observe.KindRemoved, Property: id.String(), Old: c})
	return true
}

func (e *Entity) GetComponent(id component.ComponentID) (component.Component, bool) {
	c, ok := e.components[id]
	return c, ok
}

func (e *Entity) HasComponent(id component.ComponentID) bool {
	_, ok := e.components[id]
	return ok
}

// ComponentIDs returns the kinds present, in id order.
func (e *Entity) ComponentIDs() []component.ComponentID {
	ids := make([]component.ComponentID, 0, len(e.components))
	for id := range e.components {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone deep-copies the entity's components. Listeners are not copied.
func (e *Entity) Clone() *Entity {
	out := &Entity{}
	for _, id := range e.ComponentIDs() {
		out.attach(e.components[id].Clone())
	}
	return out
}

func (e *Entity) attach(c component.Component) {
	if e.components == nil {
		e.components = make(map[component.ComponentID]component.Component)
		e.subs = make(map[component.ComponentID]observe.Subscription)
	}
	id := c.ID()
	e.components[id] = c
	e.subs[id] = c.Listen(id.String(), observe.ObserverFunc(func(name string, evt observe.Event) {
		e.Notify(evt.Within(name))
	}))
}
