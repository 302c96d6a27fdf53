package component

import (
	"errors"

	"github.com/milk9111/duckling/observe"
	"github.com/milk9111/duckling/serialize"
)

var (
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID identifies one of the closed set of component variants. Its String
// form is the component name used as the key in entities and map files.
type ComponentID uint8

const (
	PositionID ComponentID = iota + 1
	DrawableID
	CollisionID
)

var componentNames = map[ComponentID]string{
	PositionID:  "position",
	DrawableID:  "drawable",
	CollisionID: "collision",
}

func (id ComponentID) String() string {
	if name, ok := componentNames[id]; ok {
		return name
	}
	return "unknown"
}

func (id ComponentID) Valid() bool {
	_, ok := componentNames[id]
	return ok
}

// ParseComponentID maps a component name back to its id.
func ParseComponentID(name string) (ComponentID, bool) {
	for id, n := range componentNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Component is a named, observable attribute bundle attached to an entity.
type Component interface {
	ID() ComponentID
	Listen(key string, obs observe.Observer) observe.Subscription
	Clone() Component
}

// ComponentKind ties a component id to its concrete Go type for typed lookups.
type ComponentKind[T Component] struct {
	id ComponentID
}

func newComponentKind[T Component](id ComponentID) ComponentKind[T] {
	return ComponentKind[T]{id: id}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id.Valid()
}

const (
	PositionTag      = "PositionComponent"
	DrawableTag      = "DrawableComponent"
	CollisionTag     = "CollisionComponent"
	ShapeDrawableTag = "ShapeDrawable"
	RectangleTag     = "sf::RectangleShape"
)

var registrations = []struct {
	tag   string
	proto any
}{
	{PositionTag, (*Position)(nil)},
	{DrawableTag, (*Drawable)(nil)},
	{CollisionTag, (*Collision)(nil)},
	{ShapeDrawableTag, (*ShapeDrawable)(nil)},
	{RectangleTag, (*Rectangle)(nil)},
}

// NewRegistry returns a registry with every component type registered.
func NewRegistry() *serialize.Registry {
	r := serialize.NewRegistry()
	for _, reg := range registrations {
		r.MustRegister(reg.tag, reg.proto)
	}
	return r
}
