package component

import (
	"encoding/json"

	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
)

// ShapeType enumerates the shape variants.
type ShapeType uint8

const (
	ShapeRectangle ShapeType = iota + 1
)

func (t ShapeType) String() string {
	switch t {
	case ShapeRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Shape is geometry drawn relative to an entity's position.
type Shape interface {
	Type() ShapeType
	Contains(point, origin geom.Vector) bool
	Bounds(origin geom.Vector) geom.Box
	Listen(key string, obs observe.Observer) observe.Subscription
	CloneShape() Shape
}

// Rectangle is an axis-aligned rectangle centered on its origin.
type Rectangle struct {
	observe.Subject
	dimension geom.Vector
}

func NewRectangle(dimension geom.Vector) *Rectangle {
	return &Rectangle{dimension: dimension}
}

func (r *Rectangle) Type() ShapeType { return ShapeRectangle }

func (r *Rectangle) Dimension() geom.Vector {
	return r.dimension
}

func (r *Rectangle) SetDimension(d geom.Vector) bool {
	return observe.Assign(&r.Subject, &r.dimension, d, "dimension")
}

func (r *Rectangle) Bounds(origin geom.Vector) geom.Box {
	return geom.CenteredBox(origin, r.dimension)
}

func (r *Rectangle) Contains(point, origin geom.Vector) bool {
	return r.Bounds(origin).Contains(point)
}

func (r *Rectangle) CloneShape() Shape {
	return NewRectangle(r.dimension)
}

type rectangleJSON struct {
	Dimension geom.Vector `json:"dimension"`
}

func (r *Rectangle) MarshalJSON() ([]byte, error) {
	return json.Marshal(rectangleJSON{Dimension: r.dimension})
}

func (r *Rectangle) UnmarshalJSON(data []byte) error {
	var raw rectangleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.dimension = raw.Dimension
	return nil
}
