package component

import (
	"encoding/json"
	"fmt"

	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
)

// BodyType controls how the game treats a collision box and which color the editor
// uses to draw it.
type BodyType uint8

const (
	BodyNone BodyType = iota
	BodyEnvironment
	BodySolid
)

func (b BodyType) String() string {
	switch b {
	case BodyNone:
		return "none"
	case BodyEnvironment:
		return "environment"
	case BodySolid:
		return "solid"
	default:
		return fmt.Sprintf("BodyType(%d)", uint8(b))
	}
}

func (b BodyType) MarshalText() ([]byte, error) {
	switch b {
	case BodyNone, BodyEnvironment, BodySolid:
		return []byte(b.String()), nil
	}
	return nil, fmt.Errorf("component: invalid body type %d", uint8(b))
}

func (b *BodyType) UnmarshalText(text []byte) error {
	parsed, err := ParseBodyType(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func ParseBodyType(s string) (BodyType, error) {
	switch s {
	case "", "none":
		return BodyNone, nil
	case "environment":
		return BodyEnvironment, nil
	case "solid":
		return BodySolid, nil
	}
	return BodyNone, fmt.Errorf("component: unknown body type %q", s)
}

// Collision is the collision box of an entity, centered on its position.
type Collision struct {
	observe.Subject
	dimension geom.Vector
	bodyType  BodyType
}

var CollisionComponent = newComponentKind[*Collision](CollisionID)

func NewCollision(dimension geom.Vector, body BodyType) *Collision {
	return &Collision{dimension: dimension, bodyType: body}
}

func (c *Collision) ID() ComponentID { return CollisionID }

func (c *Collision) Dimension() geom.Vector { return c.dimension }
func (c *Collision) BodyType() BodyType     { return c.bodyType }

func (c *Collision) SetDimension(d geom.Vector) bool {
	return observe.Assign(&c.Subject, &c.dimension, d, "dimension")
}

func (c *Collision) SetBodyType(b BodyType) bool {
	return observe.Assign(&c.Subject, &c.bodyType, b, "bodyType")
}

func (c *Collision) Bounds(origin geom.Vector) geom.Box {
	return geom.CenteredBox(origin, c.dimension)
}

func (c *Collision) Clone() Component {
	return NewCollision(c.dimension, c.bodyType)
}

type collisionJSON struct {
	Dimension geom.Vector `json:"dimension"`
	BodyType  BodyType    `json:"bodyType"`
}

func (c *Collision) MarshalJSON() ([]byte, error) {
	return json.Marshal(collisionJSON{Dimension: c.dimension, BodyType: c.bodyType})
}

func (c *Collision) UnmarshalJSON(data []byte) error {
	var raw collisionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.dimension = raw.Dimension
	c.bodyType = raw.BodyType
	return nil
}
