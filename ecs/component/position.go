package component

import (
	"encoding/json"

	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
)

// Position places an entity on the canvas. Shapes and collision boxes are centered
// on it.
type Position struct {
	observe.Subject
	position geom.Vector
}

var PositionComponent = newComponentKind[*Position](PositionID)

func NewPosition(p geom.Vector) *Position {
	return &Position{position: p}
}

func (p *Position) ID() ComponentID { return PositionID }

func (p *Position) Position() geom.Vector {
	return p.position
}

func (p *Position) SetPosition(v geom.Vector) bool {
	return observe.Assign(&p.Subject, &p.position, v, "position")
}

func (p *Position) Clone() Component {
	return NewPosition(p.position)
}

type positionJSON struct {
	Position geom.Vector `json:"position"`
}

func (p *Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{Position: p.position})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.position = raw.Position
	return nil
}
