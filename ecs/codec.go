package ecs

import (
	"encoding/json"
	"fmt"

	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/serialize"
)

// EncodeEntity writes e as an object keyed by component name, each value carrying
// its registered tag.
func EncodeEntity(r *serialize.Registry, e *Entity) (json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(e.components))
	for _, id := range e.ComponentIDs() {
		raw, err := r.Marshal(e.components[id])
		if err != nil {
			return nil, fmt.Errorf("ecs: encode %s: %w", id, err)
		}
		out[id.String()] = raw
	}
	return json.Marshal(out)
}

// DecodeEntity rebuilds an entity written by EncodeEntity.
func DecodeEntity(r *serialize.Registry, data []byte) (*Entity, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ecs: decode entity: %w", err)
	}
	e := &Entity{}
	for name, compRaw := range raw {
		id, ok := component.ParseComponentID(name)
		if !ok {
			return nil, fmt.Errorf("ecs: decode entity: %w: %q", component.ErrInvalidComponentKind, name)
		}
		c, err := serialize.UnmarshalAs[component.Component](r, compRaw)
		if err != nil {
			return nil, fmt.Errorf("ecs: decode %s: %w", name, err)
		}
		if c.ID() != id {
			return nil, fmt.Errorf("ecs: decode entity: %q holds a %s component", name, c.ID())
		}
		e.attach(c)
	}
	return e, nil
}
