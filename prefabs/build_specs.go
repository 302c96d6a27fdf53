package prefabs

import (
	"github.com/milk9111/duckling/geom"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is an entity template: a name plus raw component specs keyed by
// component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// PositionComponentSpec is an offset from the point the entity is placed at.
type PositionComponentSpec struct {
	Offset geom.Vector `yaml:"offset"`
}

type DrawableItemSpec struct {
	Key       string      `yaml:"key"`
	Shape     string      `yaml:"shape"`
	Dimension geom.Vector `yaml:"dimension"`
}

type DrawableComponentSpec struct {
	Items []DrawableItemSpec `yaml:"items"`
}

type CollisionComponentSpec struct {
	Dimension geom.Vector `yaml:"dimension"`
	Body      string      `yaml:"body"`
}
