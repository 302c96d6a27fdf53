// Package entity builds editor entities from prefab templates.
package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/prefabs"
)

// Template builds a fresh entity placed at pos.
type Template func(pos geom.Vector) (*ecs.Entity, error)

type componentBuildFn func(e *ecs.Entity, raw any, at geom.Vector) error

var componentRegistry = map[string]componentBuildFn{
	"position":  addPosition,
	"drawable":  addDrawable,
	"collision": addCollision,
}

var componentBuildOrder = []string{"position", "drawable", "collision"}

// BuildEntity builds an entity from spec with its position at at.
func BuildEntity(spec prefabs.EntityBuildSpec, at geom.Vector) (*ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return nil, fmt.Errorf("build entity: prefab %q does not define components", spec.Name)
	}

	e := ecs.NewEntity()
	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool { return buildRank(names[i]) < buildRank(names[j]) })

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			return nil, fmt.Errorf("build entity: %q: no builder for component %q", spec.Name, name)
		}
		if err := builder(e, spec.Components[name], at); err != nil {
			return nil, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
	}
	return e, nil
}

// NewTemplate loads the named prefab once and returns a Template stamping it.
func NewTemplate(prefabPath string) (Template, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return nil, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if _, err := BuildEntity(spec, geom.Vector{}); err != nil {
		return nil, err
	}
	return func(pos geom.Vector) (*ecs.Entity, error) {
		return BuildEntity(spec, pos)
	}, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func addPosition(e *ecs.Entity, raw any, at geom.Vector) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PositionComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode position spec: %w", err)
	}
	return ecs.Add(e, component.NewPosition(at.Add(spec.Offset)))
}

func addDrawable(e *ecs.Entity, raw any, _ geom.Vector) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DrawableComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode drawable spec: %w", err)
	}
	d := component.NewDrawable()
	for _, item := range spec.Items {
		shape, err := buildShape(item)
		if err != nil {
			return err
		}
		d.Put(component.NewShapeDrawable(item.Key, shape))
	}
	return ecs.Add(e, d)
}

func buildShape(item prefabs.DrawableItemSpec) (component.Shape, error) {
	switch item.Shape {
	case "", "rectangle":
		return component.NewRectangle(item.Dimension), nil
	default:
		return nil, fmt.Errorf("drawable %q: unknown shape %q", item.Key, item.Shape)
	}
}

func addCollision(e *ecs.Entity, raw any, _ geom.Vector) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollisionComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision spec: %w", err)
	}
	body, err := component.ParseBodyType(spec.Body)
	if err != nil {
		return err
	}
	return ecs.Add(e, component.NewCollision(spec.Dimension, body))
}
