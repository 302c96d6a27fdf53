package ecs

import "github.com/milk9111/duckling/ecs/component"

func Add[T component.Component](e *Entity, value T) error {
	return e.AddComponent(value)
}

func Remove[T component.Component](e *Entity, kind component.ComponentKind[T]) bool {
	return e.RemoveComponent(kind.ID())
}

func Has[T component.Component](e *Entity, kind component.ComponentKind[T]) bool {
	return e.HasComponent(kind.ID())
}

func Get[T component.Component](e *Entity, kind component.ComponentKind[T]) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	value, ok := e.GetComponent(kind.ID())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}
