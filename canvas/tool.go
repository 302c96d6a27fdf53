// Package canvas turns pointer gestures on the editing canvas into commands and
// keeps the displayed primitives in sync with the world.
package canvas

import (
	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"go.uber.org/zap"
)

// Tool reacts to pointer events in canvas coordinates.
type Tool interface {
	OnStageDown(pos geom.Vector)
	OnStageMove(pos geom.Vector)
	OnStageUp(pos geom.Vector)
	// Overlay returns transient primitives drawn above the world, or nil.
	Overlay() []draw.Primitive
}

// Env is the editing state shared by every tool.
type Env struct {
	World     *ecs.World
	Selection *ecs.Selection
	Queue     *command.Queue
	Log       *zap.Logger
}

func (env Env) logger() *zap.Logger {
	if env.Log == nil {
		return zap.NewNop()
	}
	return env.Log
}

// HitTest returns the first entity in insertion order whose top drawable contains
// pos. Entities without a position or drawable are never hit.
func HitTest(w *ecs.World, pos geom.Vector) (string, *ecs.Entity, bool) {
	var (
		hitKey string
		hit    *ecs.Entity
	)
	w.ForEach(func(key string, e *ecs.Entity) bool {
		p, ok := ecs.Get(e, component.PositionComponent)
		if !ok {
			return true
		}
		d, ok := ecs.Get(e, component.DrawableComponent)
		if !ok {
			return true
		}
		top, ok := d.TopDrawable()
		if !ok || !top.Contains(pos, p.Position()) {
			return true
		}
		hitKey, hit = key, e
		return false
	})
	return hitKey, hit, hit != nil
}
