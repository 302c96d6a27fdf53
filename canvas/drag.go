package canvas

import (
	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"go.uber.org/zap"
)

type dragState uint8

const (
	dragIdle dragState = iota
	dragPressed
	dragDragging
)

// DragTool moves an entity to where the pointer is released. The entity itself
// stays put during the drag; a ghost follows the pointer and the move is pushed as
// a single command on release.
type DragTool struct {
	env   Env
	state dragState
	key   string
	start geom.Vector
	ghost geom.Vector
	// bounds of the dragged entity's top drawable, relative to its position
	extent geom.Box
}

func NewDragTool(env Env) *DragTool {
	return &DragTool{env: env}
}

// Dragging reports whether a drag gesture is in progress.
func (t *DragTool) Dragging() bool {
	return t.state == dragDragging
}

func (t *DragTool) OnStageDown(pos geom.Vector) {
	t.reset()
	key, e, ok := HitTest(t.env.World, pos)
	if !ok {
		return
	}
	p, _ := ecs.Get(e, component.PositionComponent)
	d, _ := ecs.Get(e, component.DrawableComponent)
	top, _ := d.TopDrawable()

	t.env.Selection.Set(key)
	t.key = key
	t.start = p.Position()
	t.ghost = pos
	t.extent = top.Bounds(geom.Vector{})
	t.state = dragPressed
}

func (t *DragTool) OnStageMove(pos geom.Vector) {
	if t.state == dragIdle {
		return
	}
	t.state = dragDragging
	t.ghost = pos
}

func (t *DragTool) OnStageUp(pos geom.Vector) {
	defer t.reset()
	if t.state != dragDragging || pos == t.start {
		return
	}
	move := command.NewMoveEntity(t.env.World, t.key, t.start, pos)
	if err := t.env.Queue.Push(move); err != nil {
		t.env.logger().Warn("move entity", zap.String("key", t.key), zap.Error(err))
		return
	}
	t.env.logger().Debug("entity moved", zap.String("key", t.key),
		zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
}

// Overlay draws the ghost of the dragged entity and a crosshair at the pointer.
func (t *DragTool) Overlay() []draw.Primitive {
	switch t.state {
	case dragPressed:
		return []draw.Primitive{draw.Crosshair{Center: t.ghost, Size: 10, Color: draw.ColorCrosshair}}
	case dragDragging:
		ghost := geom.Box{Min: t.extent.Min.Add(t.ghost), Max: t.extent.Max.Add(t.ghost)}
		return []draw.Primitive{
			draw.Rectangle{Box: ghost, Color: draw.ColorGhost},
			draw.Crosshair{Center: t.ghost, Size: 10, Color: draw.ColorCrosshair},
		}
	default:
		return nil
	}
}

func (t *DragTool) reset() {
	t.state = dragIdle
	t.key = ""
}
