package canvas

import (
	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
)

// selectionMargin pads the selection highlight around the entity.
const selectionMargin = 3

// View keeps a Surface showing the world. Every change to the world or the
// selection rebuilds the whole primitive list.
type View struct {
	world     *ecs.World
	selection *ecs.Selection
	surface   draw.Surface
	overlay   func() []draw.Primitive
	subs      []observe.Subscription
}

// NewView subscribes to world and selection and renders the first frame.
func NewView(world *ecs.World, selection *ecs.Selection, surface draw.Surface) *View {
	v := &View{world: world, selection: selection, surface: surface}
	redraw := observe.ObserverFunc(func(string, observe.Event) { v.Redraw() })
	v.subs = append(v.subs, world.Listen("data", redraw))
	if selection != nil {
		v.subs = append(v.subs, selection.Listen("selectedEntity", redraw))
	}
	v.Redraw()
	return v
}

// SetOverlay sets the source of transient primitives drawn on top of the world.
func (v *View) SetOverlay(fn func() []draw.Primitive) {
	v.overlay = fn
}

// Close stops the view from reacting to changes.
func (v *View) Close() {
	for _, s := range v.subs {
		s.Cancel()
	}
	v.subs = nil
}

// Redraw renders the current state.
func (v *View) Redraw() {
	v.surface.Render(v.Primitives())
}

// Primitives builds the frame: filled shapes, then collision boxes, then the
// selection highlight, then the tool overlay.
func (v *View) Primitives() []draw.Primitive {
	var shapes, boxes []draw.Primitive
	v.world.ForEach(func(_ string, e *ecs.Entity) bool {
		p, ok := ecs.Get(e, component.PositionComponent)
		if !ok {
			return true
		}
		origin := p.Position()
		if d, ok := ecs.Get(e, component.DrawableComponent); ok {
			for _, item := range d.Items() {
				shapes = append(shapes, draw.Rectangle{Box: item.Bounds(origin), Color: draw.ColorShape})
			}
		}
		if c, ok := ecs.Get(e, component.CollisionComponent); ok {
			boxes = append(boxes, draw.BoundingBox{Box: c.Bounds(origin), Color: draw.BodyColor(c.BodyType())})
		}
		return true
	})

	prims := make([]draw.Primitive, 0, len(shapes)+len(boxes)+2)
	prims = append(prims, shapes...)
	prims = append(prims, boxes...)
	if hl, ok := v.highlight(); ok {
		prims = append(prims, hl)
	}
	if v.overlay != nil {
		prims = append(prims, v.overlay()...)
	}
	return prims
}

func (v *View) highlight() (draw.Primitive, bool) {
	if v.selection == nil || !v.selection.Has() {
		return nil, false
	}
	e, ok := v.world.Entity(v.selection.Key())
	if !ok {
		return nil, false
	}
	p, ok := ecs.Get(e, component.PositionComponent)
	if !ok {
		return nil, false
	}
	d, ok := ecs.Get(e, component.DrawableComponent)
	if !ok {
		return nil, false
	}
	top, ok := d.TopDrawable()
	if !ok {
		return nil, false
	}
	b := top.Bounds(p.Position())
	pad := geom.V(selectionMargin, selectionMargin)
	return draw.BoundingBox{Box: geom.Box{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}, Color: draw.ColorSelection, Width: 2}, true
}
