// Package draw describes what the canvas shows as a flat list of primitives. A
// Surface turns the list into pixels; the editor view never draws directly.
package draw

import (
	"image/color"

	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"golang.org/x/image/colornames"
)

var (
	ColorBodyNone        color.Color = colornames.Blue
	ColorBodyEnvironment color.Color = color.RGBA{R: 0x00, G: 0x99, B: 0x00, A: 0xff}
	ColorBodySolid       color.Color = colornames.Red
	ColorShape           color.Color = colornames.Lightgrey
	ColorSelection       color.Color = colornames.Orange
	ColorGhost           color.Color = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0x60}
	ColorCrosshair       color.Color = colornames.Red
)

// BodyColor returns the outline color used for a collision body type.
func BodyColor(b component.BodyType) color.Color {
	switch b {
	case component.BodyEnvironment:
		return ColorBodyEnvironment
	case component.BodySolid:
		return ColorBodySolid
	default:
		return ColorBodyNone
	}
}

// Context is the drawing API a Surface hands to primitives.
type Context interface {
	FillRect(b geom.Box, c color.Color)
	StrokeRect(b geom.Box, width float32, c color.Color)
	Line(from, to geom.Vector, width float32, c color.Color)
}

type Primitive interface {
	Draw(ctx Context)
}

// Surface displays a full frame of primitives, replacing the previous frame.
type Surface interface {
	Render(prims []Primitive)
}

// Rectangle is a filled box.
type Rectangle struct {
	Box   geom.Box
	Color color.Color
}

func (r Rectangle) Draw(ctx Context) {
	ctx.FillRect(r.Box, r.Color)
}

// BoundingBox is an outlined box.
type BoundingBox struct {
	Box   geom.Box
	Color color.Color
	Width float32
}

func (b BoundingBox) Draw(ctx Context) {
	w := b.Width
	if w <= 0 {
		w = 1
	}
	ctx.StrokeRect(b.Box, w, b.Color)
}

// Crosshair is an X centered on a point.
type Crosshair struct {
	Center geom.Vector
	Size   float64
	Color  color.Color
}

func (c Crosshair) Draw(ctx Context) {
	h := c.Size / 2
	if h <= 0 {
		h = 5
	}
	ctx.Line(c.Center.Add(geom.V(-h, -h)), c.Center.Add(geom.V(h, h)), 1, c.Color)
	ctx.Line(c.Center.Add(geom.V(h, -h)), c.Center.Add(geom.V(-h, h)), 1, c.Color)
}
