// Package ebitensurface renders draw primitives onto an ebiten image.
package ebitensurface

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/geom"
)

// Surface keeps the latest frame handed to Render and paints it on every Draw.
type Surface struct {
	frame []draw.Primitive

	// Offset and Zoom map canvas coordinates to screen pixels.
	Offset geom.Vector
	Zoom   float64
}

func New() *Surface {
	return &Surface{Zoom: 1}
}

func (s *Surface) Render(prims []draw.Primitive) {
	s.frame = append(s.frame[:0], prims...)
}

// Draw paints the current frame onto screen.
func (s *Surface) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	ctx := &imageContext{dst: screen, offset: s.Offset, zoom: s.zoom()}
	for _, p := range s.frame {
		p.Draw(ctx)
	}
}

// ToCanvas converts a screen pixel position to canvas coordinates.
func (s *Surface) ToCanvas(x, y int) geom.Vector {
	return geom.V(float64(x), float64(y)).Scale(1 / s.zoom()).Add(s.Offset)
}

func (s *Surface) zoom() float64 {
	if s.Zoom <= 0 {
		return 1
	}
	return s.Zoom
}

type imageContext struct {
	dst    *ebiten.Image
	offset geom.Vector
	zoom   float64
}

func (c *imageContext) screen(v geom.Vector) (float32, float32) {
	p := v.Sub(c.offset).Scale(c.zoom)
	return float32(p.X), float32(p.Y)
}

func (c *imageContext) FillRect(b geom.Box, clr color.Color) {
	x, y := c.screen(b.Min)
	vector.FillRect(c.dst, x, y, float32(b.Width()*c.zoom), float32(b.Height()*c.zoom), clr, false)
}

func (c *imageContext) StrokeRect(b geom.Box, width float32, clr color.Color) {
	x, y := c.screen(b.Min)
	vector.StrokeRect(c.dst, x, y, float32(b.Width()*c.zoom), float32(b.Height()*c.zoom), width, clr, false)
}

func (c *imageContext) Line(from, to geom.Vector, width float32, clr color.Color) {
	x0, y0 := c.screen(from)
	x1, y1 := c.screen(to)
	vector.StrokeLine(c.dst, x0, y0, x1, y1, width, clr, true)
}
