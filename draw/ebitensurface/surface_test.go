package ebitensurface

import (
	"testing"

	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/geom"
	"github.com/stretchr/testify/assert"
)

func TestToCanvas(t *testing.T) {
	cases := []struct {
		name   string
		offset geom.Vector
		zoom   float64
		x, y   int
		want   geom.Vector
	}{
		{"identity", geom.Vector{}, 1, 40, 30, geom.V(40, 30)},
		{"zero_zoom_is_one", geom.Vector{}, 0, 40, 30, geom.V(40, 30)},
		{"zoomed", geom.Vector{}, 2, 40, 30, geom.V(20, 15)},
		{"panned", geom.V(100, -50), 1, 40, 30, geom.V(140, -20)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &Surface{Offset: c.offset, Zoom: c.zoom}
			assert.Equal(t, c.want, s.ToCanvas(c.x, c.y))
		})
	}
}

func TestRenderReplacesFrame(t *testing.T) {
	s := New()
	s.Render([]draw.Primitive{draw.Rectangle{}, draw.Rectangle{}})
	s.Render([]draw.Primitive{draw.Crosshair{}})
	assert.Len(t, s.frame, 1)
}
