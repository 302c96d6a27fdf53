package draw

import (
	"image/color"
	"testing"

	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/stretchr/testify/assert"
)

type call struct {
	op  string
	box geom.Box
	clr color.Color
}

type fakeContext struct {
	calls []call
}

func (f *fakeContext) FillRect(b geom.Box, c color.Color) {
	f.calls = append(f.calls, call{"fill", b, c})
}

func (f *fakeContext) StrokeRect(b geom.Box, _ float32, c color.Color) {
	f.calls = append(f.calls, call{"stroke", b, c})
}

func (f *fakeContext) Line(from, to geom.Vector, _ float32, c color.Color) {
	f.calls = append(f.calls, call{"line", geom.Box{Min: from, Max: to}, c})
}

func TestBodyColor(t *testing.T) {
	cases := []struct {
		body component.BodyType
		want color.RGBA
	}{
		{component.BodyNone, color.RGBA{0x00, 0x00, 0xff, 0xff}},
		{component.BodyEnvironment, color.RGBA{0x00, 0x99, 0x00, 0xff}},
		{component.BodySolid, color.RGBA{0xff, 0x00, 0x00, 0xff}},
	}
	for _, c := range cases {
		t.Run(c.body.String(), func(t *testing.T) {
			assert.Equal(t, c.want, color.RGBAModel.Convert(BodyColor(c.body)))
		})
	}
}

func TestPrimitivesDraw(t *testing.T) {
	ctx := &fakeContext{}
	box := geom.CenteredBox(geom.V(50, 50), geom.V(20, 20))
	Rectangle{Box: box, Color: ColorShape}.Draw(ctx)
	BoundingBox{Box: box, Color: ColorBodySolid}.Draw(ctx)
	Crosshair{Center: geom.V(0, 0), Size: 10, Color: ColorCrosshair}.Draw(ctx)

	assert.Len(t, ctx.calls, 4)
	assert.Equal(t, "fill", ctx.calls[0].op)
	assert.Equal(t, geom.V(40, 40), ctx.calls[0].box.Min)
	assert.Equal(t, "stroke", ctx.calls[1].op)
	assert.Equal(t, geom.Box{Min: geom.V(-5, -5), Max: geom.V(5, 5)}, ctx.calls[2].box)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.Nil(t, r.Last())

	frame := []Primitive{Rectangle{}, BoundingBox{}, BoundingBox{}}
	r.Render(frame)
	frame[0] = Crosshair{}
	assert.IsType(t, Rectangle{}, r.Last()[0], "recorded frames are copies")
	assert.Len(t, Of[BoundingBox](r), 2)
}
