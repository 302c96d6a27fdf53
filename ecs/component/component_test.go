package component

import (
	"testing"

	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentNames(t *testing.T) {
	for _, id := range []ComponentID{PositionID, DrawableID, CollisionID} {
		parsed, ok := ParseComponentID(id.String())
		require.True(t, ok, id.String())
		assert.Equal(t, id, parsed)
	}
	_, ok := ParseComponentID("physics")
	assert.False(t, ok)
	assert.False(t, ComponentID(0).Valid())
	assert.Equal(t, DrawableID, DrawableComponent.ID())
}

func TestRoundTripRegisteredTypes(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name string
		v    any
	}{
		{"position", NewPosition(geom.V(50, 60))},
		{"collision", NewCollision(geom.V(15, 15), BodySolid)},
		{"rectangle", NewRectangle(geom.V(20, 30))},
		{"shape_drawable", NewShapeDrawable("rectangle", NewRectangle(geom.V(20, 20)))},
		{"drawable", NewDrawable(
			NewShapeDrawable("base", NewRectangle(geom.V(10, 10))),
			NewShapeDrawable("rectangle", NewRectangle(geom.V(20, 20))),
		)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := reg.Marshal(tc.v)
			require.NoError(t, err)

			out, err := reg.Unmarshal(data)
			require.NoError(t, err)

			again, err := reg.Marshal(out)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))
		})
	}
}

func TestDrawableDecodesObservableFields(t *testing.T) {
	reg := NewRegistry()
	data, err := reg.Marshal(NewDrawable(NewShapeDrawable("rectangle", NewRectangle(geom.V(20, 20)))))
	require.NoError(t, err)

	v, err := reg.Unmarshal(data)
	require.NoError(t, err)
	d := v.(*Drawable)

	top, ok := d.TopDrawable()
	require.True(t, ok)
	assert.Equal(t, "rectangle", top.Key())
	assert.True(t, top.Contains(geom.V(105, 95), geom.V(100, 100)))

	var events []observe.Event
	d.Listen("drawable", observe.ObserverFunc(func(_ string, evt observe.Event) {
		events = append(events, evt)
	}))
	top.(*ShapeDrawable).Shape().(*Rectangle).SetDimension(geom.V(40, 40))
	require.Len(t, events, 1, "rehydrated shape forwards its changes")
	assert.Equal(t, []string{"rectangle", "shape"}, events[0].Path)
	assert.Equal(t, "dimension", events[0].Property)
}

func TestDrawableOrdering(t *testing.T) {
	d := NewDrawable()
	_, ok := d.TopDrawable()
	assert.False(t, ok)

	d.Put(NewShapeDrawable("a", NewRectangle(geom.V(1, 1))))
	d.Put(NewShapeDrawable("b", NewRectangle(geom.V(2, 2))))
	top, _ := d.TopDrawable()
	assert.Equal(t, "b", top.Key())

	d.Put(NewShapeDrawable("a", NewRectangle(geom.V(3, 3))))
	assert.Equal(t, 2, d.Len(), "replacing keeps one item per key")
	top, _ = d.TopDrawable()
	assert.Equal(t, "b", top.Key())

	assert.True(t, d.Remove("b"))
	assert.False(t, d.Remove("b"))
	top, _ = d.TopDrawable()
	assert.Equal(t, "a", top.Key())
}

func TestReplacedItemStopsForwarding(t *testing.T) {
	first := NewRectangle(geom.V(1, 1))
	d := NewDrawable(NewShapeDrawable("r", first))
	count := 0
	d.Listen("drawable", observe.ObserverFunc(func(string, observe.Event) { count++ }))

	d.Put(NewShapeDrawable("r", NewRectangle(geom.V(2, 2))))
	count = 0
	first.SetDimension(geom.V(9, 9))
	assert.Zero(t, count)
}

func TestPositionNotifies(t *testing.T) {
	p := NewPosition(geom.V(1, 2))
	var got []observe.Event
	p.Listen("position", observe.ObserverFunc(func(_ string, evt observe.Event) { got = append(got, evt) }))

	assert.False(t, p.SetPosition(geom.V(1, 2)))
	assert.True(t, p.SetPosition(geom.V(3, 4)))
	require.Len(t, got, 1)
	assert.Equal(t, geom.V(1, 2), got[0].Old)
	assert.Equal(t, geom.V(3, 4), got[0].New)
}

func TestBodyTypeText(t *testing.T) {
	for _, b := range []BodyType{BodyNone, BodyEnvironment, BodySolid} {
		text, err := b.MarshalText()
		require.NoError(t, err)
		var back BodyType
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, b, back)
	}
	var b BodyType
	assert.Error(t, b.UnmarshalText([]byte("lava")))
	_, err := BodyType(9).MarshalText()
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewCollision(geom.V(15, 15), BodyEnvironment)
	clone := c.Clone().(*Collision)
	clone.SetDimension(geom.V(1, 1))
	assert.Equal(t, geom.V(15, 15), c.Dimension())
	assert.Equal(t, BodyEnvironment, clone.BodyType())
}
