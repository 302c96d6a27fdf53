package ecs

import (
	"testing"

	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectEntity(x, y float64) *Entity {
	return NewEntity(
		component.NewPosition(geom.V(x, y)),
		component.NewDrawable(component.NewShapeDrawable("rectangle", component.NewRectangle(geom.V(20, 20)))),
		component.NewCollision(geom.V(15, 15), component.BodyNone),
	)
}

type eventLog struct {
	keys   []string
	events []observe.Event
}

func (l *eventLog) OnDataChanged(key string, evt observe.Event) {
	l.keys = append(l.keys, key)
	l.events = append(l.events, evt)
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name      string
		create    int
		removeKey string // "" = none
		wantKeys  []string
	}{
		{"single", 1, "e1", []string{}},
		{"three_remove_middle", 3, "e2", []string{"e1", "e3"}},
		{"none_removed", 2, "", []string{"e1", "e2"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			for i := 0; i < c.create; i++ {
				require.NoError(t, w.AddEntity(w.NextKey(), rectEntity(0, 0)))
			}
			require.Equal(t, c.create, w.Len())
			if c.removeKey != "" {
				e, err := w.RemoveEntity(c.removeKey)
				require.NoError(t, err)
				require.NotNil(t, e)
				assert.False(t, w.Has(c.removeKey))
			}
			assert.ElementsMatch(t, c.wantKeys, w.Keys())
		})
	}
}

func TestWorldErrors(t *testing.T) {
	w := NewWorld()
	first := rectEntity(1, 1)
	require.NoError(t, w.AddEntity("a", first))

	err := w.AddEntity("a", rectEntity(2, 2))
	assert.ErrorIs(t, err, ErrDuplicateKey)
	got, _ := w.Entity("a")
	assert.Same(t, first, got, "duplicate add leaves the world unchanged")
	assert.Equal(t, 1, w.Len())

	_, err = w.RemoveEntity("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, w.AddEntity("b", nil), ErrNilEntity)
}

func TestNextKeyNeverCollides(t *testing.T) {
	t.Run("sequential_skips_taken", func(t *testing.T) {
		w := NewWorld()
		require.NoError(t, w.AddEntity("e1", rectEntity(0, 0)))
		require.NoError(t, w.AddEntity("e2", rectEntity(0, 0)))
		assert.Equal(t, "e3", w.NextKey())
	})
	t.Run("sequential_monotonic_after_remove", func(t *testing.T) {
		w := NewWorld()
		k := w.NextKey()
		require.NoError(t, w.AddEntity(k, rectEntity(0, 0)))
		_, err := w.RemoveEntity(k)
		require.NoError(t, err)
		assert.NotEqual(t, k, w.NextKey())
	})
	t.Run("uuid", func(t *testing.T) {
		w := NewWorld(WithKeys(UUIDKeys{}))
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			k := w.NextKey()
			require.False(t, w.Has(k))
			require.False(t, seen[k])
			seen[k] = true
			require.NoError(t, w.AddEntity(k, rectEntity(0, 0)))
		}
	})
}

func TestForEachSnapshot(t *testing.T) {
	w := NewWorld()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, w.AddEntity(k, rectEntity(0, 0)))
	}

	var visited []string
	w.ForEach(func(key string, _ *Entity) bool {
		visited = append(visited, key)
		if key == "a" {
			_, err := w.RemoveEntity("b")
			require.NoError(t, err)
			require.NoError(t, w.AddEntity("d", rectEntity(0, 0)))
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, visited, "iteration follows the starting snapshot")
	assert.Equal(t, []string{"a", "c", "d"}, w.Keys())

	visited = nil
	w.ForEach(func(key string, _ *Entity) bool {
		visited = append(visited, key)
		return false
	})
	assert.Equal(t, []string{"a"}, visited)
}

func TestInsertEntityRestoresOrder(t *testing.T) {
	w := NewWorld()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, w.AddEntity(k, rectEntity(0, 0)))
	}
	e, idx, err := w.Detach("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	require.NoError(t, w.InsertEntity(idx, "b", e))
	assert.Equal(t, []string{"a", "b", "c"}, w.Keys())
}

func TestWorldForwardsComponentEvents(t *testing.T) {
	w := NewWorld()
	log := &eventLog{}
	w.Listen("data", log)

	e := rectEntity(50, 50)
	require.NoError(t, w.AddEntity("e1", e))
	pos, ok := Get(e, component.PositionComponent)
	require.True(t, ok)
	pos.SetPosition(geom.V(80, 80))

	require.Len(t, log.events, 2)
	assert.Equal(t, observe.KindAdded, log.events[0].Kind)
	assert.Equal(t, "e1", log.events[0].Property)

	moved := log.events[1]
	assert.Equal(t, observe.KindSet, moved.Kind)
	assert.Equal(t, []string{"e1", "position"}, moved.Path)
	assert.Equal(t, geom.V(80, 80), moved.New)

	_, err := w.RemoveEntity("e1")
	require.NoError(t, err)
	pos.SetPosition(geom.V(1, 1))
	assert.Len(t, log.events, 3, "removed entities stop forwarding")
}

func TestMoveReplacesContents(t *testing.T) {
	w := NewWorld()
	old := rectEntity(0, 0)
	require.NoError(t, w.AddEntity("old", old))
	log := &eventLog{}
	w.Listen("data", log)

	loaded := w.EmptyClone()
	assert.Equal(t, 0, loaded.Len())
	assert.Zero(t, loaded.Subject.Len(), "clones carry no listeners")
	fresh := rectEntity(5, 5)
	require.NoError(t, loaded.AddEntity("new", fresh))

	w.Move(loaded)

	assert.Equal(t, []string{"new"}, w.Keys())
	assert.Equal(t, 0, loaded.Len())
	require.Len(t, log.events, 1)
	assert.Equal(t, observe.KindReplaced, log.events[0].Kind)

	pos, _ := Get(old, component.PositionComponent)
	pos.SetPosition(geom.V(9, 9))
	assert.Len(t, log.events, 1, "replaced entities are unsubscribed")

	pos, _ = Get(fresh, component.PositionComponent)
	pos.SetPosition(geom.V(9, 9))
	assert.Len(t, log.events, 2)
}

func TestEntityComponents(t *testing.T) {
	e := NewEntity(component.NewPosition(geom.V(1, 1)))
	assert.True(t, Has(e, component.PositionComponent))
	assert.False(t, Has(e, component.CollisionComponent))

	assert.ErrorIs(t, e.AddComponent(component.NewPosition(geom.V(2, 2))), ErrComponentExists)
	assert.ErrorIs(t, e.AddComponent(nil), component.ErrNilComponent)
	require.NoError(t, Add(e, component.NewCollision(geom.V(3, 3), component.BodySolid)))
	assert.Equal(t, []component.ComponentID{component.PositionID, component.CollisionID}, e.ComponentIDs())

	assert.True(t, Remove(e, component.CollisionComponent))
	assert.False(t, Remove(e, component.CollisionComponent))

	_, ok := Get(e, component.DrawableComponent)
	assert.False(t, ok)
	_, ok = Get[*component.Position](nil, component.PositionComponent)
	assert.False(t, ok)
}

func TestEntityCodecRoundTrip(t *testing.T) {
	reg := component.NewRegistry()
	e := rectEntity(50, 50)
	data, err := EncodeEntity(reg, e)
	require.NoError(t, err)

	back, err := DecodeEntity(reg, data)
	require.NoError(t, err)
	assert.Equal(t, e.ComponentIDs(), back.ComponentIDs())

	pos, _ := Get(back, component.PositionComponent)
	assert.Equal(t, geom.V(50, 50), pos.Position())
	col, _ := Get(back, component.CollisionComponent)
	assert.Equal(t, geom.V(15, 15), col.Dimension())

	again, err := EncodeEntity(reg, back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	_, err = DecodeEntity(reg, []byte(`{"physics":{"@tag":"PositionComponent"}}`))
	assert.ErrorIs(t, err, component.ErrInvalidComponentKind)
	_, err = DecodeEntity(reg, []byte(`{"position":{"@tag":"CollisionComponent"}}`))
	assert.Error(t, err)
}

func TestSelection(t *testing.T) {
	s := NewSelection()
	log := &eventLog{}
	s.Listen("selectedEntity", log)

	assert.False(t, s.Has())
	assert.True(t, s.Set("e1"))
	assert.False(t, s.Set("e1"))
	assert.True(t, s.Clear())
	assert.Len(t, log.events, 2)
	assert.Equal(t, "selectedEntity", log.keys[0])
	assert.Equal(t, "entityKey", log.events[0].Property)
	assert.Equal(t, "e1", log.events[1].Old)
	assert.Equal(t, "", log.events[1].New)
}

func TestEntityCloneIsIndependent(t *testing.T) {
	src := rectEntity(10, 10)
	dup := src.Clone()
	assert.Equal(t, src.ComponentIDs(), dup.ComponentIDs())

	pos, ok := Get(dup, component.PositionComponent)
	require.True(t, ok)
	pos.SetPosition(geom.V(99, 99))

	orig, _ := Get(src, component.PositionComponent)
	assert.Equal(t, geom.V(10, 10), orig.Position())
}
