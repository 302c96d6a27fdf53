package command

import (
	"testing"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(at geom.Vector) *ecs.Entity {
	return ecs.NewEntity(
		component.NewPosition(at),
		component.NewDrawable(component.NewShapeDrawable("rectangle", component.NewRectangle(geom.V(20, 20)))),
		component.NewCollision(geom.V(15, 15), component.BodyNone),
	)
}

func positionOf(t *testing.T, w *ecs.World, key string) geom.Vector {
	t.Helper()
	e, ok := w.Entity(key)
	require.True(t, ok)
	pos, ok := ecs.Get(e, component.PositionComponent)
	require.True(t, ok)
	return pos.Position()
}

func TestCreateThenUndo(t *testing.T) {
	w := ecs.NewWorld()
	q := NewQueue()
	add := NewAddEntity(w, box(geom.V(50, 50)))

	require.NoError(t, q.Push(add))
	require.Equal(t, 1, w.Len())
	assert.Equal(t, geom.V(50, 50), positionOf(t, w, add.Key()))

	require.NoError(t, q.Undo())
	assert.Equal(t, 0, w.Len())

	require.NoError(t, q.Redo())
	assert.True(t, w.Has(add.Key()), "redo restores the reserved key")
}

func TestAddEntityReservesKey(t *testing.T) {
	w := ecs.NewWorld()
	first := NewAddEntity(w, box(geom.V(0, 0)))
	second := NewAddEntity(w, box(geom.V(0, 0)))
	assert.NotEqual(t, first.Key(), second.Key())

	require.NoError(t, second.Execute())
	require.NoError(t, first.Execute())
	assert.Equal(t, []string{second.Key(), first.Key()}, w.Keys())
}

func TestDragUndoRedo(t *testing.T) {
	w := ecs.NewWorld()
	q := NewQueue()
	add := NewAddEntity(w, box(geom.V(50, 50)))
	require.NoError(t, q.Push(add))

	require.NoError(t, q.Push(NewMoveEntity(w, add.Key(), geom.V(50, 50), geom.V(80, 80))))
	assert.Equal(t, geom.V(80, 80), positionOf(t, w, add.Key()))

	require.NoError(t, q.Undo())
	assert.Equal(t, geom.V(50, 50), positionOf(t, w, add.Key()))

	require.NoError(t, q.Redo())
	assert.Equal(t, geom.V(80, 80), positionOf(t, w, add.Key()))
}

func TestMoveEntityMissing(t *testing.T) {
	w := ecs.NewWorld()
	err := NewMoveEntity(w, "ghost", geom.V(0, 0), geom.V(1, 1)).Execute()
	assert.ErrorIs(t, err, ecs.ErrNotFound)
}

func TestMoveEntityMerge(t *testing.T) {
	cases := []struct {
		name    string
		first   string
		second  string
		wantLen int
	}{
		{"no_ids", "", "", 2},
		{"same_id", "nudge:a", "nudge:a", 1},
		{"different_ids", "drag:1", "drag:2", 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			require.NoError(t, w.AddEntity("a", box(geom.V(0, 0))))
			q := NewQueue(WithMerging())

			require.NoError(t, q.Push(NewMoveEntity(w, "a", geom.V(0, 0), geom.V(1, 1)).WithMergeID(c.first)))
			require.NoError(t, q.Push(NewMoveEntity(w, "a", geom.V(1, 1), geom.V(4, 4)).WithMergeID(c.second)))
			assert.Equal(t, c.wantLen, q.Len())

			require.NoError(t, q.Undo())
			if c.wantLen == 1 {
				assert.Equal(t, geom.V(0, 0), positionOf(t, w, "a"))
			} else {
				assert.Equal(t, geom.V(1, 1), positionOf(t, w, "a"))
			}
			require.NoError(t, q.Redo())
			assert.Equal(t, geom.V(4, 4), positionOf(t, w, "a"))
		})
	}
}

func TestRemoveEntityRestoresIndex(t *testing.T) {
	w := ecs.NewWorld()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, w.AddEntity(k, box(geom.V(0, 0))))
	}
	q := NewQueue()

	require.NoError(t, q.Push(NewRemoveEntity(w, "b")))
	assert.Equal(t, []string{"a", "c"}, w.Keys())

	require.NoError(t, q.Undo())
	assert.Equal(t, []string{"a", "b", "c"}, w.Keys())

	err := q.Push(NewRemoveEntity(w, "zzz"))
	assert.ErrorIs(t, err, ecs.ErrNotFound)
	assert.Equal(t, 1, q.Len())
}
