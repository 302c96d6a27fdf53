package persist

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sampleWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	bodies := []component.BodyType{component.BodyNone, component.BodySolid, component.BodyEnvironment}
	for i, b := range bodies {
		e := ecs.NewEntity(
			component.NewPosition(geom.V(float64(10*i), 5)),
			component.NewDrawable(component.NewShapeDrawable("rectangle", component.NewRectangle(geom.V(20, 20)))),
			component.NewCollision(geom.V(15, 15), b),
		)
		require.NoError(t, w.AddEntity("k"+strconv.Itoa(3-i), e))
	}
	return w
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"plain", nil},
		{"compressed", []Option{WithCompression()}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMapStore(t.TempDir(), append(c.opts, WithLogger(zaptest.NewLogger(t)))...)
			src := sampleWorld(t)
			require.NoError(t, store.SaveMap(ctx, "level1", src))
			assert.True(t, store.Exists("level1"))

			target := ecs.NewWorld()
			got, err := store.LoadMap(ctx, "level1", target)
			require.NoError(t, err)
			assert.Same(t, target, got)
			assert.Equal(t, []string{"k3", "k2", "k1"}, got.Keys(), "insertion order survives")

			e, _ := got.Entity("k2")
			col, ok := ecs.Get(e, component.CollisionComponent)
			require.True(t, ok)
			assert.Equal(t, component.BodySolid, col.BodyType())

			want, err := Digest(store.Registry(), src)
			require.NoError(t, err)
			have, err := Digest(store.Registry(), got)
			require.NoError(t, err)
			assert.Equal(t, want, have)
		})
	}
}

func TestCompressedFilesAreZstd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, NewMapStore(root, WithCompression()).SaveMap(context.Background(), "m", sampleWorld(t)))
	data, err := os.ReadFile(filepath.Join(root, "maps", "m.json"))
	require.NoError(t, err)
	assert.Equal(t, zstdMagic, data[:4])

	_, err = NewMapStore(root).LoadMap(context.Background(), "m", ecs.NewWorld())
	assert.NoError(t, err, "plain stores read compressed maps")
}

func TestStoreAtOtherRoot(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	store := NewMapStore(first, WithCompression())
	other := store.At(second)

	assert.Equal(t, first, store.Root)
	assert.Equal(t, second, other.Root)
	assert.Same(t, store.Registry(), other.Registry())

	require.NoError(t, other.SaveMap(context.Background(), "m", sampleWorld(t)))
	assert.False(t, store.Exists("m"))
	data, err := os.ReadFile(filepath.Join(second, "maps", "m.json"))
	require.NoError(t, err)
	assert.Equal(t, zstdMagic, data[:4], "compression carries over")
}

func TestLoadFailureLeavesWorldIntact(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "maps"), 0755))
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "maps", name+".json"), []byte(body), 0644))
	}
	write("garbage", "{not json")
	write("future", `{"version":7,"entities":{},"order":[]}`)
	write("dangling", `{"version":1,"entities":{},"order":["ghost"]}`)
	write("badtag", `{"version":1,"entities":{"a":{"position":{"@tag":"Nope"}}},"order":["a"]}`)

	cases := []struct {
		name string
		is   error
	}{
		{"missing", fs.ErrNotExist},
		{"garbage", ErrCorrupt},
		{"future", ErrUnsupportedVersion},
		{"dangling", ErrCorrupt},
		{"badtag", nil},
	}
	store := NewMapStore(root)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			current := sampleWorld(t)
			_, err := store.LoadMap(context.Background(), c.name, current)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, store.Path(c.name), le.Path)
			if c.is != nil {
				assert.ErrorIs(t, err, c.is)
			}
			assert.Equal(t, []string{"k3", "k2", "k1"}, current.Keys())
		})
	}
}

func TestBusyMap(t *testing.T) {
	store := NewMapStore(t.TempDir())
	release, err := store.acquire("m")
	require.NoError(t, err)

	assert.ErrorIs(t, store.SaveMap(context.Background(), "m", ecs.NewWorld()), ErrBusy)
	_, err = store.LoadMap(context.Background(), "m", ecs.NewWorld())
	assert.ErrorIs(t, err, ErrBusy)
	assert.NoError(t, store.SaveMap(context.Background(), "other", ecs.NewWorld()))

	release()
	assert.NoError(t, store.SaveMap(context.Background(), "m", ecs.NewWorld()))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMapStore(t.TempDir())
	assert.ErrorIs(t, store.SaveMap(ctx, "m", ecs.NewWorld()), context.Canceled)
	assert.False(t, store.Exists("m"))
}

func TestDigestTracksChanges(t *testing.T) {
	store := NewMapStore(t.TempDir())
	w := sampleWorld(t)
	before, err := Digest(store.Registry(), w)
	require.NoError(t, err)

	e, _ := w.Entity("k1")
	pos, _ := ecs.Get(e, component.PositionComponent)
	pos.SetPosition(geom.V(99, 99))
	after, err := Digest(store.Registry(), w)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestProjectListOpen(t *testing.T) {
	p := func(n int) Project { return NewProject("/p/" + strconv.Itoa(n)) }
	full := ProjectList{}
	for i := 1; i <= MaxRecentProjects; i++ {
		full = append(full, p(i))
	}

	cases := []struct {
		name string
		list ProjectList
		open Project
		want ProjectList
	}{
		{"empty", nil, p(1), ProjectList{p(1)}},
		{"new_front", ProjectList{p(1), p(2)}, p(3), ProjectList{p(3), p(1), p(2)}},
		{"dedupe", ProjectList{p(1), p(2), p(3)}, p(2), ProjectList{p(2), p(1), p(3)}},
		{"cap", full, p(9), append(ProjectList{p(9)}, full[:MaxRecentProjects-1]...)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.list.Open(c.open))
		})
	}
	assert.Equal(t, "3", p(3).Title)
}

func TestProjectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".duckling", "recent_projects.json")
	list, err := LoadProjects(path)
	require.NoError(t, err)
	assert.Empty(t, list)

	list = list.Open(NewProject("/work/a")).Open(NewProject("/work/b"))
	require.NoError(t, SaveProjects(path, list))

	back, err := FileProjects{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, list, back)

	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))
	_, err = LoadProjects(path)
	assert.Error(t, err)
}

func TestGdataProjects(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	m, err := gdata.Open(gdata.Config{AppName: "duckling_test"})
	require.NoError(t, err)
	store := NewGdataProjects(m)

	list, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, list)

	list = list.Open(NewProject("/work/a"))
	require.NoError(t, store.Save(list))
	back, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, list, back)
}
