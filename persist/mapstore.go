package persist

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/serialize"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// MapStore keeps map documents under <Root>/maps/<name>.json.
type MapStore struct {
	Root string

	registry *serialize.Registry
	compress bool
	log      *zap.Logger

	mu       sync.Mutex
	inflight map[string]*semaphore.Weighted
}

type Option func(*MapStore)

// WithCompression writes maps zstd-compressed. Reading detects compression on its
// own, so stores with and without this option read each other's files.
func WithCompression() Option {
	return func(s *MapStore) { s.compress = true }
}

func WithRegistry(r *serialize.Registry) Option {
	return func(s *MapStore) {
		if r != nil {
			s.registry = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *MapStore) {
		if l != nil {
			s.log = l
		}
	}
}

func NewMapStore(root string, opts ...Option) *MapStore {
	s := &MapStore{
		Root:     root,
		registry: component.NewRegistry(),
		log:      zap.NewNop(),
		inflight: make(map[string]*semaphore.Weighted),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// At returns a store for another project root with the same registry, compression
// and logger. s is not modified.
func (s *MapStore) At(root string) *MapStore {
	return &MapStore{
		Root:     root,
		registry: s.registry,
		compress: s.compress,
		log:      s.log,
		inflight: make(map[string]*semaphore.Weighted),
	}
}

func (s *MapStore) Registry() *serialize.Registry {
	return s.registry
}

// Path returns the file a map is stored in.
func (s *MapStore) Path(name string) string {
	return filepath.Join(s.Root, "maps", name+".json")
}

// SaveMap writes w to the map file. The file is replaced atomically, so a failed
// save leaves the previous version in place.
func (s *MapStore) SaveMap(ctx context.Context, name string, w *ecs.World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	release, err := s.acquire(name)
	if err != nil {
		return err
	}
	defer release()

	data, err := Encode(s.registry, w)
	if err != nil {
		return err
	}
	if s.compress {
		if data, err = compress(data); err != nil {
			return fmt.Errorf("persist: compress %s: %w", name, err)
		}
	}

	path := s.Path(name)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("persist: save %s: %w", path, err)
	}
	s.log.Info("map saved", zap.String("path", path), zap.Int("entities", w.Len()), zap.Int("bytes", len(data)))
	return nil
}

// LoadMap reads the map into a fresh world built with empty.EmptyClone, then moves
// the result into empty and returns it. On failure empty is unchanged and the error
// is a *LoadError.
func (s *MapStore) LoadMap(ctx context.Context, name string, empty *ecs.World) (*ecs.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	release, err := s.acquire(name)
	if err != nil {
		return nil, err
	}
	defer release()

	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if bytes.HasPrefix(data, zstdMagic) {
		if data, err = decompress(data); err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
		}
	}

	loaded, err := Decode(s.registry, data, empty.EmptyClone)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	empty.Move(loaded)
	s.log.Info("map loaded", zap.String("path", path), zap.Int("entities", empty.Len()))
	return empty, nil
}

// Exists reports whether the map file is present.
func (s *MapStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

func (s *MapStore) acquire(name string) (func(), error) {
	s.mu.Lock()
	sem, ok := s.inflight[name]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.inflight[name] = sem
	}
	s.mu.Unlock()

	if !sem.TryAcquire(1) {
		return nil, fmt.Errorf("%w: %s", ErrBusy, name)
	}
	return func() { sem.Release(1) }, nil
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
