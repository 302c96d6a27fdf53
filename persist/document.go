package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/serialize"
)

// FormatVersion is written into every map document.
const FormatVersion = 1

type document struct {
	Version  int                        `json:"version"`
	Entities map[string]json.RawMessage `json:"entities"`
	Order    []string                   `json:"order"`
}

// Encode writes w as an indented map document.
func Encode(r *serialize.Registry, w *ecs.World) ([]byte, error) {
	doc := document{
		Version:  FormatVersion,
		Entities: make(map[string]json.RawMessage, w.Len()),
		Order:    make([]string, 0, w.Len()),
	}
	var err error
	w.ForEach(func(key string, e *ecs.Entity) bool {
		var raw json.RawMessage
		raw, err = ecs.EncodeEntity(r, e)
		if err != nil {
			err = fmt.Errorf("persist: encode entity %q: %w", key, err)
			return false
		}
		doc.Entities[key] = raw
		doc.Order = append(doc.Order, key)
		return true
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("persist: encode map: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a map document into a world created by newWorld. Nothing is
// returned unless every entity decodes.
func Decode(r *serialize.Registry, data []byte, newWorld func() *ecs.World) (*ecs.World, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	order := doc.Order
	if order == nil {
		order = make([]string, 0, len(doc.Entities))
		for k := range doc.Entities {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	if len(order) != len(doc.Entities) {
		return nil, fmt.Errorf("%w: order lists %d keys for %d entities", ErrCorrupt, len(order), len(doc.Entities))
	}

	w := newWorld()
	for _, key := range order {
		raw, ok := doc.Entities[key]
		if !ok {
			return nil, fmt.Errorf("%w: order names unknown entity %q", ErrCorrupt, key)
		}
		e, err := ecs.DecodeEntity(r, raw)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", key, err)
		}
		if err := w.AddEntity(key, e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	return w, nil
}

// Digest hashes the encoded form of w. Two worlds with the same digest save to the
// same document.
func Digest(r *serialize.Registry, w *ecs.World) (uint64, error) {
	data, err := Encode(r, w)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
