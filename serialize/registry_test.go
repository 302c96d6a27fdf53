package serialize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type box struct {
	Label string
	Inner any
}

func (b *box) EncodeFields(r *Registry) (map[string]any, error) {
	inner, err := r.Marshal(b.Inner)
	if err != nil {
		return nil, err
	}
	return map[string]any{"label": b.Label, "inner": inner}, nil
}

func (b *box) DecodeFields(r *Registry, fields map[string]json.RawMessage) error {
	if err := json.Unmarshal(fields["label"], &b.Label); err != nil {
		return err
	}
	inner, err := r.Unmarshal(fields["inner"])
	if err != nil {
		return err
	}
	b.Inner = inner
	return nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register("test::Point", (*point)(nil)))
	require.NoError(t, r.Register("test::Box", (*box)(nil)))
	return r
}

func TestRegisterRules(t *testing.T) {
	r := newTestRegistry(t)

	assert.NoError(t, r.Register("test::Point", (*point)(nil)), "same pair is idempotent")
	assert.ErrorIs(t, r.Register("test::Other", (*point)(nil)), ErrTagConflict)
	assert.ErrorIs(t, r.Register("test::Point", (*box)(nil)), ErrTagConflict)
	assert.ErrorIs(t, r.Register("test::Value", point{}), ErrInvalidPrototype)
	assert.ErrorIs(t, r.Register("", (*point)(nil)), ErrInvalidPrototype)
}

func TestMustRegister(t *testing.T) {
	r := newTestRegistry(t)
	assert.NotPanics(t, func() { r.MustRegister("test::Point", (*point)(nil)) })
	assert.Panics(t, func() { r.MustRegister("test::Other", (*point)(nil)) })

	tag, err := r.TagOf(&point{})
	require.NoError(t, err)
	assert.Equal(t, "test::Point", tag)
}

func TestMarshalEmitsTag(t *testing.T) {
	r := newTestRegistry(t)

	data, err := r.Marshal(&point{X: 3, Y: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"@tag":"test::Point","x":3,"y":4}`, string(data))
}

func TestRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	in := &box{Label: "outer", Inner: &box{Label: "inner", Inner: &point{X: 1, Y: 2}}}
	data, err := r.Marshal(in)
	require.NoError(t, err)

	out, err := UnmarshalAs[*box](r, data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	again, err := r.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "encoding is deterministic")
}

func TestUnregistered(t *testing.T) {
	r := newTestRegistry(t)

	type stranger struct{ A int }
	_, err := r.Marshal(&stranger{})
	var ute *UnregisteredTypeError
	require.ErrorAs(t, err, &ute)
	assert.Contains(t, ute.Type, "stranger")
	assert.True(t, errors.Is(err, ErrUnregisteredType))

	_, err = r.Unmarshal([]byte(`{"@tag":"nope"}`))
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "nope", ute.Tag)

	_, err = r.Unmarshal([]byte(`{"x":1}`))
	assert.ErrorIs(t, err, ErrUnregisteredType)
	assert.EqualError(t, err, "serialize: value has no @tag member")

	_, err = r.Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}

func TestUnmarshalAsWrongType(t *testing.T) {
	r := newTestRegistry(t)
	data, err := r.Marshal(&point{})
	require.NoError(t, err)

	_, err = UnmarshalAs[*box](r, data)
	assert.Error(t, err)
}
