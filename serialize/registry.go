// Package serialize maps concrete data types to stable string tags so polymorphic
// values (components, shapes) survive a save/load round trip.
package serialize

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// TagField is the JSON member that carries a value's registered tag.
const TagField = "@tag"

var (
	ErrUnregisteredType = errors.New("serialize: unregistered type")
	ErrTagConflict      = errors.New("serialize: tag conflict")
	ErrInvalidPrototype = errors.New("serialize: prototype must be a non-nil struct pointer")
)

// UnregisteredTypeError names the type or tag that had no registration.
type UnregisteredTypeError struct {
	Type string
	Tag  string
}

func (e *UnregisteredTypeError) Error() string {
	switch {
	case e.Tag != "":
		return fmt.Sprintf("serialize: no type registered for tag %q", e.Tag)
	case e.Type != "":
		return fmt.Sprintf("serialize: type %s has no registered tag", e.Type)
	default:
		return fmt.Sprintf("serialize: value has no %s member", TagField)
	}
}

func (e *UnregisteredTypeError) Unwrap() error {
	return ErrUnregisteredType
}

// Codec is implemented by types whose fields hold other tagged values. The registry
// hands itself over so nested values are encoded and rehydrated with the same tags.
type Codec interface {
	EncodeFields(r *Registry) (map[string]any, error)
	DecodeFields(r *Registry, fields map[string]json.RawMessage) error
}

// Registry is a 1:1 mapping between struct pointer types and tags.
type Registry struct {
	byType map[reflect.Type]string
	byTag  map[string]reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]string),
		byTag:  make(map[string]reflect.Type),
	}
}

// Register associates prototype's type with tag. Registering the same pair twice is
// a no-op; reusing either side with a different partner fails.
func (r *Registry) Register(tag string, prototype any) error {
	t := reflect.TypeOf(prototype)
	if tag == "" || t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %q", ErrInvalidPrototype, tag)
	}
	existingTag, typeKnown := r.byType[t]
	existingType, tagKnown := r.byTag[tag]
	if typeKnown && tagKnown && existingTag == tag && existingType == t {
		return nil
	}
	if typeKnown || tagKnown {
		return fmt.Errorf("%w: %s <-> %q", ErrTagConflict, t, tag)
	}
	r.byType[t] = tag
	r.byTag[tag] = t
	return nil
}

// MustRegister panics on registration failure. Meant for package setup.
func (r *Registry) MustRegister(tag string, prototype any) {
	if err := r.Register(tag, prototype); err != nil {
		panic(err)
	}
}

// TagOf returns the tag registered for v's runtime type.
func (r *Registry) TagOf(v any) (string, error) {
	t := reflect.TypeOf(v)
	tag, ok := r.byType[t]
	if !ok {
		name := "<nil>"
		if t != nil {
			name = t.String()
		}
		return "", &UnregisteredTypeError{Type: name}
	}
	return tag, nil
}

// Marshal encodes v as a JSON object carrying its tag next to its own fields.
func (r *Registry) Marshal(v any) (json.RawMessage, error) {
	tag, err := r.TagOf(v)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if c, ok := v.(Codec); ok {
		fields, err = c.EncodeFields(r)
		if err != nil {
			return nil, fmt.Errorf("serialize: encode %s: %w", tag, err)
		}
	} else {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("serialize: encode %s: %w", tag, err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("serialize: %s does not encode to an object: %w", tag, err)
		}
		fields = make(map[string]any, len(raw))
		for k, val := range raw {
			fields[k] = val
		}
	}
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[TagField] = tag

	// encoding/json sorts map keys, which keeps documents stable across saves.
	return json.Marshal(fields)
}

// Unmarshal rehydrates a value produced by Marshal.
func (r *Registry) Unmarshal(data []byte) (any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("serialize: decode: %w", err)
	}
	var tag string
	if raw, ok := fields[TagField]; ok {
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, fmt.Errorf("serialize: decode tag: %w", err)
		}
	}
	t, ok := r.byTag[tag]
	if !ok {
		return nil, &UnregisteredTypeError{Tag: tag}
	}

	inst := reflect.New(t.Elem()).Interface()
	if c, ok := inst.(Codec); ok {
		delete(fields, TagField)
		if err := c.DecodeFields(r, fields); err != nil {
			return nil, fmt.Errorf("serialize: decode %s: %w", tag, err)
		}
		return inst, nil
	}
	if err := json.Unmarshal(data, inst); err != nil {
		return nil, fmt.Errorf("serialize: decode %s: %w", tag, err)
	}
	return inst, nil
}

// UnmarshalAs decodes data and asserts the result to T.
func UnmarshalAs[T any](r *Registry, data []byte) (T, error) {
	var zero T
	v, err := r.Unmarshal(data)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("serialize: decoded %T, want %T", v, zero)
	}
	return out, nil
}
