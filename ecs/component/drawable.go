package component

import (
	"encoding/json"
	"fmt"

	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
	"github.com/milk9111/duckling/serialize"
)

// DrawableItem is one renderable owned by a Drawable component. ShapeDrawable is the
// only variant.
type DrawableItem interface {
	Key() string
	Contains(point, origin geom.Vector) bool
	Bounds(origin geom.Vector) geom.Box
	Listen(key string, obs observe.Observer) observe.Subscription
	CloneItem() DrawableItem
}

// ShapeDrawable draws a shape.
type ShapeDrawable struct {
	observe.Subject
	key      string
	shape    Shape
	shapeSub observe.Subscription
}

func NewShapeDrawable(key string, shape Shape) *ShapeDrawable {
	d := &ShapeDrawable{key: key}
	d.setShape(shape)
	return d
}

func (d *ShapeDrawable) Key() string  { return d.key }
func (d *ShapeDrawable) Shape() Shape { return d.shape }

// SetShape swaps the shape and stops forwarding the old one's events.
func (d *ShapeDrawable) SetShape(s Shape) {
	old := d.shape
	d.setShape(s)
	d.Notify(observe.Event{Kind: observe.KindSet, Property: "shape", Old: old, New: s})
}

func (d *ShapeDrawable) setShape(s Shape) {
	d.shapeSub.Cancel()
	d.shape = s
	d.shapeSub = observe.Subscription{}
	if s != nil {
		d.shapeSub = s.Listen("shape", observe.ObserverFunc(func(_ string, evt observe.Event) {
			d.Notify(evt.Within("shape"))
		}))
	}
}

func (d *ShapeDrawable) Contains(point, origin geom.Vector) bool {
	return d.shape != nil && d.shape.Contains(point, origin)
}

func (d *ShapeDrawable) Bounds(origin geom.Vector) geom.Box {
	if d.shape == nil {
		return geom.Box{Min: origin, Max: origin}
	}
	return d.shape.Bounds(origin)
}

func (d *ShapeDrawable) CloneItem() DrawableItem {
	var shape Shape
	if d.shape != nil {
		shape = d.shape.CloneShape()
	}
	return NewShapeDrawable(d.key, shape)
}

func (d *ShapeDrawable) EncodeFields(r *serialize.Registry) (map[string]any, error) {
	fields := map[string]any{"key": d.key}
	if d.shape != nil {
		shape, err := r.Marshal(d.shape)
		if err != nil {
			return nil, err
		}
		fields["shape"] = shape
	}
	return fields, nil
}

func (d *ShapeDrawable) DecodeFields(r *serialize.Registry, fields map[string]json.RawMessage) error {
	if raw, ok := fields["key"]; ok {
		if err := json.Unmarshal(raw, &d.key); err != nil {
			return err
		}
	}
	raw, ok := fields["shape"]
	if !ok {
		return nil
	}
	shape, err := serialize.UnmarshalAs[Shape](r, raw)
	if err != nil {
		return err
	}
	d.setShape(shape)
	return nil
}

// Drawable owns an ordered, keyed collection of drawables. The most recently put
// item is the top drawable.
type Drawable struct {
	observe.Subject
	order []string
	items map[string]DrawableItem
	subs  map[string]observe.Subscription
}

var DrawableComponent = newComponentKind[*Drawable](DrawableID)

func NewDrawable(items ...DrawableItem) *Drawable {
	d := &Drawable{}
	for _, item := range items {
		d.put(item)
	}
	return d
}

func (d *Drawable) ID() ComponentID { return DrawableID }

// Put inserts item, replacing any item with the same key. A replaced item keeps its
// place in the order.
func (d *Drawable) Put(item DrawableItem) {
	if item == nil {
		return
	}
	old, existed := d.items[item.Key()]
	d.put(item)
	kind := observe.KindAdded
	if existed {
		kind = observe.KindSet
	}
	d.Notify(observe.Event{Kind: kind, Property: item.Key(), Old: old, New: item})
}

func (d *Drawable) put(item DrawableItem) {
	if d.items == nil {
		d.items = make(map[string]DrawableItem)
		d.subs = make(map[string]observe.Subscription)
	}
	key := item.Key()
	if _, ok := d.items[key]; ok {
		d.subs[key].Cancel()
	} else {
		d.order = append(d.order, key)
	}
	d.items[key] = item
	d.subs[key] = item.Listen(key, observe.ObserverFunc(func(k string, evt observe.Event) {
		d.Notify(evt.Within(k))
	}))
}

// Remove deletes the item under key.
func (d *Drawable) Remove(key string) bool {
	item, ok := d.items[key]
	if !ok {
		return false
	}
	d.subs[key].Cancel()
	delete(d.subs, key)
	delete(d.items, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.Notify(observe.Event{Kind: observe.KindRemoved, Property: key, Old: item})
	return true
}

func (d *Drawable) Get(key string) (DrawableItem, bool) {
	item, ok := d.items[key]
	return item, ok
}

// Items returns the drawables in order, bottom first.
func (d *Drawable) Items() []DrawableItem {
	out := make([]DrawableItem, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.items[k])
	}
	return out
}

func (d *Drawable) Len() int {
	return len(d.order)
}

// TopDrawable returns the highest-priority drawable, used for hit testing.
func (d *Drawable) TopDrawable() (DrawableItem, bool) {
	if len(d.order) == 0 {
		return nil, false
	}
	return d.items[d.order[len(d.order)-1]], true
}

func (d *Drawable) Clone() Component {
	c := &Drawable{}
	for _, item := range d.Items() {
		c.put(item.CloneItem())
	}
	return c
}

func (d *Drawable) EncodeFields(r *serialize.Registry) (map[string]any, error) {
	items := make([]json.RawMessage, 0, len(d.order))
	for _, item := range d.Items() {
		raw, err := r.Marshal(item)
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return map[string]any{"drawables": items}, nil
}

func (d *Drawable) DecodeFields(r *serialize.Registry, fields map[string]json.RawMessage) error {
	raw, ok := fields["drawables"]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	for i, itemRaw := range items {
		item, err := serialize.UnmarshalAs[DrawableItem](r, itemRaw)
		if err != nil {
			return fmt.Errorf("drawable %d: %w", i, err)
		}
		d.put(item)
	}
	return nil
}
