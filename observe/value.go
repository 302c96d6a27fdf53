package observe

// Value is a single observable attribute.
type Value[T comparable] struct {
	Subject
	property string
	v        T
}

func NewValue[T comparable](property string, initial T) *Value[T] {
	return &Value[T]{property: property, v: initial}
}

func (v *Value[T]) Get() T {
	return v.v
}

// Set stores nv and reports whether it differed from the current value.
func (v *Value[T]) Set(nv T) bool {
	return Assign(&v.Subject, &v.v, nv, v.property)
}
