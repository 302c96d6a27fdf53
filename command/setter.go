package command

// Setter records a property change as an apply callback plus the values before and
// after.
type Setter[T any] struct {
	State
	apply    func(T)
	old, new T
	mergeID  string
}

func NewSetter[T any](apply func(T), old, new T) *Setter[T] {
	return &Setter[T]{apply: apply, old: old, new: new}
}

// WithMergeID makes consecutive setters with the same id collapse into one entry on
// a merging queue.
func (s *Setter[T]) WithMergeID(id string) *Setter[T] {
	s.mergeID = id
	return s
}

func (s *Setter[T]) Execute() error {
	return s.Do(func() error {
		s.apply(s.new)
		return nil
	})
}

func (s *Setter[T]) Undo() error {
	return s.Revert(func() error {
		s.apply(s.old)
		return nil
	})
}

func (s *Setter[T]) Old() T { return s.old }
func (s *Setter[T]) New() T { return s.new }

func (s *Setter[T]) MergeID() string { return s.mergeID }

// Merge keeps the receiver's old value and takes next's new value.
func (s *Setter[T]) Merge(next Command) bool {
	n, ok := next.(*Setter[T])
	if !ok || !s.Executed() || !n.Executed() {
		return false
	}
	s.new = n.new
	return true
}
