package ecs

import "github.com/milk9111/duckling/observe"

// Selection holds the key of the selected entity. The empty key means nothing is
// selected.
type Selection struct {
	*observe.Value[string]
}

func NewSelection() *Selection {
	return &Selection{Value: observe.NewValue("entityKey", "")}
}

func (s *Selection) Key() string {
	return s.Get()
}

func (s *Selection) Has() bool {
	return s.Get() != ""
}

func (s *Selection) Set(key string) bool {
	return s.Value.Set(key)
}

func (s *Selection) Clear() bool {
	return s.Set("")
}
