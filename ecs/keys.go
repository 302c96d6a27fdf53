package ecs

import (
	"strconv"

	"github.com/google/uuid"
)

// KeyGenerator proposes entity keys. World.NextKey keeps asking until it gets a key
// that is not in use.
type KeyGenerator interface {
	Next() string
}

// SequentialKeys yields "e1", "e2", ... and never repeats a key, even after the
// entity that used it is removed.
type SequentialKeys struct {
	Prefix string
	n      uint64
}

func (s *SequentialKeys) Next() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "e"
	}
	return prefix + strconv.FormatUint(s.n, 10)
}

// UUIDKeys yields random UUID strings.
type UUIDKeys struct{}

func (UUIDKeys) Next() string {
	return uuid.NewString()
}
