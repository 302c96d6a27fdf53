package ecs

// entityStore keeps entities keyed by string in insertion order.
type entityStore struct {
	keys     []string
	entities map[string]*Entity
}

func (s *entityStore) has(key string) bool {
	_, ok := s.entities[key]
	return ok
}

func (s *entityStore) get(key string) (*Entity, bool) {
	e, ok := s.entities[key]
	return e, ok
}

func (s *entityStore) len() int {
	return len(s.keys)
}

func (s *entityStore) indexOf(key string) int {
	if !s.has(key) {
		return -1
	}
	for i, k := range s.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// insert places key at index, clamped to the valid range. The caller checks for
// duplicates.
func (s *entityStore) insert(index int, key string, e *Entity) {
	if s.entities == nil {
		s.entities = make(map[string]*Entity)
	}
	if index < 0 || index > len(s.keys) {
		index = len(s.keys)
	}
	s.keys = append(s.keys, "")
	copy(s.keys[index+1:], s.keys[index:])
	s.keys[index] = key
	s.entities[key] = e
}

func (s *entityStore) remove(key string) (*Entity, int) {
	idx := s.indexOf(key)
	if idx < 0 {
		return nil, -1
	}
	e := s.entities[key]
	delete(s.entities, key)
	s.keys = append(s.keys[:idx], s.keys[idx+1:]...)
	return e, idx
}

func (s *entityStore) snapshot() ([]string, []*Entity) {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	ents := make([]*Entity, len(keys))
	for i, k := range keys {
		ents[i] = s.entities[k]
	}
	return keys, ents
}

func (s *entityStore) reset() {
	s.keys = nil
	s.entities = nil
}
