package command

import (
	"fmt"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
)

// AddEntity inserts an entity under a key reserved when the command is built, so
// redo puts the entity back under the same key.
type AddEntity struct {
	State
	world  *ecs.World
	key    string
	entity *ecs.Entity
}

func NewAddEntity(w *ecs.World, e *ecs.Entity) *AddEntity {
	return &AddEntity{world: w, key: w.NextKey(), entity: e}
}

func (c *AddEntity) Key() string         { return c.key }
func (c *AddEntity) Entity() *ecs.Entity { return c.entity }

func (c *AddEntity) Execute() error {
	return c.Do(func() error {
		return c.world.AddEntity(c.key, c.entity)
	})
}

func (c *AddEntity) Undo() error {
	return c.Revert(func() error {
		_, err := c.world.RemoveEntity(c.key)
		return err
	})
}

// RemoveEntity detaches an entity and restores it at its original position on
// undo.
type RemoveEntity struct {
	State
	world   *ecs.World
	key     string
	removed *ecs.Entity
	index   int
}

func NewRemoveEntity(w *ecs.World, key string) *RemoveEntity {
	return &RemoveEntity{world: w, key: key, index: -1}
}

func (c *RemoveEntity) Key() string { return c.key }

func (c *RemoveEntity) Execute() error {
	return c.Do(func() error {
		e, idx, err := c.world.Detach(c.key)
		if err != nil {
			return err
		}
		c.removed, c.index = e, idx
		return nil
	})
}

func (c *RemoveEntity) Undo() error {
	return c.Revert(func() error {
		return c.world.InsertEntity(c.index, c.key, c.removed)
	})
}

// MoveEntity changes an entity's position from start to end.
type MoveEntity struct {
	State
	world      *ecs.World
	key        string
	start, end geom.Vector
	mergeID    string
}

func NewMoveEntity(w *ecs.World, key string, start, end geom.Vector) *MoveEntity {
	return &MoveEntity{world: w, key: key, start: start, end: end}
}

// WithMergeID lets consecutive moves pushed with the same id collapse into one
// history entry. Moves without an id never merge.
func (c *MoveEntity) WithMergeID(id string) *MoveEntity {
	c.mergeID = id
	return c
}

func (c *MoveEntity) Key() string        { return c.key }
func (c *MoveEntity) Start() geom.Vector { return c.start }
func (c *MoveEntity) End() geom.Vector   { return c.end }

func (c *MoveEntity) Execute() error {
	return c.Do(func() error { return c.place(c.end) })
}

func (c *MoveEntity) Undo() error {
	return c.Revert(func() error { return c.place(c.start) })
}

func (c *MoveEntity) place(p geom.Vector) error {
	e, ok := c.world.Entity(c.key)
	if !ok {
		return fmt.Errorf("%w: %q", ecs.ErrNotFound, c.key)
	}
	pos, ok := ecs.Get(e, component.PositionComponent)
	if !ok {
		return fmt.Errorf("command: move %q: entity has no position", c.key)
	}
	pos.SetPosition(p)
	return nil
}

func (c *MoveEntity) MergeID() string { return c.mergeID }

// Merge extends the receiver to end where next ends.
func (c *MoveEntity) Merge(next Command) bool {
	n, ok := next.(*MoveEntity)
	if !ok || n.key != c.key || n.world != c.world {
		return false
	}
	c.end = n.end
	return true
}
