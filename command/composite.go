package command

import "fmt"

// Composite runs several commands as one history entry.
type Composite struct {
	State
	children []Command
}

func NewComposite(children ...Command) *Composite {
	kept := make([]Command, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &Composite{children: kept}
}

func (c *Composite) Len() int { return len(c.children) }

// Execute runs the children in order. If one fails, the children that already ran
// are undone and the error is returned.
func (c *Composite) Execute() error {
	return c.Do(func() error {
		for i, child := range c.children {
			if err := child.Execute(); err != nil {
				rollback(c.children[:i], func(cmd Command) error { return cmd.Undo() }, true)
				return fmt.Errorf("command: composite step %d: %w", i, err)
			}
		}
		return nil
	})
}

// Undo reverts the children in reverse order, re-executing already reverted
// children if one fails.
func (c *Composite) Undo() error {
	return c.Revert(func() error {
		for i := len(c.children) - 1; i >= 0; i-- {
			if err := c.children[i].Undo(); err != nil {
				rollback(c.children[i+1:], func(cmd Command) error { return cmd.Execute() }, false)
				return fmt.Errorf("command: composite undo step %d: %w", i, err)
			}
		}
		return nil
	})
}

func rollback(cmds []Command, fn func(Command) error, reverse bool) {
	if reverse {
		for i := len(cmds) - 1; i >= 0; i-- {
			_ = fn(cmds[i])
		}
		return
	}
	for _, cmd := range cmds {
		_ = fn(cmd)
	}
}
