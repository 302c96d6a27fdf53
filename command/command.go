// Package command implements the editor's undoable operations and the history
// queue that records them.
package command

import "errors"

var (
	ErrNotExecuted     = errors.New("command: undo before execute")
	ErrAlreadyExecuted = errors.New("command: already executed")
	ErrNilCommand      = errors.New("command: nil command")
)

// Command is a reversible edit. Execute and Undo alternate, starting with Execute.
type Command interface {
	Execute() error
	Undo() error
}

// Mergeable commands can absorb a later command with the same non-empty merge id,
// so a burst of edits becomes one history entry.
type Mergeable interface {
	MergeID() string
	// Merge folds next, which has already been executed, into the receiver. It
	// reports false when next cannot be absorbed.
	Merge(next Command) bool
}

// State enforces the execute/undo alternation. Embed it and route the command's
// work through Do and Revert.
type State struct {
	executed bool
}

func (s *State) Executed() bool {
	return s.executed
}

// Do runs fn and marks the command executed if fn succeeds.
func (s *State) Do(fn func() error) error {
	if s.executed {
		return ErrAlreadyExecuted
	}
	if err := fn(); err != nil {
		return err
	}
	s.executed = true
	return nil
}

// Revert runs fn and marks the command unexecuted if fn succeeds.
func (s *State) Revert(fn func() error) error {
	if !s.executed {
		return ErrNotExecuted
	}
	if err := fn(); err != nil {
		return err
	}
	s.executed = false
	return nil
}
