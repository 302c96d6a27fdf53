package command

import (
	"fmt"

	"github.com/milk9111/duckling/observe"
	"go.uber.org/zap"
)

// DefaultLimit is the number of history entries kept when no limit is set.
const DefaultLimit = 100

// HistoryState is carried in the "history" events a Queue emits.
type HistoryState struct {
	CanUndo bool
	CanRedo bool
	Len     int
}

// Queue is the linear undo history. Entries before the cursor are executed, entries
// at or after it form the redo tail. Pushing a command discards the redo tail.
type Queue struct {
	observe.Subject

	history []Command
	cursor  int
	limit   int
	merging bool
	log     *zap.Logger
}

type QueueOption func(*Queue)

// WithLimit caps the history length. The oldest entries are dropped first. n <= 0
// removes the cap.
func WithLimit(n int) QueueOption {
	return func(q *Queue) { q.limit = n }
}

// WithMerging lets Mergeable commands fold into the entry on top of the history.
func WithMerging() QueueOption {
	return func(q *Queue) { q.merging = true }
}

func WithLogger(l *zap.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.log = l
		}
	}
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{limit: DefaultLimit, log: zap.NewNop()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push executes cmd and records it. A command that fails to execute is not
// recorded and the history is unchanged.
func (q *Queue) Push(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if err := cmd.Execute(); err != nil {
		q.log.Warn("command failed", zap.String("command", fmt.Sprintf("%T", cmd)), zap.Error(err))
		return err
	}

	if q.merging && q.cursor > 0 && q.cursor == len(q.history) && q.merge(cmd) {
		q.log.Debug("command merged", zap.String("command", fmt.Sprintf("%T", cmd)))
		q.changed()
		return nil
	}

	q.history = append(q.history[:q.cursor], cmd)
	q.cursor++
	if q.limit > 0 && len(q.history) > q.limit {
		drop := len(q.history) - q.limit
		q.history = append(q.history[:0:0], q.history[drop:]...)
		q.cursor -= drop
	}
	q.log.Debug("command pushed", zap.String("command", fmt.Sprintf("%T", cmd)), zap.Int("len", len(q.history)))
	q.changed()
	return nil
}

func (q *Queue) merge(next Command) bool {
	top, ok := q.history[q.cursor-1].(Mergeable)
	if !ok {
		return false
	}
	other, ok := next.(Mergeable)
	if !ok {
		return false
	}
	id := top.MergeID()
	if id == "" || id != other.MergeID() {
		return false
	}
	return top.Merge(next)
}

// Undo reverts the most recent executed command. It does nothing when there is
// nothing to undo.
func (q *Queue) Undo() error {
	if q.cursor == 0 {
		return nil
	}
	cmd := q.history[q.cursor-1]
	if err := cmd.Undo(); err != nil {
		return fmt.Errorf("command: undo %T: %w", cmd, err)
	}
	q.cursor--
	q.changed()
	return nil
}

// Redo re-executes the first command of the redo tail. It does nothing when the
// tail is empty.
func (q *Queue) Redo() error {
	if q.cursor == len(q.history) {
		return nil
	}
	cmd := q.history[q.cursor]
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("command: redo %T: %w", cmd, err)
	}
	q.cursor++
	q.changed()
	return nil
}

// PeekUndo returns the command Undo would revert, or nil.
func (q *Queue) PeekUndo() Command {
	if q.cursor == 0 {
		return nil
	}
	return q.history[q.cursor-1]
}

// PeekRedo returns the command Redo would execute, or nil.
func (q *Queue) PeekRedo() Command {
	if q.cursor == len(q.history) {
		return nil
	}
	return q.history[q.cursor]
}

func (q *Queue) CanUndo() bool { return q.cursor > 0 }
func (q *Queue) CanRedo() bool { return q.cursor < len(q.history) }

// Len returns the number of recorded commands, including the redo tail.
func (q *Queue) Len() int { return len(q.history) }

// Clear forgets the whole history without undoing anything.
func (q *Queue) Clear() {
	q.history = nil
	q.cursor = 0
	q.changed()
}

func (q *Queue) State() HistoryState {
	return HistoryState{CanUndo: q.CanUndo(), CanRedo: q.CanRedo(), Len: len(q.history)}
}

func (q *Queue) changed() {
	q.Notify(observe.Event{Kind: observe.KindSet, Property: "history", New: q.State()})
}
