package oplog

import (
	"fmt"
	"log/slog"
)

// Log is the undo/redo history: two stacks plus at most one open batch.
type Log struct {
	undo  []Operation
	redo  []Operation
	batch *Operation

	logger *slog.Logger
}

// NewLog creates an empty history.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Push records an already-applied operation. With a batch open the
// operation is merged into it; otherwise it becomes a new undo step and the
// redo history is dropped.
func (l *Log) Push(op Operation) {
	if l.batch != nil {
		Merge(l.batch, op)
		return
	}
	l.record(op)
}

func (l *Log) record(op Operation) {
	l.undo = append(l.undo, op)
	l.redo = nil
	l.logger.Debug("history step recorded", "kind", op.Kind, "name", op.Name, "undo", len(l.undo))
}

// StartBatch opens a named batch. An already open batch is completed first.
func (l *Log) StartBatch(name string) {
	if l.batch != nil {
		l.CompleteBatch()
	}
	b := Batch(name)
	l.batch = &b
}

// InBatch reports whether a batch is open.
func (l *Log) InBatch() bool {
	return l.batch != nil
}

// CompleteBatch closes the open batch and records its normalized form. It
// reports whether anything was recorded.
func (l *Log) CompleteBatch() bool {
	if l.batch == nil {
		return false
	}
	normalized := Normalize(*l.batch)
	l.batch = nil
	if normalized == nil {
		return false
	}
	l.record(*normalized)
	return true
}

// CancelBatch drops the open batch without recording it. The caller is
// responsible for the scene already matching the pre-batch state.
func (l *Log) CancelBatch() {
	l.batch = nil
}

// Undo reverts the most recent step. An open batch is completed first so an
// in-progress gesture is what gets undone.
func (l *Log) Undo(s Scene) (bool, error) {
	l.CompleteBatch()
	if len(l.undo) == 0 {
		return false, nil
	}

	// The step stays on the undo stack when revert fails.
	op := l.undo[len(l.undo)-1]
	if err := Revert(op, s); err != nil {
		return false, fmt.Errorf("undo %s: %w", op.Kind, err)
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, op)
	return true, nil
}

// Redo re-applies the most recently undone step.
func (l *Log) Redo(s Scene) (bool, error) {
	l.CompleteBatch()
	if len(l.redo) == 0 {
		return false, nil
	}

	op := l.redo[len(l.redo)-1]
	if err := Perform(op, s); err != nil {
		return false, fmt.Errorf("redo %s: %w", op.Kind, err)
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, op)
	return true, nil
}

// CanUndo reports whether Undo has anything to revert.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 || l.batch != nil && Normalize(*l.batch) != nil }

// CanRedo reports whether Redo has anything to re-apply.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoSteps returns a copy of the undo stack, oldest first.
func (l *Log) UndoSteps() []Operation {
	return append([]Operation(nil), l.undo...)
}
