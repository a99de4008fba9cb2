package history

import (
	"github.com/unixpickle/essentials"
)

// Action is a reversible operation on a target T.
// Redo applies the change, Undo reverts it; both must tolerate the
// target having lost whatever the action refers to.
type Action[T any] interface {
	Redo(T)
	Undo(T)
	String() string
}

// History is a linear undo / redo stack of actions applied to a target.
type History[T any] struct {
	target T
	done   []Action[T]
	undone []Action[T] // most recently undone last
	max    int
}

// New returns a History acting on target.
// A limit <= 0 keeps every action.
func New[T any](target T, limit int) *History[T] {
	return &History[T]{
		target: target,
		done:   []Action[T]{},
		undone: []Action[T]{},
		max:    limit,
	}
}

// Perform applies the action and records it.
// Anything previously undone can no longer be redone.
func (h *History[T]) Perform(a Action[T]) {
	a.Redo(h.target)
	h.push(a)
}

// Record stores an action that has already been applied to the target.
func (h *History[T]) Record(a Action[T]) {
	h.push(a)
}

// push adds a new action, truncating the redo buffer
func (h *History[T]) push(a Action[T]) {
	h.undone = h.undone[:0]
	h.done = append(h.done, a)

	// if we exceed max, remove oldest
	if h.max > 0 && len(h.done) > h.max {
		essentials.OrderedDelete(&h.done, 0)
	}
}

// Undo reverts the most recent action, if any.
func (h *History[T]) Undo() (Action[T], bool) {
	if !h.CanUndo() {
		return nil, false
	}
	a := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]

	a.Undo(h.target)
	h.undone = append(h.undone, a)
	return a, true
}

// Redo re-applies the most recently undone action, if any.
func (h *History[T]) Redo() (Action[T], bool) {
	if !h.CanRedo() {
		return nil, false
	}
	a := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]

	a.Redo(h.target)
	h.done = append(h.done, a)
	return a, true
}

// CanUndo returns true if we can undo
func (h *History[T]) CanUndo() bool {
	return len(h.done) > 0
}

// CanRedo returns true if we can redo
func (h *History[T]) CanRedo() bool {
	return len(h.undone) > 0
}

// Clear drops all history
func (h *History[T]) Clear() {
	h.done = h.done[:0]
	h.undone = h.undone[:0]
}

// Stats returns how many actions can be undone & redone
func (h *History[T]) Stats() (undo, redo int) {
	return len(h.done), len(h.undone)
}

// Labels returns the labels of undoable actions, oldest first.
func (h *History[T]) Labels() []string {
	out := make([]string, len(h.done))
	for i, a := range h.done {
		out[i] = a.String()
	}
	return out
}
