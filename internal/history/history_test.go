package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	value int
}

type add struct {
	n int
}

func (a *add) Redo(c *counter) { c.value += a.n }
func (a *add) Undo(c *counter) { c.value -= a.n }
func (a *add) String() string  { return fmt.Sprintf("add %d", a.n) }

func TestHistory(t *testing.T) {
	t.Run("perform applies", func(t *testing.T) {
		c := &counter{}
		h := New(c, 0)

		h.Perform(&add{1})
		h.Perform(&add{2})

		assert.Equal(t, 3, c.value)
		assert.Equal(t, []string{"add 1", "add 2"}, h.Labels())
	})

	t.Run("undo & redo", func(t *testing.T) {
		c := &counter{}
		h := New(c, 0)
		h.Perform(&add{1})
		h.Perform(&add{2})

		a, ok := h.Undo()
		require.True(t, ok)
		assert.Equal(t, "add 2", a.String())
		assert.Equal(t, 1, c.value)
		assert.True(t, h.CanRedo())

		_, ok = h.Redo()
		require.True(t, ok)
		assert.Equal(t, 3, c.value)

		undo, redo := h.Stats()
		assert.Equal(t, 2, undo)
		assert.Equal(t, 0, redo)
	})

	t.Run("empty stacks are no-ops", func(t *testing.T) {
		c := &counter{value: 7}
		h := New(c, 0)

		_, ok := h.Undo()
		assert.False(t, ok)
		_, ok = h.Redo()
		assert.False(t, ok)
		assert.Equal(t, 7, c.value)
	})

	t.Run("perform discards redo branch", func(t *testing.T) {
		c := &counter{}
		h := New(c, 0)
		h.Perform(&add{1})
		h.Perform(&add{2})
		h.Undo()

		h.Perform(&add{10})
		assert.False(t, h.CanRedo())
		assert.Equal(t, 11, c.value)
		assert.Equal(t, []string{"add 1", "add 10"}, h.Labels())
	})

	t.Run("limit drops oldest", func(t *testing.T) {
		c := &counter{}
		h := New(c, 2)
		for i := 1; i <= 3; i++ {
			h.Perform(&add{i})
		}

		assert.Equal(t, []string{"add 2", "add 3"}, h.Labels())

		h.Undo()
		h.Undo()
		_, ok := h.Undo()
		assert.False(t, ok)
		assert.Equal(t, 1, c.value) // the oldest can no longer be undone
	})

	t.Run("record does not apply", func(t *testing.T) {
		c := &counter{value: 5}
		h := New(c, 0)

		h.Record(&add{5})
		assert.Equal(t, 5, c.value)

		h.Undo()
		assert.Equal(t, 0, c.value)
	})

	t.Run("clear", func(t *testing.T) {
		c := &counter{}
		h := New(c, 0)
		h.Perform(&add{1})
		h.Perform(&add{1})
		h.Undo()

		h.Clear()
		assert.False(t, h.CanUndo())
		assert.False(t, h.CanRedo())
		assert.Equal(t, 1, c.value)
	})
}
