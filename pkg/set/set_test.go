package set_test

import (
	"testing"

	"github.com/stateforward/go-fsm/pkg/set"
	"github.com/stretchr/testify/assert"
)

type token struct{ name string }

func TestSet(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		s := set.New("a", "b", "c")
		assert.Equal(t, 3, s.Size())
		assert.True(t, s.Contains("a"))
		assert.True(t, s.Contains("b"))
		assert.True(t, s.Contains("c"))
	})

	t.Run("Add", func(t *testing.T) {
		s := set.Set[string]{}
		assert.True(t, s.Add("test"))
		assert.False(t, s.Add("test"), "adding an existing item should report false")
		assert.Equal(t, 1, s.Size())
	})

	t.Run("Remove", func(t *testing.T) {
		s := set.New("test")
		assert.True(t, s.Remove("test"))
		assert.False(t, s.Remove("test"))
		assert.True(t, s.IsEmpty())
	})

	t.Run("NilSet", func(t *testing.T) {
		var s set.Set[string]
		assert.True(t, s.IsEmpty())
		assert.False(t, s.Contains("test"))
		assert.False(t, s.Remove("test"))
	})

	t.Run("PointerTokens", func(t *testing.T) {
		a, b := &token{"a"}, &token{"a"}
		s := set.New[any](a)
		assert.True(t, s.Contains(a))
		assert.False(t, s.Contains(b), "tokens compare by identity")
	})

	t.Run("Clear", func(t *testing.T) {
		s := set.New("test1", "test2")
		s.Clear()
		assert.Equal(t, 0, s.Size())
	})

	t.Run("Items", func(t *testing.T) {
		s := set.New("test1", "test2", "test3")
		items := map[string]bool{}
		for item := range s.Items() {
			items[item] = true
		}
		assert.Len(t, items, 3)

		count := 0
		for range s.Items() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}
