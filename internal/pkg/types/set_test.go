package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("new set with initial elements", func(t *testing.T) {
		s := NewSet(1, 2, 2, 3)

		assert.Len(t, s, 3)
		assert.True(t, s.Has(1))
		assert.True(t, s.Has(2))
		assert.True(t, s.Has(3))
		assert.False(t, s.Has(4))
	})

	t.Run("add and delete", func(t *testing.T) {
		s := NewSet[string]()

		s.Add("a", "b")
		assert.True(t, s.Has("a"))

		s.Delete("a")
		assert.False(t, s.Has("a"))
		assert.True(t, s.Has("b"))
	})

	t.Run("to slice holds every member", func(t *testing.T) {
		s := NewSet(int64(10), int64(20))

		assert.ElementsMatch(t, []int64{10, 20}, s.ToSlice())
	})

	t.Run("iterator visits every member", func(t *testing.T) {
		s := NewSet("x", "y")

		var visited []string
		for v := range s.ToIter() {
			visited = append(visited, v)
		}

		assert.ElementsMatch(t, []string{"x", "y"}, visited)
	})
}
