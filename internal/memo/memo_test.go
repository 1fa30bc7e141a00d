package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	a *int
	b *string
}

func TestLast2(t *testing.T) {
	t.Parallel()

	newCounter := func() (func(*int, *string) *pair, *int) {
		calls := 0
		return Last2(func(a *int, b *string) *pair {
			calls++
			return &pair{a: a, b: b}
		}), &calls
	}

	one, two := 1, 2
	x, y := "x", "y"

	t.Run("same arguments hit the cache", func(t *testing.T) {
		t.Parallel()
		fn, calls := newCounter()
		first := fn(&one, &x)
		second := fn(&one, &x)
		assert.Same(t, first, second)
		assert.Equal(t, 1, *calls)
	})

	t.Run("changed first argument recomputes", func(t *testing.T) {
		t.Parallel()
		fn, calls := newCounter()
		first := fn(&one, &x)
		second := fn(&two, &x)
		assert.NotSame(t, first, second)
		assert.Same(t, second, fn(&two, &x))
		assert.Equal(t, 2, *calls)
	})

	t.Run("changed second argument recomputes", func(t *testing.T) {
		t.Parallel()
		fn, calls := newCounter()
		first := fn(&one, &x)
		second := fn(&one, &y)
		assert.NotSame(t, first, second)
		assert.Equal(t, 2, *calls)
	})

	t.Run("only the last arguments are remembered", func(t *testing.T) {
		t.Parallel()
		fn, calls := newCounter()
		first := fn(&one, &x)
		fn(&two, &x)
		again := fn(&one, &x)
		assert.NotSame(t, first, again)
		assert.Equal(t, 3, *calls)
	})

	t.Run("equal values with different identity miss", func(t *testing.T) {
		t.Parallel()
		fn, calls := newCounter()
		a, b := 1, 1
		fn(&a, &x)
		fn(&b, &x)
		assert.Equal(t, 2, *calls)
	})
}

func TestLast(t *testing.T) {
	t.Parallel()
	calls := 0
	double := Last(func(n int) int {
		calls++
		return n * 2
	})
	assert.Equal(t, 4, double(2))
	assert.Equal(t, 4, double(2))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 6, double(3))
	assert.Equal(t, 2, calls)
}
