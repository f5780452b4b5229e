package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(l *list) []string {
	var names []string
	l.each(func(t *Timer) bool {
		names = append(names, t.Data.(string))
		return true
	})
	return names
}

func newListTimer(name string, tick Tick) *Timer {
	t := New(func(*Timer) {}, name)
	t.tick = tick
	t.due = tick
	return t
}

func TestListInsertSorted(t *testing.T) {
	var l list
	l.init()
	require.True(t, l.empty())
	require.Nil(t, l.front())

	_, ok := l.minDue()
	assert.False(t, ok)

	l.insertSorted(newListTimer("c", 30))
	l.insertSorted(newListTimer("a", 10))
	l.insertSorted(newListTimer("b1", 20))
	l.insertSorted(newListTimer("b2", 20))
	l.insertSorted(newListTimer("d", 40))
	l.insertSorted(newListTimer("b3", 20))
	assert.Equal(t, []string{"a", "b1", "b2", "b3", "c", "d"}, collect(&l))

	lowest, ok := l.minDue()
	require.True(t, ok)
	assert.Equal(t, Tick(10), lowest)
}

func TestListUnlinkMove(t *testing.T) {
	var src, dst list
	src.init()
	dst.init()

	x := newListTimer("x", 5)
	y := newListTimer("y", 1)
	z := newListTimer("z", 9)
	src.pushBack(x)
	src.pushBack(y)
	src.pushBack(z)
	assert.True(t, y.linked())

	lowest, _ := src.minDue()
	assert.Equal(t, Tick(1), lowest)

	assert.True(t, y.unlink())
	assert.False(t, y.linked())
	assert.False(t, y.unlink())
	assert.Equal(t, []string{"x", "z"}, collect(&src))

	src.moveTo(&dst)
	assert.True(t, src.empty())
	assert.Equal(t, []string{"x", "z"}, collect(&dst))
	assert.Same(t, x, dst.front())

	src.moveTo(&dst)
	assert.Equal(t, []string{"x", "z"}, collect(&dst))
}
