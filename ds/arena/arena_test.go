package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	type Data struct {
		A int
	}
	a := New[Data](3)
	assert.Equal(t, 3, a.Cap())

	var ptrs []*Data
	for i := 0; i < 3; i++ {
		p, d := a.Alloc()
		require.NotEqual(t, Null, p)
		d.A = i + 1
		ptrs = append(ptrs, d)
	}
	p, d := a.Alloc()
	assert.Equal(t, Null, p)
	assert.Nil(t, d)
	assert.Equal(t, 3, a.Len())

	assert.Same(t, ptrs[1], a.Get(1))
	assert.True(t, a.Free(1))
	assert.False(t, a.Free(1))
	assert.False(t, a.Free(7))
	assert.Nil(t, a.Get(1))
	assert.Equal(t, 2, a.Len())

	p, d = a.Alloc()
	assert.Equal(t, 1, p)
	assert.Same(t, ptrs[1], d)
	assert.Equal(t, 0, d.A)

	sum := 0
	a.Range(func(_ int, v *Data) bool {
		sum += v.A
		return true
	})
	assert.Equal(t, 4, sum)

	a.Reset()
	assert.Equal(t, 0, a.Len())
	p, _ = a.Alloc()
	assert.Equal(t, 0, p)
}

func TestArenaEmpty(t *testing.T) {
	a := New[int](0)
	p, v := a.Alloc()
	assert.Equal(t, Null, p)
	assert.Nil(t, v)
	assert.Nil(t, a.Get(0))
}
