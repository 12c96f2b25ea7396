package cache

import (
	"fmt"
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texture(i int) *Texture {
	return &Texture{Path: fmt.Sprintf("img%03d.png", i), Image: image.NewRGBA(image.Rect(0, 0, 4, 3))}
}

func TestInsertNeverExceedsCapacity(t *testing.T) {
	const capacity = 5
	c := New(capacity)

	var handles []Handle
	for i := 1; i <= 23; i++ {
		handles = append(handles, c.Insert(texture(i)))
		assert.LessOrEqual(t, c.Len(), capacity, "after insert %d", i)

		if i > capacity {
			// FIFO: the oldest survivor is the (n - capacity + 1)-th insert.
			oldest := c.Handles()[0]
			assert.Equal(t, handles[i-capacity], oldest, "after insert %d", i)
			tex, ok := c.Get(oldest)
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("img%03d.png", i-capacity+1), tex.Path)
		}
	}
	assert.Equal(t, uint64(23-capacity), c.Evicted())
}

func TestEvictedHandleDoesNotResolve(t *testing.T) {
	c := New(2)
	first := c.Insert(texture(1))
	c.Insert(texture(2))
	assert.True(t, c.Contains(first))

	c.Insert(texture(3))
	_, ok := c.Get(first)
	assert.False(t, ok, "oldest texture should have been evicted")
	assert.False(t, c.Contains(None))
}

func TestPickRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := New(3)

	_, ok := c.PickRandom(rng)
	assert.False(t, ok, "empty cache has nothing to pick")

	inserted := map[Handle]bool{}
	for i := 0; i < 3; i++ {
		inserted[c.Insert(texture(i))] = true
	}
	seen := map[Handle]bool{}
	for i := 0; i < 200; i++ {
		h, ok := c.PickRandom(rng)
		require.True(t, ok)
		assert.True(t, inserted[h])
		seen[h] = true
	}
	assert.Len(t, seen, 3, "every resident texture should eventually be picked")
}

func TestResizeEvictsFromFront(t *testing.T) {
	c := New(6)
	var handles []Handle
	for i := 0; i < 6; i++ {
		handles = append(handles, c.Insert(texture(i)))
	}

	c.Resize(2)
	assert.Equal(t, 2, c.Cap())
	assert.Equal(t, handles[4:], c.Handles())

	c.Resize(10)
	assert.Equal(t, 2, c.Len(), "growing keeps the survivors")
	c.Insert(texture(7))
	assert.Equal(t, 3, c.Len())
}

func TestZeroCapacity(t *testing.T) {
	c := New(-1)
	assert.Equal(t, 0, c.Cap())
	h := c.Insert(texture(1))
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Contains(h))
}

func TestClear(t *testing.T) {
	c := New(4)
	h := c.Insert(texture(1))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Contains(h))

	h2 := c.Insert(texture(2))
	assert.NotEqual(t, h, h2, "handles are never reused")
}

func TestTextureBounds(t *testing.T) {
	var nilTex *Texture
	assert.True(t, nilTex.Bounds().Empty())
	assert.Equal(t, image.Rect(0, 0, 4, 3), texture(1).Bounds())
}
