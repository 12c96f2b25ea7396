// Package cache keeps a capped, insertion-ordered set of decoded textures shared by the
// grid cells. Once the capacity is exceeded the oldest textures are evicted first.
//
// Cells never own a texture: they hold a Handle and must resolve it through Get on every
// use, falling back to a placeholder once the texture has been evicted. The cache is not
// safe for concurrent use; it belongs to the gallery's update goroutine.
package cache

import (
	"image"
	"math/rand"
)

// Handle is a non-owning reference to a cached texture. The zero Handle refers to nothing.
type Handle uint64

// None is the empty handle.
const None Handle = 0

// Texture is a decoded image ready for display.
type Texture struct {
	Path     string
	Image    image.Image
	EXIFData map[string]string
}

// Bounds returns the pixel bounds of the texture, or an empty rectangle for a nil texture.
func (t *Texture) Bounds() image.Rectangle {
	if t == nil || t.Image == nil {
		return image.Rectangle{}
	}
	return t.Image.Bounds()
}

type entry struct {
	handle  Handle
	texture *Texture
}

// Cache is a FIFO-evicting texture store.
type Cache struct {
	entries  []entry // oldest first
	index    map[Handle]*Texture
	capacity int
	next     Handle
	evicted  uint64
}

// New creates a cache holding at most capacity textures. Negative capacity is treated as 0.
func New(capacity int) *Cache {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache{
		entries:  make([]entry, 0, capacity),
		index:    make(map[Handle]*Texture, capacity),
		capacity: capacity,
	}
}

// Insert appends a texture and evicts from the front until the cache is within capacity.
// The returned handle stays unique for the lifetime of the cache even after eviction.
func (c *Cache) Insert(tex *Texture) Handle {
	c.next++
	h := c.next
	c.entries = append(c.entries, entry{handle: h, texture: tex})
	c.index[h] = tex
	c.trim()
	return h
}

// trim drops the oldest entries beyond capacity.
func (c *Cache) trim() {
	over := len(c.entries) - c.capacity
	if over <= 0 {
		return
	}
	for _, e := range c.entries[:over] {
		delete(c.index, e.handle)
	}
	// Release the evicted textures before re-slicing so the images can be collected.
	clear(c.entries[:over])
	c.entries = c.entries[over:]
	c.evicted += uint64(over)
}

// Get resolves a handle. It reports false for None and for evicted textures.
func (c *Cache) Get(h Handle) (*Texture, bool) {
	if h == None {
		return nil, false
	}
	tex, ok := c.index[h]
	return tex, ok
}

// Contains reports whether h still refers to a resident texture.
func (c *Cache) Contains(h Handle) bool {
	_, ok := c.Get(h)
	return ok
}

// PickRandom returns a uniformly chosen resident texture, or false when the cache is empty.
func (c *Cache) PickRandom(rng *rand.Rand) (Handle, bool) {
	if len(c.entries) == 0 {
		return None, false
	}
	return c.entries[rng.Intn(len(c.entries))].handle, true
}

// Resize changes the capacity, evicting the oldest textures immediately if needed.
func (c *Cache) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	c.capacity = capacity
	c.trim()
}

// Clear drops every texture. Handles issued before Clear never resolve again.
func (c *Cache) Clear() {
	clear(c.entries)
	c.entries = c.entries[:0]
	clear(c.index)
}

// Handles lists the resident handles, oldest first.
func (c *Cache) Handles() []Handle {
	out := make([]Handle, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.handle
	}
	return out
}

func (c *Cache) Len() int { return len(c.entries) }
func (c *Cache) Cap() int { return c.capacity }

// Evicted returns how many textures have been evicted over the cache lifetime.
func (c *Cache) Evicted() uint64 { return c.evicted }
