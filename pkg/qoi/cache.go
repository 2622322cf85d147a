package qoi

import "fmt"

// Cache is the 64-slot table of previously seen pixels, indexed by
// Pixel.Hash. A later insert at the same slot replaces the earlier pixel.
type Cache struct {
	slots [CacheSize]Pixel
	used  uint64
}

// Insert stores p in its hash slot.
func (c *Cache) Insert(p Pixel) {
	i := p.Hash()
	c.slots[i] = p
	c.used |= 1 << i
}

// Lookup returns the pixel in slot i. Slots that were never written are an
// error, not a zero pixel.
func (c *Cache) Lookup(i uint8) (Pixel, error) {
	if i >= CacheSize {
		return Pixel{}, fmt.Errorf("%w: slot %d out of range", ErrInvalidCacheReference, i)
	}
	if c.used&(1<<i) == 0 {
		return Pixel{}, fmt.Errorf("%w: slot %d is empty", ErrInvalidCacheReference, i)
	}
	return c.slots[i], nil
}

// Contains reports whether p currently occupies its hash slot.
func (c *Cache) Contains(p Pixel) bool {
	i := p.Hash()
	return c.used&(1<<i) != 0 && c.slots[i] == p
}

// Len returns the number of populated slots.
func (c *Cache) Len() int {
	n := 0
	for u := c.used; u != 0; u &= u - 1 {
		n++
	}
	return n
}

func (c *Cache) Reset() {
	*c = Cache{}
}
