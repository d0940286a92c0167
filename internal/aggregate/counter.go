package aggregate

// Counter counts occurrences of keys and remembers the order in which each
// key was first seen.
type Counter[K comparable] struct {
	order  []K
	counts map[K]int
}

func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Inc adds one to k.
func (c *Counter[K]) Inc(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// Keys returns keys in first-seen order.
func (c *Counter[K]) Keys() []K {
	out := make([]K, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Counter[K]) Count(k K) int { return c.counts[k] }

func (c *Counter[K]) Len() int { return len(c.order) }
