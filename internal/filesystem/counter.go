package filesystem

import "sync/atomic"

// entryCounter tallies walk entries from concurrent callbacks.
type entryCounter struct {
	n atomic.Int64
}

func (c *entryCounter) add(Entry) error {
	c.n.Add(1)
	return nil
}

func (c *entryCounter) count() int {
	return int(c.n.Load())
}
