package enrich

import "sync"

// Completion tracks, for one run, whether each loaded record is done.
// It is safe for concurrent use.
type Completion struct {
	mu   sync.RWMutex
	done map[string]bool
}

// NewCompletion creates an empty completion map.
func NewCompletion() *Completion {
	return &Completion{done: make(map[string]bool)}
}

// Set records the completion flag for id.
func (c *Completion) Set(id string, done bool) {
	c.mu.Lock()
	c.done[id] = done
	c.mu.Unlock()
}

// Done reports the flag for id and whether id was seen at all.
func (c *Completion) Done(id string) (done, known bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	done, known = c.done[id]
	return done, known
}

// Pending reports whether id was loaded and is not yet done.
func (c *Completion) Pending(id string) bool {
	done, known := c.Done(id)
	return known && !done
}
