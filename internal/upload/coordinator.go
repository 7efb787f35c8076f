// Package upload coordinates the single upload modal shared by every view.
package upload

import "sync"

// Coordinator is the shared open/closed flag of the upload modal.
type Coordinator struct {
	mu          sync.Mutex
	open        bool
	subscribers map[int]func(bool)
	nextSub     int
}

// NewCoordinator creates a closed coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{subscribers: make(map[int]func(bool))}
}

// Open shows the modal. Opening an open modal is a no-op.
func (c *Coordinator) Open() { c.set(true) }

// Close hides the modal. Closing a closed modal is a no-op.
func (c *Coordinator) Close() { c.set(false) }

// IsOpen reports whether the modal is shown.
func (c *Coordinator) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Subscribe registers fn to be called when the flag changes.
func (c *Coordinator) Subscribe(fn func(open bool)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) set(open bool) {
	c.mu.Lock()
	if c.open == open {
		c.mu.Unlock()
		return
	}
	c.open = open
	subs := make([]func(bool), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(open)
	}
}
