package core

import "sync"

// TimeCursor is the shared time point of a report page. It is the handler
// charts call when a point is selected, and it fans the index out to the
// widgets that follow it.
type TimeCursor struct {
	mu          sync.Mutex
	current     int
	selected    bool
	subscribers []func(index int)
}

// NewTimeCursor returns a cursor with no time point selected.
func NewTimeCursor() *TimeCursor {
	return &TimeCursor{}
}

// Subscribe registers fn to run after every selection, in registration order.
func (c *TimeCursor) Subscribe(fn func(index int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// SelectTime moves the cursor to index and notifies subscribers.
// Subscribers run outside the lock so they may read the cursor.
func (c *TimeCursor) SelectTime(index int) {
	c.mu.Lock()
	c.current = index
	c.selected = true
	subscribers := make([]func(int), len(c.subscribers))
	copy(subscribers, c.subscribers)
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(index)
	}
}

// Current returns the selected time point, if any.
func (c *TimeCursor) Current() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.selected
}
