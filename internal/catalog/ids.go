package catalog

import (
	"sync"
	"time"
)

// IDSource hands out product ids. Next must never return a value for which
// taken reports true.
type IDSource interface {
	Next(taken func(int64) bool) int64
}

// ClockIDs issues wall-clock millisecond ids, bumped past the last issued
// id and past any id already in the catalog.
type ClockIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

func (c *ClockIDs) Next(taken func(int64) bool) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	for taken != nil && taken(id) {
		id++
	}
	c.last = id
	return id
}
