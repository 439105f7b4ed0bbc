package mcp

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// maxSessions bounds the locate sessions kept open for resolve_location.
const maxSessions = 8

// sessionCache keeps the most recently used locate sessions by run ID.
// Sessions pushed out of the cache are closed.
type sessionCache struct {
	mu    sync.Mutex
	limit int
	items map[string]driving.LocateSession
	order []string // least recently used first
}

func newSessionCache(limit int) *sessionCache {
	return &sessionCache{limit: limit, items: make(map[string]driving.LocateSession)}
}

// put stores sess under id, replacing and closing any earlier session
// with the same id.
func (c *sessionCache) put(id string, sess driving.LocateSession) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.items[id]; ok && old != sess {
		old.Close() //nolint:errcheck // replaced session is discarded
	}
	c.items[id] = sess
	c.touch(id)

	for len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.items[oldest].Close() //nolint:errcheck // evicted session is discarded
		delete(c.items, oldest)
	}
}

// get returns the session for id and marks it as recently used.
func (c *sessionCache) get(id string) (driving.LocateSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	c.touch(id)
	return sess, nil
}

// touch moves id to the most recently used end. Caller holds mu.
func (c *sessionCache) touch(id string) {
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	c.order = append(c.order, id)
}

// closeAll closes and forgets every session.
func (c *sessionCache) closeAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, id := range c.order {
		errs = append(errs, c.items[id].Close())
	}
	c.items = make(map[string]driving.LocateSession)
	c.order = nil
	return errors.Join(errs...)
}

func (c *sessionCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
