package dataset

import (
	"sync"

	"goviz/domain/core"
	"goviz/domain/table"
)

// tableCache keeps recently loaded tables. When full, the table that was
// added first is evicted.
type tableCache struct {
	mu       sync.RWMutex
	capacity int
	tables   map[core.ID]*table.Table
	order    []core.ID
}

func newTableCache(capacity int) *tableCache {
	if capacity < 1 {
		capacity = 1
	}
	return &tableCache{capacity: capacity, tables: make(map[core.ID]*table.Table, capacity)}
}

func (c *tableCache) get(id core.ID) (*table.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[id]
	return t, ok
}

func (c *tableCache) put(id core.ID, t *table.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[id]; ok {
		c.tables[id] = t
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.tables, oldest)
	}
	c.tables[id] = t
	c.order = append(c.order, id)
}

func (c *tableCache) remove(id core.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[id]; !ok {
		return
	}
	delete(c.tables, id)
	for i, cached := range c.order {
		if cached == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *tableCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}
