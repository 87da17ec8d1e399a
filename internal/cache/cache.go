// Package cache is the query-result cache shared between the read paths and
// the mutation coordinator. Keys are (entity, clientID) pairs; values are
// whatever the read path stored. Stale entries keep their value (the UI may
// still show it) but report themselves as needing a re-fetch.
package cache

import "sync"

// Entities cached. List-level entries use an empty ClientID.
const (
	EntityClients      = "clients"
	EntityClient       = "client"
	EntitySubscription = "subscription"
	EntityInvoices     = "invoices"
	EntityAssets       = "assets"
	EntityDashboard    = "dashboard-stats"
)

// Key identifies one cached query result.
type Key struct {
	Entity   string
	ClientID string
}

type entry struct {
	value any
	stale bool
	gen   uint64 // bumped to cancel in-flight reads for this key
}

// Cache is a mutex-guarded key-value store. Only the mutation coordinator
// and the read paths that populate it may touch it.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

func (c *Cache) get(k Key) *entry {
	e, ok := c.entries[k]
	if !ok {
		e = &entry{}
		c.entries[k] = e
	}
	return e
}

// Get returns the cached value, present or stale alike. Fresh reports
// whether the value can be served without a re-fetch.
func (c *Cache) Get(k Key) (value any, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok || e.value == nil {
		return nil, false
	}
	return e.value, true
}

// Fresh reports whether k holds a value that has not been invalidated.
func (c *Cache) Fresh(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	return ok && e.value != nil && !e.stale
}

// Set stores a fresh value for k.
func (c *Cache) Set(k Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(k)
	e.value = v
	e.stale = false
}

// Invalidate marks k stale so the next read re-fetches. The value is kept.
func (c *Cache) Invalidate(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok {
		e.stale = true
	}
}

// InvalidateEntity marks every key of the given entity stale, whatever its
// client scope.
func (c *Cache) InvalidateEntity(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if k.Entity == entity {
			e.stale = true
		}
	}
}

// BeginRead records the start of a background fetch for k and returns a
// token for CompleteRead.
func (c *Cache) BeginRead(k Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(k).gen
}

// CompleteRead stores the fetched value unless the read was cancelled
// (generation bumped) while it was in flight. Reports whether it stored.
func (c *Cache) CompleteRead(k Key, token uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(k)
	if e.gen != token {
		return false
	}
	e.value = v
	e.stale = false
	return true
}

// CancelPending discards any in-flight read for k so its late result cannot
// clobber a newer value.
func (c *Cache) CancelPending(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.get(k).gen++
}

// Snapshot captures the current value for k (present or not) so a failed
// optimistic write can put it back exactly.
func (c *Cache) Snapshot(k Key) (value any, present bool) {
	return c.Get(k)
}

// Restore reinstates a snapshot taken before an optimistic write. A
// snapshot of an absent entry removes the current value.
func (c *Cache) Restore(k Key, value any, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(k)
	if present {
		e.value = value
		e.stale = false
		return
	}
	e.value = nil
	e.stale = false
}
