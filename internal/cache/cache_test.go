package cache_test

import (
	"testing"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
)

func TestSetGetInvalidate(t *testing.T) {
	c := cache.New()
	k := cache.Key{Entity: cache.EntityClients}

	if _, ok := c.Get(k); ok {
		t.Fatalf("empty cache returned a value")
	}
	c.Set(k, "v1")
	if !c.Fresh(k) {
		t.Fatalf("fresh after Set expected")
	}
	v, ok := c.Get(k)
	if !ok || v.(string) != "v1" {
		t.Fatalf("get: %v %v", v, ok)
	}

	c.Invalidate(k)
	if c.Fresh(k) {
		t.Fatalf("still fresh after Invalidate")
	}
	// stale value remains visible until the next read replaces it
	if v, ok := c.Get(k); !ok || v.(string) != "v1" {
		t.Fatalf("stale value lost: %v %v", v, ok)
	}
}

func TestInvalidateEntityScopes(t *testing.T) {
	c := cache.New()
	a := cache.Key{Entity: cache.EntityInvoices}
	b := cache.Key{Entity: cache.EntityInvoices, ClientID: "c1"}
	other := cache.Key{Entity: cache.EntityAssets, ClientID: "c1"}
	c.Set(a, 1)
	c.Set(b, 2)
	c.Set(other, 3)

	c.InvalidateEntity(cache.EntityInvoices)
	if c.Fresh(a) || c.Fresh(b) {
		t.Fatalf("invoice keys should be stale")
	}
	if !c.Fresh(other) {
		t.Fatalf("asset key should stay fresh")
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := cache.New()
	k := cache.Key{Entity: cache.EntitySubscription, ClientID: "c1"}

	// restore to absent removes a speculative value
	snap, had := c.Snapshot(k)
	c.Set(k, "speculative")
	c.Restore(k, snap, had)
	if _, ok := c.Get(k); ok {
		t.Fatalf("restore to absent should remove the value")
	}

	// restore puts back the exact previous value
	c.Set(k, "old")
	snap, had = c.Snapshot(k)
	c.Set(k, "guess")
	c.Restore(k, snap, had)
	if v, ok := c.Get(k); !ok || v.(string) != "old" {
		t.Fatalf("restore: got %v %v, want old", v, ok)
	}
}

func TestCancelPendingDiscardsLateRead(t *testing.T) {
	c := cache.New()
	k := cache.Key{Entity: cache.EntitySubscription, ClientID: "c1"}

	token := c.BeginRead(k)
	c.CancelPending(k)
	c.Set(k, "optimistic")
	if c.CompleteRead(k, token, "from-server") {
		t.Fatalf("cancelled read should not store")
	}
	if v, _ := c.Get(k); v.(string) != "optimistic" {
		t.Fatalf("late read clobbered optimistic value: %v", v)
	}

	// a read started after the cancel stores normally
	token = c.BeginRead(k)
	if !c.CompleteRead(k, token, "fresh") {
		t.Fatalf("fresh read should store")
	}
	if v, _ := c.Get(k); v.(string) != "fresh" {
		t.Fatalf("got %v", v)
	}
}
