package coordinator

import (
	"context"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// UpsertSubscription writes a client's billing settings with the optimistic
// protocol: snapshot the cached value, publish the merged guess immediately,
// then insert or update by client_id. A failed write restores the snapshot
// exactly; either way the cached entry ends stale so the next read
// reconciles with the authoritative row (server-set fields like updated_at
// diverge from the guess).
//
// Only one cycle runs per client at a time: the per-client lock serializes
// writers, and CancelPending discards any in-flight background read for the
// key so the snapshot cannot race a concurrent refetch.
func (c *Coordinator) UpsertSubscription(ctx context.Context, clientID string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	unlock := c.lockClient(clientID)
	defer unlock()

	key := cache.Key{Entity: cache.EntitySubscription, ClientID: clientID}
	c.cache.CancelPending(key)

	prevVal, had := c.cache.Snapshot(key)
	var prev *models.Subscription
	if had {
		prev, _ = prevVal.(*models.Subscription)
	}

	speculative := patch.Seed(clientID)
	if prev != nil {
		speculative = patch.Apply(*prev)
	}
	c.cache.Set(key, &speculative)

	row, err := c.upsertSubscriptionRow(ctx, clientID, patch)
	if err != nil {
		c.cache.Restore(key, prevVal, had)
		c.cache.Invalidate(key)
		c.failure("Failed to update subscription", err)
		return nil, err
	}
	c.cache.Invalidate(key)
	c.cache.InvalidateEntity(cache.EntityDashboard)
	c.success("Subscription updated")
	return row, nil
}

// upsertSubscriptionRow inserts a row seeded from the patch when the client
// has no subscription yet, otherwise updates the existing row by client_id.
func (c *Coordinator) upsertSubscriptionRow(ctx context.Context, clientID string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	existing, err := c.store.SubscriptionByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return c.store.InsertSubscription(ctx, patch.Seed(clientID))
	}
	return c.store.UpdateSubscriptionByClient(ctx, clientID, patch)
}
