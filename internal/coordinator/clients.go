package coordinator

import (
	"context"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// CreateClient inserts a client row. Invalidate-after discipline: the cached
// lists go stale only once the write succeeded.
func (c *Coordinator) CreateClient(ctx context.Context, nc models.Client) (*models.Client, error) {
	if nc.Status == "" {
		nc.Status = models.ClientStatusActive
	}
	created, err := c.store.CreateClient(ctx, nc)
	if err != nil {
		c.failure("Failed to create client", err)
		return nil, err
	}
	c.cache.InvalidateEntity(cache.EntityClients)
	c.cache.InvalidateEntity(cache.EntityDashboard)
	c.success("Client created successfully")
	return created, nil
}

// UpdateClient applies a partial patch to one client row.
func (c *Coordinator) UpdateClient(ctx context.Context, clientID string, patch models.ClientPatch) (*models.Client, error) {
	unlock := c.lockClient(clientID)
	defer unlock()
	updated, err := c.store.UpdateClient(ctx, clientID, patch)
	if err != nil {
		c.failure("Failed to update client", err)
		return nil, err
	}
	c.cache.Invalidate(cache.Key{Entity: cache.EntityClient, ClientID: clientID})
	c.cache.InvalidateEntity(cache.EntityClients)
	c.cache.InvalidateEntity(cache.EntityDashboard)
	c.success("Client updated successfully")
	return updated, nil
}

// DeleteClient removes the client row. Dependent rows cascade store-side.
func (c *Coordinator) DeleteClient(ctx context.Context, clientID string) error {
	unlock := c.lockClient(clientID)
	defer unlock()
	if err := c.store.DeleteClient(ctx, clientID); err != nil {
		c.failure("Failed to delete client", err)
		return err
	}
	c.cache.Invalidate(cache.Key{Entity: cache.EntityClient, ClientID: clientID})
	c.cache.InvalidateEntity(cache.EntityClients)
	c.cache.InvalidateEntity(cache.EntityDashboard)
	c.success("Client deleted")
	return nil
}
