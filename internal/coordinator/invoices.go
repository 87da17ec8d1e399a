package coordinator

import (
	"context"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/store"
)

// UpdateInvoiceStatus moves an invoice between paid/pending/overdue. Status
// transitions are free; only unknown values are rejected. Client totals and
// the dashboard derive from invoices, so their caches go stale too.
func (c *Coordinator) UpdateInvoiceStatus(ctx context.Context, invoiceID, status string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		err := store.Errorf("update invoice", "unknown status %q", status)
		c.failure("Failed to update invoice", err)
		return nil, err
	}
	updated, err := c.store.UpdateInvoiceStatus(ctx, invoiceID, status)
	if err != nil {
		c.failure("Failed to update invoice", err)
		return nil, err
	}
	c.cache.InvalidateEntity(cache.EntityInvoices)
	c.cache.InvalidateEntity(cache.EntityClients)
	c.cache.InvalidateEntity(cache.EntityDashboard)
	c.success("Invoice updated")
	return updated, nil
}

// CreateInvoice records a new invoice against a client's subscription.
func (c *Coordinator) CreateInvoice(ctx context.Context, inv models.Invoice) (*models.Invoice, error) {
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusPending
	}
	created, err := c.store.InsertInvoice(ctx, inv)
	if err != nil {
		c.failure("Failed to create invoice", err)
		return nil, err
	}
	c.cache.InvalidateEntity(cache.EntityInvoices)
	c.cache.InvalidateEntity(cache.EntityClients)
	c.cache.InvalidateEntity(cache.EntityDashboard)
	c.success("Invoice created")
	return created, nil
}
