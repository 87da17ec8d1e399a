// Package coordinator executes logical writes against the store, keeps the
// query cache consistent, and reports every outcome to the user exactly once.
// It is the only writer to the cache besides the read paths defined here.
package coordinator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/notify"
	"github.com/yahyahoussini/client-harmony-hub/internal/stats"
	"github.com/yahyahoussini/client-harmony-hub/internal/store"
)

// Coordinator owns the cache and routes all reads and writes through it.
// Mutation methods roll back or invalidate as needed, emit one toast, and
// return an already-handled error that callers use only for status mapping.
type Coordinator struct {
	store  store.Store
	blobs  store.BlobStore
	cache  *cache.Cache
	toasts notify.Sink
	log    *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-client write serialization
}

func New(st store.Store, blobs store.BlobStore, c *cache.Cache, toasts notify.Sink, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:  st,
		blobs:  blobs,
		cache:  c,
		toasts: toasts,
		log:    log.Named("coordinator"),
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetClock overrides the wall clock, for tests.
func (c *Coordinator) SetClock(now func() time.Time) { c.now = now }

// lockClient serializes mutations against one client's rows.
func (c *Coordinator) lockClient(clientID string) func() {
	c.mu.Lock()
	l, ok := c.locks[clientID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[clientID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (c *Coordinator) success(msg string) {
	c.toasts.Notify(notify.Toast{Level: notify.LevelSuccess, Message: msg})
}

func (c *Coordinator) failure(msg string, err error) {
	c.log.Warn(msg, zap.Error(err))
	c.toasts.Notify(notify.Toast{Level: notify.LevelError, Message: msg + ": " + err.Error()})
}

// --- Read paths. These populate the cache; mutations invalidate it. ---

// Clients returns the decorated client list plus its summary, served from
// cache when fresh.
func (c *Coordinator) Clients(ctx context.Context) ([]stats.ClientWithStats, stats.ClientStats, error) {
	key := cache.Key{Entity: cache.EntityClients}
	if c.cache.Fresh(key) {
		if v, ok := c.cache.Get(key); ok {
			list := v.([]stats.ClientWithStats)
			return list, stats.SummarizeClients(list), nil
		}
	}
	token := c.cache.BeginRead(key)
	clients, err := c.store.ListClients(ctx)
	if err != nil {
		return nil, stats.ClientStats{}, err
	}
	invoices, err := c.store.ListInvoices(ctx)
	if err != nil {
		return nil, stats.ClientStats{}, err
	}
	list := stats.DecorateClients(clients, invoices)
	c.cache.CompleteRead(key, token, list)
	return list, stats.SummarizeClients(list), nil
}

// Invoices returns all invoices joined with client names plus per-status sums.
func (c *Coordinator) Invoices(ctx context.Context) ([]stats.InvoiceWithClient, stats.InvoiceStats, error) {
	key := cache.Key{Entity: cache.EntityInvoices}
	if c.cache.Fresh(key) {
		if v, ok := c.cache.Get(key); ok {
			list := v.([]stats.InvoiceWithClient)
			return list, summarizeJoined(list), nil
		}
	}
	token := c.cache.BeginRead(key)
	invoices, err := c.store.ListInvoices(ctx)
	if err != nil {
		return nil, stats.InvoiceStats{}, err
	}
	clients, err := c.store.ListClients(ctx)
	if err != nil {
		return nil, stats.InvoiceStats{}, err
	}
	list := stats.JoinClientName(invoices, clients)
	c.cache.CompleteRead(key, token, list)
	return list, summarizeJoined(list), nil
}

func summarizeJoined(list []stats.InvoiceWithClient) stats.InvoiceStats {
	raw := make([]models.Invoice, 0, len(list))
	for _, it := range list {
		raw = append(raw, it.Invoice)
	}
	return stats.ComputeInvoiceStats(raw)
}

// ClientData assembles the per-client read model from four cached queries.
func (c *Coordinator) ClientData(ctx context.Context, clientID string) (models.ClientData, error) {
	data := models.ClientData{Invoices: []models.Invoice{}, Assets: []models.Asset{}}

	clientKey := cache.Key{Entity: cache.EntityClient, ClientID: clientID}
	if c.cache.Fresh(clientKey) {
		if v, ok := c.cache.Get(clientKey); ok {
			data.Client = v.(*models.Client)
		}
	} else {
		token := c.cache.BeginRead(clientKey)
		cl, err := c.store.GetClient(ctx, clientID)
		if err != nil {
			return data, err
		}
		c.cache.CompleteRead(clientKey, token, cl)
		data.Client = cl
	}

	sub, err := c.Subscription(ctx, clientID)
	if err != nil {
		return data, err
	}
	data.Subscription = sub

	invKey := cache.Key{Entity: cache.EntityInvoices, ClientID: clientID}
	if c.cache.Fresh(invKey) {
		if v, ok := c.cache.Get(invKey); ok {
			data.Invoices = v.([]models.Invoice)
		}
	} else {
		token := c.cache.BeginRead(invKey)
		invs, err := c.store.ListClientInvoices(ctx, clientID)
		if err != nil {
			return data, err
		}
		c.cache.CompleteRead(invKey, token, invs)
		data.Invoices = invs
	}

	assetKey := cache.Key{Entity: cache.EntityAssets, ClientID: clientID}
	if c.cache.Fresh(assetKey) {
		if v, ok := c.cache.Get(assetKey); ok {
			data.Assets = v.([]models.Asset)
		}
	} else {
		token := c.cache.BeginRead(assetKey)
		assets, err := c.store.ListClientAssets(ctx, clientID)
		if err != nil {
			return data, err
		}
		c.cache.CompleteRead(assetKey, token, assets)
		data.Assets = assets
	}

	return data, nil
}

// Subscription reads one client's subscription through the cache. The cached
// value is a *models.Subscription and may be a typed nil when the client has
// none yet; absence is not an error.
func (c *Coordinator) Subscription(ctx context.Context, clientID string) (*models.Subscription, error) {
	key := cache.Key{Entity: cache.EntitySubscription, ClientID: clientID}
	if c.cache.Fresh(key) {
		if v, ok := c.cache.Get(key); ok {
			return v.(*models.Subscription), nil
		}
	}
	token := c.cache.BeginRead(key)
	sub, err := c.store.SubscriptionByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	c.cache.CompleteRead(key, token, sub)
	return sub, nil
}

// Dashboard derives the landing-page summary, cached until a mutation
// invalidates it.
func (c *Coordinator) Dashboard(ctx context.Context) (stats.DashboardStats, error) {
	key := cache.Key{Entity: cache.EntityDashboard}
	if c.cache.Fresh(key) {
		if v, ok := c.cache.Get(key); ok {
			return v.(stats.DashboardStats), nil
		}
	}
	token := c.cache.BeginRead(key)
	total, active, err := c.store.CountClients(ctx)
	if err != nil {
		return stats.DashboardStats{}, err
	}
	invoices, err := c.store.ListInvoices(ctx)
	if err != nil {
		return stats.DashboardStats{}, err
	}
	activeSubs, err := c.store.CountActiveSubscriptions(ctx)
	if err != nil {
		return stats.DashboardStats{}, err
	}
	s := stats.ComputeDashboardStats(total, active, invoices, activeSubs, c.now())
	c.cache.CompleteRead(key, token, s)
	return s, nil
}
