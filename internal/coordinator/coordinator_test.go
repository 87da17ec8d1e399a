package coordinator_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/db"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/notify"
	"github.com/yahyahoussini/client-harmony-hub/internal/store"
)

type fixture struct {
	coord  *coordinator.Coordinator
	store  *store.DB
	flaky  *flakyStore
	blobs  *store.MemBlobs
	cache  *cache.Cache
	toasts *notify.Recorder
}

// flakyStore injects store failures and observes calls for specific tests.
type flakyStore struct {
	store.Store
	failInsertSub   bool
	failUpdateSub   bool
	failInsertAsset bool
	onWriteSub      func()
}

func (f *flakyStore) InsertSubscription(ctx context.Context, s models.Subscription) (*models.Subscription, error) {
	if f.onWriteSub != nil {
		f.onWriteSub()
	}
	if f.failInsertSub {
		return nil, store.Errorf("insert subscription", "connection reset")
	}
	return f.Store.InsertSubscription(ctx, s)
}

func (f *flakyStore) UpdateSubscriptionByClient(ctx context.Context, clientID string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	if f.onWriteSub != nil {
		f.onWriteSub()
	}
	if f.failUpdateSub {
		return nil, store.Errorf("update subscription", "connection reset")
	}
	return f.Store.UpdateSubscriptionByClient(ctx, clientID, patch)
}

func (f *flakyStore) InsertAsset(ctx context.Context, a models.Asset) (*models.Asset, error) {
	if f.failInsertAsset {
		return nil, store.Errorf("insert asset", "permission denied")
	}
	return f.Store.InsertAsset(ctx, a)
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.NewDB(dbi)
	f := &fixture{
		store:  st,
		flaky:  &flakyStore{Store: st},
		blobs:  store.NewMemBlobs(),
		cache:  cache.New(),
		toasts: notify.NewRecorder(),
	}
	f.coord = coordinator.New(f.flaky, f.blobs, f.cache, f.toasts, zap.NewNop())
	return f
}

func (f *fixture) mustClient(t *testing.T, name string) *models.Client {
	t.Helper()
	c, err := f.store.CreateClient(context.Background(), models.Client{Name: name})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func subKey(clientID string) cache.Key {
	return cache.Key{Entity: cache.EntitySubscription, ClientID: clientID}
}

func TestUpsertSubscriptionOptimisticApply(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")

	amount := 50.0
	currency := "USD"
	var seen *models.Subscription
	f.flaky.onWriteSub = func() {
		// the synthesized value must already be published when the write goes out
		if v, ok := f.cache.Get(subKey(c.ID)); ok {
			seen = v.(*models.Subscription)
		}
	}

	row, err := f.coord.UpsertSubscription(context.Background(), c.ID, models.SubscriptionPatch{Amount: &amount, Currency: &currency})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if seen == nil {
		t.Fatalf("no optimistic value in cache at write time")
	}
	if seen.ClientID != c.ID || seen.Amount != 50 || seen.Currency != "USD" {
		t.Fatalf("optimistic value: %+v", seen)
	}
	if row.ID == "" || row.Amount != 50 {
		t.Fatalf("settled row: %+v", row)
	}
	// settled entry is stale so the next read reconciles with the real row
	if f.cache.Fresh(subKey(c.ID)) {
		t.Fatalf("subscription cache should be stale after settlement")
	}
	got, err := f.coord.Subscription(context.Background(), c.ID)
	if err != nil || got == nil || got.ID != row.ID {
		t.Fatalf("reconcile read: %+v %v", got, err)
	}
	if toast, ok := f.toasts.Last(); !ok || toast.Level != notify.LevelSuccess {
		t.Fatalf("expected success toast, got %+v", toast)
	}
}

func TestUpsertSubscriptionRollbackOnFailure(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")

	// seed a real subscription and pull it into the cache
	if _, err := f.store.InsertSubscription(context.Background(), models.Subscription{ClientID: c.ID, Amount: 10, Currency: "EUR", Cycle: "monthly"}); err != nil {
		t.Fatalf("seed sub: %v", err)
	}
	before, err := f.coord.Subscription(context.Background(), c.ID)
	if err != nil || before == nil {
		t.Fatalf("prime cache: %+v %v", before, err)
	}

	f.flaky.failUpdateSub = true
	amount := 999.0
	if _, err := f.coord.UpsertSubscription(context.Background(), c.ID, models.SubscriptionPatch{Amount: &amount}); err == nil {
		t.Fatalf("expected failure")
	}

	// exact rollback: the cached value equals the snapshot, not snapshot+patch
	v, ok := f.cache.Get(subKey(c.ID))
	if !ok {
		t.Fatalf("cache lost the subscription")
	}
	after := v.(*models.Subscription)
	if after.Amount != 10 || after.Currency != "EUR" {
		t.Fatalf("rollback not exact: %+v", after)
	}
	if toast, ok := f.toasts.Last(); !ok || toast.Level != notify.LevelError || !strings.Contains(toast.Message, "Failed to update subscription") {
		t.Fatalf("expected failure toast, got %+v", toast)
	}
	if n := len(f.toasts.Toasts()); n != 1 {
		t.Fatalf("want exactly one toast for the mutation, got %d", n)
	}
}

func TestUpsertSubscriptionRollbackToAbsent(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")

	f.flaky.failInsertSub = true
	amount := 50.0
	if _, err := f.coord.UpsertSubscription(context.Background(), c.ID, models.SubscriptionPatch{Amount: &amount}); err == nil {
		t.Fatalf("expected failure")
	}
	if v, ok := f.cache.Get(subKey(c.ID)); ok && v.(*models.Subscription) != nil {
		t.Fatalf("speculative value survived rollback: %+v", v)
	}
}

func TestUploadAssetTwoPhase(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")
	f.coord.SetClock(func() time.Time { return time.UnixMilli(1700000000000) })

	created, err := f.coord.UploadAsset(context.Background(), c.ID, coordinator.Upload{
		FileName:    "contract.pdf",
		ContentType: "application/pdf",
		Bucket:      store.BucketAssets,
		Data:        []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	wantPath := store.BucketAssets + "/" + c.ID + "/1700000000000.pdf"
	if created.BucketPath != wantPath {
		t.Fatalf("bucket_path: got %q, want %q", created.BucketPath, wantPath)
	}
	if created.Type != models.AssetTypePDF || created.Size != 8 || created.FileURL == "" {
		t.Fatalf("asset row: %+v", created)
	}
	bucket, key := created.SplitBucketPath()
	if !f.blobs.Has(bucket, key) {
		t.Fatalf("blob missing at %s/%s", bucket, key)
	}
}

func TestUploadAssetRowFailureLeavesOrphanedBlob(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")
	f.flaky.failInsertAsset = true

	_, err := f.coord.UploadAsset(context.Background(), c.ID, coordinator.Upload{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Bucket:      store.BucketAssets,
		Data:        []byte("hello"),
	})
	if err == nil {
		t.Fatalf("expected failure")
	}
	// phase 1 result is not compensated; the blob stays orphaned
	if f.blobs.Len() != 1 {
		t.Fatalf("want orphaned blob, have %d objects", f.blobs.Len())
	}
	if toast, ok := f.toasts.Last(); !ok || toast.Level != notify.LevelError {
		t.Fatalf("failure must surface a toast, got %+v", toast)
	}
}

func TestDeleteAssetBlobFailureKeepsRow(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")

	created, err := f.coord.UploadAsset(context.Background(), c.ID, coordinator.Upload{
		FileName:    "voice.webm",
		ContentType: "audio/webm",
		Bucket:      store.BucketVoiceNotes,
		Data:        []byte("RIFF"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	f.blobs.FailDelete = true
	if err := f.coord.DeleteAsset(context.Background(), created.ID); err == nil {
		t.Fatalf("expected failure")
	}
	// row delete must not have been issued: both sides remain
	row, err := f.store.GetAsset(context.Background(), created.ID)
	if err != nil || row == nil {
		t.Fatalf("asset row should still exist: %+v %v", row, err)
	}
	bucket, key := created.SplitBucketPath()
	if !f.blobs.Has(bucket, key) {
		t.Fatalf("blob should still exist")
	}

	f.blobs.FailDelete = false
	if err := f.coord.DeleteAsset(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if row, _ := f.store.GetAsset(context.Background(), created.ID); row != nil {
		t.Fatalf("row should be gone")
	}
	if f.blobs.Has(bucket, key) {
		t.Fatalf("blob should be gone")
	}
}

func TestInvoiceStatusInvalidateAfter(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")
	inv, err := f.store.InsertInvoice(context.Background(), models.Invoice{ClientID: c.ID, Amount: 100, Status: "pending"})
	if err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	// prime the joined list cache
	if _, _, err := f.coord.Invoices(context.Background()); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if !f.cache.Fresh(cache.Key{Entity: cache.EntityInvoices}) {
		t.Fatalf("list should be cached")
	}

	if _, err := f.coord.UpdateInvoiceStatus(context.Background(), inv.ID, "paid"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.cache.Fresh(cache.Key{Entity: cache.EntityInvoices}) {
		t.Fatalf("invoice cache should be stale after the write")
	}

	list, summary, err := f.coord.Invoices(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(list) != 1 || list[0].Status != "paid" || list[0].ClientName != "Acme" {
		t.Fatalf("refetched list: %+v", list)
	}
	if summary.Paid != 100 || summary.Outstanding != 0 {
		t.Fatalf("summary: %+v", summary)
	}
}

func TestUpdateInvoiceStatusRejectsUnknown(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")
	inv, _ := f.store.InsertInvoice(context.Background(), models.Invoice{ClientID: c.ID, Amount: 5, Status: "pending"})

	if _, err := f.coord.UpdateInvoiceStatus(context.Background(), inv.ID, "cancelled"); err == nil {
		t.Fatalf("unknown status accepted")
	}
	row, _ := f.store.UpdateInvoiceStatus(context.Background(), inv.ID, "pending")
	if row.Status != "pending" {
		t.Fatalf("status changed: %+v", row)
	}
}

func TestClientMutationsInvalidateAndToast(t *testing.T) {
	f := setup(t)

	created, err := f.coord.CreateClient(context.Background(), models.Client{Name: "Acme", Email: "a@acme.io"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != models.ClientStatusActive {
		t.Fatalf("default status: %q", created.Status)
	}
	if toast, _ := f.toasts.Last(); toast.Message != "Client created successfully" {
		t.Fatalf("toast: %+v", toast)
	}

	// prime list cache, then mutate and observe staleness
	if _, _, err := f.coord.Clients(context.Background()); err != nil {
		t.Fatalf("prime: %v", err)
	}
	name := "Acme Corp"
	if _, err := f.coord.UpdateClient(context.Background(), created.ID, models.ClientPatch{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.cache.Fresh(cache.Key{Entity: cache.EntityClients}) {
		t.Fatalf("client list should be stale")
	}

	list, summary, err := f.coord.Clients(context.Background())
	if err != nil || len(list) != 1 || list[0].Name != "Acme Corp" {
		t.Fatalf("refetch: %+v %v", list, err)
	}
	if summary.Total != 1 || summary.Active != 1 {
		t.Fatalf("summary: %+v", summary)
	}

	if err := f.coord.DeleteClient(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(f.toasts.Toasts()); n != 3 {
		t.Fatalf("want one toast per mutation (3), got %d", n)
	}
}

func TestClientDataReadModel(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")
	if _, err := f.store.InsertSubscription(context.Background(), models.Subscription{ClientID: c.ID, Amount: 20, Currency: "USD", Cycle: "monthly", Active: true}); err != nil {
		t.Fatalf("seed sub: %v", err)
	}
	if _, err := f.store.InsertInvoice(context.Background(), models.Invoice{ClientID: c.ID, Amount: 20, Status: "paid"}); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	data, err := f.coord.ClientData(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("client data: %v", err)
	}
	if data.Client == nil || data.Client.ID != c.ID {
		t.Fatalf("client: %+v", data.Client)
	}
	if data.Subscription == nil || data.Subscription.Amount != 20 {
		t.Fatalf("subscription: %+v", data.Subscription)
	}
	if len(data.Invoices) != 1 || len(data.Assets) != 0 {
		t.Fatalf("joins: %d invoices, %d assets", len(data.Invoices), len(data.Assets))
	}
}

func TestDashboardStats(t *testing.T) {
	f := setup(t)
	c := f.mustClient(t, "Acme")
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	f.coord.SetClock(func() time.Time { return now })

	if _, err := f.store.InsertSubscription(context.Background(), models.Subscription{ClientID: c.ID, Amount: 20, Currency: "USD", Cycle: "monthly", Active: true}); err != nil {
		t.Fatalf("seed sub: %v", err)
	}
	for _, inv := range []models.Invoice{
		{ClientID: c.ID, Amount: 100, Status: "paid", CreatedAt: now},
		{ClientID: c.ID, Amount: 80, Status: "paid", CreatedAt: now.AddDate(0, -2, 0)},
		{ClientID: c.ID, Amount: 30, Status: "pending", CreatedAt: now},
		{ClientID: c.ID, Amount: 15, Status: "overdue", CreatedAt: now},
	} {
		if _, err := f.store.InsertInvoice(context.Background(), inv); err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	s, err := f.coord.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if s.TotalClients != 1 || s.ActiveClients != 1 || s.PendingReminders != 1 {
		t.Fatalf("counts: %+v", s)
	}
	if s.OpenInvoices != 45 || s.RevenueThisMonth != 100 {
		t.Fatalf("sums: %+v", s)
	}
}
