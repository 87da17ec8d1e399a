// Package store is the remote persistence boundary: row CRUD over the four
// tables plus blob storage for the two upload buckets. Every failure that
// crosses this boundary is a *StoreError.
package store

import (
	"context"
	"fmt"

	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// Blob buckets.
const (
	BucketAssets     = "client-assets"
	BucketVoiceNotes = "voice-notes"
)

// KnownBucket reports whether name is one of the two upload buckets.
func KnownBucket(name string) bool {
	return name == BucketAssets || name == BucketVoiceNotes
}

// StoreError is the single error kind this layer reports: connectivity,
// permission, and constraint failures are not distinguished further.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// wrap converts err into a *StoreError tagged with op. nil stays nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Errorf builds a *StoreError without an underlying cause.
func Errorf(op, format string, args ...any) error {
	return &StoreError{Op: op, Err: fmt.Errorf(format, args...)}
}

// Store is the row-level capability. Lookups for a missing single row return
// (nil, nil); only transport and constraint failures error.
type Store interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	CreateClient(ctx context.Context, c models.Client) (*models.Client, error)
	UpdateClient(ctx context.Context, id string, patch models.ClientPatch) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error
	CountClients(ctx context.Context) (total, active int, err error)

	SubscriptionByClient(ctx context.Context, clientID string) (*models.Subscription, error)
	InsertSubscription(ctx context.Context, s models.Subscription) (*models.Subscription, error)
	UpdateSubscriptionByClient(ctx context.Context, clientID string, patch models.SubscriptionPatch) (*models.Subscription, error)
	CountActiveSubscriptions(ctx context.Context) (int, error)

	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	ListClientInvoices(ctx context.Context, clientID string) ([]models.Invoice, error)
	InsertInvoice(ctx context.Context, inv models.Invoice) (*models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id, status string) (*models.Invoice, error)

	ListClientAssets(ctx context.Context, clientID string) ([]models.Asset, error)
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	InsertAsset(ctx context.Context, a models.Asset) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

// BlobStore is the bucket capability. Put returns the public URL of the
// stored object.
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}
