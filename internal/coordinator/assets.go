package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/store"
)

// Upload carries one file destined for a blob bucket.
type Upload struct {
	FileName    string
	ContentType string
	Bucket      string // client-assets or voice-notes
	Data        []byte
}

// classifyAsset maps a MIME type to the stored asset type.
func classifyAsset(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.AssetTypeImage
	case strings.Contains(contentType, "pdf"):
		return models.AssetTypePDF
	case strings.HasPrefix(contentType, "audio/"):
		return models.AssetTypeAudio
	default:
		return models.AssetTypeDocument
	}
}

// UploadAsset is a two-phase write: store the blob first, then insert the
// row pointing at it. A row-insert failure leaves the blob orphaned; that is
// accepted and surfaced through the failure toast rather than compensated.
func (c *Coordinator) UploadAsset(ctx context.Context, clientID string, up Upload) (*models.Asset, error) {
	unlock := c.lockClient(clientID)
	defer unlock()

	if !store.KnownBucket(up.Bucket) {
		err := store.Errorf("put blob", "unknown bucket %q", up.Bucket)
		c.failure("Upload failed", err)
		return nil, err
	}

	ext := strings.TrimPrefix(filepath.Ext(up.FileName), ".")
	if ext == "" {
		ext = "bin"
	}
	key := fmt.Sprintf("%s/%d.%s", clientID, c.now().UnixMilli(), ext)

	url, err := c.blobs.Put(ctx, up.Bucket, key, up.Data, up.ContentType)
	if err != nil {
		c.failure("Upload failed", err)
		return nil, err
	}

	created, err := c.store.InsertAsset(ctx, models.Asset{
		ClientID:   clientID,
		Name:       up.FileName,
		Type:       classifyAsset(up.ContentType),
		Size:       int64(len(up.Data)),
		FileURL:    url,
		BucketPath: up.Bucket + "/" + key,
	})
	if err != nil {
		c.failure("Upload failed", err)
		return nil, err
	}
	c.cache.Invalidate(cache.Key{Entity: cache.EntityAssets, ClientID: clientID})
	c.success("File uploaded successfully")
	return created, nil
}

// DeleteAsset removes blob then row, in that order. A blob-delete failure
// aborts the whole operation: the row stays, keeping both sides consistent.
func (c *Coordinator) DeleteAsset(ctx context.Context, assetID string) error {
	asset, err := c.store.GetAsset(ctx, assetID)
	if err != nil {
		c.failure("Delete failed", err)
		return err
	}
	if asset == nil {
		err := store.Errorf("get asset", "asset %s not found", assetID)
		c.failure("Delete failed", err)
		return err
	}

	unlock := c.lockClient(asset.ClientID)
	defer unlock()

	bucket, key := asset.SplitBucketPath()
	if err := c.blobs.Delete(ctx, bucket, key); err != nil {
		c.failure("Delete failed", err)
		return err
	}
	if err := c.store.DeleteAsset(ctx, assetID); err != nil {
		c.failure("Delete failed", err)
		return err
	}
	c.cache.Invalidate(cache.Key{Entity: cache.EntityAssets, ClientID: asset.ClientID})
	c.success("Asset deleted")
	return nil
}
