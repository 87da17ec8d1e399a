package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset types as stored.
const (
	AssetTypeImage    = "image"
	AssetTypePDF      = "pdf"
	AssetTypeDocument = "document"
	AssetTypeAudio    = "audio"
	AssetTypeOther    = "other"
)

// Asset is an uploaded file attached to a client. BucketPath encodes
// "<bucket>/<storage-key>" so the blob can be removed alongside the row.
type Asset struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ClientID   string    `gorm:"not null;size:36;index" json:"client_id"`
	Name       string    `gorm:"not null" json:"name"`
	Type       string    `gorm:"not null;default:'other'" json:"type"`
	Size       int64     `json:"size"`
	FileURL    string    `gorm:"not null" json:"file_url"`
	BucketPath string    `gorm:"not null" json:"bucket_path"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// SplitBucketPath parses BucketPath into its bucket and storage key.
// The key keeps any embedded slashes.
func (a Asset) SplitBucketPath() (bucket, key string) {
	bucket, key, _ = strings.Cut(a.BucketPath, "/")
	return bucket, key
}
