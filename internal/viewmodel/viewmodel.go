// Package viewmodel maps raw rows to their display shapes. All mappings are
// total and deterministic; absent optional fields get defensive defaults.
package viewmodel

import (
	"fmt"
	"time"

	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// Display categories for the document list.
const (
	CategoryPDF   = "pdf"
	CategoryImage = "image"
	CategoryDoc   = "doc"
	CategoryOther = "other"
)

// AssetCategory maps a stored asset type to its four-way display category.
// Audio never reaches the document list; SplitAssets routes it out first.
func AssetCategory(assetType string) string {
	switch assetType {
	case models.AssetTypePDF:
		return CategoryPDF
	case models.AssetTypeImage:
		return CategoryImage
	case models.AssetTypeDocument:
		return CategoryDoc
	default:
		return CategoryOther
	}
}

// DocumentItem is one row of the document list.
type DocumentItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Size     string `json:"size"`
	FileURL  string `json:"file_url"`
}

// VoiceNoteItem is one row of the voice-notes list.
type VoiceNoteItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	FileURL  string    `json:"file_url"`
	Recorded time.Time `json:"recorded_at"`
}

// SplitAssets partitions a client's assets into documents and voice notes.
// Anything typed "audio" is a voice note; everything else is a document.
func SplitAssets(assets []models.Asset) (documents []DocumentItem, voiceNotes []VoiceNoteItem) {
	documents = []DocumentItem{}
	voiceNotes = []VoiceNoteItem{}
	for _, a := range assets {
		if a.Type == models.AssetTypeAudio {
			voiceNotes = append(voiceNotes, VoiceNoteItem{
				ID:       a.ID,
				Name:     a.Name,
				FileURL:  a.FileURL,
				Recorded: a.CreatedAt,
			})
			continue
		}
		documents = append(documents, DocumentItem{
			ID:       a.ID,
			Name:     a.Name,
			Category: AssetCategory(a.Type),
			Size:     FormatSize(a.Size),
			FileURL:  a.FileURL,
		})
	}
	return documents, voiceNotes
}

// FormatSize renders a byte count for display; zero/absent sizes show as
// "Unknown".
func FormatSize(size int64) string {
	if size <= 0 {
		return "Unknown"
	}
	const kb, mb = 1024, 1024 * 1024
	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// BillingSettings is the billing form's view of a subscription, with the
// date converted at the boundary.
type BillingSettings struct {
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Cycle           string     `json:"cycle"`
	NextPaymentDate *time.Time `json:"next_payment_date"`
	Active          bool       `json:"active"`
}

// BillingFromSubscription maps a subscription row 1:1 to the billing form.
// A nil row yields the form defaults.
func BillingFromSubscription(sub *models.Subscription) BillingSettings {
	if sub == nil {
		return BillingSettings{Currency: "USD", Cycle: models.CycleMonthly, Active: true}
	}
	return BillingSettings{
		Amount:          sub.Amount,
		Currency:        sub.Currency,
		Cycle:           sub.Cycle,
		NextPaymentDate: sub.NextPaymentDate,
		Active:          sub.Active,
	}
}

// ContactInfo is the contact card's view of a client; optional fields
// default to empty strings.
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

func ContactFromClient(c *models.Client) ContactInfo {
	if c == nil {
		return ContactInfo{}
	}
	return ContactInfo{Email: c.Email, Phone: c.Phone, Address: c.Address, Company: c.Company}
}
