package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing cycles.
const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
	CycleOneTime   = "one-time"
)

// Subscription holds the recurring billing settings for a client.
// At most one row per client; writes go through upsert-by-client_id.
type Subscription struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	ClientID        string     `gorm:"not null;uniqueIndex;size:36" json:"client_id"`
	Amount          float64    `gorm:"not null;default:0" json:"amount"`
	Currency        string     `gorm:"not null;default:'USD'" json:"currency"` // ISO 4217
	Cycle           string     `gorm:"not null;default:'monthly'" json:"cycle"`
	NextPaymentDate *time.Time `json:"next_payment_date"`
	Active          bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SubscriptionPatch is a partial update for Subscription.
type SubscriptionPatch struct {
	Amount          *float64   `json:"amount,omitempty"`
	Currency        *string    `json:"currency,omitempty"`
	Cycle           *string    `json:"cycle,omitempty"`
	NextPaymentDate *time.Time `json:"next_payment_date,omitempty"`
	Active          *bool      `json:"active,omitempty"`
}

// Fields returns the patch as a column->value map for gorm Updates.
func (p SubscriptionPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Amount != nil {
		m["amount"] = *p.Amount
	}
	if p.Currency != nil {
		m["currency"] = *p.Currency
	}
	if p.Cycle != nil {
		m["cycle"] = *p.Cycle
	}
	if p.NextPaymentDate != nil {
		m["next_payment_date"] = *p.NextPaymentDate
	}
	if p.Active != nil {
		m["active"] = *p.Active
	}
	return m
}

// Apply shallow-merges the patch onto a copy of s. Used by the optimistic
// write path to synthesize the expected post-write row.
func (p SubscriptionPatch) Apply(s Subscription) Subscription {
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.Cycle != nil {
		s.Cycle = *p.Cycle
	}
	if p.NextPaymentDate != nil {
		s.NextPaymentDate = p.NextPaymentDate
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
	return s
}

// Seed builds the row inserted when no subscription exists yet for a client.
func (p SubscriptionPatch) Seed(clientID string) Subscription {
	return p.Apply(Subscription{ClientID: clientID})
}
