package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice statuses. Any value may follow any other; there is no enforced
// state machine.
const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusPending = "pending"
	InvoiceStatusOverdue = "overdue"
)

// Invoice entity. Immutable except for Status.
type Invoice struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	SubscriptionID string    `gorm:"size:36;index" json:"subscription_id"`
	ClientID       string    `gorm:"not null;size:36;index" json:"client_id"`
	Amount         float64   `gorm:"not null" json:"amount"`
	Status         string    `gorm:"not null;default:'pending'" json:"status"` // paid, pending, overdue
	CreatedAt      time.Time `json:"created_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// ValidInvoiceStatus reports whether s is one of the three known statuses.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusPending, InvoiceStatusOverdue:
		return true
	}
	return false
}
