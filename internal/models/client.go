package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client statuses.
const (
	ClientStatusActive   = "active"
	ClientStatusArchived = "archived"
)

// Client entity
type Client struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Source    string    `json:"source"`
	Status    string    `gorm:"not null;default:'active';index" json:"status"` // active, archived
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Company   string    `json:"company"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ClientStatusActive
	}
	return nil
}

// ClientPatch is a partial update for Client. Only non-nil fields are applied.
type ClientPatch struct {
	Name    *string `json:"name,omitempty"`
	Source  *string `json:"source,omitempty"`
	Status  *string `json:"status,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Company *string `json:"company,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// Fields returns the patch as a column->value map for gorm Updates.
func (p ClientPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Source != nil {
		m["source"] = *p.Source
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	if p.Email != nil {
		m["email"] = *p.Email
	}
	if p.Phone != nil {
		m["phone"] = *p.Phone
	}
	if p.Address != nil {
		m["address"] = *p.Address
	}
	if p.Company != nil {
		m["company"] = *p.Company
	}
	if p.Notes != nil {
		m["notes"] = *p.Notes
	}
	return m
}
