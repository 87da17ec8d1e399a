package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// DB implements Store on a gorm connection.
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

func (s *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&clients).Error
	return clients, wrap("list clients", err)
}

func (s *DB) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get client", err)
	}
	return &c, nil
}

func (s *DB) CreateClient(ctx context.Context, c models.Client) (*models.Client, error) {
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, wrap("create client", err)
	}
	return &c, nil
}

func (s *DB) UpdateClient(ctx context.Context, id string, patch models.ClientPatch) (*models.Client, error) {
	fields := patch.Fields()
	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, wrap("update client", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, Errorf("update client", "client %s not found", id)
		}
	}
	var c models.Client
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, wrap("update client", err)
	}
	return &c, nil
}

func (s *DB) DeleteClient(ctx context.Context, id string) error {
	return wrap("delete client", s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{}).Error)
}

func (s *DB) CountClients(ctx context.Context) (int, int, error) {
	var total, active int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return 0, 0, wrap("count clients", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Where("status = ?", models.ClientStatusActive).Count(&active).Error; err != nil {
		return 0, 0, wrap("count clients", err)
	}
	return int(total), int(active), nil
}

func (s *DB) SubscriptionByClient(ctx context.Context, clientID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get subscription", err)
	}
	return &sub, nil
}

func (s *DB) InsertSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, wrap("insert subscription", err)
	}
	return &sub, nil
}

func (s *DB) UpdateSubscriptionByClient(ctx context.Context, clientID string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	fields := patch.Fields()
	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("client_id = ?", clientID).Updates(fields)
		if res.Error != nil {
			return nil, wrap("update subscription", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, Errorf("update subscription", "no subscription for client %s", clientID)
		}
	}
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&sub).Error; err != nil {
		return nil, wrap("update subscription", err)
	}
	return &sub, nil
}

func (s *DB) CountActiveSubscriptions(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("active = ?", true).Count(&n).Error
	return int(n), wrap("count subscriptions", err)
}

func (s *DB) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invs []models.Invoice
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&invs).Error
	return invs, wrap("list invoices", err)
}

func (s *DB) ListClientInvoices(ctx context.Context, clientID string) ([]models.Invoice, error) {
	var invs []models.Invoice
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at desc").Find(&invs).Error
	return invs, wrap("list invoices", err)
}

func (s *DB) InsertInvoice(ctx context.Context, inv models.Invoice) (*models.Invoice, error) {
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, wrap("insert invoice", err)
	}
	return &inv, nil
}

func (s *DB) UpdateInvoiceStatus(ctx context.Context, id, status string) (*models.Invoice, error) {
	res := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, wrap("update invoice", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, Errorf("update invoice", "invoice %s not found", id)
	}
	var inv models.Invoice
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, wrap("update invoice", err)
	}
	return &inv, nil
}

func (s *DB) ListClientAssets(ctx context.Context, clientID string) ([]models.Asset, error) {
	var assets []models.Asset
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at desc").Find(&assets).Error
	return assets, wrap("list assets", err)
}

func (s *DB) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var a models.Asset
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get asset", err)
	}
	return &a, nil
}

func (s *DB) InsertAsset(ctx context.Context, a models.Asset) (*models.Asset, error) {
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, wrap("insert asset", err)
	}
	return &a, nil
}

func (s *DB) DeleteAsset(ctx context.Context, id string) error {
	return wrap("delete asset", s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{}).Error)
}
