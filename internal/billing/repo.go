package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/models"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetTenant(ctx context.Context, tenantID uint64) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.WithContext(ctx).First(&t, tenantID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetSubscription returns the tenant's subscription row, or nil when the
// tenant has none.
func (r *Repo) GetSubscription(ctx context.Context, tenantID uint64) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GrantBalance sums quantity-used over the tenant's active top-up grants.
func (r *Repo) GrantBalance(ctx context.Context, tenantID uint64) (int, error) {
	var balance *int
	err := r.db.WithContext(ctx).
		Model(&models.CreditGrant{}).
		Select("SUM(quantity - used)").
		Where("tenant_id = ? AND active = ? AND used < quantity", tenantID, true).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}
	return *balance, nil
}

// DistinctContactsInMonth counts distinct contact phones with usage rows in
// the calendar month containing ref.
func (r *Repo) DistinctContactsInMonth(ctx context.Context, tenantID uint64, ref time.Time) (int64, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AIUsage{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, start, end).
		Distinct("contact_phone").
		Count(&count).Error
	return count, err
}

func (r *Repo) InsertUsage(ctx context.Context, u *models.AIUsage) error {
	return r.db.WithContext(ctx).Create(u).Error
}
