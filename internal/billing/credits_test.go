package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createTenant(t *testing.T, db *gorm.DB, lifetime bool) uint64 {
	t.Helper()
	tenant := &models.Tenant{
		Name:      "Tenant",
		Email:     fmt.Sprintf("t%d@example.com", time.Now().UnixNano()),
		Lifetime:  lifetime,
		CreatedAt: time.Now().AddDate(0, -2, 0),
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant.ID
}

func seedUsage(t *testing.T, db *gorm.DB, tenantID uint64, contacts int, at time.Time) {
	t.Helper()
	for i := 0; i < contacts; i++ {
		require.NoError(t, db.Create(&models.AIUsage{
			TenantID:     tenantID,
			ContactPhone: fmt.Sprintf("5511%08d", i),
			CreatedAt:    at,
		}).Error)
	}
}

func TestPlanQuota(t *testing.T) {
	assert.Equal(t, 100, PlanQuota("starter", "active"))
	assert.Equal(t, 200, PlanQuota("professional", "active"))
	assert.Equal(t, 300, PlanQuota("premium", "active"))
	assert.Equal(t, 0, PlanQuota("starter", "canceled"))
	assert.Equal(t, 0, PlanQuota("enterprise", "active"))
}

func TestHasCredits_BasePlan(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, false)
	require.NoError(t, db.Create(&models.Subscription{
		TenantID: tenantID, PlanID: "starter", Status: "active",
	}).Error)

	meter := NewMeter(NewRepo(db))
	ctx := context.Background()

	ok, err := meter.HasCredits(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, ok, "fresh tenant should have credits")

	seedUsage(t, db, tenantID, 100, time.Now())

	ok, err = meter.HasCredits(ctx, tenantID)
	require.NoError(t, err)
	assert.False(t, ok, "quota consumed by 100 distinct contacts")

	// A top-up grant reopens the pool.
	require.NoError(t, db.Create(&models.CreditGrant{
		TenantID: tenantID, Quantity: 10, Used: 0, Active: true,
	}).Error)

	ok, err = meter.HasCredits(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, ok, "active grant should restore credits")
}

func TestHasCredits_DistinctContactsNotRows(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, false)
	require.NoError(t, db.Create(&models.Subscription{
		TenantID: tenantID, PlanID: "starter", Status: "active",
	}).Error)

	// 150 rows but a single contact: one credit consumed.
	for i := 0; i < 150; i++ {
		require.NoError(t, db.Create(&models.AIUsage{
			TenantID: tenantID, ContactPhone: "5511999990000", CreatedAt: time.Now(),
		}).Error)
	}

	meter := NewMeter(NewRepo(db))
	ok, err := meter.HasCredits(context.Background(), tenantID)
	require.NoError(t, err)
	assert.True(t, ok)

	used, err := meter.MonthlyUsage(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), used)
}

func TestHasCredits_CalendarMonthBoundary(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, false)
	require.NoError(t, db.Create(&models.Subscription{
		TenantID: tenantID, PlanID: "starter", Status: "active",
	}).Error)

	// Usage from last month does not count against this month.
	seedUsage(t, db, tenantID, 100, time.Now().AddDate(0, -1, 0))

	meter := NewMeter(NewRepo(db))
	ok, err := meter.HasCredits(context.Background(), tenantID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMonthlyLimit_InactiveSubscription(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, false)
	require.NoError(t, db.Create(&models.Subscription{
		TenantID: tenantID, PlanID: "premium", Status: "past_due",
	}).Error)

	meter := NewMeter(NewRepo(db))
	limit, unlimited, err := meter.MonthlyLimit(context.Background(), tenantID)
	require.NoError(t, err)
	assert.False(t, unlimited)
	assert.Equal(t, 0, limit)
}

func TestMonthlyLimit_GrantBalanceOnly(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, false)

	require.NoError(t, db.Create(&models.CreditGrant{
		TenantID: tenantID, Quantity: 50, Used: 20, Active: true,
	}).Error)
	// Inactive and exhausted grants contribute nothing. Active carries a
	// default:true tag, so gorm substitutes the default for a zero-value
	// false on Create; deactivate with an explicit update instead.
	inactive := models.CreditGrant{TenantID: tenantID, Quantity: 50, Used: 0}
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Model(&inactive).Update("active", false).Error)
	require.NoError(t, db.Create(&models.CreditGrant{
		TenantID: tenantID, Quantity: 30, Used: 30, Active: true,
	}).Error)

	meter := NewMeter(NewRepo(db))
	limit, unlimited, err := meter.MonthlyLimit(context.Background(), tenantID)
	require.NoError(t, err)
	assert.False(t, unlimited)
	assert.Equal(t, 30, limit)
}

func TestHasCredits_LifetimeCeiling(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, true)

	meter := NewMeter(NewRepo(db))
	ctx := context.Background()

	_, unlimited, err := meter.MonthlyLimit(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, unlimited)

	ok, err := meter.HasCredits(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, ok)

	seedUsage(t, db, tenantID, 5000, time.Now())

	ok, err = meter.HasCredits(ctx, tenantID)
	require.NoError(t, err)
	assert.False(t, ok, "lifetime ceiling reached")
}

func TestInTrial(t *testing.T) {
	now := time.Now()
	fresh := &models.Tenant{CreatedAt: now.Add(-24 * time.Hour)}
	old := &models.Tenant{CreatedAt: now.Add(-4 * 24 * time.Hour)}
	assert.True(t, InTrial(fresh, now))
	assert.False(t, InTrial(old, now))
}
