package attendant

import (
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedTenant creates a tenant past its trial window with an active starter
// subscription and a gateway instance, returning the tenant id.
func seedTenant(t *testing.T, db *gorm.DB, instanceName string) uint64 {
	t.Helper()

	tenant := &models.Tenant{
		Name:            "Studio Glow",
		Email:           instanceName + "@example.com",
		AttendantActive: true,
		CreatedAt:       time.Now().AddDate(0, -1, 0),
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	if err := db.Create(&models.Subscription{
		TenantID: tenant.ID,
		PlanID:   "starter",
		Status:   "active",
	}).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	if err := db.Create(&models.Instance{
		TenantID:  tenant.ID,
		Name:      instanceName,
		TokenHash: "x",
	}).Error; err != nil {
		t.Fatalf("create instance: %v", err)
	}

	return tenant.ID
}
