package attendant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bookado/attendant/internal/billing"
	"github.com/bookado/attendant/internal/models"
)

func newTestGate(t *testing.T, cache Cache, instanceName string) (*Gate, uint64) {
	t.Helper()
	db := openTestDB(t)
	tenantID := seedTenant(t, db, instanceName)
	gate := NewGate(cache, NewRepo(db), billing.NewMeter(billing.NewRepo(db)))
	return gate, tenantID
}

func TestGate_SelfMessageSetsPauseWindow(t *testing.T) {
	cache := newMemCache()
	gate, tenantID := newTestGate(t, cache, "inst-self")

	before := time.Now()
	d, err := gate.Check(context.Background(), tenantID, "5511999990000", "conv-self", true)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected self-message to be denied")
	}
	if d.Reason != ReasonSelfMessagePause {
		t.Fatalf("unexpected reason: %q", d.Reason)
	}
	if until := d.PauseUntil.Sub(before); until < 59*time.Minute || until > 61*time.Minute {
		t.Fatalf("expected ~1h pause, got %s", until)
	}
	if cache.ttls[pauseKey("conv-self")] != time.Hour {
		t.Fatalf("expected pause key TTL of 1h, got %s", cache.ttls[pauseKey("conv-self")])
	}

	// A later contact message inside the window stays blocked.
	d, err = gate.Check(context.Background(), tenantID, "5511999990000", "conv-self", false)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if d.Allowed || d.Reason != ReasonPaused {
		t.Fatalf("expected paused decision, got %+v", d)
	}
}

func TestGate_AllowsHealthyContact(t *testing.T) {
	gate, tenantID := newTestGate(t, newMemCache(), "inst-ok")

	d, err := gate.Check(context.Background(), tenantID, "5511999990001", "conv-ok", false)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected allowed, got reason %q", d.Reason)
	}
}

func TestGate_ValidationCacheReusedWithinTTL(t *testing.T) {
	cache := newMemCache()
	db := openTestDB(t)
	tenantID := seedTenant(t, db, "inst-cache")
	gate := NewGate(cache, NewRepo(db), billing.NewMeter(billing.NewRepo(db)))

	base := time.Now()
	gate.now = func() time.Time { return base }

	d, err := gate.Check(context.Background(), tenantID, "5511999990002", "conv-cache", false)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected first check allowed, got %q", d.Reason)
	}

	// Blacklist the contact behind the cache's back. A check inside the TTL
	// must reuse the snapshot and never notice.
	if err := db.Create(&models.BlacklistEntry{TenantID: tenantID, Phone: "5511999990002"}).Error; err != nil {
		t.Fatalf("blacklist: %v", err)
	}

	gate.now = func() time.Time { return base.Add(4 * time.Minute) }
	d, err = gate.Check(context.Background(), tenantID, "5511999990002", "conv-cache", false)
	if err != nil {
		t.Fatalf("cached check: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected cached state to be reused, got reason %q", d.Reason)
	}

	// Past the TTL the state is recomputed from the store.
	gate.now = func() time.Time { return base.Add(6 * time.Minute) }
	d, err = gate.Check(context.Background(), tenantID, "5511999990002", "conv-cache", false)
	if err != nil {
		t.Fatalf("stale check: %v", err)
	}
	if d.Allowed || d.Reason != ReasonBlacklisted {
		t.Fatalf("expected blacklisted after cache expiry, got %+v", d)
	}
}

func TestGate_AttendantInactive(t *testing.T) {
	cache := newMemCache()
	db := openTestDB(t)
	tenantID := seedTenant(t, db, "inst-inactive")
	if err := db.Model(&models.Tenant{}).Where("id = ?", tenantID).
		Update("attendant_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	gate := NewGate(cache, NewRepo(db), billing.NewMeter(billing.NewRepo(db)))

	d, err := gate.Check(context.Background(), tenantID, "5511999990003", "conv-inactive", false)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if d.Allowed || d.Reason != ReasonInactive {
		t.Fatalf("expected inactive denial, got %+v", d)
	}
}

func TestGate_CreditsExhausted(t *testing.T) {
	cache := newMemCache()
	db := openTestDB(t)
	tenantID := seedTenant(t, db, "inst-broke")

	// starter plan: 100 distinct contacts per month
	for i := 0; i < 100; i++ {
		if err := db.Create(&models.AIUsage{
			TenantID:     tenantID,
			ContactPhone: fmt.Sprintf("55119999%04d", i),
		}).Error; err != nil {
			t.Fatalf("seed usage %d: %v", i, err)
		}
	}
	gate := NewGate(cache, NewRepo(db), billing.NewMeter(billing.NewRepo(db)))

	d, err := gate.Check(context.Background(), tenantID, "5511999990004", "conv-broke", false)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNoCredits {
		t.Fatalf("expected credits exhausted, got %+v", d)
	}
}
