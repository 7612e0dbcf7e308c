package billing

import (
	"context"
	"time"
)

const (
	// Unlimited tenants still get a hard ceiling per month so a runaway
	// conversation loop cannot burn the account.
	lifetimeMonthlyCeiling = 5000

	subscriptionActive = "active"
)

// planQuotas maps a subscription plan id to its monthly base quota of
// automated interactions. Unknown plans yield zero.
var planQuotas = map[string]int{
	"starter":      100,
	"professional": 200,
	"premium":      300,
}

// PlanQuota returns the monthly base quota of a plan. Inactive or unknown
// subscriptions yield zero.
func PlanQuota(planID, status string) int {
	if status != subscriptionActive {
		return 0
	}
	return planQuotas[planID]
}

// Meter computes the remaining automated-response allowance per tenant and
// billing month.
type Meter struct {
	repo *Repo
	now  func() time.Time
}

func NewMeter(repo *Repo) *Meter {
	return &Meter{repo: repo, now: time.Now}
}

// MonthlyLimit returns the tenant's total monthly allowance: plan base quota
// plus the balance of active top-up grants. unlimited is true for lifetime
// tenants, in which case limit is meaningless.
func (m *Meter) MonthlyLimit(ctx context.Context, tenantID uint64) (limit int, unlimited bool, err error) {
	tenant, err := m.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return 0, false, err
	}
	if tenant.Lifetime {
		return 0, true, nil
	}

	base := 0
	sub, err := m.repo.GetSubscription(ctx, tenantID)
	if err != nil {
		return 0, false, err
	}
	if sub != nil {
		base = PlanQuota(sub.PlanID, sub.Status)
	}

	grants, err := m.repo.GrantBalance(ctx, tenantID)
	if err != nil {
		return 0, false, err
	}
	return base + grants, false, nil
}

// MonthlyUsage counts distinct contacts served this calendar month.
func (m *Meter) MonthlyUsage(ctx context.Context, tenantID uint64) (int64, error) {
	return m.repo.DistinctContactsInMonth(ctx, tenantID, m.now())
}

// HasCredits reports whether the tenant may consume one more automated
// interaction this month.
func (m *Meter) HasCredits(ctx context.Context, tenantID uint64) (bool, error) {
	limit, unlimited, err := m.MonthlyLimit(ctx, tenantID)
	if err != nil {
		return false, err
	}

	usage, err := m.MonthlyUsage(ctx, tenantID)
	if err != nil {
		return false, err
	}

	if unlimited {
		return usage < lifetimeMonthlyCeiling, nil
	}
	return usage < int64(limit), nil
}
