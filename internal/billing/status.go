package billing

import (
	"time"

	"github.com/bookado/attendant/internal/models"
)

// trialPeriod grants full premium access right after signup, before any
// subscription exists.
const trialPeriod = 3 * 24 * time.Hour

// InTrial reports whether the tenant is still inside its signup trial
// window. Trial access bypasses the credit meter entirely.
func InTrial(t *models.Tenant, now time.Time) bool {
	return now.Sub(t.CreatedAt) < trialPeriod
}
