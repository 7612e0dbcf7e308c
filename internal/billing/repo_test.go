package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubscription_MissingIsNilNotError(t *testing.T) {
	db := openTestDB(t)
	tenantID := createTenant(t, db, false)

	sub, err := NewRepo(db).GetSubscription(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Nil(t, sub)

	// MonthlyLimit on a subscription-less tenant is zero base quota,
	// not a lookup failure.
	limit, unlimited, err := NewMeter(NewRepo(db)).MonthlyLimit(context.Background(), tenantID)
	require.NoError(t, err)
	assert.False(t, unlimited)
	assert.Equal(t, 0, limit)
}
