package attendant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bookado/attendant/internal/billing"
	"github.com/bookado/attendant/internal/store/redisstore"
)

const (
	validationTTL = 5 * time.Minute
	pauseTTL      = time.Hour
)

// Gate rejection reasons. Rejections are decisions, never errors.
const (
	ReasonSelfMessagePause = "self-message pause"
	ReasonPaused           = "paused"
	ReasonBlacklisted      = "blacklisted"
	ReasonInactive         = "attendant inactive"
	ReasonNoCredits        = "credits exhausted"
)

type Decision struct {
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason,omitempty"`
	PauseUntil time.Time `json:"pause_until,omitempty"`
}

// ValidationState is the cached per-(tenant, phone) snapshot. Never trusted
// past validationTTL; recomputed from the store on expiry.
type ValidationState struct {
	Blacklisted     bool      `json:"blacklisted"`
	AttendantActive bool      `json:"attendant_active"`
	HasCredits      bool      `json:"has_credits"`
	CachedAt        time.Time `json:"cached_at"`
}

// Gate decides, per inbound message, whether the attendant may respond.
type Gate struct {
	cache Cache
	repo  *Repo
	meter *billing.Meter
	now   func() time.Time
}

func NewGate(cache Cache, repo *Repo, meter *billing.Meter) *Gate {
	return &Gate{cache: cache, repo: repo, meter: meter, now: time.Now}
}

// Check runs the gate state machine in strict order, first match wins:
// self-message pause, active pause window, blacklist, attendant toggle,
// credits.
func (g *Gate) Check(ctx context.Context, tenantID uint64, phone, conversationID string, fromBusiness bool) (Decision, error) {
	now := g.now()

	// The business answered in this thread itself: stand down for an hour
	// so the bot does not talk over a human.
	if fromBusiness {
		until := now.Add(pauseTTL)
		if err := g.cache.SetWithTTL(ctx, pauseKey(conversationID), until.Format(time.RFC3339), pauseTTL); err != nil {
			return Decision{}, err
		}
		return Decision{Allowed: false, Reason: ReasonSelfMessagePause, PauseUntil: until}, nil
	}

	if v, err := g.cache.Get(ctx, pauseKey(conversationID)); err == nil {
		until, perr := time.Parse(time.RFC3339, v)
		if perr != nil {
			until = now.Add(pauseTTL)
		}
		return Decision{Allowed: false, Reason: ReasonPaused, PauseUntil: until}, nil
	} else if !errors.Is(err, redisstore.ErrNotFound) {
		return Decision{}, err
	}

	state, err := g.validationState(ctx, tenantID, phone, now)
	if err != nil {
		return Decision{}, err
	}

	switch {
	case state.Blacklisted:
		return Decision{Allowed: false, Reason: ReasonBlacklisted}, nil
	case !state.AttendantActive:
		return Decision{Allowed: false, Reason: ReasonInactive}, nil
	case !state.HasCredits:
		return Decision{Allowed: false, Reason: ReasonNoCredits}, nil
	}
	return Decision{Allowed: true}, nil
}

func (g *Gate) validationState(ctx context.Context, tenantID uint64, phone string, now time.Time) (ValidationState, error) {
	key := contactKey(tenantID, phone)

	if raw, err := g.cache.Get(ctx, key); err == nil {
		var cached ValidationState
		if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil &&
			now.Sub(cached.CachedAt) < validationTTL {
			return cached, nil
		}
	} else if !errors.Is(err, redisstore.ErrNotFound) {
		return ValidationState{}, err
	}

	state, err := g.computeState(ctx, tenantID, phone, now)
	if err != nil {
		return ValidationState{}, err
	}

	// Written back with its own TTL; writer and reader expiries may drift
	// slightly, which is acceptable here.
	if b, err := json.Marshal(state); err == nil {
		_ = g.cache.SetWithTTL(ctx, key, string(b), validationTTL)
	}
	return state, nil
}

func (g *Gate) computeState(ctx context.Context, tenantID uint64, phone string, now time.Time) (ValidationState, error) {
	blacklisted, err := g.repo.IsBlacklisted(ctx, tenantID, phone)
	if err != nil {
		return ValidationState{}, err
	}

	tenant, err := g.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return ValidationState{}, err
	}

	// The signup trial bypasses the meter entirely.
	hasCredits := true
	if !billing.InTrial(tenant, now) {
		hasCredits, err = g.meter.HasCredits(ctx, tenantID)
		if err != nil {
			return ValidationState{}, err
		}
	}

	return ValidationState{
		Blacklisted:     blacklisted,
		AttendantActive: tenant.AttendantActive,
		HasCredits:      hasCredits,
		CachedAt:        now,
	}, nil
}
