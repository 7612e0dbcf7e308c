package attendant

import (
	"context"
	"strings"
	"time"
)

// Debouncer coalesces rapid-fire fragments from one conversation into a
// single logical message. It is non-strict: two concurrent calls inside the
// same window may each drain and return the full joined buffer. Callers must
// tolerate more than one coalesced result per burst.
type Debouncer struct {
	cache Cache
	sleep func(ctx context.Context, d time.Duration) error
}

func NewDebouncer(cache Cache) *Debouncer {
	return &Debouncer{cache: cache, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Coalesce buffers fragment under conversationID and, after the delay
// elapses, drains the buffer and returns all fragments joined with ", ".
// ok is false when the fragment is a duplicate of the last buffered one
// (gateway echo) or when another caller already drained the buffer.
func (d *Debouncer) Coalesce(ctx context.Context, conversationID, fragment string, delay time.Duration) (combined string, ok bool, err error) {
	key := bufferKey(conversationID)

	buffered, err := d.cache.GetList(ctx, key)
	if err != nil {
		return "", false, err
	}
	// Identical consecutive delivery is an echo, not a new fragment.
	if len(buffered) > 0 && buffered[len(buffered)-1] == fragment {
		return "", false, nil
	}

	if err := d.cache.PushList(ctx, key, fragment); err != nil {
		return "", false, err
	}

	if err := d.sleep(ctx, delay); err != nil {
		return "", false, err
	}

	// The buffer may have grown while we slept.
	buffered, err = d.cache.GetList(ctx, key)
	if err != nil {
		return "", false, err
	}
	if len(buffered) == 0 {
		return "", false, nil
	}

	if err := d.cache.Delete(ctx, key); err != nil {
		return "", false, err
	}
	return strings.Join(buffered, ", "), true, nil
}
