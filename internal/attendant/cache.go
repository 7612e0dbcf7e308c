package attendant

import (
	"context"
	"fmt"
	"time"
)

// Cache is the slice of the shared key-value layer the attendant needs.
// Implemented by redisstore.Store; tests use an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	PushList(ctx context.Context, key, value string) error
	GetList(ctx context.Context, key string) ([]string, error)
}

func bufferKey(conversationID string) string {
	return "buffer:" + conversationID
}

func pauseKey(conversationID string) string {
	return "pause:" + conversationID
}

func contactKey(tenantID uint64, phone string) string {
	return fmt.Sprintf("contact:%d:%s", tenantID, phone)
}

// SessionKey is the per-contact conversation history key: contact phone plus
// a fixed suffix. The buffer key is separate so draining a burst never
// touches the history itself.
func SessionKey(contactPhone string) string {
	return contactPhone + "-session"
}
