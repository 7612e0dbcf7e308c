package attendant

import (
	"context"
	"encoding/json"

	"github.com/bookado/attendant/internal/ai"
)

// History is the append-only per-session conversation log, persisted in the
// cache layer and replayed as LLM context on every turn.
type History struct {
	cache Cache
}

func NewHistory(cache Cache) *History {
	return &History{cache: cache}
}

func (h *History) Append(ctx context.Context, sessionKey string, m ai.Message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return h.cache.PushList(ctx, sessionKey, string(b))
}

// Load replays all persisted turns in order. Entries that fail to decode are
// skipped rather than poisoning the whole session.
func (h *History) Load(ctx context.Context, sessionKey string) ([]ai.Message, error) {
	raw, err := h.cache.GetList(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	out := make([]ai.Message, 0, len(raw))
	for _, item := range raw {
		var m ai.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
