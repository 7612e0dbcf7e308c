package attendant

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bookado/attendant/internal/ai"
	"github.com/bookado/attendant/internal/billing"
	"github.com/bookado/attendant/internal/models"
	"github.com/bookado/attendant/internal/wa"
)

// fallbackReply is sent when the follow-up completion comes back empty.
const fallbackReply = "Got it! Is there anything else I can help you with?"

// Sender dispatches outbound messages through the gateway. Implemented by
// wa.Client.
type Sender interface {
	SendText(ctx context.Context, instance, number, text string) error
}

// Orchestrator runs one conversational turn end to end: gate, debounce,
// LLM completion, tool execution, follow-up, dispatch.
type Orchestrator struct {
	repo      *Repo
	gate      *Gate
	debouncer *Debouncer
	history   *History
	registry  *ai.Registry
	provider  string
	model     string
	sender    Sender
	injectors map[string]Injector
	usage     *billing.Repo
	delay     time.Duration
	now       func() time.Time
}

type OrchestratorConfig struct {
	Repo      *Repo
	Gate      *Gate
	Debouncer *Debouncer
	History   *History
	Registry  *ai.Registry
	Provider  string
	Model     string
	Sender    Sender
	Injectors map[string]Injector
	Usage     *billing.Repo
	Delay     time.Duration
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Delay <= 0 {
		cfg.Delay = 8 * time.Second
	}
	return &Orchestrator{
		repo:      cfg.Repo,
		gate:      cfg.Gate,
		debouncer: cfg.Debouncer,
		history:   cfg.History,
		registry:  cfg.Registry,
		provider:  cfg.Provider,
		model:     cfg.Model,
		sender:    cfg.Sender,
		injectors: cfg.Injectors,
		usage:     cfg.Usage,
		delay:     cfg.Delay,
		now:       time.Now,
	}
}

// HandleTurn processes one inbound job. A returned error means the turn was
// aborted; the contact simply gets no reply, by design.
func (o *Orchestrator) HandleTurn(ctx context.Context, job *models.TurnJob) error {
	tenantID, err := o.repo.ResolveTenant(ctx, job.InstanceName)
	if err != nil {
		return err
	}

	phone := wa.PhoneFromJID(job.RemoteJID)
	conversationID := job.RemoteJID

	decision, err := o.gate.Check(ctx, tenantID, phone, conversationID, job.FromMe)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		log.Info().
			Uint64("tenant", tenantID).
			Str("phone", phone).
			Str("reason", decision.Reason).
			Msg("turn gated")
		return nil
	}

	combined, ok, err := o.debouncer.Coalesce(ctx, conversationID, job.Body, o.delay)
	if err != nil {
		return err
	}
	if !ok {
		// Echo, or another caller drained the burst.
		return nil
	}

	profile, err := o.repo.GetProfile(ctx, tenantID)
	if err != nil {
		return err
	}
	services, err := o.repo.ListServices(ctx, tenantID)
	if err != nil {
		return err
	}
	systemPrompt := BuildSystemPrompt(o.now(), profile, services)

	sessionKey := SessionKey(phone)
	userTurn := ai.Message{Role: "user", Content: combined}
	if err := o.history.Append(ctx, sessionKey, userTurn); err != nil {
		return err
	}

	replayed, err := o.history.Load(ctx, sessionKey)
	if err != nil {
		return err
	}
	messages := make([]ai.Message, 0, len(replayed)+1)
	messages = append(messages, ai.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, replayed...)

	provider, err := o.registry.Get(ctx, o.provider, o.model)
	if err != nil {
		return err
	}

	resp, err := provider.Chat(ctx, ai.ChatRequest{Messages: messages, Tools: Toolset()})
	if err != nil {
		return err
	}

	if len(resp.ToolCalls) == 0 {
		// The first completion's text goes out as-is; only the follow-up
		// answer gets the generic fallback.
		if err := o.history.Append(ctx, sessionKey, ai.Message{Role: "assistant", Content: resp.Content}); err != nil {
			return err
		}
		o.dispatch(ctx, job.InstanceName, phone, resp.Content)
		o.recordUsage(ctx, tenantID, phone)
		return nil
	}

	assistantTurn := ai.Message{
		Role:      "assistant",
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	}
	if err := o.history.Append(ctx, sessionKey, assistantTurn); err != nil {
		return err
	}

	toolTurns := make([]ai.Message, 0, len(resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		inject, registered := o.injectors[call.Name]
		if !registered {
			log.Debug().Str("tool", call.Name).Msg("skipping unknown tool call")
			continue
		}
		result, err := inject(ctx, InjectorInput{
			TenantID:     tenantID,
			ContactPhone: phone,
			CallID:       call.ID,
			Args:         json.RawMessage(call.Arguments),
		})
		if err != nil {
			return err
		}
		if err := o.history.Append(ctx, sessionKey, result); err != nil {
			return err
		}
		toolTurns = append(toolTurns, result)
	}

	// Follow-up completion grounds the final answer in the tool outputs.
	followUp := make([]ai.Message, 0, 3+len(toolTurns))
	followUp = append(followUp,
		ai.Message{Role: "system", Content: systemPrompt},
		userTurn,
		assistantTurn,
	)
	followUp = append(followUp, toolTurns...)

	final, err := provider.Chat(ctx, ai.ChatRequest{Messages: followUp})
	if err != nil {
		return err
	}

	reply := final.Content
	if strings.TrimSpace(reply) == "" {
		reply = fallbackReply
	}
	if err := o.history.Append(ctx, sessionKey, ai.Message{Role: "assistant", Content: reply}); err != nil {
		return err
	}
	o.dispatch(ctx, job.InstanceName, phone, reply)
	o.recordUsage(ctx, tenantID, phone)
	return nil
}

// dispatch splits the reply on blank lines and sends each segment as its own
// bubble, sequentially, best-effort.
func (o *Orchestrator) dispatch(ctx context.Context, instance, phone, text string) {
	for _, segment := range strings.Split(text, "\n\n") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if err := o.sender.SendText(ctx, instance, phone, segment); err != nil {
			log.Error().Err(err).Str("instance", instance).Str("phone", phone).Msg("send failed")
		}
	}
}

func (o *Orchestrator) recordUsage(ctx context.Context, tenantID uint64, phone string) {
	err := o.usage.InsertUsage(ctx, &models.AIUsage{
		TenantID:     tenantID,
		ContactPhone: phone,
	})
	if err != nil {
		log.Error().Err(err).Uint64("tenant", tenantID).Msg("usage record failed")
	}
}
