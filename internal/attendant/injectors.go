package attendant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bookado/attendant/internal/ai"
	"github.com/bookado/attendant/internal/models"
)

// InjectorInput carries everything a tool injector may need: the resolved
// tenant, the contact's real phone and the originating call id for tagging
// the result turn.
type InjectorInput struct {
	TenantID     uint64
	ContactPhone string
	CallID       string
	Args         json.RawMessage
}

// Injector executes one scoped read or write against the store and returns
// the tool turn to feed back to the model.
type Injector func(ctx context.Context, in InjectorInput) (ai.Message, error)

// Injectors binds the capability set to the store.
type Injectors struct {
	repo *Repo
}

func NewInjectors(repo *Repo) *Injectors {
	return &Injectors{repo: repo}
}

// Registry maps tool name to handler. Names absent here are skipped by the
// orchestrator.
func (i *Injectors) Registry() map[string]Injector {
	return map[string]Injector{
		ToolGetBusinessProfile:   i.businessProfile,
		ToolFindClient:           i.findClient,
		ToolCreateClient:         i.createClient,
		ToolListServices:         i.listServices,
		ToolListCollaborators:    i.listCollaborators,
		ToolGetCollaboratorHours: i.collaboratorHours,
		ToolCreateAppointment:    i.createAppointment,
	}
}

// toolEnvelope wraps a payload in the uniform tool-result contract. Lookup
// misses keep success=true with a null payload; the model infers absence.
func toolEnvelope(callID string, payload map[string]any) (ai.Message, error) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	b, err := json.Marshal(body)
	if err != nil {
		return ai.Message{}, err
	}
	return ai.Message{
		Role:       "tool",
		ToolCallID: callID,
		Content:    string(b),
	}, nil
}

func (i *Injectors) businessProfile(ctx context.Context, in InjectorInput) (ai.Message, error) {
	p, err := i.repo.GetProfile(ctx, in.TenantID)
	if err != nil {
		return ai.Message{}, err
	}
	if p == nil {
		return toolEnvelope(in.CallID, map[string]any{"profile": nil})
	}
	// Internal id, owning tenant, document number and timezone stay out of
	// the conversation.
	return toolEnvelope(in.CallID, map[string]any{
		"profile": map[string]any{
			"business_name": p.BusinessName,
			"description":   p.Description,
			"address":       p.Address,
			"opening_hours": p.OpeningHours,
			"rules":         p.Rules,
		},
	})
}

func (i *Injectors) findClient(ctx context.Context, in InjectorInput) (ai.Message, error) {
	c, err := i.repo.FindClientByPhone(ctx, in.TenantID, in.ContactPhone)
	if err != nil {
		return ai.Message{}, err
	}
	if c == nil {
		return toolEnvelope(in.CallID, map[string]any{"client": nil})
	}
	return toolEnvelope(in.CallID, map[string]any{
		"client": map[string]any{
			"id":         c.ID,
			"name":       c.Name,
			"birth_date": c.BirthDate,
			"phone":      c.Phone,
			"notes":      c.Notes,
		},
	})
}

func (i *Injectors) createClient(ctx context.Context, in InjectorInput) (ai.Message, error) {
	var args struct {
		Name      string  `json:"name"`
		BirthDate *string `json:"birth_date"`
		Notes     string  `json:"notes"`
	}
	if err := json.Unmarshal(in.Args, &args); err != nil {
		return ai.Message{}, fmt.Errorf("create_client args: %w", err)
	}

	c := &models.Client{
		TenantID:  in.TenantID,
		Name:      args.Name,
		BirthDate: args.BirthDate,
		Notes:     args.Notes,
		// The phone is always the contact's real one, whatever the model
		// put in the arguments.
		Phone: in.ContactPhone,
	}
	if err := i.repo.CreateClient(ctx, c); err != nil {
		return ai.Message{}, err
	}
	return toolEnvelope(in.CallID, map[string]any{
		"client": map[string]any{
			"id":    c.ID,
			"name":  c.Name,
			"phone": c.Phone,
		},
	})
}

func (i *Injectors) listServices(ctx context.Context, in InjectorInput) (ai.Message, error) {
	svcs, err := i.repo.ListServices(ctx, in.TenantID)
	if err != nil {
		return ai.Message{}, err
	}
	out := make([]map[string]any, 0, len(svcs))
	for _, s := range svcs {
		collaborators := make([]map[string]any, 0, len(s.Collaborators))
		for _, c := range s.Collaborators {
			collaborators = append(collaborators, map[string]any{
				"id":   c.ID,
				"name": c.Name,
			})
		}
		out = append(out, map[string]any{
			"id":            s.ID,
			"name":          s.Name,
			"price_cents":   s.PriceCents,
			"duration_min":  s.DurationMin,
			"active":        s.Active,
			"days":          s.Days,
			"collaborators": collaborators,
		})
	}
	return toolEnvelope(in.CallID, map[string]any{"services": out})
}

func (i *Injectors) listCollaborators(ctx context.Context, in InjectorInput) (ai.Message, error) {
	cols, err := i.repo.ListCollaborators(ctx, in.TenantID)
	if err != nil {
		return ai.Message{}, err
	}
	out := make([]map[string]any, 0, len(cols))
	for _, c := range cols {
		out = append(out, map[string]any{
			"id":         c.ID,
			"name":       c.Name,
			"work_start": c.WorkStart,
			"work_end":   c.WorkEnd,
			"days":       c.Days,
		})
	}
	return toolEnvelope(in.CallID, map[string]any{"collaborators": out})
}

func (i *Injectors) collaboratorHours(ctx context.Context, in InjectorInput) (ai.Message, error) {
	var args struct {
		CollaboratorID uint64 `json:"collaborator_id"`
	}
	if err := json.Unmarshal(in.Args, &args); err != nil {
		return ai.Message{}, fmt.Errorf("get_collaborator_hours args: %w", err)
	}

	c, err := i.repo.GetCollaborator(ctx, in.TenantID, args.CollaboratorID)
	if err != nil {
		return ai.Message{}, err
	}
	if c == nil {
		return toolEnvelope(in.CallID, map[string]any{"collaborator": nil})
	}
	return toolEnvelope(in.CallID, map[string]any{
		"collaborator": map[string]any{
			"id":         c.ID,
			"name":       c.Name,
			"work_start": c.WorkStart,
			"work_end":   c.WorkEnd,
			"days":       c.Days,
		},
	})
}

func (i *Injectors) createAppointment(ctx context.Context, in InjectorInput) (ai.Message, error) {
	var args struct {
		ClientID       *uint64 `json:"client_id"`
		ServiceID      *uint64 `json:"service_id"`
		CollaboratorID *uint64 `json:"collaborator_id"`
		StartsAt       string  `json:"starts_at"`
		EndsAt         string  `json:"ends_at"`
		Notes          string  `json:"notes"`
	}
	if err := json.Unmarshal(in.Args, &args); err != nil {
		return ai.Message{}, fmt.Errorf("create_appointment args: %w", err)
	}

	startsAt, err := time.Parse(time.RFC3339, args.StartsAt)
	if err != nil {
		return ai.Message{}, fmt.Errorf("create_appointment starts_at: %w", err)
	}

	endsAt := startsAt
	if args.EndsAt != "" {
		endsAt, err = time.Parse(time.RFC3339, args.EndsAt)
		if err != nil {
			return ai.Message{}, fmt.Errorf("create_appointment ends_at: %w", err)
		}
	} else if args.ServiceID != nil {
		svcs, err := i.repo.ListServices(ctx, in.TenantID)
		if err != nil {
			return ai.Message{}, err
		}
		for _, s := range svcs {
			if s.ID == *args.ServiceID {
				endsAt = startsAt.Add(time.Duration(s.DurationMin) * time.Minute)
				break
			}
		}
	}

	// Fields land verbatim; overlap checking belongs to the dashboard's
	// booking actions, not this layer.
	a := &models.Appointment{
		TenantID:       in.TenantID,
		ClientID:       args.ClientID,
		ServiceID:      args.ServiceID,
		CollaboratorID: args.CollaboratorID,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Status:         "scheduled",
		Notes:          args.Notes,
	}
	if err := i.repo.CreateAppointment(ctx, a); err != nil {
		return ai.Message{}, err
	}
	return toolEnvelope(in.CallID, map[string]any{
		"appointment": map[string]any{
			"id":        a.ID,
			"starts_at": a.StartsAt.Format(time.RFC3339),
			"ends_at":   a.EndsAt.Format(time.RFC3339),
			"status":    a.Status,
		},
	})
}
