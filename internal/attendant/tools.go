package attendant

import "github.com/bookado/attendant/internal/ai"

// Tool names form a closed capability set; calls with any other name are
// silently skipped, not surfaced back to the model.
const (
	ToolGetBusinessProfile   = "get_business_profile"
	ToolFindClient           = "find_client"
	ToolCreateClient         = "create_client"
	ToolListServices         = "list_services"
	ToolListCollaborators    = "list_collaborators"
	ToolGetCollaboratorHours = "get_collaborator_hours"
	ToolCreateAppointment    = "create_appointment"
)

// Toolset returns the fixed declarative tool schema sent on every first
// completion of a turn.
func Toolset() []ai.ToolDefinition {
	return []ai.ToolDefinition{
		{
			Name:        ToolGetBusinessProfile,
			Description: "Fetch the business profile: name, description, address and opening hours.",
			Parameters: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
			Strict: true,
		},
		{
			Name:        ToolFindClient,
			Description: "Look up the client talking to you by their phone number.",
			Parameters: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
			Strict: true,
		},
		{
			Name:        ToolCreateClient,
			Description: "Register the client talking to you. The phone number is taken from the conversation automatically.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":       map[string]any{"type": "string", "description": "Client full name"},
					"birth_date": map[string]any{"type": "string", "description": "Birth date, YYYY-MM-DD"},
					"notes":      map[string]any{"type": "string", "description": "Free-form notes"},
				},
				"required":             []string{"name"},
				"additionalProperties": false,
			},
			Strict: true,
		},
		{
			Name:        ToolListServices,
			Description: "List the services offered, with price, duration, availability days and collaborators.",
			Parameters: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
			Strict: true,
		},
		{
			Name:        ToolListCollaborators,
			Description: "List collaborators and their working schedules.",
			Parameters: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			},
			Strict: true,
		},
		{
			Name:        ToolGetCollaboratorHours,
			Description: "Fetch one collaborator's working hours and days.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"collaborator_id": map[string]any{"type": "integer", "description": "Collaborator id"},
				},
				"required":             []string{"collaborator_id"},
				"additionalProperties": false,
			},
			Strict: true,
		},
		{
			Name:        ToolCreateAppointment,
			Description: "Book an appointment for the client talking to you.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client_id":       map[string]any{"type": "integer", "description": "Client id from find_client or create_client"},
					"service_id":      map[string]any{"type": "integer", "description": "Service id from list_services"},
					"collaborator_id": map[string]any{"type": "integer", "description": "Collaborator id, if the client chose one"},
					"starts_at":       map[string]any{"type": "string", "description": "Start time, RFC3339"},
					"ends_at":         map[string]any{"type": "string", "description": "End time, RFC3339; defaults to start plus service duration"},
					"notes":           map[string]any{"type": "string", "description": "Free-form notes"},
				},
				"required":             []string{"starts_at"},
				"additionalProperties": false,
			},
			Strict: true,
		},
	}
}
