package models

import "time"

// Tenant is one business account. Everything else is scoped under it.
type Tenant struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(128);not null" json:"name"`
	Email           string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	DocumentNumber  string    `gorm:"type:varchar(32)" json:"-"`
	Timezone        string    `gorm:"type:varchar(64);default:'America/Sao_Paulo'" json:"-"`
	Lifetime        bool      `gorm:"not null;default:false" json:"lifetime"`
	AttendantActive bool      `gorm:"not null;default:true" json:"attendant_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Tenant) TableName() string { return "tenants" }

// Instance is one named messaging-gateway connection owned by a tenant.
// TokenHash is the bcrypt hash of the webhook apikey for that instance.
type Instance struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint64    `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	TokenHash string    `gorm:"type:varchar(80);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Instance) TableName() string { return "instances" }

type Profile struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID     uint64    `gorm:"uniqueIndex;not null" json:"tenant_id"`
	BusinessName string    `gorm:"type:varchar(128);not null" json:"business_name"`
	Description  string    `gorm:"type:text" json:"description"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	OpeningHours string    `gorm:"type:varchar(255)" json:"opening_hours"`
	Rules        string    `gorm:"type:text" json:"rules"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

type Client struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint64    `gorm:"not null;index:idx_clients_tenant_phone,priority:1" json:"-"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(32);not null;index:idx_clients_tenant_phone,priority:2" json:"phone"`
	BirthDate *string   `gorm:"type:varchar(16)" json:"birth_date"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

type Service struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID      uint64         `gorm:"index;not null" json:"-"`
	Name          string         `gorm:"type:varchar(128);not null" json:"name"`
	PriceCents    int64          `gorm:"not null" json:"price_cents"`
	DurationMin   int            `gorm:"not null" json:"duration_min"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	Days          string         `gorm:"type:varchar(64)" json:"days"`
	Collaborators []Collaborator `gorm:"many2many:service_collaborators" json:"collaborators,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Service) TableName() string { return "services" }

type Collaborator struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint64    `gorm:"index;not null" json:"-"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	WorkStart string    `gorm:"type:varchar(8)" json:"work_start"`
	WorkEnd   string    `gorm:"type:varchar(8)" json:"work_end"`
	Days      string    `gorm:"type:varchar(64)" json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Collaborator) TableName() string { return "collaborators" }

type Appointment struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID       uint64    `gorm:"index;not null" json:"-"`
	ClientID       *uint64   `gorm:"index" json:"client_id"`
	ServiceID      *uint64   `gorm:"index" json:"service_id"`
	CollaboratorID *uint64   `gorm:"index" json:"collaborator_id"`
	StartsAt       time.Time `gorm:"index;not null" json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Status         string    `gorm:"type:varchar(16);not null;default:'scheduled'" json:"status"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

type Subscription struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint64    `gorm:"uniqueIndex;not null" json:"tenant_id"`
	PlanID    string    `gorm:"type:varchar(64);not null" json:"plan_id"`
	Status    string    `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// CreditGrant is a paid top-up lot. It contributes quantity-used to the
// available pool while active.
type CreditGrant struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint64    `gorm:"index;not null" json:"tenant_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Used      int       `gorm:"not null;default:0" json:"used"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CreditGrant) TableName() string { return "credit_grants" }

// AIUsage records one automated interaction. Never mutated; counted as
// distinct contact phones per tenant per calendar month.
type AIUsage struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID     uint64    `gorm:"not null;index:idx_ai_usage_tenant_created,priority:1" json:"tenant_id"`
	ContactPhone string    `gorm:"type:varchar(32);not null" json:"contact_phone"`
	CreatedAt    time.Time `gorm:"index:idx_ai_usage_tenant_created,priority:2" json:"created_at"`
}

func (AIUsage) TableName() string { return "ai_usage" }

type BlacklistEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint64    `gorm:"not null;index:idx_blacklist_tenant_phone,priority:1" json:"tenant_id"`
	Phone     string    `gorm:"type:varchar(32);not null;index:idx_blacklist_tenant_phone,priority:2" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlacklistEntry) TableName() string { return "blacklist" }

// All returns the full entity set for AutoMigrate.
func All() []any {
	return []any{
		&Tenant{},
		&Instance{},
		&Profile{},
		&Client{},
		&Service{},
		&Collaborator{},
		&Appointment{},
		&Subscription{},
		&CreditGrant{},
		&AIUsage{},
		&BlacklistEntry{},
		&TurnJob{},
	}
}
