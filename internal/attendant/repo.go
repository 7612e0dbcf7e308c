package attendant

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bookado/attendant/internal/models"
)

// ErrUnknownInstance means no tenant owns a messaging instance with the
// given name.
var ErrUnknownInstance = errors.New("attendant: unknown instance")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetInstanceByName(ctx context.Context, name string) (*models.Instance, error) {
	var in models.Instance
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownInstance
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// ResolveTenant maps a messaging-instance name to its owning tenant id.
// All tool reads and writes are scoped through this resolution.
func (r *Repo) ResolveTenant(ctx context.Context, instanceName string) (uint64, error) {
	in, err := r.GetInstanceByName(ctx, instanceName)
	if err != nil {
		return 0, err
	}
	return in.TenantID, nil
}

func (r *Repo) GetTenant(ctx context.Context, tenantID uint64) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.WithContext(ctx).First(&t, tenantID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) GetProfile(ctx context.Context, tenantID uint64) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) IsBlacklisted(ctx context.Context, tenantID uint64, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BlacklistEntry{}).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		Count(&count).Error
	return count > 0, err
}

func (r *Repo) FindClientByPhone(ctx context.Context, tenantID uint64, phone string) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) ListServices(ctx context.Context, tenantID uint64) ([]models.Service, error) {
	var svcs []models.Service
	err := r.db.WithContext(ctx).
		Preload("Collaborators").
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&svcs).Error
	return svcs, err
}

func (r *Repo) ListCollaborators(ctx context.Context, tenantID uint64) ([]models.Collaborator, error) {
	var cols []models.Collaborator
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&cols).Error
	return cols, err
}

func (r *Repo) GetCollaborator(ctx context.Context, tenantID, collaboratorID uint64) (*models.Collaborator, error) {
	var c models.Collaborator
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, collaboratorID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Turn job lifecycle

func (r *Repo) CreateTurnJob(ctx context.Context, j *models.TurnJob) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *Repo) GetTurnJob(ctx context.Context, id string) (*models.TurnJob, error) {
	var j models.TurnJob
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) MarkTurnRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.TurnJob{}).
		Where("id = ? AND status = ?", id, models.TurnQueued).
		Update("status", models.TurnRunning).Error
}

func (r *Repo) MarkTurnSucceeded(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.TurnJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": models.TurnSucceeded,
			"error":  nil,
		}).Error
}

func (r *Repo) MarkTurnFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&models.TurnJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": models.TurnFailed,
			"error":  errMsg,
		}).Error
}
