package branches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// Repository exposes branch persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a branches repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, branch *models.Branch) (*models.Branch, error) {
	if err := r.db.WithContext(ctx).Create(branch).Error; err != nil {
		return nil, err
	}
	return branch, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// List returns branches ordered by name, optionally filtered by state.
func (r *Repository) List(ctx context.Context, page pagination.Page, state string) ([]models.Branch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Branch{})
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var branches []models.Branch
	if err := query.Order("name asc").Limit(page.Limit).Offset(page.Offset).Find(&branches).Error; err != nil {
		return nil, 0, err
	}
	return branches, total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Branch, error) {
	if err := r.db.WithContext(ctx).Model(&models.Branch{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Branch{}, "id = ?", id).Error
}
