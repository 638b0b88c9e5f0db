package ministers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// Repository exposes minister profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ministers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, minister *models.Minister) (*models.Minister, error) {
	if err := r.db.WithContext(ctx).Create(minister).Error; err != nil {
		return nil, err
	}
	return minister, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Minister, error) {
	var minister models.Minister
	if err := r.db.WithContext(ctx).First(&minister, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &minister, nil
}

// List returns profiles ordered by their curated sort order, optionally
// filtered by branch.
func (r *Repository) List(ctx context.Context, page pagination.Page, branchID *uuid.UUID) ([]models.Minister, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Minister{})
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ministers []models.Minister
	if err := query.Order("sort_order asc, name asc").Limit(page.Limit).Offset(page.Offset).Find(&ministers).Error; err != nil {
		return nil, 0, err
	}
	return ministers, total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Minister, error) {
	if err := r.db.WithContext(ctx).Model(&models.Minister{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Minister{}, "id = ?", id).Error
}
