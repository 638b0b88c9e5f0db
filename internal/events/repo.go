package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// Repository exposes event persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an events repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListUpcoming returns events starting at or after the cutoff, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context, page pagination.Page, after time.Time, until *time.Time, branchID *uuid.UUID) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{}).Where("starts_at >= ?", after)
	if until != nil {
		query = query.Where("starts_at < ?", *until)
	}
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	if err := query.Order("starts_at asc").Limit(page.Limit).Offset(page.Offset).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListAll returns every event, newest first.
func (r *Repository) ListAll(ctx context.Context, page pagination.Page) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	if err := query.Order("starts_at desc").Limit(page.Limit).Offset(page.Offset).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Event, error) {
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}
