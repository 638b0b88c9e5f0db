package donations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// Repository exposes donation persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a donations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, tx *gorm.DB, donation *models.Donation) (*models.Donation, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.WithContext(ctx).Create(donation).Error; err != nil {
		return nil, err
	}
	return donation, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).First(&donation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// GetByReference loads the donation carrying the gateway reference.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).First(&donation, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// List returns donations newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, page pagination.Page, status enums.DonationStatus) ([]models.Donation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Donation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []models.Donation
	if err := query.Order("created_at desc").Limit(page.Limit).Offset(page.Offset).Find(&donations).Error; err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

// MarkConfirmed transitions a pending donation to confirmed. The status
// guard in the WHERE clause makes the transition single-shot.
func (r *Repository) MarkConfirmed(ctx context.Context, reference string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("reference = ? AND status = ?", reference, enums.DonationStatusPending).
		Updates(map[string]any{
			"status":       enums.DonationStatusConfirmed,
			"confirmed_at": at,
		})
	return result.RowsAffected, result.Error
}

// MarkFailed transitions a pending donation to failed.
func (r *Repository) MarkFailed(ctx context.Context, reference string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("reference = ? AND status = ?", reference, enums.DonationStatusPending).
		Updates(map[string]any{
			"status":    enums.DonationStatusFailed,
			"failed_at": at,
		})
	return result.RowsAffected, result.Error
}
