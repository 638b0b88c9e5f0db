package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// Repository exposes shop order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order together with its lines.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID loads an order with its lines.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByReference loads an order by its payment reference.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&order, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, page pagination.Page, status enums.OrderStatus) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Lines").Order("created_at desc").Limit(page.Limit).Offset(page.Offset).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// MarkPaid transitions a pending order to paid exactly once.
func (r *Repository) MarkPaid(ctx context.Context, reference string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ? AND status = ?", reference, enums.OrderStatusPendingPayment).
		Updates(map[string]any{
			"status":  enums.OrderStatusPaid,
			"paid_at": at,
		})
	return result.RowsAffected, result.Error
}

// UpdateStatus applies an explicit status change from the back office.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	return result.RowsAffected, result.Error
}
