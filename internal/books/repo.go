package books

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// Repository exposes book catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a books repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book and returns the persisted model.
func (r *Repository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID loads a book by its UUID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// ListPublished returns published books ordered by title, with the total
// count across all pages.
func (r *Repository) ListPublished(ctx context.Context, page pagination.Page, category string) ([]models.Book, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Book{}).Where("is_published = ?", true)
	if category != "" {
		query = query.Where("? = ANY(categories)", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []models.Book
	if err := query.Order("title asc").Limit(page.Limit).Offset(page.Offset).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ListAll returns every book regardless of publish state, newest first.
func (r *Repository) ListAll(ctx context.Context, page pagination.Page) ([]models.Book, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Book{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []models.Book
	if err := query.Order("created_at desc").Limit(page.Limit).Offset(page.Offset).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Update persists the provided column changes and reloads the row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Book, error) {
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a book.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id).Error
}

// DecrementStock reduces stock for a purchased book. The conditional update
// refuses to oversell and refuses books unpublished since they were carted.
func (r *Repository) DecrementStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND stock >= ? AND is_published = ?", id, quantity, true).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
