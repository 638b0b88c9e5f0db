package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book is a shop catalog entry. PriceKobo is the live catalog price; carts
// snapshot it at add time and are never updated retroactively.
type Book struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string         `gorm:"column:title;not null"`
	Author       string         `gorm:"column:author;not null"`
	Description  string         `gorm:"column:description;not null;default:''"`
	PriceKobo    int64          `gorm:"column:price_kobo;not null"`
	PriceDisplay string         `gorm:"column:price_display;not null;default:''"`
	ImageURL     string         `gorm:"column:image_url;not null;default:''"`
	Categories   pq.StringArray `gorm:"column:categories;type:text[]"`
	Stock        int            `gorm:"column:stock;not null;default:0"`
	IsPublished  bool           `gorm:"column:is_published;not null;default:false"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
