package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine snapshots one cart line at checkout time. Price fields reflect
// what the shopper saw in the cart, not the live catalog.
type OrderLine struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	BookID        uuid.UUID `gorm:"column:book_id;type:uuid;not null"`
	Title         string    `gorm:"column:title;not null"`
	Author        string    `gorm:"column:author;not null"`
	UnitPriceKobo int64     `gorm:"column:unit_price_kobo;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	LineTotalKobo int64     `gorm:"column:line_total_kobo;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
