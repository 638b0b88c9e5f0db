package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/pkg/enums"
)

// Order is a shop order created from a session cart at checkout.
type Order struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Reference     string            `gorm:"column:reference;not null;uniqueIndex"`
	CartSessionID string            `gorm:"column:cart_session_id;not null"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerEmail string            `gorm:"column:customer_email;not null"`
	CustomerPhone *string           `gorm:"column:customer_phone"`
	SubtotalKobo  int64             `gorm:"column:subtotal_kobo;not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending_payment'"`
	PaidAt        *time.Time        `gorm:"column:paid_at"`
	Lines         []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
