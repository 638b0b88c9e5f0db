package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/pkg/enums"
)

// Donation is a payment intent: tithes, offerings, project giving, and the
// payment leg of shop orders. Reference is what the payment gateway echoes
// back and what the front-end polls with.
type Donation struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Reference   string                `gorm:"column:reference;not null;uniqueIndex"`
	DonorName   string                `gorm:"column:donor_name;not null"`
	DonorEmail  string                `gorm:"column:donor_email;not null"`
	Purpose     enums.DonationPurpose `gorm:"column:purpose;type:text;not null"`
	AmountKobo  int64                 `gorm:"column:amount_kobo;not null"`
	Currency    string                `gorm:"column:currency;not null;default:'NGN'"`
	BranchID    *uuid.UUID            `gorm:"column:branch_id;type:uuid"`
	OrderID     *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	Status      enums.DonationStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	ConfirmedAt *time.Time            `gorm:"column:confirmed_at"`
	FailedAt    *time.Time            `gorm:"column:failed_at"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
