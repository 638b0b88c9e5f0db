package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event is a service, program or livestream slot published on the site.
type Event struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string         `gorm:"column:title;not null"`
	Description   string         `gorm:"column:description;not null;default:''"`
	BranchID      *uuid.UUID     `gorm:"column:branch_id;type:uuid"`
	StartsAt      time.Time      `gorm:"column:starts_at;not null"`
	EndsAt        *time.Time     `gorm:"column:ends_at"`
	LivestreamURL string         `gorm:"column:livestream_url;not null;default:''"`
	Tags          pq.StringArray `gorm:"column:tags;type:text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
