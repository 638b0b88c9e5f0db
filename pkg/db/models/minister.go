package models

import (
	"time"

	"github.com/google/uuid"
)

// Minister is a pastor or minister profile, optionally tied to a branch.
type Minister struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Title       string     `gorm:"column:title;not null"`
	BranchID    *uuid.UUID `gorm:"column:branch_id;type:uuid"`
	Bio         string     `gorm:"column:bio;not null;default:''"`
	PortraitURL string     `gorm:"column:portrait_url;not null;default:''"`
	SortOrder   int        `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
