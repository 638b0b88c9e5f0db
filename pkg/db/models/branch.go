package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Branch is a physical church location shown on the public site.
type Branch struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Address      string         `gorm:"column:address;not null"`
	City         string         `gorm:"column:city;not null"`
	State        string         `gorm:"column:state;not null"`
	Country      string         `gorm:"column:country;not null;default:'Nigeria'"`
	Phone        *string        `gorm:"column:phone"`
	Email        *string        `gorm:"column:email"`
	WelcomeNote  string         `gorm:"column:welcome_note;not null;default:''"`
	ServiceTimes pq.StringArray `gorm:"column:service_times;type:text[]"`
	ImageURL     string         `gorm:"column:image_url;not null;default:''"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
