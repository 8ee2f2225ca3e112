package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Username      string         `json:"username" gorm:"not null;uniqueIndex"`
	Password      string         `json:"-" gorm:"not null"`
	FullName      string         `json:"full_name"`
	AllowedLevels string         `json:"allowed_level"` // comma-separated level ids, e.g. "junior,1,2"
	Role          string         `json:"role" gorm:"not null;default:'student'"` // "student", "admin"
	Results       []Result       `json:"results,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
