package model

import (
	"time"

	"gorm.io/gorm"
)

// Result is the immutable record of one finished exam attempt. It is written
// exactly once, after grading, and never updated afterwards.
type Result struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	UserID           uint           `json:"user_id" gorm:"not null;index"`
	LevelID          string         `json:"level_id" gorm:"not null"`
	Score            int            `json:"score" gorm:"not null"`
	TotalQuestions   int            `json:"total_questions" gorm:"not null"`
	Percentage       int            `json:"percentage" gorm:"not null"`
	TimeTakenSeconds int            `json:"time_taken_seconds" gorm:"not null"`
	Attempted        int            `json:"questions_attempted" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
