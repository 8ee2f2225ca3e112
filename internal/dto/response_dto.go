package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// ResultResponse mirrors one persisted exam result record.
type ResultResponse struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	LevelID          string    `json:"level_id"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	Percentage       int       `json:"percentage"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	Attempted        int       `json:"questions_attempted"`
	CreatedAt        time.Time `json:"created_at"`
}

type UserResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	AllowedLevels string    `json:"allowed_level"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}
