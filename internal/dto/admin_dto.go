package dto

// CreateUserRequest is the admin payload for registering a new student.
type CreateUserRequest struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	FullName string   `json:"fullName"`
	LevelIDs []string `json:"levelIds" binding:"required,min=1"`
}

// UpdateUserRequest changes a student's assigned levels and, when Password is
// non-empty, their password.
type UpdateUserRequest struct {
	UserID   uint     `json:"userId" binding:"required"`
	LevelIDs []string `json:"levelIds" binding:"required,min=1"`
	Password string   `json:"password"`
}

// StudentStats is one row of the admin dashboard aggregate.
type StudentStats struct {
	ID            uint    `json:"id"`
	Username      string  `json:"username"`
	FullName      string  `json:"full_name"`
	AllowedLevels string  `json:"allowed_level"`
	TotalExams    int     `json:"total_exams"`
	AvgScore      float64 `json:"avg_score"`
}
