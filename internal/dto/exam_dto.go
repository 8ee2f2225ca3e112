package dto

// StartExamRequest begins a new exam attempt for a user at a level.
type StartExamRequest struct {
	UserID  uint   `json:"userId" binding:"required"`
	LevelID string `json:"levelId" binding:"required"`
}

// ClientQuestion is the only question representation ever sent to a client:
// the stored question with its answer stripped.
type ClientQuestion struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Numbers    []int  `json:"numbers"`
	Expression string `json:"expression"`
	Options    []int  `json:"options"`
}

type StartExamResponse struct {
	Questions []ClientQuestion `json:"questions"`
}

// SubmitExamRequest carries the user's answers, one slot per question in
// order. A nil entry is an unanswered question.
type SubmitExamRequest struct {
	UserID  uint   `json:"userId" binding:"required"`
	Answers []*int `json:"answers" binding:"required"`
}

// ExamSummary is the graded outcome of a submission. Grade is the persisted
// result record.
type ExamSummary struct {
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
	Grade      ResultResponse `json:"grade"`
}
