package service

import (
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/exam"
	"github.com/lunark/abacus-api/internal/model"
	"github.com/lunark/abacus-api/internal/repository"
	"github.com/rs/zerolog/log"
)

// ExamService orchestrates the server side of an exam attempt: it creates the
// session with the authoritative answer key, grades submissions against it and
// finalizes the attempt into a persisted result.
type ExamService interface {
	StartExam(userID uint, levelID string) ([]dto.ClientQuestion, error)
	SubmitExam(userID uint, answers []*int) (*dto.ExamSummary, error)
}

type examService struct {
	generator     *exam.Generator
	sessions      *exam.SessionStore
	resultRepo    repository.ResultRepository
	questionCount int
	now           func() time.Time
}

func NewExamService(
	generator *exam.Generator,
	sessions *exam.SessionStore,
	resultRepo repository.ResultRepository,
	questionCount int,
) ExamService {
	return &examService{
		generator:     generator,
		sessions:      sessions,
		resultRepo:    resultRepo,
		questionCount: questionCount,
		now:           time.Now,
	}
}

// StartExam generates a fresh question set and stores the session under the
// user's id, replacing any prior unsubmitted session for that user.
func (s *examService) StartExam(userID uint, levelID string) ([]dto.ClientQuestion, error) {
	if userID == 0 || levelID == "" {
		return nil, exam.ErrInvalidRequest
	}

	questions := make([]exam.Question, 0, s.questionCount)
	for i := 0; i < s.questionCount; i++ {
		q, err := s.generator.Generate(levelID)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	s.sessions.Put(userID, &exam.Session{
		LevelID:   levelID,
		StartedAt: s.now(),
		Questions: questions,
	})
	log.Info().Uint("userID", userID).Str("levelID", levelID).Int("questions", len(questions)).Msg("Exam session started")

	views := make([]dto.ClientQuestion, len(questions))
	for i, q := range questions {
		views[i] = dto.ClientQuestion{
			ID:         q.ID,
			Type:       string(q.Type),
			Numbers:    q.Numbers,
			Expression: q.Expression,
			Options:    q.Options,
		}
	}
	return views, nil
}

// SubmitExam grades the answers against the stored key, persists the result
// and evicts the session. The session is evicted only after persistence
// succeeds, so a client may retry an identical submission after a storage
// outage and get the attempt re-graded.
func (s *examService) SubmitExam(userID uint, answers []*int) (*dto.ExamSummary, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, exam.ErrNoActiveSession
	}

	total := len(session.Questions)
	score := 0
	for i, q := range session.Questions {
		if i < len(answers) && answers[i] != nil && *answers[i] == q.Answer {
			score++
		}
	}
	attempted := 0
	for _, a := range answers {
		if a != nil {
			attempted++
		}
	}

	elapsed := int(s.now().Sub(session.StartedAt).Seconds())
	percentage := int(math.Round(float64(score) / float64(total) * 100))

	result := model.Result{
		UserID:           userID,
		LevelID:          session.LevelID,
		Score:            score,
		TotalQuestions:   total,
		Percentage:       percentage,
		TimeTakenSeconds: elapsed,
		Attempted:        attempted,
	}
	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("SubmitExam: failed to persist result, session retained for retry")
		return nil, fmt.Errorf("persist result: %w", err)
	}
	s.sessions.Remove(userID)
	log.Info().Uint("userID", userID).Int("score", score).Int("total", total).Int("elapsed", elapsed).Msg("Exam submitted")

	summary := dto.ExamSummary{Score: score, Total: total, Percentage: percentage}
	if err := copier.Copy(&summary.Grade, &result); err != nil {
		return nil, fmt.Errorf("prepare summary: %w", err)
	}
	return &summary, nil
}
