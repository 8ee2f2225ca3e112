package attempt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lunark/abacus-api/internal/dto"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeExamClient struct {
	mu          sync.Mutex
	questions   []dto.ClientQuestion
	failSubmits int
	submitCalls int
	submissions [][]*int
}

func (f *fakeExamClient) StartExam(ctx context.Context, userID uint, levelID string) ([]dto.ClientQuestion, error) {
	return f.questions, nil
}

func (f *fakeExamClient) SubmitExam(ctx context.Context, userID uint, answers []*int) (*dto.ExamSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	recorded := make([]*int, len(answers))
	copy(recorded, answers)
	f.submissions = append(f.submissions, recorded)
	if f.failSubmits > 0 {
		f.failSubmits--
		return nil, errors.New("network down")
	}
	score := 0
	for _, a := range answers {
		if a != nil {
			score++
		}
	}
	return &dto.ExamSummary{Score: score, Total: len(answers), Percentage: 100 * score / max(len(answers), 1)}, nil
}

func (f *fakeExamClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls
}

func testQuestions(n int) []dto.ClientQuestion {
	qs := make([]dto.ClientQuestion, n)
	for i := range qs {
		qs[i] = dto.ClientQuestion{
			ID:      string(rune('a' + i)),
			Type:    "addition",
			Numbers: []int{i + 1, i + 2},
			Options: []int{1, 2, 3, 4},
		}
	}
	return qs
}

// newTestMachine builds a machine with a huge poll interval so the countdown
// goroutine stays quiet; tests drive the deadline check via pollDeadline.
func newTestMachine(client *fakeExamClient, clock *fakeClock, duration time.Duration) *Machine {
	return New(client, Config{
		Duration:     duration,
		PollInterval: time.Hour,
		Clock:        clock.Now,
	})
}

func TestStartInitializesAttempt(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(3)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)
	defer m.Exit()

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if m.State() != StateInProgress {
		t.Fatalf("state = %s, want in_progress", m.State())
	}
	if m.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", m.Cursor())
	}
	for i, a := range m.Answers() {
		if a != nil {
			t.Fatalf("answer slot %d should start unanswered", i)
		}
	}

	remaining := m.Remaining()
	if remaining <= 895*time.Second || remaining > 900*time.Second {
		t.Fatalf("remaining = %v, want within (895s, 900s]", remaining)
	}

	if err := m.Start(context.Background(), 1, "junior"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Start should be rejected, got %v", err)
	}
}

func TestAnswerAdvancesAndLastAnswerSubmits(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(2)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)
	defer m.Exit()

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := m.Answer(context.Background(), 3); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if m.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor())
	}
	if m.State() != StateInProgress {
		t.Fatalf("state = %s, want in_progress", m.State())
	}

	if err := m.Answer(context.Background(), 4); err != nil {
		t.Fatalf("final Answer: %v", err)
	}
	if m.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", m.State())
	}
	if client.calls() != 1 {
		t.Fatalf("submit calls = %d, want 1", client.calls())
	}

	sent := client.submissions[0]
	if sent[0] == nil || *sent[0] != 3 || sent[1] == nil || *sent[1] != 4 {
		t.Fatalf("submitted answers wrong: %v", sent)
	}

	summary := m.Summary()
	if summary == nil || summary.Score != 2 {
		t.Fatalf("summary = %+v, want score 2", summary)
	}
}

func TestTimeoutSubmitsExactlyOnce(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(3)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)
	defer m.Exit()

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Answer(context.Background(), 2); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	clock.Advance(901 * time.Second)

	// The timeout check firing repeatedly must still submit only once.
	if stop := m.pollDeadline(context.Background()); !stop {
		t.Fatal("expected poll loop to stop after the deadline")
	}
	m.pollDeadline(context.Background())
	m.pollDeadline(context.Background())

	if client.calls() != 1 {
		t.Fatalf("submit calls = %d, want 1", client.calls())
	}
	if m.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", m.State())
	}

	// One answered slot, two unanswered.
	sent := client.submissions[0]
	if sent[0] == nil || sent[1] != nil || sent[2] != nil {
		t.Fatalf("timeout submission should send answers as-is: %v", sent)
	}
}

func TestQuitCancelResumesOriginalDeadline(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(3)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)
	defer m.Exit()

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.Advance(400 * time.Second)
	if got := m.Remaining(); got != 500*time.Second {
		t.Fatalf("remaining = %v, want 500s", got)
	}

	if err := m.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if m.State() != StateQuitConfirming {
		t.Fatalf("state = %s, want quit_confirming", m.State())
	}

	// Time spent deciding still counts against the student.
	clock.Advance(5 * time.Second)
	if err := m.CancelQuit(context.Background()); err != nil {
		t.Fatalf("CancelQuit: %v", err)
	}
	if got := m.Remaining(); got != 495*time.Second {
		t.Fatalf("remaining after cancel = %v, want 495s (not a fresh duration)", got)
	}
	if m.State() != StateInProgress {
		t.Fatalf("state = %s, want in_progress", m.State())
	}
}

func TestConfirmQuitSubmitsAsIs(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(3)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)
	defer m.Exit()

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Answer(context.Background(), 1); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if err := m.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if err := m.ConfirmQuit(context.Background()); err != nil {
		t.Fatalf("ConfirmQuit: %v", err)
	}

	if m.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", m.State())
	}
	sent := client.submissions[0]
	if sent[0] == nil || sent[1] != nil || sent[2] != nil {
		t.Fatalf("quit submission should keep unanswered slots null: %v", sent)
	}
}

func TestRetryAfterSubmissionFailure(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(2), failSubmits: 1}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)
	defer m.Exit()

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Answer(context.Background(), 1); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if err := m.Answer(context.Background(), 2); err == nil {
		t.Fatal("expected the final answer's submission to fail")
	}
	if m.State() != StateSubmissionFailed {
		t.Fatalf("state = %s, want submission_failed", m.State())
	}
	if m.Err() == nil {
		t.Fatal("expected a recorded submission error")
	}

	if err := m.Retry(context.Background()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if m.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", m.State())
	}
	if client.calls() != 2 {
		t.Fatalf("submit calls = %d, want 2", client.calls())
	}

	// Retry must reuse the identical recorded answers.
	first, second := client.submissions[0], client.submissions[1]
	for i := range first {
		if (first[i] == nil) != (second[i] == nil) {
			t.Fatalf("retry answers diverged at %d", i)
		}
		if first[i] != nil && *first[i] != *second[i] {
			t.Fatalf("retry answers diverged at %d: %d vs %d", i, *first[i], *second[i])
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(2)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)

	if err := m.Answer(context.Background(), 1); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Answer before start: got %v", err)
	}
	if err := m.Quit(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Quit before start: got %v", err)
	}
	if err := m.CancelQuit(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("CancelQuit before start: got %v", err)
	}
	if err := m.Retry(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Retry before start: got %v", err)
	}
}

func TestExitDiscardsAttempt(t *testing.T) {
	client := &fakeExamClient{questions: testQuestions(2)}
	clock := newFakeClock()
	m := newTestMachine(client, clock, 900*time.Second)

	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m.Exit()

	if m.State() != StateNotStarted {
		t.Fatalf("state = %s, want not_started", m.State())
	}
	if len(m.Questions()) != 0 {
		t.Fatal("questions should be discarded on exit")
	}
	if m.Remaining() != 0 {
		t.Fatal("remaining should be zero after exit")
	}

	// A fresh attempt starts cleanly after exit.
	if err := m.Start(context.Background(), 1, "junior"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	m.Exit()
}
