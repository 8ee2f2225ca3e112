package attempt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lunark/abacus-api/internal/dto"
)

// State enumerates the legal states of one exam attempt.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateQuitConfirming
	StateSubmitting
	StateSubmissionFailed
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateQuitConfirming:
		return "quit_confirming"
	case StateSubmitting:
		return "submitting"
	case StateSubmissionFailed:
		return "submission_failed"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// ErrInvalidTransition is returned when an event is not legal in the current
// state, e.g. answering before the exam has started.
var ErrInvalidTransition = errors.New("invalid state transition")

// ExamClient is the orchestrator as seen from the client side.
type ExamClient interface {
	StartExam(ctx context.Context, userID uint, levelID string) ([]dto.ClientQuestion, error)
	SubmitExam(ctx context.Context, userID uint, answers []*int) (*dto.ExamSummary, error)
}

// Config tunes a Machine. Zero values fall back to the defaults below.
type Config struct {
	Duration     time.Duration // exam time limit
	PollInterval time.Duration // countdown poll cadence
	Clock        func() time.Time
	// Notify, when set, is called after every state change, outside the
	// machine's lock. The countdown goroutine uses it to surface the
	// timeout-triggered submission outcome.
	Notify func(State)
}

const (
	defaultDuration     = 15 * time.Minute
	defaultPollInterval = 250 * time.Millisecond
)

// Machine drives one exam attempt through question display, countdown,
// answer capture, submit-on-timeout, quit/confirm and submission retry.
// All exported methods are safe for concurrent use; the countdown goroutine
// and user-input callers serialize on the machine's lock.
type Machine struct {
	client ExamClient
	clock  func() time.Time
	notify func(State)

	duration     time.Duration
	pollInterval time.Duration

	mu         sync.Mutex
	state      State
	userID     uint
	levelID    string
	questions  []dto.ClientQuestion
	answers    []*int
	cursor     int
	deadline   time.Time
	submitting bool
	summary    *dto.ExamSummary
	lastErr    error
	tickStop   chan struct{}
}

func New(client ExamClient, cfg Config) *Machine {
	m := &Machine{
		client:       client,
		clock:        cfg.Clock,
		notify:       cfg.Notify,
		duration:     cfg.Duration,
		pollInterval: cfg.PollInterval,
		state:        StateNotStarted,
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.duration <= 0 {
		m.duration = defaultDuration
	}
	if m.pollInterval <= 0 {
		m.pollInterval = defaultPollInterval
	}
	return m
}

// Start begins a fresh attempt: fetches the question set, initializes the
// answer slots and the deadline, and starts the countdown.
func (m *Machine) Start(ctx context.Context, userID uint, levelID string) error {
	m.mu.Lock()
	if m.state != StateNotStarted {
		m.mu.Unlock()
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, m.state)
	}
	m.mu.Unlock()

	questions, err := m.client.StartExam(ctx, userID, levelID)
	if err != nil {
		return fmt.Errorf("start exam: %w", err)
	}

	m.mu.Lock()
	m.userID = userID
	m.levelID = levelID
	m.questions = questions
	m.answers = make([]*int, len(questions))
	m.cursor = 0
	m.deadline = m.clock().Add(m.duration)
	m.submitting = false
	m.summary = nil
	m.lastErr = nil
	m.state = StateInProgress
	m.startCountdownLocked(ctx)
	m.mu.Unlock()

	m.notifyState(StateInProgress)
	return nil
}

// Answer records the option at the current cursor, overwriting any prior
// answer in that slot. Before the last question it advances the cursor; on
// the last question it stops the countdown and submits.
func (m *Machine) Answer(ctx context.Context, option int) error {
	m.mu.Lock()
	if m.state != StateInProgress {
		m.mu.Unlock()
		return fmt.Errorf("%w: answer from %s", ErrInvalidTransition, m.state)
	}
	v := option
	m.answers[m.cursor] = &v
	if m.cursor < len(m.questions)-1 {
		m.cursor++
		m.mu.Unlock()
		return nil
	}
	m.stopCountdownLocked()
	m.mu.Unlock()

	return m.submit(ctx)
}

// Quit pauses the countdown and asks for confirmation. The deadline is kept:
// time spent deciding still counts against the student.
func (m *Machine) Quit() error {
	m.mu.Lock()
	if m.state != StateInProgress {
		m.mu.Unlock()
		return fmt.Errorf("%w: quit from %s", ErrInvalidTransition, m.state)
	}
	m.stopCountdownLocked()
	m.state = StateQuitConfirming
	m.mu.Unlock()

	m.notifyState(StateQuitConfirming)
	return nil
}

// CancelQuit resumes the exam against the original deadline.
func (m *Machine) CancelQuit(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateQuitConfirming {
		m.mu.Unlock()
		return fmt.Errorf("%w: cancel quit from %s", ErrInvalidTransition, m.state)
	}
	m.state = StateInProgress
	m.startCountdownLocked(ctx)
	m.mu.Unlock()

	m.notifyState(StateInProgress)
	return nil
}

// ConfirmQuit submits the attempt as-is; unanswered slots stay null.
func (m *Machine) ConfirmQuit(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateQuitConfirming {
		m.mu.Unlock()
		return fmt.Errorf("%w: confirm quit from %s", ErrInvalidTransition, m.state)
	}
	m.mu.Unlock()

	return m.submit(ctx)
}

// Retry re-submits the identical recorded answers after a failed submission.
// Safe because the server keeps the session until persistence succeeds.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateSubmissionFailed {
		m.mu.Unlock()
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, m.state)
	}
	m.mu.Unlock()

	return m.submit(ctx)
}

// Exit discards all attempt state. The next Start creates a fresh attempt.
func (m *Machine) Exit() {
	m.mu.Lock()
	m.stopCountdownLocked()
	m.state = StateNotStarted
	m.questions = nil
	m.answers = nil
	m.cursor = 0
	m.deadline = time.Time{}
	m.submitting = false
	m.summary = nil
	m.lastErr = nil
	m.mu.Unlock()

	m.notifyState(StateNotStarted)
}

// submit performs one guarded submission. A duplicate trigger while a submit
// is in flight is a no-op.
func (m *Machine) submit(ctx context.Context) error {
	m.mu.Lock()
	if m.submitting || m.state == StateCompleted {
		m.mu.Unlock()
		return nil
	}
	m.submitting = true
	m.stopCountdownLocked()
	m.state = StateSubmitting
	userID := m.userID
	answers := make([]*int, len(m.answers))
	copy(answers, m.answers)
	m.mu.Unlock()

	m.notifyState(StateSubmitting)
	summary, err := m.client.SubmitExam(ctx, userID, answers)

	m.mu.Lock()
	m.submitting = false
	if err != nil {
		m.state = StateSubmissionFailed
		m.lastErr = err
		m.mu.Unlock()
		m.notifyState(StateSubmissionFailed)
		return fmt.Errorf("submit exam: %w", err)
	}
	m.state = StateCompleted
	m.summary = summary
	m.mu.Unlock()

	m.notifyState(StateCompleted)
	return nil
}

// startCountdownLocked spawns the poll loop. Callers hold m.mu.
func (m *Machine) startCountdownLocked(ctx context.Context) {
	m.stopCountdownLocked()
	stop := make(chan struct{})
	m.tickStop = stop

	go func() {
		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.pollDeadline(ctx) {
					return
				}
			}
		}
	}()
}

// pollDeadline checks the deadline once and, when it has passed, triggers the
// single timeout submission. Reports whether the poll loop should stop.
func (m *Machine) pollDeadline(ctx context.Context) bool {
	m.mu.Lock()
	if m.state != StateInProgress {
		m.mu.Unlock()
		return true
	}
	expired := !m.clock().Before(m.deadline)
	m.mu.Unlock()

	if expired {
		// submit is guarded by the in-flight flag, so a late duplicate fire
		// is a no-op.
		_ = m.submit(ctx)
		return true
	}
	return false
}

// stopCountdownLocked halts the poll loop. Callers hold m.mu. It must run on
// every path that leaves InProgress so a stray late tick cannot re-trigger
// submission.
func (m *Machine) stopCountdownLocked() {
	if m.tickStop != nil {
		close(m.tickStop)
		m.tickStop = nil
	}
}

func (m *Machine) notifyState(s State) {
	if m.notify != nil {
		m.notify(s)
	}
}

// State returns the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Remaining returns the time left before the deadline, clamped at zero. It is
// always recomputed from the deadline, never decremented, so it cannot drift.
func (m *Machine) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deadline.IsZero() {
		return 0
	}
	remaining := m.deadline.Sub(m.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Cursor returns the 0-based index of the current question.
func (m *Machine) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// CurrentQuestion returns the question under the cursor.
func (m *Machine) CurrentQuestion() (dto.ClientQuestion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 || m.cursor >= len(m.questions) {
		return dto.ClientQuestion{}, false
	}
	return m.questions[m.cursor], true
}

// Questions returns the sanitized question set of the attempt.
func (m *Machine) Questions() []dto.ClientQuestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.questions
}

// Answers returns a copy of the recorded answer slots.
func (m *Machine) Answers() []*int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*int, len(m.answers))
	copy(out, m.answers)
	return out
}

// Summary returns the graded outcome once the attempt is completed.
func (m *Machine) Summary() *dto.ExamSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

// Err returns the last submission error, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
