package quiz

import (
	"errors"
	"fmt"

	"github.com/ronish76/elearn-backend/internal/model"
)

// Common engine errors.
var (
	// ErrInvalidTransition signals an operation called in the wrong session
	// state. It is a programming-contract violation, not a retryable failure.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNoQuestions signals that a subject has zero questions, so no
	// session can be started for it.
	ErrNoQuestions = errors.New("no questions available for subject")
)

// State enumerates the lifecycle states of a quiz session.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateInProgress State = "IN_PROGRESS"
	StateCompleted  State = "COMPLETED"
	StateAbandoned  State = "ABANDONED"
)

// Session is one student's attempt at a subject's question set.
//
// The question order is fixed at Start and never changes afterwards, so
// answers are indexed by position. Completed and Abandoned are terminal.
// Session is not safe for concurrent use; callers serialize access.
type Session struct {
	subject   string
	questions []model.Question
	current   int
	answers   map[int]string
	state     State
}

// NewSession returns a session in the NotStarted state.
func NewSession() *Session {
	return &Session{state: StateNotStarted}
}

// Start begins the attempt with an already-shuffled question sequence.
// Loading and shuffling are the caller's job, which keeps this type free of
// I/O. An empty sequence fails with ErrNoQuestions and the session remains
// NotStarted.
func (s *Session) Start(subject string, questions []model.Question) error {
	if s.state != StateNotStarted {
		return fmt.Errorf("start in state %s: %w", s.state, ErrInvalidTransition)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.subject = subject
	s.questions = questions
	s.current = 0
	s.answers = make(map[int]string)
	s.state = StateInProgress
	return nil
}

// RecordAnswer stores the selected option letter for the question at the
// given position. A prior answer at the same position is overwritten — the
// student may change their mind any time before finishing.
func (s *Session) RecordAnswer(index int, option string) error {
	if s.state != StateInProgress {
		return fmt.Errorf("record answer in state %s: %w", s.state, ErrInvalidTransition)
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("answer index %d out of range [0,%d): %w", index, len(s.questions), ErrInvalidTransition)
	}

	s.answers[index] = option
	return nil
}

// Next advances the cursor by one. At the last question it is a no-op; the
// UI disables the button there, but the engine tolerates the call.
func (s *Session) Next() error {
	if s.state != StateInProgress {
		return fmt.Errorf("next in state %s: %w", s.state, ErrInvalidTransition)
	}
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// Previous moves the cursor back by one, clamped at the first question.
func (s *Session) Previous() error {
	if s.state != StateInProgress {
		return fmt.Errorf("previous in state %s: %w", s.state, ErrInvalidTransition)
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// CurrentQuestion returns the question under the cursor. No side effects.
func (s *Session) CurrentQuestion() (model.Question, error) {
	if s.state != StateInProgress {
		return model.Question{}, fmt.Errorf("current question in state %s: %w", s.state, ErrInvalidTransition)
	}
	return s.questions[s.current], nil
}

// AnsweredCount returns how many distinct positions have a recorded answer.
func (s *Session) AnsweredCount() int {
	return len(s.answers)
}

// Finish transitions to Completed and returns the final answers keyed by
// question position. Unanswered positions are simply absent; grading treats
// them as incorrect. Confirming an early finish (answered < total) is the
// caller's policy — Finish itself always proceeds.
//
// The returned map is a copy; later mutations cannot leak into the session.
func (s *Session) Finish() (map[int]string, error) {
	if s.state != StateInProgress {
		return nil, fmt.Errorf("finish in state %s: %w", s.state, ErrInvalidTransition)
	}

	final := make(map[int]string, len(s.answers))
	for i, opt := range s.answers {
		final[i] = opt
	}

	s.state = StateCompleted
	return final, nil
}

// Abandon transitions to Abandoned, discarding all recorded answers.
// Nothing is persisted.
func (s *Session) Abandon() error {
	if s.state != StateInProgress {
		return fmt.Errorf("abandon in state %s: %w", s.state, ErrInvalidTransition)
	}
	s.state = StateAbandoned
	s.answers = nil
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Subject returns the subject of this attempt.
func (s *Session) Subject() string { return s.subject }

// CurrentIndex returns the cursor position.
func (s *Session) CurrentIndex() int { return s.current }

// Questions returns the frozen question sequence. Callers must not mutate it.
func (s *Session) Questions() []model.Question { return s.questions }

// Answers returns a copy of the answers recorded so far, keyed by position.
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for i, opt := range s.answers {
		out[i] = opt
	}
	return out
}
