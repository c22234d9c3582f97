package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/ronish76/elearn-backend/internal/config"
	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/ronish76/elearn-backend/internal/quiz"
	"github.com/rs/zerolog"
)

// ErrNoActiveSession signals that the student has no quiz session in
// progress for the requested operation.
var ErrNoActiveSession = errors.New("no active quiz session")

// SessionSnapshot is the UI-facing view of a live session.
type SessionSnapshot struct {
	Subject  string          `json:"subject"`
	State    quiz.State      `json:"state"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
	Answered int             `json:"answered"`
	Answers  map[int]string  `json:"answers"`
	Question *model.Question `json:"question,omitempty"`
}

// FinishResult carries the graded outcome plus whether persistence succeeded.
// Grading happens before persistence; a failed save never hides the score
// from the student.
type FinishResult struct {
	quiz.GradeResult
	Saved bool `json:"saved"`
}

// SessionService drives quiz sessions: one live session per student,
// navigation and answer capture in memory, grading and persistence on
// finish. The interactive flow is single-user per student; the map guards
// only against the server's own concurrent request handling.
type SessionService struct {
	questions QuestionStore
	results   ResultStore
	rdb       *redis.Client
	log       zerolog.Logger

	mu       sync.Mutex
	sessions map[int]*quiz.Session
}

// NewSessionService creates a new SessionService. rdb may be nil in tests;
// the retry queue is then skipped.
func NewSessionService(questions QuestionStore, results ResultStore, rdb *redis.Client, log zerolog.Logger) *SessionService {
	return &SessionService{
		questions: questions,
		results:   results,
		rdb:       rdb,
		log:       log.With().Str("component", "session_service").Logger(),
		sessions:  make(map[int]*quiz.Session),
	}
}

// Start loads and shuffles the subject's questions and opens a session for
// the student. The shuffled order is frozen until the session ends. Each
// student has at most one live session; a stale in-progress one is
// abandoned first.
func (s *SessionService) Start(ctx context.Context, studentID int, subject string) (*SessionSnapshot, error) {
	loaded, err := s.questions.ListBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	sess := quiz.NewSession()
	if err := sess.Start(subject, quiz.Shuffle(loaded)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if old, ok := s.sessions[studentID]; ok && old.State() == quiz.StateInProgress {
		_ = old.Abandon()
		s.log.Warn().
			Int("student_id", studentID).
			Str("subject", old.Subject()).
			Msg("Abandoned stale session on new start")
	}
	s.sessions[studentID] = sess
	s.mu.Unlock()

	return snapshot(sess), nil
}

// Snapshot returns the current view of the student's live session.
func (s *SessionService) Snapshot(studentID int) (*SessionSnapshot, error) {
	sess, err := s.live(studentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(sess), nil
}

// RecordAnswer stores the selected option for the question at the given
// position. Re-answering the same position overwrites the prior choice.
func (s *SessionService) RecordAnswer(studentID, index int, option string) error {
	sess, err := s.live(studentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.RecordAnswer(index, option)
}

// Next moves the session cursor forward (clamped at the last question).
func (s *SessionService) Next(studentID int) error {
	sess, err := s.live(studentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.Next()
}

// Previous moves the session cursor back (clamped at the first question).
func (s *SessionService) Previous(studentID int) error {
	sess, err := s.live(studentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.Previous()
}

// Finish completes the session, grades it in memory, and persists the
// per-question answers plus the subject completion record. Persistence
// failures do not roll back the computed score: the result comes back with
// Saved=false and the failed rows are queued for background retry.
func (s *SessionService) Finish(ctx context.Context, studentID int) (*FinishResult, error) {
	s.mu.Lock()
	sess, ok := s.sessions[studentID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	answers, err := sess.Finish()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	subject := sess.Subject()
	questions := sess.Questions()
	delete(s.sessions, studentID)
	s.mu.Unlock()

	graded := quiz.Grade(questions, answers)

	result := &FinishResult{GradeResult: graded, Saved: true}
	if err := s.persist(ctx, studentID, subject, graded); err != nil {
		s.log.Error().Err(err).
			Int("student_id", studentID).
			Str("subject", subject).
			Msg("Result persistence failed, queueing for retry")
		s.enqueueRetry(ctx, studentID, subject, graded)
		result.Saved = false
	}

	return result, nil
}

// Abandon discards the student's live session without persisting anything.
func (s *SessionService) Abandon(studentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[studentID]
	if !ok {
		return ErrNoActiveSession
	}
	if err := sess.Abandon(); err != nil {
		return err
	}
	delete(s.sessions, studentID)
	return nil
}

// live fetches the student's session from the registry.
func (s *SessionService) live(studentID int) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[studentID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}

// persist upserts one answer record per answered question, then the
// completion record. Each statement is atomic per key, so a partial failure
// can be retried wholesale without creating duplicates.
func (s *SessionService) persist(ctx context.Context, studentID int, subject string, graded quiz.GradeResult) error {
	for _, qr := range graded.PerQuestion {
		if qr.SelectedOption == nil {
			// Unanswered questions count against the score but leave no
			// answer record; the completion threshold counts answered rows.
			continue
		}
		rec := &model.AnswerRecord{
			StudentID:      studentID,
			QuestionID:     qr.QuestionID,
			SelectedOption: *qr.SelectedOption,
			IsCorrect:      qr.IsCorrect,
		}
		if err := s.results.UpsertAnswer(ctx, rec); err != nil {
			return fmt.Errorf("upsert answer %s: %w", qr.QuestionID, err)
		}
	}

	rec := &model.CompletionRecord{
		StudentID:      studentID,
		Subject:        subject,
		Score:          graded.Score,
		TotalQuestions: graded.Total,
	}
	if err := s.results.UpsertCompletion(ctx, rec); err != nil {
		return fmt.Errorf("upsert completion: %w", err)
	}
	return nil
}

// enqueueRetry pushes the full result set onto the Redis retry queue. The
// worker replays the same idempotent upserts, so rows that did land before
// the failure are safely rewritten.
func (s *SessionService) enqueueRetry(ctx context.Context, studentID int, subject string, graded quiz.GradeResult) {
	if s.rdb == nil {
		return
	}

	for _, qr := range graded.PerQuestion {
		if qr.SelectedOption == nil {
			continue
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"kind":            "answer",
			"student_id":      studentID,
			"question_id":     qr.QuestionID.String(),
			"selected_option": *qr.SelectedOption,
			"is_correct":      qr.IsCorrect,
		})
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, payload).Err(); err != nil {
			s.log.Error().Err(err).Msg("Retry enqueue failed")
			return
		}
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"kind":       "completion",
		"student_id": studentID,
		"subject":    subject,
		"score":      graded.Score,
		"total":      graded.Total,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Msg("Retry enqueue failed")
	}
}

func snapshot(sess *quiz.Session) *SessionSnapshot {
	snap := &SessionSnapshot{
		Subject:  sess.Subject(),
		State:    sess.State(),
		Position: sess.CurrentIndex(),
		Total:    len(sess.Questions()),
		Answered: sess.AnsweredCount(),
		Answers:  sess.Answers(),
	}
	if q, err := sess.CurrentQuestion(); err == nil {
		snap.Question = &q
	}
	return snap
}
