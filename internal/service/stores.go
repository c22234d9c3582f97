package service

import (
	"context"

	"github.com/ronish76/elearn-backend/internal/model"
)

// QuestionStore loads the question bank. Implemented by
// repository.QuestionRepository; tests substitute in-memory fakes.
type QuestionStore interface {
	ListBySubject(ctx context.Context, subject string) ([]model.Question, error)
	ListSubjects(ctx context.Context) ([]model.SubjectCount, error)
}

// ResultStore persists graded results. Every write carries an
// at-most-one-row-per-key guarantee: retried or concurrent calls for the
// same key end with exactly one row holding the most recent data.
type ResultStore interface {
	UpsertAnswer(ctx context.Context, rec *model.AnswerRecord) error
	UpsertCompletion(ctx context.Context, rec *model.CompletionRecord) error
	IsCompleted(ctx context.Context, studentID int, subject string, totalQuestions int) (bool, error)
	GetCompletion(ctx context.Context, studentID int, subject string) (*model.CompletionRecord, error)
}
