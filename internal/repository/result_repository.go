package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ronish76/elearn-backend/internal/model"
)

// ResultRepository persists per-question answer records and subject-level
// completion records. Every write is a single-statement upsert so retried or
// concurrent calls for the same key leave exactly one row, reflecting the
// most recent write.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// UpsertAnswer inserts the answer record or, when one exists for the same
// (student_id, question_id), overwrites it. Idempotent under identical
// repeated calls; last write wins under differing ones.
func (r *ResultRepository) UpsertAnswer(ctx context.Context, rec *model.AnswerRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO answer_records (student_id, question_id, selected_option, is_correct)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, question_id) DO UPDATE
		 SET selected_option = EXCLUDED.selected_option,
		     is_correct = EXCLUDED.is_correct,
		     submitted_at = NOW()
		 RETURNING submitted_at`,
		rec.StudentID, rec.QuestionID, rec.SelectedOption, rec.IsCorrect,
	).Scan(&rec.SubmittedAt)
}

// UpsertCompletion inserts the completion record or overwrites score, total
// and timestamp for an existing (student_id, subject) row.
func (r *ResultRepository) UpsertCompletion(ctx context.Context, rec *model.CompletionRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO completion_records (student_id, subject, score, total_questions)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, subject) DO UPDATE
		 SET score = EXCLUDED.score,
		     total_questions = EXCLUDED.total_questions,
		     completed_at = NOW()
		 RETURNING completed_at`,
		rec.StudentID, rec.Subject, rec.Score, rec.TotalQuestions,
	).Scan(&rec.CompletedAt)
}

// IsCompleted reports whether the student has answered at least 80% of the
// subject's questions (boundary inclusive). The catalog derives completion
// status from answer records alone, without a completion-record read.
func (r *ResultRepository) IsCompleted(ctx context.Context, studentID int, subject string, totalQuestions int) (bool, error) {
	var answered int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT a.question_id)
		 FROM answer_records a
		 JOIN questions q ON a.question_id = q.id
		 WHERE a.student_id = $1 AND q.subject = $2`,
		studentID, subject,
	).Scan(&answered)
	if err != nil {
		return false, err
	}
	return model.CompletionThresholdMet(answered, totalQuestions), nil
}

// GetCompletion retrieves the stored completion record for a subject.
// Returns (nil, nil) when the student has never finished the subject.
func (r *ResultRepository) GetCompletion(ctx context.Context, studentID int, subject string) (*model.CompletionRecord, error) {
	rec := &model.CompletionRecord{}
	err := r.pool.QueryRow(ctx,
		`SELECT student_id, subject, score, total_questions, completed_at
		 FROM completion_records
		 WHERE student_id = $1 AND subject = $2`,
		studentID, subject,
	).Scan(&rec.StudentID, &rec.Subject, &rec.Score, &rec.TotalQuestions, &rec.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
