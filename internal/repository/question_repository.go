package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ronish76/elearn-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListBySubject retrieves all questions tagged with the given subject.
// A subject with no questions yields an empty slice, not an error.
func (r *QuestionRepository) ListBySubject(ctx context.Context, subject string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject, text, option_a, option_b, option_c, option_d, correct_option
		 FROM questions WHERE subject = $1
		 ORDER BY id`, subject,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Subject, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListSubjects groups all questions by subject with per-subject counts.
// Subjects with zero questions cannot appear by construction of the query.
func (r *QuestionRepository) ListSubjects(ctx context.Context) ([]model.SubjectCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subject, COUNT(*) FROM questions GROUP BY subject ORDER BY subject`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.SubjectCount
	for rows.Next() {
		var sc model.SubjectCount
		if err := rows.Scan(&sc.Subject, &sc.QuestionCount); err != nil {
			return nil, err
		}
		subjects = append(subjects, sc)
	}
	return subjects, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (subject, text, option_a, option_b, option_c, option_d, correct_option)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		q.Subject, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption,
	).Scan(&q.ID)
}
