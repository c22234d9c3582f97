package service

import (
	"context"
	"fmt"

	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/rs/zerolog"
)

// CatalogService lists the subjects a student can take and their
// completion status.
type CatalogService struct {
	questions QuestionStore
	results   ResultStore
	log       zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(questions QuestionStore, results ResultStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		questions: questions,
		results:   results,
		log:       log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListAvailable returns every subject that has questions, with its question
// count and per-student status. Subjects with zero questions never appear —
// the grouping query cannot produce them.
func (s *CatalogService) ListAvailable(ctx context.Context, studentID int) ([]model.CatalogEntry, error) {
	subjects, err := s.questions.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	entries := make([]model.CatalogEntry, 0, len(subjects))
	for _, sc := range subjects {
		completed, err := s.results.IsCompleted(ctx, studentID, sc.Subject, sc.QuestionCount)
		if err != nil {
			return nil, fmt.Errorf("completion status for %q: %w", sc.Subject, err)
		}

		status := model.SubjectStatusAvailable
		if completed {
			status = model.SubjectStatusCompleted
		}
		entries = append(entries, model.CatalogEntry{
			Subject:       sc.Subject,
			QuestionCount: sc.QuestionCount,
			Status:        status,
		})
	}
	return entries, nil
}

// ScoreSummary reports the stored result for an already-finished subject.
// A subject the student never finished yields a zero summary.
func (s *CatalogService) ScoreSummary(ctx context.Context, studentID int, subject string) (*model.ScoreSummary, error) {
	rec, err := s.results.GetCompletion(ctx, studentID, subject)
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	if rec == nil {
		return &model.ScoreSummary{}, nil
	}

	summary := &model.ScoreSummary{
		Correct: rec.Score,
		Total:   rec.TotalQuestions,
	}
	if rec.TotalQuestions > 0 {
		summary.Percentage = float64(rec.Score) / float64(rec.TotalQuestions) * 100
	}
	return summary, nil
}
