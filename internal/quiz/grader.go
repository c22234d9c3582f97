package quiz

import (
	"github.com/google/uuid"
	"github.com/ronish76/elearn-backend/internal/model"
)

// QuestionResult is the graded outcome for one question position.
type QuestionResult struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption *string   `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
}

// GradeResult is the outcome of grading one finished attempt.
type GradeResult struct {
	Score       int              `json:"score"`
	Total       int              `json:"total"`
	PerQuestion []QuestionResult `json:"per_question"`
}

// Grade scores a finished attempt. answers maps question position to the
// selected option letter; positions without an entry count as incorrect,
// never omitted from the result.
//
// Correctness compares the TEXT of the selected option against the stored
// correct-option text, not the letter. The correct answer is stored as free
// text, and comparing by letter would silently change scoring for datasets
// where two options share the same text.
//
// Pure function: deterministic for identical inputs, no side effects.
func Grade(questions []model.Question, answers map[int]string) GradeResult {
	result := GradeResult{
		Total:       len(questions),
		PerQuestion: make([]QuestionResult, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		qr := QuestionResult{QuestionID: q.ID}

		if letter, ok := answers[i]; ok {
			qr.SelectedOption = &letter
			if text, ok := q.OptionText(letter); ok && text == q.CorrectOption {
				qr.IsCorrect = true
				result.Score++
			}
		}

		result.PerQuestion = append(result.PerQuestion, qr)
	}

	return result
}
