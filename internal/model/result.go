package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is the persisted answer of one student to one question.
// At most one row exists per (student_id, question_id); re-answering
// overwrites the existing row.
type AnswerRecord struct {
	StudentID      int       `json:"student_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// CompletionRecord is the persisted outcome of a finished subject attempt.
// At most one row exists per (student_id, subject); re-finishing overwrites
// score and timestamp.
type CompletionRecord struct {
	StudentID      int       `json:"student_id"`
	Subject        string    `json:"subject"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// CompletionThresholdMet reports whether a subject counts as completed for
// status display: answered distinct questions cover at least 80% of the
// total, boundary inclusive. Score does not factor in.
func CompletionThresholdMet(answered, total int) bool {
	if total <= 0 {
		return false
	}
	return answered*5 >= total*4
}

// SubjectCount is one row of the questions-grouped-by-subject query.
type SubjectCount struct {
	Subject       string `json:"subject"`
	QuestionCount int    `json:"question_count"`
}

// SubjectStatus is the catalog status of a subject for one student.
type SubjectStatus string

const (
	SubjectStatusAvailable SubjectStatus = "AVAILABLE"
	SubjectStatusCompleted SubjectStatus = "COMPLETED"
)

// CatalogEntry is one row of the subject catalog shown to a student.
type CatalogEntry struct {
	Subject       string        `json:"subject"`
	QuestionCount int           `json:"question_count"`
	Status        SubjectStatus `json:"status"`
}

// ScoreSummary reports the stored result for a completed subject.
type ScoreSummary struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}
