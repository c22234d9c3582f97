package model

import (
	"github.com/google/uuid"
)

// Question represents a single quiz question. Questions are loaded once per
// session and never mutated afterwards.
type Question struct {
	ID      uuid.UUID `json:"id"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
	OptionA string    `json:"option_a"`
	OptionB string    `json:"option_b"`
	OptionC *string   `json:"option_c,omitempty"`
	OptionD *string   `json:"option_d,omitempty"`
	// CorrectOption stores the text of the correct option, not its letter.
	// Grading resolves a selected letter to its text and compares values.
	CorrectOption string `json:"-"`
}

// OptionText resolves an option letter (A–D, case-insensitive) to the option
// text. The second return is false when the letter is unknown or the option
// is not present on this question.
func (q *Question) OptionText(letter string) (string, bool) {
	switch letter {
	case "A", "a":
		return q.OptionA, true
	case "B", "b":
		return q.OptionB, true
	case "C", "c":
		if q.OptionC == nil {
			return "", false
		}
		return *q.OptionC, true
	case "D", "d":
		if q.OptionD == nil {
			return "", false
		}
		return *q.OptionD, true
	}
	return "", false
}
