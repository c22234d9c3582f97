package quiz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ronish76/elearn-backend/internal/model"
)

func strptr(s string) *string { return &s }

func TestGradeScoreCorrectness(t *testing.T) {
	questions := []model.Question{
		{ID: uuid.New(), OptionA: "Paris", OptionB: "Rome", CorrectOption: "Paris"},
		{ID: uuid.New(), OptionA: "2", OptionB: "4", CorrectOption: "4"},
		{ID: uuid.New(), OptionA: "red", OptionB: "blue", OptionC: strptr("green"), CorrectOption: "green"},
		{ID: uuid.New(), OptionA: "yes", OptionB: "no", CorrectOption: "yes"},
	}
	answers := map[int]string{
		0: "A", // correct
		1: "A", // wrong
		2: "C", // correct
		// 3 unanswered → incorrect
	}

	result := Grade(questions, answers)

	if result.Score != 2 {
		t.Errorf("Score = %d, want 2", result.Score)
	}
	if result.Total != 4 {
		t.Errorf("Total = %d, want 4", result.Total)
	}
	if len(result.PerQuestion) != 4 {
		t.Fatalf("PerQuestion has %d entries, want 4 (unanswered never omitted)", len(result.PerQuestion))
	}

	unanswered := result.PerQuestion[3]
	if unanswered.SelectedOption != nil {
		t.Errorf("unanswered SelectedOption = %v, want nil", *unanswered.SelectedOption)
	}
	if unanswered.IsCorrect {
		t.Errorf("unanswered question graded correct")
	}
}

func TestGradeComparesOptionTextNotLetter(t *testing.T) {
	// The correct answer is stored as text. When two options carry the same
	// text, selecting either letter must grade correct.
	q := model.Question{
		ID:            uuid.New(),
		OptionA:       "42",
		OptionB:       "42",
		OptionC:       strptr("7"),
		CorrectOption: "42",
	}

	for _, letter := range []string{"A", "B"} {
		result := Grade([]model.Question{q}, map[int]string{0: letter})
		if result.Score != 1 {
			t.Errorf("selecting %q: Score = %d, want 1 (text comparison)", letter, result.Score)
		}
	}

	result := Grade([]model.Question{q}, map[int]string{0: "C"})
	if result.Score != 0 {
		t.Errorf("selecting C: Score = %d, want 0", result.Score)
	}
}

func TestGradeUnresolvableLetterIsIncorrect(t *testing.T) {
	q := model.Question{ID: uuid.New(), OptionA: "x", OptionB: "y", CorrectOption: "x"}

	for _, letter := range []string{"D", "Z", ""} {
		result := Grade([]model.Question{q}, map[int]string{0: letter})
		if result.Score != 0 {
			t.Errorf("letter %q: Score = %d, want 0", letter, result.Score)
		}
		if result.PerQuestion[0].SelectedOption == nil {
			t.Errorf("letter %q: selected option should still be reported", letter)
		}
	}
}

func TestGradeLowercaseLetter(t *testing.T) {
	q := model.Question{ID: uuid.New(), OptionA: "x", OptionB: "y", CorrectOption: "x"}

	result := Grade([]model.Question{q}, map[int]string{0: "a"})
	if result.Score != 1 {
		t.Errorf("lowercase letter: Score = %d, want 1", result.Score)
	}
}

func TestGradeDeterministic(t *testing.T) {
	questions := makeQuestions(5)
	answers := map[int]string{0: "A", 1: "B", 3: "A"}

	first := Grade(questions, answers)
	second := Grade(questions, answers)

	if first.Score != second.Score || first.Total != second.Total {
		t.Errorf("grading is not deterministic: %+v vs %+v", first, second)
	}
}

func TestGradeEmpty(t *testing.T) {
	result := Grade(nil, nil)
	if result.Score != 0 || result.Total != 0 || len(result.PerQuestion) != 0 {
		t.Errorf("empty grade = %+v, want zero result", result)
	}
}
