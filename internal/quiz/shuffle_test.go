package quiz

import (
	"testing"

	"github.com/google/uuid"
)

func TestShufflePreservesSet(t *testing.T) {
	questions := makeQuestions(20)

	shuffled := Shuffle(questions)

	if len(shuffled) != len(questions) {
		t.Fatalf("shuffled length = %d, want %d", len(shuffled), len(questions))
	}

	seen := make(map[uuid.UUID]int, len(questions))
	for _, q := range questions {
		seen[q.ID]++
	}
	for _, q := range shuffled {
		seen[q.ID]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Errorf("question %s count off by %d after shuffle", id, n)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	questions := makeQuestions(10)
	original := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		original[i] = q.ID
	}

	_ = Shuffle(questions)

	for i, q := range questions {
		if q.ID != original[i] {
			t.Fatalf("input slice mutated at %d", i)
		}
	}
}

func TestShuffleVariesAcrossCalls(t *testing.T) {
	// With 20 questions, 50 identical consecutive permutations means the
	// randomness source is broken.
	questions := makeQuestions(20)

	same := func(a, b []uuid.UUID) bool {
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	base := Shuffle(questions)
	baseIDs := make([]uuid.UUID, len(base))
	for i, q := range base {
		baseIDs[i] = q.ID
	}

	for attempt := 0; attempt < 50; attempt++ {
		next := Shuffle(questions)
		nextIDs := make([]uuid.UUID, len(next))
		for i, q := range next {
			nextIDs[i] = q.ID
		}
		if !same(baseIDs, nextIDs) {
			return
		}
	}
	t.Fatal("50 consecutive shuffles produced the same order")
}
