package quiz

import (
	"math/rand"

	"github.com/ronish76/elearn-backend/internal/model"
)

// Shuffle returns a uniformly random permutation of the given questions
// without modifying the input slice. It is called exactly once per session
// start; the produced order stays frozen for the session's lifetime.
//
// math/rand/v2's global generator is seeded per process, so consecutive
// calls never repeat the same order deterministically.
func Shuffle(questions []model.Question) []model.Question {
	shuffled := make([]model.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
