package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/ronish76/elearn-backend/internal/config"
	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/ronish76/elearn-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ResultWorker consumes persist_results_queue and replays result upserts
// that failed at finish time. The upserts are idempotent per key, so rows
// that landed before a partial failure are safely rewritten.
type ResultWorker struct {
	results *repository.ResultRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(results *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		results: results,
		rdb:     rdb,
		log:     log.With().Str("component", "result_worker").Logger(),
	}
}

type resultPayload struct {
	Kind           string `json:"kind"`
	StudentID      int    `json:"student_id"`
	QuestionID     string `json:"question_id,omitempty"`
	SelectedOption string `json:"selected_option,omitempty"`
	IsCorrect      bool   `json:"is_correct,omitempty"`
	Subject        string `json:"subject,omitempty"`
	Score          int    `json:"score,omitempty"`
	Total          int    `json:"total,omitempty"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ResultWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistResultsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload resultPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistResult(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Int("student_id", payload.StudentID).
			Str("kind", payload.Kind).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *ResultWorker) persistResult(ctx context.Context, p *resultPayload) error {
	switch p.Kind {
	case "completion":
		return w.results.UpsertCompletion(ctx, &model.CompletionRecord{
			StudentID:      p.StudentID,
			Subject:        p.Subject,
			Score:          p.Score,
			TotalQuestions: p.Total,
		})
	default:
		questionID, err := uuid.Parse(p.QuestionID)
		if err != nil {
			return err
		}
		return w.results.UpsertAnswer(ctx, &model.AnswerRecord{
			StudentID:      p.StudentID,
			QuestionID:     questionID,
			SelectedOption: p.SelectedOption,
			IsCorrect:      p.IsCorrect,
		})
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *ResultWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResultsQueue).Result()
		if err != nil {
			break
		}

		var payload resultPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistResult(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
