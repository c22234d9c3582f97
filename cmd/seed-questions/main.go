package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ronish76/elearn-backend/internal/config"
	"github.com/ronish76/elearn-backend/internal/database"
	"github.com/ronish76/elearn-backend/internal/logger"
	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/ronish76/elearn-backend/internal/repository"
)

// seedQuestion mirrors model.Question but exposes correct_option, which
// the API model deliberately never serializes.
type seedQuestion struct {
	Subject       string  `json:"subject"`
	Text          string  `json:"text"`
	OptionA       string  `json:"option_a"`
	OptionB       string  `json:"option_b"`
	OptionC       *string `json:"option_c"`
	OptionD       *string `json:"option_d"`
	CorrectOption string  `json:"correct_option"`
}

func main() {
	var seedFile string
	flag.StringVar(&seedFile, "file", "questions.json", "Path to question seed file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	data, err := os.ReadFile(seedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", seedFile).Msg("Failed to read seed file")
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse seed file")
	}

	fmt.Printf("=== Seeding %d Questions ===\n", len(seeds))

	successCount := 0
	perSubject := map[string]int{}
	for i, s := range seeds {
		if s.Subject == "" || s.Text == "" || s.CorrectOption == "" {
			fmt.Printf("Skipping entry %d: subject, text and correct_option are required\n", i+1)
			continue
		}

		q := &model.Question{
			Subject:       s.Subject,
			Text:          s.Text,
			OptionA:       s.OptionA,
			OptionB:       s.OptionB,
			OptionC:       s.OptionC,
			OptionD:       s.OptionD,
			CorrectOption: s.CorrectOption,
		}

		if err := questionRepo.Create(ctx, q); err != nil {
			fmt.Printf("Error creating question %d (%s): %v\n", i+1, s.Subject, err)
			continue
		}

		successCount++
		perSubject[s.Subject]++
		if successCount%25 == 0 {
			fmt.Printf("Created %d questions...\n", successCount)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", successCount, len(seeds))
	for subject, n := range perSubject {
		fmt.Printf("  %-20s %d\n", subject, n)
	}
}
