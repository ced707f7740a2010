package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/database"
	"github.com/civicsprep/civicsprep-backend/internal/logger"
	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
)

func main() {
	var questionFile string
	flag.StringVar(&questionFile, "file", "seed/questions.json", "Path to the question bank JSON file")
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

	raw, err := os.ReadFile(questionFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", questionFile).Msg("Failed to read question file")
	}

	var seeds []model.SeedQuestion
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse question file")
	}

	fmt.Printf("=== Seeding %d Questions ===\n", len(seeds))

	successCount := 0
	for i, seed := range seeds {
		choices, err := json.Marshal(seed.Choices)
		if err != nil {
			fmt.Printf("Error encoding choices for question %d: %v\n", i+1, err)
			continue
		}

		question := &model.Question{
			Domain:             seed.Domain,
			Prompt:             seed.Prompt,
			Choices:            choices,
			CorrectAnswer:      seed.CorrectAnswer,
			Difficulty:         seed.Difficulty,
			Category:           seed.Category,
			Tags:               seed.Tags,
			BankVersion:        model.BankVersion(seed.BankVersion),
			Active:             true,
			IsDynamic:          seed.IsDynamic,
			PoolFlashcardsOnly: seed.PoolFlashcardsOnly,
		}
		if question.Domain == "" {
			question.Domain = "civics"
		}
		if question.BankVersion == "" {
			question.BankVersion = model.BankVersion(cfg.BankVersion)
		}

		if err := questionRepo.Create(ctx, question); err != nil {
			fmt.Printf("Error creating question %d (%.40s...): %v\n", i+1, seed.Prompt, err)
			continue
		}
		successCount++
		if successCount%50 == 0 {
			fmt.Printf("Created %d questions...\n", successCount)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", successCount, len(seeds))
}
