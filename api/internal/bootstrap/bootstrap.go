package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"physics-parser/api/internal/config"
	"physics-parser/api/internal/llm"
	"physics-parser/api/internal/llm/gemini"
	"physics-parser/api/internal/llm/openai"
	"physics-parser/api/internal/prompt"
	"physics-parser/api/internal/store"
)

// Engines builds every engine that has credentials. The returned func releases them.
func Engines(ctx context.Context, cfg *config.Config) (*llm.Engines, func(), error) {
	system := prompt.SceneSystem
	if cfg.PromptFile != "" {
		p, err := prompt.Load(cfg.PromptFile)
		if err != nil {
			return nil, nil, &config.ConfigurationError{Key: "PROMPT_FILE", Reason: err.Error()}
		}
		system = p
		log.Printf("prompt: using %s", cfg.PromptFile)
	}

	engs := &llm.Engines{
		Groq:    openai.New("groq", cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL, system),
		Default: cfg.DefaultLLM,
	}
	if cfg.OpenAIAPIKey != "" {
		engs.OpenAI = openai.New("openai", cfg.OpenAIAPIKey, cfg.OpenAIModel, "", system)
	}
	if cfg.DeepseekAPIKey != "" {
		engs.Deepseek = openai.New("deepseek", cfg.DeepseekAPIKey, cfg.DeepseekModel, cfg.DeepseekBaseURL, system)
	}

	closer := func() {}
	if cfg.GeminiAPIKey != "" {
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, system)
		if err != nil {
			return nil, nil, err
		}
		engs.Gemini = g
		closer = func() {
			if err := g.Close(); err != nil {
				log.Printf("gemini: close: %v", err)
			}
		}
	}

	if _, err := engs.GetEngine(""); err != nil {
		closer()
		return nil, nil, &config.ConfigurationError{Key: "DEFAULT_LLM", Reason: err.Error()}
	}
	log.Printf("engines: %v (default %s)", engs.Available(), cfg.DefaultLLM)
	return engs, closer, nil
}

// Journal opens the parse journal when DATABASE_URL is set; nil, nil otherwise.
func Journal(ctx context.Context, cfg *config.Config) (*store.JournalRepo, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("journal: DATABASE_URL not set, journaling disabled")
		return nil, nil, nil
	}
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("db connected: %s", store.SafeDSNSummary(cfg.DatabaseURL))

	repo := store.NewJournalRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("journal schema: %w", err)
	}
	if n, err := repo.PurgeOlderThan(ctx, cfg.JournalRetention); err != nil {
		log.Printf("journal: purge failed: %v", err)
	} else if n > 0 {
		log.Printf("journal: purged %d rows older than %s", n, cfg.JournalRetention)
	}
	return repo, db, nil
}
