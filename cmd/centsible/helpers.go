package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/marlowe-fi/centsible/internal/engine"
	"github.com/marlowe-fi/centsible/internal/llm"
	"github.com/marlowe-fi/centsible/internal/storage"
	"github.com/marlowe-fi/centsible/internal/summary"
	"github.com/marlowe-fi/centsible/internal/synthesis"
)

// openStorage opens (and migrates) the SQLite database from config.
func openStorage(migrate bool) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("storage.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "centsible", "centsible.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if migrate {
		if err := store.Migrate(rootCmd.Context()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return store, nil
}

// llmConfig reads the generative service configuration from viper,
// applying the same defaulting the rest of the commands rely on.
func llmConfig() (llm.Config, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "anthropic"
	}

	cfg := llm.Config{
		Provider:     provider,
		Models:       viper.GetStringSlice("llm.models"),
		SummaryModel: viper.GetString("llm.summary_model"),
		Timeout:      viper.GetDuration("llm.timeout"),
		Temperature:  viper.GetFloat64("llm.temperature"),
		MaxTokens:    viper.GetInt("llm.max_tokens"),
		RateLimit:    viper.GetInt("llm.rate_limit"),
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 45 * time.Second
	}

	switch provider {
	case "anthropic":
		cfg.APIKey = viper.GetString("llm.anthropic_api_key")
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.APIKey == "" {
			return llm.Config{}, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		if len(cfg.Models) == 0 {
			cfg.Models = []string{"claude-3-opus-20240229", "claude-3-sonnet-20240229", "claude-3-haiku-20240307"}
		}
	case "openai":
		cfg.APIKey = viper.GetString("llm.openai_api_key")
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			return llm.Config{}, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		if len(cfg.Models) == 0 {
			cfg.Models = []string{"gpt-4-turbo-preview", "gpt-4", "gpt-3.5-turbo"}
		}
	default:
		return llm.Config{}, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	return cfg, nil
}

// buildEngine wires storage, synthesizer and summary updater together.
// The returned cleanup releases the synthesizer and storage.
func buildEngine() (*engine.CheckInEngine, *storage.SQLiteStorage, func(), error) {
	store, err := openStorage(true)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := llmConfig()
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	logger := slog.Default()
	synth := synthesis.New(client, cfg, logger)
	updater := summary.NewUpdater(client, cfg, logger)
	eng := engine.New(store, synth, updater, logger)

	cleanup := func() {
		synth.Close()
		_ = store.Close()
	}
	return eng, store, cleanup, nil
}
