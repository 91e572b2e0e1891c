// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/pkg/types"
)

// addGenerationFlags registers the flags shared by commands that call
// the AI backend.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "AI model identifier")
	cmd.Flags().String("api-key", "", "AI API key (default: .secrets/anthropic-api-key)")
	cmd.Flags().Int("ideas", 0, "number of ideas to request per cycle (default 5)")
	cmd.Flags().Int("articles", 0, "maximum articles to generate per cycle (default 3)")
	cmd.Flags().String("category", "", "topic category (default \"programming\")")
	cmd.Flags().Int("words", 0, "target article length in words (default 800)")
}

// engineConfig resolves the configuration for a command: flags override
// config file and environment values; the API key falls back to the
// .secrets/ directory.
func engineConfig(cmd *cobra.Command) types.EngineConfig {
	cfg := types.EngineConfig{
		AI: types.AIConfig{
			Model:      viper.GetString("ai.model"),
			APIKey:     viper.GetString("ai.api_key"),
			MaxRetries: viper.GetInt("ai.max_retries"),
			Timeout:    viper.GetDuration("ai.timeout"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Generator: types.GeneratorConfig{
			IdeasPerCycle:    viper.GetInt("generator.ideas_per_cycle"),
			ArticlesPerCycle: viper.GetInt("generator.articles_per_cycle"),
			Category:         viper.GetString("generator.category"),
			TargetWords:      viper.GetInt("generator.target_words"),
		},
		Service: types.ServiceConfig{
			Interval: viper.GetDuration("service.interval"),
		},
	}

	if f := cmd.Flags(); true {
		if f.Changed("model") {
			cfg.AI.Model, _ = f.GetString("model")
		}
		if f.Changed("api-key") {
			cfg.AI.APIKey, _ = f.GetString("api-key")
		}
		if f.Changed("ideas") {
			cfg.Generator.IdeasPerCycle, _ = f.GetInt("ideas")
		}
		if f.Changed("articles") {
			cfg.Generator.ArticlesPerCycle, _ = f.GetInt("articles")
		}
		if f.Changed("category") {
			cfg.Generator.Category, _ = f.GetString("category")
		}
		if f.Changed("words") {
			cfg.Generator.TargetWords, _ = f.GetInt("words")
		}
	}

	if db, _ := rootCmd.PersistentFlags().GetString("db"); db != "" {
		cfg.Store.Path = db
	}

	cfg.AI.APIKey = secretDefault("anthropic-api-key", cfg.AI.APIKey)
	return cfg
}

// requireAPIKey rejects commands that would call the backend without a key.
func requireAPIKey(cfg types.EngineConfig) error {
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("no API key: set --api-key, ai.api_key in the config file, or .secrets/anthropic-api-key")
	}
	return nil
}

// newLogger builds the service logger.
func newLogger() (*zap.Logger, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return log, nil
}
