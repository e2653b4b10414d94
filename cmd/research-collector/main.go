// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-collector CLI. It
// collects academic paper metadata from arXiv, normalizes and scores the
// records, stores them in a document database, and reports on what was
// collected.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-collector/internal/secrets"
	"github.com/pdiddy/research-collector/internal/store"
	"github.com/pdiddy/research-collector/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the research-collector CLI.
var rootCmd = &cobra.Command{
	Use:   "research-collector",
	Short: "Collect, score, and store academic paper metadata",
	Long: `research-collector runs a small research data pipeline: it searches the
arXiv API for papers on a topic, normalizes and quality-scores each record,
stores the batch in a document database, and renders summary reports.

Use collect to run the pipeline, stats and sessions to inspect the store,
report to regenerate the analysis report, and serve to expose the pipeline
over an HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-collector.yaml or ~/.config/research-collector/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-collector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-collector"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_COLLECTOR")
	viper.AutomaticEnv()

	viper.SetDefault("collect.timeout", "30s")
	viper.SetDefault("collect.user_agent", "research-collector/0.1")
	viper.SetDefault("collect.max_papers", 10)
	viper.SetDefault("collect.requests_per_second", 0.5)
	viper.SetDefault("collect.max_retries", 3)
	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.database", "research")
	viper.SetDefault("store.path", "research.db")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("export.dir", "exports")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the typed configuration from viper.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured persistence backend. The Mongo URI may
// come from config or from .secrets/mongo-uri.
func openStore(ctx context.Context, cfg types.StoreConfig) (store.Store, error) {
	if cfg.URI == "" {
		cfg.URI = loadedSecrets["mongo-uri"]
	}
	return store.Open(ctx, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
