// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli wires configuration, logging, and the publishing pipeline
// into the pressline command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pressline/internal/analysis"
	"pressline/internal/cache"
	"pressline/internal/config"
	"pressline/internal/contentstore"
	"pressline/internal/pipeline"
	"pressline/internal/publisher"
	"pressline/internal/storage"
	"pressline/internal/uploader"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "pressline",
	Short:         "Publish articles and images to the content store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to the YAML config file")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newUnpublishCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newCleanupCmd())
}

// app bundles everything a remote-facing command needs.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	store  contentstore.Store
	up     *uploader.Uploader
	pub    *publisher.Publisher
	runner *pipeline.Runner
}

// newApp loads config and builds the full dependency chain: cache,
// content store, asset backend, uploader, publisher, pipeline runner.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg.Logging.Level)
	slog.SetDefault(log)

	docCache, err := newDocCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	store, err := contentstore.New(cfg.Store, docCache)
	if err != nil {
		return nil, err
	}

	backend, err := newAssetBackend(cfg, store)
	if err != nil {
		return nil, err
	}
	up := uploader.New(backend, cfg.Processing.Concurrency, log)
	pub := publisher.New(store, up, log)

	var analyzer *analysis.Analyzer
	if cfg.AI.APIKey != "" {
		analyzer = analysis.New(analysis.NewChatProvider(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL))
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		up:     up,
		pub:    pub,
		runner: pipeline.New(cfg, pub, analyzer, log),
	}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newDocCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "redis":
		client, err := cache.Connect(cfg.Addr, cfg.Password)
		if err != nil {
			return nil, err
		}
		return cache.NewRedis(client, cfg.TTL()), nil
	case "memory":
		return cache.NewMemory(cfg.TTL()), nil
	default:
		return nil, nil
	}
}

func newAssetBackend(cfg *config.Config, store contentstore.Store) (uploader.Backend, error) {
	if cfg.Assets.Backend == "s3" {
		s3, err := storage.New(
			cfg.Assets.S3Endpoint,
			cfg.Assets.S3Region,
			cfg.Assets.S3AccessKey,
			cfg.Assets.S3SecretKey,
			cfg.Assets.S3Bucket,
			cfg.Assets.S3PublicURL,
		)
		if err != nil {
			return nil, err
		}
		return uploader.NewS3Backend(s3), nil
	}
	return uploader.NewStoreBackend(store), nil
}
