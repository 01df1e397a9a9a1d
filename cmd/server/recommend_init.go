// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/recommend"
	"github.com/tomtom215/ridewise/internal/recommend/storage"
)

// ModelStoreComponents holds the model store and the backend behind it.
type ModelStoreComponents struct {
	Store *storage.ModelStore

	// Badger is set only for the badger backend and drives value log GC.
	Badger *storage.BadgerKV
}

// buildEngineConfig converts the koanf settings into an engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	engineCfg := recommend.DefaultConfig()

	engineCfg.Limits.DefaultTopN = rc.DefaultTopN
	engineCfg.Limits.MinTopN = rc.MinTopN
	engineCfg.Limits.MaxTopN = rc.MaxTopN

	engineCfg.Training.MinSamples = rc.MinSamples
	engineCfg.Training.L2 = rc.L2
	engineCfg.Training.MaxEpochs = rc.MaxEpochs
	engineCfg.Training.Tolerance = rc.Tolerance
	engineCfg.Training.Seed = rc.Seed
	engineCfg.Training.Timeout = rc.TrainingTimeout

	engineCfg.Persistence.MaxAttempts = rc.PersistAttempts
	engineCfg.Persistence.InitialBackoff = rc.PersistInitialBackoff
	engineCfg.Persistence.MaxBackoff = rc.PersistMaxBackoff

	return engineCfg
}

// openModelStore opens the configured KV backend and wraps it in a circuit
// breaker when enabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func openModelStore(ctx context.Context, cfg *config.ModelStoreConfig, logger zerolog.Logger) (*ModelStoreComponents, error) {
	components := &ModelStoreComponents{}

	var kv storage.KV
	switch cfg.Backend {
	case "file", "":
		fileKV, err := storage.NewFileKV(cfg.Path)
		if err != nil {
			return nil, err
		}
		kv = fileKV

	case "badger":
		badgerKV, err := storage.NewBadgerKV(storage.BadgerConfig{
			Path:       cfg.Path,
			SyncWrites: cfg.SyncWrites,
		})
		if err != nil {
			return nil, err
		}
		components.Badger = badgerKV
		kv = badgerKV

	case "redis":
		redisKV, err := storage.NewRedisKV(ctx, storage.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			TTL:         cfg.Redis.TTL,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, err
		}
		kv = redisKV

	default:
		return nil, fmt.Errorf("unknown model store backend %q", cfg.Backend)
	}

	if cfg.Breaker.Enabled {
		kv = storage.NewBreakerKV(kv, breakerConfig(cfg.Breaker))
	}

	components.Store = storage.NewModelStore(kv)

	logger.Info().
		Str("backend", components.Store.Backend()).
		Bool("circuit_breaker", cfg.Breaker.Enabled).
		Msg("Model store opened")

	return components, nil
}

func breakerConfig(b config.BreakerConfig) storage.BreakerConfig {
	return storage.BreakerConfig{
		MaxRequests:      b.MaxRequests,
		Interval:         b.Interval,
		Timeout:          b.Timeout,
		FailureThreshold: b.FailureThreshold,
	}
}

// initEngine creates the recommendation engine over the ride database and model store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEngine(cfg *config.Config, history recommend.RideHistoryProvider, candidates recommend.CandidateSource,
	store recommend.ModelStore, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(engineCfg, recommend.Dependencies{
		History:    history,
		Candidates: candidates,
		Store:      store,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	logger.Info().
		Int("default_top_n", engineCfg.Limits.DefaultTopN).
		Int("max_top_n", engineCfg.Limits.MaxTopN).
		Int("min_samples", engineCfg.Training.MinSamples).
		Dur("training_timeout", engineCfg.Training.Timeout).
		Msg("Recommendation engine initialized")

	return engine, nil
}
