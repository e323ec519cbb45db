package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Chenxi-dot/smartHR/internal/analysis"
	"github.com/Chenxi-dot/smartHR/internal/cache"
	"github.com/Chenxi-dot/smartHR/internal/config"
	"github.com/Chenxi-dot/smartHR/internal/corpus"
	"github.com/Chenxi-dot/smartHR/internal/llm"
	"github.com/Chenxi-dot/smartHR/internal/logger"
	"github.com/Chenxi-dot/smartHR/internal/ranking"
)

// app holds the assembled service components and their cleanup hooks.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	matcher *ranking.Matcher
	cleanup []func()
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	_ = a.log.Sync()
}

// buildApp wires the cache tiers, oracle, corpus loader, and matcher from
// configuration. Missing backends degrade rather than fail: no Redis means
// no hot tier, no Postgres means an in-memory durable tier, no API key means
// stage-1-only ranking.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New("info")
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	var hot cache.Tier
	if cfg.RedisURL != "" {
		client, err := cache.DialRedisURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, hot tier disabled", zap.Error(err))
		} else {
			hot = cache.NewRedisTier(client, cache.DefaultHotTTL)
			a.cleanup = append(a.cleanup, func() { _ = client.Close() })
		}
	}

	var durable cache.Tier
	if cfg.DatabaseURL != "" {
		pool, err := cache.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		pgTier := cache.NewPostgresTier(pool)
		if err := pgTier.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ensure cache schema: %w", err)
		}
		durable = pgTier
		a.cleanup = append(a.cleanup, pool.Close)
	} else {
		log.Warn("no DATABASE_URL configured, durable cache tier is in-memory only")
		durable = cache.NewMemoryTier()
	}

	tiered := cache.NewTiered(hot, durable, log)
	loader := corpus.NewLoader(cfg.DataPath, cfg.MaxCandidates, tiered, log)

	var oracle analysis.Oracle = analysis.Disabled{}
	if cfg.APIKey != "" {
		llmCfg := llm.DefaultConfig()
		llmCfg.Timeout = time.Duration(cfg.OracleTimeoutSeconds * float64(time.Second))
		client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		oracle = analysis.NewGeminiOracle(client, log)
		a.cleanup = append(a.cleanup, func() { _ = client.Close() })
	} else {
		log.Warn("no GEMINI_API_KEY configured, stage-2 rerank disabled")
	}

	a.matcher = ranking.NewMatcher(loader, oracle, ranking.Options{
		TopK:         cfg.TopK,
		Stage1Limit:  cfg.Stage1Limit,
		Stage2Limit:  cfg.Stage2Limit,
		Stage2Weight: cfg.Stage2Weight,
		Stage2Budget: time.Duration(cfg.Stage2BudgetSeconds * float64(time.Second)),
	}, log)
	return a, nil
}
