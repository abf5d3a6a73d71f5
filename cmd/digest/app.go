package main

import (
	"fmt"

	"news-digest/internal/config"
	"news-digest/internal/infra/completion"
	"news-digest/internal/observability/metrics"
	"news-digest/internal/usecase/news"
)

// app holds the wired pipeline shared by fetch and serve.
type app struct {
	cfg    *config.AppConfig
	client *completion.Client
	svc    *news.Service
}

// newApp wires the completion client and the news service from cfg.
func newApp(cfg *config.AppConfig) (*app, error) {
	client, err := completion.New(cfg.Completion, cfg.CircuitBreaker)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	svc := news.NewService(client, cfg.Prompt, cfg.Retry, metrics.NewPipelineRecorder())
	return &app{cfg: cfg, client: client, svc: svc}, nil
}
