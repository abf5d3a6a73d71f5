package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"news-digest/internal/usecase/news"
)

// DefaultPromptReloadDebounce batches the burst of events an editor save produces.
const DefaultPromptReloadDebounce = 250 * time.Millisecond

// PromptWatcher reloads the prompt file when it changes on disk and hands the
// resolved builder to OnChange. A file that fails to load is logged and the
// previous builder stays in effect.
type PromptWatcher struct {
	Path     string
	OnChange func(news.PromptBuilder)
	Debounce time.Duration
	Logger   *slog.Logger
}

// NewPromptWatcher creates a watcher with the default debounce.
func NewPromptWatcher(path string, onChange func(news.PromptBuilder), logger *slog.Logger) *PromptWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptWatcher{
		Path:     path,
		OnChange: onChange,
		Debounce: DefaultPromptReloadDebounce,
		Logger:   logger,
	}
}

// Run watches until ctx is done. The parent directory is watched rather than
// the file so that editors which save by rename are still seen.
func (w *PromptWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create prompt watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			w.Logger.Warn("failed to close prompt watcher", slog.Any("error", err))
		}
	}()

	target := filepath.Clean(w.Path)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.Logger.Info("watching prompt file", slog.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("prompt watcher error", slog.Any("error", err))

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *PromptWatcher) reload() {
	b, err := ResolvePrompt(w.Path)
	if err != nil {
		w.Logger.Warn("prompt reload failed, keeping previous prompt",
			slog.String("path", w.Path),
			slog.Any("error", err))
		return
	}
	w.OnChange(b)
	w.Logger.Info("prompt reloaded",
		slog.String("path", w.Path),
		slog.Int("sources", len(b.Sources)),
		slog.Int("topics", len(b.Topics)))
}
