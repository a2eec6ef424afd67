package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/publish"
	"github.com/vk/serialgraph/internal/telemetry"
	"github.com/vk/serialgraph/internal/watch"
)

// Run analyzes every schedule under Config.InputPath. In watch mode it then
// keeps re-analyzing changed files until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	shutdown, err := telemetry.Setup(ctx, telemetry.DefaultConfig(a.config.OTLPEndpoint))
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			a.logger.Warn("Failed to flush traces.", "error", err)
		}
	}()

	files, err := a.loaders.Discover(a.config.InputPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Schedule files discovered.", "count", len(files))

	if a.publisher == nil && a.config.PublishURL != "" {
		client, err := publish.Dial(ctx, publish.Config{
			URL:       a.config.PublishURL,
			Namespace: a.config.PublishNamespace,
		})
		if err != nil {
			return fmt.Errorf("failed to connect publisher: %w", err)
		}
		a.publisher = client
	}
	if a.publisher != nil {
		defer a.publisher.Close()
	}

	multi := len(files) > 1
	var errs []error
	notSerializable := 0
	for _, path := range files {
		rep, err := a.analyzeFile(ctx, path, multi)
		if err != nil {
			if !multi {
				return err
			}
			a.logger.Error("Schedule analysis failed.", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		if !rep.Serializable {
			notSerializable++
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if a.config.Watch {
		return a.watch(ctx, files, multi)
	}

	if a.config.Strict && notSerializable > 0 {
		return fmt.Errorf("%w: %d of %d schedules", ErrNotSerializable, notSerializable, len(files))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// watch re-analyzes files on change until ctx is cancelled.
func (a *App) watch(ctx context.Context, files []string, multi bool) error {
	w, err := watch.New(0)
	if err != nil {
		return err
	}

	// Events carry absolute paths; reports keep the path the user gave.
	sources := make(map[string]string, len(files))
	for _, f := range files {
		if err := w.Watch(f); err != nil {
			w.Close()
			return err
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		sources[abs] = f
	}

	w.OnChange = func(ctx context.Context, path string) error {
		source, ok := sources[path]
		if !ok {
			source = path
		}
		_, err := a.analyzeFile(ctx, source, multi)
		return err
	}
	w.OnError = func(path string, err error) {
		a.logger.Error("Re-analysis failed.", "path", path, "error", err)
	}

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthCheckServer(ctx, fmt.Sprintf(":%d", a.config.HealthcheckPort)); err != nil {
			w.Close()
			return err
		}
		defer a.closeHealthCheckServer(ctx)
	}

	a.logger.Info("👀 Watching schedules for changes.", "files", w.Files())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("Watch stopped.")
	return nil
}
