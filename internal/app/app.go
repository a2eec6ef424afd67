package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/serialgraph/internal/loader"
	"github.com/vk/serialgraph/internal/render"
)

// ErrNotSerializable is returned by Run in strict mode when at least one
// schedule is not conflict-serializable.
var ErrNotSerializable = errors.New("schedule is not conflict serializable")

// Publisher receives every report produced by a run.
type Publisher interface {
	Publish(ctx context.Context, r *render.Report) error
	Close() error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	format  render.Format
	loaders *loader.Registry

	publisher  Publisher
	httpServer *http.Server
	healthAddr string
}

// Option customises an App at construction time.
type Option func(*App)

// WithPublisher replaces the socket.io publisher that would otherwise be
// dialled from Config.PublishURL.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// WithLoaders replaces the default loader registry.
func WithLoaders(r *loader.Registry) Option {
	return func(a *App) { a.loaders = r }
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW, so machine-readable output is never mixed with log lines.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	// NewConfig has already validated the format.
	format, _ := render.ParseFormat(cfg.Format)

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		format:  format,
		loaders: loader.Default(loader.Options{Sheet: cfg.Sheet}),
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("Loaders registered.", "extensions", a.loaders.Extensions())
	return a
}
