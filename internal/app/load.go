package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/precedence"
	"github.com/vk/serialgraph/internal/render"
	"github.com/vk/serialgraph/internal/schedule"
	"github.com/vk/serialgraph/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// analyzeFile runs the whole pipeline for one schedule file. multi is set in
// directory mode, where each DOT file gets a per-schedule suffix.
func (a *App) analyzeFile(ctx context.Context, path string, multi bool) (rep *render.Report, err error) {
	runID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "run_id", runID, "path", path)

	ctx, span := telemetry.Start(ctx, "analyze",
		attribute.String("run_id", runID),
		attribute.String("path", path),
	)
	defer func() { telemetry.End(span, err) }()

	s, err := a.loadSchedule(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := precedence.Analyze(ctx, s, precedence.Options{CycleLimit: a.config.CycleLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	span.SetAttributes(
		attribute.String("verdict", res.Verdict.String()),
		attribute.Int("transactions", res.Graph.NodeCount()),
		attribute.Int("edges", res.Graph.EdgeCount()),
	)
	logger.Info("Schedule analyzed.",
		"verdict", res.Verdict.String(),
		"transactions", res.Graph.NodeCount(),
		"events", len(s.Events),
		"edges", res.Graph.EdgeCount(),
	)

	rep = render.NewReport(res, runID)
	if err := a.emit(ctx, rep, multi); err != nil {
		return nil, err
	}
	return rep, nil
}

func (a *App) loadSchedule(ctx context.Context, path string) (s *schedule.Schedule, err error) {
	ctx, span := telemetry.Start(ctx, "load", attribute.String("path", path))
	defer func() { telemetry.End(span, err) }()

	s, err = a.loaders.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("transactions", len(s.Transactions)),
		attribute.Int("events", len(s.Events)),
	)
	ctxlog.FromContext(ctx).Debug("Schedule loaded.", "transactions", len(s.Transactions), "events", len(s.Events), "rows", s.RowCount)
	return s, nil
}
