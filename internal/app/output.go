package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/render"
	"github.com/vk/serialgraph/internal/telemetry"
)

// emit writes the report to the output stream, the DOT file and the
// publisher, in that order.
func (a *App) emit(ctx context.Context, rep *render.Report, multi bool) (err error) {
	ctx, span := telemetry.Start(ctx, "render")
	defer func() { telemetry.End(span, err) }()
	logger := ctxlog.FromContext(ctx)

	if err := render.Write(a.outW, a.format, rep); err != nil {
		return err
	}

	if a.config.GraphOut != "" {
		out := graphOutPath(a.config.GraphOut, a.config.InputPath, rep.Source, multi)
		if err := writeDOTFile(out, rep); err != nil {
			return err
		}
		logger.Info("Precedence graph written.", "file", out)
	}

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, rep); err != nil {
			// A dashboard outage must not fail the analysis.
			logger.Warn("Failed to publish report.", "error", err)
		}
	}
	return nil
}

func writeDOTFile(path string, rep *render.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create graph output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph output: %w", err)
	}
	if err := render.WriteDOT(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// graphOutPath returns base unchanged for a single schedule. In directory
// mode the schedule's path relative to root is appended, so files with the
// same name in different subdirectories get distinct outputs:
// out/graph.dot + in/a/s1.csv (root in) gives out/graph-a_s1_csv.dot.
func graphOutPath(base, root, source string, multi bool) string {
	if !multi {
		return base
	}
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".dot"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	rel, err := filepath.Rel(root, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(source)
	}
	name := strings.NewReplacer("/", "_", ".", "_").Replace(filepath.ToSlash(rel))
	return fmt.Sprintf("%s-%s%s", stem, name, ext)
}
