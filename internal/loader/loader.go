package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/fsutil"
	"github.com/vk/serialgraph/internal/schedule"
)

// ErrUnsupportedFormat is returned for files whose extension no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported schedule format")

// formatHints suggest a conversion for common spreadsheet formats that have
// no loader. excelize reads only Office Open XML workbooks.
var formatHints = map[string]string{
	".ods": "save the sheet as .xlsx or .csv",
	".xls": "save the sheet as .xlsx or .csv",
}

// Loader reads one schedule file.
type Loader interface {
	// Load reads the file at path and returns its schedule.
	Load(ctx context.Context, path string) (*schedule.Schedule, error)
	// Extensions lists the lower-case file extensions, with leading dot,
	// this loader handles.
	Extensions() []string
}

// Options configures the default loaders.
type Options struct {
	// Sheet selects the worksheet of spreadsheet inputs. Empty means the
	// first sheet.
	Sheet string
}

// Registry dispatches files to loaders by extension.
type Registry struct {
	byExt map[string]Loader
}

// NewRegistry creates a registry with the given loaders. Later loaders win
// when two claim the same extension.
func NewRegistry(loaders ...Loader) *Registry {
	r := &Registry{byExt: make(map[string]Loader)}
	for _, l := range loaders {
		r.Register(l)
	}
	return r
}

// Default returns a registry with every built-in format.
func Default(opts Options) *Registry {
	return NewRegistry(
		NewXLSXLoader(opts.Sheet),
		NewCSVLoader(),
		NewHCLLoader(),
		NewYAMLLoader(),
	)
}

// Register adds a loader for all of its extensions.
func (r *Registry) Register(l Loader) {
	for _, ext := range l.Extensions() {
		r.byExt[strings.ToLower(ext)] = l
	}
}

// Extensions returns the supported extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// For returns the loader responsible for path.
func (r *Registry) For(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.byExt[ext]
	if !ok {
		if hint, found := formatHints[ext]; found {
			return nil, fmt.Errorf("%w: %q, %s (supported: %s)", ErrUnsupportedFormat, ext, hint, strings.Join(r.Extensions(), ", "))
		}
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(r.Extensions(), ", "))
	}
	return l, nil
}

// Load reads a single schedule file with the matching loader.
func (r *Registry) Load(ctx context.Context, path string) (*schedule.Schedule, error) {
	l, err := r.For(path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Loading schedule.", "path", path, "loader", fmt.Sprintf("%T", l))

	s, err := l.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// Discover expands path into the schedule files to analyze: a regular file is
// returned as is, a directory is searched recursively for supported files.
func (r *Registry) Discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		if _, err := r.For(path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, r.Extensions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schedule files found in %s", path)
	}
	return files, nil
}
