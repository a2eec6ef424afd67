package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
)

// CSVLoader reads grid schedules from comma- or tab-separated text.
type CSVLoader struct{}

// NewCSVLoader creates a CSV/TSV loader.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Extensions implements Loader.
func (l *CSVLoader) Extensions() []string {
	return []string{".csv", ".tsv"}
}

// Load implements Loader. Lines starting with '#' are comments and rows may
// have fewer fields than the header.
func (l *CSVLoader) Load(ctx context.Context, path string) (*schedule.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		r.Comma = '\t'
	} else {
		// Leading space trimming would swallow empty tab-separated fields.
		r.TrimLeadingSpace = true
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}
	ctxlog.FromContext(ctx).Debug("CSV records read.", "path", path, "records", len(records))

	return fromGrid(path, records[0], records[1:])
}
