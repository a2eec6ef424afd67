package loader

import (
	"context"
	"fmt"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
	"github.com/xuri/excelize/v2"
)

// XLSXLoader reads grid schedules from Excel workbooks.
type XLSXLoader struct {
	sheet string
}

// NewXLSXLoader creates a loader reading the named sheet, or the first sheet
// when sheet is empty.
func NewXLSXLoader(sheet string) *XLSXLoader {
	return &XLSXLoader{sheet: sheet}
}

// Extensions implements Loader.
func (l *XLSXLoader) Extensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Load implements Loader.
func (l *XLSXLoader) Load(ctx context.Context, path string) (*schedule.Schedule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := l.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	ctxlog.FromContext(ctx).Debug("XLSX sheet read.", "path", path, "sheet", sheet, "rows", len(rows))

	return fromGrid(path, rows[0], rows[1:])
}

func (l *XLSXLoader) resolveSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in xlsx file")
	}
	if l.sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == l.sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (available: %v)", l.sheet, sheets)
}
