package loader

import (
	"fmt"
	"strings"

	"github.com/vk/serialgraph/internal/schedule"
)

// fromGrid converts a header row plus data rows into a schedule. Trailing
// blank header cells are ignored; a blank header in the middle is an error.
func fromGrid(source string, header []string, rows [][]string) (*schedule.Schedule, error) {
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("header row has no transaction names")
	}

	b := schedule.NewBuilder(source)
	for i, name := range header {
		if _, err := b.Declare(name); err != nil {
			return nil, fmt.Errorf("header column %d: %w", i+1, err)
		}
	}

	for r, row := range rows {
		cells := make([]schedule.Cell, 0, len(header))
		for i, value := range row {
			if i >= len(header) {
				if strings.TrimSpace(value) != "" {
					return nil, fmt.Errorf("data row %d: value %q in column %d has no transaction header", r+1, value, i+1)
				}
				continue
			}
			cells = append(cells, schedule.Cell{Txn: header[i], Token: value})
		}
		if err := b.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
