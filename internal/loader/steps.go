package loader

import (
	"sort"
	"strings"

	"github.com/vk/serialgraph/internal/schedule"
)

// stepCollector feeds declarative steps (hcl, yaml) into a builder. When the
// source declares its transactions, that declaration fixes the column order;
// otherwise transactions are declared in order of first appearance.
type stepCollector struct {
	b     *schedule.Builder
	order map[string]int
	auto  bool
}

func newStepCollector(source string, declared []string) (*stepCollector, error) {
	c := &stepCollector{
		b:     schedule.NewBuilder(source),
		order: make(map[string]int),
		auto:  len(declared) == 0,
	}
	for _, name := range declared {
		id, err := c.b.Declare(name)
		if err != nil {
			return nil, err
		}
		c.order[string(id)] = len(c.order)
	}
	return c, nil
}

// add appends one step. Cells are given in source order and re-sorted into
// column order.
func (c *stepCollector) add(cells []schedule.Cell) error {
	if c.auto {
		for _, cell := range cells {
			if c.b.Declared(cell.Txn) {
				continue
			}
			id, err := c.b.Declare(cell.Txn)
			if err != nil {
				return err
			}
			c.order[string(id)] = len(c.order)
		}
	}

	sort.SliceStable(cells, func(i, j int) bool {
		return c.rank(cells[i].Txn) < c.rank(cells[j].Txn)
	})
	return c.b.AppendRow(cells...)
}

// rank places undeclared names last; the builder rejects them.
func (c *stepCollector) rank(name string) int {
	if idx, ok := c.order[strings.TrimSpace(name)]; ok {
		return idx
	}
	return len(c.order)
}

func (c *stepCollector) build() *schedule.Schedule {
	return c.b.Build()
}
