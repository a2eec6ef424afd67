package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads declarative schedules written in YAML:
//
//	transactions: [T1, T2]
//	steps:
//	  - T1: R(x)
//	  - T2: W(x)
//	    T1: R(y)
//
// Mapping key order is kept, so without a transactions list the columns
// follow first appearance.
type YAMLLoader struct{}

// NewYAMLLoader creates a YAML schedule loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlRoot struct {
	Transactions []string    `yaml:"transactions"`
	Steps        []yaml.Node `yaml:"steps"`
}

// Extensions implements Loader.
func (l *YAMLLoader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load implements Loader.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*schedule.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml: %w", err)
	}

	var root yamlRoot
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("YAML schedule decoded.", "path", path, "transactions", len(root.Transactions), "steps", len(root.Steps))

	c, err := newStepCollector(path, root.Transactions)
	if err != nil {
		return nil, err
	}
	for i := range root.Steps {
		cells, err := yamlStepCells(&root.Steps[i])
		if err != nil {
			return nil, fmt.Errorf("step %d (line %d): %w", i+1, root.Steps[i].Line, err)
		}
		if err := c.add(cells); err != nil {
			return nil, err
		}
	}
	return c.build(), nil
}

func yamlStepCells(n *yaml.Node) ([]schedule.Cell, error) {
	switch {
	case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return nil, nil
	case n.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("step must be a mapping of transaction to operation")
	}

	cells := make([]schedule.Cell, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("transaction %s: operation must be a scalar such as R(x)", key.Value)
		}
		if value.Tag == "!!null" {
			continue
		}
		cells = append(cells, schedule.Cell{Txn: key.Value, Token: value.Value})
	}
	return cells, nil
}
