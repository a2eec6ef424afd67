package loader

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/schedule"
	"github.com/zclconf/go-cty/cty"
)

// HCLLoader reads declarative schedules written in HCL:
//
//	transactions = ["T1", "T2"]
//
//	step {
//	  T1 = "R(x)"
//	}
//	step {
//	  T2 = "W(x)"
//	}
type HCLLoader struct{}

// NewHCLLoader creates an HCL schedule loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// hclRoot is the top-level structure of a schedule file.
type hclRoot struct {
	Transactions []string   `hcl:"transactions,optional"`
	Steps        []*hclStep `hcl:"step,block"`
}

// hclStep holds one time step; its attributes are transaction = token pairs.
type hclStep struct {
	Body hcl.Body `hcl:",remain"`
}

// Extensions implements Loader.
func (l *HCLLoader) Extensions() []string {
	return []string{".hcl"}
}

// Load implements Loader.
func (l *HCLLoader) Load(ctx context.Context, path string) (*schedule.Schedule, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	logger.Debug("HCL schedule decoded.", "path", path, "transactions", len(root.Transactions), "steps", len(root.Steps))

	c, err := newStepCollector(path, root.Transactions)
	if err != nil {
		return nil, err
	}
	for i, step := range root.Steps {
		cells, err := hclStepCells(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := c.add(cells); err != nil {
			return nil, err
		}
	}
	return c.build(), nil
}

// hclStepCells evaluates a step's attributes, returned in source order.
func hclStepCells(step *hclStep) ([]schedule.Cell, error) {
	attrs, diags := step.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	cells := make([]schedule.Cell, 0, len(ordered))
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if val.IsNull() {
			continue
		}
		if !val.IsKnown() || !val.Type().Equals(cty.String) {
			return nil, fmt.Errorf("transaction %s: operation must be a string such as \"R(x)\", got %s", attr.Name, val.Type().FriendlyName())
		}
		cells = append(cells, schedule.Cell{Txn: attr.Name, Token: val.AsString()})
	}
	return cells, nil
}
