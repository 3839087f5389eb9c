package estimator

import (
	"slices"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
)

// ColumnSelectorName is the registry name of ColumnSelector.
const ColumnSelectorName = "column_selector"

// ColumnSelector keeps the named columns, in the configured order.
type ColumnSelector struct {
	columns []string
}

// NewColumnSelector creates a selector keeping columns.
func NewColumnSelector(columns ...string) *ColumnSelector {
	return &ColumnSelector{columns: slices.Clone(columns)}
}

// Fit checks that every selected column is present.
func (c *ColumnSelector) Fit(x domain.Features, _ []int) error {
	_, err := c.Transform(domain.Features{Columns: x.Columns})
	return err
}

// Transform implements ports.Transformer.
func (c *ColumnSelector) Transform(x domain.Features) (domain.Features, error) {
	return x.Select(c.columns)
}

// Clone implements ports.Transformer.
func (c *ColumnSelector) Clone() ports.Transformer {
	return NewColumnSelector(c.columns...)
}

// Snapshot implements ports.TransformerSnapshotter. The selector has no fitted state.
func (c *ColumnSelector) Snapshot() ports.Transformer {
	return NewColumnSelector(c.columns...)
}

// SetParams accepts "columns", a list of column names.
func (c *ColumnSelector) SetParams(params domain.Params) error {
	for _, k := range params.Keys() {
		if k != "columns" {
			return unknownParam(ColumnSelectorName, k, "columns")
		}
		columns, ok := toStrings(params[k])
		if !ok {
			return invalidParam(ColumnSelectorName, k, params[k], "a list of column names")
		}
		c.columns = columns
	}
	return nil
}

// Params implements ports.Configurable.
func (c *ColumnSelector) Params() domain.Params {
	return domain.Params{"columns": slices.Clone(c.columns)}
}

// Describe implements ports.Describer.
func (c *ColumnSelector) Describe() map[string]any {
	return map[string]any{"name": ColumnSelectorName, "params": c.Params()}
}
