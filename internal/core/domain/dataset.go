package domain

import (
	"math"
	"slices"

	"go.trai.ch/zerr"
)

// Features is a row-major numeric feature matrix with named columns.
// Missing values are represented as NaN.
type Features struct {
	Columns []string
	Rows    [][]float64
}

// Len returns the number of rows.
func (f Features) Len() int {
	return len(f.Rows)
}

// Width returns the number of columns.
func (f Features) Width() int {
	return len(f.Columns)
}

// Clone returns a deep copy of the matrix.
func (f Features) Clone() Features {
	rows := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		rows[i] = slices.Clone(row)
	}
	return Features{Columns: slices.Clone(f.Columns), Rows: rows}
}

// Take returns the rows at the given indices, in index order. Rows are shared, not copied.
func (f Features) Take(indices []int) Features {
	rows := make([][]float64, len(indices))
	for i, idx := range indices {
		rows[i] = f.Rows[idx]
	}
	return Features{Columns: f.Columns, Rows: rows}
}

// ColumnIndex returns the position of a named column, or -1.
func (f Features) ColumnIndex(name string) int {
	return slices.Index(f.Columns, name)
}

// Select returns a copy restricted to the named columns, in the order given.
func (f Features) Select(columns []string) (Features, error) {
	positions := make([]int, len(columns))
	for i, name := range columns {
		pos := f.ColumnIndex(name)
		if pos < 0 {
			return Features{}, zerr.With(zerr.Wrap(ErrMissingColumn, "feature column "+name+" is not present"), "column", name)
		}
		positions[i] = pos
	}

	rows := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		out := make([]float64, len(positions))
		for j, pos := range positions {
			out[j] = row[pos]
		}
		rows[i] = out
	}
	return Features{Columns: slices.Clone(columns), Rows: rows}, nil
}

// Column returns a copy of one column's values.
func (f Features) Column(j int) []float64 {
	out := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[j]
	}
	return out
}

// CheckFinite reports the first column holding a NaN or Inf value.
func (f Features) CheckFinite() error {
	for _, row := range f.Rows {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return zerr.With(zerr.Wrap(ErrNonFiniteFeatures, "column "+f.Columns[j]+" holds a non-finite value"), "column", f.Columns[j])
			}
		}
	}
	return nil
}

// Dataset is an in-memory tabular data set with isolated id, label and feature columns.
type Dataset struct {
	IDs      []string
	Features Features
	// Labels is nil for unlabeled data sets.
	Labels []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.IDs)
}

// HasLabels reports whether the data set carries labels.
func (d *Dataset) HasLabels() bool {
	return d.Labels != nil
}

// Subset returns the samples at the given indices. Feature rows are shared with d.
func (d *Dataset) Subset(indices []int) *Dataset {
	ids := make([]string, len(indices))
	for i, idx := range indices {
		ids[i] = d.IDs[idx]
	}
	var labels []int
	if d.Labels != nil {
		labels = make([]int, len(indices))
		for i, idx := range indices {
			labels[i] = d.Labels[idx]
		}
	}
	return &Dataset{IDs: ids, Features: d.Features.Take(indices), Labels: labels}
}

// CheckBinaryLabels verifies that every label is 0 or 1.
func (d *Dataset) CheckBinaryLabels() error {
	if d.Labels == nil {
		return zerr.Wrap(ErrNonBinaryLabels, "data set has no label column")
	}
	for i, y := range d.Labels {
		if y != 0 && y != 1 {
			return zerr.With(zerr.With(zerr.Wrap(ErrNonBinaryLabels, "sample "+d.IDs[i]+" has a label outside {0,1}"), "id", d.IDs[i]), "label", y)
		}
	}
	return nil
}

// PositiveRate returns the proportion of samples labelled 1.
func (d *Dataset) PositiveRate() float64 {
	if len(d.Labels) == 0 {
		return 0
	}
	positives := 0
	for _, y := range d.Labels {
		positives += y
	}
	return float64(positives) / float64(len(d.Labels))
}

// LoadOptions selects the columns a loader isolates from a delimited file.
type LoadOptions struct {
	Delimiter rune
	IDColumn  string
	// LabelColumn is empty for unlabeled files.
	LabelColumn string
	// FeatureColumns restricts and orders the feature columns. Nil keeps all remaining columns.
	FeatureColumns []string
}

// Clone returns a deep copy of the options.
func (o LoadOptions) Clone() LoadOptions {
	o.FeatureColumns = slices.Clone(o.FeatureColumns)
	return o
}

// DataSource references a delimited file together with the options used to load it.
type DataSource struct {
	Path    string
	Options LoadOptions
}

// Clone returns a deep copy of the source.
func (s DataSource) Clone() DataSource {
	return DataSource{Path: s.Path, Options: s.Options.Clone()}
}

// Describe returns a JSON-friendly view for run manifests.
func (s DataSource) Describe() map[string]any {
	out := map[string]any{
		"path":      s.Path,
		"delimiter": string(s.Options.Delimiter),
		"id_column": s.Options.IDColumn,
	}
	if s.Options.LabelColumn != "" {
		out["label_column"] = s.Options.LabelColumn
	}
	if s.Options.FeatureColumns != nil {
		out["feature_columns"] = slices.Clone(s.Options.FeatureColumns)
	} else {
		out["feature_columns"] = "all"
	}
	return out
}
