package riskmodel

import (
	"errors"
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/trees"

	"github.com/abhisek/carescreen/internal/questionnaire"
)

var (
	// ErrFeatureArity is returned when a feature row has the wrong length.
	ErrFeatureArity = errors.New("wrong number of features")

	// ErrEmptyDataset is returned when training on a table with no rows.
	ErrEmptyDataset = errors.New("empty dataset")
)

const (
	classAttribute = "label"
	giniCriterion  = "gini"
)

// TreeConfig controls tree growth.
type TreeConfig struct {
	// Criterion is the impurity measure: "gini" or "entropy".
	Criterion string
	// MaxDepth limits the depth of the tree. -1 means unbounded.
	MaxDepth int64
}

// DefaultTreeConfig grows an unbounded CART tree with Gini impurity.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{Criterion: giniCriterion, MaxDepth: -1}
}

// classifier is the part of golearn's CART classifier the model uses.
type classifier interface {
	Fit(base.FixedDataGrid) error
	Predict(base.FixedDataGrid) []int64
	String() string
}

// Model is a trained decision tree. It is immutable after Train and safe
// for concurrent use.
type Model struct {
	tree     classifier
	names    []string
	width    int
	samples  int
	accuracy float64
}

// Train fits a CART tree on d. Features are named after the question keys
// when d has one column per question.
func Train(d Dataset, cfg TreeConfig) (*Model, error) {
	if d.Len() == 0 || len(d.Features) != d.Len() {
		return nil, ErrEmptyDataset
	}
	width := d.Width()
	for i, row := range d.Features {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: %w: got %d, want %d", i, ErrFeatureArity, len(row), width)
		}
	}
	if cfg.Criterion == "" {
		cfg.Criterion = giniCriterion
	}

	m := &Model{
		names:   featureNames(width),
		width:   width,
		samples: d.Len(),
	}
	grid, err := m.grid(d.Features, d.Labels)
	if err != nil {
		return nil, fmt.Errorf("build training grid: %w", err)
	}

	tree := trees.NewDecisionTreeClassifier(cfg.Criterion, cfg.MaxDepth, []int64{int64(LowerRisk), int64(HigherRisk)})
	if err := tree.Fit(grid); err != nil {
		return nil, fmt.Errorf("fit decision tree: %w", err)
	}
	m.tree = tree

	correct := 0
	for i, p := range tree.Predict(grid) {
		if Label(p) == d.Labels[i] {
			correct++
		}
	}
	m.accuracy = float64(correct) / float64(d.Len())
	return m, nil
}

func featureNames(width int) []string {
	if width == questionnaire.NumKeys {
		return questionnaire.KeyNames()
	}
	names := make([]string, width)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	return names
}

// grid lays rows out as golearn instances: one float attribute per feature
// and a float class attribute. labels may be nil for prediction.
func (m *Model) grid(rows [][]float64, labels []Label) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, m.width)
	for i, name := range m.names {
		specs[i] = inst.AddAttribute(base.NewFloatAttribute(name))
	}
	class := base.NewFloatAttribute(classAttribute)
	classSpec := inst.AddAttribute(class)
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, err
	}
	if err := inst.Extend(len(rows)); err != nil {
		return nil, err
	}

	for r, row := range rows {
		for i, v := range row {
			inst.Set(specs[i], r, base.PackFloatToBytes(v))
		}
		label := LowerRisk
		if labels != nil {
			label = labels[r]
		}
		inst.Set(classSpec, r, base.PackFloatToBytes(float64(label)))
	}
	return inst, nil
}

// Predict classifies one feature row.
func (m *Model) Predict(features []float64) (Label, error) {
	if len(features) != m.width {
		return LowerRisk, fmt.Errorf("%w: got %d, want %d", ErrFeatureArity, len(features), m.width)
	}
	grid, err := m.grid([][]float64{features}, nil)
	if err != nil {
		return LowerRisk, fmt.Errorf("build feature grid: %w", err)
	}
	out := m.tree.Predict(grid)
	if len(out) != 1 {
		return LowerRisk, fmt.Errorf("decision tree returned %d predictions for one row", len(out))
	}
	if Label(out[0]) == HigherRisk {
		return HigherRisk, nil
	}
	return LowerRisk, nil
}

// Width is the number of features Predict expects.
func (m *Model) Width() int { return m.width }

// Samples is the number of training rows.
func (m *Model) Samples() int { return m.samples }

// TrainingAccuracy is the share of training rows the tree reproduces.
func (m *Model) TrainingAccuracy() float64 { return m.accuracy }

// Describe renders the fitted tree as text.
func (m *Model) Describe() string {
	return m.tree.String()
}
