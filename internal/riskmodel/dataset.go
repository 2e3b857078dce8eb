// Package riskmodel is the placeholder risk classifier: a CART decision tree
// fit once on a synthetic table of random yes/no answers and random labels.
// It carries no predictive signal.
package riskmodel

import (
	"math/rand/v2"

	"github.com/abhisek/carescreen/internal/questionnaire"
)

// Label is the classifier output.
type Label int

const (
	LowerRisk  Label = 0
	HigherRisk Label = 1
)

func (l Label) String() string {
	if l == HigherRisk {
		return "higher"
	}
	return "lower"
}

const (
	// DefaultSeed and DefaultRows describe the process-wide model.
	DefaultSeed uint64 = 42
	DefaultRows        = 100
)

// Dataset is a training table: one feature row and one label per sample.
type Dataset struct {
	Features [][]float64
	Labels   []Label
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Labels)
}

// Width returns the number of features per row, or 0 for an empty table.
func (d Dataset) Width() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Synthesize builds rows samples of questionnaire.NumKeys independent
// uniform {0,1} features and an independent uniform {0,1} label. The same
// seed always yields the same table.
func Synthesize(rows int, seed uint64) Dataset {
	if rows < 0 {
		rows = 0
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	d := Dataset{
		Features: make([][]float64, rows),
		Labels:   make([]Label, rows),
	}
	for i := range rows {
		row := make([]float64, questionnaire.NumKeys)
		for j := range row {
			row[j] = float64(rng.IntN(2))
		}
		d.Features[i] = row
	}
	for i := range rows {
		d.Labels[i] = Label(rng.IntN(2))
	}
	return d
}
