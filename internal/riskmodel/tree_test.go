package riskmodel

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/carescreen/internal/questionnaire"
)

func TestSynthesize_Deterministic(t *testing.T) {
	a := Synthesize(100, 42)
	b := Synthesize(100, 42)
	if a.Len() != 100 || a.Width() != questionnaire.NumKeys {
		t.Fatalf("shape = %dx%d", a.Len(), a.Width())
	}
	for i := range a.Features {
		for j := range a.Features[i] {
			if a.Features[i][j] != b.Features[i][j] {
				t.Fatalf("feature[%d][%d] differs", i, j)
			}
		}
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("label[%d] differs", i)
		}
	}
}

func TestSynthesize_BinaryValues(t *testing.T) {
	d := Synthesize(50, 7)
	for _, row := range d.Features {
		for _, v := range row {
			if v != 0 && v != 1 {
				t.Fatalf("non-binary feature %v", v)
			}
		}
	}
	for _, l := range d.Labels {
		if l != LowerRisk && l != HigherRisk {
			t.Fatalf("label %v", l)
		}
	}
}

func TestTrain_Empty(t *testing.T) {
	_, err := Train(Dataset{}, DefaultTreeConfig())
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestTrain_RaggedRows(t *testing.T) {
	d := Dataset{
		Features: [][]float64{{0, 1}, {1}},
		Labels:   []Label{0, 1},
	}
	_, err := Train(d, DefaultTreeConfig())
	if !errors.Is(err, ErrFeatureArity) {
		t.Errorf("expected ErrFeatureArity, got %v", err)
	}
}

func TestTrain_FitsConsistentData(t *testing.T) {
	// Label is x0; x1 and x2 are noise.
	d := Dataset{
		Features: [][]float64{{0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {1, 0, 0}},
		Labels:   []Label{0, 0, 0, 1, 1, 1},
	}
	m, err := Train(d, DefaultTreeConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m.TrainingAccuracy() != 1 {
		t.Errorf("training accuracy = %v, want 1", m.TrainingAccuracy())
	}
	for i, row := range d.Features {
		got, err := m.Predict(row)
		if err != nil {
			t.Fatal(err)
		}
		if got != d.Labels[i] {
			t.Errorf("row %v: got %v, want %v", row, got, d.Labels[i])
		}
	}
}

func TestPredict_Arity(t *testing.T) {
	m := Default()
	for _, n := range []int{0, 9, 11} {
		_, err := m.Predict(make([]float64, n))
		if !errors.Is(err, ErrFeatureArity) {
			t.Errorf("len %d: expected ErrFeatureArity, got %v", n, err)
		}
	}
}

func TestDefault_Deterministic(t *testing.T) {
	m := Default()
	if m != Default() {
		t.Fatal("Default returned different models")
	}
	if m.Samples() != DefaultRows || m.Width() != questionnaire.NumKeys {
		t.Errorf("samples=%d width=%d", m.Samples(), m.Width())
	}

	// A fresh model trained the same way agrees on every input.
	again, err := Train(Synthesize(DefaultRows, DefaultSeed), DefaultTreeConfig())
	if err != nil {
		t.Fatal(err)
	}
	for mask := 0; mask < 1<<questionnaire.NumKeys; mask += 37 {
		x := make([]float64, questionnaire.NumKeys)
		for i := range x {
			if mask&(1<<i) != 0 {
				x[i] = 1
			}
		}
		a, _ := m.Predict(x)
		b, _ := again.Predict(x)
		if a != b {
			t.Fatalf("mask %b: %v != %v", mask, a, b)
		}
	}
}

func TestDefault_ConcurrentPredict(t *testing.T) {
	m := Default()
	zero := make([]float64, questionnaire.NumKeys)
	want, err := m.Predict(zero)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				got, err := Default().Predict(zero)
				if err != nil || got != want {
					t.Errorf("got %v, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestConfigure_AfterTraining(t *testing.T) {
	Default()
	if err := Configure(10, 1); err == nil {
		t.Error("expected Configure to fail after Default")
	}
}

func TestDescribe(t *testing.T) {
	if out := Default().Describe(); strings.TrimSpace(out) == "" {
		t.Error("empty tree description")
	}
}

func TestDefault_TrainingAccuracy(t *testing.T) {
	// The labels are random, so only a grown tree gets well above chance.
	acc := Default().TrainingAccuracy()
	if acc <= 0.5 || acc > 1 {
		t.Errorf("training accuracy = %v", acc)
	}
}

func TestTrain_FeatureNames(t *testing.T) {
	if got := featureNames(questionnaire.NumKeys); got[0] != string(questionnaire.HistoryDiagnosed) {
		t.Errorf("names[0] = %q", got[0])
	}
	if got := featureNames(2); got[1] != "x1" {
		t.Errorf("names = %v", got)
	}
}

func TestLabelString(t *testing.T) {
	if HigherRisk.String() != "higher" || LowerRisk.String() != "lower" {
		t.Errorf("got %q / %q", HigherRisk, LowerRisk)
	}
}
