package learn

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

// separable returns a feature matrix where positives carry feature 0 and
// negatives carry feature 1, with confident marginals.
func separable() (*mat.Dense, []float64) {
	X := mat.NewDense(6, 2, []float64{
		1, 0,
		1, 0,
		1, 0,
		0, 1,
		0, 1,
		0, 1,
	})
	marginals := []float64{0.9, 0.9, 0.9, 0.1, 0.1, 0.1}
	return X, marginals
}

func TestNoiseAwareLogisticFit(t *testing.T) {
	X, marginals := separable()
	m := NewNoiseAwareLogistic(
		WithLogisticRate(0.5),
		WithLogisticEpochs(500),
		WithLogisticL1(0),
		WithLogisticL2(0),
		WithLogisticTol(1e-8),
	)
	if m.IsFitted() {
		t.Fatal("new model reports fitted")
	}

	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !m.IsFitted() {
		t.Fatal("model not fitted after Fit")
	}

	probs, err := m.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if probs[0] < 0.8 {
		t.Errorf("positive probability = %v, want > 0.8", probs[0])
	}
	if probs[3] > 0.2 {
		t.Errorf("negative probability = %v, want < 0.2", probs[3])
	}

	preds, err := m.Predict(X, 0.5)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want := []int{1, 1, 1, -1, -1, -1}
	if diff := cmp.Diff(want, preds); diff != "" {
		t.Errorf("Predict() mismatch (-want +got):\n%s", diff)
	}

	w := m.Weights()
	if w[0] <= 0 || w[1] >= 0 {
		t.Errorf("weights = %v, want positive for feature 0 and negative for feature 1", w)
	}
}

func TestNoiseAwareLogisticUndecidedMarginalsCarryNoSignal(t *testing.T) {
	// Marginals of exactly 0.5 produce a zero gradient, so the model
	// stays at its uninformative initialization.
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 0,
		0, 1,
		0, 1,
	})
	marginals := []float64{0.5, 0.5, 0.5, 0.5}

	m := NewNoiseAwareLogistic()
	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probs, err := m.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	for i, p := range probs {
		if math.Abs(p-0.5) > 1e-12 {
			t.Errorf("probs[%d] = %v, want 0.5", i, p)
		}
	}
}

func TestNoiseAwareLogisticL1ShrinksWeights(t *testing.T) {
	X, marginals := separable()

	plain := NewNoiseAwareLogistic(
		WithLogisticRate(0.1),
		WithLogisticEpochs(200),
		WithLogisticL1(0),
		WithLogisticL2(0),
	)
	if err := plain.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	shrunk := NewNoiseAwareLogistic(
		WithLogisticRate(0.1),
		WithLogisticEpochs(200),
		WithLogisticL1(0.5),
		WithLogisticL2(0),
	)
	if err := shrunk.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if math.Abs(shrunk.Weights()[0]) >= math.Abs(plain.Weights()[0]) {
		t.Errorf("L1 weight %v not smaller than unregularized weight %v",
			shrunk.Weights()[0], plain.Weights()[0])
	}
}

func TestNoiseAwareLogisticRebalance(t *testing.T) {
	// Four confident positives, two confident negatives and one undecided
	// row. Rebalancing trains on two of each and drops the undecided row.
	X := mat.NewDense(7, 2, []float64{
		1, 0,
		1, 0,
		1, 0,
		1, 0,
		0, 1,
		0, 1,
		1, 1,
	})
	marginals := []float64{0.9, 0.9, 0.9, 0.9, 0.1, 0.1, 0.5}

	m := NewNoiseAwareLogistic(WithRebalance(true), WithLogisticSeed(7))
	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if _, nSamples := m.state.GetDimensions(); nSamples != 4 {
		t.Errorf("trained on %d rows, want 4 after rebalancing", nSamples)
	}
}

func TestNoiseAwareLogisticRebalanceOneSided(t *testing.T) {
	// All marginals on one side: rebalancing cannot run and the fit uses
	// every row.
	X := mat.NewDense(3, 1, []float64{1, 1, 1})
	marginals := []float64{0.9, 0.8, 0.7}

	m := NewNoiseAwareLogistic(WithRebalance(true), WithLogisticSeed(7))
	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, nSamples := m.state.GetDimensions(); nSamples != 3 {
		t.Errorf("trained on %d rows, want all 3", nSamples)
	}
}

func TestNoiseAwareLogisticScore(t *testing.T) {
	X, marginals := separable()
	m := NewNoiseAwareLogistic(WithLogisticRate(0.5), WithLogisticEpochs(300), WithLogisticL1(0))
	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	report, err := m.Score(X, []int{1, 1, 1, -1, -1, -1}, 0.5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if report.Scores.F1 != 1.0 {
		t.Errorf("F1 = %v, want 1.0", report.Scores.F1)
	}
}

func TestNoiseAwareLogisticValidation(t *testing.T) {
	m := NewNoiseAwareLogistic()
	X, marginals := separable()

	if err := m.Fit(&mat.Dense{}, nil); err == nil {
		t.Error("expected error for empty matrix")
	}
	if err := m.Fit(X, marginals[:3]); err == nil {
		t.Error("expected error for marginals length mismatch")
	}
	if err := m.Fit(X, []float64{0.9, 0.9, 0.9, 0.1, 0.1, 1.5}); err == nil {
		t.Error("expected error for marginal out of range")
	}

	if _, err := m.PredictProba(X); err == nil {
		t.Error("expected not-fitted error from PredictProba")
	}

	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := m.PredictProba(mat.NewDense(1, 3, []float64{1, 0, 0})); err == nil {
		t.Error("expected dimension error for mismatched feature count")
	}
	if _, err := m.Predict(X, 1.5); err == nil {
		t.Error("expected error for threshold out of range")
	}
}

func TestNoiseAwareLogisticSaveLoad(t *testing.T) {
	X, marginals := separable()
	m := NewNoiseAwareLogistic(WithLogisticRate(0.5), WithLogisticEpochs(100), WithLogisticL1(0))

	if err := m.Save(filepath.Join(t.TempDir(), "unfitted.gob")); err == nil {
		t.Error("expected not-fitted error from Save")
	}

	if err := m.Fit(X, marginals); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "logistic.gob")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewNoiseAwareLogistic()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.IsFitted() {
		t.Fatal("loaded model not fitted")
	}

	want, err := m.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	got, err := loaded.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() after load error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("probabilities changed across save/load (-want +got):\n%s", diff)
	}
	if loaded.Intercept() != m.Intercept() {
		t.Errorf("intercept changed across save/load: %v != %v", loaded.Intercept(), m.Intercept())
	}
}
