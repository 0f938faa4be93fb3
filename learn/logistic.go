package learn

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/weaksignal/lfkit/core/model"
	"github.com/weaksignal/lfkit/metrics"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

// NoiseAwareLogistic is a logistic regression trained against marginal
// probabilities instead of hard labels. The gradient of the noise-aware
// loss is X^T (sigmoid(Xw+b) - p) / n plus the regularization terms, so
// a candidate with marginal 0.5 contributes no signal and a confident
// marginal pulls the decision boundary exactly as a hard label would.
type NoiseAwareLogistic struct {
	state  *model.StateManager
	logger log.Logger

	rate      float64
	epochs    int
	l1        float64
	l2        float64
	tol       float64
	seed      int64
	rebalance bool
	rand      *rand.Rand

	weights   []float64
	bias      float64
	nFeatures int
}

// LogisticOption configures a NoiseAwareLogistic.
type LogisticOption func(*NoiseAwareLogistic)

// WithLogisticRate sets the learning rate.
func WithLogisticRate(rate float64) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.rate = rate
	}
}

// WithLogisticEpochs sets the number of gradient descent epochs.
func WithLogisticEpochs(epochs int) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.epochs = epochs
	}
}

// WithLogisticL1 sets the L1 penalty on the weights.
func WithLogisticL1(l1 float64) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.l1 = l1
	}
}

// WithLogisticL2 sets the L2 penalty on the weights.
func WithLogisticL2(l2 float64) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.l2 = l2
	}
}

// WithLogisticTol sets the convergence tolerance on the largest gradient
// component.
func WithLogisticTol(tol float64) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.tol = tol
	}
}

// WithLogisticSeed sets the random seed used for rebalancing. A negative
// seed selects a nondeterministic source.
func WithLogisticSeed(seed int64) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.seed = seed
		if seed >= 0 {
			m.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// WithRebalance controls class rebalancing. When enabled, Fit subsamples
// the larger of the two sides of the marginals==0.5 boundary so both
// sides train with equal mass. Candidates with marginal exactly 0.5 are
// dropped from a rebalanced fit.
func WithRebalance(enabled bool) LogisticOption {
	return func(m *NoiseAwareLogistic) {
		m.rebalance = enabled
	}
}

// NewNoiseAwareLogistic builds a model with the pipeline defaults:
// learning rate 0.01, L1 1e-3, L2 1e-5, 100 epochs.
func NewNoiseAwareLogistic(opts ...LogisticOption) *NoiseAwareLogistic {
	m := &NoiseAwareLogistic{
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("learn"),
		rate:   0.01,
		epochs: 100,
		l1:     1e-3,
		l2:     1e-5,
		tol:    1e-4,
		seed:   -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rand == nil {
		m.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return m
}

// IsFitted reports whether the model has been trained.
func (m *NoiseAwareLogistic) IsFitted() bool {
	return m.state.IsFitted()
}

// Reset returns the model to its untrained state.
func (m *NoiseAwareLogistic) Reset() {
	m.state.Reset()
	m.weights = nil
	m.bias = 0
	m.nFeatures = 0
}

// Weights returns a copy of the learned feature weights.
func (m *NoiseAwareLogistic) Weights() []float64 {
	out := make([]float64, len(m.weights))
	copy(out, m.weights)
	return out
}

// Intercept returns the learned bias term.
func (m *NoiseAwareLogistic) Intercept() float64 {
	return m.bias
}

// Fit trains the model on a feature matrix and per-row marginals by full
// batch gradient descent.
func (m *NoiseAwareLogistic) Fit(X mat.Matrix, marginals []float64) error {
	start := time.Now()

	n, d := X.Dims()
	if n == 0 || d == 0 {
		return errors.NewValidationError("X", "feature matrix is empty", nil)
	}
	if len(marginals) != n {
		return errors.NewDimensionError("NoiseAwareLogistic.Fit", n, len(marginals), 0)
	}
	for _, p := range marginals {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return errors.NewValidationError("marginals", "marginals must be in [0, 1]", p)
		}
	}

	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	if m.rebalance {
		rows = m.rebalanceRows(marginals, rows)
	}
	nRows := len(rows)

	w := make([]float64, d)
	bias := 0.0
	gradW := make([]float64, d)

	converged := false
	epochsRun := 0
	lastGrad := math.Inf(1)
	for epoch := 0; epoch < m.epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for _, i := range rows {
			z := bias
			for j := 0; j < d; j++ {
				if x := X.At(i, j); x != 0 {
					z += x * w[j]
				}
			}
			r := sigmoid(z) - marginals[i]
			gradB += r
			for j := 0; j < d; j++ {
				if x := X.At(i, j); x != 0 {
					gradW[j] += r * x
				}
			}
		}

		inv := 1 / float64(nRows)
		gradB *= inv
		maxGrad := math.Abs(gradB)
		for j := 0; j < d; j++ {
			gj := gradW[j]*inv + m.l2*w[j] + m.l1*sign(w[j])
			w[j] -= m.rate * gj
			if a := math.Abs(gj); a > maxGrad {
				maxGrad = a
			}
		}
		bias -= m.rate * gradB

		if err := errors.CheckNumericalStability("NoiseAwareLogistic.Fit", w, epoch); err != nil {
			return err
		}

		epochsRun = epoch + 1
		lastGrad = maxGrad
		if maxGrad < m.tol {
			converged = true
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("NoiseAwareLogistic", m.epochs,
			fmt.Sprintf("max gradient %.3g did not reach tolerance %.3g", lastGrad, m.tol)))
	}

	m.weights = w
	m.bias = bias
	m.nFeatures = d
	m.state.SetDimensions(d, nRows)
	m.state.SetFitted()

	m.logger.Info("discriminative model trained",
		log.SamplesKey, nRows,
		log.FeaturesKey, d,
		log.LearningRateKey, m.rate,
		log.EpochKey, epochsRun,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// rebalanceRows subsamples the majority side so positives (marginal above
// 0.5) and negatives (below 0.5) contribute equally. One-sided marginals
// disable rebalancing for the fit.
func (m *NoiseAwareLogistic) rebalanceRows(marginals []float64, rows []int) []int {
	var pos, neg []int
	for _, i := range rows {
		switch {
		case marginals[i] > 0.5:
			pos = append(pos, i)
		case marginals[i] < 0.5:
			neg = append(neg, i)
		}
	}
	if len(pos) == 0 || len(neg) == 0 {
		m.logger.Warn("rebalancing skipped: marginals are one-sided",
			log.SamplesKey, len(rows),
		)
		return rows
	}

	m.rand.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })
	m.rand.Shuffle(len(neg), func(i, j int) { neg[i], neg[j] = neg[j], neg[i] })

	k := len(pos)
	if len(neg) < k {
		k = len(neg)
	}
	balanced := make([]int, 0, 2*k)
	balanced = append(balanced, pos[:k]...)
	balanced = append(balanced, neg[:k]...)
	return balanced
}

// PredictProba returns the probability of the positive class for each row.
func (m *NoiseAwareLogistic) PredictProba(X mat.Matrix) ([]float64, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("NoiseAwareLogistic", "PredictProba")
	}

	n, d := X.Dims()
	if d != m.nFeatures {
		return nil, errors.NewDimensionError("NoiseAwareLogistic.PredictProba", m.nFeatures, d, 1)
	}

	probs := make([]float64, n)
	for i := 0; i < n; i++ {
		z := m.bias
		for j := 0; j < d; j++ {
			if x := X.At(i, j); x != 0 {
				z += x * m.weights[j]
			}
		}
		probs[i] = sigmoid(z)
	}
	return probs, nil
}

// Predict thresholds the positive-class probability at b and returns +1
// or -1 per row.
func (m *NoiseAwareLogistic) Predict(X mat.Matrix, b float64) ([]int, error) {
	if math.IsNaN(b) || b < 0 || b > 1 {
		return nil, errors.NewValidationError("b", "decision threshold must be in [0, 1]", b)
	}

	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}

	preds := make([]int, len(probs))
	for i, p := range probs {
		if p > b {
			preds[i] = 1
		} else {
			preds[i] = -1
		}
	}
	return preds, nil
}

// Score evaluates the model against gold labels at threshold b. Rows with
// gold label 0 are skipped.
func (m *NoiseAwareLogistic) Score(X mat.Matrix, gold []int, b float64) (*metrics.MentionReport, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return metrics.MentionScore(probs, gold, b)
}

type logisticState struct {
	Weights   []float64
	Bias      float64
	NFeatures int
	NSamples  int
}

// Save writes the fitted model state to a gob file.
func (m *NoiseAwareLogistic) Save(path string) error {
	if !m.state.IsFitted() {
		return errors.NewNotFittedError("NoiseAwareLogistic", "Save")
	}

	_, nSamples := m.state.GetDimensions()
	snap := &logisticState{
		Weights:   m.weights,
		Bias:      m.bias,
		NFeatures: m.nFeatures,
		NSamples:  nSamples,
	}
	if err := model.SaveModel(snap, path); err != nil {
		return errors.Wrap(err, "learn: failed to save discriminative model")
	}
	return nil
}

// Load restores a model previously written by Save.
func (m *NoiseAwareLogistic) Load(path string) error {
	var snap logisticState
	if err := model.LoadModel(&snap, path); err != nil {
		return errors.Wrap(err, "learn: failed to load discriminative model")
	}
	if snap.NFeatures <= 0 || len(snap.Weights) != snap.NFeatures {
		return errors.NewValidationError("path", "corrupt discriminative model state", path)
	}

	m.weights = snap.Weights
	m.bias = snap.Bias
	m.nFeatures = snap.NFeatures
	m.state.SetDimensions(snap.NFeatures, snap.NSamples)
	m.state.SetFitted()
	return nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
