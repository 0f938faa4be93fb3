// Package learn trains models on the output of labeling functions.
//
// The generative side estimates per-LF accuracies from a label matrix
// without gold labels and turns the noisy votes into per-candidate
// marginal probabilities. The discriminative side fits a logistic
// regression against those marginals so that predictions generalize
// beyond the candidates the labeling functions cover.
package learn

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/weaksignal/lfkit/core/model"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

const accuracyFloor = 1e-3

// GenerativeModel estimates labeling function accuracies from their votes
// alone and produces marginal probabilities for candidates.
//
// Each labeling function carries a log-odds accuracy weight. Training
// alternates between scoring every row with the current weights and moving
// each weight toward the log-odds of the accuracy implied by those scores.
// Labeling functions connected by a dependency are grouped, and a group's
// votes are averaged rather than summed so duplicated signals do not
// double-count.
type GenerativeModel struct {
	state  *model.StateManager
	logger log.Logger

	epochs     int
	stepSize   float64
	decay      float64
	l2         float64
	initAcc    float64
	tol        float64
	propensity bool

	weights []float64
	groups  []int
	numLFs  int
}

// GenerativeOption configures a GenerativeModel.
type GenerativeOption func(*GenerativeModel)

// WithGenEpochs sets the number of training epochs.
func WithGenEpochs(epochs int) GenerativeOption {
	return func(g *GenerativeModel) {
		g.epochs = epochs
	}
}

// WithGenStepSize sets the initial step size. A non-positive value selects
// the default of 0.1 divided by the number of rows at fit time.
func WithGenStepSize(step float64) GenerativeOption {
	return func(g *GenerativeModel) {
		g.stepSize = step
	}
}

// WithGenDecay sets the multiplicative step size decay per epoch.
func WithGenDecay(decay float64) GenerativeOption {
	return func(g *GenerativeModel) {
		g.decay = decay
	}
}

// WithGenL2 sets the L2 penalty on the accuracy weights.
func WithGenL2(reg float64) GenerativeOption {
	return func(g *GenerativeModel) {
		g.l2 = reg
	}
}

// WithGenInitAccuracy sets the initial log-odds accuracy weight assigned
// to every labeling function.
func WithGenInitAccuracy(acc float64) GenerativeOption {
	return func(g *GenerativeModel) {
		g.initAcc = acc
	}
}

// WithGenTolerance sets the convergence tolerance on the largest weight
// update in an epoch.
func WithGenTolerance(tol float64) GenerativeOption {
	return func(g *GenerativeModel) {
		g.tol = tol
	}
}

// WithLFPropensity controls how abstains enter the accuracy estimate.
// When enabled, an LF's accuracy is conditioned on the rows where it
// fires, so selective high-precision functions keep large weights. When
// disabled, abstained rows count as half right and drag rare functions
// toward an uninformative weight.
func WithLFPropensity(enabled bool) GenerativeOption {
	return func(g *GenerativeModel) {
		g.propensity = enabled
	}
}

// NewGenerativeModel builds a model with the standard schedule: 20
// epochs, step size 0.1/n, decay 0.95 and initial accuracy weight 2.0.
func NewGenerativeModel(opts ...GenerativeOption) *GenerativeModel {
	g := &GenerativeModel{
		state:   model.NewStateManager(),
		logger:  log.GetLoggerWithName("learn"),
		epochs:  20,
		decay:   0.95,
		initAcc: 2.0,
		tol:     1e-4,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsFitted reports whether the model has been trained.
func (g *GenerativeModel) IsFitted() bool {
	return g.state.IsFitted()
}

// Reset returns the model to its untrained state.
func (g *GenerativeModel) Reset() {
	g.state.Reset()
	g.weights = nil
	g.groups = nil
	g.numLFs = 0
}

// Fit estimates accuracy weights from the label matrix. Dependencies
// partition the labeling functions into groups whose contributions are
// averaged when scoring a row.
func (g *GenerativeModel) Fit(L mat.Matrix, deps []Dependency) error {
	start := time.Now()

	n, m := L.Dims()
	if n == 0 || m == 0 {
		return errors.NewValidationError("L", "label matrix is empty", nil)
	}
	if err := validateLabels(L); err != nil {
		return err
	}
	for _, d := range deps {
		if d.I < 0 || d.I >= m || d.J < 0 || d.J >= m {
			return errors.NewValidationError("deps", "column index out of range", d)
		}
	}

	step0 := g.stepSize
	if step0 <= 0 {
		step0 = 0.1 / float64(n)
	}

	groups := unionGroups(m, deps)
	w := make([]float64, m)
	for j := range w {
		w[j] = g.initAcc
	}

	converged := false
	lastDelta := math.Inf(1)
	for epoch := 0; epoch < g.epochs; epoch++ {
		step := step0 * math.Pow(g.decay, float64(epoch))
		mu := voteMarginals(L, w, groups)

		maxDelta := 0.0
		for j := 0; j < m; j++ {
			var agree float64
			fired := 0
			for i := 0; i < n; i++ {
				v := L.At(i, j)
				if v == 0 {
					continue
				}
				fired++
				if v > 0 {
					agree += mu[i]
				} else {
					agree += 1 - mu[i]
				}
			}

			var acc float64
			if g.propensity {
				if fired == 0 {
					continue
				}
				acc = agree / float64(fired)
			} else {
				acc = (agree + 0.5*float64(n-fired)) / float64(n)
			}
			acc = errors.ClipValue(acc, accuracyFloor, 1-accuracyFloor)

			target := math.Log(acc / (1 - acc))
			delta := step * (target - w[j] - g.l2*w[j])
			w[j] += delta
			if d := math.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if err := errors.CheckNumericalStability("GenerativeModel.Fit", w, epoch); err != nil {
			return err
		}

		lastDelta = maxDelta
		if maxDelta < g.tol {
			converged = true
			g.logger.Debug("generative training converged", log.EpochKey, epoch)
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("GenerativeModel", g.epochs,
			fmt.Sprintf("max weight delta %.3g did not reach tolerance %.3g", lastDelta, g.tol)))
	}

	g.weights = w
	g.groups = groups
	g.numLFs = m
	g.state.SetDimensions(m, n)
	g.state.SetFitted()

	g.logger.Info("generative model trained",
		log.LabelingFunctionsKey, m,
		log.SamplesKey, n,
		log.DependenciesKey, len(deps),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Marginals returns the probability that each row's latent label is
// positive under the learned weights.
func (g *GenerativeModel) Marginals(L mat.Matrix) ([]float64, error) {
	if !g.state.IsFitted() {
		return nil, errors.NewNotFittedError("GenerativeModel", "Marginals")
	}

	n, m := L.Dims()
	if n == 0 {
		return nil, errors.NewValidationError("L", "label matrix is empty", nil)
	}
	if m != g.numLFs {
		return nil, errors.NewDimensionError("GenerativeModel.Marginals", g.numLFs, m, 1)
	}
	if err := validateLabels(L); err != nil {
		return nil, err
	}

	return voteMarginals(L, g.weights, g.groups), nil
}

// LFAccuracies returns the learned accuracy of each labeling function,
// the sigmoid of its log-odds weight.
func (g *GenerativeModel) LFAccuracies() ([]float64, error) {
	if !g.state.IsFitted() {
		return nil, errors.NewNotFittedError("GenerativeModel", "LFAccuracies")
	}

	accs := make([]float64, len(g.weights))
	for j, w := range g.weights {
		accs[j] = sigmoid(w)
	}
	return accs, nil
}

type generativeState struct {
	Weights    []float64
	Groups     []int
	NumLFs     int
	NumSamples int
}

// Save writes the fitted model state to a gob file.
func (g *GenerativeModel) Save(path string) error {
	if !g.state.IsFitted() {
		return errors.NewNotFittedError("GenerativeModel", "Save")
	}

	_, nSamples := g.state.GetDimensions()
	snap := &generativeState{
		Weights:    g.weights,
		Groups:     g.groups,
		NumLFs:     g.numLFs,
		NumSamples: nSamples,
	}
	if err := model.SaveModel(snap, path); err != nil {
		return errors.Wrap(err, "learn: failed to save generative model")
	}
	return nil
}

// Load restores a model previously written by Save.
func (g *GenerativeModel) Load(path string) error {
	var snap generativeState
	if err := model.LoadModel(&snap, path); err != nil {
		return errors.Wrap(err, "learn: failed to load generative model")
	}
	if snap.NumLFs <= 0 || len(snap.Weights) != snap.NumLFs || len(snap.Groups) != snap.NumLFs {
		return errors.NewValidationError("path", "corrupt generative model state", path)
	}

	g.weights = snap.Weights
	g.groups = snap.Groups
	g.numLFs = snap.NumLFs
	g.state.SetDimensions(snap.NumLFs, snap.NumSamples)
	g.state.SetFitted()
	return nil
}

// validateLabels checks that every entry of a label matrix is -1, 0 or +1.
func validateLabels(L mat.Matrix) error {
	n, m := L.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			v := L.At(i, j)
			if v != -1 && v != 0 && v != 1 {
				return errors.NewValidationError("L", "labels must be -1, 0 or +1", v)
			}
		}
	}
	return nil
}

// unionGroups assigns each column a compact group id, joining columns
// connected by a dependency of any type.
func unionGroups(m int, deps []Dependency) []int {
	parent := make([]int, m)
	for j := range parent {
		parent[j] = j
	}

	var find func(int) int
	find = func(j int) int {
		if parent[j] != j {
			parent[j] = find(parent[j])
		}
		return parent[j]
	}
	for _, d := range deps {
		a, b := find(d.I), find(d.J)
		if a != b {
			parent[b] = a
		}
	}

	groups := make([]int, m)
	next := 0
	seen := make(map[int]int, m)
	for j := 0; j < m; j++ {
		root := find(j)
		id, ok := seen[root]
		if !ok {
			id = next
			seen[root] = id
			next++
		}
		groups[j] = id
	}
	return groups
}

// voteMarginals scores every row with the weighted vote, averaging within
// dependency groups, and squashes the score through a sigmoid.
func voteMarginals(L mat.Matrix, w []float64, groups []int) []float64 {
	n, m := L.Dims()

	numGroups := 0
	for _, gid := range groups {
		if gid+1 > numGroups {
			numGroups = gid + 1
		}
	}

	mu := make([]float64, n)
	gSum := make([]float64, numGroups)
	gCount := make([]int, numGroups)
	for i := 0; i < n; i++ {
		for g := 0; g < numGroups; g++ {
			gSum[g] = 0
			gCount[g] = 0
		}
		for j := 0; j < m; j++ {
			v := L.At(i, j)
			if v == 0 {
				continue
			}
			gSum[groups[j]] += w[j] * v
			gCount[groups[j]]++
		}

		var score float64
		for g := 0; g < numGroups; g++ {
			if gCount[g] > 0 {
				score += gSum[g] / float64(gCount[g])
			}
		}
		mu[i] = sigmoid(score)
	}
	return mu
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
