package learn

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/weaksignal/lfkit/metrics"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

// Parameter is a hyperparameter that random search can draw values from.
type Parameter interface {
	Name() string
	Draw(rng *rand.Rand) float64
}

// RangeParameter draws from a numeric range. With a log base above 1 the
// draw picks an exponent on a stepped grid between log(min) and log(max),
// so lr ranges like [1e-4, 1e-2] sample powers of the base. Without a log
// base, a positive step yields a linear grid and step 0 a uniform draw.
type RangeParameter struct {
	name    string
	min     float64
	max     float64
	step    float64
	logBase float64
}

// NewRangeParameter builds a range parameter. Pass logBase 0 for a linear
// scale.
func NewRangeParameter(name string, min, max, step, logBase float64) (*RangeParameter, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "parameter name is empty", name)
	}
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return nil, errors.NewValidationError("range", "min must not exceed max", [2]float64{min, max})
	}
	if step < 0 {
		return nil, errors.NewValidationError("step", "step must not be negative", step)
	}
	if logBase != 0 && logBase <= 1 {
		return nil, errors.NewValidationError("logBase", "log base must be greater than 1", logBase)
	}
	if logBase > 1 && min <= 0 {
		return nil, errors.NewValidationError("range", "log-scale parameters require a positive min", min)
	}
	return &RangeParameter{name: name, min: min, max: max, step: step, logBase: logBase}, nil
}

// Name returns the parameter name.
func (p *RangeParameter) Name() string { return p.name }

// Draw samples a value from the range.
func (p *RangeParameter) Draw(rng *rand.Rand) float64 {
	if p.logBase > 1 {
		lo := math.Log(p.min) / math.Log(p.logBase)
		hi := math.Log(p.max) / math.Log(p.logBase)
		step := p.step
		if step <= 0 {
			step = 1
		}
		count := int(math.Floor((hi-lo)/step+1e-9)) + 1
		return math.Pow(p.logBase, lo+float64(rng.Intn(count))*step)
	}
	if p.step > 0 {
		count := int(math.Floor((p.max-p.min)/p.step+1e-9)) + 1
		return p.min + float64(rng.Intn(count))*p.step
	}
	return p.min + rng.Float64()*(p.max-p.min)
}

// ListParameter draws uniformly from an explicit list of values.
type ListParameter struct {
	name   string
	values []float64
}

// NewListParameter builds a list parameter.
func NewListParameter(name string, values ...float64) (*ListParameter, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "parameter name is empty", name)
	}
	if len(values) == 0 {
		return nil, errors.NewValidationError("values", "list parameter needs at least one value", nil)
	}
	return &ListParameter{name: name, values: values}, nil
}

// Name returns the parameter name.
func (p *ListParameter) Name() string { return p.name }

// Draw samples one of the listed values.
func (p *ListParameter) Draw(rng *rand.Rand) float64 {
	return p.values[rng.Intn(len(p.values))]
}

// ModelFactory builds a fresh discriminative model from a set of drawn
// hyperparameter values.
type ModelFactory func(params map[string]float64) *NoiseAwareLogistic

// SearchResult records the winning draw of a random search.
type SearchResult struct {
	Params map[string]float64
	Scores metrics.Scores
}

// RandomSearch fits one model per hyperparameter draw and keeps the one
// with the best F1 on a held-out dev split.
type RandomSearch struct {
	n       int
	params  []Parameter
	factory ModelFactory
	seed    int64
	logger  log.Logger
}

// SearchOption configures a RandomSearch.
type SearchOption func(*RandomSearch)

// WithSearchSeed sets the seed for drawing hyperparameters. A negative
// seed selects a nondeterministic source.
func WithSearchSeed(seed int64) SearchOption {
	return func(rs *RandomSearch) {
		rs.seed = seed
	}
}

// NewRandomSearch builds a search over the given parameters with n draws.
func NewRandomSearch(n int, params []Parameter, factory ModelFactory, opts ...SearchOption) (*RandomSearch, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "need at least one draw", n)
	}
	if len(params) == 0 {
		return nil, errors.NewValidationError("params", "no parameters to search", nil)
	}
	if factory == nil {
		return nil, errors.NewValidationError("factory", "model factory is nil", nil)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name()] {
			return nil, errors.NewValidationError("params", "duplicate parameter name", p.Name())
		}
		seen[p.Name()] = true
	}

	rs := &RandomSearch{
		n:       n,
		params:  params,
		factory: factory,
		seed:    -1,
		logger:  log.GetLoggerWithName("learn"),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs, nil
}

// Fit trains one model per draw on the training data, scores each on the
// dev split at threshold b, and returns the best model with its draw.
func (rs *RandomSearch) Fit(X mat.Matrix, marginals []float64, XDev mat.Matrix, goldDev []int, b float64) (*NoiseAwareLogistic, *SearchResult, error) {
	start := time.Now()

	if nDev, _ := XDev.Dims(); nDev == 0 {
		return nil, nil, errors.NewValidationError("XDev", "dev split is empty", nil)
	}

	seed := rs.seed
	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	var best *NoiseAwareLogistic
	var bestResult *SearchResult
	for k := 0; k < rs.n; k++ {
		draw := make(map[string]float64, len(rs.params))
		for _, p := range rs.params {
			draw[p.Name()] = p.Draw(rng)
		}

		m := rs.factory(draw)
		if m == nil {
			return nil, nil, errors.NewValidationError("factory", "model factory returned nil", nil)
		}
		if err := m.Fit(X, marginals); err != nil {
			return nil, nil, errors.Wrapf(err, "learn: search draw %d failed", k)
		}

		report, err := m.Score(XDev, goldDev, b)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "learn: search draw %d failed", k)
		}

		rs.logger.Debug("search draw scored",
			log.IterationKey, k,
			log.F1Key, report.Scores.F1,
			log.HyperParamsKey, draw,
		)
		if bestResult == nil || report.Scores.F1 > bestResult.Scores.F1 {
			best = m
			bestResult = &SearchResult{Params: draw, Scores: report.Scores}
		}
	}

	rs.logger.Info("random search finished",
		log.DrawsKey, rs.n,
		log.F1Key, bestResult.Scores.F1,
		log.HyperParamsKey, bestResult.Params,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return best, bestResult, nil
}
