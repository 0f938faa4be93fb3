// Package pipeline sequences the full weak-supervision workflow: corpus
// parsing, candidate extraction, featurization, labeling, generative
// supervision and discriminative training.
//
// A Pipeline is driven stage by stage or end to end with Run. Each stage
// stores its outputs on the pipeline, so intermediates such as candidates,
// label matrices, marginals and trained models stay inspectable between
// stages. Stages validate their preconditions and return errors instead of
// panicking when run out of order.
package pipeline

import (
	"context"
	"iter"
	"math"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/weaksignal/lfkit/candidate"
	"github.com/weaksignal/lfkit/corpus"
	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/feature"
	"github.com/weaksignal/lfkit/label"
	"github.com/weaksignal/lfkit/learn"
	"github.com/weaksignal/lfkit/metrics"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
	"github.com/weaksignal/lfkit/visual"
)

// Split identifies a data split.
type Split int

// The standard splits. Candidates are tagged with these values at
// extraction time.
const (
	Train Split = iota
	Dev
	Test
)

// String returns the split name used in logs.
func (s Split) String() string {
	switch s {
	case Train:
		return "train"
	case Dev:
		return "dev"
	case Test:
		return "test"
	}
	return "unknown"
}

// Config holds the pipeline settings. Zero values select the documented
// defaults; DefaultConfig returns a fully populated instance.
type Config struct {
	// Seed makes model training and hyperparameter draws reproducible.
	// Negative seeds select a nondeterministic source.
	Seed int64

	// Parallelism bounds the worker count of the parsing and annotation
	// fan-outs. Values below one select GOMAXPROCS.
	Parallelism int

	// Splits lists the splits the pipeline operates on, in processing
	// order. Empty selects Train, Dev and Test.
	Splits []Split

	// MaxDocs caps the number of documents drawn from the preprocessor.
	// Zero means no cap.
	MaxDocs int

	// MajorityVote replaces the generative model with a majority vote over
	// the label matrix.
	MajorityVote bool

	// ModelDeps enables labeling-function dependency selection before
	// generative training.
	ModelDeps bool

	// DepThreshold is the absolute correlation at or above which a pair of
	// labeling functions is taken as dependent. Zero selects 0.5.
	DepThreshold float64

	// Generative model schedule. Zero values select 20 epochs, decay 0.95,
	// a step size of 0.1/n and initial accuracy weight 2.0.
	GenEpochs   int
	GenDecay    float64
	GenStepSize float64
	GenInitAcc  float64
	GenL2       float64

	// Traditional switches supervision to hard gold labels and caps the
	// discriminative training set to the first Traditional rows. Zero keeps
	// weak supervision.
	Traditional int

	// Rebalance subsamples the majority side of the training marginals
	// before discriminative training.
	Rebalance bool

	// B is the decision threshold on marginal probabilities. Zero selects
	// 0.5.
	B float64

	// Hyperparameter ranges for the discriminative model, as {low, high}.
	// With NSearch above one the ranges are searched on a log10 grid;
	// otherwise a degenerate range {v, v} fixes the value and anything else
	// falls back to lr 1e-2, l1 1e-3, l2 1e-5.
	LRRange [2]float64
	L1Range [2]float64
	L2Range [2]float64

	// NSearch is the number of random-search draws. Values above one
	// require a featurized dev split with gold labels.
	NSearch int

	// NEpochs is the discriminative training epoch count. Zero selects 100.
	NEpochs int

	// FilterUniform and FilterDuplicates drop degenerate labeling functions
	// during the labeling stage, re-applying until no column is uniform or
	// a signature twin.
	FilterUniform    bool
	FilterDuplicates bool

	// MarginalsPath, when set, saves the training marginals there after
	// supervision. MarginalsPNG additionally writes a histogram image.
	MarginalsPath string
	MarginalsPNG  string

	// Verbose enables extra diagnostics: per-split matrix density and the
	// selected dependency pairs.
	Verbose bool
}

// DefaultConfig returns the standard pipeline configuration: weak
// supervision with degenerate-LF filtering, a 20-epoch generative schedule
// and a single discriminative fit at lr 1e-2.
func DefaultConfig() Config {
	return Config{
		Seed:             -1,
		Splits:           []Split{Train, Dev, Test},
		DepThreshold:     0.5,
		GenEpochs:        20,
		GenDecay:         0.95,
		GenInitAcc:       2.0,
		B:                0.5,
		LRRange:          [2]float64{1e-2, 1e-2},
		L1Range:          [2]float64{1e-3, 1e-3},
		L2Range:          [2]float64{1e-5, 1e-5},
		NSearch:          1,
		NEpochs:          100,
		FilterUniform:    true,
		FilterDuplicates: true,
	}
}

func (c Config) normalized() Config {
	if len(c.Splits) == 0 {
		c.Splits = []Split{Train, Dev, Test}
	}
	if c.DepThreshold <= 0 {
		c.DepThreshold = 0.5
	}
	if c.GenEpochs < 1 {
		c.GenEpochs = 20
	}
	if c.GenDecay <= 0 {
		c.GenDecay = 0.95
	}
	if c.GenInitAcc == 0 {
		c.GenInitAcc = 2.0
	}
	if c.B <= 0 {
		c.B = 0.5
	}
	if c.NSearch < 1 {
		c.NSearch = 1
	}
	if c.NEpochs < 1 {
		c.NEpochs = 100
	}
	return c
}

// Pipeline drives the six stages over one corpus. Construct with New; the
// zero value is not usable.
type Pipeline struct {
	cfg    Config
	logger log.Logger

	gen     feature.Generator
	aligner *visual.Aligner

	corpus     *corpus.Corpus
	candidates map[Split][]*document.Candidate
	lfs        []label.LF
	labeler    *label.Annotator
	featurizer *feature.Annotator
	labels     map[Split]*label.Matrix
	features   map[Split]*feature.Matrix
	gold       map[Split]label.Gold
	deps       []learn.Dependency
	genModel   *learn.GenerativeModel
	marginals  []float64
	model      *learn.NoiseAwareLogistic
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFeatureGenerator replaces the default context feature generator. The
// default visual aligner is dropped; supply one with WithAligner if the
// generator reads aligned lemmas.
func WithFeatureGenerator(gen feature.Generator) Option {
	return func(p *Pipeline) {
		p.gen = gen
		p.aligner = nil
	}
}

// WithAligner supplies the visual aligner backing the feature generator.
// The pipeline computes each document's alignment before the parallel
// featurize fan-out, since an Aligner is not safe for concurrent first
// access.
func WithAligner(a *visual.Aligner) Option {
	return func(p *Pipeline) {
		p.aligner = a
	}
}

// New builds a pipeline for the given configuration. Model warnings raised
// during training are routed to a structured zerolog writer on stderr.
func New(cfg Config, opts ...Option) *Pipeline {
	warnOnce.Do(installWarnLogger)

	p := &Pipeline{
		cfg:        cfg.normalized(),
		logger:     log.GetLoggerWithName("pipeline"),
		aligner:    visual.NewAligner(),
		candidates: make(map[Split][]*document.Candidate),
		labels:     make(map[Split]*label.Matrix),
		features:   make(map[Split]*feature.Matrix),
		gold:       make(map[Split]label.Gold),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.gen == nil {
		p.gen = feature.ContextFeatures(p.aligner)
	}
	return p
}

var warnOnce sync.Once

// installWarnLogger routes warnings raised through errors.Warn, such as
// ConvergenceWarning, into structured zerolog events.
func installWarnLogger() {
	zl := zerolog.New(os.Stderr).With().Timestamp().Str("component", "lfkit").Logger()
	errors.SetZerologWarnFunc(func(w error) {
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().EmbedObject(obj).Msg("model warning")
			return
		}
		zl.Warn().Err(w).Msg("model warning")
	})
}

// Parse runs the corpus stage: the preprocessor's documents, capped at
// MaxDocs, are tokenized and stored. Extra parser options are applied after
// the pipeline's parallelism setting, so they win on conflict.
func (p *Pipeline) Parse(ctx context.Context, pre corpus.Preprocessor, opts ...corpus.ParserOption) error {
	if pre == nil {
		return errors.NewValidationError("preprocessor", "preprocessor is nil", nil)
	}
	if p.cfg.MaxDocs > 0 {
		pre = capDocs{pre: pre, max: p.cfg.MaxDocs}
	}
	parser := corpus.NewParser(append([]corpus.ParserOption{
		corpus.WithParallelism(p.cfg.Parallelism),
	}, opts...)...)
	c, err := parser.Parse(ctx, pre)
	if err != nil {
		return err
	}
	p.corpus = c
	return nil
}

// capDocs stops the wrapped preprocessor after max documents.
type capDocs struct {
	pre corpus.Preprocessor
	max int
}

func (c capDocs) Documents() iter.Seq2[*document.Document, error] {
	return func(yield func(*document.Document, error) bool) {
		n := 0
		for doc, err := range c.pre.Documents() {
			if n >= c.max {
				return
			}
			if !yield(doc, err) {
				return
			}
			n++
		}
	}
}

// Extract runs the extractor over every parsed document, routing each
// document's phrases to the split assign returns for it. Only splits listed
// in the configuration are extracted.
func (p *Pipeline) Extract(ex *candidate.Extractor, assign func(*document.Document) Split) error {
	if p.corpus == nil {
		return errors.NewContractError("Pipeline.Extract", "requires a parsed corpus; run Parse first")
	}
	if ex == nil {
		return errors.NewValidationError("extractor", "extractor is nil", nil)
	}
	if assign == nil {
		return errors.NewValidationError("assign", "split assignment function is nil", nil)
	}
	start := time.Now()

	phrases := make(map[Split][]*document.Phrase)
	for _, doc := range p.corpus.Documents {
		s := assign(doc)
		phrases[s] = append(phrases[s], doc.Phrases...)
	}

	total := 0
	for _, split := range p.cfg.Splits {
		ph := phrases[split]
		if len(ph) == 0 {
			continue
		}
		cands := ex.Apply(ph, int(split))
		p.candidates[split] = cands
		total += len(cands)
		p.logger.Info("candidates extracted",
			log.StageKey, log.StageExtract,
			log.SplitKey, split.String(),
			log.PhrasesKey, len(ph),
			log.CandidatesKey, len(cands),
		)
	}

	p.logger.Info("extraction finished",
		log.StageKey, log.StageExtract,
		log.CandidatesKey, total,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Featurize builds feature matrices for the given splits, defaulting to the
// configured ones. The training split learns the vocabulary; other splits
// are mapped onto it, so Train must be featurized first. Splits without
// candidates are skipped.
func (p *Pipeline) Featurize(splits ...Split) error {
	if len(p.candidates) == 0 {
		return errors.NewContractError("Pipeline.Featurize", "requires extracted candidates; run Extract first")
	}
	if len(splits) == 0 {
		splits = p.cfg.Splits
	}

	// Alignment features are cached per document on first access, which is
	// unsafe under the annotator's parallel fan-out. Compute them up front.
	if p.aligner != nil && p.corpus != nil {
		for _, doc := range p.corpus.Documents {
			p.aligner.Ensure(doc)
		}
	}

	if p.featurizer == nil {
		p.featurizer = feature.NewAnnotator(p.gen)
	}
	for _, split := range splits {
		cands := p.candidates[split]
		if len(cands) == 0 {
			continue
		}
		var (
			F   *feature.Matrix
			err error
		)
		if split == Train {
			F, err = p.featurizer.Apply(cands)
		} else {
			F, err = p.featurizer.ApplyExisting(cands)
		}
		if err != nil {
			return err
		}
		p.features[split] = F
		rows, cols := F.Dims()
		if p.cfg.Verbose {
			p.logger.Debug("split featurized",
				log.StageKey, log.StageFeaturize,
				log.SplitKey, split.String(),
				log.SamplesKey, rows,
				log.FeaturesKey, cols,
				log.NNZKey, F.NNZ(),
			)
		}
	}
	return nil
}

// Label applies the labeling functions to the train and dev candidates and
// stores the label matrices. With the degenerate-LF filters enabled, columns
// that label uniformly or duplicate an earlier column's signature are
// removed from the function list and the stage re-applies, repeating until
// the matrix is stable. The test split is never labeled.
func (p *Pipeline) Label(lfs []label.LF, splits ...Split) error {
	if len(p.candidates) == 0 {
		return errors.NewContractError("Pipeline.Label", "requires extracted candidates; run Extract first")
	}
	if len(lfs) == 0 {
		return errors.NewValidationError("lfs", "at least one labeling function is required", 0)
	}
	if len(splits) == 0 {
		splits = p.cfg.Splits
	}
	p.lfs = lfs

	for {
		labeler := label.NewAnnotator(p.lfs)
		var LTrain *label.Matrix
		for _, split := range splits {
			if split == Test {
				continue
			}
			cands := p.candidates[split]
			if len(cands) == 0 {
				continue
			}
			L, err := labeler.Apply(cands)
			if err != nil {
				return err
			}
			p.labels[split] = L
			if split == Train {
				LTrain = L
			}
		}
		p.labeler = labeler
		if LTrain == nil {
			return errors.NewValidationError("candidates", "no training candidates to label", 0)
		}

		if !p.cfg.FilterUniform && !p.cfg.FilterDuplicates {
			p.logLabelSummary(LTrain)
			return nil
		}
		remove := make(map[int]bool)
		if p.cfg.FilterUniform {
			for _, j := range LTrain.UniformColumns() {
				remove[j] = true
			}
		}
		if p.cfg.FilterDuplicates {
			for _, j := range LTrain.DuplicateColumns() {
				remove[j] = true
			}
		}
		if len(remove) == 0 {
			p.logLabelSummary(LTrain)
			return nil
		}

		kept := make([]label.LF, 0, len(p.lfs)-len(remove))
		for j, lf := range p.lfs {
			if !remove[j] {
				kept = append(kept, lf)
			}
		}
		if len(kept) == 0 {
			return errors.NewValidationError("lfs", "every labeling function was filtered out", len(p.lfs))
		}
		p.logger.Info("degenerate labeling functions removed",
			log.StageKey, log.StageLabel,
			log.FilteredKey, len(remove),
			log.LabelingFunctionsKey, len(kept),
		)
		p.lfs = kept
	}
}

// logLabelSummary reports the training matrix statistics, with per-LF
// breakdowns when verbose.
func (p *Pipeline) logLabelSummary(LTrain *label.Matrix) {
	rows, cols := LTrain.Dims()
	s := LTrain.Summary()
	p.logger.Info("training set labeled",
		log.StageKey, log.StageLabel,
		log.SamplesKey, rows,
		log.LabelingFunctionsKey, cols,
		log.CoverageKey, s.Coverage,
		log.OverlapsKey, s.Overlaps,
		log.ConflictsKey, s.Conflicts,
	)
	if !p.cfg.Verbose {
		return
	}
	for _, st := range LTrain.LFStats() {
		p.logger.Debug("labeling function stats",
			log.StageKey, log.StageLabel,
			log.LFNameKey, st.Name,
			log.CoverageKey, st.Coverage,
			log.OverlapsKey, st.Overlaps,
			log.ConflictsKey, st.Conflicts,
		)
	}
}

// LoadGoldTSV loads gold labels for a split from a key<TAB>label file.
func (p *Pipeline) LoadGoldTSV(path string, split Split) error {
	g, err := label.LoadGoldTSV(path)
	if err != nil {
		return err
	}
	p.SetGold(split, g)
	return nil
}

// SetGold installs gold labels for a split.
func (p *Pipeline) SetGold(split Split, g label.Gold) {
	p.gold[split] = g
	fields := []any{
		log.SplitKey, split.String(),
		log.SamplesKey, len(g),
	}
	if cands := p.candidates[split]; len(cands) > 0 {
		fields = append(fields, log.CoverageKey, g.Coverage(cands))
	}
	p.logger.Info("gold labels loaded", fields...)
}

// Supervise turns the training label matrix into marginal probabilities.
// Traditional supervision uses the gold labels directly; majority vote
// thresholds the row sums; otherwise a generative model is fit, preceded by
// dependency selection when enabled. The marginals are stored and, when
// configured, saved to disk with an optional histogram image. With train
// gold labels present the marginals' Brier score is logged as a diagnostic.
func (p *Pipeline) Supervise() error {
	LTrain := p.labels[Train]
	if LTrain == nil {
		return errors.NewContractError("Pipeline.Supervise", "requires a labeled training split; run Label first")
	}
	start := time.Now()
	rows, _ := LTrain.Dims()

	var (
		marginals []float64
		modelName string
	)
	switch {
	case p.cfg.Traditional > 0:
		g := p.gold[Train]
		if len(g) == 0 {
			return errors.NewValidationError("gold",
				"traditional supervision requires train gold labels", 0)
		}
		marginals = make([]float64, rows)
		for i, key := range LTrain.Keys {
			if g[key] == 1 {
				marginals[i] = 1.0
			}
		}
		modelName = "Traditional"

	case p.cfg.MajorityVote:
		marginals = learn.MajorityVote(LTrain)
		modelName = "MajorityVote"

	default:
		var deps []learn.Dependency
		if p.cfg.ModelDeps {
			ds := learn.NewDependencySelector(p.cfg.DepThreshold)
			var err error
			deps, err = ds.Select(LTrain)
			if err != nil {
				return err
			}
			p.deps = deps
			if p.cfg.Verbose {
				for _, d := range deps {
					p.logger.Debug("dependency selected",
						"type", d.Type.String(),
						"lf_i", LTrain.LFNames[d.I],
						"lf_j", LTrain.LFNames[d.J],
					)
				}
			}
		}

		gen := learn.NewGenerativeModel(
			learn.WithGenEpochs(p.cfg.GenEpochs),
			learn.WithGenDecay(p.cfg.GenDecay),
			learn.WithGenStepSize(p.cfg.GenStepSize),
			learn.WithGenInitAccuracy(p.cfg.GenInitAcc),
			learn.WithGenL2(p.cfg.GenL2),
			learn.WithLFPropensity(true),
		)
		if err := gen.Fit(LTrain, deps); err != nil {
			return err
		}
		var err error
		marginals, err = gen.Marginals(LTrain)
		if err != nil {
			return err
		}
		p.genModel = gen
		modelName = "GenerativeModel"
	}
	p.marginals = marginals

	if err := p.logBrier(LTrain, marginals); err != nil {
		return err
	}
	if p.cfg.MarginalsPath != "" {
		if err := learn.SaveMarginals(p.cfg.MarginalsPath, marginals); err != nil {
			return err
		}
	}
	if p.cfg.MarginalsPNG != "" {
		if err := SaveMarginalsHistogram(p.cfg.MarginalsPNG, marginals); err != nil {
			return err
		}
	}

	p.logger.Info("training marginals computed",
		log.StageKey, log.StageSupervise,
		log.ModelNameKey, modelName,
		log.SamplesKey, len(marginals),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// logBrier reports the mean squared error between the marginals and the
// train gold labels mapped to {0, 1}, over the gold-labeled rows.
func (p *Pipeline) logBrier(LTrain *label.Matrix, marginals []float64) error {
	g := p.gold[Train]
	if len(g) == 0 {
		return nil
	}
	var yTrue, yPred []float64
	for i, key := range LTrain.Keys {
		v, ok := g[key]
		if !ok {
			continue
		}
		y := 0.0
		if v == 1 {
			y = 1.0
		}
		yTrue = append(yTrue, y)
		yPred = append(yPred, marginals[i])
	}
	if len(yTrue) == 0 {
		return nil
	}
	brier, err := metrics.MSE(mat.NewVecDense(len(yTrue), yTrue), mat.NewVecDense(len(yPred), yPred))
	if err != nil {
		return errors.Wrap(err, "pipeline: brier diagnostic failed")
	}
	p.logger.Info("marginals brier score",
		log.StageKey, log.StageSupervise,
		log.LossKey, brier,
		log.SamplesKey, len(yTrue),
	)
	return nil
}

// Evaluation holds the outcome of the classify stage: scores per gold-labeled
// split and, after a hyperparameter search, the winning draw.
type Evaluation struct {
	Dev    *metrics.MentionReport
	Test   *metrics.MentionReport
	Search *learn.SearchResult
}

// Classify trains the discriminative model on the training features and
// marginals. With NSearch above one and a gold-labeled dev split available,
// hyperparameters are drawn from the configured log ranges and the best dev
// F1 wins; otherwise a single model is fit at the configured or default
// values. Gold-labeled dev and test splits are scored at threshold B.
func (p *Pipeline) Classify() (*Evaluation, error) {
	FTrain := p.features[Train]
	if FTrain == nil {
		return nil, errors.NewContractError("Pipeline.Classify", "requires featurized training candidates; run Featurize first")
	}
	if p.marginals == nil {
		return nil, errors.NewContractError("Pipeline.Classify", "requires training marginals; run Supervise first")
	}
	start := time.Now()

	var X mat.Matrix = FTrain
	marginals := p.marginals
	if p.cfg.Traditional > 0 {
		rows, cols := FTrain.Dims()
		n := p.cfg.Traditional
		if n > rows {
			n = rows
		}
		X = FTrain.Slice(0, n, 0, cols)
		marginals = marginals[:n]
		p.logger.Info("training on hard-labeled subset",
			log.StageKey, log.StageClassify,
			log.SamplesKey, n,
		)
	}

	eval := &Evaluation{}
	FDev := p.features[Dev]
	searchable := p.cfg.NSearch > 1 && FDev != nil && len(p.gold[Dev]) > 0

	var model *learn.NoiseAwareLogistic
	if searchable {
		lrP, err := newLogRange("lr", p.cfg.LRRange)
		if err != nil {
			return nil, err
		}
		l1P, err := newLogRange("l1_penalty", p.cfg.L1Range)
		if err != nil {
			return nil, err
		}
		l2P, err := newLogRange("l2_penalty", p.cfg.L2Range)
		if err != nil {
			return nil, err
		}
		factory := func(params map[string]float64) *learn.NoiseAwareLogistic {
			return learn.NewNoiseAwareLogistic(
				learn.WithLogisticRate(params["lr"]),
				learn.WithLogisticL1(params["l1_penalty"]),
				learn.WithLogisticL2(params["l2_penalty"]),
				learn.WithLogisticEpochs(p.cfg.NEpochs),
				learn.WithRebalance(p.cfg.Rebalance),
				learn.WithLogisticSeed(p.cfg.Seed),
			)
		}
		rs, err := learn.NewRandomSearch(p.cfg.NSearch,
			[]learn.Parameter{lrP, l1P, l2P}, factory,
			learn.WithSearchSeed(p.cfg.Seed))
		if err != nil {
			return nil, err
		}
		model, eval.Search, err = rs.Fit(X, marginals, FDev, p.goldVector(Dev), p.cfg.B)
		if err != nil {
			return nil, err
		}
	} else {
		model = learn.NewNoiseAwareLogistic(
			learn.WithLogisticRate(pickSingle(p.cfg.LRRange, 1e-2)),
			learn.WithLogisticL1(pickSingle(p.cfg.L1Range, 1e-3)),
			learn.WithLogisticL2(pickSingle(p.cfg.L2Range, 1e-5)),
			learn.WithLogisticEpochs(p.cfg.NEpochs),
			learn.WithRebalance(p.cfg.Rebalance),
			learn.WithLogisticSeed(p.cfg.Seed),
		)
		if err := model.Fit(X, marginals); err != nil {
			return nil, err
		}
	}
	p.model = model

	for _, split := range []Split{Dev, Test} {
		F := p.features[split]
		if F == nil || len(p.gold[split]) == 0 {
			continue
		}
		report, err := model.Score(F, p.goldVector(split), p.cfg.B)
		if err != nil {
			return nil, err
		}
		p.logger.Info("split scored",
			log.StageKey, log.StageClassify,
			log.SplitKey, split.String(),
			log.PrecisionKey, report.Scores.Precision,
			log.RecallKey, report.Scores.Recall,
			log.F1Key, report.Scores.F1,
		)
		if split == Dev {
			eval.Dev = report
		} else {
			eval.Test = report
		}
	}

	p.logger.Info("discriminative model trained",
		log.StageKey, log.StageClassify,
		log.ModelNameKey, "NoiseAwareLogistic",
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return eval, nil
}

// Run drives the six stages in order with the given inputs. Gold labels, if
// any, must be installed before the call for Classify to report scores.
func (p *Pipeline) Run(ctx context.Context, pre corpus.Preprocessor, ex *candidate.Extractor, assign func(*document.Document) Split, lfs []label.LF) (*Evaluation, error) {
	if err := p.Parse(ctx, pre); err != nil {
		return nil, err
	}
	if err := p.Extract(ex, assign); err != nil {
		return nil, err
	}
	if err := p.Featurize(); err != nil {
		return nil, err
	}
	if err := p.Label(lfs); err != nil {
		return nil, err
	}
	if err := p.Supervise(); err != nil {
		return nil, err
	}
	return p.Classify()
}

// Corpus returns the parsed corpus, or nil before Parse.
func (p *Pipeline) Corpus() *corpus.Corpus { return p.corpus }

// Candidates returns the split's extracted candidates.
func (p *Pipeline) Candidates(split Split) []*document.Candidate {
	return p.candidates[split]
}

// Features returns the split's feature matrix, or nil.
func (p *Pipeline) Features(split Split) *feature.Matrix { return p.features[split] }

// Labels returns the split's label matrix, or nil.
func (p *Pipeline) Labels(split Split) *label.Matrix { return p.labels[split] }

// LFs returns the current labeling functions, after any filtering.
func (p *Pipeline) LFs() []label.LF { return p.lfs }

// Featurizer returns the fitted feature annotator, or nil before Featurize.
func (p *Pipeline) Featurizer() *feature.Annotator { return p.featurizer }

// Marginals returns the training marginals, or nil before Supervise.
func (p *Pipeline) Marginals() []float64 { return p.marginals }

// Dependencies returns the selected labeling-function dependencies, or nil.
func (p *Pipeline) Dependencies() []learn.Dependency { return p.deps }

// GenerativeModel returns the fitted generative model, or nil when
// supervision did not train one.
func (p *Pipeline) GenerativeModel() *learn.GenerativeModel { return p.genModel }

// Model returns the trained discriminative model, or nil before Classify.
func (p *Pipeline) Model() *learn.NoiseAwareLogistic { return p.model }

// goldVector maps the split's candidates to gold labels, 0 for unlabeled.
func (p *Pipeline) goldVector(split Split) []int {
	g := p.gold[split]
	cands := p.candidates[split]
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = g[c.Key()]
	}
	return out
}

// newLogRange builds a log10-stepped search parameter over {low, high}.
func newLogRange(name string, r [2]float64) (*learn.RangeParameter, error) {
	lo := math.Min(r[0], r[1])
	hi := math.Max(r[0], r[1])
	return learn.NewRangeParameter(name, lo, hi, 1, 10)
}

// pickSingle returns the range's value when it is degenerate and positive,
// and the default otherwise.
func pickSingle(r [2]float64, def float64) float64 {
	if r[0] == r[1] && r[0] > 0 {
		return r[0]
	}
	return def
}
