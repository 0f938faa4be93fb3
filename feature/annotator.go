package feature

import (
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/weaksignal/lfkit/core/parallel"
	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

// Generator emits feature strings for a candidate. Generation must be
// deterministic so vocabulary construction is reproducible.
type Generator func(c *document.Candidate) ([]string, error)

// Annotator featurizes candidates with a Generator. Apply on the training
// split learns the vocabulary; ApplyExisting maps further splits onto it.
type Annotator struct {
	gen    Generator
	vocab  *Vocabulary
	logger log.Logger
}

// NewAnnotator builds an annotator around a generator.
func NewAnnotator(gen Generator) *Annotator {
	return &Annotator{
		gen:    gen,
		logger: log.GetLoggerWithName("feature"),
	}
}

// Vocabulary returns the learned vocabulary, or nil before Apply.
func (a *Annotator) Vocabulary() *Vocabulary { return a.vocab }

// Apply featurizes the candidates and learns the vocabulary from them, in
// first-seen feature order. Candidates are processed in parallel; a
// panicking generator is recovered into an error naming the candidate.
func (a *Annotator) Apply(cands []*document.Candidate) (*Matrix, error) {
	feats, err := a.generate(cands)
	if err != nil {
		return nil, err
	}

	vocab := NewVocabulary()
	for _, fs := range feats {
		for _, f := range fs {
			vocab.Add(f)
		}
	}
	if vocab.Len() == 0 {
		return nil, errors.NewValidationError("features",
			"generator produced no features for any candidate", len(cands))
	}
	a.vocab = vocab
	return a.fill(cands, feats, vocab)
}

// ApplyExisting featurizes the candidates against the vocabulary learned by
// a previous Apply. Features outside the vocabulary are dropped.
func (a *Annotator) ApplyExisting(cands []*document.Candidate) (*Matrix, error) {
	if a.vocab == nil {
		return nil, errors.NewNotFittedError("FeatureAnnotator", "ApplyExisting")
	}
	feats, err := a.generate(cands)
	if err != nil {
		return nil, err
	}
	return a.fill(cands, feats, a.vocab)
}

func (a *Annotator) generate(cands []*document.Candidate) ([][]string, error) {
	if len(cands) == 0 {
		return nil, errors.NewValidationError("candidates", "no candidates to featurize", 0)
	}

	feats := make([][]string, len(cands))
	var abort atomic.Bool
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			abort.Store(true)
		}
		mu.Unlock()
	}

	parallel.Parallelize(len(cands), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if abort.Load() {
				return
			}
			fs, err := safeGenerate(a.gen, cands[i])
			if err != nil {
				fail(errors.Wrapf(err, "feature: generator failed on candidate %s", cands[i].Key()))
				return
			}
			feats[i] = fs
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return feats, nil
}

func (a *Annotator) fill(cands []*document.Candidate, feats [][]string, vocab *Vocabulary) (*Matrix, error) {
	start := time.Now()
	F := mat.NewDense(len(cands), vocab.Len(), nil)
	parallel.Parallelize(len(cands), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for _, f := range feats[i] {
				if j, ok := vocab.Index(f); ok {
					F.Set(i, j, 1)
				}
			}
		}
	})

	keys := make([]string, len(cands))
	for i, c := range cands {
		keys[i] = c.Key()
	}
	m := &Matrix{Dense: F, Vocab: vocab, Keys: keys}

	a.logger.Info("feature matrix built",
		log.StageKey, log.StageFeaturize,
		log.SamplesKey, len(cands),
		log.FeaturesKey, vocab.Len(),
		log.NNZKey, m.NNZ(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

func safeGenerate(gen Generator, c *document.Candidate) (fs []string, err error) {
	defer errors.Recover(&err, "feature.generate")
	return gen(c)
}
