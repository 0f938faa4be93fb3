// Package label applies labeling functions to candidates and manages the
// resulting label matrices and gold labels.
//
// A labeling function votes -1, 0 or +1 on a candidate, with 0 meaning
// abstain. The Annotator runs a fixed set of labeling functions over
// candidates in parallel and collects the votes into a Matrix.
package label

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

// LF is a named labeling function.
type LF struct {
	Name string
	F    func(*document.Candidate) (int, error)
}

// Annotator applies a fixed set of labeling functions.
type Annotator struct {
	lfs    []LF
	logger log.Logger
}

// NewAnnotator builds an annotator over the labeling functions.
func NewAnnotator(lfs []LF) *Annotator {
	return &Annotator{
		lfs:    lfs,
		logger: log.GetLoggerWithName("label"),
	}
}

// LFs returns the annotator's labeling functions.
func (a *Annotator) LFs() []LF { return a.lfs }

// Apply runs every labeling function on every candidate and returns the
// label matrix. Candidates are processed in parallel. A panicking labeling
// function is recovered into an error naming the function and candidate;
// the first error aborts the pass.
func (a *Annotator) Apply(cands []*document.Candidate) (*Matrix, error) {
	if len(a.lfs) == 0 {
		return nil, errors.NewValidationError("lfs", "at least one labeling function is required", 0)
	}
	if len(cands) == 0 {
		return nil, errors.NewValidationError("candidates", "no candidates to label", 0)
	}
	start := time.Now()

	L := mat.NewDense(len(cands), len(a.lfs), nil)
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
			c := cands[i]
			for j, lf := range a.lfs {
				v, err := safeLabel(lf, c)
				if err != nil {
					fail(errors.Wrapf(err, "label: %s failed on candidate %s", lf.Name, c.Key()))
					return
				}
				if v < -1 || v > 1 {
					fail(errors.NewValidationError(lf.Name,
						"labeling functions must return -1, 0 or +1", v))
					return
				}
				L.Set(i, j, float64(v))
			}
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	names := make([]string, len(a.lfs))
	for j, lf := range a.lfs {
		names[j] = lf.Name
	}
	keys := make([]string, len(cands))
	for i, c := range cands {
		keys[i] = c.Key()
	}
	m := &Matrix{Dense: L, LFNames: names, Keys: keys}

	s := m.Summary()
	a.logger.Info("label matrix built",
		log.StageKey, log.StageLabel,
		log.CandidatesKey, len(cands),
		log.LabelingFunctionsKey, len(a.lfs),
		log.CoverageKey, s.Coverage,
		log.OverlapsKey, s.Overlaps,
		log.ConflictsKey, s.Conflicts,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

func safeLabel(lf LF, c *document.Candidate) (v int, err error) {
	defer errors.Recover(&err, "label."+lf.Name)
	return lf.F(c)
}

// Matches returns the candidates the labeling function labels with one of
// the given values, or with any non-zero value when none are given. It is a
// debugging aid for labeling function development.
func Matches(lf LF, cands []*document.Candidate, values ...int) ([]*document.Candidate, error) {
	want := make(map[int]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	var out []*document.Candidate
	for _, c := range cands {
		v, err := safeLabel(lf, c)
		if err != nil {
			return nil, errors.Wrapf(err, "label: %s failed on candidate %s", lf.Name, c.Key())
		}
		if len(values) == 0 && v != 0 {
			out = append(out, c)
		} else if want[v] {
			out = append(out, c)
		}
	}
	return out, nil
}
