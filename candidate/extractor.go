package candidate

import (
	"slices"
	"time"

	"github.com/weaksignal/lfkit/core/parallel"
	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

// Extractor turns phrases into candidate tuples. Each argument slot has its
// own span space and matcher. Binary extractors take the cross product of
// the two argument slots, excluding self pairs and nested pairs and keeping
// one of each mirrored pair.
type Extractor struct {
	name      string
	spaces    []Space
	matchers  []Matcher
	selfPairs bool
	nested    bool
	throttler func(a, b *document.Span) bool
	logger    log.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithSelfPairs allows binary candidates whose two arguments are the same
// span.
func WithSelfPairs() ExtractorOption {
	return func(e *Extractor) { e.selfPairs = true }
}

// WithNestedPairs allows binary candidates where one argument span contains
// the other.
func WithNestedPairs() ExtractorOption {
	return func(e *Extractor) { e.nested = true }
}

// WithThrottler filters binary candidates after enumeration. Pairs the
// throttler rejects are dropped.
func WithThrottler(f func(a, b *document.Span) bool) ExtractorOption {
	return func(e *Extractor) { e.throttler = f }
}

// NewExtractor builds an extractor with one space and matcher per argument
// slot. Unary and binary extractors are supported.
func NewExtractor(name string, spaces []Space, matchers []Matcher, opts ...ExtractorOption) (*Extractor, error) {
	if len(spaces) == 0 {
		return nil, errors.NewValidationError("spaces", "at least one argument slot is required", 0)
	}
	if len(spaces) != len(matchers) {
		return nil, errors.NewValidationError("matchers",
			"argument slots need one matcher per space", len(matchers))
	}
	if len(spaces) > 2 {
		return nil, errors.NewValidationError("spaces",
			"only unary and binary extractors are supported", len(spaces))
	}
	e := &Extractor{
		name:     name,
		spaces:   spaces,
		matchers: matchers,
		logger:   log.GetLoggerWithName("candidate"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Name returns the extractor's name.
func (e *Extractor) Name() string { return e.name }

// Arity returns the number of argument slots.
func (e *Extractor) Arity() int { return len(e.spaces) }

// Apply enumerates candidates over the phrases and tags them with the
// split. Spans used by kept candidates are registered on their phrases.
// Phrases are processed in parallel; output order follows phrase order.
func (e *Extractor) Apply(phrases []*document.Phrase, split int) []*document.Candidate {
	start := time.Now()

	buckets := make([][]*document.Candidate, len(phrases))
	parallel.Parallelize(len(phrases), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			buckets[i] = e.phraseCandidates(phrases[i], split)
		}
	})

	var out []*document.Candidate
	for _, b := range buckets {
		out = append(out, b...)
	}

	e.logger.Info("candidates extracted",
		log.StageKey, log.StageExtract,
		"extractor", e.name,
		log.SplitKey, split,
		log.PhrasesKey, len(phrases),
		log.CandidatesKey, len(out),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out
}

func (e *Extractor) phraseCandidates(p *document.Phrase, split int) []*document.Candidate {
	// Intern spans by interval so every slot shares one pointer per
	// interval. Registered spans then stay unique on the phrase.
	interned := make(map[[2]int]*document.Span)
	intern := func(s *document.Span) *document.Span {
		key := [2]int{s.CharStart, s.CharEnd}
		if existing, ok := interned[key]; ok {
			return existing
		}
		interned[key] = s
		return s
	}

	argLists := make([][]*document.Span, len(e.spaces))
	for k, space := range e.spaces {
		raw := slices.Collect(space.Spans(p))
		for i, s := range raw {
			raw[i] = intern(s)
		}
		argLists[k] = e.matchers[k].Filter(raw)
	}

	registered := make(map[*document.Span]bool, len(p.Spans))
	for _, s := range p.Spans {
		registered[s] = true
	}
	register := func(s *document.Span) {
		if !registered[s] {
			registered[s] = true
			p.Spans = append(p.Spans, s)
		}
	}

	var out []*document.Candidate
	if len(argLists) == 1 {
		for _, s := range argLists[0] {
			register(s)
			out = append(out, document.NewCandidate(split, s))
		}
		return out
	}

	seen := make(map[[4]int]bool)
	for _, a := range argLists[0] {
		for _, b := range argLists[1] {
			if a == b && !e.selfPairs {
				continue
			}
			if !e.nested && (containsSpan(a, b) || containsSpan(b, a)) {
				continue
			}
			if seen[pairKey(a, b)] {
				continue
			}
			seen[pairKey(a, b)] = true
			if e.throttler != nil && !e.throttler(a, b) {
				continue
			}
			register(a)
			register(b)
			out = append(out, document.NewCandidate(split, a, b))
		}
	}
	return out
}

// pairKey is the unordered interval pair, so mirrored enumerations collapse
// onto the first one seen.
func pairKey(a, b *document.Span) [4]int {
	if b.CharStart < a.CharStart || (b.CharStart == a.CharStart && b.CharEnd < a.CharEnd) {
		a, b = b, a
	}
	return [4]int{a.CharStart, a.CharEnd, b.CharStart, b.CharEnd}
}
