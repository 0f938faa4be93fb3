// Package candidate enumerates and filters candidate mention tuples over
// parsed phrases.
//
// A Space proposes mention spans for a phrase, a Matcher filters them, and
// an Extractor combines per-argument spaces and matchers into candidate
// tuples tagged with their data split.
package candidate

import (
	"iter"

	"github.com/weaksignal/lfkit/document"
)

// Space proposes candidate mention spans for a phrase.
type Space interface {
	Spans(p *document.Phrase) iter.Seq[*document.Span]
}

// Ngrams is a Space emitting every token n-gram of a phrase up to NMax
// tokens, as spans with half-open char offsets. Spans are yielded by start
// token, shorter before longer.
type Ngrams struct {
	NMax int
}

// Spans implements Space.
func (g Ngrams) Spans(p *document.Phrase) iter.Seq[*document.Span] {
	return func(yield func(*document.Span) bool) {
		nMax := g.NMax
		if nMax < 1 {
			nMax = 1
		}
		for start := 0; start < len(p.Words); start++ {
			for n := 1; n <= nMax && start+n <= len(p.Words); n++ {
				last := start + n - 1
				charStart := p.CharOffsets[start]
				charEnd := p.CharOffsets[last] + len(p.Words[last])
				if !yield(document.NewSpan(p, charStart, charEnd)) {
					return
				}
			}
		}
	}
}
