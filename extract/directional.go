package extract

import (
	"iter"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/ngram"
	"github.com/weaksignal/lfkit/pkg/errors"
)

// leftWindow returns the attribute tokens in the window before the span.
func leftWindow(s *document.Span, o options) []string {
	toks := s.Phrase.Attrib(o.attrib)
	hi := s.WordStart()
	if hi > len(toks) {
		hi = len(toks)
	}
	lo := hi - o.window
	if lo < 0 {
		lo = 0
	}
	return toks[lo:hi]
}

// rightWindow returns the attribute tokens in the window after the span.
func rightWindow(s *document.Span, o options) []string {
	toks := s.Phrase.Attrib(o.attrib)
	lo := s.WordEnd() + 1
	if lo > len(toks) {
		lo = len(toks)
	}
	hi := lo + o.window
	if hi > len(toks) {
		hi = len(toks)
	}
	return toks[lo:hi]
}

// LeftNgrams generates the n-grams in a window of tokens before the
// mention in its parent phrase. For a multi-span candidate the first
// argument span is used.
func LeftNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	spans := m.Spans()
	if len(spans) == 0 {
		return emptySeq
	}
	return ngram.Tokens(leftWindow(spans[0], o), o.nMin, o.nMax, o.ngramOpts()...)
}

// RightNgrams generates the n-grams in a window of tokens after the
// mention in its parent phrase. For a multi-span candidate the last
// argument span is used.
func RightNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	spans := m.Spans()
	if len(spans) == 0 {
		return emptySeq
	}
	return ngram.Tokens(rightWindow(spans[len(spans)-1], o), o.nMin, o.nMax, o.ngramOpts()...)
}

// BetweenNgrams generates the n-grams over the tokens strictly between the
// two spans of a binary candidate. Both spans must come from the same
// phrase. The result is independent of argument order, and spans that
// touch or overlap yield an empty sequence.
func BetweenNgrams(c *document.Candidate, opts ...Option) (iter.Seq[string], error) {
	if c.Arity() != 2 {
		return nil, errors.NewContractErrorf("between_ngrams",
			"candidate must have exactly 2 spans, got %d", c.Arity())
	}
	first, second := c.Span(0), c.Span(1)
	if first.Phrase != second.Phrase {
		return nil, errors.NewContractError("between_ngrams",
			"spans must come from the same phrase")
	}
	if second.WordStart() < first.WordStart() {
		first, second = second, first
	}
	o := buildOptions(opts)
	toks := first.Phrase.Attrib(o.attrib)
	lo := first.WordEnd() + 1
	hi := second.WordStart()
	if lo > hi {
		lo = hi
	}
	if hi > len(toks) {
		hi = len(toks)
	}
	if lo > len(toks) {
		lo = len(toks)
	}
	return ngram.Tokens(toks[lo:hi], o.nMin, o.nMax, o.ngramOpts()...), nil
}
