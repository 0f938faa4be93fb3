package extract

import (
	"iter"
	"regexp"

	"golang.org/x/text/cases"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/ngram"
)

// phraseWindow is wide enough to cover any realistic phrase, so the left
// and right windows together span the whole parent phrase.
const phraseWindow = 100

// phraseSpanNgrams generates the n-grams of a span's parent phrase,
// excluding the span itself.
func phraseSpanNgrams(s *document.Span, o options) iter.Seq[string] {
	wide := o
	wide.window = phraseWindow
	return func(yield func(string) bool) {
		if !pipe(ngram.Tokens(leftWindow(s, wide), o.nMin, o.nMax, o.ngramOpts()...), yield) {
			return
		}
		pipe(ngram.Tokens(rightWindow(s, wide), o.nMin, o.nMax, o.ngramOpts()...), yield)
	}
}

// PhraseNgrams generates, for each span of the mention, the n-grams of the
// span's parent phrase excluding the span itself.
func PhraseNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			if !pipe(phraseSpanNgrams(s, o), yield) {
				return
			}
		}
	}
}

// MentionNgrams generates the n-grams over each span's own tokens.
func MentionNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			toks := s.AttribTokens(o.attrib)
			if !pipe(ngram.Tokens(toks, o.nMin, o.nMax, o.ngramOpts()...), yield) {
				return
			}
		}
	}
}

// NeighborPhraseNgrams generates the full-phrase n-grams of phrases whose
// document position is within WithDistance of a mention span's phrase,
// excluding that phrase itself.
func NeighborPhraseNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			doc := s.Phrase.Document
			if doc == nil {
				continue
			}
			for _, p := range doc.Phrases {
				if p == s.Phrase || abs(p.Position-s.Phrase.Position) > o.dist {
					continue
				}
				if !pipe(fullPhraseNgrams(p, o), yield) {
					return
				}
			}
		}
	}
}

// CellNgrams generates the phrase n-grams of each mention span plus the
// full-phrase n-grams of the other phrases in the same cell.
func CellNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			if !pipe(phraseSpanNgrams(s, o), yield) {
				return
			}
			cell := s.Phrase.Cell
			if cell == nil {
				continue
			}
			for _, p := range cell.Phrases {
				if p == s.Phrase {
					continue
				}
				if !pipe(fullPhraseNgrams(p, o), yield) {
					return
				}
			}
		}
	}
}

// ContainsToken reports whether any span of the mention contains the given
// token under the selected attribute. Comparison is case folded unless
// WithoutFolding is passed.
func ContainsToken(m document.Mention, tok string, opts ...Option) bool {
	o := buildOptions(opts)
	fold := func(s string) string { return s }
	if o.folded {
		folder := cases.Fold()
		fold = folder.String
	}
	want := fold(tok)
	for _, s := range m.Spans() {
		for _, w := range s.AttribTokens(o.attrib) {
			if fold(w) == want {
				return true
			}
		}
	}
	return false
}

// ContainsRegex reports whether the space-joined attribute tokens of any
// span match re. Case-insensitive matching is the caller's choice via the
// (?i) flag.
func ContainsRegex(m document.Mention, re *regexp.Regexp, opts ...Option) bool {
	o := buildOptions(opts)
	for _, s := range m.Spans() {
		if re.MatchString(s.AttribSpan(o.attrib, " ")) {
			return true
		}
	}
	return false
}

// DocCandidateSpans returns the spans registered on phrases of the
// candidate's document, excluding the candidate's own spans.
func DocCandidateSpans(c *document.Candidate) []*document.Span {
	if c.Arity() == 0 || c.Span(0).Phrase == nil || c.Span(0).Phrase.Document == nil {
		return nil
	}
	own := make(map[*document.Span]bool, c.Arity())
	for _, s := range c.Spans() {
		own[s] = true
	}
	var out []*document.Span
	for _, p := range c.Span(0).Phrase.Document.Phrases {
		for _, s := range p.Spans {
			if !own[s] {
				out = append(out, s)
			}
		}
	}
	return out
}

// PhraseCandidateSpans returns the spans registered on the candidate's own
// parent phrase, excluding the candidate's own spans.
func PhraseCandidateSpans(c *document.Candidate) []*document.Span {
	if c.Arity() == 0 || c.Span(0).Phrase == nil {
		return nil
	}
	own := make(map[*document.Span]bool, c.Arity())
	for _, s := range c.Spans() {
		own[s] = true
	}
	var out []*document.Span
	for _, s := range c.Span(0).Phrase.Spans {
		if !own[s] {
			out = append(out, s)
		}
	}
	return out
}

// Overlap reports whether the two token sets share at least one element.
func Overlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if set[t] {
			return true
		}
	}
	return false
}
