package candidate

import (
	"regexp"

	"golang.org/x/text/cases"

	"github.com/weaksignal/lfkit/document"
)

// Matcher filters the candidate spans of a single phrase, preserving input
// order.
type Matcher interface {
	Filter(spans []*document.Span) []*document.Span
}

type matcherConfig struct {
	attrib  document.Attribute
	longest bool
}

// MatcherOption configures a matcher.
type MatcherOption func(*matcherConfig)

// WithMatchAttribute selects the token attribute matched against.
// The default is the raw words.
func WithMatchAttribute(a document.Attribute) MatcherOption {
	return func(c *matcherConfig) { c.attrib = a }
}

// WithAllMatches disables longest-match-only filtering, keeping matching
// spans that are contained in a longer matching span.
func WithAllMatches() MatcherOption {
	return func(c *matcherConfig) { c.longest = false }
}

func buildMatcherConfig(opts []MatcherOption) matcherConfig {
	c := matcherConfig{attrib: document.Words, longest: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DictionaryMatch accepts spans whose case-folded attribute text equals one
// of the dictionary terms. Multi-token terms are matched against the span
// tokens joined with single spaces. Longest-match-only filtering is on by
// default.
type DictionaryMatch struct {
	terms map[string]bool
	cfg   matcherConfig
}

// NewDictionaryMatch builds a matcher over the given terms. Terms are
// case-folded at construction.
func NewDictionaryMatch(terms []string, opts ...MatcherOption) *DictionaryMatch {
	folder := cases.Fold()
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[folder.String(t)] = true
	}
	return &DictionaryMatch{terms: set, cfg: buildMatcherConfig(opts)}
}

// Filter implements Matcher.
func (m *DictionaryMatch) Filter(spans []*document.Span) []*document.Span {
	folder := cases.Fold()
	matched := filterSpans(spans, func(s *document.Span) bool {
		return m.terms[folder.String(s.AttribSpan(m.cfg.attrib, " "))]
	})
	if m.cfg.longest {
		return dropContained(matched)
	}
	return matched
}

// RegexMatch accepts spans whose whole attribute text matches the compiled
// expression. Case sensitivity is up to the expression. Longest-match-only
// filtering is on by default.
type RegexMatch struct {
	re  *regexp.Regexp
	cfg matcherConfig
}

// NewRegexMatch builds a matcher around a compiled expression.
func NewRegexMatch(re *regexp.Regexp, opts ...MatcherOption) *RegexMatch {
	return &RegexMatch{re: re, cfg: buildMatcherConfig(opts)}
}

// Filter implements Matcher.
func (m *RegexMatch) Filter(spans []*document.Span) []*document.Span {
	matched := filterSpans(spans, func(s *document.Span) bool {
		text := s.AttribSpan(m.cfg.attrib, " ")
		loc := m.re.FindStringIndex(text)
		return loc != nil && loc[0] == 0 && loc[1] == len(text)
	})
	if m.cfg.longest {
		return dropContained(matched)
	}
	return matched
}

// Union accepts spans accepted by any member matcher.
type Union struct {
	members []Matcher
}

// NewUnion combines matchers. An empty union accepts nothing.
func NewUnion(members ...Matcher) *Union {
	return &Union{members: members}
}

// Filter implements Matcher.
func (m *Union) Filter(spans []*document.Span) []*document.Span {
	accepted := make(map[*document.Span]bool)
	for _, member := range m.members {
		for _, s := range member.Filter(spans) {
			accepted[s] = true
		}
	}
	return filterSpans(spans, func(s *document.Span) bool { return accepted[s] })
}

func filterSpans(spans []*document.Span, keep func(*document.Span) bool) []*document.Span {
	var out []*document.Span
	for _, s := range spans {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// dropContained removes spans strictly contained in another kept span.
func dropContained(spans []*document.Span) []*document.Span {
	return filterSpans(spans, func(s *document.Span) bool {
		for _, other := range spans {
			if other != s && containsSpan(other, s) {
				return false
			}
		}
		return true
	})
}

// containsSpan reports whether outer covers inner with at least one side
// strictly wider.
func containsSpan(outer, inner *document.Span) bool {
	if outer.CharStart > inner.CharStart || outer.CharEnd < inner.CharEnd {
		return false
	}
	return outer.CharStart < inner.CharStart || outer.CharEnd > inner.CharEnd
}
