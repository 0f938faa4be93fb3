// Package visual propagates lemma context between phrases that are
// visually aligned on a page.
//
// Phrases are grouped per page by exact equality of four alignment keys,
// vertical center, left edge, right edge and horizontal center. Within a
// group, context streams forward in document order: each phrase absorbs
// the lemmas accumulated from earlier group members, and phrases with
// fewer than seven lemmas contribute their alphabetic lemmas, lowercased
// and once more with the group's prefix, to the running context. The
// result is asymmetric on purpose: a phrase inherits only from phrases
// before it, approximating the reading order in which labels precede
// values.
package visual

import (
	"iter"
	"sort"
	"strings"
	"unicode"

	"github.com/weaksignal/lfkit/document"
)

// Alignment prefixes marking which key a context lemma traveled along.
const (
	PrefixY      = "Y_"
	PrefixLeft   = "LEFT_"
	PrefixRight  = "RIGHT_"
	PrefixCenter = "CENTER_"
)

// contributeLimit is the lemma count at which a phrase stops feeding the
// group context; long phrases are prose, not labels.
const contributeLimit = 7

// Aligner computes and caches aligned-lemma sets per document. The zero
// value is not usable; construct with NewAligner. An Aligner is not safe
// for concurrent use.
type Aligner struct {
	computed map[*document.Document]bool
	lemmas   map[*document.Phrase][]string
}

func NewAligner() *Aligner {
	return &Aligner{
		computed: make(map[*document.Document]bool),
		lemmas:   make(map[*document.Phrase][]string),
	}
}

// Computed reports whether the document's alignment features have been
// computed.
func (a *Aligner) Computed(doc *document.Document) bool {
	return a.computed[doc]
}

// Ensure computes the alignment features of doc once; later calls are
// no-ops. Every phrase of the document gets an aligned-lemma set, empty
// for phrases without coordinate data or without aligned company.
func (a *Aligner) Ensure(doc *document.Document) {
	if doc == nil || a.computed[doc] {
		return
	}
	a.computed[doc] = true

	sets := make(map[*document.Phrase]map[string]struct{}, len(doc.Phrases))
	byPage := make(map[int][]*document.Phrase)
	for _, p := range doc.Phrases {
		sets[p] = make(map[string]struct{})
		byPage[p.Page] = append(byPage[p.Page], p)
	}

	for _, phrases := range byPage {
		ycGroups := make(map[float64][]*document.Phrase)
		x0Groups := make(map[float64][]*document.Phrase)
		x1Groups := make(map[float64][]*document.Phrase)
		xcGroups := make(map[float64][]*document.Phrase)
		for _, p := range phrases {
			box, ok := p.BoundingBox()
			if !ok {
				continue
			}
			ycGroups[box.VCenter()] = append(ycGroups[box.VCenter()], p)
			x0Groups[box.Left] = append(x0Groups[box.Left], p)
			x1Groups[box.Right] = append(x1Groups[box.Right], p)
			xcGroups[box.HCenter()] = append(xcGroups[box.HCenter()], p)
		}
		// Group members share the exact alignment coordinate, so a stable
		// sort by it is the identity and document order stands.
		assignAlignmentFeatures(sets, ycGroups, PrefixY)
		assignAlignmentFeatures(sets, x0Groups, PrefixLeft)
		assignAlignmentFeatures(sets, x1Groups, PrefixRight)
		assignAlignmentFeatures(sets, xcGroups, PrefixCenter)
	}

	for p, set := range sets {
		if len(set) == 0 {
			a.lemmas[p] = nil
			continue
		}
		out := make([]string, 0, len(set))
		for lemma := range set {
			out = append(out, lemma)
		}
		sort.Strings(out)
		a.lemmas[p] = out
	}
}

// assignAlignmentFeatures streams context through each group of size > 1:
// absorb first, then contribute.
func assignAlignmentFeatures(sets map[*document.Phrase]map[string]struct{}, groups map[float64][]*document.Phrase, prefix string) {
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		context := make(map[string]struct{})
		for _, p := range group {
			for lemma := range context {
				sets[p][lemma] = struct{}{}
			}
			if len(p.Lemmas) >= contributeLimit {
				continue
			}
			for _, lemma := range p.Lemmas {
				if !alphabetic(lemma) {
					continue
				}
				lower := strings.ToLower(lemma)
				context[lower] = struct{}{}
				context[prefix+lower] = struct{}{}
			}
		}
	}
}

func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// phraseLemmas returns the cached sorted lemma slice for the span's
// phrase, computing the document on first access.
func (a *Aligner) phraseLemmas(s *document.Span) []string {
	if s == nil || s.Phrase == nil || s.Phrase.Document == nil {
		return nil
	}
	a.Ensure(s.Phrase.Document)
	return a.lemmas[s.Phrase]
}

// AlignedLemmas returns the sorted aligned-lemma set of the span's
// phrase. The document's features are computed on first access.
func (a *Aligner) AlignedLemmas(s *document.Span) []string {
	stored := a.phraseLemmas(s)
	if len(stored) == 0 {
		return nil
	}
	out := make([]string, len(stored))
	copy(out, stored)
	return out
}

// HasAlignedLemma reports whether lemma is in the aligned-lemma set of
// the span's phrase.
func (a *Aligner) HasAlignedLemma(s *document.Span, lemma string) bool {
	stored := a.phraseLemmas(s)
	i := sort.SearchStrings(stored, lemma)
	return i < len(stored) && stored[i] == lemma
}

// VisualAlignedLemmas yields the span's aligned lemmas in sorted order.
// The document's features are computed on first access.
func (a *Aligner) VisualAlignedLemmas(s *document.Span) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, lemma := range a.phraseLemmas(s) {
			if !yield(lemma) {
				return
			}
		}
	}
}

// Default is the shared package-level aligner for call sites that carry no
// aligner of their own. Like any Aligner it is not safe for concurrent
// first access to a document.
var Default = NewAligner()

// VisualAlignedLemmas yields the aligned lemmas of the span's phrase from
// the Default aligner.
func VisualAlignedLemmas(s *document.Span) iter.Seq[string] {
	return Default.VisualAlignedLemmas(s)
}
