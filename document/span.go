package document

import (
	"fmt"
	"sort"
	"strings"
)

// Mention is either a single span or a candidate tuple of spans. Context
// extractors accept mentions so labeling functions can probe candidates and
// their individual arguments with the same helpers.
type Mention interface {
	// Spans returns the constituent spans in argument order.
	Spans() []*Span
}

// Span is a half-open byte range [CharStart, CharEnd) within the text of
// its parent phrase.
type Span struct {
	Phrase    *Phrase
	CharStart int
	CharEnd   int
}

// NewSpan creates a span over phrase text bytes [charStart, charEnd).
func NewSpan(phrase *Phrase, charStart, charEnd int) *Span {
	return &Span{Phrase: phrase, CharStart: charStart, CharEnd: charEnd}
}

// Text returns the covered slice of the parent phrase's text.
func (s *Span) Text() string {
	return s.Phrase.Text[s.CharStart:s.CharEnd]
}

// WordStart returns the index of the first word overlapped by the span.
func (s *Span) WordStart() int {
	return charToWordIndex(s.Phrase.CharOffsets, s.CharStart)
}

// WordEnd returns the index of the last word overlapped by the span.
func (s *Span) WordEnd() int {
	return charToWordIndex(s.Phrase.CharOffsets, s.CharEnd-1)
}

// AttribTokens returns the tokens of the selected attribute covered by the
// span.
func (s *Span) AttribTokens(a Attribute) []string {
	tokens := s.Phrase.Attrib(a)
	start, end := s.WordStart(), s.WordEnd()
	if start < 0 || end >= len(tokens) {
		return nil
	}
	return tokens[start : end+1]
}

// AttribSpan returns the covered attribute tokens joined by sep.
func (s *Span) AttribSpan(a Attribute, sep string) string {
	return strings.Join(s.AttribTokens(a), sep)
}

// BoundingBox derives the span's bounding box from the parent phrase's
// per-token coordinates, restricted to the covered word range. ok is false
// when the phrase carries no visual information.
func (s *Span) BoundingBox() (BBox, bool) {
	p := s.Phrase
	if len(p.Top) == 0 {
		return BBox{}, false
	}
	start, end := s.WordStart(), s.WordEnd()
	if start < 0 || end >= len(p.Top) {
		return BBox{}, false
	}
	box := BBox{
		Top:    p.Top[start],
		Bottom: p.Bottom[start],
		Left:   p.Left[start],
		Right:  p.Right[start],
	}
	for i := start + 1; i <= end; i++ {
		box.Top = minFloat(box.Top, p.Top[i])
		box.Bottom = maxFloat(box.Bottom, p.Bottom[i])
		box.Left = minFloat(box.Left, p.Left[i])
		box.Right = maxFloat(box.Right, p.Right[i])
	}
	return box, true
}

// Spans implements Mention.
func (s *Span) Spans() []*Span { return []*Span{s} }

// charToWordIndex returns the index of the word whose character range
// contains byte offset c, i.e. the largest i with offsets[i] <= c.
func charToWordIndex(offsets []int, c int) int {
	i := sort.SearchInts(offsets, c+1) - 1
	if i < 0 {
		return 0
	}
	return i
}

// Candidate is an ordered tuple of spans forming one potential relation
// mention, tagged with the data split it was extracted into.
type Candidate struct {
	spans []*Span
	Split int
}

// NewCandidate creates a candidate over the given spans.
func NewCandidate(split int, spans ...*Span) *Candidate {
	return &Candidate{spans: spans, Split: split}
}

// Arity returns the number of argument spans.
func (c *Candidate) Arity() int { return len(c.spans) }

// Span returns the i-th argument span.
func (c *Candidate) Span(i int) *Span { return c.spans[i] }

// Spans implements Mention.
func (c *Candidate) Spans() []*Span { return c.spans }

// Key returns a stable identity for the candidate built from its document
// name and span offsets. Gold label stores are keyed by this value.
func (c *Candidate) Key() string {
	var b strings.Builder
	if len(c.spans) > 0 && c.spans[0].Phrase != nil && c.spans[0].Phrase.Document != nil {
		b.WriteString(c.spans[0].Phrase.Document.Name)
	}
	for _, s := range c.spans {
		fmt.Fprintf(&b, "::%d:%d-%d", s.Phrase.Position, s.CharStart, s.CharEnd)
	}
	return b.String()
}
