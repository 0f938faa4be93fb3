// Package extract provides the context extractors that labeling functions
// use to probe the neighborhood of a candidate: windowed n-grams to the
// left and right of a span, the tokens strictly between the spans of a
// binary candidate, tagged text for regex matching, and row, column, cell
// and neighbor-cell n-grams over the table grid.
//
// Extractors return lazy, restartable sequences. Missing structure, such as
// a span outside any table or a phrase with no visual coordinates, yields
// an empty sequence rather than an error; contract violations such as the
// wrong span arity fail with a ContractError.
package extract

import (
	"iter"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/ngram"
)

// Direction tags an n-gram from a neighboring cell by the signed grid
// offset of that neighbor from the span's cell: a neighbor below the span
// is tagged DirUp, a neighbor above DirDown, a neighbor to the left
// DirLeft and to the right DirRight. DirNone marks n-grams drawn from the
// span's own phrase.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	case DirRight:
		return "RIGHT"
	default:
		return ""
	}
}

// emptySeq is the restartable empty sequence.
var emptySeq iter.Seq[string] = func(func(string) bool) {}

// pipe forwards seq into yield, reporting whether iteration may continue.
func pipe(seq iter.Seq[string], yield func(string) bool) bool {
	for g := range seq {
		if !yield(g) {
			return false
		}
	}
	return true
}

// fullPhraseNgrams generates the n-grams of an entire phrase.
func fullPhraseNgrams(p *document.Phrase, o options) iter.Seq[string] {
	return ngram.Tokens(p.Attrib(o.attrib), o.nMin, o.nMax, o.ngramOpts()...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
