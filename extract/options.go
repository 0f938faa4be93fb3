package extract

import (
	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/ngram"
)

type options struct {
	attrib     document.Attribute
	nMin, nMax int
	window     int
	dist       int
	folded     bool
	direct     bool
	infer      bool
}

func buildOptions(opts []Option) options {
	o := options{
		attrib: document.Words,
		nMin:   1,
		nMax:   1,
		window: 3,
		dist:   1,
		folded: true,
		direct: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) ngramOpts() []ngram.Option {
	if o.folded {
		return nil
	}
	return []ngram.Option{ngram.Unfolded()}
}

// Option configures an extractor call.
type Option func(*options)

// WithAttribute selects the token attribute to draw n-grams from.
// The default is document.Words.
func WithAttribute(a document.Attribute) Option {
	return func(o *options) { o.attrib = a }
}

// WithN sets the n-gram length bounds. The default is unigrams only.
func WithN(nMin, nMax int) Option {
	return func(o *options) {
		o.nMin = nMin
		o.nMax = nMax
	}
}

// WithWindow sets the token window for LeftNgrams and RightNgrams.
// The default is 3.
func WithWindow(w int) Option {
	return func(o *options) { o.window = w }
}

// WithDistance bounds how far a neighboring phrase or cell may be for
// NeighborPhraseNgrams and NeighborCellNgrams. The default is 1.
func WithDistance(d int) Option {
	return func(o *options) { o.dist = d }
}

// WithoutFolding disables case folding of the generated n-grams.
func WithoutFolding() Option {
	return func(o *options) { o.folded = false }
}

// WithInfer makes the axis extractors treat a structurally empty cell as
// transparent: its content is substituted by the nearest non-empty cell
// above it (row extraction) or to its left (column extraction), stopping
// at the table edge.
func WithInfer() Option {
	return func(o *options) { o.infer = true }
}

// WithoutDirect suppresses the literal content of aligned cells, so only
// inferred substitutes are reported. Meaningful only together with
// WithInfer; without it extraction behaves as direct.
func WithoutDirect() Option {
	return func(o *options) { o.direct = false }
}
