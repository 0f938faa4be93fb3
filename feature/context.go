package feature

import (
	"fmt"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/extract"
	"github.com/weaksignal/lfkit/visual"
)

// ContextFeatures builds the standard context feature generator. For each
// argument span it emits the span's own n-grams, windowed left and right
// context, row and column context, header-cell n-grams and direction-tagged
// neighbor-cell n-grams; binary candidates additionally get the n-grams
// between their arguments. Features are prefixed with their source and the
// argument index.
//
// When aligner is non-nil, visually aligned lemmas contribute features for
// phrases with coordinate data. Options tune the underlying extractors.
func ContextFeatures(aligner *visual.Aligner, opts ...extract.Option) Generator {
	return func(c *document.Candidate) ([]string, error) {
		var feats []string
		add := func(prefix string, g string) {
			feats = append(feats, prefix+g)
		}

		if c.Arity() == 2 {
			between, err := extract.BetweenNgrams(c, opts...)
			if err != nil {
				return nil, err
			}
			for g := range between {
				add("BETWEEN_", g)
			}
		}

		for i, s := range c.Spans() {
			arg := fmt.Sprintf("%d_", i)
			for g := range extract.MentionNgrams(s, opts...) {
				add("WORD_"+arg, g)
			}
			for g := range extract.LeftNgrams(s, opts...) {
				add("LEFT_"+arg, g)
			}
			for g := range extract.RightNgrams(s, opts...) {
				add("RIGHT_"+arg, g)
			}
			if s.Phrase.Cell != nil {
				for g := range extract.RowNgrams(s, opts...) {
					add("ROW_"+arg, g)
				}
				for g := range extract.ColNgrams(s, opts...) {
					add("COL_"+arg, g)
				}
				for g := range extract.HeadNgrams(s, document.AxisRow, opts...) {
					add("HEAD_ROW_"+arg, g)
				}
				for g := range extract.HeadNgrams(s, document.AxisCol, opts...) {
					add("HEAD_COL_"+arg, g)
				}
				for g, dir := range extract.NeighborCellNgramsTagged(s, opts...) {
					if dir == extract.DirNone {
						add("CELL_"+arg, g)
					} else {
						add("NEIGHBOR_"+arg+dir.String()+"_", g)
					}
				}
			}
			if aligner != nil {
				for _, lemma := range aligner.AlignedLemmas(s) {
					add("VIZ_"+arg, lemma)
				}
			}
		}
		return feats, nil
	}
}
