// Package ngram generates n-grams over token slices.
//
// Sequences are lazy and restartable: ranging over the returned iterator
// walks end positions left to right and, at each end position, yields the
// longer n-grams before the shorter ones, so for tokens
// ["the", "quick", "brown", "fox"] with n in [1, 2] the order is
//
//	the, the quick, quick, quick brown, brown, brown fox, fox
//
// N-grams are Unicode case folded by default so labeling functions can
// match surface forms case-insensitively; pass Unfolded to keep the
// original casing.
package ngram

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

type config struct {
	delim  string
	folded bool
}

// Option configures n-gram generation.
type Option func(*config)

// Delim sets the string joining the tokens of a multi-token n-gram.
// The default is a single space.
func Delim(d string) Option {
	return func(c *config) { c.delim = d }
}

// Unfolded disables Unicode case folding of the generated n-grams.
func Unfolded() Option {
	return func(c *config) { c.folded = false }
}

// Tokens returns the n-grams of length nMin through nMax over tokens.
// nMin values below 1 are treated as 1; when nMin exceeds nMax or tokens
// is empty the sequence is empty. Lengths are capped at the number of
// tokens available to the left of each end position.
func Tokens(tokens []string, nMin, nMax int, opts ...Option) iter.Seq[string] {
	cfg := config{delim: " ", folded: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if nMin < 1 {
		nMin = 1
	}
	return func(yield func(string) bool) {
		// Caser carries internal state, so each restart gets its own.
		var folder cases.Caser
		if cfg.folded {
			folder = cases.Fold()
		}
		for end := 0; end < len(tokens); end++ {
			longest := nMax
			if avail := end + 1; longest > avail {
				longest = avail
			}
			for n := longest; n >= nMin; n-- {
				g := strings.Join(tokens[end+1-n:end+1], cfg.delim)
				if cfg.folded {
					g = folder.String(g)
				}
				if !yield(g) {
					return
				}
			}
		}
	}
}
