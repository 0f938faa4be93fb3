package label

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
)

// Gold holds gold labels in {-1, +1} keyed by candidate key.
type Gold map[string]int

// LoadGoldTSV reads gold labels from a file of lines in the form
// "candidateKey<TAB>label". Keys use the candidate Key format; labels must
// be -1 or 1. Blank lines are skipped.
func LoadGoldTSV(path string) (Gold, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "label: open gold file")
	}
	defer f.Close()

	gold := make(Gold)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		key, value, ok := strings.Cut(raw, "\t")
		if !ok {
			return nil, errors.NewValidationError("gold",
				"line is missing the key/label tab separator", line)
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || (v != -1 && v != 1) {
			return nil, errors.NewValidationError("gold",
				"labels must be -1 or 1", strings.TrimSpace(value))
		}
		gold[strings.TrimSpace(key)] = v
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "label: read gold file")
	}
	return gold, nil
}

// Vector maps candidates to their gold labels: -1 or +1 for labeled
// candidates and 0 for candidates without a gold label.
func (g Gold) Vector(cands []*document.Candidate) *mat.VecDense {
	if len(cands) == 0 {
		return &mat.VecDense{}
	}
	v := mat.NewVecDense(len(cands), nil)
	for i, c := range cands {
		v.SetVec(i, float64(g[c.Key()]))
	}
	return v
}

// Coverage returns the fraction of candidates with a gold label.
func (g Gold) Coverage(cands []*document.Candidate) float64 {
	if len(cands) == 0 {
		return 0
	}
	n := 0
	for _, c := range cands {
		if _, ok := g[c.Key()]; ok {
			n++
		}
	}
	return float64(n) / float64(len(cands))
}
