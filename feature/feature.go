// Package feature turns candidates into binary context-feature vectors over
// a learned vocabulary.
//
// A Generator emits feature strings for one candidate. The Annotator runs
// the generator over a training split to learn the vocabulary, then maps any
// split onto it, dropping unseen features.
package feature

import (
	"gonum.org/v1/gonum/mat"
)

// Vocabulary maps feature strings to stable column indices in first-seen
// order.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// Add returns the term's column index, inserting it if new.
func (v *Vocabulary) Add(term string) int {
	if i, ok := v.index[term]; ok {
		return i
	}
	i := len(v.terms)
	v.index[term] = i
	v.terms = append(v.terms, term)
	return i
}

// Index returns the term's column index, if present.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at column i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns a copy of the terms in column order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Matrix is a candidate-by-feature indicator matrix. Rows follow the
// candidate order of the call that built it; Keys holds the candidate keys
// for those rows.
type Matrix struct {
	*mat.Dense
	Vocab *Vocabulary
	Keys  []string
}

// NNZ returns the number of non-zero entries.
func (m *Matrix) NNZ() int {
	rows, cols := m.Dims()
	n := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.At(i, j) != 0 {
				n++
			}
		}
	}
	return n
}
