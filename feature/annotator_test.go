package feature

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
)

// wordCandidates builds one unary candidate per word, each on its own
// single-token phrase.
func wordCandidates(words ...string) []*document.Candidate {
	doc := &document.Document{Name: "doc"}
	var cands []*document.Candidate
	for i, w := range words {
		ph := &document.Phrase{
			Document:    doc,
			Position:    i,
			Text:        w,
			Words:       []string{w},
			Lemmas:      []string{strings.ToLower(w)},
			POSTags:     []string{"NN"},
			CharOffsets: []int{0},
			RowStart:    -1,
			RowEnd:      -1,
			ColStart:    -1,
			ColEnd:      -1,
		}
		doc.Phrases = append(doc.Phrases, ph)
		span := document.NewSpan(ph, 0, len(w))
		ph.Spans = append(ph.Spans, span)
		cands = append(cands, document.NewCandidate(0, span))
	}
	return cands
}

// textGen emits one feature per candidate: its span text.
func textGen(c *document.Candidate) ([]string, error) {
	return []string{"TEXT_" + c.Span(0).Text()}, nil
}

func TestAnnotatorApply(t *testing.T) {
	cands := wordCandidates("a", "b", "a")
	a := NewAnnotator(textGen)

	m, err := a.Apply(cands)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := m.Dims()
	if rows != 3 || cols != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", rows, cols)
	}
	if diff := cmp.Diff([]string{"TEXT_a", "TEXT_b"}, m.Vocab.Terms()); diff != "" {
		t.Errorf("vocabulary mismatch (-want +got):\n%s", diff)
	}
	want := [][]float64{{1, 0}, {0, 1}, {1, 0}}
	for i := range want {
		for j := range want[i] {
			if m.At(i, j) != want[i][j] {
				t.Errorf("F[%d,%d] = %v, want %v", i, j, m.At(i, j), want[i][j])
			}
		}
	}
	if m.NNZ() != 3 {
		t.Errorf("NNZ = %d, want 3", m.NNZ())
	}
	if m.Keys[0] != cands[0].Key() {
		t.Errorf("Keys[0] = %q, want %q", m.Keys[0], cands[0].Key())
	}
}

func TestAnnotatorApplyExisting(t *testing.T) {
	a := NewAnnotator(textGen)

	if _, err := a.ApplyExisting(wordCandidates("a")); err == nil {
		t.Fatal("ApplyExisting before Apply succeeded, want NotFittedError")
	} else {
		var nferr *errors.NotFittedError
		if !errors.As(err, &nferr) {
			t.Fatalf("got %v, want NotFittedError", err)
		}
	}

	if _, err := a.Apply(wordCandidates("a", "b")); err != nil {
		t.Fatal(err)
	}

	// "c" is outside the learned vocabulary and must be dropped.
	m, err := a.ApplyExisting(wordCandidates("b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := m.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("dims = %dx%d, want 2x2 over the training vocabulary", rows, cols)
	}
	if m.At(0, 1) != 1 {
		t.Error("known feature not set for the dev candidate")
	}
	if m.NNZ() != 1 {
		t.Errorf("NNZ = %d, want 1 with the unseen feature dropped", m.NNZ())
	}
	if a.Vocabulary().Len() != 2 {
		t.Errorf("vocabulary grew to %d terms during ApplyExisting", a.Vocabulary().Len())
	}
}

func TestAnnotatorRecoversPanic(t *testing.T) {
	a := NewAnnotator(func(*document.Candidate) ([]string, error) { panic("boom") })
	_, err := a.Apply(wordCandidates("x"))
	var perr *errors.PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want PanicError", err)
	}
}

func TestAnnotatorValidatesInputs(t *testing.T) {
	var verr *errors.ValidationError
	if _, err := NewAnnotator(textGen).Apply(nil); !errors.As(err, &verr) {
		t.Errorf("empty candidates: got %v, want ValidationError", err)
	}
	empty := NewAnnotator(func(*document.Candidate) ([]string, error) { return nil, nil })
	if _, err := empty.Apply(wordCandidates("x")); !errors.As(err, &verr) {
		t.Errorf("no features: got %v, want ValidationError", err)
	}
}

func TestVocabulary(t *testing.T) {
	v := NewVocabulary()
	if i := v.Add("x"); i != 0 {
		t.Errorf("first Add = %d, want 0", i)
	}
	if i := v.Add("y"); i != 1 {
		t.Errorf("second Add = %d, want 1", i)
	}
	if i := v.Add("x"); i != 0 {
		t.Errorf("repeated Add = %d, want 0", i)
	}
	if _, ok := v.Index("z"); ok {
		t.Error("Index found a missing term")
	}
	if v.Term(1) != "y" || v.Len() != 2 {
		t.Errorf("Term/Len mismatch: %q, %d", v.Term(1), v.Len())
	}
}
