package extract

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
)

func TestLeftNgrams(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("a b c d e")
	s := spanOver(p, 3, 3) // d

	got := slices.Collect(LeftNgrams(s))
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("LeftNgrams() mismatch (-want +got):\n%s", diff)
	}

	got = slices.Collect(LeftNgrams(s, WithWindow(2)))
	if diff := cmp.Diff([]string{"b", "c"}, got); diff != "" {
		t.Errorf("LeftNgrams(WithWindow(2)) mismatch (-want +got):\n%s", diff)
	}
}

func TestRightNgrams(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("a b c d e")
	s := spanOver(p, 1, 1) // b

	got := slices.Collect(RightNgrams(s))
	if diff := cmp.Diff([]string{"c", "d", "e"}, got); diff != "" {
		t.Errorf("RightNgrams() mismatch (-want +got):\n%s", diff)
	}

	edge := spanOver(p, 4, 4) // e
	if got := slices.Collect(RightNgrams(edge)); len(got) != 0 {
		t.Errorf("RightNgrams() at phrase end = %v, want empty", got)
	}
}

func TestDirectionalNgramsOfCandidate(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("a b c d e")
	c := document.NewCandidate(0, spanOver(p, 1, 1), spanOver(p, 3, 3))

	// Left of the first argument, right of the last.
	if diff := cmp.Diff([]string{"a"}, slices.Collect(LeftNgrams(c))); diff != "" {
		t.Errorf("LeftNgrams(candidate) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"e"}, slices.Collect(RightNgrams(c))); diff != "" {
		t.Errorf("RightNgrams(candidate) mismatch (-want +got):\n%s", diff)
	}
}

func TestBetweenNgrams(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("the quick brown fox jumps")
	a := spanOver(p, 1, 2) // quick brown
	b := spanOver(p, 4, 4) // jumps

	seq, err := BetweenNgrams(document.NewCandidate(0, a, b))
	if err != nil {
		t.Fatalf("BetweenNgrams() error: %v", err)
	}
	if diff := cmp.Diff([]string{"fox"}, slices.Collect(seq)); diff != "" {
		t.Errorf("BetweenNgrams() mismatch (-want +got):\n%s", diff)
	}
}

func TestBetweenNgramsSymmetric(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("alpha beta gamma delta epsilon zeta")
	a := spanOver(p, 0, 1)
	b := spanOver(p, 4, 4)

	forward, err := BetweenNgrams(document.NewCandidate(0, a, b), WithN(1, 2))
	if err != nil {
		t.Fatalf("BetweenNgrams(a, b) error: %v", err)
	}
	reverse, err := BetweenNgrams(document.NewCandidate(0, b, a), WithN(1, 2))
	if err != nil {
		t.Fatalf("BetweenNgrams(b, a) error: %v", err)
	}
	if diff := cmp.Diff(slices.Collect(forward), slices.Collect(reverse)); diff != "" {
		t.Errorf("argument order changed the result (-forward +reverse):\n%s", diff)
	}
}

func TestBetweenNgramsAdjacentSpans(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("a b c")
	seq, err := BetweenNgrams(document.NewCandidate(0, spanOver(p, 0, 0), spanOver(p, 1, 1)))
	if err != nil {
		t.Fatalf("BetweenNgrams() error: %v", err)
	}
	if got := slices.Collect(seq); len(got) != 0 {
		t.Errorf("BetweenNgrams() for adjacent spans = %v, want empty", got)
	}
}

func TestBetweenNgramsFolding(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("Alpha Beta Gamma")
	c := document.NewCandidate(0, spanOver(p, 0, 0), spanOver(p, 2, 2))

	seq, err := BetweenNgrams(c)
	if err != nil {
		t.Fatalf("BetweenNgrams() error: %v", err)
	}
	if diff := cmp.Diff([]string{"beta"}, slices.Collect(seq)); diff != "" {
		t.Errorf("folded mismatch (-want +got):\n%s", diff)
	}

	seq, err = BetweenNgrams(c, WithoutFolding())
	if err != nil {
		t.Fatalf("BetweenNgrams(WithoutFolding) error: %v", err)
	}
	if diff := cmp.Diff([]string{"Beta"}, slices.Collect(seq)); diff != "" {
		t.Errorf("unfolded mismatch (-want +got):\n%s", diff)
	}
}

func TestBetweenNgramsContract(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("a b c d")

	_, err := BetweenNgrams(document.NewCandidate(0, spanOver(p, 0, 0), spanOver(p, 1, 1), spanOver(p, 2, 2)))
	var contractErr *errors.ContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("ternary candidate: error is %T, want *ContractError", err)
	}

	q := f.phrase("x y")
	_, err = BetweenNgrams(document.NewCandidate(0, spanOver(p, 0, 0), spanOver(q, 0, 0)))
	if !errors.As(err, &contractErr) {
		t.Fatalf("cross-phrase candidate: error is %T, want *ContractError", err)
	}
}
