package candidate

import (
	"regexp"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaksignal/lfkit/document"
)

func ngramSpans(p *document.Phrase, nMax int) []*document.Span {
	return slices.Collect(Ngrams{NMax: nMax}.Spans(p))
}

func TestDictionaryMatch(t *testing.T) {
	p := phrase("the quick brown fox")
	m := NewDictionaryMatch([]string{"fox", "quick brown"})
	got := spanTexts(m.Filter(ngramSpans(p, 2)))
	want := []string{"quick brown", "fox"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestDictionaryMatchLongestOnly(t *testing.T) {
	p := phrase("the quick brown fox")
	spans := ngramSpans(p, 2)

	longest := NewDictionaryMatch([]string{"quick", "quick brown"})
	if diff := cmp.Diff([]string{"quick brown"}, spanTexts(longest.Filter(spans))); diff != "" {
		t.Errorf("longest-only matches mismatch (-want +got):\n%s", diff)
	}

	all := NewDictionaryMatch([]string{"quick", "quick brown"}, WithAllMatches())
	if diff := cmp.Diff([]string{"quick", "quick brown"}, spanTexts(all.Filter(spans))); diff != "" {
		t.Errorf("all matches mismatch (-want +got):\n%s", diff)
	}
}

func TestDictionaryMatchFolding(t *testing.T) {
	p := phrase("MAX VOLTAGE")
	m := NewDictionaryMatch([]string{"Voltage"})
	if got := spanTexts(m.Filter(ngramSpans(p, 1))); len(got) != 1 || got[0] != "VOLTAGE" {
		t.Errorf("folded match = %v, want [VOLTAGE]", got)
	}
}

func TestDictionaryMatchAttribute(t *testing.T) {
	p := phrase("Running fast")
	p.Lemmas = []string{"run", "fast"}
	m := NewDictionaryMatch([]string{"run"}, WithMatchAttribute(document.Lemmas))
	if got := spanTexts(m.Filter(ngramSpans(p, 1))); len(got) != 1 || got[0] != "Running" {
		t.Errorf("lemma match = %v, want [Running]", got)
	}
}

func TestRegexMatchWholeSpan(t *testing.T) {
	p := phrase("rated 3.3 V maximum")
	m := NewRegexMatch(regexp.MustCompile(`[0-9]+(\.[0-9]+)?`))
	if diff := cmp.Diff([]string{"3.3"}, spanTexts(m.Filter(ngramSpans(p, 1)))); diff != "" {
		t.Errorf("regex matches mismatch (-want +got):\n%s", diff)
	}

	// A partial match of the span text is not a match.
	partial := NewRegexMatch(regexp.MustCompile(`3`))
	if got := m.Filter(nil); len(got) != 0 {
		t.Errorf("Filter(nil) = %v, want empty", got)
	}
	if got := spanTexts(partial.Filter(ngramSpans(p, 1))); len(got) != 0 {
		t.Errorf("partial regex matched %v, want none", got)
	}
}

func TestUnionMatch(t *testing.T) {
	p := phrase("alpha beta gamma")
	m := NewUnion(
		NewDictionaryMatch([]string{"alpha"}),
		NewRegexMatch(regexp.MustCompile(`gam.*`)),
	)
	got := spanTexts(m.Filter(ngramSpans(p, 1)))
	if diff := cmp.Diff([]string{"alpha", "gamma"}, got); diff != "" {
		t.Errorf("union matches mismatch (-want +got):\n%s", diff)
	}
	if got := NewUnion().Filter(ngramSpans(p, 1)); len(got) != 0 {
		t.Errorf("empty union matched %v, want none", got)
	}
}
