package candidate

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaksignal/lfkit/document"
)

func phrase(text string) *document.Phrase {
	words := strings.Fields(text)
	offsets := make([]int, len(words))
	lemmas := make([]string, len(words))
	off := 0
	for i, w := range words {
		offsets[i] = off
		off += len(w) + 1
		lemmas[i] = strings.ToLower(w)
	}
	doc := &document.Document{Name: "doc"}
	ph := &document.Phrase{
		Document:    doc,
		Text:        text,
		Words:       words,
		Lemmas:      lemmas,
		POSTags:     make([]string, len(words)),
		CharOffsets: offsets,
		RowStart:    -1,
		RowEnd:      -1,
		ColStart:    -1,
		ColEnd:      -1,
	}
	doc.Phrases = append(doc.Phrases, ph)
	return ph
}

func spanTexts(spans []*document.Span) []string {
	var texts []string
	for _, s := range spans {
		texts = append(texts, s.Text())
	}
	return texts
}

func TestNgramsSpace(t *testing.T) {
	spans := slices.Collect(Ngrams{NMax: 2}.Spans(phrase("a bb c")))
	want := []string{"a", "a bb", "bb", "bb c", "c"}
	if diff := cmp.Diff(want, spanTexts(spans)); diff != "" {
		t.Errorf("span texts mismatch (-want +got):\n%s", diff)
	}
	if spans[1].CharStart != 0 || spans[1].CharEnd != 4 {
		t.Errorf("span %q offsets = [%d,%d), want [0,4)", spans[1].Text(), spans[1].CharStart, spans[1].CharEnd)
	}
}

func TestNgramsSpaceDefaultsToUnigrams(t *testing.T) {
	spans := slices.Collect(Ngrams{}.Spans(phrase("a b")))
	if diff := cmp.Diff([]string{"a", "b"}, spanTexts(spans)); diff != "" {
		t.Errorf("span texts mismatch (-want +got):\n%s", diff)
	}
}
