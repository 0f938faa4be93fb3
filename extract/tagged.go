package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
)

// TaggedChunks splits the parent phrase text of a candidate around its
// spans. The result alternates between literal text and a {{A}}, {{B}}, ...
// tag per span, with the tag letter fixed by argument order and the chunk
// order following text order. All spans must come from the same phrase and
// must not overlap.
func TaggedChunks(c *document.Candidate) ([]string, error) {
	if c.Arity() == 0 {
		return nil, errors.NewContractError("tagged_text", "candidate has no spans")
	}
	parent := c.Span(0).Phrase
	type tagged struct {
		span *document.Span
		tag  string
	}
	spans := make([]tagged, 0, c.Arity())
	for i, s := range c.Spans() {
		if s.Phrase != parent {
			return nil, errors.NewContractErrorf("tagged_text",
				"span %d is not from the same phrase as span 0", i)
		}
		spans = append(spans, tagged{span: s, tag: fmt.Sprintf("{{%c}}", 'A'+i)})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].span.CharStart < spans[j].span.CharStart
	})
	for i := 1; i < len(spans); i++ {
		if spans[i].span.CharStart < spans[i-1].span.CharEnd {
			return nil, errors.NewContractErrorf("tagged_text",
				"spans %d and %d overlap", i-1, i)
		}
	}

	text := parent.Text
	chunks := make([]string, 0, 2*len(spans)+1)
	chunks = append(chunks, text[:spans[0].span.CharStart], spans[0].tag)
	for i := 1; i < len(spans); i++ {
		chunks = append(chunks, text[spans[i-1].span.CharEnd:spans[i].span.CharStart], spans[i].tag)
	}
	chunks = append(chunks, text[spans[len(spans)-1].span.CharEnd:])
	return chunks, nil
}

// TaggedText returns the candidate's parent phrase text with each span
// replaced by its {{A}}, {{B}}, ... tag. A convenience for writing
// regex-based labeling functions.
func TaggedText(c *document.Candidate) (string, error) {
	chunks, err := TaggedChunks(c)
	if err != nil {
		return "", err
	}
	return strings.Join(chunks, ""), nil
}

// TextBetween returns the literal text between the two spans of a binary
// candidate.
func TextBetween(c *document.Candidate) (string, error) {
	if c.Arity() != 2 {
		return "", errors.NewContractErrorf("text_between",
			"candidate must have exactly 2 spans, got %d", c.Arity())
	}
	chunks, err := TaggedChunks(c)
	if err != nil {
		return "", err
	}
	return chunks[2], nil
}
