// Package corpus turns raw document sources into tokenized documents.
//
// A Preprocessor yields document skeletons: every phrase carries its text,
// position and table context, but no tokens. The Parser then runs a
// Tokenizer over each phrase, working documents in parallel, and returns the
// finished Corpus ready for candidate extraction.
package corpus

import (
	"context"
	"iter"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

// Preprocessor produces document skeletons in input order. The sequence must
// be restartable; iteration stops at the first error.
type Preprocessor interface {
	Documents() iter.Seq2[*document.Document, error]
}

// Static is a Preprocessor over documents already built in memory.
type Static []*document.Document

// Documents implements Preprocessor.
func (s Static) Documents() iter.Seq2[*document.Document, error] {
	return func(yield func(*document.Document, error) bool) {
		for _, doc := range s {
			if !yield(doc, nil) {
				return
			}
		}
	}
}

// Corpus holds parsed documents in input order.
type Corpus struct {
	Documents []*document.Document
}

// Phrases returns every phrase of every document, in document order.
func (c *Corpus) Phrases() []*document.Phrase {
	var phrases []*document.Phrase
	for _, d := range c.Documents {
		phrases = append(phrases, d.Phrases...)
	}
	return phrases
}

// NumPhrases returns the total phrase count across all documents.
func (c *Corpus) NumPhrases() int {
	n := 0
	for _, d := range c.Documents {
		n += len(d.Phrases)
	}
	return n
}

// Parser tokenizes preprocessed documents.
type Parser struct {
	tok         Tokenizer
	parallelism int
	logger      log.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithTokenizer replaces the default SimpleTokenizer.
func WithTokenizer(t Tokenizer) ParserOption {
	return func(p *Parser) { p.tok = t }
}

// WithParallelism bounds how many documents are tokenized concurrently.
// Values below one select GOMAXPROCS.
func WithParallelism(n int) ParserOption {
	return func(p *Parser) { p.parallelism = n }
}

// NewParser creates a Parser with the default tokenizer and parallelism.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		tok:    SimpleTokenizer{},
		logger: log.GetLoggerWithName("corpus"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse drains the preprocessor and tokenizes every phrase of every
// document. Document and phrase order is preserved. Document names must be
// unique, since downstream annotation keys on them.
func (p *Parser) Parse(ctx context.Context, pre Preprocessor) (*Corpus, error) {
	start := time.Now()

	var docs []*document.Document
	seen := make(map[string]bool)
	for doc, err := range pre.Documents() {
		if err != nil {
			return nil, errors.Wrap(err, "corpus: preprocessing failed")
		}
		if seen[doc.Name] {
			return nil, errors.NewValidationError("document", "duplicate document name", doc.Name)
		}
		seen[doc.Name] = true
		docs = append(docs, doc)
	}

	g, ctx := errgroup.WithContext(ctx)
	limit := p.parallelism
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for _, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.tokenizeDocument(doc)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	phrases := 0
	for _, d := range docs {
		phrases += len(d.Phrases)
	}
	p.logger.Info("corpus parsed",
		log.StageKey, log.StageParse,
		log.DocumentsKey, len(docs),
		log.PhrasesKey, phrases,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return &Corpus{Documents: docs}, nil
}

func (p *Parser) tokenizeDocument(doc *document.Document) error {
	for _, ph := range doc.Phrases {
		tokens := p.tok.Tokenize(ph.Text)
		ph.Words = make([]string, len(tokens))
		ph.Lemmas = make([]string, len(tokens))
		ph.POSTags = make([]string, len(tokens))
		ph.CharOffsets = make([]int, len(tokens))
		prev := -1
		for i, t := range tokens {
			if t.Offset <= prev {
				return errors.NewValidationError("tokenizer",
					"token offsets must be strictly increasing", doc.Name)
			}
			prev = t.Offset
			ph.Words[i] = t.Word
			ph.Lemmas[i] = t.Lemma
			ph.POSTags[i] = t.POS
			ph.CharOffsets[i] = t.Offset
		}
	}
	return nil
}
