// Package lfkit assembles training sets for text and table extraction
// without hand-labeled data. Noisy labeling functions vote on extracted
// candidate mentions, a generative model reconciles the votes into
// probabilistic labels, and a noise-aware classifier learns from the
// result.
//
// # Quick Start
//
// A minimal end-to-end run over in-memory documents:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "strings"
//
//	    "github.com/weaksignal/lfkit/candidate"
//	    "github.com/weaksignal/lfkit/corpus"
//	    "github.com/weaksignal/lfkit/document"
//	    "github.com/weaksignal/lfkit/label"
//	    "github.com/weaksignal/lfkit/pipeline"
//	)
//
//	func main() {
//	    docs := corpus.Static{
//	        corpus.TextDocument("d0", "mercury is toxic"),
//	        corpus.TextDocument("d1", "honey is sweet"),
//	    }
//	    ex, err := candidate.NewExtractor("substances",
//	        []candidate.Space{candidate.Ngrams{NMax: 1}},
//	        []candidate.Matcher{candidate.NewDictionaryMatch([]string{"mercury", "honey"})})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    lfs := []label.LF{{Name: "lf_toxic", F: func(c *document.Candidate) (int, error) {
//	        if strings.Contains(c.Span(0).Phrase.Text, "toxic") {
//	            return 1, nil
//	        }
//	        return -1, nil
//	    }}}
//
//	    p := pipeline.New(pipeline.DefaultConfig())
//	    assign := func(*document.Document) pipeline.Split { return pipeline.Train }
//	    if _, err := p.Run(context.Background(), docs, ex, assign, lfs); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - document: documents, phrases, spans and candidates
//   - corpus: parsing and tokenization of text, TSV and HTML sources
//   - candidate: candidate spaces, matchers and the extractor
//   - ngram: n-gram enumeration over token sequences
//   - extract: directional, phrase and table context helpers
//   - visual: visual bounding-box alignment features
//   - feature: feature generation and the annotation matrix
//   - label: labeling functions, the label matrix and gold labels
//   - learn: majority vote, dependency selection, the generative model,
//     noise-aware logistic regression and hyperparameter search
//   - metrics: candidate-level and regression metrics
//   - pipeline: the parse/extract/featurize/label/supervise/classify driver
//   - core/model: estimator state and model persistence
//   - core/parallel: parallel processing utilities
package lfkit
