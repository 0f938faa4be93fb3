package corpus

import (
	"bufio"
	"iter"
	"os"
	"strings"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
)

// TSVPreprocessor reads one document per line: a document name, a tab, and
// the body text. The body is split into sentence phrases. Blank lines are
// skipped. MaxDocs of zero means no cap.
type TSVPreprocessor struct {
	Path    string
	MaxDocs int
}

// Documents implements Preprocessor. The file is reopened on each
// iteration, so the sequence is restartable.
func (p *TSVPreprocessor) Documents() iter.Seq2[*document.Document, error] {
	return func(yield func(*document.Document, error) bool) {
		f, err := os.Open(p.Path)
		if err != nil {
			yield(nil, errors.Wrap(err, "corpus: open tsv"))
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		line := 0
		count := 0
		for sc.Scan() {
			line++
			raw := sc.Text()
			if strings.TrimSpace(raw) == "" {
				continue
			}
			if p.MaxDocs > 0 && count >= p.MaxDocs {
				return
			}
			name, body, ok := strings.Cut(raw, "\t")
			if !ok {
				yield(nil, errors.NewValidationError("tsv",
					"line is missing the name/text tab separator", line))
				return
			}
			doc := TextDocument(strings.TrimSpace(name), body)
			count++
			if !yield(doc, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, errors.Wrap(err, "corpus: read tsv"))
		}
	}
}

// TextDocument builds a document skeleton from plain text. The text is split
// into sentence phrases with no table context.
func TextDocument(name, text string) *document.Document {
	doc := &document.Document{Name: name}
	for _, sentence := range splitSentences(text) {
		appendPhrase(doc, sentence, nil, nil)
	}
	return doc
}

// appendPhrase adds a phrase skeleton for text, mirroring the cell's grid
// coordinates when the phrase sits inside a table.
func appendPhrase(doc *document.Document, text string, table *document.Table, cell *document.Cell) *document.Phrase {
	ph := &document.Phrase{
		Document: doc,
		Table:    table,
		Cell:     cell,
		Position: len(doc.Phrases),
		Text:     text,
		RowStart: -1,
		RowEnd:   -1,
		ColStart: -1,
		ColEnd:   -1,
	}
	if cell != nil {
		ph.RowStart = cell.RowStart
		ph.RowEnd = cell.RowEnd
		ph.ColStart = cell.ColStart
		ph.ColEnd = cell.ColEnd
		cell.Phrases = append(cell.Phrases, ph)
	}
	doc.Phrases = append(doc.Phrases, ph)
	return ph
}
