package extract

import (
	"strings"

	"github.com/weaksignal/lfkit/document"
)

// fixture accumulates phrases and tables of one test document.
type fixture struct {
	doc *document.Document
}

func newFixture(name string) *fixture {
	return &fixture{doc: &document.Document{Name: name}}
}

// phrase adds a phrase whose words are separated by single spaces.
func (f *fixture) phrase(text string) *document.Phrase {
	words := strings.Fields(text)
	offsets := make([]int, len(words))
	off := 0
	for i, w := range words {
		offsets[i] = off
		off += len(w) + 1
	}
	p := &document.Phrase{
		Document:    f.doc,
		Position:    len(f.doc.Phrases),
		Text:        text,
		Words:       words,
		CharOffsets: offsets,
		RowStart:    -1,
		RowEnd:      -1,
		ColStart:    -1,
		ColEnd:      -1,
	}
	f.doc.Phrases = append(f.doc.Phrases, p)
	return p
}

// grid adds a table laid out from texts. "-" leaves a hole in the grid,
// "" makes a structurally empty cell, and any other string a cell with a
// single phrase holding that text.
func (f *fixture) grid(texts [][]string) *document.Table {
	table := &document.Table{Document: f.doc, Position: len(f.doc.Tables)}
	f.doc.Tables = append(f.doc.Tables, table)
	for r, row := range texts {
		for c, text := range row {
			if text == "-" {
				continue
			}
			cell := &document.Cell{
				Table:    table,
				Position: len(table.Cells),
				RowStart: r,
				RowEnd:   r,
				ColStart: c,
				ColEnd:   c,
				Text:     "<td>" + text + "</td>",
			}
			table.Cells = append(table.Cells, cell)
			if text == "" {
				continue
			}
			p := f.phrase(text)
			p.Table = table
			p.Cell = cell
			p.RowStart, p.RowEnd = r, r
			p.ColStart, p.ColEnd = c, c
			cell.Phrases = append(cell.Phrases, p)
		}
	}
	return table
}

// spanOver returns a span covering words wLo through wHi of p.
func spanOver(p *document.Phrase, wLo, wHi int) *document.Span {
	start := p.CharOffsets[wLo]
	end := p.CharOffsets[wHi] + len(p.Words[wHi])
	return document.NewSpan(p, start, end)
}

// cellSpan returns a span covering the whole single phrase of the cell at
// (row, col).
func cellSpan(table *document.Table, row, col int) *document.Span {
	cell := table.CellAt(row, col)
	p := cell.Phrases[0]
	return spanOver(p, 0, len(p.Words)-1)
}
