// Package document defines the object model for parsed corpora: documents,
// phrases, tables, cells, spans, and candidate mention tuples, together with
// the grid geometry predicates used by tabular context extractors.
package document

import (
	"regexp"
)

// Attribute selects one of the parallel per-token arrays of a Phrase.
type Attribute string

const (
	// Words selects the raw token strings.
	Words Attribute = "words"
	// Lemmas selects the lemmatized tokens.
	Lemmas Attribute = "lemmas"
	// POSTags selects the part-of-speech tags.
	POSTags Attribute = "pos_tags"
)

// Document is a parsed input document: an ordered sequence of phrases plus
// any tables found in it.
type Document struct {
	Name    string
	Phrases []*Phrase
	Tables  []*Table
}

// Phrase is the basic unit of text: one tokenized sentence or cell fragment.
// Phrases inside a table mirror their cell's grid coordinates so they can be
// used directly in alignment predicates.
type Phrase struct {
	Document *Document
	Table    *Table
	Cell     *Cell

	// Position is the phrase's index in document order.
	Position int
	// Page is the 1-based page number for visual documents, 0 otherwise.
	Page int
	Text string

	// Parallel per-token arrays. CharOffsets holds the byte offset of each
	// token's first byte within Text.
	Words       []string
	Lemmas      []string
	POSTags     []string
	CharOffsets []int

	// Grid coordinates mirrored from Cell; -1 outside tables.
	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int

	// Optional per-token pixel coordinates (top-left origin).
	Top    []float64
	Bottom []float64
	Left   []float64
	Right  []float64
	// Box is an explicit phrase-level bounding box, overriding the
	// per-token coordinates when set.
	Box *BBox

	// Spans holds the candidate-argument spans registered on this phrase.
	Spans []*Span
}

// Attrib returns the parallel token array selected by a.
// Unknown attributes return the raw words.
func (p *Phrase) Attrib(a Attribute) []string {
	switch a {
	case Lemmas:
		return p.Lemmas
	case POSTags:
		return p.POSTags
	default:
		return p.Words
	}
}

// BoundingBox derives the phrase's bounding box from the explicit Box or
// from the min/max of its per-token coordinates. ok is false when the
// phrase carries no visual information.
func (p *Phrase) BoundingBox() (BBox, bool) {
	if p.Box != nil {
		return *p.Box, true
	}
	if len(p.Top) == 0 {
		return BBox{}, false
	}
	box := BBox{
		Top:    p.Top[0],
		Bottom: p.Bottom[0],
		Left:   p.Left[0],
		Right:  p.Right[0],
	}
	for i := 1; i < len(p.Top); i++ {
		box.Top = minFloat(box.Top, p.Top[i])
		box.Bottom = maxFloat(box.Bottom, p.Bottom[i])
		box.Left = minFloat(box.Left, p.Left[i])
		box.Right = maxFloat(box.Right, p.Right[i])
	}
	return box, true
}

// ParentTable implements Gridded.
func (p *Phrase) ParentTable() *Table { return p.Table }

// RowBounds implements Gridded.
func (p *Phrase) RowBounds() (int, int) { return p.RowStart, p.RowEnd }

// ColBounds implements Gridded.
func (p *Phrase) ColBounds() (int, int) { return p.ColStart, p.ColEnd }

// Table is a grid of cells inside a document.
type Table struct {
	Document *Document
	// Position is the table's index within the document.
	Position int
	Cells    []*Cell
}

// CellAt returns the cell whose grid origin is exactly (rowStart, colStart),
// or nil if the grid has no such cell. Cells spanning multiple rows or
// columns are located by their origin only.
func (t *Table) CellAt(rowStart, colStart int) *Cell {
	for _, c := range t.Cells {
		if c.RowStart == rowStart && c.ColStart == colStart {
			return c
		}
	}
	return nil
}

// Cell is a single table cell. Text keeps the serialized source markup of
// the cell element, which is what the structurally-empty check inspects.
type Cell struct {
	Table    *Table
	Position int

	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int

	Text    string
	Phrases []*Phrase
}

var emptyMarkupRe = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9]*)></([A-Za-z][A-Za-z0-9]*)>$`)

// IsEmptyMarkup reports whether the cell's serialized markup is a bare empty
// element with no attributes and no content, e.g. "<td></td>".
func (c *Cell) IsEmptyMarkup() bool {
	m := emptyMarkupRe.FindStringSubmatch(c.Text)
	return m != nil && m[1] == m[2]
}

// ParentTable implements Gridded.
func (c *Cell) ParentTable() *Table { return c.Table }

// RowBounds implements Gridded.
func (c *Cell) RowBounds() (int, int) { return c.RowStart, c.RowEnd }

// ColBounds implements Gridded.
func (c *Cell) ColBounds() (int, int) { return c.ColStart, c.ColEnd }

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
