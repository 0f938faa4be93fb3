package extract

import (
	"iter"

	"github.com/weaksignal/lfkit/document"
)

// alignedPhrases collects the phrases of every cell aligned to root's
// phrase along axis, mapping each cell through the inference walk and
// excluding root itself.
func alignedPhrases(root *document.Phrase, axis document.Axis, direct, infer bool) []*document.Phrase {
	table := root.Table
	if table == nil {
		return nil
	}
	var out []*document.Phrase
	for _, cell := range table.Cells {
		if !document.AxisAligned(axis, root, cell) {
			continue
		}
		resolved := inferCell(cell, axis, direct, infer)
		if resolved == nil {
			continue
		}
		for _, p := range resolved.Phrases {
			if p != root {
				out = append(out, p)
			}
		}
	}
	return out
}

// inferCell resolves which cell supplies content for an aligned cell.
//
// With direct set and infer unset the literal cell is returned. With infer
// set, a structurally empty cell is transparent: the walk substitutes the
// nearest non-empty cell above it (row alignment) or to its left (column
// alignment). The walk stops at the table edge, and a structurally empty
// edge cell is returned literally under direct, or as a phantom (nil,
// meaning no content) when direct is unset. A non-empty cell under infer
// without direct is likewise a phantom: only inferred substitutes are
// reported. A missing grid neighbor degrades to a phantom.
func inferCell(cell *document.Cell, axis document.Axis, direct, infer bool) *document.Cell {
	if !direct && !infer {
		direct = true
	}
	cur := cell
	for {
		empty := cur.IsEmptyMarkup()
		edge := inferEdge(cur, axis)
		if direct && (!empty || edge || !infer) {
			return cur
		}
		if edge || !empty {
			return nil
		}
		next := inferStep(cur, axis)
		if next == nil {
			return nil
		}
		cur = next
		direct, infer = true, true
	}
}

// inferEdge reports whether cell sits at the edge the inference walk for
// axis would run into.
func inferEdge(c *document.Cell, axis document.Axis) bool {
	if axis == document.AxisRow {
		return c.RowStart == 0
	}
	return c.ColStart == 0
}

// inferStep returns the next cell of the inference walk for axis, or nil
// when the grid has no cell there.
func inferStep(c *document.Cell, axis document.Axis) *document.Cell {
	if c.Table == nil {
		return nil
	}
	if axis == document.AxisRow {
		return c.Table.CellAt(c.RowStart-1, c.ColStart)
	}
	return c.Table.CellAt(c.RowStart, c.ColStart-1)
}

// axisSpanNgrams generates a span's phrase n-grams followed by the
// full-phrase n-grams of every phrase aligned to it along axis.
func axisSpanNgrams(s *document.Span, axis document.Axis, o options) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !pipe(phraseSpanNgrams(s, o), yield) {
			return
		}
		if s.Phrase.Cell == nil {
			return
		}
		for _, p := range alignedPhrases(s.Phrase, axis, o.direct, o.infer) {
			if !pipe(fullPhraseNgrams(p, o), yield) {
				return
			}
		}
	}
}

// RowNgrams generates, for each span of the mention, the span's phrase
// n-grams plus the n-grams of every phrase in cells sharing the span's
// row. WithInfer and WithoutDirect control how empty cells are resolved.
func RowNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			if !pipe(axisSpanNgrams(s, document.AxisRow, o), yield) {
				return
			}
		}
	}
}

// ColNgrams is RowNgrams along the column axis, with empty cells resolved
// leftward instead of upward.
func ColNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			if !pipe(axisSpanNgrams(s, document.AxisCol, o), yield) {
				return
			}
		}
	}
}

// AlignedNgrams generates row n-grams followed by column n-grams for each
// span of the mention.
func AlignedNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			if !pipe(axisSpanNgrams(s, document.AxisRow, o), yield) {
				return
			}
			if !pipe(axisSpanNgrams(s, document.AxisCol, o), yield) {
				return
			}
		}
	}
}

// headCell returns the cell aligned to root along axis that sits closest
// to the table origin on the orthogonal axis, i.e. the row or column
// header. Under infer, aligned cells are first resolved through the
// inference walk; phantoms are skipped. nil means no aligned cell exists.
func headCell(root *document.Cell, axis document.Axis, infer bool) *document.Cell {
	table := root.Table
	if table == nil {
		return nil
	}
	var best *document.Cell
	for _, cell := range table.Cells {
		if cell == root || !document.AxisAligned(axis, root, cell) {
			continue
		}
		resolved := cell
		if infer {
			if resolved = inferCell(cell, axis, true, true); resolved == nil {
				continue
			}
		}
		if best == nil || headOrigin(resolved, axis) < headOrigin(best, axis) {
			best = resolved
		}
	}
	return best
}

// headOrigin is the resolved cell's start index on the axis orthogonal to
// the alignment axis.
func headOrigin(c *document.Cell, axis document.Axis) int {
	if axis == document.AxisRow {
		return c.ColStart
	}
	return c.RowStart
}

// HeadNgrams generates the n-grams of the header cell for the given axis:
// the cell aligned to each span's cell that is nearest the table origin on
// the orthogonal axis. document.AxisAny walks the row header and then the
// column header. The sequence ends at the first span outside any cell.
func HeadNgrams(m document.Mention, axis document.Axis, opts ...Option) iter.Seq[string] {
	o := buildOptions(opts)
	axes := []document.Axis{axis}
	if axis == document.AxisAny {
		axes = []document.Axis{document.AxisRow, document.AxisCol}
	}
	return func(yield func(string) bool) {
		for _, s := range m.Spans() {
			if s.Phrase.Cell == nil {
				return
			}
			for _, ax := range axes {
				head := headCell(s.Phrase.Cell, ax, o.infer)
				if head == nil {
					continue
				}
				for _, p := range head.Phrases {
					if !pipe(fullPhraseNgrams(p, o), yield) {
						return
					}
				}
			}
		}
	}
}

// direction maps the signed row and column offsets of a neighbor, exactly
// one of which is non-zero, to its tag.
func direction(rowDiff, colDiff int) Direction {
	switch {
	case colDiff == 0 && rowDiff > 0:
		return DirUp
	case colDiff == 0 && rowDiff < 0:
		return DirDown
	case rowDiff == 0 && colDiff > 0:
		return DirRight
	case rowDiff == 0 && colDiff < 0:
		return DirLeft
	}
	return DirNone
}

// NeighborCellNgramsTagged generates, for each span of the mention, the
// span's phrase n-grams tagged DirNone, then the full-phrase n-grams of
// phrases in cells within WithDistance of the span's cell along exactly
// one axis, tagged with their Direction. Diagonal neighbors are excluded.
func NeighborCellNgramsTagged(m document.Mention, opts ...Option) iter.Seq2[string, Direction] {
	o := buildOptions(opts)
	return func(yield func(string, Direction) bool) {
		for _, s := range m.Spans() {
			ok := true
			phraseSpanNgrams(s, o)(func(g string) bool {
				ok = yield(g, DirNone)
				return ok
			})
			if !ok {
				return
			}
			p := s.Phrase
			if p.RowStart < 0 || p.ColStart < 0 || p.Cell == nil || p.Table == nil {
				continue
			}
			root := p.Cell
			for _, axis := range []document.Axis{document.AxisRow, document.AxisCol} {
				for _, q := range alignedPhrases(p, axis, true, false) {
					rowDiff := document.MinRowDiff(q, root)
					colDiff := document.MinColDiff(q, root)
					if (rowDiff != 0) == (colDiff != 0) {
						continue
					}
					if abs(rowDiff)+abs(colDiff) > o.dist {
						continue
					}
					dir := direction(rowDiff, colDiff)
					ok := true
					fullPhraseNgrams(q, o)(func(g string) bool {
						ok = yield(g, dir)
						return ok
					})
					if !ok {
						return
					}
				}
			}
		}
	}
}

// NeighborCellNgrams is NeighborCellNgramsTagged without the direction
// tags.
func NeighborCellNgrams(m document.Mention, opts ...Option) iter.Seq[string] {
	tagged := NeighborCellNgramsTagged(m, opts...)
	return func(yield func(string) bool) {
		for g := range tagged {
			if !yield(g) {
				return
			}
		}
	}
}
