package extract

import (
	"testing"

	"github.com/weaksignal/lfkit/document"
)

func TestSameDocument(t *testing.T) {
	f := newFixture("d1")
	p := f.phrase("alpha beta gamma")
	other := newFixture("d2").phrase("delta")

	t.Run("spans of one document", func(t *testing.T) {
		c := document.NewCandidate(0, spanOver(p, 0, 0), spanOver(p, 2, 2))
		if !SameDocument(c) {
			t.Error("SameDocument = false, want true")
		}
	})

	t.Run("spans across documents", func(t *testing.T) {
		c := document.NewCandidate(0, spanOver(p, 0, 0), spanOver(other, 0, 0))
		if SameDocument(c) {
			t.Error("SameDocument = true, want false")
		}
	})

	t.Run("empty candidate is vacuously true", func(t *testing.T) {
		if !SameDocument(document.NewCandidate(0)) {
			t.Error("SameDocument = false, want true")
		}
	})
}

func TestSamePhrase(t *testing.T) {
	f := newFixture("d")
	p := f.phrase("alpha beta gamma")
	q := f.phrase("delta epsilon")

	t.Run("two spans of one phrase", func(t *testing.T) {
		c := document.NewCandidate(0, spanOver(p, 0, 0), spanOver(p, 1, 2))
		if !SamePhrase(c) {
			t.Error("SamePhrase = false, want true")
		}
	})

	t.Run("spans of different phrases", func(t *testing.T) {
		c := document.NewCandidate(0, spanOver(p, 0, 0), spanOver(q, 0, 0))
		if SamePhrase(c) {
			t.Error("SamePhrase = true, want false")
		}
	})
}

func TestSameCellAndTable(t *testing.T) {
	f := newFixture("d")
	table := f.grid([][]string{
		{"alpha beta", "b"},
		{"c", "d"},
	})
	second := f.grid([][]string{{"x"}})
	prose := f.phrase("free text")

	t.Run("spans of one cell", func(t *testing.T) {
		p := table.CellAt(0, 0).Phrases[0]
		c := document.NewCandidate(0, spanOver(p, 0, 0), spanOver(p, 1, 1))
		if !SameCell(c) {
			t.Error("SameCell = false, want true")
		}
		if !SameTable(c) {
			t.Error("SameTable = false, want true")
		}
	})

	t.Run("spans of sibling cells share the table only", func(t *testing.T) {
		c := document.NewCandidate(0, cellSpan(table, 0, 0), cellSpan(table, 1, 1))
		if SameCell(c) {
			t.Error("SameCell = true, want false")
		}
		if !SameTable(c) {
			t.Error("SameTable = false, want true")
		}
	})

	t.Run("spans across tables", func(t *testing.T) {
		c := document.NewCandidate(0, cellSpan(table, 0, 0), cellSpan(second, 0, 0))
		if SameTable(c) {
			t.Error("SameTable = true, want false")
		}
	})

	t.Run("prose span has no cell or table", func(t *testing.T) {
		c := document.NewCandidate(0, spanOver(prose, 0, 0))
		if SameCell(c) {
			t.Error("SameCell = true, want false")
		}
		if SameTable(c) {
			t.Error("SameTable = true, want false")
		}
	})
}

func TestSameRowSameCol(t *testing.T) {
	f := newFixture("d")
	table := f.grid([][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
	})
	prose := f.phrase("free text")

	t.Run("cells of one row", func(t *testing.T) {
		c := document.NewCandidate(0, cellSpan(table, 0, 0), cellSpan(table, 0, 2))
		if !SameRow(c) {
			t.Error("SameRow = false, want true")
		}
		if SameCol(c) {
			t.Error("SameCol = true, want false")
		}
	})

	t.Run("cells of one column", func(t *testing.T) {
		c := document.NewCandidate(0, cellSpan(table, 0, 1), cellSpan(table, 1, 1))
		if !SameCol(c) {
			t.Error("SameCol = false, want true")
		}
		if SameRow(c) {
			t.Error("SameRow = true, want false")
		}
	})

	t.Run("diagonal cells align on neither axis", func(t *testing.T) {
		c := document.NewCandidate(0, cellSpan(table, 0, 0), cellSpan(table, 1, 2))
		if SameRow(c) || SameCol(c) {
			t.Error("diagonal candidate reported as aligned")
		}
	})

	t.Run("single tabular span aligns with itself", func(t *testing.T) {
		c := document.NewCandidate(0, cellSpan(table, 1, 0))
		if !SameRow(c) || !SameCol(c) {
			t.Error("single-span tabular candidate should count as aligned")
		}
	})

	t.Run("prose span is never aligned", func(t *testing.T) {
		c := document.NewCandidate(0, spanOver(prose, 0, 0))
		if SameRow(c) || SameCol(c) {
			t.Error("prose candidate reported as aligned")
		}
	})
}
