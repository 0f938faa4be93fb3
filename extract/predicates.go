package extract

import "github.com/weaksignal/lfkit/document"

// SameDocument reports whether every span of the candidate comes from the
// same non-nil document.
func SameDocument(c *document.Candidate) bool {
	if c.Arity() == 0 {
		return true
	}
	first := c.Span(0).Phrase.Document
	if first == nil {
		return false
	}
	for _, s := range c.Spans() {
		if s.Phrase.Document != first {
			return false
		}
	}
	return true
}

// SameTable reports whether every span of the candidate comes from the
// same non-nil table.
func SameTable(c *document.Candidate) bool {
	if c.Arity() == 0 {
		return true
	}
	first := c.Span(0).Phrase.Table
	if first == nil {
		return false
	}
	for _, s := range c.Spans() {
		if s.Phrase.Table != first {
			return false
		}
	}
	return true
}

// SameRow reports whether every span's phrase is row-aligned with the
// first span's phrase.
func SameRow(c *document.Candidate) bool {
	for i := 1; i < c.Arity(); i++ {
		if !document.RowAligned(c.Span(0).Phrase, c.Span(i).Phrase) {
			return false
		}
	}
	return c.Arity() == 0 || c.Span(0).Phrase.Table != nil
}

// SameCol reports whether every span's phrase is column-aligned with the
// first span's phrase.
func SameCol(c *document.Candidate) bool {
	for i := 1; i < c.Arity(); i++ {
		if !document.ColAligned(c.Span(0).Phrase, c.Span(i).Phrase) {
			return false
		}
	}
	return c.Arity() == 0 || c.Span(0).Phrase.Table != nil
}

// SameCell reports whether every span of the candidate comes from the same
// non-nil cell.
func SameCell(c *document.Candidate) bool {
	if c.Arity() == 0 {
		return true
	}
	first := c.Span(0).Phrase.Cell
	if first == nil {
		return false
	}
	for _, s := range c.Spans() {
		if s.Phrase.Cell != first {
			return false
		}
	}
	return true
}

// SamePhrase reports whether every span of the candidate comes from the
// same phrase.
func SamePhrase(c *document.Candidate) bool {
	if c.Arity() == 0 {
		return true
	}
	first := c.Span(0).Phrase
	if first == nil {
		return false
	}
	for _, s := range c.Spans() {
		if s.Phrase != first {
			return false
		}
	}
	return true
}
