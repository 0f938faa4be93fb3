package corpus

import (
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/pkg/errors"
)

// HTMLPreprocessor reads one document per file, named after the file's base
// name. Tables become Table and Cell structure with grid coordinates that
// honor rowspan and colspan; text outside tables becomes plain sentence
// phrases. Nested tables are flattened into their enclosing cell's text.
type HTMLPreprocessor struct {
	Paths   []string
	MaxDocs int
}

// Documents implements Preprocessor.
func (p *HTMLPreprocessor) Documents() iter.Seq2[*document.Document, error] {
	return func(yield func(*document.Document, error) bool) {
		count := 0
		for _, path := range p.Paths {
			if p.MaxDocs > 0 && count >= p.MaxDocs {
				return
			}
			doc, err := parseHTMLFile(path)
			if err != nil {
				yield(nil, err)
				return
			}
			count++
			if !yield(doc, nil) {
				return
			}
		}
	}
}

func parseHTMLFile(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "corpus: open html")
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseHTML(name, f)
}

// ParseHTML parses HTML into a document skeleton. Cell text keeps the
// serialized cell markup, which is what the structurally-empty cell check
// inspects downstream.
func ParseHTML(name string, r io.Reader) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "corpus: parse html")
	}
	b := &htmlBuilder{doc: &document.Document{Name: name}}
	b.walk(root)
	b.flushBlock()
	return b.doc, nil
}

type htmlBuilder struct {
	doc   *document.Document
	block strings.Builder
}

func (b *htmlBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.block.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Table:
			b.flushBlock()
			b.table(n)
			return
		}
		if isBlockElement(n.DataAtom) {
			b.flushBlock()
			defer b.flushBlock()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

// flushBlock turns the pending text into sentence phrases outside any table.
func (b *htmlBuilder) flushBlock() {
	text := collapseSpace(b.block.String())
	b.block.Reset()
	for _, sentence := range splitSentences(text) {
		appendPhrase(b.doc, sentence, nil, nil)
	}
}

func (b *htmlBuilder) table(n *html.Node) {
	t := &document.Table{Document: b.doc, Position: len(b.doc.Tables)}
	b.doc.Tables = append(b.doc.Tables, t)

	// Cells spanning multiple rows occupy grid slots in later rows; track
	// them so following cells shift right past the occupied columns.
	occupied := make(map[[2]int]bool)
	for row, tr := range tableRows(n) {
		col := 0
		for _, cellNode := range rowCells(tr) {
			for occupied[[2]int{row, col}] {
				col++
			}
			rowspan := spanAttr(cellNode, "rowspan")
			colspan := spanAttr(cellNode, "colspan")
			cell := &document.Cell{
				Table:    t,
				Position: len(t.Cells),
				RowStart: row,
				RowEnd:   row + rowspan - 1,
				ColStart: col,
				ColEnd:   col + colspan - 1,
				Text:     renderNode(cellNode),
			}
			t.Cells = append(t.Cells, cell)
			for r := row; r < row+rowspan; r++ {
				for c := col; c < col+colspan; c++ {
					occupied[[2]int{r, c}] = true
				}
			}
			for _, sentence := range splitSentences(collapseSpace(textContent(cellNode))) {
				appendPhrase(b.doc, sentence, t, cell)
			}
			col += colspan
		}
	}
}

// tableRows collects the tr elements of a table, descending into thead,
// tbody and tfoot but not into nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				collect(c)
			}
		}
	}
	collect(table)
	return rows
}

func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}

func spanAttr(n *html.Node, key string) int {
	for _, a := range n.Attr {
		if a.Key != key {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || v < 1 {
			return 1
		}
		// Guard against runaway spans in malformed markup.
		if v > 1000 {
			return 1000
		}
		return v
	}
	return 1
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Br, atom.Li, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Blockquote, atom.Pre, atom.Caption:
		return true
	}
	return false
}
