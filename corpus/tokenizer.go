package corpus

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Token is one tokenized word of a phrase together with its derived
// attributes. Offset is the byte offset of the token's first byte within the
// phrase text.
type Token struct {
	Word   string
	Lemma  string
	POS    string
	Offset int
}

// Tokenizer splits phrase text into tokens. Implementations must return
// tokens in text order with strictly increasing offsets.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// SimpleTokenizer is a Unicode-aware heuristic tokenizer. Runs of letters and
// digits form words, with '.', ',', '-' and '\'' kept inside a word when
// flanked by alphanumerics on both sides, so "3.3" and "don't" stay single
// tokens. Every other non-space rune is its own token.
//
// Lemmas are the case-folded words. POS tags are coarse: "CD" for pure
// numbers, "NNP" for capitalized words, "NN" for other words, and the token
// text itself for punctuation, in the manner of treebank tag conventions.
type SimpleTokenizer struct{}

func (SimpleTokenizer) Tokenize(text string) []Token {
	var tokens []Token
	folder := cases.Fold()
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isWordRune(r):
			end := scanWord(text, i)
			word := text[i:end]
			tokens = append(tokens, Token{
				Word:   word,
				Lemma:  folder.String(word),
				POS:    wordTag(word),
				Offset: i,
			})
			i = end
		default:
			tok := text[i : i+size]
			tokens = append(tokens, Token{
				Word:   tok,
				Lemma:  tok,
				POS:    tok,
				Offset: i,
			})
			i += size
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanWord returns the byte offset one past the word starting at start.
// Connector runes are absorbed only between alphanumerics, so a trailing
// period ends the word.
func scanWord(text string, start int) int {
	i := start
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isWordRune(r) {
			i += size
			continue
		}
		if !isConnector(r) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[i+size:])
		if !isWordRune(next) {
			break
		}
		i += size
	}
	return i
}

func isConnector(r rune) bool {
	switch r {
	case '.', ',', '-', '\'':
		return true
	}
	return false
}

func wordTag(word string) string {
	hasLetter := false
	hasDigit := false
	upperFirst := false
	for i, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if i == 0 && unicode.IsUpper(r) {
				upperFirst = true
			}
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	switch {
	case hasDigit && !hasLetter:
		return "CD"
	case upperFirst:
		return "NNP"
	case hasLetter:
		return "NN"
	default:
		return "SYM"
	}
}

// splitSentences breaks plain text into sentence strings on '.', '!' and '?'
// followed by whitespace. The terminator stays with its sentence. Text with
// no terminator is a single sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}
		end := i + 1
		for end < len(text) && (text[end] == '.' || text[end] == '!' || text[end] == '?') {
			end++
		}
		if end < len(text) && !isSpaceByte(text[end]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
