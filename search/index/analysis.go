package index

import (
	"unicode"
	"unicode/utf8"
)

type Token struct {
	Text []byte
}

// StandardTokenizer lowercases its input and splits it on spaces and
// punctuation.
type StandardTokenizer struct {
	input      []byte
	inputIndex int
	token      Token
	runes      []rune
	text       []byte
}

func NewStandardTokenizer() *StandardTokenizer {
	return &StandardTokenizer{
		runes: make([]rune, 0, 64),
		text:  make([]byte, 0, 64),
	}
}

func (t *StandardTokenizer) Reset(input []byte) {
	t.input = input
	t.inputIndex = 0
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

func (t *StandardTokenizer) emit() *Token {
	t.text = t.text[:0]
	for _, r := range t.runes {
		t.text = utf8.AppendRune(t.text, r)
	}
	t.runes = t.runes[:0]
	t.token.Text = t.text
	return &t.token
}

// NextToken returns the next token of the input. The token is only valid
// until the next call.
func (t *StandardTokenizer) NextToken() (*Token, bool) {
	for t.inputIndex < len(t.input) {
		r, size := utf8.DecodeRune(t.input[t.inputIndex:])
		t.inputIndex += size

		r = unicode.ToLower(r)
		if !isSeparator(r) {
			t.runes = append(t.runes, r)
			continue
		}

		if len(t.runes) > 0 {
			return t.emit(), true
		}
	}

	if len(t.runes) > 0 {
		return t.emit(), true
	}

	return nil, false
}

// Analyze returns a copy of every token in text, in order. Query terms go
// through the same analysis as indexed text.
func Analyze(text []byte) [][]byte {
	tokenizer := NewStandardTokenizer()
	tokenizer.Reset(text)

	terms := make([][]byte, 0, 4)
	for {
		token, ok := tokenizer.NextToken()
		if !ok {
			return terms
		}
		terms = append(terms, append([]byte(nil), token.Text...))
	}
}
