package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(t *testing.T, src string) []Token {
	lex := NewLexer(src)
	var toks []Token
	for {
		tok, err := lex.Next()
		assert.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == KindEnd {
			break
		}
	}
	return toks
}

func TestLexer_Numbers(t *testing.T) {
	toks := lexAll(t, "12 3.5 1e3 2.5E-2")
	assert.Equal(t, 12.0, toks[0].NumValue)
	assert.Equal(t, 3.5, toks[1].NumValue)
	assert.Equal(t, 1000.0, toks[2].NumValue)
	assert.Equal(t, 0.025, toks[3].NumValue)
	assert.Equal(t, KindEnd, toks[4].Kind)
}

func TestLexer_Idents(t *testing.T) {
	toks := lexAll(t, "min max a1 $a$1")
	for i := 0; i < 4; i++ {
		assert.Equal(t, KindIdent, toks[i].Kind)
	}
	assert.Equal(t, "min", toks[0].Lexeme)
	assert.Equal(t, "$a$1", toks[3].Lexeme)
}

func TestLexer_Punctuation(t *testing.T) {
	toks := lexAll(t, "+-*/(),")
	kinds := []Kind{KindPlus, KindMinus, KindStar, KindSlash, KindLParen, KindRParen, KindComma, KindEnd}
	for i, k := range kinds {
		assert.Equal(t, k, toks[i].Kind)
	}
}

func TestLexer_WhitespaceBetweenTokensOnly(t *testing.T) {
	toks := lexAll(t, "  1   +   2 ")
	assert.Equal(t, KindNum, toks[0].Kind)
	assert.Equal(t, KindPlus, toks[1].Kind)
	assert.Equal(t, KindNum, toks[2].Kind)
	assert.Equal(t, KindEnd, toks[3].Kind)
}

func TestLexer_UnrecognizedCharacter(t *testing.T) {
	lex := NewLexer("1 + & 2")
	_, err := lex.Next()
	assert.NoError(t, err)
	_, err = lex.Next()
	assert.NoError(t, err)
	_, err = lex.Next()
	assert.ErrorIs(t, err, SyntaxError)
}
