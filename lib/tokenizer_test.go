package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A test helper that tokenizes code with the default grammar and strips the
// sentinels for easier assertions.
func getTokens(t *testing.T, code string) []Token {
	tokens, err := tokenizeWith(DefaultGrammar, code)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tokens), 2)
	require.Equal(t, TokenTypeSOF, tokens[0].Type)
	require.Equal(t, TokenTypeEOF, tokens[len(tokens)-1].Type)
	return tokens[1 : len(tokens)-1]
}

func tokenizeWith(grammar string, code string) ([]Token, error) {
	spec, err := ParseGrammarSpec(grammar, false)
	if err != nil {
		return nil, err
	}
	tokenizer, err := NewTokenizer(spec)
	if err != nil {
		return nil, err
	}
	return tokenizer.Tokenize(code)
}

func requireTok(t *testing.T, actual Token, typ string, value string, line int, col int) {
	require.Equal(t, typ, actual.Type, "token type")
	require.Equal(t, value, actual.Value, "token value")
	require.Equal(t, line, actual.Location.Line, "token line")
	require.Equal(t, col, actual.Location.Col, "token col")
}

func TestTokenizerEmpty(t *testing.T) {
	tokens, err := tokenizeWith(DefaultGrammar, "   \n\t ")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	require.Equal(t, TokenTypeSOF, tokens[0].Type)
	require.Equal(t, "SOF", tokens[0].Value)
	require.Equal(t, TokenTypeEOF, tokens[1].Type)
}

func TestTokenizerAssign(t *testing.T) {
	tokens := getTokens(t, "x = 5;")
	require.Len(t, tokens, 4)
	requireTok(t, tokens[0], "NAME", "x", 1, 1)
	requireTok(t, tokens[1], TokenTypeKeyword, "=", 1, 3)
	requireTok(t, tokens[2], "NUMBER", "5", 1, 5)
	requireTok(t, tokens[3], TokenTypeKeyword, ";", 1, 6)
}

func TestTokenizerKeywordPrefixedName(t *testing.T) {
	tokens := getTokens(t, "iffy = 1;")
	require.Len(t, tokens, 4)
	requireTok(t, tokens[0], "NAME", "iffy", 1, 1)

	tokens = getTokens(t, "done_count ← nothing;")
	requireTok(t, tokens[0], "NAME", "done_count", 1, 1)
	requireTok(t, tokens[1], TokenTypeKeyword, "←", 1, 12)
	requireTok(t, tokens[2], "NAME", "nothing", 1, 14)
}

func TestTokenizerKeywordBeatsNameOfSameLength(t *testing.T) {
	tokens := getTokens(t, "if x then")
	require.Len(t, tokens, 3)
	requireTok(t, tokens[0], TokenTypeKeyword, "if", 1, 1)
	requireTok(t, tokens[1], "NAME", "x", 1, 4)
	requireTok(t, tokens[2], TokenTypeKeyword, "then", 1, 6)
}

func TestTokenizerLongestOperator(t *testing.T) {
	tokens := getTokens(t, "a == b ** c // d <= e")
	require.Len(t, tokens, 9)
	requireTok(t, tokens[1], "COMPOP", "==", 1, 3)
	requireTok(t, tokens[3], "POWOP", "**", 1, 8)
	requireTok(t, tokens[5], "MULTOP", "//", 1, 13)
	requireTok(t, tokens[7], "COMPOP", "<=", 1, 18)
}

func TestTokenizerUnicodeOperators(t *testing.T) {
	tokens := getTokens(t, "r ← 58−4·x")
	require.Len(t, tokens, 7)
	requireTok(t, tokens[0], "NAME", "r", 1, 1)
	requireTok(t, tokens[1], TokenTypeKeyword, "←", 1, 3)
	requireTok(t, tokens[2], "NUMBER", "58", 1, 5)
	requireTok(t, tokens[3], "ADDOP", "−", 1, 7)
	requireTok(t, tokens[4], "NUMBER", "4", 1, 8)
	requireTok(t, tokens[5], "MULTOP", "·", 1, 9)
	requireTok(t, tokens[6], "NAME", "x", 1, 10)
}

func TestTokenizerNumbersAndStrings(t *testing.T) {
	tokens := getTokens(t, `3.14 .5 42 "Hello" 'x y'`)
	require.Len(t, tokens, 5)
	requireTok(t, tokens[0], "NUMBER", "3.14", 1, 1)
	requireTok(t, tokens[1], "NUMBER", ".5", 1, 6)
	requireTok(t, tokens[2], "NUMBER", "42", 1, 9)
	requireTok(t, tokens[3], "STRING", `"Hello"`, 1, 12)
	requireTok(t, tokens[4], "STRING", "'x y'", 1, 20)
}

func TestTokenizerMultiLine(t *testing.T) {
	tokens := getTokens(t, `
while x
	then`)
	require.Len(t, tokens, 3)
	requireTok(t, tokens[0], TokenTypeKeyword, "while", 2, 1)
	requireTok(t, tokens[1], "NAME", "x", 2, 7)
	requireTok(t, tokens[2], TokenTypeKeyword, "then", 3, 2)
}

func TestTokenizerDeterministic(t *testing.T) {
	code := "if x < 0 and y < 0 then r = 5; elif 0 < x or 0 < y then r = 6; else r = 7; fi"
	first, err := tokenizeWith(DefaultGrammar, code)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := tokenizeWith(DefaultGrammar, code)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestTokenizerUnknownLexeme(t *testing.T) {
	_, err := tokenizeWith(DefaultGrammar, "x = $y;")
	require.Error(t, err)

	lexErr, ok := err.(*LexError)
	require.True(t, ok)
	require.Equal(t, Location{Line: 1, Col: 5}, lexErr.Location)
	require.Equal(t, "$y;", lexErr.Remaining)
}

func TestTokenizerIgnorable(t *testing.T) {
	grammar := `
prog: NAME+
NAME: [a-z]+
IGNORABLE: --[^\n]*
`
	tokens, err := tokenizeWith(grammar, "a -- a comment\nb")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	requireTok(t, tokens[1], "NAME", "a", 1, 1)
	requireTok(t, tokens[2], "NAME", "b", 2, 1)
}

func TestTokenizerSkipsZeroWidthMatches(t *testing.T) {
	grammar := `
prog: DIGITS
DIGITS: [0-9]*
`
	_, err := tokenizeWith(grammar, "abc")
	require.Error(t, err)
	require.IsType(t, &LexError{}, err)
}

func TestTokenizerInvalidTerminalPattern(t *testing.T) {
	spec, err := ParseGrammarSpec("BAD: [a-z", false)
	require.NoError(t, err)

	_, err = NewTokenizer(spec)
	require.Error(t, err)
	grammarErr, ok := err.(*GrammarError)
	require.True(t, ok)
	require.Equal(t, 1, grammarErr.Line)
}
