package lib

import "fmt"

const (
	TokenTypeSOF       = "SOF"
	TokenTypeEOF       = "EOF"
	TokenTypeKeyword   = "KEYWORD"
	TokenTypeIgnorable = "IGNORABLE"
)

type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Token is a single lexical unit. Tokens are passed by value and never
// modified after the tokenizer produces them.
type Token struct {
	Type     string
	Value    string
	Location Location
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Value)
}

func (t Token) IsKeyword() bool {
	return t.Type == TokenTypeKeyword
}

func sofToken() Token {
	return Token{Type: TokenTypeSOF, Value: TokenTypeSOF, Location: Location{Line: 1, Col: 1}}
}

func eofToken(loc Location) Token {
	return Token{Type: TokenTypeEOF, Location: loc}
}

func tokenString(tok Token) string {
	if tok.Type == TokenTypeEOF {
		return "EOF"
	}
	if tok.Type == TokenTypeKeyword {
		return fmt.Sprintf("'%s'", tok.Value)
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Value)
}
