package lib

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

type matcher struct {
	tokType string
	pattern *regexp.Regexp
}

// Tokenizer turns program text into tokens using the terminal and keyword
// tables of a grammar specification.
//
// At each position every matcher is tried and the longest match wins. When
// a keyword and a terminal match the same length the keyword wins, and
// otherwise the matcher declared first in the grammar wins. So `iffy` is a
// single NAME while `if` is a KEYWORD, and `==` is never split into two `=`.
type Tokenizer struct {
	keywords  []matcher
	terminals []matcher
}

func NewTokenizer(spec GrammarSpec) (*Tokenizer, error) {
	t := &Tokenizer{
		keywords:  []matcher{},
		terminals: []matcher{},
	}

	for _, keyword := range spec.Keywords {
		t.keywords = append(t.keywords, matcher{
			tokType: TokenTypeKeyword,
			pattern: regexp.MustCompile(`\A` + regexp.QuoteMeta(keyword)),
		})
	}

	for _, rule := range spec.Terminals() {
		pattern, err := regexp.Compile(`\A(?:` + rule.Body + `)`)
		if err != nil {
			return nil, &GrammarError{
				Line: rule.Line,
				Text: rule.Body,
				Msg:  fmt.Sprintf("invalid pattern for terminal %s: %v", rule.Name, err),
			}
		}
		t.terminals = append(t.terminals, matcher{tokType: rule.Name, pattern: pattern})
	}

	return t, nil
}

type LexError struct {
	Location  Location
	Remaining string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Error at line %d:%d: couldn't match token on <%s>", e.Location.Line, e.Location.Col, e.Remaining)
}

// Tokenize returns the tokens of code wrapped in the SOF and EOF sentinels.
// Whitespace between tokens is skipped, and tokens of the IGNORABLE terminal
// are consumed without being emitted.
func (t *Tokenizer) Tokenize(code string) ([]Token, error) {
	s := tokenizerState{code: code, location: Location{Line: 1, Col: 1}}
	tokens := []Token{sofToken()}

	for {
		s.skipWhitespace()
		if s.done() {
			break
		}

		tok, ok := t.matchOne(&s)
		if !ok {
			return nil, &LexError{Location: s.location, Remaining: s.excerpt(20)}
		}
		if tok.Type != TokenTypeIgnorable {
			tokens = append(tokens, tok)
		}
	}

	return append(tokens, eofToken(s.location)), nil
}

func (t *Tokenizer) matchOne(s *tokenizerState) (Token, bool) {
	rest := s.rest()
	best := -1
	bestType := ""

	try := func(m matcher) {
		loc := m.pattern.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			return
		}
		// Zero width matches would never make progress.
		if loc[1] > best && loc[1] > 0 {
			best = loc[1]
			bestType = m.tokType
		}
	}
	for _, m := range t.keywords {
		try(m)
	}
	for _, m := range t.terminals {
		try(m)
	}

	if best <= 0 {
		return Token{}, false
	}

	tok := Token{Type: bestType, Value: rest[:best], Location: s.location}
	s.advance(best)
	return tok, true
}

type tokenizerState struct {
	code     string
	pos      int
	location Location
}

func (s *tokenizerState) done() bool {
	return s.pos >= len(s.code)
}

func (s *tokenizerState) rest() string {
	return s.code[s.pos:]
}

func (s *tokenizerState) excerpt(max int) string {
	rest := []rune(s.rest())
	if len(rest) > max {
		return string(rest[:max]) + "..."
	}
	return string(rest)
}

// advance moves n bytes forward, keeping the line and column current.
func (s *tokenizerState) advance(n int) {
	end := s.pos + n
	for s.pos < end {
		ch, size := utf8.DecodeRuneInString(s.code[s.pos:])
		s.pos += size
		if ch == '\n' {
			s.location.Line++
			s.location.Col = 1
		} else {
			s.location.Col++
		}
	}
}

func (s *tokenizerState) skipWhitespace() {
	for !s.done() {
		ch, size := utf8.DecodeRuneInString(s.rest())
		if !unicode.IsSpace(ch) {
			return
		}
		s.advance(size)
	}
}
