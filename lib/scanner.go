package lib

import "fmt"

// Limits bounds the work a single parse may do. Every rule entered counts
// as one step; MaxDepth bounds how deeply rules may nest. Zero disables a
// limit.
type Limits struct {
	MaxSteps int
	MaxDepth int
}

// Scanner is the cursor into a token stream. It is owned by exactly one
// parse and handed by pointer to every Parser; nothing else holds parse
// state.
type Scanner struct {
	tokens []Token
	pos    int

	limits Limits
	steps  int
	depth  int

	// Farthest ordinary failure, used for the final diagnostic.
	farthest int
	expected []string
}

func NewScanner(tokens []Token, limits Limits) *Scanner {
	return &Scanner{
		tokens:   tokens,
		limits:   limits,
		farthest: -1,
		expected: []string{},
	}
}

func (s *Scanner) Pos() int {
	return s.pos
}

func (s *Scanner) Steps() int {
	return s.steps
}

// Peek returns the current token without consuming it. ok is false once the
// cursor has moved past the last token.
func (s *Scanner) Peek() (tok Token, ok bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

// AtEOF reports whether the cursor rests on the end of stream sentinel.
func (s *Scanner) AtEOF() bool {
	tok, ok := s.Peek()
	return ok && tok.Type == TokenTypeEOF
}

func (s *Scanner) advance() {
	s.pos++
}

// rollback moves the cursor back to a position it has already visited.
// Positions ahead of the cursor are ignored; the cursor only moves forward
// by consuming tokens.
func (s *Scanner) rollback(to int) {
	if to < 0 {
		to = 0
	}
	if to < s.pos {
		s.pos = to
	}
}

func (s *Scanner) noteExpected(pos int, what string) {
	if pos < s.farthest {
		return
	}
	if pos > s.farthest {
		s.farthest = pos
		s.expected = s.expected[:0]
	}
	for _, e := range s.expected {
		if e == what {
			return
		}
	}
	s.expected = append(s.expected, what)
}

// Farthest returns the furthest position at which a token failed to match
// and what was expected there. pos is -1 if nothing has failed.
func (s *Scanner) Farthest() (pos int, expected []string) {
	return s.farthest, append([]string(nil), s.expected...)
}

func (s *Scanner) tokenAt(pos int) Token {
	if pos >= 0 && pos < len(s.tokens) {
		return s.tokens[pos]
	}
	if len(s.tokens) > 0 {
		return s.tokens[len(s.tokens)-1]
	}
	return Token{}
}

func (s *Scanner) enter(rule string) *Failure {
	s.steps++
	s.depth++
	if s.limits.MaxSteps > 0 && s.steps > s.limits.MaxSteps {
		return s.budgetFailure(fmt.Sprintf("step limit %d reached in %s", s.limits.MaxSteps, rule))
	}
	if s.limits.MaxDepth > 0 && s.depth > s.limits.MaxDepth {
		return s.budgetFailure(fmt.Sprintf("depth limit %d reached in %s", s.limits.MaxDepth, rule))
	}
	return nil
}

func (s *Scanner) leave() {
	s.depth--
}

func (s *Scanner) budgetFailure(msg string) *Failure {
	return &Failure{
		Message: msg,
		Pos:     s.pos,
		Token:   s.tokenAt(s.pos),
		Cause:   ErrBudgetExceeded,
	}
}
