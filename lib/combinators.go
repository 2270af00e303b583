package lib

import (
	"fmt"
	"strings"
)

// Parser is a parse attempt over the scanner's cursor. On failure a Parser
// may leave the cursor anywhere it has visited; restoring it is the job of
// the combinator that decides to try something else.
type Parser func(s *Scanner) Result

// Eat matches a single token. expected is either a token type such as NAME
// or a literal such as 'if'; a token matches when its type equals expected
// or its value equals expected without the surrounding quotes.
func Eat(expected string) Parser {
	literal := strings.Trim(expected, "'")
	return func(s *Scanner) Result {
		tok, ok := s.Peek()
		if !ok {
			return failure(&Failure{
				Message: fmt.Sprintf("Unexpected end of input, expected %s", expected),
				Pos:     s.Pos(),
				Token:   s.tokenAt(s.Pos()),
				Cause:   ErrEndOfStream,
			})
		}

		if tok.Type == expected || tok.Value == literal {
			s.advance()
			return success(&Leaf{Token: tok})
		}

		s.noteExpected(s.Pos(), expected)
		return failure(&Failure{
			Message: fmt.Sprintf("Unexpected token %s got %s", expected, tok),
			Pos:     s.Pos(),
			Token:   tok,
		})
	}
}

// Sequence runs steps in order and concatenates their nodes. The first
// failure is returned as is and the cursor is left where it failed.
func Sequence(steps ...Parser) Parser {
	return func(s *Scanner) Result {
		nodes := []Node{}
		for _, step := range steps {
			r := step(s)
			if !r.Ok() {
				return r
			}
			nodes = append(nodes, r.Nodes...)
		}
		return success(nodes...)
	}
}

// Either is ordered choice: every alternative starts from the same
// position and the first one to succeed wins.
func Either(alternatives ...Parser) Parser {
	return func(s *Scanner) Result {
		start := s.Pos()
		var last *Failure

		for _, alt := range alternatives {
			r := alt(s)
			if r.Ok() || r.Failure.Fatal() {
				return r
			}
			s.rollback(start)
			last = r.Failure
		}

		if last == nil {
			last = &Failure{Message: "no alternatives to try", Pos: start, Token: s.tokenAt(start)}
		}
		return failure(wrapFailure("Either failed", start, last))
	}
}

// Optional behaves like Sequence but a failed attempt is undone and treated
// as an empty match.
func Optional(steps ...Parser) Parser {
	seq := Sequence(steps...)
	return func(s *Scanner) Result {
		start := s.Pos()
		r := seq(s)
		if r.Ok() || r.Failure.Fatal() {
			return r
		}
		s.rollback(start)
		return success()
	}
}

// ZeroOrMore repeats Sequence(steps...) until it fails and never fails
// itself.
func ZeroOrMore(steps ...Parser) Parser {
	seq := Sequence(steps...)
	return func(s *Scanner) Result {
		nodes, _, last := repeat(seq, s)
		if last != nil && last.Fatal() {
			return failure(last)
		}
		return success(nodes...)
	}
}

// OneOrMore is ZeroOrMore that requires at least one match.
func OneOrMore(steps ...Parser) Parser {
	seq := Sequence(steps...)
	return func(s *Scanner) Result {
		nodes, count, last := repeat(seq, s)
		if last != nil && last.Fatal() {
			return failure(last)
		}
		if count == 0 {
			return failure(wrapFailure("OneOrMore failed", s.Pos(), last))
		}
		return success(nodes...)
	}
}

// repeat runs seq until it fails, rolling back the failed attempt. An
// iteration that succeeds without consuming anything ends the loop since
// it would match forever.
func repeat(seq Parser, s *Scanner) (nodes []Node, count int, last *Failure) {
	nodes = []Node{}
	for {
		start := s.Pos()
		r := seq(s)
		if !r.Ok() {
			if !r.Failure.Fatal() {
				s.rollback(start)
			}
			return nodes, count, r.Failure
		}

		nodes = append(nodes, r.Nodes...)
		count++
		if s.Pos() == start {
			return nodes, count, nil
		}
	}
}

// Rule tags the nodes produced by p with the production name. It is also
// where the scanner's step and depth limits are charged.
func Rule(name string, p Parser) Parser {
	return func(s *Scanner) Result {
		f := s.enter(name)
		defer s.leave()
		if f != nil {
			return failure(f)
		}

		r := p(s)
		if !r.Ok() {
			return r
		}
		return success(&Branch{Rule: name, Children: r.Nodes})
	}
}
