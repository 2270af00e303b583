package lib

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEndOfStream    = errors.New("read past end of token stream")
	ErrBudgetExceeded = errors.New("parse budget exceeded")
)

// Failure describes why a parse attempt did not match. Ordinary failures
// drive backtracking. Fatal failures (Cause set) abort the whole parse and
// are never retried by Either, Optional or the repetition combinators.
type Failure struct {
	Message string
	Pos     int
	Token   Token
	Cause   error
}

func (f *Failure) Fatal() bool {
	return f.Cause != nil
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Result is the outcome of running a Parser. A nil Failure means success,
// in which case Nodes holds the matched fragments (possibly none).
type Result struct {
	Nodes   []Node
	Failure *Failure
}

func (r Result) Ok() bool {
	return r.Failure == nil
}

func success(nodes ...Node) Result {
	return Result{Nodes: nodes}
}

func failure(f *Failure) Result {
	return Result{Failure: f}
}

// wrapFailure nests an inner diagnostic under a new heading, indenting it the
// way the combinators report chains of failed alternatives.
func wrapFailure(heading string, pos int, inner *Failure) *Failure {
	return &Failure{
		Message: fmt.Sprintf("%s at position %d, got error {\n%s\n}", heading, pos, indent(inner.Message, "    ")),
		Pos:     inner.Pos,
		Token:   inner.Token,
		Cause:   inner.Cause,
	}
}

func indent(s string, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// ParseError is the single diagnostic returned to callers when a program
// does not parse.
type ParseError struct {
	Pos      int
	Token    Token
	Expected []string
	Msg      string
	// Trace is the nested failure report of the outermost rule.
	Trace string
	Cause error
}

func (e *ParseError) Error() string {
	loc := e.Token.Location
	if len(e.Expected) == 0 {
		return fmt.Sprintf("Error at line %d:%d (token %d): %s", loc.Line, loc.Col, e.Pos, e.Msg)
	}
	return fmt.Sprintf(
		"Error at line %d:%d (token %d): %s, expected one of %s",
		loc.Line, loc.Col, e.Pos, e.Msg, strings.Join(e.Expected, ", "))
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
