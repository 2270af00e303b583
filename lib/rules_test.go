package lib

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

const programFunction = `
  FUNCTION funkceG(x):
  if  x<0  then  x ← 0; fi
  if  x<14  then
    r ← funkceG(58−4·x)−9;
  else
    r ← 39;
  fi
  RETURN r;
`

const programConditional = `
    if x < 0 and y < 0 then
        r = 5;
    elif 0 < x or 0 < y then
        r = 6;
    else
        r = 7;
    fi
`

func parseRule(t *testing.T, rule string, code string) Node {
	node, err := newTestEngine(t).ParseRule(DefaultGrammar, rule, code)
	require.NoError(t, err, "%s: %s", rule, code)
	return node
}

func requireBranch(t *testing.T, n Node, rule string) *Branch {
	b, ok := n.(*Branch)
	require.True(t, ok, "expected a branch, got %s", n)
	require.Equal(t, rule, b.Rule)
	return b
}

func TestRulesAcceptSnippets(t *testing.T) {
	cases := map[string][]string{
		"atom":        {"a", "8", `"Hello"`, "None", "True", "False"},
		"power":       {"5", "5 ** 2"},
		"factor":      {"(3*2)", "5", "5 ** 2", "f(x)"},
		"expr":        {"(3*2)/8-4+(9-4)", "a % b // c"},
		"comparison":  {"5 < 4", "5 > 4", "5 == 4", "5 <= 4", "5 >= 4", "5 != 4", "5 <> 4"},
		"not_test":    {"not True", "not not x"},
		"and_test":    {"True and False"},
		"or_test":     {"3 < 5 or x > 10 and True"},
		"simple_stmt": {"x ← 5;", "print(x);"},
		"while_stmt":  {"while x < 10 then x = x + 1; done"},
		"parameters":  {"a", "a, b, c"},
		"return_stmt": {"RETURN;", "RETURN x + 1;"},
	}

	for rule, codes := range cases {
		for _, code := range codes {
			node := parseRule(t, rule, code)
			requireBranch(t, node, rule)
		}
	}
}

func TestAssign(t *testing.T) {
	node := parseRule(t, "assign", "x = 5")
	require.Equal(t, "(assign NAME:x '=' NUMBER:5)", Simplify(node).String())

	expected := []Token{
		{Type: "NAME", Value: "x"},
		{Type: TokenTypeKeyword, Value: "="},
		{Type: "NUMBER", Value: "5"},
	}
	diff := cmp.Diff(expected, Tokens(node), cmpopts.IgnoreFields(Token{}, "Location"))
	require.Empty(t, diff)
}

func TestAssignStopsBeforeSemicolon(t *testing.T) {
	engine := newTestEngine(t)
	tokens, err := engine.Tokenize(DefaultGrammar, "x = 5;")
	require.NoError(t, err)

	s := NewScanner(tokens, Limits{})
	require.True(t, Eat(TokenTypeSOF)(s).Ok())

	r := engine.rules.assign(s)
	require.True(t, r.Ok())
	require.Equal(t, 4, s.Pos())
	require.Len(t, Tokens(r.Nodes[0]), 3)

	tok, ok := s.Peek()
	require.True(t, ok)
	require.Equal(t, ";", tok.Value)
}

func TestSimpleStatement(t *testing.T) {
	node := parseRule(t, "SOF", "x = 5;")
	require.Equal(t, "(simple_stmt (assign NAME:x '=' NUMBER:5) ';')", Simplify(node).String())
}

func TestIfWithoutElifOrElse(t *testing.T) {
	node := parseRule(t, "if_stmt", "if x<0 then y=1; fi")
	ifStmt := requireBranch(t, node, "if_stmt")
	require.Empty(t, ifStmt.Branches("elif_clause"))
	require.Empty(t, ifStmt.Branches("else_clause"))
	require.Len(t, ifStmt.Branches("test"), 1)
	require.Len(t, ifStmt.Branches("suite"), 1)

	require.Equal(t,
		"(if_stmt 'if' (comparison NAME:x COMPOP:< NUMBER:0) 'then' (simple_stmt (assign NAME:y '=' NUMBER:1) ';') 'fi')",
		Simplify(node).String())
}

func TestIfElifElse(t *testing.T) {
	node := parseRule(t, "SOF", programConditional)
	ifs := Find(node, "if_stmt")
	require.Len(t, ifs, 1)
	require.Len(t, ifs[0].Branches("elif_clause"), 1)
	require.Len(t, ifs[0].Branches("else_clause"), 1)

	require.Len(t, Find(node, "test"), 2)
	require.Len(t, Find(ifs[0], "assign"), 3)
}

func TestPowerIsRightAssociative(t *testing.T) {
	node := parseRule(t, "expr", "2**3**2")
	require.Equal(t, "(power NUMBER:2 POWOP:** (power NUMBER:3 POWOP:** NUMBER:2))", Simplify(node).String())
}

func TestPrecedence(t *testing.T) {
	node := parseRule(t, "expr", "1 + 2 * 3")
	require.Equal(t, "(expr NUMBER:1 ADDOP:+ (term NUMBER:2 MULTOP:* NUMBER:3))", Simplify(node).String())

	node = parseRule(t, "test", "not a < b and c or d")
	require.Equal(t,
		"(or_test (and_test (not_test 'not' (comparison NAME:a COMPOP:< NAME:b)) 'and' NAME:c) 'or' NAME:d)",
		Simplify(node).String())
}

func TestNameFollowedByParenIsCall(t *testing.T) {
	node := parseRule(t, "factor", "f(x + 1)")
	factor := requireBranch(t, node, "factor")
	require.Len(t, factor.Children, 1)
	requireBranch(t, factor.Children[0], "call")

	node = parseRule(t, "term", "f(x) ")
	requireBranch(t, requireBranch(t, node, "term").Children[0], "call")
}

func TestFunctionDefinition(t *testing.T) {
	node := parseRule(t, "SOF", programFunction)
	funcs := Find(node, "funcdef")
	require.Len(t, funcs, 1)

	fn := funcs[0]
	require.Equal(t, "funkceG", fn.Children[1].(*Leaf).Token.Value)
	require.Len(t, Find(fn, "parameter"), 1)
	require.Len(t, Find(fn, "if_stmt"), 2)
	require.Len(t, Find(fn, "else_clause"), 1)
	require.Len(t, fn.Branches("return_stmt"), 1)

	calls := Find(fn, "call")
	require.Len(t, calls, 1)
	require.Equal(t, "funkceG", Tokens(calls[0])[0].Value)
}

func TestFunctionRequiresReturn(t *testing.T) {
	_, err := newTestEngine(t).Parse(DefaultGrammar, "FUNCTION f(): x = 1;")
	require.Error(t, err)
}

func TestKeywordPrefixedName(t *testing.T) {
	node := parseRule(t, "SOF", "iffy = 1;")
	tokens := Tokens(node)
	require.Equal(t, "NAME", tokens[0].Type)
	require.Equal(t, "iffy", tokens[0].Value)
}

func TestMissingExpression(t *testing.T) {
	_, err := newTestEngine(t).Parse(DefaultGrammar, "x = ;")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, 3, parseErr.Pos)
	require.Equal(t, ";", parseErr.Token.Value)
	require.Equal(t, Location{Line: 1, Col: 5}, parseErr.Token.Location)
	require.Contains(t, parseErr.Expected, "NUMBER")
	require.Contains(t, parseErr.Expected, "NAME")
	require.NotEmpty(t, parseErr.Trace)
}

func TestTrailingTokens(t *testing.T) {
	_, err := newTestEngine(t).Parse(DefaultGrammar, "x = 1; )")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, 5, parseErr.Pos)
	require.Equal(t, ")", parseErr.Token.Value)
}

func TestRuleMustConsumeEverything(t *testing.T) {
	_, err := newTestEngine(t).ParseRule(DefaultGrammar, "atom", "a b")
	require.Error(t, err)
}

func TestUnknownRule(t *testing.T) {
	_, err := newTestEngine(t).ParseRule(DefaultGrammar, "nope", "a")
	require.Error(t, err)
}

func TestRulesetNames(t *testing.T) {
	spec, err := ParseGrammarSpec(DefaultGrammar, false)
	require.NoError(t, err)

	names := newRuleset().names()
	for _, rule := range spec.Productions() {
		require.Contains(t, names, rule.Name)
	}
	require.Len(t, names, len(spec.Productions()))
}
