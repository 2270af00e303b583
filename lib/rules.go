package lib

import "sort"

// ruleset holds one Parser per production of the language. Rules are
// methods so that they can refer to each other recursively; each call
// builds its combinators afresh and keeps no state outside the scanner.
type ruleset struct {
	rules map[string]Parser
}

func newRuleset() *ruleset {
	g := &ruleset{}
	g.rules = map[string]Parser{
		"SOF":              g.sof,
		"funcdef":          g.funcdef,
		"return_stmt":      g.returnStmt,
		"parameter_clause": g.parameterClause,
		"parameters":       g.parameters,
		"parameter":        g.parameter,
		"stmt":             g.stmt,
		"simple_stmt":      g.simpleStmt,
		"assign":           g.assign,
		"call":             g.call,
		"compound_stmt":    g.compoundStmt,
		"if_stmt":          g.ifStmt,
		"elif_clause":      g.elifClause,
		"else_clause":      g.elseClause,
		"while_stmt":       g.whileStmt,
		"suite":            g.suite,
		"test":             g.test,
		"or_test":          g.orTest,
		"and_test":         g.andTest,
		"not_test":         g.notTest,
		"comparison":       g.comparison,
		"expr":             g.expr,
		"term":             g.term,
		"factor":           g.factor,
		"power":            g.power,
		"atom":             g.atom,
	}
	return g
}

func (g *ruleset) lookup(name string) (Parser, bool) {
	p, ok := g.rules[name]
	return p, ok
}

func (g *ruleset) names() []string {
	names := make([]string, 0, len(g.rules))
	for name := range g.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SOF: funcdef | stmt+
func (g *ruleset) sof(s *Scanner) Result {
	return Rule("SOF", Either(
		g.funcdef,
		OneOrMore(g.stmt),
	))(s)
}

// funcdef: 'FUNCTION' NAME parameter_clause ':' suite return_stmt
func (g *ruleset) funcdef(s *Scanner) Result {
	return Rule("funcdef", Sequence(
		Eat("'FUNCTION'"),
		Eat("NAME"),
		g.parameterClause,
		Eat("':'"),
		g.suite,
		g.returnStmt,
	))(s)
}

// return_stmt: 'RETURN' [test] ';'
func (g *ruleset) returnStmt(s *Scanner) Result {
	return Rule("return_stmt", Sequence(
		Eat("'RETURN'"),
		Optional(g.test),
		Eat("';'"),
	))(s)
}

// parameter_clause: '(' [parameters] ')'
func (g *ruleset) parameterClause(s *Scanner) Result {
	return Rule("parameter_clause", Sequence(
		Eat("'('"),
		Optional(g.parameters),
		Eat("')'"),
	))(s)
}

// parameters: parameter (',' parameter)*
func (g *ruleset) parameters(s *Scanner) Result {
	return Rule("parameters", Sequence(
		g.parameter,
		ZeroOrMore(Eat("','"), g.parameter),
	))(s)
}

func (g *ruleset) parameter(s *Scanner) Result {
	return Rule("parameter", Eat("NAME"))(s)
}

// stmt: simple_stmt | compound_stmt
func (g *ruleset) stmt(s *Scanner) Result {
	return Rule("stmt", Either(
		g.simpleStmt,
		g.compoundStmt,
	))(s)
}

// simple_stmt: (call | assign) ';'
func (g *ruleset) simpleStmt(s *Scanner) Result {
	return Rule("simple_stmt", Sequence(
		Either(g.call, g.assign),
		Eat("';'"),
	))(s)
}

// assign: NAME ('←' | '=') expr
func (g *ruleset) assign(s *Scanner) Result {
	return Rule("assign", Sequence(
		Eat("NAME"),
		Either(Eat("'←'"), Eat("'='")),
		g.expr,
	))(s)
}

// call: NAME '(' expr ')'
func (g *ruleset) call(s *Scanner) Result {
	return Rule("call", Sequence(
		Eat("NAME"),
		Eat("'('"),
		g.expr,
		Eat("')'"),
	))(s)
}

// compound_stmt: if_stmt | while_stmt
func (g *ruleset) compoundStmt(s *Scanner) Result {
	return Rule("compound_stmt", Either(
		g.ifStmt,
		g.whileStmt,
	))(s)
}

// if_stmt: 'if' test 'then' suite elif_clause* [else_clause] 'fi'
func (g *ruleset) ifStmt(s *Scanner) Result {
	return Rule("if_stmt", Sequence(
		Eat("'if'"),
		g.test,
		Eat("'then'"),
		g.suite,
		ZeroOrMore(g.elifClause),
		Optional(g.elseClause),
		Eat("'fi'"),
	))(s)
}

// elif_clause: 'elif' test 'then' suite
func (g *ruleset) elifClause(s *Scanner) Result {
	return Rule("elif_clause", Sequence(
		Eat("'elif'"),
		g.test,
		Eat("'then'"),
		g.suite,
	))(s)
}

// else_clause: 'else' suite
func (g *ruleset) elseClause(s *Scanner) Result {
	return Rule("else_clause", Sequence(
		Eat("'else'"),
		g.suite,
	))(s)
}

// while_stmt: 'while' test 'then' suite 'done'
func (g *ruleset) whileStmt(s *Scanner) Result {
	return Rule("while_stmt", Sequence(
		Eat("'while'"),
		g.test,
		Eat("'then'"),
		g.suite,
		Eat("'done'"),
	))(s)
}

// suite: simple_stmt | stmt+
func (g *ruleset) suite(s *Scanner) Result {
	return Rule("suite", Either(
		g.simpleStmt,
		OneOrMore(g.stmt),
	))(s)
}

func (g *ruleset) test(s *Scanner) Result {
	return Rule("test", g.orTest)(s)
}

// or_test: and_test ('or' and_test)*
func (g *ruleset) orTest(s *Scanner) Result {
	return Rule("or_test", Sequence(
		g.andTest,
		ZeroOrMore(Eat("'or'"), g.andTest),
	))(s)
}

// and_test: not_test ('and' not_test)*
func (g *ruleset) andTest(s *Scanner) Result {
	return Rule("and_test", Sequence(
		g.notTest,
		ZeroOrMore(Eat("'and'"), g.notTest),
	))(s)
}

// not_test: 'not' not_test | comparison
func (g *ruleset) notTest(s *Scanner) Result {
	return Rule("not_test", Either(
		Sequence(Eat("'not'"), g.notTest),
		g.comparison,
	))(s)
}

// comparison: expr (COMPOP expr)*
func (g *ruleset) comparison(s *Scanner) Result {
	return Rule("comparison", Sequence(
		g.expr,
		ZeroOrMore(Eat("COMPOP"), g.expr),
	))(s)
}

// expr: term (ADDOP term)*
func (g *ruleset) expr(s *Scanner) Result {
	return Rule("expr", Sequence(
		g.term,
		ZeroOrMore(Eat("ADDOP"), g.term),
	))(s)
}

// term: call | factor (MULTOP factor)*
func (g *ruleset) term(s *Scanner) Result {
	return Rule("term", Either(
		g.call,
		Sequence(
			g.factor,
			ZeroOrMore(Eat("MULTOP"), g.factor),
		),
	))(s)
}

// factor: call | '(' expr ')' | power | atom
func (g *ruleset) factor(s *Scanner) Result {
	return Rule("factor", Either(
		g.call,
		Sequence(Eat("'('"), g.expr, Eat("')'")),
		g.power,
		g.atom,
	))(s)
}

// power: atom [POWOP factor]
//
// The right operand is a factor, not a power, so a**b**c groups as
// a**(b**c).
func (g *ruleset) power(s *Scanner) Result {
	return Rule("power", Sequence(
		g.atom,
		Optional(Eat("POWOP"), g.factor),
	))(s)
}

// atom: NAME | NUMBER | STRING | 'None' | 'True' | 'False'
func (g *ruleset) atom(s *Scanner) Result {
	return Rule("atom", Either(
		Eat("NAME"),
		Eat("NUMBER"),
		Eat("STRING"),
		Eat("'None'"),
		Eat("'True'"),
		Eat("'False'"),
	))(s)
}
