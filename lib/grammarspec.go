package lib

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// GrammarRule is one `name: body` line of a grammar specification.
type GrammarRule struct {
	Name string
	Body string
	Line int
}

// IsTerminal reports whether the rule defines a token pattern rather than a
// production. SOF and EOF name the stream sentinels, so they are always
// productions even though they are written in capitals.
func (r GrammarRule) IsTerminal() bool {
	if r.Name == TokenTypeSOF || r.Name == TokenTypeEOF {
		return false
	}
	return isUpper(r.Name)
}

type GrammarSpec struct {
	Rules    []GrammarRule
	Keywords []string
}

func (g GrammarSpec) Terminals() []GrammarRule {
	terminals := []GrammarRule{}
	for _, rule := range g.Rules {
		if rule.IsTerminal() {
			terminals = append(terminals, rule)
		}
	}
	return terminals
}

func (g GrammarSpec) Productions() []GrammarRule {
	productions := []GrammarRule{}
	for _, rule := range g.Rules {
		if !rule.IsTerminal() {
			productions = append(productions, rule)
		}
	}
	return productions
}

func (g GrammarSpec) Rule(name string) (GrammarRule, bool) {
	for _, rule := range g.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return GrammarRule{}, false
}

type GrammarError struct {
	Line int
	Text string
	Msg  string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar line %d: %s <%s>", e.Line, e.Msg, e.Text)
}

var keywordPattern = regexp.MustCompile(`'([^']+)'`)

// ParseGrammarSpec reads a grammar specification. Blank lines and lines
// starting with '#' are skipped. Any other line without a ':' is an error
// unless lenient is set, in which case it is dropped.
func ParseGrammarSpec(text string, lenient bool) (GrammarSpec, error) {
	spec := GrammarSpec{
		Rules:    []GrammarRule{},
		Keywords: []string{},
	}
	seenRules := map[string]int{}
	seenKeywords := map[string]bool{}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			if lenient {
				continue
			}
			return GrammarSpec{}, &GrammarError{Line: lineNo, Text: line, Msg: "missing ':' after rule name"}
		}

		rule := GrammarRule{
			Name: strings.TrimSpace(line[:colon]),
			Body: strings.TrimSpace(line[colon+1:]),
			Line: lineNo,
		}
		if rule.Name == "" {
			if lenient {
				continue
			}
			return GrammarSpec{}, &GrammarError{Line: lineNo, Text: line, Msg: "empty rule name"}
		}

		if prev, ok := seenRules[rule.Name]; ok {
			if !lenient {
				return GrammarSpec{}, &GrammarError{
					Line: lineNo,
					Text: line,
					Msg:  fmt.Sprintf("rule %s already defined on line %d", rule.Name, spec.Rules[prev].Line),
				}
			}
			spec.Rules[prev] = rule
		} else {
			seenRules[rule.Name] = len(spec.Rules)
			spec.Rules = append(spec.Rules, rule)
		}

		if rule.IsTerminal() {
			continue
		}
		for _, match := range keywordPattern.FindAllStringSubmatch(rule.Body, -1) {
			keyword := match[1]
			if !seenKeywords[keyword] {
				seenKeywords[keyword] = true
				spec.Keywords = append(spec.Keywords, keyword)
			}
		}
	}

	return spec, nil
}

// isUpper matches the "all caps" test for terminal names: at least one
// letter and no lower case letters.
func isUpper(s string) bool {
	hasLetter := false
	for _, ch := range s {
		if unicode.IsLower(ch) {
			return false
		}
		if unicode.IsLetter(ch) {
			hasLetter = true
		}
	}
	return hasLetter
}
