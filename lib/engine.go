package lib

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// DefaultGrammar is the grammar of the language the ruleset implements.
//
//go:embed default.grammar
var DefaultGrammar string

type Config struct {
	// LenientGrammar drops grammar lines that have no ':' instead of
	// rejecting the grammar.
	LenientGrammar bool
	Limits         Limits
	// CacheSize is the number of compiled grammars kept between calls.
	CacheSize int
	Logger    logrus.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		Limits: Limits{
			MaxSteps: 1000000,
			MaxDepth: 2000,
		},
		CacheSize: 16,
	}
}

type compiledGrammar struct {
	spec      GrammarSpec
	tokenizer *Tokenizer
}

// Engine ties the tokenizer to the ruleset. It is safe for concurrent use;
// every parse gets its own Scanner.
type Engine struct {
	config Config
	log    logrus.FieldLogger
	rules  *ruleset
	cache  *lru.Cache[uint64, *compiledGrammar]
}

func NewEngine(config Config) (*Engine, error) {
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultConfig().CacheSize
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cache, err := lru.New[uint64, *compiledGrammar](config.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config: config,
		log:    logger.WithField("component", "parser"),
		rules:  newRuleset(),
		cache:  cache,
	}, nil
}

var defaultEngine *Engine

func init() {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(err)
	}
	defaultEngine = engine
}

// Parse tokenizes program with the terminals and keywords of grammar and
// parses it from the SOF rule.
func Parse(grammar string, program string) (Node, error) {
	return defaultEngine.Parse(grammar, program)
}

func (e *Engine) Parse(grammar string, program string) (Node, error) {
	return e.ParseRule(grammar, "SOF", program)
}

// ParseRule parses program as a single production. The whole program must
// be consumed.
func (e *Engine) ParseRule(grammar string, rule string, program string) (Node, error) {
	tokens, err := e.Tokenize(grammar, program)
	if err != nil {
		return nil, err
	}
	return e.ParseTokens(tokens, rule)
}

func (e *Engine) Tokenize(grammar string, program string) ([]Token, error) {
	compiled, err := e.compile(grammar)
	if err != nil {
		return nil, err
	}

	tokens, err := compiled.tokenizer.Tokenize(program)
	if err != nil {
		e.log.WithError(err).Debug("Tokenizing failed")
		return nil, err
	}
	e.log.WithField("tokens", len(tokens)).Debug("Tokenized program")
	return tokens, nil
}

// ParseTokens runs rule over a token stream that starts with the SOF
// sentinel. Success requires the cursor to finish on the EOF sentinel.
func (e *Engine) ParseTokens(tokens []Token, rule string) (Node, error) {
	p, ok := e.rules.lookup(rule)
	if !ok {
		return nil, fmt.Errorf("Unknown rule <%s>", rule)
	}

	s := NewScanner(tokens, e.config.Limits)
	if r := Eat(TokenTypeSOF)(s); !r.Ok() {
		return nil, &ParseError{
			Pos:   0,
			Token: s.tokenAt(0),
			Msg:   "token stream does not start with SOF",
			Cause: r.Failure.Cause,
		}
	}

	r := p(s)
	if !r.Ok() {
		err := failureToError(s, r.Failure)
		e.log.WithFields(logrus.Fields{
			"rule":  rule,
			"pos":   err.Pos,
			"steps": s.Steps(),
		}).Debug("Parse failed")
		return nil, err
	}

	if !s.AtEOF() {
		err := trailingError(s)
		e.log.WithFields(logrus.Fields{"rule": rule, "pos": err.Pos}).Debug("Parse left trailing tokens")
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"rule": rule, "steps": s.Steps()}).Debug("Parsed program")
	return r.Nodes[0], nil
}

// CheckGrammar compiles grammar and returns the productions it declares
// that the ruleset does not implement.
func (e *Engine) CheckGrammar(grammar string) ([]string, error) {
	compiled, err := e.compile(grammar)
	if err != nil {
		return nil, err
	}
	return e.missingProductions(compiled.spec), nil
}

func (e *Engine) missingProductions(spec GrammarSpec) []string {
	missing := []string{}
	for _, rule := range spec.Productions() {
		if _, ok := e.rules.lookup(rule.Name); !ok {
			missing = append(missing, rule.Name)
		}
	}
	return missing
}

func (e *Engine) compile(grammar string) (*compiledGrammar, error) {
	key := xxhash.Sum64String(strconv.FormatBool(e.config.LenientGrammar) + "\x00" + grammar)
	if compiled, ok := e.cache.Get(key); ok {
		return compiled, nil
	}

	spec, err := ParseGrammarSpec(grammar, e.config.LenientGrammar)
	if err != nil {
		return nil, err
	}
	tokenizer, err := NewTokenizer(spec)
	if err != nil {
		return nil, err
	}

	for _, name := range e.missingProductions(spec) {
		e.log.WithField("rule", name).Warn("Grammar declares a production the parser does not implement")
	}
	e.log.WithFields(logrus.Fields{
		"terminals": len(spec.Terminals()),
		"keywords":  len(spec.Keywords),
	}).Debug("Compiled grammar")

	compiled := &compiledGrammar{spec: spec, tokenizer: tokenizer}
	e.cache.Add(key, compiled)
	return compiled, nil
}

func failureToError(s *Scanner, f *Failure) *ParseError {
	if f.Fatal() {
		return &ParseError{Pos: f.Pos, Token: f.Token, Msg: f.Message, Cause: f.Cause}
	}

	pos, expected := s.Farthest()
	if pos < 0 {
		pos = f.Pos
	}
	tok := s.tokenAt(pos)
	return &ParseError{
		Pos:      pos,
		Token:    tok,
		Expected: expected,
		Msg:      fmt.Sprintf("unexpected %s", tokenString(tok)),
		Trace:    f.Message,
	}
}

func trailingError(s *Scanner) *ParseError {
	pos, expected := s.Farthest()
	if pos >= s.Pos() {
		tok := s.tokenAt(pos)
		return &ParseError{
			Pos:      pos,
			Token:    tok,
			Expected: expected,
			Msg:      fmt.Sprintf("unexpected %s", tokenString(tok)),
		}
	}

	tok := s.tokenAt(s.Pos())
	return &ParseError{
		Pos:   s.Pos(),
		Token: tok,
		Msg:   fmt.Sprintf("unexpected %s after end of program", tokenString(tok)),
	}
}
