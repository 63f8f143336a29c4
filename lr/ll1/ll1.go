/*
Package ll1 provides a predictive LL(1)-parser. Clients have to use the
tools of package lr to prepare an LL(1) parse table. The parser utilizes
this table to create a left derivation for a given input, provided through
a scanner interface.

Predictive parsing only works for grammars without left recursion, so
clients will often subject their grammar to lr.EliminateLeftRecursion
before building the table.

Usage

Clients construct a grammar, usually by using a grammar builder, and
derive an LL(1) table from it:

	g, err := b.Grammar()             // b is a lr.GrammarBuilder
	g, err = g.EliminateLeftRecursion()
	pt, err := lr.BuildPredictiveTable(lr.Analysis(g))

Then parse some input:

	p := ll1.NewParser(pt)
	scanner := scanner.GoTokenizer("input", strings.NewReader("+a"))
	accepted, err := p.Parse(scanner)

After a parse, p.Derivation() lists the applied rules in top-down order,
i.e. a leftmost derivation of the input from the start symbol.

Parse errors are reported, but do not stop the parse: on a terminal
mismatch the input advances, on a missing table entry the stack symbol is
dropped, and parsing continues best-effort. All errors of a parse run are
available from p.SyntaxErrors(). Clients who want the parse to stop at
the first error configure the parser with ll1.FailFast(true).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ll1

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/tablr/lr"
	"github.com/npillmayer/tablr/lr/scanner"
)

// tracer traces with key 'tablr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("tablr.lr")
}

// Parser is a predictive LL(1)-parser type. Create and initialize one with
// ll1.NewParser(...)
type Parser struct {
	table      *lr.PredictiveTable
	stack      []lr.Symbol // parser stack, TOS is at the end
	derivation []*lr.Rule  // rules applied during the last parse
	errs       []error     // errors reported during the last parse
	failfast   bool
}

// Option configures a parser.
type Option func(p *Parser)

// FailFast sets or clears fail-fast mode. A fail-fast parser stops at the
// first syntax error instead of recovering and reading on.
func FailFast(b bool) Option {
	return func(p *Parser) {
		p.failfast = b
	}
}

// NewParser creates a predictive parser for an LL(1) parse table.
func NewParser(pt *lr.PredictiveTable, opts ...Option) *Parser {
	parser := &Parser{
		table: pt,
		stack: make([]lr.Symbol, 0, 512),
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

// Parse starts a new parse, given a scanner tokenizing the input. The
// parser must have been initialized. Parse may be called repeatedly; every
// call begins with a fresh stack and a fresh derivation.
//
// The parser returns true if the input string has been accepted, i.e. the
// parse completed without syntax errors. Otherwise the returned error is
// the first syntax error encountered; SyntaxErrors() lists all of them.
func (p *Parser) Parse(scan scanner.Tokenizer) (bool, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.table == nil {
		tracer().Errorf("LL(1)-parser not initialized")
		return false, fmt.Errorf("LL(1)-parser not initialized")
	}
	if scan == nil {
		return false, fmt.Errorf("LL(1)-parser needs a scanner")
	}
	G := p.table.Grammar()
	p.stack = p.stack[:0]
	p.derivation = p.derivation[:0]
	p.errs = p.errs[:0]
	p.stack = append(p.stack, lr.EOF, G.Start())
	token := scan.NextToken()
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		tokval := token.TokType()
		tracer().Debugf("TOS = %v, input token %q/%d", top, token.Lexeme(), tokval)
		if top.IsTerminal() {
			p.stack = p.stack[:len(p.stack)-1] // pop TOS
			if top == lr.EOF && tokval == lr.EOFType {
				tracer().Debugf("accepted")
				return p.result()
			}
			if top.TokenType() == tokval {
				token = scan.NextToken() // match, advance the input
				continue
			}
			err := fmt.Errorf("syntax error at %v: unexpected %q (%d), expected %q%s",
				token.Span(), token.Lexeme(), tokval, top.Name, p.stackReport())
			if abort := p.report(err); abort {
				return false, err
			}
			token = scan.NextToken() // read on behind the offending token
			continue
		}
		rule, ok := p.table.Rule(top, tokval)
		if !ok {
			err := fmt.Errorf("syntax error at %v: no rule for %s on input %q (%d)%s",
				token.Span(), top.Name, token.Lexeme(), tokval, p.stackReport())
			if abort := p.report(err); abort {
				return false, err
			}
			p.stack = p.stack[:len(p.stack)-1] // drop the non-terminal
			continue
		}
		tracer().Debugf("predict %v", rule)
		p.stack = p.stack[:len(p.stack)-1] // pop TOS
		p.derivation = append(p.derivation, rule)
		if !rule.IsEpsilon() {
			rhs := rule.RHS()
			for i := len(rhs) - 1; i >= 0; i-- { // push RHS in reverse order
				p.stack = append(p.stack, rhs[i])
			}
		}
	}
	return p.result()
}

// Derivation returns the rules the last Parse run applied, in top-down
// order. For an accepted input this reads as a leftmost derivation of the
// input from the start symbol. The returned slice is valid until the next
// call to Parse.
func (p *Parser) Derivation() []*lr.Rule {
	return p.derivation
}

// SyntaxErrors returns the errors the last Parse run reported. The
// returned slice is valid until the next call to Parse.
func (p *Parser) SyntaxErrors() []error {
	return p.errs
}

func (p *Parser) report(err error) bool {
	tracer().Errorf(err.Error())
	p.errs = append(p.errs, err)
	return p.failfast
}

func (p *Parser) result() (bool, error) {
	if len(p.errs) == 0 {
		return true, nil
	}
	return false, p.errs[0]
}

// stackReport returns the parser stack rendered for an error message.
func (p *Parser) stackReport() string {
	var sb strings.Builder
	sb.WriteString(" (stack: ")
	if len(p.stack) == 0 {
		sb.WriteString("empty")
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		if i < len(p.stack)-1 {
			sb.WriteString(" ")
		}
		sb.WriteString(p.stack[i].Name)
	}
	sb.WriteString(")")
	return sb.String()
}
