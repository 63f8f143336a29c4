/*
Package bnf reads context-free grammars from a compact BNF-like notation.

Non-terminals are written in angle brackets, terminals are single characters,
"::=" derives, and a semicolon ends a rule:

	<E> ::= <E> + <T> ;
	<E> ::= <T> ;
	<T> ::= <T> * <F> ;
	<T> ::= <F> ;
	<F> ::= ( <E> ) ;
	<F> ::= n ;

A rule with an empty right-hand side is an epsilon-rule. The left-hand side
of the first rule becomes the start symbol. Whitespace is insignificant.
Terminals receive their character as token value; grammars needing richer
tokens should use lr.GrammarBuilder directly.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bnf

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tablr/lr"
	"github.com/npillmayer/tablr/lr/scanner"
	"github.com/npillmayer/tablr/lr/scanner/lexmach"

	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'tablr.bnf'.
func tracer() tracing.Trace {
	return tracing.Select("tablr.bnf")
}

// Token types of the notation itself. They never leave this package.
const (
	notationNonterm = iota + 1
	notationDerive
	notationTerm
	notationSep
)

func notationTokens(lexer *lexmachine.Lexer) {
	lexer.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
	lexer.Add([]byte(`::=`), lexmach.MakeToken("::=", notationDerive))
	lexer.Add([]byte(`<[a-zA-Z0-9_']+>`), lexmach.MakeToken("nonterminal", notationNonterm))
	lexer.Add([]byte(`;`), lexmach.MakeToken(";", notationSep))
	lexer.Add([]byte(`[^:<;]`), lexmach.MakeToken("terminal", notationTerm))
}

// Parse reads grammar notation and builds the corresponding grammar, using
// a builder scoped to this call. The first rule's LHS becomes the start
// symbol; notation without a single rule fails with an error. Characters
// the notation lexer cannot match make the read fail after the scan.
func Parse(name string, notation string) (*lr.Grammar, error) {
	adapter, err := lexmach.NewLMAdapter(notationTokens, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build notation lexer: %w", err)
	}
	scan, err := adapter.Scanner(notation)
	if err != nil {
		return nil, err
	}
	var lexErrs []error
	scan.SetErrorHandler(func(e error) {
		tracer().Errorf("grammar %s: %v", name, e)
		lexErrs = append(lexErrs, e)
	})
	b := lr.NewGrammarBuilder(name)
	rulecnt := 0
	tok := scan.NextToken()
	for tok.TokType() != scanner.EOF {
		if tok.TokType() != notationNonterm {
			return nil, fmt.Errorf("grammar %s: expected a <nonterminal> at %v, have %q",
				name, tok.Span(), tok.Lexeme())
		}
		lhs := strings.Trim(tok.Lexeme(), "<>")
		if tok = scan.NextToken(); tok.TokType() != notationDerive {
			return nil, fmt.Errorf("grammar %s: expected ::= after <%s> at %v", name, lhs, tok.Span())
		}
		rb := b.LHS(lhs)
		symcnt := 0
		tok = scan.NextToken()
	rhs:
		for {
			switch tok.TokType() {
			case notationNonterm:
				rb.N(strings.Trim(tok.Lexeme(), "<>"))
			case notationTerm:
				image := tok.Lexeme()
				rb.T(image, int(image[0]))
			default:
				break rhs
			}
			symcnt++
			tok = scan.NextToken()
		}
		if tok.TokType() != notationSep {
			return nil, fmt.Errorf("grammar %s: expected ; to end the rule for <%s> at %v",
				name, lhs, tok.Span())
		}
		if symcnt == 0 {
			rb.Epsilon()
		} else {
			rb.End()
		}
		tracer().Debugf("read rule for <%s> with %d RHS symbols", lhs, symcnt)
		rulecnt++
		tok = scan.NextToken()
	}
	if len(lexErrs) > 0 {
		return nil, fmt.Errorf("grammar %s: illegal notation: %w", name, lexErrs[0])
	}
	if rulecnt == 0 {
		return nil, fmt.Errorf("grammar %s has no start rule", name)
	}
	return b.Grammar()
}

// TokenizerFor builds a scanner factory for input in the vocabulary of a
// grammar in this notation: every terminal matches its image literally,
// whitespace is skipped, and a run of digits is handed over as the
// terminal "n", if the grammar has one.
func TokenizerFor(g *lr.Grammar) (*lexmach.LMAdapter, error) {
	literals := make([]string, 0, 16)
	words := make([]string, 0, 4)
	tokenIds := map[string]int{}
	g.EachTerminal(func(name string, T lr.Symbol) interface{} {
		tokenIds[name] = int(T.TokenType())
		if isWordlike(name) {
			words = append(words, name)
		} else {
			literals = append(literals, name)
		}
		return nil
	})
	number, hasNumber := g.SymbolByName("n")
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
		if hasNumber && number.IsTerminal() {
			lexer.Add([]byte(`[0-9]+`), lexmach.MakeToken("n", int(number.TokenType())))
		}
		for _, w := range words {
			lexer.Add([]byte(w), lexmach.MakeToken(w, tokenIds[w]))
		}
	}
	return lexmach.NewLMAdapter(init, literals, nil, tokenIds)
}

// isWordlike is true for terminal images made up of letters and digits only.
// Those must not take the escaped-literals route: the lexer reads \n, \t and
// \r as control characters.
func isWordlike(name string) bool {
	for _, c := range name {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return name != ""
}
