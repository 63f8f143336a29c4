/*
Package lr1 provides an LR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The LR(1) parser
utilizes these tables to create a right derivation for a given input,
provided through a scanner interface.

This parser is intended for small to moderate grammars, e.g. for
configuration input or small domain-specific languages. It is *not*
intended for full-fledged programming languages (there are superb other
tools around for these kinds of usages, usually creating LALR(1)-parsers,
which produce smaller tables than canonical LR(1)).

The main focus for this implementation is adaptability and on-the-fly
usage. Clients are able to construct the parse tables from a grammar and
use the parser directly, without a code-generation or compile step. If
you want, you can create a grammar from user input and use a parser for
it in a couple of lines of code.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  --> Sign Id
	b.LHS("Sign").T("+", '+').End()                     // Sign --> +
	b.LHS("Sign").T("-", '-').End()                     // Sign --> -
	b.LHS("Sign").Epsilon()                             // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.
Note that the generator augments the grammar with a fresh start rule;
the parser has to be constructed with the augmented grammar, i.e. with
lrgen.Grammar() rather than g:

	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
	    …                       // grammar is not LR(1)
	}

Finally parse some input:

	p := lr1.NewParser(lrgen.Grammar(), lrgen.GotoTable(), lrgen.ActionTable())
	scanner := scanner.GoTokenizer("input", strings.NewReader("+a"))
	accepted, err := p.Parse(lrgen.CFSM().S0, scanner)

After a parse, the sequence of shift/reduce actions is available from
p.Trace(), and p.Reductions() lists the reduced rules in derivation
order. Clients may use these to drive semantic actions or to build a
parse tree.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr1

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tablr"

	"github.com/npillmayer/tablr/lr"
	"github.com/npillmayer/tablr/lr/scanner"
)

// tracer traces with key 'tablr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("tablr.lr")
}

// ActionKind distinguishes the kinds of parse actions in a parse trace.
type ActionKind int8

// Parse actions of a trace.
const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	}
	return "<unknown action>"
}

// Action is a single step of a parse: a shift of an input token, a
// reduction of a grammar rule, or the final accept.
type Action struct {
	Kind  ActionKind
	State uint        // state the parser moved to
	Token tablr.Token // token shifted; set for shift actions only
	Rule  *lr.Rule    // rule reduced; set for reduce actions only
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %q, to state %d", a.Token.Lexeme(), a.State)
	case Reduce:
		return fmt.Sprintf("reduce %d: %v", a.Rule.Serial, a.Rule)
	case Accept:
		return "accept"
	}
	return "<unknown action>"
}

// Parser is an LR(1)-parser type. Create and initialize one with
// lr1.NewParser(...)
type Parser struct {
	G       *lr.Grammar
	stack   []stackitem // parser stack
	gotoT   *lr.Table   // GOTO table
	actionT *lr.Table   // ACTION table
	trace   []Action    // actions applied during the last parse
}

// We store pairs of state-IDs and symbol-IDs on the parse stack.
type stackitem struct {
	stateID uint          // ID of a CFSM state
	symID   tablr.TokType // ID of a grammar symbol (terminal or non-terminal)
	span    tablr.Span    // input span over which this symbol reaches
}

// NewParser creates an LR(1) parser. The grammar has to be the augmented
// grammar the tables were built for, i.e. TableGenerator.Grammar().
func NewParser(g *lr.Grammar, gotoTable *lr.Table, actionTable *lr.Table) *Parser {
	parser := &Parser{
		G:       g,
		stack:   make([]stackitem, 0, 512),
		gotoT:   gotoTable,
		actionT: actionTable,
	}
	return parser
}

// Parse starts a new parse, given a start state and a scanner tokenizing
// the input. The parser must have been initialized. Parse may be called
// repeatedly; every call begins with a fresh stack and a fresh trace.
//
// The parser returns true if the input string has been accepted.
func (p *Parser) Parse(S *lr.CFSMState, scan scanner.Tokenizer) (bool, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.G == nil || p.gotoT == nil || p.actionT == nil {
		tracer().Errorf("LR(1)-parser not initialized")
		return false, fmt.Errorf("LR(1)-parser not initialized")
	}
	if S == nil || scan == nil {
		return false, fmt.Errorf("LR(1)-parser needs a start state and a scanner")
	}
	p.stack = p.stack[:0]
	p.trace = p.trace[:0]
	p.stack = append(p.stack, stackitem{S.ID, 0, tablr.Span{}}) // push S
	token := scan.NextToken()
	tokval := token.TokType()
	for {
		tracer().Debugf("got token %q/%d from scanner", token.Lexeme(), tokval)
		if _, ok := p.G.Terminal(tokval); !ok {
			return false, fmt.Errorf("syntax error at %v: token %q (%d) is not a terminal of grammar %s",
				token.Span(), token.Lexeme(), tokval, p.G.Name)
		}
		state := p.stack[len(p.stack)-1] // TOS
		action := p.actionT.Value(state.stateID, tokval)
		tracer().Debugf("action(%d,%d)=%s", state.stateID, tokval, valstring(action, p.actionT))
		switch {
		case action == p.actionT.NullValue():
			return false, fmt.Errorf("syntax error at %v: unexpected %q (%d)%s",
				token.Span(), token.Lexeme(), tokval, p.stackReport())
		case action == lr.AcceptAction:
			p.trace = append(p.trace, Action{Kind: Accept, State: state.stateID})
			return true, nil
		case action == lr.ShiftAction:
			nextstate := p.gotoT.Value(state.stateID, tokval)
			if nextstate == p.gotoT.NullValue() {
				return false, fmt.Errorf("no GOTO entry for state %d and token %d, tables corrupt",
					state.stateID, tokval)
			}
			tracer().Debugf("shifting, next state = %d", nextstate)
			p.stack = append(p.stack, // push a terminal state onto stack
				stackitem{uint(nextstate), tokval, token.Span()})
			p.trace = append(p.trace, Action{Kind: Shift, State: uint(nextstate), Token: token})
			token = scan.NextToken()
			tokval = token.TokType()
		case action > 0: // reduce action
			rule := p.G.Rule(int(action))
			nextstate, handlespan, err := p.reduce(rule)
			if err != nil {
				return false, err
			}
			if handlespan.IsNull() { // resulted from an epsilon production
				pos := token.Span().From()
				if pos > 0 { // epsilon was just before the lookahead
					pos--
				}
				handlespan = tablr.Span{pos, pos}
			}
			tracer().Debugf("reduced to next state = %d", nextstate)
			p.stack = append(p.stack, // push a non-terminal state onto stack
				stackitem{nextstate, rule.LHS.TokenType(), handlespan})
			p.trace = append(p.trace, Action{Kind: Reduce, State: nextstate, Rule: rule})
		default:
			return false, fmt.Errorf("illegal action table entry %d for state %d, tables corrupt",
				action, state.stateID)
		}
	}
}

// Trace returns the sequence of parse actions the last Parse run applied,
// in chronological order. The returned slice is valid until the next call
// to Parse.
func (p *Parser) Trace() []Action {
	return p.trace
}

// Reductions returns the rules the last Parse run reduced, in reverse
// order of application. For an accepted input this reads as a rightmost
// derivation of the input from the start symbol.
func (p *Parser) Reductions() []*lr.Rule {
	var rules []*lr.Rule
	for i := len(p.trace) - 1; i >= 0; i-- {
		if p.trace[i].Kind == Reduce {
			rules = append(rules, p.trace[i].Rule)
		}
	}
	return rules
}

// reduce performs a reduce action for a rule
//
//	LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//	[TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// which are popped in reverse order, verifying each one against the
// rule's RHS. Epsilon-rules pop nothing. The resulting state is looked up
// in the GOTO table for the rule's LHS.
func (p *Parser) reduce(rule *lr.Rule) (uint, tablr.Span, error) {
	tracer().Infof("reduce %v", rule)
	var handlespan tablr.Span
	if !rule.IsEpsilon() {
		handle := reverse(rule.RHS())
		for _, sym := range handle {
			if len(p.stack) <= 1 {
				return 0, handlespan, fmt.Errorf("parse stack underflow while reducing rule %d (%v)",
					rule.Serial, rule)
			}
			tos := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1] // pop TOS
			if tos.symID != sym.TokenType() {
				tracer().Errorf("expected %v on top of stack, got %d", sym, tos.symID)
			}
			handlespan = handlespan.Extend(tos.span)
		}
	}
	state := p.stack[len(p.stack)-1] // TOS
	nextstate := p.gotoT.Value(state.stateID, rule.LHS.TokenType())
	if nextstate == p.gotoT.NullValue() {
		return 0, handlespan, fmt.Errorf("no GOTO entry for state %d and symbol %v, tables corrupt",
			state.stateID, rule.LHS)
	}
	return uint(nextstate), handlespan, nil
}

// stackReport returns the parser stack rendered for an error message, TOS
// first. Stack symbols are resolved through the grammar where possible.
func (p *Parser) stackReport() string {
	var sb strings.Builder
	sb.WriteString(" (stack:")
	for i := len(p.stack) - 1; i >= 1; i-- {
		sb.WriteString(" ")
		if sym, ok := p.G.Terminal(p.stack[i].symID); ok {
			sb.WriteString(sym.Name)
		} else if sym, ok := p.G.NonTerminal(p.stack[i].symID); ok {
			sb.WriteString(sym.Name)
		} else {
			sb.WriteString(fmt.Sprintf("%d", p.stack[i].symID))
		}
		sb.WriteString(fmt.Sprintf("/%d", p.stack[i].stateID))
	}
	sb.WriteString(")")
	return sb.String()
}

// --- Helpers ----------------------------------------------------------

// reverse the symbols of a RHS of a rule (i.e., a handle)
func reverse(syms []lr.Symbol) []lr.Symbol {
	r := append([]lr.Symbol(nil), syms...) // make copy first
	for i := len(syms)/2 - 1; i >= 0; i-- {
		opp := len(syms) - 1 - i
		r[i], r[opp] = r[opp], r[i]
	}
	return r
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *lr.Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == lr.AcceptAction {
		return "<accept>"
	} else if v == lr.ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("%d", v)
}
