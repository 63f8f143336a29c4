package lr

import (
	"fmt"
	"strings"

	"github.com/npillmayer/tablr"
	"golang.org/x/exp/slices"
)

// Token values of the two sentinel terminals. Non-terminals carry values
// of nonTermIDBase and below; values in between are free for clients'
// terminals.
const (
	EpsilonType tablr.TokType = 0  // token value of the epsilon pseudo-terminal
	EOFType     tablr.TokType = -1 // token value of end-of-input; matches text/scanner.EOF
)

const nonTermIDBase tablr.TokType = -1000

// === Symbols ===============================================================

type symCat int8

const (
	terminalCat symCat = iota
	nonTermCat
)

// Symbol is a symbol of a grammar, either a terminal or a non-terminal.
// Symbols are values: two symbols are the same symbol iff category, name
// and token value coincide. A symbol's identity never changes after the
// grammar has been built.
type Symbol struct {
	Name  string        // visual representation ("image") of the symbol
	Value tablr.TokType // token value; negative for non-terminals
	cat   symCat
}

// Epsilon is the sentinel terminal for the empty string. It is a member of
// every grammar's symbol set and is the sole right-hand side entry of
// epsilon-rules.
var Epsilon = Symbol{Name: "#eps", Value: EpsilonType}

// EOF is the sentinel terminal for end-of-input. It is a member of every
// grammar's symbol set and the initial lookahead of LR parsing.
var EOF = Symbol{Name: "#eof", Value: EOFType}

// IsTerminal returns true if this symbol represents a terminal.
func (sym Symbol) IsTerminal() bool {
	return sym.cat == terminalCat
}

// TokenType returns the token value of a symbol.
func (sym Symbol) TokenType() tablr.TokType {
	return sym.Value
}

func (sym Symbol) String() string {
	return sym.Name
}

// undefined is true for the zero symbol only, which is not a legal member
// of any grammar.
func (sym Symbol) undefined() bool {
	return sym.Name == ""
}

func symbolImages(syms []Symbol) []string {
	images := make([]string, len(syms))
	for i, sym := range syms {
		images[i] = sym.Name
	}
	return images
}

// === Rules =================================================================

// A Rule is a production of a grammar, i.e. a single derivation
// LHS ::= RHS. Rules are identified by their serial number within their
// grammar. Epsilon-rules carry the Epsilon sentinel as their only
// right-hand side symbol.
type Rule struct {
	Serial int    // order number of this rule within its grammar
	LHS    Symbol // left-hand side of the rule, a non-terminal
	rhs    []Symbol
}

func newRule(lhs Symbol, rhs []Symbol) *Rule {
	r := &Rule{LHS: lhs}
	if len(rhs) == 0 {
		r.rhs = []Symbol{Epsilon}
	} else {
		r.rhs = rhs
	}
	return r
}

// RHS returns the right-hand side of the rule. Callers must not modify the
// returned slice.
func (r *Rule) RHS() []Symbol {
	return r.rhs
}

// Len returns the effective length of the rule's right-hand side, i.e. the
// number of symbols an LR parser will pop when reducing the rule. It is 0
// for epsilon-rules.
func (r *Rule) Len() int {
	if r.IsEpsilon() {
		return 0
	}
	return len(r.rhs)
}

// IsEpsilon returns true if this is an epsilon-rule.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 1 && r.rhs[0] == Epsilon
}

// Eq compares two rules for derivation equality: same left-hand side and
// the same sequence of right-hand side symbols. Serial numbers do not
// contribute to equality.
func (r *Rule) Eq(other *Rule) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.LHS != other.LHS {
		return false
	}
	return slices.Equal(r.rhs, other.rhs)
}

func (r *Rule) String() string {
	return fmt.Sprintf("[%s] ::= [%s]", r.LHS.Name, strings.Join(symbolImages(r.rhs), " "))
}

// === Grammar ===============================================================

// Grammar is an immutable context-free grammar: a set of derivation rules
// over a set of symbols, together with a start symbol. Grammar objects are
// created by a GrammarBuilder, by reading a grammar file, or by
// transforming an existing grammar (see Augment and
// EliminateLeftRecursion). Once created, a grammar never changes.
type Grammar struct {
	Name         string // a grammar has a name, for documentation purposes
	rules        []*Rule
	start        Symbol
	symbols      map[string]Symbol // all symbols, keyed by image
	terminals    []Symbol          // all terminals, sorted by image
	nonterminals []Symbol          // all non-terminals, sorted by image
	termByValue  map[tablr.TokType]Symbol
	ntIndex      map[tablr.TokType]int // dense row numbers for non-terminals
}

// newGrammar assembles a grammar from a list of rules. The rules' serial
// numbers are (re-)assigned from slice order, duplicate derivations are
// dropped, and the symbol inventory is derived from the rules. This is the
// single point where grammar invariants are checked.
func newGrammar(name string, start Symbol, rules []*Rule) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar %s has no rules", name)
	}
	g := &Grammar{
		Name:        name,
		start:       start,
		symbols:     map[string]Symbol{Epsilon.Name: Epsilon, EOF.Name: EOF},
		termByValue: map[tablr.TokType]Symbol{EpsilonType: Epsilon, EOFType: EOF},
		ntIndex:     make(map[tablr.TokType]int),
	}
	intern := func(sym Symbol) error {
		if sym.undefined() {
			return fmt.Errorf("grammar %s contains an undefined symbol", name)
		}
		if prev, ok := g.symbols[sym.Name]; ok {
			if prev != sym {
				return fmt.Errorf("grammar %s uses symbol %q inconsistently", name, sym.Name)
			}
			return nil
		}
		if sym.IsTerminal() {
			if sym.Value <= nonTermIDBase {
				return fmt.Errorf("terminal %q has token value %d, reserved for non-terminals",
					sym.Name, sym.Value)
			}
			if prev, ok := g.termByValue[sym.Value]; ok {
				return fmt.Errorf("terminals %q and %q share token value %d",
					prev.Name, sym.Name, sym.Value)
			}
			g.termByValue[sym.Value] = sym
		} else if sym.Value > nonTermIDBase {
			return fmt.Errorf("non-terminal %q has illegal token value %d", sym.Name, sym.Value)
		}
		g.symbols[sym.Name] = sym
		return nil
	}
	serial := 0
	for _, r := range rules {
		if r.LHS.IsTerminal() {
			return nil, fmt.Errorf("rule has terminal %q as its left-hand side", r.LHS.Name)
		}
		if dup := g.findRule(r); dup != nil {
			continue // same derivation registered twice: keep the first one
		}
		if err := intern(r.LHS); err != nil {
			return nil, err
		}
		for _, sym := range r.rhs {
			if sym == Epsilon && len(r.rhs) > 1 {
				return nil, fmt.Errorf("rule %v: epsilon must be the only symbol of a derivation", r)
			}
			if err := intern(sym); err != nil {
				return nil, err
			}
		}
		r.Serial = serial
		serial++
		g.rules = append(g.rules, r)
	}
	if start.undefined() || start.IsTerminal() {
		return nil, fmt.Errorf("grammar %s needs a non-terminal start symbol", name)
	}
	if got, ok := g.symbols[start.Name]; !ok || got != start {
		return nil, fmt.Errorf("start symbol %q does not occur in any rule", start.Name)
	}
	if len(g.rulesFor(start)) == 0 {
		return nil, fmt.Errorf("start symbol %q has no derivation rules", start.Name)
	}
	for _, sym := range g.symbols {
		if sym.IsTerminal() {
			g.terminals = append(g.terminals, sym)
		} else {
			g.nonterminals = append(g.nonterminals, sym)
		}
	}
	byImage := func(s1, s2 Symbol) bool { return s1.Name < s2.Name }
	slices.SortFunc(g.terminals, byImage)
	slices.SortFunc(g.nonterminals, byImage)
	for i, nt := range g.nonterminals {
		g.ntIndex[nt.Value] = i
	}
	return g, nil
}

// Size returns the number of rules of a grammar.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns the rule with a given serial number, or nil.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Start returns the start symbol of a grammar.
func (g *Grammar) Start() Symbol {
	return g.start
}

// Terminal returns the terminal symbol for a given token value, if it is
// part of this grammar.
func (g *Grammar) Terminal(tokval tablr.TokType) (Symbol, bool) {
	sym, ok := g.termByValue[tokval]
	return sym, ok
}

// NonTerminal returns the non-terminal symbol for a given token value, if
// it is part of this grammar.
func (g *Grammar) NonTerminal(tokval tablr.TokType) (Symbol, bool) {
	row, ok := g.ntIndex[tokval]
	if !ok {
		return Symbol{}, false
	}
	return g.nonterminals[row], true
}

// SymbolByName returns the symbol with a given image, if it is part of
// this grammar.
func (g *Grammar) SymbolByName(name string) (Symbol, bool) {
	sym, ok := g.symbols[name]
	return sym, ok
}

// findRule scans for a rule with the same derivation.
func (g *Grammar) findRule(r *Rule) *Rule {
	for _, rule := range g.rules {
		if rule.Eq(r) {
			return rule
		}
	}
	return nil
}

// rulesFor returns all rules with a given non-terminal as their left-hand
// side, in serial order.
func (g *Grammar) rulesFor(N Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.LHS == N {
			rules = append(rules, r)
		}
	}
	return rules
}

// nonTermRow returns a dense row number for a non-terminal, for use as a
// parser table index. Row numbers follow the lexicographic order of
// non-terminal images.
func (g *Grammar) nonTermRow(N Symbol) (int, bool) {
	row, ok := g.ntIndex[N.Value]
	return row, ok
}

// EachSymbol applies a mapper function to all symbols of a grammar,
// including the sentinels Epsilon and EOF. Symbols are visited in
// lexicographic order of their images, terminals first. Non-nil results of
// the mapper are collected.
func (g *Grammar) EachSymbol(mapper func(sym Symbol) interface{}) []interface{} {
	var values []interface{}
	for _, sym := range g.terminals {
		if v := mapper(sym); v != nil {
			values = append(values, v)
		}
	}
	for _, sym := range g.nonterminals {
		if v := mapper(sym); v != nil {
			values = append(values, v)
		}
	}
	return values
}

// EachNonTerminal applies a mapper function to all non-terminals of a
// grammar, in lexicographic order of their images. Non-nil results of the
// mapper are collected.
func (g *Grammar) EachNonTerminal(mapper func(name string, N Symbol) interface{}) []interface{} {
	var values []interface{}
	for _, sym := range g.nonterminals {
		if v := mapper(sym.Name, sym); v != nil {
			values = append(values, v)
		}
	}
	return values
}

// EachTerminal applies a mapper function to all terminals of a grammar,
// except the sentinels, in lexicographic order of their images. Non-nil
// results of the mapper are collected.
func (g *Grammar) EachTerminal(mapper func(name string, T Symbol) interface{}) []interface{} {
	var values []interface{}
	for _, sym := range g.terminals {
		if sym == Epsilon || sym == EOF {
			continue
		}
		if v := mapper(sym.Name, sym); v != nil {
			values = append(values, v)
		}
	}
	return values
}

// Dump dumps the grammar to the tracer, one line per rule.
func (g *Grammar) Dump() {
	tracer().Debugf("grammar %s, start symbol = %s", g.Name, g.start.Name)
	for _, r := range g.rules {
		tracer().Debugf("%d: %v", r.Serial, r)
	}
}

// freshSymbolName derives a symbol image not yet present in the grammar by
// appending ' (prime) characters to a base image.
func (g *Grammar) freshSymbolName(base string) string {
	name := base + "'"
	for {
		if _, ok := g.symbols[name]; !ok {
			return name
		}
		name += "'"
	}
}

// nextNonTermValue returns an unused token value for a fresh non-terminal.
func (g *Grammar) nextNonTermValue() tablr.TokType {
	min := nonTermIDBase + 1
	for _, nt := range g.nonterminals {
		if nt.Value < min {
			min = nt.Value
		}
	}
	return min - 1
}

// Augment derives a new grammar, extended by a fresh start symbol S' and
// a single start rule S' ::= S, where S is the receiver's start symbol.
// The new start rule gets serial number 0; the serials of all other rules
// shift up by one. The receiver is left untouched.
//
// LR table construction augments grammars automatically; clients normally
// do not call this themselves.
func (g *Grammar) Augment() (*Grammar, error) {
	sPrime := Symbol{
		Name:  g.freshSymbolName(g.start.Name),
		Value: g.nextNonTermValue(),
		cat:   nonTermCat,
	}
	rules := make([]*Rule, 0, len(g.rules)+1)
	rules = append(rules, newRule(sPrime, []Symbol{g.start}))
	for _, r := range g.rules {
		rules = append(rules, newRule(r.LHS, r.rhs))
	}
	return newGrammar(g.Name, sPrime, rules)
}

// === Grammar Builder =======================================================

// GrammarBuilder is an object to incrementally construct a grammar. Rules
// are added in a fluent style, with one RuleBuilder per rule:
//
//	b := lr.NewGrammarBuilder("G")
//	b.LHS("S").N("E").EOF()        // S ::= E #eof
//	b.LHS("E").T("a", 'a').End()   // E ::= a
//	b.LHS("E").Epsilon()           // E ::= #eps
//	g, err := b.Grammar()
//
// The left-hand side of the first rule becomes the grammar's start symbol.
// Symbol inconsistencies (an image used both as terminal and non-terminal,
// clashing token values, use of reserved images or values) are collected
// while building and reported by Grammar().
//
// Builders are single-use: after a successful call to Grammar() the
// builder should be discarded. A builder must not be shared between
// goroutines.
type GrammarBuilder struct {
	name    string
	rules   []*Rule
	symbols map[string]Symbol
	ntCount int
	err     error
}

// NewGrammarBuilder creates a builder for a grammar with a given name.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		name:    gname,
		symbols: map[string]Symbol{},
	}
}

func (gb *GrammarBuilder) fail(format string, args ...interface{}) {
	if gb.err == nil {
		gb.err = fmt.Errorf(format, args...)
	}
}

func (gb *GrammarBuilder) newNonTermSymbol(name string) Symbol {
	if name == "" {
		gb.fail("grammar %s: empty symbol image", gb.name)
		return Symbol{Name: "<undefined>", Value: nonTermIDBase, cat: nonTermCat}
	}
	if name == Epsilon.Name || name == EOF.Name {
		gb.fail("grammar %s: image %q is reserved", gb.name, name)
	}
	if sym, ok := gb.symbols[name]; ok {
		if sym.IsTerminal() {
			gb.fail("grammar %s: symbol %q is already a terminal", gb.name, name)
		}
		return sym
	}
	sym := Symbol{Name: name, Value: nonTermIDBase - tablr.TokType(gb.ntCount), cat: nonTermCat}
	gb.ntCount++
	gb.symbols[name] = sym
	return sym
}

func (gb *GrammarBuilder) newTermSymbol(name string, tokval int) Symbol {
	if name == "" {
		gb.fail("grammar %s: empty symbol image", gb.name)
		return Epsilon
	}
	if name == Epsilon.Name || name == EOF.Name {
		gb.fail("grammar %s: image %q is reserved", gb.name, name)
	}
	t := tablr.TokType(tokval)
	if t == EpsilonType || t == EOFType || t <= nonTermIDBase {
		gb.fail("grammar %s: token value %d for %q is reserved", gb.name, tokval, name)
	}
	if sym, ok := gb.symbols[name]; ok {
		if !sym.IsTerminal() {
			gb.fail("grammar %s: symbol %q is already a non-terminal", gb.name, name)
		} else if sym.Value != t {
			gb.fail("grammar %s: terminal %q re-declared with token value %d (has %d)",
				gb.name, name, tokval, sym.Value)
		}
		return sym
	}
	for _, other := range gb.symbols {
		if other.IsTerminal() && other.Value == t {
			gb.fail("grammar %s: terminals %q and %q share token value %d",
				gb.name, other.Name, name, tokval)
		}
	}
	sym := Symbol{Name: name, Value: t, cat: terminalCat}
	gb.symbols[name] = sym
	return sym
}

// LHS starts a new rule, given the left-hand side symbol's image. It
// returns a RuleBuilder to construct the right-hand side.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{gb: gb, lhs: gb.newNonTermSymbol(name)}
}

// Grammar returns the grammar built so far. It fails if no rules were
// added, if symbols were used inconsistently, or if the first rule's
// left-hand side has no derivation.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.err != nil {
		return nil, gb.err
	}
	if len(gb.rules) == 0 {
		return nil, fmt.Errorf("grammar %s has no rules", gb.name)
	}
	g, err := newGrammar(gb.name, gb.rules[0].LHS, gb.rules)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RuleBuilder is a helper object to build a single grammar rule. Clients
// append right-hand side symbols with N and T and finish the rule with
// End, EOF or Epsilon.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs Symbol
	rhs []Symbol
}

// N appends a non-terminal symbol to the rule's right-hand side.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.newNonTermSymbol(name))
	return rb
}

// T appends a terminal symbol with a given token value to the rule's
// right-hand side. Values 0 and -1 are reserved for the sentinels, values
// of -1000 and below for non-terminals.
func (rb *RuleBuilder) T(name string, tokval int) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.newTermSymbol(name, tokval))
	return rb
}

// EOF appends the end-of-input sentinel to the rule's right-hand side and
// closes the rule. Grammars destined for LR table generation do not need
// this: augmentation handles end-of-input.
func (rb *RuleBuilder) EOF() *Rule {
	rb.rhs = append(rb.rhs, EOF)
	return rb.End()
}

// Epsilon closes the rule as an epsilon-rule. The right-hand side must be
// empty at this point.
func (rb *RuleBuilder) Epsilon() *Rule {
	if len(rb.rhs) > 0 {
		rb.gb.fail("grammar %s: epsilon-rule for %q may not have further RHS symbols",
			rb.gb.name, rb.lhs.Name)
	}
	rb.rhs = []Symbol{Epsilon}
	return rb.End()
}

// End closes the rule and hands it over to the grammar builder.
func (rb *RuleBuilder) End() *Rule {
	if len(rb.rhs) == 0 {
		rb.gb.fail("grammar %s: rule for %q has an empty RHS, use Epsilon()",
			rb.gb.name, rb.lhs.Name)
		rb.rhs = []Symbol{Epsilon}
	}
	r := newRule(rb.lhs, rb.rhs)
	r.Serial = len(rb.gb.rules)
	rb.gb.rules = append(rb.gb.rules, r)
	return r
}
