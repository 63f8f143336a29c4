package lr

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/tablr"
	"github.com/npillmayer/tablr/lr/iteratable"
	"golang.org/x/exp/slices"
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.5.1 LR(1) Parsing, and to the Dragon Book, section 4.7.2.

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

// closure returns the LR(1) closure of a single item.
func (ga *LRAnalysis) closure(i Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closureSet(S)
}

// closureSet computes the LR(1) closure of an item set: for every item
// ⟨X ::= … ●N β, la⟩ with a non-terminal N after the dot, the start items
// of all rules for N are added, with one new item per lookahead terminal
// in FIRST(β+la). Newly added items are processed in turn, until the set
// is saturated.
func (ga *LRAnalysis) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		N, ok := item.PeekSymbol() // get symbol N after dot
		if !ok || N.IsTerminal() {
			continue
		}
		lookaheads := ga.lookaheadFirst(item.Beta(), item.La).AppendTo(nil)
		for _, r := range ga.g.rulesFor(N) {
			for _, la := range lookaheads {
				t, isterm := ga.g.Terminal(tablr.TokType(la))
				if !isterm {
					continue // cannot happen: lookaheadFirst yields terminals only
				}
				C.Add(StartItem(r, t)) // Add is a no-op for known items
			}
		}
	}
	return C
}

// gotoSet advances the dot over symbol A for every item of a closure set
// which has A after the dot. Lookaheads travel unchanged.
func (ga *LRAnalysis) gotoSet(closure *iteratable.Set, A Symbol) *iteratable.Set {
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if sym, ok := i.PeekSymbol(); ok && sym == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset
}

func (ga *LRAnalysis) gotoSetClosure(i *iteratable.Set, A Symbol) *iteratable.Set {
	gotoset := ga.gotoSet(i, A)
	gclosure := ga.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint            // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	Accept bool            // is this an accepting state?
}

// CFSM edge between 2 states, directed and labelled with a symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Create a state from an item set
func state(id uint, iset *iteratable.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

// containsCompletedStartRule returns true if the state carries a completed
// item of the start rule with end-of-input as its lookahead. Such a state
// is an accepting state of the CFSM.
func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.Completed() && i.La == EOF {
			return true
		}
	}
	return false
}

// symbolsAtDot returns all symbols which occur right after the dot of any
// of the state's items, sorted by image. These are the labels of the
// state's outgoing edges.
func (s *CFSMState) symbolsAtDot() []Symbol {
	seen := map[Symbol]bool{}
	var syms []Symbol
	for _, x := range s.items.Values() {
		if A, ok := asItem(x).PeekSymbol(); ok && !seen[A] {
			seen[A] = true
			syms = append(syms, A)
		}
	}
	slices.SortFunc(syms, func(s1, s2 Symbol) bool { return s1.Name < s2.Name })
	return syms
}

// Create an edge
func edge(from, to *CFSMState, label Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// CFSM is the characteristic finite state machine for an LR grammar, i.e.
// the LR(1) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some
// methods defined on it, e.g, for debugging purposes, or even to compute
// your own tables from it.
type CFSM struct {
	g       *Grammar        // this CFSM is for Grammar g
	states  *treeset.Set    // all the states
	edges   *arraylist.List // all the edges between states
	index   map[string]*CFSMState
	S0      *CFSMState // start state
	cfsmIds uint       // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.index = make(map[string]*CFSMState)
	return c
}

// itemSig is the canonical form of an item for state digests.
type itemSig struct {
	Serial int
	Dot    int
	La     int
}

type stateSig struct {
	Items []itemSig
}

// itemSetDigest returns a digest of an item set's content. Two item sets
// have the same digest iff they contain the same items, regardless of
// insertion order. State identity within a CFSM is defined by this digest.
func itemSetDigest(iset *iteratable.Set) string {
	sigs := make([]itemSig, 0, iset.Size())
	for _, x := range iset.Values() {
		i := asItem(x)
		sigs = append(sigs, itemSig{Serial: i.rule.Serial, Dot: i.dot, La: int(i.La.Value)})
	}
	slices.SortFunc(sigs, func(a, b itemSig) bool {
		if a.Serial != b.Serial {
			return a.Serial < b.Serial
		}
		if a.Dot != b.Dot {
			return a.Dot < b.Dot
		}
		return a.La < b.La
	})
	return fmt.Sprintf("%x", structhash.Sha1(stateSig{Items: sigs}, 1))
}

// Add a state to the CFSM. Checks first if the state is present.
func (c *CFSM) addState(iset *iteratable.Set) *CFSMState {
	s := c.findStateByItems(iset)
	if s == nil {
		s = state(c.cfsmIds, iset)
		c.cfsmIds++
		c.states.Add(s)
		c.index[itemSetDigest(iset)] = s
	}
	return s
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	if s, ok := c.index[itemSetDigest(iset)]; ok {
		return s
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// Size returns the number of states of the CFSM.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are discovered breadth-first from the closure of the start item
// ⟨start rule, dot leftmost, #eof⟩ and identified by their item set
// digest: a goto-set leading to known items reuses the known state. State
// IDs count up in order of discovery, the start state has ID 0.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := lrgen.ga.closure(StartItem(G.rules[0], EOF))
	Dump(closure0)
	tracer().Debugf("----------")
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Accept = cfsm.S0.containsCompletedStartRule()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		for _, A := range s.symbolsAtDot() {
			tracer().Debugf("checking goto-set for symbol = %v", A)
			gotoset := lrgen.ga.gotoSetClosure(s.items, A)
			snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				snew = cfsm.addState(gotoset)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				S.Add(snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
		}
		tracer().Debugf("-----------------------------------------------------------------")
	}
	tracer().Debugf("CFSM has %d states", cfsm.states.Size())
	return cfsm
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format, given a filename.
func (c *CFSM) CFSM2GraphViz(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		panic(fmt.Sprintf("file open error: %v", err.Error()))
	}
	defer f.Close()
	f.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, x := range c.states.Values() {
		s := x.(*CFSMState)
		f.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items)))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		f.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n",
			edge.from.ID, edge.to.ID, edge.label))
	}
	f.WriteString("}\n")
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

var dotEscaper = strings.NewReplacer(
	"{", "\\{", "}", "\\}", "<", "\\<", ">", "\\>", "|", "\\|", "\"", "\\\"")

// forGraphviz renders an item set as a Dot record label, one line per item.
func forGraphviz(S *iteratable.Set) string {
	var b bytes.Buffer
	S.IterateOnce()
	for S.Next() {
		b.WriteString(dotEscaper.Replace(asItem(S.Item()).String()))
		b.WriteString("\\l")
	}
	return b.String()
}

// Dump logs all items of an item set to the tracer, one line per item.
func Dump(S *iteratable.Set) {
	n := 1
	S.IterateOnce()
	for S.Next() {
		tracer().Debugf("[%2d] %s", n, asItem(S.Item()))
		n++
	}
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	S.IterateOnce()
	first := true
	for S.Next() {
		item := S.Item().(Item)
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}
