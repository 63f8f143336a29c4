package lr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// The derived LR(1) collection for this grammar is the worked example in the
// Dragon Book, section 4.7.2: it has exactly 10 states.
func buildDragonGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Dragon")
	b.LHS("S").N("C").N("C").End()
	b.LHS("C").T("c", 'c').N("C").End()
	b.LHS("C").T("d", 'd').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestClosureOfStartItem(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildDragonGrammar(t)
	gPrime, err := g.Augment()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(gPrime)
	closure0 := ga.closure(StartItem(gPrime.Rule(0), EOF))
	Dump(closure0)
	// S' ::= ●S, #eof
	// S  ::= ●C C, #eof
	// C  ::= ●c C, c|d     C ::= ●d, c|d
	if closure0.Size() != 6 {
		t.Errorf("Expected closure of the start item to contain 6 items, has %d", closure0.Size())
	}
	if !closure0.Contains(StartItem(gPrime.Rule(0), EOF)) {
		t.Errorf("Expected the start item to be a member of its own closure")
	}
}

func TestGotoSetClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildDragonGrammar(t)
	gPrime, err := g.Augment()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(gPrime)
	closure0 := ga.closure(StartItem(gPrime.Rule(0), EOF))
	c, _ := gPrime.Terminal('c')
	gset := ga.gotoSetClosure(closure0, c)
	// C ::= c●C, c|d   plus the closure items C ::= ●c C, c|d and C ::= ●d, c|d
	if gset.Size() != 6 {
		t.Errorf("Expected goto-set on c to contain 6 items, has %d", gset.Size())
	}
	S, _ := gPrime.SymbolByName("S")
	gset = ga.gotoSetClosure(closure0, S)
	// S' ::= S●, #eof
	if gset.Size() != 1 {
		t.Errorf("Expected goto-set on S to contain 1 item, has %d", gset.Size())
	}
}

func TestBuildCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(Analysis(buildDragonGrammar(t)))
	cfsm := lrgen.CFSM()
	if cfsm == nil {
		t.Fatal("Expected table generator to construct a CFSM")
	}
	if cfsm.Size() != 10 {
		t.Errorf("Expected CFSM to have 10 states, has %d", cfsm.Size())
	}
	if cfsm.S0 == nil || cfsm.S0.ID != 0 {
		t.Errorf("Expected start state to carry ID 0")
	}
	accepting := 0
	for _, x := range cfsm.states.Values() {
		if x.(*CFSMState).Accept {
			accepting++
		}
	}
	if accepting != 1 {
		t.Errorf("Expected exactly 1 accepting state, have %d", accepting)
	}
}

func TestCFSMEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(Analysis(buildDragonGrammar(t)))
	cfsm := lrgen.CFSM()
	edges := cfsm.allEdges(cfsm.S0)
	// S0 moves on S, C, c and d
	if len(edges) != 4 {
		t.Fatalf("Expected 4 edges out of the start state, have %d", len(edges))
	}
	labels := map[string]bool{}
	for _, e := range edges {
		labels[e.label.Name] = true
	}
	for _, name := range []string{"S", "C", "c", "d"} {
		if !labels[name] {
			t.Errorf("Expected an edge out of the start state on %s", name)
		}
	}
}

func TestCFSMDeduplication(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildDragonGrammar(t)
	cfsm1 := NewTableGenerator(Analysis(g)).CFSM()
	cfsm2 := NewTableGenerator(Analysis(g)).CFSM()
	if cfsm1.Size() != cfsm2.Size() {
		t.Fatalf("Expected identical state counts on re-construction, %d vs %d",
			cfsm1.Size(), cfsm2.Size())
	}
	// identical states have to receive identical IDs on every construction
	for digest, s1 := range cfsm1.index {
		s2, ok := cfsm2.index[digest]
		if !ok {
			t.Errorf("Expected state %d to be re-discovered, digest missing", s1.ID)
			continue
		}
		if s1.ID != s2.ID {
			t.Errorf("Expected state with digest %.8s… to get ID %d again, got %d",
				digest, s1.ID, s2.ID)
		}
	}
}

func TestItemAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildDragonGrammar(t)
	r := g.Rule(0) // S ::= C C
	i := StartItem(r, EOF)
	sym, ok := i.PeekSymbol()
	if !ok || sym.Name != "C" {
		t.Errorf("Expected C after the dot, have %v", sym)
	}
	i = i.Advance()
	if len(i.Prefix()) != 1 || len(i.Beta()) != 0 {
		t.Errorf("Expected dot after the first C, item is %v", i)
	}
	i = i.Advance()
	if !i.Completed() {
		t.Errorf("Expected item to be completed, is %v", i)
	}
	if ii := i.Advance(); ii != i {
		t.Errorf("Expected advancing a completed item to be a no-op")
	}
}
