package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestEliminateLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("T").N("T").T("*", '*').N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("n", 'n').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	gPrime, err := g.EliminateLeftRecursion()
	if err != nil {
		t.Fatal(err)
	}
	rules := []string{
		"[T'] ::= [* F T']",
		"[T] ::= [F T']",
		"[F] ::= [n]",
		"[T'] ::= [#eps]",
	}
	if gPrime.Size() != len(rules) {
		t.Fatalf("Expected rewritten grammar to have %d rules, has %d", len(rules), gPrime.Size())
	}
	for i, rs := range rules {
		if s := gPrime.Rule(i).String(); s != rs {
			t.Errorf("Expected rule %d to be %q, is %q", i, rs, s)
		}
	}
	if sym, ok := gPrime.SymbolByName("T'"); !ok || sym.IsTerminal() {
		t.Errorf("Expected fresh non-terminal T' in the rewritten grammar")
	}
	if gPrime.Start().Name != "T" {
		t.Errorf("Expected start symbol to stay T, is %q", gPrime.Start().Name)
	}
	for i := 0; i < gPrime.Size(); i++ {
		if gPrime.Rule(i).isLeftRecursive() {
			t.Errorf("Expected no left-recursive rule to remain, rule %d is", i)
		}
	}
	// the original grammar is left untouched
	if g.Size() != 3 {
		t.Errorf("Expected the original grammar to keep its 3 rules, has %d", g.Size())
	}
}

func TestEliminateLeftRecursionNoop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildSimpleGrammar(t)
	gPrime, err := g.EliminateLeftRecursion()
	if err != nil {
		t.Fatal(err)
	}
	if gPrime != g {
		t.Errorf("Expected elimination on a non-recursive grammar to be a no-op")
	}
}

func TestEliminateLeftRecursionCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("S").End()
	b.LHS("S").T("a", 'a').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.EliminateLeftRecursion(); err == nil {
		t.Errorf("Expected elimination to reject the cycle S ::= S")
	} else if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Expected a cycle error, got: %v", err)
	}
}

func TestEliminateLeftRecursionFreshNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("T").N("T").T("*", '*').N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("T").N("T'").End() // image T' is already taken
	b.LHS("T'").T("x", 'x').End()
	b.LHS("F").T("n", 'n').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	gPrime, err := g.EliminateLeftRecursion()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gPrime.SymbolByName("T''"); !ok {
		t.Errorf("Expected the fresh non-terminal to be minted as T''")
	}
	found := false
	for i := 0; i < gPrime.Size(); i++ {
		if gPrime.Rule(i).String() == "[T''] ::= [#eps]" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an epsilon-rule for the minted non-terminal T''")
	}
}

func TestLeftRecursiveDetection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildExprGrammar(t)
	recs := g.leftRecursiveNTs()
	if len(recs) != 2 {
		t.Fatalf("Expected 2 left-recursive non-terminals, have %d", len(recs))
	}
	if recs[0].Name != "E" || recs[1].Name != "T" {
		t.Errorf("Expected left-recursive non-terminals E, T in rule order, have %v", recs)
	}
}

func TestEliminateLeftRecursionExpr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildExprGrammar(t)
	gPrime, err := g.EliminateLeftRecursion()
	if err != nil {
		t.Fatal(err)
	}
	if gPrime.Size() != 8 {
		t.Errorf("Expected 8 rules after elimination, has %d", gPrime.Size())
	}
	for i := 0; i < gPrime.Size(); i++ {
		if gPrime.Rule(i).isLeftRecursive() {
			t.Errorf("Expected no left-recursive rule to remain, rule %d is", i)
		}
	}
	// rewriting must keep the nullable tails apart: E' and T' both vanish
	ga := Analysis(gPrime)
	for _, name := range []string{"E'", "T'"} {
		sym, ok := gPrime.SymbolByName(name)
		if !ok {
			t.Fatalf("Expected minted non-terminal %q", name)
		}
		if !ga.DerivesEpsilon(sym) {
			t.Errorf("Expected %s to derive epsilon", name)
		}
	}
}
