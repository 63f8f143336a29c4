package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func buildSimpleGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").N("B").End()
	b.LHS("A").T("a", 'a').End()
	b.LHS("B").T("b", 'b').End()
	b.LHS("B").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildSimpleGrammar(t)
	if g.Size() != 4 {
		t.Errorf("Expected grammar G to have 4 rules, has %d", g.Size())
	}
	if g.Start().Name != "S" {
		t.Errorf("Expected start symbol to be S, is %q", g.Start().Name)
	}
	if sym, ok := g.Terminal('a'); !ok || sym.Name != "a" {
		t.Errorf("Expected terminal a to be registered for token value %d", 'a')
	}
	if sym, ok := g.SymbolByName("B"); !ok || sym.IsTerminal() {
		t.Errorf("Expected B to be a known non-terminal")
	}
	r := g.Rule(3)
	if r == nil || !r.IsEpsilon() || r.Len() != 0 {
		t.Errorf("Expected rule 3 to be the epsilon-rule for B, is %v", r)
	}
}

func TestGrammarRuleSerials(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildSimpleGrammar(t)
	for i := 0; i < g.Size(); i++ {
		if g.Rule(i).Serial != i {
			t.Errorf("Expected rule #%d to carry serial %d, has %d", i, i, g.Rule(i).Serial)
		}
	}
	if g.Rule(g.Size()) != nil {
		t.Errorf("Expected out-of-range rule number to yield nil")
	}
}

func TestGrammarBuilderDedup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").T("a", 'a').End()
	b.LHS("S").T("a", 'a').End() // identical derivation, must be dropped
	b.LHS("S").T("b", 'b').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 2 {
		t.Errorf("Expected duplicate rule to be dropped, grammar has %d rules", g.Size())
	}
}

func TestGrammarBuilderSymbolClash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").T("x", 'x').End()
	b.LHS("x").T("y", 'y').End() // x is already a terminal
	_, err := b.Grammar()
	if err == nil {
		t.Errorf("Expected builder to reject image x as both terminal and non-terminal")
	}
}

func TestGrammarBuilderValueClash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").T("x", 7).T("y", 7).End()
	_, err := b.Grammar()
	if err == nil {
		t.Errorf("Expected builder to reject terminals sharing a token value")
	}
	b = NewGrammarBuilder("G")
	b.LHS("S").T("x", 7).End()
	b.LHS("A").T("x", 8).End()
	_, err = b.Grammar()
	if err == nil {
		t.Errorf("Expected builder to reject re-declaration of x with a different value")
	}
}

func TestGrammarBuilderReservedValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	for _, tokval := range []int{0, -1, -2000} {
		b := NewGrammarBuilder("G")
		b.LHS("S").T("x", tokval).End()
		if _, err := b.Grammar(); err == nil {
			t.Errorf("Expected builder to reject reserved token value %d", tokval)
		}
	}
	b := NewGrammarBuilder("G")
	b.LHS("S").T("#eof", 99).End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("Expected builder to reject reserved image #eof")
	}
}

func TestGrammarBuilderEmptyRHS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").End() // empty RHS without Epsilon() is an error
	if _, err := b.Grammar(); err == nil {
		t.Errorf("Expected builder to reject an empty RHS")
	}
}

func TestGrammarAugment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildSimpleGrammar(t)
	gPrime, err := g.Augment()
	if err != nil {
		t.Fatal(err)
	}
	if gPrime.Size() != g.Size()+1 {
		t.Errorf("Expected augmented grammar to have %d rules, has %d", g.Size()+1, gPrime.Size())
	}
	if gPrime.Start().Name != "S'" {
		t.Errorf("Expected fresh start symbol S', is %q", gPrime.Start().Name)
	}
	r := gPrime.Rule(0)
	if r.LHS != gPrime.Start() || r.Len() != 1 || r.RHS()[0].Name != "S" {
		t.Errorf("Expected rule 0 to be [S'] ::= [S], is %v", r)
	}
	if g.Start().Name != "S" || g.Size() != 4 {
		t.Errorf("Expected the original grammar to be left untouched")
	}
}

func TestGrammarDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildSimpleGrammar(t)
	if s := g.Rule(3).String(); s != "[B] ::= [#eps]" {
		t.Errorf("Expected epsilon-rule to render as [B] ::= [#eps], is %q", s)
	}
	if s := g.Rule(0).String(); !strings.Contains(s, "[A B]") {
		t.Errorf("Expected rule 0 to render its RHS as [A B], is %q", s)
	}
	g.Dump() // must not panic
}

func TestGrammarSymbolIteration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := buildSimpleGrammar(t)
	names := g.EachTerminal(func(name string, T Symbol) interface{} {
		return name
	})
	if len(names) != 2 { // sentinels are not listed
		t.Fatalf("Expected 2 terminals, have %d", len(names))
	}
	if names[0].(string) != "a" || names[1].(string) != "b" {
		t.Errorf("Expected terminals in image order a, b, have %v", names)
	}
	nts := g.EachNonTerminal(func(name string, N Symbol) interface{} {
		return name
	})
	if len(nts) != 3 {
		t.Fatalf("Expected 3 non-terminals, have %d", len(nts))
	}
}
