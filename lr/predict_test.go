package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tablr"
)

// exprLLGrammar returns the expression grammar in LL(1) form, i.e. with
// left recursion rewritten to the helpers E' and T'.
func exprLLGrammar(t *testing.T) *Grammar {
	gPrime, err := buildExprGrammar(t).EliminateLeftRecursion()
	if err != nil {
		t.Fatal(err)
	}
	return gPrime
}

func TestBuildPredictiveTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := exprLLGrammar(t)
	pt, err := BuildPredictiveTable(Analysis(g))
	if err != nil {
		t.Fatal(err)
	}
	cells := []struct {
		nt     string
		tokval tablr.TokType
		serial int
	}{
		{"E", '(', 1}, // E  ::= T E'
		{"E", 'n', 1},
		{"E'", '+', 0}, // E' ::= + T E'
		{"E'", ')', 6}, // E' ::= #eps, via FOLLOW(E')
		{"E'", EOFType, 6},
		{"T", '(', 3}, // T  ::= F T'
		{"T", 'n', 3},
		{"T'", '*', 2}, // T' ::= * F T'
		{"T'", '+', 7}, // T' ::= #eps, via FOLLOW(T')
		{"T'", ')', 7},
		{"T'", EOFType, 7},
		{"F", '(', 4}, // F  ::= ( E )
		{"F", 'n', 5}, // F  ::= n
	}
	for _, cell := range cells {
		r, ok := pt.Rule(symFor(t, g, cell.nt), cell.tokval)
		if !ok {
			t.Errorf("Expected a table entry at (%s, %d)", cell.nt, cell.tokval)
		} else if r.Serial != cell.serial {
			t.Errorf("Expected (%s, %d) to hold rule %d, has rule %d",
				cell.nt, cell.tokval, cell.serial, r.Serial)
		}
	}
	empty := []struct {
		nt     string
		tokval tablr.TokType
	}{
		{"E", '+'},
		{"E", EOFType},
		{"F", '*'},
	}
	for _, cell := range empty {
		if _, ok := pt.Rule(symFor(t, g, cell.nt), cell.tokval); ok {
			t.Errorf("Expected no table entry at (%s, %d)", cell.nt, cell.tokval)
		}
	}
}

func TestBuildPredictiveTableRejectsLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	pt, err := BuildPredictiveTable(Analysis(buildExprGrammar(t)))
	if err == nil {
		t.Fatal("Expected table construction to fail for a left-recursive grammar")
	}
	if !strings.Contains(err.Error(), "left-recursive on E, T") {
		t.Errorf("Expected the error to name the recursive non-terminals, got: %v", err)
	}
	if pt != nil {
		t.Errorf("Expected no table to be returned")
	}
}

func TestBuildPredictiveTableAmbiguous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").T("a", 'a').N("B").End()
	b.LHS("S").T("a", 'a').N("C").End()
	b.LHS("B").T("b", 'b').End()
	b.LHS("C").T("c", 'c').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	pt, err := BuildPredictiveTable(Analysis(g))
	if err == nil {
		t.Fatal("Expected table construction to fail for an ambiguous grammar")
	}
	if !strings.Contains(err.Error(), "not LL(1)") {
		t.Errorf("Expected error to state the grammar is not LL(1), got: %v", err)
	}
	if !strings.Contains(err.Error(), `(S, "a")`) {
		t.Errorf("Expected the error to name the ambiguous cell, got: %v", err)
	}
	if !strings.Contains(err.Error(), "rule 0") || !strings.Contains(err.Error(), "rule 1") {
		t.Errorf("Expected the error to name both competing rules, got: %v", err)
	}
	if pt != nil {
		t.Errorf("Expected no table to be returned")
	}
}

func TestBuildPredictiveTableFollowClash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a", 'a').End()
	b.LHS("A").T("a", 'a').End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	// FIRST(A) and FOLLOW(A) overlap on a, so the epsilon-rule clashes
	_, err = BuildPredictiveTable(Analysis(g))
	if err == nil {
		t.Fatal("Expected table construction to fail")
	}
	if !strings.Contains(err.Error(), `(A, "a")`) {
		t.Errorf("Expected the error to name the ambiguous cell, got: %v", err)
	}
}

func TestPredictiveTableRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	g := exprLLGrammar(t)
	pt, err := BuildPredictiveTable(Analysis(g))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pt.Rule(symFor(t, g, "n"), 'n'); ok {
		t.Errorf("Expected no entry for a terminal row")
	}
	if _, ok := pt.Rule(symFor(t, g, "E"), 9999); ok {
		t.Errorf("Expected no entry for an out-of-range token value")
	}
	if pt.Grammar() != g {
		t.Errorf("Expected the table to refer to the grammar it was built from")
	}
}
