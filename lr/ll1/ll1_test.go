package ll1

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tablr/lr"
	"github.com/npillmayer/tablr/lr/scanner"
)

// The left-recursive expression grammar; clients have to eliminate the
// left recursion before building a predictive table for it.
// Terminal "n" is scanned as an identifier by the Go tokenizer.
func buildExprTable(t *testing.T) *lr.PredictiveTable {
	b := lr.NewGrammarBuilder("Expr")
	b.LHS("E").N("E").T("+", '+').N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").T("*", '*').N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("(", '(').N("E").T(")", ')').End()
	b.LHS("F").T("n", scanner.Ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	g, err = g.EliminateLeftRecursion()
	if err != nil {
		t.Fatal(err)
	}
	pt, err := lr.BuildPredictiveTable(lr.Analysis(g))
	if err != nil {
		t.Fatal(err)
	}
	return pt
}

func TestPredictiveParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	p := NewParser(buildExprTable(t))
	scan := scanner.GoTokenizer("test input", strings.NewReader("n + n * n"))
	accepted, err := p.Parse(scan)
	if err != nil {
		t.Fatal(err)
	}
	if !accepted {
		t.Errorf("Expected parser to accept n + n * n")
	}
	// Rule serials in the rewritten grammar:
	//   0: E' ::= + T E'   1: E ::= T E'    2: T' ::= * F T'
	//   3: T  ::= F T'     4: F ::= (E)     5: F ::= n
	//   6: E' ::= #eps     7: T' ::= #eps
	leftmost := []int{1, 3, 5, 7, 0, 3, 5, 2, 5, 7, 6}
	derivation := p.Derivation()
	if len(derivation) != len(leftmost) {
		t.Fatalf("Expected a derivation of %d steps, have %d", len(leftmost), len(derivation))
	}
	for i, rule := range derivation {
		if rule.Serial != leftmost[i] {
			t.Errorf("Expected derivation step #%d to be rule %d, is %d", i, leftmost[i], rule.Serial)
		}
	}
}

func TestPredictiveParseErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	p := NewParser(buildExprTable(t))
	scan := scanner.GoTokenizer("test input", strings.NewReader("n n"))
	accepted, err := p.Parse(scan)
	if accepted {
		t.Errorf("Expected parser to reject n n")
	}
	if err == nil {
		t.Fatalf("Expected a syntax error, got none")
	}
	if cnt := len(p.SyntaxErrors()); cnt != 3 {
		t.Errorf("Expected parser to report 3 errors while reading on, has %d", cnt)
		for _, e := range p.SyntaxErrors() {
			t.Logf("error: %v", e)
		}
	}
}

func TestPredictiveParseFailFast(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	p := NewParser(buildExprTable(t), FailFast(true))
	scan := scanner.GoTokenizer("test input", strings.NewReader("n n"))
	accepted, err := p.Parse(scan)
	if accepted || err == nil {
		t.Fatalf("Expected parser to stop with an error, accept=%v, err=%v", accepted, err)
	}
	if cnt := len(p.SyntaxErrors()); cnt != 1 {
		t.Errorf("Expected fail-fast parser to stop at the first error, has %d", cnt)
	}
}

func TestPredictiveParseErrorPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	p := NewParser(buildExprTable(t))
	scan := scanner.GoTokenizer("test input", strings.NewReader("+ n"))
	accepted, err := p.Parse(scan)
	if accepted {
		t.Errorf("Expected parser to reject input starting with +")
	}
	if err == nil {
		t.Fatalf("Expected a syntax error, got none")
	}
	if !strings.Contains(err.Error(), "(0…") {
		t.Errorf("Expected error to point at input position 0, got: %v", err)
	}
}

func TestPredictiveParseReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tablr.lr")
	defer teardown()
	//
	p := NewParser(buildExprTable(t))
	scan := scanner.GoTokenizer("test input", strings.NewReader("n * n"))
	if accepted, err := p.Parse(scan); !accepted || err != nil {
		t.Fatalf("Expected parser to accept n * n, accept=%v, err=%v", accepted, err)
	}
	first := len(p.Derivation())
	scan = scanner.GoTokenizer("test input", strings.NewReader("n"))
	if accepted, err := p.Parse(scan); !accepted || err != nil {
		t.Fatalf("Expected parser to accept n, accept=%v, err=%v", accepted, err)
	}
	if second := len(p.Derivation()); second >= first {
		t.Errorf("Expected a shorter derivation for the shorter input, %d vs %d", second, first)
	}
	if cnt := len(p.SyntaxErrors()); cnt != 0 {
		t.Errorf("Expected no syntax errors after accepted parse, has %d", cnt)
	}
}
