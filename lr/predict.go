package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/tablr"
	"github.com/npillmayer/tablr/lr/sparse"
)

// PredictiveTable is an LL(1) parser table: it maps a pair of
// (non-terminal on the parse stack, current input token) to the rule to
// expand the non-terminal by. Cells hold rule serial numbers; empty cells
// mean a syntax error.
//
// A predictive table refers to the grammar it was built from, which is
// the original, un-augmented one: top-down parsing starts at the
// grammar's start symbol directly.
type PredictiveTable struct {
	g      *Grammar
	matrix *sparse.IntMatrix
	mincol tablr.TokType
}

// BuildPredictiveTable constructs an LL(1) parser table from a grammar
// analysis. A rule N ::= α occupies the cells (N, t) for every terminal
// t in FIRST(α); if α may derive epsilon, it additionally occupies the
// cells (N, t) for every t in FOLLOW(N), including end-of-input.
//
// Construction fails if the grammar is not LL(1): directly left-recursive
// grammars are rejected up front (see EliminateLeftRecursion), and two
// rules competing for the same cell make the table ambiguous. The
// returned error lists every ambiguous cell with both competing rules; no
// table is returned in that case.
func BuildPredictiveTable(ga *LRAnalysis) (*PredictiveTable, error) {
	g := ga.Grammar()
	if recs := g.leftRecursiveNTs(); len(recs) > 0 {
		return nil, fmt.Errorf(
			"grammar %s is left-recursive on %s: eliminate left recursion before building an LL(1) table",
			g.Name, symbolListString(recs))
	}
	mintok, maxtok := g.tokenRange()
	extent := int(maxtok - mintok + 1)
	rowcnt := len(g.nonterminals)
	tracer().Debugf("LL(1) table of size %d x (%d-%d=%d)", rowcnt, maxtok, mintok, extent)
	pt := &PredictiveTable{
		g:      g,
		matrix: sparse.NewIntMatrix(rowcnt, extent, sparse.DefaultNullValue),
		mincol: mintok,
	}
	var ambiguities []string
	for _, r := range g.rules {
		fs := ga.seqFirst(r.RHS())
		hasEps := fs.Has(int(EpsilonType))
		fs.Remove(int(EpsilonType))
		for _, t := range fs.AppendTo(nil) {
			pt.enter(r, tablr.TokType(t), &ambiguities)
		}
		if hasEps {
			for _, t := range ga.Follow(r.LHS).AppendTo(nil) {
				pt.enter(r, tablr.TokType(t), &ambiguities)
			}
		}
	}
	if len(ambiguities) > 0 {
		return nil, fmt.Errorf("grammar %s is not LL(1): %s", g.Name, strings.Join(ambiguities, "; "))
	}
	return pt, nil
}

// enter puts a rule into the cell (LHS, tokval). A cell already occupied
// by a different rule is an ambiguity; the first entry is kept and the
// clash is recorded.
func (pt *PredictiveTable) enter(r *Rule, tokval tablr.TokType, ambiguities *[]string) {
	row, ok := pt.g.nonTermRow(r.LHS)
	if !ok {
		return // cannot happen: every rule's LHS is a non-terminal of g
	}
	terminal, _ := pt.g.Terminal(tokval)
	j := int(tokval - pt.mincol)
	if prev := pt.matrix.Value(row, j); prev != pt.matrix.NullValue() {
		if int(prev) == r.Serial {
			return // same rule via FIRST and FOLLOW, nothing to record
		}
		other := pt.g.Rule(int(prev))
		*ambiguities = append(*ambiguities, fmt.Sprintf(
			"conflicting entries at (%s, %q): rule %d (%v) vs rule %d (%v)",
			r.LHS.Name, terminal.Name, other.Serial, other, r.Serial, r))
		return
	}
	tracer().Debugf("    LL(1) entry (%s, %q) = rule %d", r.LHS.Name, terminal.Name, r.Serial)
	pt.matrix.Set(row, j, int32(r.Serial))
}

// Grammar returns the grammar this table was built from.
func (pt *PredictiveTable) Grammar() *Grammar {
	return pt.g
}

// Rule returns the rule to expand non-terminal N by when the current
// input token is tokval. The second return value is false for empty
// cells, i.e. syntax errors.
func (pt *PredictiveTable) Rule(N Symbol, tokval tablr.TokType) (*Rule, bool) {
	row, ok := pt.g.nonTermRow(N)
	if !ok {
		return nil, false
	}
	j := int(tokval - pt.mincol)
	if j < 0 || j >= pt.matrix.N() {
		return nil, false
	}
	v := pt.matrix.Value(row, j)
	if v == pt.matrix.NullValue() {
		return nil, false
	}
	return pt.g.Rule(int(v)), true
}

// PredictiveTableAsHTML exports an LL(1) parser table in HTML-format,
// with one row per non-terminal and one column per terminal.
func PredictiveTableAsHTML(pt *PredictiveTable, w io.Writer) {
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("LL(1) table of size = %d<p>", pt.matrix.ValueCount()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	terminals := make([]Symbol, 0, 16)
	pt.g.EachTerminal(func(name string, T Symbol) interface{} {
		terminals = append(terminals, T)
		return nil
	})
	terminals = append(terminals, EOF)
	for _, T := range terminals {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", T))
	}
	io.WriteString(w, "</tr>\n")
	pt.g.EachNonTerminal(func(name string, N Symbol) interface{} {
		io.WriteString(w, fmt.Sprintf("<tr><td>%s</td>\n", name))
		for _, T := range terminals {
			if r, ok := pt.Rule(N, T.TokenType()); ok {
				io.WriteString(w, fmt.Sprintf("<td>%d</td>\n", r.Serial))
			} else {
				io.WriteString(w, "<td>&nbsp;</td>\n")
			}
		}
		io.WriteString(w, "</tr>\n")
		return nil
	})
	io.WriteString(w, "</table></body></html>\n")
}

func symbolListString(syms []Symbol) string {
	return strings.Join(symbolImages(syms), ", ")
}
