package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/tablr"
	"github.com/npillmayer/tablr/lr/sparse"
	"golang.org/x/exp/slices"
)

// Actions for parser action tables. Reduce actions are encoded as the
// serial number of the rule to reduce, which is 1 or greater: serial 0 is
// the start rule of the augmented grammar, and reducing it means
// accepting the input.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// ConflictPolicy tells a TableGenerator what to do when two parse actions
// compete for the same ACTION table cell.
type ConflictPolicy int8

const (
	// FailOnConflict makes CreateTables fail with an error listing every
	// conflict of the grammar. This is the default policy.
	FailOnConflict ConflictPolicy = iota

	// PreferShift resolves shift/reduce conflicts in favour of the shift
	// and reduce/reduce conflicts in favour of the rule with the lower
	// serial number. Table construction succeeds; the resolutions are
	// recorded and may be inspected with Conflicts().
	PreferShift
)

// TableOption configures a TableGenerator.
type TableOption func(*TableGenerator)

// ResolveConflicts sets the generator's conflict policy.
func ResolveConflicts(policy ConflictPolicy) TableOption {
	return func(lrgen *TableGenerator) {
		lrgen.policy = policy
	}
}

// A Conflict describes an ACTION table cell which two parse actions
// compete for. Competing entries stem from a grammar which is not LR(1).
type Conflict struct {
	State    uint    // CFSM state the conflict occurs in
	Terminal Symbol  // lookahead terminal of the conflicting cell
	IsShift  bool    // true for shift/reduce, false for reduce/reduce
	Rules    []*Rule // competing reduce rules: one for shift/reduce, two otherwise
	Resolved int32   // action kept by a resolution policy
}

func (c Conflict) String() string {
	if c.IsShift {
		return fmt.Sprintf("shift/reduce conflict in state %d on %q: shift vs reduce %d (%v)",
			c.State, c.Terminal.Name, c.Rules[0].Serial, c.Rules[0])
	}
	return fmt.Sprintf("reduce/reduce conflict in state %d on %q: reduce %d (%v) vs reduce %d (%v)",
		c.State, c.Terminal.Name, c.Rules[0].Serial, c.Rules[0], c.Rules[1].Serial, c.Rules[1])
}

// TableGenerator is a generator object to construct LR(1) parser tables.
// Clients usually create a Grammar G, then an LRAnalysis-object for G, and
// then a table generator. TableGenerator.CreateTables() constructs the
// CFSM and parser tables for an LR-parser recognizing grammar G.
//
// The generator augments the grammar with a fresh start rule before any
// construction takes place; all state and table entries refer to the
// augmented grammar, which is available from Grammar().
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	conflicts    []Conflict
	policy       ConflictPolicy
	prepared     bool
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously
// analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...TableOption) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// prepare augments the grammar and re-analyses the augmented version.
// All table construction operates on the augmented grammar.
func (lrgen *TableGenerator) prepare() error {
	if lrgen.prepared {
		return nil
	}
	gPrime, err := lrgen.g.Augment()
	if err != nil {
		return err
	}
	tracer().Debugf("augmented grammar with start rule %v", gPrime.Rule(0))
	lrgen.g = gPrime
	lrgen.ga = Analysis(gPrime)
	lrgen.prepared = true
	return nil
}

// Grammar returns the augmented grammar the parser tables refer to. Table
// entries encode rules by their serial numbers within this grammar, so
// parsers have to be constructed with it, not with the original one.
func (lrgen *TableGenerator) Grammar() *Grammar {
	if err := lrgen.prepare(); err != nil {
		tracer().Errorf("cannot augment grammar: %v", err)
	}
	return lrgen.g
}

// CFSM returns the characteristic finite state machine (CFSM) for a
// grammar. Usually clients call lrgen.CreateTables() beforehand, but it
// is possible to call lrgen.CFSM() directly. The CFSM will be created, if
// it has not been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		if err := lrgen.prepare(); err != nil {
			tracer().Errorf("cannot build CFSM: %v", err)
			return nil
		}
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables
// have to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The
// tables have to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns the ACTION table conflicts found during table
// construction, in order of detection. Under a resolution policy each
// conflict records the action it was resolved to.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// CreateTables creates the necessary data structures for an LR(1) parser:
// the CFSM, the GOTO table and the ACTION table. With the default
// conflict policy, CreateTables fails if the grammar is not LR(1); the
// returned error lists every conflict. The partially filled tables remain
// accessible for diagnosis, but must not be used for parsing.
func (lrgen *TableGenerator) CreateTables() error {
	if err := lrgen.prepare(); err != nil {
		return err
	}
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.HasConflicts = lrgen.BuildLR1ActionTable()
	if lrgen.HasConflicts && lrgen.policy == FailOnConflict {
		msgs := make([]string, len(lrgen.conflicts))
		for i, c := range lrgen.conflicts {
			msgs[i] = c.String()
		}
		return fmt.Errorf("grammar %s is not LR(1): %s", lrgen.g.Name, strings.Join(msgs, "; "))
	}
	return nil
}

// AcceptingStates returns all states of the CFSM from which the parser
// may move on to accepting the input. Clients have to call CreateTables()
// first.
func (lrgen *TableGenerator) AcceptingStates() []uint {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]uint, 0, 3)
	for _, x := range lrgen.dfa.states.Values() {
		state := x.(*CFSMState)
		if state.Accept {
			it := lrgen.dfa.edges.Iterator()
			for it.Next() {
				e := it.Value().(*cfsmEdge)
				if e.to.ID == state.ID {
					acc = append(acc, e.from.ID)
				}
			}
		}
	}
	slices.Sort(acc)
	return slices.Compact(acc)
}

// ===========================================================================

// BuildGotoTable builds the GOTO table. This is normally not called
// directly, but rather via CreateTables(). The table holds the complete
// edge function of the CFSM: successor states for terminals as well as
// for non-terminals.
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	mintok, maxtok := lrgen.g.tokenRange()
	extent := int(maxtok - mintok + 1)
	tracer().Debugf("GOTO table of size %d x (%d-%d=%d)", statescnt, maxtok, mintok, extent)
	gototable := &Table{
		matrix: sparse.NewIntMatrix(statescnt, extent, sparse.DefaultNullValue),
		mincol: mintok,
	}
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label.TokenType(), int32(e.to.ID))
		}
	}
	return gototable
}

// tokenRange finds the minimum and maximum token value over all symbols
// of the grammar, giving the column extent of the parser tables.
func (g *Grammar) tokenRange() (tablr.TokType, tablr.TokType) {
	var maxtok, mintok tablr.TokType
	g.EachSymbol(func(A Symbol) interface{} {
		if A.TokenType() > maxtok {
			maxtok = A.TokenType()
		}
		if A.TokenType() < mintok {
			mintok = A.TokenType()
		}
		return nil
	})
	return mintok, maxtok
}

// BuildLR1ActionTable constructs the LR(1) ACTION table. This method is
// normally not called by clients, but rather via CreateTables().
//
// For building the table we iterate over all the states of the CFSM. An
// inner loop iterates over all the items within a CFSM-state. If an item
// has a terminal immediately after the dot, we produce a shift entry (an
// accept entry for end-of-input). If an item's dot is behind the complete
// RHS of its rule, we produce a reduce-entry for the rule at the item's
// lookahead terminal.
//
// The table is returned as a sparse matrix, where every entry may consist
// of up to 2 values, thus preserving shift/reduce- or reduce/reduce-
// conflicts for diagnosis. Under a resolution policy conflicted cells are
// overwritten with the resolved action instead.
func (lrgen *TableGenerator) BuildLR1ActionTable() (*Table, bool) {
	statescnt := lrgen.dfa.states.Size()
	mintok, maxtok := lrgen.g.tokenRange()
	extent := int(maxtok - mintok + 1)
	tracer().Debugf("ACTION table of size %d x (%d-%d=%d)", statescnt, maxtok, mintok, extent)
	actions := &Table{
		matrix: sparse.NewIntMatrix(statescnt, extent, sparse.DefaultNullValue),
		mincol: mintok,
	}
	hasConflicts := false
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, v := range state.items.Values() {
			i := asItem(v)
			tracer().Debugf("item in s%d = %v", state.ID, i)
			if A, ok := i.PeekSymbol(); ok {
				if !A.IsTerminal() {
					continue // non-terminal transitions live in the GOTO table
				}
				P := pT(A) // shift, or accept on end-of-input
				tracer().Debugf("    creating action entry --%v--> %d", A, P)
				lrgen.addAction(actions, state, A, int32(P), &hasConflicts)
				continue
			}
			// dot is behind the complete RHS: reduce i's rule at lookahead i.La,
			// where reducing the start rule means accepting
			P := int32(i.rule.Serial)
			if i.rule.Serial == 0 && i.La == EOF {
				P = AcceptAction
			}
			tracer().Debugf("    creating reduce_%d action entry @ %v for %v", i.rule.Serial, i.La, i.rule)
			lrgen.addAction(actions, state, i.La, P, &hasConflicts)
		}
	}
	return actions, hasConflicts
}

// addAction enters an action into a table cell, handling conflicts: a
// second, different action for a cell is recorded as a Conflict and
// either kept alongside the first one (FailOnConflict) or resolved
// according to the generator's policy.
func (lrgen *TableGenerator) addAction(actions *Table, state *CFSMState, terminal Symbol,
	P int32, hasConflicts *bool) {
	//
	a1 := actions.Value(state.ID, terminal.TokenType())
	if a1 == actions.NullValue() {
		actions.add(state.ID, terminal.TokenType(), P)
		tracer().Debugf("    %s", actionEntry(state.ID, terminal.TokenType(), actions))
		return
	}
	if a1 == P {
		tracer().Debugf("    relax, double %s", valstring(P, actions))
		return
	}
	*hasConflicts = true
	conflict := lrgen.newConflict(state.ID, terminal, a1, P)
	if lrgen.policy == PreferShift {
		conflict.Resolved = resolveToShift(a1, P)
		actions.set(state.ID, terminal.TokenType(), conflict.Resolved)
		tracer().Infof("%v, resolved to %s", conflict, valstring(conflict.Resolved, actions))
	} else {
		actions.add(state.ID, terminal.TokenType(), P) // keep the pair for diagnosis
		tracer().Errorf("%v", conflict)
	}
	lrgen.conflicts = append(lrgen.conflicts, conflict)
}

func (lrgen *TableGenerator) newConflict(stateID uint, terminal Symbol, a1, a2 int32) Conflict {
	c := Conflict{
		State:    stateID,
		Terminal: terminal,
		IsShift:  a1 < 0 || a2 < 0, // shift and accept entries are negative
		Resolved: sparse.DefaultNullValue,
	}
	for _, a := range []int32{a1, a2} {
		if a >= 0 {
			c.Rules = append(c.Rules, lrgen.g.Rule(int(a)))
		}
	}
	return c
}

// resolveToShift prefers the shift (or accept) entry of a conflicted pair
// and the lower serial for a reduce/reduce pair.
func resolveToShift(a1, a2 int32) int32 {
	if a1 < 0 {
		return a1
	}
	if a2 < 0 {
		return a2
	}
	if a1 < a2 {
		return a1
	}
	return a2
}

// pT is the shift entry for a terminal: shifting end-of-input means
// accepting the input.
func pT(terminal Symbol) int {
	if terminal.TokenType() == EOFType {
		return AcceptAction
	}
	return ShiftAction
}

// === Parser Tables =========================================================

// Table is a parser table, i.e. a sparse matrix of action or state
// entries, indexed by CFSM state ID and token value.
type Table struct {
	matrix *sparse.IntMatrix
	mincol tablr.TokType // lowest token value => column offset for access
}

func (t *Table) add(i uint, tt tablr.TokType, val int32) {
	j := int(tt - t.mincol)
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.add() with index < 0: %d", j))
	}
	t.matrix.Add(int(i), j, val)
}

func (t *Table) set(i uint, tt tablr.TokType, val int32) {
	j := int(tt - t.mincol)
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.set() with index < 0: %d", j))
	}
	t.matrix.Set(int(i), j, val)
}

// NullValue is the value of unoccupied table cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the entry at (state, token value). For cells holding two
// entries (conflicts preserved by FailOnConflict) it returns the first
// one.
func (t *Table) Value(i uint, tt tablr.TokType) int32 {
	j := int(tt - t.mincol)
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.Value() with index < 0: %d", j))
	}
	return t.matrix.Value(int(i), j)
}

// Values returns both entries at (state, token value). The second one is
// NullValue() except for cells with a preserved conflict.
func (t *Table) Values(i uint, tt tablr.TokType) (int32, int32) {
	j := int(tt - t.mincol)
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.Values() with index < 0: %d", j))
	}
	return t.matrix.Values(int(i), j)
}

// === Table Export ==========================================================

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the LR(1) ACTION-table in HTML-format.
// Conflicted cells kept by the FailOnConflict policy show both entries,
// separated by a slash.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) {
	var symvec = make([]Symbol, 0, 16)
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("%s table of size = %d<p>", tname, table.matrix.ValueCount()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	lrgen.g.EachSymbol(func(A Symbol) interface{} {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", A))
		symvec = append(symvec, A)
		return nil
	})
	io.WriteString(w, "</tr>\n")
	states := lrgen.dfa.states.Iterator()
	var td string // table cell
	for states.Next() {
		state := states.Value().(*CFSMState)
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range symvec {
			v1, v2 := table.Values(state.ID, A.TokenType())
			if v1 == table.NullValue() {
				td = "&nbsp;"
			} else if v2 == table.NullValue() {
				td = fmt.Sprintf("%d", v1)
			} else {
				td = fmt.Sprintf("%d/%d", v1, v2)
			}
			io.WriteString(w, "<td>")
			io.WriteString(w, td)
			io.WriteString(w, "</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

// ----------------------------------------------------------------------

func actionEntry(stateID uint, la tablr.TokType, aT *Table) string {
	a1, a2 := aT.Values(stateID, la)
	return fmt.Sprintf("Action(%s,%s)", valstring(a1, aT), valstring(a2, aT))
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == AcceptAction {
		return "<accept>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
