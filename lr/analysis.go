package lr

import (
	"golang.org/x/tools/container/intsets"
)

// LRAnalysis is an object for static grammar analysis. It computes FIRST
// and FOLLOW sets for all symbols of a grammar and answers queries about
// epsilon-derivability. Parser table construction for both LR and LL
// builds on an analysis object.
//
// FIRST and FOLLOW sets contain token values. Epsilon-membership is
// encoded as token value 0 (EpsilonType), end-of-input as -1 (EOFType).
type LRAnalysis struct {
	g      *Grammar
	first  map[Symbol]*intsets.Sparse
	follow map[Symbol]*intsets.Sparse
}

// Analysis creates an analyser for a given grammar and computes FIRST and
// FOLLOW sets for it. The analysis is done once; the resulting object is
// read-only afterwards and may be shared.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:      g,
		first:  make(map[Symbol]*intsets.Sparse),
		follow: make(map[Symbol]*intsets.Sparse),
	}
	ga.analyse()
	return ga
}

// Grammar returns the grammar this analysis is about.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// First returns FIRST(sym) for a symbol of the grammar. For a terminal t
// this is {t}. The returned set is the live set of the analyser: callers
// must not modify it.
func (ga *LRAnalysis) First(sym Symbol) *intsets.Sparse {
	if s, ok := ga.first[sym]; ok {
		return s
	}
	return &intsets.Sparse{}
}

// Follow returns FOLLOW(N) for a non-terminal of the grammar. The
// returned set is the live set of the analyser: callers must not modify
// it.
func (ga *LRAnalysis) Follow(sym Symbol) *intsets.Sparse {
	if s, ok := ga.follow[sym]; ok {
		return s
	}
	return &intsets.Sparse{}
}

// DerivesEpsilon returns true if a symbol may derive the empty string.
func (ga *LRAnalysis) DerivesEpsilon(sym Symbol) bool {
	return ga.First(sym).Has(int(EpsilonType))
}

func (ga *LRAnalysis) analyse() {
	ga.initFirstSets()
	ga.computeFirstSets()
	ga.computeFollowSets()
	ga.g.EachNonTerminal(func(name string, N Symbol) interface{} {
		tracer().Debugf("FIRST(%s) = %v", name, ga.First(N).AppendTo(nil))
		return nil
	})
	ga.g.EachNonTerminal(func(name string, N Symbol) interface{} {
		tracer().Debugf("FOLLOW(%s) = %v", name, ga.Follow(N).AppendTo(nil))
		return nil
	})
}

// initFirstSets seeds FIRST(t) = {t} for every terminal, including the
// sentinels, and FIRST(N) ∋ epsilon for every epsilon-rule N ::= #eps.
func (ga *LRAnalysis) initFirstSets() {
	for _, t := range ga.g.terminals {
		s := &intsets.Sparse{}
		s.Insert(int(t.Value))
		ga.first[t] = s
	}
	for _, nt := range ga.g.nonterminals {
		ga.first[nt] = &intsets.Sparse{}
	}
	for _, r := range ga.g.rules {
		if r.IsEpsilon() {
			ga.first[r.LHS].Insert(int(EpsilonType))
		}
	}
}

// computeFirstSets iterates over all rules of the grammar, merging
// FIRST(RHS) into FIRST(LHS), until no set changes any more. FIRST sets
// only ever grow, so the iteration terminates.
func (ga *LRAnalysis) computeFirstSets() {
	for {
		changed := false
		for _, r := range ga.g.rules {
			fs := ga.seqFirst(r.rhs)
			if ga.first[r.LHS].UnionWith(fs) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// computeFollowSets runs after the FIRST sets are stable. It seeds
// FOLLOW(start) with end-of-input and then iterates over all rule
// positions until no FOLLOW set changes any more.
func (ga *LRAnalysis) computeFollowSets() {
	for _, nt := range ga.g.nonterminals {
		ga.follow[nt] = &intsets.Sparse{}
	}
	ga.follow[ga.g.start].Insert(int(EOFType))
	for {
		changed := false
		for _, r := range ga.g.rules {
			for i, sym := range r.rhs {
				if sym.IsTerminal() {
					continue
				}
				restFirst := ga.seqFirst(r.rhs[i+1:])
				vanishes := restFirst.Has(int(EpsilonType)) || i == len(r.rhs)-1
				restFirst.Remove(int(EpsilonType))
				if ga.follow[sym].UnionWith(restFirst) {
					changed = true
				}
				if vanishes && ga.follow[sym].UnionWith(ga.follow[r.LHS]) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// seqFirst computes FIRST for a sequence of symbols: the union of the
// FIRST sets of the symbols up to and including the first one which does
// not derive epsilon. Epsilon is a member iff the sequence is non-empty
// and every symbol of it derives epsilon; for the empty sequence the
// result is the empty set. The returned set is a fresh one, owned by the
// caller.
func (ga *LRAnalysis) seqFirst(seq []Symbol) *intsets.Sparse {
	fs := &intsets.Sparse{}
	if len(seq) == 0 {
		return fs
	}
	allEps := true
	for _, sym := range seq {
		fs.UnionWith(ga.First(sym))
		if !ga.DerivesEpsilon(sym) {
			allEps = false
			break
		}
	}
	if allEps {
		fs.Insert(int(EpsilonType))
	} else {
		fs.Remove(int(EpsilonType))
	}
	return fs
}

// lookaheadFirst is seqFirst for the sequence beta+la, as used for
// lookahead propagation during item closure. The lookahead terminal
// terminates the sequence, so the result never contains epsilon.
func (ga *LRAnalysis) lookaheadFirst(beta []Symbol, la Symbol) *intsets.Sparse {
	seq := make([]Symbol, 0, len(beta)+1)
	seq = append(seq, beta...)
	seq = append(seq, la)
	return ga.seqFirst(seq)
}
