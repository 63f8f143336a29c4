package lr

import "fmt"

// isLeftRecursive returns true if the rule's right-hand side starts with
// its own left-hand side symbol.
func (r *Rule) isLeftRecursive() bool {
	return !r.IsEpsilon() && r.rhs[0] == r.LHS
}

// leftRecursiveNTs returns all non-terminals with at least one directly
// left-recursive rule, in order of first occurrence.
func (g *Grammar) leftRecursiveNTs() []Symbol {
	var recs []Symbol
	seen := map[Symbol]bool{}
	for _, r := range g.rules {
		if r.isLeftRecursive() && !seen[r.LHS] {
			seen[r.LHS] = true
			recs = append(recs, r.LHS)
		}
	}
	return recs
}

// EliminateLeftRecursion derives a new grammar with all direct left
// recursion removed, using the textbook rewrite with helper
// non-terminals: for a non-terminal X with recursive rules X ::= X αᵢ and
// non-recursive rules X ::= βⱼ, a helper X' is introduced and the rules
// become
//
//	X  ::= βⱼ X'      (one per non-recursive rule)
//	X' ::= αᵢ X'      (one per recursive rule)
//	X' ::= #eps
//
// Helper images are formed by appending ' (prime) characters to X's image
// until the image is unused. Non-terminals without left-recursive rules
// are not touched. The receiver grammar is left unchanged; if it has no
// direct left recursion at all, it is returned as-is. Since the derived
// grammar is free of direct left recursion, the operation is idempotent.
//
// A degenerate cycle rule X ::= X cannot be eliminated and returns an
// error.
//
// Indirect left recursion (X ⇒ Y … ⇒ X …) is not detected by this
// operation; LL table construction will flag such grammars.
func (g *Grammar) EliminateLeftRecursion() (*Grammar, error) {
	recs := g.leftRecursiveNTs()
	if len(recs) == 0 {
		return g, nil
	}
	minted := make(map[Symbol]Symbol, len(recs)) // X → helper X'
	names := map[string]bool{}
	next := g.nextNonTermValue()
	for _, X := range recs {
		name := X.Name + "'"
		for {
			if _, exists := g.symbols[name]; !exists && !names[name] {
				break
			}
			name += "'"
		}
		names[name] = true
		minted[X] = Symbol{Name: name, Value: next, cat: nonTermCat}
		next--
	}
	rules := make([]*Rule, 0, len(g.rules)+len(recs))
	for _, r := range g.rules {
		prime, touched := minted[r.LHS]
		if !touched {
			rules = append(rules, newRule(r.LHS, r.rhs))
			continue
		}
		if r.isLeftRecursive() {
			if r.Len() == 1 { // X ::= X
				return nil, fmt.Errorf("cannot eliminate left recursion: rule %v is a cycle", r)
			}
			alpha := r.rhs[1:]
			rhs := make([]Symbol, 0, len(alpha)+1)
			rhs = append(rhs, alpha...)
			rhs = append(rhs, prime)
			rules = append(rules, newRule(prime, rhs))
		} else {
			var rhs []Symbol
			if r.IsEpsilon() {
				rhs = []Symbol{prime}
			} else {
				rhs = make([]Symbol, 0, len(r.rhs)+1)
				rhs = append(rhs, r.rhs...)
				rhs = append(rhs, prime)
			}
			rules = append(rules, newRule(r.LHS, rhs))
		}
	}
	for _, X := range recs {
		tracer().Debugf("left recursion: rewriting %s with helper %s", X.Name, minted[X].Name)
		rules = append(rules, newRule(minted[X], nil)) // X' ::= #eps
	}
	return newGrammar(g.Name, g.start, rules)
}
