package lr

import (
	"encoding/json"
	"fmt"

	"github.com/npillmayer/tablr"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// Grammars and analysis results serialize to JSON, for external tooling
// and for keeping grammars in files. The format lists the symbol
// inventory explicitly; rules reference symbols by image. The sentinels
// #eps and #eof are implicit members of every grammar and are not listed,
// but epsilon-rules keep their literal "#eps" right-hand side entry.

type symbolJSON struct {
	Kind  string `json:"kind"`
	Image string `json:"image"`
	Value int    `json:"value"`
}

type ruleJSON struct {
	Serial int      `json:"serial"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
}

type grammarJSON struct {
	Name    string       `json:"name"`
	Start   string       `json:"start"`
	Symbols []symbolJSON `json:"symbols"`
	Rules   []ruleJSON   `json:"rules"`
}

func (sj symbolJSON) symbol() (Symbol, error) {
	sym := Symbol{Name: sj.Image, Value: tablr.TokType(sj.Value)}
	switch sj.Kind {
	case "terminal":
		sym.cat = terminalCat
	case "nonterminal":
		sym.cat = nonTermCat
	default:
		return Symbol{}, fmt.Errorf("unknown symbol kind %q for %q", sj.Kind, sj.Image)
	}
	return sym, nil
}

// MarshalJSON serializes a symbol with its kind, image and token value.
func (sym Symbol) MarshalJSON() ([]byte, error) {
	kind := "terminal"
	if !sym.IsTerminal() {
		kind = "nonterminal"
	}
	return json.Marshal(symbolJSON{Kind: kind, Image: sym.Name, Value: int(sym.Value)})
}

// UnmarshalJSON deserializes a symbol.
func (sym *Symbol) UnmarshalJSON(data []byte) error {
	var sj symbolJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	s, err := sj.symbol()
	if err != nil {
		return err
	}
	*sym = s
	return nil
}

// MarshalJSON serializes a rule, referencing symbols by image.
func (r *Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(ruleJSON{Serial: r.Serial, LHS: r.LHS.Name, RHS: symbolImages(r.rhs)})
}

// MarshalJSON serializes a grammar: name, start symbol, symbol inventory
// and rules. The output is stable: symbols sorted by image, rules in
// serial order.
func (g *Grammar) MarshalJSON() ([]byte, error) {
	gj := grammarJSON{Name: g.Name, Start: g.start.Name}
	for _, t := range g.terminals {
		if t == Epsilon || t == EOF {
			continue
		}
		gj.Symbols = append(gj.Symbols, symbolJSON{Kind: "terminal", Image: t.Name, Value: int(t.Value)})
	}
	for _, nt := range g.nonterminals {
		gj.Symbols = append(gj.Symbols, symbolJSON{Kind: "nonterminal", Image: nt.Name, Value: int(nt.Value)})
	}
	for _, r := range g.rules {
		gj.Rules = append(gj.Rules, ruleJSON{Serial: r.Serial, LHS: r.LHS.Name, RHS: symbolImages(r.rhs)})
	}
	return json.Marshal(gj)
}

// UnmarshalJSON deserializes a grammar. Rules are ordered by their serial
// numbers and renumbered densely; symbol references are checked against
// the declared inventory, with the usual grammar invariants enforced.
func (g *Grammar) UnmarshalJSON(data []byte) error {
	var gj grammarJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return err
	}
	symbols := map[string]Symbol{Epsilon.Name: Epsilon, EOF.Name: EOF}
	for _, sj := range gj.Symbols {
		sym, err := sj.symbol()
		if err != nil {
			return err
		}
		if _, exists := symbols[sym.Name]; exists {
			return fmt.Errorf("grammar %s declares symbol %q twice", gj.Name, sym.Name)
		}
		symbols[sym.Name] = sym
	}
	resolve := func(image string) (Symbol, error) {
		if sym, ok := symbols[image]; ok {
			return sym, nil
		}
		return Symbol{}, fmt.Errorf("grammar %s references undeclared symbol %q", gj.Name, image)
	}
	slices.SortStableFunc(gj.Rules, func(a, b ruleJSON) bool { return a.Serial < b.Serial })
	rules := make([]*Rule, 0, len(gj.Rules))
	for _, rj := range gj.Rules {
		lhs, err := resolve(rj.LHS)
		if err != nil {
			return err
		}
		rhs := make([]Symbol, 0, len(rj.RHS))
		for _, image := range rj.RHS {
			sym, err := resolve(image)
			if err != nil {
				return err
			}
			rhs = append(rhs, sym)
		}
		rules = append(rules, newRule(lhs, rhs))
	}
	start, err := resolve(gj.Start)
	if err != nil {
		return err
	}
	parsed, err := newGrammar(gj.Name, start, rules)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

type analysisJSON struct {
	Grammar string              `json:"grammar"`
	First   map[string][]string `json:"first"`
	Follow  map[string][]string `json:"follow"`
}

// MarshalJSON serializes the analysis results: FIRST and FOLLOW sets of
// all non-terminals, as lists of terminal images, sorted for output
// stability. Epsilon-membership appears as "#eps", end-of-input as
// "#eof".
func (ga *LRAnalysis) MarshalJSON() ([]byte, error) {
	aj := analysisJSON{
		Grammar: ga.g.Name,
		First:   map[string][]string{},
		Follow:  map[string][]string{},
	}
	ga.g.EachNonTerminal(func(name string, N Symbol) interface{} {
		aj.First[name] = ga.terminalImages(ga.First(N))
		aj.Follow[name] = ga.terminalImages(ga.Follow(N))
		return nil
	})
	return json.Marshal(aj)
}

func (ga *LRAnalysis) terminalImages(set *intsets.Sparse) []string {
	images := make([]string, 0, set.Len())
	for _, v := range set.AppendTo(nil) {
		if t, ok := ga.g.Terminal(tablr.TokType(v)); ok {
			images = append(images, t.Name)
		}
	}
	slices.Sort(images)
	return images
}
