package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/npillmayer/tablr/bnf"
	"github.com/npillmayer/tablr/lr"
	"github.com/npillmayer/tablr/lr/ll1"
	"github.com/npillmayer/tablr/lr/lr1"
)

var parseFlags = struct {
	ll     *bool
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar.bnf> [input...]",
		Short:   "Parse input with a table-driven parser",
		Example: `  tablr parse expr.bnf "25 + 21 * 4"`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.ll = cmd.Flags().Bool("ll", false, "parse top-down with the LL(1) predictive parser")
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default: input arguments or stdin)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	input, err := parseInput(args[1:])
	if err != nil {
		return err
	}
	if *parseFlags.ll {
		return parseLL(g, input)
	}
	return parseLR(g, input)
}

func parseInput(args []string) (string, error) {
	if *parseFlags.source != "" {
		data, err := os.ReadFile(*parseFlags.source)
		if err != nil {
			return "", fmt.Errorf("cannot read source: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseLR(g *lr.Grammar, input string) error {
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		return err
	}
	adapter, err := bnf.TokenizerFor(g)
	if err != nil {
		return err
	}
	scan, err := adapter.Scanner(input)
	if err != nil {
		return err
	}
	p := lr1.NewParser(lrgen.Grammar(), lrgen.GotoTable(), lrgen.ActionTable())
	accepted, err := p.Parse(lrgen.CFSM().S0, scan)
	if err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("input rejected")
	}
	pterm.Info.Println("input accepted")
	for _, r := range p.Reductions() {
		fmt.Printf("%4d: %v\n", r.Serial, r)
	}
	renderTree(parseTreeFromTrace(p.Trace()))
	return nil
}

func parseLL(g *lr.Grammar, input string) error {
	gPrime, err := g.EliminateLeftRecursion()
	if err != nil {
		return err
	}
	if gPrime != g {
		pterm.Info.Println("grammar is left-recursive, parsing with the rewritten form")
	}
	pt, err := lr.BuildPredictiveTable(lr.Analysis(gPrime))
	if err != nil {
		return err
	}
	adapter, err := bnf.TokenizerFor(gPrime)
	if err != nil {
		return err
	}
	scan, err := adapter.Scanner(input)
	if err != nil {
		return err
	}
	p := ll1.NewParser(pt)
	accepted, err := p.Parse(scan)
	for _, synErr := range p.SyntaxErrors() {
		pterm.Error.Println(synErr.Error())
	}
	if err != nil && len(p.SyntaxErrors()) == 0 {
		return err
	}
	if !accepted {
		return fmt.Errorf("input rejected")
	}
	pterm.Info.Println("input accepted")
	for _, r := range p.Derivation() {
		fmt.Printf("%4d: %v\n", r.Serial, r)
	}
	renderTree(derivationTree(gPrime, p.Derivation()))
	return nil
}

// treeNode is a parse tree node for terminal rendering.
type treeNode struct {
	label    string
	children []*treeNode
}

// parseTreeFromTrace replays the action trace of a bottom-up parse,
// building the parse tree the reductions imply.
func parseTreeFromTrace(trace []lr1.Action) *treeNode {
	var stack []*treeNode
	for _, a := range trace {
		switch a.Kind {
		case lr1.Shift:
			stack = append(stack, &treeNode{label: a.Token.Lexeme()})
		case lr1.Reduce:
			node := &treeNode{label: a.Rule.LHS.Name}
			if n := a.Rule.Len(); n > 0 && n <= len(stack) {
				node.children = append(node.children, stack[len(stack)-n:]...)
				stack = stack[:len(stack)-n]
			}
			stack = append(stack, node)
		}
	}
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// derivationTree expands a top-down derivation, rule by rule, into the
// parse tree it describes.
func derivationTree(g *lr.Grammar, rules []*lr.Rule) *treeNode {
	i := 0
	var expand func(sym lr.Symbol) *treeNode
	expand = func(sym lr.Symbol) *treeNode {
		node := &treeNode{label: sym.Name}
		if sym.IsTerminal() {
			return node
		}
		if i >= len(rules) || rules[i].LHS != sym {
			return node
		}
		r := rules[i]
		i++
		if r.IsEpsilon() {
			return node
		}
		for _, rhs := range r.RHS() {
			node.children = append(node.children, expand(rhs))
		}
		return node
	}
	return expand(g.Start())
}

func renderTree(root *treeNode) {
	if root == nil {
		return
	}
	ll := leveled(root, pterm.LeveledList{}, 0)
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
}

func leveled(n *treeNode, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.label})
	for _, c := range n.children {
		ll = leveled(c, ll, level+1)
	}
	return ll
}
