package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/tablr"
	"github.com/npillmayer/tablr/lr"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

var showFlags = struct {
	ll   *bool
	lr   *bool
	json *bool
	dot  *string
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar.bnf>",
		Short:   "Print a grammar's analysis artifacts",
		Example: `  tablr show expr.bnf --lr --dot cfsm.dot`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.ll = cmd.Flags().Bool("ll", false, "print the LL(1) predictive table")
	showFlags.lr = cmd.Flags().Bool("lr", false, "print the LR(1) automaton and table summary")
	showFlags.json = cmd.Flags().Bool("json", false, "print grammar and analysis as JSON")
	showFlags.dot = cmd.Flags().String("dot", "", "write the characteristic automaton to a GraphViz file")
	showFlags.html = cmd.Flags().String("html", "", "write parser tables as HTML files into a directory")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	ga := lr.Analysis(g)
	fmt.Printf("grammar %s with %d rules, start symbol %s\n", g.Name, g.Size(), g.Start().Name)
	for i := 0; i < g.Size(); i++ {
		fmt.Printf("%4d: %v\n", i, g.Rule(i))
	}
	fmt.Println("FIRST and FOLLOW sets:")
	g.EachNonTerminal(func(name string, N lr.Symbol) interface{} {
		fmt.Printf("%8s   FIRST { %s }   FOLLOW { %s }\n", name,
			setImages(g, ga.First(N)), setImages(g, ga.Follow(N)))
		return nil
	})
	if *showFlags.json {
		if err := printJSON(g, ga); err != nil {
			return err
		}
	}
	if *showFlags.ll {
		if err := showPredictiveTable(g); err != nil {
			return err
		}
	}
	if *showFlags.lr || *showFlags.dot != "" || *showFlags.html != "" {
		if err := showParserTables(ga); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(g *lr.Grammar, ga *lr.LRAnalysis) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	if data, err = json.MarshalIndent(ga, "", "  "); err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func showPredictiveTable(g *lr.Grammar) error {
	gPrime, err := g.EliminateLeftRecursion()
	if err != nil {
		return err
	}
	if gPrime != g {
		fmt.Println("grammar is left-recursive, LL(1) table built for the rewritten form:")
		for i := 0; i < gPrime.Size(); i++ {
			fmt.Printf("%4d: %v\n", i, gPrime.Rule(i))
		}
	}
	pt, err := lr.BuildPredictiveTable(lr.Analysis(gPrime))
	if err != nil {
		return err
	}
	fmt.Println("LL(1) predictive table:")
	terminals := terminalColumns(gPrime)
	gPrime.EachNonTerminal(func(name string, N lr.Symbol) interface{} {
		for _, T := range terminals {
			if r, ok := pt.Rule(N, T.TokenType()); ok {
				fmt.Printf("   (%s, %s) = rule %d\n", name, T.Name, r.Serial)
			}
		}
		return nil
	})
	if *showFlags.html != "" {
		f, err := htmlFile("ll1-table.html")
		if err != nil {
			return err
		}
		defer f.Close()
		lr.PredictiveTableAsHTML(pt, f)
	}
	return nil
}

func showParserTables(ga *lr.LRAnalysis) error {
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		return err
	}
	if *showFlags.lr {
		fmt.Printf("CFSM has %d states, accepting from %v\n", lrgen.CFSM().Size(), lrgen.AcceptingStates())
		fmt.Printf("augmented grammar rules:\n")
		gPrime := lrgen.Grammar()
		for i := 0; i < gPrime.Size(); i++ {
			fmt.Printf("%4d: %v\n", i, gPrime.Rule(i))
		}
	}
	if *showFlags.dot != "" {
		lrgen.CFSM().CFSM2GraphViz(*showFlags.dot)
		fmt.Printf("CFSM written to %s\n", *showFlags.dot)
	}
	if *showFlags.html != "" {
		f, err := htmlFile("action-table.html")
		if err != nil {
			return err
		}
		lr.ActionTableAsHTML(lrgen, f)
		f.Close()
		if f, err = htmlFile("goto-table.html"); err != nil {
			return err
		}
		lr.GotoTableAsHTML(lrgen, f)
		f.Close()
		fmt.Printf("parser tables written to %s\n", *showFlags.html)
	}
	return nil
}

func htmlFile(name string) (*os.File, error) {
	if err := os.MkdirAll(*showFlags.html, 0755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(*showFlags.html, name))
}

func terminalColumns(g *lr.Grammar) []lr.Symbol {
	terminals := make([]lr.Symbol, 0, 16)
	g.EachTerminal(func(name string, T lr.Symbol) interface{} {
		terminals = append(terminals, T)
		return nil
	})
	terminals = append(terminals, lr.EOF)
	return terminals
}

func setImages(g *lr.Grammar, set *intsets.Sparse) string {
	images := make([]string, 0, set.Len())
	for _, v := range set.AppendTo(nil) {
		if t, ok := g.Terminal(tablr.TokType(v)); ok {
			images = append(images, t.Name)
		}
	}
	slices.Sort(images)
	return strings.Join(images, " ")
}
