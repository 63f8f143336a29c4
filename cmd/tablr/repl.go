package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/npillmayer/tablr/bnf"
	"github.com/npillmayer/tablr/lr"
	"github.com/npillmayer/tablr/lr/ll1"
	"github.com/npillmayer/tablr/lr/lr1"
	"github.com/npillmayer/tablr/lr/scanner/lexmach"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar.bnf>",
		Short:   "Parse input lines interactively",
		Example: `  tablr repl expr.bnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRepl,
	}
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	initDisplay()
	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		return err
	}
	adapter, err := bnf.TokenizerFor(g)
	if err != nil {
		return err
	}
	repl, err := readline.New("tablr> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{
		g:      g,
		ga:     ga,
		lrgen:  lrgen,
		parser: lr1.NewParser(lrgen.Grammar(), lrgen.GotoTable(), lrgen.ActionTable()),
		tok:    adapter,
		repl:   repl,
	}
	pterm.Info.Printf("Welcome to tablr, grammar %s with %d rules\n", g.Name, g.Size())
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object.
type Intp struct {
	g      *lr.Grammar
	ga     *lr.LRAnalysis
	lrgen  *lr.TableGenerator
	parser *lr1.Parser
	tok    *lexmach.LMAdapter
	repl   *readline.Instance
	llMode bool
	gPrime *lr.Grammar // grammar of the LL side, possibly rewritten
	llGA   *lr.LRAnalysis
	pt     *lr.PredictiveTable
	llTok  *lexmach.LMAdapter
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := intp.command(line); quit {
				break
			}
			continue
		}
		intp.parseLine(line)
	}
	println("Good bye!")
}

// command executes a ':'-prefixed REPL command. It returns true if the
// REPL should quit.
func (intp *Intp) command(line string) bool {
	args := strings.Fields(line)
	switch args[0] {
	case ":quit":
		return true
	case ":rules":
		intp.printRules()
	case ":sets":
		intp.printSets()
	case ":ll":
		intp.toggleLL()
	default:
		pterm.Error.Printf("unknown command %q\n", args[0])
		pterm.Info.Println("commands are :rules :sets :ll :quit")
	}
	return false
}

func (intp *Intp) printRules() {
	g := intp.g
	if intp.llMode {
		g = intp.gPrime
	}
	for i := 0; i < g.Size(); i++ {
		fmt.Printf("%4d: %v\n", i, g.Rule(i))
	}
}

func (intp *Intp) printSets() {
	ga := intp.ga
	if intp.llMode {
		ga = intp.llGA
	}
	ga.Grammar().EachNonTerminal(func(name string, N lr.Symbol) interface{} {
		fmt.Printf("%8s   FIRST { %s }   FOLLOW { %s }\n", name,
			setImages(ga.Grammar(), ga.First(N)), setImages(ga.Grammar(), ga.Follow(N)))
		return nil
	})
}

// toggleLL switches between the bottom-up and the top-down parser. The
// LL(1) side is prepared on first use and kept; a grammar that is not
// LL(1) leaves the REPL in LR mode.
func (intp *Intp) toggleLL() {
	if intp.llMode {
		intp.llMode = false
		pterm.Info.Println("parsing bottom-up with the LR(1) engine")
		return
	}
	if intp.pt == nil {
		if err := intp.prepareLL(); err != nil {
			pterm.Error.Println(err.Error())
			return
		}
	}
	intp.llMode = true
	pterm.Info.Println("parsing top-down with the LL(1) engine")
}

func (intp *Intp) prepareLL() error {
	gPrime, err := intp.g.EliminateLeftRecursion()
	if err != nil {
		return err
	}
	if gPrime != intp.g {
		pterm.Info.Println("grammar is left-recursive, using the rewritten form")
	}
	ga := lr.Analysis(gPrime)
	pt, err := lr.BuildPredictiveTable(ga)
	if err != nil {
		return err
	}
	adapter, err := bnf.TokenizerFor(gPrime)
	if err != nil {
		return err
	}
	intp.gPrime = gPrime
	intp.llGA = ga
	intp.pt = pt
	intp.llTok = adapter
	return nil
}

func (intp *Intp) parseLine(line string) {
	if intp.llMode {
		intp.parseLineLL(line)
		return
	}
	scan, err := intp.tok.Scanner(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	accepted, err := intp.parser.Parse(intp.lrgen.CFSM().S0, scan)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if !accepted {
		pterm.Error.Println("input rejected")
		return
	}
	pterm.Info.Println("input accepted")
	for _, r := range intp.parser.Reductions() {
		fmt.Printf("%4d: %v\n", r.Serial, r)
	}
	renderTree(parseTreeFromTrace(intp.parser.Trace()))
}

func (intp *Intp) parseLineLL(line string) {
	scan, err := intp.llTok.Scanner(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	p := ll1.NewParser(intp.pt)
	accepted, err := p.Parse(scan)
	for _, synErr := range p.SyntaxErrors() {
		pterm.Error.Println(synErr.Error())
	}
	if err != nil && len(p.SyntaxErrors()) == 0 {
		pterm.Error.Println(err.Error())
		return
	}
	if !accepted {
		pterm.Error.Println("input rejected")
		return
	}
	pterm.Info.Println("input accepted")
	for _, r := range p.Derivation() {
		fmt.Printf("%4d: %v\n", r.Serial, r)
	}
	renderTree(derivationTree(intp.gPrime, p.Derivation()))
}
