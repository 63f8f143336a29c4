package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"

	"github.com/npillmayer/tablr/bnf"
	"github.com/npillmayer/tablr/lr"
)

var rootCmd = &cobra.Command{
	Use:   "tablr",
	Short: "Analyze context-free grammars and run table-driven parsers",
	Long: `tablr reads a grammar in a compact BNF-like notation, analyzes it
(FIRST/FOLLOW sets, LR(1) automaton, parser tables) and parses input
with a table-driven LR(1) or LL(1) parser.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		gtrace.SyntaxTracer = gologadapter.New()
		level := tracing.TraceLevelFromString(*traceFlag)
		for _, key := range []string{"tablr.lr", "tablr.scanner", "tablr.bnf", "tablr.repl"} {
			tracing.Select(key).SetTraceLevel(level)
		}
	},
}

var traceFlag *string

func init() {
	traceFlag = rootCmd.PersistentFlags().StringP("trace", "t", "Info", "Trace level [Debug|Info|Error]")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

// readGrammar reads a notation file and builds the grammar, named after
// the file.
func readGrammar(path string) (*lr.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read grammar: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return bnf.Parse(name, string(data))
}
