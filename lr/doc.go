/*
Package lr implements prerequisites for LR parsing.
It provides the tools to model context-free grammars, analyse them
statically, and construct LR(1) and LL(1) parser tables from them.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token value of type int. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).EOF()  // S  ->  A a EOF
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->

This results in the following trivial grammar:

   g.Dump()

   0: [S] ::= [A a #eof]
   1: [A] ::= [B D]
   2: [B] ::= [b]
   3: [B] ::= [#eps]
   4: [D] ::= [d]
   5: [D] ::= [#eps]

Grammars are immutable once built. Transformations like Augment or
EliminateLeftRecursion leave the receiver untouched and derive new
grammar objects.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable
non-terminals.

Although FIRST and FOLLOW-sets are mainly intended to be used for internal
purposes of constructing the parser tables, methods for getting FIRST(N)
and FOLLOW(N) of non-terminals are defined to be public.

    ga := lr.Analysis(g)  // analyser for grammar above
    ga.Grammar().EachNonTerminal(
        func(name string, N lr.Symbol) interface{} {          // ad-hoc mapper function
            fmt.Printf("FIRST(%s) = %v", name, ga.First(N))   // get FIRST-set for N
            return nil
        })

    // Output:
    FIRST(S) = [1 2 3]         // terminal token values as int, 1 = 'a'
    FIRST(A) = [0 2 3]         // 0 = epsilon
    FIRST(B) = [0 2]           // 2 = 'b'
    FIRST(D) = [0 3]           // 3 = 'd'

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
The grammar is augmented with a fresh start rule, then a characteristic
finite state machine (CFSM) over LR(1) items is built from it. The CFSM
will then be transformed into a GOTO table and an ACTION table for an
LR(1) parser. The CFSM will not be thrown away, but is made available to
the client. This is intended for debugging purposes, but may be useful
for error recovery, too. It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is an LRAnalysis, see above
    if err := lrgen.CreateTables(); err != nil {
        …                              // grammar is not LR(1)
    }

Grammars which are not LR(1) make CreateTables fail with an error
listing every table conflict. Clients willing to trade strictness for
convenience may opt into a disambiguation policy instead (see
ResolveConflicts).

Top-down parsing is covered as well: BuildPredictiveTable constructs an
LL(1) parser table from the same analysis object, and
EliminateLeftRecursion rewrites grammars which are not LL-ready.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tablr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("tablr.lr")
}
