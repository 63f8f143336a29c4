/*
Package tablr is a toolbox for grammar analysis and table-driven parsing.

TABLR analyzes context-free grammars and constructs parsers for them on the
fly, without a code-generation step: FIRST- and FOLLOW-sets, elimination of
direct left recursion, the canonical collection of LR(1) items, ACTION- and
GOTO-tables together with a shift-reduce engine, and LL(1) predictive tables
together with a top-down engine. Package structure is as follows:

■ lr: Package lr implements the grammar model and the static grammar analysis,
and constructs the parser tables. Engines for the tables live in sub-packages
lr/lr1 (shift-reduce) and lr/ll1 (predictive).

■ bnf: Package bnf reads a compact BNF-like grammar notation and turns it into
the grammar model of package lr.

■ cmd/tablr: an interactive command-line tool to inspect grammars, their
analysis artifacts and tables, and to parse ad-hoc input.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tablr
