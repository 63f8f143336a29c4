/*
Package tablr/main provides a command line tool around the grammar
analysis and parsing packages of this module. It reads grammars in a
compact BNF-like notation and offers three sub-commands: 'show' prints a
grammar's analysis artifacts (FIRST/FOLLOW sets, parser tables, the
characteristic automaton), 'parse' runs a table-driven parse over input
text, and 'repl' starts an interactive loop doing the same line by line.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tablr.repl'
func tracer() tracing.Trace {
	return tracing.Select("tablr.repl")
}
