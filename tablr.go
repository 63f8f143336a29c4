package tablr

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. The parsing engines identify grammar
// terminals by their token type. We do not define any constants here, as it is
// up to scanner/grammar combinations to define them; package lr/scanner
// replicates the types of text/scanner as a convenient default vocabulary.
type TokType int

// TokTypeStringer is a type to be provided by a scanner/grammar combination to be
// able to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals of a grammar.
//
// An example would be a token for an integer literal:
//
//	TokType = Int         // identifier for this kind of tokens (application specific)
//	Lexeme  = "4711"      // lexeme as it appeared in the input stream
//	Value   = 4711        // may be set by the scanner, or left nil
//	Span    = 67…71       // occurred at position 67 in the input stream
//
// The parsing engines only ever inspect Token.TokType(); Lexeme() and Span()
// are carried along for error reporting and for clients interpreting a
// derivation.
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// TokenRetriever is a type for getting tokens at an input position.
// Most scanner/parser combinations will keep track of input tokens. However, this is
// not a must. Factoring it out into a type helps model this design-decision.
type TokenRetriever func(uint64) Token

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal of a parse, the engines track which input positions
// the symbol covers, e.g. for reporting the location of a syntax error or the
// extent of a reduction. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns a span covering both s and other. Extending the null
// span adopts other as-is.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
