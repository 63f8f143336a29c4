package lr

import (
	"fmt"
	"strings"
)

// An Item is an LR(1) item: a grammar rule with a dot position somewhere
// in its right-hand side, plus a single lookahead terminal. Items are
// values and may be compared with ==; two items are the same item iff
// rule, dot position and lookahead all coincide.
//
// The dot moves over the effective right-hand side of the rule, i.e. items
// of epsilon-rules are complete from the start.
type Item struct {
	rule *Rule
	dot  int
	La   Symbol // lookahead terminal
}

// NullItem is the invalid item.
var NullItem = Item{}

// StartItem creates an item for a rule with the dot at the leftmost
// position and a given lookahead terminal.
func StartItem(r *Rule, la Symbol) Item {
	return Item{rule: r, La: la}
}

// IsNull returns true for the invalid item.
func (i Item) IsNull() bool {
	return i.rule == nil
}

// Rule returns the grammar rule of this item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Completed returns true if the dot has passed the last symbol of the
// rule's right-hand side.
func (i Item) Completed() bool {
	return i.rule == nil || i.dot >= i.rule.Len()
}

// PeekSymbol returns the symbol right after the dot, if any.
func (i Item) PeekSymbol() (Symbol, bool) {
	if i.Completed() {
		return Symbol{}, false
	}
	return i.rule.rhs[i.dot], true
}

// Prefix returns the symbols before the dot. Callers must not modify the
// returned slice.
func (i Item) Prefix() []Symbol {
	if i.rule == nil || i.rule.IsEpsilon() {
		return nil
	}
	return i.rule.rhs[:i.dot]
}

// Beta returns the symbols after the peek symbol, i.e. the tail of the
// right-hand side starting one position behind the dot. Callers must not
// modify the returned slice.
func (i Item) Beta() []Symbol {
	if i.Completed() {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

// Advance returns a new item with the dot moved over one symbol. Advancing
// a completed item returns the item unchanged.
func (i Item) Advance() Item {
	if i.Completed() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1, La: i.La}
}

func (i Item) String() string {
	if i.rule == nil {
		return "[<null item>]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s ::=", i.rule.LHS.Name)
	if i.rule.IsEpsilon() {
		b.WriteString(" ●")
	} else {
		for k, sym := range i.rule.rhs {
			if k == i.dot {
				b.WriteString(" ●")
			}
			b.WriteString(" " + sym.Name)
		}
		if i.dot >= len(i.rule.rhs) {
			b.WriteString(" ●")
		}
	}
	fmt.Fprintf(&b, ", %s]", i.La.Name)
	return b.String()
}

// asItem is a convenience converter for items kept in item sets.
func asItem(el interface{}) Item {
	if item, ok := el.(Item); ok {
		return item
	}
	return NullItem
}
