/*
Package sparse implements a simple type for sparse integer matrices.
It is used for parser tables (GOTO-table and ACTION-table), which are
mostly empty: only a fraction of (state, token) positions carry an entry.
Every entry in the table is either a single int32 or a pair (int32,int32);
the pair form preserves competing parse actions for conflict diagnosis.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
)

// DefaultNullValue is the default empty-value for matrices (min int32).
// Parser action encodings are small negative and positive numbers, so the
// extreme value is safely out of their way.
const DefaultNullValue = -2147483648

// IntMatrix is a type for a sparse matrix of integer values. Construct with
//
//	M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//	M.Set(2, 3, 4711)              // set a value
//	v := M.Value(2, 3)             // returns 4711
//	M.Add(2, 3, 123)               // add a second value at the position
//	cnt := M.ValueCount()          // still returns 1 (one position occupied)
//	v = M.Value(9, 9)              // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value.
// Space for null-values is not re-claimed.
type IntMatrix struct {
	cells   []cell
	rowcnt  int
	colcnt  int
	nullval int32
}

// A cell stores up to two values at a matrix position. Cells are kept
// sorted by (row, col), which bounds lookups by the first cell not left
// of the wanted position.
type cell struct {
	row, col int
	value    pair
}

// we store up to 2 int32 at one position
type pair struct {
	a int32
	b int32
}

func (pr pair) String() string {
	return fmt.Sprintf("[%d,%d]", pr.a, pr.b)
}

// NewIntMatrix creates a new matrix for int32 values, size m x n. The 3rd
// argument is a null-value, indicating empty entries (use DefaultNullValue
// if you haven't any specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		cells:   []cell{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value.
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of occupied positions in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.cells)
}

// Value returns the primary value at position (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	if c, ok := m.at(i, j); ok {
		return c.value.a
	}
	return m.nullval
}

// Values returns the pair of values at position (i,j), or
// (NullValue, NullValue).
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if c, ok := m.at(i, j); ok {
		return c.value.a, c.value.b
	}
	return m.nullval, m.nullval
}

// Set puts a single value into the matrix at position (i,j), replacing
// both slots of the position.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	return m.put(i, j, value, false)
}

// Add puts a value into the matrix at position (i,j), retaining a present
// value in the position's second slot. Adding to a full position
// overwrites the second slot.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	return m.put(i, j, value, true)
}

func (m *IntMatrix) at(i, j int) (cell, bool) {
	for _, c := range m.cells {
		if c.leftOf(i, j) {
			continue
		}
		if c.isAt(i, j) {
			return c, true
		}
		break // sorted: no later cell can match
	}
	return cell{}, false
}

func (m *IntMatrix) put(i, j int, value int32, retain bool) *IntMatrix {
	at := 0 // will be the insert position for a new cell
	for k, c := range m.cells {
		if !c.leftOf(i, j) {
			if c.isAt(i, j) { // position already occupied
				if retain {
					m.cells[k].value = m.cells[k].value.join(value, m.nullval)
				} else {
					m.cells[k].value = pair{value, m.nullval}
				}
				return m
			}
			break // no old value present, insert at k
		}
		at++
	}
	cnew := cell{row: i, col: j, value: pair{value, m.nullval}}
	m.cells = append(m.cells, cnew)    // make room
	copy(m.cells[at+1:], m.cells[at:]) // shift cells right of the insert position
	m.cells[at] = cnew
	return m
}

// join fills the first free slot of a pair with a value. A full pair has
// its second slot overwritten.
func (v pair) join(n int32, nullval int32) pair {
	if v.a == nullval {
		v.a = n
	} else if v.b == nullval {
		v.b = n
	} else {
		v.b = n
	}
	return v
}

func (c *cell) leftOf(i, j int) bool {
	return c.row < i || c.row == i && c.col < j
}

func (c *cell) isAt(i, j int) bool {
	return c.row == i && c.col == j
}
