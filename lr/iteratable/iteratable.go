package iteratable

// Set is a set of (comparable) items, implemented in a way that lets
// clients iterate over the items while modifying the set. Elements added
// during an active iteration will be visited, too. This is handy for
// constructing the closure of a set property, as many parsing algorithms
// require.
//
// The zero set is empty and ready to use, but clients will usually call
// NewSet.
type Set struct {
	items []interface{}
	inx   int // iteration position,-1 if no iteration is active
}

// NewSet creates a new set, with a capacity hint. A hint of <= 0 is legal.
func NewSet(size int) *Set {
	if size <= 0 {
		size = 8
	}
	return &Set{
		items: make([]interface{}, 0, size),
		inx:   -1,
	}
}

// Add adds an item to a set, if it is not already present.
func (s *Set) Add(item interface{}) {
	if s == nil || item == nil {
		return
	}
	if s.Contains(item) {
		return
	}
	s.items = append(s.items, item)
}

// Remove removes an item from a set, if present. Returns the item if it
// was found, nil otherwise. Removal is legal during an active iteration.
func (s *Set) Remove(item interface{}) interface{} {
	if s == nil || item == nil {
		return nil
	}
	for i, m := range s.items {
		if m == item {
			copy(s.items[i:], s.items[i+1:])
			s.items[len(s.items)-1] = nil
			s.items = s.items[:len(s.items)-1]
			if s.inx >= i {
				s.inx--
			}
			return m
		}
	}
	return nil
}

// Contains returns true if an item is contained in a set.
func (s *Set) Contains(item interface{}) bool {
	if s == nil || item == nil {
		return false
	}
	for _, m := range s.items {
		if m == item {
			return true
		}
	}
	return false
}

// Size returns the number of items in a set.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty returns true if a set contains no items.
func (s *Set) Empty() bool {
	return s.Size() == 0
}

// First returns an arbitrary (but deterministic) item of a set, i.e. the
// one added earliest. It returns nil for an empty set.
func (s *Set) First() interface{} {
	if s == nil || len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

// Values returns all items of a set, in insertion order. The returned
// slice is a copy and may be modified by the caller.
func (s *Set) Values() []interface{} {
	if s == nil {
		return []interface{}{}
	}
	v := make([]interface{}, len(s.items))
	copy(v, s.items)
	return v
}

// Copy makes a copy of a set. The copy carries no active iteration.
func (s *Set) Copy() *Set {
	if s == nil {
		return nil
	}
	r := NewSet(len(s.items))
	r.items = append(r.items, s.items...)
	return r
}

// Equals returns true if both sets contain exactly the same items.
// Insertion order is irrelevant for this comparison.
func (s *Set) Equals(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	if s == nil || other == nil { // then both are empty
		return true
	}
	for _, m := range s.items {
		if !other.Contains(m) {
			return false
		}
	}
	return true
}

// Union merges the items of another set into this one.
// Attention: this is a destructive operation. Returns the receiver.
func (s *Set) Union(other *Set) *Set {
	if s == nil || other == nil {
		return s
	}
	for _, m := range other.items {
		s.Add(m)
	}
	return s
}

// Difference removes all items from a set which are present in another
// set. Attention: this is a destructive operation. Returns the receiver.
func (s *Set) Difference(other *Set) *Set {
	if s == nil || other == nil {
		return s
	}
	for _, m := range other.items {
		s.Remove(m)
	}
	return s
}

// Intersection removes all items from a set which are *not* present in
// another set. Attention: this is a destructive operation. Returns the
// receiver.
func (s *Set) Intersection(other *Set) *Set {
	if s == nil {
		return s
	}
	for i := len(s.items) - 1; i >= 0; i-- {
		if !other.Contains(s.items[i]) {
			s.Remove(s.items[i])
		}
	}
	return s
}

// Subset removes all items from a set which do not fulfill a given
// predicate. Attention: this is a destructive operation. Returns the
// receiver.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	if s == nil || predicate == nil {
		return s
	}
	for i := len(s.items) - 1; i >= 0; i-- {
		if !predicate(s.items[i]) {
			s.Remove(s.items[i])
		}
	}
	return s
}

// Each applies a function to all items of a set, in insertion order.
func (s *Set) Each(f func(interface{})) {
	if s == nil || f == nil {
		return
	}
	for _, m := range s.items {
		f(m)
	}
}

// --- Iteration --------------------------------------------------------

// Sets support a single active iteration at a time. An iteration visits
// every item of the set exactly once, including items added while the
// iteration is underway. A typical iteration looks like this:
//
//	S.IterateOnce()
//	for S.Next() {
//	    item := S.Item()
//	    …                  // may add items to S
//	}
//
// IterateOnce starts an exhaustive iteration over the items of the set.
func (s *Set) IterateOnce() {
	if s == nil {
		return
	}
	s.inx = -1
}

// Next advances the active iteration and returns true if an item is
// available.
func (s *Set) Next() bool {
	if s == nil {
		return false
	}
	s.inx++
	if s.inx >= len(s.items) {
		s.inx = len(s.items) // stay put on subsequent calls
		return false
	}
	return true
}

// Item returns the item at the current iteration position, or nil if the
// iteration is exhausted.
func (s *Set) Item() interface{} {
	if s == nil || s.inx < 0 || s.inx >= len(s.items) {
		return nil
	}
	return s.items[s.inx]
}
