package iteratable

import "testing"

func TestSetAdd(t *testing.T) {
	S := NewSet(-1)
	S.Add("a")
	S.Add("b")
	S.Add("a") // duplicate, must be ignored
	if S.Size() != 2 {
		t.Errorf("expected set of size 2, got %d", S.Size())
	}
	if !S.Contains("b") {
		t.Errorf("expected set to contain \"b\"")
	}
}

func TestSetRemove(t *testing.T) {
	S := NewSet(3)
	S.Add(1)
	S.Add(2)
	S.Add(3)
	if r := S.Remove(2); r != 2 {
		t.Errorf("expected Remove to return 2, got %v", r)
	}
	if S.Remove(7) != nil {
		t.Errorf("expected Remove of non-member to return nil")
	}
	if S.Size() != 2 || S.Contains(2) {
		t.Errorf("unexpected set after Remove: %v", S.Values())
	}
}

func TestSetEquals(t *testing.T) {
	A, B := NewSet(0), NewSet(0)
	A.Add("x")
	A.Add("y")
	B.Add("y")
	B.Add("x")
	if !A.Equals(B) {
		t.Errorf("expected A = B, are not")
	}
	B.Add("z")
	if A.Equals(B) {
		t.Errorf("expected A ≠ B after adding \"z\" to B")
	}
}

func TestSetUnionDifference(t *testing.T) {
	A, B := NewSet(0), NewSet(0)
	A.Add(1)
	A.Add(2)
	B.Add(2)
	B.Add(3)
	A.Union(B)
	if A.Size() != 3 {
		t.Errorf("expected |A ∪ B| = 3, got %d", A.Size())
	}
	A.Difference(B)
	if A.Size() != 1 || !A.Contains(1) {
		t.Errorf("expected A \\ B = {1}, got %v", A.Values())
	}
}

func TestSetSubset(t *testing.T) {
	S := NewSet(0)
	for i := 1; i <= 6; i++ {
		S.Add(i)
	}
	S.Subset(func(el interface{}) bool {
		return el.(int)%2 == 0
	})
	if S.Size() != 3 {
		t.Errorf("expected subset of size 3, got %v", S.Values())
	}
}

func TestSetIteration(t *testing.T) {
	S := NewSet(0)
	S.Add("a")
	S.Add("b")
	cnt := 0
	S.IterateOnce()
	for S.Next() {
		cnt++
		if S.Item() == nil {
			t.Errorf("expected non-nil item at position %d", cnt)
		}
	}
	if cnt != 2 {
		t.Errorf("expected to visit 2 items, visited %d", cnt)
	}
}

// Items added during an active iteration have to be visited, too. This is
// the property closure computations rely on.
func TestSetGrowDuringIteration(t *testing.T) {
	S := NewSet(0)
	S.Add(1)
	visited := 0
	S.IterateOnce()
	for S.Next() {
		n := S.Item().(int)
		visited++
		if n < 5 {
			S.Add(n + 1)
		}
	}
	if visited != 5 {
		t.Errorf("expected iteration to visit 5 items, visited %d", visited)
	}
}

func TestSetRemoveDuringIteration(t *testing.T) {
	S := NewSet(0)
	for i := 1; i <= 4; i++ {
		S.Add(i)
	}
	var seen []int
	S.IterateOnce()
	for S.Next() {
		n := S.Item().(int)
		seen = append(seen, n)
		if n == 1 {
			S.Remove(1) // removing behind the cursor must not skip items
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected to visit 4 items, visited %v", seen)
	}
}
