package sparse

import "testing"

func TestMatrixSetAndGet(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M[2,3] = 4711, got %d", v)
	}
	if v := M.Value(3, 2); v != M.NullValue() {
		t.Errorf("expected M[3,2] to be empty, got %d", v)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 occupied position, got %d", M.ValueCount())
	}
}

func TestMatrixAddPair(t *testing.T) {
	M := NewIntMatrix(5, 5, DefaultNullValue)
	M.Add(1, 1, 7)
	M.Add(1, 1, 8)
	a, b := M.Values(1, 1)
	if a != 7 || b != 8 {
		t.Errorf("expected pair (7,8) at M[1,1], got (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected pair to occupy a single position, got %d", M.ValueCount())
	}
	M.Set(1, 1, 9) // Set replaces the whole pair
	a, b = M.Values(1, 1)
	if a != 9 || b != M.NullValue() {
		t.Errorf("expected pair (9,<null>) after Set, got (%d,%d)", a, b)
	}
}

func TestMatrixCellOrder(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(5, 5, 1)
	M.Set(0, 9, 2)
	M.Set(5, 2, 3)
	M.Set(0, 1, 4)
	for _, probe := range []struct {
		i, j int
		v    int32
	}{
		{5, 5, 1}, {0, 9, 2}, {5, 2, 3}, {0, 1, 4},
	} {
		if v := M.Value(probe.i, probe.j); v != probe.v {
			t.Errorf("expected M[%d,%d] = %d, got %d", probe.i, probe.j, probe.v, v)
		}
	}
}

func TestMatrixNegativeColumns(t *testing.T) {
	// parser tables index columns by shifted token values, starting at 0,
	// but rows and columns near the matrix edges must work reliably
	M := NewIntMatrix(3, 1100, DefaultNullValue)
	M.Set(0, 0, -1)
	M.Set(2, 1099, -2)
	if v := M.Value(0, 0); v != -1 {
		t.Errorf("expected M[0,0] = -1, got %d", v)
	}
	if v := M.Value(2, 1099); v != -2 {
		t.Errorf("expected M[2,1099] = -2, got %d", v)
	}
}
