package types

import "testing"

func TestCompatibleWidening(t *testing.T) {
	small := NewPrimitive(I8, 0)
	big := NewPrimitive(I32, 0)
	if !small.IsCompatible(big) {
		t.Fatalf("expected i8 compatible with i32")
	}
}

func TestCompatibleRejectsBool(t *testing.T) {
	b := NewPrimitive(Bool, 0)
	i := NewPrimitive(I32, 0)
	if b.IsCompatible(i) {
		t.Fatalf("bool should never be compatible with an integer")
	}
}

func TestCompatibleRejectsPointers(t *testing.T) {
	a := NewPrimitive(I32, 1)
	b := NewPrimitive(I32, 1)
	c := NewPrimitive(I32, 2)
	if a.IsCompatible(c) {
		t.Fatalf("distinct pointer levels should not silently widen")
	}
	if !a.Equal(b) {
		t.Fatalf("identical pointer types should be equal")
	}
}

func TestComparablePointers(t *testing.T) {
	a := NewPrimitive(I32, 1)
	b := NewPrimitive(U8, 2)
	if !a.IsComparable(b) {
		t.Fatalf("any two pointers should be comparable")
	}
}

func TestAssignableFromRejectsNarrowing(t *testing.T) {
	dst := NewPrimitive(I8, 0)
	src := NewPrimitive(I32, 0)
	if dst.IsAssignableFrom(src) {
		t.Fatalf("i32 should not be assignable into i8")
	}
}

func TestAssignableFromAllowsWidening(t *testing.T) {
	dst := NewPrimitive(I32, 0)
	src := NewPrimitive(I8, 0)
	if !dst.IsAssignableFrom(src) {
		t.Fatalf("i8 should be assignable into i32")
	}
}

func TestGetResultWidensUnsignedSigned(t *testing.T) {
	u := NewPrimitive(U32, 0)
	s := NewPrimitive(I8, 0)
	result := u.GetResult(s)
	if result.Primitive() != I64 {
		t.Fatalf("expected u32+i8 to promote to i64, got %s", result)
	}
}

func TestGetResultPassesThroughPointer(t *testing.T) {
	p := NewPrimitive(I32, 1)
	o := NewPrimitive(I8, 0)
	result := p.GetResult(o)
	if result.PointerLevel != 1 || result.Primitive() != I32 {
		t.Fatalf("expected pointer operand to pass through unchanged, got %s", result)
	}
}

func TestIsCopyable(t *testing.T) {
	if !NewPrimitive(I32, 0).IsCopyable() {
		t.Fatalf("primitives should be copyable")
	}
	if !NewPrimitive(I32, 1).IsCopyable() {
		t.Fatalf("pointers should be copyable")
	}
}
