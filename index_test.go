package json

import "testing"

func makeObjectOfSize(n int) *Value {
	children := make([]*Value, n)
	for i := 0; i < n; i++ {
		key := FormatInt32(int32(i))
		c := &Value{kind: KindInt32, i32Val: int32(i)}
		c.key = stringDescriptor{bytes: []byte(key), escaped: false, owned: true}
		children[i] = c
	}
	return &Value{kind: KindObject, children: children}
}

func TestLookupKeyBelowThreshold(t *testing.T) {
	v := makeObjectOfSize(indexThreshold - 1)
	if v.index != nil {
		t.Fatal("index should not be built before any lookup")
	}
	got := v.lookupKey("3")
	if got == nil || got.i32Val != 3 {
		t.Fatalf("expected member 3, got %v", got)
	}
	if v.index != nil {
		t.Errorf("lookupKey below indexThreshold must not build an index")
	}
}

func TestLookupKeyAboveThresholdMatchesLinear(t *testing.T) {
	v := makeObjectOfSize(indexThreshold * 4)
	for i := 0; i < len(v.children); i++ {
		key := FormatInt32(int32(i))
		want := linearLookupKey(v.children, key)
		got := v.lookupKey(key)
		if got != want {
			t.Fatalf("key %q: lookupKey %v != linearLookupKey %v", key, got, want)
		}
	}
	if v.index == nil {
		t.Fatal("expected index to be built above indexThreshold")
	}
	if got := v.lookupKey("not-present"); got != nil {
		t.Errorf("expected nil for absent key, got %v", got)
	}
}

func TestLookupKeyDuplicateLastWriteWins(t *testing.T) {
	n := indexThreshold * 2
	children := make([]*Value, 0, n+1)
	for i := 0; i < n; i++ {
		c := &Value{kind: KindInt32, i32Val: int32(i)}
		c.key = stringDescriptor{bytes: []byte(FormatInt32(int32(i))), escaped: false, owned: true}
		children = append(children, c)
	}
	dup := &Value{kind: KindInt32, i32Val: 999}
	dup.key = stringDescriptor{bytes: []byte("0"), escaped: false, owned: true}
	children = append(children, dup)

	v := &Value{kind: KindObject, children: children}
	got := v.lookupKey("0")
	if got == nil || got.i32Val != 999 {
		t.Errorf("expected the later duplicate (999) to win, got %v", got)
	}
	want := linearLookupKey(v.children, "0")
	if got != want {
		t.Errorf("lookupKey and linearLookupKey disagree on duplicate resolution: %v vs %v", got, want)
	}
}

func TestLookupKeyNonObject(t *testing.T) {
	v := &Value{kind: KindArray}
	if got := v.lookupKey("x"); got != nil {
		t.Errorf("expected nil for a non-object receiver, got %v", got)
	}
}
