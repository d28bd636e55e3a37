package json

import (
	"fmt"
	"strconv"
)

// Kind is the tag of a Value, mirroring spec.md §3's ten-member kind set.
// uhex32/uhex64 carry the same bit pattern as int32/int64 but print with a
// "0x" hint instead of decimal.
type Kind int8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt32
	KindUHex32
	KindInt64
	KindUHex64
	KindFloat64
	KindString
	KindArray
	KindObject
	numKinds
	kindUnknown Kind = -1
)

var kindStrings = [numKinds]string{
	"<null>",
	"<bool>",
	"<int32>",
	"<uhex32>",
	"<int64>",
	"<uhex64>",
	"<float64>",
	"<string>",
	"<array>",
	"<object>",
}

// String returns a human-readable name for k.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "<unknown>"
	}
	return kindStrings[k]
}

// stringDescriptor bundles a byte slice with the two flags spec.md §3
// requires: whether the bytes contain a character that needs JSON escaping,
// and whether this descriptor owns its backing storage (relevant only to
// streaming contexts where a descriptor may outlive the byte source's
// current read window).
type stringDescriptor struct {
	bytes   []byte
	escaped bool
	owned   bool
}

func newStringDescriptor(s string) stringDescriptor {
	b := []byte(s)
	return stringDescriptor{bytes: b, escaped: needsEscape(b), owned: true}
}

func needsEscape(b []byte) bool {
	for _, c := range b {
		if c < 0x20 {
			return true
		}
		switch c {
		case '"', '\\', '\b', '\f', '\n', '\r', '\t', '\v':
			return true
		}
	}
	return false
}

// Value is a tagged JSON value: kind, key descriptor (empty for array
// elements and the document root), and a kind-gated payload. A Value
// allocated through an Arena must not be freed individually — see Arena.
type Value struct {
	kind Kind
	key  stringDescriptor

	boolVal bool
	i32Val  int32
	u32Val  uint32
	i64Val  int64
	u64Val  uint64
	f64Val  float64
	strVal  stringDescriptor

	children []*Value // ordered; array elements or object members
	index    *keyIndex
}

// Type returns v's kind.
func (v *Value) Type() Kind {
	if v == nil {
		return kindUnknown
	}
	if v.kind >= 0 && v.kind < numKinds {
		return v.kind
	}
	return kindUnknown
}

// KeyName returns the key under which v was stored in its parent object, or
// "" for array elements and the document root.
func (v *Value) KeyName() string {
	if v == nil {
		return ""
	}
	return string(v.key.bytes)
}

// AsNull reports whether v is null.
func (v *Value) AsNull() (struct{}, error) {
	if v.Type() == KindNull {
		return struct{}{}, nil
	}
	return struct{}{}, fmt.Errorf("%w: value not null: %v", ErrType, v)
}

// AsBool extracts a boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Type() == KindBool {
		return v.boolVal, nil
	}
	return false, fmt.Errorf("%w: value not a valid boolean: %v", ErrType, v)
}

// AsInt32 extracts a signed 32-bit integer. Does not widen from int64.
func (v *Value) AsInt32() (int32, error) {
	if v.Type() == KindInt32 {
		return v.i32Val, nil
	}
	return 0, fmt.Errorf("%w: value not a valid int32: %v", ErrType, v)
}

// AsUHex32 extracts an unsigned 32-bit integer with the "print as 0x" hint.
func (v *Value) AsUHex32() (uint32, error) {
	if v.Type() == KindUHex32 {
		return v.u32Val, nil
	}
	return 0, fmt.Errorf("%w: value not a valid uhex32: %v", ErrType, v)
}

// AsInt64 extracts a signed 64-bit integer.
func (v *Value) AsInt64() (int64, error) {
	if v.Type() == KindInt64 {
		return v.i64Val, nil
	}
	return 0, fmt.Errorf("%w: value not a valid int64: %v", ErrType, v)
}

// AsUHex64 extracts an unsigned 64-bit integer with the "print as 0x" hint.
func (v *Value) AsUHex64() (uint64, error) {
	if v.Type() == KindUHex64 {
		return v.u64Val, nil
	}
	return 0, fmt.Errorf("%w: value not a valid uhex64: %v", ErrType, v)
}

// AsFloat64 extracts a float. Returns ErrType for anything but KindFloat64.
func (v *Value) AsFloat64() (float64, error) {
	if v.Type() == KindFloat64 {
		return v.f64Val, nil
	}
	return 0, fmt.Errorf("%w: value not a valid float64: %v", ErrType, v)
}

// AsNumber widens any numeric kind to a float64, for callers that don't
// care about the original integer/hex/float distinction. Use the AsXxx
// accessors above when exact width or the hex display hint matters.
func (v *Value) AsNumber() (float64, error) {
	switch v.Type() {
	case KindInt32:
		return float64(v.i32Val), nil
	case KindUHex32:
		return float64(v.u32Val), nil
	case KindInt64:
		return float64(v.i64Val), nil
	case KindUHex64:
		return float64(v.u64Val), nil
	case KindFloat64:
		return v.f64Val, nil
	}
	return 0, fmt.Errorf("%w: value not a valid number: %v", ErrType, v)
}

// AsString extracts a string value.
func (v *Value) AsString() (string, error) {
	if v.Type() == KindString {
		return string(v.strVal.bytes), nil
	}
	return "", fmt.Errorf("%w: value not a valid string: %v", ErrType, v)
}

// AsArray extracts the ordered element slice of an array value. The
// returned slice aliases v's internal storage and must not be mutated.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Type() == KindArray {
		return v.children, nil
	}
	return nil, fmt.Errorf("%w: value not a valid array: %v", ErrType, v)
}

// AsObject extracts an object value as a map. Order is not preserved; use
// Members for an order-preserving view.
func (v *Value) AsObject() (map[string]*Value, error) {
	if v.Type() != KindObject {
		return nil, fmt.Errorf("%w: value not a valid object: %v", ErrType, v)
	}
	m := make(map[string]*Value, len(v.children))
	for _, c := range v.children {
		m[c.KeyName()] = c
	}
	return m, nil
}

// Members returns an object's children in source order.
func (v *Value) Members() ([]*Value, error) {
	if v.Type() != KindObject {
		return nil, fmt.Errorf("%w: value not a valid object: %v", ErrType, v)
	}
	return v.children, nil
}

// Len returns the number of elements/members for array/object values, and
// 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.Type() {
	case KindArray, KindObject:
		return len(v.children)
	}
	return 0
}

// Index returns the i'th array element, or an empty Value (not nil) if v is
// not an array or i is out of range, so chained accesses like
// v.Index(0).Key("a") don't need a nil check at every step.
func (v *Value) Index(i int) *Value {
	if v.Type() != KindArray || i < 0 || i >= len(v.children) {
		return &Value{}
	}
	return v.children[i]
}

// Key returns the object member named k, doing an index lookup when the
// object has enough members to have built one (see keyIndex), or an empty
// Value if absent / v is not an object.
func (v *Value) Key(k string) *Value {
	if v.Type() != KindObject {
		return &Value{}
	}
	if r := v.lookupKey(k); r != nil {
		return r
	}
	return &Value{}
}

// String renders a debug form of v. It is not guaranteed to be valid JSON
// input for strict parsing (e.g. it does not escape every control byte);
// use Print for a conforming JSON document.
func (v *Value) String() string {
	switch v.Type() {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindInt32:
		return strconv.FormatInt(int64(v.i32Val), 10)
	case KindUHex32:
		return "0x" + strconv.FormatUint(uint64(v.u32Val), 16)
	case KindInt64:
		return strconv.FormatInt(v.i64Val, 10)
	case KindUHex64:
		return "0x" + strconv.FormatUint(v.u64Val, 16)
	case KindFloat64:
		return FormatFloat(v.f64Val)
	case KindString:
		return strconv.Quote(string(v.strVal.bytes))
	case KindArray:
		s := "["
		for i, e := range v.children {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case KindObject:
		s := "{"
		for i, m := range v.children {
			if i > 0 {
				s += ", "
			}
			s += strconv.Quote(m.KeyName()) + ": " + m.String()
		}
		return s + "}"
	}
	return "<unknown>"
}

func equalsValue(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() || a.KeyName() != b.KeyName() {
		return false
	}
	switch a.Type() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt32:
		return a.i32Val == b.i32Val
	case KindUHex32:
		return a.u32Val == b.u32Val
	case KindInt64:
		return a.i64Val == b.i64Val
	case KindUHex64:
		return a.u64Val == b.u64Val
	case KindFloat64:
		return a.f64Val == b.f64Val
	case KindString:
		return string(a.strVal.bytes) == string(b.strVal.bytes)
	case KindArray, KindObject:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !equalsValue(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// AddChild appends child to v's ordered child list. v must be an array or
// object; for objects, child's key must already be set. Invalidates v's
// lazily-built key index (duplicate keys shadow earlier ones on lookup,
// per spec.md §3).
func (v *Value) AddChild(child *Value) error {
	if v.Type() != KindArray && v.Type() != KindObject {
		return fmt.Errorf("%w: cannot add child to %v", ErrType, v.Type())
	}
	v.children = append(v.children, child)
	v.index = nil
	return nil
}

// DetachChild removes and returns the child at position i, preserving the
// order of the remaining children. Invalidates v's key index.
func (v *Value) DetachChild(i int) (*Value, error) {
	if v.Type() != KindArray && v.Type() != KindObject {
		return nil, fmt.Errorf("%w: cannot detach from %v", ErrType, v.Type())
	}
	if i < 0 || i >= len(v.children) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrParse, i)
	}
	child := v.children[i]
	v.children = append(v.children[:i:i], v.children[i+1:]...)
	v.index = nil
	return child, nil
}

// ReplaceChild swaps the child at position i for replacement, returning the
// value it displaced. Invalidates v's key index.
func (v *Value) ReplaceChild(i int, replacement *Value) (*Value, error) {
	if v.Type() != KindArray && v.Type() != KindObject {
		return nil, fmt.Errorf("%w: cannot replace child of %v", ErrType, v.Type())
	}
	if i < 0 || i >= len(v.children) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrParse, i)
	}
	old := v.children[i]
	v.children[i] = replacement
	v.index = nil
	return old, nil
}

// DeepCopy returns a fully independent copy of v: no Value, string, or key
// descriptor in the result aliases v's storage. The copy is always
// allocated by the Go allocator, even if v lives in an Arena.
func (v *Value) DeepCopy() *Value {
	if v == nil {
		return nil
	}
	cp := &Value{
		kind:    v.kind,
		key:     copyDescriptor(v.key),
		boolVal: v.boolVal,
		i32Val:  v.i32Val,
		u32Val:  v.u32Val,
		i64Val:  v.i64Val,
		u64Val:  v.u64Val,
		f64Val:  v.f64Val,
		strVal:  copyDescriptor(v.strVal),
	}
	if len(v.children) > 0 {
		cp.children = make([]*Value, len(v.children))
		for i, c := range v.children {
			cp.children[i] = c.DeepCopy()
		}
	}
	return cp
}

func copyDescriptor(d stringDescriptor) stringDescriptor {
	if d.bytes == nil {
		return stringDescriptor{}
	}
	b := make([]byte, len(d.bytes))
	copy(b, d.bytes)
	return stringDescriptor{bytes: b, escaped: d.escaped, owned: true}
}

func newNullValue() *Value             { return &Value{kind: KindNull} }
func newBoolValue(b bool) *Value       { return &Value{kind: KindBool, boolVal: b} }
func newInt32Value(n int32) *Value     { return &Value{kind: KindInt32, i32Val: n} }
func newUHex32Value(n uint32) *Value   { return &Value{kind: KindUHex32, u32Val: n} }
func newInt64Value(n int64) *Value     { return &Value{kind: KindInt64, i64Val: n} }
func newUHex64Value(n uint64) *Value   { return &Value{kind: KindUHex64, u64Val: n} }
func newFloat64Value(f float64) *Value { return &Value{kind: KindFloat64, f64Val: f} }
func newArrayValue() *Value            { return &Value{kind: KindArray} }
func newObjectValue() *Value           { return &Value{kind: KindObject} }

func newStringValue(s stringDescriptor) *Value {
	return &Value{kind: KindString, strVal: s}
}
