package json

import (
	"fmt"
	"testing"
)

func TestKindStrings(t *testing.T) {
	for _, test := range []struct {
		input    Kind
		expected string
	}{
		{KindNull, kindStrings[KindNull]},
		{KindArray, kindStrings[KindArray]},
		{KindObject, kindStrings[KindObject]},
		{KindBool, kindStrings[KindBool]},
		{KindInt32, kindStrings[KindInt32]},
		{KindInt64, kindStrings[KindInt64]},
		{KindUHex32, kindStrings[KindUHex32]},
		{KindUHex64, kindStrings[KindUHex64]},
		{KindFloat64, kindStrings[KindFloat64]},
		{KindString, kindStrings[KindString]},
		{numKinds, "<unknown>"},
		{100, "<unknown>"},
		{-1, "<unknown>"},
	} {
		t.Run(fmt.Sprintf("%v", test.input), func(t *testing.T) {
			actual := test.input.String()
			if test.expected != actual {
				t.Errorf("expected %v got %v", test.expected, actual)
			}
		})
	}
}

func TestType(t *testing.T) {
	for _, test := range []struct {
		input    Value
		expected Kind
	}{
		{Value{kind: KindNull}, KindNull},
		{Value{kind: KindArray}, KindArray},
		{Value{kind: KindObject}, KindObject},
		{Value{kind: KindBool}, KindBool},
		{Value{kind: KindInt32}, KindInt32},
		{Value{kind: KindInt64}, KindInt64},
		{Value{kind: KindFloat64}, KindFloat64},
		{Value{kind: KindString}, KindString},
		{Value{kind: numKinds}, kindUnknown},
		{Value{kind: 100}, kindUnknown},
		{Value{kind: -1}, kindUnknown},
	} {
		t.Run(fmt.Sprintf("%v", test.input), func(t *testing.T) {
			actual := test.input.Type()
			if test.expected != actual {
				t.Errorf("expected %v got %v", test.expected, actual)
			}
		})
	}
}

func TestAsNull(t *testing.T) {
	val := Value{}
	if _, err := val.AsNull(); err != nil {
		t.Errorf("expected no error got %v", err)
	}
	val = Value{kind: KindBool, boolVal: true}
	if _, err := val.AsNull(); err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsNumber(t *testing.T) {
	val := Value{kind: KindFloat64, f64Val: 5}
	num, err := val.AsNumber()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if num != 5 {
		t.Errorf("expected %v got %v", 5, num)
	}

	val = Value{kind: KindInt32, i32Val: 5}
	num, err = val.AsNumber()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if num != 5 {
		t.Errorf("expected %v got %v", 5, num)
	}

	val = Value{kind: KindInt64, i64Val: 5}
	num, err = val.AsNumber()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if num != 5 {
		t.Errorf("expected %v got %v", 5, num)
	}

	val = Value{kind: KindUHex32, u32Val: 5}
	num, err = val.AsNumber()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if num != 5 {
		t.Errorf("expected %v got %v", 5, num)
	}

	val = Value{kind: KindBool, boolVal: true}
	_, err = val.AsNumber()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsInt32(t *testing.T) {
	val := Value{kind: KindInt32, i32Val: 5}
	num, err := val.AsInt32()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if num != 5 {
		t.Errorf("expected %v got %v", 5, num)
	}

	val = Value{kind: KindBool, boolVal: true}
	_, err = val.AsInt32()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsInt64(t *testing.T) {
	val := Value{kind: KindInt64, i64Val: 5}
	num, err := val.AsInt64()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if num != 5 {
		t.Errorf("expected %v got %v", 5, num)
	}

	// AsInt64 does not widen from int32; a KindInt32 value is still an error.
	val = Value{kind: KindInt32, i32Val: 5}
	_, err = val.AsInt64()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsString(t *testing.T) {
	val := Value{kind: KindString, strVal: newStringDescriptor("5")}
	s, err := val.AsString()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if s != "5" {
		t.Errorf("expected %v got %v", "5", s)
	}

	val = Value{kind: KindBool, boolVal: true}
	_, err = val.AsString()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsBool(t *testing.T) {
	val := Value{kind: KindBool, boolVal: true}
	b, err := val.AsBool()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if b != true {
		t.Errorf("expected %v got %v", true, b)
	}

	val = Value{}
	_, err = val.AsBool()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsArray(t *testing.T) {
	val := Value{kind: KindArray, children: []*Value{{}}}
	a, err := val.AsArray()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if !equalsValue(a[0], &Value{}) {
		t.Errorf("expected %v got %v", &Value{}, a[0])
	}

	val = Value{}
	_, err = val.AsArray()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestAsObject(t *testing.T) {
	val := Value{kind: KindObject, children: []*Value{
		{key: newStringDescriptor("a")},
	}}
	o, err := val.AsObject()
	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	if !equalsValue(o["a"], &Value{key: newStringDescriptor("a")}) {
		t.Errorf("expected %v got %v", &Value{}, o["a"])
	}

	val = Value{}
	_, err = val.AsObject()
	if err == nil {
		t.Errorf("expected error got none")
	}
}

func TestMembers(t *testing.T) {
	obj := Value{kind: KindObject, children: []*Value{
		{key: newStringDescriptor("a"), kind: KindInt32, i32Val: 1},
		{key: newStringDescriptor("b"), kind: KindInt32, i32Val: 2},
	}}
	members, err := obj.Members()
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if len(members) != 2 || members[0].KeyName() != "a" || members[1].KeyName() != "b" {
		t.Errorf("expected order-preserving members, got %v", members)
	}

	val := Value{}
	if _, err := val.Members(); err == nil {
		t.Errorf("expected error got none")
	}
}

func TestLen(t *testing.T) {
	arr := Value{kind: KindArray, children: []*Value{{}, {}, {}}}
	if arr.Len() != 3 {
		t.Errorf("expected 3 got %v", arr.Len())
	}
	val := Value{kind: KindBool, boolVal: true}
	if val.Len() != 0 {
		t.Errorf("expected 0 got %v", val.Len())
	}
	var nilVal *Value
	if nilVal.Len() != 0 {
		t.Errorf("expected 0 got %v", nilVal.Len())
	}
}

func TestString(t *testing.T) {
	for _, test := range []struct {
		input    Value
		expected string
	}{
		{Value{}, "null"},
		{Value{kind: KindInt32, i32Val: -5}, `-5`},
		{Value{kind: KindInt64, i64Val: -5}, `-5`},
		{Value{kind: KindFloat64, f64Val: -5}, `-5.0`},
		{Value{kind: KindFloat64, f64Val: -5.1}, `-5.1`},
		{Value{kind: KindFloat64, f64Val: -5.12}, `-5.12`},
		{Value{kind: KindString, strVal: newStringDescriptor("-5.12")}, `"-5.12"`},
		{Value{kind: KindBool, boolVal: true}, `true`},
		{Value{kind: KindBool, boolVal: false}, `false`},
		{Value{kind: KindArray, children: []*Value{
			{},
			{kind: KindInt32, i32Val: -5},
			{kind: KindString, strVal: newStringDescriptor("-5.12")},
			{kind: KindBool, boolVal: true},
		}}, `[null, -5, "-5.12", true]`},
		{Value{kind: KindObject, children: []*Value{
			{key: newStringDescriptor("a")},
			{key: newStringDescriptor("b"), kind: KindInt32, i32Val: -5},
			{key: newStringDescriptor("c"), kind: KindString, strVal: newStringDescriptor("-5.12")},
			{key: newStringDescriptor("d"), kind: KindBool, boolVal: true},
		}}, `{"a": null, "b": -5, "c": "-5.12", "d": true}`},
		{Value{kind: numKinds, i32Val: -5}, `<unknown>`},
	} {
		t.Run(fmt.Sprintf("%v", test.input), func(t *testing.T) {
			actual := test.input.String()
			if test.expected != actual {
				t.Errorf("expected %v got %v", test.expected, actual)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	val, err := ParseString(`[[[true, false]]]`)

	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	for _, test := range []struct {
		actual   *Value
		expected *Value
	}{
		{
			val.Index(0).Index(0).Index(0),
			&Value{kind: KindBool, boolVal: true},
		},
		{
			val.Index(0).Index(0).Index(1),
			&Value{kind: KindBool, boolVal: false},
		},
		{
			val.Index(0).Index(0).Index(2),
			&Value{},
		},
		{
			val.Index(0).Index(1).Index(2),
			&Value{},
		},
		{
			val.Index(-1).Index(1).Index(2),
			&Value{},
		},
	} {
		t.Run(fmt.Sprintf("%v", test.actual), func(t *testing.T) {
			if !equalsValue(test.actual, test.expected) {
				t.Errorf("expected %v\ngot %v", test.expected, test.actual)
			}
		})
	}
}

func TestKey(t *testing.T) {
	val, err := ParseString(`{"a": {"b": {"c": true, "d":false}}}`)

	if err != nil {
		t.Errorf("expected no error got %v", err)
	}
	for _, test := range []struct {
		actual   *Value
		expected *Value
	}{
		{
			val.Key("a").Key("b").Key("c"),
			&Value{kind: KindBool, boolVal: true, key: newStringDescriptor("c")},
		},
		{
			val.Key("a").Key("b").Key("d"),
			&Value{kind: KindBool, boolVal: false, key: newStringDescriptor("d")},
		},
		{
			val.Key("a").Key("b").Key("e"),
			&Value{},
		},
		{
			val.Key("a").Key("e").Key("d"),
			&Value{},
		},
		{
			val.Key("e").Key("b").Key("d"),
			&Value{},
		},
	} {
		t.Run(fmt.Sprintf("%v", test.actual), func(t *testing.T) {
			if !equalsValue(test.actual, test.expected) {
				t.Errorf("expected %v\ngot %v", test.expected, test.actual)
			}
		})
	}
}

func TestAddDetachReplaceChild(t *testing.T) {
	arr := newArrayValue()
	if err := arr.AddChild(newInt32Value(1)); err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if err := arr.AddChild(newInt32Value(2)); err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if arr.Len() != 2 {
		t.Fatalf("expected len 2 got %v", arr.Len())
	}

	old, err := arr.ReplaceChild(0, newInt32Value(100))
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if v, _ := old.AsInt32(); v != 1 {
		t.Errorf("expected displaced value 1 got %v", v)
	}
	if v, _ := arr.Index(0).AsInt32(); v != 100 {
		t.Errorf("expected 100 got %v", v)
	}

	detached, err := arr.DetachChild(0)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if v, _ := detached.AsInt32(); v != 100 {
		t.Errorf("expected 100 got %v", v)
	}
	if arr.Len() != 1 {
		t.Errorf("expected len 1 got %v", arr.Len())
	}

	if _, err := arr.DetachChild(5); err == nil {
		t.Errorf("expected out-of-range error got none")
	}

	notContainer := newInt32Value(1)
	if err := notContainer.AddChild(newInt32Value(2)); err == nil {
		t.Errorf("expected error adding to non-container value")
	}
}

func TestDeepCopy(t *testing.T) {
	original, err := ParseString(`{"a": [1, "x", true]}`)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	cp := original.DeepCopy()
	if !equalsValue(original, cp) {
		t.Fatalf("expected copy to equal original")
	}

	// mutating the copy's array must not affect the original.
	if err := cp.Key("a").AddChild(newBoolValue(false)); err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if cp.Key("a").Len() == original.Key("a").Len() {
		t.Errorf("expected copy's array to diverge in length from original")
	}
}
