package json

import (
	"errors"
	"strings"
	"testing"
)

// recordingHandler records every event as a short opcode string, e.g.
// "key:x", "int32:1", "array-start", "array-end", "array-finish".
type recordingHandler struct {
	events []string
	stopAt int // stop by returning ErrCallbackStop on the N'th recorded event (1-based); 0 disables
}

func (h *recordingHandler) record(s string) error {
	h.events = append(h.events, s)
	if h.stopAt != 0 && len(h.events) == h.stopAt {
		return ErrCallbackStop
	}
	return nil
}

func (h *recordingHandler) StartObject() error { return h.record("object-start") }
func (h *recordingHandler) EndObject(finish bool) error {
	if finish {
		return h.record("object-finish")
	}
	return h.record("object-end")
}
func (h *recordingHandler) StartArray() error { return h.record("array-start") }
func (h *recordingHandler) EndArray(finish bool) error {
	if finish {
		return h.record("array-finish")
	}
	return h.record("array-end")
}
func (h *recordingHandler) Key(key string) error    { return h.record("key:" + key) }
func (h *recordingHandler) Null() error              { return h.record("null") }
func (h *recordingHandler) Bool(b bool) error        { return h.record("bool:" + boolStr(b)) }
func (h *recordingHandler) Int32(n int32) error      { return h.record("int32:" + FormatInt32(n)) }
func (h *recordingHandler) UHex32(n uint32) error    { return h.record("uhex32:" + FormatUHex32(n)) }
func (h *recordingHandler) Int64(n int64) error      { return h.record("int64:" + FormatInt64(n)) }
func (h *recordingHandler) UHex64(n uint64) error    { return h.record("uhex64:" + FormatUHex64(n)) }
func (h *recordingHandler) Float64(f float64) error  { return h.record("float64:" + FormatFloat(f)) }
func (h *recordingHandler) String(s string) error    { return h.record("string:" + s) }

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func TestParseSAXEventOrder(t *testing.T) {
	h := &recordingHandler{}
	err := ParseSAXBytes([]byte(`{"x":[1,2]}`), h, ParseChoices{})
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	expected := []string{
		"object-start",
		"key:x",
		"array-start",
		"int32:1",
		"int32:2",
		"array-end",
		"object-end",
	}
	if len(h.events) != len(expected) {
		t.Fatalf("expected %v\ngot %v", expected, h.events)
	}
	for i := range expected {
		if h.events[i] != expected[i] {
			t.Errorf("event %d: expected %q got %q", i, expected[i], h.events[i])
		}
	}
}

func TestParseSAXMatchesDOM(t *testing.T) {
	input := `{"a":1,"b":[true,null,-2],"c":{"d":"e"}}`
	dom, err := ParseString(input)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}

	h := &recordingHandler{}
	if err := ParseSAXBytes([]byte(input), h, ParseChoices{}); err != nil {
		t.Fatalf("expected no error got %v", err)
	}

	var fromDOM []string
	var walk func(v *Value, withKey bool)
	walk = func(v *Value, withKey bool) {
		if withKey && v.KeyName() != "" {
			fromDOM = append(fromDOM, "key:"+v.KeyName())
		}
		switch v.Type() {
		case KindObject:
			fromDOM = append(fromDOM, "object-start")
			for _, c := range v.children {
				walk(c, true)
			}
			fromDOM = append(fromDOM, "object-end")
		case KindArray:
			fromDOM = append(fromDOM, "array-start")
			for _, c := range v.children {
				walk(c, false)
			}
			fromDOM = append(fromDOM, "array-end")
		case KindNull:
			fromDOM = append(fromDOM, "null")
		case KindBool:
			fromDOM = append(fromDOM, "bool:"+boolStr(v.boolVal))
		case KindInt32:
			fromDOM = append(fromDOM, "int32:"+FormatInt32(v.i32Val))
		case KindString:
			fromDOM = append(fromDOM, "string:"+string(v.strVal.bytes))
		}
	}
	walk(dom, false)

	if strings.Join(fromDOM, ",") != strings.Join(h.events, ",") {
		t.Errorf("SAX events diverge from DOM walk:\nDOM: %v\nSAX: %v", fromDOM, h.events)
	}
}

func TestParseSAXCooperativeStop(t *testing.T) {
	// Stop right after the first array element is reported; the driver
	// must still close the array and the object via finish=true calls, and
	// ParseSAX itself must return nil (cooperative stop is not an error).
	h := &recordingHandler{stopAt: 4} // object-start, key:x, array-start, int32:1 -> stop
	err := ParseSAXBytes([]byte(`{"x":[1,2]}`), h, ParseChoices{})
	if err != nil {
		t.Fatalf("expected nil error on cooperative stop, got %v", err)
	}
	expected := []string{"object-start", "key:x", "array-start", "int32:1", "array-finish", "object-finish"}
	if len(h.events) != len(expected) {
		t.Fatalf("expected %v\ngot %v", expected, h.events)
	}
	for i := range expected {
		if h.events[i] != expected[i] {
			t.Errorf("event %d: expected %q got %q", i, expected[i], h.events[i])
		}
	}
}

func TestParseSAXGenuineErrorNotUnwound(t *testing.T) {
	h := &recordingHandler{}
	err := ParseSAXBytes([]byte(`{"x":[1,}`), h, ParseChoices{})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !errors.Is(err, ErrParse) && !errors.Is(err, ErrLex) {
		t.Errorf("expected a parse/lex error, got %v", err)
	}
	for _, e := range h.events {
		if e == "array-finish" || e == "object-finish" {
			t.Errorf("genuine parse errors must not trigger the finish-unwind sequence, got event %q", e)
		}
	}
}

func TestParseSAXStreaming(t *testing.T) {
	h := &recordingHandler{}
	r := strings.NewReader(`[1, 2, 3]`)
	if err := ParseSAX(r, h, ParseChoices{FileReadSize: 4}); err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	expected := []string{"array-start", "int32:1", "int32:2", "int32:3", "array-end"}
	if len(h.events) != len(expected) {
		t.Fatalf("expected %v\ngot %v", expected, h.events)
	}
}

func TestParseSAXStrictRootMustBeContainer(t *testing.T) {
	h := &recordingHandler{}
	err := ParseSAXBytes([]byte(`5`), h, ParseChoices{Strictness: StrictLevel1})
	if err == nil {
		t.Fatal("expected an error for a non-container root in strict mode")
	}
}
