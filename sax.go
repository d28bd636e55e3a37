package json

import (
	"errors"
	"io"
)

// SAXHandler receives parse events in depth-first document order, per
// spec.md §4.6: one call per scalar value, one StartObject/StartArray per
// container open, and one EndObject/EndArray per container close. Within an
// object, Key precedes the event for its member's value; array elements
// carry no key.
//
// Any method may return ErrCallbackStop (or an error wrapping it) to
// request cooperative cancellation: the driver stops advancing through the
// input, calls EndObject/EndArray with finish=true once for every container
// still open at that point (innermost first), and ParseSAX then returns
// nil. Returning any other error aborts the parse immediately and that
// error is returned from ParseSAX as-is.
type SAXHandler interface {
	StartObject() error
	EndObject(finish bool) error
	StartArray() error
	EndArray(finish bool) error
	Key(key string) error
	Null() error
	Bool(b bool) error
	Int32(n int32) error
	UHex32(n uint32) error
	Int64(n int64) error
	UHex64(n uint64) error
	Float64(f float64) error
	String(s string) error
}

// saxDriver shares lexer.go's scanner and dom.go's mode/maxNestingDepth with
// domDriver, replacing node construction with handler calls, per spec.md
// §4.6 ("identical state machine to L5").
type saxDriver struct {
	sc      *scanner
	choices ParseChoices
	h       SAXHandler
	allocFn func(n int) []byte
	frames  []mode // open containers; popped only on a normal (non-stop) close
}

func newSAXDriver(src byteSource, h SAXHandler, choices ParseChoices) *saxDriver {
	d := &saxDriver{
		sc:      &scanner{src: src, strict: choices.Strictness, allowHex: choices.AllowHex},
		choices: choices,
		h:       h,
		frames:  make([]mode, 0, 16),
	}
	if choices.Arena != nil {
		a := choices.Arena
		d.allocFn = func(n int) []byte { return a.alloc(n) }
	} else {
		d.allocFn = func(n int) []byte { return make([]byte, 0, n) }
	}
	return d
}

func (d *saxDriver) stringMode() stringMode {
	if d.choices.Arena != nil {
		return stringModeCopy
	}
	if d.choices.ReuseInPlace {
		return stringModeReuseInPlace
	}
	return stringModePreferZeroCopy
}

// ParseSAX drives h over a streaming JSON document, never materializing a
// tree, per spec.md §4.6.
func ParseSAX(r io.Reader, h SAXHandler, choices ParseChoices) error {
	src := newFileSource(r, choices.FileReadSize)
	d := newSAXDriver(src, h, choices)
	return d.run()
}

// ParseSAXBytes drives h over an in-memory JSON document, enabling the
// zero-copy string path (stringModePreferZeroCopy) that a streaming source
// can't support.
func ParseSAXBytes(b []byte, h SAXHandler, choices ParseChoices) error {
	src := newMemorySource(b)
	d := newSAXDriver(src, h, choices)
	return d.run()
}

func (d *saxDriver) run() error {
	if err := d.sc.skipWhitespace(); err != nil {
		return err
	}
	isContainer, err := d.parseValue()
	if err != nil {
		if errors.Is(err, ErrCallbackStop) {
			d.unwind()
			return nil
		}
		return err
	}
	if d.choices.Strictness >= StrictLevel1 && !isContainer {
		return parseErrorAt(d.sc.src.offset(), nil, "strict mode requires an array or object root")
	}
	if err := d.sc.skipWhitespace(); err != nil {
		return err
	}
	if d.choices.Strictness >= StrictLevel1 {
		if _, ok, err := d.sc.peekByte(); err != nil {
			return err
		} else if ok {
			return parseErrorAt(d.sc.src.offset(), nil, "trailing garbage after root value")
		}
	}
	return nil
}

// unwind implements the "finish" sequence spec.md §4.6/§7 describes for a
// cooperative stop: every container still open is closed from innermost to
// outermost via a finish=true EndObject/EndArray call. Errors from these
// calls are deliberately ignored — a handler that asked to stop doesn't get
// a second vote on the outcome.
func (d *saxDriver) unwind() {
	for i := len(d.frames) - 1; i >= 0; i-- {
		switch d.frames[i] {
		case modeArray:
			_ = d.h.EndArray(true)
		case modeObject:
			_ = d.h.EndObject(true)
		}
	}
	d.frames = d.frames[:0]
}

// parseValue parses one value and reports whether it was an array/object,
// mirroring domDriver.parseValue's dispatch but calling h instead of
// building a *Value.
func (d *saxDriver) parseValue() (bool, error) {
	if err := d.sc.skipWhitespace(); err != nil {
		return false, err
	}
	b, ok, err := d.sc.peekByte()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, parseErrorAt(d.sc.src.offset(), nil, "unexpected end of input")
	}
	switch b {
	case '{':
		return true, d.parseObject()
	case '[':
		return true, d.parseArray()
	case '"':
		d.sc.src.advance(1)
		desc, err := d.sc.scanString(d.stringMode(), d.allocFn)
		if err != nil {
			return false, err
		}
		return false, d.h.String(string(desc.bytes))
	case 't':
		if err := d.expectLiteral("true"); err != nil {
			return false, err
		}
		return false, d.h.Bool(true)
	case 'f':
		if err := d.expectLiteral("false"); err != nil {
			return false, err
		}
		return false, d.h.Bool(false)
	case 'n':
		if err := d.expectLiteral("null"); err != nil {
			return false, err
		}
		return false, d.h.Null()
	default:
		return false, d.parseNumber()
	}
}

func (d *saxDriver) expectLiteral(word string) error {
	startOffset := d.sc.src.offset()
	for i := 0; i < len(word); i++ {
		b, ok, err := d.sc.readByte()
		if err != nil {
			return err
		}
		if !ok || b != word[i] {
			return parseErrorAt(startOffset, nil, "invalid literal, expected %q", word)
		}
	}
	return nil
}

func (d *saxDriver) parseNumber() error {
	res, err := d.sc.scanNumber()
	if err != nil {
		return err
	}
	switch res.kind {
	case KindInt32:
		return d.h.Int32(res.i32)
	case KindUHex32:
		return d.h.UHex32(res.u32)
	case KindInt64:
		return d.h.Int64(res.i64)
	case KindUHex64:
		return d.h.UHex64(res.u64)
	case KindFloat64:
		return d.h.Float64(res.f64)
	default:
		return parseErrorAt(d.sc.src.offset(), nil, "malformed number literal")
	}
}

func (d *saxDriver) parseArray() error {
	startOffset := d.sc.src.offset()
	d.sc.src.advance(1) // consume '['
	if len(d.frames) >= maxNestingDepth {
		return parseErrorAt(startOffset, nil, "nested JSON max depth exceeded")
	}
	if err := d.h.StartArray(); err != nil {
		return err
	}
	d.frames = append(d.frames, modeArray)

	if err := d.sc.skipWhitespace(); err != nil {
		return err
	}
	if b, ok, err := d.sc.peekByte(); err != nil {
		return err
	} else if ok && b == ']' {
		d.sc.src.advance(1)
		d.frames = d.frames[:len(d.frames)-1]
		return d.h.EndArray(false)
	}

	for {
		if _, err := d.parseValue(); err != nil {
			return err
		}

		if err := d.sc.skipWhitespace(); err != nil {
			return err
		}
		b, ok, err := d.sc.readByte()
		if err != nil {
			return err
		}
		if !ok {
			return parseErrorAt(d.sc.src.offset(), nil, "unterminated array")
		}
		switch b {
		case ',':
			if err := d.sc.skipWhitespace(); err != nil {
				return err
			}
			if bb, ok, err := d.sc.peekByte(); err != nil {
				return err
			} else if ok && bb == ']' {
				if d.choices.Strictness >= StrictLevel1 {
					return parseErrorAt(d.sc.src.offset(), nil, "trailing comma not allowed in strict mode")
				}
				d.sc.src.advance(1)
				d.frames = d.frames[:len(d.frames)-1]
				return d.h.EndArray(false)
			}
			continue
		case ']':
			d.frames = d.frames[:len(d.frames)-1]
			return d.h.EndArray(false)
		default:
			return parseErrorAt(d.sc.src.offset()-1, []byte{b}, "expected ',' or ']' in array")
		}
	}
}

func (d *saxDriver) parseObject() error {
	startOffset := d.sc.src.offset()
	d.sc.src.advance(1) // consume '{'
	if len(d.frames) >= maxNestingDepth {
		return parseErrorAt(startOffset, nil, "nested JSON max depth exceeded")
	}
	if err := d.h.StartObject(); err != nil {
		return err
	}
	d.frames = append(d.frames, modeObject)

	if err := d.sc.skipWhitespace(); err != nil {
		return err
	}
	if b, ok, err := d.sc.peekByte(); err != nil {
		return err
	} else if ok && b == '}' {
		d.sc.src.advance(1)
		d.frames = d.frames[:len(d.frames)-1]
		return d.h.EndObject(false)
	}

	for {
		keyDesc, err := d.parseKey()
		if err != nil {
			return err
		}
		if err := d.h.Key(string(keyDesc.bytes)); err != nil {
			return err
		}

		if err := d.sc.skipWhitespace(); err != nil {
			return err
		}
		b, ok, err := d.sc.readByte()
		if err != nil {
			return err
		}
		if !ok || b != ':' {
			return parseErrorAt(d.sc.src.offset(), nil, "expected ':' after object key")
		}

		if _, err := d.parseValue(); err != nil {
			return err
		}

		if err := d.sc.skipWhitespace(); err != nil {
			return err
		}
		b, ok, err = d.sc.readByte()
		if err != nil {
			return err
		}
		if !ok {
			return parseErrorAt(d.sc.src.offset(), nil, "unterminated object")
		}
		switch b {
		case ',':
			if err := d.sc.skipWhitespace(); err != nil {
				return err
			}
			if bb, ok, err := d.sc.peekByte(); err != nil {
				return err
			} else if ok && bb == '}' {
				if d.choices.Strictness >= StrictLevel1 {
					return parseErrorAt(d.sc.src.offset(), nil, "trailing comma not allowed in strict mode")
				}
				d.sc.src.advance(1)
				d.frames = d.frames[:len(d.frames)-1]
				return d.h.EndObject(false)
			}
			continue
		case '}':
			d.frames = d.frames[:len(d.frames)-1]
			return d.h.EndObject(false)
		default:
			return parseErrorAt(d.sc.src.offset()-1, []byte{b}, "expected ',' or '}' in object")
		}
	}
}

func (d *saxDriver) parseKey() (stringDescriptor, error) {
	if err := d.sc.skipWhitespace(); err != nil {
		return stringDescriptor{}, err
	}
	b, ok, err := d.sc.readByte()
	if err != nil {
		return stringDescriptor{}, err
	}
	if !ok || b != '"' {
		return stringDescriptor{}, parseErrorAt(d.sc.src.offset(), nil, "expected object key string")
	}
	startOffset := d.sc.src.offset()
	desc, err := d.sc.scanString(d.stringMode(), d.allocFn)
	if err != nil {
		return stringDescriptor{}, err
	}
	if d.choices.Strictness >= StrictLevel1 && len(desc.bytes) == 0 {
		return stringDescriptor{}, parseErrorAt(startOffset, nil, "empty object key not allowed in strict mode")
	}
	return desc, nil
}
