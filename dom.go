package json

import "io"

// mode is the parentStack's per-frame tag, generalizing mcvoid-json's
// parser.mode: which grammar production is currently open at that depth.
type mode int8

const (
	modeDone mode = iota
	modeArray
	modeObject
	modeKey // object is open, expecting a key string next
)

// parentStack is a growable mode/value stack, replacing a fixed
// [depth]mode/[depth*3]*Value array pair with small slices that grow by
// doubling, so nesting depth isn't bounded by a compile-time constant.
type parentStack struct {
	modes  []mode
	values []*Value // one container per open array/object
}

func newParentStack() *parentStack {
	return &parentStack{
		modes:  make([]mode, 0, 16),
		values: make([]*Value, 0, 16),
	}
}

func (s *parentStack) pushContainer(m mode, v *Value) {
	s.modes = append(s.modes, m)
	s.values = append(s.values, v)
}

func (s *parentStack) top() mode {
	if len(s.modes) == 0 {
		return modeDone
	}
	return s.modes[len(s.modes)-1]
}

func (s *parentStack) topValue() *Value {
	if len(s.values) == 0 {
		return nil
	}
	return s.values[len(s.values)-1]
}

func (s *parentStack) pop() (mode, *Value) {
	m := s.modes[len(s.modes)-1]
	v := s.values[len(s.values)-1]
	s.modes = s.modes[:len(s.modes)-1]
	s.values = s.values[:len(s.values)-1]
	return m, v
}

func (s *parentStack) depth() int { return len(s.modes) }

// maxNestingDepth mirrors mcvoid-json's parser.depth constant: "if your data
// is deeper than this, you have bigger problems than the parser failing."
const maxNestingDepth = 1024

// domDriver builds a *Value tree, sharing the scanning primitives of
// lexer.go with sax.go's event-driven counterpart.
type domDriver struct {
	sc      *scanner
	choices ParseChoices
	arena   *Arena
	allocFn func(n int) []byte
	stack   *parentStack
}

// ParseChoices configures a DOM or SAX parse, per spec.md §6 / §4.1-§4.2.
type ParseChoices struct {
	// MemBlockSize is the block-size floor of the Arena that ParseBytes and
	// ParseReader create when Arena is nil: the first block has this size
	// and later blocks max(input size / 8, MemBlockSize), where the input
	// size is len(b) for ParseBytes and InputLength for ParseReader; 0
	// means defaultBlockSize.
	MemBlockSize int
	// FileReadSize is the read-buffer growth increment for ParseReader; 0
	// picks defaultReadSize.
	FileReadSize int
	// InputLength, if known ahead of time (e.g. from a file's stat),
	// improves the Arena's adaptive block sizing for ParseReader.
	InputLength int
	// ReuseInPlace decodes string literals into the input buffer itself
	// instead of allocating, valid only for ParseBytes with a buffer the
	// caller will not reuse elsewhere.
	ReuseInPlace bool
	// PreferZeroCopy returns string values as slices directly into the
	// input buffer whenever no escape appears, falling back to an
	// allocated copy only once one does; valid only for ParseBytes (a
	// streaming source can't keep raw bytes addressable after a
	// compaction). Ignored when ReuseInPlace or Arena is also set.
	PreferZeroCopy bool
	// Arena, if non-nil, holds the decoded key and string bytes of an
	// in-memory parse; Value nodes are Go heap objects either way, and a
	// streaming parse builds its strings on the Go heap. The caller owns
	// the Arena's lifetime (freeAll/refresh). When
	// nil and neither ReuseInPlace nor PreferZeroCopy is requested,
	// ParseBytes/ParseReader construct one automatically.
	Arena *Arena
	// Strictness selects which RFC 8259 extensions are accepted.
	Strictness StrictLevel
	// AllowHex gates the 0x/0X integer literal extension independently
	// of Strictness, per spec.md §9's Open Questions resolution.
	AllowHex bool
}

func newDOMDriver(src byteSource, choices ParseChoices) *domDriver {
	d := &domDriver{
		sc: &scanner{src: src, strict: choices.Strictness, allowHex: choices.AllowHex},
		choices: choices,
		stack:   newParentStack(),
	}
	if choices.Arena != nil {
		d.arena = choices.Arena
	}
	if d.arena != nil {
		d.allocFn = func(n int) []byte { return d.arena.alloc(n) }
	} else {
		d.allocFn = func(n int) []byte { return make([]byte, 0, n) }
	}
	return d
}

func (d *domDriver) newValue() *Value {
	if d.arena != nil {
		return (nodeArena{a: d.arena}).allocValue()
	}
	return &Value{}
}

func (d *domDriver) stringMode() stringMode {
	if d.arena != nil {
		return stringModeCopy
	}
	if d.choices.ReuseInPlace {
		return stringModeReuseInPlace
	}
	return stringModePreferZeroCopy
}

// ParseBytes parses a complete in-memory JSON document, per spec.md §4.1/§6.
// An Arena is synthesized automatically only when the caller hasn't asked
// for one of the allocation-avoiding modes (ReuseInPlace, PreferZeroCopy) or
// supplied an Arena of their own — matching ParseSAXBytes's default of
// leaving choices.Arena untouched.
func ParseBytes(b []byte, choices ParseChoices) (*Value, error) {
	src := newMemorySource(b)
	if choices.Arena == nil && !choices.ReuseInPlace && !choices.PreferZeroCopy {
		a := NewArena(choices.MemBlockSize)
		a.adaptBlockSize(len(b), choices.MemBlockSize)
		choices.Arena = a
	}
	d := newDOMDriver(src, choices)
	return d.parseDocument()
}

// ParseString parses a complete in-memory JSON document held in a string,
// using relaxed strictness and an automatically created Arena, exactly as
// ParseBytes does with zero ParseChoices — the simple entry point
// alongside ParseBytes for callers that don't need ParseChoices.
func ParseString(s string) (*Value, error) {
	return ParseBytes([]byte(s), ParseChoices{})
}

// ParseReader parses a complete JSON document from a streaming reader, per
// spec.md §4.2/§6. ReuseInPlace and PreferZeroCopy have no effect here (a
// fileSource's buffer is compacted as parsing advances, so scanString
// always takes its incremental path regardless of stringMode), but are
// still honored for the arena decision below to keep ParseBytes and
// ParseReader's defaulting rule identical.
func ParseReader(r io.Reader, choices ParseChoices) (*Value, error) {
	readSize := choices.FileReadSize
	src := newFileSource(r, readSize)
	if choices.Arena == nil && !choices.ReuseInPlace && !choices.PreferZeroCopy {
		a := NewArena(choices.MemBlockSize)
		a.adaptBlockSize(choices.InputLength, choices.MemBlockSize)
		choices.Arena = a
	}
	d := newDOMDriver(src, choices)
	return d.parseDocument()
}

// parseDocument drives the full value grammar (spec.md §4.5): skip leading
// whitespace, parse exactly one value, then (at StrictLevel1 and above)
// reject trailing non-whitespace garbage.
func (d *domDriver) parseDocument() (*Value, error) {
	if err := d.sc.skipWhitespace(); err != nil {
		return nil, err
	}
	root, err := d.parseValue()
	if err != nil {
		return nil, err
	}
	if d.choices.Strictness >= StrictLevel1 {
		if root.Type() != KindArray && root.Type() != KindObject {
			return nil, parseErrorAt(d.sc.src.offset(), nil, "strict mode requires an array or object root")
		}
	}
	if err := d.sc.skipWhitespace(); err != nil {
		return nil, err
	}
	if d.choices.Strictness >= StrictLevel1 {
		if _, ok, err := d.sc.peekByte(); err != nil {
			return nil, err
		} else if ok {
			return nil, parseErrorAt(d.sc.src.offset(), nil, "trailing garbage after root value")
		}
	}
	return root, nil
}

// parseValue parses exactly one JSON value (object, array, string, number,
// bool, or null) starting at the current position, generalizing
// mcvoid-json's start/value/array states into an explicit recursive
// structural driver built on top of lexer.go's atomic literal scanners.
func (d *domDriver) parseValue() (*Value, error) {
	if err := d.sc.skipWhitespace(); err != nil {
		return nil, err
	}
	b, ok, err := d.sc.peekByte()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, parseErrorAt(d.sc.src.offset(), nil, "unexpected end of input")
	}
	switch b {
	case '{':
		return d.parseObject()
	case '[':
		return d.parseArray()
	case '"':
		d.sc.src.advance(1)
		desc, err := d.sc.scanString(d.stringMode(), d.allocFn)
		if err != nil {
			return nil, err
		}
		v := d.newValue()
		*v = Value{kind: KindString, strVal: desc}
		return v, nil
	case 't':
		return d.parseLiteralWord("true", func() *Value {
			v := d.newValue()
			*v = Value{kind: KindBool, boolVal: true}
			return v
		})
	case 'f':
		return d.parseLiteralWord("false", func() *Value {
			v := d.newValue()
			*v = Value{kind: KindBool, boolVal: false}
			return v
		})
	case 'n':
		return d.parseLiteralWord("null", func() *Value {
			v := d.newValue()
			*v = Value{kind: KindNull}
			return v
		})
	default:
		return d.parseNumber()
	}
}

func (d *domDriver) parseLiteralWord(word string, build func() *Value) (*Value, error) {
	startOffset := d.sc.src.offset()
	for i := 0; i < len(word); i++ {
		b, ok, err := d.sc.readByte()
		if err != nil {
			return nil, err
		}
		if !ok || b != word[i] {
			return nil, parseErrorAt(startOffset, nil, "invalid literal, expected %q", word)
		}
	}
	return build(), nil
}

func (d *domDriver) parseNumber() (*Value, error) {
	res, err := d.sc.scanNumber()
	if err != nil {
		return nil, err
	}
	v := d.newValue()
	switch res.kind {
	case KindInt32:
		*v = Value{kind: KindInt32, i32Val: res.i32}
	case KindUHex32:
		*v = Value{kind: KindUHex32, u32Val: res.u32}
	case KindInt64:
		*v = Value{kind: KindInt64, i64Val: res.i64}
	case KindUHex64:
		*v = Value{kind: KindUHex64, u64Val: res.u64}
	case KindFloat64:
		*v = Value{kind: KindFloat64, f64Val: res.f64}
	default:
		return nil, parseErrorAt(d.sc.src.offset(), nil, "malformed number literal")
	}
	return v, nil
}

func (d *domDriver) parseArray() (*Value, error) {
	startOffset := d.sc.src.offset()
	d.sc.src.advance(1) // consume '['
	if d.stack.depth() >= maxNestingDepth {
		return nil, parseErrorAt(startOffset, nil, "nested JSON max depth exceeded")
	}
	arr := d.newValue()
	*arr = Value{kind: KindArray}
	d.stack.pushContainer(modeArray, arr)
	defer d.stack.pop()

	if err := d.sc.skipWhitespace(); err != nil {
		return nil, err
	}
	if b, ok, err := d.sc.peekByte(); err != nil {
		return nil, err
	} else if ok && b == ']' {
		d.sc.src.advance(1)
		return arr, nil
	}

	for {
		elem, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		arr.children = append(arr.children, elem)

		if err := d.sc.skipWhitespace(); err != nil {
			return nil, err
		}
		b, ok, err := d.sc.readByte()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, parseErrorAt(d.sc.src.offset(), nil, "unterminated array")
		}
		switch b {
		case ',':
			if err := d.sc.skipWhitespace(); err != nil {
				return nil, err
			}
			if bb, ok, err := d.sc.peekByte(); err != nil {
				return nil, err
			} else if ok && bb == ']' {
				if d.choices.Strictness >= StrictLevel1 {
					return nil, parseErrorAt(d.sc.src.offset(), nil, "trailing comma not allowed in strict mode")
				}
				d.sc.src.advance(1)
				return arr, nil
			}
			continue
		case ']':
			return arr, nil
		default:
			return nil, parseErrorAt(d.sc.src.offset()-1, []byte{b}, "expected ',' or ']' in array")
		}
	}
}

func (d *domDriver) parseObject() (*Value, error) {
	startOffset := d.sc.src.offset()
	d.sc.src.advance(1) // consume '{'
	if d.stack.depth() >= maxNestingDepth {
		return nil, parseErrorAt(startOffset, nil, "nested JSON max depth exceeded")
	}
	obj := d.newValue()
	*obj = Value{kind: KindObject}
	d.stack.pushContainer(modeObject, obj)
	defer d.stack.pop()

	if err := d.sc.skipWhitespace(); err != nil {
		return nil, err
	}
	if b, ok, err := d.sc.peekByte(); err != nil {
		return nil, err
	} else if ok && b == '}' {
		d.sc.src.advance(1)
		return obj, nil
	}

	for {
		keyDesc, err := d.parseKey()
		if err != nil {
			return nil, err
		}
		if err := d.sc.skipWhitespace(); err != nil {
			return nil, err
		}
		b, ok, err := d.sc.readByte()
		if err != nil {
			return nil, err
		}
		if !ok || b != ':' {
			return nil, parseErrorAt(d.sc.src.offset(), nil, "expected ':' after object key")
		}
		member, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		member.key = keyDesc
		obj.children = append(obj.children, member)

		if err := d.sc.skipWhitespace(); err != nil {
			return nil, err
		}
		b, ok, err = d.sc.readByte()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, parseErrorAt(d.sc.src.offset(), nil, "unterminated object")
		}
		switch b {
		case ',':
			if err := d.sc.skipWhitespace(); err != nil {
				return nil, err
			}
			if bb, ok, err := d.sc.peekByte(); err != nil {
				return nil, err
			} else if ok && bb == '}' {
				if d.choices.Strictness >= StrictLevel1 {
					return nil, parseErrorAt(d.sc.src.offset(), nil, "trailing comma not allowed in strict mode")
				}
				d.sc.src.advance(1)
				return obj, nil
			}
			continue
		case '}':
			return obj, nil
		default:
			return nil, parseErrorAt(d.sc.src.offset()-1, []byte{b}, "expected ',' or '}' in object")
		}
	}
}

func (d *domDriver) parseKey() (stringDescriptor, error) {
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
