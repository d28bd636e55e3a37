package json

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// StrictLevel selects which RFC 8259 extensions this package accepts, per
// spec.md §6.
type StrictLevel int

// Strictness levels.
const (
	// StrictRelaxed accepts 0x hex integers (when ParseChoices.AllowHex is
	// set), control bytes inside string literals, empty keys, and a
	// non-object/non-array root.
	StrictRelaxed StrictLevel = iota
	// StrictLevel1 forbids empty keys and trailing garbage after the root.
	StrictLevel1
	// StrictLevel2 additionally forbids hex integers, leading zeros on
	// decimals, and sub-space bytes in string literals.
	StrictLevel2
)

func isWhitespace(b byte) bool { return b <= 0x20 }

// scanner wraps a byteSource with the lexical rules of spec.md §4.3: string
// and number literal scanning, gated by strictness and the hex-literal
// opt-in.
type scanner struct {
	src      byteSource
	strict   StrictLevel
	allowHex bool
}

// readByte returns the next byte and advances past it, or ok=false at EOF.
func (sc *scanner) readByte() (b byte, ok bool, err error) {
	peeked, err := sc.src.peek(1)
	if err != nil {
		return 0, false, err
	}
	if len(peeked) == 0 {
		return 0, false, nil
	}
	b = peeked[0]
	sc.src.advance(1)
	return b, true, nil
}

// peekByte returns the next byte without advancing, or ok=false at EOF.
func (sc *scanner) peekByte() (b byte, ok bool, err error) {
	peeked, err := sc.src.peek(1)
	if err != nil {
		return 0, false, err
	}
	if len(peeked) == 0 {
		return 0, false, nil
	}
	return peeked[0], true, nil
}

// skipWhitespace advances past any run of bytes <= 0x20.
func (sc *scanner) skipWhitespace() error {
	for {
		b, ok, err := sc.peekByte()
		if err != nil {
			return err
		}
		if !ok || !isWhitespace(b) {
			return nil
		}
		sc.src.advance(1)
	}
}

// stringMode selects how scanString materializes the decoded string body.
type stringMode int

const (
	// stringModeCopy always allocates a destination buffer (via alloc)
	// and decodes into it, even when no escapes are present.
	stringModeCopy stringMode = iota
	// stringModeReuseInPlace decodes into the source's own backing
	// array, overwriting it; falls back to stringModeCopy when the
	// source isn't a writable in-memory buffer.
	stringModeReuseInPlace
	// stringModePreferZeroCopy returns a slice directly into the source
	// buffer when no escapes are found, falling back to stringModeCopy
	// (via alloc) the moment an escape appears.
	stringModePreferZeroCopy
)

// scanString decodes a string literal body; the opening quote must already
// be consumed. In copy mode over a memorySource, alloc supplies the
// destination buffer, sized to the raw body length (exact for a literal
// without escapes, an upper bound otherwise, since decoding never grows
// it); the other paths call alloc(0) and grow the result on the Go heap.
//
// Only a memorySource can defer allocation: its raw bytes stay addressable
// at a fixed offset for as long as the source lives, so scanString can
// count bytes first and build an exact-size buffer (or return a slice
// straight into the source) once it knows whether an escape ever appeared.
// A fileSource's buffer is compacted and overwritten as parsing advances,
// so bytes already consumed cannot be recovered after the fact; for that
// source kind scanString always builds the destination incrementally,
// byte by byte, as spec.md §9's "single incremental pass" fallback for the
// streaming case.
func (sc *scanner) scanString(mode stringMode, alloc func(n int) []byte) (stringDescriptor, error) {
	startOffset := sc.src.offset()
	mem, isMem := sc.src.(*memorySource)
	if !isMem {
		return sc.scanStringIncremental(alloc)
	}
	if mode == stringModeReuseInPlace {
		return sc.scanStringDeferred(mem, startOffset, mode, alloc)
	}
	if mode == stringModePreferZeroCopy {
		return sc.scanStringZeroCopy(mem, startOffset, alloc)
	}
	return sc.scanStringDeferred(mem, startOffset, mode, alloc)
}

// scanStringIncremental builds the output buffer byte by byte as the
// source is consumed; used whenever raw bytes can't be re-read afterward.
func (sc *scanner) scanStringIncremental(alloc func(n int) []byte) (stringDescriptor, error) {
	out := alloc(0)[:0]
	if cap(out) == 0 {
		out = make([]byte, 0, 32)
	}
	escapedFlag := false
	for {
		b, ok, err := sc.readByte()
		if err != nil {
			return stringDescriptor{}, err
		}
		if !ok {
			return stringDescriptor{}, lexErrorAt(sc.src.offset(), nil, "unterminated string literal")
		}
		switch {
		case b == '"':
			return stringDescriptor{bytes: out, escaped: escapedFlag && needsEscape(out), owned: true}, nil
		case b == '\\':
			escapedFlag = true
			r, _, err := sc.decodeEscape()
			if err != nil {
				return stringDescriptor{}, err
			}
			var tmp [4]byte
			w := utf8.EncodeRune(tmp[:], r)
			out = append(out, tmp[:w]...)
		case b < 0x20:
			if sc.strict >= StrictLevel2 {
				return stringDescriptor{}, lexErrorAt(sc.src.offset()-1, []byte{b}, "control byte in string literal")
			}
			escapedFlag = true
			out = append(out, b)
		default:
			out = append(out, b)
		}
	}
}

// scanStringZeroCopy returns a slice directly into mem's backing array as
// long as no escape appears; the moment one does, it switches to a
// deferred, exact-size allocation rebuilt from the raw bytes seen so far.
func (sc *scanner) scanStringZeroCopy(mem *memorySource, startOffset int64, alloc func(n int) []byte) (stringDescriptor, error) {
	rawCount := 0
	for {
		b, ok, err := sc.readByte()
		if err != nil {
			return stringDescriptor{}, err
		}
		if !ok {
			return stringDescriptor{}, lexErrorAt(sc.src.offset(), nil, "unterminated string literal")
		}
		switch {
		case b == '"':
			raw := mem.buf[startOffset : startOffset+int64(rawCount)]
			return stringDescriptor{bytes: raw, escaped: false, owned: false}, nil
		case b == '\\' || b < 0x20 && sc.strict < StrictLevel2:
			return sc.continueDeferredFromZeroCopy(mem, startOffset, rawCount, b, alloc)
		case b < 0x20:
			return stringDescriptor{}, lexErrorAt(sc.src.offset()-1, []byte{b}, "control byte in string literal")
		default:
			rawCount++
		}
	}
}

// continueDeferredFromZeroCopy switches scanStringZeroCopy into building a
// fresh buffer once an escape or control byte forces one, seeding it with
// the rawCount raw bytes already matched and the one byte (b, a backslash
// or control byte) that triggered the switch.
func (sc *scanner) continueDeferredFromZeroCopy(mem *memorySource, startOffset int64, rawCount int, b byte, alloc func(n int) []byte) (stringDescriptor, error) {
	out := alloc(0)[:0]
	if cap(out) == 0 {
		out = make([]byte, 0, rawCount+8)
	}
	out = append(out, mem.buf[startOffset:startOffset+int64(rawCount)]...)
	if b == '\\' {
		r, _, err := sc.decodeEscape()
		if err != nil {
			return stringDescriptor{}, err
		}
		var tmp [4]byte
		w := utf8.EncodeRune(tmp[:], r)
		out = append(out, tmp[:w]...)
	} else {
		out = append(out, b)
	}
	for {
		nb, ok, err := sc.readByte()
		if err != nil {
			return stringDescriptor{}, err
		}
		if !ok {
			return stringDescriptor{}, lexErrorAt(sc.src.offset(), nil, "unterminated string literal")
		}
		switch {
		case nb == '"':
			return stringDescriptor{bytes: out, escaped: needsEscape(out), owned: true}, nil
		case nb == '\\':
			r, _, err := sc.decodeEscape()
			if err != nil {
				return stringDescriptor{}, err
			}
			var tmp [4]byte
			w := utf8.EncodeRune(tmp[:], r)
			out = append(out, tmp[:w]...)
		case nb < 0x20:
			if sc.strict >= StrictLevel2 {
				return stringDescriptor{}, lexErrorAt(sc.src.offset()-1, []byte{nb}, "control byte in string literal")
			}
			out = append(out, nb)
		default:
			out = append(out, nb)
		}
	}
}

// scanStringDeferred implements stringModeCopy and stringModeReuseInPlace
// over a memorySource: it counts raw bytes first, then builds the
// destination (a fresh buffer, or the source's own backing array when
// reusing in place) in one pass once the closing quote is found, mirroring
// spec.md §9's exact-length two-pass behavior for the in-memory case.
func (sc *scanner) scanStringDeferred(mem *memorySource, startOffset int64, mode stringMode, alloc func(n int) []byte) (stringDescriptor, error) {
	rawCount := 0
	escapedFlag := false

	for {
		b, ok, err := sc.readByte()
		if err != nil {
			return stringDescriptor{}, err
		}
		if !ok {
			return stringDescriptor{}, lexErrorAt(sc.src.offset(), nil, "unterminated string literal")
		}
		switch {
		case b == '"':
			raw := mem.buf[startOffset : startOffset+int64(rawCount)]
			if !escapedFlag {
				var out []byte
				if mode == stringModeReuseInPlace {
					out = append(mem.buf[startOffset:startOffset], raw...)
				} else {
					out = alloc(rawCount)[:0]
					if cap(out) == 0 {
						out = make([]byte, 0, rawCount)
					}
					out = append(out, raw...)
				}
				return stringDescriptor{bytes: out, escaped: false, owned: mode == stringModeCopy}, nil
			}
			var dst []byte
			if mode == stringModeReuseInPlace {
				dst = mem.buf[startOffset:startOffset]
			} else {
				dst = alloc(rawCount)[:0]
				if cap(dst) == 0 {
					dst = make([]byte, 0, rawCount)
				}
			}
			out, decErr := decodeStringWindow(raw, sc.strict, dst)
			if decErr != nil {
				return stringDescriptor{}, lexErrorAt(startOffset, nil, "%v", decErr)
			}
			return stringDescriptor{bytes: out, escaped: needsEscape(out), owned: mode == stringModeCopy}, nil
		case b == '\\':
			escapedFlag = true
			if _, _, err := sc.decodeEscape(); err != nil {
				return stringDescriptor{}, err
			}
			rawCount = int(sc.src.offset() - startOffset)
		case b < 0x20:
			if sc.strict >= StrictLevel2 {
				return stringDescriptor{}, lexErrorAt(sc.src.offset()-1, []byte{b}, "control byte in string literal")
			}
			escapedFlag = true
			rawCount++
		default:
			rawCount++
		}
	}
}

// decodeStringWindow re-decodes a raw (not-yet-unescaped) string-literal
// byte window known to contain at least one escape or control byte,
// appending the decoded result to dst. Used only by scanStringDeferred's
// memorySource path, where the raw bytes stay addressable after the
// counting pass that found them.
func decodeStringWindow(raw []byte, strict StrictLevel, dst []byte) ([]byte, error) {
	i := 0
	for i < len(raw) {
		b := raw[i]
		switch {
		case b == '\\':
			i++
			if i >= len(raw) {
				return nil, lexErrorAt(0, nil, "unterminated escape sequence")
			}
			esc := raw[i]
			i++
			switch esc {
			case '"':
				dst = append(dst, '"')
			case '\\':
				dst = append(dst, '\\')
			case '/':
				dst = append(dst, '/')
			case 'b':
				dst = append(dst, '\b')
			case 'f':
				dst = append(dst, '\f')
			case 'n':
				dst = append(dst, '\n')
			case 'r':
				dst = append(dst, '\r')
			case 't':
				dst = append(dst, '\t')
			case 'v':
				dst = append(dst, '\v')
			case 'u':
				r, n, err := decodeUnicodeEscapeBytes(raw[i:])
				if err != nil {
					return nil, err
				}
				var tmp [4]byte
				w := utf8.EncodeRune(tmp[:], r)
				dst = append(dst, tmp[:w]...)
				i += n
			default:
				return nil, lexErrorAt(0, nil, "unknown escape sequence \\%c", esc)
			}
		case b < 0x20:
			if strict >= StrictLevel2 {
				return nil, lexErrorAt(0, []byte{b}, "control byte in string literal")
			}
			dst = append(dst, b)
			i++
		default:
			dst = append(dst, b)
			i++
		}
	}
	return dst, nil
}

// decodeUnicodeEscapeBytes decodes a \u escape (the "\u" itself already
// consumed) from raw, which begins right after the 'u'. Returns the
// decoded rune and the number of bytes of raw consumed.
func decodeUnicodeEscapeBytes(raw []byte) (rune, int, error) {
	readHex4 := func(b []byte) (uint16, error) {
		if len(b) < 4 {
			return 0, lexErrorAt(0, nil, "truncated \\u escape")
		}
		var v uint16
		for i := 0; i < 4; i++ {
			d, valid := hexDigitValue(b[i])
			if !valid {
				return 0, lexErrorAt(0, []byte{b[i]}, "invalid hex digit %q in \\u escape", b[i])
			}
			v = v<<4 | uint16(d)
		}
		return v, nil
	}
	hi, err := readHex4(raw)
	if err != nil {
		return 0, 0, err
	}
	if utf16.IsSurrogate(rune(hi)) {
		if hi >= 0xDC00 {
			return 0, 0, lexErrorAt(0, nil, "low surrogate \\u%04x in lead position", hi)
		}
		if len(raw) < 10 || raw[4] != '\\' || raw[5] != 'u' {
			return 0, 0, lexErrorAt(0, nil, "high surrogate \\u%04x without matching low surrogate", hi)
		}
		lo, err := readHex4(raw[6:])
		if err != nil {
			return 0, 0, err
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			return 0, 0, lexErrorAt(0, nil, "high surrogate \\u%04x without matching low surrogate", hi)
		}
		r := rune(0x10000 + (uint32(hi)&0x3FF)<<10 | (uint32(lo) & 0x3FF))
		return r, 10, nil
	}
	if hi >= 0xDC00 && hi <= 0xDFFF {
		return 0, 0, lexErrorAt(0, nil, "low surrogate \\u%04x in lead position", hi)
	}
	return rune(hi), 4, nil
}

// decodeEscape decodes one escape sequence; the leading backslash has
// already been consumed. Returns the decoded scalar and the number of
// source bytes consumed after the backslash.
func (sc *scanner) decodeEscape() (rune, int, error) {
	b, ok, err := sc.readByte()
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, lexErrorAt(sc.src.offset(), nil, "unterminated escape sequence")
	}
	switch b {
	case '"':
		return '"', 1, nil
	case '\\':
		return '\\', 1, nil
	case '/':
		return '/', 1, nil
	case 'b':
		return '\b', 1, nil
	case 'f':
		return '\f', 1, nil
	case 'n':
		return '\n', 1, nil
	case 'r':
		return '\r', 1, nil
	case 't':
		return '\t', 1, nil
	case 'v':
		return '\v', 1, nil
	case 'u':
		return sc.decodeUnicodeEscape()
	default:
		return 0, 0, lexErrorAt(sc.src.offset()-1, []byte{b}, "unknown escape sequence \\%c", b)
	}
}

func (sc *scanner) readHex4() (uint16, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		b, ok, err := sc.readByte()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, lexErrorAt(sc.src.offset(), nil, "truncated \\u escape")
		}
		d, valid := hexDigitValue(b)
		if !valid {
			return 0, lexErrorAt(sc.src.offset()-1, []byte{b}, "invalid hex digit %q in \\u escape", b)
		}
		v = v<<4 | uint16(d)
	}
	return v, nil
}

func hexDigitValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// decodeUnicodeEscape decodes \uXXXX, including UTF-16 surrogate pairs, per
// spec.md §4.3: "0x10000 + ((high & 0x3FF) << 10) | (low & 0x3FF)".
func (sc *scanner) decodeUnicodeEscape() (rune, int, error) {
	uOffset := sc.src.offset()
	hi, err := sc.readHex4()
	if err != nil {
		return 0, 0, err
	}
	if utf16.IsSurrogate(rune(hi)) {
		if hi >= 0xDC00 {
			return 0, 0, lexErrorAt(uOffset, nil, "low surrogate \\u%04x in lead position", hi)
		}
		b1, ok, err := sc.readByte()
		if err != nil {
			return 0, 0, err
		}
		b2, ok2, err := sc.readByte()
		if err != nil {
			return 0, 0, err
		}
		if !ok || !ok2 || b1 != '\\' || b2 != 'u' {
			return 0, 0, lexErrorAt(sc.src.offset(), nil, "high surrogate \\u%04x without matching low surrogate", hi)
		}
		lo, err := sc.readHex4()
		if err != nil {
			return 0, 0, err
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			return 0, 0, lexErrorAt(uOffset, nil, "high surrogate \\u%04x without matching low surrogate", hi)
		}
		r := rune(0x10000 + (uint32(hi)&0x3FF)<<10 | (uint32(lo) & 0x3FF))
		return r, 11, nil
	}
	if hi >= 0xDC00 && hi <= 0xDFFF {
		return 0, 0, lexErrorAt(uOffset, nil, "low surrogate \\u%04x in lead position", hi)
	}
	return rune(hi), 5, nil
}

// numberResult is the outcome of scanNumber: exactly one of the
// i32/u32/i64/u64/f64 fields is populated, selected by kind; a float64
// has already been converted by the atod path.
type numberResult struct {
	kind    Kind
	i32     int32
	u32     uint32
	i64     int64
	u64     uint64
	f64     float64
}

// scanNumber scans a number literal starting at the current source
// position (the first byte, which may be '-' or a digit, has not yet been
// consumed) per spec.md §4.3/§4.4.3.
func (sc *scanner) scanNumber() (numberResult, error) {
	startOffset := sc.src.offset()
	raw := new([]byte)

	next := func() (byte, bool, error) {
		b, ok, err := sc.readByte()
		if err == nil && ok {
			*raw = append(*raw, b)
		}
		return b, ok, err
	}
	peek := sc.peekByte

	neg := false
	if b, ok, err := peek(); err != nil {
		return numberResult{}, err
	} else if ok && b == '-' {
		neg = true
		if _, _, err := next(); err != nil {
			return numberResult{}, err
		}
	}

	// Hex literal: 0x / 0X, only when AllowHex is set, and rejected at
	// StrictLevel2 even then.
	if sc.allowHex {
		if b, ok, err := peek(); err != nil {
			return numberResult{}, err
		} else if ok && b == '0' {
			if _, _, err := next(); err != nil {
				return numberResult{}, err
			}
			if b2, ok2, err := peek(); err != nil {
				return numberResult{}, err
			} else if ok2 && (b2 == 'x' || b2 == 'X') {
				if sc.strict >= StrictLevel2 {
					return numberResult{}, lexErrorAt(startOffset, nil, "hex integer literal not allowed in strict mode")
				}
				if _, _, err := next(); err != nil {
					return numberResult{}, err
				}
				return sc.scanHexDigits(neg, startOffset)
			}
			// Just "0"; fall through to the decimal path, which sees
			// the "0" already consumed and appended to raw.
			return sc.scanDecimalAfterLeadingZero(neg, raw, startOffset, next, peek)
		}
	} else {
		if b, ok, err := peek(); err != nil {
			return numberResult{}, err
		} else if ok && b == '0' {
			if _, _, err := next(); err != nil {
				return numberResult{}, err
			}
			return sc.scanDecimalAfterLeadingZero(neg, raw, startOffset, next, peek)
		}
	}

	return sc.scanDecimal(neg, raw, startOffset, next, peek)
}

func (sc *scanner) scanHexDigits(neg bool, startOffset int64) (numberResult, error) {
	var v uint64
	digitCount := 0
	for {
		b, ok, err := sc.peekByte()
		if err != nil {
			return numberResult{}, err
		}
		if !ok {
			break
		}
		d, valid := hexDigitValue(b)
		if !valid {
			break
		}
		digitCount++
		if digitCount > 16 {
			return numberResult{}, lexErrorAt(sc.src.offset(), nil, "hex literal exceeds 64 bits")
		}
		v = v<<4 | uint64(d)
		sc.src.advance(1)
	}
	if digitCount == 0 {
		return numberResult{}, lexErrorAt(startOffset, nil, "malformed hex literal")
	}
	if digitCount <= 8 {
		u32 := uint32(v)
		if neg {
			u32 = uint32(-int64(u32))
		}
		return numberResult{kind: KindUHex32, u32: u32}, nil
	}
	if neg {
		v = uint64(-int64(v))
	}
	return numberResult{kind: KindUHex64, u64: v}, nil
}

// scanDecimalAfterLeadingZero handles the case where a single '0' has
// already been consumed and appended to raw.
func (sc *scanner) scanDecimalAfterLeadingZero(neg bool, raw *[]byte, startOffset int64, next func() (byte, bool, error), peek func() (byte, bool, error)) (numberResult, error) {
	if b, ok, err := peek(); err != nil {
		return numberResult{}, err
	} else if ok && b >= '0' && b <= '9' {
		if sc.strict >= StrictLevel2 {
			return numberResult{}, lexErrorAt(startOffset, nil, "leading zero followed by digit")
		}
	}
	return sc.scanDecimalBody(neg, raw, 1, startOffset, next, peek)
}

func (sc *scanner) scanDecimal(neg bool, raw *[]byte, startOffset int64, next func() (byte, bool, error), peek func() (byte, bool, error)) (numberResult, error) {
	b, ok, err := peek()
	if err != nil {
		return numberResult{}, err
	}
	if !ok || b < '0' || b > '9' {
		return numberResult{}, lexErrorAt(startOffset, nil, "malformed number literal")
	}
	return sc.scanDecimalBody(neg, raw, 0, startOffset, next, peek)
}

// scanDecimalBody accumulates the integer part (digitCount digits already
// consumed), then an optional fraction and exponent, per spec.md §4.3/§4.4.3.
// The fraction and integer digits are folded into one mantissa (fracDigits
// tracks how many of them came after the decimal point, shifting the
// effective exponent down by that count) so that a well-formed float
// literal can be handed straight to ParseFloatJSON's mantissa+exponent
// atod path instead of being re-parsed from scratch.
func (sc *scanner) scanDecimalBody(neg bool, raw *[]byte, digitCount int, startOffset int64, next func() (byte, bool, error), peek func() (byte, bool, error)) (numberResult, error) {
	// Digits already consumed (e.g. a leading "0") sit at the end of raw,
	// after any sign byte; digitStart finds where they begin.
	digitStart := len(*raw) - digitCount
	var mantissa uint64
	for i := 0; i < digitCount; i++ {
		mantissa = mantissa*10 + uint64((*raw)[digitStart+i]-'0')
	}
	overflowed := false
	accumDigit := func(b byte) {
		digitCount++
		if digitCount > 19 {
			overflowed = true
			return
		}
		mantissa = mantissa*10 + uint64(b-'0')
	}

	for {
		b, ok, err := peek()
		if err != nil {
			return numberResult{}, err
		}
		if !ok || b < '0' || b > '9' {
			break
		}
		if _, _, err := next(); err != nil {
			return numberResult{}, err
		}
		accumDigit(b)
	}

	isFloat := false
	fracDigits := 0
	if b, ok, err := peek(); err != nil {
		return numberResult{}, err
	} else if ok && b == '.' {
		isFloat = true
		if _, _, err := next(); err != nil {
			return numberResult{}, err
		}
		fracStart := true
		for {
			b, ok, err := peek()
			if err != nil {
				return numberResult{}, err
			}
			if !ok || b < '0' || b > '9' {
				break
			}
			if _, _, err := next(); err != nil {
				return numberResult{}, err
			}
			fracStart = false
			fracDigits++
			accumDigit(b)
		}
		if fracStart {
			return numberResult{}, lexErrorAt(sc.src.offset(), nil, "malformed fraction")
		}
	}

	explicitExp := 0
	if b, ok, err := peek(); err != nil {
		return numberResult{}, err
	} else if ok && (b == 'e' || b == 'E') {
		isFloat = true
		if _, _, err := next(); err != nil {
			return numberResult{}, err
		}
		expNeg := false
		if b, ok, err := peek(); err != nil {
			return numberResult{}, err
		} else if ok && (b == '+' || b == '-') {
			expNeg = b == '-'
			if _, _, err := next(); err != nil {
				return numberResult{}, err
			}
		}
		expDigits := 0
		for {
			b, ok, err := peek()
			if err != nil {
				return numberResult{}, err
			}
			if !ok || b < '0' || b > '9' {
				break
			}
			if _, _, err := next(); err != nil {
				return numberResult{}, err
			}
			explicitExp = explicitExp*10 + int(b-'0')
			expDigits++
		}
		if expDigits == 0 {
			return numberResult{}, lexErrorAt(sc.src.offset(), nil, "malformed exponent")
		}
		if expNeg {
			explicitExp = -explicitExp
		}
	}

	if isFloat {
		if overflowed {
			f, ok := parseFullFloat(*raw, neg)
			if !ok {
				return numberResult{}, lexErrorAt(startOffset, nil, "malformed number literal")
			}
			return numberResult{kind: KindFloat64, f64: f}, nil
		}
		f, ok := ParseFloatJSON(neg, mantissa, explicitExp-fracDigits)
		if !ok {
			return numberResult{}, lexErrorAt(startOffset, nil, "malformed number literal")
		}
		return numberResult{kind: KindFloat64, f64: f}, nil
	}

	if overflowed {
		f, ok := parseFullFloat(*raw, neg)
		if !ok {
			return numberResult{}, lexErrorAt(startOffset, nil, "malformed number literal")
		}
		return numberResult{kind: KindFloat64, f64: f}, nil
	}

	if mantissa <= 1<<31-1 || (neg && mantissa == 1<<31) {
		n := int32(mantissa)
		if neg {
			n = -n
		}
		return numberResult{kind: KindInt32, i32: n}, nil
	}
	if mantissa <= 1<<63-1 || (neg && mantissa == 1<<63) {
		n := int64(mantissa)
		if neg {
			n = -n
		}
		return numberResult{kind: KindInt64, i64: n}, nil
	}
	f, ok := parseFullFloat(*raw, neg)
	if !ok {
		return numberResult{}, lexErrorAt(startOffset, nil, "malformed number literal")
	}
	return numberResult{kind: KindFloat64, f64: f}, nil
}

// parseFullFloat parses the full literal (including any fraction and
// exponent) via strconv, used for the overflow and fraction/exponent
// paths where the simple mantissa-and-exponent fast path of
// ParseFloatJSON doesn't apply directly.
func parseFullFloat(raw []byte, neg bool) (float64, bool) {
	s := string(raw)
	if neg && (len(s) == 0 || s[0] != '-') {
		s = "-" + s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return 0, false
		}
	}
	return f, true
}
