package json

import (
	"bufio"
	"io"
	"math"
	"os"
)

// defaultPerItemFormatted and defaultPerItemCompact are the per-node size
// estimates spec.md §4.7's sizing heuristic multiplies by item_total when
// the caller doesn't supply PerItemSize.
const (
	defaultPerItemFormatted = 32
	defaultPerItemCompact   = 24
)

// defaultBufferPlusSize is the linear growth increment spec.md §4.7
// specifies as the default for "doubling or plus increment, whichever is
// larger".
const defaultBufferPlusSize = 1024

// PrintChoices configures Print/PrintTo, per spec.md §4.7/§6.
type PrintChoices struct {
	// Formatted selects one member per line with tab indentation matching
	// container depth; false selects compact (no whitespace) output.
	Formatted bool
	// ItemTotalHint, if > 0, skips the walk over every node that Print
	// would otherwise do to size its initial buffer.
	ItemTotalHint int
	// BufferPlusSize is the linear buffer-growth increment; 0 picks
	// defaultBufferPlusSize.
	BufferPlusSize int
	// PerItemSize overrides the per-node byte estimate used for the
	// initial buffer size; 0 picks a formatted/compact-specific default.
	PerItemSize int
	// Path, if non-empty, writes the output directly to that file instead
	// of returning it as a []byte; Print then returns (nil, nil) on
	// success.
	Path string
	// ReuseBuffer, if non-nil, is truncated to length 0 and used as the
	// initial output buffer instead of allocating a fresh one.
	ReuseBuffer []byte
	// EscapeUnicode selects \u00XX escapes for sub-space control bytes
	// instead of emitting them raw (an RFC 8259 extension), per spec.md §6.
	EscapeUnicode bool
	// PreserveNegZero prints a negative float64 zero as "-0.0" instead of
	// collapsing it to "0.0", per spec.md §9's signed-zero design note.
	PreserveNegZero bool
}

// byteSink is the write target a printer drives: a growable in-memory
// buffer or a file descriptor with write-through buffering, per spec.md
// §4.7's "two sinks".
type byteSink interface {
	write(p []byte) error
	writeByte(b byte) error
}

// bufferSink grows by doubling or by BufferPlusSize, whichever leaves more
// headroom at the current fill ratio, per spec.md §4.7's sizing heuristic.
type bufferSink struct {
	buf      []byte
	plusSize int
}

func (s *bufferSink) grow(need int) {
	if cap(s.buf)-len(s.buf) >= need {
		return
	}
	plus := s.plusSize
	if plus <= 0 {
		plus = defaultBufferPlusSize
	}
	doubled := cap(s.buf) * 2
	linear := cap(s.buf) + plus
	newCap := doubled
	if linear > newCap {
		newCap = linear
	}
	if want := len(s.buf) + need; newCap < want {
		newCap = want
	}
	next := make([]byte, len(s.buf), newCap)
	copy(next, s.buf)
	s.buf = next
}

func (s *bufferSink) write(p []byte) error {
	s.grow(len(p))
	s.buf = append(s.buf, p...)
	return nil
}

func (s *bufferSink) writeByte(b byte) error {
	s.grow(1)
	s.buf = append(s.buf, b)
	return nil
}

// writerSink wraps a fixed flush buffer (bufio.Writer) over an io.Writer,
// escalating short/failed writes to an io error per spec.md §4.7's failure
// semantics.
type writerSink struct {
	w *bufio.Writer
}

func (s *writerSink) write(p []byte) error {
	if _, err := s.w.Write(p); err != nil {
		return ioErrorAt(0, "print write failed: %v", err)
	}
	return nil
}

func (s *writerSink) writeByte(b byte) error {
	if err := s.w.WriteByte(b); err != nil {
		return ioErrorAt(0, "print write failed: %v", err)
	}
	return nil
}

// printer walks a *Value tree and emits it to a byteSink, per spec.md
// §4.7's DOM printer.
type printer struct {
	sink    byteSink
	choices PrintChoices
}

func (p *printer) indent(depth int) error { return writeIndent(p.sink, depth) }

// writeIndent writes a newline followed by depth tabs; shared by the DOM
// printer and SAXPrinter's formatted-mode output.
func writeIndent(sink byteSink, depth int) error {
	if err := sink.writeByte('\n'); err != nil {
		return err
	}
	for i := 0; i < depth; i++ {
		if err := sink.writeByte('\t'); err != nil {
			return err
		}
	}
	return nil
}

// formatFloatForPrint honors PreserveNegZero, the one case where the
// printer overrides FormatFloat's default collapse of negative zero to
// "0.0" (see numeric.go).
func formatFloatForPrint(f float64, preserveNegZero bool) string {
	if f == 0 && math.Signbit(f) && preserveNegZero {
		return "-0.0"
	}
	return FormatFloat(f)
}

func (p *printer) printValue(v *Value, depth int) error {
	switch v.Type() {
	case KindNull:
		return p.sink.write([]byte("null"))
	case KindBool:
		if v.boolVal {
			return p.sink.write([]byte("true"))
		}
		return p.sink.write([]byte("false"))
	case KindInt32:
		return p.sink.write(appendInt32(nil, v.i32Val))
	case KindUHex32:
		return p.sink.write(appendUHex32(nil, v.u32Val))
	case KindInt64:
		return p.sink.write(appendInt64(nil, v.i64Val))
	case KindUHex64:
		return p.sink.write(appendUHex64(nil, v.u64Val))
	case KindFloat64:
		return p.sink.write([]byte(formatFloatForPrint(v.f64Val, p.choices.PreserveNegZero)))
	case KindString:
		return p.printString(v.strVal)
	case KindArray:
		return p.printContainer(v, depth, '[', ']', false)
	case KindObject:
		return p.printContainer(v, depth, '{', '}', true)
	default:
		return p.sink.write([]byte("null"))
	}
}

func (p *printer) printContainer(v *Value, depth int, open, closeByte byte, isObject bool) error {
	if len(v.children) == 0 {
		return p.sink.write([]byte{open, closeByte})
	}
	if err := p.sink.writeByte(open); err != nil {
		return err
	}
	for i, c := range v.children {
		if i > 0 {
			if err := p.sink.writeByte(','); err != nil {
				return err
			}
		}
		if p.choices.Formatted {
			if err := p.indent(depth + 1); err != nil {
				return err
			}
		}
		if isObject {
			if err := p.printString(c.key); err != nil {
				return err
			}
			if p.choices.Formatted {
				if err := p.sink.write([]byte{':', '\t'}); err != nil {
					return err
				}
			} else if err := p.sink.writeByte(':'); err != nil {
				return err
			}
		}
		if err := p.printValue(c, depth+1); err != nil {
			return err
		}
	}
	if p.choices.Formatted {
		if err := p.indent(depth); err != nil {
			return err
		}
	}
	return p.sink.writeByte(closeByte)
}

// printString implements spec.md §4.7's fast/slow string emission: the fast
// path (no escape flag) writes the raw bytes verbatim; the slow path walks
// the bytes, flushing runs between escape points.
func (p *printer) printString(d stringDescriptor) error {
	return writeString(p.sink, d, p.choices.EscapeUnicode)
}

// writeString is printString's sink-level implementation, shared with
// SAXPrinter so both printers emit identical string syntax.
func writeString(sink byteSink, d stringDescriptor, escapeUnicode bool) error {
	if err := sink.writeByte('"'); err != nil {
		return err
	}
	if !d.escaped {
		if err := sink.write(d.bytes); err != nil {
			return err
		}
		return sink.writeByte('"')
	}
	if err := writeEscaped(sink, d.bytes, escapeUnicode); err != nil {
		return err
	}
	return sink.writeByte('"')
}

func writeEscaped(sink byteSink, b []byte, escapeUnicode bool) error {
	start := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		var esc []byte
		switch c {
		case '"':
			esc = []byte{'\\', '"'}
		case '\\':
			esc = []byte{'\\', '\\'}
		case '\b':
			esc = []byte{'\\', 'b'}
		case '\f':
			esc = []byte{'\\', 'f'}
		case '\n':
			esc = []byte{'\\', 'n'}
		case '\r':
			esc = []byte{'\\', 'r'}
		case '\t':
			esc = []byte{'\\', 't'}
		case '\v':
			esc = []byte{'\\', 'v'}
		default:
			if c < 0x20 && escapeUnicode {
				esc = []byte{'\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf]}
			} else {
				continue
			}
		}
		if i > start {
			if err := sink.write(b[start:i]); err != nil {
				return err
			}
		}
		if err := sink.write(esc); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(b) {
		if err := sink.write(b[start:]); err != nil {
			return err
		}
	}
	return nil
}

// countNodes walks v to estimate item_total when the caller doesn't supply
// ItemTotalHint, per spec.md §4.7 ("available in O(1) from the tree size or
// by one linear walk").
func countNodes(v *Value) int {
	if v == nil {
		return 0
	}
	n := 1
	for _, c := range v.children {
		n += countNodes(c)
	}
	return n
}

func initialPrintCapacity(v *Value, choices PrintChoices) int {
	perItem := choices.PerItemSize
	if perItem <= 0 {
		if choices.Formatted {
			perItem = defaultPerItemFormatted
		} else {
			perItem = defaultPerItemCompact
		}
	}
	itemTotal := choices.ItemTotalHint
	if itemTotal <= 0 {
		itemTotal = countNodes(v)
	}
	size := itemTotal * perItem
	if size < defaultBufferPlusSize {
		size = defaultBufferPlusSize
	}
	return size
}

// Print renders v per choices, per spec.md §4.7. When choices.Path is set
// the document is written directly to that file and Print returns (nil,
// nil) on success rather than materializing the bytes.
func (v *Value) Print(choices PrintChoices) ([]byte, error) {
	if choices.Path != "" {
		f, err := os.Create(choices.Path)
		if err != nil {
			return nil, ioErrorAt(0, "create %s: %v", choices.Path, err)
		}
		defer f.Close()
		w := bufio.NewWriterSize(f, defaultReadSize)
		p := &printer{sink: &writerSink{w: w}, choices: choices}
		if err := p.printValue(v, 0); err != nil {
			return nil, err
		}
		if err := w.Flush(); err != nil {
			return nil, ioErrorAt(0, "flush %s: %v", choices.Path, err)
		}
		return nil, nil
	}

	var buf []byte
	if choices.ReuseBuffer != nil {
		buf = choices.ReuseBuffer[:0]
	} else {
		buf = make([]byte, 0, initialPrintCapacity(v, choices))
	}
	sink := &bufferSink{buf: buf, plusSize: choices.BufferPlusSize}
	p := &printer{sink: sink, choices: choices}
	if err := p.printValue(v, 0); err != nil {
		return nil, err
	}
	return sink.buf, nil
}

// PrintTo renders v to w, ignoring choices.Path and ReuseBuffer (which only
// make sense for the buffer-returning Print).
func (v *Value) PrintTo(w io.Writer, choices PrintChoices) error {
	bw := bufio.NewWriterSize(w, defaultReadSize)
	p := &printer{sink: &writerSink{w: bw}, choices: choices}
	if err := p.printValue(v, 0); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return ioErrorAt(0, "flush: %v", err)
	}
	return nil
}
