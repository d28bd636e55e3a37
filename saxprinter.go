package json

import (
	"bufio"
	"io"
)

// saxFrame is one entry of SAXPrinter's own depth stack, per spec.md §4.7
// ("container-kind, number-of-siblings-emitted").
type saxFrame struct {
	isObject bool
	count    int  // members (objects) or elements (arrays) emitted so far at this level
	afterKey bool // true between a Key call and its value, inside an object
}

// SAXPrinter implements SAXHandler by emitting JSON text directly from
// parse (or hand-driven) events, without ever materializing a *Value tree.
// Separator, newline/indent, and key emission are computed purely from the
// frame stack and each frame's emitted-count, per spec.md §4.7.
type SAXPrinter struct {
	sink    byteSink
	choices PrintChoices
	stack   []saxFrame

	bufSink *bufferSink   // set when buffer-backed (NewSAXPrinter)
	bw      *bufio.Writer // set when writer-backed (NewSAXPrinterTo)
}

// NewSAXPrinter creates a buffer-backed SAXPrinter; call Finish to retrieve
// the accumulated bytes.
func NewSAXPrinter(choices PrintChoices) *SAXPrinter {
	var buf []byte
	if choices.ReuseBuffer != nil {
		buf = choices.ReuseBuffer[:0]
	} else {
		size := choices.PerItemSize
		if size <= 0 {
			size = defaultBufferPlusSize
		}
		buf = make([]byte, 0, size)
	}
	bs := &bufferSink{buf: buf, plusSize: choices.BufferPlusSize}
	return &SAXPrinter{sink: bs, choices: choices, bufSink: bs}
}

// NewSAXPrinterTo creates a SAXPrinter that streams directly to w; call
// Finish to flush.
func NewSAXPrinterTo(w io.Writer, choices PrintChoices) *SAXPrinter {
	bw := bufio.NewWriterSize(w, defaultReadSize)
	return &SAXPrinter{sink: &writerSink{w: bw}, choices: choices, bw: bw}
}

// Finish consumes the print handle, per spec.md §5's "a print handle is
// consumed by its finish call": for a buffer-backed printer it returns the
// accumulated bytes; for a writer-backed one it flushes and returns nil. A
// SAXPrinter must not be used again after Finish.
func (p *SAXPrinter) Finish() ([]byte, error) {
	if p.bw != nil {
		if err := p.bw.Flush(); err != nil {
			return nil, ioErrorAt(0, "flush: %v", err)
		}
		return nil, nil
	}
	return p.bufSink.buf, nil
}

func (p *SAXPrinter) top() *saxFrame {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

// beforeValue emits the separator and indentation a scalar or container
// value needs before it, based on its position in the parent frame: a
// comma before every element/member but the first, and (in formatted mode)
// a newline-plus-tabs to the child depth. Array elements are counted and
// separated here directly; object member values rely on Key having already
// done this for the pair, and merely clear afterKey.
func (p *SAXPrinter) beforeValue() error {
	top := p.top()
	if top == nil {
		return nil
	}
	if top.isObject {
		top.afterKey = false
		return nil
	}
	if top.count > 0 {
		if err := p.sink.writeByte(','); err != nil {
			return err
		}
	}
	if p.choices.Formatted {
		if err := writeIndent(p.sink, len(p.stack)); err != nil {
			return err
		}
	}
	top.count++
	return nil
}

func (p *SAXPrinter) StartObject() error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	if err := p.sink.writeByte('{'); err != nil {
		return err
	}
	p.stack = append(p.stack, saxFrame{isObject: true})
	return nil
}

func (p *SAXPrinter) StartArray() error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	if err := p.sink.writeByte('['); err != nil {
		return err
	}
	p.stack = append(p.stack, saxFrame{isObject: false})
	return nil
}

// endContainer closes the innermost frame. finish is accepted (rather than
// rejected) because a cooperative-stop unwind still needs the printer to
// produce syntactically complete output; there is nothing else a printer
// could do differently for a forced close.
func (p *SAXPrinter) endContainer(closeByte byte) error {
	n := len(p.stack)
	if n == 0 {
		return parseErrorAt(0, nil, "EndObject/EndArray with no open container")
	}
	top := p.stack[n-1]
	if p.choices.Formatted && top.count > 0 {
		if err := writeIndent(p.sink, n-1); err != nil {
			return err
		}
	}
	p.stack = p.stack[:n-1]
	return p.sink.writeByte(closeByte)
}

func (p *SAXPrinter) EndObject(finish bool) error { return p.endContainer('}') }
func (p *SAXPrinter) EndArray(finish bool) error  { return p.endContainer(']') }

func (p *SAXPrinter) Key(key string) error {
	top := p.top()
	if top == nil || !top.isObject {
		return parseErrorAt(0, nil, "Key called outside an open object")
	}
	if top.count > 0 {
		if err := p.sink.writeByte(','); err != nil {
			return err
		}
	}
	if p.choices.Formatted {
		if err := writeIndent(p.sink, len(p.stack)); err != nil {
			return err
		}
	}
	desc := stringDescriptor{bytes: []byte(key), escaped: needsEscape([]byte(key))}
	if err := writeString(p.sink, desc, p.choices.EscapeUnicode); err != nil {
		return err
	}
	if p.choices.Formatted {
		if err := p.sink.write([]byte{':', '\t'}); err != nil {
			return err
		}
	} else if err := p.sink.writeByte(':'); err != nil {
		return err
	}
	top.count++
	top.afterKey = true
	return nil
}

func (p *SAXPrinter) Null() error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	return p.sink.write([]byte("null"))
}

func (p *SAXPrinter) Bool(b bool) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	if b {
		return p.sink.write([]byte("true"))
	}
	return p.sink.write([]byte("false"))
}

func (p *SAXPrinter) Int32(n int32) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	return p.sink.write(appendInt32(nil, n))
}

func (p *SAXPrinter) UHex32(n uint32) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	return p.sink.write(appendUHex32(nil, n))
}

func (p *SAXPrinter) Int64(n int64) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	return p.sink.write(appendInt64(nil, n))
}

func (p *SAXPrinter) UHex64(n uint64) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	return p.sink.write(appendUHex64(nil, n))
}

func (p *SAXPrinter) Float64(f float64) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	return p.sink.write([]byte(formatFloatForPrint(f, p.choices.PreserveNegZero)))
}

func (p *SAXPrinter) String(s string) error {
	if err := p.beforeValue(); err != nil {
		return err
	}
	b := []byte(s)
	return writeString(p.sink, stringDescriptor{bytes: b, escaped: needsEscape(b)}, p.choices.EscapeUnicode)
}
