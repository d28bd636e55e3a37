package json

// defaultBlockSize is the block size an Arena uses until the parser sets a
// larger one adaptively from the input size, per spec.md §4.1.
const defaultBlockSize = 8192

// arenaBlock is a single bump-allocated region: spec.md §4.1's
// "(size, base, cursor)".
type arenaBlock struct {
	base   []byte
	cursor int
}

func newArenaBlock(size int) *arenaBlock {
	return &arenaBlock{base: make([]byte, size)}
}

func (b *arenaBlock) remaining() int { return len(b.base) - b.cursor }

func (b *arenaBlock) alloc(n int) ([]byte, bool) {
	if b.remaining() < n {
		return nil, false
	}
	p := b.base[b.cursor : b.cursor+n : b.cursor+n]
	b.cursor += n
	return p, true
}

// Arena is a bump allocator that hands out byte slices from a chain of
// blocks and frees only all at once, per spec.md §4.1. It never reuses a
// freed object because there is no per-object free — see refresh, which
// recycles only the first block's capacity for the next parse.
type Arena struct {
	blockSize int
	blocks    []*arenaBlock // blocks[0] is the current (most recent) block
	used      int
}

// NewArena creates an Arena with the given block size, or defaultBlockSize
// if size <= 0.
func NewArena(size int) *Arena {
	if size <= 0 {
		size = defaultBlockSize
	}
	a := &Arena{blockSize: size}
	a.blocks = append(a.blocks, newArenaBlock(size))
	return a
}

// adaptBlockSize sets the block size the next fresh block will use,
// following spec.md §4.1's "max(input_size/8, configured_floor)" sizing
// rule. It does not affect already-allocated blocks.
func (a *Arena) adaptBlockSize(inputSize, floor int) {
	if floor <= 0 {
		floor = defaultBlockSize
	}
	size := inputSize / 8
	if size < floor {
		size = floor
	}
	a.blockSize = size
}

// alloc returns n freshly-allocated bytes with no aliasing against any
// other allocation returned by a. It never reuses freed objects.
func (a *Arena) alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	if len(a.blocks) > 0 {
		if p, ok := a.blocks[0].alloc(n); ok {
			a.used += n
			return p
		}
	}
	size := a.blockSize
	if n > size {
		size = n
	}
	blk := newArenaBlock(size)
	a.blocks = append([]*arenaBlock{blk}, a.blocks...)
	p, ok := blk.alloc(n)
	if !ok {
		// n > size cannot happen since size was raised to max(size, n).
		return nil
	}
	a.used += n
	return p
}

// allocString copies s into a freshly-arena-allocated byte slice.
func (a *Arena) allocString(s string) []byte {
	p := a.alloc(len(s))
	copy(p, s)
	return p
}

// freeAll releases every block. After freeAll, usedBytes is 0 and any
// Value or string previously allocated from a is invalid to dereference.
func (a *Arena) freeAll() {
	a.blocks = nil
	a.used = 0
}

// refresh releases every block except the oldest-allocated one (spec.md
// §4.1: "retains the first block... as a reusable slab"), resets that
// block's cursor to zero, and zeroes the used-bytes counter as observed by
// the caller. The retained block's capacity is preserved so repeated
// parses of similarly-sized documents avoid reallocating it.
func (a *Arena) refresh() {
	if len(a.blocks) == 0 {
		a.blocks = []*arenaBlock{newArenaBlock(a.blockSize)}
		a.used = 0
		return
	}
	first := a.blocks[len(a.blocks)-1]
	first.cursor = 0
	a.blocks = []*arenaBlock{first}
	a.used = 0
}

// usedBytes returns the total number of bytes handed out by alloc since
// creation or the last freeAll/refresh.
func (a *Arena) usedBytes() int { return a.used }

// nodeArena, keyArena, and stringArena are typed views over a shared Arena,
// naming the three segregated allocation pools spec.md §4 describes (nodes,
// keys, strings) while sharing the block-chaining implementation above.
type nodeArena struct{ a *Arena }
type keyArena struct{ a *Arena }
type stringArena struct{ a *Arena }

func (n nodeArena) allocValue() *Value {
	// *Value is a Go heap object regardless of arena backing: the arena
	// governs the string/byte payloads a Value references, while node
	// lifetime is still tracked by Go's GC. This mirrors spec.md §9's
	// "children hold indices or bounded references into the arena, not
	// raw pointers" guidance — the tree itself is owned Go memory, and
	// only its string payloads are arena-backed.
	return &Value{}
}

func (k keyArena) allocKey(s string) stringDescriptor {
	b := k.a.allocString(s)
	return stringDescriptor{bytes: b, escaped: needsEscape(b), owned: false}
}

func (s stringArena) allocString(b []byte) stringDescriptor {
	p := s.a.alloc(len(b))
	copy(p, b)
	return stringDescriptor{bytes: p, escaped: needsEscape(p), owned: false}
}
