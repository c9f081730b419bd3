package vulcan

// MemSize is the size of a standard Vulcan machine's main memory: 128 KiB.
const MemSize = 128 * 1024

// PeekPoke is the byte-granularity read/write capability that every
// addressable component in a Vulcan machine implements: main memory,
// the bus, the CPU (which forwards to its bus), and any memory-mapped
// device. Anything implementing it can be composed into a Bus.
type PeekPoke interface {
	Peek(addr Word) byte
	Poke(addr Word, val byte)
}

// Memory is a Vulcan machine's main memory: a flat, 128 KiB byte array.
// Addressing never faults - every Word resolves to some byte via the
// low 17 bits of its value.
type Memory struct {
	bytes [MemSize]byte
}

// NewMemory returns a zeroed 128 KiB memory.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryFrom fills a new memory from fill, which is called once per
// byte. A host typically passes a pseudo-random generator's byte
// stream here to model "garbage on power-up"; seeding that source is
// the host's responsibility, not this package's.
func NewMemoryFrom(fill func() byte) *Memory {
	m := &Memory{}
	for i := range m.bytes {
		m.bytes[i] = fill()
	}
	return m
}

// offset maps a Word address to a physical byte offset: the low 17
// bits of the address, modulo MemSize. Higher bits are ignored here
// but still participate in Word comparisons and arithmetic.
func offset(addr Word) uint32 {
	return addr.Uint32() & (MemSize - 1)
}

// Peek reads the byte at addr.
func (m *Memory) Peek(addr Word) byte {
	return m.bytes[offset(addr)]
}

// Poke writes val to addr.
func (m *Memory) Poke(addr Word, val byte) {
	m.bytes[offset(addr)] = val
}

// Peek24 reads a little-endian 3-byte Word starting at addr. It is a
// derived operation built on Peek, available for any PeekPoke, not
// just Memory.
func Peek24(p PeekPoke, addr Word) Word {
	return WordFromBytes([3]byte{
		p.Peek(addr),
		p.Peek(addr.Add(Word(1))),
		p.Peek(addr.Add(Word(2))),
	})
}

// Poke24 writes w as a little-endian 3-byte sequence starting at addr.
func Poke24(p PeekPoke, addr Word, w Word) {
	b := w.Bytes()
	p.Poke(addr, b[0])
	p.Poke(addr.Add(Word(1)), b[1])
	p.Poke(addr.Add(Word(2)), b[2])
}

// PeekSlice reads len(buf) contiguous bytes starting at addr into buf,
// advancing through the modular address space.
func PeekSlice(p PeekPoke, addr Word, buf []byte) {
	for i := range buf {
		buf[i] = p.Peek(addr.Add(Word(uint32(i))))
	}
}

// PokeSlice writes buf starting at addr, advancing through the modular
// address space.
func PokeSlice(p PeekPoke, addr Word, buf []byte) {
	for i, b := range buf {
		p.Poke(addr.Add(Word(uint32(i))), b)
	}
}
