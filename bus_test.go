package vulcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// tickingDevice is a test-only Device+PeekPoke that counts Tick/Reset
// calls, used to verify Bus cascades to both branches.
type tickingDevice struct {
	mem    Memory
	ticks  int
	resets int
}

func (d *tickingDevice) Peek(addr Word) byte      { return d.mem.Peek(addr) }
func (d *tickingDevice) Poke(addr Word, val byte) { d.mem.Poke(addr, val) }
func (d *tickingDevice) Tick()                    { d.ticks++ }
func (d *tickingDevice) Reset()                   { d.resets++ }

func TestBusRangeDispatchIsDisjoint(t *testing.T) {
	deviceA := &tickingDevice{}
	deviceB := &tickingDevice{}
	b := NewBus(Word(0), Word(9), deviceA, NewBus(Word(10), Word(19), deviceB, NewMemory()))

	b.Poke(Word(5), 0x11)
	b.Poke(Word(15), 0x22)

	assert.Equal(t, byte(0x11), deviceA.Peek(Word(5)))
	assert.Equal(t, byte(0), deviceA.Peek(Word(5+1))) // untouched address within A
	assert.Equal(t, byte(0x22), deviceB.Peek(Word(5))) // local offset 15-10=5
	assert.Equal(t, byte(0x11), b.Peek(Word(5)))
	assert.Equal(t, byte(0x22), b.Peek(Word(15)))
}

func TestBusFallsThroughOutsideRange(t *testing.T) {
	fallback := NewMemory()
	fallback.Poke(Word(100), 0x99)
	b := At(Word(16), &tickingDevice{}, fallback)

	assert.Equal(t, byte(0x99), b.Peek(Word(100)))
}

func TestBusAtSingleAddress(t *testing.T) {
	device := &tickingDevice{}
	b := At(Word(42), device, NewMemory())
	b.Poke(Word(42), 0x7)
	assert.Equal(t, byte(0x7), device.Peek(Word(0)))
}

func TestBusCascadesTickAndReset(t *testing.T) {
	deviceA := &tickingDevice{}
	deviceB := &tickingDevice{}
	b := NewBus(Word(0), Word(9), deviceA, NewBus(Word(10), Word(19), deviceB, NewMemory()))

	b.Tick()
	b.Reset()

	assert.Equal(t, 1, deviceA.ticks)
	assert.Equal(t, 1, deviceB.ticks)
	assert.Equal(t, 1, deviceA.resets)
	assert.Equal(t, 1, deviceB.resets)
}

func TestBusNestedThreeDeep(t *testing.T) {
	// Mirrors original_source/src/bus.rs's own test: three devices
	// composed in a chain, each occupying a disjoint range.
	d1 := &tickingDevice{}
	d2 := &tickingDevice{}
	d3 := &tickingDevice{}
	chain := NewBus(Word(0), Word(2), d1,
		NewBus(Word(3), Word(5), d2,
			NewBus(Word(6), Word(8), d3, NewMemory())))

	chain.Poke(Word(1), 0xA)
	chain.Poke(Word(4), 0xB)
	chain.Poke(Word(7), 0xC)

	assert.Equal(t, byte(0xA), d1.Peek(Word(1)))
	assert.Equal(t, byte(0xB), d2.Peek(Word(1)))
	assert.Equal(t, byte(0xC), d3.Peek(Word(1)))

	chain.Tick()
	assert.Equal(t, 1, d1.ticks)
	assert.Equal(t, 1, d2.ticks)
	assert.Equal(t, 1, d3.ticks)
}
