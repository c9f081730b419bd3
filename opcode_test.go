package vulcan

import "testing"

// assertTrue is a small helper in the teacher's own vm_test.go style: a bare
// testing.T condition check with a formatted failure message, rather than
// pulling in an assertion library for this file's table-driven byte checks.
// Named assertTrue, not assert, so it doesn't collide with the
// testify/assert import other files in this package use.
func assertTrue(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestOpcodeNumbering(t *testing.T) {
	// The authoritative numbering from the opcode table: 0 Nop ... 42 Debug.
	cases := []struct {
		op   Opcode
		name string
		num  byte
	}{
		{Nop, "nop", 0}, {Add, "add", 1}, {Sub, "sub", 2}, {Mul, "mul", 3},
		{Div, "div", 4}, {Mod, "mod", 5}, {Rand, "rand", 6}, {And, "and", 7},
		{Or, "or", 8}, {Xor, "xor", 9}, {Not, "not", 10}, {Gt, "gt", 11},
		{Lt, "lt", 12}, {Agt, "agt", 13}, {Alt, "alt", 14}, {Lshift, "lshift", 15},
		{Rshift, "rshift", 16}, {Arshift, "arshift", 17}, {Pop, "pop", 18},
		{Dup, "dup", 19}, {Swap, "swap", 20}, {Pick, "pick", 21}, {Rot, "rot", 22},
		{Jmp, "jmp", 23}, {Jmpr, "jmpr", 24}, {Call, "call", 25}, {Ret, "ret", 26},
		{Brz, "brz", 27}, {Brnz, "brnz", 28}, {Hlt, "hlt", 29}, {Load, "load", 30},
		{Loadw, "loadw", 31}, {Store, "store", 32}, {Storew, "storew", 33},
		{Inton, "inton", 34}, {Intoff, "intoff", 35}, {Setiv, "setiv", 36},
		{Sdp, "sdp", 37}, {Setsdp, "setsdp", 38}, {Pushr, "pushr", 39},
		{Popr, "popr", 40}, {Peekr, "peekr", 41}, {Debug, "debug", 42},
	}
	for _, c := range cases {
		assertTrue(t, byte(c.op) == c.num, "opcode %s: want %d, got %d", c.name, c.num, byte(c.op))
		assertTrue(t, c.op.String() == c.name, "opcode %d: want name %q, got %q", c.num, c.name, c.op.String())
	}
}

func TestDecodeNoImmediate(t *testing.T) {
	// lead byte OOOOOO LL: Hlt(29)<<2 | 0 = 0x74.
	m := NewMemory()
	m.Poke(Word(0), 0x74)

	instr, err := Decode(m, Word(0))
	assertTrue(t, err == nil, "unexpected error: %v", err)
	assertTrue(t, instr.Opcode == Hlt, "want Hlt, got %s", instr.Opcode)
	assertTrue(t, !instr.HasArg, "want HasArg=false")
	assertTrue(t, instr.Length == 1, "want length 1, got %d", instr.Length)
}

func TestDecodeOneByteImmediate(t *testing.T) {
	// Nop(0)<<2 | 1 = 0x01, immediate 0x08: an idiomatic "push literal 8".
	m := NewMemory()
	m.Poke(Word(0), 0x01)
	m.Poke(Word(1), 0x08)

	instr, err := Decode(m, Word(0))
	assertTrue(t, err == nil, "unexpected error: %v", err)
	assertTrue(t, instr.Opcode == Nop, "want Nop, got %s", instr.Opcode)
	assertTrue(t, instr.HasArg, "want HasArg=true")
	assertTrue(t, instr.Arg == WordFromUint32(8), "want arg 8, got %s", instr.Arg)
	assertTrue(t, instr.Length == 2, "want length 2, got %d", instr.Length)
}

func TestDecodeTwoByteImmediateLittleEndian(t *testing.T) {
	// Nop(0)<<2 | 2 = 0x02, immediate 2048 = 0x0800 little-endian (00 08).
	m := NewMemory()
	m.Poke(Word(0), 0x02)
	m.Poke(Word(1), 0x00)
	m.Poke(Word(2), 0x08)

	instr, err := Decode(m, Word(0))
	assertTrue(t, err == nil, "unexpected error: %v", err)
	assertTrue(t, instr.Arg == WordFromUint32(2048), "want arg 2048, got %s", instr.Arg)
	assertTrue(t, instr.Length == 3, "want length 3, got %d", instr.Length)
}

func TestDecodeThreeByteImmediate(t *testing.T) {
	// Nop(0)<<2 | 3 = 0x03, immediate 0x112233 little-endian (33 22 11).
	m := NewMemory()
	m.Poke(Word(0), 0x03)
	m.Poke(Word(1), 0x33)
	m.Poke(Word(2), 0x22)
	m.Poke(Word(3), 0x11)

	instr, err := Decode(m, Word(0))
	assertTrue(t, err == nil, "unexpected error: %v", err)
	assertTrue(t, instr.Arg == WordFromUint32(0x112233), "want arg 0x112233, got %s", instr.Arg)
	assertTrue(t, instr.Length == 4, "want length 4, got %d", instr.Length)
}

// S2's explicit formula: Brnz(28)<<2 | 0 = 0x70.
func TestDecodeBrnzFormula(t *testing.T) {
	m := NewMemory()
	m.Poke(Word(1024), 0x70)

	instr, err := Decode(m, Word(1024))
	assertTrue(t, err == nil, "unexpected error: %v", err)
	assertTrue(t, instr.Opcode == Brnz, "want Brnz, got %s", instr.Opcode)
	assertTrue(t, instr.Length == 1, "want length 1, got %d", instr.Length)
}

// S5: an opcode field of 0x3F (63) names none of the 43 opcodes and traps.
// The decoder reports the 6-bit opcode field itself (0x3F), not the raw
// lead byte (0xFC), matching cpu.rs's fetch (instruction >> 2) and its own
// test asserting Err(InvalidOpcode(0x3f)).
func TestDecodeInvalidOpcodeTraps(t *testing.T) {
	m := NewMemory()
	m.Poke(Word(0), 0xFC) // 0xFC>>2 == 0x3F == 63

	_, err := Decode(m, Word(0))
	assertTrue(t, err != nil, "want an error, got nil")
	invalid, ok := err.(InvalidOpcode)
	assertTrue(t, ok, "want InvalidOpcode, got %T", err)
	assertTrue(t, invalid.Byte == 0x3F, "want offending opcode field 0x3F, got 0x%02X", invalid.Byte)
}

func TestIsBinaryClassification(t *testing.T) {
	binary := []Opcode{Add, Sub, Mul, Div, Mod, And, Or, Xor, Gt, Lt, Agt, Alt,
		Lshift, Rshift, Arshift, Swap, Store, Storew, Setsdp, Brz, Brnz}
	for _, op := range binary {
		assertTrue(t, op.IsBinary(), "want %s to be binary", op)
	}

	nonBinary := []Opcode{Nop, Rand, Not, Pop, Dup, Pick, Rot, Jmp, Jmpr, Call,
		Ret, Hlt, Load, Loadw, Inton, Intoff, Setiv, Sdp, Pushr, Popr, Peekr, Debug}
	for _, op := range nonBinary {
		assertTrue(t, !op.IsBinary(), "want %s to not be binary", op)
	}
}
