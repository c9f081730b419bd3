package vulcan

import "fmt"

// Opcode is one of the 43 instructions a Vulcan CPU understands,
// numbered exactly as in the architecture's authoritative table (the
// high 6 bits of an instruction's lead byte).
type Opcode byte

const (
	Nop Opcode = iota
	Add
	Sub
	Mul
	Div
	Mod
	Rand
	And
	Or
	Xor
	Not
	Gt
	Lt
	Agt
	Alt
	Lshift
	Rshift
	Arshift
	Pop
	Dup
	Swap
	Pick
	Rot
	Jmp
	Jmpr
	Call
	Ret
	Brz
	Brnz
	Hlt
	Load
	Loadw
	Store
	Storew
	Inton
	Intoff
	Setiv
	Sdp
	Setsdp
	Pushr
	Popr
	Peekr
	Debug

	numOpcodes = Debug + 1
)

var opcodeNames = [numOpcodes]string{
	Nop: "nop", Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	Rand: "rand", And: "and", Or: "or", Xor: "xor", Not: "not", Gt: "gt",
	Lt: "lt", Agt: "agt", Alt: "alt", Lshift: "lshift", Rshift: "rshift",
	Arshift: "arshift", Pop: "pop", Dup: "dup", Swap: "swap", Pick: "pick",
	Rot: "rot", Jmp: "jmp", Jmpr: "jmpr", Call: "call", Ret: "ret",
	Brz: "brz", Brnz: "brnz", Hlt: "hlt", Load: "load", Loadw: "loadw",
	Store: "store", Storew: "storew", Inton: "inton", Intoff: "intoff",
	Setiv: "setiv", Sdp: "sdp", Setsdp: "setsdp", Pushr: "pushr",
	Popr: "popr", Peekr: "peekr", Debug: "debug",
}

// String renders an Opcode by its mnemonic.
func (o Opcode) String() string {
	if o >= numOpcodes {
		return "?unknown?"
	}
	return opcodeNames[o]
}

// binaryOpcodes marks opcodes that consume exactly two data-stack
// words (x from the top, then y - see (*CPU).execute). Every opcode not in this
// set is handled by the non-binary dispatch in (*CPU).execute.
var binaryOpcodes = [numOpcodes]bool{
	Add: true, Sub: true, Mul: true, Div: true, Mod: true,
	And: true, Or: true, Xor: true,
	Gt: true, Lt: true, Agt: true, Alt: true,
	Lshift: true, Rshift: true, Arshift: true,
	Swap: true, Store: true, Storew: true, Setsdp: true,
	Brz: true, Brnz: true,
}

// IsBinary reports whether o pops two data-stack words as its operands.
func (o Opcode) IsBinary() bool {
	return o < numOpcodes && binaryOpcodes[o]
}

// InvalidOpcode is raised by Decode when the high 6 bits of a lead
// byte do not name one of the 43 opcodes. It carries the offending
// 6-bit opcode field (not the full lead byte), matching
// original_source/src/cpu.rs's fetch, which passes instruction >> 2.
type InvalidOpcode struct {
	Byte byte
}

func (e InvalidOpcode) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02x", e.Byte)
}

// Instruction is a decoded instruction: an opcode, its optional
// immediate, and its total length in bytes (1 to 4).
type Instruction struct {
	Opcode  Opcode
	Arg     Word
	HasArg  bool
	Length  byte
}

// Decode decodes a single instruction starting at addr by reading
// through p. The lead byte's high 6 bits select the opcode; its low 2
// bits give the number of little-endian immediate bytes that follow
// (0 to 3). Decode returns InvalidOpcode if the opcode field names
// none of the 43 defined opcodes.
func Decode(p PeekPoke, addr Word) (Instruction, error) {
	lead := p.Peek(addr)
	opcode := Opcode(lead >> 2)
	if opcode >= numOpcodes {
		return Instruction{}, InvalidOpcode{Byte: byte(opcode)}
	}

	argLength := lead & 3
	if argLength == 0 {
		return Instruction{Opcode: opcode, Length: 1}, nil
	}

	var arg uint32
	for n := byte(0); n < argLength; n++ {
		b := uint32(p.Peek(addr.Add(Word(uint32(n) + 1))))
		arg |= b << (8 * n)
	}

	return Instruction{
		Opcode: opcode,
		Arg:    WordFromUint32(arg),
		HasArg: true,
		Length: argLength + 1,
	}, nil
}
