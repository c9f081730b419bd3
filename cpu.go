package vulcan

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Reset values for the four CPU registers, per the architecture.
const (
	resetPC = Word(1024)
	resetDP = Word(256)
	resetSP = Word(1024)
	resetIV = Word(1024)
)

// wordSize is the byte width of one stack cell.
const wordSize = Word(3)

// CPU is a Vulcan CPU core: four registers, two flags, and a bus it
// drives. Both the data stack (growing up from 256) and the call
// stack (growing down from 1024) live inside the bus's address space,
// not in separate host containers - guest code can inspect and
// mutate them through Sdp/Setsdp exactly as it can any other memory.
type CPU struct {
	bus PeekPoke

	pc Word
	dp Word
	sp Word
	iv Word

	intEnabled bool
	halted     bool

	// Err holds the most recent trap (currently only InvalidOpcode).
	// It is cleared only by Reset; while it is set, Step is a no-op.
	Err error

	// DebugOut receives diagnostic output from the Debug opcode and
	// from trap reporting. Defaults to os.Stdout.
	DebugOut io.Writer
}

// NewCPU returns a CPU wired to bus, in its power-on state (halted,
// registers at their reset values).
func NewCPU(bus PeekPoke) *CPU {
	cpu := &CPU{bus: bus, DebugOut: os.Stdout}
	cpu.Reset()
	return cpu
}

// Reset returns the CPU to its power-on state: pc=1024, dp=256,
// sp=1024, iv=1024, interrupts disabled, halted. It does not touch
// memory contents.
func (c *CPU) Reset() {
	c.pc = resetPC
	c.dp = resetDP
	c.sp = resetSP
	c.iv = resetIV
	c.intEnabled = false
	c.halted = true
	c.Err = nil
}

// Halted reports whether the CPU is in the halted state.
func (c *CPU) Halted() bool { return c.halted }

// Resume takes the CPU out of the halted state without otherwise
// touching its registers, so a host can restart execution after Hlt
// (or before the first Step, since the reset state is halted).
func (c *CPU) Resume() { c.halted = false }

// PC, DP, SP, IV return the current values of the program counter,
// data-stack pointer, call-stack pointer, and interrupt vector.
func (c *CPU) PC() Word { return c.pc }
func (c *CPU) DP() Word { return c.dp }
func (c *CPU) SP() Word { return c.sp }
func (c *CPU) IV() Word { return c.iv }

// InterruptsEnabled reports whether the interrupt mask is set.
func (c *CPU) InterruptsEnabled() bool { return c.intEnabled }

// Peek and Poke let a CPU itself be used as a PeekPoke, forwarding to
// its bus - useful for device-reset helpers (see Display) that only
// need byte access and don't care whether they're talking to a bus or
// a bare CPU.
func (c *CPU) Peek(addr Word) byte        { return c.bus.Peek(addr) }
func (c *CPU) Poke(addr Word, val byte)   { c.bus.Poke(addr, val) }

func (c *CPU) pushData(w Word) {
	Poke24(c.bus, c.dp, w)
	c.dp = c.dp.Add(wordSize)
}

func (c *CPU) popData() Word {
	c.dp = c.dp.Sub(wordSize)
	return Peek24(c.bus, c.dp)
}

func (c *CPU) peekData() Word {
	return Peek24(c.bus, c.dp.Sub(wordSize))
}

func (c *CPU) pushCall(w Word) {
	c.sp = c.sp.Sub(wordSize)
	Poke24(c.bus, c.sp, w)
}

func (c *CPU) popCall() Word {
	val := Peek24(c.bus, c.sp)
	c.sp = c.sp.Add(wordSize)
	return val
}

func (c *CPU) peekCall() Word {
	return Peek24(c.bus, c.sp)
}

// RaiseInterrupt performs the atomic interrupt-entry transition: it
// pushes the current pc onto the call stack and jumps to iv. It is a
// no-op while interrupts are disabled. No concrete interrupt source
// lives in this package; devices that want to interrupt the CPU (see
// Timer) call this directly.
func (c *CPU) RaiseInterrupt() {
	if !c.intEnabled {
		return
	}
	c.pushCall(c.pc)
	c.pc = c.iv
}

// Step executes at most one instruction. It is a no-op if the CPU is
// halted or already carrying a trap from a previous Step.
func (c *CPU) Step() {
	if c.halted || c.Err != nil {
		return
	}

	instr, err := Decode(c.bus, c.pc)
	if err != nil {
		c.Err = err
		c.reportTrap(err)
		return
	}

	c.pc = c.execute(instr)
}

// Run steps the CPU until it halts, traps, or has executed maxSteps
// instructions (maxSteps <= 0 means unbounded). Like the teacher's
// tight execution loop, it disables the garbage collector for the
// duration of the run and restores the previous setting on return,
// since the hot path here allocates nothing but a GC pause mid-run
// would be observable as a timing glitch to guest code driving the
// display.
func (c *CPU) Run(maxSteps int) {
	prevGC := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(prevGC)

	for steps := 0; maxSteps <= 0 || steps < maxSteps; steps++ {
		if c.halted || c.Err != nil {
			return
		}
		c.Step()
	}
}

func (c *CPU) reportTrap(err error) {
	if c.DebugOut == nil {
		return
	}
	fmt.Fprintf(c.DebugOut, "%s at pc=%s\n", err, c.pc)
}

// execute runs instr and returns the CPU's next pc.
func (c *CPU) execute(instr Instruction) Word {
	if instr.HasArg {
		c.pushData(instr.Arg)
	}

	next := c.pc.Add(Word(uint32(instr.Length)))

	if instr.Opcode.IsBinary() {
		x := c.popData()
		y := c.popData()

		switch instr.Opcode {
		case Add:
			c.pushData(y.Add(x))
		case Sub:
			c.pushData(y.Sub(x))
		case Mul:
			c.pushData(y.Mul(x))
		case Div:
			c.pushData(y.Div(x))
		case Mod:
			c.pushData(y.Rem(x))
		case And:
			c.pushData(y.And(x))
		case Or:
			c.pushData(y.Or(x))
		case Xor:
			c.pushData(y.Xor(x))
		case Gt:
			c.pushData(WordFromBool(y.Greater(x)))
		case Lt:
			c.pushData(WordFromBool(y.Less(x)))
		case Agt:
			c.pushData(WordFromBool(y.SignedGreater(x)))
		case Alt:
			c.pushData(WordFromBool(y.SignedLess(x)))
		case Lshift:
			c.pushData(y.Lshift(x))
		case Rshift:
			c.pushData(y.Rshift(x))
		case Arshift:
			c.pushData(y.Arshift(x))
		case Swap:
			c.pushData(x)
			c.pushData(y)
		case Store:
			b := y.Bytes()
			c.bus.Poke(x, b[0])
		case Storew:
			Poke24(c.bus, x, y)
		case Setsdp:
			c.dp = x
			c.sp = y
		case Brz:
			if y.Uint32() == 0 {
				return c.pc.Add(Word(uint32(x.Int32())))
			}
		case Brnz:
			if y.Uint32() != 0 {
				return c.pc.Add(Word(uint32(x.Int32())))
			}
		}
		return next
	}

	switch instr.Opcode {
	case Nop:
		// no effect
	case Rand:
		// reserved; currently no effect
	case Not:
		x := c.popData()
		c.pushData(WordFromBool(x.Uint32() == 0))
	case Pop:
		c.popData()
	case Dup:
		c.pushData(c.peekData())
	case Pick:
		n := c.popData()
		addr := c.dp.Sub(Word((n.Uint32() + 1) * 3))
		c.pushData(Peek24(c.bus, addr))
	case Rot:
		x := c.popData()
		y := c.popData()
		z := c.popData()
		c.pushData(y)
		c.pushData(x)
		c.pushData(z)
	case Jmp:
		return c.popData()
	case Jmpr:
		x := c.popData()
		return c.pc.Add(Word(uint32(x.Int32())))
	case Call:
		x := c.popData()
		c.pushCall(next)
		return x
	case Ret:
		return c.popCall()
	case Hlt:
		c.halted = true
	case Load:
		x := c.popData()
		c.pushData(Word(c.bus.Peek(x)))
	case Loadw:
		x := c.popData()
		c.pushData(Peek24(c.bus, x))
	case Inton:
		c.intEnabled = true
	case Intoff:
		c.intEnabled = false
	case Setiv:
		c.iv = c.popData()
	case Sdp:
		c.pushData(c.sp)
		c.pushData(c.dp.Add(wordSize)) // +3: dp is read after the push above advanced it; +3 covers this push
	case Pushr:
		c.pushCall(c.popData())
	case Popr:
		c.pushData(c.popCall())
	case Peekr:
		c.pushData(c.peekCall())
	case Debug:
		if c.DebugOut != nil {
			fmt.Fprintf(c.DebugOut, "debug: pc=%s dp=%s sp=%s top=%s\n", c.pc, c.dp, c.sp, c.peekData())
		}
	}
	return next
}

// String renders a one-line register dump, in the spirit of the
// teacher's interactive-debugger state printer.
func (c *CPU) String() string {
	return fmt.Sprintf("pc=%s dp=%s sp=%s iv=%s int=%v halted=%v",
		c.pc, c.dp, c.sp, c.iv, c.intEnabled, c.halted)
}

// DisassembleAt decodes and formats the instruction at addr without
// executing it, for diagnostics.
func (c *CPU) DisassembleAt(addr Word) string {
	instr, err := Decode(c.bus, addr)
	if err != nil {
		return fmt.Sprintf("%s: %s", addr, err)
	}
	if instr.HasArg {
		return fmt.Sprintf("%s: %s %s", addr, instr.Opcode, instr.Arg)
	}
	return fmt.Sprintf("%s: %s", addr, instr.Opcode)
}
