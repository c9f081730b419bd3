package vulcan

// FrameWidth and FrameHeight are the rasterizer's fixed output
// dimensions; FrameSize is the exact length the caller-owned frame
// buffer passed to Draw must have (4 bytes per pixel, RGBA).
const (
	FrameWidth  = 640
	FrameHeight = 480
	FrameSize   = FrameWidth * FrameHeight * 4
)

// displayRegBase is the fixed address of the 22-byte display register
// block.
const displayRegBase = Word(16)

// Default register values, restored by ResetDisplay.
const (
	defaultMode   = byte(5)
	defaultScreen = Word(0x10000)
	defaultFont   = Word(0x1DF00)
)

var defaultPaletteAddr = Word(0x1FF00)

// DisplayRegisters is the decoded form of the 22-byte register block
// at address 16: mode, then seven Word fields giving the screen,
// palette and font base addresses, the logical screen geometry, and
// the row/col offsets.
type DisplayRegisters struct {
	Mode      byte
	Screen    Word
	Palette   Word
	Font      Word
	Height    Word
	Width     Word
	RowOffset Word
	ColOffset Word
}

// ReadDisplayRegisters reads the live register block from bus.
func ReadDisplayRegisters(bus PeekPoke) DisplayRegisters {
	return DisplayRegisters{
		Mode:      bus.Peek(displayRegBase),
		Screen:    Peek24(bus, displayRegBase.Add(1)),
		Palette:   Peek24(bus, displayRegBase.Add(4)),
		Font:      Peek24(bus, displayRegBase.Add(7)),
		Height:    Peek24(bus, displayRegBase.Add(10)),
		Width:     Peek24(bus, displayRegBase.Add(13)),
		RowOffset: Peek24(bus, displayRegBase.Add(16)),
		ColOffset: Peek24(bus, displayRegBase.Add(19)),
	}
}

func writeDisplayRegisters(bus PeekPoke, reg DisplayRegisters) {
	bus.Poke(displayRegBase, reg.Mode)
	Poke24(bus, displayRegBase.Add(1), reg.Screen)
	Poke24(bus, displayRegBase.Add(4), reg.Palette)
	Poke24(bus, displayRegBase.Add(7), reg.Font)
	Poke24(bus, displayRegBase.Add(10), reg.Height)
	Poke24(bus, displayRegBase.Add(13), reg.Width)
	Poke24(bus, displayRegBase.Add(16), reg.RowOffset)
	Poke24(bus, displayRegBase.Add(19), reg.ColOffset)
}

func defaultDisplayRegisters() DisplayRegisters {
	return DisplayRegisters{
		Mode:    defaultMode,
		Screen:  defaultScreen,
		Palette: defaultPaletteAddr,
		Font:    defaultFont,
		Height:  Word(128),
		Width:   Word(128),
	}
}

// ResetDisplay writes the default register block, font ROM, and
// palette into bus - the display-side half of a machine's power-on
// reset. It does not touch the CPU.
func ResetDisplay(bus PeekPoke) {
	reg := defaultDisplayRegisters()
	writeDisplayRegisters(bus, reg)
	PokeSlice(bus, reg.Font, FontROM)
	PokeSlice(bus, reg.Palette, DefaultPalette)
}

// Draw rasterizes the current contents of bus's display register
// block, font ROM, and palette/screen memory into frame, a
// caller-owned buffer of exactly FrameSize bytes laid out row-major
// with four bytes per pixel in R, G, B, A order. bus is read-only
// from Draw's point of view.
func Draw(bus PeekPoke, frame []byte) {
	if len(frame) != FrameSize {
		panic("vulcan: Draw requires a frame buffer of exactly FrameSize bytes")
	}

	reg := ReadDisplayRegisters(bus)
	gfx := reg.Mode&1 != 0
	highres := reg.Mode&2 != 0
	paletted := reg.Mode&4 != 0

	for row := 0; row < FrameHeight; row++ {
		for col := 0; col < FrameWidth; col++ {
			pixel := frame[(row*FrameWidth+col)*4 : (row*FrameWidth+col)*4+4]
			drawPixel(bus, reg, gfx, highres, paletted, row, col, pixel)
		}
	}
}

// byteAddress computes the screen-memory address of logical cell
// (x, y), honoring the configurable row/col offset and wraparound.
func byteAddress(reg DisplayRegisters, x, y Word) Word {
	rowStart := y.Add(reg.RowOffset.Rem(reg.Height)).Mul(reg.Width).Add(reg.Screen)
	return x.Add(reg.ColOffset).Rem(reg.Width).Add(rowStart)
}

func expandColor(c byte) (r, g, b byte) {
	red := c >> 5
	green := (c >> 2) & 7
	blue := (c & 3) << 1
	return red << 5, green << 5, blue << 5
}

func drawPixel(bus PeekPoke, reg DisplayRegisters, gfx, highres, paletted bool, row, col int, pixel []byte) {
	pixel[3] = 0xFF

	switch {
	case gfx && highres:
		vx, vy := Word(uint32(col/4)), Word(uint32(row/4))
		addr := byteAddress(reg, vx, vy)
		writeGfxPixel(bus, reg, paletted, bus.Peek(addr), pixel)

	case gfx && !highres:
		// A centered 384x384 window, letterboxed black outside: rows
		// [240-64*3, 240+64*3), cols [320-64*3, 320+64*3), each logical
		// cell rendered at 3x zoom, per original_source/src/display.rs's
		// draw_direct_low_gfx/draw_paletted_low_gfx bounds (see DESIGN.md).
		const rowLo, rowHi = 240 - 64*3, 240 + 64*3
		const colLo, colHi = 320 - 64*3, 320 + 64*3
		if row < rowLo || row >= rowHi || col < colLo || col >= colHi {
			pixel[0], pixel[1], pixel[2] = 0, 0, 0
			return
		}
		vx := Word(uint32((col - colLo) / 3))
		vy := Word(uint32((row - rowLo) / 3))
		addr := byteAddress(reg, vx, vy)
		writeGfxPixel(bus, reg, paletted, bus.Peek(addr), pixel)

	case !gfx && highres:
		vx, vy := Word(uint32(col/8)), Word(uint32(row/8))
		charRow, charCol := row%8, col%8
		writeTextPixel(bus, reg, paletted, vx, vy, charRow, charCol, pixel)

	default: // text, low-res
		vx, vy := Word(uint32(col/16)), Word(uint32(row/16))
		charRow, charCol := (row/2)%8, (col/2)%8
		writeTextPixel(bus, reg, paletted, vx, vy, charRow, charCol, pixel)
	}
}

func writeGfxPixel(bus PeekPoke, reg DisplayRegisters, paletted bool, raw byte, pixel []byte) {
	color := raw
	if paletted {
		color = bus.Peek(reg.Palette.Add(Word(raw)))
	}
	r, g, b := expandColor(color)
	pixel[0], pixel[1], pixel[2] = r, g, b
}

func writeTextPixel(bus PeekPoke, reg DisplayRegisters, paletted bool, vx, vy Word, charRow, charCol int, pixel []byte) {
	addr := byteAddress(reg, vx, vy)
	charIdx := bus.Peek(addr)
	charByte := bus.Peek(reg.Font.Add(Word(uint32(charIdx) << 3)).Add(Word(uint32(charRow))))

	colorAddr := addr.Add(reg.Width.Mul(reg.Height))
	colorByte := bus.Peek(colorAddr)

	set := charByte&(1<<(7-uint(charCol))) != 0

	if paletted {
		fgIdx, bgIdx := colorByte&0xF, colorByte>>4
		idx := bgIdx
		if set {
			idx = fgIdx
		}
		r, g, b := expandColor(bus.Peek(reg.Palette.Add(Word(idx))))
		pixel[0], pixel[1], pixel[2] = r, g, b
		return
	}

	if set {
		r, g, b := expandColor(colorByte)
		pixel[0], pixel[1], pixel[2] = r, g, b
	} else {
		pixel[0], pixel[1], pixel[2] = 0, 0, 0
	}
}
