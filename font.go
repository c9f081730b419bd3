package vulcan

// FontROMSize is the size of the character ROM: 256 glyphs of 8 rows each.
const FontROMSize = 256 * 8

// FontROM is the default character ROM copied into memory at the
// font register's address on Display reset: 256 glyphs, 8 bytes each,
// one byte per glyph row, most-significant-bit-is-leftmost-pixel.
//
// original_source/ embeds its ROM as a binary asset (font.rom) via
// include_bytes!, which the source-only filter that produced this
// retrieval pack excludes (binary blobs aren't code). This ROM is
// generated in its place: the digits, the letters (lowercase reuses
// the uppercase glyphs), space, and the punctuation . , : - _ ! ? hold
// a legible 8x8 block font (built from a compact 5-wide stroke table
// and widened to 8 columns); every other glyph is blank.
// A guest that relocates the font register can still supply its own
// ROM; this is only the power-on default.
var FontROM = buildFontROM()

// glyphStrokes holds a 5-row-tall, 5-bit-wide stroke pattern for the
// digits, uppercase letters, and a few punctuation marks, keyed by
// rune - widened and padded to the
// font ROM's native 8x8 cell by buildFontROM.
var glyphStrokes = map[byte][5]byte{
	'0': {0x0E, 0x11, 0x11, 0x11, 0x0E}, '1': {0x04, 0x0C, 0x04, 0x04, 0x0E},
	'2': {0x0E, 0x01, 0x0E, 0x10, 0x1F}, '3': {0x1F, 0x02, 0x06, 0x01, 0x1E},
	'4': {0x02, 0x06, 0x0A, 0x1F, 0x02}, '5': {0x1F, 0x10, 0x1E, 0x01, 0x1E},
	'6': {0x0E, 0x10, 0x1E, 0x11, 0x0E}, '7': {0x1F, 0x01, 0x02, 0x04, 0x04},
	'8': {0x0E, 0x11, 0x0E, 0x11, 0x0E}, '9': {0x0E, 0x11, 0x0F, 0x01, 0x0E},
	'A': {0x0E, 0x11, 0x1F, 0x11, 0x11}, 'B': {0x1E, 0x11, 0x1E, 0x11, 0x1E},
	'C': {0x0E, 0x11, 0x10, 0x11, 0x0E}, 'D': {0x1C, 0x12, 0x11, 0x12, 0x1C},
	'E': {0x1F, 0x10, 0x1E, 0x10, 0x1F}, 'F': {0x1F, 0x10, 0x1E, 0x10, 0x10},
	'G': {0x0E, 0x10, 0x13, 0x11, 0x0E}, 'H': {0x11, 0x11, 0x1F, 0x11, 0x11},
	'I': {0x0E, 0x04, 0x04, 0x04, 0x0E}, 'J': {0x01, 0x01, 0x01, 0x11, 0x0E},
	'K': {0x11, 0x12, 0x1C, 0x12, 0x11}, 'L': {0x10, 0x10, 0x10, 0x10, 0x1F},
	'M': {0x11, 0x1B, 0x15, 0x11, 0x11}, 'N': {0x11, 0x19, 0x15, 0x13, 0x11},
	'O': {0x0E, 0x11, 0x11, 0x11, 0x0E}, 'P': {0x1E, 0x11, 0x1E, 0x10, 0x10},
	'Q': {0x0E, 0x11, 0x11, 0x15, 0x0D}, 'R': {0x1E, 0x11, 0x1E, 0x12, 0x11},
	'S': {0x0F, 0x10, 0x0E, 0x01, 0x1E}, 'T': {0x1F, 0x04, 0x04, 0x04, 0x04},
	'U': {0x11, 0x11, 0x11, 0x11, 0x0E}, 'V': {0x11, 0x11, 0x11, 0x0A, 0x04},
	'W': {0x11, 0x11, 0x15, 0x1B, 0x11}, 'X': {0x11, 0x0A, 0x04, 0x0A, 0x11},
	'Y': {0x11, 0x0A, 0x04, 0x04, 0x04}, 'Z': {0x1F, 0x02, 0x04, 0x08, 0x1F},
	' ': {0, 0, 0, 0, 0}, '.': {0, 0, 0, 0, 0x04}, ',': {0, 0, 0, 0x04, 0x08},
	':': {0, 0x04, 0, 0x04, 0}, '-': {0, 0, 0x1F, 0, 0}, '_': {0, 0, 0, 0, 0x1F},
	'!': {0x04, 0x04, 0x04, 0, 0x04}, '?': {0x0E, 0x01, 0x06, 0, 0x04},
}

func buildFontROM() []byte {
	rom := make([]byte, FontROMSize)
	for g := 0; g < 256; g++ {
		strokes, ok := glyphStrokes[byte(g)]
		if !ok && g >= 'a' && g <= 'z' {
			strokes, ok = glyphStrokes[byte(g-'a'+'A')]
		}
		if !ok {
			continue
		}
		base := g * 8
		rom[base+1] = strokes[0] << 3
		rom[base+2] = strokes[1] << 3
		rom[base+3] = strokes[2] << 3
		rom[base+4] = strokes[3] << 3
		rom[base+5] = strokes[4] << 3
	}
	return rom
}

// DefaultPalette is the 256-entry RGB332 color table copied into
// memory at the palette register's address on Display reset. The
// first 16 entries are the architecture's fixed default; the spec
// leaves the remaining 240 host-defined, so this fills them with a
// deterministic red ramp, (n/32)<<5, stepping one red level every 32
// entries (matching original_source/src/main.rs's habit of
// procedurally filling the high palette range rather than leaving it
// zeroed).
var DefaultPalette = buildDefaultPalette()

var defaultPaletteHead = [16]byte{
	0x00, 0x05, 0x65, 0x11, 0xA8, 0x49, 0xEB, 0xFF,
	0xE1, 0xF4, 0xFC, 0x1C, 0x37, 0x8E, 0xEE, 0xFA,
}

func buildDefaultPalette() []byte {
	palette := make([]byte, 256)
	copy(palette, defaultPaletteHead[:])
	for n := 16; n < 256; n++ {
		palette[n] = byte((n / 32) << 5)
	}
	return palette
}
