// Package qoi implements a decoder for the QOI ("Quite OK Image") format.
//
// A QOI stream is a 14-byte header followed by a sequence of opcodes and an
// 8-byte end marker. Decoding is a single linear pass over a sequential byte
// source; the pixel cache and lookahead window are private to one decode.
package qoi

const (
	// Magic is the file magic for all QOI streams.
	Magic = "qoif"

	// HeaderSize is the size of the fixed header in bytes, magic included.
	HeaderSize = 14

	// CacheSize is the number of slots in the pixel cache.
	CacheSize = 64

	// MaxRun is the longest run a single run opcode can express. Run values
	// 62 and 63 collide with the literal tags.
	MaxRun = 62
)

// Opcode tags. The literal tags are full bytes; the others are 2-bit tags
// stored in the top bits of the byte.
const (
	opIndex byte = 0b00000000
	opDiff  byte = 0b01000000
	opLuma  byte = 0b10000000
	opRun   byte = 0b11000000
	opRGB   byte = 0b11111110
	opRGBA  byte = 0b11111111
)

const (
	maskOp byte = 0b11000000
	mask6  byte = 0b00111111
	mask4  byte = 0b00001111
	mask2  byte = 0b00000011
)

// EndMarker terminates the opcode stream.
var EndMarker = [windowSize]byte{0, 0, 0, 0, 0, 0, 0, 1}
