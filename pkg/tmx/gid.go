package tmx

// Flip holds the flip flags stored in the high bits of a raw tile value.
type Flip uint32

// Raw tile value bit layout.
const (
	FlipHorizontal Flip = 0x80000000
	FlipVertical   Flip = 0x40000000
	FlipDiagonal   Flip = 0x20000000

	flipBits = FlipHorizontal | FlipVertical | FlipDiagonal

	// GIDMask keeps the tile id bits of a raw tile value.
	GIDMask uint32 = ^uint32(flipBits)
)

// DecodeGID splits a raw tile value into its global id and flip flags.
func DecodeGID(raw uint32) (uint32, Flip) {
	return raw & GIDMask, Flip(raw) & flipBits
}

// Horizontal reports whether the tile is mirrored left-right.
func (f Flip) Horizontal() bool { return f&FlipHorizontal != 0 }

// Vertical reports whether the tile is mirrored top-bottom.
func (f Flip) Vertical() bool { return f&FlipVertical != 0 }

// Diagonal reports whether the tile is mirrored across its diagonal.
func (f Flip) Diagonal() bool { return f&FlipDiagonal != 0 }
