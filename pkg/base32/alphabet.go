package base32

// Padding is appended to the encoded output to reach a multiple of 8 symbols.
const Padding = '='

// invalid marks bytes that are not part of an alphabet.
const invalid = 0xFF

// Alphabet is a bijection between 5-bit values and 32 symbols.
type Alphabet struct {
	name   string
	encode [32]byte
	decode *[256]byte
}

// Name returns the alphabet identifier ("base32" or "base32hex").
func (a *Alphabet) Name() string { return a.name }

// Valid reports whether c decodes to a symbol value in this alphabet.
func (a *Alphabet) Valid(c byte) bool { return a.decode[c] <= 31 }

var (
	// Std is the RFC 4648 section 6 alphabet.
	Std = &Alphabet{
		name:   "base32",
		encode: [32]byte([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ234567")),
		decode: &stdDecodeTable,
	}

	// Hex is the RFC 4648 section 7 "extended hex" alphabet.
	Hex = &Alphabet{
		name:   "base32hex",
		encode: [32]byte([]byte("0123456789ABCDEFGHIJKLMNOPQRSTUV")),
		decode: &hexDecodeTable,
	}
)

const xx = invalid

var stdDecodeTable = [256]byte{
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x00 - 0x0F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x10 - 0x1F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x20 - 0x2F
	xx, xx, 26, 27, 28, 29, 30, 31, xx, xx, xx, xx, xx, xx, xx, xx, // 0x30 - 0x3F
	xx, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, // 0x40 - 0x4F
	15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, xx, xx, xx, xx, xx, // 0x50 - 0x5F
	xx, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, // 0x60 - 0x6F
	15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, xx, xx, xx, xx, xx, // 0x70 - 0x7F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x80 - 0x8F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x90 - 0x9F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xA0 - 0xAF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xB0 - 0xBF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xC0 - 0xCF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xD0 - 0xDF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xE0 - 0xEF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xF0 - 0xFF
}

var hexDecodeTable = [256]byte{
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x00 - 0x0F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x10 - 0x1F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x20 - 0x2F
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, xx, xx, xx, xx, xx, xx, // 0x30 - 0x3F
	xx, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40 - 0x4F
	25, 26, 27, 28, 29, 30, 31, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x50 - 0x5F
	xx, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x60 - 0x6F
	25, 26, 27, 28, 29, 30, 31, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x70 - 0x7F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x80 - 0x8F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x90 - 0x9F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xA0 - 0xAF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xB0 - 0xBF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xC0 - 0xCF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xD0 - 0xDF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xE0 - 0xEF
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0xF0 - 0xFF
}
