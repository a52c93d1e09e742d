package base32

import "errors"

// encodeTail lists, per count of leftover input bytes, how many symbols the
// partial group yields and how many pad characters complete it.
var encodeTail = [5]struct{ symbols, pad int }{
	{0, 0},
	{2, 6},
	{4, 4},
	{5, 3},
	{7, 1},
}

// decodeTail maps the count of leftover symbols to the bytes they carry.
// Negative entries are lengths no encoder can produce.
var decodeTail = [8]int{0, -1, 1, -1, 2, 3, -1, 4}

// StdEncode encodes src with the standard alphabet.
func StdEncode(src []byte) string { return Encode(src, Std) }

// HexEncode encodes src with the extended hex alphabet.
func HexEncode(src []byte) string { return Encode(src, Hex) }

// StdDecode decodes s with the standard alphabet.
func StdDecode(s string) ([]byte, error) { return Decode(s, Std) }

// HexDecode decodes s with the extended hex alphabet.
func HexDecode(s string) ([]byte, error) { return Decode(s, Hex) }

// EncodedLen returns the padded length of an encoding of n bytes.
func EncodedLen(n int) int {
	return (n + 4) / 5 * 8
}

// Encode returns the padded encoding of src in the given alphabet.
func Encode(src []byte, a *Alphabet) string {
	if len(src) == 0 {
		return ""
	}

	dst := make([]byte, 0, EncodedLen(len(src)))
	for len(src) > 0 {
		n := min(len(src), 5)

		// Left-align the group in 40 bits; missing bytes read as zero.
		var group uint64
		for i := range n {
			group |= uint64(src[i]) << (32 - 8*i)
		}

		symbols := 8
		if n < 5 {
			symbols = encodeTail[n].symbols
		}
		for i := range symbols {
			dst = append(dst, a.encode[(group>>(35-5*i))&0x1f])
		}
		src = src[n:]
	}

	for len(dst) < cap(dst) {
		dst = append(dst, Padding)
	}
	return string(dst)
}

// Decode parses s in the given alphabet. Padding is optional.
func Decode(s string, a *Alphabet) ([]byte, error) {
	if len(s) == 0 {
		return []byte{}, nil
	}

	padLen, err := paddingLength(s)
	if err != nil {
		return nil, err
	}
	body := s[:len(s)-padLen]

	for i := 0; i < len(body); i++ {
		if !a.Valid(body[i]) {
			return nil, errors.Join(ErrDecode, ErrInvalidCharacter)
		}
	}

	tail := decodeTail[len(body)%8]
	if tail < 0 {
		return nil, errors.Join(ErrDecode, ErrInvalidLength)
	}

	dst := make([]byte, 0, len(body)/8*5+tail)
	for len(body) > 0 {
		n := min(len(body), 8)

		var group uint64
		for i := range n {
			group |= uint64(a.decode[body[i]]) << (35 - 5*i)
		}

		bytes := 5
		if n < 8 {
			bytes = decodeTail[n]
		}
		for i := range bytes {
			dst = append(dst, byte(group>>(32-8*i)))
		}
		body = body[n:]
	}

	return dst, nil
}

// paddingLength counts the trailing pad run and rejects runs the encoder
// never emits.
func paddingLength(s string) (int, error) {
	n := 0
	for n < len(s) && s[len(s)-1-n] == Padding {
		n++
	}
	switch n {
	case 0, 1, 3, 4, 6:
		return n, nil
	default:
		return 0, errors.Join(ErrDecode, ErrInvalidPadding)
	}
}
