package order

import (
	"bytes"
	"encoding/base64"
)

// Alphabet64 lists the enhanced base64 digits in ascending order. The
// characters are URL-safe and sorted by their ASCII codes, which is what makes
// byte comparison of encodings agree with numeric comparison.
const Alphabet64 = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// Base64 is the enhanced base64 codec.
var Base64 = newBase64Order(Alphabet64)

type base64Order struct {
	alpha [64]byte
	ahpla [256]int8
	enc   *base64.Encoding
}

func newBase64Order(alphabet string) *base64Order {
	if len(alphabet) != 64 {
		panic("base64 alphabet must have 64 characters")
	}
	o := &base64Order{
		enc: base64.NewEncoding(alphabet).WithPadding(base64.NoPadding),
	}
	for i := range o.ahpla {
		o.ahpla[i] = -1
	}
	for i := 0; i < 64; i++ {
		c := alphabet[i]
		if i > 0 && c <= alphabet[i-1] {
			panic("base64 alphabet must be sorted")
		}
		o.alpha[i] = c
		o.ahpla[c] = int8(i)
	}
	return o
}

func (o *base64Order) Name() string { return "b64e" }

func (o *base64Order) EncodeTo(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = o.alpha[v&0x3F]
		v >>= 6
	}
}

func (o *base64Order) Encode(v uint64, width int) []byte {
	b := make([]byte, width)
	o.EncodeTo(b, v)
	return b
}

// EncodeSmart is like Encode, but saturates to the largest width-digit value
// instead of dropping the high bits when v does not fit.
func (o *base64Order) EncodeSmart(v uint64, width int) []byte {
	if v > o.MaxValue(width) {
		return bytes.Repeat(o.alpha[63:], width)
	}
	return o.Encode(v, width)
}

// Decode treats bytes outside of the alphabet (including the zero padding of
// an empty cell) as the zero digit.
func (o *base64Order) Decode(src []byte) uint64 {
	var v uint64
	for _, c := range src {
		d := o.ahpla[c]
		if d < 0 {
			d = 0
		}
		v = (v << 6) | uint64(d)
	}
	return v
}

func (o *base64Order) Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// MaxValue returns the largest value representable in width digits.
func (o *base64Order) MaxValue(width int) uint64 {
	if width*6 >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << (6 * uint(width))) - 1
}

// IsDigit reports whether c belongs to the alphabet.
func (o *base64Order) IsDigit(c byte) bool {
	return o.ahpla[c] >= 0
}

// EncodeBytes renders an arbitrary byte string as unpadded base64 text over
// the same alphabet. Encodings of equal-length inputs sort like the inputs.
func (o *base64Order) EncodeBytes(b []byte) string {
	return o.enc.EncodeToString(b)
}

// DecodeBytes reverses EncodeBytes.
func (o *base64Order) DecodeBytes(s string) ([]byte, error) {
	return o.enc.DecodeString(s)
}
