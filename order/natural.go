package order

import "bytes"

// Natural is the base-256 big-endian codec.
var Natural = naturalOrder{}

type naturalOrder struct{}

func (naturalOrder) Name() string { return "b256" }

func (naturalOrder) EncodeTo(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

func (o naturalOrder) Encode(v uint64, width int) []byte {
	b := make([]byte, width)
	o.EncodeTo(b, v)
	return b
}

func (naturalOrder) Decode(src []byte) uint64 {
	var v uint64
	for _, b := range src {
		v = (v << 8) | uint64(b)
	}
	return v
}

func (naturalOrder) Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// MaxValue returns the largest value representable in width bytes.
func (naturalOrder) MaxValue(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * uint(width))) - 1
}
