// Package order implements fixed-width, order-preserving encodings of
// unsigned integers.
//
// Two codecs are provided: [Natural] writes big-endian base-256 digits, and
// [Base64] writes printable base-64 digits over an ASCII-sorted alphabet. For
// both, comparing two encodings of the same width with [bytes.Compare] yields
// the same result as comparing the integers, so a storage engine can sort and
// range-scan encoded keys without decoding them.
//
// Values that do not fit into the requested width lose their high bits; sizing
// columns correctly is the caller's job.
package order

// Codec is a fixed-width order-preserving integer encoding.
type Codec interface {
	Name() string

	// EncodeTo writes v into all of dst, most significant digit first.
	EncodeTo(dst []byte, v uint64)

	// Encode returns a new width-byte encoding of v.
	Encode(v uint64, width int) []byte

	// Decode reads an integer from all of src.
	Decode(src []byte) uint64

	// Compare compares two encodings the way the codec orders them.
	Compare(a, b []byte) int
}

var (
	_ Codec = Natural
	_ Codec = Base64
)
