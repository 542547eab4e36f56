package rowdb

import (
	"encoding/binary"
	"errors"
)

// Flat key-value stores (Pebble, Badger) have no buckets, so we simulate them
// with key prefixes:
//
//	0x01 name                          bucket marker, empty value
//	0x02 uvarint(len(name)) name key   bucket data
//
// The length prefix keeps bucket key ranges disjoint for any pair of names.
const (
	prefixBucketMarker = 0x01
	prefixBucketData   = 0x02
)

var errEmptyKey = errors.New("empty key")

func bucketMarkerKey(name string) []byte {
	k := make([]byte, 0, 1+len(name))
	k = append(k, prefixBucketMarker)
	return append(k, name...)
}

func bucketDataPrefix(name string) []byte {
	k := make([]byte, 0, 1+binary.MaxVarintLen64+len(name))
	k = append(k, prefixBucketData)
	k = binary.AppendUvarint(k, uint64(len(name)))
	return append(k, name...)
}

func prefixedKey(prefix, key []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(key))
	k = append(k, prefix...)
	return append(k, key...)
}
