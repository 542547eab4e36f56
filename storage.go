package rowdb

import "errors"

// ErrBucketNotFound is returned by storageTx.DeleteBucket when the bucket doesn't exist.
var ErrBucketNotFound = errors.New("bucket not found")

var errTxNotWritable = errors.New("tx not writable")

// storage represents a key-value storage backend (Bolt, Pebble, Badger, in-memory).
type storage interface {
	// BeginTx starts a new transaction. Backends allow a single writable
	// transaction at a time; BeginTx(true) blocks until the previous one ends.
	BeginTx(writable bool) (storageTx, error)
	// Close closes the storage.
	Close() error
}

// storageTx represents a storage transaction.
type storageTx interface {
	// Writable returns true if this is a writable transaction.
	Writable() bool

	// Bucket returns a bucket, or nil if the bucket doesn't exist.
	Bucket(name string) storageBucket

	// CreateBucket creates a bucket if it doesn't exist.
	CreateBucket(name string) (storageBucket, error)

	// DeleteBucket deletes a bucket and all of its keys.
	DeleteBucket(name string) error

	// Commit commits the transaction.
	Commit() error

	// Rollback aborts the transaction. It should be safe to call multiple times,
	// including after Commit.
	Rollback() error

	// Size returns the database size in bytes (0 if unknown / not applicable).
	Size() int64
}

// storageBucket represents a bucket (sorted key-value collection).
type storageBucket interface {
	// Get retrieves a value by key. Returns nil if not found. The value is
	// only valid for the life of the transaction.
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair. The caller may reuse key and value
	// right after Put returns.
	Put(key, value []byte) error

	// Delete removes a key.
	Delete(key []byte) error

	// Cursor returns a cursor for iteration. The cursor must be closed.
	Cursor() storageCursor

	// Stats returns storage-specific bucket statistics.
	// Backends that don't track allocation sizes may return zero values except KeyN.
	Stats() bucketStats

	// KeyCount returns the number of keys in the bucket (best effort).
	KeyCount() int
}

type bucketStats struct {
	KeyN        int
	LeafInuse   int64
	LeafAlloc   int64
	BranchAlloc int64
}

func (s bucketStats) TotalAlloc() int64 { return s.BranchAlloc + s.LeafAlloc }

// storageCursor iterates over a sorted bucket. Returned keys and values are
// only valid until the next cursor call.
type storageCursor interface {
	// First moves to the first key-value pair.
	First() (key, value []byte)

	// Last moves to the last key-value pair.
	Last() (key, value []byte)

	// Seek moves to the first key >= seek.
	Seek(seek []byte) (key, value []byte)

	// SeekLast moves to the last key that is less than every key greater
	// than prefix and not starting with it.
	SeekLast(prefix []byte) (key, value []byte)

	// Next moves to the next key-value pair.
	Next() (key, value []byte)

	// Prev moves to the previous key-value pair.
	Prev() (key, value []byte)

	// Close releases the cursor and reports any iteration error.
	Close() error
}

// scanBucket visits every pair of the bucket in key order.
func scanBucket(b storageBucket, f func(k, v []byte)) error {
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		f(k, v)
	}
	return c.Close()
}

func countingStats(b storageBucket) bucketStats {
	var st bucketStats
	_ = scanBucket(b, func(k, v []byte) {
		st.KeyN++
		st.LeafInuse += int64(len(k) + len(v))
	})
	st.LeafAlloc = st.LeafInuse
	return st
}
