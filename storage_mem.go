package rowdb

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memStorage struct {
	mu      sync.Mutex
	cond    *sync.Cond
	buckets map[string]*memBucket
	closed  bool
	writer  bool
}

// newMemStorage returns a transient in-memory storage, mostly useful for tests.
func newMemStorage() storage {
	s := &memStorage{buckets: make(map[string]*memBucket)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *memStorage) BeginTx(writable bool) (storageTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if writable {
		for s.writer && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			return nil, ErrClosed
		}
		s.writer = true
	}

	// Snapshot the entire DB for transactional isolation (simplicity over efficiency).
	snap := make(map[string]*memBucket, len(s.buckets))
	for k, b := range s.buckets {
		snap[k] = b.clone()
	}

	return &memTx{
		writable: writable,
		base:     s,
		buckets:  snap,
	}, nil
}

func (s *memStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.buckets = nil
	if s.cond != nil {
		s.cond.Broadcast()
	}
	return nil
}

type memTx struct {
	base     *memStorage
	writable bool
	buckets  map[string]*memBucket
	closed   bool
}

func (tx *memTx) Writable() bool { return tx.writable }

func (tx *memTx) closeLocked() {
	if tx.closed {
		return
	}
	tx.closed = true
	if tx.writable {
		tx.base.writer = false
		tx.base.cond.Broadcast()
	}
}

func (tx *memTx) Bucket(name string) storageBucket {
	if tx.closed {
		panic("tx is closed")
	}
	b := tx.buckets[name]
	if b == nil {
		return nil
	}
	return memBucketHandle{tx: tx, b: b}
}

func (tx *memTx) CreateBucket(name string) (storageBucket, error) {
	if tx.closed {
		panic("tx is closed")
	}
	if !tx.writable {
		return nil, errTxNotWritable
	}
	b := tx.buckets[name]
	if b == nil {
		b = &memBucket{}
		tx.buckets[name] = b
	}
	return memBucketHandle{tx: tx, b: b}, nil
}

func (tx *memTx) DeleteBucket(name string) error {
	if tx.closed {
		panic("tx is closed")
	}
	if !tx.writable {
		return errTxNotWritable
	}
	if tx.buckets[name] == nil {
		return ErrBucketNotFound
	}
	delete(tx.buckets, name)
	return nil
}

func (tx *memTx) Commit() error {
	if tx.closed {
		return nil
	}
	if !tx.writable {
		return errTxNotWritable
	}
	tx.base.mu.Lock()
	defer tx.base.mu.Unlock()
	if tx.base.closed {
		tx.closeLocked()
		return ErrClosed
	}
	tx.base.buckets = tx.buckets
	tx.closeLocked()
	return nil
}

func (tx *memTx) Rollback() error {
	tx.base.mu.Lock()
	defer tx.base.mu.Unlock()
	tx.closeLocked()
	return nil
}

func (tx *memTx) Size() int64 {
	var n int64
	for _, b := range tx.buckets {
		n += b.size()
	}
	return n
}

type memBucket struct {
	items []memKV // sorted by key
}

func (b *memBucket) clone() *memBucket {
	if b == nil {
		return nil
	}
	out := &memBucket{items: make([]memKV, len(b.items))}
	for i, kv := range b.items {
		out.items[i] = memKV{
			key:   slices.Clone(kv.key),
			value: slices.Clone(kv.value),
		}
	}
	return out
}

func (b *memBucket) size() int64 {
	var n int64
	for _, kv := range b.items {
		n += int64(len(kv.key) + len(kv.value))
	}
	return n
}

type memKV struct {
	key   []byte
	value []byte
}

type memBucketHandle struct {
	tx *memTx
	b  *memBucket
}

func (b memBucketHandle) Get(key []byte) ([]byte, error) {
	i, ok := b.find(key)
	if !ok {
		return nil, nil
	}
	return b.b.items[i].value, nil
}

func (b memBucketHandle) Put(key, value []byte) error {
	if !b.tx.writable {
		return errTxNotWritable
	}
	if len(key) == 0 {
		return fmt.Errorf("mem: empty key")
	}
	key = slices.Clone(key)
	value = slices.Clone(value)

	i, ok := b.find(key)
	if ok {
		b.b.items[i].value = value
		return nil
	}
	b.b.items = slices.Insert(b.b.items, i, memKV{key: key, value: value})
	return nil
}

func (b memBucketHandle) Delete(key []byte) error {
	if !b.tx.writable {
		return errTxNotWritable
	}
	i, ok := b.find(key)
	if !ok {
		return nil
	}
	b.b.items = slices.Delete(b.b.items, i, i+1)
	return nil
}

func (b memBucketHandle) Cursor() storageCursor {
	return &memCursor{b: b.b, pos: -1}
}

func (b memBucketHandle) Stats() bucketStats {
	inuse := b.b.size()
	return bucketStats{
		KeyN:      len(b.b.items),
		LeafInuse: inuse,
		LeafAlloc: inuse,
	}
}

func (b memBucketHandle) KeyCount() int { return len(b.b.items) }

func (b memBucketHandle) find(key []byte) (idx int, ok bool) {
	items := b.b.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}

type memCursor struct {
	b   *memBucket
	pos int
}

func (c *memCursor) at(i int) ([]byte, []byte) {
	c.pos = i
	if i < 0 || i >= len(c.b.items) {
		return nil, nil
	}
	kv := c.b.items[i]
	return kv.key, kv.value
}

func (c *memCursor) First() ([]byte, []byte) {
	return c.at(0)
}

func (c *memCursor) Last() ([]byte, []byte) {
	return c.at(len(c.b.items) - 1)
}

func (c *memCursor) Seek(seek []byte) ([]byte, []byte) {
	items := c.b.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, seek) >= 0
	})
	return c.at(i)
}

func (c *memCursor) SeekLast(prefix []byte) ([]byte, []byte) {
	limit := prefixEnd(prefix)
	if limit == nil {
		return c.Last()
	}
	items := c.b.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, limit) >= 0
	})
	return c.at(i - 1)
}

func (c *memCursor) Next() ([]byte, []byte) {
	if c.pos >= len(c.b.items) {
		return nil, nil
	}
	return c.at(c.pos + 1)
}

func (c *memCursor) Prev() ([]byte, []byte) {
	if c.pos < 0 {
		return nil, nil
	}
	return c.at(c.pos - 1)
}

func (c *memCursor) Close() error { return nil }
