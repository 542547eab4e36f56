package rowdb

import (
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

type pebbleStorage struct {
	db   *pebble.DB
	wopt *pebble.WriteOptions
	wmu  sync.Mutex
}

// openPebbleStorage opens a Pebble store at path, or an in-memory one when
// path is empty.
func openPebbleStorage(path string, opt Options) (storage, error) {
	popt := &pebble.Options{
		Logger: newPrintfLogger(opt.logger(), "pebble"),
	}
	if path == "" {
		popt.FS = vfs.NewMem()
	}
	db, err := pebble.Open(path, popt)
	if err != nil {
		return nil, err
	}
	wopt := pebble.Sync
	if opt.IsTesting || path == "" {
		wopt = pebble.NoSync
	}
	return &pebbleStorage{db: db, wopt: wopt}, nil
}

func (s *pebbleStorage) BeginTx(writable bool) (storageTx, error) {
	if writable {
		s.wmu.Lock()
		b := s.db.NewIndexedBatch()
		return &pebbleTx{s: s, r: b, batch: b}, nil
	}
	return &pebbleTx{s: s, r: s.db.NewSnapshot()}, nil
}

func (s *pebbleStorage) Close() error {
	return s.db.Close()
}

// pebbleTx reads from an indexed batch (writable) or a snapshot (read-only).
type pebbleTx struct {
	s      *pebbleStorage
	r      pebble.Reader
	batch  *pebble.Batch
	closed bool
}

func (tx *pebbleTx) Writable() bool { return tx.batch != nil }

func (tx *pebbleTx) get(key []byte) ([]byte, error) {
	v, closer, err := tx.r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	v = append([]byte{}, v...)
	return v, closer.Close()
}

func (tx *pebbleTx) Bucket(name string) storageBucket {
	v, err := tx.get(bucketMarkerKey(name))
	if err != nil || v == nil {
		return nil
	}
	return &pebbleBucket{tx: tx, prefix: bucketDataPrefix(name)}
}

func (tx *pebbleTx) CreateBucket(name string) (storageBucket, error) {
	if b := tx.Bucket(name); b != nil {
		return b, nil
	}
	if tx.batch == nil {
		return nil, errTxNotWritable
	}
	if err := tx.batch.Set(bucketMarkerKey(name), []byte{}, nil); err != nil {
		return nil, err
	}
	return &pebbleBucket{tx: tx, prefix: bucketDataPrefix(name)}, nil
}

func (tx *pebbleTx) DeleteBucket(name string) error {
	if tx.batch == nil {
		return errTxNotWritable
	}
	if tx.Bucket(name) == nil {
		return ErrBucketNotFound
	}
	prefix := bucketDataPrefix(name)
	if err := tx.batch.DeleteRange(prefix, prefixEnd(prefix), nil); err != nil {
		return err
	}
	return tx.batch.Delete(bucketMarkerKey(name), nil)
}

func (tx *pebbleTx) Commit() error {
	if tx.closed {
		return nil
	}
	if tx.batch == nil {
		return errTxNotWritable
	}
	err := tx.batch.Commit(tx.s.wopt)
	tx.release()
	return err
}

func (tx *pebbleTx) Rollback() error {
	if tx.closed {
		return nil
	}
	tx.release()
	return nil
}

func (tx *pebbleTx) release() {
	tx.closed = true
	_ = tx.r.Close()
	if tx.batch != nil {
		tx.s.wmu.Unlock()
	}
}

func (tx *pebbleTx) Size() int64 {
	return int64(tx.s.db.Metrics().DiskSpaceUsage())
}

type pebbleBucket struct {
	tx     *pebbleTx
	prefix []byte
}

func (b *pebbleBucket) Get(key []byte) ([]byte, error) {
	return b.tx.get(prefixedKey(b.prefix, key))
}

func (b *pebbleBucket) Put(key, value []byte) error {
	if b.tx.batch == nil {
		return errTxNotWritable
	}
	if len(key) == 0 {
		return errEmptyKey
	}
	return b.tx.batch.Set(prefixedKey(b.prefix, key), value, nil)
}

func (b *pebbleBucket) Delete(key []byte) error {
	if b.tx.batch == nil {
		return errTxNotWritable
	}
	return b.tx.batch.Delete(prefixedKey(b.prefix, key), nil)
}

func (b *pebbleBucket) Cursor() storageCursor {
	it, err := b.tx.r.NewIter(&pebble.IterOptions{
		LowerBound: b.prefix,
		UpperBound: prefixEnd(b.prefix),
	})
	return &pebbleCursor{it: it, prefix: b.prefix, err: err}
}

func (b *pebbleBucket) Stats() bucketStats { return countingStats(b) }

func (b *pebbleBucket) KeyCount() int { return countingStats(b).KeyN }

type pebbleCursor struct {
	it     *pebble.Iterator
	prefix []byte
	err    error
}

func (c *pebbleCursor) result(valid bool) ([]byte, []byte) {
	if !valid {
		return nil, nil
	}
	return c.it.Key()[len(c.prefix):], c.it.Value()
}

func (c *pebbleCursor) First() ([]byte, []byte) {
	if c.it == nil {
		return nil, nil
	}
	return c.result(c.it.First())
}

func (c *pebbleCursor) Last() ([]byte, []byte) {
	if c.it == nil {
		return nil, nil
	}
	return c.result(c.it.Last())
}

func (c *pebbleCursor) Seek(seek []byte) ([]byte, []byte) {
	if c.it == nil {
		return nil, nil
	}
	return c.result(c.it.SeekGE(prefixedKey(c.prefix, seek)))
}

func (c *pebbleCursor) SeekLast(prefix []byte) ([]byte, []byte) {
	if c.it == nil {
		return nil, nil
	}
	limit := prefixEnd(prefixedKey(c.prefix, prefix))
	if limit == nil {
		return c.result(c.it.Last())
	}
	return c.result(c.it.SeekLT(limit))
}

func (c *pebbleCursor) Next() ([]byte, []byte) {
	if c.it == nil {
		return nil, nil
	}
	return c.result(c.it.Next())
}

func (c *pebbleCursor) Prev() ([]byte, []byte) {
	if c.it == nil {
		return nil, nil
	}
	return c.result(c.it.Prev())
}

func (c *pebbleCursor) Close() error {
	if c.it == nil {
		return c.err
	}
	err := c.it.Close()
	c.it = nil
	if c.err != nil {
		return c.err
	}
	return err
}
