package rowdb

import (
	"bytes"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

type badgerStorage struct {
	db  *badger.DB
	wmu sync.Mutex
}

// openBadgerStorage opens a Badger store at path, or an in-memory one when
// path is empty.
func openBadgerStorage(path string, opt Options) (storage, error) {
	bopt := badger.DefaultOptions(path)
	if path == "" {
		bopt = bopt.WithInMemory(true)
	}
	if opt.IsTesting {
		bopt = bopt.WithSyncWrites(false).WithNumVersionsToKeep(1)
	}
	bopt.Logger = newPrintfLogger(opt.logger(), "badger")
	db, err := badger.Open(bopt)
	if err != nil {
		return nil, err
	}
	return &badgerStorage{db: db}, nil
}

func (s *badgerStorage) BeginTx(writable bool) (storageTx, error) {
	if s.db.IsClosed() {
		return nil, ErrClosed
	}
	if writable {
		s.wmu.Lock()
	}
	return &badgerTx{s: s, txn: s.db.NewTransaction(writable), writable: writable}, nil
}

func (s *badgerStorage) Close() error {
	return s.db.Close()
}

type badgerTx struct {
	s        *badgerStorage
	txn      *badger.Txn
	writable bool
	closed   bool
}

func (tx *badgerTx) Writable() bool { return tx.writable }

func (tx *badgerTx) get(key []byte) ([]byte, error) {
	item, err := tx.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

func (tx *badgerTx) Bucket(name string) storageBucket {
	v, err := tx.get(bucketMarkerKey(name))
	if err != nil || v == nil {
		return nil
	}
	return &badgerBucket{tx: tx, prefix: bucketDataPrefix(name)}
}

func (tx *badgerTx) CreateBucket(name string) (storageBucket, error) {
	if b := tx.Bucket(name); b != nil {
		return b, nil
	}
	if !tx.writable {
		return nil, errTxNotWritable
	}
	if err := tx.txn.Set(bucketMarkerKey(name), []byte{}); err != nil {
		return nil, err
	}
	return &badgerBucket{tx: tx, prefix: bucketDataPrefix(name)}, nil
}

func (tx *badgerTx) DeleteBucket(name string) error {
	if !tx.writable {
		return errTxNotWritable
	}
	if tx.Bucket(name) == nil {
		return ErrBucketNotFound
	}
	prefix := bucketDataPrefix(name)
	var keys [][]byte
	it := tx.txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()
	for _, k := range keys {
		if err := tx.txn.Delete(k); err != nil {
			return err
		}
	}
	return tx.txn.Delete(bucketMarkerKey(name))
}

func (tx *badgerTx) Commit() error {
	if tx.closed {
		return nil
	}
	if !tx.writable {
		return errTxNotWritable
	}
	err := tx.txn.Commit()
	tx.release()
	return err
}

func (tx *badgerTx) Rollback() error {
	if tx.closed {
		return nil
	}
	tx.txn.Discard()
	tx.release()
	return nil
}

func (tx *badgerTx) release() {
	tx.closed = true
	if tx.writable {
		tx.s.wmu.Unlock()
	}
}

func (tx *badgerTx) Size() int64 {
	lsm, vlog := tx.s.db.Size()
	return lsm + vlog
}

type badgerBucket struct {
	tx     *badgerTx
	prefix []byte
}

func (b *badgerBucket) Get(key []byte) ([]byte, error) {
	return b.tx.get(prefixedKey(b.prefix, key))
}

func (b *badgerBucket) Put(key, value []byte) error {
	if !b.tx.writable {
		return errTxNotWritable
	}
	if len(key) == 0 {
		return errEmptyKey
	}
	return b.tx.txn.Set(prefixedKey(b.prefix, key), bytes.Clone(value))
}

func (b *badgerBucket) Delete(key []byte) error {
	if !b.tx.writable {
		return errTxNotWritable
	}
	return b.tx.txn.Delete(prefixedKey(b.prefix, key))
}

func (b *badgerBucket) Cursor() storageCursor {
	return &badgerCursor{txn: b.tx.txn, prefix: b.prefix}
}

func (b *badgerBucket) Stats() bucketStats { return countingStats(b) }

func (b *badgerBucket) KeyCount() int { return countingStats(b).KeyN }

// badgerCursor wraps a Badger iterator. Badger iterators move in one
// direction only, so the cursor reopens its iterator when the direction
// changes. A read-write Badger transaction allows a single open iterator.
//
// IteratorOptions.Prefix is not set: it makes Valid() reject the seek limit,
// which lies outside the prefix. ValidForPrefix bounds the scan instead.
type badgerCursor struct {
	txn     *badger.Txn
	prefix  []byte
	it      *badger.Iterator
	reverse bool
	key     []byte
	err     error
}

func (c *badgerCursor) iter(reverse bool) *badger.Iterator {
	if c.it != nil && c.reverse == reverse {
		return c.it
	}
	if c.it != nil {
		c.it.Close()
	}
	c.reverse = reverse
	c.it = c.txn.NewIterator(badger.IteratorOptions{
		Reverse:        reverse,
		PrefetchValues: true,
		PrefetchSize:   16,
	})
	return c.it
}

func (c *badgerCursor) result() ([]byte, []byte) {
	if !c.it.ValidForPrefix(c.prefix) {
		c.key = nil
		return nil, nil
	}
	item := c.it.Item()
	v, err := item.ValueCopy(nil)
	if err != nil {
		c.err = err
		c.key = nil
		return nil, nil
	}
	c.key = item.KeyCopy(c.key[:0])
	return c.key[len(c.prefix):], v
}

// seekBefore positions a reverse iterator at the last key below limit.
func (c *badgerCursor) seekBefore(limit []byte) ([]byte, []byte) {
	it := c.iter(true)
	it.Seek(limit)
	if it.Valid() && bytes.Equal(it.Item().Key(), limit) {
		it.Next()
	}
	return c.result()
}

func (c *badgerCursor) First() ([]byte, []byte) {
	c.iter(false).Seek(c.prefix)
	return c.result()
}

func (c *badgerCursor) Last() ([]byte, []byte) {
	return c.seekBefore(prefixEnd(c.prefix))
}

func (c *badgerCursor) Seek(seek []byte) ([]byte, []byte) {
	c.iter(false).Seek(prefixedKey(c.prefix, seek))
	return c.result()
}

func (c *badgerCursor) SeekLast(prefix []byte) ([]byte, []byte) {
	limit := prefixEnd(prefixedKey(c.prefix, prefix))
	if limit == nil {
		return c.Last()
	}
	return c.seekBefore(limit)
}

func (c *badgerCursor) Next() ([]byte, []byte) {
	if c.key == nil {
		return nil, nil
	}
	if c.reverse {
		cur := bytes.Clone(c.key)
		it := c.iter(false)
		it.Seek(cur)
		if it.Valid() && bytes.Equal(it.Item().Key(), cur) {
			it.Next()
		}
		return c.result()
	}
	c.it.Next()
	return c.result()
}

func (c *badgerCursor) Prev() ([]byte, []byte) {
	if c.key == nil {
		return nil, nil
	}
	if !c.reverse {
		return c.seekBefore(bytes.Clone(c.key))
	}
	c.it.Next()
	return c.result()
}

func (c *badgerCursor) Close() error {
	if c.it != nil {
		c.it.Close()
		c.it = nil
	}
	return c.err
}
