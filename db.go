package rowdb

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyvit/rowdb/row"
	"github.com/puzpuzpuz/xsync/v3"
)

const trackTxns = true

// Backend selects the key-value store underneath a DB.
type Backend string

const (
	BackendBolt   Backend = "bolt"
	BackendPebble Backend = "pebble"
	BackendBadger Backend = "badger"
	BackendMem    Backend = "mem"
)

var backends = map[Backend]func(path string, opt Options) (storage, error){
	BackendBolt:   openBoltStorage,
	BackendPebble: openPebbleStorage,
	BackendBadger: openBadgerStorage,
	BackendMem: func(string, Options) (storage, error) {
		return newMemStorage(), nil
	},
}

func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if b == "" {
		return BackendBolt, nil
	}
	if backends[b] == nil {
		return "", fmt.Errorf("unknown backend %q", s)
	}
	return b, nil
}

type DB struct {
	store   storage
	backend Backend
	logger  *slog.Logger
	verbose bool

	tables *xsync.MapOf[string, *Table]
	closed atomic.Bool

	lastSize    atomic.Int64
	ReaderCount atomic.Int64
	WriterCount atomic.Int64
	ReadCount   atomic.Uint64
	WriteCount  atomic.Uint64

	txns     []*Tx
	txnsLock sync.Mutex
}

type Options struct {
	// Backend defaults to BackendBolt.
	Backend Backend
	// Logger defaults to slog.Default().
	Logger    *slog.Logger
	Verbose   bool
	IsTesting bool
	// MmapSize is the initial Bolt mmap size.
	MmapSize int
}

func (opt Options) logger() *slog.Logger {
	if opt.Logger != nil {
		return opt.Logger
	}
	return slog.Default()
}

// Open opens the database at path. Pebble, Badger and mem backends keep the
// data in memory when path is empty; Bolt requires a path.
func Open(path string, opt Options) (*DB, error) {
	backend, err := ParseBackend(string(opt.Backend))
	if err != nil {
		return nil, fmt.Errorf("rowdb: %w", err)
	}
	st, err := backends[backend](path, opt)
	if err != nil {
		return nil, fmt.Errorf("rowdb: %s: %w", backend, err)
	}

	db := &DB{
		store:   st,
		backend: backend,
		logger:  opt.logger(),
		verbose: opt.Verbose,
		tables:  xsync.NewMapOf[string, *Table](),
	}

	err = db.Write(func(tx *Tx) error {
		return db.loadCatalog(tx, time.Now())
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return db, nil
}

// loadCatalog opens every table recorded in the catalog and bumps its
// last-seen time.
func (db *DB) loadCatalog(tx *Tx, now time.Time) error {
	cat, err := tx.stx.CreateBucket(catalogBucket)
	if err != nil {
		return fmt.Errorf("rowdb: creating catalog: %w", err)
	}

	var states []*tableState
	var names []string
	var decErr error
	err = scanBucket(cat, func(k, v []byte) {
		ts, err := decodeTableState(string(k), v)
		if err != nil {
			decErr = errors.Join(decErr, err)
			return
		}
		states = append(states, ts)
		names = append(names, string(k))
	})
	if err = errors.Join(err, decErr); err != nil {
		return err
	}

	for i, ts := range states {
		ts.LastSeen = now
		if err := ts.save(cat, names[i]); err != nil {
			return err
		}
		if _, err := tx.stx.CreateBucket(ts.ID); err != nil {
			return tableErrf(names[i], nil, err, "creating data bucket")
		}
		db.tables.Store(names[i], newTable(names[i], ts, nil))
	}
	if len(states) > 0 {
		db.logger.Debug("rowdb: opened catalog", "backend", string(db.backend), "tables", len(states))
	}
	return nil
}

func (db *DB) Backend() Backend {
	return db.backend
}

// Size is the storage size observed at the end of the last write transaction.
func (db *DB) Size() int64 {
	return db.lastSize.Load()
}

func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := db.store.Close()
	if err != nil {
		return fmt.Errorf("rowdb: closing: %w", err)
	}
	return nil
}

// DefineTable creates the table if it doesn't exist, or checks that the
// stored layout matches r.
func (db *DB) DefineTable(name string, r *row.Row) (*Table, error) {
	if name == "" {
		return nil, errors.New("rowdb: empty table name")
	}
	if r == nil || r.Columns() == 0 {
		return nil, tableErrf(name, nil, nil, "no columns")
	}
	if err := r.Validate(); err != nil {
		return nil, tableErrf(name, nil, err, "invalid row")
	}
	var tbl *Table
	err := db.Write(func(tx *Tx) error {
		cat, err := tx.stx.CreateBucket(catalogBucket)
		if err != nil {
			return err
		}
		ts, err := loadTableState(cat, name)
		if err != nil {
			return err
		}
		if ts != nil {
			if stored := ts.row(); !stored.Equal(r) {
				return tableErrf(name, nil, ErrLayoutMismatch, "stored %s, defined %s", stored.Structure(), r.Structure())
			}
			tbl = newTable(name, ts, r)
			return nil
		}

		ts = newTableState(r, time.Now())
		if err := ts.save(cat, name); err != nil {
			return err
		}
		if _, err := tx.stx.CreateBucket(ts.ID); err != nil {
			return tableErrf(name, nil, err, "creating data bucket")
		}
		tbl = newTable(name, ts, r)
		db.logger.Info("rowdb: created table", "table", name, "id", ts.ID, "structure", r.Structure())
		return nil
	})
	if err != nil {
		return nil, err
	}
	db.tables.Store(name, tbl)
	return tbl, nil
}

// OpenTable returns an existing table, restoring its Row from the catalog.
func (db *DB) OpenTable(name string) (*Table, error) {
	if tbl, ok := db.tables.Load(name); ok {
		return tbl, nil
	}
	var tbl *Table
	err := db.Read(func(tx *Tx) error {
		cat := tx.stx.Bucket(catalogBucket)
		if cat == nil {
			return tableErrf(name, nil, ErrTableNotFound, "")
		}
		ts, err := loadTableState(cat, name)
		if err != nil {
			return err
		}
		if ts == nil {
			return tableErrf(name, nil, ErrTableNotFound, "")
		}
		tbl = newTable(name, ts, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	tbl, _ = db.tables.LoadOrStore(name, tbl)
	return tbl, nil
}

// Table returns an open table, or nil.
func (db *DB) Table(name string) *Table {
	tbl, _ := db.tables.Load(name)
	return tbl
}

// Tables returns the sorted names of all known tables.
func (db *DB) Tables() []string {
	var names []string
	db.tables.Range(func(name string, _ *Table) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// DropTable removes the table and all of its entries.
func (db *DB) DropTable(name string) error {
	err := db.Write(func(tx *Tx) error {
		cat := tx.stx.Bucket(catalogBucket)
		if cat == nil {
			return tableErrf(name, nil, ErrTableNotFound, "")
		}
		ts, err := loadTableState(cat, name)
		if err != nil {
			return err
		}
		if ts == nil {
			return tableErrf(name, nil, ErrTableNotFound, "")
		}
		err = tx.stx.DeleteBucket(ts.ID)
		if err != nil && !errors.Is(err, ErrBucketNotFound) {
			return tableErrf(name, nil, err, "deleting data")
		}
		if err := cat.Delete([]byte(name)); err != nil {
			return tableErrf(name, nil, err, "writing catalog")
		}
		return nil
	})
	if err != nil {
		return err
	}
	db.tables.Delete(name)
	db.logger.Info("rowdb: dropped table", "table", name)
	return nil
}

func (db *DB) addTx(tx *Tx) {
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()
	db.txns = append(db.txns, tx)
}

func (db *DB) removeTx(tx *Tx) {
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()

	found := -1
	for i, t := range db.txns {
		if t == tx {
			found = i
			break
		}
	}
	if found < 0 {
		panic("tx not found in list")
	}

	n := len(db.txns)
	db.txns[found] = db.txns[n-1]
	db.txns[n-1] = nil // ensure it gets collected
	db.txns = db.txns[:n-1]
}

func (db *DB) DescribeOpenTxns() string {
	if !trackTxns {
		return "OPEN TX TRACKING DISABLED"
	}

	db.txnsLock.Lock()
	txns := slices.Clone(db.txns)
	db.txnsLock.Unlock()

	if len(txns) == 0 {
		return "NO OPEN TRANSACTIONS"
	}

	slices.SortFunc(txns, func(a, b *Tx) int {
		return a.startTime.Compare(b.startTime)
	})

	now := time.Now()

	var buf strings.Builder
	fmt.Fprintf(&buf, "%d OPEN TRANSACTIONS:\n", len(txns))
	for _, tx := range txns {
		ms := now.Sub(tx.startTime).Milliseconds()
		if ms < 100 {
			fmt.Fprintf(&buf, "\n---\nopen for %d ms\n", ms)
		} else {
			fmt.Fprintf(&buf, "\n---\nopen for %d ms:\n%s", ms, tx.stack)
		}
	}

	return buf.String()
}
