package rowdb

import (
	"fmt"
	"runtime/debug"
	"time"
)

type Tx struct {
	db       *DB
	stx      storageTx
	writable bool
	written  bool

	startTime time.Time
	stack     []byte
}

func (db *DB) newTx(stx storageTx, writable bool) *Tx {
	tx := &Tx{
		db:        db,
		stx:       stx,
		writable:  writable,
		startTime: time.Now(),
	}
	if trackTxns {
		tx.stack = debug.Stack()
		db.addTx(tx)
	}
	return tx
}

func (tx *Tx) DB() *DB {
	return tx.db
}

func (tx *Tx) IsWritable() bool {
	return tx.writable
}

// Tx runs f inside a transaction. A writable transaction is committed when f
// returns nil and rolled back when it returns an error or panics; a panic is
// returned as an error carrying the stack trace.
func (db *DB) Tx(writable bool, f func(tx *Tx) error) error {
	if db.closed.Load() {
		return ErrClosed
	}
	stx, err := db.store.BeginTx(writable)
	if err != nil {
		return fmt.Errorf("rowdb: begin: %w", err)
	}
	if writable {
		db.WriterCount.Add(1)
		defer db.WriterCount.Add(-1)
	} else {
		db.ReaderCount.Add(1)
		defer db.ReaderCount.Add(-1)
	}

	tx := db.newTx(stx, writable)
	defer tx.close()

	if err := safelyCall(f, tx); err != nil {
		return err
	}
	if writable {
		if tx.written {
			db.lastSize.Store(stx.Size())
		}
		if err := stx.Commit(); err != nil {
			return fmt.Errorf("rowdb: commit: %w", err)
		}
	}
	return nil
}

func (db *DB) Read(f func(tx *Tx) error) error {
	return db.Tx(false, f)
}

func (db *DB) Write(f func(tx *Tx) error) error {
	return db.Tx(true, f)
}

type panicked struct {
	reason interface{}
	stack  string
}

func (p panicked) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", p.reason, p.stack)
}

func safelyCall(fn func(*Tx) error, tx *Tx) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked{p, string(debug.Stack())}
		}
	}()
	return fn(tx)
}

func (tx *Tx) close() {
	// Rollback after a successful Commit is a no-op.
	err := tx.stx.Rollback()
	if err != nil {
		tx.db.logger.Error("rowdb: rollback failed", "err", err)
	}
	if trackTxns {
		tx.db.removeTx(tx)
	}
}
