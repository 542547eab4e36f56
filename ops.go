package rowdb

import (
	"context"
	"log/slog"

	"github.com/andreyvit/rowdb/row"
)

func (tx *Tx) bucket(tbl *Table) (storageBucket, error) {
	if tbl == nil {
		panic("tbl == nil")
	}
	b := tx.stx.Bucket(tbl.bucket())
	if b == nil {
		return nil, tableErrf(tbl.name, nil, ErrTableNotFound, "")
	}
	return b, nil
}

// Put stores e under its pivot cell, replacing any entry with the same key.
// The entry must be of the table's Row.
func (tx *Tx) Put(tbl *Table, e *row.Entry) error {
	if e.Row() != tbl.row && !e.Row().Equal(tbl.row) {
		return tableErrf(tbl.name, nil, ErrRowMismatch, "")
	}
	key := e.GetCell(0)
	if e.Empty(0) {
		return tableErrf(tbl.name, key, ErrEmptyKey, "")
	}
	b, err := tx.bucket(tbl)
	if err != nil {
		return err
	}
	if err := b.Put(key, e.Bytes()); err != nil {
		return tableErrf(tbl.name, key, err, "put")
	}
	tx.written = true
	tx.db.WriteCount.Add(1)
	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "PUT", slog.String("table", tbl.name), hexAttr("key", key))
	}
	return nil
}

// Get returns the entry stored under key, or nil. The key is normalized to
// the pivot width first.
func (tx *Tx) Get(tbl *Table, key []byte) (*row.Entry, error) {
	b, err := tx.bucket(tbl)
	if err != nil {
		return nil, err
	}
	key = tbl.Key(key)
	v, err := b.Get(key)
	if err != nil {
		return nil, tableErrf(tbl.name, key, err, "get")
	}
	tx.db.ReadCount.Add(1)
	if v == nil {
		return nil, nil
	}
	return tbl.decodeEntry(key, v)
}

func (tx *Tx) Exists(tbl *Table, key []byte) (bool, error) {
	b, err := tx.bucket(tbl)
	if err != nil {
		return false, err
	}
	key = tbl.Key(key)
	v, err := b.Get(key)
	if err != nil {
		return false, tableErrf(tbl.name, key, err, "get")
	}
	tx.db.ReadCount.Add(1)
	return v != nil, nil
}

// Delete removes the entry stored under key and reports whether it existed.
func (tx *Tx) Delete(tbl *Table, key []byte) (bool, error) {
	b, err := tx.bucket(tbl)
	if err != nil {
		return false, err
	}
	key = tbl.Key(key)
	v, err := b.Get(key)
	if err != nil {
		return false, tableErrf(tbl.name, key, err, "get")
	}
	if v == nil {
		return false, nil
	}
	if err := b.Delete(key); err != nil {
		return false, tableErrf(tbl.name, key, err, "delete")
	}
	tx.written = true
	tx.db.WriteCount.Add(1)
	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "DELETE", slog.String("table", tbl.name), hexAttr("key", key))
	}
	return true, nil
}

// Count returns the number of entries in the table. It panics if the table
// has been dropped.
func (tx *Tx) Count(tbl *Table) int {
	return must(tx.bucket(tbl)).KeyCount()
}
