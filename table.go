package rowdb

import (
	"bytes"
	"time"

	"github.com/andreyvit/rowdb/row"
	"github.com/segmentio/ksuid"
)

// Table is a named collection of Entries of a single Row, keyed by the
// Entry's first (pivot) cell.
type Table struct {
	name    string
	id      ksuid.KSUID
	row     *row.Row
	created time.Time
}

func newTable(name string, ts *tableState, r *row.Row) *Table {
	if r == nil {
		r = ts.row()
	}
	return &Table{
		name:    name,
		id:      ts.id,
		row:     r,
		created: ts.CreatedAt,
	}
}

func (tbl *Table) Name() string { return tbl.name }

// ID is the unique identifier assigned when the table was created. A dropped
// and re-created table gets a new ID.
func (tbl *Table) ID() string { return tbl.id.String() }

func (tbl *Table) Row() *row.Row { return tbl.row }

func (tbl *Table) CreatedAt() time.Time { return tbl.created }

func (tbl *Table) KeyWidth() int { return tbl.row.Width(0) }

func (tbl *Table) String() string { return tbl.name }

func (tbl *Table) bucket() string { return tbl.id.String() }

// Key normalizes key to the pivot width, zero-padding or truncating it.
func (tbl *Table) Key(key []byte) []byte {
	return fitKey(key, tbl.row.Width(0))
}

func (tbl *Table) decodeEntry(key, value []byte) (*row.Entry, error) {
	if len(value) != tbl.row.ObjectSize() {
		return nil, tableErrf(tbl.name, key, dataErrf(value, 0, nil, "record is %d bytes, wanted %d", len(value), tbl.row.ObjectSize()), "decoding")
	}
	return tbl.row.NewEntryFrom(bytes.Clone(value)), nil
}
