// Package row implements fixed-width binary records.
//
// A [Row] is a schema: an ordered list of fixed-width columns. Every record
// ([Entry]) of a Row is a byte buffer of exactly [Row.ObjectSize] bytes in
// which column i occupies bytes [Offset(i), Offset(i)+Width(i)). The buffer
// is the storage representation; there is no separate serialization step.
//
// A cell whose first byte is zero is considered empty.
//
// Column indexes are positions in the Row. Passing an out-of-range index to
// any accessor is a programming error and panics.
package row

import (
	"strconv"
	"strings"
	"sync"
)

type Row struct {
	cols       []Column
	offsets    []int
	objectSize int

	nickOnce sync.Once
	nickref  map[string]int
}

func NewRow(cols ...Column) *Row {
	r := &Row{
		cols:    append([]Column(nil), cols...),
		offsets: make([]int, len(cols)),
	}
	for i, col := range r.cols {
		r.offsets[i] = r.objectSize
		r.objectSize += col.Width
	}
	return r
}

// NewRowFromWidths builds a Row of anonymous columns named col_0, col_1, ...
// with undefined kind and no encoder.
func NewRowFromWidths(widths ...int) *Row {
	cols := make([]Column, len(widths))
	for i, w := range widths {
		cols[i] = Column{
			Nickname: "col_" + strconv.Itoa(i),
			Width:    w,
		}
	}
	return NewRow(cols...)
}

func (r *Row) Columns() int { return len(r.cols) }

func (r *Row) Column(i int) Column { return r.cols[i] }

func (r *Row) Width(i int) int { return r.cols[i].Width }

func (r *Row) Offset(i int) int { return r.offsets[i] }

// ObjectSize is the byte length of every Entry of this Row.
func (r *Row) ObjectSize() int { return r.objectSize }

func (r *Row) Widths() []int {
	w := make([]int, len(r.cols))
	for i, col := range r.cols {
		w[i] = col.Width
	}
	return w
}

func (r *Row) genNickRef() {
	m := make(map[string]int, len(r.cols))
	for i, col := range r.cols {
		if _, dup := m[col.Nickname]; !dup {
			m[col.Nickname] = i
		}
	}
	r.nickref = m
}

// ColumnIndex returns the position of the first column with the given
// nickname, or -1.
func (r *Row) ColumnIndex(nick string) int {
	r.nickOnce.Do(r.genNickRef)
	if i, ok := r.nickref[nick]; ok {
		return i
	}
	return -1
}

// Lookup resolves a nickname to its column and byte offset.
func (r *Row) Lookup(nick string) (col Column, offset int, ok bool) {
	i := r.ColumnIndex(nick)
	if i < 0 {
		return Column{}, 0, false
	}
	return r.cols[i], r.offsets[i], true
}

// Equal reports whether both rows have identical columns.
func (r *Row) Equal(another *Row) bool {
	if r == another {
		return true
	}
	if r == nil || another == nil || len(r.cols) != len(another.cols) {
		return false
	}
	for i, col := range r.cols {
		if col != another.cols[i] {
			return false
		}
	}
	return true
}

// Structure renders the row as a structure string accepted by ParseRow, with
// column 0 marked as the pivot.
func (r *Row) Structure() string {
	var buf strings.Builder
	for i, col := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(col.String())
		if i == 0 {
			buf.WriteString(pivotMarker)
		}
	}
	return buf.String()
}

// Validate checks that every column survives a Structure round trip.
func (r *Row) Validate() error {
	for _, col := range r.cols {
		if err := col.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Row) String() string {
	return r.Structure()
}
