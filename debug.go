package rowdb

import (
	"fmt"
	"strings"
)

type DumpFlags uint64

const (
	DumpTableHeaders = DumpFlags(1 << iota)
	DumpRows
	DumpStats

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the contents of every open table, rows in property form.
func (tx *Tx) Dump(f DumpFlags) string {
	var buf strings.Builder
	for _, name := range tx.db.Tables() {
		tbl := tx.db.Table(name)
		if tbl == nil || tx.stx.Bucket(tbl.bucket()) == nil {
			continue
		}
		tx.dumpTable(&buf, f, tbl)
	}
	return buf.String()
}

func (tx *Tx) dumpTable(w *strings.Builder, f DumpFlags, tbl *Table) {
	prefix := tbl.Name()
	s := tx.TableStats(tbl)

	if f.Contains(DumpTableHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s (%d rows) %s\n", prefix, s.Rows, tbl.row.Structure())
	}
	if f.Contains(DumpStats) {
		fmt.Fprintf(w, "%s.stats: data_size = %d, data_alloc = %d\n", prefix, s.DataSize, s.DataAlloc)
	}

	if f.Contains(DumpRows) {
		if f.Contains(DumpStats) {
			fmt.Fprintln(w, dumpSep2)
		}
		c := tx.stx.Bucket(tbl.bucket()).Cursor()
		defer c.Close()
		var rowPos int
		for k, v := c.First(); k != nil; k, v = c.Next() {
			rowPos++
			tx.dumpRow(w, prefix, tbl, rowPos, k, v)
		}
	}
}

func (tx *Tx) dumpRow(w *strings.Builder, prefix string, tbl *Table, rowPos int, k, v []byte) {
	e, err := tbl.decodeEntry(k, v)
	if err == nil {
		var s string
		s, err = e.ToPropertyForm(true)
		if err == nil {
			fmt.Fprintf(w, "%s.%d = %s\n", prefix, rowPos, s)
			return
		}
	}
	fmt.Fprintf(w, "%s.%d = %s ** ERROR: %v\n", prefix, rowPos, hexstr(v), err)
}
