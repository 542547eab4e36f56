package rowdb

import (
	"strings"
	"testing"

	"github.com/andreyvit/rowdb/row"
)

func TestDump(t *testing.T) {
	db := setup(t, BackendMem)
	r := row.MustParseRow("<byte[] pivot-4>,'=',<Cardinal UDate-3 {b64e}>")
	tbl := must(db.DefineTable("urls", r))

	e := r.NewEntry()
	e.SetCell(0, []byte("abcd"))
	ensure(e.SetInteger(1, 42))
	putAll(t, db, tbl, e)

	ensure(db.Read(func(tx *Tx) error {
		deepEqual(t, tx.Dump(DumpRows), "urls.1 = {pivot=abcd,UDate=--e}\n")

		s := tx.Dump(DumpAll)
		if !strings.Contains(s, "urls (1 rows) <byte[] pivot-4>,'=',<Cardinal UDate-3 {b64e}>\n") {
			t.Errorf("** Dump(DumpAll) has no table header:\n%s", s)
		}
		if !strings.Contains(s, "urls.stats: data_size = 11, data_alloc = 11\n") {
			t.Errorf("** Dump(DumpAll) has no stats:\n%s", s)
		}
		return nil
	}))
}

func TestDump_unrenderableRows(t *testing.T) {
	db := setup(t, BackendMem)
	r := row.MustParseRow("<pivot-4>,'=',<boolean ok>")
	tbl := must(db.DefineTable("flags", r))
	e := r.NewEntry()
	e.SetCell(0, []byte("abcd"))
	e.SetByte(1, 1)
	putAll(t, db, tbl, e)

	ensure(db.Read(func(tx *Tx) error {
		s := tx.Dump(DumpRows)
		if !strings.HasPrefix(s, "flags.1 = ") || !strings.Contains(s, "** ERROR: ") {
			t.Errorf("** Dump = %q, wanted ERROR marker", s)
		}
		return nil
	}))
}

func TestTableStats(t *testing.T) {
	eachBackend(t, func(t *testing.T, db *DB) {
		tbl := must(db.DefineTable("visits", visitsRow))
		putAll(t, db, tbl, visit("aaaa", 1, 1), visit("bbbb", 2, 2))
		ensure(db.Read(func(tx *Tx) error {
			s := tx.TableStats(tbl)
			deepEqual(t, s.Rows, 2)
			if s.DataSize <= 0 {
				t.Errorf("** DataSize = %d, wanted > 0", s.DataSize)
			}
			return nil
		}))
	})
}

func TestDumpFlags_Contains(t *testing.T) {
	f := DumpTableHeaders | DumpRows
	if !f.Contains(DumpRows) || f.Contains(DumpStats) || !DumpAll.Contains(f) {
		t.Errorf("** DumpFlags.Contains misbehaves for %b", f)
	}
}
