package rowdb

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/andreyvit/rowdb/row"
)

func TestRawRangeCursor_BoundsPrefixAndReverse(t *testing.T) {
	s := newMemStorage()

	wtx := must(s.BeginTx(true))
	buck := must(wtx.CreateBucket("b"))
	mustPut(t, buck, []byte{0x10, 0x01}, []byte("a"))
	mustPut(t, buck, []byte{0x10, 0x02}, []byte("b"))
	mustPut(t, buck, []byte{0x10, 0x03}, []byte("c"))
	mustPut(t, buck, []byte{0x11, 0x01}, []byte("x"))
	ensure(wtx.Commit())

	rtx := must(s.BeginTx(false))
	defer rtx.Rollback()
	rbuck := nonNil(rtx.Bucket("b"), "bucket")

	{
		cur := (&RawRange{Prefix: []byte{0x10}}).newCursor(rbuck.Cursor())
		var got []string
		for cur.Next() {
			got = append(got, string(cur.Value()))
		}
		if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
			t.Fatalf("prefix scan values = %v, wanted [a b c]", got)
		}
	}

	{
		cur := (&RawRange{Prefix: []byte{0x10}, Reverse: true}).newCursor(rbuck.Cursor())
		var got []string
		for cur.Next() {
			got = append(got, string(cur.Value()))
		}
		if len(got) != 3 || got[0] != "c" || got[1] != "b" || got[2] != "a" {
			t.Fatalf("prefix reverse scan values = %v, wanted [c b a]", got)
		}
	}

	{
		cur := (&RawRange{Lower: []byte{0x10, 0x01}, LowerInc: false}).newCursor(rbuck.Cursor())
		if !cur.Next() || string(cur.Value()) != "b" {
			t.Fatalf("lower exclusive start = %q, wanted b", cur.Value())
		}
	}

	{
		cur := (&RawRange{Upper: []byte{0x10, 0x03}, UpperInc: false, Reverse: true}).newCursor(rbuck.Cursor())
		if !cur.Next() || string(cur.Value()) != "b" {
			t.Fatalf("upper exclusive reverse start = %q, wanted b", cur.Value())
		}
	}
}

func TestRawRangeCursor_PrefixMismatchPanics(t *testing.T) {
	s := newMemStorage()
	wtx := must(s.BeginTx(true))
	buck := must(wtx.CreateBucket("b"))
	mustPut(t, buck, []byte{0x10}, []byte("a"))
	ensure(wtx.Commit())

	rtx := must(s.BeginTx(false))
	defer rtx.Rollback()
	rbuck := nonNil(rtx.Bucket("b"), "bucket")

	assertPanics(t, func() {
		cur := (&RawRange{Prefix: []byte{0x10}, Lower: []byte{0x11}, LowerInc: true}).newCursor(rbuck.Cursor())
		_ = cur.Next()
	})
	assertPanics(t, func() {
		cur := (&RawRange{Prefix: []byte{0x10}, Upper: []byte{0x11}, UpperInc: true, Reverse: true}).newCursor(rbuck.Cursor())
		_ = cur.Next()
	})
}

func TestRawRange_fit(t *testing.T) {
	r := RawIE([]byte("ab"), []byte("abcdef")).Prefixed([]byte("abcdef")).fit(4)
	deepEqual(t, string(r.Lower), "ab\x00\x00")
	deepEqual(t, string(r.Upper), "abcd")
	deepEqual(t, string(r.Prefix), "abcd")

	r = RawOO().fit(4)
	if r.Lower != nil || r.Upper != nil || r.Prefix != nil {
		t.Errorf("** RawOO().fit(4) = %+v, wanted open range", r)
	}
}

// pivot keys are 2 bytes wide
const scanStructure = "<byte[] pivot-2>,'=',<Cardinal n-3 {b64e}>"

var scanRow = row.MustParseRow(scanStructure)

func TestScan(t *testing.T) {
	eachBackend(t, func(t *testing.T, db *DB) {
		tbl := must(db.DefineTable("nums", scanRow))
		k1, k2, k3, k4 := x("1001"), x("1002"), x("1003"), x("1101")
		kb, ke := x("0F"), x("20")

		var entries []*row.Entry
		for i, k := range [][]byte{k1, k2, k3, k4} {
			e := scanRow.NewEntry()
			e.SetCell(0, k)
			ensure(e.SetInteger(1, uint64(i+1)))
			entries = append(entries, e)
		}
		putAll(t, db, tbl, entries...)

		o := func(name string, rang RawRange, exp ...[]byte) {
			t.Run(name, func(t *testing.T) {
				ensure(db.Read(func(tx *Tx) error {
					tableScan(t, tx, tbl, rang, exp...)
					return nil
				}))
			})
		}

		o("all", RawOO(), k1, k2, k3, k4)
		o("all reverse", RawOO().Reversed(), k4, k3, k2, k1)
		o("prefix", RawPrefix(x("10")), k1, k2, k3)
		o("prefix reverse", RawPrefix(x("10")).Reversed(), k3, k2, k1)
		o("prefix no match", RawPrefix(x("12")))

		o("lower inc", RawIO(k2), k2, k3, k4)
		o("lower exc", RawEO(k2), k3, k4)
		o("upper inc", RawOI(k3), k1, k2, k3)
		o("upper exc", RawOE(k3), k1, k2)
		o("both inc", RawII(k2, k3), k2, k3)
		o("both exc", RawEE(k1, k4), k2, k3)
		o("lower exc upper inc", RawEI(k1, k3), k2, k3)
		o("lower inc upper exc", RawIE(k1, k3), k1, k2)
		o("both inc reverse", RawII(k2, k3).Reversed(), k3, k2)
		o("upper exc reverse", RawOE(k3).Reversed(), k2, k1)
		o("lower exc reverse", RawEO(k2).Reversed(), k4, k3)

		o("first lower inc", RawIO(kb), k1, k2, k3, k4)
		o("last upper exc", RawOE(ke), k1, k2, k3, k4)
		o("last upper inc reverse", RawOI(ke).Reversed(), k4, k3, k2, k1)

		// bounds shorter than the pivot are zero-padded
		o("short lower", RawIO(x("11")), k4)
		o("short upper", RawOI(x("10")))
		o("prefix lower", RawIO(k2).Prefixed(x("10")), k2, k3)
	})
}

func TestScan_boundOutsidePrefix(t *testing.T) {
	db := setup(t, BackendMem)
	tbl := must(db.DefineTable("nums", scanRow))
	e := scanRow.NewEntry()
	e.SetCell(0, x("1001"))
	putAll(t, db, tbl, e)

	ensure(db.Read(func(tx *Tx) error {
		for _, rang := range []RawRange{
			RawIO(x("11")).Prefixed(x("10")),
			RawOI(x("2001")).Prefixed(x("10")),
			RawII(x("1001"), x("2001")).Prefixed(x("10")).Reversed(),
		} {
			err := tx.Scan(tbl, rang, func(e *row.Entry) bool { return true })
			if !errors.Is(err, ErrRangeMismatch) {
				t.Errorf("** Scan(%+v) err = %v, wanted ErrRangeMismatch", rang, err)
			}
		}
		tableScan(t, tx, tbl, RawII(x("1001"), x("10FF")).Prefixed(x("10")), x("1001"))
		return nil
	}))
}

func TestScan_stopsEarly(t *testing.T) {
	db := setup(t, BackendMem)
	tbl := must(db.DefineTable("nums", scanRow))
	var entries []*row.Entry
	for _, k := range []string{"aa", "bb", "cc"} {
		e := scanRow.NewEntry()
		e.SetCell(0, []byte(k))
		entries = append(entries, e)
	}
	putAll(t, db, tbl, entries...)

	ensure(db.Read(func(tx *Tx) error {
		var got []string
		err := tx.Scan(tbl, RawOO(), func(e *row.Entry) bool {
			got = append(got, string(e.GetCell(0)))
			return len(got) < 2
		})
		deepEqual(t, got, []string{"aa", "bb"})
		return err
	}))
}

func TestCursor(t *testing.T) {
	db := setup(t, BackendMem)
	tbl := must(db.DefineTable("nums", scanRow))
	e := scanRow.NewEntry()
	e.SetCell(0, []byte("aa"))
	ensure(e.SetInteger(1, 42))
	putAll(t, db, tbl, e)

	ensure(db.Read(func(tx *Tx) error {
		c := must(tx.Cursor(tbl, RawOO()))
		defer c.Close()
		if !c.Next() {
			t.Fatalf("** Next = false, wanted an entry")
		}
		deepEqual(t, string(c.Key()), "aa")
		got := must(c.Entry())
		deepEqual(t, must(got.GetInteger(1)), uint64(42))
		if c.Next() {
			t.Errorf("** Next = true after the last entry")
		}
		return nil
	}))
}

func tableScan(t testing.TB, tx *Tx, tbl *Table, rang RawRange, exp ...[]byte) {
	t.Helper()
	var out []string
	err := tx.Scan(tbl, rang, func(e *row.Entry) bool {
		out = append(out, hex.EncodeToString(e.GetCell(0)))
		return true
	})
	if err != nil {
		t.Fatalf("** Scan: %v", err)
	}
	var expstr []string
	for _, k := range exp {
		expstr = append(expstr, hex.EncodeToString(k))
	}
	deepEqual(t, out, expstr)
}

func mustPut(t *testing.T, buck storageBucket, k, v []byte) {
	t.Helper()
	ensure(buck.Put(k, v))
}

func assertPanics(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	f()
}
