package rowdb

import (
	"bytes"

	"github.com/andreyvit/rowdb/row"
)

// RawRange defines a range of byte strings. The constructors use mnemonics:
// O means open, I means inclusive, E means exclusive; the first letter is for
// the lower bound, the second for the upper bound.
type RawRange struct {
	Prefix   []byte
	Lower    []byte
	Upper    []byte
	LowerInc bool
	UpperInc bool
	Reverse  bool
}

func RawOO() RawRange            { return RawRange{} }
func RawIO(l []byte) RawRange    { return RawRange{Lower: l, LowerInc: true} }
func RawEO(l []byte) RawRange    { return RawRange{Lower: l, LowerInc: false} }
func RawOI(u []byte) RawRange    { return RawRange{Upper: u, UpperInc: true} }
func RawOE(u []byte) RawRange    { return RawRange{Upper: u, UpperInc: false} }
func RawII(l, u []byte) RawRange { return RawRange{Lower: l, Upper: u, LowerInc: true, UpperInc: true} }
func RawIE(l, u []byte) RawRange {
	return RawRange{Lower: l, Upper: u, LowerInc: true, UpperInc: false}
}
func RawEI(l, u []byte) RawRange {
	return RawRange{Lower: l, Upper: u, LowerInc: false, UpperInc: true}
}
func RawEE(l, u []byte) RawRange {
	return RawRange{Lower: l, Upper: u, LowerInc: false, UpperInc: false}
}
func RawPrefix(p []byte) RawRange                { return RawRange{Prefix: p} }
func (rang RawRange) Prefixed(p []byte) RawRange { rang.Prefix = p; return rang }
func (rang RawRange) Reversed() RawRange         { rang.Reverse = true; return rang }

// fit normalizes the bounds to fixed-width keys of the given width. A prefix
// longer than the key is truncated.
func (rang RawRange) fit(width int) RawRange {
	if rang.Lower != nil {
		rang.Lower = fitKey(rang.Lower, width)
	}
	if rang.Upper != nil {
		rang.Upper = fitKey(rang.Upper, width)
	}
	if len(rang.Prefix) > width {
		rang.Prefix = rang.Prefix[:width]
	}
	return rang
}

// matchesPrefix reports whether both bounds, when given, start with the prefix.
func (rang RawRange) matchesPrefix() bool {
	if rang.Prefix == nil {
		return true
	}
	if rang.Lower != nil && !bytes.HasPrefix(rang.Lower, rang.Prefix) {
		return false
	}
	if rang.Upper != nil && !bytes.HasPrefix(rang.Upper, rang.Prefix) {
		return false
	}
	return true
}

func (r *RawRange) start(bcur storageCursor) ([]byte, []byte) {
	var k, v []byte
	var skipInitial bool
	if r.Reverse {
		upper := r.Upper
		if upper != nil {
			skipInitial = !r.UpperInc
			if r.Prefix != nil && !bytes.HasPrefix(upper, r.Prefix) {
				panic("upper bound does not match prefix")
			}
		} else if r.Prefix != nil {
			upper = r.Prefix
		}
		if upper != nil {
			k, v = bcur.SeekLast(upper)
			if skipInitial && !bytes.HasPrefix(k, upper) {
				skipInitial = false
			}
		} else {
			k, v = bcur.Last()
		}
	} else {
		lower := r.Lower
		if lower != nil {
			skipInitial = !r.LowerInc
			if r.Prefix != nil && !bytes.HasPrefix(lower, r.Prefix) {
				panic("lower bound does not match prefix")
			}
		} else if r.Prefix != nil {
			lower = r.Prefix
		}
		if lower != nil {
			k, v = bcur.Seek(lower)
			if skipInitial && !bytes.HasPrefix(k, lower) {
				skipInitial = false
			}
		} else {
			k, v = bcur.First()
		}
	}
	if k != nil && r.match(k) {
		if skipInitial {
			return r.next(bcur)
		} else {
			return k, v
		}
	} else {
		return nil, nil
	}
}

func (r *RawRange) next(bcur storageCursor) ([]byte, []byte) {
	var k, v []byte
	if r.Reverse {
		k, v = bcur.Prev()
	} else {
		k, v = bcur.Next()
	}
	if k != nil && r.match(k) {
		return k, v
	} else {
		return nil, nil
	}
}

func (r *RawRange) match(k []byte) bool {
	if r.Prefix != nil && !bytes.HasPrefix(k, r.Prefix) {
		return false
	}
	if r.Reverse {
		if lower := r.Lower; lower != nil {
			cmp := bytes.Compare(k, lower)
			if cmp == -1 || (cmp == 0 && !r.LowerInc) {
				return false
			}
		}
	} else {
		if upper := r.Upper; upper != nil {
			cmp := bytes.Compare(k, upper)
			if cmp == 1 || (cmp == 0 && !r.UpperInc) {
				return false
			}
		}
	}
	return true
}

func (rang *RawRange) newCursor(bcur storageCursor) *RawRangeCursor {
	return &RawRangeCursor{rang: *rang, bcur: bcur}
}

// RawRangeCursor walks the keys of a bucket that fall into a RawRange.
type RawRangeCursor struct {
	rang RawRange
	bcur storageCursor
	k, v []byte
	init bool
}

func (c *RawRangeCursor) Next() bool {
	if c.init {
		c.k, c.v = c.rang.next(c.bcur)
	} else {
		c.init = true
		c.k, c.v = c.rang.start(c.bcur)
	}
	return c.k != nil
}

func (c *RawRangeCursor) Key() []byte   { return c.k }
func (c *RawRangeCursor) Value() []byte { return c.v }

func (c *RawRangeCursor) Close() error { return c.bcur.Close() }

// Cursor iterates over the entries of a table within a RawRange:
//
//	c, err := tx.Cursor(tbl, rowdb.RawII(from, to))
//	...
//	defer c.Close()
//	for c.Next() {
//		e, err := c.Entry()
//		...
//	}
type Cursor struct {
	tbl *Table
	raw *RawRangeCursor
	tx  *Tx
}

// Cursor opens a cursor over tbl. Range bounds are normalized to the pivot
// width like keys, and must start with the range prefix when one is given.
func (tx *Tx) Cursor(tbl *Table, rang RawRange) (*Cursor, error) {
	b, err := tx.bucket(tbl)
	if err != nil {
		return nil, err
	}
	rang = rang.fit(tbl.KeyWidth())
	if !rang.matchesPrefix() {
		return nil, tableErrf(tbl.name, nil, ErrRangeMismatch, "")
	}
	return &Cursor{
		tbl: tbl,
		raw: rang.newCursor(b.Cursor()),
		tx:  tx,
	}, nil
}

func (c *Cursor) Next() bool {
	if !c.raw.Next() {
		return false
	}
	c.tx.db.ReadCount.Add(1)
	return true
}

// Key returns the current pivot key; it is only valid until the next call to Next.
func (c *Cursor) Key() []byte { return c.raw.Key() }

// Entry decodes the current entry into a fresh buffer.
func (c *Cursor) Entry() (*row.Entry, error) {
	return c.tbl.decodeEntry(c.raw.Key(), c.raw.Value())
}

func (c *Cursor) Close() error {
	return c.raw.Close()
}

// Scan calls f for every entry of tbl within rang until f returns false.
func (tx *Tx) Scan(tbl *Table, rang RawRange, f func(e *row.Entry) bool) error {
	c, err := tx.Cursor(tbl, rang)
	if err != nil {
		return err
	}
	for c.Next() {
		e, err := c.Entry()
		if err != nil {
			c.Close()
			return err
		}
		if !f(e) {
			break
		}
	}
	return c.Close()
}
