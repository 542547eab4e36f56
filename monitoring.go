package rowdb

type TableStats struct {
	Rows int

	DataSize  int64
	DataAlloc int64
}

// TableStats reports the row count and the space used by the table's bucket.
// Only the Bolt backend tracks allocation; other backends report Rows alone
// or an estimate of DataSize.
func (tx *Tx) TableStats(tbl *Table) TableStats {
	b := nonNil(tx.stx.Bucket(tbl.bucket()), "table bucket")
	bs := b.Stats()
	return TableStats{
		Rows:      bs.KeyN,
		DataSize:  bs.LeafInuse,
		DataAlloc: bs.TotalAlloc(),
	}
}
