package rowdb

import (
	"time"

	"github.com/andreyvit/rowdb/row"
	"github.com/segmentio/ksuid"
)

// catalogBucket maps table names to their msgpack-encoded tableState.
const catalogBucket = "_catalog"

type tableState struct {
	ID        string        `msgpack:"id"`
	Columns   []columnState `msgpack:"c"`
	CreatedAt time.Time     `msgpack:"ct"`
	LastSeen  time.Time     `msgpack:"t"`

	id ksuid.KSUID `msgpack:"-"`
}

type columnState struct {
	Nickname string `msgpack:"n"`
	Kind     int    `msgpack:"k"`
	Encoder  int    `msgpack:"e"`
	Width    int    `msgpack:"w"`
	Comment  string `msgpack:"cm,omitempty"`
}

func newTableState(r *row.Row, now time.Time) *tableState {
	ts := &tableState{
		id:        ksuid.New(),
		Columns:   make([]columnState, r.Columns()),
		CreatedAt: now,
		LastSeen:  now,
	}
	ts.ID = ts.id.String()
	for i := range ts.Columns {
		col := r.Column(i)
		ts.Columns[i] = columnState{
			Nickname: col.Nickname,
			Kind:     int(col.Kind),
			Encoder:  int(col.Encoder),
			Width:    col.Width,
			Comment:  col.Comment,
		}
	}
	return ts
}

func (ts *tableState) row() *row.Row {
	cols := make([]row.Column, len(ts.Columns))
	for i, cs := range ts.Columns {
		cols[i] = row.Column{
			Nickname: cs.Nickname,
			Kind:     row.CellKind(cs.Kind),
			Encoder:  row.Encoder(cs.Encoder),
			Width:    cs.Width,
			Comment:  cs.Comment,
		}
	}
	return row.NewRow(cols...)
}

// loadTableState returns nil if the catalog has no entry for name.
func loadTableState(cat storageBucket, name string) (*tableState, error) {
	raw, err := cat.Get(unsafeBytesFromString(name))
	if err != nil {
		return nil, tableErrf(name, nil, err, "reading catalog")
	}
	if raw == nil {
		return nil, nil
	}
	return decodeTableState(name, raw)
}

func decodeTableState(name string, raw []byte) (*tableState, error) {
	ts := new(tableState)
	if err := decodeMsgPack(raw, ts); err != nil {
		return nil, tableErrf(name, nil, err, "failed to decode table state")
	}
	id, err := ksuid.Parse(ts.ID)
	if err != nil {
		return nil, tableErrf(name, nil, dataErrf(raw, 0, err, "invalid table ID %q", ts.ID), "failed to decode table state")
	}
	ts.id = id
	if len(ts.Columns) == 0 {
		return nil, tableErrf(name, nil, dataErrf(raw, 0, nil, "no columns"), "failed to decode table state")
	}
	return ts, nil
}

func (ts *tableState) save(cat storageBucket, name string) error {
	raw := encodeMsgPack(nil, ts)
	if err := cat.Put([]byte(name), raw); err != nil {
		return tableErrf(name, nil, err, "writing catalog")
	}
	return nil
}
