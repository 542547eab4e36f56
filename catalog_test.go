package rowdb

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

func TestTableState_roundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts := newTableState(visitsRow, now)

	got, err := decodeTableState("visits", encodeMsgPack(nil, ts))
	if err != nil {
		t.Fatalf("** decodeTableState: %v", err)
	}
	deepEqual(t, got.ID, ts.ID)
	deepEqual(t, got.id, ts.id)
	deepEqual(t, got.CreatedAt.Equal(now), true)
	if !got.row().Equal(visitsRow) {
		t.Errorf("** row() = %s, wanted %s", got.row().Structure(), visitsStructure)
	}
}

func TestDecodeTableState_errors(t *testing.T) {
	tests := []struct {
		name   string
		state  any
		errstr string
	}{
		{"bad id", &tableState{ID: "nope", Columns: []columnState{{Nickname: "k", Width: 1}}}, "invalid table ID"},
		{"no columns", &tableState{ID: newTableState(visitsRow, time.Now()).ID}, "no columns"},
		{"garbage", "not a table state", "failed to decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTableState("visits", encodeMsgPack(nil, tt.state))
			var te *TableError
			if !errors.As(err, &te) || te.Table != "visits" {
				t.Fatalf("** err = %v, wanted TableError for visits", err)
			}
			if !strings.Contains(err.Error(), tt.errstr) {
				t.Errorf("** err = %q, wanted it to contain %q", err.Error(), tt.errstr)
			}
		})
	}
}

func TestOpen_corruptCatalog(t *testing.T) {
	st := newMemStorage()
	tx := must(st.BeginTx(true))
	cat := must(tx.CreateBucket(catalogBucket))
	ensure(cat.Put([]byte("broken"), []byte{0xc1}))
	ensure(tx.Commit())

	db := &DB{store: st, logger: Options{}.logger(), tables: xsync.NewMapOf[string, *Table]()}
	err := db.Write(func(tx *Tx) error {
		return db.loadCatalog(tx, time.Now())
	})
	var de *DataError
	if !errors.As(err, &de) {
		t.Errorf("** loadCatalog = %v, wanted DataError", err)
	}
}
