package rowdb

import (
	"errors"
	"strings"
	"testing"
)

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		err := dataErrf([]byte{0xAA, 0xBB}, 1, inner, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		s := err.Error()
		if s != "oops: inner: (2) aabb" {
			t.Fatalf("err.Error() = %q, wanted %q", s, "oops: inner: (2) aabb")
		}
	})

	t.Run("large data includes prefix+suffix", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		err := dataErrf(data, 0, nil, "oops")
		s := err.Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "...") {
			t.Fatalf("err.Error() = %q, wanted message with (200) and ...", s)
		}
	})
}

func TestTableError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := tableErrf("urls", []byte("k"), inner, "oops %d", 1)
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(err, inner) = false, wanted true")
	}
	if s, e := err.Error(), "urls/6b: oops 1: inner"; s != e {
		t.Fatalf("err.Error() = %q, wanted %q", s, e)
	}

	err = tableErrf("urls", nil, ErrTableNotFound, "")
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("errors.Is(err, ErrTableNotFound) = false, wanted true")
	}
	if s, e := err.Error(), "urls: table not found"; s != e {
		t.Fatalf("err.Error() = %q, wanted %q", s, e)
	}

	if s, e := (&TableError{Table: "T", Msg: "bad"}).Error(), "T: bad"; s != e {
		t.Fatalf("TableError.Error() = %q, wanted %q", s, e)
	}
}
