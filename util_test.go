package rowdb

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		input    []byte
		expected []byte
	}{
		{nil, nil},
		{[]byte{}, nil},
		{[]byte{0x01}, []byte{0x02}},
		{[]byte{0x01, 0xFF}, []byte{0x02}},
		{[]byte{0x01, 0x02, 0xFF, 0xFF}, []byte{0x01, 0x03}},
		{[]byte{0xFF, 0xFF}, nil},
	}
	for _, tt := range tests {
		actual := prefixEnd(tt.input)
		if !bytes.Equal(actual, tt.expected) || (actual == nil) != (tt.expected == nil) {
			t.Errorf("** prefixEnd(%x) = %x, wanted %x", tt.input, actual, tt.expected)
		}
	}
}

func TestPrefixEnd_doesNotModifyInput(t *testing.T) {
	in := []byte{0x01, 0xFF}
	_ = prefixEnd(in)
	if !bytes.Equal(in, []byte{0x01, 0xFF}) {
		t.Errorf("** input modified to %x", in)
	}
}

func TestFitKey(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"abc", 5, "abc\x00\x00"},
		{"abcdef", 3, "abc"},
		{"abc", 3, "abc"},
		{"", 2, "\x00\x00"},
	}
	for _, tt := range tests {
		actual := string(fitKey([]byte(tt.input), tt.width))
		if actual != tt.expected {
			t.Errorf("** fitKey(%q, %d) = %q, wanted %q", tt.input, tt.width, actual, tt.expected)
		}
	}
}

func TestHexHelpers(t *testing.T) {
	if got := hexstr(nil); got != "<nil>" {
		t.Fatalf("hexstr(nil) = %q, wanted <nil>", got)
	}
	if got := hexstr([]byte{}); got != "<empty>" {
		t.Fatalf("hexstr(empty) = %q, wanted <empty>", got)
	}
	if got := hexstr([]byte{0xAA, 0xBB}); got != "aabb" {
		t.Fatalf("hexstr = %q, wanted aabb", got)
	}
	a := hexAttr("k", []byte{0xAA})
	if a.Key != "k" || a.Value.Kind() != slog.KindString || a.Value.String() != "aa" {
		t.Fatalf("hexAttr returned unexpected attr: %+v", a)
	}
}

func TestMust(t *testing.T) {
	if got := must(42, nil); got != 42 {
		t.Errorf("** must = %d, wanted 42", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	must(0, ErrClosed)
}
