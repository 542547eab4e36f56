package row

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestToPropertyForm(t *testing.T) {
	r := MustParseRow("<pivot-12>,'=',<Cardinal UDate-3 {b64e}>")
	e := r.NewEntry()
	e.SetCell(0, []byte("abc"))
	must(t, e.SetInteger(1, 42))

	pad := strings.Repeat("\x00", 9)
	s, err := e.ToPropertyForm(true)
	if err != nil {
		t.Fatal(err)
	}
	if w := "{pivot=abc" + pad + ",UDate=--e}"; s != w {
		t.Errorf("** ToPropertyForm(true) = %q, wanted %q", s, w)
	}

	s2, err := e.ToPropertyForm(false)
	if err != nil {
		t.Fatal(err)
	}
	if w := "pivot=abc" + pad + ",UDate=--e"; s2 != w {
		t.Errorf("** ToPropertyForm(false) = %q, wanted %q", s2, w)
	}

	for _, form := range []string{s, s2} {
		parsed := r.ParseEntry(form)
		if !bytes.Equal(parsed.Bytes(), e.Bytes()) {
			t.Errorf("** ParseEntry(%q) = %q, wanted %q", form, parsed.Bytes(), e.Bytes())
		}
	}
}

func TestToPropertyForm_explicitColumns(t *testing.T) {
	r := NewRow(
		Column{Nickname: "pivot", Kind: Binary, Width: 12},
		Column{Nickname: "UDate", Kind: Cardinal, Encoder: EncoderB64E, Width: 3},
	)
	if !r.Equal(MustParseRow("<pivot-12>,'=',<Cardinal UDate-3 {b64e}>")) {
		t.Errorf("** NewRow = %s, wanted the parsed row", r)
	}
	e := r.NewEntry()
	e.SetCell(0, []byte("abc"))
	must(t, e.SetInteger(1, 42))

	s, err := e.ToPropertyForm(true)
	if err != nil {
		t.Fatal(err)
	}
	if w := "{pivot=abc" + strings.Repeat("\x00", 9) + ",UDate=--e}"; s != w {
		t.Errorf("** ToPropertyForm(true) = %q, wanted %q", s, w)
	}
	v, err := r.ParseEntry(s).GetInteger(1)
	if err != nil || v != 42 {
		t.Errorf("** ParseEntry(%q).GetInteger(1) = %d, %v, wanted 42", s, v, err)
	}
}

func TestToPropertyForm_emptyCardinal(t *testing.T) {
	r := MustParseRow("<Cardinal d-3 {b64e}>")
	s, err := r.NewEntry().ToPropertyForm(false)
	if err != nil {
		t.Fatal(err)
	}
	if w := "d=---"; s != w {
		t.Errorf("** ToPropertyForm = %q, wanted %q", s, w)
	}
}

func TestToPropertyForm_unsupported(t *testing.T) {
	tests := []struct {
		row     *Row
		column  string
		kind    CellKind
		encoder Encoder
	}{
		{MustParseRow("<String s-2>,<boolean f>"), "f", Boolean, EncoderNone},
		{MustParseRow("<short n-2>"), "n", Cardinal, EncoderB256},
		{MustParseRow("<Cardinal n-2>"), "n", Cardinal, EncoderNone},
		{NewRowFromWidths(2), "col_0", Undefined, EncoderNone},
	}
	for _, tt := range tests {
		s, err := tt.row.NewEntry().ToPropertyForm(true)
		if s != "" {
			t.Errorf("** ToPropertyForm(%v) = %q, wanted empty", tt.row, s)
		}
		if !errors.Is(err, ErrSerializationUnsupported) {
			t.Errorf("** ToPropertyForm(%v) err = %v, wanted ErrSerializationUnsupported", tt.row, err)
		}
		var se *SerializationError
		if !errors.As(err, &se) || se.Column != tt.column || se.Kind != tt.kind || se.Encoder != tt.encoder {
			t.Errorf("** ToPropertyForm(%v) err = %#v", tt.row, err)
		}
	}
}

func TestParseEntry(t *testing.T) {
	r := MustParseRow("<pivot-4>,'=',<Cardinal UDate-3 {b64e}>,<String note-6>")
	tests := []struct {
		external string
		pivot    string
		udate    uint64
		note     string
	}{
		{"", "", 0, ""},
		{"{}", "", 0, ""},
		{"{foo=1,pivot=x, UDate = --0 }", "x", 1, ""},
		{"pivot=abcdef,note=a=b", "abcd", 0, "a=b"},
		{"note=hi,garbage,=nothing,pivot=p", "p", 0, "hi"},
		{"{UDate=--e,UDate=-0-}", "", 64, ""},
	}
	for _, tt := range tests {
		e := r.ParseEntry(tt.external)
		pivot, _ := e.GetString(0, NativeEncoding)
		note, _ := e.GetString(2, NativeEncoding)
		udate, err := e.GetInteger(1)
		if err != nil {
			t.Fatal(err)
		}
		if pivot != tt.pivot || udate != tt.udate || note != tt.note {
			t.Errorf("** ParseEntry(%q) = %q/%d/%q, wanted %q/%d/%q", tt.external, pivot, udate, note, tt.pivot, tt.udate, tt.note)
		}
	}
}

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
