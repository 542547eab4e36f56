package row

import (
	"log/slog"
	"strings"

	"github.com/andreyvit/rowdb/order"
)

// Entry is one record of a Row. It is a plain mutable buffer and is not safe
// for concurrent mutation.
type Entry struct {
	row *Row
	buf []byte
}

func (r *Row) NewEntry() *Entry {
	return &Entry{r, make([]byte, r.objectSize)}
}

// NewEntryFrom wraps b without copying when it has exactly ObjectSize bytes;
// otherwise b is copied, zero-padded or truncated.
func (r *Row) NewEntryFrom(b []byte) *Entry {
	if len(b) == r.objectSize {
		return &Entry{r, b}
	}
	buf := make([]byte, r.objectSize)
	copy(buf, b)
	return &Entry{r, buf}
}

// NewEntryFromSlice copies b[start:start+length] into a new Entry.
func (r *Row) NewEntryFromSlice(b []byte, start, length int) *Entry {
	buf := make([]byte, r.objectSize)
	copy(buf, b[start:start+length])
	return &Entry{r, buf}
}

// NewEntryFromCells builds an Entry from one byte slice per column. Nil cells
// stay zero; longer cells are truncated to the column width.
func (r *Row) NewEntryFromCells(cells [][]byte) *Entry {
	if len(cells) > len(r.cols) {
		panic("row: more cells than columns")
	}
	e := r.NewEntry()
	for i, cell := range cells {
		if cell != nil {
			copy(e.cell(i), cell)
		}
	}
	return e
}

func (e *Entry) Row() *Row { return e.row }

// Bytes returns the record buffer itself; modifying it modifies the Entry.
func (e *Entry) Bytes() []byte { return e.buf }

func (e *Entry) Columns() int { return len(e.row.cols) }

func (e *Entry) ObjectSize() int { return e.row.objectSize }

// Clone returns an Entry with its own copy of the buffer.
func (e *Entry) Clone() *Entry {
	return &Entry{e.row, append([]byte(nil), e.buf...)}
}

func (e *Entry) cell(i int) []byte {
	off := e.row.offsets[i]
	return e.buf[off : off+e.row.cols[i].Width : off+e.row.cols[i].Width]
}

// Empty reports whether the first byte of the cell is zero.
func (e *Entry) Empty(i int) bool {
	return e.buf[e.row.offsets[i]] == 0
}

// SetCell copies up to Width(i) bytes of b into the cell and zero-fills the
// rest. A nil b clears the cell.
func (e *Entry) SetCell(i int, b []byte) {
	c := e.cell(i)
	n := copy(c, b)
	clear(c[n:])
}

func (e *Entry) SetByte(i int, b byte) {
	e.buf[e.row.offsets[i]] = b
}

// SetString stores text in the named IANA encoding (NativeEncoding for raw Go
// string bytes). Characters the encoding cannot represent are stored as '?'.
// If the encoding is unknown, the failure is logged and the cell is left
// untouched.
func (e *Entry) SetString(i int, text, encoding string) {
	b, err := encodeText(text, encoding)
	if err != nil {
		slog.Warn("row: SetString skipped", "column", e.row.cols[i].Nickname, "encoding", encoding, "err", err)
		return
	}
	e.SetCell(i, b)
}

func (e *Entry) integerCodec(i int, op string) (order.Codec, error) {
	col := &e.row.cols[i]
	switch col.Encoder {
	case EncoderB256:
		return order.Natural, nil
	case EncoderB64E:
		return order.Base64, nil
	case EncoderNone, EncoderBytes:
		return nil, &EncoderError{col.Nickname, op, col.Encoder}
	default:
		panic("unreachable")
	}
}

// SetInteger encodes v using the column's encoder.
func (e *Entry) SetInteger(i int, v uint64) error {
	codec, err := e.integerCodec(i, "SetInteger")
	if err != nil {
		return err
	}
	codec.EncodeTo(e.cell(i), v)
	return nil
}

// GetCell returns a copy of the cell.
func (e *Entry) GetCell(i int) []byte {
	return append([]byte(nil), e.cell(i)...)
}

func (e *Entry) GetByte(i int) byte {
	return e.buf[e.row.offsets[i]]
}

// GetString decodes the cell without its trailing zero bytes. ok is false for
// an empty cell. An unsupported encoding is logged and yields "".
func (e *Entry) GetString(i int, encoding string) (s string, ok bool) {
	c := e.cell(i)
	if len(c) == 0 || c[0] == 0 {
		return "", false
	}
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	s, err := decodeText(c[:n], encoding)
	if err != nil {
		slog.Warn("row: GetString failed", "column", e.row.cols[i].Nickname, "encoding", encoding, "err", err)
		return "", true
	}
	return s, true
}

// GetInteger decodes the cell using the column's encoder.
func (e *Entry) GetInteger(i int) (uint64, error) {
	codec, err := e.integerCodec(i, "GetInteger")
	if err != nil {
		return 0, err
	}
	return codec.Decode(e.cell(i)), nil
}

// String renders the entry as {v1, v2, ...} with native-encoding cell
// strings, <nil> for empty cells.
func (e *Entry) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i := range e.row.cols {
		if i > 0 {
			buf.WriteString(", ")
		}
		if s, ok := e.GetString(i, NativeEncoding); ok {
			buf.WriteString(s)
		} else {
			buf.WriteString("<nil>")
		}
	}
	buf.WriteByte('}')
	return buf.String()
}
