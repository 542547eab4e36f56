package row

import (
	"strings"

	"github.com/andreyvit/rowdb/order"
)

// ToPropertyForm renders the entry as nick1=val1,nick2=val2,... optionally
// wrapped in braces. Binary and String cells are written as raw bytes,
// Cardinal cells with the b64e encoder as base64 digits. Values are not
// escaped, so cells containing ',' or '=' do not survive ParseEntry.
func (e *Entry) ToPropertyForm(braces bool) (string, error) {
	var buf strings.Builder
	buf.Grow(e.row.objectSize + 4*len(e.row.cols))
	if braces {
		buf.WriteByte('{')
	}
	for i, col := range e.row.cols {
		switch col.Kind {
		case Binary, String:
			buf.WriteString(col.Nickname)
			buf.WriteByte('=')
			buf.Write(e.cell(i))
		case Cardinal:
			if col.Encoder != EncoderB64E {
				return "", &SerializationError{col.Nickname, col.Kind, col.Encoder}
			}
			buf.WriteString(col.Nickname)
			buf.WriteByte('=')
			v := order.Base64.Decode(e.cell(i))
			buf.Write(order.Base64.EncodeSmart(v, col.Width))
		default:
			return "", &SerializationError{col.Nickname, col.Kind, col.Encoder}
		}
		if i < len(e.row.cols)-1 {
			buf.WriteByte(',')
		}
	}
	if braces {
		buf.WriteByte('}')
	}
	return buf.String(), nil
}

// ParseEntry parses the property form produced by ToPropertyForm. Tokens are
// split on ',' and then on the first '='; names and values are trimmed of
// spaces and control bytes. Tokens naming unknown columns are skipped.
func (r *Row) ParseEntry(external string) *Entry {
	if strings.HasPrefix(external, "{") {
		external = strings.TrimSuffix(external[1:], "}")
	}
	e := r.NewEntry()
	if external == "" {
		return e
	}
	for _, tok := range strings.Split(external, ",") {
		nick, val, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		nick = trimControl(nick)
		if nick == "" {
			continue
		}
		i := r.ColumnIndex(nick)
		if i < 0 {
			continue
		}
		e.SetCell(i, []byte(trimControl(val)))
	}
	return e
}

func isControlOrSpace(c rune) bool {
	return c <= ' '
}

func trimControl(s string) string {
	return strings.TrimFunc(s, isControlOrSpace)
}
