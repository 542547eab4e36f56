package row

import (
	"strconv"
	"strings"
)

type CellKind int

const (
	Undefined CellKind = iota
	Boolean
	Binary
	String
	Cardinal
)

func (k CellKind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Boolean:
		return "boolean"
	case Binary:
		return "binary"
	case String:
		return "string"
	case Cardinal:
		return "cardinal"
	default:
		return "cellkind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Encoder selects how integers are stored in a cell.
type Encoder int

const (
	EncoderNone  Encoder = iota
	EncoderB256          // big-endian base-256, see order.Natural
	EncoderB64E          // enhanced base64, see order.Base64
	EncoderBytes         // raw bytes, integers not applicable
)

func (enc Encoder) String() string {
	switch enc {
	case EncoderNone:
		return "none"
	case EncoderB256:
		return "b256"
	case EncoderB64E:
		return "b64e"
	case EncoderBytes:
		return "bytes"
	default:
		return "encoder(" + strconv.Itoa(int(enc)) + ")"
	}
}

func parseEncoder(s string) (Encoder, bool) {
	switch s {
	case "b256":
		return EncoderB256, true
	case "b64e":
		return EncoderB64E, true
	case "bytes":
		return EncoderBytes, true
	case "none", "":
		return EncoderNone, true
	default:
		return EncoderNone, false
	}
}

// Column describes one fixed-width field of a Row.
type Column struct {
	Nickname string
	Kind     CellKind
	Encoder  Encoder
	Width    int
	Comment  string
}

type typeDef struct {
	kind    CellKind
	width   int // 0 means the token must give one
	encoder Encoder
}

var typeDefs = map[string]typeDef{
	"boolean":  {Boolean, 1, EncoderNone},
	"byte":     {Cardinal, 1, EncoderB256},
	"short":    {Cardinal, 2, EncoderB256},
	"int":      {Cardinal, 4, EncoderB256},
	"long":     {Cardinal, 8, EncoderB256},
	"byte[]":   {Binary, 0, EncoderNone},
	"char":     {String, 1, EncoderNone},
	"String":   {String, 0, EncoderNone},
	"Cardinal": {Cardinal, 0, EncoderNone},
}

var typeNames = map[CellKind]string{
	Boolean:  "boolean",
	Binary:   "byte[]",
	String:   "String",
	Cardinal: "Cardinal",
}

// ParseColumn parses a single column token such as "<pivot-12>",
// "Cardinal UDate-3 {b64e}" or "String name-40 'display name'". A token
// without a type name is a Binary column.
func ParseColumn(token string) (Column, error) {
	def := strings.TrimSpace(token)
	def = strings.TrimPrefix(def, "<")
	def = strings.TrimSuffix(def, ">")
	def = strings.TrimSpace(def)

	col := Column{Kind: Binary}
	var td typeDef
	if name, rest, ok := strings.Cut(def, " "); ok {
		td, ok = typeDefs[name]
		switch {
		case ok:
			col.Kind = td.kind
			col.Width = td.width
			col.Encoder = td.encoder
			def = strings.TrimSpace(rest)
		case strings.Contains(name, "-"):
			// untyped "nick-width 'comment'"
		default:
			return Column{}, schemaErrf(token, name, nil, "undefined type")
		}
	}

	nameAndWidth, extra, _ := strings.Cut(def, " ")
	if nick, w, ok := strings.Cut(nameAndWidth, "-"); ok {
		width, err := strconv.Atoi(w)
		if err != nil {
			return Column{}, schemaErrf(token, w, err, "invalid cell width")
		}
		col.Nickname = nick
		col.Width = width
	} else {
		col.Nickname = nameAndWidth
	}
	if col.Nickname == "" {
		return Column{}, schemaErrf(token, "", nil, "missing column nickname")
	}
	if col.Width <= 0 {
		return Column{}, schemaErrf(token, "", nil, "no positive cell width given for %s", col.Nickname)
	}

	extra = strings.TrimSpace(extra)
	if start := strings.IndexByte(extra, '{'); start >= 0 {
		end := strings.IndexByte(extra[start:], '}')
		if end < 0 {
			return Column{}, schemaErrf(token, extra[start:], nil, "unterminated encoder")
		}
		name := strings.TrimSpace(extra[start+1 : start+end])
		enc, ok := parseEncoder(name)
		if !ok {
			return Column{}, schemaErrf(token, name, nil, "undefined encoder")
		}
		col.Encoder = enc
		extra = strings.TrimSpace(extra[:start] + extra[start+end+1:])
	}
	col.Comment = unquote(extra)
	if err := col.Validate(); err != nil {
		return Column{}, wrapStructureErr(token, err)
	}
	return col, nil
}

// Validate reports an error if String would render the column as a token
// that ParseColumn cannot read back.
func (col Column) Validate() error {
	switch {
	case col.Nickname == "":
		return schemaErrf(col.String(), "", nil, "missing column nickname")
	case strings.ContainsAny(col.Nickname, nicknameSpecials):
		return schemaErrf(col.String(), col.Nickname, nil, "column nickname contains one of %q", nicknameSpecials)
	case col.Width <= 0:
		return schemaErrf(col.String(), "", nil, "no positive cell width given for %s", col.Nickname)
	case col.Kind < Undefined || col.Kind > Cardinal:
		return schemaErrf(col.String(), col.Kind.String(), nil, "undefined type")
	case col.Encoder < EncoderNone || col.Encoder > EncoderBytes:
		return schemaErrf(col.String(), col.Encoder.String(), nil, "undefined encoder")
	case strings.ContainsAny(col.Comment, commentSpecials):
		return schemaErrf(col.String(), col.Comment, nil, "column comment contains one of %q", commentSpecials)
	}
	return nil
}

const (
	nicknameSpecials = " -,<>{}'\""
	commentSpecials  = ",{}"
)

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '\'' || q == '"') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// String renders the column back into its token form.
func (col Column) String() string {
	var buf strings.Builder
	buf.WriteByte('<')
	if name := typeNames[col.Kind]; name != "" {
		buf.WriteString(name)
		buf.WriteByte(' ')
	}
	buf.WriteString(col.Nickname)
	buf.WriteByte('-')
	buf.WriteString(strconv.Itoa(col.Width))
	if col.Encoder != EncoderNone {
		buf.WriteString(" {")
		buf.WriteString(col.Encoder.String())
		buf.WriteByte('}')
	}
	if col.Comment != "" {
		buf.WriteString(" '")
		buf.WriteString(col.Comment)
		buf.WriteByte('\'')
	}
	buf.WriteByte('>')
	return buf.String()
}
