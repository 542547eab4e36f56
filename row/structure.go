package row

import "strings"

const (
	pivotMarker    = ",'='"
	propertyMarker = ",'|'"
)

// ParseRow parses a structure string:
//
//	[pivot ",'='" ","] column ("," column)* [",'|'" tail]
//
// for example
//
//	<pivot-12>,'=',<UDate-3>,<VDate-3>,<LCount-2>,<Flags-1>
//
// The pivot, if present, becomes column 0. The property segment after the
// ",'|'" marker is recognized but not turned into columns.
func ParseRow(structure string) (*Row, error) {
	s := structure
	var cols []Column

	if p := strings.Index(s, pivotMarker); p >= 0 {
		col, err := ParseColumn(s[:p])
		if err != nil {
			return nil, wrapStructureErr(structure, err)
		}
		cols = append(cols, col)
		s = s[p+len(pivotMarker):]
		if s != "" {
			if s[0] != ',' {
				return nil, schemaErrf(structure, s, nil, "expected ',' after pivot marker")
			}
			s = s[1:]
		}
	}

	if p := strings.Index(s, propertyMarker); p >= 0 {
		s = s[:p]
	}

	if s != "" {
		for _, tok := range strings.Split(s, ",") {
			if strings.TrimSpace(tok) == "" {
				return nil, schemaErrf(structure, "", nil, "empty column definition")
			}
			col, err := ParseColumn(tok)
			if err != nil {
				return nil, wrapStructureErr(structure, err)
			}
			cols = append(cols, col)
		}
	}

	if len(cols) == 0 {
		return nil, schemaErrf(structure, "", nil, "no columns defined")
	}
	return NewRow(cols...), nil
}

// MustParseRow is like ParseRow but panics on error. Intended for
// package-level schema definitions.
func MustParseRow(structure string) *Row {
	r, err := ParseRow(structure)
	if err != nil {
		panic(err)
	}
	return r
}

func wrapStructureErr(structure string, err error) error {
	if se, ok := err.(*SchemaError); ok {
		return &SchemaError{
			Input: structure,
			Token: se.Input,
			Msg:   se.Msg,
			Err:   se.Err,
		}
	}
	return err
}
