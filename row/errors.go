package row

import (
	"errors"
	"fmt"
)

var (
	ErrSchema                   = errors.New("invalid row structure")
	ErrIncompatibleEncoder      = errors.New("incompatible encoder")
	ErrSerializationUnsupported = errors.New("serialization not implemented")
)

// SchemaError reports a malformed structure string or column token.
type SchemaError struct {
	Input string
	Token string
	Msg   string
	Err   error
}

func schemaErrf(input, token string, err error, format string, args ...any) error {
	return &SchemaError{input, token, fmt.Sprintf(format, args...), err}
}

func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchema, e.Err}
	}
	return []error{ErrSchema}
}

func (e *SchemaError) Error() string {
	var s string
	if e.Token != "" && e.Token != e.Input {
		s = fmt.Sprintf("%s: token %q in %q", e.Msg, e.Token, e.Input)
	} else {
		s = fmt.Sprintf("%s: %q", e.Msg, e.Input)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// EncoderError is returned when an integer accessor is used on a column
// whose encoder cannot hold integers.
type EncoderError struct {
	Column  string
	Op      string
	Encoder Encoder
}

func (e *EncoderError) Unwrap() error { return ErrIncompatibleEncoder }

func (e *EncoderError) Error() string {
	switch e.Encoder {
	case EncoderNone:
		return fmt.Sprintf("%s(%s): no encoder given", e.Op, e.Column)
	default:
		return fmt.Sprintf("%s(%s): not applicable to encoder %s", e.Op, e.Column, e.Encoder)
	}
}

// SerializationError is returned by Entry.ToPropertyForm for columns whose
// kind/encoder combination has no text rendering.
type SerializationError struct {
	Column  string
	Kind    CellKind
	Encoder Encoder
}

func (e *SerializationError) Unwrap() error { return ErrSerializationUnsupported }

func (e *SerializationError) Error() string {
	return fmt.Sprintf("property form of %s (%s, encoder %s): %v", e.Column, e.Kind, e.Encoder, ErrSerializationUnsupported)
}
