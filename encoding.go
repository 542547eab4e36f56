package rowdb

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type appendWriter struct {
	Buf []byte
}

func (w *appendWriter) Write(b []byte) (int, error) {
	w.Buf = append(w.Buf, b...)
	return len(b), nil
}

// encodeMsgPack appends the MsgPack encoding of v to buf. Map keys are sorted
// so equal values produce equal bytes.
func encodeMsgPack(buf []byte, v any) []byte {
	w := appendWriter{buf}
	enc := msgpack.GetEncoder()
	enc.ResetDict(&w, nil)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		panic(fmt.Errorf("failed to encode %T using MsgPack: %w", v, err))
	}
	return w.Buf
}

func decodeMsgPack(buf []byte, v any) error {
	var r bytes.Reader
	r.Reset(buf)
	dec := msgpack.GetDecoder()
	dec.ResetDict(&r, nil)
	err := dec.Decode(v)
	msgpack.PutDecoder(dec)
	if err != nil {
		return dataErrf(buf, 0, err, "failed to decode msgpack into %T", v)
	}
	return nil
}
