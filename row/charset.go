package row

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// NativeEncoding is used when an empty encoding name is given: Go strings are
// stored as-is.
const NativeEncoding = ""

var charsets sync.Map // lowercased name -> encoding.Encoding

func lookupCharset(name string) (encoding.Encoding, error) {
	key := strings.ToLower(name)
	if enc, ok := charsets.Load(key); ok {
		return enc.(encoding.Encoding), nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	charsets.Store(key, enc)
	return enc, nil
}

func encodeText(text, name string) ([]byte, error) {
	if name == NativeEncoding {
		return []byte(text), nil
	}
	enc, err := lookupCharset(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(text), nil
	}
	encoder := enc.NewEncoder()
	if b, err := encoder.Bytes([]byte(text)); err == nil {
		return b, nil
	}
	// runes the charset cannot represent become '?'
	text = strings.Map(func(r rune) rune {
		if _, err := encoder.String(string(r)); err != nil {
			return '?'
		}
		return r
	}, text)
	return encoder.Bytes([]byte(text))
}

func decodeText(b []byte, name string) (string, error) {
	if name == NativeEncoding {
		return string(b), nil
	}
	enc, err := lookupCharset(name)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
