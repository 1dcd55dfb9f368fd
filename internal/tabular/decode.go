package tabular

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used when no encoding is requested.
const DefaultEncoding = "utf-8"

const byteOrderMark = "\ufeff"

// lookupEncoding resolves an encoding label. WHATWG labels are tried first,
// then IANA names (which cover legacy code pages such as IBM437).
func lookupEncoding(name string) (encoding.Encoding, string, error) {
	if enc, err := htmlindex.Get(name); err == nil {
		canonical, _ := htmlindex.Name(enc)
		return enc, canonical, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return enc, strings.ToLower(canonical), nil
}

// Decode converts raw bytes to text under the named encoding and removes a
// leading byte order mark. An empty name means DefaultEncoding.
func Decode(data []byte, name string) (string, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, canonical, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	// x/text substitutes U+FFFD for invalid UTF-8 instead of failing.
	if canonical == "utf-8" {
		if off := invalidUTF8Offset(data); off >= 0 {
			return "", fmt.Errorf("%w: invalid utf-8 byte 0x%02x at offset %d", ErrDecode, data[off], off)
		}
		return strings.TrimPrefix(string(data), byteOrderMark), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, canonical, err)
	}
	return strings.TrimPrefix(string(out), byteOrderMark), nil
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
