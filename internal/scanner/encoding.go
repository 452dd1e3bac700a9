package scanner

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Decode returns a reader yielding content as UTF-8 together with the name
// of the encoding it was decoded from.
//
// The encoding is determined from a byte order mark, then from contentType
// (an HTTP Content-Type value, may be empty), then from a <meta> charset
// declaration in the first 1024 bytes. Undeclared content that is valid
// UTF-8 is passed through unchanged.
//
// Design decision: We decode before parsing instead of relying on the
// parser's UTF-8 assumption because metrics tools commonly write reports
// in the platform default encoding (windows-1252, ISO-8859-1), where
// non-ASCII identifiers would otherwise turn into replacement characters.
func Decode(content []byte, contentType string) (io.Reader, string) {
	enc, name, _ := charset.DetermineEncoding(content, contentType)
	if enc == nil || enc == encoding.Nop {
		return bytes.NewReader(content), name
	}
	return transform.NewReader(bytes.NewReader(content), enc.NewDecoder()), name
}
