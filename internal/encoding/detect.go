// Package encoding normalizes bank statement files to UTF-8 before
// parsing. Banks export CSVs in whatever encoding their backoffice uses,
// most commonly Windows-1252 or UTF-16 with a BOM.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize covers BOM sniffing plus enough sample text for the charset
// heuristics to work with.
const peekSize = 4096

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// charsetDecoders maps chardet charset names to decoders. Anything not
// listed falls through to Windows-1252, which decodes every byte sequence
// and matches the dominant bank-export encoding.
var charsetDecoders = map[string]*encoding.Decoder{
	"ISO-8859-1":   charmap.Windows1252.NewDecoder(),
	"windows-1252": charmap.Windows1252.NewDecoder(),
	"ISO-8859-9":   charmap.ISO8859_9.NewDecoder(),
	"ISO-8859-15":  charmap.ISO8859_15.NewDecoder(),
}

// NewUTF8Reader wraps r in a reader that yields UTF-8, detecting the
// source encoding from a bounded prefix. Valid UTF-8 input passes through
// untouched apart from BOM stripping.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing statement encoding: %w", err)
	}

	if decoded, ok := decodeBOM(br, buf); ok {
		return decoded, nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if decoder, ok := charsetDecoders[result.Charset]; ok {
			return transform.NewReader(br, decoder), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

func decodeBOM(br *bufio.Reader, buf []byte) (io.Reader, bool) {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, true
	case bytes.HasPrefix(buf, []byte{0xFF, 0xFE}):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), true
	case bytes.HasPrefix(buf, []byte{0xFE, 0xFF}):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), true
	}

	return nil, false
}
