package docs

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// loadText reads a plain-text file, trying utf-8, BOM-marked utf-16, and
// latin-1 in that order.
func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return decodeText(path, data)
}

func decodeText(path string, data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	if hasUTF16BOM(data) {
		// The decoder consumes the BOM and picks the matching byte order.
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		decoded, err := dec.Bytes(data)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}

	// Binary files full of NUL bytes are not text in any encoding we accept.
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%w: %s", ErrDecodeFailure, path)
	}

	// latin-1 maps every byte to a rune, so this always succeeds.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecodeFailure, path)
	}
	return string(decoded), nil
}

func hasUTF16BOM(data []byte) bool {
	return len(data) >= 2 &&
		((data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF))
}
