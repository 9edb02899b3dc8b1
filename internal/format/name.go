package format

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeName converts a 32-byte UTF-16LE name field into UTF-8. Decoding
// stops at the first zero code unit.
func DecodeName(b []byte) (string, error) {
	if err := Need(b, NameSize, "name"); err != nil {
		return "", err
	}
	field := b[:NameSize]
	n := NameUnits
	for i := 0; i < NameUnits; i++ {
		if ReadU16(field, i*2) == 0 {
			n = i
			break
		}
	}
	raw := field[:n*2]
	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("name: %w", err)
	}
	// The decoder substitutes U+FFFD for unpaired surrogates; only accept it
	// when the field actually stored U+FFFD.
	if bytes.ContainsRune(decoded, utf8.RuneError) && !hasUnit(raw, 0xfffd) {
		return "", fmt.Errorf("name: unpaired surrogate: %w", ErrInvalidData)
	}
	return string(decoded), nil
}

// EncodeName writes s into dst as a zero padded 32-byte UTF-16LE field.
// dst is left untouched on error.
func EncodeName(dst []byte, s string) error {
	if err := Need(dst, NameSize, "name"); err != nil {
		return err
	}
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("name %q: embedded NUL: %w", s, ErrInvalidData)
	}
	encoded, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("name %q: %w", s, err)
	}
	if len(encoded) > NameSize {
		return fmt.Errorf("name %q (%d units): %w", s, len(encoded)/2, ErrNameTooLong)
	}
	n := copy(dst[:NameSize], encoded)
	clear(dst[n:NameSize])
	return nil
}

func hasUnit(b []byte, unit uint16) bool {
	for i := 0; i+1 < len(b); i += 2 {
		if ReadU16(b, i) == unit {
			return true
		}
	}
	return false
}
