package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	errNoText        = errors.New("no text content found")
	errBinaryContent = errors.New("content is binary, not text")
)

// maxControlRatio is the share of control characters above which decoded
// content is treated as binary.
const maxControlRatio = 0.02

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodePlainText decodes text files (plain, Markdown, CSV). UTF-8 is the
// default; byte order marks select UTF-16, and input that is not valid
// UTF-8 is read as Windows-1252.
func DecodePlainText(data []byte) (string, error) {
	var text string

	switch {
	case bytes.HasPrefix(data, bomUTF8), bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", fmt.Errorf("failed to decode text: %w", err)
		}
		text = string(decoded)
	case utf8.Valid(data):
		text = string(data)
	default:
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode text: %w", err)
		}
		text = string(decoded)
	}

	if isBinary(text) {
		return "", errBinaryContent
	}
	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}

	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

func isBinary(text string) bool {
	if strings.ContainsRune(text, 0) {
		return true
	}

	total, control := 0, 0
	for _, r := range text {
		total++
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' && r != '\f' {
			control++
		}
	}
	if total == 0 {
		return false
	}
	return float64(control)/float64(total) > maxControlRatio
}
