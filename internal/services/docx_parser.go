package services

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/nguyenthenguyen/docx"
)

// oleSignature opens every legacy Office (Compound File Binary) document.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// minLegacyRun is the shortest printable run kept from a legacy .doc file.
const minLegacyRun = 12

type WordParserService interface {
	ExtractText(data []byte) (string, error)
}

type wordParserService struct{}

func NewWordParserService() WordParserService {
	return &wordParserService{}
}

func (w *wordParserService) ExtractText(data []byte) (string, error) {
	if bytes.HasPrefix(data, oleSignature) {
		return extractLegacyWordText(data)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	text, err := wordprocessingMLToText(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to read docx body: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}

	return text, nil
}

// wordprocessingMLToText keeps the run text of document.xml, one line per
// paragraph.
func wordprocessingMLToText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false

	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

// extractLegacyWordText recovers readable runs from a Word 97-2003 file.
// Body text is stored either as 8-bit characters or as UTF-16LE, so both
// encodings are scanned.
func extractLegacyWordText(data []byte) (string, error) {
	var runs []string
	runs = append(runs, printableRuns(data, 1)...)
	runs = append(runs, printableRuns(data, 2)...)

	var kept []string
	for _, run := range runs {
		if looksLikeProse(run) {
			kept = append(kept, run)
		}
	}

	if len(kept) == 0 {
		return "", errNoText
	}
	return strings.Join(kept, "\n"), nil
}

// printableRuns scans data with the given character width (1 for 8-bit,
// 2 for UTF-16LE) and returns maximal runs of printable characters.
func printableRuns(data []byte, width int) []string {
	var runs []string
	var current strings.Builder
	length := 0

	flush := func() {
		if length >= minLegacyRun {
			runs = append(runs, strings.TrimSpace(current.String()))
		}
		current.Reset()
		length = 0
	}

	for i := 0; i+width <= len(data); i += width {
		c := rune(data[i])
		if width == 2 {
			c = rune(data[i]) | rune(data[i+1])<<8
		}

		switch {
		case c == '\r' || c == '\n':
			current.WriteRune('\n')
			length++
		case c == '\t' || (c >= 0x20 && c < 0x7F) || (width == 2 && c >= 0xA0 && unicode.IsPrint(c)):
			current.WriteRune(c)
			length++
		default:
			flush()
		}
	}
	flush()

	return runs
}

func looksLikeProse(run string) bool {
	letters, spaces := 0, 0
	for _, r := range run {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
			spaces++
		}
	}
	total := len([]rune(run))
	return spaces > 0 && total > 0 && letters*2 >= total
}
