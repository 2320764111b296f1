package services

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/metrics"
	"fitmatch-ai/fitmatch-api/internal/models"
)

// DocumentFormat is a file format the extractor knows how to read.
type DocumentFormat string

const (
	FormatPDF      DocumentFormat = "pdf"
	FormatDOCX     DocumentFormat = "docx"
	FormatDOC      DocumentFormat = "doc"
	FormatText     DocumentFormat = "txt"
	FormatMarkdown DocumentFormat = "md"
	FormatCSV      DocumentFormat = "csv"
)

const (
	decoderRich = "rich"
	decoderPDF  = "pdf"
	decoderText = "text"
)

var mediaTypeFormats = map[string]DocumentFormat{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,

	"application/pdf":           FormatPDF,
	"application/x-pdf":         FormatPDF,
	"application/msword":        FormatDOC,
	"application/x-ole-storage": FormatDOC,
	"text/plain":                FormatText,
	"text/markdown":             FormatMarkdown,
	"text/x-markdown":           FormatMarkdown,
	"text/csv":                  FormatCSV,
	"application/csv":           FormatCSV,

	// Windows browsers report .csv uploads with the Excel type.
	"application/vnd.ms-excel": FormatCSV,
}

var extensionFormats = map[string]DocumentFormat{
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".doc":      FormatDOC,
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".csv":      FormatCSV,
}

// FormatMediaTypes lists the canonical media type of each format.
var FormatMediaTypes = map[DocumentFormat]string{
	FormatPDF:      "application/pdf",
	FormatDOCX:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatDOC:      "application/msword",
	FormatText:     "text/plain",
	FormatMarkdown: "text/markdown",
	FormatCSV:      "text/csv",
}

// decoderPriority is the fallback order once the hinted decoders are exhausted.
var decoderPriority = []string{decoderRich, decoderPDF, decoderText}

type TextExtractor interface {
	Extract(data []byte, declaredType, filename string) (*models.ExtractedText, error)
}

type textExtractor struct {
	pdfParser  PDFParserService
	wordParser WordParserService
	accepted   map[DocumentFormat]bool
}

func NewTextExtractor(pdfParser PDFParserService, wordParser WordParserService, acceptedFormats []string) TextExtractor {
	accepted := make(map[DocumentFormat]bool, len(acceptedFormats))
	for _, f := range acceptedFormats {
		accepted[DocumentFormat(strings.ToLower(f))] = true
	}

	return &textExtractor{
		pdfParser:  pdfParser,
		wordParser: wordParser,
		accepted:   accepted,
	}
}

// Extract implements TextExtractor.
func (e *textExtractor) Extract(data []byte, declaredType, filename string) (*models.ExtractedText, error) {
	if len(data) == 0 {
		return nil, apperrors.EmptyFile(filename)
	}

	declaredFormat := formatFromMediaType(declaredType)
	extFormat := formatFromFilename(filename)
	sniffed := mimetype.Detect(data)
	sniffedFormat := formatFromMediaType(sniffed.String())
	if sniffedFormat == "" && sniffed.Is("application/zip") {
		sniffedFormat = FormatDOCX
	}

	label := describeType(declaredType, sniffed.String())

	claimed := firstFormat(declaredFormat, extFormat, sniffedFormat)
	if claimed != "" && !e.accepted[claimed] {
		return nil, apperrors.UnsupportedFormat(label, fmt.Errorf("format %s is not accepted", claimed))
	}

	var (
		attempts   []error
		corruptErr error
	)

	for _, name := range decoderChain(declaredFormat, extFormat, sniffedFormat) {
		if name == decoderText && isBinaryDocument(sniffed) {
			continue
		}

		result, err := e.decode(name, data)
		if err == nil {
			metrics.ExtractionsTotal.WithLabelValues(name, "ok").Inc()
			result.MediaType = sniffed.String()
			return result, nil
		}

		if errors.Is(err, errNoText) {
			metrics.ExtractionsTotal.WithLabelValues(name, "empty").Inc()
		} else {
			metrics.ExtractionsTotal.WithLabelValues(name, "error").Inc()
			if confirmsFormat(name, sniffed) {
				corruptErr = err
			}
		}
		attempts = append(attempts, fmt.Errorf("%s decoder: %w", name, err))
	}

	if corruptErr != nil {
		return nil, apperrors.CorruptDocument(sniffed.String(), corruptErr)
	}
	return nil, apperrors.UnsupportedFormat(label, errors.Join(attempts...))
}

func (e *textExtractor) decode(name string, data []byte) (*models.ExtractedText, error) {
	switch name {
	case decoderPDF:
		content, err := e.pdfParser.ExtractTextWithMetaData(data)
		if err != nil {
			return nil, err
		}
		return cleaned(content.Text, name, content.PageCount)
	case decoderRich:
		text, err := e.wordParser.ExtractText(data)
		if err != nil {
			return nil, err
		}
		return cleaned(text, name, 0)
	default:
		text, err := DecodePlainText(data)
		if err != nil {
			return nil, err
		}
		return cleaned(text, name, 0)
	}
}

func cleaned(text, decoder string, pages int) (*models.ExtractedText, error) {
	text = CleanText(text)
	if text == "" {
		return nil, errNoText
	}
	return &models.ExtractedText{Text: text, Decoder: decoder, PageCount: pages}, nil
}

// decoderChain orders decoders: those hinted by the declared type, the
// extension and the sniffed content first, then the fixed priority.
func decoderChain(hints ...DocumentFormat) []string {
	var chain []string
	add := func(name string) {
		if name != "" && !slices.Contains(chain, name) {
			chain = append(chain, name)
		}
	}

	for _, f := range hints {
		add(decoderFor(f))
	}
	for _, name := range decoderPriority {
		add(name)
	}
	return chain
}

func decoderFor(f DocumentFormat) string {
	switch f {
	case FormatPDF:
		return decoderPDF
	case FormatDOCX, FormatDOC:
		return decoderRich
	case FormatText, FormatMarkdown, FormatCSV:
		return decoderText
	default:
		return ""
	}
}

// confirmsFormat reports whether the sniffed content really is the format
// the decoder reads, so a decoder failure means damage rather than a
// wrong guess.
func confirmsFormat(decoder string, sniffed *mimetype.MIME) bool {
	switch decoder {
	case decoderPDF:
		return sniffed.Is("application/pdf")
	case decoderRich:
		return sniffed.Is(FormatMediaTypes[FormatDOCX])
	default:
		return false
	}
}

func isBinaryDocument(sniffed *mimetype.MIME) bool {
	for m := sniffed; m != nil; m = m.Parent() {
		if m.Is("application/pdf") || m.Is("application/zip") || m.Is("application/x-ole-storage") {
			return true
		}
	}
	return false
}

func formatFromMediaType(mediaType string) DocumentFormat {
	if mediaType == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		parsed = strings.ToLower(strings.TrimSpace(mediaType))
	}
	return mediaTypeFormats[parsed]
}

func formatFromFilename(filename string) DocumentFormat {
	return extensionFormats[strings.ToLower(filepath.Ext(filename))]
}

func firstFormat(formats ...DocumentFormat) DocumentFormat {
	for _, f := range formats {
		if f != "" {
			return f
		}
	}
	return ""
}

func describeType(declared, detected string) string {
	declared = strings.TrimSpace(declared)
	switch {
	case declared == "":
		return detected
	case formatFromMediaType(declared) == formatFromMediaType(detected):
		return declared
	default:
		return fmt.Sprintf("%s, detected %s", declared, detected)
	}
}
