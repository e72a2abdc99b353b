// internal/ats/extract/extract.go

// Package extract turns resume document binaries into plain text. Supported
// formats are PDF, DOCX and plain text, sniffed from the bytes rather than
// trusting an upload-time MIME type.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ExtractionError reports that a document could not be parsed. The reason is
// a short diagnostic intended for operators, never for end users.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return e.Reason
}

func newExtractionError(format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{Reason: fmt.Sprintf(format, args...)}
}

// Extractor parses resume binaries into text.
type Extractor struct {
	timeout time.Duration
}

// New creates an Extractor. A timeout of zero disables the parse deadline.
func New(timeout time.Duration) *Extractor {
	return &Extractor{timeout: timeout}
}

// Extract returns the document's text content with reading order preserved
// and whitespace untouched. A structurally valid document with no text layer
// (e.g. a scanned PDF) yields an empty string and a nil error; only parse
// failures return an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", newExtractionError("empty document")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		// The underlying parsers panic on some corrupt inputs; contain
		// that here so the pipeline sees a parse failure, not a crash.
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: newExtractionError("parser panic: %v", r)}
			}
		}()
		text, err := parse(data)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", newExtractionError("extraction timed out: %v", ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}

func parse(data []byte) (string, error) {
	switch sniff(data) {
	case kindPDF:
		return parsePDF(data)
	case kindDOCX:
		return parseDOCX(data)
	case kindText:
		return string(data), nil
	default:
		return "", newExtractionError("unrecognized document format")
	}
}

type documentKind int

const (
	kindUnknown documentKind = iota
	kindPDF
	kindDOCX
	kindText
)

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04")
)

// sniff classifies the binary by magic bytes. DOCX is a zip container; a
// bare zip that is not a DOCX fails later in the parser with a diagnostic.
func sniff(data []byte) documentKind {
	if bytes.HasPrefix(data, pdfMagic) {
		return kindPDF
	}
	if bytes.HasPrefix(data, zipMagic) {
		return kindDOCX
	}
	if looksLikeText(data) {
		return kindText
	}
	return kindUnknown
}

func looksLikeText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, b := range data {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			return false
		}
	}
	return true
}

func parsePDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newExtractionError("failed to read pdf: %v", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func parseDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newExtractionError("failed to parse docx: %v", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
