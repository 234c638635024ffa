// Package textextract pulls plain text out of uploaded transcript files.
package textextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedType = errors.New("unsupported transcript file type")

// Document is the text of one file.
type Document struct {
	Content string
	Pages   int
	Type    string
}

// SupportedTypes lists the extensions accepted by Extract.
func SupportedTypes() []string {
	return []string{".txt", ".md", ".pdf", ".docx"}
}

// FromBytes picks the extractor from the extension of fileName.
func FromBytes(fileName string, data []byte) (*Document, error) {
	return Extract(bytes.NewReader(data), int64(len(data)), filepath.Ext(fileName))
}

// Extract reads size bytes of data as fileType, which may be an extension
// with or without the dot, or a MIME type.
func Extract(data io.ReaderAt, size int64, fileType string) (*Document, error) {
	switch strings.ToLower(fileType) {
	case ".pdf", "pdf", "application/pdf":
		return extractPDF(data, size)
	case ".docx", "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDOCX(data, size)
	case ".txt", "txt", "text/plain", ".md", "md", "text/markdown":
		return extractTXT(data, size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, fileType)
	}
}

// extractPDF recovers from panics inside the PDF reader, which some
// malformed cross-reference tables trigger.
func extractPDF(data io.ReaderAt, size int64) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("open PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &Document{Content: strings.TrimSpace(buf.String()), Pages: numPages, Type: "pdf"}, nil
}

func extractDOCX(data io.ReaderAt, size int64) (*Document, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		return &Document{Content: stripXMLTags(string(content)), Pages: 1, Type: "docx"}, nil
	}
	return nil, fmt.Errorf("open DOCX: word/document.xml not found")
}

func extractTXT(data io.ReaderAt, size int64) (*Document, error) {
	buf := make([]byte, size)
	if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read text: %w", err)
	}
	if !utf8.Valid(buf) {
		return nil, fmt.Errorf("read text: not valid UTF-8")
	}
	return &Document{Content: string(bytes.TrimSpace(buf)), Pages: 1, Type: "txt"}, nil
}

// stripXMLTags drops markup, collapses whitespace and decodes entities.
func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return html.UnescapeString(strings.Join(strings.Fields(result.String()), " "))
}
