package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extraction boundary errors.
var (
	// ErrNotFound means the document path does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUnreadable means the document exists but could not be parsed.
	ErrUnreadable = errors.New("document unreadable")
)

// Parser converts raw document bytes into an ordered sequence of page texts.
// What a "page" is depends on the format: PDFs keep their real page
// boundaries, structured formats split on headings, plain text on paragraph
// breaks.
type Parser interface {
	Pages(r io.Reader, filename string) ([]string, error)
}

// PDFFallbackPdftotext controls whether PDF extraction falls back to the
// pdftotext binary when the native reader yields nothing. Set once at
// startup from configuration.
var PDFFallbackPdftotext = true

// SupportedExtensions lists file extensions this tool can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ExtractPages reads a document from disk and returns its page texts in
// order. It reports ErrNotFound for a missing path and ErrUnreadable for a
// document that cannot be parsed.
func ExtractPages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %v: %w", path, err, ErrUnreadable)
	}
	defer f.Close()

	name := filepath.Base(path)
	p, err := ForFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, ErrUnreadable)
	}

	pages, err := p.Pages(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, ErrUnreadable)
	}
	return pages, nil
}
