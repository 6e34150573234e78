package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"contract-scanner/internal/shared/telemetry"
)

// MaxFileSize is the largest upload accepted for extraction.
const MaxFileSize int64 = 10 * 1024 * 1024

// Kind is the document format, decided by file extension.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

var (
	ErrExtraction      = errors.New("extraction failed")
	ErrUnsupportedType = fmt.Errorf("%w: unsupported file type, upload a PDF, DOCX, or TXT file", ErrExtraction)
	ErrTooLarge        = fmt.Errorf("%w: file is too large, upload a file smaller than 10MB", ErrExtraction)
	ErrEmptyDocument   = errors.New("no text could be extracted from the file; it may be empty, contain only images, or be a scanned document")
)

// Document describes an uploaded file. It is never persisted.
type Document struct {
	Name     string
	Size     int64
	Kind     Kind
	Warnings []string
}

// KindFromName maps the extension after the last dot to a Kind.
func KindFromName(name string) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), "."))
	switch ext {
	case "pdf":
		return KindPDF, nil
	case "docx":
		return KindDOCX, nil
	case "txt":
		return KindText, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Extract validates the file type and declared size, then reads r and
// returns the document's plain text. Type and size are checked before any
// byte is read.
func Extract(ctx context.Context, name string, size int64, r io.Reader) (Document, string, error) {
	kind, err := KindFromName(name)
	if err != nil {
		return Document{}, "", err
	}
	if size > MaxFileSize {
		return Document{}, "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return Document{}, "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return Document{}, "", fmt.Errorf("%w: read %s: %v", ErrExtraction, name, err)
	}
	if int64(len(data)) > MaxFileSize {
		return Document{}, "", ErrTooLarge
	}
	if size <= 0 {
		size = int64(len(data))
	}
	return extract(ctx, Document{Name: name, Size: size, Kind: kind}, data)
}

// ExtractBytes is Extract for an in-memory payload.
func ExtractBytes(ctx context.Context, name string, data []byte) (Document, string, error) {
	return Extract(ctx, name, int64(len(data)), bytes.NewReader(data))
}

func extract(ctx context.Context, doc Document, data []byte) (Document, string, error) {
	telemetry.Info("extract.start", map[string]any{
		"name": doc.Name,
		"kind": string(doc.Kind),
		"size": doc.Size,
	})

	var (
		text     string
		warnings []string
		err      error
	)
	switch doc.Kind {
	case KindPDF:
		text, err = extractPDF(ctx, data)
	case KindDOCX:
		text, warnings, err = extractDOCX(data)
	case KindText:
		text, err = extractTXT(data)
	}
	if err != nil {
		telemetry.Warn("extract.failed", map[string]any{"name": doc.Name, "kind": string(doc.Kind), "error": err})
		if errors.Is(err, ErrExtraction) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Document{}, "", err
		}
		return Document{}, "", fmt.Errorf("%w: %s: %v", ErrExtraction, doc.Kind, err)
	}

	doc.Warnings = warnings
	if len(warnings) > 0 {
		telemetry.Warn("extract.warnings", map[string]any{"name": doc.Name, "warnings": warnings})
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, "", ErrEmptyDocument
	}

	telemetry.Info("extract.complete", map[string]any{
		"name":  doc.Name,
		"kind":  string(doc.Kind),
		"chars": utf8.RuneCountInString(text),
	})
	return doc, text, nil
}

// extractTXT decodes the bytes as UTF-8. Invalid sequences become U+FFFD so
// legacy-encoded files still load.
func extractTXT(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}
