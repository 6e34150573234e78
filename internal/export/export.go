// Package export writes generated contract text to downloadable documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "pdf" or "docx" in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FileName is the default download name for a generated contract.
func (f Format) FileName() string {
	return "generated-contract." + string(f)
}

// Write renders text in the given format.
func Write(w io.Writer, format Format, text string) error {
	switch format {
	case FormatPDF:
		return WritePDF(w, text)
	case FormatDOCX:
		return WriteDOCX(w, text)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}
