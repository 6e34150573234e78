package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page layout in millimetres.
const (
	pdfFontSize   = 12
	pdfMarginX    = 15
	pdfTopY       = 20
	pdfTextWidth  = 180
	pdfLineHeight = 7
	pdfMaxY       = 280
)

// WritePDF lays text out on A4 pages, wrapped to the text width, starting a
// new page once the cursor passes the bottom limit.
func WritePDF(w io.Writer, text string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont("Helvetica", "", pdfFontSize)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	y := float64(pdfTopY)
	for _, line := range doc.SplitText(latin1(text), pdfTextWidth) {
		if y > pdfMaxY {
			doc.AddPage()
			y = pdfTopY
		}
		doc.Text(pdfMarginX, y, tr(line))
		y += pdfLineHeight
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// latin1 replaces runes the core fonts cannot encode. Typographic quotes and
// dashes fold to their ASCII forms first.
func latin1(s string) string {
	s = strings.NewReplacer(
		"\r\n", "\n",
		"‘", "'", "’", "'",
		"“", "\"", "”", "\"",
		"–", "-", "—", "-",
		"…", "...",
	).Replace(s)
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}
